package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/rs/zerolog/log"

	orchestratorx "github.com/robocare/support-agent/agent/agents/orchestrator"
	supportx "github.com/robocare/support-agent/agent/agents/support"
	faqx "github.com/robocare/support-agent/agent/faq"
	llmx "github.com/robocare/support-agent/agent/llm"
	ordersx "github.com/robocare/support-agent/agent/orders"
	promptx "github.com/robocare/support-agent/agent/prompt"
	statex "github.com/robocare/support-agent/agent/state"
	toolx "github.com/robocare/support-agent/agent/tool"
	configx "github.com/robocare/support-agent/pkg/config"
	_ "github.com/robocare/support-agent/pkg/logger/autoload"
	openrouterx "github.com/robocare/support-agent/pkg/openrouter"
)

type AppConfig struct {
	Username      string `envconfig:"SUPPORT_USERNAME" default:"guest"`
	SessionStore  string `envconfig:"SESSION_STORE" default:"memory"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
}

func main() {
	loadFAQPath := flag.String("load-faq", "", "path to a FAQ JSON file; load it into qdrant and exit")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("")

	embedClient := openrouterx.NewClient(openrouterx.Config{
		BaseURL: appCfg.OpenAIBaseURL,
		APIKey:  appCfg.OpenAIAPIKey,
	})
	if embedClient == nil {
		log.Fatal().Msg("failed to initialize embeddings client")
	}
	embedder, err := faqx.NewOpenAIEmbedder(embedClient, *configx.MustNew[faqx.EmbedderConfig]("EMBEDDING"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize embedder")
	}

	faqCfg := configx.MustNew[faqx.Config]("QDRANT")
	qdrantClient, err := faqx.NewClient(*faqCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to qdrant")
	}

	if *loadFAQPath != "" {
		if err := loadFAQ(ctx, *loadFAQPath, qdrantClient, embedder, *faqCfg); err != nil {
			log.Fatal().Err(err).Str("path", *loadFAQPath).Msg("FAQ load failed")
		}
		log.Info().Str("collection", faqCfg.Collection).Msg("FAQ load complete")
		return
	}

	retriever, err := faqx.NewRetriever(qdrantClient, embedder, faqCfg.Collection)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize FAQ retriever")
	}

	orderStore := ordersx.MustNew(*configx.MustNew[ordersx.Config]("ORDERS"))
	defer orderStore.Close()
	if err := orderStore.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize order store")
	}

	toolInfos, gateway, err := toolx.Build(orderStore, retriever)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build tool catalog")
	}

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid model config")
	}
	orCfg := llmCfg.SupportOpenRouter()
	chatModel, err := orCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize chat model")
	}

	agent, err := supportx.New(ctx, chatModel, promptx.LoadPromptSet().Support, toolInfos)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize support agent")
	}

	sessions, err := newSessionStore(*appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session store")
	}

	orchestrator, err := orchestratorx.New(ctx, sessions, agent, gateway)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize orchestrator")
	}

	runChatLoop(ctx, orchestrator, appCfg.Username)
}

func newSessionStore(cfg AppConfig) (statex.Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.SessionStore)) {
	case "", "memory":
		return statex.NewMemoryStore(), nil
	case "upstash":
		return statex.NewUpstashRedisStore(*configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS"))
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}

func runChatLoop(ctx context.Context, o *orchestratorx.Orchestrator, username string) {
	sessionID := uuid.NewString()
	log.Info().Str("session_id", sessionID).Str("username", username).Msg("chat session started")

	fmt.Printf("Connected as %s. Type a message, or \"exit\" to quit.\n", username)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			break
		}

		out, err := o.HandleMessage(ctx, sessionID, username, text)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			fmt.Println("Sorry, something went wrong on our side. Please try again.")
			continue
		}
		fmt.Println(out.Reply)
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("stdin read failed")
	}
	fmt.Println("Goodbye.")
}

func loadFAQ(ctx context.Context, path string, client *qdrant.Client, embedder faqx.Embedder, cfg faqx.Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var entries []faqx.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parse FAQ file: %w", err)
	}

	loader, err := faqx.NewLoader(client, embedder, cfg)
	if err != nil {
		return err
	}
	if err := loader.EnsureCollection(ctx); err != nil {
		return err
	}
	return loader.Upsert(ctx, entries)
}
