package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	contractx "github.com/robocare/support-agent/agent/contract"
	faqx "github.com/robocare/support-agent/agent/faq"
	ordersx "github.com/robocare/support-agent/agent/orders"
)

type fakeOrderBook struct {
	createOrder ordersx.Order
	createErr   error
	getOrder    ordersx.Order
	getFound    bool
	getErr      error
	cancelMatch bool
	cancelErr   error

	cancelCalls [][2]string
}

func (f *fakeOrderBook) Create(ctx context.Context, username, item string, quantity int64) (ordersx.Order, error) {
	if f.createErr != nil {
		return ordersx.Order{}, f.createErr
	}
	order := f.createOrder
	if order.OrderID == "" {
		order = ordersx.Order{
			OrderID:  "ab12cd34",
			Username: username,
			Item:     item,
			Quantity: quantity,
			Status:   ordersx.StatusCreated,
		}
	}
	return order, nil
}

func (f *fakeOrderBook) Get(ctx context.Context, orderID, username string) (ordersx.Order, bool, error) {
	if f.getErr != nil {
		return ordersx.Order{}, false, f.getErr
	}
	return f.getOrder, f.getFound, nil
}

func (f *fakeOrderBook) Cancel(ctx context.Context, orderID, username string) (bool, error) {
	f.cancelCalls = append(f.cancelCalls, [2]string{orderID, username})
	if f.cancelErr != nil {
		return false, f.cancelErr
	}
	return f.cancelMatch, nil
}

type fakeSearcher struct {
	results []faqx.Result
	err     error
	limits  []int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]faqx.Result, error) {
	f.limits = append(f.limits, limit)
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.results) {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func newTestGateway(t *testing.T, orders OrderBook, faq Searcher) *Gateway {
	t.Helper()
	gateway, err := NewGateway(orders, faq)
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	return gateway
}

func mustResultText(t *testing.T, res contractx.ToolResult) string {
	t.Helper()
	if res.Error != "" {
		t.Fatalf("unexpected tool error: %s", res.Error)
	}
	text, ok := res.Result.(string)
	if !ok {
		t.Fatalf("unexpected result type: %T", res.Result)
	}
	return text
}

func TestBuildExposesFourTools(t *testing.T) {
	t.Parallel()

	infos, gateway, err := Build(&fakeOrderBook{}, &fakeSearcher{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if gateway == nil {
		t.Fatal("gateway must not be nil")
	}
	if len(infos) != 4 {
		t.Fatalf("expected 4 tool infos, got %d", len(infos))
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	want := []string{ToolOrdersCreate, ToolOrdersStatus, ToolOrdersCancel, ToolFAQSearch}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("unexpected tool order: %v", names)
		}
	}
}

func TestCreateOrderMessageContainsID(t *testing.T) {
	t.Parallel()

	gateway := newTestGateway(t, &fakeOrderBook{}, &fakeSearcher{})

	results, err := gateway.Execute(context.Background(), []contractx.ToolRequest{{
		Tool: ToolOrdersCreate,
		Args: map[string]any{"username": "jan", "item": "welder-bot", "quantity": float64(2)},
	}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	text := mustResultText(t, results[0])
	if !strings.Contains(text, "ab12cd34") {
		t.Fatalf("confirmation must contain the order id: %q", text)
	}
	if !strings.Contains(text, "welder-bot") || !strings.Contains(text, "2") {
		t.Fatalf("confirmation must mention item and quantity: %q", text)
	}
}

func TestCreateOrderRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	gateway := newTestGateway(t, &fakeOrderBook{}, &fakeSearcher{})

	results, err := gateway.Execute(context.Background(), []contractx.ToolRequest{{
		Tool: ToolOrdersCreate,
		Args: map[string]any{"username": "jan", "item": "welder-bot", "quantity": float64(0)},
	}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if results[0].Error == "" {
		t.Fatal("expected argument error for zero quantity")
	}
}

func TestCreateOrderRejectsFractionalQuantity(t *testing.T) {
	t.Parallel()

	gateway := newTestGateway(t, &fakeOrderBook{}, &fakeSearcher{})

	results, err := gateway.Execute(context.Background(), []contractx.ToolRequest{{
		Tool: ToolOrdersCreate,
		Args: map[string]any{"username": "jan", "item": "welder-bot", "quantity": 1.5},
	}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if results[0].Error == "" {
		t.Fatal("expected argument error for fractional quantity")
	}
}

func TestCreateOrderRejectsOutOfRangeQuantity(t *testing.T) {
	t.Parallel()

	gateway := newTestGateway(t, &fakeOrderBook{}, &fakeSearcher{})

	results, err := gateway.Execute(context.Background(), []contractx.ToolRequest{{
		Tool: ToolOrdersCreate,
		Args: map[string]any{"username": "jan", "item": "welder-bot", "quantity": 1e300},
	}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if results[0].Error == "" {
		t.Fatal("expected argument error for a quantity beyond int64 range")
	}
}

func TestOrderStatusFoundAndNotFound(t *testing.T) {
	t.Parallel()

	book := &fakeOrderBook{
		getOrder: ordersx.Order{OrderID: "ab12cd34", Username: "jan", Status: ordersx.StatusCreated},
		getFound: true,
	}
	gateway := newTestGateway(t, book, &fakeSearcher{})

	results, err := gateway.Execute(context.Background(), []contractx.ToolRequest{{
		Tool: ToolOrdersStatus,
		Args: map[string]any{"order_id": "ab12cd34", "username": "jan"},
	}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	text := mustResultText(t, results[0])
	if !strings.Contains(text, "ab12cd34") || !strings.Contains(text, ordersx.StatusCreated) {
		t.Fatalf("status message must contain id and status: %q", text)
	}

	book.getFound = false
	results, err = gateway.Execute(context.Background(), []contractx.ToolRequest{{
		Tool: ToolOrdersStatus,
		Args: map[string]any{"order_id": "doesnotexist", "username": "nobody"},
	}})
	if err != nil {
		t.Fatalf("execute on missing order must not error: %v", err)
	}
	text = mustResultText(t, results[0])
	if !strings.Contains(text, "doesnotexist") || !strings.Contains(text, "nobody") {
		t.Fatalf("not-found message must name the id and user: %q", text)
	}
}

func TestCancelOrderMentionsReasonButDoesNotPersistIt(t *testing.T) {
	t.Parallel()

	book := &fakeOrderBook{cancelMatch: true}
	gateway := newTestGateway(t, book, &fakeSearcher{})

	results, err := gateway.Execute(context.Background(), []contractx.ToolRequest{{
		Tool: ToolOrdersCancel,
		Args: map[string]any{"order_id": "ab12cd34", "username": "jan", "reason": "changed mind"},
	}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	text := mustResultText(t, results[0])
	if !strings.Contains(text, "changed mind") {
		t.Fatalf("confirmation must mention the reason: %q", text)
	}
	// The store only ever sees the identifying pair.
	if len(book.cancelCalls) != 1 || book.cancelCalls[0] != [2]string{"ab12cd34", "jan"} {
		t.Fatalf("unexpected cancel calls: %v", book.cancelCalls)
	}
}

func TestCancelOrderNotFound(t *testing.T) {
	t.Parallel()

	gateway := newTestGateway(t, &fakeOrderBook{cancelMatch: false}, &fakeSearcher{})

	results, err := gateway.Execute(context.Background(), []contractx.ToolRequest{{
		Tool: ToolOrdersCancel,
		Args: map[string]any{"order_id": "doesnotexist", "username": "nobody", "reason": "whatever"},
	}})
	if err != nil {
		t.Fatalf("execute on missing order must not error: %v", err)
	}
	text := mustResultText(t, results[0])
	if !strings.Contains(text, "doesnotexist") {
		t.Fatalf("not-found message must name the id: %q", text)
	}
}

func TestStorageUnavailabilityPropagates(t *testing.T) {
	t.Parallel()

	gateway := newTestGateway(t, &fakeOrderBook{
		getErr: fmt.Errorf("%w: disk gone", contractx.ErrStorageUnavailable),
	}, &fakeSearcher{})

	_, err := gateway.Execute(context.Background(), []contractx.ToolRequest{{
		Tool: ToolOrdersStatus,
		Args: map[string]any{"order_id": "ab12cd34", "username": "jan"},
	}})
	if !errors.Is(err, contractx.ErrStorageUnavailable) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
}

func TestFAQSearchFormatsResults(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{results: []faqx.Result{
		{Description: "arc ignition fails", Dialogue: "Check the ground clamp.", Score: 0.91},
		{Description: "wire feed jams", Dialogue: "Clean the drive rolls.", Score: 0.74},
	}}
	gateway := newTestGateway(t, &fakeOrderBook{}, searcher)

	results, err := gateway.Execute(context.Background(), []contractx.ToolRequest{{
		Tool: ToolFAQSearch,
		Args: map[string]any{"query": "the arc will not start"},
	}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	text := mustResultText(t, results[0])
	if !strings.Contains(text, "arc ignition fails") || !strings.Contains(text, "Clean the drive rolls.") {
		t.Fatalf("formatted results incomplete: %q", text)
	}
	if !strings.Contains(text, "0.91") {
		t.Fatalf("formatted results must include scores: %q", text)
	}
	if len(searcher.limits) != 1 || searcher.limits[0] != defaultFAQLimit {
		t.Fatalf("expected default limit, got %v", searcher.limits)
	}
}

func TestFAQSearchEmptyStore(t *testing.T) {
	t.Parallel()

	gateway := newTestGateway(t, &fakeOrderBook{}, &fakeSearcher{})

	results, err := gateway.Execute(context.Background(), []contractx.ToolRequest{{
		Tool: ToolFAQSearch,
		Args: map[string]any{"query": "anything"},
	}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	text := mustResultText(t, results[0])
	if !strings.Contains(strings.ToLower(text), "no matching") {
		t.Fatalf("expected polite empty message, got %q", text)
	}
}

func TestFAQSearchRetrievalUnavailabilityPropagates(t *testing.T) {
	t.Parallel()

	gateway := newTestGateway(t, &fakeOrderBook{}, &fakeSearcher{
		err: fmt.Errorf("%w: backend down", contractx.ErrRetrievalUnavailable),
	})

	_, err := gateway.Execute(context.Background(), []contractx.ToolRequest{{
		Tool: ToolFAQSearch,
		Args: map[string]any{"query": "anything"},
	}})
	if !errors.Is(err, contractx.ErrRetrievalUnavailable) {
		t.Fatalf("expected retrieval unavailable, got %v", err)
	}
}

func TestUnknownToolIsReportedAsData(t *testing.T) {
	t.Parallel()

	gateway := newTestGateway(t, &fakeOrderBook{}, &fakeSearcher{})

	results, err := gateway.Execute(context.Background(), []contractx.ToolRequest{{
		Tool: "orders.teleport",
	}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if results[0].Error == "" {
		t.Fatal("expected unavailable-tool error message")
	}
}
