// Package autoload configures the global logger from LOG_* environment
// variables as an import side effect.
package autoload

import (
	configx "github.com/robocare/support-agent/pkg/config"
	logx "github.com/robocare/support-agent/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
