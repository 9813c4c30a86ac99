// Package autoload initializes the global logger from LOG_* environment
// variables as a side effect of being imported.
package autoload

import (
	configx "taskchat/pkg/config"
	logx "taskchat/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
