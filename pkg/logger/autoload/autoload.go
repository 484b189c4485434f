// Package autoload configures the global logger as a side effect of import,
// reading LOG_DEBUG and LOG_PRETTY_FORMAT from the environment.
package autoload

import (
	configx "github.com/tidyhive/success-coach/pkg/config"
	logx "github.com/tidyhive/success-coach/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
