package app

import (
	"github.com/nfrund/livechat/internal/api"
	"github.com/nfrund/livechat/internal/config"
	"github.com/nfrund/livechat/internal/module"
	"github.com/nfrund/livechat/internal/web"
)

// NewModules returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules(cfg *config.Config) []module.Module {
	modules := []module.Module{
		api.New(),
	}
	if cfg.UIEnabled {
		modules = append(modules, web.New())
	}
	return modules
}
