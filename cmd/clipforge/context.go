package main

import (
	"strings"
	"sync"

	"clipforge/internal/config"
)

// commandContext carries lazily-loaded configuration shared by subcommands.
type commandContext struct {
	configFlag *string
	apiFlag    *string

	once sync.Once
	cfg  *config.Config
	err  error
}

func newCommandContext(configFlag, apiFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, apiFlag: apiFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.once.Do(func() {
		path := ""
		if c.configFlag != nil {
			path = *c.configFlag
		}
		c.cfg, _, _, c.err = config.Load(path)
	})
	return c.cfg, c.err
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// apiBind resolves the daemon API address: the --api flag wins, then the
// configured bind address.
func (c *commandContext) apiBind() string {
	if c.apiFlag != nil {
		if bind := strings.TrimSpace(*c.apiFlag); bind != "" {
			return bind
		}
	}
	if cfg := c.configValue(); cfg != nil {
		return strings.TrimSpace(cfg.Paths.APIBind)
	}
	return ""
}

func (c *commandContext) client() *apiClient {
	return newAPIClient(c.apiBind())
}
