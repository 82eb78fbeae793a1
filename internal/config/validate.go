package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateResolver(); err != nil {
		return err
	}
	if err := c.validateReaper(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		return errors.New("paths.scratch_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.ScratchDir == c.Paths.OutputDir {
		return errors.New("paths.scratch_dir and paths.output_dir must differ")
	}
	if bind := strings.TrimSpace(c.Paths.APIBind); bind != "" {
		if _, _, err := net.SplitHostPort(bind); err != nil {
			return fmt.Errorf("paths.api_bind: %w", err)
		}
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.FFmpeg == "" {
		return errors.New("engine.ffmpeg must be set")
	}
	if c.Engine.FFprobe == "" {
		return errors.New("engine.ffprobe must be set")
	}
	if c.Engine.ProbeTimeout <= 0 {
		return errors.New("engine.probe_timeout must be positive")
	}
	if c.Engine.EncodeTimeout <= 0 {
		return errors.New("engine.encode_timeout must be positive")
	}
	return nil
}

func (c *Config) validateResolver() error {
	if c.Resolver.FetchTimeout <= 0 {
		return errors.New("resolver.fetch_timeout must be positive")
	}
	if c.Resolver.MaxFetchBytes <= 0 {
		return errors.New("resolver.max_fetch_bytes must be positive")
	}
	return nil
}

func (c *Config) validateReaper() error {
	if c.Reaper.Interval <= 0 {
		return errors.New("reaper.interval must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
