// Package scanconfig reads the multi-account scan configuration file.
package scanconfig

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// DefaultFileName is looked up in the working directory when --config is not set.
const DefaultFileName = "aws_multi_account_scan_config.json"

// Service keys of the config file.
const (
	ServiceWAF     = "waf"
	ServiceALB     = "alb"
	ServiceRoute53 = "route53"
)

// ErrNotFound is returned when the config file does not exist.
var ErrNotFound = errors.New("scan config not found")

// Config is the unified scan configuration.
type Config struct {
	Profiles []string      `mapstructure:"profiles"`
	Regions  Regions       `mapstructure:"regions"`
	WAF      ServiceConfig `mapstructure:"waf"`
	ALB      ServiceConfig `mapstructure:"alb"`
	Route53  ServiceConfig `mapstructure:"route53"`
}

// Regions lists the regions shared by every service.
type Regions struct {
	Common []string `mapstructure:"common"`
}

// ServiceConfig holds per-service options and filters.
type ServiceConfig struct {
	ScanOptions ScanOptions `mapstructure:"scan_options"`
	Filters     Filters     `mapstructure:"filters"`
}

// ScanOptions tunes how a service is scanned.
type ScanOptions struct {
	Parallel   *bool  `mapstructure:"parallel"`
	MaxWorkers int    `mapstructure:"max_workers"`
	Mode       string `mapstructure:"mode"`
}

// Filters narrows what a scan keeps.
type Filters struct {
	Regions   []string `mapstructure:"regions"`
	Types     []string `mapstructure:"types"`
	Schemes   []string `mapstructure:"schemes"`
	ZoneNames []string `mapstructure:"zone_names"`
}

// Load reads the config file at path, or DefaultFileName when path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFileName
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat scan config: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read scan config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scan config: %w", err)
	}
	return &cfg, nil
}

// Service returns the section for a service key.
func (c *Config) Service(name string) ServiceConfig {
	if c == nil {
		return ServiceConfig{}
	}
	switch name {
	case ServiceWAF:
		return c.WAF
	case ServiceALB:
		return c.ALB
	case ServiceRoute53:
		return c.Route53
	default:
		return ServiceConfig{}
	}
}

// RegionsFor returns the service's region filter, falling back to the common regions.
func (c *Config) RegionsFor(name string) []string {
	if c == nil {
		return nil
	}
	if regions := c.Service(name).Filters.Regions; len(regions) > 0 {
		return regions
	}
	return c.Regions.Common
}

// ProfileList returns the configured profiles.
func (c *Config) ProfileList() []string {
	if c == nil {
		return nil
	}
	return c.Profiles
}
