// Copyright (C) 2017 ScyllaDB

// Package node holds the node side configuration of the auth schema
// bootstrap path.
package node

import (
	"time"

	"github.com/pkg/errors"
	"github.com/scylladb/go-log"
	"go.uber.org/multierr"

	"github.com/scylladb/auth-schema/pkg/authschema"
	"github.com/scylladb/auth-schema/pkg/config"
	"github.com/scylladb/auth-schema/pkg/util/cfgutil"
)

// DBConfig specifies how to reach the cluster when waiting for the auth
// tables to become visible.
type DBConfig struct {
	Hosts   []string      `yaml:"hosts"`
	Port    string        `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
	MaxWait time.Duration `yaml:"max_wait"`
}

// Config contains configuration structure consumed by the auth schema
// binaries.
type Config struct {
	Auth     authschema.Config `yaml:"auth"`
	Database DBConfig          `yaml:"database"`
	Logger   config.LogConfig  `yaml:"logger"`
}

func DefaultConfig() Config {
	return Config{
		Auth: authschema.DefaultConfig(),
		Database: DBConfig{
			Hosts:   []string{"127.0.0.1"},
			Port:    "9042",
			Timeout: 600 * time.Millisecond,
			MaxWait: 5 * time.Minute,
		},
		Logger: config.DefaultLogConfig(),
	}
}

// ParseConfigFiles takes list of configuration file paths and returns parsed
// config struct with merged configuration from all provided files.
func ParseConfigFiles(files []string) (Config, error) {
	c := DefaultConfig()
	return c, cfgutil.ParseYAML(&c, files...)
}

func (c Config) Validate() (err error) {
	if e := c.Auth.Validate(); e != nil {
		err = multierr.Append(err, errors.Wrap(e, "auth"))
	}
	if len(c.Database.Hosts) == 0 {
		err = multierr.Append(err, errors.New("missing database.hosts"))
	}
	return
}

// MakeLogger creates application logger for the configuration.
func (c Config) MakeLogger() (log.Logger, error) {
	return config.MakeLogger(c.Logger)
}
