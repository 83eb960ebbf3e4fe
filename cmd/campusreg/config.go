package main

import (
	"flag"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"campusreg/internal/api"
	"campusreg/internal/storage"
	"campusreg/pkg/environment"
	"campusreg/pkg/errors"
)

type Config struct {
	Environment environment.Env `yaml:"Environment"`

	Data struct {
		File string `yaml:"File"`
	} `yaml:"Data"`

	Storage storage.Config `yaml:"Storage"`

	API api.Config `yaml:"API"`
}

type flags struct {
	config string
	env    string
	serve  bool
}

func parseFlags() flags {
	var f flags
	flag.StringVar(&f.config, "config", "config.yaml", "path to config file")
	flag.StringVar(&f.env, "env", "", "environment (dev, prod)")
	flag.BoolVar(&f.serve, "serve", false, "run the HTTP API instead of the interactive menu")
	flag.Parse()
	return f
}

// loadConfig reads the yaml config if present. A missing file is not an
// error: everything has a default.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapFail(err, "build path to config")
	}

	data, err := os.ReadFile(abs)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.WrapFailf(err, "read %q", abs)
	}

	if err == nil {
		err = yaml.Unmarshal(data, cfg)
		if err != nil {
			return nil, errors.WrapFail(err, "parse yaml")
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Environment == environment.Unknown {
		cfg.Environment = environment.Development
	}
	if cfg.Data.File == "" {
		cfg.Data.File = storage.DefaultFile
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = storage.BackendFile
	}
	if cfg.API.HTTP.Addr == "" {
		cfg.API.HTTP.Addr = ":8080"
	}
}
