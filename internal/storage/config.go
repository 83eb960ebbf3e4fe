package storage

import (
	"time"
)

type Backend string

const (
	BackendFile  Backend = "file"
	BackendMongo Backend = "mongo"
)

type Config struct {
	Backend Backend     `yaml:"backend"`
	Mongo   MongoConfig `yaml:"mongo"`
}

type MongoConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`

	Database string `yaml:"database"`

	Auth struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"auth"`
}
