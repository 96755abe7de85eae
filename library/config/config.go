package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/book-management/library/internal/server"
	"github.com/Astemirdum/book-management/pkg/kafka"
	"github.com/Astemirdum/book-management/pkg/logger"
	"github.com/Astemirdum/book-management/pkg/postgres"

	"github.com/kelseyhightower/envconfig"
)

type Uploads struct {
	Dir string        `yaml:"dir" envconfig:"UPLOAD_DIR" default:"./uploads"`
	TTL time.Duration `yaml:"ttl" envconfig:"UPLOAD_TTL" default:"1h"`
}

type Config struct {
	Server   server.Config `yaml:"server"`
	Database postgres.Config
	Kafka    kafka.Config
	Uploads  Uploads
	Log      logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
