package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/bookcase/pkg/auth"
	"github.com/Astemirdum/bookcase/pkg/breaker"
	"github.com/Astemirdum/bookcase/pkg/kafka"
	"github.com/Astemirdum/bookcase/pkg/logger"
	"github.com/Astemirdum/bookcase/pkg/postgres"
	"github.com/goccy/go-json"
	"github.com/kelseyhightower/envconfig"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"HTTP_PORT" default:"8000"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
	AllowOrigins []string      `yaml:"allowOrigins" envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	SecureCSRF   bool          `yaml:"secureCSRF" envconfig:"CSRF_COOKIE_SECURE" default:"false"`
}

type Catalog struct {
	BaseURL   string         `yaml:"baseURL" envconfig:"CATALOG_BASE_URL" default:"https://openlibrary.org"`
	CoversURL string         `yaml:"coversURL" envconfig:"CATALOG_COVERS_URL" default:"https://covers.openlibrary.org"`
	Timeout   time.Duration  `yaml:"timeout" envconfig:"CATALOG_TIMEOUT" default:"10s"`
	Limit     int            `yaml:"limit" envconfig:"CATALOG_LIMIT" default:"20"`
	Breaker   breaker.Config `yaml:"breaker"`
}

type Registration struct {
	Password string `yaml:"-" envconfig:"REGISTRATION_PASSWORD" required:"true"`
}

type Stats struct {
	Timezone string `yaml:"timezone" envconfig:"STATS_TIMEZONE" default:"UTC"`
}

type Config struct {
	Server       HTTPServer   `yaml:"server"`
	Database     postgres.DB  `yaml:"db"`
	Log          logger.Log   `yaml:"log"`
	Kafka        kafka.Config `yaml:"kafka"`
	Session      auth.Config  `json:"-"`
	Registration Registration `json:"-"`
	Catalog      Catalog      `yaml:"catalog"`
	Stats        Stats        `yaml:"stats"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

// Location resolves STATS_TIMEZONE, falling back to UTC.
func (s Stats) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func printConfig(cfg *Config) {
	c := *cfg
	c.Database.Password = "***"
	jscfg, _ := json.MarshalIndent(c, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
