package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/zanzhit/camera_dashboard/internal/stream"
)

type Config struct {
	Env        string        `yaml:"env" env:"ENV" env-default:"local"`
	TokenTTL   time.Duration `yaml:"token_ttl" env-default:"1h"`
	Secret     string        `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	HTTPServer HTTPServer    `yaml:"http_server"`
	DB         DB            `yaml:"db"`
	Redis      Redis         `yaml:"redis"`
	Stream     stream.Config `yaml:"stream"`
	Registry   Registry      `yaml:"registry"`
	Probe      Probe         `yaml:"probe"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"localhost:8082"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type DB struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     string `yaml:"port" env-default:"5432"`
	Username string `yaml:"username" env-default:"postgres"`
	Password string `yaml:"-" env:"POSTGRES_PASSWORD" env-required:"true"`
	DBName   string `yaml:"dbname" env-default:"postgres"`
	SSLMode  string `yaml:"sslmode" env-default:"disable"`
}

type Redis struct {
	Addr     string `yaml:"addr" env-default:"localhost:6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env-default:"0"`
}

const (
	SourcePostgres = "postgres"
	SourceHTTP     = "http"
)

type Registry struct {
	Source        string        `yaml:"source" env-default:"postgres"`
	UpstreamURL   string        `yaml:"upstream_url"`
	UpstreamToken string        `yaml:"-" env:"UPSTREAM_TOKEN"`
	Timeout       time.Duration `yaml:"timeout" env-default:"5s"`
}

type Probe struct {
	Enabled bool `yaml:"enabled" env-default:"false"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("failed to read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath takes the path from the -config flag, falling back to
// CONFIG_PATH.
func fetchConfigPath() string {
	var res string

	if f := flag.Lookup("config"); f != nil {
		res = f.Value.String()
	} else {
		flag.StringVar(&res, "config", "", "path to config file")
		flag.Parse()
	}

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
