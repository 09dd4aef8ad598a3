package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	AI         AI     `yaml:"ai"`
	Redis      Redis  `yaml:"redis"`
}

type AI struct {
	// MoveDelay is how long the computer "thinks" before answering.
	MoveDelay time.Duration `yaml:"move-delay" env:"AI_MOVE_DELAY" env-default:"500ms"`
	CacheTTL  time.Duration `yaml:"cache-ttl" env:"AI_CACHE_TTL" env-default:"24h"`
}

// Redis backs the computer move cache. Without it moves are cached in memory.
type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	DB      int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// Load - reads the config file at path, environment variables override it.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
