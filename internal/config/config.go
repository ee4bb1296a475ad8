package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Config struct {
	Listen      string      `yaml:"listen"`
	Admin       Admin       `yaml:"admin"`
	Logger      Logger      `yaml:"logger"`
	Storage     Storage     `yaml:"storage"`
	Auth        Auth        `yaml:"auth"`
	Competition Competition `yaml:"competition"`
	CORS        CORS        `yaml:"cors"`
}

// Competition defines the submission window enforced by the clock gate.
type Competition struct {
	Name      string    `yaml:"name"`
	StartTime time.Time `yaml:"starttime"`
	EndTime   time.Time `yaml:"endtime"`
}

type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Storage struct {
	Database     string `yaml:"database"`
	ProblemsRoot string `yaml:"problems_root"`
}

type Auth struct {
	JWT JWT `yaml:"jwt"`
}

type JWT struct {
	Secret      string `yaml:"secret"`
	ExpireHours int    `yaml:"expire_hours"`
}

type Admin struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
