package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Logging struct {
		File string `yaml:"file"`
	} `yaml:"logging"`

	Data struct {
		Dir   string   `yaml:"dir"`
		Files []string `yaml:"files"`
	} `yaml:"data"`

	MySQL *mysqlConfig `yaml:"mysql"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
