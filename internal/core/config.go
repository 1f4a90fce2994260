package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"VitalsKiosk/internal/model"
)

// LoadConfig reads the YAML configuration at cfgPath over model.DefaultConfig,
// so keys missing from the file keep their defaults.
func LoadConfig(cfgPath string) (model.Config, error) {
	cfg := model.DefaultConfig()
	b, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfg, fmt.Errorf("[core] read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("[core] parse config %s: %w", cfgPath, err)
	}
	return cfg, nil
}
