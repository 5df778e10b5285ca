package cli

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when --config
// is not given.
const DefaultConfigFile = "decforge.yaml"

// Defaults used when neither flags nor the config file say otherwise.
const (
	DefaultRegistryDir = "registry"
	DefaultOutputDir   = "generated"
	DefaultTestsDir    = "generated_tests"
)

// Config is the optional project file. Flags override every field.
type Config struct {
	RegistryDir   string   `yaml:"registry_dir"`
	OutputDir     string   `yaml:"output_dir"`
	TestsDir      string   `yaml:"tests_dir"`
	Exclude       []string `yaml:"exclude"`
	RuntimeImport string   `yaml:"runtime_import"`
	PackageImport string   `yaml:"package_import"`
}

// LoadConfig reads the project file. An empty path means the default
// file, which may be absent; an explicit path must exist.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// resolve returns the flag value when set, else the config value, else
// the fallback.
func resolve(flag, fromConfig, fallback string) string {
	if flag != "" {
		return flag
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fallback
}
