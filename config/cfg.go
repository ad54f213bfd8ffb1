package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"halc/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

// Environment variables which override deposit credentials.
const (
	EnvLogin    = "HALC_LOGIN"
	EnvPassword = "HALC_PASSWORD"
)

type (
	LookupConfig struct {
		BaseURL   string        `yaml:"base_url" validate:"required,url"`
		Rows      int           `yaml:"rows" validate:"min=1,max=10000"`
		Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
		RateLimit float64       `yaml:"rate_limit" validate:"gte=0"`
	}

	DepositConfig struct {
		Server      common.Server `yaml:"server"`
		URL         string        `yaml:"url,omitempty" validate:"omitempty,url"`
		Login       string        `yaml:"login,omitempty"`
		Password    SecretString  `yaml:"password,omitempty"`
		Completion  string        `yaml:"completion,omitempty"`
		ExportArxiv bool          `yaml:"export_arxiv"`
		ExportPMC   bool          `yaml:"export_pmc"`
		HideRePEc   bool          `yaml:"hide_repec"`
		HideOAI     bool          `yaml:"hide_oai"`
		Test        bool          `yaml:"test"`
		Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
	}

	CompilerConfig struct {
		ResolveJournals     bool `yaml:"resolve_journals"`
		ResolveAffiliations bool `yaml:"resolve_affiliations"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Lookup    LookupConfig   `yaml:"lookup"`
		Deposit   DepositConfig  `yaml:"deposit"`
		Compiler  CompilerConfig `yaml:"compiler"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

// completion is a free form list of HAL field names, it may contain template
// like braces and must be kept as is
const CompletionFieldName = "completion"

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(CompletionFieldName),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration tamplate to provide
// sane defaults and performs validation. Deposit credentials present in the
// environment (or in .env file of current directory) take precedence.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if haveFile {
		// overwrite cfg values with values from the file
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		cfg, err = unmarshalConfig(data, cfg, haveFile)
		if err != nil {
			return nil, fmt.Errorf("failed to process configuration file: %w", err)
		}
	}
	if err := cfg.Deposit.loadCredentials(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCredentials picks deposit login and password from environment. Missing
// .env file is not an error.
func (conf *DepositConfig) loadCredentials() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	if v, ok := os.LookupEnv(EnvLogin); ok && len(v) > 0 {
		conf.Login = v
	}
	if v, ok := os.LookupEnv(EnvPassword); ok && len(v) > 0 {
		conf.Password = SecretString(v)
	}
	return nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
