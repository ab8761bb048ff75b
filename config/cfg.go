package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"scopecss/css"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	ParserConfig struct {
		MaxDepth            int    `yaml:"max_depth" validate:"min=1,max=4096"`
		AllowUnknownAtRules bool   `yaml:"allow_unknown_at_rules"`
		Charset             string `yaml:"charset"`
	}

	RenderConfig struct {
		Indent            int               `yaml:"indent" validate:"min=0,max=8"`
		ClassPrefix       string            `yaml:"class_prefix" validate:"required,excludesall= .#{}:"`
		ClassNameTemplate string            `yaml:"class_name_template" validate:"required"`
		Values            map[string]string `yaml:"values,omitempty" validate:"dive,keys,required,endkeys"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Parser    ParserConfig   `yaml:"parser"`
		Render    RenderConfig   `yaml:"render"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field name above
	ClassNameTemplateFieldName TemplateFieldName = "class_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(ClassNameTemplateFieldName)),
)

// Options translates parser section into css parser options.
func (conf *ParserConfig) Options() []css.Option {
	return []css.Option{
		css.WithMaxDepth(conf.MaxDepth),
		css.WithUnknownAtRules(conf.AllowUnknownAtRules),
	}
}

// Options translates render section into css renderer options.
func (conf *RenderConfig) Options() []css.RenderOption {
	opts := []css.RenderOption{css.WithIndent(strings.Repeat(" ", conf.Indent))}
	if len(conf.Values) > 0 {
		opts = append(opts, css.WithValues(conf.Values))
	}
	return opts
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
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
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
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
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
