// Package config holds the settings of a mining run.
package config

import (
	"encoding/json"
	"io/ioutil"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"starmine/mine"
	"starmine/output"
	"starmine/transactions"

	"github.com/imdario/mergo"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	DEVELOPMENT = "development"
	STAGING     = "staging"
	PRODUCTION  = "production"
)

const (
	StoreDisk = "disk"
	StoreGCS  = "gcs"
	StoreS3   = "s3"
)

// EnvPrefix prefixes every environment override, e.g. STARMINE_NUM_ROUTINES.
const EnvPrefix = "starmine"

var ErrInvalidConfig = errors.New("invalid configuration")

type StoreConfig struct {
	Type    string `json:"type" yaml:"type" envconfig:"type"`
	BaseDir string `json:"base_dir" yaml:"base_dir" envconfig:"base_dir"`
	Bucket  string `json:"bucket" yaml:"bucket" envconfig:"bucket"`
	Region  string `json:"region" yaml:"region" envconfig:"region"`
}

type MetricsConfig struct {
	ProjectID string `json:"project_id" yaml:"project_id" envconfig:"project_id"`
	Location  string `json:"location" yaml:"location" envconfig:"location"`
}

type Configuration struct {
	Env string `json:"env" yaml:"env" envconfig:"env"`
	// Longest itemset reported. 0 means no bound.
	MaxLength int `json:"max_length" yaml:"max_length" envconfig:"max_length"`
	// Minimum support as a fraction of the rows.
	Support      float64       `json:"support" yaml:"support" envconfig:"support"`
	NumColumns   int           `json:"num_columns" yaml:"num_columns" envconfig:"num_columns"`
	NumRows      int           `json:"num_rows" yaml:"num_rows" envconfig:"num_rows"`
	InputFile    string        `json:"input_file" yaml:"input_file" envconfig:"input_file"`
	OutputFile   string        `json:"output_file" yaml:"output_file" envconfig:"output_file"`
	InputFormat  string        `json:"input_format" yaml:"input_format" envconfig:"input_format"`
	OutputFormat string        `json:"output_format" yaml:"output_format" envconfig:"output_format"`
	NumRoutines  int           `json:"num_routines" yaml:"num_routines" envconfig:"num_routines"`
	Store        StoreConfig   `json:"store" yaml:"store" envconfig:"store"`
	Metrics      MetricsConfig `json:"metrics" yaml:"metrics" envconfig:"metrics"`
	SentryDSN    string        `json:"sentry_dsn" yaml:"sentry_dsn" envconfig:"sentry_dsn"`
}

// Load reads the configuration file at path, applies environment overrides
// and fills in defaults. Files ending in .yaml or .yml are read as YAML,
// anything else as JSON or the two line plain layout.
func Load(path string) (*Configuration, error) {
	configFileAbsPath, _ := filepath.Abs(path)
	logCtx := log.WithFields(log.Fields{
		"file": configFileAbsPath,
	})

	raw, err := ioutil.ReadFile(configFileAbsPath)
	if err != nil {
		logCtx.WithError(err).Error("Failed to read config file.")
		return nil, errors.Wrapf(err, "can't read config file %s", configFileAbsPath)
	}

	var c *Configuration
	switch strings.ToLower(filepath.Ext(configFileAbsPath)) {
	case ".yaml", ".yml":
		c, err = ParseYAML(raw)
	default:
		c, err = Parse(raw)
	}
	if err != nil {
		logCtx.WithError(err).Error("Failed to parse config file.")
		return nil, errors.Wrapf(err, "can't parse config file %s", configFileAbsPath)
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	c.SetDefaults()
	return c, nil
}

// Parse decodes raw as JSON when it looks like a JSON object and as the
// plain layout otherwise.
func Parse(raw []byte) (*Configuration, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		var c Configuration
		if err := json.Unmarshal([]byte(trimmed), &c); err != nil {
			return nil, err
		}
		return &c, nil
	}
	return parsePlain(trimmed)
}

func ParseYAML(raw []byte) (*Configuration, error) {
	var c Configuration
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// parsePlain reads
//
//	<max_length> <support> <num_columns> <num_rows>
//	<input_file> <output_file>
func parsePlain(raw string) (*Configuration, error) {
	fields := strings.Fields(raw)
	if len(fields) != 6 {
		return nil, errors.Errorf("plain config needs 6 values, got %d", len(fields))
	}

	var c Configuration
	var err error
	if c.MaxLength, err = strconv.Atoi(fields[0]); err != nil {
		return nil, errors.Wrap(err, "max_length")
	}
	if c.Support, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return nil, errors.Wrap(err, "support")
	}
	if c.NumColumns, err = strconv.Atoi(fields[2]); err != nil {
		return nil, errors.Wrap(err, "num_columns")
	}
	if c.NumRows, err = strconv.Atoi(fields[3]); err != nil {
		return nil, errors.Wrap(err, "num_rows")
	}
	c.InputFile = fields[4]
	c.OutputFile = fields[5]
	return &c, nil
}

// ApplyEnv overrides fields from STARMINE_* environment variables.
func (c *Configuration) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return errors.Wrap(err, "failed to read environment overrides")
	}
	return nil
}

func defaults() Configuration {
	return Configuration{
		Env:          DEVELOPMENT,
		NumRoutines:  1,
		InputFormat:  transactions.FormatSimplex,
		OutputFormat: output.FormatText,
		Store:        StoreConfig{Type: StoreDisk},
	}
}

// SetDefaults fills every unset field from the defaults.
func (c *Configuration) SetDefaults() {
	if err := mergo.Merge(c, defaults()); err != nil {
		log.WithError(err).Error("Failed to apply config defaults.")
	}
}

func (c *Configuration) Validate() error {
	// json inputs are sized from the data once read
	if c.InputFormat != transactions.FormatJSON {
		if c.NumRows <= 0 {
			return errors.Wrapf(ErrInvalidConfig, "num_rows must be positive, got %d", c.NumRows)
		}
		if c.NumColumns <= 0 {
			return errors.Wrapf(ErrInvalidConfig, "num_columns must be positive, got %d", c.NumColumns)
		}
	}

	switch {
	case c.NumRoutines <= 0:
		return errors.Wrapf(ErrInvalidConfig, "num_routines must be positive, got %d", c.NumRoutines)
	case c.Support <= 0 || c.Support > 1:
		return errors.Wrapf(ErrInvalidConfig, "support must be in (0, 1], got %v", c.Support)
	case c.MaxLength < 0:
		return errors.Wrapf(ErrInvalidConfig, "max_length must not be negative, got %d", c.MaxLength)
	case c.InputFile == "" || c.OutputFile == "":
		return errors.Wrap(ErrInvalidConfig, "input_file and output_file are required")
	case c.InputFormat != transactions.FormatSimplex && c.InputFormat != transactions.FormatJSON:
		return errors.Wrapf(ErrInvalidConfig, "unknown input_format %q", c.InputFormat)
	case c.OutputFormat != output.FormatText && c.OutputFormat != output.FormatJSON:
		return errors.Wrapf(ErrInvalidConfig, "unknown output_format %q", c.OutputFormat)
	}

	switch c.Store.Type {
	case StoreDisk:
	case StoreGCS, StoreS3:
		if c.Store.Bucket == "" {
			return errors.Wrapf(ErrInvalidConfig, "store %s needs a bucket", c.Store.Type)
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown store type %q", c.Store.Type)
	}
	return nil
}

// Threshold is the minimum support count: the support fraction of the rows,
// rounded, and never below 1.
func (c *Configuration) Threshold() int {
	threshold := int(math.Round(c.Support * float64(c.NumRows)))
	if threshold < 1 {
		return 1
	}
	return threshold
}

func (c *Configuration) Params() mine.Params {
	return mine.Params{
		MinSupport: c.Threshold(),
		Workers:    c.NumRoutines,
		MaxLength:  c.MaxLength,
	}
}

func (c *Configuration) IsDevelopment() bool {
	return strings.Compare(c.Env, DEVELOPMENT) == 0
}

func (c *Configuration) InitLogging() {
	if c.IsDevelopment() {
		log.SetLevel(log.DebugLevel)
		return
	}
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})
}
