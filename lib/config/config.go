package config

import (
	"fmt"
	"log/slog"
	"os"

	"sso-concerts/lib/configutil"
	"sso-concerts/lib/season"
	"sso-concerts/lib/telemetry"

	"github.com/go-playground/validator/v10"
)

const DefaultFile = "sso.json5"

type Config struct {
	// directory holding the <year>/ calendar and events folders
	DataDir string `json:"data_dir" validate:"required"`
	// directory the parse and clean stages write snapshots to
	OutputDir string `json:"output_dir" validate:"required"`
	CSVPrefix string `json:"csv_prefix" validate:"required,excludesall=/\\"`
	DBPrefix  string `json:"db_prefix" validate:"required,excludesall=/\\"`
	// store file read by the parse stage
	Database string `json:"database" validate:"required"`
	// operator maintained Composer,ComposerFullName,Gender csv
	ComposerMap string `json:"composer_map" validate:"required"`
	// optional override for the embedded corrections table
	Corrections string           `json:"corrections"`
	Verbose     bool             `json:"verbose"`
	Telemetry   telemetry.Config `json:"telemetry"`
}

func Defaults() Config {
	return Config{
		DataDir:     ".",
		OutputDir:   "data",
		CSVPrefix:   "sso",
		DBPrefix:    "sso",
		Database:    season.DefaultDatabase,
		ComposerMap: "data/sso_composer_name_map.csv",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	err := validate.Struct(c)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads the config file (searching parent directories for relative
// names), fills unset values with Defaults and validates the result. A
// missing file is not an error.
func Load(name string) (Config, error) {
	cfg, err := configutil.ReadRecursively[Config](name)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}
	if os.IsNotExist(err) {
		slog.Debug("no config file found, using defaults", "name", name)
	}

	err = configutil.FillDefaults(&cfg, Defaults())
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}
