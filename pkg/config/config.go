package config

import (
	"errors"
	"fmt"
	"os"

	"rfm-segments/pkg/calculator"
	"rfm-segments/pkg/models"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig configuration lue depuis rfm.toml
type AppConfig struct {
	Input   InputConfig   `toml:"input"`
	Output  OutputConfig  `toml:"output"`
	Scoring ScoringConfig `toml:"scoring"`
	Log     LogConfig     `toml:"log"`
}

// InputConfig source des transactions : fichier (xlsx/csv) ou table MySQL si dsn est renseigné.
type InputConfig struct {
	Path  string `toml:"path"`
	Sheet string `toml:"sheet"`
	DSN   string `toml:"dsn"`
	Table string `toml:"table"`
}

type OutputConfig struct {
	Path string `toml:"path"`
}

type ScoringConfig struct {
	Degenerate string `toml:"degenerate"`
}

type LogConfig struct {
	Verbose bool `toml:"verbose"`
}

// DefaultConfig configuration par défaut
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Input: InputConfig{
			Path:  "Online Retail.xlsx",
			Table: "OnlineRetail",
		},
		Output: OutputConfig{
			Path: "rfm_segments.xlsx",
		},
		Scoring: ScoringConfig{
			Degenerate: string(models.DegenerateSpread),
		},
		Log: LogConfig{
			Verbose: false,
		},
	}
}

// Load lit le fichier TOML par-dessus les valeurs par défaut.
// Fichier absent → valeurs par défaut. Les variables RFM_INPUT et RFM_DSN priment.
func Load(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("RFM_INPUT"); v != "" {
		cfg.Input.Path = v
	}
	if v := os.Getenv("RFM_DSN"); v != "" {
		cfg.Input.DSN = v
	}
	return cfg, nil
}

// Validate vérifie la cohérence avant l'exécution.
func (c *AppConfig) Validate() error {
	switch models.DegeneratePolicy(c.Scoring.Degenerate) {
	case models.DegenerateSpread, models.DegenerateFail:
	default:
		return fmt.Errorf("scoring.degenerate %q (attendu %q ou %q): %w",
			c.Scoring.Degenerate, models.DegenerateSpread, models.DegenerateFail, calculator.ErrUnknownPolicy)
	}
	if c.Input.DSN == "" && c.Input.Path == "" {
		return errors.New("aucune source: input.path ou input.dsn requis")
	}
	if c.Input.DSN != "" && c.Input.Table == "" {
		return errors.New("input.table requis avec input.dsn")
	}
	if c.Output.Path == "" {
		return errors.New("output.path requis")
	}
	return nil
}

// Calculator projette la configuration fichier sur models.Config.
func (c *AppConfig) Calculator() models.Config {
	return models.Config{
		Degenerate: models.DegeneratePolicy(c.Scoring.Degenerate),
		Verbose:    c.Log.Verbose,
	}
}
