package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/pable/go-league-standings/internal/model"
)

// Prefix is prepended to every environment variable, e.g. STANDINGS_DB_PATH.
const Prefix = "STANDINGS"

var validate = validator.New()

type Config struct {
	DBPath      string `envconfig:"DB_PATH"`
	League      string `envconfig:"LEAGUE"`
	Season      string `envconfig:"SEASON"`
	AliasesFile string `envconfig:"ALIASES_FILE"`

	FairPlay

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"`
	HTTPAddr  string `envconfig:"HTTP_ADDR" default:":8080"`
}

type FairPlay struct {
	YellowWeight int `envconfig:"FAIR_PLAY_YELLOW_WEIGHT" default:"1" validate:"min=0"`
	RedWeight    int `envconfig:"FAIR_PLAY_RED_WEIGHT" default:"3" validate:"min=0"`
}

// Policy returns the configured card weighting.
func (f FairPlay) Policy() model.FairPlayPolicy {
	return model.FairPlayPolicy{YellowWeight: f.YellowWeight, RedWeight: f.RedWeight}
}

// New reads the environment. A missing DB path defaults to
// ~/.standings/standings.db. Negative fair-play weights are rejected.
func New() (*Config, error) {
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, err
	}
	if err := validate.Struct(c); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if c.DBPath == "" {
		c.DBPath = DefaultDBPath()
	}
	return &c, nil
}

// Load reads the given .env files (".env" when none are named) into the
// environment, then calls New. Missing files are ignored; variables already
// set in the environment win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, err
		}
	}
	return New()
}

// DefaultDBPath returns ~/.standings/standings.db, or a path relative to the
// working directory when the home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".standings", "standings.db")
}
