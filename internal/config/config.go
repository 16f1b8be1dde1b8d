package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Store backend names accepted in STORE_BACKEND.
const (
	BackendFile     = "file"
	BackendGitHub   = "github"
	BackendPostgres = "postgres"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"VERSION" default:"dev"`

	// TeamSize is the required team size including the captain.
	// 0 selects the relaxed rule: a captain plus at least one member.
	TeamSize int `envconfig:"TEAM_SIZE" default:"6"`

	StoreBackend string `envconfig:"STORE_BACKEND" default:"file"`
	DataDir      string `envconfig:"DATA_DIR" default:"data"`

	GitHubToken       string `envconfig:"GITHUB_TOKEN" default:""`
	GitHubOwner       string `envconfig:"GITHUB_OWNER" default:""`
	GitHubRepo        string `envconfig:"GITHUB_REPO" default:""`
	GitHubBranch      string `envconfig:"GITHUB_BRANCH" default:"main"`
	GitHubPlayersPath string `envconfig:"GITHUB_PLAYERS_PATH" default:"data/players.csv"`
	GitHubTeamsPath   string `envconfig:"GITHUB_TEAMS_PATH" default:"data/teams.json"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`

	// AdminPasswordHash is a bcrypt hash; when empty, AdminPassword is
	// hashed at startup instead.
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" default:""`
	AdminPassword     string `envconfig:"ADMIN_PASSWORD" default:"admin123"`
	BcryptCost        int    `envconfig:"BCRYPT_COST" default:"12"`
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TeamSize < 0 {
		return fmt.Errorf("TEAM_SIZE must be 0 (relaxed) or positive, got %d", c.TeamSize)
	}

	switch c.StoreBackend {
	case BackendFile:
	case BackendGitHub:
		if c.GitHubOwner == "" || c.GitHubRepo == "" {
			return fmt.Errorf("store backend %q requires GITHUB_OWNER and GITHUB_REPO", c.StoreBackend)
		}
		if c.GitHubToken == "" {
			return fmt.Errorf("store backend %q requires GITHUB_TOKEN", c.StoreBackend)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("store backend %q requires DATABASE_URL", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}

	return nil
}
