package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// StoreConfig selects and configures the sign data backend.
type StoreConfig struct {
	// Backend is "github" or "local".
	Backend string `yaml:"backend" json:"backend"`

	// GitHub repository coordinates (Backend == "github").
	Owner  string `yaml:"owner,omitempty" json:"owner,omitempty"`
	Repo   string `yaml:"repo,omitempty" json:"repo,omitempty"`
	Branch string `yaml:"branch,omitempty" json:"branch,omitempty"`
	// TokenFile points at a file holding the API token; keeping the
	// token out of the config file keeps the config shareable.
	TokenFile string `yaml:"token_file,omitempty" json:"token_file,omitempty"`

	// Dir is the data directory (Backend == "local").
	Dir string `yaml:"dir,omitempty" json:"dir,omitempty"`
}

// PathsConfig locates the data files inside the store.
type PathsConfig struct {
	Events      string `yaml:"events" json:"events"`
	Recurring   string `yaml:"recurring" json:"recurring"`
	ScheduleDir string `yaml:"schedule_dir" json:"schedule_dir"`
	ImagesDir   string `yaml:"images_dir" json:"images_dir"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API server.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API server.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone the sign operates in; "today",
	// weekday matching, and the progress bar are evaluated in it.
	Timezone string `yaml:"timezone" json:"timezone"`

	// RefreshCron schedules the background data refresh in serve mode.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// PreviewScale is the integer upscale factor for rendered previews.
	PreviewScale int `yaml:"preview_scale" json:"preview_scale"`

	Store StoreConfig `yaml:"store" json:"store"`
	Paths PathsConfig `yaml:"paths" json:"paths"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:       "127.0.0.1:8080",
		Timezone:     "America/New_York",
		RefreshCron:  "*/5 * * * *",
		PreviewScale: 4,
		Store: StoreConfig{
			Backend: "local",
			Dir:     "./signdata",
			Branch:  "main",
		},
		Paths: PathsConfig{
			Events:      "events.csv",
			Recurring:   "recurring.csv",
			ScheduleDir: "schedules",
			ImagesDir:   "images",
		},
	}
}

// Normalize fills in missing/zero values so partially-filled configs from
// older versions still behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.Timezone == "" {
		c.Timezone = "America/New_York"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/5 * * * *"
	}
	if c.PreviewScale <= 0 {
		c.PreviewScale = 4
	}
	switch c.Store.Backend {
	case "github", "local":
	default:
		c.Store.Backend = "local"
	}
	if c.Store.Branch == "" {
		c.Store.Branch = "main"
	}
	if c.Store.Dir == "" {
		c.Store.Dir = "./signdata"
	}
	if c.Paths.Events == "" {
		c.Paths.Events = "events.csv"
	}
	if c.Paths.Recurring == "" {
		c.Paths.Recurring = "recurring.csv"
	}
	if c.Paths.ScheduleDir == "" {
		c.Paths.ScheduleDir = "schedules"
	}
	if c.Paths.ImagesDir == "" {
		c.Paths.ImagesDir = "images"
	}
}

// Token reads the API token referenced by the store config. An unset
// TokenFile yields an empty token (anonymous, read-only access).
func (c *Config) Token() (string, error) {
	if c.Store.TokenFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Store.TokenFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Load loads configuration from the given YAML path.
//
// If the file does not exist, a default config is written there (0600,
// parent directory created) and returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the configuration atomically (temp file + rename) with
// 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".signadmin-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method that delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
