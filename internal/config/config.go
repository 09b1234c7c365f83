package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Template is one capture destination: entries captured with Key are filed
// under the tracking document heading named Heading.
type Template struct {
	Key     string `json:"key"`
	Heading string `json:"heading"`
}

// Config holds application configuration.
type Config struct {
	// TrackingFile is the tracking document filename, relative to the
	// project root.
	TrackingFile string `json:"tracking_file"`

	// CaptureKeyPrefix is the single-character prefix namespacing all
	// generated capture templates. A finalize event whose template key does
	// not carry this prefix never rewrites a pending session's region.
	CaptureKeyPrefix string `json:"capture_key_prefix"`

	// Templates is the ordered list of capture destinations.
	Templates []Template `json:"templates,omitempty"`

	// SubmoduleRoots treats a version-control submodule (a .git gitlink
	// file rather than a directory) as its own project root.
	SubmoduleRoots bool `json:"submodule_roots,omitempty"`

	// DBMaxOpenConns limits open connections to the identifier index.
	// 0 means use sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits idle connections to the identifier index.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		TrackingFile:     "TRACKING.md",
		CaptureKeyPrefix: "n",
		Templates: []Template{
			{Key: "nt", Heading: "Tasks"},
			{Key: "ni", Heading: "Issues"},
		},
	}
}

// TemplateByKey returns the template registered for key, or false.
func (c *Config) TemplateByKey(key string) (Template, bool) {
	for _, t := range c.Templates {
		if t.Key == key {
			return t, true
		}
	}
	return Template{}, false
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.snitch.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.snitch) and repo
// (.snitch) directories. Repo config is found by walking upward from
// startDir to the nearest .snitch/config.json. Repo config takes precedence
// for scalar values. Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// WithRepo merges the nearest repo config (walking upward from startDir)
// over base. Returns base unchanged when no repo config exists.
func WithRepo(base *Config, startDir string) (*Config, error) {
	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}
	return Merge(base, repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest
// .snitch/config.json. Returns the path if found, or empty string.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".snitch", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; the template list is replaced
// wholesale when the overlay defines one (order is meaningful, so the lists
// are not unioned).
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.TrackingFile = strings.TrimSpace(overlay.TrackingFile)
	if result.TrackingFile == "" {
		result.TrackingFile = base.TrackingFile
	}

	result.CaptureKeyPrefix = strings.TrimSpace(overlay.CaptureKeyPrefix)
	if result.CaptureKeyPrefix == "" {
		result.CaptureKeyPrefix = base.CaptureKeyPrefix
	}

	result.Templates = overlay.Templates
	if len(result.Templates) == 0 {
		result.Templates = base.Templates
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Booleans: overlay wins if true, else base
	result.SubmoduleRoots = base.SubmoduleRoots || overlay.SubmoduleRoots

	return result
}
