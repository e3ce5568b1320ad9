// Package settings manages persistent user settings for the ifcheck CLI.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// Settings holds persistent user preferences. Command-line flags override them.
type Settings struct {
	// FactCacheDir is the Ansible jsonfile fact cache directory
	FactCacheDir string `json:"fact_cache_dir,omitempty"`

	// FactCachePrefix is the file name prefix used by the jsonfile cache
	FactCachePrefix string `json:"fact_cache_prefix,omitempty"`

	// RedisAddr is the Ansible redis fact cache, host:port
	RedisAddr string `json:"redis_addr,omitempty"`

	// RedisPrefix is the key prefix used by the redis cache
	RedisPrefix string `json:"redis_prefix,omitempty"`

	RedisDB int `json:"redis_db,omitempty"`

	// SSHHost tunnels redis connections through this host when set
	SSHHost string `json:"ssh_host,omitempty"`
	SSHUser string `json:"ssh_user,omitempty"`

	// IntentFile is the default --intent
	IntentFile string `json:"intent_file,omitempty"`

	// AuditLog overrides the audit log path
	AuditLog string `json:"audit_log,omitempty"`

	// Workers bounds concurrent checks
	Workers int `json:"workers,omitempty"`
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ifcheck_settings.json"
	}
	return filepath.Join(home, ".ifcheck", "settings.json")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// field binds a settings key to its struct field.
type field struct {
	get func(*Settings) string
	set func(*Settings, string) error
}

func stringField(p func(*Settings) *string) field {
	return field{
		get: func(s *Settings) string { return *p(s) },
		set: func(s *Settings, v string) error { *p(s) = v; return nil },
	}
}

func intField(p func(*Settings) *int) field {
	return field{
		get: func(s *Settings) string {
			if *p(s) == 0 {
				return ""
			}
			return strconv.Itoa(*p(s))
		},
		set: func(s *Settings, v string) error {
			if v == "" {
				*p(s) = 0
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("must be a non-negative integer")
			}
			*p(s) = n
			return nil
		},
	}
}

var fields = map[string]field{
	"fact_cache_dir":    stringField(func(s *Settings) *string { return &s.FactCacheDir }),
	"fact_cache_prefix": stringField(func(s *Settings) *string { return &s.FactCachePrefix }),
	"redis_addr":        stringField(func(s *Settings) *string { return &s.RedisAddr }),
	"redis_prefix":      stringField(func(s *Settings) *string { return &s.RedisPrefix }),
	"redis_db":          intField(func(s *Settings) *int { return &s.RedisDB }),
	"ssh_host":          stringField(func(s *Settings) *string { return &s.SSHHost }),
	"ssh_user":          stringField(func(s *Settings) *string { return &s.SSHUser }),
	"intent_file":       stringField(func(s *Settings) *string { return &s.IntentFile }),
	"audit_log":         stringField(func(s *Settings) *string { return &s.AuditLog }),
	"workers":           intField(func(s *Settings) *int { return &s.Workers }),
}

// Keys returns the settable keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of key as text.
func (s *Settings) Get(key string) (string, error) {
	f, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("unknown setting '%s'", key)
	}
	return f.get(s), nil
}

// Set assigns value to key. An empty value resets the key.
func (s *Settings) Set(key, value string) error {
	f, ok := fields[key]
	if !ok {
		return fmt.Errorf("unknown setting '%s'", key)
	}
	if err := f.set(s, value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// GetAuditLog returns the audit log path (with fallback)
func (s *Settings) GetAuditLog() string {
	if s.AuditLog != "" {
		return s.AuditLog
	}
	return filepath.Join(filepath.Dir(DefaultSettingsPath()), "audit.log")
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
