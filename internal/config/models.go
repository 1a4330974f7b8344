package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"
)

// Defaults applied when a preference is missing or zero.
const (
	DefaultPageSize            = 5
	DefaultQueryTimeout        = 30
	DefaultNotificationSeconds = 6
	DefaultCacheTTL            = 120
	DefaultLimit               = 100
	DefaultProfileName         = "default"
)

// ErrUnknownProfile is returned when a profile name is not in the registry.
var ErrUnknownProfile = errors.New("unknown profile")

// Registry represents the entire user configuration file.
type Registry struct {
	Version        int                 `yaml:"version"`
	CurrentProfile string              `yaml:"current_profile,omitempty"`
	Profiles       map[string]*Profile `yaml:"profiles,omitempty"` // Keyed by profile name
	Preferences    *Preferences        `yaml:"preferences,omitempty"`
}

// Profile describes one database connection and what to load from it.
// Passwords are NEVER stored; see Password.
type Profile struct {
	URI      string `yaml:"uri"`                // neo4j://, neo4j+s://, bolt://, bolt+s://
	Username string `yaml:"username,omitempty"` // Login name
	Database string `yaml:"database,omitempty"` // Empty means the server default
	Label    string `yaml:"label,omitempty"`    // Label loaded when no query is given
	Query    string `yaml:"query,omitempty"`    // Custom Cypher returning nodes
	Limit    int    `yaml:"limit,omitempty"`    // Row cap for label loads
	APOC     bool   `yaml:"apoc,omitempty"`     // Server has APOC installed
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	PageSize            int `yaml:"page_size"`            // Initial table page size (5, 10 or 20)
	QueryTimeout        int `yaml:"query_timeout"`        // Seconds
	NotificationSeconds int `yaml:"notification_seconds"` // How long outcome messages stay visible
	CacheTTL            int `yaml:"cache_ttl"`            // Seconds suggestions are reused, negative disables
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Profiles:    make(map[string]*Profile),
		Preferences: defaultPreferences(),
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		PageSize:            DefaultPageSize,
		QueryTimeout:        DefaultQueryTimeout,
		NotificationSeconds: DefaultNotificationSeconds,
		CacheTTL:            DefaultCacheTTL,
	}
}

// Validate checks that the profile can be used to connect.
func (p *Profile) Validate() error {
	if p.URI == "" {
		return errors.New("uri is required")
	}
	u, err := url.Parse(p.URI)
	if err != nil {
		return fmt.Errorf("invalid uri %q: %w", p.URI, err)
	}
	switch u.Scheme {
	case "neo4j", "neo4j+s", "neo4j+ssc", "bolt", "bolt+s", "bolt+ssc":
	default:
		return fmt.Errorf("unsupported uri scheme %q", u.Scheme)
	}
	if p.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", p.Limit)
	}
	return nil
}

// EffectiveLimit returns Limit or DefaultLimit when unset.
func (p *Profile) EffectiveLimit() int {
	if p.Limit > 0 {
		return p.Limit
	}
	return DefaultLimit
}

// GetProfile retrieves a profile by name. An empty name selects the current
// profile, or the only profile when there is exactly one.
func (r *Registry) GetProfile(name string) (string, *Profile, error) {
	if name == "" {
		name = r.CurrentProfile
	}
	if name == "" && len(r.Profiles) == 1 {
		for only := range r.Profiles {
			name = only
		}
	}
	if name == "" {
		name = DefaultProfileName
	}
	p, ok := r.Profiles[name]
	if !ok {
		return name, nil, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return name, p, nil
}

// SetProfile adds or replaces a profile. The first profile added becomes
// the current one.
func (r *Registry) SetProfile(name string, p *Profile) error {
	if name == "" {
		return errors.New("profile name is required")
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("profile %s: %w", name, err)
	}
	if r.Profiles == nil {
		r.Profiles = make(map[string]*Profile)
	}
	r.Profiles[name] = p
	if r.CurrentProfile == "" {
		r.CurrentProfile = name
	}
	return nil
}

// RemoveProfile deletes a profile. Removing the current profile clears the
// selection.
func (r *Registry) RemoveProfile(name string) error {
	if _, ok := r.Profiles[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	delete(r.Profiles, name)
	if r.CurrentProfile == name {
		r.CurrentProfile = ""
	}
	return nil
}

// UseProfile makes name the current profile.
func (r *Registry) UseProfile(name string) error {
	if _, ok := r.Profiles[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	r.CurrentProfile = name
	return nil
}

// ProfileNames returns the profile names in sorted order.
func (r *Registry) ProfileNames() []string {
	names := make([]string, 0, len(r.Profiles))
	for name := range r.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Prefs returns the preferences with defaults filled in.
func (r *Registry) Prefs() Preferences {
	p := *defaultPreferences()
	if r.Preferences == nil {
		return p
	}
	switch r.Preferences.PageSize {
	case 5, 10, 20:
		p.PageSize = r.Preferences.PageSize
	}
	if r.Preferences.QueryTimeout > 0 {
		p.QueryTimeout = r.Preferences.QueryTimeout
	}
	if r.Preferences.NotificationSeconds > 0 {
		p.NotificationSeconds = r.Preferences.NotificationSeconds
	}
	if r.Preferences.CacheTTL != 0 {
		p.CacheTTL = r.Preferences.CacheTTL
	}
	return p
}

// Timeout returns the query timeout as a duration.
func (p Preferences) Timeout() time.Duration {
	return time.Duration(p.QueryTimeout) * time.Second
}

// NotificationTTL returns how long notifications stay visible.
func (p Preferences) NotificationTTL() time.Duration {
	return time.Duration(p.NotificationSeconds) * time.Second
}

// SuggestionTTL returns the suggestion cache lifetime; negative disables it.
func (p Preferences) SuggestionTTL() time.Duration {
	return time.Duration(p.CacheTTL) * time.Second
}
