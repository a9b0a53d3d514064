package relation

import (
	"sync"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Flag names a relation policy setting.
type Flag string

const (
	// FlagAfterPrimary is the "relations.after_primary_mode" setting.
	FlagAfterPrimary Flag = "after_primary_mode"
	// FlagClearOnEmpty is the "relations.clear_on_empty_mode" setting.
	FlagClearOnEmpty Flag = "clear_on_empty_mode"
)

// Settings is the process-wide settings source read by the Resolver.
type Settings interface {
	// RelationFlag returns the configured value of flag for the relation type.
	// ok is false when the setting is absent.
	RelationFlag(relationType string, flag Flag) (value bool, ok bool)
}

// SettingsFunc adapts a function to the Settings interface.
type SettingsFunc func(relationType string, flag Flag) (bool, bool)

// RelationFlag implements Settings.
func (f SettingsFunc) RelationFlag(relationType string, flag Flag) (bool, bool) {
	return f(relationType, flag)
}

// Resolver resolves the effective Config of a relation type.
// An explicit per-call override wins; otherwise the per-type default is read once
// from Settings and cached for the process lifetime; absent settings resolve to false.
type Resolver struct {
	mu       sync.RWMutex
	settings Settings
	store    *cache.Cache
	sf       singleflight.Group
}

// NewResolver creates a resolver reading defaults from settings. settings may be nil.
func NewResolver(settings Settings) *Resolver {
	return &Resolver{
		settings: settings,
		store:    cache.New(cache.NoExpiration, 0),
	}
}

// defaultResolver is the process-wide resolver used by synchronizers created without one.
var defaultResolver = NewResolver(nil)

// DefaultResolver returns the process-wide resolver.
func DefaultResolver() *Resolver {
	return defaultResolver
}

// SetSettings replaces the settings source and drops every cached default.
func (r *Resolver) SetSettings(settings Settings) {
	r.mu.Lock()
	r.settings = settings
	r.mu.Unlock()
	r.ResetAll()
}

// Defaults returns the cached default Config of a relation type, reading it from
// Settings on first use.
func (r *Resolver) Defaults(relationType string) Config {
	if cached, found := r.store.Get(relationType); found {
		return cached.(Config)
	}

	// Concurrent first reads of the same type share one settings lookup.
	result, _, _ := r.sf.Do(relationType, func() (interface{}, error) {
		if cached, found := r.store.Get(relationType); found {
			return cached, nil
		}
		cfg := r.read(relationType)
		r.store.Set(relationType, cfg, cache.NoExpiration)
		return cfg, nil
	})
	return result.(Config)
}

func (r *Resolver) read(relationType string) Config {
	r.mu.RLock()
	settings := r.settings
	r.mu.RUnlock()

	var cfg Config
	if settings == nil {
		return cfg
	}
	if v, ok := settings.RelationFlag(relationType, FlagAfterPrimary); ok {
		cfg.AfterPrimary = v
	}
	if v, ok := settings.RelationFlag(relationType, FlagClearOnEmpty); ok {
		cfg.ClearOnEmpty = v
	}
	return cfg
}

// Resolve returns the effective Config for a call.
func (r *Resolver) Resolve(relationType string, opts Options) Config {
	defaults := r.Defaults(relationType)
	cfg := defaults
	if v, ok := opts.AfterPrimary.resolve(); ok {
		cfg.AfterPrimary = v
	}
	if v, ok := opts.ClearOnEmpty.resolve(); ok {
		cfg.ClearOnEmpty = v
	}
	return cfg
}

// AfterPrimary resolves the deferral policy alone.
func (r *Resolver) AfterPrimary(relationType string, explicit Toggle) bool {
	if v, ok := explicit.resolve(); ok {
		return v
	}
	return r.Defaults(relationType).AfterPrimary
}

// ClearOnEmpty resolves the empty-set policy alone.
func (r *Resolver) ClearOnEmpty(relationType string, explicit Toggle) bool {
	if v, ok := explicit.resolve(); ok {
		return v
	}
	return r.Defaults(relationType).ClearOnEmpty
}

// Reset drops the cached default of a relation type so the next resolution re-reads Settings.
// It exists for tests and administrative reloads, not for hot-reloading production traffic.
func (r *Resolver) Reset(relationType string) {
	r.store.Delete(relationType)
}

// ResetAll drops every cached default.
func (r *Resolver) ResetAll() {
	r.store.Flush()
}
