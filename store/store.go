// Package store is the typed data-access layer over the persistent
// relational store described in spec.md §3. All other components depend
// on it; it never depends on them.
package store

import (
	"context"
	"time"

	"github.com/narvesen/supportbot/internal/profile"
	"github.com/narvesen/supportbot/store/cache"
)

// Store provides database access to all entities named in spec.md §3.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// instanceSettingCache serves BotSettings through a read-through cache
	// with a refresh interval (spec.md §9).
	instanceSettingCache *cache.Cache
}

// New creates a new Store over driver.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      1 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}

	return &Store{
		driver:               driver,
		profile:              profile,
		instanceSettingCache: cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Migrate(ctx context.Context) error {
	return wrapStorageErr("Migrate", s.driver.Migrate(ctx))
}

func (s *Store) Close() error {
	s.instanceSettingCache.Close()
	return s.driver.Close()
}
