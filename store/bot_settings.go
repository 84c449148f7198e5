package store

import "context"

// BotSettings is the externally editable operational-strings singleton,
// per spec.md §3. It is served through a read-through cache
// (spec.md §9: "shared BotSettings singleton -> injected read-through
// cache with a refresh interval").
type BotSettings struct {
	BotUsername     string `db:"bot_username"`
	SupportUsername string `db:"support_username"`
}

const botSettingsCacheKey = "bot_settings"

// GetBotSettings returns the cached settings, refreshing from the driver on
// a cache miss or expiry.
func (s *Store) GetBotSettings(ctx context.Context) (*BotSettings, error) {
	if v, ok := s.instanceSettingCache.Get(botSettingsCacheKey); ok {
		return v.(*BotSettings), nil
	}

	settings, err := s.driver.GetBotSettings(ctx)
	if err != nil {
		return nil, wrapStorageErr("GetBotSettings", err)
	}

	s.instanceSettingCache.Set(botSettingsCacheKey, settings)
	return settings, nil
}

// UpdateBotSettings persists new settings and invalidates the cache so the
// next read picks up the change within the cache's refresh interval.
func (s *Store) UpdateBotSettings(ctx context.Context, settings *BotSettings) error {
	if err := s.driver.UpdateBotSettings(ctx, settings); err != nil {
		return wrapStorageErr("UpdateBotSettings", err)
	}
	s.instanceSettingCache.Invalidate(botSettingsCacheKey)
	return nil
}
