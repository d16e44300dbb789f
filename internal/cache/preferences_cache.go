package cache

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
)

const preferencesKeyPrefix = "ui_preferences:"

// PreferencesCache stores UI preferences without expiry.
type PreferencesCache struct {
	cache CacheService
}

func NewPreferencesCache(cache CacheService) *PreferencesCache {
	return &PreferencesCache{cache: cache}
}

// Get returns the defaults for users that never saved preferences.
func (p *PreferencesCache) Get(ctx context.Context, userID string) (models.UIPreferences, error) {
	var prefs models.UIPreferences
	err := p.cache.Get(ctx, preferencesKeyPrefix+userID, &prefs)
	if errors.Is(err, ErrCacheMiss) {
		return models.DefaultUIPreferences(), nil
	}
	if err != nil {
		return models.UIPreferences{}, err
	}
	return prefs, nil
}

func (p *PreferencesCache) Save(ctx context.Context, userID string, prefs models.UIPreferences) error {
	return p.cache.Set(ctx, preferencesKeyPrefix+userID, prefs, 0)
}
