package app

import (
	"context"

	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/internal/storage"
	"go.uber.org/zap"
)

// checkPreferences initializes preference keys that are missing
func (a *Application) checkPreferences() {
	ctx := context.Background()
	_, exists, err := a.kv.Get(ctx, domain.KeyDarkMode)
	if err != nil {
		zap.L().Error("failed to read preferences", zap.Error(err))
		return
	}
	if exists {
		return
	}
	if err := storage.SetJSON(ctx, a.kv, map[string]interface{}{domain.KeyDarkMode: false}); err != nil {
		zap.L().Error("failed to initialize preferences", zap.Error(err))
		return
	}
	zap.L().Info("initialized preference", zap.String("key", domain.KeyDarkMode))
}
