package app

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/talkincode/toughstock/config"
	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/internal/inventory"
	"github.com/talkincode/toughstock/internal/report"
	"github.com/talkincode/toughstock/internal/session"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// StoreProvider provides the inventory store
type StoreProvider interface {
	Store() *inventory.Store
}

// SessionProvider provides session and preference access
type SessionProvider interface {
	Sessions() *session.Manager
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	ConfigProvider
	StoreProvider
	SessionProvider
	SchedulerProvider

	// ReportOptions returns the configured report thresholds
	ReportOptions() report.Options
	// Today is the current calendar date in the configured location
	Today() domain.Date
	// InitDb discards the inventory and reseeds the sample data
	InitDb(ctx context.Context) error
	// RunExportNow writes the report files immediately
	RunExportNow(ctx context.Context) (ExportResult, error)
}
