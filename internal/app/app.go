package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/talkincode/toughstock/config"
	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/internal/inventory"
	"github.com/talkincode/toughstock/internal/report"
	"github.com/talkincode/toughstock/internal/session"
	"github.com/talkincode/toughstock/internal/storage"
	"github.com/talkincode/toughstock/internal/webserver"
	"github.com/talkincode/toughstock/pkg/common"
	"github.com/talkincode/toughstock/pkg/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TopicInventoryChanged is published with an inventory.Change after every committed mutation.
const TopicInventoryChanged = "inventory:changed"

type Application struct {
	appConfig *config.AppConfig
	kv        storage.KV
	store     *inventory.Store
	sessions  *session.Manager
	sched     *cron.Cron
	bus       EventBus.Bus
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ StoreProvider     = (*Application)(nil)
	_ SessionProvider   = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Store() *inventory.Store {
	return a.store
}

func (a *Application) Sessions() *session.Manager {
	return a.sessions
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Bus returns the application event bus
func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

func (a *Application) ReportOptions() report.Options {
	inv := a.appConfig.Inventory
	return report.Options{
		LowStockThreshold: inv.LowStockThreshold,
		ExpiryWindowDays:  inv.ExpiryWindowDays,
		TopN:              inv.TopN,
	}
}

func (a *Application) Today() domain.Date {
	return a.store.Today()
}

// OverrideStorage replaces the storage backend before Init (used in tests).
func (a *Application) OverrideStorage(kv storage.KV) {
	a.kv = kv
}

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	initLogger(cfg)

	// Initialize metrics with workdir convention
	err = metrics.InitMetrics(cfg.System.Workdir)
	if err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	if a.kv == nil {
		a.kv, err = storage.Open(cfg.Storage.Type, cfg.GetStoragePath(), cfg.Storage.Dsn)
		if err != nil {
			return errors.Wrap(err, "open storage")
		}
	}
	zap.S().Infof("Storage ready, type: %s", common.IfEmptyStr(cfg.Storage.Type, "bolt"))

	a.bus = EventBus.New()
	opts := []inventory.Option{
		inventory.WithChangeHook(func(c inventory.Change) {
			a.bus.Publish(TopicInventoryChanged, c)
		}),
	}
	if gen, err := common.NewIDGenerator(cfg.System.NodeID); err == nil {
		opts = append(opts, inventory.WithIDGenerator(gen))
	} else {
		zap.S().Warnf("invalid node id %d, using default id generator", cfg.System.NodeID)
	}
	a.store = inventory.NewStore(a.kv, opts...)
	a.sessions = session.NewManager(a.kv)

	if err := a.bus.SubscribeAsync(TopicInventoryChanged, a.onInventoryChanged, true); err != nil {
		zap.S().Errorf("subscribe %s error %s", TopicInventoryChanged, err.Error())
	}

	if err := a.store.Load(context.Background()); err != nil {
		// a failed write leaves the loaded state usable, a failed read does not
		if len(a.store.Categories()) == 0 {
			return errors.Wrap(err, "load inventory")
		}
		zap.S().Errorf("inventory load persisted with error: %v", err)
	}
	a.checkPreferences()

	a.initJob()
	return nil
}

func initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	var err error
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// Run serves the admin api until ctx is cancelled or the server fails.
func (a *Application) Run(ctx context.Context, srv *webserver.AdminServer) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		if a.sched != nil {
			<-a.sched.Stop().Done()
		}
		return nil
	})
	return g.Wait()
}

// InitDb discards the inventory and reseeds the sample data
func (a *Application) InitDb(ctx context.Context) error {
	return a.store.Reset(ctx)
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.bus != nil {
		a.bus.WaitAsync()
	}
	if a.kv != nil {
		_ = a.kv.Close()
	}
	_ = metrics.Close()
	_ = zap.L().Sync()
}
