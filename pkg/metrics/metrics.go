// Package metrics records gauges into an embedded time series store.
package metrics

import (
	"path"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
)

// Gauge names.
const (
	InventoryValueCents = "inventory_value_cents"
	InventoryProducts   = "inventory_products"
	InventoryItems      = "inventory_items"
	InventoryLowStock   = "inventory_low_stock"
	InventoryOutOfStock = "inventory_out_of_stock"
	InventoryExpiring   = "inventory_expiring"
	InventoryExpired    = "inventory_expired"
	SystemCPUUse        = "system_cpuuse"
	SystemMemUse        = "system_memuse"
	ProcessCPUUse       = "toughstock_cpuuse"
	ProcessMemUse       = "toughstock_memuse"
)

var (
	mu     sync.RWMutex
	store  tstorage.Storage
	latest = map[string]int64{}
)

// InitMetrics opens the series store under <workdir>/data/metrics. An empty workdir
// keeps series in memory only.
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	if store != nil {
		_ = store.Close()
		store = nil
	}
	opts := []tstorage.Option{
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(7 * 24 * time.Hour),
	}
	if workdir != "" {
		opts = append(opts, tstorage.WithDataPath(path.Join(workdir, "data", "metrics")))
	}
	s, err := tstorage.NewStorage(opts...)
	if err != nil {
		return errors.Wrap(err, "open metrics storage")
	}
	store = s
	latest = map[string]int64{}
	return nil
}

// SetGauge records value for name at the current second.
func SetGauge(name string, value int64) {
	mu.Lock()
	defer mu.Unlock()
	latest[name] = value
	if store == nil {
		return
	}
	_ = store.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: float64(value)},
	}})
}

// GetGauge returns the last value set for name.
func GetGauge(name string) (int64, bool) {
	mu.RLock()
	defer mu.RUnlock()
	v, ok := latest[name]
	return v, ok
}

// Snapshot copies every last known gauge value.
func Snapshot() map[string]int64 {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]int64, len(latest))
	for k, v := range latest {
		out[k] = v
	}
	return out
}

// Point is one stored sample.
type Point struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// Query returns the samples of name in [start, end).
func Query(name string, start, end time.Time) ([]Point, error) {
	mu.RLock()
	defer mu.RUnlock()
	if store == nil {
		return nil, errors.New("metrics not initialized")
	}
	points, err := store.Select(name, nil, start.Unix(), end.Unix())
	if errors.Is(err, tstorage.ErrNoDataPoints) {
		return []Point{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]Point, 0, len(points))
	for _, p := range points {
		out = append(out, Point{Timestamp: p.Timestamp, Value: p.Value})
	}
	return out, nil
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}
