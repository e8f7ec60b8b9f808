package app

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
	"github.com/talkincode/toughstock/internal/inventory"
	"github.com/talkincode/toughstock/internal/report"
	"github.com/talkincode/toughstock/pkg/metrics"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	a.sched = cron.New(cron.WithLocation(timeLocation()), cron.WithParser(cronParser))

	jobs := a.appConfig.Jobs
	interval := jobs.MetricsInterval
	if interval == "" {
		interval = "@every 30s"
	}
	var err error
	_, err = a.sched.AddFunc(interval, func() {
		go a.SchedInventoryMetricsTask()
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	if jobs.ExportCron != "" {
		_, err = a.sched.AddFunc(jobs.ExportCron, a.SchedReportExportTask)
		if err != nil {
			zap.S().Errorf("init job error %s", err.Error())
		}
	}

	a.sched.Start()
}

// onInventoryChanged refreshes the inventory gauges after a committed mutation
func (a *Application) onInventoryChanged(c inventory.Change) {
	zap.L().Debug("inventory changed", zap.String("namespace", "jobs"),
		zap.String("op", c.Op), zap.String("id", c.ProductID))
	a.SchedInventoryMetricsTask()
}

// SchedInventoryMetricsTask records the inventory gauges
func (a *Application) SchedInventoryMetricsTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	snap := a.store.Snapshot()
	ov := report.BuildOverview(snap, a.Today(), a.ReportOptions())
	metrics.SetGauge(metrics.InventoryProducts, int64(ov.TotalProducts))
	metrics.SetGauge(metrics.InventoryItems, int64(ov.TotalItems))
	metrics.SetGauge(metrics.InventoryValueCents, ov.TotalValue.Shift(2).Round(0).IntPart())
	metrics.SetGauge(metrics.InventoryLowStock, int64(ov.LowStock))
	metrics.SetGauge(metrics.InventoryOutOfStock, int64(ov.OutOfStock))
	metrics.SetGauge(metrics.InventoryExpiring, int64(ov.Expiring))
	metrics.SetGauge(metrics.InventoryExpired, int64(ov.Expired))
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge(metrics.SystemCPUUse, int64(_cpuuse[0]*100)) // percentage * 100
	}

	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge(metrics.SystemMemUse, int64(_meminfo.Used/1024/1024))
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return
	}

	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge(metrics.ProcessCPUUse, int64(cpuuse*100))
	}

	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge(metrics.ProcessMemUse, int64(meminfo.RSS/1024/1024))
	}
}

// SchedReportExportTask writes the scheduled report files
func (a *Application) SchedReportExportTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()
	res, err := a.RunExportNow(context.Background())
	if err != nil {
		zap.S().Errorf("report export error %s", err.Error())
		return
	}
	zap.L().Info("report export finished", zap.String("namespace", "jobs"), zap.Strings("files", res.Files))
}

func timeLocation() *time.Location {
	if time.Local == nil {
		return time.UTC
	}
	return time.Local
}
