package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/talkincode/toughstock/internal/report"
	"go.uber.org/multierr"
)

// ExportResult lists the report files written by one export run.
type ExportResult struct {
	Dir   string    `json:"dir"`
	Files []string  `json:"files"`
	At    time.Time `json:"at"`
}

type exportTask struct {
	name  string
	write func(w io.Writer) error
}

// RunExportNow writes products.csv, categories.csv and inventory.xlsx into a dated
// directory under the report dir, one pool worker per file.
func (a *Application) RunExportNow(ctx context.Context) (ExportResult, error) {
	snap := a.store.Snapshot()
	today := a.Today()
	opts := a.ReportOptions()
	dir := filepath.Join(a.appConfig.GetReportDir(), today.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ExportResult{}, errors.Wrap(err, "create report dir")
	}

	tasks := []exportTask{
		{"products.csv", func(w io.Writer) error {
			return report.WriteProductsCSV(w, snap.Products, today, opts)
		}},
		{"categories.csv", func(w io.Writer) error {
			return report.WriteCategoriesCSV(w, snap)
		}},
		{"inventory.xlsx", func(w io.Writer) error {
			return report.WriteWorkbook(w, snap, today, opts)
		}},
	}
	files, err := runExportTasks(ctx, dir, tasks, a.appConfig.Jobs.ExportWorkers)
	return ExportResult{Dir: dir, Files: files, At: time.Now()}, err
}

func runExportTasks(ctx context.Context, dir string, tasks []exportTask, workers int) ([]string, error) {
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.Wrap(err, "create export pool")
	}
	defer pool.Release()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		files []string
		errs  error
	)
	for _, t := range tasks {
		if ctx.Err() != nil {
			mu.Lock()
			errs = multierr.Append(errs, ctx.Err())
			mu.Unlock()
			break
		}
		t := t
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			target := filepath.Join(dir, t.name)
			werr := writeFile(target, t.write)
			mu.Lock()
			defer mu.Unlock()
			if werr != nil {
				errs = multierr.Append(errs, errors.Wrapf(werr, "export %s", t.name))
				return
			}
			files = append(files, target)
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			errs = multierr.Append(errs, submitErr)
			mu.Unlock()
		}
	}
	wg.Wait()
	return files, errs
}

func writeFile(target string, write func(w io.Writer) error) error {
	tmp := target + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, target)
}
