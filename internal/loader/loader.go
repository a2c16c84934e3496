// Package loader runs one load cycle: fetch every configured sheet in
// parallel, normalize, and publish a single snapshot.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/sheetboard/internal/board"
	"github.com/sadopc/sheetboard/internal/config"
	"github.com/sadopc/sheetboard/internal/sheets"
	"github.com/sadopc/sheetboard/internal/store"
)

// RunRecorder persists load history. *store.Store satisfies it.
type RunRecorder interface {
	RecordRun(r store.LoadRun) (string, error)
}

type Loader struct {
	fetcher sheets.Fetcher
	cfg     config.Config
	target  *board.ActivityStore
	runs    RunRecorder
	logger  *zap.Logger
	now     func() time.Time
}

// New builds a loader. runs may be nil to skip history.
func New(fetcher sheets.Fetcher, cfg config.Config, target *board.ActivityStore, runs RunRecorder, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		fetcher: fetcher,
		cfg:     cfg,
		target:  target,
		runs:    runs,
		logger:  logger,
		now:     time.Now,
	}
}

type sheetOutcome struct {
	result board.SheetResult
	empty  bool
}

// Load fetches all department sheets and the to-do sheet concurrently. The
// first hard failure cancels the remaining fetches and nothing is published.
// Sheets that answer with no data contribute empty batches.
func (l *Loader) Load(ctx context.Context) (*board.Snapshot, error) {
	started := l.now()
	run := store.LoadRun{StartedAt: started, Departments: len(l.cfg.Departments)}

	snap, err := l.load(ctx, &run)
	run.Duration = l.now().Sub(started)
	if err != nil {
		run.Error = err.Error()
		l.logger.Error("load failed", zap.Error(err), zap.Duration("duration", run.Duration))
	} else {
		l.logger.Info("load finished",
			zap.Int("activities", run.Activities),
			zap.Int("projects", run.Projects),
			zap.Int("todos", run.Todos),
			zap.Strings("empty", run.EmptySheets),
			zap.Duration("duration", run.Duration))
	}

	if l.runs != nil {
		if _, rerr := l.runs.RecordRun(run); rerr != nil {
			l.logger.Warn("record load run", zap.Error(rerr))
		}
	}
	return snap, err
}

func (l *Loader) load(ctx context.Context, run *store.LoadRun) (*board.Snapshot, error) {
	outcomes := make([]sheetOutcome, len(l.cfg.Departments))
	var todoRows [][]string
	var todoEmpty bool

	eg, egCtx := errgroup.WithContext(ctx)

	for i, dept := range l.cfg.Departments {
		eg.Go(func() error {
			rows, empty, err := l.fetch(egCtx, l.cfg.ProjectsSpreadsheetID, dept.Sheet, l.cfg.ProjectsRange)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", dept.Sheet, err)
			}
			res := board.ParseSheet(dept.Name, rows)
			if res.Columns.Fallback {
				l.logger.Debug("header not recognised, using fixed columns",
					zap.String("sheet", dept.Sheet))
			}
			l.logger.Debug("sheet parsed",
				zap.String("sheet", dept.Sheet),
				zap.Int("rows", res.Rows),
				zap.Int("activities", len(res.Activities)))
			outcomes[i] = sheetOutcome{result: res, empty: empty}
			return nil
		})
	}

	eg.Go(func() error {
		rows, empty, err := l.fetch(egCtx, l.cfg.TodoSpreadsheetID, l.cfg.TodoSheet, l.cfg.TodoRange)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", l.cfg.TodoSheet, err)
		}
		todoRows, todoEmpty = rows, empty
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	b := board.NewSnapshotBuilder()
	for i, dept := range l.cfg.Departments {
		out := outcomes[i]
		if out.empty {
			run.EmptySheets = append(run.EmptySheets, dept.Sheet)
		}
		b.Append(board.DepartmentBatch{Department: dept.Name, Activities: out.result.Activities})
	}
	if todoEmpty {
		run.EmptySheets = append(run.EmptySheets, l.cfg.TodoSheet)
	}
	todos := board.ParseTodos(todoRows)
	b.Todos(todos)

	snap := b.Build(l.now())
	l.target.Replace(snap)

	run.Activities = len(snap.Regular())
	run.Projects = len(board.Aggregate(snap.All(), nil))
	run.Todos = len(todos)
	return snap, nil
}

// fetch treats ErrNoData as an empty sheet. Any other error is fatal.
func (l *Loader) fetch(ctx context.Context, spreadsheetID, sheet, cellRange string) ([][]string, bool, error) {
	rows, err := l.fetcher.Values(ctx, spreadsheetID, sheet, cellRange)
	if errors.Is(err, sheets.ErrNoData) {
		l.logger.Warn("sheet has no data", zap.String("sheet", sheet), zap.Error(err))
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rows, false, nil
}
