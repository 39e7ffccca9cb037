package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jonpalmisc/limoncello/internal/adapters/watcher"
	"github.com/jonpalmisc/limoncello/internal/core/domain"
)

// watch builds the selected samples once and then rebuilds every sample
// whose source or configuration changes, until ctx is cancelled.
func (a *App) watch(ctx context.Context, s *session, strict bool) error {
	root := s.catalog.Root
	layout := s.catalog.Layout
	inputs := watchedInputs(root, layout, s.entries)

	a.changes.Prime(inputs.paths()...)

	report, err := a.run(ctx, s.mode, s.plan(s.entries))
	if report != nil {
		a.summarize(report)
	}
	if err != nil {
		return interrupted(err)
	}
	if err := a.verdict(report, strict); err != nil {
		a.logger.Error(err)
	}

	dirs := []string{resolveIn(root, layout.SourceRoot), resolveIn(root, layout.ConfigRoot)}
	ignore := []string{resolveIn(root, layout.OutputRoot)}

	if err := a.watcher.Start(ctx, dirs, ignore); err != nil {
		return err
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	batches := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		select {
		case batches <- paths:
		case <-ctx.Done():
		}
	})
	defer debouncer.Stop()

	go func() {
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
	}()

	a.logger.Info("watching for changes, press Ctrl-C to stop")

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-batches:
			entries := inputs.affected(a.changes.Filter(paths))
			if len(entries) == 0 {
				continue
			}

			a.logger.Info(fmt.Sprintf("rebuilding %d sample(s)", len(entries)))
			report, err := a.run(ctx, s.mode, s.plan(entries))
			if report != nil {
				a.summarize(report)
			}
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				a.logger.Error(err)
			}
		}
	}
}

// inputIndex maps the files a sample is built from back to its catalog entries.
type inputIndex struct {
	order   []string
	entries map[string][]int
	all     []domain.BuildEntry
}

func watchedInputs(root string, layout domain.Layout, entries []domain.BuildEntry) *inputIndex {
	idx := &inputIndex{
		entries: make(map[string][]int),
		all:     entries,
	}

	add := func(path string, i int) {
		path = resolveIn(root, path)
		if _, ok := idx.entries[path]; !ok {
			idx.order = append(idx.order, path)
		}
		idx.entries[path] = append(idx.entries[path], i)
	}

	for i, e := range entries {
		add(layout.SourcePath(e.Source), i)
		if e.Config != "" {
			add(layout.ConfigPath(e.Config), i)
		}
	}
	return idx
}

func (idx *inputIndex) paths() []string {
	return idx.order
}

// affected returns, in catalog order, the entries built from any of paths.
func (idx *inputIndex) affected(paths []string) []domain.BuildEntry {
	hit := make([]bool, len(idx.all))
	for _, p := range paths {
		for _, i := range idx.entries[filepath.Clean(p)] {
			hit[i] = true
		}
	}

	var out []domain.BuildEntry
	for i, ok := range hit {
		if ok {
			out = append(out, idx.all[i])
		}
	}
	return out
}

func resolveIn(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
