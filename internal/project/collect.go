package project

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"distpack/internal/config"
	"distpack/pkg/depreport"
	"distpack/pkg/jarname"
)

// Filter decides whether one resolved artifact joins the packaged set.
type Filter func(configuration string, module depreport.Module, artifact depreport.Artifact) bool

// Options controls dependency collection behaviour.
type Options struct {
	Concurrency int
	Filter      Filter
	Classifiers []string
	Log         *log.Logger
}

// Collect loads the dependency report of every supplied project, selects the
// runtime configuration, and merges the surviving artifacts into a resolved
// set. Reports load concurrently; merging follows project order, so later
// projects overwrite earlier ones on identity collisions.
func Collect(ctx context.Context, root string, projects []config.ProjectConfig, opts Options) (*ResolvedSet, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	filter := opts.Filter
	if filter == nil {
		filter = func(string, depreport.Module, depreport.Artifact) bool { return true }
	}

	allowed := make(map[string]bool, len(opts.Classifiers))
	for _, classifier := range opts.Classifiers {
		allowed[classifier] = true
	}

	type loaded struct {
		report depreport.Report
		err    error
	}
	reports := make([]loaded, len(projects))

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, concurrency)
	)
	for i, p := range projects {
		if p.Report == "" {
			logf(opts.Log, "project %s has no dependency report, skipping", p.Name)
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := reportPath(root, p)
		i := i
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			report, err := depreport.Load(path)
			reports[i] = loaded{report: report, err: err}
		}()
	}
	wg.Wait()

	set := NewResolvedSet()
	for i, p := range projects {
		if p.Report == "" {
			continue
		}
		if err := reports[i].err; err != nil {
			return nil, fmt.Errorf("load report for project %q: %w", p.Name, err)
		}

		runtime, ok := reports[i].report.Configuration(depreport.RuntimeConfiguration)
		if !ok {
			logf(opts.Log, "project %s report has no %s configuration", p.Name, depreport.RuntimeConfiguration)
			continue
		}

		for _, mod := range runtime.Modules {
			for _, artifact := range mod.Artifacts {
				if !filter(runtime.Name, mod, artifact) {
					continue
				}
				if artifact.Classifier != "" && !allowed[artifact.Classifier] {
					continue
				}
				set.Put(Dep{
					Identity: identityFor(mod, artifact),
					File:     artifact.File,
					Project:  p.Name,
				})
			}
		}
	}

	return set, nil
}

func identityFor(mod depreport.Module, artifact depreport.Artifact) jarname.Identity {
	return jarname.Identity{
		Organization: mod.Organization,
		Name:         mod.Name,
		Revision:     mod.Revision,
		Classifier:   artifact.Classifier,
		OriginalFile: filepath.Base(artifact.File),
	}
}

func reportPath(root string, p config.ProjectConfig) string {
	if filepath.IsAbs(p.Report) {
		return filepath.Clean(p.Report)
	}
	return filepath.Join(p.BaseDir(root), p.Report)
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, args...)
}
