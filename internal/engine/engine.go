// Package engine implements the Engine facade: sequencing template
// analysis, parallel source processing, single-writer aggregation, and
// output writing, with progress reporting and cooperative cancellation.
package engine

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ozwilder/xlconsolidate/internal/aggregate"
	"github.com/ozwilder/xlconsolidate/internal/apperrors"
	"github.com/ozwilder/xlconsolidate/internal/source"
	"github.com/ozwilder/xlconsolidate/internal/template"
	"github.com/ozwilder/xlconsolidate/internal/xlwrite"
)

// Logger is the minimal structured-logging surface the engine depends on.
// Concrete implementations (internal/logging) wrap zerolog; the engine
// never imports a logging library directly.
type Logger interface {
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// ProgressSink receives coarse-grained progress milestones. Implementations
// may ignore either field; percent is monotonically non-decreasing.
type ProgressSink interface {
	OnProgress(percent int, message string)
}

type noopSink struct{}

func (noopSink) OnProgress(int, string) {}

// Options holds the tuning knobs for a single consolidation run.
type Options struct {
	ExcludeZeroPercent      bool
	StrictStructure         bool
	OverwriteOutputFormulas bool
	Workers                 int
	IncludeXLS              bool
}

// DefaultOptions returns the documented defaults for Options.
func DefaultOptions() Options {
	return Options{
		ExcludeZeroPercent:      false,
		StrictStructure:         false,
		OverwriteOutputFormulas: true,
		Workers:                 4,
		IncludeXLS:              false,
	}
}

// Request is a single consolidation invocation.
type Request struct {
	TemplatePath string
	SourceFolder string
	OutputFolder string
	Options      Options
}

// SkippedFile records a recoverable per-source failure.
type SkippedFile struct {
	Path       string
	ReasonCode apperrors.ReasonCode
}

// Result is returned on success.
type Result struct {
	OutputPath     string
	FilesProcessed int
	FilesSkipped   []SkippedFile
}

// Consolidate runs the full pipeline: load the template, discover and
// process sources in a bounded worker pool, reduce into a single
// Aggregator, then write the output workbook.
func Consolidate(ctx context.Context, req Request, sink ProgressSink, log Logger) (*Result, error) {
	if sink == nil {
		sink = noopSink{}
	}
	runID := uuid.NewString()
	fields := map[string]any{"run_id": runID}

	if _, err := os.Stat(req.TemplatePath); err != nil {
		return nil, apperrors.Wrap(apperrors.TemplateMissing, apperrors.ReasonIO, req.TemplatePath, err)
	}

	tmpl, err := template.Analyze(req.TemplatePath)
	if err != nil {
		if log != nil {
			log.Error("template load failed", merge(fields, map[string]any{"error": err.Error()}))
		}
		return nil, err
	}
	sink.OnProgress(5, "template-loaded")

	files, err := source.Discover(req.SourceFolder, req.Options.IncludeXLS)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.NoSources, apperrors.ReasonIO, req.SourceFolder, err)
	}
	if len(files) == 0 {
		return nil, apperrors.New(apperrors.NoSources, nil)
	}

	agg := aggregate.New(tmpl, req.Options.ExcludeZeroPercent, len(files))

	workers := req.Options.Workers
	if workers <= 0 {
		workers = 1
	}

	recordsCh := make(chan source.Record, workers*64)
	skippedCh := make(chan SkippedFile, len(files))
	processed := make([]bool, len(files))

	var progressMu sync.Mutex
	completed := 0

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i, path := range files {
		i, path := i, path
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			skipped, readErr := source.Read(gctx, path, tmpl, req.Options.StrictStructure, func(rec source.Record) {
				select {
				case recordsCh <- rec:
				case <-gctx.Done():
				}
			})
			if readErr != nil {
				ae, _ := apperrors.As(readErr)
				strictAbort := ae != nil && ae.Kind == apperrors.StructureMismatchError && req.Options.StrictStructure
				if ae != nil && ae.Kind.Recoverable() && !strictAbort {
					skippedCh <- SkippedFile{Path: path, ReasonCode: ae.ReasonCode}
					if log != nil {
						log.Warn("source skipped", merge(fields, map[string]any{"source": path, "reason_code": string(ae.ReasonCode)}))
					}
					return nil
				}
				return readErr
			}
			for _, s := range skipped {
				ae, _ := apperrors.As(s)
				code := apperrors.ReasonIO
				if ae != nil {
					code = ae.ReasonCode
				}
				skippedCh <- SkippedFile{Path: path, ReasonCode: code}
			}
			processed[i] = true
			progressMu.Lock()
			completed++
			sink.OnProgress(5+80*completed/len(files), fmt.Sprintf("processed %s", source.Label(path)))
			progressMu.Unlock()
			return nil
		})
	}

	reduceDone := make(chan struct{})
	go func() {
		defer close(reduceDone)
		for rec := range recordsCh {
			agg.Add(rec)
		}
	}()

	waitErr := group.Wait()
	close(recordsCh)
	<-reduceDone
	close(skippedCh)

	if waitErr != nil {
		if ctx.Err() != nil {
			return nil, apperrors.New(apperrors.Cancelled, ctx.Err())
		}
		return nil, waitErr
	}
	if ctx.Err() != nil {
		return nil, apperrors.New(apperrors.Cancelled, ctx.Err())
	}

	var skippedFiles []SkippedFile
	for sf := range skippedCh {
		skippedFiles = append(skippedFiles, sf)
	}
	sort.Slice(skippedFiles, func(i, j int) bool { return skippedFiles[i].Path < skippedFiles[j].Path })

	sink.OnProgress(90, "writing")

	writeOpts := xlwrite.Options{
		OverwriteOutputFormulas: req.Options.OverwriteOutputFormulas,
		ExcludeZeroPercent:      req.Options.ExcludeZeroPercent,
	}
	outPath, err := xlwrite.Write(req.TemplatePath, req.OutputFolder, tmpl, agg, writeOpts, len(files))
	if err != nil {
		return nil, err
	}

	sink.OnProgress(100, "saved")

	filesProcessed := 0
	for _, ok := range processed {
		if ok {
			filesProcessed++
		}
	}

	return &Result{
		OutputPath:     outPath,
		FilesProcessed: filesProcessed,
		FilesSkipped:   skippedFiles,
	}, nil
}

func merge(base map[string]any, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
