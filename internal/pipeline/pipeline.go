// Package pipeline runs a catalog page through extraction, resolution and
// reconciliation and reports the outcome as a Summary.
//
// A run is a single pass on one goroutine. Only a source that cannot be loaded
// aborts it; malformed rows, ambiguous fields, resolution fallbacks and storage
// failures are counted in the Summary and the run continues.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fivec-maps/catalog-import/internal/apperrors"
	"github.com/fivec-maps/catalog-import/internal/catalog"
	"github.com/fivec-maps/catalog-import/internal/logger"
	"github.com/fivec-maps/catalog-import/internal/reconcile"
	"github.com/fivec-maps/catalog-import/internal/resolve"
	"github.com/fivec-maps/catalog-import/internal/scraper"
)

// Session is the persistence a run works in. Writes become durable on Commit.
type Session interface {
	resolve.Lookup
	reconcile.Store
	Commit() error
	Rollback() error
}

// Options configures a Driver.
type Options struct {
	Mode    reconcile.Mode
	Scrape  scraper.Options
	Loader  *scraper.Loader
	College catalog.CollegeCode // strategy code for Run; defaults to catalog.DefaultCollege
}

// Driver runs the pipeline.
type Driver struct {
	opts    Options
	log     *logger.Logger
	metrics *logger.Metrics
}

// NewDriver creates a Driver. log and metrics may be nil.
func NewDriver(opts Options, log *logger.Logger, metrics *logger.Metrics) *Driver {
	if opts.Mode == "" {
		opts.Mode = reconcile.DefaultMode
	}
	if opts.College == "" {
		opts.College = catalog.DefaultCollege
	}
	if opts.Loader == nil {
		opts.Loader = scraper.NewLoader(0, "")
	}
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = logger.NewMetrics()
	}
	return &Driver{opts: opts, log: log, metrics: metrics}
}

// Metrics returns the driver's metrics.
func (d *Driver) Metrics() *logger.Metrics {
	return d.metrics
}

// Strategy returns the table strategy Run uses for source.
func (d *Driver) Strategy(source string) scraper.Strategy {
	return &scraper.Table{
		College: d.opts.College,
		Page:    source,
		Loader:  d.opts.Loader,
		Options: d.opts.Scrape,
	}
}

// Run imports the catalog page at source (a file path or URL) for semester.
func (d *Driver) Run(ctx context.Context, sess Session, source, semester string) (*Summary, error) {
	return d.RunStrategy(ctx, sess, d.Strategy(source), semester)
}

// Scrape parses the strategy's courses without persisting anything.
func (d *Driver) Scrape(ctx context.Context, strategy scraper.Strategy, semester string) (*Summary, *scraper.Batch, error) {
	summary := d.newSummary(strategy, semester)
	log := d.log.With(logger.Fields{"run_id": summary.RunID, "semester": semester})

	start := time.Now()
	batch, err := strategy.ScrapeCourses(ctx)
	d.metrics.Since("scrape", start)
	if err != nil {
		log.Error("source unavailable", logger.Fields{"source": strategy.Source()}, err)
		return nil, nil, err
	}

	summary.TableFound = batch.TableFound
	if !batch.TableFound {
		log.Warn("catalog table not found", logger.Fields{
			"source":      strategy.Source(),
			"table_class": d.opts.Scrape.TableClass,
		})
	}

	for _, m := range batch.Malformed {
		d.metrics.IncrCounter("rows_malformed")
		summary.Malformed++
		summary.Errored++
		summary.addError(m.Index, "", m.Err())
		log.Warn("malformed row skipped", logger.Fields{"row": m.Index, "cells": m.Cells})
	}

	summary.Courses = batch.ParsedCourses()
	for _, p := range batch.Courses {
		d.metrics.IncrCounter("rows_parsed")
		summary.Parsed++
		if len(p.Notes) == 0 {
			continue
		}
		summary.Ambiguous++
		for _, note := range p.Notes {
			log.Debug("extraction ambiguous", logger.Fields{"row": p.Row, "course": p.Course.Label(), "note": note.Error()})
		}
	}

	summary.FinishedAt = time.Now()
	return summary, batch, nil
}

// RunStrategy imports the courses produced by strategy for semester. The returned
// error is non-nil only when the source could not be loaded; everything else is
// reported in the Summary. The session is committed once at the end of the pass and
// rolled back if the source fails.
func (d *Driver) RunStrategy(ctx context.Context, sess Session, strategy scraper.Strategy, semester string) (*Summary, error) {
	start := time.Now()
	defer d.metrics.Since("pipeline_run", start)

	summary, batch, err := d.Scrape(ctx, strategy, semester)
	if err != nil {
		if rbErr := sess.Rollback(); rbErr != nil {
			d.log.Warn("rollback failed", logger.Fields{"error": rbErr.Error()})
		}
		return nil, err
	}
	summary.StartedAt = start
	summary.Mode = d.opts.Mode

	log := d.log.With(logger.Fields{"run_id": summary.RunID, "semester": semester})
	resolver := resolve.New(sess, log)
	reconciler := reconcile.New(sess, d.opts.Mode)

	for _, p := range batch.Courses {
		d.process(ctx, log, summary, resolver, reconciler, p, semester)
	}

	if err := sess.Commit(); err != nil {
		if !errors.Is(err, apperrors.ErrStorage) {
			err = apperrors.Storage("commit", err)
		}
		log.Error("commit failed", logger.Fields{
			"imported": summary.Imported,
			"updated":  summary.Updated,
		}, err)
		summary.Errored += summary.Imported + summary.Updated
		summary.Imported, summary.Updated = 0, 0
		summary.addError(0, "", err)
	}

	hits, misses, entries := resolver.CacheStats()
	d.metrics.AddCounter("location_cache_hits", int64(hits))
	d.metrics.AddCounter("location_cache_misses", int64(misses))
	d.metrics.AddCounter("location_cache_entries", int64(entries))
	d.metrics.AddCounter("courses_imported", int64(summary.Imported))
	d.metrics.AddCounter("courses_updated", int64(summary.Updated))
	d.metrics.AddCounter("courses_skipped", int64(summary.Skipped))
	d.metrics.AddCounter("courses_errored", int64(summary.Errored))

	summary.sortErrors()
	summary.FinishedAt = time.Now()

	log.Info("run complete", logger.Fields{
		"source":    summary.Source,
		"parsed":    summary.Parsed,
		"imported":  summary.Imported,
		"updated":   summary.Updated,
		"skipped":   summary.Skipped,
		"errored":   summary.Errored,
		"malformed": summary.Malformed,
		"duration":  summary.Duration().String(),
	})
	return summary, nil
}

func (d *Driver) process(ctx context.Context, log *logger.Logger, summary *Summary, resolver *resolve.Resolver,
	reconciler *reconcile.Reconciler, p scraper.Parsed, semester string) {
	course := p.Course
	key := course.Key(semester).String()

	college, fallback, err := resolver.College(ctx, course.CollegeCode)
	if fallback {
		summary.Fallbacks++
	}
	if err != nil {
		summary.Errored++
		summary.addError(p.Row, key, err)
		log.Error("college resolution failed", logger.Fields{"row": p.Row, "course": key}, err)
		return
	}

	location, err := resolver.Location(ctx, course.Building)
	if err != nil {
		summary.Errored++
		summary.addError(p.Row, key, err)
		log.Error("location resolution failed", logger.Fields{"row": p.Row, "course": key}, err)
		return
	}

	res := reconciler.Reconcile(ctx, course, semester, reconcile.Refs{College: college, Location: location})
	switch res.Outcome {
	case reconcile.Imported:
		summary.Imported++
	case reconcile.Updated:
		summary.Updated++
	case reconcile.Skipped:
		summary.Skipped++
	case reconcile.Errored:
		summary.Errored++
		summary.addError(p.Row, key, res.Err)
		log.Error("course not persisted", logger.Fields{"row": p.Row, "course": key}, res.Err)
		return
	}

	if location == nil {
		summary.Unlocated++
	}
	log.Debug("course reconciled", logger.Fields{
		"row":       p.Row,
		"course":    key,
		"outcome":   res.Outcome.String(),
		"course_id": res.CourseID,
	})
}

func (d *Driver) newSummary(strategy scraper.Strategy, semester string) *Summary {
	now := time.Now()
	return &Summary{
		RunID:      uuid.NewString(),
		Semester:   semester,
		Source:     strategy.Source(),
		StartedAt:  now,
		FinishedAt: now,
		Errors:     make([]RecordError, 0),
		Courses:    make([]*catalog.ParsedCourse, 0),
	}
}
