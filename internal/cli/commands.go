package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivec-maps/catalog-import/internal/calendar"
	"github.com/fivec-maps/catalog-import/internal/catalog"
	"github.com/fivec-maps/catalog-import/internal/filter"
	"github.com/fivec-maps/catalog-import/internal/logger"
	"github.com/fivec-maps/catalog-import/internal/pipeline"
	"github.com/fivec-maps/catalog-import/internal/reconcile"
	"github.com/fivec-maps/catalog-import/internal/scraper"
	"github.com/fivec-maps/catalog-import/internal/storage"
	"github.com/fivec-maps/catalog-import/internal/store"
)

// runFlags are shared by scrape and import.
type runFlags struct {
	semester  string
	college   string
	mode      string
	delimiter string
}

func (f *runFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.semester, "semester", "", "Semester the catalog belongs to, e.g. \"Fall 2024\" (required)")
	cmd.Flags().StringVar(&f.college, "college", "", "College code whose strategy handles the page (default PO)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "Reconcile mode for existing courses: skip or update")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "Separator between course code and section")
	cmd.MarkFlagRequired("semester")
}

// driver builds a pipeline driver from config overridden by the flags.
func (a *app) driver(f *runFlags) (*pipeline.Driver, catalog.CollegeCode, error) {
	code := catalog.DefaultCollege
	if f.college != "" {
		parsed, ok := catalog.ParseCollegeCode(f.college)
		if !ok {
			return nil, "", fmt.Errorf("unknown college code: %s", f.college)
		}
		code = parsed
	}

	mode := a.cfg.Mode()
	if f.mode != "" {
		parsed, err := reconcile.ParseMode(f.mode)
		if err != nil {
			return nil, "", err
		}
		mode = parsed
	}

	opts := a.cfg.ScraperOptions()
	if f.delimiter != "" {
		if strings.TrimSpace(f.delimiter) == "" {
			return nil, "", fmt.Errorf("--delimiter must contain a non-space character")
		}
		opts.Delimiter = f.delimiter
	}

	d := pipeline.NewDriver(pipeline.Options{
		Mode:    mode,
		Scrape:  opts,
		Loader:  a.cfg.Loader(),
		College: code,
	}, logger.Default(), logger.NewMetrics())
	return d, code, nil
}

// source returns the page argument or the configured source of college.
func (a *app) source(args []string, code catalog.CollegeCode) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	for _, c := range a.cfg.Colleges {
		if parsed, ok := catalog.ParseCollegeCode(c.Code); ok && parsed == code && c.Source != "" {
			return c.Source, nil
		}
	}
	return "", fmt.Errorf("no source given and college %s has no configured source", code)
}

func (a *app) newScrapeCmd() *cobra.Command {
	var flags runFlags
	var output string
	var doImport, refresh bool

	cmd := &cobra.Command{
		Use:   "scrape [source]",
		Short: "Parse a catalog page, save a snapshot and report changes",
		Long: `Parse a catalog page (file path or URL) into courses, write them to the
semester snapshot and print the courses added, removed or changed since the
previous snapshot. With --import the courses are also reconciled into the database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			d, code, err := a.driver(&flags)
			if err != nil {
				return err
			}
			source, err := a.source(args, code)
			if err != nil {
				return err
			}

			result := &ScrapeResult{Semester: flags.semester, Source: source, Refreshed: refresh}

			var summary *pipeline.Summary
			if doImport {
				db, _, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer db.Close()

				tx, err := db.Begin(ctx)
				if err != nil {
					return err
				}
				summary, err = d.Run(ctx, tx, source, flags.semester)
				if err != nil {
					return err
				}
				result.Import = summary
			} else {
				summary, _, err = d.Scrape(ctx, d.Strategy(source), flags.semester)
				if err != nil {
					return err
				}
			}
			result.Counts = summary.Counts()

			var st *storage.Storage
			if output == "" {
				if st, err = a.storage(); err != nil {
					return err
				}
			}

			if !refresh {
				var previous *catalog.Snapshot
				if st != nil {
					previous, err = st.LoadSnapshot(flags.semester)
				} else {
					previous, err = storage.ReadSnapshot(output, flags.semester)
				}
				if err != nil {
					return fmt.Errorf("loading snapshot: %w", err)
				}
				logger.Debug("loaded previous snapshot", logger.Fields{"courses": len(previous.Courses)})
				result.Diff = catalog.Diff(previous, summary.Courses)
			}

			snapshot := summary.Snapshot()
			if st != nil {
				result.SnapshotPath, err = st.SaveSnapshot(snapshot)
			} else {
				result.SnapshotPath, err = output, storage.WriteSnapshot(output, snapshot)
			}
			if err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}

			return a.write(result)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&output, "output", "", "Snapshot file to diff against and write (default: per-semester file in data_dir)")
	cmd.Flags().BoolVar(&doImport, "import", false, "Also reconcile the courses into the database")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh the snapshot without reporting changes")
	return cmd
}

func (a *app) newImportCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "import [source]",
		Short: "Reconcile a catalog page into the database",
		Long: `Run the import pipeline for a semester. With a source argument the page is
handled by the --college strategy. Without one, every configured college with a
source is imported, each in its own transaction.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			d, code, err := a.driver(&flags)
			if err != nil {
				return err
			}

			var strategies []scraper.Strategy
			if len(args) > 0 || flags.college != "" {
				source, err := a.source(args, code)
				if err != nil {
					return err
				}
				strategies = append(strategies, d.Strategy(source))
			} else {
				configured, err := a.cfg.Strategies()
				if err != nil {
					return err
				}
				for _, s := range configured {
					if _, static := s.(*scraper.Static); static || s.Source() == "" {
						continue
					}
					strategies = append(strategies, s)
				}
				if len(strategies) == 0 {
					return fmt.Errorf("no source given and no college has a configured source")
				}
			}

			db, _, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			result := &ImportResult{Semester: flags.semester}
			var firstErr error
			for _, s := range strategies {
				tx, err := db.Begin(ctx)
				if err != nil {
					return err
				}
				summary, err := d.RunStrategy(ctx, tx, s, flags.semester)
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
					continue
				}
				result.Runs = append(result.Runs, summary)
			}

			if result.Stored, err = db.CountCourses(ctx, flags.semester); err != nil {
				return err
			}
			if a.verbose {
				result.Metrics = d.Metrics().GetSnapshot()
			}
			if err := a.write(result); err != nil {
				return err
			}
			return firstErr
		},
	}

	flags.bind(cmd)
	return cmd
}

func (a *app) newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the five colleges and the configured locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, colleges, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			strategies, err := a.cfg.Strategies()
			if err != nil {
				return err
			}

			result := &SeedResult{Colleges: colleges, Locations: make(map[string]int)}
			for _, s := range strategies {
				locations, err := s.ScrapeLocations(ctx)
				if err != nil {
					return err
				}
				n, err := db.SeedLocations(ctx, s.Code(), locations)
				if err != nil {
					return err
				}
				result.Locations[string(s.Code())] = n
				logger.Info("locations seeded", logger.Fields{"college": s.Code(), "added": n, "configured": len(locations)})
			}

			if err := fillStored(ctx, db, result); err != nil {
				return err
			}
			return a.write(result)
		},
	}
}

// fillStored fills in what the database holds after seeding, grouping locations by college.
func fillStored(ctx context.Context, db *store.DB, result *SeedResult) error {
	colleges, err := db.ListColleges(ctx)
	if err != nil {
		return err
	}
	codes := make(map[int64]string, len(colleges))
	for _, c := range colleges {
		codes[c.ID] = string(c.Code)
	}

	locations, err := db.ListLocations(ctx)
	if err != nil {
		return err
	}
	result.TotalColleges = len(colleges)
	result.Stored = make(map[string][]string)
	for _, l := range locations {
		code := codes[l.CollegeID]
		result.Stored[code] = append(result.Stored[code], l.Name)
	}
	return nil
}

// filterFlags are shared by courses and export-ics.
type filterFlags struct {
	departments string
	colleges    string
	days        string
	instructors string
	buildings   string
	query       string
	from        string
	until       string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.departments, "dept", "", "Comma-separated department codes")
	cmd.Flags().StringVar(&f.colleges, "college", "", "Comma-separated college codes")
	cmd.Flags().StringVar(&f.days, "days", "", "Meeting days, e.g. MWF or TR")
	cmd.Flags().StringVar(&f.instructors, "instructor", "", "Comma-separated instructor name fragments")
	cmd.Flags().StringVar(&f.buildings, "building", "", "Comma-separated building name fragments")
	cmd.Flags().StringVar(&f.query, "query", "", "Text to find in course code or title")
	cmd.Flags().StringVar(&f.from, "from", "", "Earliest start time, e.g. 9:00AM")
	cmd.Flags().StringVar(&f.until, "until", "", "Latest end time, e.g. 5:00PM")
}

func (f *filterFlags) build() (*filter.Filter, error) {
	out := filter.New()
	out.Departments = filter.SplitList(f.departments)
	out.Instructors = filter.SplitList(f.instructors)
	out.Buildings = filter.SplitList(f.buildings)
	out.Query = f.query

	var err error
	if out.Colleges, err = filter.ParseColleges(f.colleges); err != nil {
		return nil, err
	}
	if out.Days, err = filter.ParseDays(f.days); err != nil {
		return nil, err
	}
	if out.From, err = filter.ParseClock(f.from); err != nil {
		return nil, err
	}
	if out.Until, err = filter.ParseClock(f.until); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *app) newCoursesCmd() *cobra.Command {
	var flags filterFlags
	var semester, sortFlag string

	cmd := &cobra.Command{
		Use:   "courses",
		Short: "List stored courses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			order, err := ParseSortOrder(sortFlag)
			if err != nil {
				return err
			}
			f, err := flags.build()
			if err != nil {
				return err
			}

			db, _, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			listings, err := db.ListListings(ctx, semester)
			if err != nil {
				return err
			}
			listings = f.Apply(listings)
			sortListings(listings, order)

			if listings == nil {
				listings = make([]catalog.Listing, 0)
			}
			return a.write(&CoursesResult{
				Semester: semester,
				Filter:   f.String(),
				Count:    len(listings),
				Courses:  listings,
			})
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&semester, "semester", "", "Semester to list (default: all)")
	cmd.Flags().StringVar(&sortFlag, "sort", string(SortByCode), "Sort by: code, department, college, time or title")
	return cmd
}

func (a *app) newExportCmd() *cobra.Command {
	var flags filterFlags
	var semester, start, out, name string
	var weeks int

	cmd := &cobra.Command{
		Use:   "export-ics",
		Short: "Export stored courses as a weekly recurring iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			termStart, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fmt.Errorf("invalid --start %q, expected YYYY-MM-DD", start)
			}
			if weeks <= 0 {
				return fmt.Errorf("--weeks must be positive")
			}
			f, err := flags.build()
			if err != nil {
				return err
			}

			db, _, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			listings, err := db.ListListings(ctx, semester)
			if err != nil {
				return err
			}
			listings = f.Apply(listings)

			if name == "" {
				name = semester
			}
			opts := calendar.Options{TermStart: termStart, Weeks: weeks, Name: name}

			if out == "" || out == "-" {
				n, skipped, err := calendar.Write(a.stdout, listings, opts)
				if err != nil {
					return err
				}
				logger.Info("calendar written", logger.Fields{"events": n, "skipped": len(skipped)})
				return nil
			}

			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			n, skipped, err := calendar.Write(file, listings, opts)
			if closeErr := file.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}

			if skipped == nil {
				skipped = make([]calendar.Skipped, 0)
			}
			return a.write(&ExportResult{Path: out, Events: n, Skipped: skipped})
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&semester, "semester", "", "Semester to export (required)")
	cmd.Flags().StringVar(&start, "start", "", "First day of classes, YYYY-MM-DD (required)")
	cmd.Flags().IntVar(&weeks, "weeks", calendar.DefaultWeeks, "Number of teaching weeks")
	cmd.Flags().StringVar(&out, "out", "", "Output .ics file (default: stdout)")
	cmd.Flags().StringVar(&name, "name", "", "Calendar name (default: the semester)")
	cmd.MarkFlagRequired("semester")
	cmd.MarkFlagRequired("start")
	return cmd
}
