// Package main is the one-shot report generator CLI. It builds the requested
// documents against the grade store and writes them into the output
// directory, then exits. Intended for cron-driven batch runs and for
// generating a full end-of-trimester document set in one command.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/escolar-hub/escolar-report-engine/config"
	"github.com/escolar-hub/escolar-report-engine/internal/application/report"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/grade"
	"github.com/escolar-hub/escolar-report-engine/internal/domain/student"
	"github.com/escolar-hub/escolar-report-engine/internal/infrastructure/persistence/postgres"
	"github.com/escolar-hub/escolar-report-engine/internal/infrastructure/persistence/redis"
	"github.com/escolar-hub/escolar-report-engine/internal/infrastructure/render/pdf"
	"github.com/escolar-hub/escolar-report-engine/pkg/logger"
	"github.com/escolar-hub/escolar-report-engine/pkg/timeutil"
)

type options struct {
	report  string
	courses string
	student string
	period  string
	minedu  bool
	outDir  string
}

func main() {
	var opts options
	flag.StringVar(&opts.report, "report", "", "report type: boletin, boletines, centralizador, ranking, niveles, hermanos, all")
	flag.StringVar(&opts.courses, "course", "", "course code(s), comma-separated")
	flag.StringVar(&opts.student, "student", "", "student id (boletin only)")
	flag.StringVar(&opts.period, "period", "", "grading period: T1, T2, T3 or anual (default: current trimester)")
	flag.BoolVar(&opts.minedu, "minedu", false, "use the regulatory MINEDU centralizer format")
	flag.StringVar(&opts.outDir, "out", "", "output directory (default: REPORTS_OUTPUT_DIR)")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.App.LogLevel),
	})

	period := grade.Period(timeutil.CurrentTrimester(time.Now()))
	if opts.period != "" {
		period, err = grade.ParsePeriod(opts.period)
		if err != nil {
			return err
		}
	}

	outDir := opts.outDir
	if outDir == "" {
		outDir = cfg.Reports.OutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}

	ctx := context.Background()
	conn, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxConns:        int32(cfg.Database.MaxConns),
		MinConns:        int32(cfg.Database.MinConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		ConnectTimeout:  cfg.Database.ConnectTimeout,
		PageSize:        cfg.Database.PageSize,
	}, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	deps := report.Deps{
		Grades:   postgres.NewGradeRepository(conn),
		Students: postgres.NewStudentRepository(conn),
		Courses:  postgres.NewCourseRepository(conn),
		Subjects: postgres.NewSubjectRepository(conn),
		Renderer: pdf.NewRenderer(branding(cfg, log), log),
		Log:      log,
		Options: report.Options{
			TopN:          cfg.Reports.TopN,
			MinFamilySize: cfg.Reports.MinFamilySize,
		},
	}
	if !cfg.Redis.Disabled {
		if cache, err := redis.New(redis.Config{URL: cfg.Redis.URL, TTL: cfg.Redis.TTL}); err == nil {
			deps.Cache = cache
			defer cache.Close()
		} else {
			log.Warn("average cache disabled", logger.Err(err))
		}
	}
	svc := report.NewService(deps)

	gen := &generator{svc: svc, courses: postgres.NewCourseRepository(conn), outDir: outDir, log: log}
	return gen.run(ctx, opts, period)
}

// generator dispatches one CLI invocation to the report builders.
type generator struct {
	svc     *report.Service
	courses student.CourseRepository
	outDir  string
	log     *logger.Logger
}

func (g *generator) run(ctx context.Context, opts options, period grade.Period) error {
	courses := splitCourses(opts.courses)

	switch strings.ToLower(opts.report) {
	case "boletin":
		if len(courses) != 1 || opts.student == "" {
			return fmt.Errorf("boletin requires exactly one -course and a -student")
		}
		return g.save(g.svc.BuildBoletin(ctx, courses[0], opts.student, period))

	case "boletines":
		if len(courses) == 0 {
			return fmt.Errorf("boletines requires -course")
		}
		for _, c := range courses {
			if err := g.save(g.svc.BuildBoletinBatch(ctx, c, period)); err != nil {
				return err
			}
		}
		return nil

	case "centralizador":
		if len(courses) == 0 {
			return fmt.Errorf("centralizador requires -course")
		}
		for _, c := range courses {
			if err := g.save(g.svc.BuildCentralizer(ctx, c, period, opts.minedu)); err != nil {
				return err
			}
		}
		return nil

	case "ranking":
		return g.save(g.svc.BuildCourseRanking(ctx, courses, period))

	case "niveles":
		return g.save(g.svc.BuildLevelBestRanking(ctx, period))

	case "hermanos":
		return g.save(g.svc.BuildSiblings(ctx, period))

	case "all":
		return g.runAll(ctx, period, opts.minedu)

	default:
		return fmt.Errorf("unknown report type %q", opts.report)
	}
}

// runAll generates the full document set: every course's boletines and
// centralizer, both rankings and the sibling list. Per-course failures are
// logged and skipped so one broken course cannot sink the batch.
func (g *generator) runAll(ctx context.Context, period grade.Period, minedu bool) error {
	doc, err := g.svc.BuildCourseRanking(ctx, nil, period)
	if err != nil {
		return err
	}
	if err := g.save(doc, nil); err != nil {
		return err
	}

	if err := g.save(g.svc.BuildLevelBestRanking(ctx, period)); err != nil {
		g.log.Warn("level ranking skipped", logger.Err(err))
	}
	if err := g.save(g.svc.BuildSiblings(ctx, period)); err != nil {
		g.log.Warn("sibling report skipped", logger.Err(err))
	}

	refs, err := g.courses.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range refs {
		if err := g.save(g.svc.BuildBoletinBatch(ctx, c.Code, period)); err != nil {
			g.log.Warn("boletines skipped", logger.CourseCode(c.Code), logger.Err(err))
		}
		if err := g.save(g.svc.BuildCentralizer(ctx, c.Code, period, minedu)); err != nil {
			g.log.Warn("centralizer skipped", logger.CourseCode(c.Code), logger.Err(err))
		}
	}
	return nil
}

// save writes a built document to the output directory.
func (g *generator) save(doc *report.Document, err error) error {
	if err != nil {
		return err
	}
	path := filepath.Join(g.outDir, doc.Filename)
	if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, w := range doc.Warnings {
		g.log.Warn("report warning", logger.OutputFile(doc.Filename), logger.String("warning", w))
	}
	g.log.Info("report written", logger.OutputFile(path), logger.Int("bytes", len(doc.Data)))
	return nil
}

func splitCourses(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func branding(cfg *config.Config, log *logger.Logger) pdf.Branding {
	b := pdf.Branding{
		InstitutionName:     cfg.Institution.Name,
		FooterImageHeightPx: cfg.Institution.FooterImageHeightPx,
		FooterFit:           pdf.ParseFitMode(cfg.Institution.FooterFit),
	}
	if cfg.Institution.LogoPath != "" {
		if data, err := os.ReadFile(cfg.Institution.LogoPath); err == nil {
			b.Logo = data
		} else {
			log.Warn("logo not loaded", logger.String("path", cfg.Institution.LogoPath), logger.Err(err))
		}
	}
	if cfg.Institution.FooterImagePath != "" {
		if data, err := os.ReadFile(cfg.Institution.FooterImagePath); err == nil {
			b.FooterImage = data
		} else {
			log.Warn("footer image not loaded", logger.String("path", cfg.Institution.FooterImagePath), logger.Err(err))
		}
	}
	return b
}
