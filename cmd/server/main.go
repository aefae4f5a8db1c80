// Package main is the entry point for the report engine HTTP server. It
// wires the grade store, the optional average cache and the PDF renderer
// behind the report service, then serves the download endpoints until a
// shutdown signal arrives.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/escolar-hub/escolar-report-engine/config"
	"github.com/escolar-hub/escolar-report-engine/internal/application/report"
	"github.com/escolar-hub/escolar-report-engine/internal/infrastructure/persistence/postgres"
	"github.com/escolar-hub/escolar-report-engine/internal/infrastructure/persistence/redis"
	"github.com/escolar-hub/escolar-report-engine/internal/infrastructure/render/pdf"
	httpserver "github.com/escolar-hub/escolar-report-engine/internal/interface/http"
	"github.com/escolar-hub/escolar-report-engine/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is a development convenience; absence is not an error
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	log.Info("starting report engine server",
		logger.String("env", string(cfg.App.Environment)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	svc, closeCache, err := buildService(cfg, conn, log)
	if err != nil {
		return err
	}
	defer closeCache()

	server := httpserver.NewServer(httpserver.Config{
		Host:         cfg.HTTP.Host,
		Port:         cfg.HTTP.Port,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}, httpserver.Dependencies{
		Reports: svc,
		Store:   conn,
		Logger:  log,
	})

	errCh := server.StartAsync()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildService wires the repositories, cache and renderer into the report
// service. The returned closer releases the cache client, if any.
func buildService(cfg *config.Config, conn *postgres.Connection, log *logger.Logger) (*report.Service, func(), error) {
	deps := report.Deps{
		Grades:   postgres.NewGradeRepository(conn),
		Students: postgres.NewStudentRepository(conn),
		Courses:  postgres.NewCourseRepository(conn),
		Subjects: postgres.NewSubjectRepository(conn),
		Renderer: pdf.NewRenderer(loadBranding(cfg, log), log),
		Log:      log,
		Options: report.Options{
			TopN:          cfg.Reports.TopN,
			MinFamilySize: cfg.Reports.MinFamilySize,
		},
	}

	closeCache := func() {}
	if !cfg.Redis.Disabled {
		cache, err := redis.New(redis.Config{URL: cfg.Redis.URL, TTL: cfg.Redis.TTL})
		if err != nil {
			// the cache is optional; a bad URL should not block reporting
			log.Warn("average cache disabled", logger.Err(err))
		} else {
			deps.Cache = cache
			closeCache = func() { _ = cache.Close() }
		}
	}

	return report.NewService(deps), closeCache, nil
}

// loadBranding reads the institution images from disk. Missing files degrade
// to documents without the image.
func loadBranding(cfg *config.Config, log *logger.Logger) pdf.Branding {
	b := pdf.Branding{
		InstitutionName:     cfg.Institution.Name,
		FooterImageHeightPx: cfg.Institution.FooterImageHeightPx,
		FooterFit:           pdf.ParseFitMode(cfg.Institution.FooterFit),
	}
	b.Logo = readImage(cfg.Institution.LogoPath, "logo", log)
	b.FooterImage = readImage(cfg.Institution.FooterImagePath, "footer image", log)
	return b
}

func readImage(path, what string, log *logger.Logger) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn(what+" not loaded", logger.String("path", path), logger.Err(err))
		return nil
	}
	return data
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.App.LogLevel),
		AddCaller: cfg.App.Debug,
	})
}
