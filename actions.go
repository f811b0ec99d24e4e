package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/content"
	"github.com/nijaru/yt-summary/db"
	"github.com/nijaru/yt-summary/handlers"
	"github.com/nijaru/yt-summary/logger"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/models"
	"github.com/nijaru/yt-summary/render"
	"github.com/nijaru/yt-summary/server"
	"github.com/nijaru/yt-summary/summarizer"
	"github.com/nijaru/yt-summary/tui"
	"github.com/nijaru/yt-summary/validation"
	"github.com/nijaru/yt-summary/widget"
)

func ServeAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	log, closer, err := logger.NewLogger(logger.Options{
		Dir:   cfg.LogDir,
		Level: cfg.LogLevel,
		JSON:  cfg.IsProduction(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	defer closer.Close()

	site, err := content.Load(cfg.SiteContentFile)
	if err != nil {
		return errors.Wrap(err, "failed to load site content")
	}

	opts := []handlers.Option{
		handlers.WithLogger(log),
		handlers.WithVersion(cfg.Version),
	}
	if cfg.RateLimit.Enabled {
		opts = append(opts, handlers.WithRateLimiter(
			middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)))
	}
	if cfg.DBPath != "" {
		store, err := db.InitializeDB(cfg.DBPath)
		if err != nil {
			return errors.Wrap(err, "failed to initialize database")
		}
		defer store.Close()
		opts = append(opts, handlers.WithRecorder(store))
	}

	client := newClient(cfg, log)
	h := handlers.NewHandler(site, cfg.Summary.APIURL, cfg.SessionTTL, cfg.IsProduction(),
		func(onComplete func(widget.Completion)) *widget.Form {
			return newForm(cfg, client, log, widget.OnComplete(onComplete))
		}, opts...)

	srv := server.NewServer(cfg, h, server.WithLogger(log))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server error")
		}
		return nil
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server shutdown")
	}
	log.Info("Server stopped")
	return nil
}

func TUIAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	// The terminal belongs to the UI; logs only go to the file.
	log, closer, err := logger.NewLogger(logger.Options{Dir: cfg.LogDir, Level: cfg.LogLevel, Quiet: true})
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	defer closer.Close()

	site, err := content.Load(cfg.SiteContentFile)
	if err != nil {
		return errors.Wrap(err, "failed to load site content")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	form := newForm(cfg, newClient(cfg, log), log)
	return tui.Run(ctx, form, site.Patterns)
}

func SummarizeAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	log, closer, err := logger.NewLogger(logger.Options{Level: cfg.LogLevel, Quiet: true})
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	defer closer.Close()

	site, err := content.Load(cfg.SiteContentFile)
	if err != nil {
		return errors.Wrap(err, "failed to load site content")
	}

	input := models.FormInput{
		VideoURL:     c.String("url"),
		Pattern:      c.String("pattern"),
		WithMetadata: c.Bool("metadata"),
		WithComments: c.Bool("comments"),
	}
	if !site.HasPattern(input.Pattern) {
		return errors.Errorf("unknown pattern %q", input.Pattern)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	form := newForm(cfg, newClient(cfg, log), log)
	outcome, err := form.SubmitInput(ctx, input)
	if err != nil {
		return err
	}
	if outcome.IsFailed() {
		return cli.Exit(outcome.Message, 1)
	}

	fmt.Fprint(c.App.Writer, tui.Results(render.Build(input, outcome), 0))
	return nil
}

func HistoryAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if cfg.DBPath == "" {
		return cli.Exit("submission log is disabled (DB_PATH is empty)", 2)
	}

	store, err := db.InitializeDB(cfg.DBPath)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer store.Close()

	subs, err := store.Recent(c.Context, c.Int("limit"))
	if err != nil {
		return errors.Wrap(err, "failed to list submissions")
	}

	printHistory(c.App.Writer, subs)
	return nil
}

func printHistory(w io.Writer, subs []db.Submission) {
	if len(subs) == 0 {
		fmt.Fprintln(w, "No submissions found")
		return
	}

	fmt.Fprintf(w, "%-20s %-10s %-24s %-8s %s\n", "Created", "Status", "Pattern", "Took", "URL")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, s := range subs {
		pattern := s.Pattern
		if pattern == "" {
			pattern = "-"
		}
		fmt.Fprintf(w, "%-20s %-10s %-24s %-8s %s\n",
			s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			s.Status,
			pattern,
			s.Duration.Round(100*time.Millisecond).String(),
			s.URL,
		)
		if s.Error != "" {
			fmt.Fprintf(w, "%-20s %s\n", "", s.Error)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d submissions\n", len(subs))
}

func newClient(cfg *config.Config, log *logrus.Logger) *summarizer.Client {
	return summarizer.NewClient(cfg.Summary.APIURL,
		summarizer.WithTimeout(cfg.Summary.Timeout),
		summarizer.WithMaxResponseBytes(cfg.Summary.MaxResponseBytes),
		summarizer.WithLogger(log),
	)
}

func newForm(cfg *config.Config, service summarizer.Service, log *logrus.Logger, opts ...widget.Option) *widget.Form {
	opts = append([]widget.Option{
		widget.WithTimeout(cfg.Summary.Timeout),
		widget.WithValidator(validation.NewValidator(cfg.Summary.StrictURLs)),
		widget.WithLogger(log),
	}, opts...)
	return widget.New(service, opts...)
}
