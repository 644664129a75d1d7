package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/screen-marker-mcp/internal/anchor"
	"github.com/ironsheep/screen-marker-mcp/internal/config"
	"github.com/ironsheep/screen-marker-mcp/internal/imaging"
	"github.com/ironsheep/screen-marker-mcp/internal/locator"
	"github.com/ironsheep/screen-marker-mcp/internal/markers"
	"github.com/ironsheep/screen-marker-mcp/internal/matcher"
	"github.com/ironsheep/screen-marker-mcp/internal/ocr"
	"github.com/ironsheep/screen-marker-mcp/internal/screen"
	"github.com/ironsheep/screen-marker-mcp/internal/server"
	"github.com/ironsheep/screen-marker-mcp/internal/session"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := os.Getenv(config.EnvPrefix + "CONFIG")

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--version" || arg == "-v" || arg == "version":
			fmt.Printf("screen-marker-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case arg == "--help" || arg == "-h" || arg == "help":
			printHelp()
			return
		case arg == "--config" || arg == "-c":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config needs a path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q (see --help)\n", arg)
			os.Exit(2)
		}
	}

	if err := run(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "screen-marker-mcp: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("screen-marker-mcp - MCP server that locates marker images in a window")
	fmt.Println()
	fmt.Println("Usage: screen-marker-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c PATH  Load configuration from a YAML file")
	fmt.Println("  --version, -v      Print version information")
	fmt.Println("  --help, -h         Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  MARKER_MCP_CONFIG=path         Configuration file")
	fmt.Println("  MARKER_MCP_LOG_LEVEL=debug     Log level (debug, info, warn, error)")
	fmt.Println("  MARKER_MCP_WINDOW_PATTERN=re   Window title pattern")
	fmt.Println("  MARKER_MCP_MARKER_DIR=path     Marker image directory")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	// stdout carries the protocol
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	sess, err := build(cfg, logger)
	if err != nil {
		return err
	}
	if report, err := sess.Rescan(); err != nil {
		logger.Warn("initial marker scan failed", "error", err)
	} else {
		logger.Info("markers loaded", "dir", cfg.Markers.Dir, "count", len(report.Added), "failed", len(report.Failed))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := server.New(sess, server.Options{Version: Version, Logger: logger})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// stdin closing ends the session
		defer cancel()
		return srv.Run(ctx, os.Stdin, os.Stdout)
	})
	g.Go(func() error {
		return sess.Watch(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func build(cfg *config.Config, logger *slog.Logger) (*session.Session, error) {
	cache := imaging.NewImageCache()

	coll, err := markers.NewDirCollection(cfg.Markers.Dir, cfg.Markers.Extensions, cache)
	if err != nil {
		return nil, err
	}
	registry := markers.NewRegistry(coll, markers.Options{Crop: cfg.Crop(), Logger: logger})

	grabber := screen.SystemGrabber()
	displays := screen.NewDisplays(grabber)
	frames := screen.WithFallback(displays, screen.NewFullDisplayCapture(grabber), logger)
	win := locator.New(screen.NewWindowFinder(), displays, locator.Options{
		Pattern: cfg.Window.Pattern,
		Logger:  logger,
	})

	var anc *anchor.Locator
	tmpl, err := anchor.LoadTemplate(cache, cfg.Anchor.Template, cfg.Anchor.Mask)
	switch {
	case errors.Is(err, anchor.ErrAnchorDisabled):
		logger.Info("anchor disabled", "template", cfg.Anchor.Template)
	case err != nil:
		return nil, err
	default:
		anc = anchor.New(win, frames, tmpl, anchor.Options{
			Corner:    cfg.Corner(),
			Offset:    cfg.Anchor.Offset.Point(),
			Radius:    cfg.Anchor.Radius,
			Threshold: uint8(cfg.Anchor.Threshold),
			Expiry:    cfg.Anchor.Expiry,
			Logger:    logger,
		})
	}

	var labels session.LabelReader
	if ocr.Available() {
		labels = &ocr.Tesseract{Language: cfg.OCR.Language, TessdataPrefix: cfg.OCR.TessdataPrefix}
	} else {
		logger.Info("label recognition not compiled in")
	}

	strip, err := cfg.Markers.Strip.Rect()
	if err != nil {
		return nil, fmt.Errorf("invalid marker strip: %w", err)
	}

	return session.New(session.Deps{
		Window:   win,
		Frames:   frames,
		Registry: registry,
		Matcher:  matcher.New(matcher.Options{Workers: cfg.Markers.Workers, Logger: logger}),
		Anchor:   anc,
		Labels:   labels,
	}, session.Options{
		Strip:           strip,
		Expiry:          cfg.Cache.Expiry,
		WatchInterval:   cfg.Markers.WatchInterval,
		AnnotationColor: cfg.Annotate.Color,
		LabelGap:        cfg.OCR.LabelGap,
		LabelWidth:      cfg.OCR.LabelWidth,
		Logger:          logger,
	}), nil
}
