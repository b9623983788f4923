package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/game"
	"github.com/pthm-cable/warren/stream"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshots := flag.Bool("snapshots", false, "Save a population snapshot on every bookmark (needs -output-dir)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	mapPath := flag.String("map", "", "YAML file holding a numeric map (empty = generate terrain)")
	serve := flag.String("serve", "", "Address for the population WebSocket feed (empty = disabled)")
	season := flag.String("season", "", "Season to start in (empty = first in the season table)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if err := run(*configPath, *mapPath, *serve, *season, *maxTicks, game.Options{
		Seed:        *seed,
		LogStats:    *logStats,
		StatsWindow: int32(*statsWindow),
		OutputDir:   *outputDir,
		Snapshots:   *snapshots,
	}); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, mapPath, serve, season string, maxTicks int, opts game.Options) error {
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := config.Cfg()

	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if mapPath != "" {
		codes, err := loadMap(mapPath)
		if err != nil {
			return err
		}
		opts.Codes = codes
	}

	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	if season != "" {
		i, err := cfg.SeasonByName(season)
		if err != nil {
			return err
		}
		g.World().SetSeason(i)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting simulation",
		"seed", opts.Seed,
		"map", mapPath,
		"max_ticks", maxTicks,
		"output_dir", opts.OutputDir,
		"serve", serve,
		"season", g.World().Season(),
	)

	if serve == "" {
		if err := g.Run(ctx, int32(maxTicks)); err != nil && ctx.Err() == nil {
			return err
		}
		g.LogPerfStats()
		return nil
	}

	names := make([]string, len(cfg.Seasons))
	for i, s := range cfg.Seasons {
		names[i] = s.Name
	}
	hub := stream.NewHub(stream.Hello{MapSize: g.World().Grid().Size(), Seasons: names}, cfg.Stream.BufferSize)
	g.SetHub(hub)

	// The feed stays up after the run ends so plotters can keep the final picture; ^C stops it.
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	group.Go(func() error {
		return hub.ListenAndServe(gctx, serve, cfg.Stream.Path)
	})
	group.Go(func() error {
		if err := g.Run(gctx, int32(maxTicks)); err != nil && gctx.Err() == nil {
			return err
		}
		g.LogPerfStats()
		slog.Info("simulation finished, feed still serving", "addr", serve, "path", cfg.Stream.Path)
		return nil
	})

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// loadMap reads a square numeric map from a YAML file.
func loadMap(path string) ([][]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map file: %w", err)
	}
	var codes [][]int
	if err := yaml.Unmarshal(data, &codes); err != nil {
		return nil, fmt.Errorf("parsing map file: %w", err)
	}
	return codes, nil
}
