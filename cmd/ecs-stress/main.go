package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/densecs/ecs"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd(&cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ecs-stress",
		Short:        "Drive a randomized create/destroy/membership workload through an EntityManager",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), *cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Duration, "duration", cfg.Duration, "The total duration the test should run for.")
	flags.IntVar(&cfg.Entities, "entities", cfg.Entities, "The initial number of entities to create.")
	flags.IntVar(&cfg.Capacity, "capacity", cfg.Capacity, "The capacity hint passed to the manager.")
	flags.IntVar(&cfg.Components, "components", cfg.Components, "Number of generated component types.")
	flags.IntVar(&cfg.Tags, "tags", cfg.Tags, "Number of generated tag types.")
	flags.Float64Var(&cfg.Churn, "churn", cfg.Churn, "Fraction of live entities destroyed, recreated and toggled per frame.")
	flags.BoolVar(&cfg.FixedCapacity, "fixed-capacity", cfg.FixedCapacity, "Fail creates past the capacity hint instead of growing.")
	flags.StringVar(&cfg.Profile, "profile", cfg.Profile, "Write a profile to the working directory: cpu, mem or empty.")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "zerolog level (trace, debug, info, warn, error).")
	flags.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed for the workload.")
	return cmd
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Logger()
}

func startProfile(mode string) interface{ Stop() } {
	switch mode {
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "mem":
		return profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	}
	return nil
}

func run(ctx context.Context, cfg Config, out, logOut io.Writer) error {
	duration, err := cfg.Validate()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger(logOut, cfg.LogLevel)
	logger.Info().Msg("starting ECS stress test")

	workload, err := NewWorkload(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info().Int("entities", cfg.Entities).Msg("populating manager")
	if err := workload.Populate(cfg.Entities); err != nil {
		return err
	}
	logger.Info().Int("capacity", workload.Manager.Cap()).Msg("population complete")

	scheduler := ecs.NewScheduler(workload.Manager)
	systems := workload.Systems(cfg.Churn)
	for _, system := range systems {
		scheduler.Register(system)
	}

	report := &Report{
		Duration:      duration,
		Entities:      cfg.Entities,
		Components:    cfg.Components,
		Tags:          cfg.Tags,
		Churn:         cfg.Churn,
		FixedCapacity: cfg.FixedCapacity,
		Systems:       len(systems),
	}

	if p := startProfile(cfg.Profile); p != nil {
		defer p.Stop()
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info().Stringer("duration", duration).Msg("running simulation")
	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := scheduler.Once(deltaTime.Seconds()); err != nil {
				logger.Debug().Err(err).Int64("update", totalUpdates).Msg("command flush failed")
			}
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Summarize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.Collect(workload.Manager, scheduler, systems)

	logger.Info().Int64("updates", totalUpdates).Int64("flush_errors", report.Scheduler.FlushErrors).Msg("simulation finished")

	fmt.Fprintln(out, "\n\n--- Stress Test Report ---")
	if err := report.Generate(out); err != nil {
		return err
	}
	fmt.Fprintln(out, "--- End of Report ---")
	return nil
}
