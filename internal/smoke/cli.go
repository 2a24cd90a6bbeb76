package smoke

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/tracklist/pkg/logger"
)

// Default flag values.
const (
	defaultBaseURL        = "http://localhost:9080"
	defaultAlbums         = 20
	defaultTracksPerAlbum = 12
	defaultTimeout        = 10 * time.Second
	defaultRunTimeout     = 5 * time.Minute
)

// NewCommand returns the smoke root command.
func NewCommand() *cobra.Command {
	cfg := &Config{}
	var (
		runTimeout time.Duration
		logFormat  string
	)

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Exercise a running tracklist service end to end",
		Long: `Smoke saves generated albums and tracks, rates them concurrently, marks one
rated track as a skit and verifies album ratings and the rated collection
against scores computed locally.`,
		Example: `  smoke --url http://localhost:9080 --albums 50 --workers 16
  smoke --seed 42 --output plan.json --verbose`,
		SilenceUsage: true,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithFormat(logFormat)); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			if cfg.Verbose {
				return logger.SetLevelString("debug")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()
			_, err := Run(ctx, cfg)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", defaultBaseURL, "base URL of the service")
	f.IntVar(&cfg.Albums, "albums", defaultAlbums, "number of albums to generate")
	f.IntVar(&cfg.TracksPerAlbum, "tracks", defaultTracksPerAlbum, "tracks per album")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "number of concurrent workers")
	f.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	f.Uint64Var(&cfg.Seed, "seed", uint64(time.Now().UnixNano()), "seed for generated ratings")
	f.StringVarP(&cfg.OutputFile, "output", "o", "", "write the generated plan as JSON")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "enable debug logging")
	f.DurationVar(&runTimeout, "run-timeout", defaultRunTimeout, "overall deadline")
	f.StringVar(&logFormat, "log-format", "text", "log format: text or json")
	return cmd
}

// Execute runs the smoke command and exits non-zero on failure.
func Execute() {
	if err := NewCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
