// Command tabula-gfx runs the gfx self check on an OpenGL context or on the
// in-memory driver and prints the effective configuration.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gregjohnson2017/tabula-gfx/pkg/config"
	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx"
	"github.com/gregjohnson2017/tabula-gfx/pkg/gfx/gfxtest"
	"github.com/gregjohnson2017/tabula-gfx/pkg/log"
	"github.com/gregjohnson2017/tabula-gfx/pkg/perf"
	"github.com/gregjohnson2017/tabula-gfx/pkg/probe"
	"github.com/gregjohnson2017/tabula-gfx/pkg/window"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg *config.Config

	configPath string
	logLevel   string
	logColor   string
	metrics    bool
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "tabula-gfx",
		Short:             "Guarded OpenGL resources and their self check",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			perf.LogMetrics()
		},
	}
	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "minimum log level (debug, perf, info, warn, error, fatal, off)")
	flags.StringVar(&a.logColor, "log-color", "", "colored log prefixes (auto, always, never)")
	flags.BoolVar(&a.metrics, "metrics", false, "record and log average timings")

	root.AddCommand(a.probeCmd(), a.configCmd())
	return root
}

// setup loads the configuration, applies the flags set on the command line
// over it and configures logging and metrics.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-color") {
		cfg.Log.Color = a.logColor
	}
	if flags.Changed("metrics") {
		cfg.Metrics = a.metrics
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	log.SetLevel(cfg.LogLevel(), os.Stderr)
	switch cfg.Log.Color {
	case config.ColorAlways:
		log.SetColorized(true)
	case config.ColorNever:
		log.SetColorized(false)
	default:
		log.AutoColor(os.Stderr)
	}
	perf.SetMetricsEnabled(cfg.Metrics)
	return nil
}

func (a *app) probeCmd() *cobra.Command {
	var fake bool
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Create, draw and read back every resource kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			if fake {
				return a.runProbe(ctx, cmd, fakeContext())
			}
			w, err := window.Open(a.cfg.Window, a.cfg.GL)
			if err != nil {
				return err
			}
			defer w.Close()
			log.Infof("probing %v on %v", w.Driver().Version(), w.Driver().Renderer())
			return a.runProbe(ctx, cmd, w.Context())
		},
	}
	cmd.Flags().BoolVar(&fake, "fake", false, "probe the in-memory driver instead of OpenGL")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "longest wait for the GPU")
	return cmd
}

// fakeContext returns a context on the in-memory driver reflecting the probe
// program the way a GL implementation would.
func fakeContext() *gfx.Context {
	drv := gfxtest.New()
	drv.Blocks[probe.BlockName] = 64
	drv.Uniforms = []string{probe.TintUniform}
	return gfx.NewContext(drv)
}

func (a *app) runProbe(ctx context.Context, cmd *cobra.Command, gc *gfx.Context) error {
	r := probe.Run(ctx, gc)
	r.Log()
	out := cmd.OutOrStdout()
	for _, s := range r.Steps {
		status := "ok"
		switch {
		case s.Skipped:
			status = "skipped"
		case s.Err != nil:
			status = "FAILED"
		}
		fmt.Fprintf(out, "%-16s %s\n", s.Name, status)
	}
	if !r.Passed() {
		return r.Err()
	}
	return nil
}

func (a *app) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := a.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
