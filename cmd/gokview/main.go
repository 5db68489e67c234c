package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kjkrol/gokview/internal/platform"
	"github.com/kjkrol/gokview/internal/renderer"
	"github.com/kjkrol/gokview/pkg/gfx"
	"github.com/spf13/cobra"
)

// runViewer is replaced in tests.
var runViewer = run

type options struct {
	configPath string
	headless   bool
	logLevel   string
	title      string
	width      int
	height     int
	samples    int
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:           "gokview",
		Short:         "Show a continuously rendered 3D scene in a window",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runViewer(cmd.Context(), conf, opts.headless)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML or TOML config file")
	flags.BoolVar(&opts.headless, "headless", false, "run without a display (no rendering)")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&opts.title, "title", "", "window title")
	flags.IntVar(&opts.width, "width", 0, "window width in pixels")
	flags.IntVar(&opts.height, "height", 0, "window height in pixels")
	flags.IntVar(&opts.samples, "samples", -1, "multisample count")
	return cmd
}

// resolveConfig layers explicitly set flags over the config file over the defaults.
func resolveConfig(cmd *cobra.Command, opts options) (gfx.Config, error) {
	conf := gfx.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := gfx.LoadConfig(opts.configPath)
		if err != nil {
			return conf, err
		}
		conf = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		conf.LogLevel = opts.logLevel
	}
	if flags.Changed("title") {
		conf.Window.Title = opts.title
	}
	if flags.Changed("width") {
		conf.Window.Width = opts.width
	}
	if flags.Changed("height") {
		conf.Window.Height = opts.height
	}
	if flags.Changed("samples") {
		conf.Context.Samples = opts.samples
	}
	return conf, conf.Validate()
}

func run(ctx context.Context, conf gfx.Config, headless bool) error {
	level, err := gfx.ParseLogLevel(conf.LogLevel)
	if err != nil {
		return err
	}
	gfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var backend platform.Backend
	if headless {
		backend = platform.NewHeadlessBackend(nil)
	} else {
		backend, err = platform.NewGLFWBackend()
		if err != nil {
			return err
		}
	}
	defer backend.Terminate()

	queue := gfx.NewEventQueue(backend)
	viewer, err := gfx.NewViewer(conf, backend, queue, renderer.NewSceneFactory(renderer.DefaultRendererConfig()))
	if err != nil {
		return fmt.Errorf("create viewer: %w", err)
	}
	defer viewer.Close()

	viewer.AddModel(renderer.NewCube(1))
	viewer.Show()
	viewer.Focus()
	viewer.Start()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		select {
		case <-viewer.Loop().Done():
		case <-ctx.Done():
		}
		queue.Stop()
	}()

	if err := queue.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	gfx.Logger().Info("viewer closed", "frames", viewer.Loop().Frames())
	return nil
}
