package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fpang/frame-render/internal/cli"
	"github.com/fpang/frame-render/internal/config"
	"github.com/fpang/frame-render/internal/encode"
	"github.com/fpang/frame-render/internal/logging"
	"github.com/fpang/frame-render/internal/publish"
	"github.com/fpang/frame-render/internal/resource"
	"github.com/fpang/frame-render/internal/session"
	"github.com/fpang/frame-render/internal/staging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// CLI flags
var (
	configFlag    string
	imageRootFlag string
	outputDirFlag string
	logLevelFlag  string
	narrationFlag bool
	dialogsFlag   bool
	publishFlag   bool
)

// rootCmd is the main Cobra command for the frame-render CLI.
var rootCmd = &cobra.Command{
	Use:   "frame-render",
	Short: "Interactive image-sequence to video renderer",
	Long: `frame-render keeps an image generation backend loaded and renders clips from
still images in a loop. Pick images by generating them from a text prompt or by
browsing an image directory, choose framerate, zoom and padding, and ffmpeg
renders the clip. Memory is flushed and resource usage reported between renders.

Type 'q' at any prompt to quit.

Examples:
  frame-render
  frame-render --image-root ~/Pictures/storyboard --output-dir ./renders
  frame-render --narration --log-level debug
  frame-render --config ./frame-render.toml`,
	Version: version,
	Run:     runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to config.toml (default ~/.config/frame-render/config.toml)")
	rootCmd.Flags().StringVarP(&imageRootFlag, "image-root", "i", "", "Directory browsed by the image-dir workflow")
	rootCmd.Flags().StringVarP(&outputDirFlag, "output-dir", "o", "", "Default output folder for rendered clips")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (overrides "+logging.LevelEnvVar+")")
	rootCmd.Flags().BoolVar(&narrationFlag, "narration", false, "Prompt for narration text and mux synthesized audio")
	rootCmd.Flags().BoolVar(&dialogsFlag, "dialogs", false, "Use a native folder picker when the image root is missing")
	rootCmd.Flags().BoolVar(&publishFlag, "publish", true, "Upload finished clips when an S3 bucket is configured")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runMain is the main execution logic called by Cobra.
func runMain(cmd *cobra.Command, args []string) {
	logging.Init(logLevelFlag)
	initStart := time.Now()

	cfg, cfgPath, cfgExists, err := config.Load(configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := applyFlags(cmd, cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid flag value")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printBanner(cfg)

	fmt.Println("Loading model backend…")
	probe := resource.NewNvidiaSMI()
	sess := session.LoadSession(ctx, cfg, probe)
	resource.PrintCapabilities(os.Stdout, sess.Capabilities)

	var opts []session.Option
	opts = append(opts, session.WithProgress(os.Stderr))
	if publishFlag && cfg.PublishEnabled() {
		pub, err := publish.NewFromEnvironment(ctx, cfg.Publish.S3Bucket, cfg.Publish.S3Prefix)
		if err != nil {
			log.Warn().Err(err).Msg("Publishing disabled")
		} else {
			opts = append(opts, session.WithPublisher(pub))
		}
	}

	startup := logging.NewStartupLogger("frame-render").
		Version(version).
		Path("config", cfgPath).
		Path("image_root", cfg.Paths.ImageRoot).
		Path("output_dir", cfg.Paths.OutputDir).
		Path("scratch_dir", cfg.Paths.ScratchDir).
		Config("config_found", fmt.Sprintf("%t", cfgExists)).
		Config("encoder", cfg.Encoder.Binary).
		Config("video_codec", cfg.Encoder.VideoCodec).
		Config("generator_model", cfg.Generator.Model).
		Feature("generator", cfg.Generator.Enabled).
		Feature("narration", cfg.Narration.Enabled).
		Feature("publish", cfg.PublishEnabled() && publishFlag).
		Feature("dialogs", cfg.UI.Dialogs).
		InitDuration(time.Since(initStart))
	for _, c := range sess.Capabilities {
		startup.Capability(c.Name, c.Available)
	}
	startup.Log()

	monitor := resource.NewMonitor(probe, sess)
	prompter := cli.NewPrompter(os.Stdin, os.Stdout)
	runner := encode.NewRunner(cfg.Encoder.Binary)

	orch := session.NewOrchestrator(cfg, sess, monitor, runner, prompter, opts...)
	if err := orch.Run(ctx); err != nil {
		reportFatal(err, cfg.LockPath())
		os.Exit(1)
	}
}

// applyFlags overrides configuration with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("image-root") {
		root, err := config.ExpandPath(imageRootFlag)
		if err != nil {
			return err
		}
		cfg.Paths.ImageRoot = root
	}
	if flags.Changed("output-dir") {
		out, err := config.ExpandPath(outputDirFlag)
		if err != nil {
			return err
		}
		cfg.Paths.OutputDir = out
	}
	if flags.Changed("narration") {
		cfg.Narration.Enabled = narrationFlag
	}
	if flags.Changed("dialogs") {
		cfg.UI.Dialogs = dialogsFlag
	}
	return cfg.Validate()
}

func printBanner(cfg *config.Config) {
	narration := "disabled"
	if cfg.Narration.Enabled {
		narration = "enabled"
	}

	fmt.Println()
	fmt.Println("=== Persistent Image-to-Video Renderer ===")
	fmt.Println()
	fmt.Println("  Keeps the generator backend loaded across renders")
	fmt.Println("  Text-prompt or Image-dir workflows")
	fmt.Printf("  Narration in every render (currently %s)\n", narration)
	fmt.Println("  Live heap, RAM and GPU memory stats")
	fmt.Println("  Memory flushes before and after renders")
	fmt.Println("  Encoder and GPU health check")
	fmt.Println("  Zoom and padding filters, audio muxing")
	fmt.Println("  Numbered item picker with ranges and 'all'")
	fmt.Println("  Type 'q' at any prompt to quit")
	fmt.Println()
}

// reportFatal logs a session-ending error with the details its type carries.
func reportFatal(err error, lockPath string) {
	var encErr *encode.EncodeError
	var stErr *staging.StagingError
	switch {
	case errors.As(err, &encErr):
		log.Error().
			Err(encErr.Err).
			Int("exit_code", encErr.ExitCode).
			Str("stderr_tail", encErr.Stderr).
			Msg("Encoding failed")
	case errors.As(err, &stErr):
		log.Error().
			Err(stErr.Err).
			Str("op", stErr.Op).
			Str("path", stErr.Path).
			Msg("Staging failed")
	case errors.Is(err, session.ErrLocked):
		log.Error().Str("lock", lockPath).Msg("Another session is using the scratch directory")
	case errors.Is(err, context.Canceled):
		log.Warn().Msg("Interrupted")
	default:
		log.Error().Err(err).Msg("Session failed")
	}
}
