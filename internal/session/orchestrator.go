package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fpang/frame-render/internal/cli"
	"github.com/fpang/frame-render/internal/config"
	"github.com/fpang/frame-render/internal/encode"
	"github.com/fpang/frame-render/internal/filehandler"
	"github.com/fpang/frame-render/internal/metrics"
	"github.com/fpang/frame-render/internal/publish"
	"github.com/fpang/frame-render/internal/resource"
	"github.com/fpang/frame-render/internal/selection"
	"github.com/fpang/frame-render/internal/staging"
	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"
)

// Workflow prompt answers.
const (
	workflowGenerate = "1"
	workflowBrowse   = "2"
)

// Encoder runs the external encoder with an argument list.
type Encoder interface {
	Run(ctx context.Context, args []string) error
}

// Publisher uploads a finished clip.
type Publisher interface {
	Publish(ctx context.Context, localPath string) (*publish.Result, error)
}

// Orchestrator drives the render loop state machine.
type Orchestrator struct {
	cfg       *config.Config
	session   *Session
	monitor   *resource.Monitor
	prompter  *cli.Prompter
	selector  *selection.Selector
	builder   *encode.Builder
	encoder   Encoder
	publisher Publisher
	progress  io.Writer
	out       io.Writer
	lock      *flock.Flock
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPublisher uploads every finished clip through p.
func WithPublisher(p Publisher) Option {
	return func(o *Orchestrator) {
		o.publisher = p
	}
}

// WithProgress draws staging progress on w.
func WithProgress(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.progress = w
	}
}

// NewOrchestrator wires the render loop.
func NewOrchestrator(cfg *config.Config, s *Session, monitor *resource.Monitor, encoder Encoder, prompter *cli.Prompter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		session:  s,
		monitor:  monitor,
		prompter: prompter,
		selector: selection.NewSelector(prompter),
		builder: &encode.Builder{
			VideoCodec:  cfg.Encoder.VideoCodec,
			PixelFormat: cfg.Encoder.PixelFormat,
			AudioCodec:  cfg.Encoder.AudioCodec,
			ZoomStep:    cfg.Render.ZoomStep,
		},
		encoder: encoder,
		out:     prompter.Out(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// iteration carries the state of one render from selection to report.
type iteration struct {
	root      string
	images    []string
	outputDir string
	baseName  string
	stageDir  string
	request   encode.Request
	started   time.Time
}

// Run executes the loop until the user quits or declines another render.
// Quitting is not an error. A *staging.StagingError or *encode.EncodeError
// ends the session and is returned, as does ErrLocked when another session
// owns the scratch directory.
func (o *Orchestrator) Run(ctx context.Context) error {
	defer o.releaseLock()

	state := ChoosingWorkflow
	it := &iteration{}

	for state != Terminated {
		log.Debug().Stringer("state", state).Msg("Entering state")

		next, err := o.step(ctx, state, it)
		if errors.Is(err, cli.ErrQuit) {
			next, err = Terminated, nil
		}
		if err != nil {
			return err
		}
		if next == ChoosingWorkflow {
			it = &iteration{}
		}
		state = next
	}

	fmt.Fprint(o.out, "\nGoodbye!\n\n")
	return nil
}

func (o *Orchestrator) step(ctx context.Context, state State, it *iteration) (State, error) {
	switch state {
	case ChoosingWorkflow:
		return o.chooseWorkflow(ctx, it)
	case Selecting:
		return o.selectImages(it)
	case Staging:
		return o.stage(it)
	case ConfiguringRender:
		return o.configureRender(ctx, it)
	case Encoding:
		return o.encode(ctx, it)
	case Reporting:
		return o.report(ctx, it)
	case ContinuePrompt:
		return o.continuePrompt()
	default:
		return Terminated, fmt.Errorf("unexpected state %s", state)
	}
}

func (o *Orchestrator) chooseWorkflow(ctx context.Context, it *iteration) (State, error) {
	o.monitor.Flush()
	o.monitor.Report(ctx).Render(o.out)

	for {
		mode, err := o.prompter.Ask("Workflow: [1] Text-prompt  [2] Image-dir  (or 'q' to quit): ")
		if err != nil {
			return Terminated, err
		}

		switch mode {
		case workflowGenerate:
			if err := o.lockScratch(); err != nil {
				return Terminated, err
			}
			root, ok, err := o.generate(ctx)
			if err != nil {
				return Terminated, err
			}
			if !ok {
				return ChoosingWorkflow, nil
			}
			it.root = root
			return Selecting, nil

		case workflowBrowse, "":
			if err := o.lockScratch(); err != nil {
				return Terminated, err
			}
			root, err := o.imageRoot()
			if err != nil {
				return Terminated, err
			}
			it.root = root
			return Selecting, nil

		default:
			fmt.Fprintln(o.out, "→ Unknown workflow. Enter 1, 2, or q.")
		}
	}
}

// lockScratch creates the scratch directory and takes the session lock the
// first time a workflow starts. Quitting before then leaves the disk untouched.
func (o *Orchestrator) lockScratch() error {
	if o.lock != nil {
		return nil
	}
	if err := o.cfg.EnsureDirectories(); err != nil {
		return err
	}
	lock, err := AcquireLock(o.cfg.LockPath())
	if err != nil {
		return err
	}
	o.lock = lock
	return nil
}

func (o *Orchestrator) releaseLock() {
	if o.lock == nil {
		return
	}
	if err := o.lock.Unlock(); err != nil {
		log.Warn().Err(err).Msg("Failed to release session lock")
	}
	o.lock = nil
}

// generate asks for a scene description and fills the generated directory.
// ok is false when generation failed and the workflow menu should be shown again.
func (o *Orchestrator) generate(ctx context.Context) (string, bool, error) {
	prompt, err := o.prompter.AskText("Enter scene description text: ")
	if err != nil {
		return "", false, err
	}
	fmt.Fprintf(o.out, "→ Generating images for: “%s”\n", prompt)

	dir := o.cfg.GeneratedDir()
	if err := os.RemoveAll(dir); err != nil {
		return "", false, fmt.Errorf("clear generated images: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create generated images directory: %w", err)
	}

	n, err := o.session.Generator.Generate(ctx, prompt, dir)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		log.Warn().Err(err).Msg("Image generation failed")
		fmt.Fprintf(o.out, "→ Image generation failed: %v\n\n", err)
		return "", false, nil
	}
	log.Debug().Int("images", n).Str("dir", dir).Msg("Generated images ready")
	return dir, true, nil
}

// imageRoot returns the configured image root, asking for another directory
// when it does not exist.
func (o *Orchestrator) imageRoot() (string, error) {
	root := o.cfg.Paths.ImageRoot
	if resolved, err := cli.ResolveDirectory(root); err == nil {
		return resolved, nil
	}

	fmt.Fprintf(o.out, "→ Image directory %s not found.\n", root)
	chosen, err := o.prompter.ChooseDirectory("Choose an image directory", root, o.cfg.UI.Dialogs)
	if err != nil {
		return "", err
	}
	expanded, err := config.ExpandPath(chosen)
	if err != nil {
		return "", err
	}
	return expanded, nil
}

func (o *Orchestrator) selectImages(it *iteration) (State, error) {
	images, err := o.selector.BrowseAndSelect(it.root)
	if err != nil {
		return Terminated, err
	}
	if len(images) == 0 {
		return ChoosingWorkflow, nil
	}
	it.images = images

	fmt.Fprintf(o.out, "\nYou selected %d images.\n", len(images))
	summary := filehandler.Summarize(images)
	fmt.Fprintf(o.out, "Total size: %s\n", cli.FormatBytes(uint64(summary.TotalBytes)))
	if r := summary.CaptureRange(); r != "" {
		fmt.Fprintf(o.out, "Captured: %s\n", r)
	}
	for _, w := range summary.Warnings() {
		fmt.Fprintf(o.out, "Warning: %s\n", w)
	}
	fmt.Fprintln(o.out)

	return Staging, nil
}

func (o *Orchestrator) stage(it *iteration) (State, error) {
	outDir, err := o.prompter.AskDefault("Output folder", o.cfg.Paths.OutputDir)
	if err != nil {
		return Terminated, err
	}
	baseName, err := o.prompter.AskDefault("Output filename (no ext)", o.cfg.Render.OutputBaseName)
	if err != nil {
		return Terminated, err
	}

	expanded, err := config.ExpandPath(outDir)
	if err != nil {
		return Terminated, err
	}
	outDir, err = cli.EnsureDirectory(expanded)
	if err != nil {
		return Terminated, &staging.StagingError{Op: "mkdir", Path: expanded, Err: err}
	}

	it.outputDir = outDir
	it.baseName = baseName
	it.stageDir = filepath.Join(outDir, staging.DirName)
	it.started = time.Now()

	fmt.Fprintln(o.out, "Copying and renaming images…")
	var opts []staging.Option
	if o.progress != nil {
		opts = append(opts, staging.WithProgress(o.progress))
	}
	if _, err := staging.Stage(it.images, it.stageDir, opts...); err != nil {
		metrics.New(metrics.Namespace).Count("StagingErrors").Flush()
		return Terminated, err
	}
	fmt.Fprint(o.out, "Image copy complete\n\n")

	return ConfiguringRender, nil
}

func (o *Orchestrator) configureRender(ctx context.Context, it *iteration) (State, error) {
	var audioPath string
	if o.cfg.Narration.Enabled {
		text, err := o.prompter.AskText("Enter narration text (or leave blank to skip): ")
		if err != nil {
			return Terminated, err
		}
		if text != "" {
			audioPath = o.narrate(ctx, text, filepath.Join(it.outputDir, it.baseName+".wav"))
		}
	}

	fps, err := o.prompter.AskInt("FPS", o.cfg.Render.Framerate, func(v int) bool { return v > 0 })
	if err != nil {
		return Terminated, err
	}
	zoom, err := o.prompter.AskFloat("Max zoom factor", o.cfg.Render.Zoom, func(v float64) bool { return v >= 1.0 })
	if err != nil {
		return Terminated, err
	}
	padding, err := o.prompter.AskInt("Padding (px)", o.cfg.Render.Padding, func(v int) bool { return v >= 0 })
	if err != nil {
		return Terminated, err
	}

	it.request = encode.Request{
		Framerate:  fps,
		Zoom:       zoom,
		Padding:    padding,
		AudioPath:  audioPath,
		OutputPath: filepath.Join(it.outputDir, it.baseName+".mp4"),
	}
	return Encoding, nil
}

// narrate returns the audio path, or "" when synthesis failed.
func (o *Orchestrator) narrate(ctx context.Context, text, path string) string {
	fmt.Fprintln(o.out, "Generating narration…")
	if err := o.session.Narrator.Narrate(ctx, text, path); err != nil {
		log.Warn().Err(err).Msg("Narration failed, rendering without audio")
		fmt.Fprintf(o.out, "→ Narration failed, continuing without audio: %v\n\n", err)
		return ""
	}
	fmt.Fprintf(o.out, "Narration saved to %s\n\n", path)
	return path
}

func (o *Orchestrator) encode(ctx context.Context, it *iteration) (State, error) {
	pattern := staging.FramePattern(it.stageDir, filepath.Ext(it.images[0]))
	args := o.builder.Build(pattern, it.request)

	fmt.Fprintln(o.out, "\nRunning FFmpeg:")
	fmt.Fprintf(o.out, "  %s\n\n", encode.CommandLine(o.cfg.Encoder.Binary, args))

	if err := o.encoder.Run(ctx, args); err != nil {
		metrics.New(metrics.Namespace).Count("EncodeErrors").Flush()
		return Terminated, err
	}
	return Reporting, nil
}

func (o *Orchestrator) report(ctx context.Context, it *iteration) (State, error) {
	o.monitor.Flush()

	bell := ""
	if o.cfg.UI.Bell {
		bell = "\a"
	}
	fmt.Fprintf(o.out, "Render complete!%s\n", bell)
	elapsed := time.Since(it.started)
	fmt.Fprintf(o.out, "Video saved to %s (%s)\n\n", it.request.OutputPath, cli.FormatDurationShort(elapsed))

	metrics.New(metrics.Namespace).
		Dimension("Audio", fmt.Sprintf("%t", it.request.AudioPath != "")).
		Metric("RenderDurationMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
		Metric("StagedFrames", float64(len(it.images)), metrics.UnitCount).
		Count("Renders").
		Property("output", it.request.OutputPath).
		Flush()

	if o.publisher != nil {
		res, err := o.publisher.Publish(ctx, it.request.OutputPath)
		if err != nil {
			log.Warn().Err(err).Msg("Publish failed")
			fmt.Fprintf(o.out, "→ Upload failed: %v\n\n", err)
		} else {
			fmt.Fprintf(o.out, "Uploaded to s3://%s/%s\n", res.Bucket, res.Key)
			if res.URL != "" {
				fmt.Fprintf(o.out, "Download link: %s\n", res.URL)
			}
			fmt.Fprintln(o.out)
		}
	}

	return ContinuePrompt, nil
}

func (o *Orchestrator) continuePrompt() (State, error) {
	again, err := o.prompter.Confirm("Render another?")
	if err != nil {
		return Terminated, err
	}
	if again {
		return ChoosingWorkflow, nil
	}
	return Terminated, nil
}
