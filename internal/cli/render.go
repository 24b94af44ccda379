package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/ingest"
	"github.com/matzehuels/storyboard/pkg/pipeline"
	"github.com/matzehuels/storyboard/pkg/remote"
	"github.com/matzehuels/storyboard/pkg/style"
)

// defaultOutputBase names outputs when the schedule has no file name.
const defaultOutputBase = "story"

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	output      string
	formats     string
	scheduleURL string
	styleFile   string
	elementFile string
	logo        string
	background  string
	heading     string
	subtitle    string
	date        string
	show        []string
	hide        []string
	pick        bool
	noCache     bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	opts := pipeline.Options{Images: true}

	cmd := &cobra.Command{
		Use:   "render [schedule.json|schedule.yaml]",
		Short: "Render a schedule to a story image",
		Long: `Render a class schedule to a 1080x1920 story.

The schedule comes from a JSON or YAML file, from --schedule-url, or from the
document saved for --owner. Style and element overrides are layered over the
template. Invalid fields are reported and skipped; everything valid applies.

Layouts and images are cached, so re-rendering an unchanged story is instant.`,
		Example: `  storyboard render monday.yaml
  storyboard render monday.yaml -t neon -f png,svg --scale 0.5
  storyboard render --schedule-url https://studio.example/today.json --pick
  storyboard render monday.yaml --logo logo.png --owner studio-42 --save`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			opts.Formats = parseFormats(flags.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), input, flags, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	f.StringVarP(&flags.formats, "format", "f", "", "output format(s): png (default), svg, json (comma-separated)")
	f.StringVar(&flags.scheduleURL, "schedule-url", "", "fetch the schedule from an http(s) URL")
	f.StringVarP(&opts.Template, "template", "t", "", "template id (see 'storyboard templates list')")
	f.BoolVar(&flags.pick, "pick", false, "pick the template interactively")
	f.StringVar(&flags.styleFile, "style", "", "style overrides (JSON or YAML)")
	f.StringVar(&flags.elementFile, "elements", "", "per-element typography overrides (JSON or YAML)")
	f.StringSliceVar(&flags.show, "show", nil, "schedule elements to show (e.g. location,description)")
	f.StringSliceVar(&flags.hide, "hide", nil, "schedule elements to hide")
	f.StringVar(&flags.heading, "heading", "", "heading text")
	f.StringVar(&flags.subtitle, "subtitle", "", "subtitle text")
	f.StringVar(&flags.date, "date", "", "date label replacing the schedule's own")
	f.StringVar(&flags.logo, "logo", "", "logo image file to upload")
	f.StringVar(&flags.background, "background", "", "background image file to upload")
	f.StringVar(&opts.Strategy, "strategy", "", "layout strategy: current (default), legacy")
	f.IntVar(&opts.MaxIterations, "max-iterations", 0, "measurement passes before giving up (default 6)")
	f.Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "PNG scale factor (0.25 for a quick preview)")
	f.BoolVar(&opts.Images, "images", opts.Images, "draw background and logo images into PNGs")
	f.BoolVar(&opts.Sheet, "sheet", false, "include the resolved style sheet in JSON output")
	f.StringVar(&opts.Owner, "owner", "", "start from the document saved for this owner")
	f.BoolVar(&opts.Save, "save", false, "save the edited document")
	f.BoolVar(&opts.Refresh, "refresh", false, "ignore cached layouts, artifacts and downloads")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender assembles the options and runs the pipeline.
func (c *CLI) runRender(ctx context.Context, input string, flags renderFlags, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)
	if input == "" && flags.scheduleURL == "" && opts.Owner == "" {
		return errors.New(errors.ErrCodeInvalidInput, "provide a schedule file, --schedule-url or --owner")
	}
	if input != "" && flags.scheduleURL != "" {
		return errors.New(errors.ErrCodeInvalidInput, "use either a schedule file or --schedule-url, not both")
	}

	runner, client, err := c.newRunner(ctx, runnerOpts{
		noCache: flags.noCache,
		store:   opts.Owner != "" || opts.Save,
	})
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = logger
	prog := newProgress(logger)

	if flags.pick {
		id, err := pickTemplate(runner.Registry, opts.Template)
		if err != nil {
			return err
		}
		if id == "" {
			return context.Canceled
		}
		opts.Template = id
	}

	if err := loadSchedule(ctx, client, input, flags.scheduleURL, &opts); err != nil {
		return err
	}
	prog.stage("schedule loaded")
	if err := loadOverrides(flags, &opts); err != nil {
		return err
	}
	if err := c.uploadImages(ctx, flags, &opts); err != nil {
		return err
	}
	prog.stage("inputs ready")

	spinner := newSpinner(ctx, "Rendering story...")
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()
	prog.stage(fmt.Sprintf("layout settled after %d passes", res.Settle.Iterations))

	printSuccess("Rendered %s", StyleValue.Render(res.TemplateID))
	printStats(renderStats{
		items:      res.Stats.ItemCount,
		iterations: res.Settle.Iterations,
		converged:  res.Settle.Converged,
		cached:     res.CacheInfo.RenderHit,
	})
	if !res.Settle.Converged {
		printWarning("Schedule still overflows by %.0fpx; try fewer classes or a compact template", res.Settle.Metrics.Overflow())
	}

	base := outputBase(input, flags.scheduleURL)
	paths, err := writeArtifacts(res.Artifacts, opts.Formats, flags.output, base)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	prog.done(fmt.Sprintf("Wrote %d output files", len(paths)))
	return nil
}

// loadSchedule reads the schedule from a file or URL into opts. Dropped
// fields and items are reported as warnings.
func loadSchedule(ctx context.Context, client *remote.Client, input, url string, opts *pipeline.Options) error {
	var (
		res ingest.ScheduleResult
		err error
	)
	switch {
	case url != "":
		spinner := newSpinner(ctx, "Fetching schedule...")
		spinner.Start()
		res, err = client.Schedule(ctx, url, opts.Refresh)
		spinner.Stop()
		if err != nil {
			return err
		}
	case input != "":
		data, rerr := os.ReadFile(input)
		if rerr != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, rerr, "read schedule %s", input)
		}
		if res, err = ingest.Schedule(data, ingest.FormatFromPath(input)); err != nil {
			return err
		}
	default:
		return nil
	}
	reportProblems("schedule", res.Problems)
	if res.Dropped > 0 {
		printWarning("Dropped %d class(es) without a time or name", res.Dropped)
	}
	opts.Schedule = res.Schedule
	return nil
}

// loadOverrides applies the style, element and text flags to opts.
func loadOverrides(flags renderFlags, opts *pipeline.Options) error {
	patch := style.Style{}
	if flags.styleFile != "" {
		data, err := os.ReadFile(flags.styleFile)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "read style %s", flags.styleFile)
		}
		res, err := ingest.Style(data, ingest.FormatFromPath(flags.styleFile))
		if err != nil {
			return err
		}
		reportProblems("style", res.Problems)
		patch = res.Style
	}
	if flags.heading != "" {
		patch.Heading = flags.heading
	}
	if flags.subtitle != "" {
		patch.Subtitle = flags.subtitle
	}
	opts.Style = &patch
	if flags.date != "" && opts.Schedule.Len() > 0 {
		opts.Schedule.Date = flags.date
	}

	if flags.elementFile != "" {
		data, err := os.ReadFile(flags.elementFile)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "read element styles %s", flags.elementFile)
		}
		res, err := ingest.ElementStyles(data, ingest.FormatFromPath(flags.elementFile))
		if err != nil {
			return err
		}
		reportProblems("elements", res.Problems)
		opts.ElementStyles = res.Styles
	}

	opts.Show = toIDs(flags.show)
	opts.Hide = toIDs(flags.hide)
	return nil
}

// uploadImages stores the logo and background files and points the style
// at the uploaded copies.
func (c *CLI) uploadImages(ctx context.Context, flags renderFlags, opts *pipeline.Options) error {
	if flags.logo == "" && flags.background == "" {
		return nil
	}
	up, err := c.newUploader()
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "open upload directory")
	}
	for _, u := range []struct {
		path  string
		field *string
	}{
		{flags.logo, &opts.Style.LogoURL},
		{flags.background, &opts.Style.BackgroundImage},
	} {
		if u.path == "" {
			continue
		}
		f, err := os.Open(u.path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", u.path)
		}
		url, err := up.Upload(ctx, filepath.Base(u.path), f)
		f.Close()
		if err != nil {
			return err
		}
		*u.field = url
		loggerFromContext(ctx).Debug("uploaded image", "file", u.path, "url", url)
	}
	return nil
}

func reportProblems(what string, problems ingest.Problems) {
	for _, p := range problems {
		printWarning("%s: skipped %s (%s)", what, p.Path, p.Message)
	}
}

func toIDs(names []string) []elements.ID {
	if len(names) == 0 {
		return nil
	}
	ids := make([]elements.ID, len(names))
	for i, n := range names {
		ids[i] = elements.ID(strings.TrimSpace(n))
	}
	return ids
}

// outputBase derives the output name from the schedule source.
func outputBase(input, url string) string {
	src := input
	if src == "" {
		src = url
	}
	if src == "" {
		return defaultOutputBase
	}
	name := filepath.Base(src)
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == "/" {
		return defaultOutputBase
	}
	return name
}

// writeArtifacts writes each format and returns the written paths. With a
// single format, output is the file name; otherwise it is the base path
// the format extension is appended to.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, base string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(output, base, format, len(formats) == 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func artifactPath(output, base, format string, single bool) string {
	switch {
	case output == "":
		return base + "." + format
	case single:
		return output
	default:
		return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
	}
}
