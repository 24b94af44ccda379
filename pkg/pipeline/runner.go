package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/storyboard/pkg/cache"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/fonts"
	"github.com/matzehuels/storyboard/pkg/measure"
	"github.com/matzehuels/storyboard/pkg/observability"
	"github.com/matzehuels/storyboard/pkg/persist"
	"github.com/matzehuels/storyboard/pkg/render"
	"github.com/matzehuels/storyboard/pkg/render/sink"
	"github.com/matzehuels/storyboard/pkg/templates"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for its dependencies: it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Registry *templates.Registry
	Logger   *log.Logger

	// Images loads background and logo images for PNG output. Nil skips
	// images even when Options.Images is set.
	Images sink.ImageSource

	// Fonts measures and rasterizes text. Nil uses the embedded Go fonts.
	Fonts *fonts.Set

	// Store holds owner documents. Nil rejects Options.Owner and Options.Save.
	Store persist.Store
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If reg is nil, the built-in templates are used.
func NewRunner(c cache.Cache, keyer cache.Keyer, reg *templates.Registry, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache("no cache configured")
	}
	if reg == nil {
		reg = templates.NewDefault(templates.Flags{})
	}
	if logger == nil {
		logger = log.Default()
	}
	if reason, off := cache.Disabled(c); off {
		logger.Debug("render cache disabled", "reason", reason)
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Registry: reg,
		Logger:   logger,
	}
}

// Execute runs the complete prepare → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (res *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	p, err := r.Prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	hooks := observability.Render()
	start := time.Now()
	hooks.OnRenderStart(ctx, p.TemplateID, p.Input.Schedule.Len())
	defer func() { hooks.OnRenderComplete(ctx, p.TemplateID, opts.Formats, time.Since(start), err) }()

	res = &Result{
		TemplateID: p.TemplateID,
		InputHash:  p.Hash,
		Stats:      Stats{ItemCount: p.Input.Schedule.Len()},
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	tree, settle, layoutHit, err := r.LayoutWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, wrapInternal(err, "layout")
	}
	res.Tree = tree
	res.Settle = settle
	res.Stats.LayoutTime = time.Since(layoutStart)
	res.CacheInfo.LayoutHit = layoutHit
	hooks.OnSettle(ctx, p.TemplateID, settle.Iterations, settle.Converged)

	if !settle.Converged {
		opts.Logger.Warn("layout did not settle",
			"template", p.TemplateID,
			"iterations", settle.Iterations,
			"overflow", settle.Metrics.Overflow())
	}
	opts.Logger.Info("computed layout",
		"template", p.TemplateID,
		"items", res.Stats.ItemCount,
		"iterations", settle.Iterations,
		"cached", layoutHit,
		"duration", res.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, p, tree, opts)
	if err != nil {
		return nil, err
	}
	res.Artifacts = artifacts
	res.Stats.RenderTime = time.Since(renderStart)
	res.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", res.Stats.RenderTime)

	return res, nil
}

// layoutEntry is the cached outcome of a measurement loop.
type layoutEntry struct {
	Available  float64 `json:"available"`
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

// LayoutWithCacheInfo fits the layout and reports whether the fitted
// availability came from cache. A hit replays the fit in a single pass.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, p *Prepared, opts Options) (*render.Tree, measure.SettleResult, bool, error) {
	key := r.Keyer.LayoutKey(p.LayoutHash, opts.LayoutKeyOpts(p.Input.Strategy.Name()))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var entry layoutEntry
			if err := json.Unmarshal(data, &entry); err == nil {
				in := p.Input
				in.Available = entry.Available
				tree, err := render.Render(in)
				if err == nil {
					observability.Cache().OnCacheHit(ctx, "layout")
					return tree, measure.SettleResult{
						Metrics:    tree.Measure(),
						Iterations: entry.Iterations,
						Converged:  entry.Converged,
					}, true, nil
				}
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	tree, settle, err := render.Fit(ctx, p.Input, opts.SettleOptions())
	if err != nil {
		return nil, settle, false, err
	}

	if data, err := json.Marshal(layoutEntry{
		Available:  tree.Available,
		Iterations: settle.Iterations,
		Converged:  settle.Converged,
	}); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return tree, settle, false, nil
}

// RenderWithCacheInfo renders every requested format and reports whether
// all of them came from cache. Missing formats render concurrently.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, p *Prepared, tree *render.Tree, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(p.Hash, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range missing {
		g.Go(func() error {
			data, err := r.renderFormat(gctx, tree, format, opts)
			if err != nil {
				return wrapInternal(err, "render "+format)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	for _, format := range missing {
		key := r.Keyer.ArtifactKey(p.Hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, artifacts[format], cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(artifacts[format]))
		}
	}
	return artifacts, false, nil
}

func (r *Runner) renderFormat(ctx context.Context, tree *render.Tree, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(tree), nil
	case FormatPNG:
		pngOpts := []sink.PNGOption{
			sink.WithScale(opts.Scale),
			sink.WithFonts(r.fonts()),
			sink.WithImageErrorHandler(func(url string, err error) {
				opts.Logger.Warn("image skipped", "url", url, "error", err)
			}),
		}
		if opts.Images && r.Images != nil {
			pngOpts = append(pngOpts, sink.WithImages(r.Images))
		}
		return sink.RenderPNG(ctx, tree, pngOpts...)
	case FormatJSON:
		var jsonOpts []sink.JSONOption
		if opts.Sheet {
			jsonOpts = append(jsonOpts, sink.WithJSONSheet())
		}
		return sink.RenderJSON(tree, jsonOpts...)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
}

// Close releases the cache and the document store.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	return stderrors.Join(errs...)
}

func (r *Runner) fonts() *fonts.Set {
	if r.Fonts != nil {
		return r.Fonts
	}
	return fonts.Default()
}

// wrapInternal keeps coded errors and marks everything else internal.
func wrapInternal(err error, stage string) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "%s", stage)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
