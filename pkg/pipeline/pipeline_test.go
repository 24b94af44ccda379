package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/storyboard/pkg/cache"
	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/fonts"
	"github.com/matzehuels/storyboard/pkg/observability"
	"github.com/matzehuels/storyboard/pkg/persist"
	"github.com/matzehuels/storyboard/pkg/render"
	"github.com/matzehuels/storyboard/pkg/schedule"
	"github.com/matzehuels/storyboard/pkg/style"
)

func testSchedule(n int, withIDs bool) schedule.Schedule {
	s := schedule.Schedule{Date: "Monday"}
	for i := 0; i < n; i++ {
		it := schedule.Item{Time: "07:00", ClassName: "Spin", Instructor: "Ana"}
		if withIDs {
			it.ID = "item-" + string(rune('a'+i))
		}
		s.Items = append(s.Items, it)
	}
	return s
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	r := NewRunner(c, nil, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateStrategy(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"", false},
		{render.StrategyCurrent, false},
		{render.StrategyLegacy, false},
		{"v3", true},
	}
	for _, tt := range tests {
		err := ValidateStrategy(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStrategy(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.MaxIterations != 6 {
		t.Errorf("MaxIterations = %d, want 6", opts.MaxIterations)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// Second call should be idempotent
	formats := opts.Formats
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error: %v", err)
	}
	if len(opts.Formats) != len(formats) {
		t.Error("Formats changed on second call")
	}
}

func TestOptionsValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"badTemplateID", Options{Template: "Not Valid"}},
		{"badStrategy", Options{Strategy: "v3"}},
		{"badFormat", Options{Formats: []string{"gif"}}},
		{"scaleTooLarge", Options{Scale: 8}},
		{"negativeScale", Options{Scale: -1}},
		{"unknownElement", Options{Show: []elements.ID{"nope"}}},
		{"sectionElement", Options{Hide: []elements.ID{elements.Heading}}},
		{"unknownStyledElement", Options{ElementStyles: elements.Styles{"nope": {}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, errors.ErrCodeInvalidInput) && !errors.Is(err, errors.ErrCodeInvalidTemplate) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want validation error", err)
			}
		})
	}
}

func TestOptionsDedupeFormats(t *testing.T) {
	opts := Options{Formats: []string{"svg", "png", "svg"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(opts.Formats, ","); got != "svg,png" {
		t.Errorf("Formats = %s, want svg,png", got)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 0.5, Images: true, Sheet: true}
	if got := opts.ArtifactKeyOpts(FormatSVG); got.Scale != 0 || got.Images || got.Sheet {
		t.Errorf("svg key opts = %+v, want only format", got)
	}
	if got := opts.ArtifactKeyOpts(FormatPNG); got.Scale != 0.5 || !got.Images {
		t.Errorf("png key opts = %+v", got)
	}
	if got := opts.ArtifactKeyOpts(FormatJSON); !got.Sheet {
		t.Errorf("json key opts = %+v", got)
	}
}

func TestExecute(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	res, err := r.Execute(ctx, Options{
		Template: "studio",
		Schedule: testSchedule(5, true),
		Formats:  []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.TemplateID != "studio" {
		t.Errorf("TemplateID = %s, want studio", res.TemplateID)
	}
	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg artifact = %.40q", res.Artifacts[FormatSVG])
	}
	var doc struct {
		Width    float64 `json:"width"`
		Height   float64 `json:"height"`
		Strategy string  `json:"strategy"`
	}
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &doc); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if doc.Width != style.CanvasWidth || doc.Height != style.CanvasHeight {
		t.Errorf("json size = %vx%v, want %vx%v", doc.Width, doc.Height, style.CanvasWidth, style.CanvasHeight)
	}
	if res.Stats.ItemCount != 5 {
		t.Errorf("ItemCount = %d, want 5", res.Stats.ItemCount)
	}
	if res.Settle.Iterations < 1 || res.Settle.Iterations > 6 {
		t.Errorf("Iterations = %d, want 1..6", res.Settle.Iterations)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", res.CacheInfo)
	}
}

func TestExecuteCaching(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	opts := Options{Schedule: testSchedule(4, true), Formats: []string{FormatSVG}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs from rendered one")
	}
	if second.Tree.Available != first.Tree.Available {
		t.Errorf("replayed Available = %v, want %v", second.Tree.Available, first.Tree.Available)
	}
	if second.Settle.Iterations != first.Settle.Iterations {
		t.Errorf("replayed Iterations = %d, want %d", second.Settle.Iterations, first.Settle.Iterations)
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", third.CacheInfo)
	}
}

func TestExecuteLayoutCacheIgnoresItemIDs(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{Schedule: testSchedule(3, false)}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	res, err := r.Execute(ctx, Options{Schedule: testSchedule(3, false)})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !res.CacheInfo.LayoutHit {
		t.Error("layout should hit when only generated ids differ")
	}
	if res.CacheInfo.RenderHit {
		t.Error("artifacts should miss when item ids differ")
	}
}

func TestExecuteFallbackTemplate(t *testing.T) {
	res, err := newTestRunner(t).Execute(context.Background(), Options{Template: "does-not-exist"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.TemplateID != "pulse" {
		t.Errorf("TemplateID = %s, want pulse", res.TemplateID)
	}
}

func TestExecuteStrategy(t *testing.T) {
	tests := []struct {
		template string
		strategy string
		want     string
	}{
		{"pulse", "", render.StrategyCurrent},
		{"legacy-classic", "", render.StrategyLegacy},
		{"pulse", render.StrategyLegacy, render.StrategyLegacy},
		{"legacy-classic", render.StrategyCurrent, render.StrategyCurrent},
	}
	for _, tt := range tests {
		t.Run(tt.template+"/"+tt.strategy, func(t *testing.T) {
			res, err := newTestRunner(t).Execute(context.Background(), Options{
				Template: tt.template,
				Strategy: tt.strategy,
				Schedule: testSchedule(3, true),
			})
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if res.Tree.Strategy != tt.want {
				t.Errorf("Strategy = %s, want %s", res.Tree.Strategy, tt.want)
			}
		})
	}
}

func TestExecutePNGScale(t *testing.T) {
	res, err := newTestRunner(t).Execute(context.Background(), Options{
		Schedule: testSchedule(2, true),
		Formats:  []string{FormatPNG},
		Scale:    0.25,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(res.Artifacts[FormatPNG]))
	if err != nil {
		t.Fatalf("png.DecodeConfig() error: %v", err)
	}
	if cfg.Width != 270 || cfg.Height != 480 {
		t.Errorf("png size = %dx%d, want 270x480", cfg.Width, cfg.Height)
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestRunner(t).Execute(ctx, Options{Schedule: testSchedule(2, true)})
	if err == nil {
		t.Fatal("Execute() should fail on a canceled context")
	}
}

func TestPrepareAppliesEdits(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	r.Fonts = fonts.Default()

	p, err := r.Prepare(context.Background(), Options{
		Style:         &style.Style{Heading: "Friday Flow"},
		Schedule:      testSchedule(2, true),
		ElementStyles: elements.Styles{elements.Time: {FontSize: elements.Size(30)}},
		Show:          []elements.ID{elements.Description},
		Hide:          []elements.ID{elements.Instructor},
	})
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if p.Input.Style.Heading != "Friday Flow" {
		t.Errorf("Heading = %q, want %q", p.Input.Style.Heading, "Friday Flow")
	}
	if got := p.Input.ElementStyles[elements.Time].FontSize; got == nil || *got != 30 {
		t.Errorf("time font size = %v, want 30", got)
	}
	if !p.Input.Visible.Has(elements.Description) || p.Input.Visible.Has(elements.Instructor) {
		t.Errorf("Visible = %v", p.Input.Visible.Sorted())
	}

	again, err := r.Prepare(context.Background(), Options{
		Style:         &style.Style{Heading: "Friday Flow"},
		Schedule:      testSchedule(2, true),
		ElementStyles: elements.Styles{elements.Time: {FontSize: elements.Size(30)}},
		Show:          []elements.ID{elements.Description},
		Hide:          []elements.ID{elements.Instructor},
	})
	if err != nil {
		t.Fatal(err)
	}
	if again.Hash != p.Hash {
		t.Error("equal inputs should hash equally")
	}
}

type recordingRenderHooks struct {
	observability.NoopRenderHooks
	mu       sync.Mutex
	settled  int
	complete []error
}

func (h *recordingRenderHooks) OnSettle(context.Context, string, int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.settled++
}

func (h *recordingRenderHooks) OnRenderComplete(_ context.Context, _ string, _ []string, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.complete = append(h.complete, err)
}

func TestExecuteHooks(t *testing.T) {
	rec := &recordingRenderHooks{}
	observability.SetRenderHooks(rec)
	defer observability.Reset()

	if _, err := newTestRunner(t).Execute(context.Background(), Options{Schedule: testSchedule(1, true)}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if rec.settled != 1 {
		t.Errorf("OnSettle calls = %d, want 1", rec.settled)
	}
	if len(rec.complete) != 1 || rec.complete[0] != nil {
		t.Errorf("OnRenderComplete = %v, want one nil error", rec.complete)
	}
}

func TestPrepareDocuments(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil, nil)

	if _, err := r.Prepare(ctx, Options{Owner: "studio-42"}); !errors.Is(err, errors.ErrCodeConfig) {
		t.Fatalf("Prepare() without store error = %v, want CONFIG", err)
	}

	r.Store = persist.NewMemoryStore()
	if _, err := r.Prepare(ctx, Options{
		Template: "pulse",
		Owner:    "studio-42",
		Style:    &style.Style{Heading: "Saved Heading"},
		Schedule: testSchedule(3, true),
		Save:     true,
	}); err != nil {
		t.Fatalf("Prepare(save) error: %v", err)
	}

	doc, err := r.Store.Get(ctx, persist.Key("studio-42", "pulse"))
	if err != nil || doc == nil {
		t.Fatalf("Store.Get() = %v, %v", doc, err)
	}
	if doc.Style.Heading != "Saved Heading" {
		t.Errorf("saved Heading = %q, want %q", doc.Style.Heading, "Saved Heading")
	}

	p, err := r.Prepare(ctx, Options{Template: "pulse", Owner: "studio-42"})
	if err != nil {
		t.Fatalf("Prepare(load) error: %v", err)
	}
	if p.Input.Schedule.Len() != 3 {
		t.Errorf("loaded schedule has %d items, want 3", p.Input.Schedule.Len())
	}
	if p.Input.Style.Heading != "Saved Heading" {
		t.Errorf("loaded Heading = %q, want %q", p.Input.Style.Heading, "Saved Heading")
	}

	if _, err := r.Prepare(ctx, Options{Owner: "../etc"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Prepare(bad owner) error = %v, want INVALID_INPUT", err)
	}
}
