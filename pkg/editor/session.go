package editor

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/storyboard/pkg/density"
	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/fonts"
	"github.com/matzehuels/storyboard/pkg/measure"
	"github.com/matzehuels/storyboard/pkg/observability"
	"github.com/matzehuels/storyboard/pkg/persist"
	"github.com/matzehuels/storyboard/pkg/render"
	"github.com/matzehuels/storyboard/pkg/schedule"
	"github.com/matzehuels/storyboard/pkg/style"
	"github.com/matzehuels/storyboard/pkg/templates"
	"github.com/matzehuels/storyboard/pkg/upload"
)

// PreviewScheme prefixes optimistic upload URLs.
const PreviewScheme = "preview://"

// Topic names a class of change.
type Topic string

const (
	StyleUpdated         Topic = "style"
	ScheduleUpdated      Topic = "schedule"
	ElementStylesUpdated Topic = "element-styles"
	MetricsUpdated       Topic = "metrics"
)

// State is a snapshot of the session.
type State struct {
	TemplateID    string
	Style         style.Style
	Schedule      schedule.Schedule
	ElementStyles elements.Styles
	Visible       elements.Set
	Smart         density.SmartSpacing
	Strategy      render.LayoutStrategy
	Metrics       measure.StoryMetrics
}

func (s State) clone() State {
	out := s
	out.Style = style.Merge(style.Style{}, s.Style)
	out.Schedule = s.Schedule.Clone()
	out.ElementStyles = s.ElementStyles.Clone()
	if s.Visible != nil {
		out.Visible = make(elements.Set, len(s.Visible))
		for k, v := range s.Visible {
			out.Visible[k] = v
		}
	}
	return out
}

// Event is delivered to listeners.
type Event struct {
	Topic Topic
	State State
}

// Listener receives events.
type Listener func(Event)

type listener struct {
	id int
	fn Listener
}

// Option configures a Session.
type Option func(*Session)

// WithStore enables Load and Save.
func WithStore(st persist.Store) Option { return func(s *Session) { s.store = st } }

// WithUploader sets the image uploader.
func WithUploader(u upload.Uploader) Option { return func(s *Session) { s.uploader = u } }

// WithOwner scopes persisted documents.
func WithOwner(owner string) Option { return func(s *Session) { s.owner = owner } }

// WithLogger sets the logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option { return func(s *Session) { s.logger = l } }

// WithMeasurer sets the text measurer of the live preview.
func WithMeasurer(m fonts.Measurer) Option { return func(s *Session) { s.measurer = m } }

// Session is the editor state store. It is safe for concurrent use.
type Session struct {
	registry *templates.Registry
	store    persist.Store
	uploader upload.Uploader
	owner    string
	logger   *log.Logger
	measurer fonts.Measurer

	mu        sync.Mutex
	state     State
	previews  map[string]*pendingUpload
	listeners map[Topic][]listener
	nextID    int
	observer  *measure.Observer
	preview   *Preview
}

// New starts a session on templateID. Unknown ids fall back to the
// registry's fallback template.
func New(reg *templates.Registry, templateID string, opts ...Option) (*Session, error) {
	s := &Session{
		registry:  reg,
		previews:  make(map[string]*pendingUpload),
		listeners: make(map[Topic][]listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.measurer == nil {
		s.measurer = fonts.Default()
	}
	s.preview = &Preview{s: s, callbacks: make(map[int]func())}

	st, err := s.instantiate(templateID)
	if err != nil {
		return nil, err
	}
	s.state = st
	return s, nil
}

func (s *Session) instantiate(templateID string) (State, error) {
	def, err := s.registry.Get(templateID)
	if err != nil {
		return State{}, err
	}
	inst := def.Instantiate()
	return State{
		TemplateID:    inst.ID,
		Style:         inst.Style,
		ElementStyles: inst.ElementStyles,
		Visible:       inst.Visible,
		Smart:         inst.Smart,
		Strategy:      inst.Strategy,
	}, nil
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn for topic and returns a function that removes it.
func (s *Session) Subscribe(topic Topic, fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners[topic] = append(s.listeners[topic], listener{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		ls := s.listeners[topic]
		for i, l := range ls {
			if l.id == id {
				s.listeners[topic] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// update applies fn under the lock and then publishes topics.
func (s *Session) update(fn func(st *State), topics ...Topic) State {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.clone()
	s.mu.Unlock()
	s.publish(snap, topics...)
	return snap
}

func (s *Session) publish(snap State, topics ...Topic) {
	for _, topic := range topics {
		s.mu.Lock()
		ls := make([]listener, len(s.listeners[topic]))
		copy(ls, s.listeners[topic])
		s.mu.Unlock()
		for _, l := range ls {
			l.fn(Event{Topic: topic, State: snap})
		}
	}
	if topics[0] != MetricsUpdated {
		s.preview.notify()
	}
}

// ApplyStyle merges patch over the current style.
func (s *Session) ApplyStyle(patch style.Style) {
	var visibilityChanged bool
	s.update(func(st *State) {
		next := style.Merge(st.Style, patch)
		for _, sec := range []style.Section{style.SectionHeading, style.SectionSubtitle, style.SectionSchedule, style.SectionFooter, style.SectionDate} {
			if next.Visible(sec) != st.Style.Visible(sec) {
				visibilityChanged = true
			}
		}
		st.Style = next
	}, StyleUpdated)
	if visibilityChanged {
		s.invalidate(measure.ReasonVisibility)
	}
}

// SetVisibility toggles a story section.
func (s *Session) SetVisibility(section style.Section, on bool) {
	s.ApplyStyle(style.Style{}.WithVisibility(section, on))
}

// SetSchedule replaces the schedule. Items without an id get one.
func (s *Session) SetSchedule(sc schedule.Schedule) {
	var countChanged bool
	s.update(func(st *State) {
		countChanged = st.Schedule.Len() != sc.Len()
		st.Schedule = sc.WithIDs()
	}, ScheduleUpdated)
	if countChanged {
		s.invalidate(measure.ReasonItemCount)
	}
}

// SetElementStyle layers st over the element's current override.
func (s *Session) SetElementStyle(id elements.ID, st elements.Style) error {
	if _, ok := elements.Lookup(id); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown element %q", id)
	}
	s.update(func(state *State) {
		state.ElementStyles = state.ElementStyles.With(id, st)
	}, ElementStylesUpdated)
	return nil
}

// ResetElementStyle restores the registry defaults of one element.
func (s *Session) ResetElementStyle(id elements.ID) error {
	if _, ok := elements.Lookup(id); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown element %q", id)
	}
	s.update(func(state *State) {
		state.ElementStyles = state.ElementStyles.Reset(id)
	}, ElementStylesUpdated)
	return nil
}

// SetElementVisible shows or hides a schedule-row element.
func (s *Session) SetElementVisible(id elements.ID, on bool) error {
	meta, ok := elements.Lookup(id)
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown element %q", id)
	}
	if meta.Category != elements.CategorySchedule {
		return errors.New(errors.ErrCodeInvalidInput, "element %q is toggled by its section", id)
	}
	s.update(func(state *State) {
		state.Visible = state.Visible.With(id, on)
	}, ElementStylesUpdated)
	s.invalidate(measure.ReasonVisibility)
	return nil
}

// SwitchTemplate replaces the state with the defaults of templateID. The
// schedule is kept.
func (s *Session) SwitchTemplate(templateID string) error {
	next, err := s.instantiate(templateID)
	if err != nil {
		return err
	}
	s.update(func(st *State) {
		next.Schedule = st.Schedule
		next.Metrics = st.Metrics
		*st = next
	}, StyleUpdated, ElementStylesUpdated)
	return nil
}

// ReportMetrics publishes a measurement.
func (s *Session) ReportMetrics(m measure.StoryMetrics) {
	s.update(func(st *State) { st.Metrics = m }, MetricsUpdated)
}

// Input returns the render input of the current state.
func (s *Session) Input() render.Input {
	st := s.State()
	return render.Input{
		Style:         st.Style,
		Schedule:      st.Schedule,
		ElementStyles: st.ElementStyles,
		Visible:       st.Visible,
		Smart:         st.Smart,
		Strategy:      st.Strategy,
		Measurer:      s.measurer,
	}
}

// =============================================================================
// Uploads
// =============================================================================

// UploadLogo uploads a logo optimistically.
func (s *Session) UploadLogo(ctx context.Context, name string, r io.Reader) (string, error) {
	return s.uploadImage(ctx, name, r, func(st *style.Style) *string { return &st.LogoURL })
}

// UploadBackground uploads a background image optimistically.
func (s *Session) UploadBackground(ctx context.Context, name string, r io.Reader) (string, error) {
	return s.uploadImage(ctx, name, r, func(st *style.Style) *string { return &st.BackgroundImage })
}

// uploadImage shows a preview URL while the upload runs. Success swaps in
// the final URL even if a newer image was set meanwhile; failure restores the
// previous value only if the preview is still showing.
func (s *Session) uploadImage(ctx context.Context, name string, r io.Reader, field func(*style.Style) *string) (string, error) {
	if s.uploader == nil {
		return "", errors.New(errors.ErrCodeConfig, "no uploader configured")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUpload, err, "read %s", name)
	}

	preview := PreviewScheme + uuid.NewString()
	s.update(func(st *State) {
		p := field(&st.Style)
		s.previews[preview] = &pendingUpload{data: data, prev: *p, durable: s.durableLocked(*p)}
		*p = preview
	}, StyleUpdated)

	start := time.Now()
	url, err := s.uploader.Upload(ctx, name, bytes.NewReader(data))
	observability.Editor().OnUpload(ctx, name, time.Since(start), err)

	if err != nil {
		s.logger.Warn("upload failed, rolling back", "name", name, "error", err)
		s.update(func(st *State) {
			prev := s.previews[preview].prev
			s.settleLocked(preview, prev)
			if p := field(&st.Style); *p == preview {
				*p = prev
			}
		}, StyleUpdated)
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeUpload, err, "upload %s", name)
		}
		return "", err
	}
	s.update(func(st *State) {
		s.settleLocked(preview, url)
		*field(&st.Style) = url
	}, StyleUpdated)
	s.logger.Debug("uploaded image", "name", name, "url", url)
	return url, nil
}

// pendingUpload is an upload in flight behind a preview URL.
type pendingUpload struct {
	data []byte
	// prev is the field value the preview replaced, restored on failure.
	prev string
	// durable is the last non-preview URL of the field. Save persists it
	// while the upload is in flight.
	durable string
}

// durableLocked resolves url to the URL Save may persist. s.mu must be held.
func (s *Session) durableLocked(url string) string {
	if !strings.HasPrefix(url, PreviewScheme) {
		return url
	}
	if p, ok := s.previews[url]; ok {
		return p.durable
	}
	return ""
}

// settleLocked retires preview and hands its outcome to uploads started on
// top of it. s.mu must be held.
func (s *Session) settleLocked(preview, outcome string) {
	delete(s.previews, preview)
	for _, p := range s.previews {
		if p.prev == preview {
			p.prev = outcome
			p.durable = s.durableLocked(outcome)
		}
	}
}

// PreviewImage returns the bytes behind a preview:// URL while its upload is
// in flight.
func (s *Session) PreviewImage(url string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.previews[url]
	if !ok {
		return nil, false
	}
	return p.data, true
}

// =============================================================================
// Persistence
// =============================================================================

// Key returns the persistence key of the current template.
func (s *Session) Key() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return persist.Key(s.owner, s.state.TemplateID)
}

// Load replaces the state with the stored document, if any. It reports
// whether a document was found. On error the state is unchanged.
func (s *Session) Load(ctx context.Context) (bool, error) {
	if s.store == nil {
		return false, errors.New(errors.ErrCodeConfig, "no store configured")
	}
	key := s.Key()
	doc, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn("load failed", "key", key, "error", err)
		return false, errors.Wrap(errors.ErrCodeStore, err, "load %s", key)
	}
	if doc == nil {
		return false, nil
	}
	var countChanged bool
	s.update(func(st *State) {
		countChanged = st.Schedule.Len() != doc.Schedule.Len()
		st.Style = style.Merge(st.Style, doc.Style)
		st.Schedule = doc.Schedule.WithIDs()
		for id, es := range doc.ElementStyles {
			st.ElementStyles = st.ElementStyles.With(id, es)
		}
		if doc.Visible != nil {
			st.Visible = elements.NewSet(doc.Visible...)
		}
	}, StyleUpdated, ScheduleUpdated, ElementStylesUpdated)
	if countChanged {
		s.invalidate(measure.ReasonItemCount)
	}
	return true, nil
}

// Save writes the current state. Preview URLs are never persisted: an image
// still uploading is saved as the URL it replaced.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return errors.New(errors.ErrCodeConfig, "no store configured")
	}
	s.mu.Lock()
	st := s.state.clone()
	for _, p := range []*string{&st.Style.LogoURL, &st.Style.BackgroundImage} {
		*p = s.durableLocked(*p)
	}
	key := persist.Key(s.owner, st.TemplateID)
	s.mu.Unlock()

	doc := &persist.Document{
		Key:           key,
		TemplateID:    st.TemplateID,
		Style:         st.Style,
		Schedule:      st.Schedule,
		ElementStyles: st.ElementStyles,
		Visible:       st.Visible.Sorted(),
	}
	if err := s.store.Put(ctx, doc); err != nil {
		s.logger.Warn("save failed", "key", doc.Key, "error", err)
		return errors.Wrap(errors.ErrCodeStore, err, "save %s", doc.Key)
	}
	return nil
}

// =============================================================================
// Measurement
// =============================================================================

// Attach makes obs observe the live preview and publish its readings on
// MetricsUpdated. It returns a function that detaches obs.
func (s *Session) Attach(ctx context.Context, obs *measure.Observer) (detach func()) {
	unsubscribe := obs.Subscribe(s.ReportMetrics)
	s.mu.Lock()
	s.observer = obs
	s.mu.Unlock()
	obs.Observe(ctx, s.preview)
	return func() {
		unsubscribe()
		obs.Detach()
		s.mu.Lock()
		if s.observer == obs {
			s.observer = nil
		}
		s.mu.Unlock()
	}
}

// Preview returns the live preview target.
func (s *Session) Preview() *Preview { return s.preview }

func (s *Session) invalidate(reason measure.Reason) {
	s.mu.Lock()
	obs := s.observer
	s.mu.Unlock()
	if obs != nil {
		obs.Invalidate(reason)
	}
}
