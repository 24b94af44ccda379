package server

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/storyboard/pkg/buildinfo"
	"github.com/matzehuels/storyboard/pkg/density"
	"github.com/matzehuels/storyboard/pkg/elements"
	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/ingest"
	"github.com/matzehuels/storyboard/pkg/measure"
	"github.com/matzehuels/storyboard/pkg/persist"
	"github.com/matzehuels/storyboard/pkg/pipeline"
	"github.com/matzehuels/storyboard/pkg/render"
	"github.com/matzehuels/storyboard/pkg/style"
	"github.com/matzehuels/storyboard/pkg/templates"
)

// =============================================================================
// Catalog
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

type templateSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Strategy    string `json:"strategy"`
	MaxItems    int    `json:"maxItems"`
	Preview     bool   `json:"preview,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty"`
	Fallback    bool   `json:"fallback,omitempty"`
}

type templateDetail struct {
	templateSummary
	Style         style.Style          `json:"style"`
	Visible       []elements.ID        `json:"visible"`
	ElementStyles elements.Styles      `json:"elementStyles,omitempty"`
	Smart         density.SmartSpacing `json:"smartSpacing"`
}

func summarize(d templates.Definition, fallback string) templateSummary {
	st, _ := render.StrategyFor(d.Strategy)
	return templateSummary{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Strategy:    st.Name(),
		MaxItems:    st.MaxItems(),
		Preview:     d.Preview,
		Deprecated:  st.Deprecated(),
		Fallback:    d.ID == fallback,
	}
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	reg := s.runner.Registry
	defs := reg.List()
	out := make([]templateSummary, len(defs))
	for i, d := range defs {
		out[i] = summarize(d, reg.Fallback())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	reg := s.runner.Registry
	id := chi.URLParam(r, "id")
	if !reg.Has(id) {
		s.writeError(w, r, errors.New(errors.ErrCodeTemplateNotFound, "unknown template %q", id))
		return
	}
	d, err := reg.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	inst := d.Instantiate()
	writeJSON(w, http.StatusOK, templateDetail{
		templateSummary: summarize(d, reg.Fallback()),
		Style:           inst.Style.WithDefaults(),
		Visible:         inst.Visible.Sorted(),
		ElementStyles:   inst.ElementStyles,
		Smart:           inst.Smart,
	})
}

type elementInfo struct {
	ID          elements.ID       `json:"id"`
	Label       string            `json:"label"`
	Description string            `json:"description"`
	Icon        string            `json:"icon"`
	Category    elements.Category `json:"category"`
	Role        elements.Role     `json:"role"`
	MinFontSize float64           `json:"minFontSize"`
	Defaults    elements.Style    `json:"defaults"`
	Toggle      style.Section     `json:"toggle,omitempty"`
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	metas := elements.All()
	if c := r.URL.Query().Get("category"); c != "" {
		metas = elements.ByCategory(elements.Category(c))
	}
	out := make([]elementInfo, len(metas))
	for i, m := range metas {
		out[i] = elementInfo{
			ID:          m.ID,
			Label:       m.Label,
			Description: m.Description,
			Icon:        m.Icon,
			Category:    m.Category,
			Role:        m.Role,
			MinFontSize: m.MinFontSize,
			Defaults:    elements.DefaultStyle(m.ID),
			Toggle:      m.Toggle,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDensity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	st, ok := render.StrategyFor(q.Get("strategy"))
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unknown strategy %q", q.Get("strategy")))
		return
	}
	count := 0
	if v := q.Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "count must be a non-negative integer"))
			return
		}
		count = n
	}
	preset := style.Preset(q.Get("preset"))
	if preset == "" {
		preset = style.PresetComfortable
	}
	writeJSON(w, http.StatusOK, density.Evaluate(density.Params{
		Count:    count,
		MaxItems: st.MaxItems(),
		Preset:   preset,
		Template: density.NeutralSpacing(),
	}))
}

// =============================================================================
// Render
// =============================================================================

// renderResponse is returned when more than one format is requested.
type renderResponse struct {
	TemplateID string               `json:"templateId"`
	InputHash  string               `json:"inputHash"`
	Settle     measure.SettleResult `json:"settle"`
	Cached     bool                 `json:"cached"`
	Artifacts  map[string]string    `json:"artifacts"` // base64
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

// handleRender renders the posted options. A single format answers with
// the raw artifact; several formats answer with a JSON envelope. The
// ?format= query parameter overrides the body's formats.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeJSON(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	if f := r.URL.Query().Get("format"); f != "" {
		opts.Formats = strings.Split(f, ",")
	}
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("X-Storyboard-Template", res.TemplateID)
	w.Header().Set("X-Storyboard-Iterations", strconv.Itoa(res.Settle.Iterations))
	w.Header().Set("X-Storyboard-Cache", cacheStatus(res.CacheInfo))

	formats := opts.Formats
	if len(formats) == 0 {
		formats = []string{pipeline.FormatSVG}
	}
	if len(formats) == 1 {
		w.Header().Set("Content-Type", contentTypes[formats[0]])
		w.Header().Set("ETag", strconv.Quote(res.InputHash))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.Artifacts[formats[0]])
		return
	}

	out := renderResponse{
		TemplateID: res.TemplateID,
		InputHash:  res.InputHash,
		Settle:     res.Settle,
		Cached:     res.CacheInfo.RenderHit,
		Artifacts:  make(map[string]string, len(res.Artifacts)),
	}
	for f, data := range res.Artifacts {
		out.Artifacts[f] = base64.StdEncoding.EncodeToString(data)
	}
	writeJSON(w, http.StatusOK, out)
}

func cacheStatus(ci pipeline.CacheInfo) string {
	switch {
	case ci.RenderHit:
		return "hit"
	case ci.LayoutHit:
		return "layout"
	default:
		return "miss"
	}
}

// =============================================================================
// Documents
// =============================================================================

func (s *Server) documentKey(r *http.Request) (string, string, error) {
	owner, tmpl := chi.URLParam(r, "owner"), chi.URLParam(r, "template")
	if err := errors.ValidateDocumentKey(owner); err != nil {
		return "", "", err
	}
	if err := errors.ValidateTemplateID(tmpl); err != nil {
		return "", "", err
	}
	if s.runner.Store == nil {
		return "", "", errors.New(errors.ErrCodeUnsupported, "documents are not enabled")
	}
	return persist.Key(owner, tmpl), tmpl, nil
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	key, _, err := s.documentKey(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.runner.Store.Get(r.Context(), key)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStore, err, "load %s", key))
		return
	}
	if doc == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no document %s", key))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// documentPayload is the editable part of a document.
type documentPayload struct {
	Style         json.RawMessage `json:"style,omitempty"`
	Schedule      json.RawMessage `json:"schedule,omitempty"`
	ElementStyles json.RawMessage `json:"elementStyles,omitempty"`
	Visible       []elements.ID   `json:"visible,omitempty"`
}

// documentResult reports the stored document and the fields dropped on
// ingestion.
type documentResult struct {
	Document *persist.Document `json:"document"`
	Problems ingest.Problems   `json:"problems,omitempty"`
}

// handlePutDocument validates the payload field by field, like a render
// request, and stores what is valid.
func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	key, tmpl, err := s.documentKey(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var p documentPayload
	if err := decodeJSON(w, r, &p); err != nil {
		s.writeError(w, r, err)
		return
	}

	doc := &persist.Document{Key: key, TemplateID: tmpl, Visible: p.Visible}
	var problems ingest.Problems
	if len(p.Style) > 0 {
		res, err := ingest.Style(p.Style, ingest.FormatJSON)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		doc.Style, problems = res.Style, append(problems, res.Problems...)
	}
	if len(p.Schedule) > 0 {
		res, err := ingest.Schedule(p.Schedule, ingest.FormatJSON)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		doc.Schedule, problems = res.Schedule, append(problems, res.Problems...)
	}
	if len(p.ElementStyles) > 0 {
		res, err := ingest.ElementStyles(p.ElementStyles, ingest.FormatJSON)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		doc.ElementStyles, problems = res.Styles, append(problems, res.Problems...)
	}
	for _, id := range doc.Visible {
		if _, ok := elements.Lookup(id); !ok {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unknown element %q", id))
			return
		}
	}

	if err := s.runner.Store.Put(r.Context(), doc); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStore, err, "save %s", key))
		return
	}
	writeJSON(w, http.StatusOK, documentResult{Document: doc, Problems: problems})
}

// =============================================================================
// Uploads
// =============================================================================

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.uploader == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "uploads are not enabled"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	start := time.Now()
	url, err := s.uploader.Upload(r.Context(), filepath.Base(header.Filename), file)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeUpload, err, "upload %s", header.Filename)
		}
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("stored upload", "name", header.Filename, "url", url, "duration", time.Since(start))
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// =============================================================================
// Helpers
// =============================================================================

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodySize)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return errors.New(errors.ErrCodeInvalidPayload, "request body is empty")
		}
		return errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
