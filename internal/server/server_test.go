package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storyboard/pkg/errors"
	"github.com/matzehuels/storyboard/pkg/observability/prom"
	"github.com/matzehuels/storyboard/pkg/persist"
	"github.com/matzehuels/storyboard/pkg/pipeline"
	"github.com/matzehuels/storyboard/pkg/upload"
)

const scheduleJSON = `{"date":"Monday","items":[
	{"time":"07:00","className":"Spin","instructor":"Ana"},
	{"time":"08:30","className":"Yoga","instructor":"Bo"}
]}`

func newTestServer(t *testing.T, store persist.Store, up upload.Uploader, m *prom.Metrics) *Server {
	t.Helper()
	r := pipeline.NewRunner(nil, nil, nil, log.New(io.Discard))
	r.Store = store
	return New(Options{Runner: r, Uploader: up, Metrics: m, Logger: log.New(io.Discard)})
}

func do(t *testing.T, s *Server, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errors.Code {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error.Code
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	rec := do(t, s, http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestTemplates(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)

	rec := do(t, s, http.MethodGet, "/v1/templates", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var list []templateSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	fallbacks := 0
	for _, ts := range list {
		if ts.Fallback {
			fallbacks++
		}
		if ts.MaxItems <= 0 {
			t.Errorf("%s MaxItems = %d, want > 0", ts.ID, ts.MaxItems)
		}
	}
	if len(list) == 0 || fallbacks != 1 {
		t.Errorf("got %d templates with %d fallbacks, want some with exactly 1", len(list), fallbacks)
	}

	rec = do(t, s, http.MethodGet, "/v1/templates/studio", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var detail templateDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.ID != "studio" || len(detail.Visible) == 0 {
		t.Errorf("detail = %+v", detail.templateSummary)
	}

	rec = do(t, s, http.MethodGet, "/v1/templates/nope", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown status = %d, want 404", rec.Code)
	}
	if code := decodeError(t, rec); code != errors.ErrCodeTemplateNotFound {
		t.Errorf("unknown code = %s, want %s", code, errors.ErrCodeTemplateNotFound)
	}
}

func TestElements(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)

	tests := []struct {
		query string
		min   int
	}{
		{"", 5},
		{"?category=schedule", 3},
		{"?category=bogus", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/v1/elements"+tt.query, nil, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var got []elementInfo
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(got) < tt.min {
				t.Errorf("got %d elements, want at least %d", len(got), tt.min)
			}
			for _, e := range got {
				if e.Defaults.FontSize == nil {
					t.Errorf("%s has no default font size", e.ID)
				}
			}
		})
	}
}

func TestDensity(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)

	tests := []struct {
		query  string
		status int
	}{
		{"?count=4", http.StatusOK},
		{"?count=12&strategy=legacy&preset=compact", http.StatusOK},
		{"", http.StatusOK},
		{"?count=-1", http.StatusBadRequest},
		{"?count=abc", http.StatusBadRequest},
		{"?strategy=grid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/v1/density"+tt.query, nil, "")
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestRenderSingleFormat(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	body := `{"template":"studio","schedule":` + scheduleJSON + `}`

	rec := do(t, s, http.MethodPost, "/v1/render?format=svg", strings.NewReader(body), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "<svg") {
		t.Errorf("body = %.40q, want svg", rec.Body.String())
	}
	if got := rec.Header().Get("X-Storyboard-Template"); got != "studio" {
		t.Errorf("template header = %q, want studio", got)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag")
	}
}

func TestRenderMultipleFormats(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	body := `{"schedule":` + scheduleJSON + `,"formats":["svg","json"]}`

	rec := do(t, s, http.MethodPost, "/v1/render", strings.NewReader(body), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var res renderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.InputHash == "" || res.Settle.Iterations < 1 {
		t.Errorf("response = %+v", res)
	}
	svg, err := base64.StdEncoding.DecodeString(res.Artifacts["svg"])
	if err != nil || !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg artifact = %.40q, %v", svg, err)
	}
	if _, ok := res.Artifacts["json"]; !ok {
		t.Error("missing json artifact")
	}
}

func TestRenderErrors(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"empty body", "/v1/render", "", http.StatusBadRequest, errors.ErrCodeInvalidPayload},
		{"malformed", "/v1/render", "{", http.StatusBadRequest, errors.ErrCodeInvalidPayload},
		{"unknown field", "/v1/render", `{"colour":"red"}`, http.StatusBadRequest, errors.ErrCodeInvalidPayload},
		{"bad format", "/v1/render?format=gif", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"owner without store", "/v1/render", `{"owner":"studio-1"}`, http.StatusInternalServerError, errors.ErrCodeConfig},
		{"too large", "/v1/render", `{"template":"` + strings.Repeat("a", MaxBodySize) + `"}`, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, strings.NewReader(tt.body), "application/json")
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if code := decodeError(t, rec); code != tt.code {
				t.Errorf("code = %s, want %s", code, tt.code)
			}
		})
	}
}

func TestDocuments(t *testing.T) {
	s := newTestServer(t, persist.NewMemoryStore(), nil, nil)

	rec := do(t, s, http.MethodGet, "/v1/documents/studio-1/pulse", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d, want 404", rec.Code)
	}

	payload := `{
		"style": {"heading": "Monday Moves", "radius": -5},
		"schedule": ` + scheduleJSON + `,
		"visible": ["time", "className"]
	}`
	rec = do(t, s, http.MethodPut, "/v1/documents/studio-1/pulse", strings.NewReader(payload), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var put documentResult
	if err := json.Unmarshal(rec.Body.Bytes(), &put); err != nil {
		t.Fatalf("decode put: %v", err)
	}
	if len(put.Problems) == 0 {
		t.Error("put reported no problems for a negative radius")
	}

	rec = do(t, s, http.MethodGet, "/v1/documents/studio-1/pulse", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}
	var doc persist.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode get: %v", err)
	}
	if doc.Style.Heading != "Monday Moves" {
		t.Errorf("Heading = %q, want Monday Moves", doc.Style.Heading)
	}
	if doc.Schedule.Len() != 2 {
		t.Errorf("schedule items = %d, want 2", doc.Schedule.Len())
	}

	// A render for the same owner picks up the saved document.
	rec = do(t, s, http.MethodPost, "/v1/render?format=json", strings.NewReader(`{"template":"pulse","owner":"studio-1"}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("render status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Moves") {
		t.Error("render output does not contain the saved heading")
	}
}

func TestDocumentErrors(t *testing.T) {
	tests := []struct {
		name   string
		store  persist.Store
		method string
		path   string
		body   string
		status int
	}{
		{"disabled", nil, http.MethodGet, "/v1/documents/studio-1/pulse", "", http.StatusBadRequest},
		{"bad template", persist.NewMemoryStore(), http.MethodGet, "/v1/documents/studio-1/Bad%20Id", "", http.StatusBadRequest},
		{"unknown element", persist.NewMemoryStore(), http.MethodPut, "/v1/documents/studio-1/pulse", `{"visible":["sparkles"]}`, http.StatusBadRequest},
		{"bad schedule", persist.NewMemoryStore(), http.MethodPut, "/v1/documents/studio-1/pulse", `{"schedule":"monday"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.store, nil, nil)
			rec := do(t, s, tt.method, tt.path, strings.NewReader(tt.body), "application/json")
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func multipartImage(t *testing.T, field string) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "logo.png")
	if err != nil {
		t.Fatalf("CreateFormFile() error: %v", err)
	}
	if err := png.Encode(fw, img); err != nil {
		t.Fatalf("png.Encode() error: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	up, err := upload.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal() error: %v", err)
	}
	s := newTestServer(t, nil, up, nil)

	body, ct := multipartImage(t, "file")
	rec := do(t, s, http.MethodPost, "/v1/uploads", body, ct)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(got["url"], "file://") {
		t.Errorf("url = %q, want file:// URL", got["url"])
	}

	body, ct = multipartImage(t, "image")
	rec = do(t, s, http.MethodPost, "/v1/uploads", body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("wrong field status = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/v1/uploads", strings.NewReader("--x--"), "multipart/form-data; boundary=x")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty form status = %d, want 400", rec.Code)
	}
}

func TestUploadDisabled(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	body, ct := multipartImage(t, "file")
	rec := do(t, s, http.MethodPost, "/v1/uploads", body, ct)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if code := decodeError(t, rec); code != errors.ErrCodeUnsupported {
		t.Errorf("code = %s, want %s", code, errors.ErrCodeUnsupported)
	}
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, nil, nil, prom.New())
	do(t, s, http.MethodGet, "/healthz", nil, "")
	do(t, s, http.MethodGet, "/v1/templates/studio", nil, "")

	rec := do(t, s, http.MethodGet, "/metrics", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	for _, want := range []string{
		`route="/healthz"`,
		`route="/v1/templates/{id}"`,
	} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidColor, http.StatusBadRequest},
		{errors.ErrCodeUnsupported, http.StatusBadRequest},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeTemplateNotFound, http.StatusNotFound},
		{errors.ErrCodeFetch, http.StatusBadGateway},
		{errors.ErrCodeStore, http.StatusServiceUnavailable},
		{errors.ErrCodeConfig, http.StatusInternalServerError},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
