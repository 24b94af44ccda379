package prom

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/storyboard/pkg/observability"
)

func TestMetricsRecordHooks(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.OnRenderStart(ctx, "pulse", 7)
	m.OnSettle(ctx, "pulse", 6, false)
	m.OnRenderComplete(ctx, "pulse", []string{"png"}, time.Millisecond, nil)
	m.OnRenderComplete(ctx, "pulse", []string{"png"}, time.Millisecond, errors.New("boom"))
	m.OnCacheHit(ctx, "artifact")
	m.OnCacheSet(ctx, "artifact", 512)
	m.OnUpload(ctx, "logo.png", time.Millisecond, nil)
	m.OnResponse(ctx, "GET", "cdn.test", "/a.png", 503, time.Millisecond)
	m.OnError(ctx, "GET", "cdn.test", "/a.png", errors.New("reset"))

	out := scrape(t, m)
	for _, want := range []string{
		`storyboard_render_total{status="ok",template="pulse"} 1`,
		`storyboard_render_total{status="error",template="pulse"} 1`,
		`storyboard_render_settle_unconverged_total 1`,
		`storyboard_cache_events_total{event="hit",key_type="artifact"} 1`,
		`storyboard_cache_written_bytes_total 512`,
		`storyboard_editor_uploads_total{status="ok"} 1`,
		`storyboard_http_client_requests_total{code="503",host="cdn.test"} 1`,
		`storyboard_http_client_errors_total{host="cdn.test"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestRegisterInstallsHooks(t *testing.T) {
	defer observability.Reset()
	m := New()
	m.Register()
	if observability.Render() != m || observability.Cache() != m || observability.HTTP() != m || observability.Editor() != m {
		t.Error("Register() did not install all hooks")
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveRequest("/v1/render", 200, time.Millisecond)

	if out := scrape(t, m); !strings.Contains(out, `storyboard_http_requests_total{code="200",route="/v1/render"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", out)
	}
}
