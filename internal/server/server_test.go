package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/fbnet/pkg/cache"
	"github.com/matzehuels/fbnet/pkg/fonts"
	"github.com/matzehuels/fbnet/pkg/observability"
	"github.com/matzehuels/fbnet/pkg/pipeline"
)

const doc = `<SubAppType Name="Conveyor">
  <SubAppInterfaceList>
    <SubAppEventInputs><SubAppEvent Name="START"/></SubAppEventInputs>
  </SubAppInterfaceList>
  <SubAppNetwork>
    <FB Name="SPLIT" Type="E_SPLIT" x="100" y="200"/>
    <EventConnections>
      <Connection Source="START" Destination="SPLIT.EI"/>
    </EventConnections>
  </SubAppNetwork>
</SubAppType>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(cache.NewMemoryCache(16), nil, log.New(io.Discard))
	srv := httptest.NewServer(New(runner, WithMeasurer(fonts.Estimator{})).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, query, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/render"+query, "application/xml", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Status != "ok" {
		t.Errorf("status field = %q", got.Status)
	}
	if got.Build.Version == "" {
		t.Error("missing build version")
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestRenderSVG(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "?grid=true", doc)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type = %q", ct)
	}
	if resp.Header.Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q, want MISS", resp.Header.Get("X-Cache"))
	}

	d := etree.NewDocument()
	if _, err := d.ReadFrom(resp.Body); err != nil {
		t.Fatalf("response is not XML: %v", err)
	}
	if d.Root() == nil || d.Root().Tag != "svg" {
		t.Fatalf("root = %v", d.Root())
	}
	if d.FindElement("//pattern[@id='grid']") == nil {
		t.Error("grid pattern missing")
	}
	if d.FindElement("//g[@id='fb_SPLIT']") == nil {
		t.Error("SPLIT block missing")
	}

	again := post(t, srv, "?grid=true", doc)
	if again.Header.Get("X-Cache") != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", again.Header.Get("X-Cache"))
	}
}

func TestRenderJSON(t *testing.T) {
	srv := newTestServer(t)
	resp := post(t, srv, "?format=json&scale=0.2&routes=true", doc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got struct {
		Name        string  `json:"name"`
		Scale       float64 `json:"scale"`
		Connections []struct {
			Points []struct{ X, Y float64 } `json:"points"`
		} `json:"connections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "Conveyor" || got.Scale != 0.2 {
		t.Errorf("name/scale = %q/%g", got.Name, got.Scale)
	}
	if len(got.Connections) != 1 || len(got.Connections[0].Points) < 2 {
		t.Errorf("connections = %+v", got.Connections)
	}
}

func TestRenderErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"empty body", "", "", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad xml", "", "<SubAppType", http.StatusBadRequest, "INVALID_XML"},
		{"unknown root", "", "<Device/>", http.StatusBadRequest, "UNKNOWN_ROOT"},
		{"basic type", "", "<FBType><BasicFB/></FBType>", http.StatusBadRequest, "NOT_COMPOSITE"},
		{"bad format", "?format=png", doc, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad scale", "?scale=big", doc, http.StatusBadRequest, "INVALID_SCALE"},
		{"negative scale", "?scale=-1", doc, http.StatusBadRequest, "INVALID_SCALE"},
		{"bad grid", "?grid=maybe", doc, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var got errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.Error != tt.code {
				t.Errorf("code = %q, want %q (%s)", got.Error, tt.code, got.Message)
			}
			if got.RequestID == "" {
				t.Error("missing request ID")
			}
		})
	}
}

func TestRenderBodyLimit(t *testing.T) {
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	h := New(runner, WithMaxBody(16), WithMeasurer(fonts.Estimator{})).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/render", strings.NewReader(doc)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	srv := newTestServer(t)
	const id = "2f1c7e4a-8a4b-4c1e-9d3a-6b5e0f7a9c21"

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request ID = %q, want %q", got, id)
	}

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if got := resp2.Header.Get(RequestIDHeader); got == "not-a-uuid" || got == "" {
		t.Errorf("malformed ID should be replaced, got %q", got)
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	h := New(runner, WithMeasurer(fonts.Estimator{})).Handler()
	for _, query := range []string{"", "?format=png"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/render"+query, strings.NewReader(doc))
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.statuses) != 2 || hooks.statuses[0] != 200 || hooks.statuses[1] != 400 {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}

func TestHealthReportsCounters(t *testing.T) {
	counters := observability.NewCounters()
	observability.Use(counters)
	defer observability.Reset()

	runner := pipeline.NewRunner(cache.NewMemoryCache(4), nil, log.New(io.Discard))
	h := New(runner, WithMeasurer(fonts.Estimator{}), WithCounters(counters)).Handler()
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/render", strings.NewReader(doc))
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var got healthResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Stats == nil {
		t.Fatal("health response has no stats")
	}
	if got.Stats.Conversions != 1 || got.Stats.CacheHits != 1 {
		t.Errorf("stats = %+v, want one conversion and one cache hit", *got.Stats)
	}
	if got.Stats.Requests != 3 {
		t.Errorf("requests = %d, want 3", got.Stats.Requests)
	}
}
