package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"assistd/pkg/types"
)

type fakeService struct{ status types.StatusResponse }

func (f *fakeService) Status() types.StatusResponse { return f.status }

func newTestServer(t *testing.T) (*httptest.Server, *fakeService) {
	t.Helper()
	svc := &fakeService{status: types.StatusResponse{
		BudgetMB: 8192,
		UsedMB:   4700,
		Slots: []types.SlotStatus{
			{Role: "router", ModelID: "tiny.gguf", Loaded: true, AlwaysResident: true},
		},
	}}
	models := []types.Model{{ID: "tiny.gguf", Name: "tiny.gguf", Path: "/models/tiny.gguf"}}
	srv := httptest.NewServer(NewRouter(svc, models, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv, svc
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(b)
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("unexpected response: %d %q", resp.StatusCode, body)
	}
}

func TestStatusReportsBudget(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := get(t, srv.URL+"/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var st types.StatusResponse
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.BudgetMB != 8192 || st.UsedMB != 4700 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if len(st.Slots) != 1 || st.Slots[0].Role != "router" {
		t.Fatalf("unexpected slots: %+v", st.Slots)
	}
}

func TestModelsListsRegistry(t *testing.T) {
	srv, _ := newTestServer(t)
	_, body := get(t, srv.URL+"/models")
	var mr types.ModelsResponse
	if err := json.Unmarshal([]byte(body), &mr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(mr.Models) != 1 || mr.Models[0].ID != "tiny.gguf" {
		t.Fatalf("unexpected models: %+v", mr.Models)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	get(t, srv.URL+"/status") // ensure at least one sample exists
	resp, body := get(t, srv.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if !strings.Contains(body, "assistd_http_requests_total") {
		t.Fatalf("request counter missing from exposition:\n%.500s", body)
	}
}

func TestRoutePatternOrPathFallsBack(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	if p := routePatternOrPath(req); p != "/nope" {
		t.Fatalf("expected raw path fallback, got %q", p)
	}
}
