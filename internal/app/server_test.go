package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/cardhall/pitwatch/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(context.Background(), Options{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func signalBody(ref string) map[string]any {
	return map[string]any{
		"kind":        "signal.slow_roll",
		"player_id":   "player-1",
		"table_id":    "table-1",
		"session_id":  "session-1",
		"intensity":   0.6,
		"duration_ms": 1500,
		"ref_id":      ref,
		"timestamp":   "2026-02-03T12:00:00Z",
	}
}

func TestAppendSignalAndViews(t *testing.T) {
	handler := newTestServer(t).Handler()

	rec := doJSON(t, handler, http.MethodPost, "/v1/signals", signalBody(""))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created entryResponse
	decodeBody(t, rec, &created)
	if created.Seq != 1 || created.Hash == "" {
		t.Fatalf("unexpected entry response: %+v", created)
	}

	rec = doJSON(t, handler, http.MethodGet, "/v1/views/global", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var global struct {
		TotalEntries int
	}
	decodeBody(t, rec, &global)
	if global.TotalEntries != 1 {
		t.Fatalf("expected 1 entry in global view, got %d", global.TotalEntries)
	}

	rec = doJSON(t, handler, http.MethodGet, "/v1/views/players/player-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/v1/integrity", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var integrity integrityResponse
	decodeBody(t, rec, &integrity)
	if !integrity.OK || len(integrity.Ledgers) != 3 {
		t.Fatalf("expected all ledgers ok, got %+v", integrity)
	}
}

func TestAppendSignalValidation(t *testing.T) {
	handler := newTestServer(t).Handler()

	body := signalBody("")
	body["intensity"] = 1.5
	rec := doJSON(t, handler, http.MethodPost, "/v1/signals", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Error.Code != "SIGNAL_INVALID_INTENSITY" {
		t.Fatalf("expected SIGNAL_INVALID_INTENSITY, got %q", resp.Error.Code)
	}
}

func TestAppendSignalDuplicateRef(t *testing.T) {
	handler := newTestServer(t).Handler()

	if rec := doJSON(t, handler, http.MethodPost, "/v1/signals", signalBody("obs-1")); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	rec := doJSON(t, handler, http.MethodPost, "/v1/signals", signalBody("obs-1"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp errorResponse
	decodeBody(t, rec, &resp)
	if resp.Error.Code != "DUPLICATE_IDENTITY" {
		t.Fatalf("expected DUPLICATE_IDENTITY, got %q", resp.Error.Code)
	}
}

func TestMalformedBody(t *testing.T) {
	handler := newTestServer(t).Handler()

	req := httptest.NewRequest(http.MethodPost, "/v1/signals", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEvaluate(t *testing.T) {
	handler := newTestServer(t).Handler()

	rule := map[string]any{
		"name":     "count-2",
		"category": "risk.collusion",
		"severity": "high",
		"threshold": map[string]any{
			"kind":      "count",
			"max_count": 2,
		},
		"timestamp": "2026-02-03T12:00:00Z",
	}
	if rec := doJSON(t, handler, http.MethodPost, "/v1/rules", rule); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	events := make([]map[string]any, 0, 3)
	for _, ts := range []string{"2026-02-03T14:00:00Z", "2026-02-03T14:01:00Z", "2026-02-03T14:02:00Z"} {
		events = append(events, map[string]any{
			"subject_id": "player-1",
			"category":   "risk.collusion",
			"timestamp":  ts,
		})
	}
	rec := doJSON(t, handler, http.MethodPost, "/v1/evaluate", map[string]any{
		"at":     "2026-02-03T15:00:00Z",
		"events": events,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Flags []struct {
			RuleName  string
			Observed  float64
			Threshold float64
		}
	}
	decodeBody(t, rec, &resp)
	if len(resp.Flags) != 1 {
		t.Fatalf("expected 1 flag, got %+v", resp)
	}
	if resp.Flags[0].RuleName != "count-2" || resp.Flags[0].Observed != 3 || resp.Flags[0].Threshold != 2 {
		t.Fatalf("unexpected flag: %+v", resp.Flags[0])
	}
}

func TestFlowReport(t *testing.T) {
	handler := newTestServer(t).Handler()

	flows := []map[string]any{
		{"direction": "flow.in", "source": "source.purchase", "units": 600},
		{"direction": "flow.out", "source": "source.purchase", "units": 400},
	}
	for i, f := range flows {
		f["player_id"] = "player-1"
		f["table_id"] = "table-1"
		f["session_id"] = "session-1"
		f["timestamp"] = "2026-02-03T12:00:00Z"
		if i == 1 {
			f["timestamp"] = "2026-02-03T12:01:00Z"
		}
		if rec := doJSON(t, handler, http.MethodPost, "/v1/flows", f); rec.Code != http.StatusCreated {
			t.Fatalf("flow %d: expected 201, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, handler, http.MethodGet, "/v1/flows/report", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Volume struct {
			TotalIn  int64
			TotalOut int64
			Net      int64
		} `json:"volume"`
		InOutRatio float64 `json:"in_out_ratio"`
	}
	decodeBody(t, rec, &resp)
	if resp.Volume.TotalIn != 600 || resp.Volume.TotalOut != 400 || resp.Volume.Net != 200 {
		t.Fatalf("unexpected volume: %+v", resp.Volume)
	}
	if resp.InOutRatio != 1.5 {
		t.Fatalf("expected ratio 1.5, got %v", resp.InOutRatio)
	}
}

func TestPersistenceReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pitwatch.db")
	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	s, err := NewServer(context.Background(), Options{Store: store})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	handler := s.Handler()
	if rec := doJSON(t, handler, http.MethodPost, "/v1/signals", signalBody("obs-1")); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	restarted, err := NewServer(context.Background(), Options{Store: reopened})
	if err != nil {
		t.Fatalf("restart server: %v", err)
	}
	rec := doJSON(t, restarted.Handler(), http.MethodGet, "/v1/views/global", nil)
	var global struct {
		TotalEntries int
	}
	decodeBody(t, rec, &global)
	if global.TotalEntries != 1 {
		t.Fatalf("expected reloaded entry, got %d", global.TotalEntries)
	}

	// The duplicate guard survives the restart.
	if rec := doJSON(t, restarted.Handler(), http.MethodPost, "/v1/signals", signalBody("obs-1")); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 after reload, got %d", rec.Code)
	}
}
