package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/roomgrid/pkg/grid"
	"github.com/matzehuels/roomgrid/pkg/mapgraph"
	"github.com/matzehuels/roomgrid/pkg/observability"
	"github.com/matzehuels/roomgrid/pkg/store"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(nil, store.NewMemoryStore(), opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func del(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, ts.URL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE %s: %v", path, err)
	}
	resp.Body.Close()
	return resp
}

func decodeError(t *testing.T, body []byte) errorBody {
	t.Helper()
	var e errorBody
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("error body %q: %v", body, err)
	}
	return e
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"ok"`) || !strings.Contains(string(body), `"version": "dev"`) {
		t.Errorf("body = %s", body)
	}
}

func TestGridText(t *testing.T) {
	ts := newTestServer(t)
	path := "/grid?width=4&height=3&roomCount=3&seed=7"

	resp, first := get(t, ts, path)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, first)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := resp.Header.Get(SeedHeader); got != "7" {
		t.Errorf("%s = %q, want 7", SeedHeader, got)
	}
	for _, want := range []string{"room 0 ", "room 1 ", "room 2 "} {
		if !strings.Contains(string(first), want) {
			t.Errorf("missing %q in:\n%s", want, first)
		}
	}

	_, second := get(t, ts, path)
	if string(first) != string(second) {
		t.Error("same seed produced different maps")
	}

	_, mapOnly := get(t, ts, path+"&mapOnly=true")
	if strings.Contains(string(mapOnly), "room 0 ") {
		t.Error("mapOnly output contains the room manifest")
	}
}

func TestGridUnseededReportsSeed(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := get(t, ts, "/grid?width=3&height=3&roomCount=2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(SeedHeader) == "" {
		t.Errorf("missing %s header", SeedHeader)
	}
}

func TestGridJSON(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/grid?width=5&height=4&roomCount=3&seed=1&format=json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var d grid.Data
	if err := json.Unmarshal(body, &d); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.Width != 5 || d.Height != 4 || d.RoomCount != 3 {
		t.Errorf("dims = %dx%d/%d, want 5x4/3", d.Width, d.Height, d.RoomCount)
	}
	if len(d.Cells) != 20 {
		t.Errorf("len(cells) = %d, want 20", len(d.Cells))
	}
	if _, err := grid.FromData(d); err != nil {
		t.Errorf("FromData: %v", err)
	}
}

func TestGridSimple(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts, "/grid?width=3&height=2&roomCount=2&seed=3&format=simple&method=naive")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n"); len(lines) != 2 {
		t.Errorf("got %d lines, want 2:\n%s", len(lines), body)
	}
}

func TestGridBadParams(t *testing.T) {
	ts := newTestServer(t, WithMaxCells(100))
	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"non-numeric width", "width=abc", "INVALID_INPUT"},
		{"zero width", "width=0", "INVALID_INPUT"},
		{"too many rooms", "width=3&height=3&roomCount=10", "INVALID_INPUT"},
		{"negative seed", "seed=-1", "INVALID_INPUT"},
		{"bad bool", "color=maybe", "INVALID_INPUT"},
		{"over max cells", "width=20&height=20", "INVALID_INPUT"},
		{"cell count overflows", "width=4611686018427387905&height=4&roomCount=2&seed=1", "INVALID_INPUT"},
		{"bad pick method", "pickMethod=zigzag", "INVALID_PICK_METHOD"},
		{"bad method", "method=magic", "INVALID_METHOD"},
		{"bad format", "format=png", "INVALID_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts, "/grid?"+tt.query)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", resp.StatusCode, body)
			}
			if e := decodeError(t, body); e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestGridInfeasible(t *testing.T) {
	ts := newTestServer(t)
	failures := 0
	for seed := 1; seed <= 40; seed++ {
		resp, body := get(t, ts, "/grid?width=3&height=3&roomCount=9&seed="+strconv.Itoa(seed))
		switch resp.StatusCode {
		case http.StatusOK:
		case http.StatusUnprocessableEntity:
			if e := decodeError(t, body); e.Code != "INFEASIBLE" && e.Code != "ITERATION_LIMIT" {
				t.Errorf("seed %d: code = %q", seed, e.Code)
			}
			failures++
		default:
			t.Fatalf("seed %d: status = %d (body %s)", seed, resp.StatusCode, body)
		}
	}
	if failures == 0 {
		t.Error("expected some 3x3/9 requests to be rejected with 422")
	}
}

func TestGraphFormats(t *testing.T) {
	ts := newTestServer(t)
	base := "/graph?width=6&height=6&roomCount=5&seed=42"

	resp, body := get(t, ts, base)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("text: status = %d, body %s", resp.StatusCode, body)
	}
	if !strings.HasPrefix(string(body), "<root> node ") {
		t.Errorf("tree output = %q", body)
	}

	resp, body = get(t, ts, base+"&format=dot")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(string(body), "digraph G {") {
		t.Errorf("dot: status = %d, body %q", resp.StatusCode, body)
	}

	resp, body = get(t, ts, base+"&format=json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("json: status = %d, body %s", resp.StatusCode, body)
	}
	var gr mapgraph.Graph
	if err := json.Unmarshal(body, &gr); err != nil {
		t.Fatalf("decode graph: %v", err)
	}
	if gr.Size() != 5 {
		t.Errorf("graph spans %d rooms, want 5", gr.Size())
	}

	resp, body = get(t, ts, base+"&format=simple")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("simple: status = %d, want 400 (body %s)", resp.StatusCode, body)
	}
}

func TestMapsLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp, body := post(t, ts, "/maps", `{"width":4,"height":4,"roomCount":3,"seed":11}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", resp.StatusCode, body)
	}
	var rec store.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if _, err := uuid.Parse(rec.ID); err != nil {
		t.Errorf("id %q is not a uuid", rec.ID)
	}
	if rec.Graph == nil || rec.Graph.Size() != 3 {
		t.Errorf("record graph = %+v, want 3 rooms", rec.Graph)
	}
	if got := resp.Header.Get("Location"); got != "/maps/"+rec.ID {
		t.Errorf("Location = %q", got)
	}

	resp, body = get(t, ts, "/maps/"+rec.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status = %d", resp.StatusCode)
	}
	var fetched store.Record
	if err := json.Unmarshal(body, &fetched); err != nil {
		t.Fatalf("decode fetched: %v", err)
	}
	if fetched.ID != rec.ID || fetched.Seed() != 11 {
		t.Errorf("fetched = %s/%d, want %s/11", fetched.ID, fetched.Seed(), rec.ID)
	}

	resp, body = get(t, ts, "/maps")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: status = %d", resp.StatusCode)
	}
	var list []store.Record
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != rec.ID {
		t.Errorf("list = %+v", list)
	}

	// A stored map renders exactly like a fresh request with the same seed.
	_, rendered := get(t, ts, "/maps/"+rec.ID+"/render")
	_, fresh := get(t, ts, "/grid?width=4&height=4&roomCount=3&seed=11")
	if string(rendered) != string(fresh) {
		t.Errorf("stored render differs from fresh render:\n%s\nvs\n%s", rendered, fresh)
	}

	resp, body = get(t, ts, "/maps/"+rec.ID+"/render?format=tree")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(string(body), "<root> node ") {
		t.Errorf("tree render: status = %d, body %q", resp.StatusCode, body)
	}

	if resp := del(t, ts, "/maps/"+rec.ID); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", resp.StatusCode)
	}
	if resp, _ := get(t, ts, "/maps/"+rec.ID); resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", resp.StatusCode)
	}
	if resp := del(t, ts, "/maps/"+rec.ID); resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateMapDefaults(t *testing.T) {
	ts := newTestServer(t)
	resp, body := post(t, ts, "/maps", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var rec store.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Grid.Width != 10 || rec.Grid.Height != 10 || rec.Grid.RoomCount != 6 {
		t.Errorf("grid = %dx%d/%d, want defaults", rec.Grid.Width, rec.Grid.Height, rec.Grid.RoomCount)
	}
	if rec.Request.Seed == nil {
		t.Error("record has no resolved seed")
	}
}

func TestCreateMapBadBody(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name string
		body string
		code string
	}{
		{"syntax", `{"width":`, "INVALID_INPUT"},
		{"unknown field", `{"depth":3}`, "INVALID_INPUT"},
		{"bad pick method", `{"pickMethod":"zigzag"}`, "INVALID_PICK_METHOD"},
		{"zero rooms", `{"roomCount":0}`, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, ts, "/maps", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", resp.StatusCode, body)
			}
			if e := decodeError(t, body); e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestMapNotFound(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts, "/maps/"+uuid.NewString())
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if e := decodeError(t, body); e.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", e.Code)
	}

	resp, _ = get(t, ts, "/maps/not-an-id")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed id: status = %d, want 400", resp.StatusCode)
	}

	resp, _ = get(t, ts, "/nowhere")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown route: status = %d, want 404", resp.StatusCode)
	}
}

func TestListLimit(t *testing.T) {
	ts := newTestServer(t)
	for i := 0; i < 3; i++ {
		if resp, body := post(t, ts, "/maps", `{"width":3,"height":3,"roomCount":2}`); resp.StatusCode != http.StatusCreated {
			t.Fatalf("create: status = %d, body %s", resp.StatusCode, body)
		}
	}
	_, body := get(t, ts, "/maps?limit=2")
	var list []store.Record
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("len(list) = %d, want 2", len(list))
	}

	if resp, _ := get(t, ts, "/maps?limit=-1"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("negative limit: status = %d, want 400", resp.StatusCode)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks

	mu        sync.Mutex
	requests  int
	responses []int
	errors    []string
}

func (h *recordingHooks) OnRequest(context.Context, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func (h *recordingHooks) OnError(_ context.Context, _, _ string, code string, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, code)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t)
	get(t, ts, "/healthz")
	get(t, ts, "/grid?width=abc")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 2 {
		t.Errorf("requests = %d, want 2", hooks.requests)
	}
	if len(hooks.responses) != 2 || hooks.responses[0] != 200 || hooks.responses[1] != 400 {
		t.Errorf("responses = %v, want [200 400]", hooks.responses)
	}
	if len(hooks.errors) != 1 || hooks.errors[0] != "INVALID_INPUT" {
		t.Errorf("errors = %v, want [INVALID_INPUT]", hooks.errors)
	}
}

func TestRecovery(t *testing.T) {
	s := New(nil, nil)
	h := s.recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if e := decodeError(t, rec.Body.Bytes()); e.Code != "INTERNAL_ERROR" {
		t.Errorf("code = %q, want INTERNAL_ERROR", e.Code)
	}
}
