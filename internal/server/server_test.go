package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/cartolab/riverlabel/pkg/cache"
	"github.com/cartolab/riverlabel/pkg/label"
	"github.com/cartolab/riverlabel/pkg/pipeline"
	"github.com/cartolab/riverlabel/pkg/store"
)

func testServer(t *testing.T, st store.Store) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, logger)
	t.Cleanup(func() { runner.Close() })
	return New(DefaultConfig(), runner, st, logger)
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func getPath(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, w.Body.String())
	}
}

func squareBody() map[string]any {
	return map[string]any{
		"coordinates": [][]float64{{0, 0}, {100, 0}, {100, 100}, {0, 100}},
		"label_text":  "RIVER",
		"font_size":   24,
	}
}

func TestHealth(t *testing.T) {
	s := testServer(t, nil)
	w := getPath(t, s, "/health")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]string
	decodeBody(t, w, &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("responses should carry a request ID")
	}
}

func TestPlaceLabel(t *testing.T) {
	s := testServer(t, nil)
	w := postJSON(t, s, "/api/place-label", squareBody())

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		OptimalPosition struct{ X, Y float64 } `json:"optimal_position"`
		NaivePosition   struct{ X, Y float64 } `json:"naive_position"`
		DistanceToEdge  float64                `json:"distance_to_edge"`
		MaxWidth        float64                `json:"max_width"`
		FitsInside      bool                   `json:"fits_inside"`
		Cached          bool                   `json:"cached"`
	}
	decodeBody(t, w, &resp)

	if resp.DistanceToEdge < 49 || resp.DistanceToEdge > 50.01 {
		t.Errorf("distance_to_edge = %f, want ~50", resp.DistanceToEdge)
	}
	if resp.MaxWidth != 2*resp.DistanceToEdge {
		t.Errorf("max_width = %f, want %f", resp.MaxWidth, 2*resp.DistanceToEdge)
	}
	if !resp.FitsInside {
		t.Error("RIVER at 24pt should fit in the square")
	}
	if resp.Cached {
		t.Error("first request should not be cached")
	}

	// Second identical request is served from cache.
	w = postJSON(t, s, "/api/place-label", squareBody())
	decodeBody(t, w, &resp)
	if !resp.Cached {
		t.Error("second request should be cached")
	}
}

func TestPlaceLabelObjectCoordinates(t *testing.T) {
	s := testServer(t, nil)
	w := postJSON(t, s, "/api/place-label", map[string]any{
		"coordinates": []map[string]float64{
			{"x": 0, "y": 0}, {"x": 100, "y": 0}, {"x": 100, "y": 100}, {"x": 0, "y": 100},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
}

func TestPlaceLabelDefaults(t *testing.T) {
	s := testServer(t, nil)

	// No label or font size: edge defaults RIVER/24 apply.
	w := postJSON(t, s, "/api/place-label", map[string]any{
		"coordinates": [][]float64{{0, 0}, {100, 0}, {100, 100}, {0, 100}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
}

func TestPlaceLabelErrors(t *testing.T) {
	s := testServer(t, nil)

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing coordinates",
			body:       map[string]any{"label_text": "RIVER"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_COORDINATES",
		},
		{
			name: "two vertices",
			body: map[string]any{
				"coordinates": [][]float64{{0, 0}, {10, 10}},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_COORDINATES",
		},
		{
			name: "font size out of range",
			body: map[string]any{
				"coordinates": [][]float64{{0, 0}, {100, 0}, {100, 100}, {0, 100}},
				"font_size":   200,
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_FONT_SIZE",
		},
		{
			name: "degenerate geometry",
			body: map[string]any{
				"coordinates": [][]float64{{0, 0}, {50, 50}, {100, 100}},
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "EMPTY_INTERIOR",
		},
		{
			name: "grid too large",
			body: map[string]any{
				"coordinates": [][]float64{{0, 0}, {1e7, 0}, {1e7, 1e7}},
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "GRID_TOO_LARGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, s, "/api/place-label", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			var resp struct {
				Error string `json:"error"`
				Code  string `json:"code"`
			}
			decodeBody(t, w, &resp)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			if resp.Error == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestPlaceLabelMalformedJSON(t *testing.T) {
	s := testServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/place-label", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCompareAlgorithms(t *testing.T) {
	s := testServer(t, nil)
	w := postJSON(t, s, "/api/compare-algorithms", squareBody())

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Results []struct {
			Strategy       string  `json:"strategy"`
			Name           string  `json:"name"`
			Method         string  `json:"method"`
			DistanceToEdge float64 `json:"distance_to_edge"`
		} `json:"results"`
		Winner string `json:"winner"`
		Image  string `json:"image"`
	}
	decodeBody(t, w, &resp)

	if len(resp.Results) != 3 {
		t.Fatalf("results count = %d, want 3", len(resp.Results))
	}
	if resp.Winner != label.StrategyDistanceTransform {
		t.Errorf("winner = %q, want %q", resp.Winner, label.StrategyDistanceTransform)
	}
	for _, res := range resp.Results {
		if res.Name == "" || res.Method == "" {
			t.Errorf("result %q missing display fields", res.Strategy)
		}
	}
	if resp.Image != "" {
		t.Error("image should be omitted unless requested")
	}
}

func TestCompareAlgorithmsWithImage(t *testing.T) {
	s := testServer(t, nil)
	body := squareBody()
	body["include_image"] = true
	w := postJSON(t, s, "/api/compare-algorithms", body)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Image string `json:"image"`
	}
	decodeBody(t, w, &resp)
	if resp.Image == "" {
		t.Fatal("image should be included when requested")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Image)
	if err != nil {
		t.Fatalf("image is not valid base64: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("image is not decodable PNG: %v", err)
	}
}

func TestCompareAlgorithmsGetHint(t *testing.T) {
	s := testServer(t, nil)
	w := getPath(t, s, "/api/compare-algorithms")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Message string         `json:"message"`
		Example map[string]any `json:"example"`
	}
	decodeBody(t, w, &resp)
	if resp.Message == "" {
		t.Error("hint message should not be empty")
	}
	if _, ok := resp.Example["coordinates"]; !ok {
		t.Error("hint example should include coordinates")
	}
}

func TestRunsHistory(t *testing.T) {
	st := store.NewMemoryStore()
	s := testServer(t, st)

	// No runs yet
	w := getPath(t, s, "/api/runs")
	var resp struct {
		Runs []store.Run `json:"runs"`
	}
	decodeBody(t, w, &resp)
	if len(resp.Runs) != 0 {
		t.Errorf("runs = %d, want 0", len(resp.Runs))
	}

	// A placement and a comparison each record one run.
	postJSON(t, s, "/api/place-label", squareBody())
	postJSON(t, s, "/api/compare-algorithms", squareBody())

	w = getPath(t, s, "/api/runs")
	decodeBody(t, w, &resp)
	if len(resp.Runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(resp.Runs))
	}
	kinds := map[string]bool{}
	for _, run := range resp.Runs {
		kinds[run.Kind] = true
		if run.LabelText != "RIVER" {
			t.Errorf("run label = %q, want RIVER", run.LabelText)
		}
	}
	if !kinds[store.KindPlace] || !kinds[store.KindCompare] {
		t.Errorf("kinds = %v, want both place and compare", kinds)
	}

	// Invalid limit
	w = getPath(t, s, "/api/runs?limit=zero")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRunsWithoutStore(t *testing.T) {
	s := testServer(t, nil)
	w := getPath(t, s, "/api/runs")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Runs []store.Run `json:"runs"`
	}
	decodeBody(t, w, &resp)
	if resp.Runs == nil {
		t.Error("runs should be an empty list, not null")
	}
}
