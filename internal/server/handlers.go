package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cartolab/riverlabel/pkg/cache"
	"github.com/cartolab/riverlabel/pkg/errors"
	"github.com/cartolab/riverlabel/pkg/geom"
	"github.com/cartolab/riverlabel/pkg/label"
	"github.com/cartolab/riverlabel/pkg/pipeline"
	"github.com/cartolab/riverlabel/pkg/render"
	"github.com/cartolab/riverlabel/pkg/store"
)

// coordinateList accepts both wire forms for a polygon outline:
// [[x, y], ...] and [{"x": x, "y": y}, ...].
type coordinateList [][]float64

func (c *coordinateList) UnmarshalJSON(data []byte) error {
	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err == nil {
		*c = pairs
		return nil
	}

	var points []struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &points); err != nil {
		return errors.New(errors.ErrCodeInvalidCoordinates,
			"coordinates must be [x, y] pairs or {x, y} objects")
	}
	pairs = make([][]float64, len(points))
	for i, p := range points {
		pairs[i] = []float64{p.X, p.Y}
	}
	*c = pairs
	return nil
}

// placementRequest is the JSON body shared by both placement endpoints.
type placementRequest struct {
	Coordinates  coordinateList `json:"coordinates"`
	LabelText    string         `json:"label_text"`
	FontSize     int            `json:"font_size"`
	Refresh      bool           `json:"refresh"`
	IncludeImage bool           `json:"include_image"`
}

// options converts the request into pipeline options, applying the
// transport-edge defaults for blank fields.
func (req *placementRequest) options(cfg Config) pipeline.Options {
	labelText := req.LabelText
	if labelText == "" {
		labelText = pipeline.DefaultLabelText
	}
	fontSize := req.FontSize
	if fontSize == 0 {
		fontSize = pipeline.DefaultFontSize
	}
	return pipeline.Options{
		Coordinates: req.Coordinates,
		LabelText:   labelText,
		FontSize:    fontSize,
		Margin:      cfg.Pipeline.Margin,
		Refresh:     req.Refresh,
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request, req *placementRequest) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid JSON body"))
		return false
	}
	return true
}

// pointJSON is the wire form for a coordinate.
type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func toPointJSON(p geom.Point) pointJSON {
	return pointJSON{X: p.X, Y: p.Y}
}

// placeResponse mirrors the place-label contract.
type placeResponse struct {
	OptimalPosition pointJSON `json:"optimal_position"`
	NaivePosition   pointJSON `json:"naive_position"`
	DistanceToEdge  float64   `json:"distance_to_edge"`
	MaxWidth        float64   `json:"max_width"`
	FitsInside      bool      `json:"fits_inside"`
	Improvement     float64   `json:"improvement"`
	Cached          bool      `json:"cached"`
}

func (s *Server) handlePlaceLabel(w http.ResponseWriter, r *http.Request) {
	var req placementRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	opts := req.options(s.cfg)
	result, err := s.runner.Place(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	s.recordPlace(r, opts, result)
	writeJSON(w, http.StatusOK, placeResponse{
		OptimalPosition: toPointJSON(result.OptimalPoint),
		NaivePosition:   toPointJSON(result.NaivePoint),
		DistanceToEdge:  result.DistanceToEdge,
		MaxWidth:        result.MaxWidth,
		FitsInside:      result.FitsInside,
		Improvement:     result.Improvement,
		Cached:          result.CacheInfo.ResultHit,
	})
}

// strategyResult is one entry of the comparison response.
type strategyResult struct {
	Strategy       string    `json:"strategy"`
	Name           string    `json:"name"`
	Method         string    `json:"method"`
	Point          pointJSON `json:"point"`
	DistanceToEdge float64   `json:"distance_to_edge"`
	FitsInside     bool      `json:"fits_inside"`
}

// compareResponse mirrors the compare-algorithms contract.
type compareResponse struct {
	Results     []strategyResult `json:"results"`
	Winner      string           `json:"winner"`
	Improvement float64          `json:"improvement"`
	Image       string           `json:"image,omitempty"`
	Cached      bool             `json:"cached"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req placementRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	opts := req.options(s.cfg)

	result, err := s.runner.Compare(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	c := result.Comparison

	resp := compareResponse{
		Winner:      c.Winner,
		Improvement: c.Improvement,
		Cached:      result.CacheInfo.ResultHit,
	}
	for _, p := range c.Placements() {
		resp.Results = append(resp.Results, strategyResult{
			Strategy:       p.Strategy,
			Name:           label.DisplayName(p.Strategy),
			Method:         label.MethodSummary(p.Strategy),
			Point:          toPointJSON(p.Point),
			DistanceToEdge: p.DistanceToEdge,
			FitsInside:     p.FitsInside,
		})
	}

	if req.IncludeImage {
		img, err := s.comparisonImage(r, opts, c)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render comparison image"))
			return
		}
		resp.Image = base64.StdEncoding.EncodeToString(img)
	}

	s.recordCompare(r, opts, result)
	writeJSON(w, http.StatusOK, resp)
}

// comparisonImage renders the comparison PNG, caching it under the image
// key derived from the comparison key.
func (s *Server) comparisonImage(r *http.Request, opts pipeline.Options, c label.Comparison) ([]byte, error) {
	ctx := r.Context()
	compareKey := s.runner.Keyer.CompareKey(opts.PolygonHash(), opts.LabelText, opts.FontSize, opts.Margin)
	imageKey := s.runner.Keyer.ImageKey(compareKey)

	if !opts.Refresh {
		if data, hit, err := s.runner.Cache.Get(ctx, imageKey); err == nil && hit {
			return data, nil
		}
	}

	poly, err := opts.Polygon()
	if err != nil {
		return nil, err
	}
	img, err := render.Comparison(poly, c, opts.Box())
	if err != nil {
		return nil, err
	}
	_ = s.runner.Cache.Set(ctx, imageKey, img, cache.TTLImage)
	return img, nil
}

// handleCompareHint answers GET on the compare endpoint with usage help.
func (s *Server) handleCompareHint(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Send a POST request with a JSON body to compare placement strategies",
		"example": map[string]any{
			"coordinates": [][]float64{{0, 0}, {100, 0}, {100, 50}, {0, 50}},
			"label_text":  pipeline.DefaultLabelText,
			"font_size":   pipeline.DefaultFontSize,
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRuns returns recent run history, newest first.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, errors.New(errors.ErrCodeInvalidFormat, "limit must be a positive integer"))
			return
		}
		limit = n
	}

	runs := []store.Run{}
	if s.store != nil {
		var err error
		runs, err = s.store.Recent(r.Context(), limit)
		if err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load run history"))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// recordPlace saves a run record. Best-effort: failures are logged, never
// surfaced to the client.
func (s *Server) recordPlace(r *http.Request, opts pipeline.Options, result *pipeline.PlaceResult) {
	if s.store == nil {
		return
	}
	run := store.NewRun(store.KindPlace)
	run.PolygonHash = result.PolygonHash
	run.LabelText = opts.LabelText
	run.FontSize = opts.FontSize
	run.Point = result.OptimalPoint
	run.Distance = result.DistanceToEdge
	run.FitsInside = result.FitsInside
	run.Improvement = result.Improvement
	run.CacheHit = result.CacheInfo.ResultHit
	if err := s.store.Save(r.Context(), run); err != nil {
		s.logger.Warn("record run", "err", err)
	}
}

func (s *Server) recordCompare(r *http.Request, opts pipeline.Options, result *pipeline.CompareResult) {
	if s.store == nil {
		return
	}
	c := result.Comparison
	winner, _ := c.ByStrategy(c.Winner)

	run := store.NewRun(store.KindCompare)
	run.PolygonHash = result.PolygonHash
	run.LabelText = opts.LabelText
	run.FontSize = opts.FontSize
	run.Point = winner.Point
	run.Distance = winner.DistanceToEdge
	run.FitsInside = winner.FitsInside
	run.Winner = c.Winner
	run.Improvement = c.Improvement
	run.CacheHit = result.CacheInfo.ResultHit
	if err := s.store.Save(r.Context(), run); err != nil {
		s.logger.Warn("record run", "err", err)
	}
}
