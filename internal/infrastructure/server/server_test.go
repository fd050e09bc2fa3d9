package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/infrastructure/config"
	"github.com/eslsoft/vocquiz/internal/infrastructure/metrics"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticBoard struct {
	rankings []entity.RatingEntry
	err      error
}

func (b staticBoard) AdjustPoints(context.Context, int64, int64, bool) error { return nil }

func (b staticBoard) Rankings(context.Context) ([]entity.RatingEntry, error) {
	return b.rankings, b.err
}

func (b staticBoard) RenderRating(context.Context, int64) (string, error) { return "", nil }

func newTestHandler(board staticBoard) (http.Handler, *metrics.Recorder) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	rec := metrics.NewRecorder()
	cfg := &config.Config{HTTP: config.HTTPConfig{CORSOrigins: []string{"https://example.com"}}}
	return NewHandler(cfg, logger, board, rec.Registry()), rec
}

func TestHealthz(t *testing.T) {
	h, _ := newTestHandler(staticBoard{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRankings(t *testing.T) {
	h, _ := newTestHandler(staticBoard{rankings: []entity.RatingEntry{
		{ExternalID: 2, Name: "Bob", Points: 9},
		{ExternalID: 1, Name: "Ann", Points: -1},
	}})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/rankings", nil)
	req.Header.Set("Origin", "https://example.com")
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://example.com", rr.Header().Get("Access-Control-Allow-Origin"))

	var body struct {
		Rankings []entity.RatingEntry `json:"rankings"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Rankings, 2)
	assert.Equal(t, "Bob", body.Rankings[0].Name)
	assert.Equal(t, int64(-1), body.Rankings[1].Points)
}

func TestRankingsEmptyAndFailing(t *testing.T) {
	h, _ := newTestHandler(staticBoard{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/rankings", nil))
	assert.JSONEq(t, `{"rankings":[]}`, rr.Body.String())

	h, _ = newTestHandler(staticBoard{err: errors.New("db down")})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/rankings", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, rec := newTestHandler(staticBoard{})
	rec.RoundServed(entity.SourceGeneral)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `vocquiz_rounds_total{source="general"} 1`))
}

func TestUnknownRoute(t *testing.T) {
	h, _ := newTestHandler(staticBoard{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&config.Config{Log: config.LogConfig{Level: "debug", Format: "text"}})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	_, err = NewLogger(&config.Config{Log: config.LogConfig{Level: "loud"}})
	assert.Error(t, err)
}
