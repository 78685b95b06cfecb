package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scotuslab/leanings/pkg/features"
	"github.com/scotuslab/leanings/pkg/logit"
	"github.com/scotuslab/leanings/pkg/scdb"
	"github.com/scotuslab/leanings/pkg/server"
	"github.com/scotuslab/leanings/pkg/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testModel() *logit.Model {
	coefficients := make([]float64, len(features.FullAreas()))
	for i := range coefficients {
		// Higher cell codes (liberal majorities) pull the prediction
		// toward the liberal class.
		coefficients[i] = -0.8
	}
	return &logit.Model{Intercept: 1.2, Coefficients: coefficients}
}

func newServer(t *testing.T, log *store.Store) *server.Server {
	t.Helper()
	s, err := server.New(testModel(), features.FullAreas(), "run-test", log, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestNewRejectsMismatchedAreas(t *testing.T) {
	model := &logit.Model{Coefficients: []float64{0.1}}
	_, err := server.New(model, features.FullAreas(), "run-test", nil, zap.NewNop())
	require.Error(t, err)
}

func TestFormListsEveryArea(t *testing.T) {
	s := newServer(t, nil)

	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	for _, area := range features.FullAreas() {
		require.Contains(t, body, area.Slug())
	}
}

func TestPredict(t *testing.T) {
	s := newServer(t, nil)

	body := `{"areas":{"criminal_procedure":"conservative","civil_rights":"liberal"}}`
	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/predict",
		strings.NewReader(body)))

	require.Equal(t, http.StatusOK, recorder.Code)

	var response server.PredictResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	expectedFeatures := make([]float64, len(features.FullAreas()))
	for i, area := range features.FullAreas() {
		switch area {
		case scdb.CriminalProcedure:
			expectedFeatures[i] = float64(scdb.Conservative.Code())
		case scdb.CivilRights:
			expectedFeatures[i] = float64(scdb.Liberal.Code())
		}
	}
	require.InDelta(t, testModel().Probability(expectedFeatures), response.Probability, 1e-12)
	require.Equal(t, "run-test", response.RunID)
}

func TestPredictEmptyInputUsesSentinels(t *testing.T) {
	s := newServer(t, nil)

	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/predict",
		strings.NewReader(`{"areas":{}}`)))

	require.Equal(t, http.StatusOK, recorder.Code)

	var response server.PredictResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))

	zeros := make([]float64, len(features.FullAreas()))
	require.InDelta(t, testModel().Probability(zeros), response.Probability, 1e-12)
}

func TestPredictRejectsUnknownArea(t *testing.T) {
	s := newServer(t, nil)

	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/predict",
		strings.NewReader(`{"areas":{"astrology":"liberal"}}`)))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestPredictRejectsUnservedArea(t *testing.T) {
	s := newServer(t, nil)

	// A real issue area, but not one the model was fit over.
	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/predict",
		strings.NewReader(`{"areas":{"miscellaneous":"conservative"}}`)))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestPredictRejectsUnknownDirection(t *testing.T) {
	s := newServer(t, nil)

	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/predict",
		strings.NewReader(`{"areas":{"privacy":"centrist"}}`)))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestPredictRejectsGet(t *testing.T) {
	s := newServer(t, nil)

	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/predict", nil))

	require.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestPredictRecordsToLog(t *testing.T) {
	predictionLog, err := store.Open(filepath.Join(t.TempDir(), "predictions.db"))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, predictionLog.Close())
	}()

	s := newServer(t, predictionLog)

	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/predict",
		strings.NewReader(`{"areas":{"unions":"liberal"}}`)))
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/predictions", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var predictions []store.Prediction
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &predictions))
	require.Len(t, predictions, 1)
	require.Equal(t, "run-test", predictions[0].RunID)
	require.Contains(t, predictions[0].Inputs, "unions")
}

func TestRecentWithoutLog(t *testing.T) {
	s := newServer(t, nil)

	recorder := httptest.NewRecorder()
	s.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/predictions", nil))

	require.Equal(t, http.StatusNotFound, recorder.Code)
}
