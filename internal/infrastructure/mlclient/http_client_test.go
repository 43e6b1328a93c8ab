package mlclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crop_service/internal/domain/model"
)

func newClassifierServer(t *testing.T, status int, body string, got *PredictRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict_proba", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPredictProba(t *testing.T) {
	var req PredictRequest
	srv := newClassifierServer(t, http.StatusOK,
		`{"classes": ["rice", "Maize", "wheat"], "probabilities": [0.5, 0.3, 0.2]}`, &req)

	features := model.FeatureVector{N: 60, P: 35, K: 45, Temperature: 28, Rainfall: 150, NutrientTotal: 140}
	out, err := NewHTTPClassifier(srv.URL+"/", time.Second).PredictProba(context.Background(), features)
	require.NoError(t, err)

	assert.Equal(t, model.ClassifierOutput{
		{Crop: model.Rice, Probability: 0.5},
		{Crop: model.Maize, Probability: 0.3},
		{Crop: model.Wheat, Probability: 0.2},
	}, out)
	assert.Equal(t, features, req.Features)
}

func TestPredictProbaRejectsInvalidResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		err    error
	}{
		{"server error", http.StatusInternalServerError, `{"detail": "model not loaded"}`, nil},
		{"malformed json", http.StatusOK, `{"classes": [`, nil},
		{"length mismatch", http.StatusOK, `{"classes": ["rice", "wheat"], "probabilities": [1.0]}`, model.ErrInvalidProbabilities},
		{"sum too far from one", http.StatusOK, `{"classes": ["rice", "wheat"], "probabilities": [0.5, 0.4]}`, model.ErrInvalidProbabilities},
		{"negative probability", http.StatusOK, `{"classes": ["rice", "wheat"], "probabilities": [1.2, -0.2]}`, model.ErrInvalidProbabilities},
		{"duplicate class", http.StatusOK, `{"classes": ["rice", "Rice"], "probabilities": [0.5, 0.5]}`, model.ErrDuplicateCrop},
		{"invalid class name", http.StatusOK, `{"classes": ["rice", ""], "probabilities": [0.5, 0.5]}`, model.ErrInvalidCropName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newClassifierServer(t, tt.status, tt.body, nil)
			_, err := NewHTTPClassifier(srv.URL, time.Second).PredictProba(context.Background(), model.FeatureVector{})
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestToClassifierOutputToleratesRounding(t *testing.T) {
	out, err := toClassifierOutput(PredictResponse{
		Classes:       []string{"rice", "wheat", "maize"},
		Probabilities: []float64{0.3333, 0.3333, 0.3333},
	})
	require.NoError(t, err)
	assert.Len(t, out, 3)

	out, err = toClassifierOutput(PredictResponse{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
