package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"crop_service/internal/domain/model"
)

const probabilitySumTolerance = 1e-3

// HTTPClassifier calls the classifier service, which owns the trained model
// and its feature scaler.
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
}

func NewHTTPClassifier(baseURL string, timeout time.Duration) *HTTPClassifier {
	return &HTTPClassifier{
		endpoint: strings.TrimRight(baseURL, "/") + "/predict_proba",
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type PredictRequest struct {
	Features model.FeatureVector `json:"features"`
}

type PredictResponse struct {
	Classes       []string  `json:"classes"`
	Probabilities []float64 `json:"probabilities"`
}

func (c *HTTPClassifier) PredictProba(ctx context.Context, features model.FeatureVector) (model.ClassifierOutput, error) {
	body, err := json.Marshal(PredictRequest{Features: features})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ML request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create ML request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ML service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ML service returned status: %d", resp.StatusCode)
	}

	var mlResp PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&mlResp); err != nil {
		return nil, fmt.Errorf("failed to decode ML response: %w", err)
	}

	return toClassifierOutput(mlResp)
}

func toClassifierOutput(resp PredictResponse) (model.ClassifierOutput, error) {
	if len(resp.Classes) != len(resp.Probabilities) {
		return nil, fmt.Errorf("%w: %d classes, %d probabilities",
			model.ErrInvalidProbabilities, len(resp.Classes), len(resp.Probabilities))
	}

	out := make(model.ClassifierOutput, 0, len(resp.Classes))
	for i, class := range resp.Classes {
		crop, err := model.ParseCropName(class)
		if err != nil {
			return nil, err
		}
		out = append(out, model.CropProbability{Crop: crop, Probability: resp.Probabilities[i]})
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	if len(out) > 0 && math.Abs(out.Sum()-1) > probabilitySumTolerance {
		return nil, fmt.Errorf("%w: probabilities sum to %.4f", model.ErrInvalidProbabilities, out.Sum())
	}
	return out, nil
}
