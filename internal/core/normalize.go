package core

import (
	"crop_service/internal/domain/model"
)

const (
	confidenceFloor = 5.0
	confidenceSpan  = 90.0
)

// Normalize rescales adjusted scores to confidence percentages in [5, 95].
// When every score is equal each crop gets 50.
func Normalize(scores []CropScore) ([]CropScore, error) {
	if len(scores) == 0 {
		return nil, model.ErrEmptyScoreSet
	}

	minVal, maxVal := scores[0].Score, scores[0].Score
	for _, s := range scores[1:] {
		if s.Score < minVal {
			minVal = s.Score
		}
		if s.Score > maxVal {
			maxVal = s.Score
		}
	}

	out := make([]CropScore, len(scores))
	for i, s := range scores {
		normalized := 0.5
		if maxVal != minVal {
			normalized = (s.Score - minVal) / (maxVal - minVal)
		}
		out[i] = CropScore{Crop: s.Crop, Score: roundTo(confidenceFloor+normalized*confidenceSpan, 2)}
	}
	return out, nil
}
