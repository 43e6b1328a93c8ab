package model

import (
	"context"
	"fmt"
	"math"
)

// Classifier returns a probability per known crop class for one feature vector.
type Classifier interface {
	PredictProba(ctx context.Context, features FeatureVector) (ClassifierOutput, error)
}

// SoilProvider resolves the soil sample of a region.
type SoilProvider interface {
	GetSoil(ctx context.Context, region string) (SoilSample, error)
}

// WeatherProvider resolves the current weekly weather of a region.
type WeatherProvider interface {
	GetWeather(ctx context.Context, region string) (WeatherSample, error)
}

// RegionLocator resolves a region name to coordinates.
type RegionLocator interface {
	Locate(ctx context.Context, region string) (Location, error)
}

type CropProbability struct {
	Crop        CropName `json:"crop"`
	Probability float64  `json:"probability"`
}

// ClassifierOutput keeps the classifier's class order, which is also the
// tie-break order of the final ranking.
type ClassifierOutput []CropProbability

// Validate checks for duplicate crops and probabilities outside [0,1].
func (o ClassifierOutput) Validate() error {
	seen := make(map[CropName]struct{}, len(o))
	for _, cp := range o {
		if cp.Crop == "" {
			return ErrInvalidCropName
		}
		if _, dup := seen[cp.Crop]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCrop, cp.Crop)
		}
		seen[cp.Crop] = struct{}{}
		if math.IsNaN(cp.Probability) || cp.Probability < 0 || cp.Probability > 1 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidProbabilities, cp.Crop, cp.Probability)
		}
	}
	return nil
}

func (o ClassifierOutput) Sum() float64 {
	var total float64
	for _, cp := range o {
		total += cp.Probability
	}
	return total
}
