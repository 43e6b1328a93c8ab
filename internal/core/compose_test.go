package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name   string
		ml, mc float64
		want   float64
	}{
		{"certain and viable", 1, 1, (math.Log(1+1e-6) + 6) * 1.3},
		{"certain and not viable", 1, 0, (math.Log(1+1e-6) + 6) * 0.7},
		{"zero probability", 0, 0, (math.Log(1e-6) + 6) * 0.7},
		{"typical", 0.6, 0.8, (math.Log(0.6+1e-6) + 6) * 1.18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Compose(tt.ml, tt.mc), 1e-9)
		})
	}
}

func TestComposePreservesClassifierOrdering(t *testing.T) {
	probs := []float64{0.001, 0.01, 0.1, 0.3, 0.6, 0.9}
	for i := 1; i < len(probs); i++ {
		assert.Greater(t, Compose(probs[i], 0.5), Compose(probs[i-1], 0.5))
	}
}
