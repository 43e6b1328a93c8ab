package core

import "math"

const (
	mlEpsilon = 1e-6
	mlOffset  = 6.0

	riskModifierBase  = 0.7
	riskModifierRange = 0.6
)

// Compose fuses a classifier probability with a Monte Carlo viability
// probability. The log term keeps the classifier's ordering; the risk
// modifier scales it by a factor in [0.7, 1.3].
func Compose(mlProbability, mcProbability float64) float64 {
	mlComponent := math.Log(mlProbability+mlEpsilon) + mlOffset
	riskModifier := riskModifierBase + riskModifierRange*mcProbability
	return mlComponent * riskModifier
}
