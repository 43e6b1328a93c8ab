package core

import (
	"hash/fnv"
	"math/rand/v2"

	"crop_service/internal/domain/model"
)

// GaussianSource draws standard normal variates.
type GaussianSource interface {
	NormFloat64() float64
}

// SourceProvider hands out a GaussianSource for one crop simulation.
// Sources are never shared between goroutines.
type SourceProvider interface {
	Source(crop model.CropName) GaussianSource
}

// NewSourceProvider returns deterministic per-crop streams when seed is
// non-zero and the process-level generator otherwise.
func NewSourceProvider(seed uint64) SourceProvider {
	if seed == 0 {
		return processSources{}
	}
	return SeededSources{Seed: seed}
}

// NewSeededSource returns a reproducible source for the given seed.
func NewSeededSource(seed uint64) GaussianSource {
	return rand.New(rand.NewPCG(seed, seed))
}

// SeededSources derives one PCG stream per crop from a fixed seed, so results
// do not depend on the order in which crops are simulated.
type SeededSources struct {
	Seed uint64
}

func (s SeededSources) Source(crop model.CropName) GaussianSource {
	h := fnv.New64a()
	h.Write([]byte(crop))
	return rand.New(rand.NewPCG(s.Seed, h.Sum64()))
}

type processSources struct{}

func (processSources) Source(model.CropName) GaussianSource { return processSource{} }

// processSource uses the goroutine-safe top-level generator of math/rand/v2.
type processSource struct{}

func (processSource) NormFloat64() float64 { return rand.NormFloat64() }
