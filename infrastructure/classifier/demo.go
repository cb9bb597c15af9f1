package classifier

import (
	"math/rand/v2"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat/distmv"

	"emotion-detector/domain/emotion"
)

// Sampler draws a probability vector over the labels.
type Sampler interface {
	Sample() []float64
}

// DirichletSampler draws from a symmetric Dirichlet(1,...,1), i.e. uniformly
// over the probability simplex.
type DirichletSampler struct {
	mu   sync.Mutex
	dist *distmv.Dirichlet
}

// NewDirichletSampler returns a sampler over emotion.NumLabels categories.
// A zero seed seeds from the clock.
func NewDirichletSampler(seed uint64) *DirichletSampler {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	alpha := make([]float64, emotion.NumLabels)
	for i := range alpha {
		alpha[i] = 1
	}
	return &DirichletSampler{
		dist: distmv.NewDirichlet(alpha, rand.NewPCG(seed, seed>>1|1)),
	}
}

// Sample returns a fresh vector of NumLabels non-negative values summing to 1.
func (s *DirichletSampler) Sample() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dist.Rand(nil)
}
