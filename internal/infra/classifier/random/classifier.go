// Package random is the reference Classifier: it ignores the image and picks
// a catalog plant at random with synthetic confidence and health data.
package random

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"sync"

	domain "github.com/bryanwahyu/herbalens/internal/domain/analysis"
	"github.com/bryanwahyu/herbalens/internal/domain/plants"
)

const (
	minConfidence  = 85
	confidenceSpan = 12
	warningCutoff  = 0.7
)

// WarningDiseases is what every "warning" result reports.
var WarningDiseases = []string{"Leaf Spot", "Mild Nutrient Deficiency"}

// Source yields floats in [0,1).
type Source interface {
	Float64() float64
}

type Classifier struct {
	catalog *plants.Catalog

	mu  sync.Mutex
	rnd Source
}

// New uses rnd for every draw; a nil rnd gets a randomly seeded PCG.
func New(catalog *plants.Catalog, rnd Source) *Classifier {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Classifier{catalog: catalog, rnd: rnd}
}

// NewSeeded gives reproducible sequences.
func NewSeeded(catalog *plants.Catalog, seed uint64) *Classifier {
	return New(catalog, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func (c *Classifier) Classify(ctx context.Context, _ domain.Image) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, err
	}
	n := c.catalog.Len()
	if n == 0 {
		return domain.Result{}, errors.New("empty catalog")
	}

	c.mu.Lock()
	pick, conf, sick := c.rnd.Float64(), c.rnd.Float64(), c.rnd.Float64()
	c.mu.Unlock()

	idx := int(math.Floor(pick * float64(n)))
	if idx >= n {
		idx = n - 1
	}
	res := domain.Result{
		Record: c.catalog.At(idx),
		// floor rather than round: round(85 + 11.99) would be 97
		Confidence:   int(math.Floor(minConfidence + conf*confidenceSpan)),
		HealthStatus: domain.HealthHealthy,
		Diseases:     []string{},
	}
	if sick > warningCutoff {
		res.HealthStatus = domain.HealthWarning
		res.Diseases = append([]string(nil), WarningDiseases...)
	}
	return res, nil
}
