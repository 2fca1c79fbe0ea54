// Package structured generates the deterministic structured data layer:
// dimension tables from the demo roster and fact tables anchored to the
// generated price history.
package structured

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"samforge/internal/config"
	"samforge/internal/logging"
	"samforge/internal/warehouse"
)

// Generator builds the dimension and fact tables. All randomness flows from
// the configured seed, so the same seed yields the same warehouse.
type Generator struct {
	store    *warehouse.Store
	cfg      *config.Config
	rng      *rand.Rand
	testMode bool

	priceAnchor time.Time // max generated price date; set by GeneratePrices
}

// NewGenerator creates a generator. testMode scales volumes to 10%.
func NewGenerator(store *warehouse.Store, cfg *config.Config, testMode bool) *Generator {
	return &Generator{
		store:    store,
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(cfg.Generation.RNGSeed)),
		testMode: testMode,
	}
}

// volume applies the test-mode multiplier with a floor of one.
func (g *Generator) volume(n int) int {
	if !g.testMode {
		return n
	}
	scaled := int(math.Floor(float64(n) * g.cfg.Generation.TestModeMultiplier))
	if scaled < 1 {
		return 1
	}
	return scaled
}

// PriceAnchor returns the latest generated price date. Zero until
// GeneratePrices has run.
func (g *Generator) PriceAnchor() time.Time { return g.priceAnchor }

// Run generates everything in dependency order: dimensions, price history,
// then the price-anchored fact tables, finishing with validation.
func (g *Generator) Run(ctx context.Context) error {
	timer := logging.StartTimer(logging.CategoryStructured, "Run")
	defer timer.StopWithInfo()

	steps := []struct {
		name string
		run  func(ctx context.Context) error
	}{
		{"dimensions", g.GenerateDimensions},
		{"stock_prices", g.GeneratePrices},
		{"positions", g.GeneratePositions},
		{"transactions", g.GenerateTransactions},
		{"client_flows", g.GenerateClientFlows},
		{"esg_scores", g.GenerateESGScores},
		{"compliance_breaches", g.GenerateComplianceBreaches},
		{"validation", g.Validate},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("structured %s: %w", step.name, err)
		}
		logging.Structured("Step %s complete", step.name)
	}
	return nil
}
