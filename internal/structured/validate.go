package structured

import (
	"context"
	"fmt"

	"samforge/internal/logging"
)

// Validate runs the data-quality pass: every generated table must be
// non-empty and fact rows must resolve their dimension keys. Any violation
// fails the build.
func (g *Generator) Validate(ctx context.Context) error {
	timer := logging.StartTimer(logging.CategoryStructured, "Validate")
	defer timer.Stop()

	nonEmpty := []string{
		g.store.Table("curated", "DIM_ISSUER"),
		g.store.Table("curated", "DIM_SECURITY"),
		g.store.Table("curated", "DIM_PORTFOLIO"),
		g.store.Table("curated", "DIM_CLIENT"),
		g.store.Table("curated", "DIM_BENCHMARK"),
		g.store.Table("market_data", "FACT_STOCK_PRICES"),
		g.store.Table("curated", "FACT_POSITION_DAILY_ABOR"),
		g.store.Table("curated", "FACT_TRANSACTION"),
		g.store.Table("curated", "FACT_CLIENT_FLOW"),
		g.store.Table("curated", "FACT_ESG_SCORES"),
	}
	for _, table := range nonEmpty {
		n, err := g.store.CountRows(table)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("data quality: %s is empty", table)
		}
		logging.StructuredDebug("Validated %s: %d rows", table, n)
	}

	security := g.store.Table("curated", "DIM_SECURITY")
	portfolio := g.store.Table("curated", "DIM_PORTFOLIO")
	client := g.store.Table("curated", "DIM_CLIENT")

	orphanChecks := []struct {
		name  string
		query string
	}{
		{
			"positions with unknown security",
			fmt.Sprintf(`SELECT COUNT(*) FROM %s f
			 LEFT JOIN %s s ON f.security_id = s.security_id WHERE s.security_id IS NULL`,
				g.store.Table("curated", "FACT_POSITION_DAILY_ABOR"), security),
		},
		{
			"positions with unknown portfolio",
			fmt.Sprintf(`SELECT COUNT(*) FROM %s f
			 LEFT JOIN %s p ON f.portfolio_id = p.portfolio_id WHERE p.portfolio_id IS NULL`,
				g.store.Table("curated", "FACT_POSITION_DAILY_ABOR"), portfolio),
		},
		{
			"transactions with unknown security",
			fmt.Sprintf(`SELECT COUNT(*) FROM %s f
			 LEFT JOIN %s s ON f.security_id = s.security_id WHERE s.security_id IS NULL`,
				g.store.Table("curated", "FACT_TRANSACTION"), security),
		},
		{
			"client flows with unknown client",
			fmt.Sprintf(`SELECT COUNT(*) FROM %s f
			 LEFT JOIN %s c ON f.client_id = c.client_id WHERE c.client_id IS NULL`,
				g.store.Table("curated", "FACT_CLIENT_FLOW"), client),
		},
	}
	for _, check := range orphanChecks {
		var n int
		if err := g.store.QueryRow(check.query).Scan(&n); err != nil {
			return fmt.Errorf("data quality %s: %w", check.name, err)
		}
		if n > 0 {
			return fmt.Errorf("data quality: %d %s", n, check.name)
		}
	}

	logging.Structured("Data quality validation passed")
	return nil
}
