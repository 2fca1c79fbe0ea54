package structured

import (
	"context"
	"fmt"
	"math"
	"time"

	"samforge/internal/config"
	"samforge/internal/logging"
)

// Starting prices per ticker keep the generated history recognizable.
var basePrices = map[string]float64{
	"AAPL": 185, "CMC": 55, "RBBN": 3.5, "MSFT": 410, "NVDA": 880,
	"GOOGL": 165, "TSM": 140, "SNOW": 160, "ABT": 110, "ADBE": 520,
	"JPM": 190, "XOM": 115, "PG": 160, "CAT": 340, "NEE": 75, "LIN": 450,
}

const dateLayout = "2006-01-02"

// GeneratePrices writes FACT_STOCK_PRICES: a geometric random walk per
// ticker over the configured trading-day window, skipping weekends. The
// latest generated date becomes the price anchor every other fact table
// dates against.
func (g *Generator) GeneratePrices(ctx context.Context) error {
	timer := logging.StartTimer(logging.CategoryMarket, "GeneratePrices")
	defer timer.Stop()

	table := g.store.Table("market_data", "FACT_STOCK_PRICES")
	if _, err := g.store.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		ticker TEXT NOT NULL,
		price_date TEXT NOT NULL,
		open_price REAL NOT NULL,
		high_price REAL NOT NULL,
		low_price REAL NOT NULL,
		close_price REAL NOT NULL,
		volume INTEGER NOT NULL,
		PRIMARY KEY (ticker, price_date)
	)`, table)); err != nil {
		return err
	}

	days := g.volume(g.cfg.Generation.TradingDays)
	dates := tradingDays(days)
	tickers := config.CompanyTickers("")

	rows := 0
	for _, ticker := range tickers {
		price := basePrices[ticker]
		if price == 0 {
			price = 100
		}
		for _, d := range dates {
			// Daily drift + noise; mild upward bias.
			ret := 0.0003 + g.rng.NormFloat64()*0.018
			open := price
			price = price * math.Exp(ret)
			high := math.Max(open, price) * (1 + g.rng.Float64()*0.01)
			low := math.Min(open, price) * (1 - g.rng.Float64()*0.01)
			volume := 500_000 + g.rng.Intn(20_000_000)

			if _, err := g.store.Exec(
				fmt.Sprintf(`INSERT OR REPLACE INTO %s
				 (ticker, price_date, open_price, high_price, low_price, close_price, volume)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`, table),
				ticker, d.Format(dateLayout),
				round2(open), round2(high), round2(low), round2(price), volume); err != nil {
				return fmt.Errorf("price %s %s: %w", ticker, d.Format(dateLayout), err)
			}
			rows++
		}
	}

	g.priceAnchor = dates[len(dates)-1]
	logging.Market("Generated %d price rows, anchor date %s", rows, g.priceAnchor.Format(dateLayout))
	return nil
}

// LoadPriceAnchor reads the max price date back from the warehouse, for runs
// that skip price generation.
func (g *Generator) LoadPriceAnchor() (time.Time, error) {
	table := g.store.Table("market_data", "FACT_STOCK_PRICES")
	var s string
	if err := g.store.QueryRow("SELECT MAX(price_date) FROM " + table).Scan(&s); err != nil {
		return time.Time{}, fmt.Errorf("load price anchor: %w", err)
	}
	anchor, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	g.priceAnchor = anchor
	return anchor, nil
}

// ClosePriceOn returns a ticker's close on or before the given date.
func (g *Generator) ClosePriceOn(ticker string, date time.Time) (float64, error) {
	table := g.store.Table("market_data", "FACT_STOCK_PRICES")
	var price float64
	err := g.store.QueryRow(
		fmt.Sprintf(`SELECT close_price FROM %s
		 WHERE ticker = ? AND price_date <= ? ORDER BY price_date DESC LIMIT 1`, table),
		ticker, date.Format(dateLayout)).Scan(&price)
	if err != nil {
		return 0, fmt.Errorf("close price %s: %w", ticker, err)
	}
	return price, nil
}

// tradingDays returns the last n weekdays ending yesterday, oldest first.
func tradingDays(n int) []time.Time {
	var days []time.Time
	d := time.Now().AddDate(0, 0, -1)
	for len(days) < n {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
		}
		d = d.AddDate(0, 0, -1)
	}
	// Reverse to oldest-first.
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}
	return days
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
