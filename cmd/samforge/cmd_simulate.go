package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"samforge/internal/simulate"
)

var (
	simTargetAUM     float64
	simTargetRevenue float64
	simCostSynergy   float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Model the financial impact of acquiring a target",
	Long: `Simulate models an acquisition of an asset management target: revenue
and cost synergies over a two-year realization schedule, integration
costs, strategic impact, and a size-based risk assessment. Output is the
full projection as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result := simulate.Acquisition(simTargetAUM, simTargetRevenue, simCostSynergy)
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	simulateCmd.Flags().Float64Var(&simTargetAUM, "target-aum", 0,
		"Target assets under management in dollars")
	simulateCmd.Flags().Float64Var(&simTargetRevenue, "target-revenue", 0,
		"Target annual revenue in dollars")
	simulateCmd.Flags().Float64Var(&simCostSynergy, "cost-synergy-pct", simulate.DefaultCostSynergyPct,
		"Expected cost synergy as a decimal fraction")
	_ = simulateCmd.MarkFlagRequired("target-aum")
	_ = simulateCmd.MarkFlagRequired("target-revenue")
}
