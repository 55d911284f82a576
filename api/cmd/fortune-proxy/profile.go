package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"fortune-proxy/api/internal/fortune"
	"fortune-proxy/api/internal/fortune/types"
)

var flagToday string

var profileCmd = &cobra.Command{
	Use:   "profile YYYY-MM-DD",
	Short: "Print the symbolic profile (九星, 十二運, 14-day series) for a birth date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printProfile(cmd.OutOrStdout(), args[0], flagToday, time.Now)
	},
}

func init() {
	profileCmd.Flags().StringVar(&flagToday, "today", "", "override today's JST date (YYYY-MM-DD)")
}

type profileOutput struct {
	Birth string `json:"birth"`
	Today string `json:"today"`
	Age   int    `json:"age"`
	types.SymbolicProfile
}

func printProfile(w io.Writer, birthStr, todayStr string, now fortune.Clock) error {
	birth, err := fortune.ParseYMD(birthStr)
	if err != nil {
		return fmt.Errorf("%w: %v", fortune.ErrInvalidBirth, err)
	}
	today := fortune.TodayJST(now())
	if todayStr != "" {
		if today, err = fortune.ParseYMD(todayStr); err != nil {
			return fmt.Errorf("--today: %w", err)
		}
	}

	out := profileOutput{
		Birth:           fortune.FormatYMD(birth),
		Today:           fortune.FormatYMD(today),
		Age:             fortune.Age(birth, today),
		SymbolicProfile: fortune.Profile(birth, today),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
