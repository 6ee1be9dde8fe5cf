package main

import (
	"fmt"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/finance"
	"github.com/segyhp/loan-ledger/pkg/utils"

	"github.com/spf13/cobra"
)

func interestCmd() *cobra.Command {
	var (
		principal string
		rate      string
		period    string
		start     string
		end       string
	)

	cmd := &cobra.Command{
		Use:   "interest",
		Short: "Project compound interest offline",
		Long:  `Compound a principal by rate percent for every whole period elapsed between --start and --end.`,
		Example: `  loanctl interest --principal 1000 --rate 10 --period weekly --start 2024-01-01 --end 2024-01-15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			principalAmount, err := utils.DecimalFromString(principal)
			if err != nil || principalAmount.IsNegative() {
				return fmt.Errorf("invalid --principal %q", principal)
			}
			ratePercent, err := utils.DecimalFromString(rate)
			if err != nil || ratePercent.IsNegative() {
				return fmt.Errorf("invalid --rate %q", rate)
			}
			if !domain.IsValidInterestPeriod(period) {
				return fmt.Errorf("invalid --period %q: want weekly, biweekly or monthly", period)
			}
			startDate, err := utils.ParseDate(start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			endDate, err := utils.ParseDate(end)
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}

			result := finance.CompoundInterest(principalAmount, ratePercent, period, startDate, endDate).Response()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "periods:         %d\n", result.Periods)
			fmt.Fprintf(out, "interest amount: %s\n", result.InterestAmount)
			fmt.Fprintf(out, "final amount:    %s\n", result.FinalAmount)
			return nil
		},
	}

	cmd.Flags().StringVar(&principal, "principal", "", "principal amount")
	cmd.Flags().StringVar(&rate, "rate", "", "interest rate percent per period")
	cmd.Flags().StringVar(&period, "period", domain.InterestPeriodMonthly, "weekly, biweekly or monthly")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD or RFC 3339)")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
