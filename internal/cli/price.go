package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/calc"
)

var priceCmd = &cobra.Command{
	Use:   "price <guests> <hours> <activity>",
	Short: "Estimate the price for a party",
	Long: fmt.Sprintf(`Estimate the price for a party and record the result.

Known activities: %s. Unknown activities use the default rate.

Examples:
  clinic-chat price 4 2 vr
  clinic-chat price 10 3 trampoline`, strings.Join(calc.Activities(), ", ")),
	Args: cobra.ExactArgs(3),
	RunE: runPrice,
}

var priceHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent price estimates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		records := st.LoadCalc()
		if len(records) == 0 {
			fmt.Println("No estimates yet.")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%s  %d guests × %dh %-10s  %.0f ₽\n",
				r.Timestamp.Format("2006-01-02 15:04"), r.Guests, r.Hours, r.Activity, r.Total)
		}
		return nil
	},
}

func init() {
	priceCmd.AddCommand(priceHistoryCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	guests, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("guests must be a number: %w", err)
	}
	hours, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("hours must be a number: %w", err)
	}
	activity := strings.ToLower(args[2])

	est, err := calc.Calculate(guests, hours, activity)
	if err != nil {
		return err
	}

	fmt.Printf("%d guests × %d hours of %s\n", guests, hours, activity)
	fmt.Printf("Per guest per hour: %.0f ₽\n", est.PerGuest)
	fmt.Printf("Total: %.0f ₽\n", est.Total)

	if err := st.SaveCalc(calc.Record(guests, hours, activity, est)); err != nil {
		logger.Warn("failed to record estimate", "error", err)
	}
	return nil
}
