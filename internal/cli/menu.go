package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Print the conversation-starter menu",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := apiClient.MenuDisplay(context.Background())
		if err != nil {
			return fmt.Errorf("fetch menu: %w", err)
		}

		if len(items) == 0 {
			fmt.Println("The menu is empty.")
			return nil
		}
		for _, item := range items {
			fmt.Printf("  %s\n", item.Text)
		}
		fmt.Printf("\nBooking: %s\n", apiClient.BookingURL())
		return nil
	},
}
