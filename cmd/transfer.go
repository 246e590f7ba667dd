package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var withdrawSlot int
var depositFilter string

// withdrawCmd represents the withdraw command
var withdrawCmd = &cobra.Command{
	Use:   "withdraw <item> <count> <destination>",
	Short: "Move items out of storage",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", args[1], err)
		}

		ctx := cmd.Context()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.log.Sync()
		if err := rt.ensureScanned(ctx); err != nil {
			return err
		}

		res, err := rt.allocator.Withdraw(ctx, args[0], count, args[2], withdrawSlot)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

// depositCmd represents the deposit command
var depositCmd = &cobra.Command{
	Use:   "deposit <source>",
	Short: "Move the content of a container into storage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.log.Sync()
		if err := rt.ensureScanned(ctx); err != nil {
			return err
		}

		res, err := rt.allocator.Deposit(ctx, args[0], depositFilter)
		if err != nil {
			return err
		}
		return printJSON(cmd, res)
	},
}

func init() {
	withdrawCmd.Flags().IntVar(&withdrawSlot, "slot", 0, "Destination slot (0 lets the destination choose)")
	depositCmd.Flags().StringVar(&depositFilter, "filter", "", "Only deposit this item name or key")
	RootCmd.AddCommand(withdrawCmd)
	RootCmd.AddCommand(depositCmd)
}
