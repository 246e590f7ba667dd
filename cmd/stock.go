package cmd

import (
	"github.com/spf13/cobra"
)

// stockCmd represents the stock command
var stockCmd = &cobra.Command{
	Use:   "stock [item]",
	Short: "Print stock levels",
	Long:  `Prints the stored amount of every item key, or of a single key.`,
	Args:  cobra.MaximumNArgs(1),
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

		if len(args) == 1 {
			return printJSON(cmd, map[string]int{args[0]: rt.cache.StockOf(args[0])})
		}
		return printJSON(cmd, rt.cache.Stock())
	},
}

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:   "find <item>",
	Short: "List the slots holding an item",
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
		return printJSON(cmd, rt.cache.FindItem(args[0]))
	},
}

func init() {
	RootCmd.AddCommand(stockCmd)
	RootCmd.AddCommand(findCmd)
}
