package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dynguide/cfg-engine/internal/cfg"
)

var dominatorsCmd = &cobra.Command{
	Use:   "dominators <payload-key> <callsite-id>",
	Short: "List the comparisons that dominate an indirect callsite's dispatch",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		graph, err := loadGraph(context.Background(), args[0])
		if err != nil {
			return err
		}

		csID, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid callsite id %q: %w", args[1], err)
		}

		doms := graph.GetCallsiteDominators(cfg.CallSiteId(csID))
		if len(doms) == 0 {
			fmt.Printf("callsite %d: no known dominators\n", csID)
			return nil
		}
		for _, c := range doms {
			fmt.Printf("%d\n", c)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dominatorsCmd)
}
