package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load <payload-key>",
	Short: "Build the graph from a construction payload and print summary stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		graph, err := loadGraph(context.Background(), args[0])
		if err != nil {
			return err
		}

		stats := graph.Stats()
		fmt.Printf("basic blocks:       %d\n", stats.BbCount)
		fmt.Printf("edges:              %d\n", stats.EdgeCount)
		fmt.Printf("open targets:       %d\n", stats.OpenTargetCount)
		fmt.Printf("solved targets:     %d\n", stats.SolvedTargetCount)
		fmt.Printf("indirect edges:     %d\n", stats.IndirectEdgeCount)
		fmt.Printf("callsites:          %d\n", stats.CallsiteCount)
		fmt.Printf("dominator cmps:     %d\n", stats.DominatorCmpCount)
		fmt.Printf("aggregator:         %s\n", appConfig.Engine.Aggregator)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
