package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dynguide/cfg-engine/internal/cfg"
)

var scoreCmd = &cobra.Command{
	Use:   "score <payload-key> <bb-id>",
	Short: "Print a basic block's distance-to-target score",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		graph, err := loadGraph(context.Background(), args[0])
		if err != nil {
			return err
		}

		bbID, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid bb id %q: %w", args[1], err)
		}
		bb := cfg.BbId(bbID)

		score := graph.ScoreForBb(bb)
		fmt.Printf("bb %d: has_score=%t score=%s\n", bb, graph.HasScore(bb), formatScore(score))
		return nil
	},
}

func formatScore(s cfg.Score) string {
	switch s {
	case cfg.TARGET:
		return "TARGET"
	case cfg.UNDEF:
		return "UNDEF"
	default:
		return fmt.Sprintf("%d", uint32(s))
	}
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
