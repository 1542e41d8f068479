package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onfuse/planner/internal/api"
)

func newMoveCmd(a *app) *cobra.Command {
	var (
		configID  string
		blockType string
		newRowID  string
		newDate   string
	)

	cmd := &cobra.Command{
		Use:   "move <block-id>",
		Short: "Move a block to a new row and/or date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDateFlag(newDate)
			if err != nil {
				return err
			}

			resp := a.api.MoveBlock(cmd.Context(), api.MoveBlockRequest{
				ConfigID:  configID,
				BlockType: blockType,
				BlockID:   args[0],
				NewRowID:  newRowID,
				NewDate:   date,
			})
			if a.jsonOut {
				return writeJSON(resp)
			}
			if !resp.Success {
				return fmt.Errorf("%s", resp.Error)
			}

			fmt.Printf("moved %s\n", resp.Block.ID)
			for field, value := range resp.NewValues {
				fmt.Printf("  %s: %v -> %v\n", field, resp.OldValues[field], value)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configID, "view", "", "Timeline configuration id (required)")
	cmd.Flags().StringVar(&blockType, "type", "", "Expected block record type (guard, optional)")
	cmd.Flags().StringVar(&newRowID, "to-row", "", "Target row record id")
	cmd.Flags().StringVar(&newDate, "to-date", "", "Target date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("view")
	return cmd
}
