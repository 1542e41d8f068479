package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/onfuse/planner/internal/model"
)

func newConfigsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "configs",
		Short: "List active timeline configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := a.api.ListConfigurations(cmd.Context())
			if a.jsonOut {
				return writeJSON(resp)
			}
			if !resp.Success {
				return fmt.Errorf("%s", resp.Error)
			}
			for _, c := range resp.Configurations {
				fmt.Printf("%-24s %s (%s -> %s)\n", c.ID, c.Name, c.RowType, c.BlockType)
			}
			return nil
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	var mappingFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a field mapping file against the schema catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(mappingFile)
			if err != nil {
				return fmt.Errorf("reading mapping file: %w", err)
			}
			var mapping model.TimelineConfig
			if err := json.Unmarshal(data, &mapping); err != nil {
				return fmt.Errorf("parsing mapping file %s: %w", mappingFile, err)
			}

			resp := a.api.ValidateFieldMapping(cmd.Context(), mapping.RowType, mapping.BlockType, mapping)
			if a.jsonOut {
				return writeJSON(resp)
			}
			if !resp.Success {
				return fmt.Errorf("%s", resp.Error)
			}
			if resp.Valid {
				fmt.Println("mapping is valid")
				return nil
			}
			for _, p := range resp.Problems {
				fmt.Printf("%s: %s\n", p.Field, p.Reason)
			}
			return fmt.Errorf("mapping has %d problem(s)", len(resp.Problems))
		},
	}

	cmd.Flags().StringVar(&mappingFile, "file", "", "JSON file with the candidate timeline configuration (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
