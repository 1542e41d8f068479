package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onfuse/planner/internal/store"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the sample schemas and timeline configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.Seed(cmd.Context(), a.store); err != nil {
				return err
			}
			fmt.Printf("seeded configuration %q\n", store.SampleConfigID)
			return nil
		},
	}
}
