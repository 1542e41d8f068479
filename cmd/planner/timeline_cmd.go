package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/onfuse/planner/internal/api"
	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/theme"
)

func newTimelineCmd(a *app) *cobra.Command {
	var (
		configID     string
		from         string
		to           string
		rowFilters   []string
		blockFilters []string
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Render the timeline view for a configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateFlag(from)
			if err != nil {
				return err
			}
			end, err := parseDateFlag(to)
			if err != nil {
				return err
			}
			rf, err := parseFilterFlags(rowFilters)
			if err != nil {
				return err
			}
			bf, err := parseFilterFlags(blockFilters)
			if err != nil {
				return err
			}

			resp := a.api.GetTimelineView(cmd.Context(), api.TimelineViewRequest{
				ConfigID:     configID,
				Start:        start,
				End:          end,
				RowFilters:   rf,
				BlockFilters: bf,
			})
			if a.jsonOut {
				return writeJSON(resp)
			}
			if !resp.Success {
				return fmt.Errorf("%s", resp.Error)
			}
			fmt.Println(renderTimeline(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&configID, "view", "", "Timeline configuration id (required)")
	cmd.Flags().StringVar(&from, "from", "", "Window start (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&to, "to", "", "Window end (YYYY-MM-DD, default today+30d)")
	cmd.Flags().StringArrayVar(&rowFilters, "row-filter", nil, "Row filter field=value (repeatable)")
	cmd.Flags().StringArrayVar(&blockFilters, "block-filter", nil, "Block filter field=value (repeatable)")
	_ = cmd.MarkFlagRequired("view")
	return cmd
}

// renderTimeline draws the view as a bordered grid: one section per row,
// blocks listed beneath their row colored by status or priority.
func renderTimeline(view *api.TimelineViewResponse) string {
	var b strings.Builder

	b.WriteString(theme.HeaderStyle.Render(view.Config.Name))
	b.WriteString("\n")
	b.WriteString(theme.WindowStyle.Render(
		fmt.Sprintf("%s .. %s", view.DateRange.Start, view.DateRange.End)))
	b.WriteString("\n")

	if view.RowsError != "" {
		b.WriteString(theme.WarnStyle.Render("rows unavailable: " + view.RowsError))
		b.WriteString("\n")
	}
	if view.BlocksError != "" {
		b.WriteString(theme.WarnStyle.Render("blocks unavailable: " + view.BlocksError))
		b.WriteString("\n")
	}

	byRow := map[string][]model.Block{}
	for _, block := range view.Blocks {
		byRow[block.RowID] = append(byRow[block.RowID], block)
	}

	var grid strings.Builder
	for i, row := range view.Rows {
		if i > 0 {
			grid.WriteString("\n")
		}
		grid.WriteString(theme.RowLabelStyle.Render(row.Label))
		if status, ok := row.Extra["status"].(string); ok && status != "" {
			grid.WriteString(" " + theme.RowMetaStyle.Render("("+status+")"))
		}
		grid.WriteString("\n")

		blocks := byRow[row.ID]
		if len(blocks) == 0 {
			grid.WriteString(theme.EmptyRowStyle.Render("no entries"))
			grid.WriteString("\n")
			continue
		}
		for _, block := range blocks {
			grid.WriteString(theme.BlockStyle(block.Color).Render(blockLine(block)))
			grid.WriteString("\n")
		}
	}
	if len(view.Rows) == 0 {
		grid.WriteString(theme.EmptyRowStyle.Render("no rows"))
	}

	b.WriteString(theme.GridStyle.Render(grid.String()))
	return b.String()
}

func blockLine(block model.Block) string {
	span := model.FormatDate(block.AnchorDate)
	if block.StartDate != nil && block.EndDate != nil {
		span = fmt.Sprintf("%s .. %s",
			model.FormatDate(*block.StartDate), model.FormatDate(*block.EndDate))
	}
	line := fmt.Sprintf("%s  %s", span, block.Label)
	if block.Status != "" {
		line += fmt.Sprintf("  [%s]", block.Status)
	}
	if block.Duration != nil {
		line += fmt.Sprintf("  %.1fh", *block.Duration)
	}
	return line
}
