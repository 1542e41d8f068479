package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/onfuse/planner/internal/model"
	"github.com/onfuse/planner/internal/theme"
)

func newConflictsCmd(a *app) *cobra.Command {
	var (
		assignee string
		date     string
		start    string
		end      string
		exclude  string
	)

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Check a candidate slot for booking conflicts",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDateFlag(date)
			if err != nil {
				return err
			}
			if day == nil {
				return fmt.Errorf("--date is required")
			}

			resp := a.api.CheckConflicts(cmd.Context(), assignee, *day, start, end, exclude)
			if a.jsonOut {
				return writeJSON(resp)
			}
			if !resp.Success {
				return fmt.Errorf("%s", resp.Error)
			}
			if !resp.HasConflict {
				fmt.Println("slot is free")
				return nil
			}
			for _, c := range resp.Conflicts {
				fmt.Printf("%s-%s  %s (%s)\n", c.StartTime, c.EndTime, c.TaskLabel, c.ID)
			}
			return fmt.Errorf("%d conflicting booking(s)", len(resp.Conflicts))
		},
	}

	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee record id (required)")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&exclude, "exclude", "", "Booking id to ignore")
	_ = cmd.MarkFlagRequired("assignee")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newWorkloadCmd(a *app) *cobra.Command {
	var (
		assignee string
		from     string
		to       string
	)

	cmd := &cobra.Command{
		Use:   "workload",
		Short: "Aggregate an assignee's workload over a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDateFlag(from)
			if err != nil {
				return err
			}
			end, err := parseDateFlag(to)
			if err != nil {
				return err
			}
			if start == nil || end == nil {
				return fmt.Errorf("--from and --to are required")
			}

			resp := a.api.ComputeWorkload(cmd.Context(), assignee, *start, *end)
			if a.jsonOut {
				return writeJSON(resp)
			}
			if !resp.Success {
				return fmt.Errorf("%s", resp.Error)
			}

			w := resp.Workload
			fmt.Printf("%s  %s .. %s\n", assignee, from, to)
			fmt.Printf("bookings: %d  hours: %.1f  high priority: %d\n",
				w.TotalBookings, w.TotalHours, w.HighPriorityCount)
			fmt.Printf("working days: %d  avg daily hours: %.1f  utilization: %s\n",
				w.WorkingDays, w.AvgDailyHours,
				theme.UtilizationStyle(w.UtilizationPercent).Render(
					fmt.Sprintf("%.0f%%", w.UtilizationPercent)))

			days := make([]string, 0, len(w.Daily))
			for day := range w.Daily {
				days = append(days, day)
			}
			sort.Strings(days)
			for _, day := range days {
				load := w.Daily[day]
				fmt.Printf("  %s  %.1fh in %d booking(s)\n", day, load.TotalHours, load.BookingCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee record id (required)")
	cmd.Flags().StringVar(&from, "from", "", "Range start (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&to, "to", "", "Range end (YYYY-MM-DD, required)")
	_ = cmd.MarkFlagRequired("assignee")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newBookCmd(a *app) *cobra.Command {
	var (
		task     string
		assignee string
		date     string
		start    string
		end      string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Create a booking for an assignee",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDateFlag(date)
			if err != nil {
				return err
			}
			if day == nil {
				return fmt.Errorf("--date is required")
			}

			resp := a.api.CreateBooking(cmd.Context(), model.Booking{
				TaskRef:     task,
				AssigneeRef: assignee,
				Date:        *day,
				StartTime:   start,
				EndTime:     end,
				Notes:       notes,
			})
			if a.jsonOut {
				return writeJSON(resp)
			}
			if !resp.Success {
				if resp.Conflict != nil {
					return fmt.Errorf("%s (conflicts with %s %s-%s)",
						resp.Error, resp.Conflict.TaskLabel,
						resp.Conflict.StartTime, resp.Conflict.EndTime)
				}
				return fmt.Errorf("%s", resp.Error)
			}

			b := resp.Booking
			fmt.Printf("booked %s: %s for %s on %s %s-%s (%.1fh)\n",
				b.ID, b.TaskLabel, b.AssigneeLabel,
				model.FormatDate(b.Date), b.StartTime, b.EndTime, b.DurationHours)
			return nil
		},
	}

	cmd.Flags().StringVar(&task, "task", "", "Task record id (required)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee record id (required)")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("task")
	_ = cmd.MarkFlagRequired("assignee")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newBulkAssignCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "bulk-assign",
		Short: "Create bookings from a JSON file, continuing past failures",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading bookings file: %w", err)
			}
			var items []model.Booking
			if err := json.Unmarshal(data, &items); err != nil {
				return fmt.Errorf("parsing bookings file %s: %w", file, err)
			}

			resp := a.api.BulkAssign(cmd.Context(), items)
			if a.jsonOut {
				return writeJSON(resp)
			}
			if !resp.Success {
				return fmt.Errorf("%s", resp.Error)
			}

			fmt.Printf("created %d of %d booking(s)\n", resp.CreatedCount, len(items))
			for _, failure := range resp.Failures {
				fmt.Printf("  item %d: %s\n", failure.Index, failure.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file with an array of bookings (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRosterCmd(a *app) *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "List assignees with their current-week utilization",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFilterFlags(filters)
			if err != nil {
				return err
			}

			resp := a.api.Roster(cmd.Context(), f)
			if a.jsonOut {
				return writeJSON(resp)
			}
			if !resp.Success {
				return fmt.Errorf("%s", resp.Error)
			}

			for _, entry := range resp.Roster {
				dept := entry.Department
				if dept == "" {
					dept = "-"
				}
				fmt.Printf("%-24s %-16s %5.1fh  %d active  %s\n",
					entry.Label, dept, entry.WeeklyHours, entry.ActiveBookings,
					theme.UtilizationStyle(entry.Utilization).Render(
						fmt.Sprintf("%.0f%%", entry.Utilization)))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Assignee filter field=value (repeatable)")
	return cmd
}
