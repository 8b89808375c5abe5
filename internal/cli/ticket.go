package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/tickethook/internal/core/ticket"
	"github.com/example/tickethook/internal/ports/secondary"
)

// TicketCmd returns the ticket command
func TicketCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Manage tickets",
		Long:  "Create, inspect, and list tickets in the local store",
	}

	cmd.AddCommand(ticketCreateCmd())
	cmd.AddCommand(ticketShowCmd())
	cmd.AddCommand(ticketListCmd())
	return cmd
}

func ticketCreateCmd() *cobra.Command {
	var (
		id       int
		reporter string
		owner    string
	)

	cmd := &cobra.Command{
		Use:   "create [summary]",
		Short: "Create a new ticket",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}

			rec := &secondary.TicketRecord{
				ID:       id,
				Summary:  args[0],
				Status:   "new",
				Owner:    owner,
				Reporter: reporter,
			}
			createdID, err := app.Store.CreateTicket(context.Background(), rec)
			if err != nil {
				return fmt.Errorf("failed to create ticket: %w", err)
			}

			fmt.Printf("✓ Created ticket #%d: %s\n", createdID, rec.Summary)
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "explicit ticket id (0 assigns the next free id)")
	cmd.Flags().StringVar(&reporter, "reporter", "", "reporter username")
	cmd.Flags().StringVar(&owner, "owner", "", "owner username")
	return cmd
}

func ticketShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a ticket and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid ticket id: %s", args[0])
			}

			app, err := getApp()
			if err != nil {
				return err
			}

			ctx := context.Background()
			rec, err := app.Store.GetTicket(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get ticket: %w", err)
			}

			fmt.Printf("%s %s\n", color.New(color.FgCyan).Sprintf("#%d", rec.ID), rec.Summary)
			fmt.Printf("  Status: %s\n", statusColor(rec.Status))
			if rec.Resolution != "" {
				fmt.Printf("  Resolution: %s\n", rec.Resolution)
			}
			if rec.Owner != "" {
				fmt.Printf("  Owner: %s\n", rec.Owner)
			}
			if rec.Reporter != "" {
				fmt.Printf("  Reporter: %s\n", rec.Reporter)
			}

			comments, err := app.Store.Comments(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get comments: %w", err)
			}
			if len(comments) > 0 {
				fmt.Println()
				for _, c := range comments {
					fmt.Printf("  [%s] %s:\n", c.CreatedAt.Format("2006-01-02 15:04"), c.Author)
					fmt.Printf("%s\n", indent(c.Comment, "    "))
				}
			}
			return nil
		},
	}
}

func ticketListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}

			recs, err := app.Store.ListTickets(context.Background(), status)
			if err != nil {
				return fmt.Errorf("failed to list tickets: %w", err)
			}
			if len(recs) == 0 {
				fmt.Println("No tickets found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tRESOLUTION\tOWNER\tSUMMARY")
			for _, r := range recs {
				fmt.Fprintf(w, "#%d\t%s\t%s\t%s\t%s\n", r.ID, r.Status, r.Resolution, r.Owner, r.Summary)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func statusColor(status string) string {
	switch status {
	case ticket.StatusClosed:
		return color.New(color.FgHiGreen).Sprint(status)
	case ticket.StatusReopened:
		return color.New(color.FgYellow).Sprint(status)
	default:
		return color.New(color.FgHiBlue).Sprint(status)
	}
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}
