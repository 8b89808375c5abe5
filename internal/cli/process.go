package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/tickethook/internal/ports/primary"
)

// ProcessCmd returns the process command
func ProcessCmd() *cobra.Command {
	var (
		rev         string
		message     string
		author      string
		repoName    string
		shortRevLen int
		event       string
		oldMessage  string
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Apply ticket commands from a single commit message",
		Long: `Parse a commit message for ticket commands and apply them directly,
without going through the webhook server. Useful for post-receive hooks
and for replaying missed commits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if event != "added" && event != "modified" {
				return fmt.Errorf("invalid event %q, want added or modified", event)
			}

			app, err := getApp()
			if err != nil {
				return err
			}

			repo := primary.RepoInfo{RepoName: repoName, ShortRevLen: shortRevLen}
			cs := primary.Changeset{
				Rev:     rev,
				Message: message,
				Author:  author,
				Date:    time.Now(),
			}

			var outcomes map[int]*primary.TicketOutcome
			ctx := context.Background()
			if event == "modified" {
				var old *primary.Changeset
				if oldMessage != "" {
					old = &primary.Changeset{Rev: rev, Message: oldMessage, Author: author}
				}
				outcomes = app.Engine.ChangesetModified(ctx, repo, cs, old)
			} else {
				outcomes = app.Engine.ChangesetAdded(ctx, repo, cs)
			}

			if outcomes == nil {
				fmt.Println("Changeset already processed, skipping")
				return nil
			}
			if len(outcomes) == 0 {
				fmt.Println("No ticket commands found in message")
				return nil
			}

			printOutcomes(outcomes)
			return nil
		},
	}

	cmd.Flags().StringVar(&rev, "rev", "", "changeset revision")
	cmd.Flags().StringVar(&message, "message", "", "commit message")
	cmd.Flags().StringVar(&author, "author", "", "commit author")
	cmd.Flags().StringVar(&repoName, "repo", "", "repository name (empty for default)")
	cmd.Flags().IntVar(&shortRevLen, "short-rev-len", 0, "shorten revisions to this length in comments")
	cmd.Flags().StringVar(&event, "event", "added", "event type: added or modified")
	cmd.Flags().StringVar(&oldMessage, "old-message", "", "previous commit message (modified events)")
	cmd.MarkFlagRequired("rev")
	cmd.MarkFlagRequired("message")
	cmd.MarkFlagRequired("author")

	return cmd
}

func printOutcomes(outcomes map[int]*primary.TicketOutcome) {
	ids := make([]int, 0, len(outcomes))
	for id := range outcomes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		o := outcomes[id]
		ref := color.New(color.FgCyan).Sprintf("#%d", id)
		switch {
		case o.Ticket == nil:
			fmt.Printf("%s %s\n", ref, color.New(color.FgRed).Sprint("not found"))
		case !o.Saved:
			fmt.Printf("%s %s\n", ref, color.New(color.FgYellow).Sprint("skipped"))
		default:
			cmds := strings.Join(o.AppliedCommands, ", ")
			state := o.Ticket.Status
			if o.Ticket.Resolution != "" {
				state += "/" + o.Ticket.Resolution
			}
			fmt.Printf("%s %s → %s", ref, cmds, color.New(color.FgHiGreen).Sprint(state))
			if o.Ticket.Owner != "" {
				fmt.Printf(" (owner: %s)", o.Ticket.Owner)
			}
			fmt.Println()
		}
	}
}
