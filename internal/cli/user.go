package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/tickethook/internal/ports/secondary"
)

// UserCmd returns the user command
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage tracker accounts and permissions",
		Long:  "Add and list tracker accounts, and grant or revoke ticket permissions",
	}

	cmd.AddCommand(userAddCmd())
	cmd.AddCommand(userListCmd())
	cmd.AddCommand(userGrantCmd())
	cmd.AddCommand(userRevokeCmd())
	return cmd
}

func userAddCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add [username] [email]",
		Short: "Add or update a tracker account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}

			user := secondary.UserRecord{
				Username: args[0],
				Name:     name,
				Email:    args[1],
			}
			if err := app.Users.AddUser(context.Background(), user); err != nil {
				return fmt.Errorf("failed to add user: %w", err)
			}

			fmt.Printf("✓ Added user %s <%s>\n", user.Username, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	return cmd
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracker accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}

			users, err := app.Users.KnownUsers(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}
			if len(users) == 0 {
				fmt.Println("No users found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USERNAME\tNAME\tEMAIL")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.Username, u.Name, u.Email)
			}
			return w.Flush()
		},
	}
}

func userGrantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant [username] [action]",
		Short: "Grant a permission action to a user",
		Long:  fmt.Sprintf("Grant a permission action, e.g. %s to allow commit-driven ticket updates.", secondary.CapTicketModify),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}

			if err := app.Perms.Grant(context.Background(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to grant permission: %w", err)
			}
			fmt.Printf("✓ Granted %s to %s\n", args[1], args[0])
			return nil
		},
	}
}

func userRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke [username] [action]",
		Short: "Revoke a permission action from a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp()
			if err != nil {
				return err
			}

			if err := app.Perms.Revoke(context.Background(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to revoke permission: %w", err)
			}
			fmt.Printf("✓ Revoked %s from %s\n", args[1], args[0])
			return nil
		},
	}
}
