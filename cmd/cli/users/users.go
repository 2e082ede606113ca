package users

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/crucial707/guestbook/cmd/cli/client"
	"github.com/crucial707/guestbook/cmd/cli/output"
	"github.com/crucial707/guestbook/internal/models"
	"github.com/spf13/cobra"
)

// ==========================
// Init Users
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	usersCmd.AddCommand(
		listUsersCmd(),
		mostUsersCmd(),
		getUserCmd(),
		createUserCmd(),
		updateUserCmd(),
		deleteUserCmd(),
	)

	rootCmd.AddCommand(usersCmd)
}

func renderCounts(cmd *cobra.Command, counts []models.UserWithGuestbookCount, asJSON bool) error {
	if asJSON {
		return client.PrintJSON(cmd.OutOrStdout(), counts)
	}
	rows := make([][]interface{}, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []interface{}{c.ID, c.Username, c.GuestbookCount})
	}
	output.RenderTable(cmd.OutOrStdout(), []string{"ID", "USERNAME", "GUESTBOOKS"}, rows)
	return nil
}

// ==========================
// LIST
// ==========================
func listUsersCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users with their guestbook counts, most first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var counts []models.UserWithGuestbookCount
			if err := client.Do(http.MethodGet, "/users", nil, &counts); err != nil {
				return err
			}
			return renderCounts(cmd, counts, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// MOST
// ==========================
func mostUsersCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "most",
		Short: "Show the user with the most guestbooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			var counts []models.UserWithGuestbookCount
			if err := client.Do(http.MethodGet, "/users/most", nil, &counts); err != nil {
				return err
			}
			if len(counts) == 0 && !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), "No users.")
				return nil
			}
			return renderCounts(cmd, counts, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

// ==========================
// GET
// ==========================
func getUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show a user and their guestbooks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			var user models.UserWithGuestbooks
			if err := client.Do(http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
				return err
			}
			return client.PrintJSON(cmd.OutOrStdout(), user)
		},
	}
}

// ==========================
// CREATE
// ==========================
func createUserCmd() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var user models.User
			payload := map[string]string{"username": username, "email": email}
			if err := client.Do(http.MethodPost, "/users", payload, &user); err != nil {
				return err
			}
			return client.PrintJSON(cmd.OutOrStdout(), user)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateUserCmd() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Replace a user's username and email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			var user models.User
			payload := map[string]string{"username": username, "email": email}
			if err := client.Do(http.MethodPut, fmt.Sprintf("/users/%d", id), payload, &user); err != nil {
				return err
			}
			return client.PrintJSON(cmd.OutOrStdout(), user)
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a user and all of their guestbooks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			if err := client.Do(http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "User deleted")
			return nil
		},
	}
}
