package guestbooks

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/crucial707/guestbook/cmd/cli/client"
	"github.com/crucial707/guestbook/cmd/cli/output"
	"github.com/crucial707/guestbook/internal/models"
	"github.com/spf13/cobra"
)

// InitGuestbooks registers the guestbooks command tree on rootCmd.
func InitGuestbooks(rootCmd *cobra.Command) {
	guestbooksCmd := &cobra.Command{
		Use:     "guestbooks",
		Aliases: []string{"gb"},
		Short:   "Manage guestbook messages",
	}

	guestbooksCmd.AddCommand(
		listGuestbooksCmd(),
		byUserCmd(),
		getGuestbookCmd(),
		createGuestbookCmd(),
		updateGuestbookCmd(),
		deleteGuestbookCmd(),
	)

	rootCmd.AddCommand(guestbooksCmd)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func listGuestbooksCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all guestbooks with their author",
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []models.GuestbookWithUsername
			if err := client.Do(http.MethodGet, "/guestbooks", nil, &list); err != nil {
				return err
			}
			if asJSON {
				return client.PrintJSON(cmd.OutOrStdout(), list)
			}
			rows := make([][]interface{}, 0, len(list))
			for _, g := range list {
				rows = append(rows, []interface{}{g.ID, g.Username, g.UserID, g.Message})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "USERNAME", "USER ID", "MESSAGE"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func byUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-user [user_id]",
		Short: "List the guestbooks of one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0])
			if err != nil {
				return err
			}
			var list []models.Guestbook
			if err := client.Do(http.MethodGet, fmt.Sprintf("/users/%d/guestbooks", userID), nil, &list); err != nil {
				return err
			}
			rows := make([][]interface{}, 0, len(list))
			for _, g := range list {
				rows = append(rows, []interface{}{g.ID, g.Message})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "MESSAGE"}, rows)
			return nil
		},
	}
}

func getGuestbookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [id]",
		Short: "Show one guestbook with its author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var g models.GuestbookWithUsername
			if err := client.Do(http.MethodGet, fmt.Sprintf("/guestbooks/%d", id), nil, &g); err != nil {
				return err
			}
			return client.PrintJSON(cmd.OutOrStdout(), g)
		},
	}
}

func createGuestbookCmd() *cobra.Command {
	var message string
	var userID int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create guestbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			var g models.Guestbook
			payload := map[string]any{"message": message, "user_id": userID}
			if err := client.Do(http.MethodPost, "/guestbooks", payload, &g); err != nil {
				return err
			}
			return client.PrintJSON(cmd.OutOrStdout(), g)
		},
	}

	cmd.Flags().StringVar(&message, "message", "", "message text")
	cmd.Flags().IntVar(&userID, "user-id", 0, "id of the owning user")
	cmd.MarkFlagRequired("message")
	cmd.MarkFlagRequired("user-id")
	return cmd
}

func updateGuestbookCmd() *cobra.Command {
	var message string
	var userID int

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Replace a guestbook's message and owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var g models.Guestbook
			payload := map[string]any{"message": message, "user_id": userID}
			if err := client.Do(http.MethodPut, fmt.Sprintf("/guestbooks/%d", id), payload, &g); err != nil {
				return err
			}
			return client.PrintJSON(cmd.OutOrStdout(), g)
		},
	}

	cmd.Flags().StringVar(&message, "message", "", "message text")
	cmd.Flags().IntVar(&userID, "user-id", 0, "id of the owning user")
	cmd.MarkFlagRequired("message")
	cmd.MarkFlagRequired("user-id")
	return cmd
}

func deleteGuestbookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete guestbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := client.Do(http.MethodDelete, fmt.Sprintf("/guestbooks/%d", id), nil, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Guestbook deleted")
			return nil
		},
	}
}
