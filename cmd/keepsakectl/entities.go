package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated account",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newClient().SyncUser(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	}
}

func newPeopleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "people",
		Short: "List and search people",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all people",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newClient().ListPersons(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	})
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search people by name, email or role",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			out, err := newClient().SearchPersons(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	}
	searchCmd.Flags().StringP("query", "q", "", "Search query text (required)")
	_ = searchCmd.MarkFlagRequired("query")
	cmd.AddCommand(searchCmd)
	return cmd
}

func newPlacesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "places",
		Short: "List and search places",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all places",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newClient().ListPlaces(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	})
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search places by name, city or address",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			out, err := newClient().SearchPlaces(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	}
	searchCmd.Flags().StringP("query", "q", "", "Search query text (required)")
	_ = searchCmd.MarkFlagRequired("query")
	cmd.AddCommand(searchCmd)
	return cmd
}

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List and search events",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all events",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newClient().ListEvents(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	})
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search events by title",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			out, err := newClient().SearchEvents(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	}
	searchCmd.Flags().StringP("query", "q", "", "Search query text (required)")
	_ = searchCmd.MarkFlagRequired("query")
	cmd.AddCommand(searchCmd)
	return cmd
}

func newAttributesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attributes",
		Short: "Browse the attribute vocabulary",
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List attributes for an entity type",
		RunE: func(cmd *cobra.Command, args []string) error {
			entityType, _ := cmd.Flags().GetString("entity-type")
			out, err := newClient().ListAttributes(cmd.Context(), entityType)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	}
	listCmd.Flags().StringP("entity-type", "e", "", "Entity type: person, event, place or all (empty for everything)")
	cmd.AddCommand(listCmd)
	return cmd
}
