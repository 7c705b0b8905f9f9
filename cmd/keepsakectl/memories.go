package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newMemoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memories",
		Short: "List, search and re-associate memories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all memories",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newClient().ListMemories(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	})

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search memories by title or description",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			out, err := newClient().SearchMemories(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	}
	searchCmd.Flags().StringP("query", "q", "", "Search query text (required)")
	_ = searchCmd.MarkFlagRequired("query")
	cmd.AddCommand(searchCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <memoryId>",
		Short: "Show one memory with its associations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newClient().GetMemory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	})

	setEventCmd := &cobra.Command{
		Use:   "set-event <memoryId>",
		Short: "Attach a memory to an event, or detach with --clear",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, _ := cmd.Flags().GetString("event")
			clear, _ := cmd.Flags().GetBool("clear")
			if (eventID == "") == !clear {
				return fmt.Errorf("exactly one of --event or --clear is required")
			}
			var ref *string
			if !clear {
				ref = &eventID
			}
			out, err := newClient().SetMemoryEvent(cmd.Context(), args[0], ref)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	}
	setEventCmd.Flags().StringP("event", "e", "", "Event ID to attach")
	setEventCmd.Flags().Bool("clear", false, "Detach the current event")
	cmd.AddCommand(setEventCmd)

	setPlaceCmd := &cobra.Command{
		Use:   "set-place <memoryId>",
		Short: "Set a memory's place, or clear it with --clear",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			placeID, _ := cmd.Flags().GetString("place")
			clear, _ := cmd.Flags().GetBool("clear")
			if (placeID == "") == !clear {
				return fmt.Errorf("exactly one of --place or --clear is required")
			}
			var ref *string
			if !clear {
				ref = &placeID
			}
			out, err := newClient().SetMemoryPlace(cmd.Context(), args[0], ref)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, out)
		},
	}
	setPlaceCmd.Flags().StringP("place", "p", "", "Place ID to set")
	setPlaceCmd.Flags().Bool("clear", false, "Clear the current place")
	cmd.AddCommand(setPlaceCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <memoryId>",
		Short: "Delete a memory and its stored media",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().DeleteMemory(cmd.Context(), args[0])
		},
	})

	return cmd
}
