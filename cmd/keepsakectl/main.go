package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keepsakehq/keepsake/server/client"
)

var (
	apiFlag   string
	tokenFlag string
	rootCmd   = &cobra.Command{
		Use:   "keepsakectl",
		Short: "CLI client for the keepsake REST API",
	}
)

// newClient builds the API client from the global flags. With no token it
// falls back to the shared local development token.
func newClient() *client.Client {
	if tokenFlag == "" {
		return client.NewWithDevMode(apiFlag)
	}
	return client.New(apiFlag, tokenFlag)
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Keepsake service base URL")
	rootCmd.PersistentFlags().StringVarP(&tokenFlag, "token", "t", os.Getenv("KEEPSAKE_API_TOKEN"), "API token (defaults to the local dev token)")

	rootCmd.AddCommand(newMeCmd())
	rootCmd.AddCommand(newMemoriesCmd())
	rootCmd.AddCommand(newPeopleCmd())
	rootCmd.AddCommand(newPlacesCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newAttributesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
