package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/magenta-aps/go-dar-client/dar"
)

var (
	municipality string
	perPage      int
	suggestType  string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search addresses by free text",
	Long: `Search the registry with the autocomplete endpoint and print the
suggestions. Useful for finding the DAR UUID of an address you only know
by name:

  darctl search "Åbogade 15" --municipality 0751`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&municipality, "municipality", "m", "", "restrict to a municipality code (e.g. 0101)")
	searchCmd.Flags().IntVarP(&perPage, "per-page", "n", 10, "maximum number of suggestions")
	searchCmd.Flags().StringVar(&suggestType, "suggest-type", "", "suggestion kind: adresse, adgangsadresse or vejnavn")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	items, err := darClient.Autocomplete(ctx, args[0], dar.AutocompleteOptions{
		MunicipalityCode: municipality,
		PerPage:          perPage,
		Type:             suggestType,
	})
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("No addresses found.")
		return nil
	}

	fmt.Printf("Found %d suggestions:\n", len(items))
	fmt.Println(strings.Repeat("-", 60))
	for _, item := range items {
		fmt.Printf("• %s\n", item.Text)
		if item.Data.ID != uuid.Nil {
			fmt.Printf("  %s  %s\n", item.Type, item.Data.ID)
		}
	}

	return nil
}
