package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/magenta-aps/go-dar-client/addrfilter"
	"github.com/magenta-aps/go-dar-client/dar"
)

var (
	inputFile  string
	filterExpr string
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [<uuid>...]",
	Short: "Resolve DAR UUIDs in bulk",
	Long: `Resolve a set of DAR UUIDs with chunked, concurrent bulk requests.

UUIDs are taken from the arguments, or one per line from --input (use "-"
for stdin). Results can be narrowed with an --filter expression, e.g.:

  darctl fetch --input uuids.txt --filter 'Addr.PostalCode == "8200"'`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&inputFile, "input", "i", "", "file with one UUID per line (\"-\" for stdin)")
	fetchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to resolved addresses")
	fetchCmd.Flags().StringSliceVar(&addrTypeNames, "type", nil, "address collections to query (adresser, adgangsadresser, ...)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ids, err := collectUUIDs(args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no UUIDs given; pass them as arguments or via --input")
	}

	addrTypes, err := parseAddressTypes(addrTypeNames)
	if err != nil {
		return err
	}

	// Compile the filter up front so a bad expression fails fast.
	var filter *addrfilter.Filter
	if filterExpr != "" {
		filter, err = addrfilter.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	logger.Info().Int("count", len(ids)).Msg("Fetching addresses")

	ctx := context.Background()
	result, err := darClient.Fetch(ctx, ids, addrTypes...)
	if err != nil {
		return err
	}

	addrs := sortedAddresses(result.Found)
	if filter != nil {
		addrs, err = filter.Apply(addrs)
		if err != nil {
			return err
		}
	}

	if err := printJSON(addrs); err != nil {
		return err
	}

	fmt.Printf("\nResolved %d of %d addresses", len(result.Found), len(ids))
	if filter != nil {
		fmt.Printf(", %d matching filter", len(addrs))
	}
	fmt.Println()

	if len(result.Missing) > 0 {
		fmt.Printf("Missing %d:\n", len(result.Missing))
		for _, id := range result.Missing {
			fmt.Printf("  %s\n", id)
		}
	}

	return nil
}

// collectUUIDs gathers UUIDs from arguments and the optional input file
func collectUUIDs(args []string) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID %q: %w", arg, err)
		}
		ids = append(ids, id)
	}

	if inputFile == "" {
		return ids, nil
	}

	var in *os.File
	if inputFile == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		in = f
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, err := uuid.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("invalid UUID %q in input: %w", line, err)
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return ids, nil
}

// sortedAddresses flattens a result map into a stable slice
func sortedAddresses(found map[uuid.UUID]dar.Address) []dar.Address {
	addrs := make([]dar.Address, 0, len(found))
	for _, addr := range found {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].ID.String() < addrs[j].ID.String()
	})
	return addrs
}
