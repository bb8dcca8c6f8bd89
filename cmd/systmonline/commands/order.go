package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"systmonline-cli/lib/scrapers/systmonline"

	"github.com/spf13/cobra"
)

var orderAll *bool

func init() {
	orderAll = orderCmd.Flags().Bool("all", false, "Order every medication that can currently be ordered.")
	rootCmd.AddCommand(orderCmd)
}

var orderCmd = &cobra.Command{
	Use:   "order [--all]",
	Short: "Request a re-order of repeat medications.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := createClient(ctx)

		meds, err := client.QueryMedications(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}

		var orderable []systmonline.Medication
		for _, med := range meds {
			if med.Orderable {
				orderable = append(orderable, med)
			}
		}
		if len(orderable) == 0 {
			fmt.Println("No medications available for ordering.")
			return
		}

		renderMedications(orderable)

		selected := orderable
		if !*orderAll {
			selected = promptSelection(os.Stdin, orderable)
		}
		if len(selected) == 0 {
			fmt.Println("No medications selected for ordering.")
			return
		}

		ids := make([]string, len(selected))
		for i, med := range selected {
			ids[i] = med.Id
		}

		err = client.OrderMedications(ctx, ids)
		if errors.Is(err, systmonline.ErrNoneSelected) {
			fmt.Println("No medications selected for ordering.")
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		fmt.Println("Medication request submitted successfully.")
	},
}

// promptSelection reads comma separated 1-based indices into the
// displayed table. Anything that doesn't parse yields an empty
// selection with a message rather than a failure.
func promptSelection(in *os.File, orderable []systmonline.Medication) []systmonline.Medication {
	fmt.Print("\nEnter the medication indices to order (comma separated, e.g. 1,2,5): ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Println("Invalid input. Please enter numbers separated by commas.")
		return nil
	}

	var selected []systmonline.Medication
	var names []string
	for _, field := range strings.Split(strings.TrimSpace(line), ",") {
		index, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || index < 1 || index > len(orderable) {
			fmt.Println("Invalid input. Please enter numbers separated by commas.")
			return nil
		}
		selected = append(selected, orderable[index-1])
		names = append(names, orderable[index-1].Name)
	}

	fmt.Println("\nOrdered medications:", strings.Join(names, ", "))
	return selected
}
