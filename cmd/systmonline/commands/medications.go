package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(medicationsCmd)
}

var medicationsCmd = &cobra.Command{
	Use:   "medications",
	Short: "List the repeat medications on the account.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := createClient(ctx)

		meds, err := client.QueryMedications(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if len(meds) == 0 {
			fmt.Println("No medications found.")
			return
		}

		renderMedications(meds)
	},
}
