// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-figures/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List previously harvested papers",
	Long: `List prints the contents of the harvest index under the output root:
one row per paper with its arXiv ID, figure count, harvest time, and title.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("output", "output", "output root directory holding the harvest index")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("output")

	idx, err := store.Open(root)
	if err != nil {
		return fmt.Errorf("opening harvest index: %w", err)
	}
	defer idx.Close()

	records, err := idx.List()
	if err != nil {
		return fmt.Errorf("reading harvest index: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No harvested papers.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tIMAGES\tHARVESTED\tTITLE")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
			rec.ID, rec.ImageCount, rec.HarvestedAt.Format("2006-01-02 15:04"), rec.Title)
	}
	return w.Flush()
}
