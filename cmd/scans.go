package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// scansCmd represents the scans command
var scansCmd = &cobra.Command{
	Use:   "scans",
	Short: "List the scans stored in the project database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openExistingDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		scans, err := db.Scans(context.Background())
		if err != nil {
			return err
		}
		if len(scans) == 0 {
			fmt.Println("No scans in the database.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tDESCRIPTION\t")
		for _, s := range scans {
			fmt.Fprintf(w, "%d\t%s\t%s\t\n", s.ID, s.Date, s.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(scansCmd)
}
