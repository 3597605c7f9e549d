package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oss-clearing/licsum/pkg/compare"
	"github.com/oss-clearing/licsum/pkg/report"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <first-scan-id> <second-scan-id>",
	Short: "Compare the files and licenses of two scans",
	Long: `Compares two scans file by file: licenses that changed between them,
files only in the first scan, and files only in the second. Prints the result
unless --xlsx is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		firstID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("scan id must be a number, got %q", args[0])
		}
		secondID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("scan id must be a number, got %q", args[1])
		}

		includeGit, _ := cmd.Flags().GetBool("include-git")

		db, _, err := openExistingDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		firstRows, err := db.FilesForScan(ctx, firstID, !includeGit)
		if err != nil {
			return err
		}
		secondRows, err := db.FilesForScan(ctx, secondID, !includeGit)
		if err != nil {
			return err
		}

		res := compare.Scans(compare.FileLicenses(firstRows), compare.FileLicenses(secondRows))

		if xlsxPath, _ := cmd.Flags().GetString("xlsx"); xlsxPath != "" {
			if err := report.SaveExcelComparison(xlsxPath, res); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", xlsxPath)
			return nil
		}

		printComparison(res, firstID, secondID)
		return nil
	},
}

func printComparison(res compare.Result, firstID, secondID int64) {
	if len(res.Changed) == 0 && len(res.OnlyInFirst) == 0 && len(res.OnlyInSecond) == 0 {
		fmt.Printf("Scans %d and %d are identical.\n", firstID, secondID)
		return
	}

	if len(res.Changed) > 0 {
		fmt.Printf("Changed licenses (%d):\n", len(res.Changed))
		for _, c := range res.Changed {
			fmt.Printf("  %s: %s => %s\n", c.Filename, c.First, c.Second)
		}
	}
	if len(res.OnlyInFirst) > 0 {
		fmt.Printf("Only in scan %d (%d):\n", firstID, len(res.OnlyInFirst))
		for _, e := range res.OnlyInFirst {
			fmt.Printf("  %s (%s)\n", e.Filename, e.License)
		}
	}
	if len(res.OnlyInSecond) > 0 {
		fmt.Printf("Only in scan %d (%d):\n", secondID, len(res.OnlyInSecond))
		for _, e := range res.OnlyInSecond {
			fmt.Printf("  %s (%s)\n", e.Filename, e.License)
		}
	}
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().String("xlsx", "", "Write the comparison as an Excel file to this path")
	compareCmd.Flags().Bool("include-git", false, "Include files under .git directories")
}
