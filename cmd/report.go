package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oss-clearing/licsum/internal/utils"
	"github.com/oss-clearing/licsum/pkg/report"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <scan-id>",
	Short: "Write a CSV or Excel report for one scan",
	Long: `Writes per-file license listings for a scan. The CSV report is a flat
file/license table; the Excel report adds a license-count summary sheet and
one sheet per category. At least one of --csv and --xlsx is required.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scanID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("scan id must be a number, got %q", args[0])
		}

		csvPath, _ := cmd.Flags().GetString("csv")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")
		if csvPath == "" && xlsxPath == "" {
			return errors.New("nothing to do: pass --csv and/or --xlsx")
		}
		includeGit, _ := cmd.Flags().GetBool("include-git")

		db, _, err := openExistingDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()

		if csvPath != "" {
			rows, err := db.FilesForScan(ctx, scanID, !includeGit)
			if err != nil {
				return err
			}
			if n := report.RelabelVendorFiles(rows); n > 0 {
				utils.Log.Infof("relabeled %d unlicensed files under vendor directories", n)
			}
			if err := report.SaveCSV(csvPath, rows); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d files)\n", csvPath, len(rows))
		}

		if xlsxPath != "" {
			groups, err := db.CategoryFilesForScan(ctx, scanID, !includeGit)
			if err != nil {
				return err
			}
			if n := report.RelabelVendorFilesGrouped(groups); n > 0 {
				utils.Log.Infof("relabeled %d unlicensed files under vendor directories", n)
			}
			if err := report.SaveExcelFull(xlsxPath, groups); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", xlsxPath)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("csv", "", "Write a CSV report to this path")
	reportCmd.Flags().String("xlsx", "", "Write an Excel report to this path")
	reportCmd.Flags().Bool("include-git", false, "Include files under .git directories")
}
