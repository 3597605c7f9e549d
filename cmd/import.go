package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oss-clearing/licsum/internal/fetch"
	"github.com/oss-clearing/licsum/internal/prompt"
	"github.com/oss-clearing/licsum/internal/utils"
	"github.com/oss-clearing/licsum/pkg/importer"
	"github.com/oss-clearing/licsum/pkg/license"
	"github.com/oss-clearing/licsum/pkg/spdx"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [scan-report-file]",
	Short: "Import an SPDX scan report as a new scan",
	Long: `Parses an SPDX report (tag-value or JSON), categorizes every license
expression it finds, and saves the result as a new scan. Expressions the
project has never seen are escalated to you interactively; cancelling the
dialog aborts the whole import and leaves the database untouched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		if (len(args) == 0) == (url == "") {
			return errors.New("provide exactly one of a report file or --url")
		}

		var data []byte
		var err error
		if url != "" {
			utils.Log.Infof("fetching report from %s", url)
			data, err = fetch.Report(url)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return err
		}

		records, warnings, err := parseReport(cmd, data)
		if err != nil {
			return err
		}
		if warnings > 0 {
			utils.Log.Warnf("report contained %d malformed lines, ignored", warnings)
		}
		if len(records) == 0 {
			return errors.New("report contains no file records")
		}

		db, path, err := openExistingDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		lock, err := utils.NewDBLock(path)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		date, _ := cmd.Flags().GetString("date")
		desc, _ := cmd.Flags().GetString("desc")
		precedence, _ := cmd.Flags().GetString("precedence")

		decider := prompt.NewConsoleDecider(os.Stdin, os.Stdout)
		scan, err := importer.New(db, decider).Import(context.Background(), records, importer.Options{
			Date:        date,
			Description: desc,
			Precedence:  precedence,
		})
		if errors.Is(err, license.ErrEscalationAbandoned) {
			return errors.New("import cancelled; no changes were saved")
		}
		if err != nil {
			return err
		}

		fmt.Printf("Imported scan %d (%s, %s)\n", scan.ID, scan.Date, scan.Description)
		return nil
	},
}

// parseReport picks the parser from --format, or from the content (a leading
// brace means JSON) when the flag is left at auto.
func parseReport(cmd *cobra.Command, data []byte) ([]spdx.FileRecord, int, error) {
	format, _ := cmd.Flags().GetString("format")
	if format == "auto" {
		if len(bytes.TrimSpace(data)) > 0 && bytes.TrimSpace(data)[0] == '{' {
			format = "json"
		} else {
			format = "tagvalue"
		}
	}

	switch format {
	case "tagvalue":
		return spdx.ParseTagValue(bytes.NewReader(data))
	case "json":
		records, err := spdx.ParseJSON(data)
		return records, 0, err
	default:
		return nil, 0, fmt.Errorf("unknown report format %q (want tagvalue or json)", format)
	}
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringP("url", "u", "", "Download the report from a URL instead of reading a file")
	importCmd.Flags().StringP("format", "f", "auto", "Report format: tagvalue, json or auto")
	importCmd.Flags().String("date", "", "Scan date as YYYY-MM-DD (default today)")
	importCmd.Flags().String("desc", "", "Scan description")
	importCmd.Flags().String("precedence", "", "License precedence for multi-license files: non-default or first")
}
