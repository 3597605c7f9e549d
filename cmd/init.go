package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oss-clearing/licsum/internal/utils"
	"github.com/oss-clearing/licsum/pkg/project"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init <project-config.json>",
	Short: "Create and seed a project database from a JSON config file",
	Long: `Creates the project database and seeds it with the categories, known
license expressions and display conversions from the given JSON config file.
A database can only be initialized once.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := project.Load(args[0])
		if err != nil {
			return err
		}

		path, err := databasePath(cmd)
		if err != nil {
			return err
		}

		lock, err := utils.NewDBLock(path)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		db, _, err := openDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := project.Seed(context.Background(), db, cfg); err != nil {
			return err
		}

		fmt.Printf("Initialized project %q in %s\n", cfg.Project, path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
