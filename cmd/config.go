package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oss-clearing/licsum/internal/utils"
	"github.com/oss-clearing/licsum/pkg/storage"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change project configuration in the database",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configurable keys and their values",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openExistingDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		config, err := db.ConfigurableConfig(context.Background())
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(config))
		for k := range config {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE\t")
		for _, k := range keys {
			fmt.Fprintf(w, "%s\t%s\t\n", k, config[k])
		}
		return w.Flush()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one config value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := openExistingDB(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		value, err := db.ConfigValue(context.Background(), args[0])
		if errors.Is(err, storage.ErrNoSuchKey) {
			return fmt.Errorf("no config key %q", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		if err := db.SetConfigValue(context.Background(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
