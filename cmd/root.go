package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/oss-clearing/licsum/internal/utils"
	"github.com/oss-clearing/licsum/pkg/storage"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "licsum",
	Short: "Summarize and track license scan results for a project.",
	Long: `licsum imports SPDX scan reports into a per-project SQLite database,
categorizes the license expressions it finds, and produces CSV and Excel
summaries plus scan-to-scan comparisons.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.licsum.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("dbpath", "d", "", "Path to the project SQLite database (default is licsum.sqlite)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".licsum")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.licsum.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	viper.SetDefault("dbpath", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// databasePath resolves the database path: --dbpath flag first, then the
// yaml config, then licsum.sqlite in the working directory.
func databasePath(cmd *cobra.Command) (string, error) {
	p, _ := cmd.Flags().GetString("dbpath")
	if p == "" {
		p = viper.GetString("dbpath")
	}
	return utils.GetAbsDBPath(p)
}

// openDB opens the project database named by the command's flags.
func openDB(cmd *cobra.Command) (*storage.DB, string, error) {
	path, err := databasePath(cmd)
	if err != nil {
		return nil, "", err
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database %s: %w", path, err)
	}
	return db, path, nil
}

// openExistingDB refuses to proceed when the database file is absent, so
// commands other than init don't silently create an empty one.
func openExistingDB(cmd *cobra.Command) (*storage.DB, string, error) {
	path, err := databasePath(cmd)
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, "", fmt.Errorf("database file not found: %s (run licsum init first)", path)
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database %s: %w", path, err)
	}
	return db, path, nil
}
