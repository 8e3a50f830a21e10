package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/senecapartners/seneca-cms-backend/config"
	"github.com/senecapartners/seneca-cms-backend/database"
)

var (
	// Global flags
	siteID     uint
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "senecactl",
	Short: "Operator tool for the Seneca CMS backend",
	Long: `senecactl runs maintenance tasks against the Seneca CMS database.
Connection settings come from the same environment variables (or .env) as the server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrBrokenLinks):
		return 2
	default:
		return 1
	}
}

func init() {
	rootCmd.PersistentFlags().UintVar(&siteID, "site", 0, "Site ID (defaults to the configured default site)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func connect() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func printJSON(v interface{}) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
