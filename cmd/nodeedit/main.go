// Nodeedit is a terminal editor for the properties of Neo4j nodes.
//
// It loads nodes by label or with a custom Cypher query, shows them in a
// paginated table and edits the selected node in a form whose controls
// follow the property types: option lists built from values seen on
// similar nodes, toggles, point and date editors. Every update is
// confirmed before it is written.
//
// Usage:
//
//	nodeedit [command] [flags]
//
// Running without arguments opens the interactive editor.
// See 'nodeedit --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/nodeedit/internal/config"
	"github.com/muurk/nodeedit/internal/logging"
	"github.com/muurk/nodeedit/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nodeedit",
	Short: "Neo4j Node Property Editor",
	Long: `A terminal editor for the properties of Neo4j nodes.

Loads nodes by label or with a custom Cypher query, shows them in a
paginated, sortable table and edits the selected node in a form whose
controls follow the property types. Every update is confirmed first and
merged onto the node with SET n += $properties.

If no command is specified, the interactive editor launches automatically.

Connection settings come from the selected profile (see 'nodeedit profile')
and can be overridden with flags. The password is read from NEO4J_PASSWORD
or prompted for; it is never stored.`,
	Version:           version.Version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: open the editor when no subcommand provided
		return runEdit(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nodeedit %s (commit: %s)\n", version.Version, version.Commit)
	},
}

// initLogging sets up file logging before any command runs. The --log-level
// flag wins over NODEEDIT_LOG_LEVEL.
func initLogging(cmd *cobra.Command, args []string) error {
	logPath, err := config.GetLogPath()
	if err != nil {
		logPath = ""
	}
	if logLevel != "" {
		if path := os.Getenv(logging.LogFileEnvVar); path != "" {
			logPath = path
		}
		return logging.Initialize(logLevel, logPath)
	}
	return logging.InitializeFromEnv(logPath)
}
