package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/nodeedit/internal/config"
	"github.com/muurk/nodeedit/internal/ui"
)

// Profile command flags
var (
	profileAPOC bool
	profileUse  bool
)

func init() {
	profileAddCmd.Flags().BoolVar(&profileAPOC, "apoc", false, "Server has APOC installed (faster suggestions)")
	profileAddCmd.Flags().BoolVar(&profileUse, "use", false, "Make this the current profile")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileRemoveCmd)
	profileCmd.AddCommand(profileUseCmd)
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage connection profiles",
	Long: `Manage the connection profiles stored in the config file.

A profile holds the URI, username, database and what to load (label or
custom query). Passwords are never stored; set NEO4J_PASSWORD or enter the
password when prompted.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		printer := ui.NewPrinter(cmd.OutOrStdout())

		names := reg.ProfileNames()
		if outputFormat != ui.FormatTable {
			return printer.Encode(outputFormat, reg.Profiles)
		}
		if len(names) == 0 {
			printer.Println("No profiles configured.")
			printer.Println("Use 'nodeedit profile add <name> --uri neo4j://localhost:7687' to create one.")
			return nil
		}
		for _, name := range names {
			p := reg.Profiles[name]
			marker := "  "
			if name == reg.CurrentProfile {
				marker = ui.SuccessMarker + " "
			}
			printer.Println(fmt.Sprintf("%s%s", marker, ui.ResultKeyStyle.Render(name)))
			printer.Println(fmt.Sprintf("    URI:  %s", p.URI))
			if p.Username != "" {
				printer.Println(fmt.Sprintf("    User: %s", p.Username))
			}
			if p.Database != "" {
				printer.Println(fmt.Sprintf("    DB:   %s", p.Database))
			}
			switch {
			case p.Query != "":
				printer.Println(fmt.Sprintf("    Load: %s", p.Query))
			case p.Label != "":
				printer.Println(fmt.Sprintf("    Load: :%s (limit %d)", p.Label, p.EffectiveLimit()))
			}
		}
		return nil
	},
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or replace a profile",
	Long: `Add a profile from the connection flags, replacing any profile with the
same name. The first profile added becomes the current one.`,
	Example: `  nodeedit profile add local --uri neo4j://localhost:7687 --user neo4j --label Person
  nodeedit profile add aura --uri neo4j+s://xxxx.databases.neo4j.io --apoc --use`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		p := &config.Profile{
			URI:      uriFlag,
			Username: userFlag,
			Database: databaseFlag,
			Label:    labelFlag,
			Query:    queryFlag,
			Limit:    limitFlag,
			APOC:     profileAPOC,
		}
		if err := reg.SetProfile(args[0], p); err != nil {
			return err
		}
		if profileUse {
			if err := reg.UseProfile(args[0]); err != nil {
				return err
			}
		}
		if err := reg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Profile saved",
			ui.Detail{Key: "Name", Value: args[0]},
			ui.Detail{Key: "URI", Value: p.URI},
			ui.Detail{Key: "Current", Value: reg.CurrentProfile},
		)
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a profile",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := reg.RemoveProfile(args[0]); err != nil {
			return err
		}
		if err := reg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		ui.NewPrinter(cmd.OutOrStdout()).Println(fmt.Sprintf("Removed profile %s", args[0]))
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Select the current profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := reg.UseProfile(args[0]); err != nil {
			return err
		}
		if err := reg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		ui.NewPrinter(cmd.OutOrStdout()).Println(fmt.Sprintf("Now using profile %s", args[0]))
		return nil
	},
}
