/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/streakwing/store"
	"github.com/spf13/cobra"
)

var importYes bool

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write every streak to a .json, .yaml or .toml file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			n, err := store.Export(cmd.Context(), appFs, a.store, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d streak(s) to %s.\n", n, args[0])
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace every streak with the contents of an export file",
	Long: `Replace the whole streak collection with the contents of a .json, .yaml or
.toml export. Every record is validated first; nothing changes if any record is
invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !importYes && isInteractive() {
			ok, err := confirm(fmt.Sprintf("Replace all streaks with %s", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled.")
				return nil
			}
		}
		return withApp(cmd, func(a *app) error {
			n, err := store.Import(cmd.Context(), appFs, a.store, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d streak(s) from %s.\n", n, args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "skip the confirmation prompt")
}
