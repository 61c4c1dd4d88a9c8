// ABOUTME: CLI commands for managing accounts on this device.
// ABOUTME: Lists, adds and switches between user profiles.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/care4u/internal/models"
)

var (
	accountName       string
	accountAge        int
	accountConditions string
)

var accountsCmd = &cobra.Command{
	Use:     "accounts",
	Aliases: []string{"account", "a"},
	Short:   "Manage accounts on this device",
	Long: `Manage the people who use Care4U on this device.

The active account is marked with ✓. Switching makes another account active
and keeps the previous one in the list.

EXAMPLES:

  care4u accounts list
  care4u accounts add grandpa --name "Joe" --age 81
  care4u accounts switch grandpa`,
}

var accountsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := st.Snapshot()
		faint := color.New(color.Faint)

		if snap.User.Username == "" && len(snap.Accounts) == 0 {
			fmt.Println("No accounts yet. Run 'care4u' to sign up.")
			return nil
		}

		if snap.User.Username != "" {
			fmt.Printf("%s %s %s\n", color.GreenString("✓"), padRight("@"+snap.User.Username, 16), snap.User.DisplayName())
		}
		for _, a := range snap.Accounts {
			fmt.Printf("  %s %s\n", padRight("@"+a.Username, 16), faint.Sprint(a.DisplayName()))
		}
		return nil
	},
}

var accountsAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := strings.TrimSpace(args[0])
		if username == "" {
			return fmt.Errorf("username is required")
		}
		name := strings.TrimSpace(accountName)
		if name == "" {
			name = username
		}

		p := models.NewUserProfile(name, username)
		if accountAge != 0 {
			if accountAge < 1 || accountAge > 150 {
				return fmt.Errorf("age must be between 1 and 150")
			}
			p = p.WithAge(accountAge)
		}
		if c := strings.TrimSpace(accountConditions); c != "" {
			p = p.WithMedicalConditions(c)
		}

		st.AddAccount(p)
		color.Green("✓ Added account @%s", username)
		return nil
	},
}

var accountsSwitchCmd = &cobra.Command{
	Use:   "switch <username>",
	Short: "Make another account active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := strings.TrimPrefix(strings.TrimSpace(args[0]), "@")
		if err := st.SwitchAccount(username); err != nil {
			return err
		}
		color.Green("✓ Switched to @%s", username)
		return nil
	},
}

func init() {
	accountsAddCmd.Flags().StringVarP(&accountName, "name", "n", "", "display name (default: username)")
	accountsAddCmd.Flags().IntVar(&accountAge, "age", 0, "age in years")
	accountsAddCmd.Flags().StringVar(&accountConditions, "conditions", "", "medical conditions, free text")

	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsSwitchCmd)
	rootCmd.AddCommand(accountsCmd)
}
