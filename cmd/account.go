package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	accountTenant string
	accountEmail  string
	accountToken  string
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage tracker accounts",
}

var accountAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a tracker account",
	Args:  cobra.NoArgs,
	RunE:  runAccountAdd,
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured accounts",
	Args:  cobra.NoArgs,
	RunE:  runAccountList,
}

var accountUseCmd = &cobra.Command{
	Use:   "use <id|email|tenant>",
	Short: "Select the active account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountUse,
}

var accountRemoveCmd = &cobra.Command{
	Use:   "remove <id|email|tenant>",
	Short: "Remove an account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountRemove,
}

func init() {
	accountAddCmd.Flags().StringVar(&accountTenant, "tenant", "", "Tracker tenant subdomain (e.g. acme for acme.atlassian.net)")
	accountAddCmd.Flags().StringVar(&accountEmail, "email", "", "Account email (leave empty to use a bearer personal access token)")
	accountAddCmd.Flags().StringVar(&accountToken, "token", "", "API token or personal access token")
	accountAddCmd.MarkFlagRequired("tenant")
	accountAddCmd.MarkFlagRequired("token")

	accountCmd.AddCommand(accountAddCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountUseCmd)
	accountCmd.AddCommand(accountRemoveCmd)
}

func runAccountAdd(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	acct := a.settings.AddAccount(accountTenant, accountEmail, accountToken)
	if err := a.saveSettings(); err != nil {
		return err
	}

	fmt.Printf("Added account %s (%s)\n", acct.TenantSubdomain, acct.ID)
	if a.settings.ActiveAccountID == acct.ID {
		fmt.Println("It is now the active account.")
	}
	return nil
}

func runAccountList(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	if len(a.settings.Accounts) == 0 {
		fmt.Println("No accounts configured.")
		return nil
	}
	for _, acct := range a.settings.Accounts {
		marker := " "
		if acct.ID == a.settings.ActiveAccountID {
			marker = "*"
		}
		who := acct.Email
		if who == "" {
			who = "(personal access token)"
		}
		fmt.Printf("%s %s  %s  %s\n", marker, acct.ID, acct.TenantSubdomain, who)
	}
	return nil
}

func runAccountUse(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	if !a.settings.SelectAccount(args[0]) {
		return fmt.Errorf("no account matches %q", args[0])
	}
	if err := a.saveSettings(); err != nil {
		return err
	}
	fmt.Printf("Active account is now %s\n", a.settings.ActiveAccountID)
	return nil
}

func runAccountRemove(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	if !a.settings.RemoveAccount(args[0]) {
		return fmt.Errorf("no account matches %q", args[0])
	}
	if err := a.saveSettings(); err != nil {
		return err
	}
	fmt.Println("Account removed.")
	return nil
}
