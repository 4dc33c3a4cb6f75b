package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DalavanCloud/subversion/authz"
	"github.com/DalavanCloud/subversion/internal/rules"
)

var (
	checkGroupsFile string
	checkRepo       string
	checkUser       string
	checkRequired   string
	checkRecursive  bool
)

var checkCmd = &cobra.Command{
	Use:   "check RULES_FILE PATH",
	Short: "Answer one access query against a rules document",
	Args:  cobra.ExactArgs(2),
	Example: `  # Does alice have read access to /trunk?
  authzctl check /etc/svn/authz /trunk --user alice --required r

  # Recursive write access check, scoped to a repository
  authzctl check /etc/svn/authz /branches --repo myrepo --user alice --required w --recursive`,
	RunE:          runCheck,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	checkCmd.Flags().StringVar(&checkGroupsFile, "groups", "", "Path to a separate [groups] document")
	checkCmd.Flags().StringVar(&checkRepo, "repo", "", "Repository name (empty matches only unscoped rules)")
	checkCmd.Flags().StringVar(&checkUser, "user", "", "User name (omit for an anonymous query)")
	checkCmd.Flags().StringVar(&checkRequired, "required", "r", "Required rights, any of 'r', 'w', 'rw'")
	checkCmd.Flags().BoolVar(&checkRecursive, "recursive", false, "Require the rights over the whole subtree")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	rulesPath, path := args[0], args[1]

	cfg, err := rules.LoadFile(rulesPath)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", rulesPath, err)
	}

	var groupsCfg authz.Config
	if checkGroupsFile != "" {
		g, err := rules.LoadFile(checkGroupsFile)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", checkGroupsFile, err)
		}
		groupsCfg = g
	}

	a, err := authz.Load(cfg, groupsCfg, rulesPath)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", rulesPath, err)
	}

	required, err := authz.ParseRights(checkRequired)
	if err != nil {
		return err
	}

	var user *string
	if checkUser != "" {
		user = &checkUser
	}

	allowed, err := a.CheckAccess(checkRepo, &path, user, required, checkRecursive)
	if err != nil {
		return err
	}

	if allowed {
		fmt.Println("allow")
		return nil
	}
	fmt.Println("deny")
	return errDenied
}

var errDenied = errors.New("access denied")
