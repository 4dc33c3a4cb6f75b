package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DalavanCloud/subversion/authz"
	"github.com/DalavanCloud/subversion/internal/rules"
)

var validateGroupsFile string

var validateCmd = &cobra.Command{
	Use:   "validate RULES_FILE",
	Short: "Validate an authz rules document without serving it",
	Args:  cobra.ExactArgs(1),
	Example: `  # Validate a single-file rules document
  authzctl validate /etc/svn/authz

  # Validate with a separate groups file
  authzctl validate /etc/svn/authz --groups /etc/svn/groups`,
	RunE:         runValidate,
	SilenceUsage: true,
}

func init() {
	validateCmd.Flags().StringVar(&validateGroupsFile, "groups", "", "Path to a separate [groups] document")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := rules.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var groupsCfg authz.Config
	if validateGroupsFile != "" {
		g, err := rules.LoadFile(validateGroupsFile)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", validateGroupsFile, err)
		}
		groupsCfg = g
	}

	if _, err := authz.Load(cfg, groupsCfg, path); err != nil {
		return fmt.Errorf("%s is invalid: %w", path, err)
	}

	fmt.Printf("%s is valid\n", path)
	return nil
}
