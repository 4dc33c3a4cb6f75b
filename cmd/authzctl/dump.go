package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/DalavanCloud/subversion/authz"
	"github.com/DalavanCloud/subversion/internal/rules"
)

var (
	dumpGroupsFile string
	dumpRepo       string
	dumpUser       string
)

var dumpCmd = &cobra.Command{
	Use:   "dump RULES_FILE",
	Short: "Dump the compiled rights tree for one (repo, user) as YAML",
	Args:  cobra.ExactArgs(1),
	Example: `  # Dump alice's effective tree for the unscoped rules
  authzctl dump /etc/svn/authz --user alice`,
	RunE:         runDump,
	SilenceUsage: true,
}

func init() {
	dumpCmd.Flags().StringVar(&dumpGroupsFile, "groups", "", "Path to a separate [groups] document")
	dumpCmd.Flags().StringVar(&dumpRepo, "repo", "", "Repository name (empty matches only unscoped rules)")
	dumpCmd.Flags().StringVar(&dumpUser, "user", "", "User name (omit for an anonymous view)")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	rulesPath := args[0]

	cfg, err := rules.LoadFile(rulesPath)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", rulesPath, err)
	}

	var groupsCfg authz.Config
	if dumpGroupsFile != "" {
		g, err := rules.LoadFile(dumpGroupsFile)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", dumpGroupsFile, err)
		}
		groupsCfg = g
	}

	a, err := authz.Load(cfg, groupsCfg, rulesPath)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", rulesPath, err)
	}

	var user *string
	if dumpUser != "" {
		user = &dumpUser
	}

	tree, err := a.Dump(dumpRepo, user)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(tree)
}
