// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package main

import (
	"github.com/spf13/cobra"
)

const defaultConfigFile = "inkpress.yaml"

// NewRootCmd creates the root command for the Inkpress CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inkpress",
		Short: "Inkpress - a blog platform",
		Long: `Inkpress is a blog platform serving posts, comments, and user
accounts over an HTTP JSON API backed by PostgreSQL.`,
	}

	cmd.PersistentFlags().String("config", "", "config file path (default: "+defaultConfigFile+")")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}

// configPath resolves the config file path from the --config flag,
// falling back to the default location.
func configPath(cmd *cobra.Command) (path string, explicit bool, err error) {
	path, err = cmd.Flags().GetString("config")
	if err != nil {
		return "", false, err
	}
	if path != "" {
		return path, true, nil
	}
	return defaultConfigFile, false, nil
}
