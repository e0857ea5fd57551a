// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package cmd holds the flag handling shared by the binaries under cmd/.
package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/mems_bsp/internal/config"
)

// DefaultConfig is the configuration file used when --config is not given.
const DefaultConfig = "mems_config.yaml"

// CommonFlags registers --config and --debug on cmd.
func CommonFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", DefaultConfig, "configuration file path")
	cmd.Flags().Bool("debug", false, "toggle debug logging")
}

// Setup applies --debug and loads the global configuration from --config.
func Setup(cmd *cobra.Command) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		log.SetLevel(log.DebugLevel)
	}
	path, _ := cmd.Flags().GetString("config")
	if err := config.InitGlobal(path); err != nil {
		return err
	}
	log.Debugf("config loaded from %s", path)
	return nil
}

// New builds a command that loads the configuration before calling run.
func New(use, short string, run func(cmd *cobra.Command) error) *cobra.Command {
	c := &cobra.Command{
		Use:          use,
		Short:        short,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := Setup(cmd); err != nil {
				return err
			}
			return run(cmd)
		},
	}
	CommonFlags(c)
	return c
}

// Execute runs c and exits on error.
func Execute(c *cobra.Command) {
	if err := c.Execute(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
