// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"github.com/spf13/cobra"

	"github.com/relabs-tech/mems_bsp/internal/app"
	"github.com/relabs-tech/mems_bsp/internal/cmd"
)

func main() {
	c := cmd.New("register_debug", "serve the MEMS register debug tool", func(c *cobra.Command) error {
		static, _ := c.Flags().GetString("static")
		return app.RunRegisterDebug(static)
	})
	c.Flags().String("static", "web", "directory served at /, empty to disable")
	cmd.Execute(c)
}
