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
	cmd.Execute(cmd.New("producer", "publish MEMS sensor samples to MQTT", func(*cobra.Command) error {
		return app.RunProducer()
	}))
}
