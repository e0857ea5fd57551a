package main

import (
	"github.com/spf13/cobra"

	"github.com/relabs-tech/mems_bsp/internal/app"
	"github.com/relabs-tech/mems_bsp/internal/cmd"
)

func main() {
	cmd.Execute(cmd.New("display", "show live MEMS samples on an SSD1306 panel", func(*cobra.Command) error {
		return app.RunDisplay()
	}))
}
