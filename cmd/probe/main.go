package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/mems_bsp/internal/app"
	"github.com/relabs-tech/mems_bsp/internal/cmd"
)

func main() {
	cmd.Execute(cmd.New("probe", "check the identity of every configured MEMS sensor", func(*cobra.Command) error {
		return app.RunProbe(os.Stdout)
	}))
}
