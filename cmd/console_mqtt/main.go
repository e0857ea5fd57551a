package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/relabs-tech/mems_bsp/internal/app"
	"github.com/relabs-tech/mems_bsp/internal/cmd"
)

func main() {
	cmd.Execute(cmd.New("console_mqtt", "print MEMS samples received over MQTT", func(*cobra.Command) error {
		log.Info("starting MEMS console (MQTT subscriber)")
		return app.RunConsoleMQTT()
	}))
}
