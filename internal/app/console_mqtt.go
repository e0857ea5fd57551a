package app

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/mems_bsp/internal/config"
	"github.com/relabs-tech/mems_bsp/internal/env"
	"github.com/relabs-tech/mems_bsp/internal/imu"
	"github.com/relabs-tech/mems_bsp/internal/orientation"
)

// RunConsoleMQTT prints every sample, pose and env message until interrupted.
func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Infof("console: connected to MQTT broker at %s", cfg.MQTT.Broker)

	topic := cfg.Topics.Prefix + "/#"
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		line, err := formatMessage(cfg.Topics, msg.Topic(), msg.Payload())
		if err != nil {
			log.Warnf("console: %s: %v", msg.Topic(), err)
			return
		}
		fmt.Println(line)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Infof("console: subscribed to %s", topic)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("console: shutting down")
	client.Disconnect(250)
	return nil
}

// formatMessage renders one MQTT message as a console line.
func formatMessage(topics config.TopicsConfig, topic string, payload []byte) (string, error) {
	switch topic {
	case topics.Pose:
		var p orientation.Pose
		if err := json.Unmarshal(payload, &p); err != nil {
			return "", fmt.Errorf("pose unmarshal: %w", err)
		}
		return fmt.Sprintf("[POSE] ROLL=%7.2f  PITCH=%7.2f  YAW=%7.2f", p.Roll, p.Pitch, p.Yaw), nil
	case topics.Env:
		var e env.Sample
		if err := json.Unmarshal(payload, &e); err != nil {
			return "", fmt.Errorf("env unmarshal: %w", err)
		}
		return fmt.Sprintf("[ENV ] T=%6.2f°C  P=%8.2fhPa  RH=%5.1f%%", e.Temperature, e.PressureHPa, e.Humidity), nil
	}

	if !strings.HasPrefix(topic, topics.Prefix+"/") {
		return "", fmt.Errorf("unexpected topic")
	}
	var s imu.Sample
	if err := json.Unmarshal(payload, &s); err != nil {
		return "", fmt.Errorf("sample unmarshal: %w", err)
	}
	line := fmt.Sprintf("[%-4s] %-10s x=%7d y=%7d z=%7d %-6s t=%dms",
		strings.ToUpper(s.Channel), s.Source, s.X, s.Y, s.Z, s.Unit, s.Tick)
	if s.Raw != nil {
		line += fmt.Sprintf("  raw=(%d,%d,%d)", s.Raw.X, s.Raw.Y, s.Raw.Z)
	}
	return line, nil
}
