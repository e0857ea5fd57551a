// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/mems_bsp/internal/config"
	"github.com/relabs-tech/mems_bsp/internal/env"
	"github.com/relabs-tech/mems_bsp/internal/imu"
	"github.com/relabs-tech/mems_bsp/internal/mems"
	"github.com/relabs-tech/mems_bsp/internal/orientation"
	"github.com/relabs-tech/mems_bsp/internal/sensors"
)

// publisher sends one retained message.
type publisher interface {
	Publish(topic string, payload []byte) error
}

type mqttPublisher struct {
	client mqtt.Client
}

func (p mqttPublisher) Publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, 0, true, payload)
	token.Wait()
	return token.Error()
}

type envReader interface {
	Read(source string) (env.Sample, error)
}

// SampleTopic is the MQTT topic samples of one sensor channel go to.
func SampleTopic(prefix, sensor, channel string) string {
	return fmt.Sprintf("%s/%s/%s", prefix, sensor, channel)
}

type producer struct {
	cfg    *config.Config
	mgr    *sensors.Manager
	pub    publisher
	env    envReader // may be nil
	stream *Stream   // may be nil

	lastLog time.Time
}

// RunProducer brings up every configured sensor and publishes their samples,
// a tilt pose and the environmental reading on each tick.
func RunProducer() error {
	log.Info("starting MEMS sample producer")

	cfg := config.Get()
	mgr := sensors.GetManager()
	if err := mgr.Init(cfg.Sensors); err != nil {
		log.Warnf("producer: some sensors failed to start: %v", err)
	}
	if len(mgr.Names()) == 0 {
		return fmt.Errorf("producer: no sensor available")
	}
	defer mgr.Close()

	p := &producer{cfg: cfg, mgr: mgr}

	if cfg.Env.Enable {
		e, err := sensors.OpenEnv(cfg.Env)
		if err != nil {
			log.Warnf("producer: env sensor unavailable: %v", err)
		} else {
			defer e.Close()
			p.env = e
		}
	}

	if cfg.Serial.Enable {
		s, err := OpenStream(cfg.Serial)
		if err != nil {
			return fmt.Errorf("producer: %w", err)
		}
		defer s.Close()
		p.stream = s
		log.Infof("producer: streaming to %s at %d baud", cfg.Serial.Port, cfg.Serial.Baud)
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientIDProducer)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect: %w", token.Error())
	}
	defer client.Disconnect(250)
	p.pub = mqttPublisher{client: client}

	log.Infof("producer: connected to MQTT at %s, publishing every %s", cfg.MQTT.Broker, cfg.SampleInterval)

	ticker := time.NewTicker(cfg.SampleInterval)
	defer ticker.Stop()
	for t := range ticker.C {
		p.tick(t)
	}
	return nil
}

// tick reads every sensor once and publishes the results. Failures are
// logged and the rest of the tick goes on.
func (p *producer) tick(t time.Time) {
	var acc, mag *mems.Axes
	var all []imu.Sample

	for _, s := range p.mgr.Sensors() {
		if !s.WaitDataReady(p.cfg.SampleInterval) {
			log.Debugf("producer: %s: no data ready", s.Name())
			continue
		}
		samples, err := s.Read()
		if err != nil {
			log.Errorf("producer: %v", err)
			continue
		}
		for _, smp := range samples {
			p.publish(SampleTopic(p.cfg.Topics.Prefix, smp.Source, smp.Channel), smp)
			a := smp.Axes()
			switch {
			case smp.Channel == mems.Acc.String() && acc == nil:
				acc = &a
			case smp.Channel == mems.Magneto.String() && mag == nil:
				mag = &a
			}
		}
		all = append(all, samples...)
	}

	var pose *orientation.Pose
	if acc != nil {
		ps := orientation.FromAxes(*acc, mag)
		pose = &ps
		p.publish(p.cfg.Topics.Pose, ps)
	}

	if p.env != nil {
		if e, err := p.env.Read("env"); err != nil {
			log.Errorf("producer: %v", err)
		} else {
			p.publish(p.cfg.Topics.Env, e)
		}
	}

	if t.Sub(p.lastLog) >= p.cfg.ConsoleLogInterval {
		p.lastLog = t
		for _, smp := range all {
			log.Infof("%s/%s: x=%d y=%d z=%d %s", smp.Source, smp.Channel, smp.X, smp.Y, smp.Z, smp.Unit)
		}
		if pose != nil {
			log.Infof("pose: R=%.2f P=%.2f Y=%.2f", pose.Roll, pose.Pitch, pose.Yaw)
		}
	}
}

func (p *producer) publish(topic string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Errorf("producer: json marshal (%s): %v", topic, err)
		return
	}
	if p.pub != nil {
		if err := p.pub.Publish(topic, payload); err != nil {
			log.Errorf("producer: MQTT publish (%s): %v", topic, err)
		}
	}
	if p.stream != nil {
		if err := p.stream.Write(topic, json.RawMessage(payload)); err != nil {
			log.Errorf("producer: serial stream: %v", err)
		}
	}
}
