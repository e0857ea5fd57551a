package app

import (
	"encoding/json"
	"fmt"
	"image"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/mems_bsp/internal/config"
	"github.com/relabs-tech/mems_bsp/internal/imu"
	"github.com/relabs-tech/mems_bsp/internal/orientation"
)

// DisplayData holds the latest data for display
type DisplayData struct {
	mu sync.RWMutex

	sample     imu.Sample
	haveSample bool
	pose       orientation.Pose
	havePose   bool
}

// addrBus sends every transaction to a fixed address, so the panel can sit
// at any address the board strapped it to.
type addrBus struct {
	i2c.Bus
	addr uint16
}

func (b addrBus) Tx(_ uint16, w, r []byte) error { return b.Bus.Tx(b.addr, w, r) }

// RunDisplay shows the latest sample of one sensor channel, and the pose, on
// an SSD1306 panel.
func RunDisplay() error {
	cfg := config.Get()
	dc := cfg.Display

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	// Open I2C bus
	bus, err := i2creg.Open(dc.Device)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(addrBus{Bus: bus, addr: dc.Address}, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	defer dev.Halt()
	log.Infof("display: initialized at 0x%02X", dc.Address)

	if err := dev.Draw(dev.Bounds(), renderSplash(), image.Point{}); err != nil {
		log.Warnf("display: error showing splash: %v", err)
	}

	data := &DisplayData{}

	// Connect to MQTT
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientIDDisplay)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	defer client.Disconnect(250)
	log.Infof("display: connected to MQTT broker at %s", cfg.MQTT.Broker)

	sampleTopic := SampleTopic(cfg.Topics.Prefix, dc.Sensor, dc.Channel)
	token := client.Subscribe(sampleTopic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var s imu.Sample
		if err := json.Unmarshal(msg.Payload(), &s); err != nil {
			log.Warnf("display: sample unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.sample, data.haveSample = s, true
		data.mu.Unlock()
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", sampleTopic, token.Error())
	}

	token = client.Subscribe(cfg.Topics.Pose, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var p orientation.Pose
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			log.Warnf("display: pose unmarshal error: %v", err)
			return
		}
		data.mu.Lock()
		data.pose, data.havePose = p, true
		data.mu.Unlock()
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", cfg.Topics.Pose, token.Error())
	}

	ticker := time.NewTicker(dc.Interval)
	defer ticker.Stop()

	log.Info("display: starting update loop")
	label := fmt.Sprintf("%s %s", dc.Sensor, dc.Channel)
	for range ticker.C {
		data.mu.RLock()
		img := renderSample(label, data.sample, data.haveSample, data.pose, data.havePose)
		data.mu.RUnlock()
		if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
			log.Errorf("display: draw error: %v", err)
		}
	}
	return nil
}

func newCanvas() (*image1bit.VerticalLSB, *font.Drawer) {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))
	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	return img, drawer
}

func drawLine(d *font.Drawer, y int, s string) {
	d.Dot = fixed.P(0, y)
	d.DrawString(s)
}

// renderSample draws one channel's axes, one per line, with the pose below.
func renderSample(label string, s imu.Sample, haveSample bool, p orientation.Pose, havePose bool) *image1bit.VerticalLSB {
	img, d := newCanvas()
	drawLine(d, 11, label)
	if !haveSample {
		drawLine(d, 30, "Waiting...")
		return img
	}
	drawLine(d, 24, fmt.Sprintf("X:%7d %s", s.X, s.Unit))
	drawLine(d, 36, fmt.Sprintf("Y:%7d", s.Y))
	drawLine(d, 48, fmt.Sprintf("Z:%7d", s.Z))
	if havePose {
		drawLine(d, 62, fmt.Sprintf("R%4.0f P%4.0f Y%4.0f", p.Roll, p.Pitch, p.Yaw))
	}
	return img
}

func renderSplash() *image1bit.VerticalLSB {
	img, d := newCanvas()
	d.Dot = fixed.P(22, 26)
	d.DrawString("MEMS BSP")
	d.Dot = fixed.P(8, 43)
	d.DrawString("Waiting data")
	return img
}
