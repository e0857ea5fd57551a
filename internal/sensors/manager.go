// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sensors brings up the configured MEMS parts and serialises access
// to them for the producer, the register debug tool and the display.
package sensors

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/relabs-tech/mems_bsp/internal/bus"
	"github.com/relabs-tech/mems_bsp/internal/config"
	"github.com/relabs-tech/mems_bsp/internal/imu"
	"github.com/relabs-tech/mems_bsp/internal/mems"
	"github.com/relabs-tech/mems_bsp/internal/mems/lis2dh12"
)

// ErrUnknownSensor is returned for a name that is not configured.
var ErrUnknownSensor = errors.New("unknown sensor")

// Registers read by ReadAll on parts that publish no register map.
const (
	scanFirst = 0x0F
	scanLast  = 0x3F
)

// Sensor is one configured part. Its methods are safe for concurrent use;
// channels returned by Channel are not.
type Sensor struct {
	mu      sync.Mutex
	cfg     config.SensorConfig
	part    Part
	dev     mems.Device
	io      bus.IO
	drdy    gpio.PinIn
	closers []io.Closer
}

// NewSensor binds an already opened transport to a new device of the part
// named in sc and brings it up. It does not take ownership of any bus handle.
func NewSensor(sc config.SensorConfig, tio bus.IO) (*Sensor, error) {
	p, err := LookupPart(sc.Part)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sc.Name, err)
	}
	s := &Sensor{cfg: sc, part: p, dev: p.New(), io: tio}
	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

// Open opens the transport described by sc and brings the part up.
func Open(sc config.SensorConfig) (*Sensor, error) {
	tio, closers, err := openTransport(sc)
	if err != nil {
		return nil, fmt.Errorf("%s: transport: %w", sc.Name, err)
	}
	s, err := NewSensor(sc, tio)
	if err != nil {
		closeAll(closers)
		return nil, err
	}
	s.closers = closers

	if sc.DRDYPin != "" {
		pin := gpioreg.ByName(sc.DRDYPin)
		if pin == nil {
			s.Close()
			return nil, fmt.Errorf("%s: DRDY pin %q not found", sc.Name, sc.DRDYPin)
		}
		if err := pin.In(gpio.PullDown, gpio.RisingEdge); err != nil {
			s.Close()
			return nil, fmt.Errorf("%s: DRDY pin %q: %w", sc.Name, sc.DRDYPin, err)
		}
		s.drdy = pin
	}
	return s, nil
}

// start runs the bring-up sequence: bind, probe, init, configure, enable.
func (s *Sensor) start() error {
	name := s.cfg.Name
	if err := s.dev.RegisterBusIO(s.io); err != nil {
		return fmt.Errorf("%s: register bus: %w", name, err)
	}
	if !s.cfg.SkipProbe {
		if err := mems.Probe(s.dev, s.part.WhoAmI); err != nil {
			return fmt.Errorf("%s: probe %s: %w", name, s.part.Name, err)
		}
	}
	if err := s.dev.Init(); err != nil {
		return fmt.Errorf("%s: init: %w", name, err)
	}

	if d, ok := s.dev.(*lis2dh12.Dev); ok && s.cfg.Mode != "" {
		m, err := lis2dh12.ParseMode(s.cfg.Mode)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := d.SetMode(m); err != nil {
			return fmt.Errorf("%s: set mode %s: %w", name, m, err)
		}
	}

	for _, c := range s.dev.Channels() {
		if fs := s.fullScaleFor(c.Kind()); fs != 0 {
			if err := c.SetFullScale(fs); err != nil {
				return fmt.Errorf("%s: %s full scale %d: %w", name, c.Kind(), fs, err)
			}
		}
		if s.cfg.ODR != 0 {
			if err := c.SetOutputDataRate(s.cfg.ODR); err != nil {
				return fmt.Errorf("%s: %s odr %.1f: %w", name, c.Kind(), s.cfg.ODR, err)
			}
		}
		if err := c.Enable(); err != nil {
			return fmt.Errorf("%s: enable %s: %w", name, c.Kind(), err)
		}
		odr, _ := c.OutputDataRate()
		fs, _ := c.FullScale()
		log.Infof("%s: %s %s enabled, odr=%.1f Hz, fs=%d", name, s.part.Name, c.Kind(), odr, fs)
	}
	return nil
}

func (s *Sensor) fullScaleFor(k mems.Kind) int32 {
	switch k {
	case mems.Acc:
		return s.cfg.AccFS
	case mems.Gyro:
		return s.cfg.GyroFS
	case mems.Magneto:
		return s.cfg.MagFS
	}
	return 0
}

func (s *Sensor) Name() string { return s.cfg.Name }
func (s *Sensor) Part() string { return s.part.Name }

// Capabilities returns the part's capability descriptor.
func (s *Sensor) Capabilities() mems.Capabilities { return s.dev.Capabilities() }

// Channel returns the channel of kind k, or nil. Calls on it bypass the
// sensor lock.
func (s *Sensor) Channel(k mems.Kind) mems.Channel { return mems.ChannelOf(s.dev, k) }

// Read takes one sample from every enabled channel. A failing channel aborts
// the read.
func (s *Sensor) Read() ([]imu.Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []imu.Sample
	for _, c := range s.dev.Channels() {
		if !c.Enabled() {
			continue
		}
		raw, err := c.AxesRaw()
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", s.cfg.Name, c.Kind(), err)
		}
		sens, err := c.Sensitivity()
		if err != nil {
			return nil, fmt.Errorf("%s: %s sensitivity: %w", s.cfg.Name, c.Kind(), err)
		}
		smp := imu.NewSample(s.cfg.Name, s.part.Name, c.Kind(), s.io.Tick(), mems.ScaleAxes(raw, sens))
		if s.cfg.PublishRaw {
			r := raw
			smp.Raw = &r
		}
		out = append(out, smp)
	}
	return out, nil
}

// WaitDataReady blocks until the DRDY pin rises or timeout elapses. Without a
// pin it returns true immediately.
func (s *Sensor) WaitDataReady(timeout time.Duration) bool {
	if s.drdy == nil {
		return true
	}
	return s.drdy.WaitForEdge(timeout)
}

// ReadRegister reads one register.
func (s *Sensor) ReadRegister(reg byte) (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.ReadReg(reg)
}

// WriteRegister writes one register. The driver's cached state is not
// updated; use Reinit to return to a known configuration.
func (s *Sensor) WriteRegister(reg, v byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dev.WriteReg(reg, v)
}

// Registers returns the part's register map, or nil when it has none.
func (s *Sensor) Registers() []mems.RegisterInfo {
	if d, ok := s.dev.(mems.Describer); ok {
		return d.Registers()
	}
	return nil
}

// ReadAll reads every register in the part's map, or a fixed window starting
// at WHO_AM_I when the part publishes none. Write-only registers are skipped.
func (s *Sensor) ReadAll() (map[byte]byte, error) {
	var addrs []byte
	if regs := s.Registers(); regs != nil {
		for _, r := range regs {
			if r.Access != "W" {
				addrs = append(addrs, r.Address)
			}
		}
	} else {
		for a := scanFirst; a <= scanLast; a++ {
			addrs = append(addrs, byte(a))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[byte]byte, len(addrs))
	for _, a := range addrs {
		v, err := s.dev.ReadReg(a)
		if err != nil {
			return nil, fmt.Errorf("%s: register 0x%02X: %w", s.cfg.Name, a, err)
		}
		out[a] = v
	}
	return out, nil
}

// Reinit puts the part back into its configured state. The driver state is
// rebuilt from scratch, so a failed DeInit cannot leave a channel marked
// enabled while the hardware is powered down.
func (s *Sensor) Reinit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dev.DeInit(); err != nil {
		log.Warnf("%s: deinit before reinit: %v", s.cfg.Name, err)
	}
	s.dev = s.part.New()
	return s.start()
}

// Close powers the part down and releases its transport.
func (s *Sensor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.dev.DeInit()
	if s.io.DeInit != nil {
		if e := s.io.DeInit(); e != nil && err == nil {
			err = e
		}
	}
	if s.drdy != nil {
		s.drdy.Halt()
	}
	if e := closeAll(s.closers); e != nil && err == nil {
		err = e
	}
	s.closers = nil
	return err
}

func closeAll(cs []io.Closer) error {
	var err error
	for _, c := range cs {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// Manager owns the configured sensors.
type Manager struct {
	mu      sync.RWMutex
	sensors map[string]*Sensor
}

func NewManager() *Manager {
	return &Manager{sensors: map[string]*Sensor{}}
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the process-wide manager.
func GetManager() *Manager {
	managerOnce.Do(func() { globalManager = NewManager() })
	return globalManager
}

// Init opens every configured sensor. Sensors that fail are logged and
// skipped; the returned error joins their failures.
func (m *Manager) Init(cfgs []config.SensorConfig) error {
	var errs []error
	for _, sc := range cfgs {
		s, err := Open(sc)
		if err != nil {
			log.Errorf("sensors: %v", err)
			errs = append(errs, err)
			continue
		}
		m.Add(s)
	}
	return errors.Join(errs...)
}

// Add registers s under its name, replacing any sensor of the same name.
func (m *Manager) Add(s *Sensor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sensors[s.Name()] = s
}

// Get returns the named sensor.
func (m *Manager) Get(name string) (*Sensor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sensors[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownSensor)
	}
	return s, nil
}

// Names lists the available sensors in alphabetical order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sensors))
	for n := range m.sensors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Sensors returns the available sensors ordered by name.
func (m *Manager) Sensors() []*Sensor {
	var out []*Sensor
	for _, n := range m.Names() {
		s, _ := m.Get(n)
		out = append(out, s)
	}
	return out
}

// Close closes every sensor.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var errs []error
	for n, s := range m.sensors {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n, err))
		}
		delete(m.sensors, n)
	}
	return errors.Join(errs...)
}
