package sensors

import (
	"errors"
	"reflect"
	"testing"

	"github.com/relabs-tech/mems_bsp/internal/bus"
	"github.com/relabs-tech/mems_bsp/internal/config"
	"github.com/relabs-tech/mems_bsp/internal/mems"
	"github.com/relabs-tech/mems_bsp/internal/mems/memstest"
)

func lis2dh12Fake() *memstest.Fake {
	f := memstest.New(bus.I2C, 0x80)
	f.Regs[0x0F] = 0x33
	return f
}

func TestNewSensorAppliesConfig(t *testing.T) {
	f := lis2dh12Fake()
	s, err := NewSensor(config.SensorConfig{Name: "acc0", Part: "lis2dh12", ODR: 300, AccFS: 4}, f.IO())
	if err != nil {
		t.Fatalf("NewSensor: %v", err)
	}
	// 300 Hz rounds up to the 400 Hz step, code 7.
	if got := f.Regs[0x20] >> 4; got != 7 {
		t.Fatalf("CTRL_REG1 ODR=%d want 7", got)
	}
	if got := (f.Regs[0x23] >> 4) & 0x3; got != 1 {
		t.Fatalf("CTRL_REG4 FS=%d want 1", got)
	}
	c := s.Channel(mems.Acc)
	if c == nil || !c.Enabled() {
		t.Fatal("acc channel not enabled")
	}
	if s.Part() != "lis2dh12" || s.Name() != "acc0" {
		t.Fatalf("name=%q part=%q", s.Name(), s.Part())
	}
}

func TestNewSensorMode(t *testing.T) {
	f := lis2dh12Fake()
	if _, err := NewSensor(config.SensorConfig{Name: "a", Part: "lis2dh12", Mode: "lp"}, f.IO()); err != nil {
		t.Fatal(err)
	}
	if f.Regs[0x20]&0x08 == 0 || f.Regs[0x23]&0x08 != 0 {
		t.Fatalf("LPen/HR not set for low power: ctrl1=0x%02X ctrl4=0x%02X", f.Regs[0x20], f.Regs[0x23])
	}

	f = lis2dh12Fake()
	if _, err := NewSensor(config.SensorConfig{Name: "a", Part: "lis2dh12", Mode: "turbo"}, f.IO()); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestNewSensorProbe(t *testing.T) {
	f := lis2dh12Fake()
	f.Regs[0x0F] = 0x44
	_, err := NewSensor(config.SensorConfig{Name: "a", Part: "lis2dh12"}, f.IO())
	if !errors.Is(err, mems.ErrWrongID) {
		t.Fatalf("err=%v want ErrWrongID", err)
	}
	if f.WriteCount() != 0 {
		t.Fatalf("%d writes before a failed probe", f.WriteCount())
	}

	if _, err := NewSensor(config.SensorConfig{Name: "a", Part: "lis2dh12", SkipProbe: true}, f.IO()); err != nil {
		t.Fatalf("SkipProbe: %v", err)
	}
}

func TestNewSensorErrors(t *testing.T) {
	f := lis2dh12Fake()
	if _, err := NewSensor(config.SensorConfig{Name: "a", Part: "bmi160"}, f.IO()); err == nil {
		t.Fatal("expected error for unknown part")
	}

	_, err := NewSensor(config.SensorConfig{Name: "a", Part: "lis2dh12"}, bus.IO{})
	if !errors.Is(err, mems.ErrNoTransport) {
		t.Fatalf("err=%v want ErrNoTransport", err)
	}

	f.FailWrite(0x23, nil)
	_, err = NewSensor(config.SensorConfig{Name: "a", Part: "lis2dh12"}, f.IO())
	if !errors.Is(err, mems.ErrBus) || !errors.Is(err, memstest.ErrInjected) {
		t.Fatalf("err=%v want ErrBus wrapping ErrInjected", err)
	}
}

func TestSensorRead(t *testing.T) {
	f := lis2dh12Fake()
	f.Tick = 1234
	s, err := NewSensor(config.SensorConfig{Name: "acc0", Part: "lis2dh12", PublishRaw: true}, f.IO())
	if err != nil {
		t.Fatal(err)
	}
	// High resolution: 12-bit left-justified.
	f.SetAxes(0x28, 100<<4, -50<<4, 1000<<4)

	got, err := s.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d samples, want 1", len(got))
	}
	smp := got[0]
	raw := mems.AxesRaw{X: 100, Y: -50, Z: 1000}
	if smp.Raw == nil || *smp.Raw != raw {
		t.Fatalf("raw=%v want %v", smp.Raw, raw)
	}
	if want := mems.ScaleAxes(raw, 0.98); smp.Axes() != want {
		t.Fatalf("axes=%v want %v", smp.Axes(), want)
	}
	if smp.Source != "acc0" || smp.Part != "lis2dh12" || smp.Channel != "acc" || smp.Unit != "mg" || smp.Tick != 1234 {
		t.Fatalf("sample=%+v", smp)
	}

	f.Regs[0x27] = 0x80
	if _, err := s.Read(); !errors.Is(err, mems.ErrDataOverrun) {
		t.Fatalf("err=%v want ErrDataOverrun", err)
	}
}

func TestSensorReadTwoChannels(t *testing.T) {
	f := memstest.New(bus.SPI4, 0)
	f.Regs[0x0F] = 0x6B
	s, err := NewSensor(config.SensorConfig{Name: "imu", Part: "asm330lhh", AccFS: 4, GyroFS: 500}, f.IO())
	if err != nil {
		t.Fatal(err)
	}
	f.SetAxes(0x28, 1000, 0, -1000)
	f.SetAxes(0x22, 10, 20, 30)

	got, err := s.Read()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d samples, want 2", len(got))
	}
	if got[0].Channel != "acc" || got[0].Axes() != mems.ScaleAxes(mems.AxesRaw{X: 1000, Z: -1000}, 0.122) {
		t.Fatalf("acc=%+v", got[0])
	}
	if got[1].Channel != "gyro" || got[1].Unit != "mdps" || got[1].Axes() != mems.ScaleAxes(mems.AxesRaw{X: 10, Y: 20, Z: 30}, 17.5) {
		t.Fatalf("gyro=%+v", got[1])
	}
	if got[0].Raw != nil {
		t.Fatal("raw published without publish_raw")
	}

	if err := s.Channel(mems.Gyro).Disable(); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Read(); len(got) != 1 || got[0].Channel != "acc" {
		t.Fatalf("disabled channel still sampled: %+v", got)
	}
}

func TestSensorRegisters(t *testing.T) {
	f := lis2dh12Fake()
	s, err := NewSensor(config.SensorConfig{Name: "a", Part: "lis2dh12"}, f.IO())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.WriteRegister(0x21, 0x5A); err != nil {
		t.Fatal(err)
	}
	if v, err := s.ReadRegister(0x21); err != nil || v != 0x5A {
		t.Fatalf("ReadRegister=0x%02X, %v", v, err)
	}

	regs := s.Registers()
	if len(regs) == 0 {
		t.Fatal("lis2dh12 has no register map")
	}
	all, err := s.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(regs) {
		t.Fatalf("ReadAll returned %d registers, map has %d", len(all), len(regs))
	}
	if all[0x0F] != 0x33 {
		t.Fatalf("WHO_AM_I=0x%02X", all[0x0F])
	}
}

func TestSensorReadAllWithoutMap(t *testing.T) {
	f := memstest.New(bus.I2C, 0x80)
	f.Regs[0x0F] = 0x3D
	s, err := NewSensor(config.SensorConfig{Name: "mag", Part: "lis3mdl"}, f.IO())
	if err != nil {
		t.Fatal(err)
	}
	if s.Registers() != nil {
		t.Fatal("lis3mdl unexpectedly has a register map")
	}
	all, err := s.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != scanLast-scanFirst+1 {
		t.Fatalf("ReadAll returned %d registers", len(all))
	}
}

func TestSensorReinitAndClose(t *testing.T) {
	f := lis2dh12Fake()
	s, err := NewSensor(config.SensorConfig{Name: "a", Part: "lis2dh12", ODR: 50}, f.IO())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.WriteRegister(0x20, 0x00); err != nil {
		t.Fatal(err)
	}
	if err := s.Reinit(); err != nil {
		t.Fatalf("Reinit: %v", err)
	}
	if got := f.Regs[0x20] >> 4; got != 4 {
		t.Fatalf("ODR code after reinit=%d want 4", got)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := f.Regs[0x20] >> 4; got != 0 {
		t.Fatalf("ODR code after close=%d want power-down", got)
	}
	if s.Channel(mems.Acc).Enabled() {
		t.Fatal("channel enabled after close")
	}
}

func TestSensorReinitAfterFailedDeInit(t *testing.T) {
	f := lis2dh12Fake()
	s, err := NewSensor(config.SensorConfig{Name: "a", Part: "lis2dh12"}, f.IO())
	if err != nil {
		t.Fatal(err)
	}
	// DeInit reads CTRL_REG1 back before powering down; fail that read once.
	f.FailReadOnce(0x20, nil)
	if err := s.Reinit(); err != nil {
		t.Fatalf("Reinit: %v", err)
	}
	if !s.Channel(mems.Acc).Enabled() {
		t.Fatal("acc channel not enabled after reinit")
	}
	if got := f.Regs[0x20] >> 4; got != 5 {
		t.Fatalf("ODR code after reinit=%d want 5 (100 Hz)", got)
	}
	odr, err := s.Channel(mems.Acc).OutputDataRate()
	if err != nil || odr != 100 {
		t.Fatalf("OutputDataRate=%v, %v want 100", odr, err)
	}
}

func TestManager(t *testing.T) {
	m := NewManager()
	for _, name := range []string{"b", "a"} {
		s, err := NewSensor(config.SensorConfig{Name: name, Part: "lis2dh12"}, lis2dh12Fake().IO())
		if err != nil {
			t.Fatal(err)
		}
		m.Add(s)
	}
	if got := m.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Names=%v", got)
	}
	if _, err := m.Get("c"); !errors.Is(err, ErrUnknownSensor) {
		t.Fatalf("err=%v want ErrUnknownSensor", err)
	}
	if s, err := m.Get("a"); err != nil || s.Name() != "a" {
		t.Fatalf("Get(a)=%v, %v", s, err)
	}
	if len(m.Sensors()) != 2 {
		t.Fatal("Sensors did not return both sensors")
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if len(m.Names()) != 0 {
		t.Fatal("sensors left after Close")
	}
}

func TestParts(t *testing.T) {
	want := []string{"a3g4250d", "ais3624dq", "asm330lhh", "lis2dh12", "lis3mdl"}
	if got := PartNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("PartNames=%v", got)
	}
	p, ok := Identify(0x6B)
	if !ok || p.Name != "asm330lhh" {
		t.Fatalf("Identify(0x6B)=%v,%v", p, ok)
	}
	if _, ok := Identify(0x00); ok {
		t.Fatal("Identify(0x00) matched a part")
	}
	for _, n := range want {
		p, err := LookupPart(n)
		if err != nil {
			t.Fatal(err)
		}
		if d := p.New(); len(d.Channels()) == 0 {
			t.Fatalf("%s has no channels", n)
		}
	}
}
