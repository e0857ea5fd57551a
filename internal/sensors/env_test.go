package sensors

import (
	"math"
	"testing"

	"periph.io/x/conn/v3/physic"
)

func TestSampleFromEnv(t *testing.T) {
	m := physic.Env{
		Temperature: physic.ZeroCelsius + 21500*physic.MilliKelvin,
		Pressure:    101325 * physic.Pascal,
		Humidity:    45 * physic.PercentRH,
	}
	s := sampleFromEnv("board", m)
	if s.Source != "board" {
		t.Fatalf("source=%q", s.Source)
	}
	if math.Abs(s.Temperature-21.5) > 0.01 {
		t.Fatalf("temperature=%v", s.Temperature)
	}
	if math.Abs(s.Pressure-101325) > 0.5 || math.Abs(s.PressureHPa-1013.25) > 0.01 {
		t.Fatalf("pressure=%v hPa=%v", s.Pressure, s.PressureHPa)
	}
	if math.Abs(s.Humidity-45) > 0.01 {
		t.Fatalf("humidity=%v", s.Humidity)
	}
}
