package env

// Sample represents a single environmental measurement (BME280/BMP280).
type Sample struct {
	Source string `json:"source"`

	Temperature float64 `json:"temp_c"`      // °C
	Pressure    float64 `json:"pressure_pa"` // Pa
	PressureHPa float64 `json:"pressure_hpa"`
	Humidity    float64 `json:"humidity_rh,omitempty"` // %RH, BME280 only
}
