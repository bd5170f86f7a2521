package core

// Heat index polynomial coefficients.
const (
	hiC1 = -8.78469475556
	hiC2 = 1.61139411
	hiC3 = 2.33854883889
	hiC4 = -0.14611605
	hiC5 = -0.012308094
	hiC6 = -0.0164248277778
	hiC7 = 0.002211732
	hiC8 = 0.00072546
	hiC9 = -0.000003582
)

// HeatIndex computes the heat index from temperature (°C) and relative humidity (%)
// using the nine-term regression polynomial. No bounds checking is applied. Extreme inputs
// can overflow to ±Inf, which RecordReading rejects.
func HeatIndex(temperature, humidity float64) float64 {
	t, h := temperature, humidity
	t2, h2 := t*t, h*h
	return hiC1 +
		hiC2*t +
		hiC3*h +
		hiC4*h*t +
		hiC5*t2 +
		hiC6*h2 +
		hiC7*t2*h +
		hiC8*t*h2 +
		hiC9*t2*h2
}
