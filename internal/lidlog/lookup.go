package lidlog

import (
	"fmt"
	"math"
)

// int16Span is the number of distinct values a signed 16-bit sample can
// take; used to size the accelerometer and magnetometer lookup tables.
const int16Span = 65536

// tempsSpan sizes the temperature table to indices [0, 65534], matching
// the source's own table build (range(0, 65535)); index 65535 is never a
// valid raw temperature sample.
const tempsSpan = 65535

// LookupTables holds precomputed, pre-formatted engineering-unit strings for
// every possible raw 16-bit sample, built once per file from its
// HostStorage calibration record and reused for the duration of decoding.
type LookupTables struct {
	accel [int16Span]string
	magne [int16Span]string
	temps [tempsSpan]string
}

// NewLookupTables builds accelerometer, magnetometer, and temperature
// lookup tables from hs. All three axes of accel share one table keyed off
// (AXA, AXB) and all three axes of magne share one table keyed off
// (MXA, MXS), since in practice the sensor's calibration uses the same pair
// across axes; this cuts build time and memory to a third of what three
// per-axis tables would need, with no behavioral difference when
// calibration is in fact uniform.
func NewLookupTables(hs HostStorage) *LookupTables {
	lt := &LookupTables{}
	for raw := -32768; raw <= 32767; raw++ {
		idx := raw + 32768
		lt.accel[idx] = fmt.Sprintf("%.5f", float64(raw)/float64(hs.AXB)+float64(hs.AXA))
		lt.magne[idx] = fmt.Sprintf("%.2f", hs.MXS*float64(raw)+float64(hs.MXA))
	}
	lt.temps[0] = "0"
	for raw := 1; raw <= 65534; raw++ {
		c := steinhartCelsius(raw, hs)
		lt.temps[raw] = fmt.Sprintf("%.4f", c)
	}
	return lt
}

// steinhartCelsius converts a raw unsigned 16-bit temperature sample into
// degrees Celsius via thermistor resistance and the Steinhart-Hart equation.
func steinhartCelsius(raw int, hs HostStorage) float64 {
	r := float64(hs.TMR) * (float64(raw) + float64(hs.TMO)) / (65535 - (float64(raw) + float64(hs.TMO)))
	lnR := math.Log(r)
	invT := hs.TMA + hs.TMB*lnR + hs.TMC*lnR*lnR*lnR
	kelvin := 1 / invT
	return kelvin - 273.15
}

// Accel returns the preformatted accelerometer string for a raw signed
// 16-bit sample.
func (lt *LookupTables) Accel(raw int16) string {
	return lt.accel[int(raw)+32768]
}

// Magne returns the preformatted magnetometer string for a raw signed
// 16-bit sample.
func (lt *LookupTables) Magne(raw int16) string {
	return lt.magne[int(raw)+32768]
}

// Temp returns the preformatted temperature string for a raw unsigned
// 16-bit sample.
func (lt *LookupTables) Temp(raw uint16) string {
	return lt.temps[raw]
}
