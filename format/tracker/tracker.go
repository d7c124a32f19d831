// Package tracker registers uplink formats of LoRaWAN asset trackers.
package tracker

// Position with inactivity timer, uplink port 33.

import (
	"github.com/pnsafonov/bitread/format"
	"github.com/pnsafonov/bitread/pkg/decode"
	"github.com/pnsafonov/bitread/pkg/scalar"
)

const PositionInactivity = "position_inactivity"

// PositionInactivityBits is the payload size, 11 bytes.
const PositionInactivityBits = 88

func init() {
	format.Register(&format.Format{
		Name:        PositionInactivity,
		Description: "Tracker position with inactivity timer (port 33)",
		Schema:      PositionInactivitySchema(),
	})
}

func latitude(x int32) float64  { return float64(x) * (180.0 / float64(1<<23)) }
func longitude(x int32) float64 { return float64(x) * (360.0 / float64(1<<24)) }

// float64 conversion keeps the product rounded before the add.
func batteryVolts(x uint8) float64 { return 3.5 + float64(float64(x)*0.032) }

// PositionInactivitySchema returns the field layout, little endian lsb.
func PositionInactivitySchema() decode.Schema {
	return decode.Schema{
		Name:     PositionInactivity,
		Endian:   "little",
		BitOrder: "lsb",
		Fields: []decode.Field{
			decode.Bool("last_fix_failed", 1),
			decode.Sint("latitude_degrees", 23, scalar.Map(latitude)),
			decode.Sint("longitude_degrees", 24, scalar.Map(longitude)),
			decode.Bool("in_trip", 1),
			{Name: "timestamp", Bits: 7, Type: scalar.TypeU8},
			decode.Bool("battery_critical", 1),
			decode.Bool("inactivity_indicator_alarm", 1),
			{
				Name: "inactivity_timer_minutes", Bits: 14, Type: scalar.TypeU16,
				Map: scalar.Map(func(x uint16) uint32 { return uint32(x) * 2 }),
			},
			{
				Name: "battery_voltage_volts", Bits: 8, Type: scalar.TypeU8,
				Map: scalar.Map(batteryVolts),
			},
			{
				Name: "heading_degrees", Bits: 3, Type: scalar.TypeU8,
				Map: scalar.Map(func(x uint8) uint32 { return uint32(x) * 45 }),
			},
			{
				Name: "speed_kmh", Bits: 5, Type: scalar.TypeU8,
				Map: scalar.Map(func(x uint8) uint32 { return uint32(x) * 5 }),
			},
		},
	}
}

// PositionWithInactivityTimer is a decoded port 33 uplink.
type PositionWithInactivityTimer struct {
	LastFixFailed            bool    `bitread:"last_fix_failed" json:"last_fix_failed"`
	LatitudeDegrees          float64 `bitread:"latitude_degrees" json:"latitude_degrees"`
	LongitudeDegrees         float64 `bitread:"longitude_degrees" json:"longitude_degrees"`
	InTrip                   bool    `bitread:"in_trip" json:"in_trip"`
	Timestamp                uint8   `bitread:"timestamp" json:"timestamp"`
	BatteryCritical          bool    `bitread:"battery_critical" json:"battery_critical"`
	InactivityIndicatorAlarm bool    `bitread:"inactivity_indicator_alarm" json:"inactivity_indicator_alarm"`
	InactivityTimerMinutes   uint32  `bitread:"inactivity_timer_minutes" json:"inactivity_timer_minutes"`
	BatteryVoltageVolts      float64 `bitread:"battery_voltage_volts" json:"battery_voltage_volts"`
	HeadingDegrees           uint32  `bitread:"heading_degrees" json:"heading_degrees"`
	SpeedKmh                 uint32  `bitread:"speed_kmh" json:"speed_kmh"`
}

// DecodePositionWithInactivityTimer decodes a port 33 payload.
func DecodePositionWithInactivityTimer(buf []byte) (PositionWithInactivityTimer, error) {
	var p PositionWithInactivityTimer
	f, err := format.Get(PositionInactivity)
	if err != nil {
		return p, err
	}
	r, err := f.Decode(buf)
	if err != nil {
		return p, err
	}
	err = r.DecodeInto(&p)
	return p, err
}
