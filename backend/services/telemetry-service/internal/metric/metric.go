// Package metric is the allow-list for caller supplied metric names. Every
// query path that selects a measurement by name goes through Parse first and
// then reads values through Kind, never through the raw string.
package metric

import (
	"errors"
	"fmt"

	"water360/backend/services/telemetry-service/internal/models"
)

// ErrInvalidMetric is returned for any name outside the allow-list.
var ErrInvalidMetric = errors.New("invalid metric")

// Kind is one of the three measured quantities.
type Kind int

const (
	PH Kind = iota + 1
	Temperature
	Turbidity
)

var names = map[string]Kind{
	"ph_value":    PH,
	"temperature": Temperature,
	"turbidity":   Turbidity,
}

// Parse maps an exact wire name onto a Kind.
func Parse(name string) (Kind, error) {
	if k, ok := names[name]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMetric, name)
}

// All returns every kind in reporting order.
func All() []Kind {
	return []Kind{PH, Temperature, Turbidity}
}

func (k Kind) String() string {
	switch k {
	case PH:
		return "ph_value"
	case Temperature:
		return "temperature"
	case Turbidity:
		return "turbidity"
	default:
		return fmt.Sprintf("metric(%d)", int(k))
	}
}

// Title is the display name used in warning messages.
func (k Kind) Title() string {
	switch k {
	case PH:
		return "Ph Value"
	case Temperature:
		return "Temperature"
	case Turbidity:
		return "Turbidity"
	default:
		return k.String()
	}
}

// Value reads the measurement for k from r.
func (k Kind) Value(r models.Reading) float64 {
	switch k {
	case PH:
		return r.PHValue
	case Temperature:
		return r.Temperature
	case Turbidity:
		return r.Turbidity
	default:
		panic(fmt.Sprintf("metric: value of unknown kind %d", int(k)))
	}
}

// Range is an inclusive safe interval.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the bounds.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// SafeRange returns the fixed policy range for k.
func (k Kind) SafeRange() Range {
	switch k {
	case PH:
		return Range{Min: 6.5, Max: 8.5}
	case Temperature:
		return Range{Min: 0, Max: 33}
	case Turbidity:
		return Range{Min: 1, Max: 5}
	default:
		panic(fmt.Sprintf("metric: range of unknown kind %d", int(k)))
	}
}
