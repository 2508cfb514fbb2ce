// Package pricing computes trip prices from a seat class's flat per-day rate.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidDuration is returned when the trip length is outside the limits.
	ErrInvalidDuration = errors.New("invalid trip duration")
	// ErrPriceOverflow is returned when a total does not fit in an int64.
	ErrPriceOverflow = errors.New("trip price out of range")
)

// Limits bounds the number of days a trip may last.
type Limits struct {
	Min     int
	Max     int
	Default int
}

// DefaultLimits matches the booking form: 1 to 30 days, 7 preselected.
var DefaultLimits = Limits{Min: 1, Max: 30, Default: 7}

// Validate checks that the limits are usable.
func (l Limits) Validate() error {
	if l.Min < 1 || l.Max < l.Min {
		return fmt.Errorf("pricing: invalid day range %d..%d", l.Min, l.Max)
	}
	if l.Default < l.Min || l.Default > l.Max {
		return fmt.Errorf("pricing: default %d outside %d..%d", l.Default, l.Min, l.Max)
	}
	return nil
}

// Resolve returns days, or the default when days is zero, and checks the range.
func (l Limits) Resolve(days int) (int, error) {
	if days == 0 {
		days = l.Default
	}
	if days < l.Min || days > l.Max {
		return 0, fmt.Errorf("%w: %d (allowed %d..%d)", ErrInvalidDuration, days, l.Min, l.Max)
	}
	return days, nil
}

// Total returns pricePerDay * days.  It does not range-check days; use
// Limits.Calculate for that.
func Total(pricePerDay int64, days int) int64 {
	return pricePerDay * int64(days)
}

// MaxPricePerDay is the highest rate whose total for maxDays still fits
// in an int64.
func MaxPricePerDay(maxDays int) int64 {
	if maxDays < 1 {
		maxDays = 1
	}
	return math.MaxInt64 / int64(maxDays)
}

// Quote is the result of pricing a trip.
type Quote struct {
	PricePerDay int64 `json:"price_per_day"`
	Days        int   `json:"days"`
	Total       int64 `json:"total"`
}

// Calculate resolves days against the limits and prices the trip.
func (l Limits) Calculate(pricePerDay int64, days int) (Quote, error) {
	d, err := l.Resolve(days)
	if err != nil {
		return Quote{}, err
	}
	if pricePerDay < 0 || pricePerDay > MaxPricePerDay(d) {
		return Quote{}, fmt.Errorf("%w: %d x %d days", ErrPriceOverflow, pricePerDay, d)
	}
	return Quote{PricePerDay: pricePerDay, Days: d, Total: Total(pricePerDay, d)}, nil
}
