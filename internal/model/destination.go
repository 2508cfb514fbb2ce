package model

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Destination is a bookable place in the catalog together with the seat
// classes sold for it and the accommodations recommended after booking.
//
// Fields:
//  ID             – URL slug derived from Name ("Mars Colony" -> "mars-colony").
//  Name           – display name.
//  SeatClasses    – seat classes in catalog order.
//  Accommodations – recommended places to stay at the destination.
type Destination struct {
	ID             string      `json:"id" yaml:"id"`
	Name           string      `json:"name" yaml:"name"`
	SeatClasses    []SeatClass `json:"seat_classes" yaml:"seat_classes"`
	Accommodations []string    `json:"accommodations" yaml:"accommodations"`
}

// SeatClass is one of the fixed fares of a destination.  The price is flat
// per day of the trip, in whole dollars.
type SeatClass struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	PricePerDay int64  `json:"price_per_day" yaml:"price_per_day"`
}

// Label is the human form used by the booking form, e.g.
// "Economy shuttles - $5000".
func (s SeatClass) Label() string {
	return Capitalize(s.Name) + " - $" + strconv.FormatInt(s.PricePerDay, 10)
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// Slug turns a display name into a lower-case, dash separated identifier.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
