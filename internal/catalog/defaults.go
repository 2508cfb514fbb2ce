package catalog

import "github.com/iliyamo/space-travel-booking/internal/model"

var defaultTips = []string{
	"Pack light: Space luggage limits are strict!",
	"Practice zero-gravity exercises before your trip.",
	"Don't forget your space suit!",
}

func seatClasses(economy, luxury, vip int64) []model.SeatClass {
	return []model.SeatClass{
		{Name: "economy shuttles", PricePerDay: economy},
		{Name: "luxury cabins", PricePerDay: luxury},
		{Name: "vip zero-gravity", PricePerDay: vip},
	}
}

func defaultDestinations() []model.Destination {
	return []model.Destination{
		{
			Name:           "Mars Colony",
			SeatClasses:    seatClasses(5000, 15000, 30000),
			Accommodations: []string{"Red Dust Inn", "Olympus Mons Suites"},
		},
		{
			Name:           "Lunar Hotel",
			SeatClasses:    seatClasses(2000, 10000, 20000),
			Accommodations: []string{"Crater View Lodge", "Zero-Gravity Pods"},
		},
		{
			Name:           "Orbital Station Alpha",
			SeatClasses:    seatClasses(1000, 5000, 10000),
			Accommodations: []string{"Stellar Stay", "Galactic Suite"},
		},
	}
}
