package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/space-travel-booking/internal/model"
)

func TestDefaultCatalogOrderAndPrices(t *testing.T) {
	c := Default()
	ds := c.Destinations()
	require.Len(t, ds, 3)

	var names []string
	for _, d := range ds {
		names = append(names, d.Name)
	}
	if diff := cmp.Diff([]string{"Mars Colony", "Lunar Hotel", "Orbital Station Alpha"}, names); diff != "" {
		t.Fatalf("destination order mismatch (-want +got):\n%s", diff)
	}

	want := []model.SeatClass{
		{ID: "economy-shuttles", Name: "economy shuttles", PricePerDay: 2000},
		{ID: "luxury-cabins", Name: "luxury cabins", PricePerDay: 10000},
		{ID: "vip-zero-gravity", Name: "vip zero-gravity", PricePerDay: 20000},
	}
	if diff := cmp.Diff(want, ds[1].SeatClasses); diff != "" {
		t.Fatalf("lunar seat classes mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "mars-colony", ds[0].ID)
	assert.Equal(t, []string{"Stellar Stay", "Galactic Suite"}, ds[2].Accommodations)
}

func TestLookupByIDOrName(t *testing.T) {
	c := Default()

	d, err := c.Destination("orbital-station-alpha")
	require.NoError(t, err)
	assert.Equal(t, "Orbital Station Alpha", d.Name)

	d, err = c.Destination("  mars colony ")
	require.NoError(t, err)
	assert.Equal(t, "mars-colony", d.ID)

	_, sc, err := c.SeatClass("Mars Colony", "VIP Zero-Gravity")
	require.NoError(t, err)
	assert.Equal(t, int64(30000), sc.PricePerDay)

	_, sc, err = c.SeatClass("lunar-hotel", "luxury-cabins")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), sc.PricePerDay)
}

func TestLookupErrors(t *testing.T) {
	c := Default()

	_, err := c.Destination("Venus Spa")
	assert.True(t, errors.Is(err, ErrUnknownDestination))

	_, _, err = c.SeatClass("Venus Spa", "economy shuttles")
	assert.True(t, errors.Is(err, ErrUnknownDestination))

	_, _, err = c.SeatClass("Mars Colony", "cargo hold")
	assert.True(t, errors.Is(err, ErrUnknownSeatClass))

	_, err = c.Accommodations("nowhere")
	assert.True(t, errors.Is(err, ErrUnknownDestination))
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	c := Default()
	ds := c.Destinations()
	ds[0].SeatClasses[0].PricePerDay = 1
	ds[0].Accommodations[0] = "Tampered"

	tips := c.Tips()
	tips[0] = "tampered"

	d, err := c.Destination("mars-colony")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), d.SeatClasses[0].PricePerDay)
	assert.Equal(t, "Red Dust Inn", d.Accommodations[0])
	assert.Equal(t, "Pack light: Space luggage limits are strict!", c.Tips()[0])
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name string
		in   []model.Destination
	}{
		{"empty", nil},
		{"no name", []model.Destination{{SeatClasses: []model.SeatClass{{Name: "a", PricePerDay: 1}}}}},
		{"no seat classes", []model.Destination{{Name: "Moon"}}},
		{"zero price", []model.Destination{{Name: "Moon", SeatClasses: []model.SeatClass{{Name: "a"}}}}},
		{"price too high", []model.Destination{{Name: "Moon", SeatClasses: []model.SeatClass{{Name: "a", PricePerDay: MaxPricePerDay + 1}}}}},
		{"duplicate destination", []model.Destination{
			{Name: "Moon", SeatClasses: []model.SeatClass{{Name: "a", PricePerDay: 1}}},
			{Name: "moon", SeatClasses: []model.SeatClass{{Name: "a", PricePerDay: 1}}},
		}},
		{"duplicate seat class", []model.Destination{
			{Name: "Moon", SeatClasses: []model.SeatClass{{Name: "a", PricePerDay: 1}, {Name: "A", PricePerDay: 2}}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.in, nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	content := `
destinations:
  - name: Europa Base
    seat_classes:
      - name: ice shuttle
        price_per_day: 4200
    accommodations: ["Frozen Lake Lodge"]
tips:
  - Bring a thermos.
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	_, sc, err := c.SeatClass("europa-base", "ice-shuttle")
	require.NoError(t, err)
	assert.Equal(t, int64(4200), sc.PricePerDay)
	assert.Equal(t, []string{"Bring a thermos."}, c.Tips())
}

func TestLoadFallbacks(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Len(t, c.Destinations(), 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("destinations: [:"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}
