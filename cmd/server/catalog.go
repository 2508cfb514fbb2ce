package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/space-travel-booking/internal/catalog"
	"github.com/iliyamo/space-travel-booking/internal/config"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print destinations, seat classes and accommodations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(envCatalogPath())
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), cat)
			return nil
		},
	}
}

func newQuoteCmd() *cobra.Command {
	var dest, class string
	var days int
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a trip without booking it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(envCatalogPath())
			if err != nil {
				return err
			}
			d, sc, err := cat.SeatClass(dest, class)
			if err != nil {
				return err
			}
			limits := limitsFrom(config.LoadTripConfig())
			if err := limits.Validate(); err != nil {
				return err
			}
			q, err := limits.Calculate(sc.PricePerDay, days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s, %s: Total Price for %d days: $%d\n", d.Name, sc.Label(), q.Days, q.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&dest, "destination", "", "destination id or name")
	cmd.Flags().StringVar(&class, "seat-class", "", "seat class id or name")
	cmd.Flags().IntVar(&days, "days", 0, "trip length in days (default TRIP_DEFAULT_DAYS)")
	_ = cmd.MarkFlagRequired("destination")
	_ = cmd.MarkFlagRequired("seat-class")
	return cmd
}

func envCatalogPath() string { return os.Getenv("CATALOG_PATH") }

func printCatalog(w io.Writer, cat *catalog.Catalog) {
	for _, d := range cat.Destinations() {
		fmt.Fprintf(w, "%s (%s)\n", d.Name, d.ID)
		for _, sc := range d.SeatClasses {
			fmt.Fprintf(w, "  - %s\n", sc.Label())
		}
		if len(d.Accommodations) > 0 {
			fmt.Fprintln(w, "  Recommended accommodations:")
			for _, a := range d.Accommodations {
				fmt.Fprintf(w, "    * %s\n", a)
			}
		}
	}
}
