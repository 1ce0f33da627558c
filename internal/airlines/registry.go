// Package airlines holds the per-carrier knowledge the pipeline needs:
// scrape route tables, native currency rules and booking deep-link templates.
// Everything airline-specific lives here instead of scattered conditionals.
package airlines

import (
	"fmt"

	"flightwatch-service/internal/domain/entity"
)

const (
	CurrencyEUR = "EUR"
	CurrencyTND = "TND"

	NouvelairCode = "BJ"
	TunisairCode  = "TU"
)

// Route is one directed scrape route.
type Route struct {
	From string
	To   string
}

// Profile bundles an airline's scrape and linking behavior.
type Profile struct {
	Code string
	Name string

	// EurNativeRoutes and TndNativeRoutes are fixed scrape tables, split by
	// the currency the upstream quotes for that direction. Both empty when
	// the adapter derives its routes from airport metadata instead.
	EurNativeRoutes []Route
	TndNativeRoutes []Route

	nativeCurrency func(depCode string) string
	bookingURL     func(f *entity.Flight) string
}

// NativeCurrency returns the currency the upstream quotes for a departure.
func (p *Profile) NativeCurrency(depCode string) string {
	if p.nativeCurrency == nil {
		return CurrencyEUR
	}
	return p.nativeCurrency(depCode)
}

// BookingURL returns the airline's booking deep link for a flight, or
// ok=false when the airline has no link template.
func (p *Profile) BookingURL(f *entity.Flight) (string, bool) {
	if p.bookingURL == nil {
		return "", false
	}
	return p.bookingURL(f), true
}

var tunisianAirports = map[string]bool{
	"TUN": true,
	"MIR": true,
	"DJE": true,
}

var registry = map[string]*Profile{
	NouvelairCode: {
		Code: NouvelairCode,
		Name: "Nouvelair",
		nativeCurrency: func(string) string {
			return CurrencyEUR
		},
		bookingURL: nouvelairBookingURL,
	},
	TunisairCode: {
		Code: TunisairCode,
		Name: "Tunisair",
		EurNativeRoutes: []Route{
			{"MUC", "TUN"},
			{"MUC", "MIR"},
			{"MUC", "DJE"},
			{"FRA", "TUN"},
			{"FRA", "DJE"},
			{"DUS", "TUN"},
			{"BRU", "TUN"},
		},
		TndNativeRoutes: []Route{
			{"TUN", "BRU"},
			{"TUN", "MUC"},
			{"TUN", "FRA"},
			{"TUN", "DUS"},
			{"MIR", "MUC"},
			{"DJE", "MUC"},
			{"DJE", "FRA"},
		},
		nativeCurrency: func(depCode string) string {
			if tunisianAirports[depCode] {
				return CurrencyTND
			}
			return CurrencyEUR
		},
		// Tunisair exposes no stable deep-link scheme for a dated one-way
		// search, so flights stay linkless.
	},
}

// Lookup returns the profile registered for an airline code.
func Lookup(code string) (*Profile, bool) {
	p, ok := registry[code]
	return p, ok
}

// BookingURL builds the booking deep link for a flight, empty when the
// airline is unrecognized or has no link template.
func BookingURL(f *entity.Flight) string {
	p, ok := registry[f.AirlineCode]
	if !ok {
		return ""
	}
	url, ok := p.BookingURL(f)
	if !ok {
		return ""
	}
	return url
}

func nouvelairBookingURL(f *entity.Flight) string {
	return fmt.Sprintf(
		"https://booking.nouvelair.com/ibe/availability"+
			"?tripType=ONE_WAY"+
			"&passengerQuantities%%5B0%%5D.passengerType=ADULT"+
			"&passengerQuantities%%5B0%%5D.quantity=1"+
			"&currency=EUR"+
			"&depPort=%s&arrPort=%s&departureDate=%s&lang=en",
		f.DepartureAirportCode,
		f.ArrivalAirportCode,
		f.DepartureDate.Format("02.01.2006"),
	)
}
