package airlines

import (
	"testing"
	"time"

	"flightwatch-service/internal/domain/entity"
)

func TestLookup(t *testing.T) {
	if _, ok := Lookup(NouvelairCode); !ok {
		t.Error("Nouvelair must be registered")
	}
	if _, ok := Lookup(TunisairCode); !ok {
		t.Error("Tunisair must be registered")
	}
	if _, ok := Lookup("XX"); ok {
		t.Error("unknown airline code must not resolve")
	}
}

func TestTunisairRouteTables(t *testing.T) {
	profile, _ := Lookup(TunisairCode)

	if len(profile.EurNativeRoutes) != 7 {
		t.Errorf("EUR routes = %d, want 7", len(profile.EurNativeRoutes))
	}
	if len(profile.TndNativeRoutes) != 7 {
		t.Errorf("TND routes = %d, want 7", len(profile.TndNativeRoutes))
	}
	for _, r := range profile.EurNativeRoutes {
		if tunisianAirports[r.From] {
			t.Errorf("EUR route %s-%s departs Tunisia", r.From, r.To)
		}
		if !tunisianAirports[r.To] {
			t.Errorf("EUR route %s-%s does not land in Tunisia", r.From, r.To)
		}
	}
	for _, r := range profile.TndNativeRoutes {
		if !tunisianAirports[r.From] {
			t.Errorf("TND route %s-%s does not depart Tunisia", r.From, r.To)
		}
	}
}

func TestNativeCurrency(t *testing.T) {
	tests := []struct {
		airline string
		dep     string
		want    string
	}{
		{TunisairCode, "TUN", CurrencyTND},
		{TunisairCode, "MIR", CurrencyTND},
		{TunisairCode, "DJE", CurrencyTND},
		{TunisairCode, "MUC", CurrencyEUR},
		{TunisairCode, "BRU", CurrencyEUR},
		{NouvelairCode, "TUN", CurrencyEUR},
		{NouvelairCode, "MUC", CurrencyEUR},
	}
	for _, tt := range tests {
		profile, _ := Lookup(tt.airline)
		if got := profile.NativeCurrency(tt.dep); got != tt.want {
			t.Errorf("%s from %s = %s, want %s", tt.airline, tt.dep, got, tt.want)
		}
	}
}

func TestBookingURL_Nouvelair(t *testing.T) {
	flight := &entity.Flight{
		DepartureDate:        time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		DepartureAirportCode: "TUN",
		ArrivalAirportCode:   "MUC",
		AirlineCode:          NouvelairCode,
	}

	got := BookingURL(flight)
	want := "https://booking.nouvelair.com/ibe/availability" +
		"?tripType=ONE_WAY" +
		"&passengerQuantities%5B0%5D.passengerType=ADULT" +
		"&passengerQuantities%5B0%5D.quantity=1" +
		"&currency=EUR" +
		"&depPort=TUN&arrPort=MUC&departureDate=15.10.2026&lang=en"
	if got != want {
		t.Errorf("BookingURL =\n%s\nwant\n%s", got, want)
	}
}

func TestBookingURL_NoTemplate(t *testing.T) {
	tunisair := &entity.Flight{
		DepartureDate:        time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		DepartureAirportCode: "MUC",
		ArrivalAirportCode:   "TUN",
		AirlineCode:          TunisairCode,
	}
	if got := BookingURL(tunisair); got != "" {
		t.Errorf("Tunisair BookingURL = %q, want empty", got)
	}

	unknown := &entity.Flight{AirlineCode: "XX"}
	if got := BookingURL(unknown); got != "" {
		t.Errorf("unknown airline BookingURL = %q, want empty", got)
	}
}
