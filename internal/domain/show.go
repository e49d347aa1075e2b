package domain

import "github.com/shopspring/decimal"

type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Genre       string  `json:"genre"`
	Duration    int     `json:"duration"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
	Director    string  `json:"director"`
	Language    string  `json:"language"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	PosterUrl   string  `json:"posterUrl,omitempty"`
}

type Show struct {
	ID             int     `json:"id"`
	MovieID        int     `json:"movieId"`
	TheaterID      int     `json:"theaterId"`
	ShowDate       string  `json:"showDate"`
	ShowTime       string  `json:"showTime"`
	Price          float64 `json:"price"`
	AvailableSeats int     `json:"availableSeats"`
	ScreenNumber   int     `json:"screenNumber"`
}

type Theater struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Location      string        `json:"location"`
	Facilities    []string      `json:"facilities,omitempty"`
	SeatingLayout SeatingLayout `json:"seatingLayout"`
}

// ShowContext bundles everything a booking session needs to know about one
// scheduled screening. It is immutable for the lifetime of the session.
type ShowContext struct {
	Show    Show
	Movie   Movie
	Theater Theater
}

// UnitPrice returns the per-seat price of the show as a decimal.
func (sc ShowContext) UnitPrice() decimal.Decimal {
	return decimal.NewFromFloat(sc.Show.Price)
}
