package api

import (
	"context"
	"fmt"

	"github.com/cinemabook/booking-client/internal/domain"
)

// GetMovie fetches one movie by id.
func (c *Client) GetMovie(ctx context.Context, id int) (domain.Movie, error) {
	var movie domain.Movie
	err := c.getJSON(ctx, fmt.Sprintf("/movies/%d", id), &movie)
	return movie, err
}

// GetMovies fetches the full movie catalog.
func (c *Client) GetMovies(ctx context.Context) ([]domain.Movie, error) {
	var movies []domain.Movie
	err := c.getJSON(ctx, "/movies", &movies)
	return movies, err
}

// GetShow fetches one scheduled screening by id.
func (c *Client) GetShow(ctx context.Context, id int) (domain.Show, error) {
	var show domain.Show
	err := c.getJSON(ctx, fmt.Sprintf("/shows/%d", id), &show)
	return show, err
}

// GetShowsByMovie fetches all screenings of a movie.
func (c *Client) GetShowsByMovie(ctx context.Context, movieID int) ([]domain.Show, error) {
	var shows []domain.Show
	err := c.getJSON(ctx, fmt.Sprintf("/shows/movie/%d", movieID), &shows)
	return shows, err
}

// GetTheater fetches one theater by id, including its seating layout.
func (c *Client) GetTheater(ctx context.Context, id int) (domain.Theater, error) {
	var theater domain.Theater
	err := c.getJSON(ctx, fmt.Sprintf("/theaters/%d", id), &theater)
	return theater, err
}
