package petrag

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const maxQueryLength = 2000

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Query is a question from a pet owner, optionally with where they are.
type Query struct {
	Text        string
	Location    string
	Coordinates *Coordinates
	// Radius in meters for facility search, zero means the configured default.
	Radius int
}

func (q Query) normalize(defaultRadius int) (Query, error) {
	q.Text = strings.TrimSpace(q.Text)
	q.Location = strings.TrimSpace(q.Location)

	if q.Text == "" {
		return Query{}, fmt.Errorf("%w: empty question", ErrInvalidQuery)
	}
	if utf8.RuneCountInString(q.Text) > maxQueryLength {
		return Query{}, fmt.Errorf("%w: question longer than %d characters", ErrInvalidQuery, maxQueryLength)
	}
	if q.Coordinates != nil && !q.Coordinates.Valid() {
		return Query{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidQuery)
	}
	if q.Radius < 0 {
		return Query{}, fmt.Errorf("%w: negative radius", ErrInvalidQuery)
	}
	if q.Radius == 0 {
		q.Radius = defaultRadius
	}

	return q, nil
}

func (q Query) hasLocation() bool {
	return q.Location != "" || q.Coordinates != nil
}
