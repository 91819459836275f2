package kakao

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/RichardKnop/petrag"
)

type addressResponse struct {
	Documents []addressDocument `json:"documents"`
}

type addressDocument struct {
	AddressName string `json:"address_name"`
	X           string `json:"x"`
	Y           string `json:"y"`
}

// Resolve geocodes a free form address using the first match.
func (a *Adapter) Resolve(ctx context.Context, address string) (petrag.Coordinates, error) {
	var resp addressResponse
	if err := a.get(ctx, "/v2/local/search/address.json", url.Values{"query": {address}}, &resp); err != nil {
		return petrag.Coordinates{}, err
	}
	if len(resp.Documents) == 0 {
		return petrag.Coordinates{}, fmt.Errorf("address %q: %w", address, petrag.ErrNotFound)
	}

	coords, err := parseCoordinates(resp.Documents[0].X, resp.Documents[0].Y)
	if err != nil {
		return petrag.Coordinates{}, fmt.Errorf("address %q: %w", address, err)
	}

	a.logger.Sugar().With(
		"address", address,
		"match", resp.Documents[0].AddressName,
	).Debug("kakao geocode")

	return coords, nil
}

// parseCoordinates reads Kakao's string encoded longitude (x) and latitude (y).
func parseCoordinates(x, y string) (petrag.Coordinates, error) {
	lon, err := strconv.ParseFloat(x, 64)
	if err != nil {
		return petrag.Coordinates{}, fmt.Errorf("invalid longitude %q: %w", x, err)
	}
	lat, err := strconv.ParseFloat(y, 64)
	if err != nil {
		return petrag.Coordinates{}, fmt.Errorf("invalid latitude %q: %w", y, err)
	}
	coords := petrag.Coordinates{Latitude: lat, Longitude: lon}
	if !coords.Valid() {
		return petrag.Coordinates{}, fmt.Errorf("coordinates out of range: %s, %s", y, x)
	}
	return coords, nil
}
