package kakao

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/RichardKnop/petrag"
)

type placeResponse struct {
	Documents []placeDocument `json:"documents"`
}

type placeDocument struct {
	PlaceName       string `json:"place_name"`
	AddressName     string `json:"address_name"`
	RoadAddressName string `json:"road_address_name"`
	Phone           string `json:"phone"`
	PlaceURL        string `json:"place_url"`
	X               string `json:"x"`
	Y               string `json:"y"`
	Distance        string `json:"distance"`
}

// Nearby lists veterinary facilities around a point, nearest first.
func (a *Adapter) Nearby(ctx context.Context, at petrag.Coordinates, radius, limit int) ([]petrag.Facility, error) {
	params := url.Values{
		"query":  {a.category},
		"x":      {strconv.FormatFloat(at.Longitude, 'f', -1, 64)},
		"y":      {strconv.FormatFloat(at.Latitude, 'f', -1, 64)},
		"radius": {strconv.Itoa(min(max(radius, 0), maxRadius))},
		"sort":   {"distance"},
		"size":   {strconv.Itoa(pageSize(limit))},
	}
	return a.searchPlaces(ctx, params)
}

// ByKeyword searches facilities by free text, used when no coordinates are known.
func (a *Adapter) ByKeyword(ctx context.Context, keyword string, limit int) ([]petrag.Facility, error) {
	params := url.Values{
		"query": {keyword},
		"size":  {strconv.Itoa(pageSize(limit))},
	}
	return a.searchPlaces(ctx, params)
}

func (a *Adapter) searchPlaces(ctx context.Context, params url.Values) ([]petrag.Facility, error) {
	var resp placeResponse
	if err := a.get(ctx, "/v2/local/search/keyword.json", params, &resp); err != nil {
		return nil, err
	}

	facilities := make([]petrag.Facility, 0, len(resp.Documents))
	for _, doc := range resp.Documents {
		facilities = append(facilities, a.mapPlace(doc))
	}

	a.logger.Sugar().With("query", params.Get("query"), "results", len(facilities)).Debug("kakao place search")

	return facilities, nil
}

func (a *Adapter) mapPlace(doc placeDocument) petrag.Facility {
	facility := petrag.Facility{
		Name:    doc.PlaceName,
		Address: doc.RoadAddressName,
		Phone:   doc.Phone,
		URL:     doc.PlaceURL,
		Status:  petrag.FacilityUnknown,
	}
	if facility.Address == "" {
		facility.Address = doc.AddressName
	}
	// Kakao has no opening hours, closed businesses keep a marker in their name.
	if strings.Contains(doc.PlaceName, "폐업") {
		facility.Status = petrag.FacilityClosed
	}
	if coords, err := parseCoordinates(doc.X, doc.Y); err == nil {
		facility.Coordinates = &coords
	} else {
		a.logger.Sugar().With("place", doc.PlaceName, "error", err).Warn("skipping place coordinates")
	}
	if d, err := strconv.ParseFloat(doc.Distance, 64); err == nil {
		facility.Distance = d
	}
	return facility
}

func pageSize(limit int) int {
	if limit <= 0 || limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
