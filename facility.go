package petrag

import (
	"cmp"
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
)

type FacilityStatus string

const (
	FacilityOpen    FacilityStatus = "OPEN"
	FacilityClosed  FacilityStatus = "CLOSED"
	FacilityUnknown FacilityStatus = "UNKNOWN"
)

type Facility struct {
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Phone       string         `json:"phone,omitempty"`
	URL         string         `json:"url,omitempty"`
	Coordinates *Coordinates   `json:"coordinates,omitempty"`
	Distance    float64        `json:"distance"`
	Status      FacilityStatus `json:"status"`
}

type LocateMode string

const (
	LocateNone        LocateMode = "none"
	LocateCoordinates LocateMode = "coordinates"
	LocateGeocoded    LocateMode = "geocoded"
	LocateKeyword     LocateMode = "keyword"
)

type FacilityRequest struct {
	Location    string
	Coordinates *Coordinates
	Radius      int
	// Geocoded carries coordinates resolved earlier in the same run.
	Geocoded *Coordinates
	// GeocodeFailed skips straight to keyword search.
	GeocodeFailed bool
}

type FacilityLookup struct {
	Facilities []Facility
	Mode       LocateMode
	Origin     *Coordinates
}

var errNoGeocoder = errors.New("no geocoder configured")

// FacilityLocator finds veterinary facilities near the owner.
type FacilityLocator struct {
	geocoder      Geocoder
	facilities    FacilitySearcher
	defaultRadius int
	limit         int
	callTimeout   time.Duration
	logger        *zap.Logger
}

func (l *FacilityLocator) Geocode(ctx context.Context, address string) (*Coordinates, error) {
	if l.geocoder == nil {
		return nil, errNoGeocoder
	}

	ctx, cancel := context.WithTimeout(ctx, l.callTimeout)
	defer cancel()

	c, err := l.geocoder.Resolve(ctx, address)
	if err != nil {
		return nil, err
	}
	if !c.Valid() {
		return nil, errors.New("geocoder returned invalid coordinates")
	}
	return &c, nil
}

// Locate never fails, provider errors produce an empty list. Results are
// sorted by ascending distance, open or unknown status only and within radius.
func (l *FacilityLocator) Locate(ctx context.Context, req FacilityRequest) FacilityLookup {
	radius := req.Radius
	if radius <= 0 {
		radius = l.defaultRadius
	}
	if l.facilities == nil {
		l.logger.Debug("facility search skipped, no provider configured")
		return FacilityLookup{Mode: LocateNone}
	}

	origin, mode := req.Coordinates, LocateCoordinates
	if origin == nil {
		if req.Location == "" {
			return FacilityLookup{Mode: LocateNone}
		}
		origin, mode = req.Geocoded, LocateGeocoded
		if origin == nil {
			if req.GeocodeFailed {
				return l.byKeyword(ctx, req.Location, radius)
			}
			c, err := l.Geocode(ctx, req.Location)
			if err != nil {
				l.logger.Sugar().With("error", err, "location", req.Location).Warn("geocoding failed, searching by keyword")
				return l.byKeyword(ctx, req.Location, radius)
			}
			origin = c
		}
	}

	ctx, cancel := context.WithTimeout(ctx, l.callTimeout)
	defer cancel()

	found, err := l.facilities.Nearby(ctx, *origin, radius, l.limit)
	if err != nil {
		l.logger.Sugar().With("error", err).Warn("nearby facility search failed")
		return FacilityLookup{Mode: mode, Origin: origin}
	}

	return FacilityLookup{
		Facilities: rankFacilities(found, *origin, radius, l.limit),
		Mode:       mode,
		Origin:     origin,
	}
}

// byKeyword searches by the raw location text and measures distances from the first hit.
func (l *FacilityLocator) byKeyword(ctx context.Context, location string, radius int) FacilityLookup {
	ctx, cancel := context.WithTimeout(ctx, l.callTimeout)
	defer cancel()

	keyword := location
	if !strings.Contains(keyword, "병원") {
		keyword += " 동물병원"
	}

	found, err := l.facilities.ByKeyword(ctx, keyword, l.limit)
	if err != nil {
		l.logger.Sugar().With("error", err, "keyword", keyword).Warn("keyword facility search failed")
		return FacilityLookup{Mode: LocateKeyword}
	}

	idx := slices.IndexFunc(found, func(f Facility) bool { return f.Coordinates != nil && f.Coordinates.Valid() })
	if idx < 0 {
		return FacilityLookup{Mode: LocateKeyword}
	}
	anchor := *found[idx].Coordinates

	return FacilityLookup{
		Facilities: rankFacilities(found, anchor, radius, l.limit),
		Mode:       LocateKeyword,
		Origin:     &anchor,
	}
}

func rankFacilities(found []Facility, origin Coordinates, radius, limit int) []Facility {
	ranked := make([]Facility, 0, len(found))
	for _, f := range found {
		if f.Coordinates == nil || !f.Coordinates.Valid() {
			continue
		}
		if f.Status == FacilityClosed {
			continue
		}
		if f.Status == "" {
			f.Status = FacilityUnknown
		}
		f.Distance = math.Round(Haversine(origin, *f.Coordinates))
		if f.Distance > float64(radius) {
			continue
		}
		ranked = append(ranked, f)
	}

	slices.SortStableFunc(ranked, func(a, b Facility) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}

const earthRadius = 6371000.0

// Haversine returns the great circle distance between two points in meters.
func Haversine(a, b Coordinates) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}
