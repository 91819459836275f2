package petragtest

import (
	"github.com/RichardKnop/petrag"
)

type FacilityOption func(*petrag.Facility)

func WithFacilityCoordinates(coords petrag.Coordinates) FacilityOption {
	return func(f *petrag.Facility) {
		f.Coordinates = &coords
	}
}

func WithFacilityStatus(status petrag.FacilityStatus) FacilityOption {
	return func(f *petrag.Facility) {
		f.Status = status
	}
}

// Near returns coordinates within roughly a kilometre of origin.
func (g *DataGen) Near(origin petrag.Coordinates) petrag.Coordinates {
	return petrag.Coordinates{
		Latitude:  origin.Latitude + g.Float64Range(-0.009, 0.009),
		Longitude: origin.Longitude + g.Float64Range(-0.009, 0.009),
	}
}

func (g *DataGen) Facility(options ...FacilityOption) petrag.Facility {
	coords := petrag.Coordinates{
		Latitude:  g.Float64Range(33, 38.5),
		Longitude: g.Float64Range(126, 129.5),
	}

	aFacility := petrag.Facility{
		Name:        g.Company() + " 동물병원",
		Address:     g.Street(),
		Phone:       g.Phone(),
		URL:         g.URL(),
		Coordinates: &coords,
		Status:      petrag.FacilityUnknown,
	}

	for _, o := range options {
		o(&aFacility)
	}

	return aFacility
}
