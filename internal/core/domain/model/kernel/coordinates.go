package kernel

import (
	"errors"
	"math"

	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// ErrCoordinatesAreNotConstructed is returned when a zero-value Coordinates is used.
var ErrCoordinatesAreNotConstructed = errs.NewValueIsRequiredError(
	"coordinates must be created via NewCoordinates constructor")

// Coordinates is a latitude/longitude pair in decimal degrees. Customer
// addresses and partner listings are located with it, and the distance between
// the two drives the delivery fee tier.
//
// Example:
//
//	listing, _ := kernel.NewCoordinates(-7.2575, 112.7521)
//	customer, _ := kernel.NewCoordinates(-7.2819, 112.7950)
//	km := listing.DistanceTo(customer) // 5.45
type Coordinates struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewCoordinates validates latitude in [-90, 90] and longitude in [-180, 180].
func NewCoordinates(latitude, longitude float64) (Coordinates, error) {
	c := Coordinates{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(c.setLatitude(latitude), c.setLongitude(longitude)); err != nil {
		return Coordinates{}, err
	}

	return c, nil
}

func (c Coordinates) Latitude() float64 {
	return c.latitude
}

func (c Coordinates) Longitude() float64 {
	return c.longitude
}

// Validate fails for coordinates not created via NewCoordinates.
func (c Coordinates) Validate() error {
	return c.guard.Validate(ErrCoordinatesAreNotConstructed)
}

func (c Coordinates) IsEqual(other Coordinates) bool {
	return c.latitude == other.latitude && c.longitude == other.longitude
}

// DistanceTo returns the great-circle distance to other in kilometres,
// rounded to two decimals.
func (c Coordinates) DistanceTo(other Coordinates) decimal.Decimal {
	return HaversineKm(c.latitude, c.longitude, other.latitude, other.longitude)
}

// HaversineKm computes the great-circle distance between two points given in
// decimal degrees, with R = 6371 km, rounded to two decimals. It does not
// validate its input.
func HaversineKm(lat1, lon1, lat2, lon2 float64) decimal.Decimal {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	arc := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return decimal.NewFromFloat(EarthRadiusKm * arc).Round(2)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func (c *Coordinates) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || latitude < MinLatitude || latitude > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}
	c.latitude = latitude
	return nil
}

func (c *Coordinates) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || longitude < MinLongitude || longitude > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}
	c.longitude = longitude
	return nil
}
