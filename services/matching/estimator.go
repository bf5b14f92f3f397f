package matching

import (
	"math"

	"lastmile/models"
)

// EarthRadiusMeters is the mean Earth radius used for spherical distance.
const EarthRadiusMeters = 6371000.0

// Average travel speeds per vehicle class, km/h.
var vehicleSpeeds = map[models.VehicleType]float64{
	models.VehicleBike:    15,
	models.VehicleScooter: 25,
	models.VehicleCar:     30,
	models.VehicleVan:     25,
}

// defaultSpeedKmh covers unrecognised vehicle classes.
const defaultSpeedKmh = 25.0

// ValidateCoordinates checks that a GeoJSON point carries exactly two finite
// numbers within longitude [-180,180] and latitude [-90,90].
func ValidateCoordinates(p models.GeoPoint) error {
	if len(p.Coordinates) != 2 {
		return NewInvalidCoordinatesError("coordinates must be [longitude, latitude]")
	}
	lng, lat := p.Coordinates[0], p.Coordinates[1]
	if math.IsNaN(lng) || math.IsInf(lng, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return NewInvalidCoordinatesError("coordinates must be finite numbers")
	}
	if lng < -180 || lng > 180 {
		return NewInvalidCoordinatesError("longitude out of range [-180, 180]")
	}
	if lat < -90 || lat > 90 {
		return NewInvalidCoordinatesError("latitude out of range [-90, 90]")
	}
	return nil
}

// Distance returns the great-circle distance between two points in metres,
// using the haversine formula. Malformed points yield an error, never a panic.
func Distance(p1, p2 models.GeoPoint) (float64, error) {
	if err := ValidateCoordinates(p1); err != nil {
		return 0, err
	}
	if err := ValidateCoordinates(p2); err != nil {
		return 0, err
	}

	lon1, lat1 := p1.Coordinates[0], p1.Coordinates[1]
	lon2, lat2 := p2.Coordinates[0], p2.Coordinates[1]

	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c, nil
}

// EstimateDuration converts a distance to an expected delivery time in
// minutes for the given vehicle class, including a dwell-time buffer of
// clamp(0.3 x travel, 10, 20) minutes for pickup and hand-off.
func EstimateDuration(distanceMeters float64, vehicle models.VehicleType) float64 {
	speed, ok := vehicleSpeeds[vehicle]
	if !ok {
		speed = defaultSpeedKmh
	}
	travelMinutes := (distanceMeters / 1000) / speed * 60

	buffer := 0.3 * travelMinutes
	if buffer < 10 {
		buffer = 10
	} else if buffer > 20 {
		buffer = 20
	}
	return travelMinutes + buffer
}
