package matching

import "lastmile/models"

// VehicleCapacity bounds the package a vehicle class can carry.
type VehicleCapacity struct {
	MaxWeightKg float64
	MaxVolumeM3 float64
}

// CapacityTable maps vehicle classes to their carrying limits. The table is
// injected into the matcher rather than hardcoded per call site.
type CapacityTable map[models.VehicleType]VehicleCapacity

// DefaultCapacityTable returns the stock capacity limits.
func DefaultCapacityTable() CapacityTable {
	return CapacityTable{
		models.VehicleBike:    {MaxWeightKg: 5, MaxVolumeM3: 0.03},
		models.VehicleScooter: {MaxWeightKg: 10, MaxVolumeM3: 0.06},
		models.VehicleCar:     {MaxWeightKg: 50, MaxVolumeM3: 0.4},
		models.VehicleVan:     {MaxWeightKg: 300, MaxVolumeM3: 3.0},
	}
}

// Limits returns the capacity for a vehicle class and whether one is known.
func (t CapacityTable) Limits(vehicle models.VehicleType) (VehicleCapacity, bool) {
	cap, ok := t[vehicle]
	return cap, ok
}

// Fits reports whether the package is within the vehicle's limits. Unknown
// vehicle classes are not constrained.
func (t CapacityTable) Fits(vehicle models.VehicleType, pkg models.PackageInfo) bool {
	limits, ok := t[vehicle]
	if !ok {
		return true
	}
	if pkg.WeightKg > limits.MaxWeightKg {
		return false
	}
	return pkg.Dimensions.VolumeM3() <= limits.MaxVolumeM3
}
