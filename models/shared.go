package models

// GeoPoint represents a GeoJSON Point.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`               // Always "Point"
	Coordinates []float64 `bson:"coordinates" json:"coordinates"` // [longitude, latitude]
}

// NewGeoPoint builds a GeoJSON point from a longitude/latitude pair.
func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// TimeWindow bounds a pickup or delivery slot, minutes from midnight.
type TimeWindow struct {
	Start int `bson:"start" json:"start"`
	End   int `bson:"end" json:"end"`
}

// LocationInfo describes one end of a delivery.
type LocationInfo struct {
	Address      string      `bson:"address" json:"address"`
	Geo          GeoPoint    `bson:"geo" json:"geo"`
	ContactName  string      `bson:"contactName" json:"contactName"`
	ContactPhone string      `bson:"contactPhone" json:"contactPhone"`
	Window       *TimeWindow `bson:"window,omitempty" json:"window,omitempty"` // Optional time window.
}

// Dimensions holds package dimensions in centimetres.
type Dimensions struct {
	Length float64 `bson:"length" json:"length"`
	Width  float64 `bson:"width" json:"width"`
	Height float64 `bson:"height" json:"height"`
}

// VolumeM3 returns the package volume in cubic metres.
func (d Dimensions) VolumeM3() float64 {
	return (d.Length / 100) * (d.Width / 100) * (d.Height / 100)
}

// PackageInfo describes what is being moved.
type PackageInfo struct {
	WeightKg   float64    `bson:"weightKg" json:"weightKg"`
	Dimensions Dimensions `bson:"dimensions" json:"dimensions"`
	Fragile    bool       `bson:"fragile" json:"fragile"`
}

// PaymentInfo is the price attached to an offer by the posting business.
type PaymentInfo struct {
	Amount   float64 `bson:"amount" json:"amount"`     // Gross amount offered, non-negative.
	Currency string  `bson:"currency" json:"currency"` // ISO code, e.g. "USD"
	Method   string  `bson:"method" json:"method"`     // e.g. "card"
}
