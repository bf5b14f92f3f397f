package matching

import (
	"fmt"
	"sort"

	offerRepo "lastmile/database/repository/offer"
	"lastmile/models"

	"go.uber.org/zap"
)

// RadiusBounds clamp a rider-supplied search radius.
type RadiusBounds struct {
	Default float64
	Min     float64
	Max     float64
}

// DefaultMatchingService implements MatchingService.
type DefaultMatchingService struct {
	OfferRepo offerRepo.OfferRepository
	Capacity  CapacityTable
	Radius    RadiusBounds
	Logger    *zap.Logger
}

// FindNearbyOffers ranks open offers around the rider. It prefers the
// datastore's $geoNear path and falls back to in-process haversine ranking
// when the geo index is unavailable; both paths share one filter surface.
func (s *DefaultMatchingService) FindNearbyOffers(query NearbyQuery) ([]models.OfferSummary, error) {
	if err := ValidateCoordinates(query.RiderLocation); err != nil {
		return nil, err
	}

	radius := query.MaxDistance
	if radius <= 0 {
		radius = s.Radius.Default
	}
	if radius < s.Radius.Min {
		radius = s.Radius.Min
	}
	if radius > s.Radius.Max {
		radius = s.Radius.Max
	}

	criteria := offerRepo.OfferSearchCriteria{
		Center:         query.RiderLocation,
		MaxDistance:    radius,
		MinPayment:     query.MinPayment,
		MaxPayment:     query.MaxPayment,
		ExcludeFragile: query.ExcludeFragile,
		SortBy:         query.SortBy,
		Limit:          query.Limit,
	}
	if limits, ok := s.Capacity.Limits(query.Vehicle); ok {
		criteria.MaxWeightKg = limits.MaxWeightKg
		criteria.MaxVolumeM3 = limits.MaxVolumeM3
	}

	summaries, err := s.OfferRepo.GeoSearch(criteria)
	if err != nil {
		if !offerRepo.IsGeoIndexUnavailable(err) {
			return nil, fmt.Errorf("nearby search failed: %w", err)
		}
		s.Logger.Warn("geo index unavailable, falling back to in-process ranking", zap.Error(err))
		summaries, err = s.scanNearby(query, radius)
		if err != nil {
			return nil, err
		}
	}

	for i := range summaries {
		summaries[i].EstimatedDuration = EstimateDuration(summaries[i].DistanceFromRider, query.Vehicle)
	}
	if summaries == nil {
		summaries = []models.OfferSummary{}
	}
	return summaries, nil
}

// scanNearby is the indexless path: scan open offers and rank with the
// estimator. Results stay numerically consistent with $geoNear since both
// compute spherical distance on the same Earth radius.
func (s *DefaultMatchingService) scanNearby(query NearbyQuery, radius float64) ([]models.OfferSummary, error) {
	offers, err := s.OfferRepo.ListOpen(0)
	if err != nil {
		return nil, fmt.Errorf("fallback scan failed: %w", err)
	}

	var summaries []models.OfferSummary
	for _, offer := range offers {
		dist, err := Distance(query.RiderLocation, offer.Pickup.Geo)
		if err != nil {
			// Offers with malformed coordinates are skipped, not fatal.
			s.Logger.Warn("skipping offer with invalid pickup coordinates",
				zap.String("offerId", offer.ID), zap.Error(err))
			continue
		}
		if dist > radius {
			continue
		}
		if query.MinPayment > 0 && offer.Payment.Amount < query.MinPayment {
			continue
		}
		if query.MaxPayment > 0 && offer.Payment.Amount > query.MaxPayment {
			continue
		}
		if query.ExcludeFragile && offer.Package.Fragile {
			continue
		}
		if !s.Capacity.Fits(query.Vehicle, offer.Package) {
			continue
		}
		summaries = append(summaries, models.OfferSummary{
			ID:                offer.ID,
			Title:             offer.Title,
			Package:           offer.Package,
			Pickup:            offer.Pickup,
			Delivery:          offer.Delivery,
			Payment:           offer.Payment,
			DistanceFromRider: dist,
			CreatedAt:         offer.CreatedAt,
		})
	}

	sortSummaries(summaries, query.SortBy)
	if query.Limit > 0 && int64(len(summaries)) > query.Limit {
		summaries = summaries[:query.Limit]
	}
	return summaries, nil
}

// sortSummaries orders results by the requested key, offer id breaking ties
// so pagination stays deterministic.
func sortSummaries(summaries []models.OfferSummary, sortBy string) {
	sort.Slice(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		switch sortBy {
		case "payment":
			if a.Payment.Amount != b.Payment.Amount {
				return a.Payment.Amount > b.Payment.Amount
			}
		case "created":
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		default:
			if a.DistanceFromRider != b.DistanceFromRider {
				return a.DistanceFromRider < b.DistanceFromRider
			}
		}
		return a.ID < b.ID
	})
}
