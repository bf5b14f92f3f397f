package offerRepo

import (
	"fmt"
	"time"

	"lastmile/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GeoSearch ranks open offers around the rider using a $geoNear pipeline on
// the pickup point's 2dsphere index. Distance lands in "distanceFromRider"
// (metres) so both the indexed and the fallback path surface the same field.
func (r *MongoOfferRepo) GeoSearch(criteria OfferSearchCriteria) ([]models.OfferSummary, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	var pipeline mongo.Pipeline

	// 1) $geoNear: must come first to filter+sort by distance.
	pipeline = append(pipeline, bson.D{
		{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: criteria.Center.Coordinates},
			}},
			{Key: "key", Value: "pickup.geo"},
			{Key: "distanceField", Value: "distanceFromRider"},
			{Key: "spherical", Value: true},
			{Key: "maxDistance", Value: criteria.MaxDistance},
			{Key: "query", Value: bson.M{"status": models.OfferStatusOpen}},
		}},
	})

	// 2) $match: price band and package constraints.
	matchFilter := bson.M{}
	if criteria.MinPayment > 0 {
		matchFilter["payment.amount"] = bson.M{"$gte": criteria.MinPayment}
	}
	if criteria.MaxPayment > 0 {
		bound, ok := matchFilter["payment.amount"].(bson.M)
		if !ok {
			bound = bson.M{}
		}
		bound["$lte"] = criteria.MaxPayment
		matchFilter["payment.amount"] = bound
	}
	if criteria.ExcludeFragile {
		matchFilter["package.fragile"] = false
	}
	if criteria.MaxWeightKg > 0 {
		matchFilter["package.weightKg"] = bson.M{"$lte": criteria.MaxWeightKg}
	}
	if criteria.MaxVolumeM3 > 0 {
		// Dimensions are stored in centimetres; compare volume in m^3.
		volume := bson.M{"$divide": bson.A{
			bson.M{"$multiply": bson.A{
				"$package.dimensions.length",
				"$package.dimensions.width",
				"$package.dimensions.height",
			}},
			1000000,
		}}
		matchFilter["$expr"] = bson.M{"$lte": bson.A{volume, criteria.MaxVolumeM3}}
	}
	if len(matchFilter) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: matchFilter}})
	}

	// 3) $sort: requested key first, offer id breaks ties deterministically.
	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sortDoc(criteria.SortBy)}})

	if criteria.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: criteria.Limit}})
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("geo search aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.OfferSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode offer summaries: %w", err)
	}
	return summaries, nil
}

func sortDoc(sortBy string) bson.D {
	switch sortBy {
	case "payment":
		return bson.D{{Key: "payment.amount", Value: -1}, {Key: "id", Value: 1}}
	case "created":
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "id", Value: 1}}
	default:
		return bson.D{{Key: "distanceFromRider", Value: 1}, {Key: "id", Value: 1}}
	}
}

// ListOpen returns open offers without geo ranking. The matcher uses this as
// the fallback path when the 2dsphere index is unavailable.
func (r *MongoOfferRepo) ListOpen(limit int64) ([]models.Offer, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"status": models.OfferStatusOpen}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list open offers: %w", err)
	}
	defer cursor.Close(ctx)

	var offers []models.Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}
	return offers, nil
}
