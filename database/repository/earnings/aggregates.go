package earningsRepo

import (
	"fmt"
	"time"

	"lastmile/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Summarize aggregates a rider's base totals over [from, to). Derived
// per-hour/per-km metrics are left to the service; only stored base
// quantities are summed here.
func (r *MongoEarningsRepo) Summarize(riderID string, from, to time.Time) (*SummaryTotals, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	settled := bson.D{{Key: "$in", Value: bson.A{
		"$paymentStatus",
		bson.A{models.PaymentStatusCompleted, models.PaymentStatusRefunded},
	}}}
	finalAmount := bson.D{{Key: "$add", Value: bson.A{
		"$netAmount",
		bson.D{{Key: "$ifNull", Value: bson.A{"$bonusAmount", 0}}},
		bson.D{{Key: "$sum", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$adjustments.amount", bson.A{}}}}}},
	}}}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"riderId":   riderID,
			"createdAt": bson.M{"$gte": from, "$lt": to},
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"finalAmount": finalAmount,
			"settled":     settled,
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":                  nil,
			"deliveryCount":        bson.M{"$sum": 1},
			"grossTotal":           bson.M{"$sum": "$grossAmount"},
			"feeTotal":             bson.M{"$sum": "$platformFee"},
			"netTotal":             bson.M{"$sum": "$netAmount"},
			"bonusTotal":           bson.M{"$sum": bson.M{"$ifNull": bson.A{"$bonusAmount", 0}}},
			"adjustmentTotal":      bson.M{"$sum": bson.M{"$sum": bson.M{"$ifNull": bson.A{"$adjustments.amount", bson.A{}}}}},
			"paidTotal":            bson.M{"$sum": bson.M{"$cond": bson.A{"$settled", "$finalAmount", 0}}},
			"pendingTotal":         bson.M{"$sum": bson.M{"$cond": bson.A{"$settled", 0, "$finalAmount"}}},
			"totalDistanceMeters":  bson.M{"$sum": "$distanceMeters"},
			"totalDurationMinutes": bson.M{"$sum": "$durationMinutes"},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("earnings summary aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)

	var totals []SummaryTotals
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("failed to decode earnings summary: %w", err)
	}
	if len(totals) == 0 {
		// No entries in the period is a valid, zero-valued summary.
		return &SummaryTotals{}, nil
	}
	return &totals[0], nil
}
