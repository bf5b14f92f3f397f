package trackingRepo

import (
	"context"
	"fmt"
	"time"

	"lastmile/database"
	"lastmile/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTrackingRepo implements TrackingRepository using MongoDB.
type MongoTrackingRepo struct {
	coll *mongo.Collection
}

// NewMongoTrackingRepo creates a new instance of TrackingRepository using MongoDB.
func NewMongoTrackingRepo() TrackingRepository {
	coll := database.Collection("delivery_tracking")
	repo := &MongoTrackingRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("tracking repo index setup failed: %v", err))
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func (r *MongoTrackingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "offerId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "riderId", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// CreateIfAbsent inserts the tracking document; a duplicate offerId means one
// already exists, so that document is returned unchanged.
func (r *MongoTrackingRepo) CreateIfAbsent(tracking *models.DeliveryTracking) (*models.DeliveryTracking, bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, tracking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			existing, getErr := r.GetByOfferID(tracking.OfferID)
			if getErr != nil {
				return nil, false, fmt.Errorf("failed to fetch existing tracking for offer %s: %w", tracking.OfferID, getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create tracking document: %w", err)
	}
	return tracking, true, nil
}

func (r *MongoTrackingRepo) GetByOfferID(offerID string) (*models.DeliveryTracking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var tracking models.DeliveryTracking
	if err := r.coll.FindOne(ctx, bson.M{"offerId": offerID}).Decode(&tracking); err != nil {
		return nil, fmt.Errorf("failed to fetch tracking for offer %s: %w", offerID, err)
	}
	return &tracking, nil
}

// AppendEvent pushes the event and moves currentStatus in one update.
func (r *MongoTrackingRepo) AppendEvent(offerID string, event models.TrackingEvent) (*models.DeliveryTracking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"events": event},
		"$set": bson.M{
			"currentStatus": event.Kind,
			"updatedAt":     event.Timestamp,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tracking models.DeliveryTracking
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"offerId": offerID}, update, opts).Decode(&tracking)
	if err != nil {
		return nil, fmt.Errorf("failed to append tracking event for offer %s: %w", offerID, err)
	}
	return &tracking, nil
}

func (r *MongoTrackingRepo) AppendIssue(offerID string, issue models.IssueReport) error {
	return r.UpdateWithDocument(offerID, bson.M{
		"$push": bson.M{"issues": issue},
		"$set":  bson.M{"updatedAt": issue.ReportedAt},
	})
}

func (r *MongoTrackingRepo) AppendAttempt(offerID string, attempt models.DeliveryAttempt) error {
	return r.UpdateWithDocument(offerID, bson.M{
		"$push": bson.M{"attempts": attempt},
		"$set":  bson.M{"updatedAt": attempt.AttemptedAt},
	})
}

// UpdateWithDocument updates a tracking document using a custom update document.
func (r *MongoTrackingRepo) UpdateWithDocument(offerID string, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"offerId": offerID}, updateDoc)
	if err != nil {
		return fmt.Errorf("failed to update tracking for offer %s: %w", offerID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("tracking for offer %s not found", offerID)
	}
	return nil
}
