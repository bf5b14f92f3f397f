package earningsRepo

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

// MongoEarningsRepo implements EarningsRepository using MongoDB.
type MongoEarningsRepo struct {
	coll *mongo.Collection
}

// NewMongoEarningsRepo creates a new instance of EarningsRepository using MongoDB.
func NewMongoEarningsRepo() EarningsRepository {
	coll := database.Collection("earnings")
	repo := &MongoEarningsRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("earnings repo index setup failed: %v", err))
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

// ensureIndexes creates indexes for frequently used fields in queries.
// The unique offerId index enforces one ledger entry per offer.
func (r *MongoEarningsRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "offerId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "riderId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// CreateIfAbsent inserts the earnings record; a duplicate offerId means the
// ledger entry already exists, so that entry is returned unchanged.
func (r *MongoEarningsRepo) CreateIfAbsent(earnings *models.Earnings) (*models.Earnings, bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, earnings)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			existing, getErr := r.GetByOfferID(earnings.OfferID)
			if getErr != nil {
				return nil, false, fmt.Errorf("failed to fetch existing earnings for offer %s: %w", earnings.OfferID, getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create earnings record: %w", err)
	}
	return earnings, true, nil
}

func (r *MongoEarningsRepo) GetByID(id string) (*models.Earnings, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var earnings models.Earnings
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&earnings); err != nil {
		return nil, fmt.Errorf("failed to fetch earnings with id %s: %w", id, err)
	}
	return &earnings, nil
}

func (r *MongoEarningsRepo) GetByOfferID(offerID string) (*models.Earnings, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var earnings models.Earnings
	if err := r.coll.FindOne(ctx, bson.M{"offerId": offerID}).Decode(&earnings); err != nil {
		return nil, fmt.Errorf("failed to fetch earnings for offer %s: %w", offerID, err)
	}
	return &earnings, nil
}

func (r *MongoEarningsRepo) GetRecentByRider(riderID string, limit int64) ([]models.Earnings, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{"riderId": riderID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve earnings: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.Earnings
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode earnings: %w", err)
	}
	return entries, nil
}

// UpdateWithDocument updates an earnings record using a custom update document.
func (r *MongoEarningsRepo) UpdateWithDocument(id string, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, updateDoc)
	if err != nil {
		return fmt.Errorf("failed to update earnings with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("earnings with id %s not found", id)
	}
	return nil
}
