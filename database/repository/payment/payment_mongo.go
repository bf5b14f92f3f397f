package paymentRepo

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

// MongoPaymentRepo implements PaymentRepository using MongoDB.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

// NewMongoPaymentRepo creates a new instance of PaymentRepository using MongoDB.
func NewMongoPaymentRepo() PaymentRepository {
	coll := database.Collection("payments")
	repo := &MongoPaymentRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("payment repo index setup failed: %v", err))
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

// ensureIndexes creates indexes for frequently used fields in queries.
// The unique offerId index backs idempotent payment creation.
func (r *MongoPaymentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "offerId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "riderId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "lastRetryAt", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// CreateIfAbsent inserts the payment; on a duplicate offerId it fetches and
// returns the record that won the insert instead.
func (r *MongoPaymentRepo) CreateIfAbsent(payment *models.Payment) (*models.Payment, bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, payment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			existing, getErr := r.GetByOfferID(payment.OfferID)
			if getErr != nil {
				return nil, false, fmt.Errorf("failed to fetch existing payment for offer %s: %w", payment.OfferID, getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create payment: %w", err)
	}
	return payment, true, nil
}

func (r *MongoPaymentRepo) GetByID(id string) (*models.Payment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var payment models.Payment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&payment); err != nil {
		return nil, fmt.Errorf("failed to fetch payment with id %s: %w", id, err)
	}
	return &payment, nil
}

func (r *MongoPaymentRepo) GetByOfferID(offerID string) (*models.Payment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var payment models.Payment
	if err := r.coll.FindOne(ctx, bson.M{"offerId": offerID}).Decode(&payment); err != nil {
		return nil, fmt.Errorf("failed to fetch payment for offer %s: %w", offerID, err)
	}
	return &payment, nil
}

func (r *MongoPaymentRepo) GetByRider(riderID string) ([]models.Payment, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()
	cursor, err := r.coll.Find(ctx, bson.M{"riderId": riderID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve payments: %w", err)
	}
	defer cursor.Close(ctx)
	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}

// UpdateWithDocument updates a payment using a custom update document.
func (r *MongoPaymentRepo) UpdateWithDocument(id string, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, updateDoc)
	if err != nil {
		return fmt.Errorf("failed to update payment with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("payment with id %s not found", id)
	}
	return nil
}

// ListRetryEligible returns failed payments past their retry cooldown.
func (r *MongoPaymentRepo) ListRetryEligible(cooldown time.Duration, limit int64) ([]models.Payment, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cutoff := time.Now().Add(-cooldown)
	filter := bson.M{
		"status":     models.PaymentStatusFailed,
		"retryCount": bson.M{"$lt": models.MaxPaymentRetries},
		"$or": bson.A{
			bson.M{"lastRetryAt": bson.M{"$lte": cutoff}},
			bson.M{"lastRetryAt": bson.M{"$exists": false}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "lastRetryAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list retry-eligible payments: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}
