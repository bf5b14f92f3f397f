package accountRepo

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

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

func ensureAccountIndexes(coll *mongo.Collection) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// MongoBusinessRepo implements BusinessRepository using MongoDB.
type MongoBusinessRepo struct {
	coll *mongo.Collection
}

// NewMongoBusinessRepo creates a new instance of BusinessRepository using MongoDB.
func NewMongoBusinessRepo() BusinessRepository {
	coll := database.Collection("businesses")
	if err := ensureAccountIndexes(coll); err != nil {
		panic(fmt.Sprintf("business repo index setup failed: %v", err))
	}
	return &MongoBusinessRepo{coll: coll}
}

func (r *MongoBusinessRepo) Create(business *models.Business) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, business); err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}
	return nil
}

func (r *MongoBusinessRepo) GetByID(id string) (*models.Business, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var business models.Business
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&business); err != nil {
		return nil, fmt.Errorf("failed to fetch business with id %s: %w", id, err)
	}
	return &business, nil
}

func (r *MongoBusinessRepo) GetByEmail(email string) (*models.Business, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var business models.Business
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&business); err != nil {
		return nil, fmt.Errorf("failed to fetch business with email %s: %w", email, err)
	}
	return &business, nil
}

func (r *MongoBusinessRepo) UpdateWithDocument(id string, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, updateDoc)
	if err != nil {
		return fmt.Errorf("failed to update business with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("business with id %s not found", id)
	}
	return nil
}

// MongoRiderRepo implements RiderRepository using MongoDB.
type MongoRiderRepo struct {
	coll *mongo.Collection
}

// NewMongoRiderRepo creates a new instance of RiderRepository using MongoDB.
func NewMongoRiderRepo() RiderRepository {
	coll := database.Collection("riders")
	if err := ensureAccountIndexes(coll); err != nil {
		panic(fmt.Sprintf("rider repo index setup failed: %v", err))
	}
	return &MongoRiderRepo{coll: coll}
}

func (r *MongoRiderRepo) Create(rider *models.Rider) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, rider); err != nil {
		return fmt.Errorf("failed to create rider: %w", err)
	}
	return nil
}

func (r *MongoRiderRepo) GetByID(id string) (*models.Rider, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var rider models.Rider
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rider); err != nil {
		return nil, fmt.Errorf("failed to fetch rider with id %s: %w", id, err)
	}
	return &rider, nil
}

func (r *MongoRiderRepo) GetByEmail(email string) (*models.Rider, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var rider models.Rider
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&rider); err != nil {
		return nil, fmt.Errorf("failed to fetch rider with email %s: %w", email, err)
	}
	return &rider, nil
}

func (r *MongoRiderRepo) UpdateWithDocument(id string, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, updateDoc)
	if err != nil {
		return fmt.Errorf("failed to update rider with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("rider with id %s not found", id)
	}
	return nil
}

// IncrementCompletedDeliveries bumps the rider's lifetime counter by one.
func (r *MongoRiderRepo) IncrementCompletedDeliveries(id string) error {
	return r.UpdateWithDocument(id, bson.M{
		"$inc": bson.M{"completedDeliveries": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	})
}
