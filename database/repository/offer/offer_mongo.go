package offerRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"lastmile/database"
	"lastmile/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNoOpenOffer is returned when a guarded update matched no document,
// meaning the offer was not in the expected status (or does not exist).
var ErrNoOpenOffer = errors.New("offer not found in expected status")

// MongoOfferRepo implements OfferRepository using MongoDB.
type MongoOfferRepo struct {
	coll *mongo.Collection
}

// NewMongoOfferRepo creates a new instance of OfferRepository using MongoDB.
func NewMongoOfferRepo() OfferRepository {
	coll := database.Collection("offers")
	repo := &MongoOfferRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		panic(fmt.Sprintf("offer repo index setup failed: %v", err))
	}
	return repo
}

func newContext(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}

// IsGeoIndexUnavailable reports whether an error from GeoSearch indicates a
// missing or unusable 2dsphere index, in which case the caller should fall
// back to in-process distance ranking.
func IsGeoIndexUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "2dsphere") || strings.Contains(msg, "$geoNear") || strings.Contains(msg, "geoNear")
}

func (r *MongoOfferRepo) GetByID(id string) (*models.Offer, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	var offer models.Offer
	filter := bson.M{"id": id}
	if err := r.coll.FindOne(ctx, filter).Decode(&offer); err != nil {
		return nil, fmt.Errorf("failed to fetch offer with id %s: %w", id, err)
	}
	return &offer, nil
}

func (r *MongoOfferRepo) GetByBusiness(businessID string) ([]models.Offer, error) {
	return r.findMany(bson.M{"businessId": businessID})
}

func (r *MongoOfferRepo) GetByRider(riderID string) ([]models.Offer, error) {
	return r.findMany(bson.M{"acceptedBy": riderID})
}

func (r *MongoOfferRepo) findMany(filter bson.M) ([]models.Offer, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve offers: %w", err)
	}
	defer cursor.Close(ctx)
	var offers []models.Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode offers: %w", err)
	}
	return offers, nil
}
