package offerRepo

import (
	"fmt"
	"time"

	"lastmile/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new offer document.
func (r *MongoOfferRepo) Create(offer *models.Offer) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, offer)
	if err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

// UpdateWithDocument updates an offer using a custom update document.
func (r *MongoOfferRepo) UpdateWithDocument(id string, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	result, err := r.coll.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return fmt.Errorf("failed to update offer with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("offer with id %s not found", id)
	}
	return nil
}

// Accept atomically claims an open offer for a rider. The filter requires
// status to still be "open", so only one concurrent caller can match.
func (r *MongoOfferRepo) Accept(offerID, riderID string, entry models.StatusHistoryEntry) (*models.Offer, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := entry.Timestamp
	filter := bson.M{"id": offerID, "status": models.OfferStatusOpen}
	update := bson.M{
		"$set": bson.M{
			"status":     models.OfferStatusAccepted,
			"acceptedBy": riderID,
			"acceptedAt": now,
			"updatedAt":  now,
		},
		"$push": bson.M{"statusHistory": entry},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var offer models.Offer
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&offer)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoOpenOffer
	}
	if err != nil {
		return nil, fmt.Errorf("failed to accept offer %s: %w", offerID, err)
	}
	return &offer, nil
}

// ApplyTransition persists a status change guarded on the expected previous
// status. The guard makes concurrent conflicting transitions lose cleanly.
func (r *MongoOfferRepo) ApplyTransition(offerID string, from models.OfferStatus, update bson.M, entry models.StatusHistoryEntry) (*models.Offer, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": offerID, "status": from}
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = entry.Timestamp
	update["$set"] = set
	update["$push"] = bson.M{"statusHistory": entry}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var offer models.Offer
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&offer)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoOpenOffer
	}
	if err != nil {
		return nil, fmt.Errorf("failed to transition offer %s: %w", offerID, err)
	}
	return &offer, nil
}
