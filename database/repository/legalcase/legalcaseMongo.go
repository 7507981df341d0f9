package legalcaseRepo

import (
	"context"
	"fmt"
	"time"

	"lexcitas/database"
	"lexcitas/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLegalCaseRepo implements LegalCaseRepository using MongoDB.
type MongoLegalCaseRepo struct {
	coll *mongo.Collection
}

// NewMongoLegalCaseRepo creates a new instance of LegalCaseRepository using MongoDB.
func NewMongoLegalCaseRepo() LegalCaseRepository {
	coll := database.MongoClient.Database("lexcitas").Collection("cases")
	return &MongoLegalCaseRepo{coll: coll}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// GetByCaseNumber retrieves a case by its number.
func (r *MongoLegalCaseRepo) GetByCaseNumber(caseNumber string) (*models.LegalCase, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var legalCase models.LegalCase
	if err := r.coll.FindOne(ctx, bson.M{"caseNumber": caseNumber}).Decode(&legalCase); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch case %s: %w", caseNumber, err)
	}
	return &legalCase, nil
}

// GetLatestByEmail retrieves the most recently updated case for an email.
func (r *MongoLegalCaseRepo) GetLatestByEmail(email string) (*models.LegalCase, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "lastUpdate", Value: -1}})
	var legalCase models.LegalCase
	if err := r.coll.FindOne(ctx, bson.M{"clientEmail": email}, opts).Decode(&legalCase); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch cases for %s: %w", email, err)
	}
	return &legalCase, nil
}
