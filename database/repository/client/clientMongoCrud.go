package clientRepo

import (
	"context"
	"fmt"
	"time"

	"lexcitas/database"
	"lexcitas/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClientRepo implements ClientRepository using MongoDB.
type MongoClientRepo struct {
	coll *mongo.Collection
}

// NewMongoClientRepo creates a new instance of ClientRepository using MongoDB.
func NewMongoClientRepo() ClientRepository {
	coll := database.MongoClient.Database("lexcitas").Collection("clients")
	repo := &MongoClientRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoClientRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Upsert inserts a new client or updates the record matching the email key.
func (r *MongoClientRepo) Upsert(client *models.Client) (string, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	existing, err := r.GetByEmail(client.Email)
	if err != nil {
		return "", err
	}

	now := time.Now()
	if existing != nil {
		set := bson.M{"updatedAt": now}
		if client.Name != "" {
			set["name"] = client.Name
		}
		if client.Phone != "" {
			set["phone"] = client.Phone
		}
		if client.Notes != "" {
			set["notes"] = client.Notes
		}
		if _, err := r.coll.UpdateOne(ctx, bson.M{"id": existing.ID}, bson.M{"$set": set}); err != nil {
			return "", fmt.Errorf("failed to update client %s: %w", existing.ID, err)
		}
		client.ID = existing.ID
		return existing.ID, nil
	}

	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	client.CreatedAt = now
	client.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, client); err != nil {
		return "", fmt.Errorf("failed to create client: %w", err)
	}
	return client.ID, nil
}

// GetByEmail retrieves a client by its email address.
func (r *MongoClientRepo) GetByEmail(email string) (*models.Client, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var client models.Client
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&client); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch client with email %s: %w", email, err)
	}
	return &client, nil
}

// GetByPhone retrieves a client by its phone number.
func (r *MongoClientRepo) GetByPhone(phone string) (*models.Client, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var client models.Client
	if err := r.coll.FindOne(ctx, bson.M{"phone": phone}).Decode(&client); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch client with phone %s: %w", phone, err)
	}
	return &client, nil
}

// LinkAppointment appends an appointment id to the client's list.
func (r *MongoClientRepo) LinkAppointment(clientID, appointmentID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$addToSet": bson.M{"appointmentIds": appointmentID},
		"$set":      bson.M{"updatedAt": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": clientID}, update)
	if err != nil {
		return fmt.Errorf("failed to link appointment %s to client %s: %w", appointmentID, clientID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("client with id %s not found", clientID)
	}
	return nil
}
