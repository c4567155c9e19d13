package client

import (
	"context"
	"errors"
	"time"

	"firm-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context, status OnboardingStatus) ([]Client, error)
	// UpdateStatus reports whether this call moved the client to status.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status OnboardingStatus) (bool, error)
}

type ClientRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewClientRepository(mongodb *database.MongodbDB) ClientRepository {
	return &ClientRepositoryImpl{
		Collection: mongodb.DB.Collection("clients"),
	}
}

func (r *ClientRepositoryImpl) Create(ctx context.Context, client *Client) error {
	client.ID = primitive.NewObjectID()
	client.CreatedAt = time.Now()
	client.UpdatedAt = client.CreatedAt
	_, err := r.Collection.InsertOne(ctx, client)
	return err
}

func (r *ClientRepositoryImpl) GetByID(ctx context.Context, id string) (*Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var client Client
	if err := r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&client); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepositoryImpl) List(ctx context.Context, status OnboardingStatus) ([]Client, error) {
	query := bson.M{}
	if status != "" {
		query["onboarding_status"] = status
	}
	cursor, err := r.Collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	clients := []Client{}
	if err = cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepositoryImpl) UpdateStatus(ctx context.Context, id primitive.ObjectID, status OnboardingStatus) (bool, error) {
	filter := bson.M{"_id": id, "onboarding_status": bson.M{"$ne": status}}
	res, err := r.Collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"onboarding_status": status,
		"updated_at":        time.Now(),
	}})
	if err != nil {
		return false, err
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}

	// nothing modified: either the client is gone or another writer got there first
	count, err := r.Collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, ErrNotFound
	}
	return false, nil
}
