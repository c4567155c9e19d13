package email

import (
	"context"
	"time"

	"firm-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EmailRepository struct {
	col *mongo.Collection
}

func NewEmailRepository(db *database.MongodbDB) *EmailRepository {
	return &EmailRepository{
		col: db.DB.Collection("emails"),
	}
}

func (r *EmailRepository) Create(ctx context.Context, email *Email) error {
	if email.CreatedAt.IsZero() {
		email.CreatedAt = time.Now()
	}
	_, err := r.col.InsertOne(ctx, email)
	return err
}

func (r *EmailRepository) List(ctx context.Context, limit int64) ([]Email, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit)
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	emails := []Email{}
	if err = cursor.All(ctx, &emails); err != nil {
		return nil, err
	}
	return emails, nil
}
