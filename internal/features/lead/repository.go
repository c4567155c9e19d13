package lead

import (
	"context"
	"errors"
	"time"

	"firm-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter ListFilter) ([]Lead, error)
	ListOpen(ctx context.Context) ([]Lead, error)
	Update(ctx context.Context, id primitive.ObjectID, patch Patch) error
	// UpdateOpen applies patch only while the lead is still Open.
	UpdateOpen(ctx context.Context, id primitive.ObjectID, patch Patch) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type ListFilter struct {
	Stage  Stage
	Status Status
}

type LeadRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewLeadRepository(mongodb *database.MongodbDB) LeadRepository {
	return &LeadRepositoryImpl{
		Collection: mongodb.DB.Collection("leads"),
	}
}

func (r *LeadRepositoryImpl) Create(ctx context.Context, lead *Lead) error {
	lead.ID = primitive.NewObjectID()
	now := time.Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	_, err := r.Collection.InsertOne(ctx, lead)
	return err
}

func (r *LeadRepositoryImpl) GetByID(ctx context.Context, id string) (*Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var lead Lead
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&lead)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepositoryImpl) List(ctx context.Context, filter ListFilter) ([]Lead, error) {
	query := bson.M{}
	if filter.Stage != "" {
		query["stage"] = filter.Stage
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	return r.find(ctx, query)
}

func (r *LeadRepositoryImpl) ListOpen(ctx context.Context) ([]Lead, error) {
	return r.find(ctx, bson.M{"status": StatusOpen})
}

func (r *LeadRepositoryImpl) find(ctx context.Context, query bson.M) ([]Lead, error) {
	// Insertion order keeps batch passes deterministic
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	leads := []Lead{}
	if err = cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *LeadRepositoryImpl) Update(ctx context.Context, id primitive.ObjectID, patch Patch) error {
	res, err := r.update(ctx, bson.M{"_id": id}, patch)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LeadRepositoryImpl) UpdateOpen(ctx context.Context, id primitive.ObjectID, patch Patch) error {
	res, err := r.update(ctx, bson.M{"_id": id, "status": StatusOpen}, patch)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	count, err := r.Collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrNotOpen
}

func (r *LeadRepositoryImpl) update(ctx context.Context, filter bson.M, patch Patch) (*mongo.UpdateResult, error) {
	set, err := toSet(patch)
	if err != nil {
		return nil, err
	}
	set["updated_at"] = time.Now()
	return r.Collection.UpdateOne(ctx, filter, bson.M{"$set": set})
}

func (r *LeadRepositoryImpl) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *LeadRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "last_contacted", Value: 1}},
	})
	return err
}

// toSet marshals a patch through bson so omitempty drops the unset fields.
func toSet(patch Patch) (bson.M, error) {
	raw, err := bson.Marshal(patch)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	return set, nil
}
