package automation

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

type AutomationRepository interface {
	Create(ctx context.Context, automation *Automation) error
	GetByID(ctx context.Context, id string) (*Automation, error)
	// List returns automations in creation order, which is the firing order.
	List(ctx context.Context) ([]Automation, error)
	Update(ctx context.Context, automation *Automation) error
	Delete(ctx context.Context, id string) error
	Enable(ctx context.Context, id string, enabled bool) error
	EnsureIndexes(ctx context.Context) error
}

type AutomationRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAutomationRepository(mongodb *database.MongodbDB) AutomationRepository {
	return &AutomationRepositoryImpl{
		Collection: mongodb.DB.Collection("automations"),
	}
}

func (r *AutomationRepositoryImpl) Create(ctx context.Context, automation *Automation) error {
	automation.ID = primitive.NewObjectID()
	automation.CreatedAt = time.Now()
	automation.UpdatedAt = automation.CreatedAt
	_, err := r.Collection.InsertOne(ctx, automation)
	return err
}

func (r *AutomationRepositoryImpl) GetByID(ctx context.Context, id string) (*Automation, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var automation Automation
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&automation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &automation, nil
}

func (r *AutomationRepositoryImpl) List(ctx context.Context) ([]Automation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	automations := []Automation{}
	if err = cursor.All(ctx, &automations); err != nil {
		return nil, err
	}
	return automations, nil
}

func (r *AutomationRepositoryImpl) Update(ctx context.Context, automation *Automation) error {
	automation.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":       automation.Name,
			"enabled":    automation.Enabled,
			"trigger":    automation.Trigger,
			"action":     automation.Action,
			"updated_at": automation.UpdatedAt,
		},
	}
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": automation.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AutomationRepositoryImpl) Delete(ctx context.Context, id string) error {
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

func (r *AutomationRepositoryImpl) Enable(ctx context.Context, id string, enabled bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"enabled": enabled, "updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AutomationRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "enabled", Value: 1}, {Key: "trigger.type", Value: 1}},
	})
	return err
}

type RunRepository interface {
	Create(ctx context.Context, run *AutomationRun) error
	List(ctx context.Context, limit int64) ([]AutomationRun, error)
	EnsureIndexes(ctx context.Context) error
}

type RunRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRunRepository(mongodb *database.MongodbDB) RunRepository {
	return &RunRepositoryImpl{
		Collection: mongodb.DB.Collection("automation_runs"),
	}
}

func (r *RunRepositoryImpl) Create(ctx context.Context, run *AutomationRun) error {
	run.ID = primitive.NewObjectID()
	_, err := r.Collection.InsertOne(ctx, run)
	return err
}

func (r *RunRepositoryImpl) List(ctx context.Context, limit int64) ([]AutomationRun, error) {
	opts := options.Find().SetSort(bson.M{"started_at": -1}).SetLimit(limit)
	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	runs := []AutomationRun{}
	if err = cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (r *RunRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "started_at", Value: -1}}},
		{Keys: bson.D{{Key: "run_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}
