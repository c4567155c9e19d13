package task

import (
	"context"
	"time"

	"firm-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	List(ctx context.Context, filter ListFilter) ([]Task, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type TaskRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewTaskRepository(mongodb *database.MongodbDB) TaskRepository {
	return &TaskRepositoryImpl{
		Collection: mongodb.DB.Collection("tasks"),
	}
}

// Create assigns the id and ToDo status; callers only supply the content.
func (r *TaskRepositoryImpl) Create(ctx context.Context, task *Task) error {
	task.ID = primitive.NewObjectID()
	if task.Status == "" {
		task.Status = StatusToDo
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	_, err := r.Collection.InsertOne(ctx, task)
	return err
}

func (r *TaskRepositoryImpl) List(ctx context.Context, filter ListFilter) ([]Task, error) {
	query := bson.M{}
	if filter.LeadID != nil {
		query["lead_id"] = *filter.LeadID
	}
	if filter.ClientID != nil {
		query["client_id"] = *filter.ClientID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.M{"due_date": 1})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	tasks := []Task{}
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepositoryImpl) UpdateStatus(ctx context.Context, id string, status Status) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
