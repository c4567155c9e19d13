package task

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound      = errors.New("task not found")
	ErrInvalidStatus = errors.New("invalid task status")
)

type Status string

const (
	StatusToDo       Status = "ToDo"
	StatusInProgress Status = "InProgress"
	StatusDone       Status = "Done"
)

func (s Status) Valid() bool {
	return s == StatusToDo || s == StatusInProgress || s == StatusDone
}

type Task struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Title        string              `json:"title" bson:"title"`
	Status       Status              `json:"status" bson:"status"`
	DueDate      time.Time           `json:"due_date" bson:"due_date"`
	LeadID       *primitive.ObjectID `json:"lead_id,omitempty" bson:"lead_id,omitempty"`
	ClientID     *primitive.ObjectID `json:"client_id,omitempty" bson:"client_id,omitempty"`
	AutomationID *primitive.ObjectID `json:"automation_id,omitempty" bson:"automation_id,omitempty"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" bson:"updated_at"`
}

type ListFilter struct {
	LeadID   *primitive.ObjectID
	ClientID *primitive.ObjectID
	Status   Status
}
