package lead

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("lead not found")
	ErrInvalid  = errors.New("invalid lead")
	ErrNotOpen  = errors.New("lead is no longer open")
)

type Stage string

const (
	StageNew         Stage = "New"
	StageContacted   Stage = "Contacted"
	StageQualified   Stage = "Qualified"
	StageProposal    Stage = "Proposal"
	StageNegotiation Stage = "Negotiation"
	StageNurturing   Stage = "Nurturing" // side branch, outside the forward pipeline
)

// Pipeline is the forward order of the sales pipeline.
var Pipeline = []Stage{StageNew, StageContacted, StageQualified, StageProposal, StageNegotiation}

func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageContacted, StageQualified, StageProposal, StageNegotiation, StageNurturing:
		return true
	}
	return false
}

type Status string

const (
	StatusOpen Status = "Open"
	StatusWon  Status = "Won"
	StatusLost Status = "Lost"
)

func (s Status) Valid() bool {
	return s == StatusOpen || s == StatusWon || s == StatusLost
}

type Lead struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name          string             `json:"name" bson:"name"`
	Company       string             `json:"company" bson:"company"`
	Email         string             `json:"email,omitempty" bson:"email,omitempty"`
	Value         float64            `json:"value" bson:"value"`
	Source        string             `json:"source,omitempty" bson:"source,omitempty"`
	Stage         Stage              `json:"stage" bson:"stage"`
	Status        Status             `json:"status" bson:"status"`
	LastContacted time.Time          `json:"last_contacted" bson:"last_contacted"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

func (l *Lead) IsOpen() bool {
	return l.Status == StatusOpen
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Name          *string    `json:"name,omitempty" bson:"name,omitempty"`
	Company       *string    `json:"company,omitempty" bson:"company,omitempty"`
	Email         *string    `json:"email,omitempty" bson:"email,omitempty"`
	Value         *float64   `json:"value,omitempty" bson:"value,omitempty"`
	Source        *string    `json:"source,omitempty" bson:"source,omitempty"`
	Stage         *Stage     `json:"stage,omitempty" bson:"stage,omitempty"`
	Status        *Status    `json:"status,omitempty" bson:"status,omitempty"`
	LastContacted *time.Time `json:"last_contacted,omitempty" bson:"last_contacted,omitempty"`
}

// Apply copies the set fields of p onto l.
func (p Patch) Apply(l *Lead) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Company != nil {
		l.Company = *p.Company
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Value != nil {
		l.Value = *p.Value
	}
	if p.Source != nil {
		l.Source = *p.Source
	}
	if p.Stage != nil {
		l.Stage = *p.Stage
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.LastContacted != nil {
		l.LastContacted = *p.LastContacted
	}
}
