package email

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmailStatus string

const (
	// EmailSimulated marks an intent that was recorded but never handed to a mail server
	EmailSimulated EmailStatus = "simulated"
)

type Email struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Subject        string              `bson:"subject" json:"subject"`
	Body           string              `bson:"body" json:"body"`
	Status         EmailStatus         `bson:"status" json:"status"`
	LeadID         *primitive.ObjectID `bson:"leadId,omitempty" json:"leadId,omitempty"`
	ClientID       *primitive.ObjectID `bson:"clientId,omitempty" json:"clientId,omitempty"`
	AutomationID   primitive.ObjectID  `bson:"automationId,omitempty" json:"automationId,omitempty"`
	AutomationName string              `bson:"automationName,omitempty" json:"automationName,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}
