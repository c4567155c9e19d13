package client

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound      = errors.New("client not found")
	ErrInvalidStatus = errors.New("invalid onboarding status")
)

type OnboardingStatus string

const (
	StatusProspect      OnboardingStatus = "Prospect"
	StatusOnboarding    OnboardingStatus = "Onboarding"
	StatusSetupComplete OnboardingStatus = "SetupComplete"
	StatusActive        OnboardingStatus = "Active"
	StatusChurned       OnboardingStatus = "Churned"
)

func (s OnboardingStatus) Valid() bool {
	switch s {
	case StatusProspect, StatusOnboarding, StatusSetupComplete, StatusActive, StatusChurned:
		return true
	}
	return false
}

type Client struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Company          string             `json:"company" bson:"company"`
	Email            string             `json:"email,omitempty" bson:"email,omitempty"`
	Phone            string             `json:"phone,omitempty" bson:"phone,omitempty"`
	TaxID            string             `json:"tax_id,omitempty" bson:"tax_id,omitempty"`
	OnboardingStatus OnboardingStatus   `json:"onboarding_status" bson:"onboarding_status"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}
