package notification

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrNotFound = errors.New("alert not found")

type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelMobile Channel = "mobile"
	ChannelSystem Channel = "system"
)

// ChannelLabel maps a channel to its display label. Unknown channels are kept on
// the alert as-is and shown with the fallback label.
func ChannelLabel(c Channel) string {
	switch c {
	case ChannelEmail:
		return "E-mail"
	case ChannelMobile:
		return "Mobile"
	case ChannelSystem:
		return "Sistema"
	default:
		return "Outro"
	}
}

type Alert struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Message        string              `bson:"message" json:"message"`
	Channels       []Channel           `bson:"channels" json:"channels"`
	ChannelLabels  []string            `bson:"-" json:"channel_labels"`
	AutomationID   primitive.ObjectID  `bson:"automation_id,omitempty" json:"automation_id,omitempty"`
	AutomationName string              `bson:"automation_name,omitempty" json:"automation_name,omitempty"`
	LeadID         *primitive.ObjectID `bson:"lead_id,omitempty" json:"lead_id,omitempty"`
	ClientID       *primitive.ObjectID `bson:"client_id,omitempty" json:"client_id,omitempty"`
	IsRead         bool                `bson:"is_read" json:"is_read"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	ReadAt         *time.Time          `bson:"read_at,omitempty" json:"read_at,omitempty"`
}

func (a *Alert) HasChannel(c Channel) bool {
	for _, ch := range a.Channels {
		if ch == c {
			return true
		}
	}
	return false
}

func (a *Alert) fillLabels() {
	a.ChannelLabels = make([]string, len(a.Channels))
	for i, ch := range a.Channels {
		a.ChannelLabels[i] = ChannelLabel(ch)
	}
}
