package partner

import (
	"github.com/facturio/backend/internal/domain/shared"
)

// Event types
const (
	EventTypeClientCreated = "partner.client.created"
	EventTypeClientDeleted = "partner.client.deleted"
)

// ClientCreatedEvent is raised when a client is registered
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	LegalName string `json:"legal_name"`
}

// NewClientCreatedEvent creates a client created event
func NewClientCreatedEvent(c *Client) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientCreated, "Client", c.ID),
		LegalName:       c.LegalName,
	}
}

// ClientDeletedEvent is raised when a client without documents is removed
type ClientDeletedEvent struct {
	shared.BaseDomainEvent
	LegalName string `json:"legal_name"`
}

// NewClientDeletedEvent creates a client deleted event
func NewClientDeletedEvent(c *Client) *ClientDeletedEvent {
	return &ClientDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClientDeleted, "Client", c.ID),
		LegalName:       c.LegalName,
	}
}
