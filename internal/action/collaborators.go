package action

import (
	"context"

	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/policy"
)

// TicketService creates and lists maintenance tickets.
type TicketService interface {
	CreateTicket(ctx context.Context, draft domain.TicketDraft) (*domain.Ticket, error)
	TenantTickets(ctx context.Context, tenantID string) ([]domain.Ticket, error)
}

// DocumentService lists stored documents.
type DocumentService interface {
	TenantDocuments(ctx context.Context, tenantID string) ([]domain.Document, error)
	PropertyDocuments(ctx context.Context, propertyID string) ([]domain.Document, error)
}

// ImageService lists property images.
type ImageService interface {
	PropertyImages(ctx context.Context, landlordID, propertyID string) ([]domain.Document, error)
}

// Effects are fire-and-forget requests to the client UI.
type Effects interface {
	Navigate(sessionID, route string)
	OpenURL(sessionID, url, fileName string)
}

// Policy decides whether a role may run an action kind.
type Policy interface {
	Evaluate(ctx context.Context, input policy.Input) (string, string, error)
}

// Conversation is the part of a session store an action writes to.
type Conversation interface {
	Context() domain.SessionContext
	Append(msg domain.Message)
}
