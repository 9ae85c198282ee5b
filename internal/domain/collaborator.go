package domain

import (
	"fmt"
	"time"
)

// Envelope statuses returned by the property-management backend.
const (
	StatusSuccess  = "success"
	StatusFailure  = "failure"
	StatusNotFound = "not_found"
)

// Envelope is the uniform result shape of every backend call.
type Envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Entity  T      `json:"entity,omitempty"`
}

// Err converts any non-success status into an error.
func (e Envelope[T]) Err() error {
	if e.Status == StatusSuccess {
		return nil
	}
	msg := e.Message
	if msg == "" {
		msg = "no message"
	}
	status := e.Status
	if status == "" {
		status = "missing status"
	}
	return fmt.Errorf("%w: %s: %s", ErrCollaborator, status, msg)
}

// Ticket is a maintenance ticket as stored by the ticket service.
type Ticket struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    TicketCategory `json:"category"`
	Priority    TicketPriority `json:"priority"`
	Status      TicketStatus   `json:"status"`
	TenantID    string         `json:"tenant_id"`
	PropertyID  string         `json:"property_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TicketDraft is the request to create a ticket.
type TicketDraft struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    TicketCategory `json:"category"`
	Priority    TicketPriority `json:"priority"`
	TenantID    string         `json:"tenant_id"`
	PropertyID  string         `json:"property_id,omitempty"`
}

// Document is a stored file: an agreement, a receipt or a property image.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Type       string    `json:"type,omitempty"`
	OwnerID    string    `json:"owner_id"`
	OwnerRole  Role      `json:"owner_role"`
	PropertyID string    `json:"property_id,omitempty"`
	TenantID   string    `json:"tenant_id,omitempty"`
	LandlordID string    `json:"landlord_id,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Document types known to the assistant. Other values pass through untouched.
const (
	DocumentTypeAgreement = "agreement"
	DocumentTypeReceipt   = "receipt"
	DocumentTypeReport    = "report"
	DocumentTypeImage     = "image"
)
