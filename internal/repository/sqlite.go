// Package repository is the local SQLite backend: tickets, documents, property
// images and the turn trace event log.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/xiaot623/gogo/assistant/internal/domain"
)

// SQLiteStore implements the ticket, document and image services plus the
// event log on SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens dsn, runs migrations and seeds sample property data.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := store.seed(context.Background()); err != nil {
		log.Printf("WARN: failed to seed sample data: %v", err)
	}

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tickets (
			ticket_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			priority TEXT NOT NULL,
			status TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			property_id TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_tenant ON tickets(tenant_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS documents (
			document_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			url TEXT NOT NULL,
			doc_type TEXT,
			owner_id TEXT NOT NULL,
			owner_role TEXT NOT NULL,
			property_id TEXT,
			tenant_id TEXT,
			landlord_id TEXT,
			uploaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_tenant ON documents(tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_property ON documents(property_id, doc_type)`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			type TEXT NOT NULL,
			payload TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, ts)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateTicket stores a new open ticket.
func (s *SQLiteStore) CreateTicket(ctx context.Context, draft domain.TicketDraft) (*domain.Ticket, error) {
	if draft.TenantID == "" {
		return nil, fmt.Errorf("%w: tenant id is required", domain.ErrCollaborator)
	}

	ticket := &domain.Ticket{
		ID:          "tkt_" + uuid.New().String()[:8],
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Priority:    draft.Priority,
		Status:      domain.TicketStatusOpen,
		TenantID:    draft.TenantID,
		PropertyID:  draft.PropertyID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.insertTicket(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *SQLiteStore) insertTicket(ctx context.Context, t *domain.Ticket) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tickets (ticket_id, title, description, category, priority, status, tenant_id, property_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.Category, t.Priority, t.Status, t.TenantID, nullString(t.PropertyID), t.CreatedAt)
	return err
}

// TenantTickets returns a tenant's tickets, newest first.
func (s *SQLiteStore) TenantTickets(ctx context.Context, tenantID string) ([]domain.Ticket, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ticket_id, title, description, category, priority, status, tenant_id, property_id, created_at
		FROM tickets WHERE tenant_id = ? ORDER BY created_at DESC, ticket_id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		var propertyID sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &t.Priority, &t.Status, &t.TenantID, &propertyID, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.PropertyID = propertyID.String
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// CreateDocument stores a document or image record.
func (s *SQLiteStore) CreateDocument(ctx context.Context, d *domain.Document) error {
	if d.ID == "" {
		d.ID = "doc_" + uuid.New().String()[:8]
	}
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO documents (document_id, name, url, doc_type, owner_id, owner_role, property_id, tenant_id, landlord_id, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.URL, nullString(d.Type), d.OwnerID, d.OwnerRole,
		nullString(d.PropertyID), nullString(d.TenantID), nullString(d.LandlordID), d.UploadedAt)
	return err
}

// TenantDocuments returns the non-image documents shared with a tenant.
func (s *SQLiteStore) TenantDocuments(ctx context.Context, tenantID string) ([]domain.Document, error) {
	return s.queryDocuments(ctx,
		`WHERE tenant_id = ? AND COALESCE(doc_type, '') != ?`, tenantID, domain.DocumentTypeImage)
}

// PropertyDocuments returns the non-image documents of a property.
func (s *SQLiteStore) PropertyDocuments(ctx context.Context, propertyID string) ([]domain.Document, error) {
	return s.queryDocuments(ctx,
		`WHERE property_id = ? AND COALESCE(doc_type, '') != ?`, propertyID, domain.DocumentTypeImage)
}

// PropertyImages returns the images of a property owned by landlordID. An
// empty propertyID lists images across all of the landlord's properties.
func (s *SQLiteStore) PropertyImages(ctx context.Context, landlordID, propertyID string) ([]domain.Document, error) {
	if propertyID == "" {
		return s.queryDocuments(ctx, `WHERE landlord_id = ? AND doc_type = ?`, landlordID, domain.DocumentTypeImage)
	}
	return s.queryDocuments(ctx,
		`WHERE landlord_id = ? AND property_id = ? AND doc_type = ?`, landlordID, propertyID, domain.DocumentTypeImage)
}

func (s *SQLiteStore) queryDocuments(ctx context.Context, where string, args ...interface{}) ([]domain.Document, error) {
	query := `SELECT document_id, name, url, doc_type, owner_id, owner_role, property_id, tenant_id, landlord_id, uploaded_at
		FROM documents ` + where + ` ORDER BY uploaded_at DESC, document_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var d domain.Document
		var docType, propertyID, tenantID, landlordID sql.NullString
		if err := rows.Scan(&d.ID, &d.Name, &d.URL, &docType, &d.OwnerID, &d.OwnerRole, &propertyID, &tenantID, &landlordID, &d.UploadedAt); err != nil {
			return nil, err
		}
		d.Type = docType.String
		d.PropertyID = propertyID.String
		d.TenantID = tenantID.String
		d.LandlordID = landlordID.String
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// CreateEvent appends a turn trace event.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	payload := ""
	if event.Payload != nil {
		payload = string(event.Payload)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (event_id, session_id, ts, type, payload) VALUES (?, ?, ?, ?, ?)`,
		event.EventID, event.SessionID, event.Ts, event.Type, payload)
	return err
}

// GetEvents retrieves events for a session in timestamp order.
func (s *SQLiteStore) GetEvents(ctx context.Context, sessionID string, afterTs int64, types []string, limit int) ([]domain.Event, error) {
	query := `SELECT event_id, session_id, ts, type, payload FROM events WHERE session_id = ?`
	args := []interface{}{sessionID}

	if afterTs > 0 {
		query += ` AND ts > ?`
		args = append(args, afterTs)
	}

	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			args = append(args, t)
		}
		query += fmt.Sprintf(" AND type IN (%s)", strings.Join(placeholders, ","))
	}

	query += ` ORDER BY ts ASC, rowid ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		var payload sql.NullString
		if err := rows.Scan(&event.EventID, &event.SessionID, &event.Ts, &event.Type, &payload); err != nil {
			return nil, err
		}
		if payload.Valid && payload.String != "" {
			event.Payload = json.RawMessage(payload.String)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
