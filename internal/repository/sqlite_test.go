package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaot623/gogo/assistant/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreTickets(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	empty, err := store.TenantTickets(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)

	ticket, err := store.CreateTicket(ctx, domain.TicketDraft{
		Title:       "Broken heater",
		Description: "No heat in the bedroom",
		Category:    domain.CategoryHVAC,
		Priority:    domain.PriorityHigh,
		TenantID:    "t-42",
		PropertyID:  "p-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)

	tickets, err := store.TenantTickets(ctx, "t-42")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Broken heater", tickets[0].Title)
	assert.Equal(t, domain.CategoryHVAC, tickets[0].Category)
	assert.Equal(t, "p-1", tickets[0].PropertyID)
}

func TestSQLiteStoreCreateTicketRequiresTenant(t *testing.T) {
	_, err := newTestStore(t).CreateTicket(context.Background(), domain.TicketDraft{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrCollaborator)
}

func TestSQLiteStoreSeededDocuments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	tenantDocs, err := store.TenantDocuments(ctx, SampleTenantID)
	require.NoError(t, err)
	require.Len(t, tenantDocs, 2)
	for _, d := range tenantDocs {
		assert.NotEqual(t, domain.DocumentTypeImage, d.Type)
	}

	propertyDocs, err := store.PropertyDocuments(ctx, SamplePropertyID)
	require.NoError(t, err)
	assert.Len(t, propertyDocs, 3)

	images, err := store.PropertyImages(ctx, SampleLandlordID, SamplePropertyID)
	require.NoError(t, err)
	assert.Len(t, images, 2)

	images, err = store.PropertyImages(ctx, "someone-else", SamplePropertyID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestSQLiteStoreSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.seed(ctx))

	tickets, err := store.TenantTickets(ctx, SampleTenantID)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestSQLiteStoreEvents(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	now := time.Now().UnixMilli()
	events := []domain.Event{
		{EventID: "e1", SessionID: "s1", Ts: now, Type: domain.EventTypeTurnReceived, Payload: json.RawMessage(`{"text":"hi"}`)},
		{EventID: "e2", SessionID: "s1", Ts: now + 1, Type: domain.EventTypeIntentMatched, Payload: json.RawMessage(`{"rule":"greeting"}`)},
		{EventID: "e3", SessionID: "s2", Ts: now + 2, Type: domain.EventTypeTurnReceived},
	}
	for i := range events {
		require.NoError(t, store.CreateEvent(ctx, &events[i]))
	}

	got, err := store.GetEvents(ctx, "s1", 0, nil, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].EventID)
	assert.JSONEq(t, `{"rule":"greeting"}`, string(got[1].Payload))

	got, err = store.GetEvents(ctx, "s1", 0, []string{string(domain.EventTypeIntentMatched)}, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e2", got[0].EventID)

	got, err = store.GetEvents(ctx, "s1", now, nil, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "e2", got[0].EventID)

	got, err = store.GetEvents(ctx, "s2", 0, nil, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Payload)
}
