package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaot623/gogo/assistant/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "key", time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCreateTicket(t *testing.T) {
	var got domain.TicketDraft
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tickets", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "success",
			"message": "created",
			"entity":  map[string]interface{}{"id": "tkt_1", "title": got.Title, "status": "Open", "tenant_id": got.TenantID},
		})
	})

	ticket, err := client.CreateTicket(context.Background(), domain.TicketDraft{Title: "Leak", TenantID: "7", Category: domain.CategoryPlumbing})
	require.NoError(t, err)
	assert.Equal(t, "tkt_1", ticket.ID)
	assert.Equal(t, domain.CategoryPlumbing, got.Category)
}

func TestTenantTickets(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tenants/7/tickets", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"entity": []map[string]interface{}{{"id": "a"}, {"id": "b"}},
		})
	})

	tickets, err := client.TenantTickets(context.Background(), "7")
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestNonSuccessStatusIsAnError(t *testing.T) {
	for _, status := range []string{"failure", "not_found"} {
		t.Run(status, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]interface{}{"status": status, "message": "nope"})
			})

			_, err := client.TenantDocuments(context.Background(), "7")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrCollaborator)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestHTTPErrorWithoutEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := client.PropertyDocuments(context.Background(), "101")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCollaborator)
	assert.Contains(t, err.Error(), "502")
}

func TestPropertyImagesPaths(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "entity": []interface{}{}})
	})

	_, err := client.PropertyImages(context.Background(), "3", "101")
	require.NoError(t, err)
	_, err = client.PropertyImages(context.Background(), "3", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/landlords/3/properties/101/images", "/api/landlords/3/images"}, paths)
}

func TestTransportFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", 200*time.Millisecond)
	_, err := client.TenantTickets(context.Background(), "7")
	assert.ErrorIs(t, err, domain.ErrCollaborator)
}
