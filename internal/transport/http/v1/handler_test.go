package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/assistant/internal/action"
	"github.com/xiaot623/gogo/assistant/internal/adapter/llm"
	"github.com/xiaot623/gogo/assistant/internal/config"
	"github.com/xiaot623/gogo/assistant/internal/domain"
	"github.com/xiaot623/gogo/assistant/internal/intent"
	"github.com/xiaot623/gogo/assistant/internal/service"
	"github.com/xiaot623/gogo/assistant/policy"
	"github.com/xiaot623/gogo/assistant/tests/helpers"
)

type noEffects struct{}

func (noEffects) Navigate(sessionID, route string)        {}
func (noEffects) OpenURL(sessionID, url, fileName string) {}

func newTestHandler(t *testing.T) (*Handler, *service.Service) {
	t.Helper()
	cfg := &config.Config{
		LLMModel:      "test-model",
		LLMTimeout:    time.Second,
		ActionTimeout: time.Second,
		HistoryWindow: 10,
	}
	db := helpers.NewTestSQLiteStore(t)
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	dispatcher := action.NewDispatcher(action.Deps{
		Tickets:   db,
		Documents: db,
		Images:    db,
		Effects:   noEffects{},
		Policy:    engine,
	}, action.Options{Timeout: cfg.ActionTimeout})

	svc := service.New(intent.NewMatcher(intent.DefaultRules()), dispatcher, llm.NewMockClient(), db, nil, cfg)
	return NewHandler(svc), svc
}

func newSession(t *testing.T, svc *service.Service) string {
	t.Helper()
	info, err := svc.InitSession(context.Background(), domain.RoleTenant, "7", domain.SessionExtra{PropertyID: "101"})
	require.NoError(t, err)
	return info.SessionID
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealth(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	require.NoError(t, h.Health(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestCreateSession(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/sessions", `{"role":"tenant","user_id":"7","user_name":"Asha"}`), rec)

	require.NoError(t, h.CreateSession(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		SessionID string                `json:"session_id"`
		Context   domain.SessionContext `json:"context"`
		Messages  []domain.Message      `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, svc.HasSession(resp.SessionID))
	assert.Equal(t, "Asha", resp.Context.UserName)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, domain.SenderBot, resp.Messages[0].Sender)
	assert.Contains(t, resp.Messages[0].Content, "Hello Asha!")
}

func TestCreateSessionValidation(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid role", `{"role":"admin","user_id":"7"}`},
		{"missing user", `{"role":"tenant"}`},
		{"malformed body", `{"role":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPost, "/v1/sessions", tt.body), rec)
			require.NoError(t, h.CreateSession(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGetSessionNotFound(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/sessions/missing", nil), rec)
	c.SetParamNames("session_id")
	c.SetParamValues("missing")

	require.NoError(t, h.GetSession(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSendMessageMatchedIntent(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t)
	sessionID := newSession(t, svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/sessions/"+sessionID+"/messages", `{"text":"I want to report an issue"}`), rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	require.NoError(t, h.SendMessage(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message domain.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.SenderBot, resp.Message.Sender)
	assert.Len(t, resp.Message.QuickReplies(), 7)

	messages, err := svc.Messages(sessionID, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 3)
}

func TestSendMessageFallsBackToAI(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t)
	sessionID := newSession(t, svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/sessions/"+sessionID+"/messages", `{"text":"what's the weather like"}`), rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	require.NoError(t, h.SendMessage(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "[MOCK]")
}

func TestSendMessageUnknownSession(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/sessions/nope/messages", `{"text":"hi"}`), rec)
	c.SetParamNames("session_id")
	c.SetParamValues("nope")

	require.NoError(t, h.SendMessage(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMessagesLimit(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t)
	sessionID := newSession(t, svc)
	_, err := svc.Send(context.Background(), sessionID, "hello")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/sessions/"+sessionID+"/messages?limit=2", nil), rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	require.NoError(t, h.GetMessages(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, domain.SenderUser, resp.Messages[0].Sender)
	assert.Equal(t, "hello", resp.Messages[0].Content)
}

func TestClearMessagesReturnsEmptyList(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t)
	sessionID := newSession(t, svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+sessionID+"/messages", nil), rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)
	require.NoError(t, h.ClearMessages(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/sessions/"+sessionID+"/messages", nil), rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)
	require.NoError(t, h.GetMessages(c))
	assert.JSONEq(t, `{"messages":[]}`, rec.Body.String())
}

func TestExecuteActionViewIssues(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t)
	sessionID := newSession(t, svc)

	rec := httptest.NewRecorder()
	body := `{"action":{"id":"act_1","label":"View my issues","kind":"view_issues"}}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/sessions/"+sessionID+"/actions", body), rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	require.NoError(t, h.ExecuteAction(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
}

func TestExecuteActionUnknownKindIsFailedResult(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t)
	sessionID := newSession(t, svc)

	rec := httptest.NewRecorder()
	body := `{"action":{"id":"act_1","label":"Teleport","kind":"teleport"}}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/sessions/"+sessionID+"/actions", body), rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	require.NoError(t, h.ExecuteAction(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "unknown action")
}

func TestExecuteActionRequiresAction(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t)
	sessionID := newSession(t, svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/v1/sessions/"+sessionID+"/actions", `{}`), rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	require.NoError(t, h.ExecuteAction(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEndSession(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t)
	sessionID := newSession(t, svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+sessionID, nil), rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	require.NoError(t, h.EndSession(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, svc.HasSession(sessionID))

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+sessionID, nil), rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)
	require.NoError(t, h.EndSession(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetEventsFiltersByType(t *testing.T) {
	e := echo.New()
	h, svc := newTestHandler(t)
	sessionID := newSession(t, svc)
	_, err := svc.Send(context.Background(), sessionID, "hello")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/sessions/"+sessionID+"/events?types=intent_matched", nil), rec)
	c.SetParamNames("session_id")
	c.SetParamValues(sessionID)

	require.NoError(t, h.GetEvents(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Events []domain.Event `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, domain.EventTypeIntentMatched, resp.Events[0].Type)
}
