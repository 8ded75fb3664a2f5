package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dodies-rest-api/internal/handler"
	"dodies-rest-api/internal/repository"
	"dodies-rest-api/internal/router"
	"dodies-rest-api/internal/service"
	"dodies-rest-api/pkg/response"
)

// testServer wires the full stack over an in-memory store, as main does.
type testServer struct {
	handler http.Handler
	store   repository.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := repository.NewMemoryStore()
	require.NoError(t, service.EnsureWaitlistTable(context.Background(), store))

	dispatcher := handler.NewDispatcher(
		service.NewWaitlistService(store),
		service.NewRecordService(store, time.UTC),
		service.NewInventoryService(store, nil, 0),
		service.NewDashboardService(store),
	)
	return &testServer{
		handler: router.New(router.Config{Handler: handler.New(), Dispatcher: dispatcher}),
		store:   store,
	}
}

// exec issues a GET /exec with the given action and params, decoding the
// envelope. Every call must answer HTTP 200.
func (s *testServer) exec(t *testing.T, action string, params map[string]string) response.Envelope {
	t.Helper()
	q := url.Values{}
	q.Set("action", action)
	for k, v := range params {
		q.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodGet, "/exec?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWaitlistLifecycle(t *testing.T) {
	srv := newTestServer(t)

	env := srv.exec(t, "addToWaitlist", map[string]string{
		"name":       "Sam",
		"phone":      "555-0100",
		"partySize":  "4",
		"spiceLevel": "spicy",
	})
	require.True(t, env.Success)
	id := env.Data.(map[string]interface{})["id"].(string)
	assert.NotEmpty(t, id)

	env = srv.exec(t, "getWaitlist", nil)
	require.True(t, env.Success)
	entries := env.Data.([]interface{})
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]interface{})
	assert.Equal(t, float64(2), entry["row"])
	assert.Equal(t, "Sam", entry["name"])
	assert.Equal(t, "4", entry["party"])
	assert.Equal(t, "Waiting", entry["status"])
	assert.Equal(t, "Spicy", entry["spiceLevel"])
	assert.Equal(t, float64(0), entry["waitMin"])
	assert.Equal(t, id, entry["id"])

	env = srv.exec(t, "updateWaitlistStatus", map[string]string{"row": "2", "status": "Seated"})
	require.True(t, env.Success)

	env = srv.exec(t, "getWaitlist", nil)
	require.True(t, env.Success)
	entry = env.Data.([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Seated", entry["status"])
	assert.Equal(t, float64(0), entry["waitMin"])
}

func TestUpdateWaitlistStatusByID(t *testing.T) {
	srv := newTestServer(t)

	env := srv.exec(t, "addToWaitlist", map[string]string{"fullName": "Rosa"})
	require.True(t, env.Success)
	id := env.Data.(map[string]interface{})["id"].(string)

	env = srv.exec(t, "updateWaitlistStatus", map[string]string{"id": id, "status": "Notified"})
	require.True(t, env.Success)

	env = srv.exec(t, "getWaitlist", nil)
	entry := env.Data.([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Notified", entry["status"])
}

func TestUpdateWaitlistStatusBadRow(t *testing.T) {
	srv := newTestServer(t)

	for _, row := range []string{"abc", "", "1", "0", "-3"} {
		env := srv.exec(t, "updateWaitlistStatus", map[string]string{"row": row, "status": "Seated"})
		assert.False(t, env.Success, "row %q", row)
		assert.Equal(t, "invalid row", env.Error)
	}
}

func TestUnknownAction(t *testing.T) {
	srv := newTestServer(t)

	env := srv.exec(t, "destroyAllTables", nil)
	assert.False(t, env.Success)
	assert.Equal(t, "unknown action: destroyAllTables", env.Error)
}

func TestShoutoutDefaults(t *testing.T) {
	srv := newTestServer(t)

	env := srv.exec(t, "addShoutout", map[string]string{"staff": "Rosa", "reasons": "hustle"})
	require.True(t, env.Success)
	assert.Equal(t, "Shoutout saved!", env.Message)
	assert.Nil(t, env.Data)

	env = srv.exec(t, "getShoutouts", nil)
	require.True(t, env.Success)
	records := env.Data.([]interface{})
	require.Len(t, records, 1)
	rec := records[0].(map[string]interface{})
	assert.Equal(t, "Rosa", rec["staff"])
	assert.Equal(t, "Anonymous", rec["from"])
	assert.NotEmpty(t, rec["timestamp"])
}

func TestFeedbackAndDashboard(t *testing.T) {
	srv := newTestServer(t)

	env := srv.exec(t, "addFeedback", map[string]string{"rating": "4", "text": "great crawfish"})
	require.True(t, env.Success)
	assert.Equal(t, "Feedback saved!", env.Message)
	env = srv.exec(t, "addFeedback", map[string]string{"rating": "5", "sentiment": "positive"})
	require.True(t, env.Success)
	env = srv.exec(t, "logChat", map[string]string{"question": "do you take reservations?"})
	require.True(t, env.Success)

	env = srv.exec(t, "getDashboardStats", nil)
	require.True(t, env.Success)
	stats := env.Data.(map[string]interface{})
	assert.Equal(t, float64(1), stats["totalChats"])
	assert.Equal(t, float64(2), stats["totalFeedback"])
	assert.Equal(t, float64(4.5), stats["avgRating"])
}

func TestLeadCapture(t *testing.T) {
	srv := newTestServer(t)

	env := srv.exec(t, "addLead", map[string]string{
		"contactName":    "Pat",
		"restaurantName": "Bayou Bites",
	})
	require.True(t, env.Success)
	assert.Equal(t, "Lead captured!", env.Message)

	env = srv.exec(t, "getLeads", nil)
	require.True(t, env.Success)
	rec := env.Data.([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Pat", rec["contact name"])
	assert.Equal(t, "Bayou Bites", rec["restaurant"])
	assert.Equal(t, "Professional", rec["plan"])
}

func TestGetInventoryAbsentTable(t *testing.T) {
	srv := newTestServer(t)

	env := srv.exec(t, "getInventory", nil)
	require.True(t, env.Success)
	assert.Equal(t, []interface{}{}, env.Data)
}

func TestJSONPCallback(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/exec?action=getWaitlist&callback=handleData", nil)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/javascript; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "handleData("))
	assert.True(t, strings.HasSuffix(body, ");"))

	var env response.Envelope
	require.NoError(t, json.Unmarshal([]byte(body[len("handleData("):len(body)-2]), &env))
	assert.True(t, env.Success)
}

func TestJSONPRejectsBadCallback(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/exec?action=getWaitlist&callback="+url.QueryEscape("alert(1);//"), nil)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "{"))
}
