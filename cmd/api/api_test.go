package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/guestbook/internal/config"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	srv := httptest.NewServer(newRouter(db, config.Default(), zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv, mock
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// TestAPI_CreateUserGuestbookThenList walks the create user, create guestbook,
// list guestbooks flow through the full router.
func TestAPI_CreateUserGuestbookThenList(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("ada", "ada@x.io").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).AddRow(1, "ada", "ada@x.io"))
	mock.ExpectQuery(`INSERT INTO guestbooks`).
		WithArgs("hi", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "message", "user_id"}).AddRow(1, "hi", 1))
	mock.ExpectQuery(`SELECT id, message, user_id FROM guestbooks$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "message", "user_id"}).AddRow(1, "hi", 1))
	mock.ExpectQuery(`FROM users WHERE id = ANY`).
		WithArgs(pq.Array([]int64{1})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}).AddRow(1, "ada", "ada@x.io"))

	resp := doJSON(t, "POST", srv.URL+"/users", map[string]string{"username": "ada", "email": "ada@x.io"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, map[string]any{"id": float64(1), "username": "ada", "email": "ada@x.io"}, user)

	resp = doJSON(t, "POST", srv.URL+"/guestbooks", map[string]any{"message": "hi", "user_id": 1})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var g map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&g))
	assert.Equal(t, map[string]any{"id": float64(1), "message": "hi", "user_id": float64(1)}, g)

	resp = doJSON(t, "GET", srv.URL+"/guestbooks", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, []map[string]any{
		{"id": float64(1), "message": "hi", "user_id": float64(1), "username": "ada"},
	}, list)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPI_MostRoutesBeforeID(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(`LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "guestbook_count"}).AddRow(2, "bob", 4))

	resp := doJSON(t, "GET", srv.URL+"/users/most", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var most []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&most))
	require.Len(t, most, 1)
	assert.Equal(t, float64(4), most[0]["guestbook_count"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPI_GuestbooksByUser(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(`FROM guestbooks WHERE user_id = \$1`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "message", "user_id"}).AddRow(3, "yo", 7))

	resp := doJSON(t, "GET", srv.URL+"/users/7/guestbooks", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "yo", list[0]["message"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPI_UpdateGuestbookUnknownUser(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectQuery(`SELECT id FROM users WHERE id = \$1`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	resp := doJSON(t, "PUT", srv.URL+"/guestbooks/1", map[string]any{"message": "x", "user_id": 42})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "User with this id is not found", string(body))
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPI_CORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest("OPTIONS", srv.URL+"/users/1", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

// TestAPI_Health is a quick smoke test for the health endpoint.
func TestAPI_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestAPI_Ready checks that /ready pings the DB.
func TestAPI_Ready(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectPing()

	resp, err := http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAPI_Metrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/health",status="200"}`)
}

func TestBootLogger(t *testing.T) {
	var buf bytes.Buffer
	l := bootLogger(&buf)
	l.Error().Str("key", "GUESTBOOK_PORT").Msg("load config")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "load config", entry["message"])
	assert.Equal(t, "GUESTBOOK_PORT", entry["key"])
	assert.Contains(t, entry, "time")
}
