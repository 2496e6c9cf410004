//go:build integration

package handler_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greatbrands/ticketing/internal/auth"
	"github.com/greatbrands/ticketing/internal/handler"
	"github.com/greatbrands/ticketing/internal/middleware"
	"github.com/greatbrands/ticketing/internal/notifier"
	"github.com/greatbrands/ticketing/internal/repository"
	"github.com/greatbrands/ticketing/internal/service"
	"github.com/greatbrands/ticketing/pkg/database"
)

const testJWTSecret = "integration-test-secret"

// newTestServer wires the real stack — auth middleware, handlers,
// allocation service, Postgres — behind an httptest server.
func newTestServer(t *testing.T) (*httptest.Server, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5434"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "ticketing_test_db"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	db.Exec("DELETE FROM waiting_list")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM events")

	eventRepo := repository.NewEventRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	waitingRepo := repository.NewWaitingListRepository(db)
	svc := service.NewAllocationService(eventRepo, bookingRepo, waitingRepo, notifier.NewNoop())

	e := echo.New()
	handler.NewEventHandler(svc).RegisterRoutes(e, middleware.RequireAuth(testJWTSecret))

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, db
}

func mintToken(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := auth.IssueToken(testJWTSecret, userID, role, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, method, url, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			decoded = nil
		}
	}
	return resp, decoded
}

func TestFullFlow(t *testing.T) {
	srv, db := newTestServer(t)

	adminToken := mintToken(t, "admin-1", auth.RoleAdmin)
	userAToken := mintToken(t, "user-A", auth.RoleUser)
	userBToken := mintToken(t, "user-B", auth.RoleUser)

	var eventID string

	t.Run("initialize event", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/events/initialize", adminToken,
			`{"name":"Tech world","total_tickets":1}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		event := body["event"].(map[string]any)
		assert.Equal(t, float64(1), event["total_tickets"])
		assert.Equal(t, float64(1), event["available_tickets"])
		eventID = fmt.Sprintf("%.0f", event["id"].(float64))
	})

	t.Run("user A books the only ticket", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/events/"+eventID+"/book", userAToken, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		booking := body["booking"].(map[string]any)
		assert.Equal(t, "user-A", booking["user_id"])
		assert.Contains(t, booking["ticket_id"], "GB-")

		event := body["event"].(map[string]any)
		assert.Equal(t, float64(0), event["available_tickets"])
	})

	t.Run("user B lands on the waiting list", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/events/"+eventID+"/book", userBToken, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Nil(t, body["booking"])
		waiting := body["waiting_list"].(map[string]any)
		assert.Equal(t, "user-B", waiting["user_id"])
	})

	t.Run("admin sees the allocation state", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/events/"+eventID+"/status", adminToken, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Equal(t, float64(0), body["available_tickets"])
		assert.Equal(t, float64(1), body["booked_tickets"])
		assert.Equal(t, float64(1), body["waiting_list_count"])
	})

	t.Run("user may not read status", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/events/"+eventID+"/status", userAToken, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("cancel promotes user B", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/v1/events/"+eventID+"/cancel", userAToken, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body["message"], "user-B")
	})

	t.Run("state after promotion", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/v1/events/"+eventID+"/status", adminToken, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Equal(t, float64(0), body["available_tickets"])
		assert.Equal(t, float64(1), body["booked_tickets"])
		assert.Equal(t, float64(0), body["waiting_list_count"])

		bookings := body["bookings"].([]any)
		require.Len(t, bookings, 1)
		assert.Equal(t, "user-B", bookings[0].(map[string]any)["user_id"])
	})

	t.Run("requests without a token are rejected", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/events/"+eventID+"/book", "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	db.Exec("DELETE FROM waiting_list")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM events")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
