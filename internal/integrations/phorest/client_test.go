package phorest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// newTestClient поднимает фейковый issuer и API на одном сервере
func newTestClient(t *testing.T, apiHandler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/", apiHandler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	tokens := NewTokenSource("client-id", "client-secret", 5*time.Second, nopLogger{})
	client := NewClient(srv.URL, srv.URL+"/oauth/token", "b1", tokens, 5*time.Second, nopLogger{})
	return client, srv
}

func TestUpdateAppointment_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/business/b1/appointments/appt-1", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var req AppointmentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "staff-1", req.StaffRef)

		json.NewEncoder(w).Encode(Appointment{
			ID:          "appt-1",
			BusinessID:  "b1",
			StaffRef:    req.StaffRef,
			ServiceName: req.ServiceName,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			State:       "BOOKED",
			Version:     2,
		})
	})

	start := time.Date(2026, 9, 7, 7, 0, 0, 0, time.UTC)
	appointment, err := client.UpdateAppointment(context.Background(), "appt-1", &AppointmentRequest{
		StaffRef:    "staff-1",
		ContactRef:  "contact-1",
		ServiceName: "Стрижка",
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
	})
	require.NoError(t, err)

	assert.Equal(t, "appt-1", appointment.ID)
	assert.Equal(t, int64(2), appointment.Version)
}

func TestUpdateAppointment_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.UpdateAppointment(context.Background(), "missing", &AppointmentRequest{})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateAppointment_EscapesAppointmentID(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		json.NewEncoder(w).Encode(Appointment{ID: "a b"})
	})

	_, err := client.UpdateAppointment(context.Background(), "a b", &AppointmentRequest{})
	require.NoError(t, err)
	assert.Equal(t, "/business/b1/appointments/a%20b", gotPath)
}

func TestUpdateAppointment_UnauthorizedInvalidatesToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.UpdateAppointment(context.Background(), "appt-1", &AppointmentRequest{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Кеш сброшен, следующий вызов пойдёт за новым токеном
	client.tokens.mu.Lock()
	_, cached := client.tokens.cache[client.tokenURL]
	client.tokens.mu.Unlock()
	assert.False(t, cached)
}
