package backend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/workline/docspace-crm-plugin/backend"
	"github.com/workline/docspace-crm-plugin/internal/errkind"
)

const testBearer = "signed-token-1"

type testFixture struct {
	server   *httptest.Server
	client   *backend.Client
	requests int32
}

// setupTestFixture starts an httptest backend driven by handler and wires a
// client at it with backoff sleeps disabled.
func setupTestFixture(t *testing.T, handler http.HandlerFunc) *testFixture {
	t.Helper()

	f := &testFixture{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.requests, 1)
		handler(w, r)
	}))
	t.Cleanup(f.server.Close)

	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: testBearer})
	f.client = backend.New(f.server.URL, tokens, backend.WithSleepFunc(func(time.Duration) {}))
	return f
}

func (f *testFixture) requestCount() int {
	return int(atomic.LoadInt32(&f.requests))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestGetSettingsSendsBearerAndDecodes(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/settings", r.URL.Path)
		require.Equal(t, "Bearer "+testBearer, r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, backend.Settings{URL: "https://ws.example.com", APIKey: "k", APIKeyValid: true})
	})

	settings, err := f.client.GetSettings(context.Background())
	require.NoError(t, err)
	require.Equal(t, "https://ws.example.com", settings.URL)
	require.True(t, settings.APIKeyValid)
}

func TestReadRetriesTwiceOnServerError(t *testing.T) {
	var failures int32
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&failures, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, backend.Room{RoomID: "r-1"})
	})

	room, err := f.client.GetRoom(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, "r-1", room.RoomID)
	require.Equal(t, int64(42), room.DealID)
	require.Equal(t, 3, f.requestCount())
}

func TestReadSurfacesFinalErrorUntouched(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"cause": backend.CauseAPIKeyInvalid})
	})

	_, err := f.client.GetSettings(context.Background())
	require.Error(t, err)
	require.Equal(t, 3, f.requestCount())

	se, ok := backend.AsStatusError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusServiceUnavailable, se.Status)
	require.Equal(t, backend.CauseAPIKeyInvalid, se.Cause)
}

func TestMutateRetriesOnceOnRateLimit(t *testing.T) {
	var calls int32
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, http.StatusOK, backend.Room{RoomID: "r-9"})
	})

	room, err := f.client.SaveRoom(context.Background(), 7, "r-9", 2)
	require.NoError(t, err)
	require.Equal(t, "r-9", room.RoomID)
	require.Equal(t, 2, f.requestCount())
}

func TestMutateDoesNotRetryOtherFailures(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := f.client.DeleteRoom(context.Background(), 7)
	require.Error(t, err)
	require.Equal(t, 1, f.requestCount())
	require.True(t, backend.IsStatus(err, http.StatusInternalServerError))
}

func TestGetRoomNotFoundIsDetectable(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := f.client.GetRoom(context.Background(), 99)
	require.Error(t, err)
	require.True(t, backend.IsNotFound(err))

	// "No room yet" is a settled answer; the read must not retry it.
	require.Equal(t, 1, f.requestCount())
}

func TestReadDoesNotRetryClientErrors(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := f.client.GetSettings(context.Background())
	require.Error(t, err)
	require.True(t, backend.IsStatus(err, http.StatusUnauthorized))
	require.Equal(t, 1, f.requestCount())
}

func TestPutDocspaceAccountCarriesSystemFlag(t *testing.T) {
	f := setupTestFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/user/docspace-account", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("system"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "jane@example.com", body["userName"])
		require.NotEmpty(t, body["passwordHash"])
		w.WriteHeader(http.StatusOK)
	})

	err := f.client.PutDocspaceAccount(context.Background(), "jane@example.com", "hash", true)
	require.NoError(t, err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errkind.Kind
	}{
		{"nil", nil, errkind.None},
		{"unauthorized", &backend.StatusError{Status: http.StatusUnauthorized}, errkind.TokenExpired},
		{"unavailable url missing", &backend.StatusError{Status: http.StatusServiceUnavailable, Cause: backend.CauseURLNotFound}, errkind.PluginNotAvailable},
		{"unavailable key missing", &backend.StatusError{Status: http.StatusServiceUnavailable, Cause: backend.CauseAPIKeyNotFound}, errkind.PluginNotAvailable},
		{"unavailable key invalid", &backend.StatusError{Status: http.StatusServiceUnavailable, Cause: backend.CauseAPIKeyInvalid}, errkind.InvalidAPIKey},
		{"validation rejected key", &backend.StatusError{Status: http.StatusBadRequest, Code: backend.CodeInvalidAPIKey}, errkind.InvalidAPIKey},
		{"validation other", &backend.StatusError{Status: http.StatusBadRequest}, errkind.Common},
		{"server error", &backend.StatusError{Status: http.StatusInternalServerError}, errkind.Common},
		{"plain error", context.DeadlineExceeded, errkind.Common},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, backend.Classify(tc.err))
		})
	}
}
