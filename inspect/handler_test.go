package inspect_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/depengine/di"
	"github.com/kbukum/depengine/inspect"
	"github.com/kbukum/depengine/logger"
)

type Clock interface{ Unix() int64 }

type Greeter interface{ Greet() string }

type stubClock struct{}

func (stubClock) Unix() int64 { return 42 }

type stubGreeter struct{}

func (stubGreeter) Greet() string { return "hi" }

type registration struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Mode        string `json:"mode"`
	Initialized bool   `json:"initialized"`
	Protected   bool   `json:"protected"`
}

func setup(t *testing.T) (http.Handler, *di.Registry, *atomic.Int32) {
	t.Helper()
	reg := di.New(di.WithLogger(logger.Nop()))
	var calls atomic.Int32
	di.Register[Clock](reg, stubClock{}, di.Protected())
	di.RegisterLazy[Greeter](reg, func() Greeter {
		calls.Add(1)
		return stubGreeter{}
	})
	return inspect.Handler(reg, inspect.WithLogger(logger.Nop())), reg, &calls
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	return rr
}

func TestListRegistrations(t *testing.T) {
	h, _, calls := setup(t)

	rr := get(t, h, "/debug/di/registrations")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data []registration `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)

	assert.Equal(t, "inspect_test.Clock", body.Data[0].Type)
	assert.Equal(t, "eager", body.Data[0].Mode)
	assert.True(t, body.Data[0].Initialized)
	assert.True(t, body.Data[0].Protected)
	assert.NotEmpty(t, body.Data[0].ID)

	assert.Equal(t, "inspect_test.Greeter", body.Data[1].Type)
	assert.Equal(t, "lazy", body.Data[1].Mode)
	assert.False(t, body.Data[1].Initialized)

	assert.Zero(t, calls.Load(), "inspection must not run lazy factories")
}

func TestGetRegistration(t *testing.T) {
	h, reg, calls := setup(t)

	for _, name := range []string{"inspect_test.Greeter", "Greeter"} {
		rr := get(t, h, "/debug/di/registrations/"+name)
		require.Equal(t, http.StatusOK, rr.Code, name)

		var body struct {
			Data registration `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "inspect_test.Greeter", body.Data.Type)
		assert.False(t, body.Data.Initialized)
	}
	assert.Zero(t, calls.Load())

	_, err := di.Resolve[Greeter](reg)
	require.NoError(t, err)

	rr := get(t, h, "/debug/di/registrations/Greeter")
	var body struct {
		Data registration `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Data.Initialized)
	assert.Equal(t, "lazy", body.Data.Mode)
}

func TestGetRegistrationNotFound(t *testing.T) {
	h, _, _ := setup(t)

	rr := get(t, h, "/debug/di/registrations/Store")
	require.Equal(t, http.StatusNotFound, rr.Code)

	var body struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Contains(t, body.Error.Message, "Store")
	assert.Equal(t, "Store", body.Error.Details["type"])
}

func TestHealth(t *testing.T) {
	h, reg, _ := setup(t)

	rr := get(t, h, "/debug/di/health")
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Status        string `json:"status"`
		Registrations int    `json:"registrations"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, 2, body.Registrations)

	reg.Clear()
	rr = get(t, h, "/debug/di/health")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Registrations)
}

func TestWithBasePath(t *testing.T) {
	reg := di.New(di.WithLogger(logger.Nop()))
	h := inspect.Handler(reg, inspect.WithBasePath("internal/di/"), inspect.WithLogger(logger.Nop()))

	assert.Equal(t, http.StatusOK, get(t, h, "/internal/di/health").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/debug/di/health").Code)
}

func TestRequestIDHeader(t *testing.T) {
	h, _, _ := setup(t)

	rr := get(t, h, "/debug/di/health")
	assert.NotEmpty(t, rr.Header().Get(inspect.HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/debug/di/health", http.NoBody)
	req.Header.Set(inspect.HeaderRequestID, "req-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "req-123", rr.Header().Get(inspect.HeaderRequestID))
}
