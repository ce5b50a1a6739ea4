package v1

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/taskflow/internal/auth"
	"github.com/adanyl0v/taskflow/internal/metrics"
	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/services"
)

func rejections(t *testing.T, m *metrics.Metrics, reason string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "taskflow_auth_rejections_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "reason" && label.GetValue() == reason {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestHandleAuthMiddleware(t *testing.T) {
	t.Run("no credential", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(http.MethodGet, "/api/v1/tasks", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"Unauthorized request"}`, rec.Body.String())
		assert.Equal(t, float64(1), rejections(t, env.metrics, metrics.ReasonMissingToken))
	})

	t.Run("non-bearer scheme counts as no credential", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(http.MethodGet, "/api/v1/tasks", "", withHeader("Authorization", "Basic YW5uOnB3"))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		env := newTestEnv(t)
		token, _, err := env.tokens.Issue(auth.Identity{ID: "u-1", Username: "ann1"})
		require.NoError(t, err)

		mid := len(token) / 2
		flipped := []byte(token)
		if flipped[mid] == 'A' {
			flipped[mid] = 'B'
		} else {
			flipped[mid] = 'A'
		}

		rec := env.do(http.MethodGet, "/api/v1/tasks", "", withBearer(string(flipped)))
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"Forbidden"}`, rec.Body.String())
		assert.Equal(t, float64(1), rejections(t, env.metrics, metrics.ReasonInvalidToken))
	})

	t.Run("expired token", func(t *testing.T) {
		env := newTestEnv(t)
		expired := auth.NewTokenService("taskflow-test", []byte("test-signing-key"), -time.Minute)
		token, _, err := expired.Issue(auth.Identity{ID: "u-1", Username: "ann1"})
		require.NoError(t, err)

		rec := env.do(http.MethodGet, "/api/v1/tasks", "", withCookie(token))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		env := newTestEnv(t)
		token, _, err := env.tokens.Issue(auth.Identity{ID: "u-9", Username: "gone"})
		require.NoError(t, err)
		env.users.On("GetUserByUsername", mock.Anything, "gone").Return(nil, services.ErrUserNotFound)

		rec := env.do(http.MethodGet, "/api/v1/tasks", "", withCookie(token))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"Invalid token, Please sign-in"}`, rec.Body.String())
		assert.Equal(t, float64(1), rejections(t, env.metrics, metrics.ReasonUnknownUser))
	})

	t.Run("store failure", func(t *testing.T) {
		env := newTestEnv(t)
		token, _, err := env.tokens.Issue(auth.Identity{ID: "u-1", Username: "ann1"})
		require.NoError(t, err)
		env.users.On("GetUserByUsername", mock.Anything, "ann1").Return(nil, errors.New("connection refused"))

		rec := env.do(http.MethodGet, "/api/v1/tasks", "", withCookie(token))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, []string{"connection refused"}, decodeEnvelope(t, rec).ErrorDetails)
	})

	admitted := []struct {
		name string
		opt  func(token string) requestOption
	}{
		{name: "cookie", opt: withCookie},
		{name: "bearer header", opt: withBearer},
		{name: "lowercase bearer", opt: func(token string) requestOption {
			return withHeader("Authorization", "bearer "+token)
		}},
	}
	for _, tt := range admitted {
		t.Run("admits "+tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			token := env.signIn(t)

			var got auth.Identity
			env.tasks.On("GetTasksByAssignee", mock.Anything, "u-1").
				Run(func(args mock.Arguments) {
					got, _ = auth.IdentityFrom(args.Get(0).(context.Context))
				}).
				Return([]*models.Task{}, nil)

			rec := env.do(http.MethodGet, "/api/v1/tasks", "", tt.opt(token))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, auth.Identity{ID: "u-1", Name: "Ann", Username: "ann1", Email: "a@x.com"}, got)
		})
	}

	t.Run("cookie wins over header", func(t *testing.T) {
		env := newTestEnv(t)
		token := env.signIn(t)
		env.tasks.On("GetTasksByAssignee", mock.Anything, "u-1").Return([]*models.Task{}, nil)

		rec := env.do(http.MethodGet, "/api/v1/tasks", "", withCookie(token), withBearer("garbage"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
