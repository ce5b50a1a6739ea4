package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/taskflow/internal/auth"
	"github.com/adanyl0v/taskflow/internal/metrics"
	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	binding.EnableDecoderUseNumber = true
}

const testTokenTTL = time.Hour

var testHasherParams = &argon2id.Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

type testEnv struct {
	users    *mockUserService
	projects *mockProjectService
	tasks    *mockTaskService
	hasher   auth.Hasher
	tokens   auth.TokenService
	metrics  *metrics.Metrics
	router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:    new(mockUserService),
		projects: new(mockProjectService),
		tasks:    new(mockTaskService),
		hasher:   auth.NewHasher(testHasherParams),
		tokens:   auth.NewTokenService("taskflow-test", []byte("test-signing-key"), testTokenTTL),
		metrics:  metrics.New(),
		router:   gin.New(),
	}

	h := New(zerolog.Nop(), Dependencies{
		Users:     env.users,
		Projects:  env.projects,
		Tasks:     env.tasks,
		Hasher:    env.hasher,
		Tokens:    env.tokens,
		Validator: validation.New(),
		Metrics:   env.metrics,
	})
	h.RegisterRoutes(env.router.Group("/api/v1"))

	t.Cleanup(func() {
		env.users.AssertExpectations(t)
		env.projects.AssertExpectations(t)
		env.tasks.AssertExpectations(t)
	})
	return env
}

var testUser = &models.User{
	ID:       "u-1",
	Name:     "Ann",
	Username: "ann1",
	Email:    "a@x.com",
}

// signIn issues a token for testUser and makes the auth middleware resolve it.
func (env *testEnv) signIn(t *testing.T) string {
	t.Helper()

	token, _, err := env.tokens.Issue(auth.Identity{
		ID:       testUser.ID,
		Name:     testUser.Name,
		Username: testUser.Username,
		Email:    testUser.Email,
	})
	require.NoError(t, err)

	env.users.On("GetUserByUsername", mock.Anything, testUser.Username).Return(testUser, nil)
	return token
}

type requestOption func(r *http.Request)

func withBearer(token string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withCookie(token string) requestOption {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: tokenCookie, Value: token})
	}
}

func withHeader(key, value string) requestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

func (env *testEnv) do(method, path, body string, opts ...requestOption) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Data         json.RawMessage `json:"data"`
	ErrorDetails []string        `json:"errorDetails"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var e envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

func tokenCookieFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == tokenCookie {
			return c
		}
	}
	return nil
}
