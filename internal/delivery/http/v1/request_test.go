package v1

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBody_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{"name":`},
		{name: "array", body: `["abc"]`},
		{name: "too large", body: `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			token := env.signIn(t)

			rec := env.do(http.MethodPost, "/api/v1/projects/create", tt.body, withCookie(token))
			require.Equal(t, http.StatusBadRequest, rec.Code)

			e := decodeEnvelope(t, rec)
			assert.Equal(t, "Create Project validation error", e.Message)
			assert.Equal(t, []string{msgInvalidBody}, e.ErrorDetails)
		})
	}
}

func TestValidateBody_EmptyBodyIsEmptyObject(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t)

	rec := env.do(http.MethodPost, "/api/v1/projects/create", "", withCookie(token))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	e := decodeEnvelope(t, rec)
	assert.Equal(t, "Create Project validation error", e.Message)
	assert.NotContains(t, e.ErrorDetails, msgInvalidBody)
}
