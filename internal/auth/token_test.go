package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestExtractTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer abc.def.ghi")

	token, err := ExtractTokenFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)
}

func TestExtractTokenFromRequest_Malformed(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"no scheme":      "abc.def.ghi",
		"wrong scheme":   "Basic abc",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if header != "" {
				r.Header.Set("Authorization", header)
			}
			_, err := ExtractTokenFromRequest(r)
			assert.Error(t, err)
		})
	}
}

func TestExtractUserIDFromJWT(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-42"})

	sub, err := ExtractUserIDFromJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", sub)
}

func TestExtractUserIDFromJWT_MissingSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"aud": "somewhere"})

	_, err := ExtractUserIDFromJWT(token)
	assert.Error(t, err)
}
