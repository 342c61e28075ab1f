package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWTRoundTripAndExtract(t *testing.T) {
	SetSecret("test-secret")
	token, err := GenerateJWT("u1", "a@b.co", "admin", time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	claims, err := ExtractClaims(req)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID())
	require.Equal(t, "admin", claims.Role)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	claims, err = ExtractClaims(req)
	require.NoError(t, err)
	require.Equal(t, "a@b.co", claims.Email)

	_, err = ExtractClaims(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Error(t, err)

	SetSecret("other-secret")
	_, err = ValidateJWT(token)
	require.Error(t, err)
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		n, page, limit int
		start, end     int
	}{
		{10, 1, 3, 0, 3},
		{10, 4, 3, 9, 10},
		{10, 5, 3, 10, 10},
		{10, 0, 0, 0, 10},
		{0, 1, 20, 0, 0},
	}
	for _, tt := range tests {
		start, end := Paginate(tt.n, tt.page, tt.limit)
		require.Equal(t, tt.start, start)
		require.Equal(t, tt.end, end)
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeJSON(req, &v))
	require.Equal(t, "x", v.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	require.EqualError(t, DecodeJSON(req, &v), "request body is empty")

	require.True(t, ContainsFold("ORD-00001 Jane", "jane"))
	require.False(t, ContainsFold("ORD-00001", "x"))
}
