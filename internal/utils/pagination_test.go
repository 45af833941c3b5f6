package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func paramsFor(query string) PaginationParams {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/messages?"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	t.Run("no params means unpaginated", func(t *testing.T) {
		require.Equal(t, PaginationParams{}, paramsFor(""))
	})

	t.Run("page and limit", func(t *testing.T) {
		require.Equal(t, PaginationParams{Page: 3, Limit: 20, Offset: 40}, paramsFor("page=3&limit=20"))
	})

	t.Run("out of range limit falls back to default", func(t *testing.T) {
		p := paramsFor("page=0&limit=10000")
		require.Equal(t, 1, p.Page)
		require.Equal(t, 50, p.Limit)
		require.Equal(t, 0, p.Offset)
	})
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(16)
	require.NoError(t, err)
	require.Len(t, a, 32)

	b, err := RandomHex(16)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
