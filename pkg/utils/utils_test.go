package utils

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sustentai/ods-platform/pkg/types"
)

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, err := ParseIDParam(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	_, err = ParseIDParam(c, "id")
	assert.Error(t, err)
}

func TestClaimsFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, err := GetUserIDFromContext(c)
	assert.ErrorIs(t, err, ErrNoClaims)
	assert.False(t, IsAdminFromContext(c))

	c.Set("claims", &types.Claims{UserID: 7, IsAdmin: true})
	uid, err := GetUserIDFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, uint(7), uid)
	assert.True(t, IsAdminFromContext(c))

	c.Set("claims", "bogus")
	_, err = GetUserIDFromContext(c)
	assert.Error(t, err)
}

func TestFormValues(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	body := url.Values{"nomeProjeto": {"Horta"}, "ods": {"ODS 2", "ignored"}}.Encode()
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	values := FormValues(c)
	assert.Equal(t, "Horta", values["nomeProjeto"])
	assert.Equal(t, "ODS 2", values["ods"])
	assert.False(t, IsMultipart(c))
}
