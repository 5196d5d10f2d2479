package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sustentai/ods-platform/internal/application"
)

func jsonContext(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindAdminEditJSON(t *testing.T) {
	in, err := bindAdminEdit(jsonContext(`{
		"nomeProjeto": "Horta",
		"premiado": false,
		"logoUrl": null,
		"oficioUrl": "uploads/x/y/oficio.pdf",
		"removerOficio": "true",
		"imagensExcluidas": ["uploads/a/b/1.jpg"],
		"dados_atualizacao": {"tipo": "exclusao"},
		"status": "ativo"
	}`))
	require.NoError(t, err)
	assert.Equal(t, application.AdminEditInput{
		Fields:       map[string]string{"nomeProjeto": "Horta", "premiado": "false", "status": "ativo"},
		RemoveLogo:   true,
		RemoveOficio: true,
		DeleteImages: []string{"uploads/a/b/1.jpg"},
	}, in)
}

func TestBindAdminEditJSONErrors(t *testing.T) {
	for _, body := range []string{
		`{"nomeProjeto": {"nested": true}}`,
		`{"imagensExcluidas": "uploads/a.jpg"}`,
		`{"imagensExcluidas": [1, 2]}`,
		`[1, 2]`,
	} {
		_, err := bindAdminEdit(jsonContext(body))
		assert.True(t, errors.Is(err, ErrUpload), body)
	}
}

func TestBindAdminEditEmptyBody(t *testing.T) {
	in, err := bindAdminEdit(jsonContext(""))
	require.NoError(t, err)
	assert.Empty(t, in.Fields)
	assert.False(t, in.RemoveLogo)
}

func TestBindAdminEditMultipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("descricao", "nova"))
	require.NoError(t, mw.WriteField("removerLogo", "true"))
	require.NoError(t, mw.WriteField("imagensExcluidas", "uploads/a/b/1.jpg"))
	require.NoError(t, mw.WriteField("imagensExcluidas", "uploads/a/b/2.jpg"))
	require.NoError(t, mw.Close())

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPatch, "/", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())

	in, err := bindAdminEdit(c)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"descricao": "nova"}, in.Fields)
	assert.True(t, in.RemoveLogo)
	assert.Equal(t, []string{"uploads/a/b/1.jpg", "uploads/a/b/2.jpg"}, in.DeleteImages)
}

func TestFormListAcceptsJSONArray(t *testing.T) {
	got, err := formList([]string{`["a", "b"]`})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	_, err = formList([]string{`[broken`})
	assert.ErrorIs(t, err, ErrUpload)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(application.ErrProjectNotFound))
	assert.Equal(t, http.StatusBadRequest, statusFor(ErrUpload))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestBindFieldsJSON(t *testing.T) {
	fields, err := bindFields(jsonContext(`{"descricao": "nova", "premiado": true, "escala": null}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"descricao": "nova", "premiado": "true", "escala": ""}, fields)

	fields, err = bindFields(jsonContext(""))
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = bindFields(jsonContext(`{"descricao": ["a"]}`))
	assert.True(t, errors.Is(err, ErrUpload))
}

func TestBindFieldsForm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPut, "/", strings.NewReader("descricao=nova&ods=ODS+3"))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	fields, err := bindFields(c)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"descricao": "nova", "ods": "ODS 3"}, fields)
}
