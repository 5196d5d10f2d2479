package handlers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sustentai/ods-platform/internal/application"
	"github.com/sustentai/ods-platform/pkg/utils"
)

// Control keys of an admin edit payload. Everything else is a candidate
// field and goes through the schema allow-list in the service.
const (
	keyLogoURL        = "logoUrl"
	keyOficioURL      = "oficioUrl"
	keyRemoveLogo     = "removerLogo"
	keyRemoveOficio   = "removerOficio"
	keyDeletedImages  = "imagensExcluidas"
	keyPendingChanges = "dados_atualizacao"
)

// bindAdminEdit reads a flat JSON object or a multipart form into an
// AdminEditInput. A null logoUrl or oficioUrl in JSON removes the file.
func bindAdminEdit(c *gin.Context) (application.AdminEditInput, error) {
	if utils.IsMultipart(c) {
		return adminEditFromForm(c)
	}
	var raw map[string]any
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&raw); err != nil {
			return application.AdminEditInput{}, fmt.Errorf("%w: malformed JSON body", ErrUpload)
		}
	}
	return adminEditFromJSON(raw)
}

// bindFields reads the text fields of a public form. JSON objects are
// accepted alongside multipart and urlencoded bodies.
func bindFields(c *gin.Context) (map[string]string, error) {
	if c.ContentType() != gin.MIMEJSON {
		return utils.FormValues(c), nil
	}
	var raw map[string]any
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&raw); err != nil {
			return nil, fmt.Errorf("%w: malformed JSON body", ErrUpload)
		}
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := scalar(v)
		if !ok {
			return nil, fmt.Errorf("%w: field %s must be a scalar value", ErrUpload, k)
		}
		out[k] = s
	}
	return out, nil
}

func adminEditFromJSON(raw map[string]any) (application.AdminEditInput, error) {
	in := application.AdminEditInput{Fields: make(map[string]string, len(raw))}
	for k, v := range raw {
		switch k {
		case keyLogoURL:
			if v == nil {
				in.RemoveLogo = true
			}
		case keyOficioURL:
			if v == nil {
				in.RemoveOficio = true
			}
		case keyRemoveLogo:
			in.RemoveLogo = truthy(v)
		case keyRemoveOficio:
			in.RemoveOficio = truthy(v)
		case keyDeletedImages:
			urls, err := stringList(v)
			if err != nil {
				return in, err
			}
			in.DeleteImages = urls
		case keyPendingChanges:
		default:
			s, ok := scalar(v)
			if !ok {
				return in, fmt.Errorf("%w: field %s must be a scalar value", ErrUpload, k)
			}
			in.Fields[k] = s
		}
	}
	return in, nil
}

func adminEditFromForm(c *gin.Context) (application.AdminEditInput, error) {
	in := application.AdminEditInput{Fields: make(map[string]string)}
	form, err := c.MultipartForm()
	if err != nil {
		return in, fmt.Errorf("%w: malformed multipart body", ErrUpload)
	}
	for k, values := range form.Value {
		if len(values) == 0 {
			continue
		}
		switch k {
		case keyLogoURL, keyOficioURL, keyPendingChanges:
		case keyRemoveLogo:
			in.RemoveLogo = truthy(values[0])
		case keyRemoveOficio:
			in.RemoveOficio = truthy(values[0])
		case keyDeletedImages:
			urls, err := formList(values)
			if err != nil {
				return in, err
			}
			in.DeleteImages = urls
		default:
			in.Fields[k] = values[0]
		}
	}
	return in, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	default:
		return false
	}
}

func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

func stringList(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		if v == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s must be a list of URLs", ErrUpload, keyDeletedImages)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a list of URLs", ErrUpload, keyDeletedImages)
		}
		out = append(out, s)
	}
	return out, nil
}

// formList accepts repeated values or a single JSON encoded array.
func formList(values []string) ([]string, error) {
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var out []string
		if err := json.Unmarshal([]byte(values[0]), &out); err != nil {
			return nil, fmt.Errorf("%w: %s must be a list of URLs", ErrUpload, keyDeletedImages)
		}
		return out, nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}
