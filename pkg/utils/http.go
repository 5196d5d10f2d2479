package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func ParseIDParam(c *gin.Context, param string) (uint, error) {
	idStr := c.Param(param)
	idUint64, err := strconv.ParseUint(idStr, 10, 64)
	return uint(idUint64), err
}

// FormValues flattens the first value of every multipart or urlencoded key.
func FormValues(c *gin.Context) map[string]string {
	out := make(map[string]string)
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for k, v := range form.Value {
			if len(v) > 0 {
				out[k] = v[0]
			}
		}
		return out
	}
	if err := c.Request.ParseForm(); err == nil {
		for k, v := range c.Request.PostForm {
			if len(v) > 0 {
				out[k] = v[0]
			}
		}
	}
	return out
}

// IsMultipart reports whether the request carries a multipart body.
func IsMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}
