package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
	"github.com/noah-isme/course-enrollment-api/pkg/response"
)

// keyLength is the length of a canonical UUID string.
const keyLength = 36

// pathKey returns the :id path parameter. Keys of the wrong length are
// rejected with 422 before any service is consulted; the content is not
// otherwise checked.
func pathKey(c *gin.Context, invalidFormat string) (string, bool) {
	id := c.Param("id")
	if len(id) != keyLength {
		response.Error(c, appErrors.InvalidInput(fmt.Sprintf(invalidFormat, id)))
		return "", false
	}
	return id, true
}

func bindError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}
