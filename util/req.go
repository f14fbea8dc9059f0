package util

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hostel5/portal-be/db"
)

type HTTPError struct {
	Status  int
	Message string
	// Data carries structured failure detail when a single message is not
	// enough, such as partial roster updates.
	Data interface{}
}

func (he *HTTPError) Error() string {
	return fmt.Sprintf("%v (statusCode=%v)", he.Message, he.Status)
}

var (
	DbHTTPErr = HTTPError{
		Message: "database error",
		Status:  http.StatusInternalServerError,
	}
	MalformedIdHTTPErr = HTTPError{
		Message: "id malformed",
		Status:  http.StatusBadRequest,
	}
)

type HandlerOpts struct {
}

type Handler func(c *gin.Context) (interface{}, *HTTPError)

// HandlerWrapper adapts a Handler to gin, writing the standard response
// envelope for both outcomes.
func HandlerWrapper(handler Handler, opts *HandlerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, httpErr := handler(c)
		if httpErr != nil {
			HandleHTTPErrorRes(c, httpErr)
			c.Abort()
			return
		}
		res := gin.H{"success": true}
		if data != nil {
			res["data"] = data
		}
		c.JSON(http.StatusOK, res)
	}
}

/*
	HandleHTTPErrorRes handles creating the appropriate response for the HTTP error.
	break the route after calling this function
*/
func HandleHTTPErrorRes(c *gin.Context, err *HTTPError) {
	res := gin.H{
		"success": false,
		"message": err.Message,
	}
	if err.Data != nil {
		res["data"] = err.Data
	}
	c.JSON(err.Status, res)
}

func BuildJSONBindHTTPErr(err error) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: err.Error(),
	}
}

// BuildDbHTTPErr maps the store error taxonomy to HTTP statuses. Anything
// outside the taxonomy stays an opaque 500.
func BuildDbHTTPErr(err error) *HTTPError {
	switch {
	case errors.Is(err, db.ErrConflict):
		return &HTTPError{Status: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, db.ErrNotFound):
		return &HTTPError{Status: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, db.ErrValidation):
		return &HTTPError{Status: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, db.ErrAuth):
		return &HTTPError{Status: http.StatusUnauthorized, Message: err.Error()}
	case errors.Is(err, db.ErrTransient):
		return &HTTPError{Status: http.StatusServiceUnavailable, Message: err.Error()}
	default:
		return &DbHTTPErr
	}
}

func ParseId(raw string) (int64, *HTTPError) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &MalformedIdHTTPErr
	}
	return id, nil
}
