package response

import (
	"encoding/json"
	"iter"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
)

// ErrorBody is the error contract shared by both services.
type ErrorBody struct {
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	Status    int       `json:"status"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, data)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error maps err to its HTTP status and writes the error body.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	_ = c.Error(err)
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(appErr.Status, ErrorBody{
		Message:   appErr.Message,
		Code:      appErr.Code,
		Status:    appErr.Status,
		Path:      c.Request.URL.Path,
		Timestamp: time.Now().UTC(),
	})
}

// WantsEventStream reports whether the client asked for server-sent events.
func WantsEventStream(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

// Stream writes every element of seq as it is produced. Clients accepting
// text/event-stream receive one SSE data event per element; everyone else
// receives a JSON array flushed element by element. An error raised before the
// first element is written becomes a regular error response; later errors end
// the stream early.
func Stream[T any](c *gin.Context, seq iter.Seq2[T, error]) {
	sse := WantsEventStream(c)
	started := false

	start := func() {
		started = true
		c.Header("Cache-Control", "no-store")
		if sse {
			c.Header("Content-Type", "text/event-stream")
			c.Header("Connection", "keep-alive")
		} else {
			c.Header("Content-Type", "application/json; charset=utf-8")
		}
		c.Status(http.StatusOK)
		if !sse {
			_, _ = c.Writer.WriteString("[")
		}
	}

	count := 0
	for item, err := range seq {
		if err != nil {
			if !started {
				Error(c, err)
				return
			}
			_ = c.Error(err)
			if sse {
				c.SSEvent("error", gin.H{"message": appErrors.FromError(err).Message})
				c.Writer.Flush()
			}
			// leave the JSON array unterminated so clients detect truncation
			return
		}
		if !started {
			start()
		}
		if sse {
			c.SSEvent("", item)
		} else {
			payload, mErr := json.Marshal(item)
			if mErr != nil {
				_ = c.Error(mErr)
				return
			}
			if count > 0 {
				_, _ = c.Writer.WriteString(",")
			}
			_, _ = c.Writer.Write(payload)
		}
		c.Writer.Flush()
		count++
	}

	if !started {
		start()
	}
	if !sse {
		_, _ = c.Writer.WriteString("]")
	}
	c.Writer.Flush()
}
