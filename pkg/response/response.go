package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/hallticket-portal/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data    interface{}            `json:"data,omitempty"`
	Error   *appErrors.Error       `json:"error,omitempty"`
	Warning *Notice                `json:"warning,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// Notice is the neutral message shown when a lookup yields nothing to display.
type Notice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	noStore(c)
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// Warning sends data alongside a neutral notice derived from err.
func Warning(c *gin.Context, data interface{}, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	status := appErr.Status
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, Envelope{Data: data, Warning: &Notice{Code: appErr.Code, Message: appErr.Message}})
}

// Outcome renders err as a warning when a view can recover from it and as an
// error otherwise. A nil err renders data with 200.
func Outcome(c *gin.Context, data interface{}, err error) {
	switch {
	case err == nil:
		JSON(c, http.StatusOK, data)
	case appErrors.IsRecoverable(err):
		Warning(c, data, err)
	default:
		Error(c, err)
	}
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
