package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-complaints/internal/models"
	appErrors "github.com/noah-isme/campus-complaints/pkg/errors"
)

// Envelope is the status/message contract of every mutating endpoint.
type Envelope = models.StatusResponse

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// JSON sends a bare payload, used by list endpoints.
func JSON(c *gin.Context, status int, data interface{}) {
	noStore(c)
	c.JSON(status, data)
}

// Success answers 200 with {status: "success"} and an optional message.
func Success(c *gin.Context, message string) {
	noStore(c)
	c.JSON(http.StatusOK, Envelope{Status: models.StatusSuccess, Message: message})
}

// Token answers a successful login.
func Token(c *gin.Context, token string) {
	noStore(c)
	c.JSON(http.StatusOK, Envelope{Status: models.StatusSuccess, Token: token})
}

// Error converts err into the envelope. Input problems report "fail",
// everything else "error".
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	status := models.StatusError
	switch appErr.Code {
	case appErrors.ErrValidation.Code, appErrors.ErrConflict.Code:
		status = models.StatusFail
	}
	noStore(c)
	c.JSON(appErr.Status, Envelope{Status: status, Message: appErr.Message})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
