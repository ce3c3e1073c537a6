package edgetest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Fault is an error answer of the fake API.
type Fault struct {
	Status  int
	Code    string
	Message string
}

// faultPayload is the error envelope the management API returns.
type faultPayload struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Contexts []string `json:"contexts"`
}

// OrganizationNotFound is returned for requests against another organization.
func OrganizationNotFound(org string) Fault {
	return Fault{
		Status:  http.StatusNotFound,
		Code:    "organizations.OrganizationDoesNotExist",
		Message: fmt.Sprintf("Organization : %s does not exist", org),
	}
}

// ServiceUnavailable mimics a transient backend failure.
func ServiceUnavailable() Fault {
	return Fault{Status: http.StatusServiceUnavailable, Code: "messaging.adaptors.http.flow.ServiceUnavailable", Message: "The Service is temporarily unavailable"}
}

// writeFault writes f and aborts the request.
func writeFault(c *gin.Context, f Fault) {
	status := f.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, faultPayload{Code: f.Code, Message: f.Message, Contexts: []string{}})
}
