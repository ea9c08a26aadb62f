package webserver

import (
	"bytes"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
)

// VerifySlackSignature authenticates inbound Slack requests with the app's
// signing secret. The body is restored for downstream handlers.
func VerifySlackSignature(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		sv, err := slack.NewSecretsVerifier(c.Request.Header, secret)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if _, err := sv.Write(body); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if err := sv.Ensure(); err != nil {
			log.Printf("slack: signature mismatch from %s", c.ClientIP())
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}
