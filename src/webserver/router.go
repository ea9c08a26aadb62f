package webserver

import (
	"github.com/dinopoll/dinopoll/src/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func attachRoutes(r *gin.Engine, cfg config.Config, deps Deps) {
	apiH := NewAPI(deps.Service, deps.Store)
	slackH := NewSlack(deps.Service, deps.Store, deps.Slack, deps.Guard)

	api := r.Group("/", cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))
	api.POST("/create", apiH.Create)
	api.POST("/toggle/:id", apiH.Toggle)

	sl := r.Group("/slack", VerifySlackSignature(cfg.SlackSigningSecret))
	sl.POST("/commands", slackH.Command)
	sl.POST("/interactions", slackH.Interaction)
	sl.POST("/events", slackH.Event)
}
