package webserver

import (
	"github.com/dinopoll/dinopoll/src/config"
	"github.com/dinopoll/dinopoll/src/poll"
	"github.com/gin-gonic/gin"
)

// Deps are the seams the webserver needs; all interfaces except the service.
type Deps struct {
	Service *poll.Service
	Store   poll.Store
	Slack   SlackClient
	Guard   poll.Guard
}

func New(cfg config.Config, deps Deps) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, deps)
	return g
}
