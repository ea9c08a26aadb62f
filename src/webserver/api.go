package webserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dinopoll/dinopoll/src/poll"
	"github.com/dinopoll/dinopoll/src/types"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// API serves the non-chat entry points, authenticated by opaque bearer
// tokens from the token table.
type API struct {
	svc    *poll.Service
	store  poll.Store
	policy *bluemonday.Policy
}

func NewAPI(svc *poll.Service, store poll.Store) API {
	return API{svc: svc, store: store, policy: bluemonday.StrictPolicy()}
}

func (a API) authenticate(c *gin.Context) (*types.Token, error) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errors.New("no token provided")
	}
	tok, err := a.store.FindToken(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, errors.New("invalid token")
	}
	return tok, nil
}

type createRequest struct {
	Title         string   `json:"title" binding:"required"`
	Options       []string `json:"options" binding:"required"`
	Channel       string   `json:"channel" binding:"required"`
	OthersCanAdd  bool     `json:"othersCanAdd"`
	MultipleVotes bool     `json:"multipleVotes"`
}

func (a API) Create(c *gin.Context) {
	tok, err := a.authenticate(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "err": err.Error()})
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "err": err.Error()})
		return
	}

	p := &types.Poll{
		Title:         a.policy.Sanitize(req.Title),
		Channel:       req.Channel,
		OthersCanAdd:  req.OthersCanAdd,
		MultipleVotes: req.MultipleVotes,
		CreatedBy:     tok.User,
		Open:          true,
	}
	for _, name := range req.Options {
		p.Options = append(p.Options, types.PollOption{Name: a.policy.Sanitize(name)})
	}

	created, err := a.svc.Create(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "err": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "woop woop you did it", "poll": created})
}

func (a API) Toggle(c *gin.Context) {
	if _, err := a.authenticate(c); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "err": err.Error()})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "err": "can't find poll"})
		return
	}

	// Any valid token may toggle any poll; ownership is only enforced on the
	// slash-command path.
	if err := a.svc.ToggleOpen(c.Request.Context(), id, ""); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "err": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "woop woop you did it"})
}
