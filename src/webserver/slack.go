package webserver

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/dinopoll/dinopoll/src/chat"
	"github.com/dinopoll/dinopoll/src/facts"
	"github.com/dinopoll/dinopoll/src/poll"
	"github.com/dinopoll/dinopoll/src/render"
	"github.com/dinopoll/dinopoll/src/types"
	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
)

const (
	commandCreate = "/dinopoll"
	commandToggle = "/dinopoll-toggle"

	workflowCallbackID = "create_poll_workflow_step"

	minOptionsError = `You need at least 2 options to create a poll, unless "Allow others to add options" is checked`
	pingError       = "Please don't ping the channel"
)

// SlackClient is the slice of the chat client the inbound handlers need.
// Implemented by chat.Client.
type SlackClient interface {
	OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error
	UpdateView(ctx context.Context, view slack.ModalViewRequest, viewID string) error
	PostEphemeralText(ctx context.Context, channel, user, text string) error
	OpenWorkflowStepView(ctx context.Context, triggerID string, blocks []slack.Block) error
	SaveWorkflowStepConfiguration(ctx context.Context, editID, stepName string, inputs chat.WorkflowStepInputs) error
	WorkflowStepCompleted(ctx context.Context, executeID string) error
	WorkflowStepFailed(ctx context.Context, executeID, message string) error
}

// Slack routes slash commands, block actions, and view submissions.
type Slack struct {
	svc    *poll.Service
	store  poll.Store
	client SlackClient
	guard  poll.Guard
}

func NewSlack(svc *poll.Service, store poll.Store, client SlackClient, guard poll.Guard) *Slack {
	return &Slack{svc: svc, store: store, client: client, guard: guard}
}

func (h *Slack) Command(c *gin.Context) {
	cmd, err := slack.SlashCommandParse(c.Request)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	ctx := c.Request.Context()
	switch cmd.Command {
	case commandCreate:
		view := render.CreatePollModal(cmd.ChannelID, cmd.Text, render.DefaultOptionCount)
		if err := h.client.OpenView(ctx, cmd.TriggerID, view); err != nil {
			log.Printf("slack: open create modal: %v", err)
		}
		c.Status(http.StatusOK)

	case commandToggle:
		id, err := strconv.ParseUint(strings.TrimSpace(cmd.Text), 10, 64)
		if err != nil {
			c.String(http.StatusOK, "poll not found.")
			return
		}
		if err := h.svc.ToggleOpen(ctx, id, cmd.UserID); err != nil {
			log.Printf("slack: toggle poll %d by %s: %v", id, cmd.UserID, err)
			if errors.Is(err, poll.ErrNotFound) {
				c.String(http.StatusOK, "poll not found.")
			} else {
				c.String(http.StatusOK, "something went wrong :cry:")
			}
			return
		}
		c.String(http.StatusOK, "success!")

	default:
		c.Status(http.StatusOK)
	}
}

func (h *Slack) Interaction(c *gin.Context) {
	payload := []byte(c.PostForm("payload"))

	var cb slack.InteractionCallback
	if err := json.Unmarshal(payload, &cb); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	switch cb.Type {
	case slack.InteractionTypeBlockActions:
		h.handleBlockActions(c, cb)
	case slack.InteractionTypeViewSubmission:
		h.handleViewSubmission(c, cb, workflowEditID(payload))
	case slack.InteractionTypeWorkflowStepEdit:
		h.handleWorkflowEdit(c, cb)
	default:
		c.Status(http.StatusOK)
	}
}

// Block actions are acknowledged right away; the mutation continues after the
// response so the click never times out in the client.
func (h *Slack) handleBlockActions(c *gin.Context, cb slack.InteractionCallback) {
	c.Status(http.StatusOK)

	for _, action := range cb.ActionCallback.BlockActions {
		actionID := action.ActionID
		switch {
		case strings.HasPrefix(actionID, "vote:"):
			pollID, optionID, ok := parseVoteAction(actionID)
			if !ok {
				continue
			}
			go func() {
				err := h.svc.ToggleVote(context.Background(), pollID, optionID, cb.User.ID)
				if err != nil {
					log.Printf("slack: vote on poll %d option %d: %v", pollID, optionID, err)
				}
			}()

		case strings.HasPrefix(actionID, "addOption:"):
			pollID, err := strconv.ParseUint(strings.TrimPrefix(actionID, "addOption:"), 10, 64)
			if err != nil {
				continue
			}
			go h.openAddOptionModal(pollID, cb.TriggerID)

		case actionID == "modalAddOption":
			var md render.ModalMetadata
			if err := json.Unmarshal([]byte(cb.View.PrivateMetadata), &md); err != nil {
				continue
			}
			viewID := cb.View.ID
			go func() {
				view := render.CreatePollModal(md.Channel, "", md.OptionCount+1)
				if err := h.client.UpdateView(context.Background(), view, viewID); err != nil {
					log.Printf("slack: grow create modal: %v", err)
				}
			}()

		case actionID == "dinoFact":
			channel, user := cb.Channel.ID, cb.User.ID
			go func() {
				text := ":sauropod: Here's a dinosaur fact:\n\n>>> " + facts.Random()
				if err := h.client.PostEphemeralText(context.Background(), channel, user, text); err != nil {
					log.Printf("slack: post fact: %v", err)
				}
			}()
		}
	}
}

func (h *Slack) openAddOptionModal(pollID uint64, triggerID string) {
	ctx := context.Background()
	p, err := h.store.GetPoll(ctx, pollID)
	if err != nil || !p.Open || !p.OthersCanAdd {
		return
	}
	if err := h.client.OpenView(ctx, triggerID, render.AddOptionModal(p)); err != nil {
		log.Printf("slack: open add-option modal: %v", err)
	}
}

func (h *Slack) handleViewSubmission(c *gin.Context, cb slack.InteractionCallback, editID string) {
	if editID != "" {
		h.handleWorkflowSave(c, cb, editID)
		return
	}

	switch cb.View.CallbackID {
	case "create":
		h.handleCreateSubmission(c, cb)
	case "addOption":
		h.handleAddOptionSubmission(c, cb)
	default:
		c.Status(http.StatusOK)
	}
}

func (h *Slack) handleCreateSubmission(c *gin.Context, cb slack.InteractionCallback) {
	var md render.ModalMetadata
	if err := json.Unmarshal([]byte(cb.View.PrivateMetadata), &md); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	anonymous, multipleVotes, othersCanAdd := selectedFlags(cb.View)
	title := stateValue(cb.View, "title", "title")
	opts := optionValues(cb.View)

	if len(opts) < 2 && !othersCanAdd {
		respondErrors(c, gin.H{"option1": minOptionsError})
		return
	}
	if !poll.CheckInput(title) {
		respondErrors(c, gin.H{"title": pingError})
		return
	}
	for _, opt := range opts {
		if !poll.CheckInput(opt.Value) {
			respondErrors(c, gin.H{opt.Block: pingError})
			return
		}
	}
	if h.guard != nil && !h.guard.AllowCreate(c.Request.Context(), cb.User.ID) {
		respondErrors(c, gin.H{"title": "You're creating polls too quickly. Give it a few seconds."})
		return
	}

	c.Status(http.StatusOK)

	p := &types.Poll{
		CreatedBy:     cb.User.ID,
		Title:         title,
		Channel:       md.Channel,
		Anonymous:     anonymous,
		MultipleVotes: multipleVotes,
		OthersCanAdd:  othersCanAdd,
		Open:          true,
	}
	for _, opt := range opts {
		p.Options = append(p.Options, types.PollOption{Name: opt.Value})
	}

	go func() {
		if _, err := h.svc.Create(context.Background(), p); err != nil {
			log.Printf("slack: create poll: %v", err)
		}
	}()
}

func (h *Slack) handleAddOptionSubmission(c *gin.Context, cb slack.InteractionCallback) {
	var md render.AddOptionMetadata
	if err := json.Unmarshal([]byte(cb.View.PrivateMetadata), &md); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	name := stateValue(cb.View, "option", "option")
	if !poll.CheckInput(name) {
		respondErrors(c, gin.H{"option": pingError})
		return
	}

	c.Status(http.StatusOK)

	user := cb.User.ID
	go func() {
		err := h.svc.AddOption(context.Background(), md.Poll, name, user)
		if err != nil {
			// Closed or locked-down polls are a silent no-op, like a stale
			// button click.
			log.Printf("slack: add option to poll %d: %v", md.Poll, err)
		}
	}()
}

func respondErrors(c *gin.Context, errs gin.H) {
	c.JSON(http.StatusOK, gin.H{
		"response_action": "errors",
		"errors":          errs,
	})
}

func parseVoteAction(actionID string) (pollID, optionID uint64, ok bool) {
	parts := strings.Split(actionID, ":")
	if len(parts) != 3 {
		return 0, 0, false
	}
	pollID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	optionID, err = strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return pollID, optionID, true
}
