package webserver

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/dinopoll/dinopoll/src/chat"
	"github.com/dinopoll/dinopoll/src/config"
	"github.com/dinopoll/dinopoll/src/poll"
	"github.com/dinopoll/dinopoll/src/types"
	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
)

const testSigningSecret = "test-signing-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStore struct {
	mu          sync.Mutex
	poll        *types.Poll
	created     *types.Poll
	tokens      map[string]string // token -> user
	toggleCalls int
}

func (s *stubStore) GetPoll(ctx context.Context, id uint64) (*types.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poll == nil || s.poll.ID != id {
		return nil, poll.ErrNotFound
	}
	cp := *s.poll
	return &cp, nil
}

func (s *stubStore) CreatePoll(ctx context.Context, p *types.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = 1
	for i := range p.Options {
		p.Options[i].ID = uint64(i + 1)
	}
	s.created = p
	s.poll = p
	return nil
}

func (s *stubStore) SetTimestamp(ctx context.Context, id uint64, ts string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poll.Timestamp = ts
	return nil
}

func (s *stubStore) SetOpen(ctx context.Context, id uint64, open bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poll.Open = open
	return nil
}

func (s *stubStore) AddOption(ctx context.Context, o *types.PollOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.poll.Options = append(s.poll.Options, *o)
	return nil
}

func (s *stubStore) ToggleVote(ctx context.Context, pollID, optionID uint64, multipleVotes bool, user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggleCalls++
	return nil
}

func (s *stubStore) FindToken(ctx context.Context, token string) (*types.Token, error) {
	if user, ok := s.tokens[token]; ok {
		return &types.Token{User: user, Token: token}, nil
	}
	return nil, poll.ErrNotFound
}

func (s *stubStore) createdPoll() *types.Poll {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

func (s *stubStore) votes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toggleCalls
}

type stubMessenger struct {
	mu      sync.Mutex
	posts   int
	updates int
}

func (m *stubMessenger) PostMessage(ctx context.Context, channel string, blocks []slack.Block, fallback string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts++
	return "1700000000.000100", nil
}

func (m *stubMessenger) UpdateMessage(ctx context.Context, channel, ts string, blocks []slack.Block, fallback string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	return nil
}

func (m *stubMessenger) PostEphemeral(ctx context.Context, channel, user string, blocks []slack.Block, fallback string) error {
	return nil
}

type savedWorkflowStep struct {
	name   string
	inputs chat.WorkflowStepInputs
}

type stubSlackClient struct {
	mu            sync.Mutex
	openedViews   []slack.ModalViewRequest
	updatedViews  []slack.ModalViewRequest
	ephemerals    []string
	workflowViews int
	savedSteps    []savedWorkflowStep
	completed     []string
	failed        []string
}

func (c *stubSlackClient) OpenView(ctx context.Context, triggerID string, view slack.ModalViewRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openedViews = append(c.openedViews, view)
	return nil
}

func (c *stubSlackClient) UpdateView(ctx context.Context, view slack.ModalViewRequest, viewID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updatedViews = append(c.updatedViews, view)
	return nil
}

func (c *stubSlackClient) PostEphemeralText(ctx context.Context, channel, user, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ephemerals = append(c.ephemerals, text)
	return nil
}

func (c *stubSlackClient) OpenWorkflowStepView(ctx context.Context, triggerID string, blocks []slack.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.workflowViews++
	return nil
}

func (c *stubSlackClient) SaveWorkflowStepConfiguration(ctx context.Context, editID, stepName string, inputs chat.WorkflowStepInputs) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.savedSteps = append(c.savedSteps, savedWorkflowStep{name: stepName, inputs: inputs})
	return nil
}

func (c *stubSlackClient) WorkflowStepCompleted(ctx context.Context, executeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.completed = append(c.completed, executeID)
	return nil
}

func (c *stubSlackClient) WorkflowStepFailed(ctx context.Context, executeID, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed = append(c.failed, message)
	return nil
}

type testEnv struct {
	router    *gin.Engine
	store     *stubStore
	messenger *stubMessenger
	slack     *stubSlackClient
}

func newTestEnv() *testEnv {
	store := &stubStore{tokens: map[string]string{}}
	messenger := &stubMessenger{}
	sc := &stubSlackClient{}
	svc := poll.NewService(store, messenger, nil)

	cfg := config.Config{SlackSigningSecret: testSigningSecret}
	router := New(cfg, Deps{Service: svc, Store: store, Slack: sc, Guard: nil})

	return &testEnv{router: router, store: store, messenger: messenger, slack: sc}
}

// signedRequest builds a Slack-signed POST the verification middleware will
// accept.
func signedRequest(t *testing.T, path, contentType string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(testSigningSecret))
	mac.Write([]byte("v0:" + ts + ":" + string(body)))
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func openTestPoll() *types.Poll {
	return &types.Poll{
		ID:        1,
		CreatedBy: "U_CREATOR",
		Title:     "Who is the best dino?",
		Channel:   "C1",
		Open:      true,
		Timestamp: "1700000000.000100",
		Options: []types.PollOption{
			{ID: 1, PollID: 1, Name: "Orpheus"},
			{ID: 2, PollID: 1, Name: "Steggy"},
		},
	}
}
