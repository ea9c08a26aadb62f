package webserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiRequest(path, token string, body any) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeAPIResponse(t *testing.T, body []byte) (ok bool, errMsg string) {
	t.Helper()
	var resp struct {
		OK  bool   `json:"ok"`
		Err string `json:"err"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.OK, resp.Err
}

func TestAPICreateRequiresToken(t *testing.T) {
	env := newTestEnv()

	w := env.do(apiRequest("/create", "", map[string]any{
		"title": "Lunch?", "options": []string{"a", "b"}, "channel": "C1",
	}))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	ok, errMsg := decodeAPIResponse(t, w.Body.Bytes())
	assert.False(t, ok)
	assert.Equal(t, "no token provided", errMsg)
	assert.Nil(t, env.store.createdPoll())
}

func TestAPICreateRejectsUnknownToken(t *testing.T) {
	env := newTestEnv()

	w := env.do(apiRequest("/create", "nope", map[string]any{
		"title": "Lunch?", "options": []string{"a", "b"}, "channel": "C1",
	}))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	ok, errMsg := decodeAPIResponse(t, w.Body.Bytes())
	assert.False(t, ok)
	assert.Equal(t, "invalid token", errMsg)
}

func TestAPICreate(t *testing.T) {
	env := newTestEnv()
	env.store.tokens["tok1"] = "U_API"

	w := env.do(apiRequest("/create", "tok1", map[string]any{
		"title":         "<b>Lunch?</b>",
		"options":       []string{"yes", "no"},
		"channel":       "C1",
		"multipleVotes": true,
	}))
	require.Equal(t, http.StatusOK, w.Code)

	ok, _ := decodeAPIResponse(t, w.Body.Bytes())
	assert.True(t, ok)

	created := env.store.createdPoll()
	require.NotNil(t, created)
	assert.Equal(t, "Lunch?", created.Title, "markup is stripped")
	assert.Equal(t, "U_API", created.CreatedBy)
	assert.True(t, created.MultipleVotes)
	assert.Equal(t, 1, env.messenger.posts)
	assert.Equal(t, "1700000000.000100", env.store.poll.Timestamp)
}

func TestAPIToggle(t *testing.T) {
	env := newTestEnv()
	env.store.tokens["tok1"] = "U_API"
	env.store.poll = openTestPoll()

	// no ownership check on this path: the token user is not the creator
	w := env.do(apiRequest("/toggle/1", "tok1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	ok, _ := decodeAPIResponse(t, w.Body.Bytes())
	assert.True(t, ok)
	assert.False(t, env.store.poll.Open)
	assert.Equal(t, 1, env.messenger.updates)

	w = env.do(apiRequest("/toggle/1", "tok1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.store.poll.Open, "second toggle reopens")
	assert.Equal(t, 2, env.messenger.updates)
}

func TestAPIToggleUnknownPoll(t *testing.T) {
	env := newTestEnv()
	env.store.tokens["tok1"] = "U_API"

	w := env.do(apiRequest("/toggle/99", "tok1", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	ok, errMsg := decodeAPIResponse(t, w.Body.Bytes())
	assert.False(t, ok)
	assert.Equal(t, "poll not found", errMsg)
}
