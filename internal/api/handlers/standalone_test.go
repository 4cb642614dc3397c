package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/truth-dare-game/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type standaloneSubmitResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

type standaloneStatusResponse struct {
	Success         bool    `json:"success"`
	UserName        string  `json:"user_name"`
	QuestionType    string  `json:"question_type"`
	CurrentQuestion *string `json:"current_question"`
	QuestionSource  *string `json:"question_source"`
	Status          string  `json:"status"`
	IsActive        bool    `json:"is_active"`
}

func submitStandalone(t *testing.T, ts *testutil.TestServer, userName, questionType, sessionID string) standaloneSubmitResponse {
	t.Helper()
	var resp standaloneSubmitResponse
	r := testutil.PostJSON(t, ts.APIURL("/standalone/requests"), map[string]string{
		"user_name":     userName,
		"question_type": questionType,
		"session_id":    sessionID,
	}, &resp)
	require.Equal(t, http.StatusOK, r.StatusCode)
	return resp
}

func TestStandaloneHandler_Submit(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("creates a pending request", func(t *testing.T) {
		resp := submitStandalone(t, ts, "guest", "truth", "")
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.SessionID)
		assert.Equal(t, "PENDING", resp.Status)
	})

	t.Run("keeps a caller-supplied session id", func(t *testing.T) {
		resp := submitStandalone(t, ts, "guest", "dare", "my-session")
		assert.Equal(t, "my-session", resp.SessionID)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		r := testutil.PostJSON(t, ts.APIURL("/standalone/requests"),
			map[string]string{"user_name": " ", "question_type": "truth"}, nil)
		defer r.Body.Close()
		assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	})

	t.Run("rejects bad question type", func(t *testing.T) {
		r := testutil.PostJSON(t, ts.APIURL("/standalone/requests"),
			map[string]string{"user_name": "guest", "question_type": "riddle"}, nil)
		defer r.Body.Close()
		assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	})
}

func TestStandaloneHandler_Status(t *testing.T) {
	ts := testutil.NewTestServer(t)

	submitted := submitStandalone(t, ts, "guest", "truth", "")

	t.Run("pending session", func(t *testing.T) {
		var status standaloneStatusResponse
		resp, err := http.Get(ts.APIURL("/standalone/requests/" + submitted.SessionID))
		require.NoError(t, err)
		testutil.AssertJSONResponse(t, resp, &status)
		resp.Body.Close()

		assert.Equal(t, "guest", status.UserName)
		assert.Equal(t, "truth", status.QuestionType)
		assert.Equal(t, "PENDING", status.Status)
		assert.Nil(t, status.CurrentQuestion)
		assert.True(t, status.IsActive)
	})

	t.Run("unknown session", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/standalone/requests/does-not-exist"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
