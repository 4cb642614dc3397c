package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/truth-dare-game/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeratorHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("correct password", func(t *testing.T) {
		token := testutil.LoginModerator(t, ts)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		r := testutil.PostJSON(t, ts.APIURL("/moderator/login"),
			map[string]string{"password": "wrong"}, nil)
		defer r.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, r.StatusCode)
	})
}

func TestModeratorRoutes_RequireAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("no token", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/moderator/overview"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/moderator/overview"), nil, "bogus")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestModeratorHandler_InjectRoomQuestion(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.LoginModerator(t, ts)

	created := createRoom(t, ts, "alice")
	joinRoom(t, ts, created.RoomCode, "bob")
	startGame(t, ts, created.RoomCode)

	t.Run("injects into a running game", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
			ts.APIURL("/moderator/rooms/"+created.RoomCode+"/inject"),
			map[string]string{"question_text": "Tell an embarrassing story.", "question_type": "truth"},
			token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)

		var body struct {
			Success  bool `json:"success"`
			Question struct {
				Text   string `json:"text"`
				Source string `json:"source"`
			} `json:"question"`
		}
		testutil.AssertJSONResponse(t, resp, &body)
		resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, body.Success)
		assert.Equal(t, "Tell an embarrassing story.", body.Question.Text)
		assert.Equal(t, "ADMIN", body.Question.Source)
	})

	t.Run("blank text rejected", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
			ts.APIURL("/moderator/rooms/"+created.RoomCode+"/inject"),
			map[string]string{"question_text": "  "}, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown room", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
			ts.APIURL("/moderator/rooms/ZZZZZZ/inject"),
			map[string]string{"question_text": "hello"}, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestModeratorHandler_Standalone(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.LoginModerator(t, ts)

	submitted := submitStandalone(t, ts, "guest", "dare", "")

	t.Run("approve delivers an API prompt", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
			ts.APIURL("/moderator/standalone/"+submitted.SessionID+"/approve"), nil, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var status standaloneStatusResponse
		statusResp, err := http.Get(ts.APIURL("/standalone/requests/" + submitted.SessionID))
		require.NoError(t, err)
		testutil.AssertJSONResponse(t, statusResp, &status)
		statusResp.Body.Close()

		assert.Equal(t, "APPROVED", status.Status)
		require.NotNil(t, status.CurrentQuestion)
		assert.NotEmpty(t, *status.CurrentQuestion)
	})

	t.Run("inject overrides the category", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
			ts.APIURL("/moderator/standalone/"+submitted.SessionID+"/inject"),
			map[string]string{"question_text": "What is your dream job?", "question_type": "truth"},
			token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var status standaloneStatusResponse
		statusResp, err := http.Get(ts.APIURL("/standalone/requests/" + submitted.SessionID))
		require.NoError(t, err)
		testutil.AssertJSONResponse(t, statusResp, &status)
		statusResp.Body.Close()

		assert.Equal(t, "truth", status.QuestionType)
		require.NotNil(t, status.CurrentQuestion)
		assert.Equal(t, "What is your dream job?", *status.CurrentQuestion)
		require.NotNil(t, status.QuestionSource)
		assert.Equal(t, "ADMIN", *status.QuestionSource)
	})

	t.Run("approve unknown session", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
			ts.APIURL("/moderator/standalone/missing/approve"), nil, token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestModeratorHandler_Overview(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token := testutil.LoginModerator(t, ts)

	created := createRoom(t, ts, "alice")
	joinRoom(t, ts, created.RoomCode, "bob")
	startGame(t, ts, created.RoomCode)
	submitStandalone(t, ts, "guest", "truth", "")

	req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/moderator/overview"), nil, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	var overview struct {
		Rooms []struct {
			RoomCode    string `json:"room_code"`
			IsFull      bool   `json:"is_full"`
			GameStarted bool   `json:"game_started"`
			RoundNumber int    `json:"round_number"`
		} `json:"rooms"`
		StandaloneRequests []struct {
			SessionID string `json:"sessionId"`
			Status    string `json:"status"`
		} `json:"standalone_requests"`
	}
	testutil.AssertJSONResponse(t, resp, &overview)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, overview.Rooms, 1)
	assert.Equal(t, created.RoomCode, overview.Rooms[0].RoomCode)
	assert.True(t, overview.Rooms[0].IsFull)
	assert.True(t, overview.Rooms[0].GameStarted)
	assert.Equal(t, 1, overview.Rooms[0].RoundNumber)

	require.Len(t, overview.StandaloneRequests, 1)
	assert.Equal(t, "PENDING", overview.StandaloneRequests[0].Status)
}
