package mux

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chipstack-server/internal/config"
	"chipstack-server/internal/jwt"
	"chipstack-server/internal/util"
	"chipstack-server/pkg/playable/poker/texasholdem"
	"chipstack-server/pkg/room"
	"chipstack-server/pkg/table"
	"github.com/stretchr/testify/assert"
)

var cbg = context.Background()

// stateResponse is the part of texasholdem.ParticipantState the tests look at
type stateResponse struct {
	Seat           int  `json:"seat"`
	ToCall         int  `json:"toCall"`
	CanMarkWinners bool `json:"canMarkWinners"`
	CanApprove     bool `json:"canApprove"`
	GameState      struct {
		Players []*texasholdem.Player `json:"players"`
		Hand    *texasholdem.Hand     `json:"hand"`
	} `json:"gameState"`
}

func setupJWT(t *testing.T) {
	t.Helper()

	unset1 := util.SetEnv("CHIPSTACK_JWT_PUBLIC_KEY", filepath.Join("..", "jwt", "testdata", "public.pem"))
	defer unset1()
	unset2 := util.SetEnv("CHIPSTACK_JWT_PRIVATE_KEY", filepath.Join("..", "jwt", "testdata", "private.key"))
	defer unset2()

	if !assert.NoError(t, config.Load()) || !assert.NoError(t, jwt.LoadKeys()) {
		t.FailNow()
	}
}

func token(t *testing.T, playerID int64) string {
	t.Helper()

	signed, err := jwt.Sign(playerID, time.Hour)
	assert.NoError(t, err)
	return signed
}

// setupServer starts a server backed by the memory store
// The auto-approval delay is short so tests can wait on it, the approval timeout never fires
func setupServer(t *testing.T) (*httptest.Server, *table.MemoryStore) {
	t.Helper()
	setupJWT(t)

	store := table.NewMemoryStore()
	pitBoss := room.NewPitBoss(store, texasholdem.Timing{
		AutoApproval:    time.Millisecond * 10,
		ApprovalTimeout: time.Hour,
	})

	ts := httptest.NewServer(NewMux("v1.2.3", store, pitBoss))
	t.Cleanup(func() {
		ts.Close()
		pitBoss.EndShift()
	})

	return ts, store
}

// createTable seats players 1, 2, and 3 in the matching seats
func createTable(t *testing.T, ts *httptest.Server) string {
	t.Helper()

	var resp tableResponse
	assertPost(t, ts, "/table", postTablePayload{
		Name: "Friday Night",
		Seats: []table.Seat{
			{PlayerID: 1, SeatPosition: 1},
			{PlayerID: 2, SeatPosition: 2},
			{PlayerID: 3, SeatPosition: 3},
		},
		InitialChips: 100,
	}, &resp, http.StatusCreated, token(t, 1))

	if resp.Table == nil {
		t.FailNow()
	}

	return resp.UUID
}

func assertDo(t *testing.T, req *http.Request, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	if len(signedJWT) > 0 {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", signedJWT[0]))
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Error(err)
		return nil
	}
	defer resp.Body.Close()

	if statusCode != resp.StatusCode {
		b, _ := io.ReadAll(resp.Body)
		t.Log(string(b))
		assert.Equal(t, statusCode, resp.StatusCode)
		return nil
	}

	if respObj != nil {
		if err := json.NewDecoder(resp.Body).Decode(respObj); err != nil {
			t.Error(err)
			return nil
		}
	}

	return resp
}

func assertGetWithResp(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Error(err)
		return nil
	}

	return assertDo(t, req, respObj, statusCode, signedJWT...)
}

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int, signedJWT ...string) {
	t.Helper()
	assertGetWithResp(t, ts, path, respObj, statusCode, signedJWT...)
}

func assertPostWithResp(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) *http.Response {
	t.Helper()

	var body io.Reader
	switch val := payload.(type) {
	case string:
		body = strings.NewReader(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			t.Error(err)
			return nil
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+path, body)
	if err != nil {
		t.Error(err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	return assertDo(t, req, respObj, statusCode, signedJWT...)
}

func assertPost(t *testing.T, ts *httptest.Server, path string, payload interface{}, respObj interface{}, statusCode int, signedJWT ...string) {
	t.Helper()
	assertPostWithResp(t, ts, path, payload, respObj, statusCode, signedJWT...)
}
