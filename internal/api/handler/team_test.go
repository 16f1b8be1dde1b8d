package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squadup/squadup/internal/api/handler"
)

func formTeamBody(t *testing.T, captain string, members ...string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"captain": captain,
		"members": members,
	})
	require.NoError(t, err)
	return body
}

// ===== POST /teams =====

func TestTeamCreate_Success(t *testing.T) {
	t.Parallel()

	r, reg, _ := newFixture(t, 6, "P1", "P2", "P3", "P4", "P5", "P6")
	h := handler.NewTeamHandler(r, reg)

	req, w := makeChiRequest(http.MethodPost, "/teams", formTeamBody(t, "P1", "P2", "P3", "P4", "P5", "P6"), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["index"])
	assert.Equal(t, "P1", data["captain"])

	members := data["members"].([]interface{})
	require.Len(t, members, 6)
	first := members[0].(map[string]interface{})
	assert.Equal(t, "P1", first["id"])
	assert.Equal(t, "captain", first["role"])
	assert.Equal(t, "武当", first["class"])
	second := members[1].(map[string]interface{})
	assert.Equal(t, "member", second["role"])
}

func TestTeamCreate_SizeError(t *testing.T) {
	t.Parallel()

	r, reg, _ := newFixture(t, 6, "P1", "P2")
	h := handler.NewTeamHandler(r, reg)

	req, w := makeChiRequest(http.MethodPost, "/teams", formTeamBody(t, "P1", "P2"), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "TEAM_SIZE", errorCode(t, w))
}

func TestTeamCreate_UnknownPlayer(t *testing.T) {
	t.Parallel()

	r, reg, _ := newFixture(t, 6, "P1", "P2", "P3", "P4", "P5")
	h := handler.NewTeamHandler(r, reg)

	req, w := makeChiRequest(http.MethodPost, "/teams", formTeamBody(t, "P1", "P2", "P3", "P4", "P5", "P7"), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "UNKNOWN_PLAYER", errorCode(t, w))
}

func TestTeamCreate_AlreadyAssigned(t *testing.T) {
	t.Parallel()

	r, reg, _ := newFixture(t, 0, "P1", "P2", "P3")
	_, err := reg.FormTeam(context.Background(), "P1", []string{"P2"})
	require.NoError(t, err)

	h := handler.NewTeamHandler(r, reg)

	req, w := makeChiRequest(http.MethodPost, "/teams", formTeamBody(t, "P1", "P3"), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	env := parseEnvelope(t, w)
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, "ALREADY_ASSIGNED", errObj["code"])
	details := errObj["details"].([]interface{})
	assert.Equal(t, []interface{}{"P1"}, details)
}

func TestTeamCreate_MissingCaptain(t *testing.T) {
	t.Parallel()

	r, reg, _ := newFixture(t, 0, "P1")
	h := handler.NewTeamHandler(r, reg)

	body, _ := json.Marshal(map[string]interface{}{"members": []string{"P1"}})
	req, w := makeChiRequest(http.MethodPost, "/teams", body, nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestTeamCreate_PersistFailure(t *testing.T) {
	t.Parallel()

	r, reg, fp := newFixture(t, 0, "P1", "P2")
	fp.failSave = assert.AnError
	h := handler.NewTeamHandler(r, reg)

	req, w := makeChiRequest(http.MethodPost, "/teams", formTeamBody(t, "P1", "P2"), nil)
	h.Create(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "PERSIST_FAILED", errorCode(t, w))
	assert.Empty(t, reg.Teams())
}

// ===== GET /teams =====

func TestTeamList(t *testing.T) {
	t.Parallel()

	r, reg, _ := newFixture(t, 0, "P1", "P2", "P3", "P4")
	_, err := reg.FormTeam(context.Background(), "P1", []string{"P2"})
	require.NoError(t, err)
	_, err = reg.FormTeam(context.Background(), "P3", []string{"P4"})
	require.NoError(t, err)

	h := handler.NewTeamHandler(r, reg)

	req, w := makeChiRequest(http.MethodGet, "/teams", nil, nil)
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].([]interface{})
	require.Len(t, data, 2)

	second := data[1].(map[string]interface{})
	assert.Equal(t, float64(2), second["index"])
	assert.Equal(t, "P3", second["captain"])
}

func TestTeamList_UnknownMemberClass(t *testing.T) {
	t.Parallel()

	// A member deleted from the roster while on a team renders as unknown
	// instead of failing the whole listing.
	r, reg, _ := newFixture(t, 0, "P1", "P2")
	_, err := reg.FormTeam(context.Background(), "P1", []string{"P2"})
	require.NoError(t, err)
	_, _, err = r.Remove("P2")
	require.NoError(t, err)

	h := handler.NewTeamHandler(r, reg)

	req, w := makeChiRequest(http.MethodGet, "/teams", nil, nil)
	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	env := parseEnvelope(t, w)
	data := env["data"].([]interface{})
	members := data[0].(map[string]interface{})["members"].([]interface{})
	missing := members[1].(map[string]interface{})
	assert.Equal(t, "unknown", missing["class"])
}

// ===== DELETE /teams/{index} =====

func TestTeamDelete_Success(t *testing.T) {
	t.Parallel()

	r, reg, _ := newFixture(t, 0, "P1", "P2")
	_, err := reg.FormTeam(context.Background(), "P1", []string{"P2"})
	require.NoError(t, err)

	h := handler.NewTeamHandler(r, reg)

	req, w := makeChiRequest(http.MethodDelete, "/teams/1", nil, map[string]string{"index": "1"})
	h.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, reg.Teams())
	for _, p := range r.List() {
		assert.False(t, p.Selected)
	}
}

func TestTeamDelete_OutOfRange(t *testing.T) {
	t.Parallel()

	r, reg, _ := newFixture(t, 0, "P1")
	h := handler.NewTeamHandler(r, reg)

	req, w := makeChiRequest(http.MethodDelete, "/teams/3", nil, map[string]string{"index": "3"})
	h.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestTeamDelete_InvalidIndex(t *testing.T) {
	t.Parallel()

	r, reg, _ := newFixture(t, 0, "P1")
	h := handler.NewTeamHandler(r, reg)

	req, w := makeChiRequest(http.MethodDelete, "/teams/abc", nil, map[string]string{"index": "abc"})
	h.Delete(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INDEX", errorCode(t, w))
}
