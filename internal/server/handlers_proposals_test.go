package server

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-writer/internal/types"
)

type listResponse struct {
	Proposals []types.ProposalSummary `json:"proposals"`
	Total     int                     `json:"total"`
}

func createProposal(t *testing.T, env *testEnv, token string, overrides map[string]any) *types.Proposal {
	t.Helper()
	body := map[string]any{
		"title":           "Backend API for marketplace",
		"jobTitle":        "Go developer needed",
		"jobDescription":  "Build a REST API in Go.",
		"proposalContent": "I can build this.",
		"platform":        "upwork",
	}
	for k, v := range overrides {
		body[k] = v
	}
	w := env.do(http.MethodPost, "/api/proposals/create", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decodeBody[map[string]*types.Proposal](t, w)["proposal"]
	require.NotNil(t, p)
	return p
}

func TestProposals_Create(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.signUp("p@example.com")

	p := createProposal(t, env, token, map[string]any{
		"bidPrice":        500.0,
		"coverLetter":     "",
		"aiGenerated":     true,
		"aiModel":         "gpt-3.5-turbo",
		"confidenceScore": 85,
	})

	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, types.StatusDraft, p.Status)
	assert.Equal(t, types.PlatformUpwork, p.Platform)
	assert.Equal(t, "USD", p.Currency)
	assert.Nil(t, p.CoverLetter, "blank strings are stored as null")
	require.NotNil(t, p.BidPrice)
	assert.InDelta(t, 500.0, *p.BidPrice, 0.001)
	require.NotNil(t, p.AIModel)
	assert.Equal(t, "gpt-3.5-turbo", *p.AIModel)
	assert.True(t, p.AIGenerated)
	assert.Nil(t, p.SubmittedAt)
}

func TestProposals_CreateUnknownPlatformIsCustom(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp("p@example.com")

	p := createProposal(t, env, token, map[string]any{"platform": "freelancer.com"})
	assert.Equal(t, types.PlatformCustom, p.Platform)
}

func TestProposals_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp("p@example.com")

	w := env.do(http.MethodPost, "/api/proposals/create", map[string]any{
		"jobTitle":        "x",
		"jobDescription":  "y",
		"proposalContent": "z",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "title is required", errorMessage(t, w))

	w = env.do(http.MethodPost, "/api/proposals/create", map[string]any{
		"title": "t", "jobTitle": "x", "jobDescription": "y", "proposalContent": "z",
		"bidPrice": -1,
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bidPrice must be at least 0", errorMessage(t, w))
	assert.Empty(t, env.store.proposals)
}

func TestProposals_ListNewestFirstWithFilters(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp("p@example.com")

	first := createProposal(t, env, token, map[string]any{"title": "first", "platform": "UPWORK"})
	second := createProposal(t, env, token, map[string]any{"title": "second", "platform": "FIVERR"})
	third := createProposal(t, env, token, map[string]any{"title": "third", "platform": "UPWORK"})

	w := env.do(http.MethodPost, "/api/proposals/"+second.ID.String()+"/submit", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/proposals", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	all := decodeBody[listResponse](t, w)
	assert.Equal(t, 3, all.Total)
	require.Len(t, all.Proposals, 3)
	assert.Equal(t, third.ID, all.Proposals[0].ID)
	assert.Equal(t, first.ID, all.Proposals[2].ID)

	w = env.do(http.MethodGet, "/api/proposals?platform=upwork", nil, token)
	byPlatform := decodeBody[listResponse](t, w)
	assert.Equal(t, 2, byPlatform.Total)

	w = env.do(http.MethodGet, "/api/proposals?status=SUBMITTED&platform=ALL", nil, token)
	byStatus := decodeBody[listResponse](t, w)
	require.Equal(t, 1, byStatus.Total)
	assert.Equal(t, second.ID, byStatus.Proposals[0].ID)

	w = env.do(http.MethodGet, "/api/proposals?status=all", nil, token)
	assert.Equal(t, 3, decodeBody[listResponse](t, w).Total)
}

func TestProposals_ListRejectsUnknownFilters(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp("p@example.com")

	w := env.do(http.MethodGet, "/api/proposals?status=PENDING", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status filter: PENDING", errorMessage(t, w))

	w = env.do(http.MethodGet, "/api/proposals?platform=toptal", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid platform filter: TOPTAL", errorMessage(t, w))
}

func TestProposals_ListEmpty(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp("p@example.com")

	w := env.do(http.MethodGet, "/api/proposals", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"proposals":[],"total":0}`, w.Body.String())
}

func TestProposals_GetUpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp("p@example.com")
	p := createProposal(t, env, token, nil)
	path := "/api/proposals/" + p.ID.String()

	w := env.do(http.MethodGet, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, p.ID, decodeBody[map[string]*types.Proposal](t, w)["proposal"].ID)

	w = env.do(http.MethodPut, path, map[string]any{
		"proposalContent": "Revised pitch.",
		"coverLetter":     "Dear client,",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody[map[string]*types.Proposal](t, w)["proposal"]
	assert.Equal(t, "Revised pitch.", updated.ProposalContent)
	require.NotNil(t, updated.CoverLetter)
	assert.Equal(t, "Dear client,", *updated.CoverLetter)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	w = env.do(http.MethodPut, path, map[string]any{"coverLetter": "only"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "proposalContent is required", errorMessage(t, w))

	w = env.do(http.MethodDelete, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Proposal deleted successfully", decodeBody[map[string]string](t, w)["message"])

	w = env.do(http.MethodGet, path, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Proposal not found", errorMessage(t, w))

	w = env.do(http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProposals_MalformedIDIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp("p@example.com")

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := env.do(method, "/api/proposals/not-a-uuid", nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}
	w := env.do(http.MethodPut, "/api/proposals/not-a-uuid", map[string]any{"proposalContent": "x"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProposals_OwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.signUp("alice@example.com")
	bob, _ := env.signUp("bob@example.com")

	p := createProposal(t, env, alice, nil)
	path := "/api/proposals/" + p.ID.String()

	requests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, path, nil},
		{http.MethodPut, path, map[string]any{"proposalContent": "hijacked"}},
		{http.MethodPost, path + "/submit", nil},
		{http.MethodPut, path + "/status", map[string]any{"status": "ARCHIVED"}},
		{http.MethodDelete, path, nil},
	}
	for _, req := range requests {
		w := env.do(req.method, req.path, req.body, bob)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", req.method, req.path)
		assert.Equal(t, "Proposal not found", errorMessage(t, w))
	}

	w := env.do(http.MethodGet, "/api/proposals", nil, bob)
	assert.Equal(t, 0, decodeBody[listResponse](t, w).Total)

	stored := env.store.proposals[p.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "I can build this.", stored.ProposalContent)
	assert.Equal(t, types.StatusDraft, stored.Status)
}

func TestProposals_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp("p@example.com")
	p := createProposal(t, env, token, nil)
	path := "/api/proposals/" + p.ID.String()

	w := env.do(http.MethodPut, path+"/status", map[string]any{"status": "ACCEPTED"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Cannot change proposal status from DRAFT to ACCEPTED", errorMessage(t, w))

	w = env.do(http.MethodPost, path+"/submit", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	submitted := decodeBody[map[string]*types.Proposal](t, w)["proposal"]
	assert.Equal(t, types.StatusSubmitted, submitted.Status)
	assert.NotNil(t, submitted.SubmittedAt)

	w = env.do(http.MethodPost, path+"/submit", nil, token)
	assert.Equal(t, http.StatusConflict, w.Code, "submit is not repeatable")

	w = env.do(http.MethodPut, path+"/status", map[string]any{"status": "ACCEPTED"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	accepted := decodeBody[map[string]*types.Proposal](t, w)["proposal"]
	assert.Equal(t, types.StatusAccepted, accepted.Status)
	assert.NotNil(t, accepted.ResponseAt)

	w = env.do(http.MethodPut, path+"/status", map[string]any{"status": "REJECTED"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPut, path+"/status", map[string]any{"status": "ARCHIVED"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.StatusArchived, decodeBody[map[string]*types.Proposal](t, w)["proposal"].Status)

	w = env.do(http.MethodPut, path+"/status", map[string]any{"status": "ARCHIVED"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProposals_ConcurrentStatusChangeConflicts(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp("p@example.com")
	p := createProposal(t, env, token, nil)

	env.store.beforeStatusUpdate = func(stored *types.Proposal) {
		stored.Status = types.StatusArchived
	}

	w := env.do(http.MethodPost, "/api/proposals/"+p.ID.String()+"/submit", nil, token)
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "Cannot change proposal status from DRAFT to SUBMITTED", errorMessage(t, w))

	stored := env.store.proposals[p.ID]
	assert.Equal(t, types.StatusArchived, stored.Status, "the concurrent write is not overwritten")
	assert.Nil(t, stored.SubmittedAt)
}

func TestProposals_StatusValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signUp("p@example.com")
	p := createProposal(t, env, token, nil)

	w := env.do(http.MethodPut, "/api/proposals/"+p.ID.String()+"/status", map[string]any{"status": "WON"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPut, "/api/proposals/"+uuid.NewString()+"/status", map[string]any{"status": "ARCHIVED"}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParseProposalFilters(t *testing.T) {
	tests := []struct {
		query    string
		status   string
		platform string
		wantErr  bool
	}{
		{"", "", "", false},
		{"status=draft", "DRAFT", "", false},
		{"status=ALL&platform=ALL", "", "", false},
		{"platform=%20linkedin%20", "", "LINKEDIN", false},
		{"status=nope", "", "", true},
		{"platform=nope", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r, err := http.NewRequest(http.MethodGet, "/api/proposals?"+tt.query, nil)
			require.NoError(t, err)
			filters, err := parseProposalFilters(r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, filters.Status)
			assert.Equal(t, tt.platform, filters.Platform)
		})
	}
}
