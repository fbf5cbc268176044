package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/proposal-writer/internal/config"
	"github.com/jonathan/proposal-writer/internal/db"
	"github.com/jonathan/proposal-writer/internal/llm"
	"github.com/jonathan/proposal-writer/internal/server/ratelimit"
	"github.com/jonathan/proposal-writer/internal/types"
)

// fakeStore is an in-memory Store with the same not-found conventions as db.DB.
type fakeStore struct {
	mu        sync.Mutex
	clock     time.Time
	users     map[uuid.UUID]*db.User
	profiles  map[uuid.UUID]*types.Profile
	proposals map[uuid.UUID]*types.Proposal
	pingErr   error
	err       error // returned by every data call when set

	// beforeStatusUpdate runs inside UpdateProposalStatus ahead of the
	// status comparison, standing in for a concurrent writer.
	beforeStatusUpdate func(p *types.Proposal)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clock:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:     make(map[uuid.UUID]*db.User),
		profiles:  make(map[uuid.UUID]*types.Profile),
		proposals: make(map[uuid.UUID]*types.Proposal),
	}
}

// tick advances the fake clock so rows have distinct, ordered timestamps.
func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) CreateUser(_ context.Context, fullName, email, passwordHash string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return uuid.Nil, f.err
	}
	now := f.tick()
	u := &db.User{
		ID:           uuid.New(),
		FullName:     fullName,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.users[u.ID] = u
	return u.ID, nil
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := f.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (f *fakeStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user not found: %s", id)
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = f.tick()
	return nil
}

func (f *fakeStore) GetProfileByUserID(_ context.Context, userID uuid.UUID) (*types.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) CreateProfile(_ context.Context, p *types.Profile) (*types.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, exists := f.profiles[p.UserID]; exists {
		return nil, fmt.Errorf("duplicate key value violates unique constraint")
	}
	cp := *p
	cp.ID = uuid.New()
	cp.CreatedAt = f.tick()
	cp.UpdatedAt = cp.CreatedAt
	f.profiles[p.UserID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, p *types.Profile) (*types.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	current, ok := f.profiles[p.UserID]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.ID = current.ID
	cp.CreatedAt = current.CreatedAt
	cp.UpdatedAt = f.tick()
	f.profiles[p.UserID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) DeleteProfile(_ context.Context, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.profiles[userID]
	delete(f.profiles, userID)
	return ok, nil
}

func (f *fakeStore) CreateProposal(_ context.Context, p *types.Proposal) (*types.Proposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cp := *p
	cp.ID = uuid.New()
	cp.CreatedAt = f.tick()
	cp.UpdatedAt = cp.CreatedAt
	if cp.Currency == "" {
		cp.Currency = "USD"
	}
	if cp.Platform == "" {
		cp.Platform = types.PlatformCustom
	}
	if cp.Status == "" {
		cp.Status = types.StatusDraft
	}
	f.proposals[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) owned(id, userID uuid.UUID) *types.Proposal {
	p, ok := f.proposals[id]
	if !ok || p.UserID != userID {
		return nil
	}
	return p
}

func (f *fakeStore) GetProposal(_ context.Context, id, userID uuid.UUID) (*types.Proposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p := f.owned(id, userID)
	if p == nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ListProposals(_ context.Context, userID uuid.UUID, filters db.ProposalFilters) ([]types.ProposalSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []types.ProposalSummary{}
	for _, p := range f.proposals {
		if p.UserID != userID {
			continue
		}
		if filters.Status != "" && string(p.Status) != filters.Status {
			continue
		}
		if filters.Platform != "" && string(p.Platform) != filters.Platform {
			continue
		}
		out = append(out, types.ProposalSummary{
			ID:              p.ID,
			Title:           p.Title,
			JobTitle:        p.JobTitle,
			Status:          p.Status,
			BidPrice:        p.BidPrice,
			Currency:        p.Currency,
			Platform:        p.Platform,
			CreatedAt:       p.CreatedAt,
			SubmittedAt:     p.SubmittedAt,
			ResponseAt:      p.ResponseAt,
			AIGenerated:     p.AIGenerated,
			ConfidenceScore: p.ConfidenceScore,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateProposalContent(_ context.Context, id, userID uuid.UUID, content string, coverLetter *string) (*types.Proposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p := f.owned(id, userID)
	if p == nil {
		return nil, nil
	}
	p.ProposalContent = content
	p.CoverLetter = coverLetter
	p.UpdatedAt = f.tick()
	cp := *p
	return &cp, nil
}

func (f *fakeStore) UpdateProposalStatus(_ context.Context, id, userID uuid.UUID, from, to types.ProposalStatus) (*types.Proposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p := f.owned(id, userID)
	if p == nil {
		return nil, nil
	}
	if f.beforeStatusUpdate != nil {
		f.beforeStatusUpdate(p)
	}
	if p.Status != from {
		return nil, nil
	}
	now := f.tick()
	p.Status = to
	p.UpdatedAt = now
	switch to {
	case types.StatusSubmitted:
		p.SubmittedAt = &now
	case types.StatusAccepted, types.StatusRejected:
		p.ResponseAt = &now
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) DeleteProposal(_ context.Context, id, userID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.owned(id, userID) == nil {
		return false, nil
	}
	delete(f.proposals, id)
	return true, nil
}

// stubLLM records prompts and answers with a canned response or error.
type stubLLM struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (c *stubLLM) Complete(_ context.Context, prompt string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func (c *stubLLM) Model() string { return "gpt-3.5-turbo" }

func (c *stubLLM) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.prompts)
}

func (c *stubLLM) lastPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.prompts) == 0 {
		return ""
	}
	return c.prompts[len(c.prompts)-1]
}

// stubImporter returns a fixed job or error.
type stubImporter struct {
	job *types.ImportedJob
	err error
	url string
}

func (i *stubImporter) Import(_ context.Context, url string) (*types.ImportedJob, error) {
	i.url = url
	if i.err != nil {
		return nil, i.err
	}
	return i.job, nil
}

type testEnv struct {
	t        *testing.T
	server   *Server
	store    *fakeStore
	llm      *stubLLM
	importer *stubImporter
	llmCfg   *llm.Config
}

func testConfig() Config {
	return Config{
		Port:      0,
		JWT:       &config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1},
		Password:  &config.PasswordConfig{BcryptCost: 4},
		LLM:       &llm.Config{Provider: llm.ProviderOpenAI, APIKey: "sk-test", Model: "gpt-3.5-turbo"},
		RateLimit: &ratelimit.Config{Enabled: false},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, testConfig())
}

func newTestEnvWithConfig(t *testing.T, cfg Config) *testEnv {
	t.Helper()
	env := &testEnv{
		t:        t,
		store:    newFakeStore(),
		llm:      &stubLLM{response: "PROPOSAL_START\nHello there.\nPROPOSAL_END"},
		importer: &stubImporter{},
		llmCfg:   cfg.LLM,
	}
	s, err := New(cfg, Deps{Store: env.store, LLM: env.llm, Importer: env.importer})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	env.server = s
	return env
}

// do sends a request through the full middleware stack. body may be a
// string (sent verbatim) or any value (JSON-encoded).
func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

// signUp creates an account and returns its token and ID.
func (e *testEnv) signUp(email string) (string, uuid.UUID) {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"fullName":        "Test User",
		"email":           email,
		"password":        "secret123",
		"confirmPassword": "secret123",
	}, "")
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.AuthResponse
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token, resp.User.ID
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]any](t, w)["error"].(string)
}
