package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel-assistant-api/internal/accounts"
	"hotel-assistant-api/internal/analytics"
	"hotel-assistant-api/internal/audit"
	"hotel-assistant-api/internal/auth"
	"hotel-assistant-api/internal/authz"
	"hotel-assistant-api/internal/cache"
	"hotel-assistant-api/internal/config"
	"hotel-assistant-api/internal/identity"
	"hotel-assistant-api/internal/retry"
	"hotel-assistant-api/internal/vapi"

	"github.com/gin-gonic/gin"
)

type fakeUpstream struct {
	assistants []vapi.Assistant
	calls      map[string][]vapi.Call
	details    map[string]vapi.CallDetail
	phones     []vapi.PhoneNumber
	callsErr   error
}

func (f *fakeUpstream) ListAssistants(ctx context.Context) ([]vapi.Assistant, error) {
	return f.assistants, nil
}

func (f *fakeUpstream) GetAssistant(ctx context.Context, id string) (vapi.Assistant, error) {
	for _, a := range f.assistants {
		if a.ID == id {
			return a, nil
		}
	}
	return vapi.Assistant{}, vapi.ErrNotFound
}

func (f *fakeUpstream) DeleteAssistant(ctx context.Context, id string) error { return nil }

func (f *fakeUpstream) ListCalls(ctx context.Context, assistantID string) ([]vapi.Call, error) {
	if f.callsErr != nil {
		return nil, f.callsErr
	}
	return f.calls[assistantID], nil
}

func (f *fakeUpstream) GetCall(ctx context.Context, id string) (vapi.CallDetail, error) {
	d, ok := f.details[id]
	if !ok {
		return vapi.CallDetail{}, vapi.ErrNotFound
	}
	return d, nil
}

func (f *fakeUpstream) ListPhoneNumbers(ctx context.Context) ([]vapi.PhoneNumber, error) {
	return f.phones, nil
}

func (f *fakeUpstream) CreatePhoneNumber(ctx context.Context, number, assistantID string) (vapi.PhoneNumber, error) {
	pn := vapi.PhoneNumber{ID: "pn-1", Number: number, AssistantID: assistantID, Provider: "twilio"}
	f.phones = append(f.phones, pn)
	return pn, nil
}

func (f *fakeUpstream) UpdatePhoneNumber(ctx context.Context, id string, number, assistantID string) (vapi.PhoneNumber, error) {
	return vapi.PhoneNumber{ID: id, Number: number, AssistantID: assistantID}, nil
}

func (f *fakeUpstream) DeletePhoneNumber(ctx context.Context, id string) error { return nil }

type testEnv struct {
	router   *gin.Engine
	upstream *fakeUpstream
	store    *accounts.MemoryStore
	provider *identity.Provider
	audits   *audit.MemoryRepo
}

// seedAccount registers credentials and a row, returning a live access token.
func (e *testEnv) seedAccount(t *testing.T, a accounts.Account, password string) string {
	t.Helper()
	ctx := context.Background()

	subject, err := e.provider.Register(ctx, a.Email, password)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	a.ID = subject
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if err := e.store.Create(ctx, a); err != nil {
		t.Fatalf("create account: %v", err)
	}

	_, pair, err := e.provider.SignIn(ctx, a.Email, password)
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	return pair.AccessToken
}

func (e *testEnv) accountID(t *testing.T, email string) string {
	t.Helper()
	a, err := e.store.GetByEmail(context.Background(), email)
	if err != nil {
		t.Fatalf("lookup %s: %v", email, err)
	}
	return a.ID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager, err := auth.NewManager(config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := accounts.NewMemoryStore()
	provider := identity.NewProvider(identity.NewMemoryCredentialStore(), manager)
	svc := accounts.NewService(store, provider, log)
	upstream := &fakeUpstream{calls: map[string][]vapi.Call{}, details: map[string]vapi.CallDetail{}}
	audits := audit.NewMemoryRepo()

	h := Handlers{
		Identity: provider,
		Accounts: svc,
		Upstream: upstream,
		Agg:      analytics.NewAggregator(log),
		Cache:    cache.NewMemory(),
		Audit:    audit.NewService(audits),
		Retry:    retry.Options{MaxRetries: 1, Timeout: time.Second, Sleep: func(ctx context.Context, d time.Duration) error { return nil }},
	}

	r := gin.New()
	guard := RequireAuth(provider, store)

	api := r.Group("/api")
	api.POST("/auth/signup", h.Signup)
	api.POST("/auth/login", h.Login)

	authed := api.Group("")
	authed.Use(guard)
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.Me)
	authed.GET("/assistants", h.ListAssistants)
	authed.GET("/assistants/:assistantId", h.GetAssistant)
	authed.GET("/assistants/:assistantId/analytics/calls", h.CallAnalytics)
	authed.GET("/assistants/:assistantId/analytics/transcripts", h.Transcripts)
	authed.GET("/assistants/:assistantId/analytics/tickets", h.Tickets)
	authed.GET("/assistants/:assistantId/analytics/tickets/export", h.ExportTickets)

	admin := authed.Group("")
	admin.Use(authz.RequireAdmin())
	admin.DELETE("/assistants/:assistantId", h.DeleteAssistant)
	admin.GET("/calls/:callId/recording", h.Recording)
	admin.GET("/admin/users", h.ListUsers)
	admin.POST("/admin/users", h.CreateUser)
	admin.PUT("/admin/users/:userId", h.UpdateUser)
	admin.DELETE("/admin/users/:userId", h.DeleteUser)
	admin.GET("/phone-numbers", h.ListPhoneNumbers)
	admin.POST("/phone-numbers", h.CreatePhoneNumber)

	return &testEnv{router: r, upstream: upstream, store: store, provider: provider, audits: audits}
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGuardErrors(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.router, http.MethodGet, "/api/auth/me", "", "")
	if w.Code != 401 || !strings.Contains(w.Body.String(), "No token provided") {
		t.Fatalf("missing token: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, env.router, http.MethodGet, "/api/auth/me", "garbage", "")
	if w.Code != 401 || !strings.Contains(w.Body.String(), "Invalid token") {
		t.Fatalf("bad token: %d %s", w.Code, w.Body.String())
	}

	// Valid token whose account row was deleted.
	ctx := context.Background()
	if _, err := env.provider.Register(ctx, "ghost@hotel.test", "pw"); err != nil {
		t.Fatal(err)
	}
	_, pair, err := env.provider.SignIn(ctx, "ghost@hotel.test", "pw")
	if err != nil {
		t.Fatal(err)
	}
	w = doJSON(t, env.router, http.MethodGet, "/api/auth/me", pair.AccessToken, "")
	if w.Code != 401 || !strings.Contains(w.Body.String(), "User not found") {
		t.Fatalf("no account row: %d %s", w.Code, w.Body.String())
	}
}

func TestGuardAcceptsTokenQueryParam(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedAccount(t, accounts.Account{Email: "u@hotel.test", Role: accounts.RoleUser, AssistantAccess: accounts.AccessSingle}, "pw")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me?token="+token, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("query token: %d %s", w.Code, w.Body.String())
	}
}

func TestSignupLoginMeFlow(t *testing.T) {
	env := newTestEnv(t)

	w := doJSON(t, env.router, http.MethodPost, "/api/auth/signup", "",
		`{"email":"guest@hotel.test","password":"hunter22","name":"Guest","questions":{"rooms":12}}`)
	if w.Code != 200 {
		t.Fatalf("signup: %d %s", w.Code, w.Body.String())
	}
	var signup struct {
		User        accounts.Account `json:"user"`
		AccessToken string           `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &signup); err != nil {
		t.Fatal(err)
	}
	if signup.User.Role != accounts.RoleUser || !signup.User.QuestionsSubmitted {
		t.Fatalf("signup user = %+v", signup.User)
	}

	// Role escalation attempts in the signup payload are ignored.
	w = doJSON(t, env.router, http.MethodPost, "/api/auth/signup", "",
		`{"email":"x@hotel.test","password":"pw","role":"owner"}`)
	var second struct {
		User accounts.Account `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &second); err != nil {
		t.Fatal(err)
	}
	if second.User.Role != accounts.RoleUser {
		t.Fatalf("role = %q, want user", second.User.Role)
	}

	w = doJSON(t, env.router, http.MethodGet, "/api/auth/me", signup.AccessToken, "")
	if w.Code != 200 || !strings.Contains(w.Body.String(), "guest@hotel.test") {
		t.Fatalf("me: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, env.router, http.MethodPost, "/api/auth/login", "",
		`{"email":"guest@hotel.test","password":"wrong"}`)
	if w.Code != 401 {
		t.Fatalf("bad login: %d", w.Code)
	}
}

func TestAssistantListingFilteredByRole(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.assistants = []vapi.Assistant{
		{ID: "asst-1", Name: "Reception", Model: &vapi.AssistantModel{Messages: []vapi.AssistantMessage{{Role: "system", Content: "secret prompt"}}}},
		{ID: "asst-2", Name: "Concierge"},
	}

	ownerToken := env.seedAccount(t, accounts.Account{Email: "owner@hotel.test", Role: accounts.RoleOwner}, "pw")
	userToken := env.seedAccount(t, accounts.Account{
		Email: "user@hotel.test", Role: accounts.RoleUser,
		AssistantAccess: accounts.AccessSingle, AssignedAssistants: []string{"asst-1"},
	}, "pw")

	w := doJSON(t, env.router, http.MethodGet, "/api/assistants", ownerToken, "")
	var ownerResp struct {
		Data []vapi.Assistant `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &ownerResp); err != nil {
		t.Fatal(err)
	}
	if len(ownerResp.Data) != 2 {
		t.Fatalf("owner sees %d assistants", len(ownerResp.Data))
	}
	if ownerResp.Data[0].Model.Messages[0].Content != "secret prompt" {
		t.Error("owner should see the system prompt")
	}

	w = doJSON(t, env.router, http.MethodGet, "/api/assistants", userToken, "")
	var userResp struct {
		Data []vapi.Assistant `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &userResp); err != nil {
		t.Fatal(err)
	}
	if len(userResp.Data) != 1 || userResp.Data[0].ID != "asst-1" {
		t.Fatalf("user sees %+v", userResp.Data)
	}
	if userResp.Data[0].Model.Messages[0].Content != "" {
		t.Error("system prompt not stripped for plain user")
	}
}

func TestCallAnalyticsAccessAndDegradedMode(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC()
	env.upstream.calls["asst-1"] = []vapi.Call{
		{ID: "c1", Status: "completed", CreatedAt: now, DurationMs: 60000},
	}

	userToken := env.seedAccount(t, accounts.Account{
		Email: "user@hotel.test", Role: accounts.RoleUser,
		AssistantAccess: accounts.AccessSingle, AssignedAssistants: []string{"asst-1"},
	}, "pw")

	w := doJSON(t, env.router, http.MethodGet, "/api/assistants/asst-1/analytics/calls", userToken, "")
	if w.Code != 200 {
		t.Fatalf("calls: %d %s", w.Code, w.Body.String())
	}
	var stats analytics.CallStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalCalls != 1 || len(stats.CallsPerDay) != 31 {
		t.Fatalf("stats = %+v", stats)
	}

	// Unassigned assistant is forbidden.
	w = doJSON(t, env.router, http.MethodGet, "/api/assistants/asst-2/analytics/calls", userToken, "")
	if w.Code != 403 {
		t.Fatalf("unassigned: %d", w.Code)
	}

	// Upstream down on an uncached assistant: 200 with zeroed stats, not an
	// error. Admin has access to every assistant.
	adminToken := env.seedAccount(t, accounts.Account{Email: "admin@hotel.test", Role: accounts.RoleAdmin}, "pw")
	env.upstream.callsErr = errors.New("upstream down")
	w = doJSON(t, env.router, http.MethodGet, "/api/assistants/asst-9/analytics/calls", adminToken, "")
	if w.Code != 200 {
		t.Fatalf("degraded: %d %s", w.Code, w.Body.String())
	}
	var zero analytics.CallStats
	if err := json.Unmarshal(w.Body.Bytes(), &zero); err != nil {
		t.Fatal(err)
	}
	if zero.TotalCalls != 0 || len(zero.CallsPerDay) != 31 {
		t.Fatalf("degraded stats = %+v", zero)
	}
}

func TestTicketsRedactedPerRole(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now().UTC()
	env.upstream.calls["asst-1"] = []vapi.Call{
		{
			ID: "c1", Status: "completed", CreatedAt: now, DurationMs: 90000,
			Summary: "Room service order",
			Costs:   &vapi.CostBreakdown{Total: 1.0, LLM: 0.5},
		},
	}

	editorToken := env.seedAccount(t, accounts.Account{
		Email: "editor@hotel.test", Role: accounts.RoleEditor,
		AssistantAccess: accounts.AccessSingle, AssignedAssistants: []string{"asst-1"},
	}, "pw")
	userToken := env.seedAccount(t, accounts.Account{
		Email: "user@hotel.test", Role: accounts.RoleUser,
		AssistantAccess: accounts.AccessSingle, AssignedAssistants: []string{"asst-1"},
	}, "pw")
	adminToken := env.seedAccount(t, accounts.Account{Email: "admin@hotel.test", Role: accounts.RoleAdmin}, "pw")

	// Neither editors nor plain users see cost figures.
	for name, token := range map[string]string{"editor": editorToken, "user": userToken} {
		w := doJSON(t, env.router, http.MethodGet, "/api/assistants/asst-1/analytics/tickets", token, "")
		if w.Code != 200 {
			t.Fatalf("%s tickets: %d %s", name, w.Code, w.Body.String())
		}
		var stats analytics.TicketStats
		if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
			t.Fatal(err)
		}
		if stats.TotalCost != 0 || stats.Calls[0].Costs != nil {
			t.Fatalf("%s sees costs: %+v", name, stats)
		}
	}

	// Same cache entry, different redaction: admin sees doubled figures.
	w := doJSON(t, env.router, http.MethodGet, "/api/assistants/asst-1/analytics/tickets", adminToken, "")
	var adminStats analytics.TicketStats
	if err := json.Unmarshal(w.Body.Bytes(), &adminStats); err != nil {
		t.Fatal(err)
	}
	if adminStats.TotalCost != 2.0 || adminStats.Calls[0].Costs.Total != 2.0 {
		t.Fatalf("admin stats = %+v", adminStats)
	}
}

func TestTicketsCSVExport(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.calls["asst-1"] = []vapi.Call{
		{ID: "c1", Status: "completed", CreatedAt: time.Now().UTC(), Summary: "Spa booking"},
	}
	ownerToken := env.seedAccount(t, accounts.Account{Email: "owner@hotel.test", Role: accounts.RoleOwner}, "pw")

	w := doJSON(t, env.router, http.MethodGet, "/api/assistants/asst-1/analytics/tickets/export", ownerToken, "")
	if w.Code != 200 {
		t.Fatalf("export: %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "tickets-asst-1-") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(w.Body.String(), "Spa booking") {
		t.Errorf("csv body missing row: %s", w.Body.String())
	}
}

func TestRecordingMessages(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.details["queued-call"] = vapi.CallDetail{Call: vapi.Call{ID: "queued-call", Status: "queued"}}
	env.upstream.details["live-call"] = vapi.CallDetail{Call: vapi.Call{ID: "live-call", Status: "in-progress"}}
	env.upstream.details["done-call"] = vapi.CallDetail{
		Call:         vapi.Call{ID: "done-call", Status: "ended"},
		RecordingURL: "https://cdn.example/rec.wav",
	}

	adminToken := env.seedAccount(t, accounts.Account{Email: "admin@hotel.test", Role: accounts.RoleAdmin}, "pw")
	userToken := env.seedAccount(t, accounts.Account{Email: "user@hotel.test", Role: accounts.RoleUser}, "pw")

	// Non-admin is blocked before the lookup.
	w := doJSON(t, env.router, http.MethodGet, "/api/calls/done-call/recording", userToken, "")
	if w.Code != 403 || !strings.Contains(w.Body.String(), "Access denied") {
		t.Fatalf("non-admin: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, env.router, http.MethodGet, "/api/calls/done-call/recording", adminToken, "")
	if w.Code != 200 || !strings.Contains(w.Body.String(), "rec.wav") {
		t.Fatalf("recording: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, env.router, http.MethodGet, "/api/calls/queued-call/recording", adminToken, "")
	if w.Code != 404 || !strings.Contains(w.Body.String(), "Call has not started yet") {
		t.Fatalf("queued: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, env.router, http.MethodGet, "/api/calls/live-call/recording", adminToken, "")
	if w.Code != 404 || !strings.Contains(w.Body.String(), "Call is still in progress") {
		t.Fatalf("in-progress: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, env.router, http.MethodGet, "/api/calls/missing/recording", adminToken, "")
	if w.Code != 404 || !strings.Contains(w.Body.String(), "Call not found") {
		t.Fatalf("missing: %d %s", w.Code, w.Body.String())
	}
}

func TestAdminUserLifecycleAndOwnershipRule(t *testing.T) {
	env := newTestEnv(t)
	env.upstream.assistants = []vapi.Assistant{{ID: "asst-1", Name: "Reception"}}

	adminAToken := env.seedAccount(t, accounts.Account{Email: "adma@hotel.test", Role: accounts.RoleAdmin}, "pw")
	adminBToken := env.seedAccount(t, accounts.Account{Email: "admb@hotel.test", Role: accounts.RoleAdmin}, "pw")
	ownerToken := env.seedAccount(t, accounts.Account{Email: "owner@hotel.test", Role: accounts.RoleOwner}, "pw")

	// Admin A creates a user with a single assigned assistant.
	w := doJSON(t, env.router, http.MethodPost, "/api/admin/users", adminAToken,
		`{"email":"staff@hotel.test","password":"pw","role":"editor","assistantAccess":"single","assignedVapiIds":["asst-1"]}`)
	if w.Code != 200 {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		Data accounts.Account `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Data.CreatedBy != env.accountID(t, "adma@hotel.test") {
		t.Errorf("created_by = %q", created.Data.CreatedBy)
	}
	if created.Data.DefaultAssistantID != "asst-1" || created.Data.AssignedAssistantNames[0] != "Reception" {
		t.Errorf("assistant wiring = %+v", created.Data)
	}

	// Admin B may not touch Admin A's creation.
	w = doJSON(t, env.router, http.MethodPut, "/api/admin/users/"+created.Data.ID, adminBToken,
		`{"language":"he"}`)
	if w.Code != 403 || !strings.Contains(w.Body.String(), "no permission") {
		t.Fatalf("foreign admin update: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, env.router, http.MethodDelete, "/api/admin/users/"+created.Data.ID, adminBToken, "")
	if w.Code != 403 {
		t.Fatalf("foreign admin delete: %d", w.Code)
	}

	// The owner may.
	w = doJSON(t, env.router, http.MethodPut, "/api/admin/users/"+created.Data.ID, ownerToken,
		`{"language":"he"}`)
	if w.Code != 200 || !strings.Contains(w.Body.String(), `"language":"he"`) {
		t.Fatalf("owner update: %d %s", w.Code, w.Body.String())
	}

	// Single mode with two assistants is rejected.
	w = doJSON(t, env.router, http.MethodPut, "/api/admin/users/"+created.Data.ID, adminAToken,
		`{"assistantAccess":"single","assignedVapiIds":["asst-1","asst-2"]}`)
	if w.Code != 400 {
		t.Fatalf("single-mode violation: %d %s", w.Code, w.Body.String())
	}

	// Delete cascades and is audited.
	w = doJSON(t, env.router, http.MethodDelete, "/api/admin/users/"+created.Data.ID, adminAToken, "")
	if w.Code != 200 {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	w = doJSON(t, env.router, http.MethodPost, "/api/auth/login", "",
		`{"email":"staff@hotel.test","password":"pw"}`)
	if w.Code != 401 {
		t.Fatalf("login after delete: %d", w.Code)
	}

	var saw []audit.EventType
	for _, e := range env.audits.Events() {
		saw = append(saw, e.Type)
	}
	want := []audit.EventType{audit.EventTypeAccountCreated, audit.EventTypeAccountUpdated, audit.EventTypeAccountDeleted}
	for _, typ := range want {
		found := false
		for _, s := range saw {
			if s == typ {
				found = true
			}
		}
		if !found {
			t.Errorf("audit trail missing %s (got %v)", typ, saw)
		}
	}
}

func TestAdminListVisibility(t *testing.T) {
	env := newTestEnv(t)

	adminAToken := env.seedAccount(t, accounts.Account{Email: "adma@hotel.test", Role: accounts.RoleAdmin}, "pw")
	env.seedAccount(t, accounts.Account{Email: "owner@hotel.test", Role: accounts.RoleOwner}, "pw")

	// A creates one user; a self-signup exists too.
	doJSON(t, env.router, http.MethodPost, "/api/admin/users", adminAToken,
		`{"email":"mine@hotel.test","password":"pw"}`)
	doJSON(t, env.router, http.MethodPost, "/api/auth/signup", "",
		`{"email":"walkin@hotel.test","password":"pw"}`)

	w := doJSON(t, env.router, http.MethodGet, "/api/admin/users", adminAToken, "")
	var resp struct {
		Data []adminUser `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	for _, u := range resp.Data {
		if u.Email == "walkin@hotel.test" || u.Email == "owner@hotel.test" {
			t.Errorf("admin should not see %s", u.Email)
		}
	}
	var sawSelf, sawMine bool
	for _, u := range resp.Data {
		switch u.Email {
		case "adma@hotel.test":
			sawSelf = true
		case "mine@hotel.test":
			sawMine = true
		}
	}
	if !sawSelf || !sawMine {
		t.Errorf("admin listing incomplete: %+v", resp.Data)
	}
}

func TestPhoneNumberProxy(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.seedAccount(t, accounts.Account{Email: "admin@hotel.test", Role: accounts.RoleAdmin}, "pw")

	w := doJSON(t, env.router, http.MethodPost, "/api/phone-numbers", adminToken,
		`{"number":"+15550001111","assistantId":"asst-1"}`)
	if w.Code != 200 || !strings.Contains(w.Body.String(), "pn-1") {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, env.router, http.MethodGet, "/api/phone-numbers", adminToken, "")
	if w.Code != 200 || !strings.Contains(w.Body.String(), "+15550001111") {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}
}
