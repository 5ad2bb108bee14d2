package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvc-is/portal/internal/accounts"
	"github.com/mvc-is/portal/internal/auth"
	"github.com/mvc-is/portal/internal/database"
	"github.com/mvc-is/portal/internal/handlers"
	"github.com/mvc-is/portal/internal/inventory"
	"github.com/mvc-is/portal/internal/metrics"
)

const cookieName = "mvc_session"

type memRevocations struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (m *memRevocations) Revoke(_ context.Context, id string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[id] = true
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids[id], nil
}

type noopMailer struct{}

func (noopMailer) Send(context.Context, string, string, string) error { return nil }

type portal struct {
	t      *testing.T
	router *gin.Engine
	reg    *metrics.Metrics
}

func newPortal(t *testing.T) *portal {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	_, err = database.Seed(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	m := metrics.New()
	tokens := auth.NewTokenManager("0123456789abcdef0123456789abcdef", "mvc-portal", time.Hour)
	revs := &memRevocations{ids: map[string]bool{}}
	sessions := &auth.CookieSessions{Tokens: tokens, Revocations: revs, CookieName: cookieName}

	h := &handlers.Handlers{
		DB:    db,
		Store: inventory.NewStore(db, nil, m),
		Accounts: accounts.NewService(accounts.Deps{
			DB: db, Tokens: tokens, Revocations: revs, Mailer: noopMailer{}, Metrics: m,
		}),
		Sessions: sessions,
		Cookie:   handlers.CookieConfig{Name: cookieName, TTL: time.Hour},
	}
	router := SetupRouter(h, Options{AllowedOrigin: "http://localhost:3000", Sessions: sessions, Metrics: m})
	return &portal{t: t, router: router, reg: m}
}

func (p *portal) do(method, target string, body any, session *http.Cookie) *httptest.ResponseRecorder {
	p.t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(p.t, err)
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.AddCookie(session)
	}
	w := httptest.NewRecorder()
	p.router.ServeHTTP(w, req)
	return w
}

// register signs a user up and logs them in, returning the session cookie.
func (p *portal) register(name, email, dept string) *http.Cookie {
	p.t.Helper()
	w := p.do(http.MethodPost, "/auth/signup", map[string]string{
		"fullName": name, "email": email, "password": "correct-horse", "department": dept,
	}, nil)
	require.Equal(p.t, http.StatusCreated, w.Code, w.Body.String())

	w = p.do(http.MethodPost, "/auth/login", map[string]string{"email": email, "password": "correct-horse"}, nil)
	require.Equal(p.t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return &http.Cookie{Name: c.Name, Value: c.Value}
		}
	}
	p.t.Fatalf("login did not set the %s cookie", cookieName)
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestPublicRoutes(t *testing.T) {
	p := newPortal(t)

	w := p.do(http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = p.do(http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "login", decode(t, w)["page"])

	w = p.do(http.MethodGet, "/reset-password?token=abc", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = p.do(http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mvc_access_decisions_total")
}

func TestAccessRouting(t *testing.T) {
	p := newPortal(t)
	it := p.register("Ana Reyes", "ana@mvc.com.ph", "IT Dept.")
	sales := p.register("Carlo Lim", "carlo@mvc.com.ph", "Sales")

	cases := []struct {
		name     string
		target   string
		session  *http.Cookie
		status   int
		location string
	}{
		{"anonymous MIS", "/mis_dashboard", nil, http.StatusTemporaryRedirect, "/"},
		{"anonymous unknown sub page", "/hr_dashboard/payroll", nil, http.StatusTemporaryRedirect, "/"},
		{"IT to HR", "/hr_dashboard", it, http.StatusTemporaryRedirect, "/mis_dashboard"},
		{"IT on login", "/", it, http.StatusTemporaryRedirect, "/mis_dashboard"},
		{"IT keeps query", "/?from=email", it, http.StatusTemporaryRedirect, "/mis_dashboard?from=email"},
		{"IT own dashboard", "/mis_dashboard", it, http.StatusOK, ""},
		{"unmapped on login", "/", sales, http.StatusTemporaryRedirect, "/dashboard"},
		{"unmapped default dashboard", "/dashboard", sales, http.StatusOK, ""},
		{"tampered cookie is anonymous", "/mis_dashboard", &http.Cookie{Name: cookieName, Value: it.Value + "x"}, http.StatusTemporaryRedirect, "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := p.do(http.MethodGet, tc.target, nil, tc.session)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, tc.location, w.Header().Get("Location"))
		})
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	p := newPortal(t)
	it := p.register("Ana Reyes", "ana@mvc.com.ph", "IT Dept.")

	require.Equal(t, http.StatusOK, p.do(http.MethodGet, "/mis_dashboard", nil, it).Code)

	w := p.do(http.MethodPost, "/auth/logout", nil, it)
	require.Equal(t, http.StatusOK, w.Code)

	w = p.do(http.MethodGet, "/mis_dashboard", nil, it)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// The revoked session cannot sign out again, and neither can a visitor.
	assert.Equal(t, http.StatusUnauthorized, p.do(http.MethodPost, "/auth/logout", nil, it).Code)
	assert.Equal(t, http.StatusUnauthorized, p.do(http.MethodPost, "/auth/logout", nil, nil).Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	p := newPortal(t)
	p.register("Ana Reyes", "ana@mvc.com.ph", "IT Dept.")

	w := p.do(http.MethodPost, "/auth/login", map[string]string{"email": "ana@mvc.com.ph", "password": "nope-nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid login credentials", decode(t, w)["error"])
}

func TestResetPasswordMismatch(t *testing.T) {
	p := newPortal(t)
	w := p.do(http.MethodPost, "/auth/password/reset", map[string]string{
		"token": "whatever", "password": "new-password-1", "confirmPassword": "new-password-2",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Passwords do not match.", decode(t, w)["error"])
}

func TestInventoryLifecycle(t *testing.T) {
	p := newPortal(t)
	u1 := p.register("Ana Reyes", "ana@mvc.com.ph", "IT Dept.")
	u2 := p.register("Ely Buendia", "ely@mvc.com.ph", "IT Dept.")

	// Create as U1.
	w := p.do(http.MethodPost, "/mis_dashboard/inventory/computer-parts",
		map[string]any{"item_name": "Monitor", "quantity": 3, "status": "New"}, u1)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode(t, w)["item"].(map[string]any)
	id := item["id"].(string)
	assert.Equal(t, "Monitor", item["item_name"])

	// Validation errors are 400 with the field.
	w = p.do(http.MethodPost, "/mis_dashboard/inventory/computer-parts",
		map[string]any{"quantity": 3, "status": "New"}, u1)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "item_name", decode(t, w)["field"])

	// U1 sees it, U2 does not.
	w = p.do(http.MethodGet, "/mis_dashboard/inventory?category=computer-parts", nil, u1)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = p.do(http.MethodGet, "/mis_dashboard/inventory?category=Computer%20Parts", nil, u2)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["total"])

	// Search filter.
	w = p.do(http.MethodGet, "/mis_dashboard/inventory?category=computer-parts&q=moni", nil, u1)
	assert.EqualValues(t, 1, decode(t, w)["total"])
	w = p.do(http.MethodGet, "/mis_dashboard/inventory?category=computer-parts&q=printer", nil, u1)
	assert.EqualValues(t, 0, decode(t, w)["total"])

	// U2 cannot update U1's record.
	w = p.do(http.MethodPut, "/mis_dashboard/inventory/computer-parts/"+id,
		map[string]any{"item_name": "Stolen", "quantity": 1, "status": "New"}, u2)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = p.do(http.MethodPut, "/mis_dashboard/inventory/computer-parts/"+id,
		map[string]any{"item_name": "Monitor 27in", "quantity": 2, "status": "Low Stock"}, u1)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Monitor 27in", decode(t, w)["item"].(map[string]any)["item_name"])

	// Overview KPIs.
	w = p.do(http.MethodGet, "/mis_dashboard", nil, u1)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)["stats"].(map[string]any)
	assert.EqualValues(t, 1, stats["totalRecords"])
	assert.EqualValues(t, 1, stats["lowStockItems"])

	// PDF export.
	w = p.do(http.MethodGet, "/mis_dashboard/inventory/computer-parts/export.pdf", nil, u1)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "computer-parts-inventory.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	// Delete needs confirmation and is idempotent.
	w = p.do(http.MethodDelete, "/mis_dashboard/inventory/computer-parts/"+id, nil, u1)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	for i := 0; i < 2; i++ {
		w = p.do(http.MethodDelete, "/mis_dashboard/inventory/computer-parts/"+id+"?confirm=true", nil, u1)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w = p.do(http.MethodGet, "/mis_dashboard/inventory?category=computer-parts", nil, u1)
	assert.EqualValues(t, 0, decode(t, w)["total"])

	// Unknown category.
	w = p.do(http.MethodPost, "/mis_dashboard/inventory/furniture", map[string]any{"name": "Chair"}, u1)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryCategories(t *testing.T) {
	p := newPortal(t)
	it := p.register("Ana Reyes", "ana@mvc.com.ph", "IT Dept.")

	w := p.do(http.MethodGet, "/mis_dashboard/inventory/categories", nil, it)
	require.Equal(t, http.StatusOK, w.Code)
	cats := decode(t, w)["categories"].([]any)
	require.Len(t, cats, 4)
	assert.Equal(t, "Personal Computer", cats[0].(map[string]any)["category"])
}

func TestHRDashboards(t *testing.T) {
	p := newPortal(t)
	hr := p.register("Liza Soberano", "liza@mvc.com.ph", "HR Dept.")

	w := p.do(http.MethodGet, "/hr_dashboard", nil, hr)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	viewer := body["viewer"].(map[string]any)
	assert.Equal(t, "LS", viewer["initials"])
	assert.Equal(t, "HR Dept.", viewer["role"])
	stats := body["stats"].(map[string]any)
	assert.EqualValues(t, 5, stats["totalEmployees"])
	assert.EqualValues(t, 1, stats["onLeave"])
	assert.EqualValues(t, 1, stats["probation"])

	w = p.do(http.MethodGet, "/hr_dashboard/employee_directory?q=MARIA", nil, hr)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.EqualValues(t, 1, body["total"])
	emp := body["employees"].([]any)[0].(map[string]any)
	assert.Equal(t, "Maria Santos", emp["name"])
}

func TestOperationsDashboard(t *testing.T) {
	p := newPortal(t)
	ops := p.register("Juan Dela Cruz", "juan@mvc.com.ph", "Operations")

	w := p.do(http.MethodGet, "/operations_dashboard", nil, ops)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)["stats"].(map[string]any)
	assert.EqualValues(t, 61, stats["tankFarmLoad"])
	assert.EqualValues(t, 1, stats["warning"])
	assert.EqualValues(t, 0, stats["critical"])
}
