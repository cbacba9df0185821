// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests: in-memory stores, an in-process Valkey and the real renderer.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"folio/internal/cache"
	"folio/internal/catalog"
	"folio/internal/mailer"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/render"
	"folio/internal/session"
	"folio/internal/settings"
	"folio/internal/store"
)

var errBoom = errors.New("boom")

// uniqueViolation mimics the error Postgres returns for a duplicate key.
func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

// --- Projects ---

type memProjects struct {
	mu    sync.Mutex
	next  int64
	items []models.Project
	err   error
}

func (m *memProjects) List(ctx context.Context) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := append([]models.Project(nil), m.items...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memProjects) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memProjects) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.next++
	out := *p
	out.ID = m.next
	out.CreatedAt = time.Now()
	m.items = append(m.items, out)
	return &out, nil
}

func (m *memProjects) Update(ctx context.Context, p *models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i := range m.items {
		if m.items[i].ID == p.ID {
			p.CreatedAt = m.items[i].CreatedAt
			m.items[i] = *p
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memProjects) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memProjects) Counts(ctx context.Context) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	featured := 0
	for _, p := range m.items {
		if p.Featured {
			featured++
		}
	}
	return len(m.items), featured, m.err
}

func (m *memProjects) add(p models.Project) models.Project {
	out, _ := m.Create(context.Background(), &p)
	return *out
}

// --- Skills ---

type memSkills struct {
	mu    sync.Mutex
	next  int64
	items []models.Skill
	err   error
}

func (m *memSkills) List(ctx context.Context) ([]models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := append([]models.Skill(nil), m.items...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *memSkills) FindByID(ctx context.Context, id int64) (*models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sk := range m.items {
		if sk.ID == id {
			return &sk, nil
		}
	}
	return nil, m.err
}

func (m *memSkills) Create(ctx context.Context, sk *models.Skill) (*models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.next++
	out := *sk
	out.ID = m.next
	m.items = append(m.items, out)
	return &out, nil
}

func (m *memSkills) Update(ctx context.Context, sk *models.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == sk.ID {
			m.items[i] = *sk
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memSkills) Delete(ctx context.Context, id int64) error {
	n, err := m.DeleteMany(ctx, []int64{id})
	if err == nil && n == 0 {
		return store.ErrNotFound
	}
	return err
}

func (m *memSkills) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.items[:0]
	var n int64
	for _, sk := range m.items {
		if drop[sk.ID] {
			n++
			continue
		}
		kept = append(kept, sk)
	}
	m.items = kept
	return n, nil
}

func (m *memSkills) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), m.err
}

func (m *memSkills) add(sk models.Skill) models.Skill {
	out, _ := m.Create(context.Background(), &sk)
	return *out
}

// --- Blog ---

type memBlog struct {
	mu    sync.Mutex
	next  int64
	items []models.BlogPost
	err   error
	now   func() time.Time
}

func (m *memBlog) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

func (m *memBlog) List(ctx context.Context) ([]models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.BlogPost(nil), m.items...), nil
}

func (m *memBlog) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.BlogPost
	for _, p := range all {
		if p.Published {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memBlog) FindByID(ctx context.Context, id int64) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, m.err
}

func (m *memBlog) FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.items {
		if p.Slug == slug && p.Published {
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memBlog) slugTaken(slug string, except int64) bool {
	for _, p := range m.items {
		if p.Slug == slug && p.ID != except {
			return true
		}
	}
	return false
}

func (m *memBlog) Create(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.slugTaken(p.Slug, 0) {
		return nil, uniqueViolation()
	}
	m.next++
	out := *p
	out.ID = m.next
	out.CreatedAt = m.clock()
	out.UpdatedAt = out.CreatedAt
	out.StampPublished(nil, out.CreatedAt)
	m.items = append(m.items, out)
	return &out, nil
}

func (m *memBlog) Update(ctx context.Context, p *models.BlogPost) (*models.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.items {
		if m.items[i].ID != p.ID {
			continue
		}
		if m.slugTaken(p.Slug, p.ID) {
			return nil, uniqueViolation()
		}
		out := *p
		out.CreatedAt = m.items[i].CreatedAt
		out.UpdatedAt = m.clock()
		out.StampPublished(m.items[i].PublishedAt, out.UpdatedAt)
		m.items[i] = out
		return &out, nil
	}
	return nil, store.ErrNotFound
}

func (m *memBlog) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memBlog) Counts(ctx context.Context) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	published := 0
	for _, p := range m.items {
		if p.Published {
			published++
		}
	}
	return len(m.items), published, m.err
}

func (m *memBlog) add(p models.BlogPost) models.BlogPost {
	out, err := m.Create(context.Background(), &p)
	if err != nil {
		panic(err)
	}
	return *out
}

func (m *memBlog) bySlug(slug string) *models.BlogPost {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.items {
		if p.Slug == slug {
			return &p
		}
	}
	return nil
}

// --- Profile ---

type memProfile struct {
	mu      sync.Mutex
	profile *models.Profile
	err     error
}

func (m *memProfile) Get(ctx context.Context) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.profile == nil {
		return nil, nil
	}
	p := *m.profile
	return &p, nil
}

func (m *memProfile) Update(ctx context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.profile == nil || m.profile.ID != p.ID {
		return store.ErrNotFound
	}
	cp := *p
	m.profile = &cp
	return nil
}

// --- Users ---

type memUsers struct {
	mu    sync.Mutex
	users map[int64]*models.User
}

func (m *memUsers) add(t *testing.T, id int64, email, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{ID: id, Email: email, DisplayName: "Test Admin", PasswordHash: string(hash)}
	m.mu.Lock()
	m.users[id] = u
	m.mu.Unlock()
	return u
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *memUsers) CheckPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (m *memUsers) SetTOTPSecret(ctx context.Context, id int64, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.TOTPSecret = &secret
	return nil
}

func (m *memUsers) EnableTOTP(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.TOTPEnabled = true
	return nil
}

func (m *memUsers) DisableTOTP(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.TOTPEnabled = false
	u.TOTPSecret = nil
	return nil
}

func (m *memUsers) get(id int64) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *m.users[id]
	return &u
}

// --- Config ---

type memConfig struct {
	mu           sync.Mutex
	rows         models.ConfigMap
	descriptions map[string]string
	upsertErr    error
}

func (m *memConfig) Entries(ctx context.Context) ([]models.ConfigEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ConfigEntry
	for k, v := range m.rows {
		e := models.ConfigEntry{Key: k, Value: v}
		if d, ok := m.descriptions[k]; ok {
			e.Description = &d
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memConfig) Upsert(ctx context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for k, v := range values {
		m.rows[k] = v
	}
	return nil
}

func (m *memConfig) get(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[key]
}

// --- Integrations ---

type fakeUploader struct {
	keys []string
	err  error
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://cdn.example.com/" + key, nil
}

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Valkey    *redis.Client
	Redis     *miniredis.Miniredis
	Renderer  *render.Renderer
	Sessions  *session.Store
	Flashes   *session.Flashes
	PageCache *cache.PageCache
	Projects  *memProjects
	Skills    *memSkills
	Blog      *memBlog
	Profile   *memProfile
	Users     *memUsers
	Config    *memConfig
	Settings  *settings.Service
	Mail      *fakeMailer
	Media     *fakeUploader
	Admin     *Admin
	Auth      *Auth
	Public    *Public
}

// newTestEnv creates a complete test environment with all handler
// dependencies wired to in-memory fakes.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	vk := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { vk.Close() })

	flashes := session.NewFlashes("test-secret-0123456789abcdef0123", false)
	renderer, err := render.New(true, flashes)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	env := &testEnv{
		Valkey:    vk,
		Redis:     mr,
		Renderer:  renderer,
		Sessions:  session.NewStore(vk, false),
		Flashes:   flashes,
		PageCache: cache.NewPageCache(vk, time.Minute),
		Projects:  &memProjects{},
		Skills:    &memSkills{},
		Blog:      &memBlog{},
		Profile:   &memProfile{profile: &models.Profile{ID: 1, FullName: "Ada Lovelace", Role: "Engineer"}},
		Users:     &memUsers{users: make(map[int64]*models.User)},
		Config:    &memConfig{rows: models.ConfigMap{models.ConfigEmailFormEnabled: "true"}},
		Mail:      &fakeMailer{},
		Media:     &fakeUploader{},
	}
	env.Settings = settings.New(env.Config)

	cat := catalog.New(env.Projects, env.Skills, env.Blog, env.Profile)
	env.Admin = NewAdmin(AdminDeps{
		Renderer:         renderer,
		Flashes:          flashes,
		Catalog:          cat,
		Projects:         env.Projects,
		Skills:           env.Skills,
		Blog:             env.Blog,
		Profile:          env.Profile,
		Users:            env.Users,
		Settings:         env.Settings,
		Pages:            env.PageCache,
		Media:            env.Media,
		StaticAdmins:     []string{"root@folio.local"},
		AnalyticsDefault: "",
		ContactDefault:   false,
	})
	env.Auth = NewAuth(renderer, env.Sessions, flashes, env.Users, nil)
	env.Public = NewPublic(PublicDeps{
		Renderer: renderer,
		Flashes:  flashes,
		Catalog:  cat,
		Settings: env.Settings,
		Pages:    env.PageCache,
		Mail:     env.Mail,
	})

	return env
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a fully signed-in password session.
func testSession(userID int64, email string) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       email,
		DisplayName: "Test Admin",
		Provider:    session.ProviderPassword,
		TwoFADone:   true,
	}
}

// googleSession creates a signed-in Google session with no users row.
func googleSession(email string) *session.Data {
	return &session.Data{
		Email:     email,
		Provider:  session.ProviderGoogle,
		TwoFADone: true,
	}
}

// getRequest builds a GET request carrying a session.
func getRequest(target string, sess *session.Data) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if sess != nil {
		req = req.WithContext(ctxWithSession(req.Context(), sess))
	}
	return req
}

// postForm builds a form POST carrying a session.
func postForm(target string, form url.Values, sess *session.Data) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sess != nil {
		req = req.WithContext(ctxWithSession(req.Context(), sess))
	}
	return req
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// replayCookies copies the cookies set on rec onto req. A cookie set more
// than once keeps its last value, as a browser would.
func replayCookies(req *http.Request, rec *httptest.ResponseRecorder) {
	last := map[string]*http.Cookie{}
	var order []string
	for _, c := range rec.Result().Cookies() {
		if _, seen := last[c.Name]; !seen {
			order = append(order, c.Name)
		}
		last[c.Name] = c
	}
	for _, name := range order {
		req.AddCookie(last[name])
	}
}

// flashesFrom replays the response cookies and pops the queued flashes.
func flashesFrom(env *testEnv, rec *httptest.ResponseRecorder) []session.Flash {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	replayCookies(req, rec)
	return env.Flashes.Pop(httptest.NewRecorder(), req)
}

// assertFlash fails unless the response queued a flash of kind containing
// want.
func assertFlash(t *testing.T, env *testEnv, rec *httptest.ResponseRecorder, kind, want string) {
	t.Helper()
	got := flashesFrom(env, rec)
	for _, f := range got {
		if f.Kind == kind && strings.Contains(f.Message, want) {
			return
		}
	}
	t.Errorf("flash %s %q not queued; got %+v", kind, want, got)
}

// assertFlashShown fails unless a re-rendered page displays the flash
// inline. The render pops it, so no cookie carries it onward.
func assertFlashShown(t *testing.T, rec *httptest.ResponseRecorder, kind, want string) {
	t.Helper()
	body := rec.Body.String()
	marker := `class="flash flash-` + kind + `"`
	i := strings.Index(body, marker)
	if i < 0 {
		t.Errorf("no %s flash on the page", kind)
		return
	}
	if !strings.Contains(body[i:], want) {
		t.Errorf("%s flash %q not shown", kind, want)
	}
}

// assertRedirect fails unless rec is a 303 to want.
func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d; body: %.300s", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != want {
		t.Errorf("redirect: got %q, want %q", loc, want)
	}
}

// sessionCookie returns the session cookie set on rec, or nil.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge >= 0 {
			return c
		}
	}
	return nil
}
