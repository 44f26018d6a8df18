package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"enku-backoffice/internal/config"
	"enku-backoffice/internal/remote"
	"enku-backoffice/internal/session"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// usersService fakes the users API. Only "pass" is a valid password.
func usersService(t *testing.T, login string) (*httptest.Server, *int) {
	t.Helper()
	logins := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/users/login":
			logins++
			var body LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Password != "pass" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, "Invalid username or password")
				return
			}
			_, _ = io.WriteString(w, login)
		case "/api/users/get-all-user-in-roles":
			_, _ = io.WriteString(w, `[{"UserId":7,"RoleId":3,"RoleName":""}]`)
		case "/api/users/get-all-roles":
			_, _ = io.WriteString(w, `[{"Id":2,"Name":"Inventory"},{"Id":3,"Name":"Finance"}]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &logins
}

func TestLoginPersistsAndNotifiesOnce(t *testing.T) {
	srv, logins := usersService(t, `{"Id":7,"Username":"selam","IsAdmin":false,"RoleId":3}`)
	gate := NewGate(remote.NewClient(srv.URL+"/api", nil))
	p := session.NewMemoryPersister()
	s := session.NewStore("s1", p)

	notified := 0
	s.Subscribe(func(session.Change) { notified++ })

	ident, err := gate.Login(context.Background(), s, "selam", "pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	want := session.Identity{UserID: 7, Username: "selam", Role: "Finance"}
	if ident != want {
		t.Errorf("identity = %+v, want %+v", ident, want)
	}
	if *logins != 1 {
		t.Errorf("login calls = %d", *logins)
	}
	if notified != 1 {
		t.Errorf("notified %d times, want 1", notified)
	}
	if saved, ok, _ := p.Load(context.Background(), "s1"); !ok || saved != want {
		t.Errorf("persisted = %+v, %v", saved, ok)
	}
}

func TestLoginFailureKeepsPreviousSession(t *testing.T) {
	srv, _ := usersService(t, `{"id":1,"username":"admin","isAdmin":true}`)
	gate := NewGate(remote.NewClient(srv.URL+"/api", nil))
	s := session.NewStore("s1", session.NewMemoryPersister())

	prev, err := gate.Login(context.Background(), s, "admin", "pass")
	if err != nil {
		t.Fatal(err)
	}

	notified := 0
	s.Subscribe(func(session.Change) { notified++ })

	_, err = gate.Login(context.Background(), s, "admin", "wrong")
	var re *remote.Error
	if !errors.As(err, &re) || re.Message != "Invalid username or password" {
		t.Fatalf("err = %v", err)
	}
	if cur, _ := s.Current(); cur != prev {
		t.Errorf("current = %+v, want %+v", cur, prev)
	}
	if notified != 0 {
		t.Errorf("failed login notified %d times", notified)
	}
}

func TestLoginRequiresCredentials(t *testing.T) {
	srv, logins := usersService(t, `{}`)
	gate := NewGate(remote.NewClient(srv.URL+"/api", nil))
	s := session.NewStore("s1", session.NewMemoryPersister())
	if _, err := gate.Login(context.Background(), s, "  ", "pass"); !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("err = %v", err)
	}
	if *logins != 0 {
		t.Error("blank username reached the users service")
	}
}

func TestCanSee(t *testing.T) {
	cases := []struct {
		ident session.Identity
		role  string
		want  bool
	}{
		{session.Identity{IsAdmin: true}, "Finance", true},
		{session.Identity{IsAdmin: true}, "", true},
		{session.Identity{Role: "finance"}, "Finance", true},
		{session.Identity{Role: "FINANCE"}, "finance", true},
		{session.Identity{Role: "Inventory"}, "Finance", false},
		{session.Identity{Role: ""}, "", false},
		{session.Identity{Role: "Finance"}, "", false},
	}
	for _, tc := range cases {
		if got := CanSee(tc.ident, tc.role); got != tc.want {
			t.Errorf("CanSee(%+v, %q) = %v", tc.ident, tc.role, got)
		}
	}
}

func TestNavLinks(t *testing.T) {
	s := session.NewStore("s1", session.NewMemoryPersister())
	if v := Nav(s); v.SignedIn || len(v.Links) != len(publicLinks) {
		t.Fatalf("signed out nav = %+v", v)
	}

	_ = s.SignIn(context.Background(), session.Identity{UserID: 2, Username: "kebede", Role: "inventory"})
	v := Nav(s)
	var sections []Section
	for _, l := range v.Links {
		if l.Section != "" {
			sections = append(sections, l.Section)
		}
	}
	if len(sections) != 1 || sections[0] != SectionInventory {
		t.Errorf("inventory nav sections = %v", sections)
	}

	_ = s.SignIn(context.Background(), session.Identity{UserID: 1, Username: "admin", IsAdmin: true})
	if v := Nav(s); len(v.Links) != len(publicLinks)+len(gatedLinks) {
		t.Errorf("admin nav = %+v", v.Links)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken(testSecret, "abc")
	if err != nil {
		t.Fatal(err)
	}
	id, err := ParseToken(testSecret, tok)
	if err != nil || id != "abc" {
		t.Fatalf("parse = %q, %v", id, err)
	}
	if _, err := ParseToken(strings.Repeat("x", 32), tok); err == nil {
		t.Error("token verified with the wrong secret")
	}
}

func newAuthApp(t *testing.T, usersURL string) *fiber.App {
	t.Helper()
	cfg := &config.Config{JWTSecret: testSecret}
	gate := NewGate(remote.NewClient(usersURL, nil))
	mgr := session.NewManager(session.NewMemoryPersister())

	app := fiber.New()
	app.Use(SessionMiddleware(cfg, mgr))
	app.Post("/auth/login", LoginHandler(cfg, gate))
	app.Post("/auth/logout", LogoutHandler(gate))
	app.Get("/ui/nav", NavHandler())
	app.Get("/ui/finance", RequireSection(SectionFinance), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/ui/users", RequireSection(SectionUsers), func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	return nil
}

func TestRequireSectionOverHTTP(t *testing.T) {
	srv, _ := usersService(t, `{"Id":7,"Username":"selam","RoleId":3}`)
	app := newAuthApp(t, srv.URL+"/api")

	// first request mints a session
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ui/finance", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("signed out = %d", resp.StatusCode)
	}
	ck := sessionCookie(resp)
	if ck == nil {
		t.Fatal("no session cookie issued")
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"selam","password":"pass"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(ck)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("login = %d %s", resp.StatusCode, body)
	}

	for path, want := range map[string]int{
		"/ui/finance": http.StatusOK,
		"/ui/users":   http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(ck)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != want {
			t.Errorf("%s = %d, want %d", path, resp.StatusCode, want)
		}
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(ck)
	if resp, _ = app.Test(req); resp.StatusCode != http.StatusOK {
		t.Fatalf("logout = %d", resp.StatusCode)
	}
	req = httptest.NewRequest(http.MethodGet, "/ui/finance", nil)
	req.AddCookie(ck)
	if resp, _ = app.Test(req); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("after logout = %d", resp.StatusCode)
	}
}

func TestLoginFailureOverHTTP(t *testing.T) {
	srv, _ := usersService(t, `{}`)
	app := newAuthApp(t, srv.URL+"/api")

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"selam","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Invalid username or password") {
		t.Errorf("body = %s", body)
	}
}
