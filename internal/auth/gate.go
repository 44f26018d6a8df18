package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"enku-backoffice/internal/remote"
	"enku-backoffice/internal/session"
)

var ErrMissingCredentials = errors.New("auth: username and password are required")

// Gate signs sessions in and out against the users service.
type Gate struct {
	users *remote.Client
}

// NewGate takes a client for the stock/users API base (".../api").
func NewGate(users *remote.Client) *Gate {
	return &Gate{users: users}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login issues one POST to users/login. On success the identity is stored
// in s, which notifies its subscribers. On failure s is left untouched and
// the error carries the server's text.
func (g *Gate) Login(ctx context.Context, s *session.Store, username, password string) (session.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return session.Identity{}, ErrMissingCredentials
	}

	var data map[string]any
	err := g.users.Do(ctx, "login", http.MethodPost, g.users.URL(nil, "users", "login"),
		loginRequest{Username: username, Password: password}, &data)
	if err != nil {
		return session.Identity{}, err
	}

	ident := session.Identity{
		UserID:   intField(data, "id", "userId"),
		Username: stringField(data, "username", "userName"),
		Role:     stringField(data, "role", "roleName"),
		IsAdmin:  boolField(data, "isAdmin"),
	}
	if ident.UserID == 0 {
		return session.Identity{}, errors.New("auth: user id not found in login response")
	}
	if ident.Username == "" {
		ident.Username = username
	}
	if ident.Role == "" {
		ident.Role = g.resolveRole(ctx, ident.UserID, intField(data, "roleId"))
	}

	if err := s.SignIn(ctx, ident); err != nil {
		return session.Identity{}, fmt.Errorf("session could not be saved: %w", err)
	}
	return ident, nil
}

// Logout clears the identity of s.
func (g *Gate) Logout(ctx context.Context, s *session.Store) error {
	return s.SignOut(ctx)
}

// resolveRole finds the role name through the user-in-role mapping, falling
// back to the role list when only a role id is known. Lookup failures leave
// the role empty; admins do not need one.
func (g *Gate) resolveRole(ctx context.Context, userID, roleID int) string {
	var mappings []map[string]any
	err := g.users.Do(ctx, "list user roles", http.MethodGet, g.users.URL(nil, "users", "get-all-user-in-roles"), nil, &mappings)
	if err != nil {
		log.Printf("[WARN] role lookup for user %d: %v", userID, err)
	}
	for _, m := range mappings {
		if intField(m, "userId") == userID {
			if name := stringField(m, "roleName"); name != "" {
				return name
			}
			if roleID == 0 {
				roleID = intField(m, "roleId")
			}
		}
	}
	if roleID == 0 {
		return ""
	}

	var roles []map[string]any
	if err := g.users.Do(ctx, "list roles", http.MethodGet, g.users.URL(nil, "users", "get-all-roles"), nil, &roles); err != nil {
		log.Printf("[WARN] role lookup for role %d: %v", roleID, err)
		return ""
	}
	for _, r := range roles {
		if intField(r, "id") == roleID {
			return stringField(r, "name")
		}
	}
	return ""
}

// lookup matches keys case-insensitively; the users service answers with
// both "Id" and "id" spellings.
func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		for mk, v := range m {
			if strings.EqualFold(mk, k) && v != nil {
				return v, true
			}
		}
	}
	return nil, false
}

func stringField(m map[string]any, keys ...string) string {
	v, ok := lookup(m, keys...)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func intField(m map[string]any, keys ...string) int {
	v, ok := lookup(m, keys...)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, _ := strconv.Atoi(t)
		return n
	}
	return 0
}

func boolField(m map[string]any, keys ...string) bool {
	v, ok := lookup(m, keys...)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	}
	return false
}
