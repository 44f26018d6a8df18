package users

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"enku-backoffice/internal/listing"
	"enku-backoffice/internal/models"
	"enku-backoffice/internal/remote"
)

// Service talks to the users service (".../api/users").
type Service struct {
	client *remote.Client
	Users  *UserAccessor
	Roles  *RoleAccessor
}

func NewService(stockAPI *remote.Client) *Service {
	c := stockAPI.Sub("users")
	users := remote.NewResource[models.User, models.UserDraft](c, "user", "", remote.Routes{
		List:   "get-all-users",
		Create: "create-user",
		Delete: "delete-user/{id}",
	})
	roles := remote.NewResource[models.Role, models.RoleDraft](c, "role", "", remote.Routes{
		List:   "get-all-roles",
		Create: "create-role",
		Delete: "delete-role/{id}",
	})
	return &Service{
		client: c,
		Users:  &UserAccessor{res: users, client: c},
		Roles:  &RoleAccessor{res: roles},
	}
}

// UserAccessor never sends a plaintext password on update: a new password
// is exchanged for a hash first, otherwise the stored hash is sent back.
type UserAccessor struct {
	res    *remote.Resource[models.User, models.UserDraft]
	client *remote.Client
}

func (a *UserAccessor) List(ctx context.Context) ([]models.User, error) {
	return a.res.List(ctx)
}

func (a *UserAccessor) Create(ctx context.Context, d models.UserDraft) (models.User, error) {
	if strings.TrimSpace(d.Password) == "" {
		return models.User{}, listing.Invalid("password", "Password is required for a new user")
	}
	body := userCreate{
		Username:     d.Username,
		PasswordHash: d.Password,
		RoleID:       d.RoleId,
		Email:        d.Email,
		IsAdmin:      d.IsAdmin,
	}
	var out models.User
	err := a.client.Do(ctx, "create user", http.MethodPost, a.client.URL(nil, "create-user"), body, &out)
	return out, err
}

// userCreate carries the plaintext password as passwordHash; the users
// service hashes it on create.
type userCreate struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	RoleID       int    `json:"roleId"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
}

type userUpdate struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	RoleID       int    `json:"roleId"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
}

func (a *UserAccessor) Update(ctx context.Context, id int, d models.UserDraft) (models.User, error) {
	var hash string
	if strings.TrimSpace(d.Password) != "" {
		h, err := a.Rehash(ctx, d.Username, d.Password)
		if err != nil {
			return models.User{}, err
		}
		hash = h
	} else {
		h, err := a.storedHash(ctx, id)
		if err != nil {
			return models.User{}, err
		}
		hash = h
	}

	body := userUpdate{
		ID:           id,
		Username:     d.Username,
		PasswordHash: hash,
		RoleID:       d.RoleId,
		Email:        d.Email,
		IsAdmin:      d.IsAdmin,
	}
	var out models.User
	err := a.client.Do(ctx, fmt.Sprintf("update user %d", id), http.MethodPut,
		a.client.URL(nil, "update-user", strconv.Itoa(id)), body, &out)
	return out, err
}

func (a *UserAccessor) Remove(ctx context.Context, id int) error {
	return a.res.Remove(ctx, id)
}

type rehashRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Rehash asks the users service for the hash of password. The hash comes
// back in the "message" field.
func (a *UserAccessor) Rehash(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := a.client.Do(ctx, "rehash password", http.MethodPost, a.client.URL(nil, "rehash-password"),
		rehashRequest{Username: username, Password: password}, &out)
	if err != nil {
		return "", err
	}
	if out.Message == "" {
		return "", fmt.Errorf("rehash password: empty hash in response")
	}
	return out.Message, nil
}

func (a *UserAccessor) storedHash(ctx context.Context, id int) (string, error) {
	all, err := a.res.List(ctx)
	if err != nil {
		return "", err
	}
	for _, u := range all {
		if u.Id == id {
			return u.PasswordHash, nil
		}
	}
	return "", &remote.Error{
		Op:         fmt.Sprintf("update user %d", id),
		Method:     http.MethodGet,
		URL:        a.client.URL(nil, "get-all-users"),
		StatusCode: http.StatusNotFound,
		Message:    "User not found",
	}
}

// RoleAccessor lists, creates and deletes roles. The users service has no
// rename endpoint.
type RoleAccessor struct {
	res *remote.Resource[models.Role, models.RoleDraft]
}

func (a *RoleAccessor) List(ctx context.Context) ([]models.Role, error) { return a.res.List(ctx) }

func (a *RoleAccessor) Create(ctx context.Context, d models.RoleDraft) (models.Role, error) {
	return a.res.Create(ctx, d)
}

func (a *RoleAccessor) Update(context.Context, int, models.RoleDraft) (models.Role, error) {
	return models.Role{}, listing.Invalid("name", "Roles cannot be renamed, create a new role instead")
}

func (a *RoleAccessor) Remove(ctx context.Context, id int) error { return a.res.Remove(ctx, id) }

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func UserDefinition(acc listing.Accessor[models.User, models.UserDraft]) listing.Definition[models.User, models.UserDraft] {
	return listing.Definition[models.User, models.UserDraft]{
		Name:     "user",
		PerPage:  3,
		Accessor: acc,
		ID:       func(u models.User) int { return u.Id },
		Draft: func(u models.User) models.UserDraft {
			return models.UserDraft{Username: u.Username, RoleId: u.RoleId, Email: u.Email, IsAdmin: u.IsAdmin}
		},
		Validate: func(d models.UserDraft) error {
			switch {
			case blank(d.Username):
				return listing.Invalid("username", "Username is required")
			case blank(d.Email):
				return listing.Invalid("email", "Email is required")
			case !strings.Contains(d.Email, "@"):
				return listing.Invalid("email", "Email is not valid")
			}
			return nil
		},
		Search:    func(u models.User) []string { return []string{u.Username, u.Email} },
		Summarize: func(items []models.User) any { return SummarizeUsers(items) },
		Snapshot: func(d models.UserDraft) any {
			d.Password = ""
			return d
		},
	}
}

type UserSummary struct {
	Count  int `json:"count"`
	Admins int `json:"admins"`
}

func SummarizeUsers(items []models.User) UserSummary {
	s := UserSummary{Count: len(items)}
	for _, u := range items {
		if u.IsAdmin {
			s.Admins++
		}
	}
	return s
}

func RoleDefinition(acc listing.Accessor[models.Role, models.RoleDraft]) listing.Definition[models.Role, models.RoleDraft] {
	return listing.Definition[models.Role, models.RoleDraft]{
		Name:     "role",
		PerPage:  5,
		Accessor: acc,
		ID:       func(r models.Role) int { return r.Id },
		Draft:    func(r models.Role) models.RoleDraft { return models.RoleDraft{Name: r.Name} },
		Validate: func(d models.RoleDraft) error {
			if blank(d.Name) {
				return listing.Invalid("name", "Role name is required")
			}
			return nil
		},
		Search: func(r models.Role) []string { return []string{r.Name} },
		Summarize: func(items []models.Role) any {
			return struct {
				Count int `json:"count"`
			}{len(items)}
		},
	}
}

// Assignments lists user-in-role mappings.
func (s *Service) Assignments(ctx context.Context) ([]models.UserInRole, error) {
	var out []models.UserInRole
	if err := s.client.Do(ctx, "list user roles", http.MethodGet, s.client.URL(nil, "get-all-user-in-roles"), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.UserInRole{}
	}
	return out, nil
}

type assignRequest struct {
	CurrentUserId int    `json:"CurrentUserId"`
	UserId        int    `json:"UserId"`
	RoleId        int    `json:"RoleId"`
	RoleName      string `json:"RoleName"`
}

// Assign gives userID the role roleID on behalf of currentUserID. An empty
// roleName is resolved from the role list.
func (s *Service) Assign(ctx context.Context, currentUserID, userID, roleID int, roleName string) error {
	if userID <= 0 || roleID <= 0 {
		return listing.Invalid("userId", "Select a user and a role")
	}
	if roleName == "" {
		roles, err := s.Roles.List(ctx)
		if err != nil {
			return err
		}
		for _, r := range roles {
			if r.Id == roleID {
				roleName = r.Name
			}
		}
		if roleName == "" {
			return listing.Invalid("roleId", "Unknown role")
		}
	}
	return s.client.Do(ctx, "assign role", http.MethodPost, s.client.URL(nil, "create-user-in-role"),
		assignRequest{CurrentUserId: currentUserID, UserId: userID, RoleId: roleID, RoleName: roleName}, nil)
}

// Unassign removes the mapping of userID to roleID.
func (s *Service) Unassign(ctx context.Context, currentUserID, userID, roleID int) error {
	if userID <= 0 || roleID <= 0 {
		return listing.Invalid("userId", "Select a user and a role")
	}
	q := url.Values{
		"userId":        {strconv.Itoa(userID)},
		"roleId":        {strconv.Itoa(roleID)},
		"currentUserId": {strconv.Itoa(currentUserID)},
	}
	return s.client.Do(ctx, "remove role", http.MethodDelete, s.client.URL(q, "delete-user-in-role"), nil, nil)
}
