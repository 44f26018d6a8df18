package models

// User as served by the users service. encoding/json matches keys
// case-insensitively, so both "Id" and "id" payloads decode.
type User struct {
	Id           int    `json:"Id"`
	Username     string `json:"Username"`
	PasswordHash string `json:"PasswordHash,omitempty"`
	RoleId       int    `json:"RoleId"`
	Email        string `json:"Email"`
	IsAdmin      bool   `json:"IsAdmin"`
	CreatedAt    string `json:"CreatedAt,omitempty"`
}

// UserDraft never carries a hash; Password is plaintext input that is
// exchanged for a hash through rehash-password before it leaves the server.
type UserDraft struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	RoleId   int    `json:"roleId"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

type Role struct {
	Id   int    `json:"Id"`
	Name string `json:"Name"`
}

type RoleDraft struct {
	Name string `json:"name"`
}

type UserInRole struct {
	UserId   int    `json:"UserId"`
	RoleId   int    `json:"RoleId"`
	RoleName string `json:"RoleName"`
}
