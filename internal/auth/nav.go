package auth

import (
	"strings"

	"enku-backoffice/internal/session"
)

// Section is a role-gated area of the backoffice.
type Section string

const (
	SectionFinance   Section = "finance"
	SectionInventory Section = "inventory"
	SectionUsers     Section = "users"
	SectionReports   Section = "reports"
	SectionActivity  Section = "activity"
)

// requiredRole is the role a non-admin needs. An empty role means admins only.
var requiredRole = map[Section]string{
	SectionFinance:   "Finance",
	SectionInventory: "Inventory",
	SectionReports:   "Finance",
	SectionUsers:     "",
	SectionActivity:  "",
}

// CanSee reports whether ident may see a section that requires role.
func CanSee(ident session.Identity, role string) bool {
	if ident.IsAdmin {
		return true
	}
	return role != "" && strings.EqualFold(ident.Role, role)
}

// Allowed applies CanSee to a known section.
func Allowed(ident session.Identity, s Section) bool {
	role, ok := requiredRole[s]
	if !ok {
		return false
	}
	return CanSee(ident, role)
}

type NavLink struct {
	Label   string  `json:"label"`
	Href    string  `json:"href"`
	Section Section `json:"section,omitempty"`
}

// NavView is what the navigation bar renders.
type NavView struct {
	SignedIn bool      `json:"signed_in"`
	Username string    `json:"username,omitempty"`
	Role     string    `json:"role,omitempty"`
	IsAdmin  bool      `json:"is_admin"`
	Links    []NavLink `json:"links"`
}

var publicLinks = []NavLink{
	{Label: "Home", Href: "/"},
	{Label: "Products", Href: "/products"},
	{Label: "About", Href: "/about"},
}

var gatedLinks = []NavLink{
	{Label: "Finance", Href: "/finance", Section: SectionFinance},
	{Label: "Reports", Href: "/finance/report", Section: SectionReports},
	{Label: "Inventory", Href: "/inventory", Section: SectionInventory},
	{Label: "User Management", Href: "/user-management", Section: SectionUsers},
	{Label: "Activity", Href: "/activity", Section: SectionActivity},
}

// Nav derives the visible links for the session's current identity.
func Nav(s *session.Store) NavView {
	v := NavView{Links: append([]NavLink{}, publicLinks...)}
	ident, ok := s.Current()
	if !ok {
		return v
	}
	v.SignedIn = true
	v.Username = ident.Username
	v.Role = ident.Role
	v.IsAdmin = ident.IsAdmin
	for _, l := range gatedLinks {
		if Allowed(ident, l.Section) {
			v.Links = append(v.Links, l)
		}
	}
	return v
}
