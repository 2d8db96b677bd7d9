package models

// Role is the authenticated principal's role in the marketplace.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Principal is the authenticated identity attached to a request by the
// auth middleware. Identity management itself lives outside this service;
// we only consume the token's subject and role claims.
type Principal struct {
	ID   string
	Role Role
}
