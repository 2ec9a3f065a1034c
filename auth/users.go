package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Role is the permission level of an authenticated account.
type Role string

const (
	RoleNone   Role = ""
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// CanManageSettings reports whether r may change panel settings such as
// recipients and section toggles. Editors may only edit content.
func (r Role) CanManageSettings() bool { return r == RoleAdmin }

// CanEdit reports whether r may edit page content.
func (r Role) CanEdit() bool { return r == RoleAdmin || r == RoleEditor }

// Credential is a stored account record.
type Credential struct {
	Email        string
	PasswordHash []byte
	Role         Role
	RequiresCode bool
}

// Matches reports whether password matches the stored hash.
func (c Credential) Matches(password string) bool {
	return bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)) == nil
}

// UserLookup finds the credential record for an email.
type UserLookup interface {
	Lookup(email string) (Credential, bool)
}

// Account is the plain-text form of a StaticUsers entry.
type Account struct {
	Email        string
	Password     string
	Role         Role
	RequiresCode bool
}

// StaticUsers is a fixed in-memory UserLookup keyed by lowercase email.
type StaticUsers struct {
	users map[string]Credential
}

// NewStaticUsers hashes the account passwords with bcrypt. Accounts with an
// empty email or password are skipped.
func NewStaticUsers(accounts ...Account) (*StaticUsers, error) {
	return newStaticUsers(bcrypt.DefaultCost, accounts)
}

func newStaticUsers(cost int, accounts []Account) (*StaticUsers, error) {
	s := &StaticUsers{users: make(map[string]Credential, len(accounts))}
	for _, a := range accounts {
		email := normalizeEmail(a.Email)
		if email == "" || a.Password == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hashing password for %s: %w", email, err)
		}
		s.users[email] = Credential{
			Email:        email,
			PasswordHash: hash,
			Role:         a.Role,
			RequiresCode: a.RequiresCode,
		}
	}
	return s, nil
}

// Lookup implements UserLookup.
func (s *StaticUsers) Lookup(email string) (Credential, bool) {
	c, ok := s.users[normalizeEmail(email)]
	return c, ok
}

// Len returns the number of accounts.
func (s *StaticUsers) Len() int { return len(s.users) }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
