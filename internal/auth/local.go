package auth

import (
	"context"
	"net/mail"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength matches the Identity Toolkit rule.
const MinPasswordLength = 6

type localAccount struct {
	id       string
	email    string
	hash     []byte
	disabled bool
}

// Local keeps accounts in process memory. Used for development and tests.
type Local struct {
	mu       sync.Mutex
	accounts map[string]*localAccount
	cost     int
}

// NewLocal creates an empty Local provider. cost 0 means bcrypt.DefaultCost.
func NewLocal(cost int) *Local {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Local{accounts: make(map[string]*localAccount), cost: cost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers an account.
func (l *Local) SignUp(_ context.Context, email, password string) (*User, error) {
	if err := checkCredentials(OpSignUp, email, password); err != nil {
		return nil, err
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return nil, &Error{Kind: KindInvalidEmail, Op: OpSignUp}
	}
	if len(password) < MinPasswordLength {
		return nil, &Error{Kind: KindWeakPassword, Op: OpSignUp}
	}

	key := normalizeEmail(addr.Address)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return nil, &Error{Kind: KindOther, Op: OpSignUp, Err: err}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.accounts[key]; ok {
		return nil, &Error{Kind: KindEmailExists, Op: OpSignUp}
	}
	acct := &localAccount{id: uuid.NewString(), email: key, hash: hash}
	l.accounts[key] = acct
	return &User{ID: acct.id, Email: acct.email}, nil
}

// SignIn checks the password against the stored hash.
func (l *Local) SignIn(_ context.Context, email, password string) (*User, error) {
	if err := checkCredentials(OpSignIn, email, password); err != nil {
		return nil, err
	}

	l.mu.Lock()
	acct, ok := l.accounts[normalizeEmail(email)]
	l.mu.Unlock()
	if !ok {
		return nil, &Error{Kind: KindEmailNotFound, Op: OpSignIn}
	}
	if err := bcrypt.CompareHashAndPassword(acct.hash, []byte(password)); err != nil {
		return nil, &Error{Kind: KindInvalidPassword, Op: OpSignIn}
	}
	if acct.disabled {
		return nil, &Error{Kind: KindUserDisabled, Op: OpSignIn}
	}
	return &User{ID: acct.id, Email: acct.email}, nil
}

// Disable blocks future sign-ins for email. Returns false if no such account exists.
func (l *Local) Disable(email string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.accounts[normalizeEmail(email)]
	if ok {
		acct.disabled = true
	}
	return ok
}
