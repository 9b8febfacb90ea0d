package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFirebaseEndpoint is the Identity Toolkit REST base URL.
const DefaultFirebaseEndpoint = "https://identitytoolkit.googleapis.com/v1"

// Firebase talks to the Firebase Identity Toolkit REST API. Calls are not retried.
type Firebase struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   zerolog.Logger
}

// NewFirebase creates a client. An empty endpoint means DefaultFirebaseEndpoint,
// a nil client gets a 10s timeout.
func NewFirebase(apiKey, endpoint string, client *http.Client, logger zerolog.Logger) *Firebase {
	if endpoint == "" {
		endpoint = DefaultFirebaseEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Firebase{
		apiKey:   apiKey,
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   client,
		logger:   logger.With().Str("component", "auth").Str("provider", "firebase").Logger(),
	}
}

type firebaseRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type firebaseResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type firebaseError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn verifies an email and password.
func (f *Firebase) SignIn(ctx context.Context, email, password string) (*User, error) {
	if err := checkCredentials(OpSignIn, email, password); err != nil {
		return nil, err
	}
	return f.call(ctx, OpSignIn, "accounts:signInWithPassword", email, password)
}

// SignUp creates an account.
func (f *Firebase) SignUp(ctx context.Context, email, password string) (*User, error) {
	if err := checkCredentials(OpSignUp, email, password); err != nil {
		return nil, err
	}
	return f.call(ctx, OpSignUp, "accounts:signUp", email, password)
}

func (f *Firebase) call(ctx context.Context, op, method, email, password string) (*User, error) {
	body, err := json.Marshal(firebaseRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, &Error{Kind: KindOther, Op: op, Err: err}
	}

	u := fmt.Sprintf("%s/%s?key=%s", f.endpoint, method, url.QueryEscape(f.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindOther, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindOther, Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &Error{Kind: KindOther, Op: op, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var fe firebaseError
		if err := json.Unmarshal(data, &fe); err != nil || fe.Error.Message == "" {
			return nil, &Error{Kind: KindOther, Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
		}
		kind := kindFromCode(fe.Error.Message)
		f.logger.Debug().Str("op", op).Str("code", fe.Error.Message).Str("kind", string(kind)).Msg("provider rejected")
		return nil, &Error{Kind: kind, Op: op, Err: errors.New(fe.Error.Message)}
	}

	var fr firebaseResponse
	if err := json.Unmarshal(data, &fr); err != nil {
		return nil, &Error{Kind: KindOther, Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	if fr.Email == "" {
		fr.Email = email
	}
	return &User{ID: fr.LocalID, Email: fr.Email, IDToken: fr.IDToken, RefreshToken: fr.RefreshToken}, nil
}

// kindFromCode maps an Identity Toolkit error message to a kind. Messages may
// carry a detail suffix, as in "WEAK_PASSWORD : Password should be at least 6 characters".
func kindFromCode(message string) ErrorKind {
	code, _, _ := strings.Cut(message, " : ")
	code = strings.TrimSpace(code)

	switch ErrorKind(code) {
	case KindInvalidPassword, KindEmailNotFound, KindUserDisabled,
		KindWeakPassword, KindEmailExists, KindInvalidEmail:
		return ErrorKind(code)
	}
	switch code {
	case "INVALID_LOGIN_CREDENTIALS":
		return KindInvalidPassword
	case "MISSING_EMAIL", "MISSING_PASSWORD":
		return KindMissingCredentials
	}
	return KindOther
}
