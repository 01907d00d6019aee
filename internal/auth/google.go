// ABOUTME: Google sign-in via the OAuth authorization-code flow with PKCE.
// ABOUTME: Runs a one-shot loopback listener to receive the redirect.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// DefaultUserInfoURL is Google's OpenID Connect userinfo endpoint.
const DefaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleConfig configures SignInWithGoogle.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	// Endpoint defaults to Google's OAuth endpoints.
	Endpoint oauth2.Endpoint
	// UserInfoURL defaults to DefaultUserInfoURL.
	UserInfoURL string
	// ListenAddr is the loopback address for the redirect; defaults to 127.0.0.1:0.
	ListenAddr string
	// OpenURL presents the consent URL to the user.
	OpenURL func(url string) error
}

type callbackResult struct {
	code string
	err  error
}

type googleProfile struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// SignInWithGoogle runs the browser consent flow and signs the Google account in.
// Accounts are keyed by email, so a Google sign-in reaches an existing password account.
func (s *Service) SignInWithGoogle(ctx context.Context) (*Session, error) {
	g := s.google
	if g.ClientID == "" {
		return nil, newError(CodeConfigurationNotFound, errors.New("google client id is not set"))
	}
	if g.OpenURL == nil {
		return nil, newError(CodeConfigurationNotFound, errors.New("no way to open the consent page"))
	}
	if g.Endpoint.AuthURL == "" {
		g.Endpoint = endpoints.Google
	}
	if g.UserInfoURL == "" {
		g.UserInfoURL = DefaultUserInfoURL
	}
	if g.ListenAddr == "" {
		g.ListenAddr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", g.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen for oauth redirect: %w", err)
	}
	defer listener.Close()

	conf := &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		Endpoint:     g.Endpoint,
		RedirectURL:  fmt.Sprintf("http://%s/callback", listener.Addr().String()),
		Scopes:       []string{"openid", "email"},
	}

	state, err := newState()
	if err != nil {
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()

	results := make(chan callbackResult, 1)
	server := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() { _ = server.Serve(listener) }()
	defer func() { _ = server.Close() }()

	authURL := conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	if err := g.OpenURL(authURL); err != nil {
		return nil, fmt.Errorf("open consent page: %w", err)
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-results:
	}
	if res.err != nil {
		return nil, res.err
	}

	token, err := conf.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, newError(CodeNetworkRequestFailed, fmt.Errorf("exchange code: %w", err))
	}

	profile, err := fetchProfile(ctx, conf.Client(ctx, token), g.UserInfoURL)
	if err != nil {
		return nil, err
	}

	// Accounts are linked by email, so an unverified address must not sign in.
	if !profile.EmailVerified {
		return nil, newError(CodeInvalidEmail, errors.New("google email not verified"))
	}

	email, err := normalizeEmail(profile.Email)
	if err != nil {
		return nil, err
	}

	a, err := s.accounts.byEmail(ctx, email)
	if errors.Is(err, errAccountNotFound) {
		a = &account{UID: uuid.New().String(), Email: email, Provider: providerGoogle}
		if err := s.accounts.insert(ctx, a, s.now()); err != nil {
			return nil, err
		}
		s.logger.Info("account created", "uid", a.UID, "provider", providerGoogle)
	} else if err != nil {
		return nil, err
	}

	return s.startSession(User{UID: a.UID, Email: a.Email})
}

func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var res callbackResult
		switch {
		case q.Get("state") != state:
			res.err = errors.New("oauth state mismatch")
		case q.Get("error") != "":
			res.err = fmt.Errorf("google sign-in refused: %s", q.Get("error"))
		case q.Get("code") == "":
			res.err = errors.New("oauth callback missing code")
		default:
			res.code = q.Get("code")
		}

		if res.err != nil {
			http.Error(w, "Sign-in failed. You can close this window.", http.StatusBadRequest)
		} else {
			_, _ = w.Write([]byte("Signed in to timetrack. You can close this window.\n"))
		}

		select {
		case results <- res:
		default:
		}
	})
	return mux
}

func fetchProfile(ctx context.Context, client *http.Client, url string) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, newError(CodeNetworkRequestFailed, fmt.Errorf("fetch userinfo: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newError(CodeNetworkRequestFailed, fmt.Errorf("userinfo returned %s", resp.Status))
	}

	var p googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if strings.TrimSpace(p.Email) == "" {
		return nil, newError(CodeInvalidEmail, errors.New("google profile has no email"))
	}
	return &p, nil
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
