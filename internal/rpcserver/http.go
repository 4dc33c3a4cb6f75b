// Package rpcserver exposes the authz engine over the network: a
// JWT-protected JSON query endpoint, and the standard gRPC health
// service for process-level liveness.
package rpcserver

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	log "github.com/golang/glog"

	"github.com/DalavanCloud/subversion/authz"
	"github.com/DalavanCloud/subversion/internal/audit"
)

var (
	errNoToken      = errors.New("rpcserver: no bearer token provided")
	errInvalidToken = errors.New("rpcserver: invalid bearer token")
)

// Claims is the JWT payload this server issues and verifies, trimmed
// to the one field this engine needs: authz identities come entirely
// from the rules file, not from token roles.
type Claims struct {
	Username string `json:"username"`
	jwt.StandardClaims
}

// Authenticator verifies a bearer token and extracts the username
// claim, or nil for an anonymous request when no token is presented
// and AllowAnonymous is set.
type Authenticator struct {
	secret         []byte
	AllowAnonymous bool
}

// NewAuthenticator generates a fresh, process-lifetime random HMAC
// secret rather than reading one from configuration.
func NewAuthenticator() *Authenticator {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("rpcserver: failed to generate JWT secret: " + err.Error())
	}
	return &Authenticator{secret: secret}
}

// IssueToken mints a bearer token for username, valid for ttl.
func (a *Authenticator) IssueToken(username string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Username: username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) authenticate(r *http.Request) (*string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if a.AllowAnonymous {
			return nil, nil
		}
		return nil, errNoToken
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")

	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errInvalidToken
	}
	return &claims.Username, nil
}

type checkRequest struct {
	Repo      string  `json:"repo"`
	Path      *string `json:"path"`
	Required  string  `json:"required"`
	Recursive bool    `json:"recursive"`
}

type checkResponse struct {
	Allowed bool `json:"allowed"`
}

// Handler serves POST /v1/check against whatever *authz.Authz current
// returns, so a caller backed by reload.Watcher always queries the
// most recently published rules.
type Handler struct {
	auth    *Authenticator
	current func() *authz.Authz
	sink    audit.Sink
}

// NewHandler builds the query endpoint. sink may be audit.NoopSink{}.
func NewHandler(auth *Authenticator, current func() *authz.Authz, sink audit.Sink) *Handler {
	return &Handler{auth: auth, current: current, sink: sink}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := h.auth.authenticate(r)
	if err != nil {
		log.V(1).Infof("rpcserver: authentication failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	required, err := authz.ParseRights(req.Required)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a := h.current()
	allowed, err := a.CheckAccess(req.Repo, req.Path, user, required, req.Recursive)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.recordAudit(r.Context(), req, user, allowed)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(checkResponse{Allowed: allowed})
}

func (h *Handler) recordAudit(ctx context.Context, req checkRequest, user *string, allowed bool) {
	if h.sink == nil {
		return
	}
	u := ""
	if user != nil {
		u = *user
	}
	p := ""
	if req.Path != nil {
		p = *req.Path
	}
	if err := h.sink.Record(ctx, audit.Decision{
		Repo: req.Repo, Path: p, User: u,
		Required: req.Required, Recursive: req.Recursive, Allowed: allowed,
	}); err != nil {
		log.Warningf("rpcserver: audit record failed: %v", err)
	}
}

