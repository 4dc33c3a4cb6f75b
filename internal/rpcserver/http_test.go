package rpcserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DalavanCloud/subversion/authz"
	"github.com/DalavanCloud/subversion/internal/audit"
)

type memConfig struct {
	sections map[string][][2]string
}

func (c *memConfig) HasSection(name string) bool { _, ok := c.sections[name]; return ok }
func (c *memConfig) EnumerateSections(v authz.Visitor) {
	for name := range c.sections {
		if !v(name, "") {
			return
		}
	}
}
func (c *memConfig) EnumerateEntries(section string, v authz.Visitor) {
	for _, e := range c.sections[section] {
		if !v(e[0], e[1]) {
			return
		}
	}
}
func (c *memConfig) Get(section, key string) (string, bool) {
	for _, e := range c.sections[section] {
		if e[0] == key {
			return e[1], true
		}
	}
	return "", false
}

func testAuthz(t *testing.T) *authz.Authz {
	t.Helper()
	cfg := &memConfig{sections: map[string][][2]string{
		"/trunk": {{"alice", "r"}},
	}}
	a, err := authz.Load(cfg, nil, "test")
	require.NoError(t, err)
	return a
}

func doCheck(t *testing.T, h *Handler, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/check", bytes.NewBufferString(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerGrantsWithValidToken(t *testing.T) {
	authr := NewAuthenticator()
	tok, err := authr.IssueToken("alice", time.Minute)
	require.NoError(t, err)

	a := testAuthz(t)
	h := NewHandler(authr, func() *authz.Authz { return a }, audit.NoopSink{})

	rec := doCheck(t, h, tok, `{"repo":"","path":"/trunk","required":"r","recursive":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp checkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Allowed)
}

func TestHandlerRejectsMissingToken(t *testing.T) {
	authr := NewAuthenticator()
	a := testAuthz(t)
	h := NewHandler(authr, func() *authz.Authz { return a }, audit.NoopSink{})

	rec := doCheck(t, h, "", `{"path":"/trunk","required":"r"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerAllowsAnonymousWhenConfigured(t *testing.T) {
	authr := NewAuthenticator()
	authr.AllowAnonymous = true
	a := testAuthz(t)
	h := NewHandler(authr, func() *authz.Authz { return a }, audit.NoopSink{})

	rec := doCheck(t, h, "", `{"path":"/trunk","required":"r"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp checkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Allowed)
}

func TestHandlerRejectsBadRightsValue(t *testing.T) {
	authr := NewAuthenticator()
	tok, err := authr.IssueToken("alice", time.Minute)
	require.NoError(t, err)
	a := testAuthz(t)
	h := NewHandler(authr, func() *authz.Authz { return a }, audit.NoopSink{})

	rec := doCheck(t, h, tok, `{"path":"/trunk","required":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerRejectsGetMethod(t *testing.T) {
	authr := NewAuthenticator()
	a := testAuthz(t)
	h := NewHandler(authr, func() *authz.Authz { return a }, audit.NoopSink{})

	req := httptest.NewRequest(http.MethodGet, "/v1/check", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
