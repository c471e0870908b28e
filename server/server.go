// Package server implements an in-memory console API server used as a test
// fixture for the client library.
package server

import (
	"net/http/httptest"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/gin-gonic/gin"
	"github.com/libregate/go-console-api/server/backend"

	"github.com/libregate/go-console-api"
)

type Server struct {
	// r is the gin router.
	r *gin.Engine

	// s is the underlying server.
	s *httptest.Server

	// b is the server backend, which manages accounts, tokens and groups.
	b *backend.Backend

	// callWatchers records calls received by the server.
	callWatchers     []callWatcher
	callWatchersLock sync.RWMutex

	// minAppVersion is the minimum app version that the server will accept.
	minAppVersion *semver.Version

	// offline is whether to pretend the server is offline and return 5xx errors.
	offline bool
}

func New(opts ...Option) *Server {
	builder := newServerBuilder()

	for _, opt := range opts {
		opt.config(builder)
	}

	return builder.build()
}

func (s *Server) GetHostURL() string {
	return s.s.URL
}

// AddCallWatcher registers a callback that receives every call made to the
// given paths (all paths if none are given).
func (s *Server) AddCallWatcher(fn func(Call), paths ...string) {
	s.callWatchersLock.Lock()
	defer s.callWatchersLock.Unlock()

	s.callWatchers = append(s.callWatchers, newCallWatcher(fn, paths...))
}

// CreateUser creates a regular user account and returns its ID.
func (s *Server) CreateUser(username, password string) (int, error) {
	return s.b.CreateUser(username, password, false)
}

// CreateAdmin creates an administrator account and returns its ID.
func (s *Server) CreateAdmin(username, password string) (int, error) {
	return s.b.CreateUser(username, password, true)
}

func (s *Server) RemoveUser(userID int) error {
	return s.b.RemoveUser(userID)
}

// GetUser returns the stored record of the given user.
func (s *Server) GetUser(userID int) (console.User, error) {
	return s.b.GetUser(userID)
}

// SetUserQuota overwrites the stored quota of the given user.
func (s *Server) SetUserQuota(userID, quota int) error {
	return s.b.SetUserQuota(userID, quota)
}

// SetUserBindings sets the read-only binding fields of the given user.
func (s *Server) SetUserBindings(userID int, github, oidc, wechat, telegram, email string) error {
	return s.b.SetUserBindings(userID, github, oidc, wechat, telegram, email)
}

// AddGroup registers an additional selectable group.
func (s *Server) AddGroup(name string) {
	s.b.AddGroup(name)
}

// SetMinAppVersion makes the server reject clients reporting an older app version.
func (s *Server) SetMinAppVersion(version *semver.Version) {
	s.minAppVersion = version
}

// SetOffline makes the server pretend to be offline, returning 503 for every call.
func (s *Server) SetOffline(offline bool) {
	s.offline = offline
}

func (s *Server) Close() {
	s.s.Close()
}
