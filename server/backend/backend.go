// Package backend holds the in-memory state of the fixture server.
package backend

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/libregate/go-console-api"
)

type Backend struct {
	accounts   map[int]*account
	nextUserID int
	accLock    sync.RWMutex

	tokens    map[string]int
	tokenLock sync.RWMutex

	groups    []string
	groupLock sync.RWMutex
}

type account struct {
	user     console.User
	password string
	admin    bool
}

func New(groups ...string) *Backend {
	return &Backend{
		accounts: make(map[int]*account),
		tokens:   make(map[string]int),
		groups:   groups,
	}
}

// CreateUser registers an account and returns its ID. Usernames are unique.
func (b *Backend) CreateUser(username, password string, admin bool) (int, error) {
	b.accLock.Lock()
	defer b.accLock.Unlock()

	for _, acc := range b.accounts {
		if acc.user.Username == username {
			return 0, fmt.Errorf("username %q is already taken", username)
		}
	}

	b.nextUserID++

	b.accounts[b.nextUserID] = &account{
		user: console.User{
			ID:       b.nextUserID,
			Username: username,
			Group:    "default",
		},
		password: password,
		admin:    admin,
	}

	return b.nextUserID, nil
}

func (b *Backend) RemoveUser(userID int) error {
	b.accLock.Lock()
	defer b.accLock.Unlock()

	if _, ok := b.accounts[userID]; !ok {
		return fmt.Errorf("no such user %v", userID)
	}

	delete(b.accounts, userID)

	return nil
}

// Login checks the credentials and issues an access token.
func (b *Backend) Login(username, password string) (string, int, error) {
	b.accLock.RLock()
	defer b.accLock.RUnlock()

	for userID, acc := range b.accounts {
		if acc.user.Username != username {
			continue
		}

		if acc.password != password {
			return "", 0, fmt.Errorf("invalid credentials")
		}

		token := uuid.NewString()

		b.tokenLock.Lock()
		b.tokens[token] = userID
		b.tokenLock.Unlock()

		return token, userID, nil
	}

	return "", 0, fmt.Errorf("invalid credentials")
}

// VerifyAuth resolves an access token to a user ID.
func (b *Backend) VerifyAuth(token string) (int, error) {
	b.tokenLock.RLock()
	defer b.tokenLock.RUnlock()

	userID, ok := b.tokens[token]
	if !ok {
		return 0, fmt.Errorf("no such token")
	}

	return userID, nil
}

func (b *Backend) IsAdmin(userID int) bool {
	b.accLock.RLock()
	defer b.accLock.RUnlock()

	acc, ok := b.accounts[userID]

	return ok && acc.admin
}

func (b *Backend) GetGroups() []string {
	b.groupLock.RLock()
	defer b.groupLock.RUnlock()

	return slices.Clone(b.groups)
}

func (b *Backend) AddGroup(name string) {
	b.groupLock.Lock()
	defer b.groupLock.Unlock()

	if !slices.Contains(b.groups, name) {
		b.groups = append(b.groups, name)
	}
}

// GetUsers returns all accounts sorted by ID.
func (b *Backend) GetUsers() []console.User {
	b.accLock.RLock()
	defer b.accLock.RUnlock()

	accounts := maps.Values(b.accounts)

	slices.SortFunc(accounts, func(a, b *account) bool {
		return a.user.ID < b.user.ID
	})

	users := make([]console.User, 0, len(accounts))

	for _, acc := range accounts {
		users = append(users, acc.user)
	}

	return users
}
