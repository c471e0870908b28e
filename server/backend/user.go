package backend

import (
	"fmt"

	"github.com/libregate/go-console-api"
)

func (b *Backend) GetUser(userID int) (console.User, error) {
	b.accLock.RLock()
	defer b.accLock.RUnlock()

	acc, ok := b.accounts[userID]
	if !ok {
		return console.User{}, fmt.Errorf("no such user %v", userID)
	}

	user := acc.user

	// Passwords are write-only.
	user.Password = ""

	return user, nil
}

// UpdateUser applies an update to the given account. An empty password keeps
// the current one; an empty username is rejected.
func (b *Backend) UpdateUser(userID int, req console.UpdateUserReq) error {
	b.accLock.Lock()
	defer b.accLock.Unlock()

	acc, ok := b.accounts[userID]
	if !ok {
		return fmt.Errorf("no such user %v", userID)
	}

	if req.Username == "" {
		return fmt.Errorf("username must not be empty")
	}

	for otherID, other := range b.accounts {
		if otherID != userID && other.user.Username == req.Username {
			return fmt.Errorf("username %q is already taken", req.Username)
		}
	}

	acc.user.Username = req.Username
	acc.user.DisplayName = req.DisplayName
	acc.user.Remark = req.Remark

	if req.Group != "" {
		acc.user.Group = req.Group
	}

	acc.user.Quota = req.Quota
	acc.user.UnlimitedQuota = req.UnlimitedQuota

	if req.Password != "" {
		acc.password = req.Password
	}

	return nil
}

func (b *Backend) SetUserQuota(userID, quota int) error {
	b.accLock.Lock()
	defer b.accLock.Unlock()

	acc, ok := b.accounts[userID]
	if !ok {
		return fmt.Errorf("no such user %v", userID)
	}

	acc.user.Quota = quota

	return nil
}

// SetUserBindings sets the read-only binding fields of the given account.
func (b *Backend) SetUserBindings(userID int, github, oidc, wechat, telegram, email string) error {
	b.accLock.Lock()
	defer b.accLock.Unlock()

	acc, ok := b.accounts[userID]
	if !ok {
		return fmt.Errorf("no such user %v", userID)
	}

	acc.user.GitHubID = github
	acc.user.OIDCID = oidc
	acc.user.WeChatID = wechat
	acc.user.TelegramID = telegram
	acc.user.Email = email

	return nil
}
