package console

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrSessionBusy is returned when an operation is rejected because another
// one is still in flight for the same session.
var ErrSessionBusy = errors.New("another operation is already in flight")

// ErrUsernameRequired is returned when a draft is submitted without a username.
var ErrUsernameRequired = errors.New("username must not be empty")

// UserEditSession owns one open/fetch/edit/submit/close cycle over a single
// user record. The mode (self vs admin) is fixed at construction and routes
// both the fetch and the submit.
//
// Fetches triggered by Open complete asynchronously; each one carries the
// session epoch current at the time it was issued. Close bumps the epoch, so
// a fetch that resolves after the session was closed is dropped instead of
// being applied to a torn-down draft.
type UserEditSession struct {
	c *Client

	mode   EditMode
	userID int

	notifier Notifier
	refresh  func()
	onClose  func()

	adjuster *QuotaAdjuster

	panicHandler PanicHandler

	// loading gates fetch-on-open against submit, and submit against itself.
	loading atomicBool

	// epoch identifies the current open cycle; stale fetch results carry an
	// older value and are ignored.
	epoch atomicUint64

	lock   sync.RWMutex
	open   bool
	draft  UserDraft
	groups []GroupOption
}

// NewSelfEditSession returns a session operating on the caller's own profile.
func NewSelfEditSession(c *Client, notifier Notifier, callbacks SessionCallbacks) *UserEditSession {
	return newUserEditSession(c, SelfEdit, 0, notifier, callbacks)
}

// NewAdminEditSession returns a session operating on the user with the given
// ID. The client must be authenticated as an administrator.
func NewAdminEditSession(c *Client, userID int, notifier Notifier, callbacks SessionCallbacks) *UserEditSession {
	return newUserEditSession(c, AdminEdit, userID, notifier, callbacks)
}

func newUserEditSession(c *Client, mode EditMode, userID int, notifier Notifier, callbacks SessionCallbacks) *UserEditSession {
	if notifier == nil {
		notifier = nopNotifier{}
	}

	s := &UserEditSession{
		c: c,

		mode:   mode,
		userID: userID,

		notifier: notifier,
		refresh:  callbacks.Refresh,
		onClose:  callbacks.Close,

		panicHandler: NoopPanicHandler{},

		draft: newUserDraft(),
	}

	s.adjuster = &QuotaAdjuster{session: s}

	return s
}

// Open resets the draft to its defaults and fetches the user record for this
// session's mode. In admin mode it also fetches the selectable groups; the
// two fetches are independent and may complete in any order.
//
// Both fetches resolve asynchronously; Loading reports false once the record
// fetch has settled. Fetch failures are surfaced through the notifier and
// leave the session open with the draft at its defaults.
func (s *UserEditSession) Open(ctx context.Context) {
	epoch := s.epoch.Add(1)

	s.lock.Lock()
	s.open = true
	s.draft = newUserDraft()
	s.groups = nil
	s.lock.Unlock()

	s.loading.Store(true)

	NewFuture(s.panicHandler, func() (User, error) {
		if s.mode == AdminEdit {
			return s.c.GetUser(ctx, s.userID)
		}

		return s.c.GetSelfUser(ctx)
	}).Then(func(user User, err error) {
		// The epoch must be re-read in the same critical section as the draft
		// write; checking it beforehand would let a concurrent Close slip in
		// between the check and the write.
		s.lock.Lock()
		stale := s.epoch.Load() != epoch

		if !stale && err == nil {
			s.draft.applyUser(user)
		}

		// When stale against a reopened session, a newer fetch owns the
		// loading flag; otherwise this one has settled.
		if !stale || !s.open {
			s.loading.Store(false)
		}
		s.lock.Unlock()

		if stale {
			logrus.WithFields(logrus.Fields{
				"pkg":  "go-console-api",
				"mode": s.mode,
			}).Debug("Dropping stale user fetch")

			return
		}

		if err != nil {
			s.notifier.Error(err.Error())
		}
	})

	if s.mode == AdminEdit {
		NewFuture(s.panicHandler, func() ([]GroupOption, error) {
			return s.c.GetGroupOptions(ctx)
		}).Then(func(options []GroupOption, err error) {
			s.lock.Lock()
			stale := s.epoch.Load() != epoch

			if !stale && err == nil {
				s.groups = options
			}
			s.lock.Unlock()

			if stale {
				return
			}

			if err != nil {
				s.notifier.Error(err.Error())
			}
		})
	}
}

// Mode returns the session's edit mode.
func (s *UserEditSession) Mode() EditMode {
	return s.mode
}

// Loading reports whether a fetch or submit is still in flight. Embedding
// pages disable the submit control while this is true.
func (s *UserEditSession) Loading() bool {
	return s.loading.Load()
}

// IsOpen reports whether the session is open.
func (s *UserEditSession) IsOpen() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.open
}

// Draft returns a copy of the current draft.
func (s *UserEditSession) Draft() UserDraft {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.draft
}

// Groups returns the selectable group options. Always empty in self-edit mode.
func (s *UserEditSession) Groups() []GroupOption {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.groups
}

// Adjuster returns the session's quota adjustment modal.
func (s *UserEditSession) Adjuster() *QuotaAdjuster {
	return s.adjuster
}

func (s *UserEditSession) SetUsername(username string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.draft.Username = username
}

func (s *UserEditSession) SetPassword(password string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.draft.Password = password
}

func (s *UserEditSession) SetDisplayName(displayName string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.draft.DisplayName = displayName
}

func (s *UserEditSession) SetRemark(remark string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.draft.Remark = remark
}

func (s *UserEditSession) SetGroup(group string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.draft.Group = group
}

// SetQuota stores the raw quota text. It does not touch the unlimited flag,
// even when that leaves the two inconsistent; the form only re-normalizes on
// the next toggle.
func (s *UserEditSession) SetQuota(text string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.draft.Quota = text
}

// SetUnlimitedQuota toggles the unlimited flag. Turning it on zeroes the
// quota in the same critical section, so no reader observes the flag set
// against a stale quota.
func (s *UserEditSession) SetUnlimitedQuota(on bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.draft.UnlimitedQuota = on

	if on {
		s.draft.Quota = "0"
	}
}

// QuotaValue returns the current draft quota coerced to an integer.
func (s *UserEditSession) QuotaValue() int {
	return s.Draft().QuotaValue()
}

// Submit sends the draft to the endpoint selected by the session's mode. It
// is rejected with ErrSessionBusy while a fetch or another submit is still in
// flight. On success the operator is notified, the embedding page's Refresh
// is invoked and the session closes. On failure the message is surfaced and
// the session stays open with the draft untouched, so the operator can retry
// without re-entering data.
func (s *UserEditSession) Submit(ctx context.Context) error {
	if s.loading.Swap(true) {
		return ErrSessionBusy
	}
	defer s.loading.Store(false)

	s.lock.RLock()
	draft := s.draft
	s.lock.RUnlock()

	if draft.Username == "" {
		s.notifier.Error(ErrUsernameRequired.Error())

		return ErrUsernameRequired
	}

	req := draft.updateReq()

	var err error

	if s.mode == AdminEdit {
		req.ID = s.userID
		err = s.c.UpdateUser(ctx, req)
	} else {
		err = s.c.UpdateSelfUser(ctx, req)
	}

	if err != nil {
		s.notifier.Error(err.Error())

		return err
	}

	s.notifier.Success("User updated successfully")

	if s.refresh != nil {
		s.refresh()
	}

	s.close()

	return nil
}

// Close discards the draft and dismisses the embedding UI. A fetch still in
// flight for this session is dropped when it eventually resolves.
func (s *UserEditSession) Close() {
	s.close()
}

func (s *UserEditSession) close() {
	s.epoch.Add(1)

	s.lock.Lock()
	wasOpen := s.open
	s.open = false
	s.draft = UserDraft{}
	s.groups = nil
	s.lock.Unlock()

	if wasOpen && s.onClose != nil {
		s.onClose()
	}
}
