package console

import "strconv"

// EditMode selects which endpoints a session talks to. It is fixed when the
// session is created and never re-derived.
type EditMode int

const (
	// SelfEdit operates on the caller's own profile.
	SelfEdit EditMode = iota

	// AdminEdit operates on another user by explicit ID.
	AdminEdit
)

func (mode EditMode) String() string {
	if mode == AdminEdit {
		return "admin-edit"
	}

	return "self-edit"
}

// Notifier surfaces operation outcomes to the operator. Implementations
// typically present toasts; tests record the messages.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// SessionCallbacks binds a session to its embedding page. Refresh is invoked
// exactly once per successful submit; Close exactly once per logical close
// (explicit cancel or post-submit), never both for the same action twice.
type SessionCallbacks struct {
	Refresh func()
	Close   func()
}

// UserDraft is the locally held, editable copy of a user record while a
// session is open. The binding fields are display-only.
type UserDraft struct {
	Username    string
	Password    string
	DisplayName string
	Remark      string
	Group       string

	// Quota holds the raw text of the quota field. It is coerced to an
	// integer at preview and submit time; unparseable text counts as zero.
	Quota          string
	UnlimitedQuota bool

	GitHubID   string
	OIDCID     string
	WeChatID   string
	TelegramID string
	Email      string
}

func newUserDraft() UserDraft {
	return UserDraft{
		Group: "default",
		Quota: "0",
	}
}

// QuotaValue returns the draft quota coerced to an integer.
func (d UserDraft) QuotaValue() int {
	return parseQuota(d.Quota)
}

// applyUser overwrites the draft with a fetched record. Fields absent from
// the response keep their defaults. A fetched password is never carried into
// the form.
func (d *UserDraft) applyUser(user User) {
	d.Username = user.Username
	d.DisplayName = user.DisplayName
	d.Remark = user.Remark

	if user.Group != "" {
		d.Group = user.Group
	}

	d.Quota = strconv.Itoa(user.Quota)
	d.UnlimitedQuota = user.UnlimitedQuota

	d.GitHubID = user.GitHubID
	d.OIDCID = user.OIDCID
	d.WeChatID = user.WeChatID
	d.TelegramID = user.TelegramID
	d.Email = user.Email

	d.Password = ""
}

// updateReq converts the draft into the wire form of a user update.
func (d UserDraft) updateReq() UpdateUserReq {
	return UpdateUserReq{
		Username:       d.Username,
		Password:       d.Password,
		DisplayName:    d.DisplayName,
		Remark:         d.Remark,
		Group:          d.Group,
		Quota:          d.QuotaValue(),
		UnlimitedQuota: d.UnlimitedQuota,
	}
}
