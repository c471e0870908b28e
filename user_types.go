package console

// User is a user record as returned by the API. The binding fields
// (GitHubID, OIDCID, WeChatID, TelegramID, Email) are read-only; they are
// managed through the account binding flows, not through user updates.
type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Password    string `json:"password,omitempty"`
	DisplayName string `json:"display_name"`
	Remark      string `json:"remark"`

	Group          string `json:"group"`
	Quota          int    `json:"quota"`
	UnlimitedQuota bool   `json:"unlimited_quota"`

	GitHubID   string `json:"github_id"`
	OIDCID     string `json:"oidc_id"`
	WeChatID   string `json:"wechat_id"`
	TelegramID string `json:"telegram_id"`
	Email      string `json:"email"`
}

// UpdateUserReq is the body of a user update. An empty password means
// "do not change". ID is only set for admin updates of another user.
type UpdateUserReq struct {
	ID          int    `json:"id,omitempty"`
	Username    string `json:"username"`
	Password    string `json:"password,omitempty"`
	DisplayName string `json:"display_name"`
	Remark      string `json:"remark"`

	Group          string `json:"group"`
	Quota          int    `json:"quota"`
	UnlimitedQuota bool   `json:"unlimited_quota"`
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Auth is issued by a successful login.
type Auth struct {
	UserID int    `json:"user_id"`
	Token  string `json:"token"`
}
