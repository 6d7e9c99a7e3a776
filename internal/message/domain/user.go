package domain

// User 平台帳號，messaging core 只讀不寫
type User struct {
	ID       int64  `json:"-"`
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Email    string `json:"-"`
}
