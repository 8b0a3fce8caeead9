package model

// Notifications は通知設定を表す。
type Notifications struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// Profile はユーザープロフィールを表す。
type Profile struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Bio           string        `json:"bio"`
	Department    string        `json:"department"`
	Phone         string        `json:"phone"`
	Notifications Notifications `json:"notifications"`
}
