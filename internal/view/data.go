package view

import (
	"net/url"

	"github.com/hitoshi/eduportal/internal/model"
)

// Tab はタブ切り替えのリンク。
type Tab struct {
	Name   string
	Label  string
	URL    string
	Active bool
}

// Tabs はクエリパラメータ tab で切り替えるタブ一覧を作る。
// current が候補に無い場合は先頭を選択する。
func Tabs(base string, current string, names, labels []string) ([]Tab, string) {
	active := names[0]
	for _, n := range names {
		if n == current {
			active = n
		}
	}

	tabs := make([]Tab, len(names))
	for i, n := range names {
		u := base
		if i > 0 {
			u = base + "?" + url.Values{"tab": {n}}.Encode()
		}
		tabs[i] = Tab{Name: n, Label: labels[i], URL: u, Active: n == active}
	}
	return tabs, active
}

// ProviderLink はログインページのサインインボタン。
type ProviderLink struct {
	Name  string
	Label string
	URL   string
}

// HomeData はトップページのデータ。
type HomeData struct {
	Year int
}

// LoginData はログインページのデータ。
type LoginData struct {
	Providers []ProviderLink
	Error     string
}

// RoleSelectionData はロール選択ページのデータ。
type RoleSelectionData struct {
	Selected model.Role
	Error    string
}

// StatCard はダッシュボードの集計カード。
type StatCard struct {
	Label string
	Value string
	Alert bool
}

// DashboardData はダッシュボードのデータ。
type DashboardData struct {
	Professor    bool
	Tab          string
	Tabs         []Tab
	Stats        []StatCard
	Courses      []model.CourseSummary
	EmptyMessage string
	Recent       []model.Assignment
	Assignments  []model.Assignment
}

// ChatData はチャット画面のデータ。
type ChatData struct {
	Heading      string
	Description  string
	Messages     []model.Message
	SendAction   string
	UploadAction string
	Placeholder  string
	Error        string
}

// CourseData はコース詳細ページのデータ。
type CourseData struct {
	Course   *model.Course
	Tab      string
	Tabs     []Tab
	Chat     ChatData
	Staff    []model.Participant
	Students []model.Participant
}

// ProfileData はプロフィールページのデータ。
type ProfileData struct {
	Profile model.Profile
	Editing bool
	Tab     string
	Tabs    []Tab
	Error   string
	Saved   bool
}
