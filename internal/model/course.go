package model

// CourseSummary はダッシュボードに表示するコースの概要。
// 学生向けには Instructor と Progress、教員向けには Students と Status を使う。
type CourseSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Instructor string `json:"instructor,omitempty"`
	Progress   int    `json:"progress,omitempty"`
	Students   int    `json:"students,omitempty"`
	Status     string `json:"status,omitempty"`
}

// 課題ステータス
const (
	AssignmentCompleted = "completed"
	AssignmentPending   = "pending"
	AssignmentOverdue   = "overdue"
)

// Assignment は課題を表す。
type Assignment struct {
	ID          string
	Title       string
	Course      string
	DueDate     string
	Status      string
	Submissions int
	Total       int
}

// Material はモジュール内の教材を表す。
type Material struct {
	ID    string
	Title string
	Type  string
	URL   string
}

// Module はコース内のモジュールを表す。
type Module struct {
	ID          string
	Title       string
	Description string
	Materials   []Material
}

// Participant はコースの参加者を表す。
type Participant struct {
	ID   string
	Name string
	Role string
}

// Course はコース詳細を表す。
type Course struct {
	ID           string
	Title        string
	Description  string
	Instructor   string
	Modules      []Module
	Participants []Participant
}
