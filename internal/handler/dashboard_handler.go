package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/eduportal/internal/authctx"
	"github.com/hitoshi/eduportal/internal/catalog"
	"github.com/hitoshi/eduportal/internal/chat"
	"github.com/hitoshi/eduportal/internal/guard"
	"github.com/hitoshi/eduportal/internal/model"
	"github.com/hitoshi/eduportal/internal/view"
)

// 一覧が空のときの表示
const (
	noEnrolledCourses = "No courses enrolled."
	noTaughtCourses   = "No courses found."
)

// recentAssignments はダッシュボード概要に表示する課題の件数。
const recentAssignments = 3

var (
	dashboardTabs      = []string{"overview", "courses", "assignments"}
	dashboardTabLabels = []string{"Overview", "My Courses", "Assignments"}

	courseTabs      = []string{"content", "chat", "participants"}
	courseTabLabels = []string{"Course Content", "Course Chat", "Participants"}
)

// DashboardHandler はダッシュボードとコース詳細のHTTPハンドラー。
type DashboardHandler struct {
	courses catalog.CourseSource
	chats   ChatServiceInterface
	pages   PageRenderer
	delays  ChatDelays
}

// NewDashboardHandler はDashboardHandlerを生成する。
func NewDashboardHandler(courses catalog.CourseSource, chats ChatServiceInterface, pages PageRenderer, delays ChatDelays) *DashboardHandler {
	return &DashboardHandler{
		courses: courses,
		chats:   chats,
		pages:   pages,
		delays:  delays,
	}
}

// Dashboard はロール別のダッシュボードを表示する。
// GET /dashboard?tab=overview|courses|assignments
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	u := st.User
	tabs, active := view.Tabs(guard.DashboardPath, r.URL.Query().Get("tab"), dashboardTabs, dashboardTabLabels)
	data := view.DashboardData{
		Professor: u.IsProfessor(),
		Tab:       active,
		Tabs:      tabs,
	}

	var err error
	if data.Professor {
		data.Courses, err = h.courses.TaughtCourses(r.Context(), u.ID)
		data.EmptyMessage = noTaughtCourses
		data.Assignments = catalog.ProfessorAssignments()
	} else {
		data.Courses, err = h.courses.EnrolledCourses(r.Context(), u.ID)
		data.EmptyMessage = noEnrolledCourses
		data.Assignments = catalog.StudentAssignments()
	}
	if err != nil {
		// 取得失敗時は空の一覧を表示する
		slog.Error("failed to fetch courses",
			slog.String("user_id", u.ID),
			slog.String("role", string(u.Role)),
			slog.String("error", err.Error()),
		)
		data.Courses = nil
	}

	data.Recent = data.Assignments
	if len(data.Recent) > recentAssignments {
		data.Recent = data.Recent[:recentAssignments]
	}
	data.Stats = dashboardStats(data.Professor, data.Courses, data.Assignments)

	nav := view.NavDashboard
	if active == "courses" {
		nav = view.NavCourses
	}
	h.pages.Render(w, http.StatusOK, view.PageDashboard, newPage(r, st, "Dashboard", nav, data))
}

func dashboardStats(professor bool, courses []model.CourseSummary, assignments []model.Assignment) []view.StatCard {
	if professor {
		return []view.StatCard{
			{Label: "Active Courses", Value: strconv.Itoa(catalog.ActiveCourseCount(courses))},
			{Label: "Total Students", Value: strconv.Itoa(catalog.TotalStudents(courses))},
			{Label: "Active Assignments", Value: strconv.Itoa(len(assignments))},
			{Label: "Submission Rate", Value: strconv.Itoa(catalog.SubmissionRate(assignments)) + "%"},
		}
	}
	overdue := catalog.OverdueCount(assignments)
	return []view.StatCard{
		{Label: "Enrolled Courses", Value: strconv.Itoa(len(courses))},
		{Label: "Pending Assignments", Value: strconv.Itoa(catalog.PendingCount(assignments))},
		{Label: "Overdue", Value: strconv.Itoa(overdue), Alert: overdue > 0},
		{Label: "Average Progress", Value: strconv.Itoa(catalog.AverageProgress(courses)) + "%"},
	}
}

// Course はコース詳細を表示する。未知のIDはダッシュボードへ戻す。
// GET /dashboard/courses/{id}?tab=content|chat|participants
func (h *DashboardHandler) Course(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	course, ok := catalog.Course(chi.URLParam(r, "id"))
	if !ok {
		guard.Redirect(w, r, guard.DashboardPath)
		return
	}

	base := coursePath(course.ID)
	tabs, active := view.Tabs(base, r.URL.Query().Get("tab"), courseTabs, courseTabLabels)
	data := view.CourseData{
		Course: course,
		Tab:    active,
		Tabs:   tabs,
	}
	for _, p := range course.Participants {
		if p.Role == "student" {
			data.Students = append(data.Students, p)
		} else {
			data.Staff = append(data.Staff, p)
		}
	}

	if active == "chat" {
		conv := chat.ForCourse(course, h.delays.Course, h.delays.General)
		data.Chat = courseChatData(course, base)
		data.Chat.Error = chatErrorMessages[r.URL.Query().Get("error")]
		messages, err := h.chats.Open(r.Context(), st.User.ID, conv)
		if err != nil {
			slog.Error("failed to load chat history",
				slog.String("user_id", st.User.ID),
				slog.String("conversation", conv.Name),
				slog.String("error", err.Error()),
			)
			data.Chat.Error = chatUnavailable
		}
		data.Chat.Messages = messages
	}

	h.pages.Render(w, http.StatusOK, view.PageCourse, newPage(r, st, course.Title, view.NavCourses, data))
}

func coursePath(id string) string {
	return guard.DashboardPath + "/courses/" + id
}

func courseChatData(course *model.Course, base string) view.ChatData {
	return view.ChatData{
		Heading:      "Course Chat Assistant",
		Description:  "Ask questions specific to " + course.Title,
		SendAction:   base + "/chat",
		UploadAction: base + "/upload",
		Placeholder:  "Ask about " + course.Title + "...",
	}
}
