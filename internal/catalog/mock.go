// Package catalog はダッシュボードに表示するコース・課題データを提供する。
// バックエンドAPIが未設定の場合は組み込みのモックデータを使う。
package catalog

import "github.com/hitoshi/eduportal/internal/model"

var studentCourses = []model.CourseSummary{
	{ID: "1", Title: "Introduction to Computer Science", Instructor: "Dr. Smith", Progress: 65},
	{ID: "2", Title: "Calculus I", Instructor: "Dr. Johnson", Progress: 42},
	{ID: "3", Title: "Physics 101", Instructor: "Dr. Williams", Progress: 78},
}

var studentAssignments = []model.Assignment{
	{ID: "1", Title: "Programming Assignment 1", Course: "Introduction to Computer Science", DueDate: "2023-04-15", Status: model.AssignmentCompleted},
	{ID: "2", Title: "Problem Set 3", Course: "Calculus I", DueDate: "2023-04-20", Status: model.AssignmentPending},
	{ID: "3", Title: "Lab Report 2", Course: "Physics 101", DueDate: "2023-04-10", Status: model.AssignmentOverdue},
}

var professorCourses = []model.CourseSummary{
	{ID: "1", Title: "Introduction to Computer Science", Students: 45, Status: "active"},
	{ID: "2", Title: "Advanced Programming", Students: 32, Status: "active"},
	{ID: "3", Title: "Data Structures", Students: 28, Status: "draft"},
}

var professorAssignments = []model.Assignment{
	{ID: "1", Title: "Programming Assignment 1", Course: "Introduction to Computer Science", DueDate: "2023-04-15", Submissions: 40, Total: 45},
	{ID: "2", Title: "Final Project", Course: "Advanced Programming", DueDate: "2023-04-30", Submissions: 15, Total: 32},
	{ID: "3", Title: "Quiz 2", Course: "Introduction to Computer Science", DueDate: "2023-04-10", Submissions: 42, Total: 45},
}

const stanfordLecture = "https://web.stanford.edu/class/cs110/lectures/cs110-win2122-lecture-1.pdf"

var courses = map[string]model.Course{
	"5": {
		ID:          "5",
		Title:       "Introduction to Computer Science",
		Description: "This course provides a comprehensive introduction to computer science, covering fundamental concepts, programming basics, and problem-solving techniques.",
		Instructor:  "Dr. Smith",
		Modules: []model.Module{
			{
				ID:          "m1",
				Title:       "Module 1: Introduction to Programming",
				Description: "Learn the basics of programming concepts and syntax.",
				Materials: []model.Material{
					{ID: "m1-1", Title: "Lecture 1: Programming Fundamentals", Type: "pdf", URL: "https://learning-asu.simplesyllabus.com/api2/doc-pdf/po83vht0c/Fall-C-2024-CSE-110-6765-.pdf"},
					{ID: "m1-2", Title: "Lecture 2: Variables and Data Types", Type: "pdf", URL: stanfordLecture},
					{ID: "m1-3", Title: "Programming Exercise 1", Type: "quiz", URL: stanfordLecture},
				},
			},
			{
				ID:          "m2",
				Title:       "Module 2: Control Structures",
				Description: "Understand how to control program flow with conditionals and loops.",
				Materials: []model.Material{
					{ID: "m2-1", Title: "Lecture 3: Conditional Statements", Type: "pdf", URL: stanfordLecture},
					{ID: "m2-2", Title: "Lecture 4: Loops and Iterations", Type: "video", URL: stanfordLecture},
					{ID: "m2-3", Title: "Programming Exercise 2", Type: "quiz", URL: stanfordLecture},
				},
			},
		},
		Participants: []model.Participant{
			{ID: "p1", Name: "Dr. Smith", Role: "professor"},
			{ID: "p2", Name: "Alice Johnson", Role: "ta"},
			{ID: "p3", Name: "John Student", Role: "student"},
			{ID: "p4", Name: "Emma Wilson", Role: "student"},
			{ID: "p5", Name: "Michael Brown", Role: "student"},
		},
	},
	"6": {
		ID:          "6",
		Title:       "Calculus I",
		Description: "An introduction to differential and integral calculus, covering limits, derivatives, and basic integration techniques.",
		Instructor:  "Dr. Johnson",
		Modules: []model.Module{
			{
				ID:          "m1",
				Title:       "Module 1: Limits and Continuity",
				Description: "Understanding the concept of limits and continuity of functions.",
				Materials: []model.Material{
					{ID: "m1-1", Title: "Lecture 1: Introduction to Limits", Type: "pdf"},
					{ID: "m1-2", Title: "Lecture 2: Continuity", Type: "pdf"},
					{ID: "m1-3", Title: "Problem Set 1", Type: "quiz"},
				},
			},
			{
				ID:          "m2",
				Title:       "Module 2: Derivatives",
				Description: "Learn how to find derivatives and apply them to real-world problems.",
				Materials: []model.Material{
					{ID: "m2-1", Title: "Lecture 3: Definition of Derivative", Type: "pdf"},
					{ID: "m2-2", Title: "Lecture 4: Rules of Differentiation", Type: "video"},
					{ID: "m2-3", Title: "Problem Set 2", Type: "quiz"},
				},
			},
		},
		Participants: []model.Participant{
			{ID: "p1", Name: "Dr. Johnson", Role: "professor"},
			{ID: "p2", Name: "Robert Lee", Role: "ta"},
			{ID: "p3", Name: "John Student", Role: "student"},
			{ID: "p4", Name: "Sarah Parker", Role: "student"},
			{ID: "p5", Name: "David Miller", Role: "student"},
		},
	},
}

// Course はコース詳細を返す。未知のIDは false を返す。
func Course(id string) (*model.Course, bool) {
	c, ok := courses[id]
	if !ok {
		return nil, false
	}
	return &c, true
}

// StudentAssignments は学生向けの課題一覧を返す。
func StudentAssignments() []model.Assignment {
	return append([]model.Assignment(nil), studentAssignments...)
}

// ProfessorAssignments は教員向けの課題一覧を返す。
func ProfessorAssignments() []model.Assignment {
	return append([]model.Assignment(nil), professorAssignments...)
}
