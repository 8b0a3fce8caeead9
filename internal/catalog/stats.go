package catalog

import (
	"math"

	"github.com/hitoshi/eduportal/internal/model"
)

// OverdueCount は期限切れの課題数を返す。
func OverdueCount(assignments []model.Assignment) int {
	n := 0
	for _, a := range assignments {
		if a.Status == model.AssignmentOverdue {
			n++
		}
	}
	return n
}

// PendingCount は未提出の課題数を返す。
func PendingCount(assignments []model.Assignment) int {
	n := 0
	for _, a := range assignments {
		if a.Status == model.AssignmentPending {
			n++
		}
	}
	return n
}

// AverageProgress はコース進捗の平均を四捨五入して返す。コースが無ければ0。
func AverageProgress(courses []model.CourseSummary) int {
	if len(courses) == 0 {
		return 0
	}
	sum := 0
	for _, c := range courses {
		sum += c.Progress
	}
	return int(math.Round(float64(sum) / float64(len(courses))))
}

// ActiveCourseCount は公開中のコース数を返す。
func ActiveCourseCount(courses []model.CourseSummary) int {
	n := 0
	for _, c := range courses {
		if c.Status == "active" {
			n++
		}
	}
	return n
}

// TotalStudents は全コースの受講者数の合計を返す。
func TotalStudents(courses []model.CourseSummary) int {
	n := 0
	for _, c := range courses {
		n += c.Students
	}
	return n
}

// SubmissionRate は課題の提出率（%）を四捨五入して返す。対象者が0なら0。
func SubmissionRate(assignments []model.Assignment) int {
	submitted, total := 0, 0
	for _, a := range assignments {
		submitted += a.Submissions
		total += a.Total
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(submitted) / float64(total) * 100))
}
