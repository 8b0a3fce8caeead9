package catalog

import (
	"context"

	"github.com/hitoshi/eduportal/internal/model"
)

// CourseSource はユーザーのコース一覧を取得する。
// apiclient.Client はこのインターフェースを満たす。
type CourseSource interface {
	EnrolledCourses(ctx context.Context, userID string) ([]model.CourseSummary, error)
	TaughtCourses(ctx context.Context, userID string) ([]model.CourseSummary, error)
}

// MockSource は組み込みデータを返すCourseSource。
type MockSource struct{}

// EnrolledCourses は学生向けのモックコース一覧を返す。
func (MockSource) EnrolledCourses(context.Context, string) ([]model.CourseSummary, error) {
	return append([]model.CourseSummary(nil), studentCourses...), nil
}

// TaughtCourses は教員向けのモックコース一覧を返す。
func (MockSource) TaughtCourses(context.Context, string) ([]model.CourseSummary, error) {
	return append([]model.CourseSummary(nil), professorCourses...), nil
}
