package chat

import (
	"fmt"
	"strings"
)

// CreatedCourseRedirect はコース作成完了後に遷移する先。
const CreatedCourseRedirect = "/dashboard?tab=courses"

// コース作成の進行段階
const (
	StepTitle = iota + 1
	StepDescription
	StepDetails
	StepConfirm
)

// Draft はコース作成アシスタントの入力途中の状態。
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Step        int    `json:"step"`
}

// Advance は入力を受けて次の状態と応答文を返す。
// 最終段階で "yes" を含む入力があれば redirect に遷移先を返す。
func (d Draft) Advance(input string) (next Draft, reply, redirect string) {
	next = d
	if next.Step < StepTitle {
		next.Step = StepTitle
	}

	switch next.Step {
	case StepTitle:
		next.Title = input
		next.Step = StepDescription
		return next, fmt.Sprintf("Great! Your course will be titled \"%s\". Now, please provide a brief description of the course.", input), ""
	case StepDescription:
		next.Description = input
		next.Step = StepDetails
		return next, "Thanks for the description. Would you like to upload any initial course materials or syllabus? You can also type any additional details about your course structure.", ""
	case StepDetails:
		next.Step = StepConfirm
		return next, fmt.Sprintf("Perfect! I've created your new course \"%s\". You can now add modules, assignments, and invite students. Would you like to view your new course now?", next.Title), ""
	default:
		if strings.Contains(strings.ToLower(input), "yes") {
			return next, "Great! I'll redirect you to your new course page in a moment.", CreatedCourseRedirect
		}
		return next, "No problem. You can access your new course anytime from your dashboard. Is there anything else you'd like to know about course creation?", ""
	}
}
