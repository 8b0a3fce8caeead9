package chat

import "testing"

func TestDraft_Advance_ZeroValueStartsAtTitle(t *testing.T) {
	next, reply, _ := Draft{}.Advance("Algebra")
	if next.Title != "Algebra" || next.Step != StepDescription {
		t.Errorf("next = %+v", next)
	}
	if reply == "" {
		t.Error("expected reply")
	}
}

func TestDraft_Advance_StoresDescription(t *testing.T) {
	next, _, _ := Draft{Title: "Algebra", Step: StepDescription}.Advance("Linear equations")
	if next.Description != "Linear equations" || next.Step != StepDetails {
		t.Errorf("next = %+v", next)
	}
}

func TestDraft_Advance_ConfirmWithoutYes(t *testing.T) {
	d := Draft{Title: "Algebra", Step: StepConfirm}

	next, reply, redirect := d.Advance("not now")
	if redirect != "" {
		t.Errorf("redirect = %q, want empty", redirect)
	}
	if reply != "No problem. You can access your new course anytime from your dashboard. Is there anything else you'd like to know about course creation?" {
		t.Errorf("reply = %q", reply)
	}
	if next.Step != StepConfirm {
		t.Errorf("Step = %d, want to stay at confirm", next.Step)
	}
}

func TestDraft_Advance_ConfirmYesIsCaseInsensitive(t *testing.T) {
	_, _, redirect := Draft{Step: StepConfirm}.Advance("YES!")
	if redirect != CreatedCourseRedirect {
		t.Errorf("redirect = %q, want %q", redirect, CreatedCourseRedirect)
	}
}
