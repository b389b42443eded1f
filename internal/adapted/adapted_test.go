package adapted_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jgalan247/schemeofLearning/internal/adapted"
	"github.com/jgalan247/schemeofLearning/internal/planning"
)

func populatedPlan(t *testing.T) planning.Plan {
	t.Helper()
	p := planning.NewCustom("Year 10", "2026-2027")
	p = p.AddCustomTopic("Systems architecture", 4)
	p = p.GenerateUnits()

	var lesson planning.Lesson
	var ok bool
	p, lesson, ok = p.AddLesson(p.Units[0].ID)
	if !ok {
		t.Fatal("AddLesson failed")
	}
	lesson.FocusTopic = "The CPU"
	lesson.KeyActivities = "Label a diagram"
	lesson.Assessment = "Exit quiz"
	lesson.Differentiation.Support = "Word bank"
	p, _ = p.UpdateLesson(lesson)
	return p
}

func TestFormat_RoundTripsIdentifyingKeys(t *testing.T) {
	p := populatedPlan(t)
	doc := adapted.Format(p)

	data, err := adapted.Encode(doc)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var back adapted.Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(back.Lessons) != 1 {
		t.Fatalf("lessons = %d, want 1", len(back.Lessons))
	}
	l := back.Lessons[0]
	if l.ID != p.Lessons[0].ID {
		t.Errorf("id = %d, want %d", l.ID, p.Lessons[0].ID)
	}
	if l.UnitID != p.Lessons[0].UnitID {
		t.Errorf("unitId = %d, want %d", l.UnitID, p.Lessons[0].UnitID)
	}
	if l.WeekNumber != 1 {
		t.Errorf("weekNumber = %d, want 1", l.WeekNumber)
	}
	if l.UnitTitle != "Systems architecture" {
		t.Errorf("unitTitle = %q", l.UnitTitle)
	}
	if l.ExistingDifferentiation.Support != "Word bank" {
		t.Errorf("support = %q", l.ExistingDifferentiation.Support)
	}
}

func TestFormat_DanglingUnitGivesEmptyTitle(t *testing.T) {
	p := populatedPlan(t)
	p.Lessons = append(p.Lessons, planning.Lesson{ID: 50, UnitID: 999, WeekNumber: 3})

	doc := adapted.Format(p)
	if len(doc.Lessons) != 2 {
		t.Fatalf("lessons = %d, want 2 (dangling lesson kept)", len(doc.Lessons))
	}
	if doc.Lessons[1].UnitTitle != "" {
		t.Errorf("unitTitle = %q, want empty for dangling unitId", doc.Lessons[1].UnitTitle)
	}
}

func TestFormat_CustomSpecificationName(t *testing.T) {
	p := planning.Plan{YearGroup: "Year 9"}
	doc := adapted.Format(p)
	if doc.Metadata.Specification != "Custom" {
		t.Errorf("specification = %q, want Custom", doc.Metadata.Specification)
	}
}

func TestEncode_TwoSpaceIndent(t *testing.T) {
	data, err := adapted.Encode(adapted.Format(populatedPlan(t)))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(string(data), "\n  \"metadata\"") {
		t.Error("output should be indented with two spaces")
	}
}

func TestValidate(t *testing.T) {
	data, err := adapted.Encode(adapted.Format(populatedPlan(t)))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := adapted.Validate(data); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_RejectsMissingKeys(t *testing.T) {
	bad := []byte(`{"metadata": {"specification": "X", "yearGroup": "Y", "exportDate": "Z"}, "lessons": [{"id": 1}], "units": []}`)
	if err := adapted.Validate(bad); err == nil {
		t.Error("Validate() should reject a lesson missing unitId and weekNumber")
	}
}

func TestFilename(t *testing.T) {
	p := planning.NewCustom("Year 10", "2026-2027")
	now := time.UnixMilli(1700000000000)
	got := adapted.Filename(p, now)
	want := "adapted_lessons_Year_10_1700000000000.json"
	if got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}

func TestReport(t *testing.T) {
	p := populatedPlan(t)
	report := adapted.Report(p, []string{"adhd", "anxiety", "unknown"})

	if len(report.ConditionOverview) != 2 {
		t.Fatalf("conditionOverview = %d, want 2", len(report.ConditionOverview))
	}
	if report.ConditionOverview[0].Condition != "ADHD" {
		t.Errorf("first condition = %q", report.ConditionOverview[0].Condition)
	}
	if len(report.ConditionOverview[0].GeneralStrategies) != 8 {
		t.Errorf("adhd strategies = %d, want 8", len(report.ConditionOverview[0].GeneralStrategies))
	}

	if len(report.LessonAdaptations) != 1 {
		t.Fatalf("lessonAdaptations = %d, want 1", len(report.LessonAdaptations))
	}
	la := report.LessonAdaptations[0]
	if la.Unit != "Systems architecture" || la.Week != 1 {
		t.Errorf("lesson adaptation = %+v", la)
	}

	adhd := la.Adaptations["adhd"]
	if len(adhd.SpecificSuggestions) != 1 || !strings.Contains(adhd.SpecificSuggestions[0], "10-minute segments") {
		t.Errorf("adhd suggestions = %v", adhd.SpecificSuggestions)
	}
	anxiety := la.Adaptations["anxiety"]
	if len(anxiety.SpecificSuggestions) != 1 || !strings.Contains(anxiety.SpecificSuggestions[0], "take-home") {
		t.Errorf("anxiety suggestions = %v", anxiety.SpecificSuggestions)
	}
	if _, ok := la.Adaptations["unknown"]; ok {
		t.Error("unknown condition should be skipped")
	}
}
