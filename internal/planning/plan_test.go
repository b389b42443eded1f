package planning_test

import (
	"strings"
	"testing"

	"github.com/jgalan247/schemeofLearning/internal/curriculum"
	"github.com/jgalan247/schemeofLearning/internal/planning"
)

func testSpec() curriculum.Specification {
	return curriculum.Specification{
		ID:             "ocr-ks4-computer-science",
		Name:           "OCR GCSE Computer Science (J277)",
		Code:           "J277",
		AssessmentInfo: "Paper 1 | Paper 2",
		Years: map[string][]curriculum.Topic{
			"Year 10": {
				{ID: "t-1.1", Title: "1.1 Systems Architecture", Subtopics: []string{"CPU", "FDE cycle"}, SuggestedWeeks: 4},
				{ID: "t-1.2", Title: "1.2 Memory and Storage", Subtopics: []string{"RAM", "ROM", "Virtual memory", "Units"}, SuggestedWeeks: 8},
			},
		},
	}
}

func TestNew_SeedsTopicsFromSpecYear(t *testing.T) {
	p := planning.New(testSpec(), "Year 10", "2025-26")

	if len(p.Topics) != 2 {
		t.Fatalf("len(Topics) = %d, want 2", len(p.Topics))
	}
	for i, topic := range p.Topics {
		if !topic.Enabled {
			t.Errorf("topic %d should start enabled", i)
		}
	}
	if p.Topics[1].SuggestedWeeks != 8 {
		t.Errorf("SuggestedWeeks = %d, want 8", p.Topics[1].SuggestedWeeks)
	}
	if p.NextUnitID != 1 || p.NextLessonID != 1 {
		t.Errorf("counters = (%d, %d), want (1, 1)", p.NextUnitID, p.NextLessonID)
	}
}

func TestNew_DefaultsZeroWeeks(t *testing.T) {
	spec := curriculum.Specification{
		Years: map[string][]curriculum.Topic{
			"Year 10": {{ID: "x", Title: "X"}},
		},
	}
	p := planning.New(spec, "Year 10", "2025-26")
	if p.Topics[0].SuggestedWeeks != 4 {
		t.Errorf("SuggestedWeeks = %d, want default 4", p.Topics[0].SuggestedWeeks)
	}
}

func TestTotalTeachingWeeks_SkipsDisabled(t *testing.T) {
	p := planning.New(testSpec(), "Year 10", "2025-26")
	if got := p.TotalTeachingWeeks(); got != 12 {
		t.Fatalf("TotalTeachingWeeks() = %d, want 12", got)
	}

	p, ok := p.ToggleTopic("t-1.1")
	if !ok {
		t.Fatal("ToggleTopic(t-1.1) not found")
	}
	if got := p.TotalTeachingWeeks(); got != 8 {
		t.Errorf("TotalTeachingWeeks() after disable = %d, want 8", got)
	}
	if len(p.Topics) != 2 {
		t.Errorf("disabled topic should remain visible, len = %d", len(p.Topics))
	}
}

func TestAddCustomTopic(t *testing.T) {
	p := planning.NewCustom("Year 10", "2025-26")
	p = p.AddCustomTopic("  Introduction to Python loops ", 3)

	if len(p.Topics) != 1 {
		t.Fatalf("len(Topics) = %d, want 1", len(p.Topics))
	}
	topic := p.Topics[0]
	if !topic.IsCustom || !topic.Enabled {
		t.Errorf("custom topic flags = (custom=%v, enabled=%v)", topic.IsCustom, topic.Enabled)
	}
	if topic.Title != "Introduction to Python loops" {
		t.Errorf("Title = %q, want trimmed title", topic.Title)
	}
	if !strings.HasPrefix(topic.ID, "custom-") {
		t.Errorf("ID = %q, want custom- prefix", topic.ID)
	}
	if topic.SuggestedWeeks != 3 {
		t.Errorf("SuggestedWeeks = %d, want 3", topic.SuggestedWeeks)
	}
}

func TestMoveTopic(t *testing.T) {
	p := planning.New(testSpec(), "Year 10", "2025-26")
	p, ok := p.MoveTopic(1, 0)
	if !ok {
		t.Fatal("MoveTopic(1, 0) failed")
	}
	if p.Topics[0].ID != "t-1.2" || p.Topics[1].ID != "t-1.1" {
		t.Errorf("order after move = [%s %s]", p.Topics[0].ID, p.Topics[1].ID)
	}

	if _, ok := p.MoveTopic(0, 5); ok {
		t.Error("MoveTopic out of range should fail")
	}
}

func TestTransitions_DoNotMutateReceiver(t *testing.T) {
	p := planning.New(testSpec(), "Year 10", "2025-26")
	_, _ = p.ToggleTopic("t-1.1")
	_, _ = p.SetTopicWeeks("t-1.2", 1)

	if !p.Topics[0].Enabled {
		t.Error("ToggleTopic mutated the original plan")
	}
	if p.Topics[1].SuggestedWeeks != 8 {
		t.Error("SetTopicWeeks mutated the original plan")
	}
}

func TestGenerateUnits(t *testing.T) {
	p := planning.New(testSpec(), "Year 10", "2025-26")
	p = p.GenerateUnits()

	if len(p.Units) != 2 {
		t.Fatalf("len(Units) = %d, want 2", len(p.Units))
	}
	first := p.Units[0]
	if first.ID != 1 || first.TopicID != "t-1.1" {
		t.Errorf("first unit = id %d, topic %q", first.ID, first.TopicID)
	}
	if first.Duration != "4 weeks" {
		t.Errorf("Duration = %q, want %q", first.Duration, "4 weeks")
	}
	if first.TermPosition != "Autumn 1" || p.Units[1].TermPosition != "Autumn 2" {
		t.Errorf("term positions = %q, %q", first.TermPosition, p.Units[1].TermPosition)
	}
	if !strings.Contains(first.KeyObjectives, "CPU") {
		t.Errorf("KeyObjectives should derive from subtopics, got %q", first.KeyObjectives)
	}
}

func TestGenerateUnits_SkipsDisabledAndCyclesTerms(t *testing.T) {
	p := planning.NewCustom("Year 10", "2025-26")
	for i := 0; i < 8; i++ {
		p = p.AddCustomTopic("Topic", 2)
	}
	p, _ = p.ToggleTopic(p.Topics[0].ID)
	p = p.GenerateUnits()

	if len(p.Units) != 7 {
		t.Fatalf("len(Units) = %d, want 7 (disabled topic skipped)", len(p.Units))
	}
	if p.Units[6].TermPosition != "Autumn 1" {
		t.Errorf("7th unit term = %q, want cycle back to Autumn 1", p.Units[6].TermPosition)
	}
}

func TestAddUnit_IDsMonotonic(t *testing.T) {
	p := planning.NewCustom("Year 10", "2025-26")
	p = p.AddUnit("Networks", "5 weeks")
	p = p.AddUnit("Security", "4 weeks")
	p, _ = p.RemoveUnit(2)
	p = p.AddUnit("Algorithms", "6 weeks")

	// Ids never reuse a removed value.
	if p.Units[1].ID != 3 {
		t.Errorf("new unit id = %d, want 3", p.Units[1].ID)
	}
}

func TestRemoveUnit_CascadesLessons(t *testing.T) {
	p := planning.NewCustom("Year 10", "2025-26")
	p = p.AddUnit("Networks", "5 weeks")
	p = p.AddUnit("Security", "4 weeks")
	p, _, _ = p.AddLesson(1)
	p, _, _ = p.AddLesson(1)
	p, kept, _ := p.AddLesson(2)

	p, ok := p.RemoveUnit(1)
	if !ok {
		t.Fatal("RemoveUnit(1) failed")
	}
	if len(p.Lessons) != 1 {
		t.Fatalf("len(Lessons) = %d, want 1 after cascade", len(p.Lessons))
	}
	if p.Lessons[0].ID != kept.ID {
		t.Errorf("surviving lesson id = %d, want %d", p.Lessons[0].ID, kept.ID)
	}
}

func TestAddLesson_WeekNumbering(t *testing.T) {
	p := planning.NewCustom("Year 10", "2025-26")
	p = p.AddUnit("Networks", "5 weeks")
	p = p.AddUnit("Security", "4 weeks")

	p, l1, ok := p.AddLesson(1)
	if !ok {
		t.Fatal("AddLesson(1) failed")
	}
	if l1.WeekNumber != 1 {
		t.Errorf("first lesson week = %d, want 1", l1.WeekNumber)
	}

	p, l2, _ := p.AddLesson(1)
	if l2.WeekNumber != 2 {
		t.Errorf("second lesson week = %d, want 2", l2.WeekNumber)
	}

	// Week numbers are scoped per unit: both units may have a week 1.
	_, l3, _ := p.AddLesson(2)
	if l3.WeekNumber != 1 {
		t.Errorf("other unit first week = %d, want 1", l3.WeekNumber)
	}
	if l3.ID != 3 {
		t.Errorf("lesson ids are global, got %d, want 3", l3.ID)
	}
}

func TestAddLesson_UnknownUnit(t *testing.T) {
	p := planning.NewCustom("Year 10", "2025-26")
	if _, _, ok := p.AddLesson(42); ok {
		t.Error("AddLesson on unknown unit should fail")
	}
}

func TestUnitLessons_SortedByWeek(t *testing.T) {
	p := planning.NewCustom("Year 10", "2025-26")
	p = p.AddUnit("Networks", "5 weeks")
	p, a, _ := p.AddLesson(1)
	p, b, _ := p.AddLesson(1)

	// Swap the stored week numbers so list order differs from week order.
	a.WeekNumber, b.WeekNumber = 5, 2
	p, _ = p.UpdateLesson(a)
	p, _ = p.UpdateLesson(b)

	lessons := p.UnitLessons(1)
	if len(lessons) != 2 {
		t.Fatalf("len = %d, want 2", len(lessons))
	}
	if lessons[0].WeekNumber != 2 || lessons[1].WeekNumber != 5 {
		t.Errorf("weeks = [%d %d], want [2 5]", lessons[0].WeekNumber, lessons[1].WeekNumber)
	}
}

func TestDurationWeeks(t *testing.T) {
	tests := []struct {
		in   string
		def  int
		want int
	}{
		{"6 weeks", 6, 6},
		{"12 weeks", 6, 12},
		{" 4 weeks ", 6, 4},
		{"abc", 6, 6},
		{"", 6, 6},
		{"weeks 5", 6, 6},
		{"3", 6, 3},
	}
	for _, tt := range tests {
		if got := planning.DurationWeeks(tt.in, tt.def); got != tt.want {
			t.Errorf("DurationWeeks(%q, %d) = %d, want %d", tt.in, tt.def, got, tt.want)
		}
	}
}
