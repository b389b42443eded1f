// Package export renders planning state into a Scheme of Learning
// workbook: a half-term overview, a weekly overview, lesson-by-lesson
// plans, and an optional adaptations guide driven by the selected SEN
// conditions. Rendering is a pure function of its inputs; data-shape
// irregularities (empty subtopics, unparsable durations, dangling unit
// references) are resolved locally and never fail the export.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jgalan247/schemeofLearning/internal/conditions"
	"github.com/jgalan247/schemeofLearning/internal/planning"
)

// Worksheet names, in workbook order.
const (
	SheetLTP   = "LTP - Half Term Overview"
	SheetMTP   = "MTP - Weekly Overview"
	SheetSTP   = "STP - Lesson Plans"
	SheetGuide = "Adaptations Guide"
)

const (
	weeksPerHalfTerm     = 6
	defaultDurationWeeks = 6
)

// Filename derives the download name from the plan's year group and
// academic year, with spaces replaced by underscores.
func Filename(plan planning.Plan) string {
	year := strings.ReplaceAll(plan.YearGroup, " ", "_")
	return fmt.Sprintf("Scheme_of_Learning_%s_%s.xlsx", year, plan.AcademicYear)
}

// Export builds the workbook. Three sheets are always present; the
// Adaptations Guide is appended only when at least one known condition
// id is selected. Unknown condition ids are skipped.
func Export(plan planning.Plan, conditionIDs []string) (*excelize.File, error) {
	selected := selectedConditions(conditionIDs)

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetLTP); err != nil {
		return nil, fmt.Errorf("naming %s: %w", SheetLTP, err)
	}
	sheets := []struct {
		name   string
		rows   [][]any
		widths []float64
	}{
		{SheetLTP, ltpRows(plan), []float64{12, 40, 15, 10, 50, 25, 25}},
		{SheetMTP, mtpRows(plan), []float64{30, 8, 25, 40, 40, 35, 20, 20}},
		{SheetSTP, stpRows(plan, selected), stpWidths(len(selected))},
	}
	if len(selected) > 0 {
		sheets = append(sheets, struct {
			name   string
			rows   [][]any
			widths []float64
		}{SheetGuide, guideRows(plan, selected), []float64{50, 40}})
	}

	for _, s := range sheets {
		if s.name != SheetLTP {
			if _, err := f.NewSheet(s.name); err != nil {
				return nil, fmt.Errorf("creating %s: %w", s.name, err)
			}
		}
		if err := writeSheet(f, s.name, s.rows, s.widths); err != nil {
			return nil, err
		}
	}

	idx, err := f.GetSheetIndex(SheetLTP)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	return f, nil
}

func writeSheet(f *excelize.File, name string, rows [][]any, widths []float64) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", name, i+1, err)
		}
	}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, col, col, w); err != nil {
			return fmt.Errorf("sizing %s column %s: %w", name, col, err)
		}
	}
	return nil
}

func selectedConditions(ids []string) []conditions.Condition {
	var out []conditions.Condition
	for _, id := range ids {
		if c, ok := conditions.Lookup(id); ok {
			out = append(out, c)
		}
	}
	return out
}

// ltpRows builds the half-term overview: metadata, one row per enabled
// topic bucketed greedily into the six half-terms, then a fixed six-row
// year summary.
func ltpRows(plan planning.Plan) [][]any {
	topics := plan.EnabledTopics()

	rows := [][]any{
		{"LONG-TERM PLAN (LTP) - HALF-TERM OVERVIEW"},
		{},
		{"Specification:", plan.SpecName},
		{"Year Group:", plan.YearGroup},
		{"Academic Year:", plan.AcademicYear},
		{"Total Teaching Weeks:", plan.TotalTeachingWeeks()},
		{},
		{"Assessment:", plan.AssessmentInfo},
		{},
		{"Half-Term", "Unit/Topic", "Spec Ref", "Duration", "Key Content", "Assessment Focus", "Resources"},
	}

	// Greedy bucketing: the cursor only moves forward, and overflow in
	// Summer 2 is absorbed rather than dropped.
	term := 0
	weeksInTerm := 0
	for i, t := range topics {
		if weeksInTerm >= weeksPerHalfTerm && term < len(planning.HalfTerms)-1 {
			term++
			weeksInTerm = 0
		}
		u := unitForTopic(plan, t.ID, i)
		rows = append(rows, []any{
			planning.HalfTerms[term],
			t.Title,
			t.ID,
			fmt.Sprintf("%d weeks", t.SuggestedWeeks),
			keyContent(t.Subtopics),
			u.AssessmentFocus,
			u.Resources,
		})
		weeksInTerm += t.SuggestedWeeks
	}

	rows = append(rows,
		[]any{},
		[]any{"YEAR OVERVIEW"},
		[]any{},
		[]any{"Half-Term", "Topics Covered", "Total Weeks"},
	)
	for _, ht := range planning.HalfTerms {
		var titles []string
		weeks := 0
		for _, u := range plan.Units {
			if u.TermPosition == ht {
				titles = append(titles, u.UnitTitle)
				weeks += planning.DurationWeeks(u.Duration, 0)
			}
		}
		covered := strings.Join(titles, ", ")
		if covered == "" {
			covered = "-"
		}
		var weeksCell any = weeks
		if weeks == 0 {
			weeksCell = "-"
		}
		rows = append(rows, []any{ht, covered, weeksCell})
	}
	return rows
}

// unitForTopic matches a unit to a topic by topicId, falling back to
// positional alignment, falling back to an empty unit. The fallback can
// misattribute assessment/resources when topics and units diverge in
// order; only column presence is guaranteed.
func unitForTopic(plan planning.Plan, topicID string, index int) planning.Unit {
	for _, u := range plan.Units {
		if u.TopicID == topicID {
			return u
		}
	}
	if index < len(plan.Units) {
		return plan.Units[index]
	}
	return planning.Unit{}
}

func keyContent(subtopics []string) string {
	if len(subtopics) <= 3 {
		return strings.Join(subtopics, "; ")
	}
	return strings.Join(subtopics[:3], "; ") + "..."
}

// mtpRows builds the weekly overview: a header block per unit followed
// by its lessons in week order, or placeholder rows covering the full
// duration when no lessons exist yet.
func mtpRows(plan planning.Plan) [][]any {
	rows := [][]any{
		{"MEDIUM-TERM PLAN (MTP) - WEEKLY OVERVIEW"},
		{},
		{"Specification:", plan.SpecName},
		{"Year Group:", plan.YearGroup},
		{},
		{"Unit", "Week", "Topic/Focus", "Learning Objectives", "Key Activities", "Differentiation", "Assessment", "Homework"},
	}

	for _, u := range plan.Units {
		rows = append(rows,
			[]any{},
			[]any{fmt.Sprintf("UNIT: %s", u.UnitTitle), "", fmt.Sprintf("Term: %s", u.TermPosition), fmt.Sprintf("Duration: %s", u.Duration)},
			[]any{"Key Objectives:", u.KeyObjectives},
			[]any{"Prior Learning:", u.PriorLearning},
			[]any{"Key Vocabulary:", u.KeyVocabulary},
			[]any{},
		)

		lessons := plan.UnitLessons(u.ID)
		if len(lessons) == 0 {
			for week := 1; week <= planning.DurationWeeks(u.Duration, defaultDurationWeeks); week++ {
				rows = append(rows, []any{u.UnitTitle, fmt.Sprintf("Week %d", week), "", "", "", "", "", ""})
			}
			continue
		}
		for _, l := range lessons {
			rows = append(rows, []any{
				u.UnitTitle,
				fmt.Sprintf("Week %d", l.WeekNumber),
				l.FocusTopic,
				l.LearningObjectives,
				l.KeyActivities,
				differentiationCell(l.Differentiation),
				l.Assessment,
				l.Homework,
			})
		}
	}
	return rows
}

func differentiationCell(d planning.Differentiation) string {
	return fmt.Sprintf("Stretch: %s\nSupport: %s\nSEN: %s",
		orDash(d.Stretch), orDash(d.Support), orDash(d.SENAdaptations))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// stpBaseHeaders are the fifteen fixed lesson-plan columns; one
// "<Condition Name> Adaptations" column follows per selected condition.
var stpBaseHeaders = []any{
	"Unit",
	"Week",
	"Lesson 1 - Focus",
	"Lesson 1 - Activities",
	"Lesson 2 - Focus",
	"Lesson 2 - Activities",
	"Lesson 3 - Focus",
	"Lesson 3 - Activities",
	"Lesson 4 - Focus",
	"Lesson 4 - Activities",
	"Lesson 5 - Focus",
	"Lesson 5 - Activities",
	"Weekly Assessment",
	"SEN Adaptations",
	"Resources",
}

var lessonActivityDefaults = [5]string{
	"Starter activity / Prior knowledge check",
	"Main teaching input",
	"Practical application / Practice",
	"Independent work / Extension",
	"Assessment / Plenary / Homework set",
}

func stpWidths(conditionCount int) []float64 {
	w := []float64{25, 20, 20, 25, 20, 25, 20, 25, 20, 25, 20, 25, 20, 25, 20}
	for i := 0; i < conditionCount; i++ {
		w = append(w, 30)
	}
	return w
}

// stpRows builds the lesson-by-lesson sheet. Each lesson week expands
// into a five-lesson row by splitting objectives and activities on line
// breaks, with fixed fallbacks per slot.
func stpRows(plan planning.Plan, selected []conditions.Condition) [][]any {
	rows := [][]any{
		{"SHORT-TERM PLAN (STP) - LESSON-BY-LESSON"},
		{},
		{"Specification:", plan.SpecName},
		{"Year Group:", plan.YearGroup},
	}
	if len(selected) > 0 {
		names := make([]string, len(selected))
		for i, c := range selected {
			names[i] = c.Name
		}
		rows = append(rows, []any{"SEN Conditions:", strings.Join(names, ", ")})
	}

	header := append(append([]any{}, stpBaseHeaders...), conditionHeaders(selected)...)
	rows = append(rows, []any{}, header)

	for _, u := range plan.Units {
		rows = append(rows,
			[]any{},
			[]any{fmt.Sprintf("UNIT: %s (%s)", u.UnitTitle, u.TermPosition)},
			[]any{},
		)

		lessons := plan.UnitLessons(u.ID)
		if len(lessons) == 0 {
			for week := 1; week <= planning.DurationWeeks(u.Duration, defaultDurationWeeks); week++ {
				row := []any{u.UnitTitle, fmt.Sprintf("Week %d", week)}
				for len(row) < len(header) {
					row = append(row, "")
				}
				rows = append(rows, row)
			}
			continue
		}
		for _, l := range lessons {
			rows = append(rows, lessonRow(u, l, selected))
		}
	}

	rows = append(rows,
		[]any{},
		[]any{},
		[]any{"LESSON PLANNING TEMPLATE"},
		[]any{},
		[]any{"Lesson Structure", "Timing", "Description"},
		[]any{"Starter", "5-10 mins", "Hook / Prior knowledge check / Do Now activity"},
		[]any{"Main Input", "15-20 mins", "Teacher explanation / Modelling / Direct instruction"},
		[]any{"Guided Practice", "10-15 mins", "Worked examples / We do together"},
		[]any{"Independent Practice", "15-20 mins", "Students work independently / Differentiated tasks"},
		[]any{"Plenary", "5-10 mins", "Review learning / Exit ticket / Preview next lesson"},
		[]any{},
		[]any{"Differentiation Strategies:"},
		[]any{"- Stretch & Challenge:", "Extension tasks, harder problems, open-ended questions"},
		[]any{"- Support:", "Scaffolds, word banks, worked examples, peer support"},
		[]any{"- SEN:", "Modified resources, extra time, visual aids, 1:1 support"},
	)
	return rows
}

func conditionHeaders(selected []conditions.Condition) []any {
	var out []any
	for _, c := range selected {
		out = append(out, fmt.Sprintf("%s Adaptations", c.Name))
	}
	return out
}

func lessonRow(u planning.Unit, l planning.Lesson, selected []conditions.Condition) []any {
	objectives := splitLines(l.LearningObjectives)
	activities := splitLines(l.KeyActivities)

	row := []any{
		u.UnitTitle,
		fmt.Sprintf("Week %d: %s", l.WeekNumber, l.FocusTopic),
	}
	for slot := 0; slot < 5; slot++ {
		row = append(row, lessonFocus(objectives, slot, l.FocusTopic), pick(activities, slot, lessonActivityDefaults[slot]))
	}
	row = append(row, l.Assessment, l.Differentiation.SENAdaptations, l.Resources)

	for _, c := range selected {
		row = append(row, strings.Join(firstN(c.Adaptations, 3), "; "))
	}
	return row
}

// lessonFocus resolves the focus cell for one of the five lesson slots:
// the slot's own objective, else the first objective, else the week's
// focus topic for slot one and "Review and consolidation" for slot five.
func lessonFocus(objectives []string, slot int, focusTopic string) string {
	if slot < len(objectives) {
		return objectives[slot]
	}
	switch slot {
	case 0:
		return focusTopic
	case 4:
		return "Review and consolidation"
	default:
		if len(objectives) > 0 {
			return objectives[0]
		}
		return ""
	}
}

func pick(items []string, i int, def string) string {
	if i < len(items) {
		return items[i]
	}
	return def
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

// guideRows builds the adaptations reference sheet: one section per
// selected condition with its full strategy list, then a static
// implementation checklist and resource list.
func guideRows(plan planning.Plan, selected []conditions.Condition) [][]any {
	rows := [][]any{
		{"SEN ADAPTATIONS GUIDE"},
		{},
		{"Specification:", plan.SpecName},
		{"Year Group:", plan.YearGroup},
		{},
	}

	for _, c := range selected {
		rows = append(rows,
			[]any{c.Name},
			[]any{"Strategy", "Implementation Notes"},
		)
		for _, a := range c.Adaptations {
			rows = append(rows, []any{a, ""})
		}
		rows = append(rows, []any{})
	}

	rows = append(rows,
		[]any{"IMPLEMENTATION CHECKLIST"},
		[]any{"- Review the selected strategies before each lesson"},
		[]any{"- Prepare adapted resources in advance"},
		[]any{"- Share strategies with teaching assistants"},
		[]any{"- Record which strategies work for each student"},
		[]any{"- Review and adjust at the end of each half-term"},
		[]any{},
		[]any{"FURTHER RESOURCES"},
		[]any{"- British Dyslexia Association (bdadyslexia.org.uk)"},
		[]any{"- National Autistic Society (autism.org.uk)"},
		[]any{"- ADHD Foundation (adhdfoundation.org.uk)"},
		[]any{"- nasen - National Association for Special Educational Needs (nasen.org.uk)"},
	)
	return rows
}
