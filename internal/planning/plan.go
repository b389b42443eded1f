// Package planning holds the in-memory planning state: long-term Topics,
// medium-term Units and short-term Lessons, plus the pure transition
// functions that produce new states. A Plan is a value; every transition
// returns a fresh Plan and leaves its receiver untouched, so the session
// store is the only place holding a mutable reference.
package planning

import (
	"fmt"
	"strings"
	"time"

	"github.com/jgalan247/schemeofLearning/internal/curriculum"
)

// HalfTerms are the six fixed academic-calendar segments, in year order.
var HalfTerms = [6]string{"Autumn 1", "Autumn 2", "Spring 1", "Spring 2", "Summer 1", "Summer 2"}

const defaultTopicWeeks = 4

// Topic is a long-term plan entry. List position is the authoritative
// order; Order is an advisory hint only.
type Topic struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Subtopics      []string `json:"subtopics"`
	SuggestedWeeks int      `json:"suggestedWeeks"`
	IsCustom       bool     `json:"isCustom"`
	Enabled        bool     `json:"enabled"`
	Order          int      `json:"order"`
}

// Unit is a medium-term plan entry.
type Unit struct {
	ID              int    `json:"id"`
	TopicID         string `json:"topicId,omitempty"`
	UnitTitle       string `json:"unitTitle"`
	Duration        string `json:"duration"`
	TermPosition    string `json:"termPosition"`
	KeyObjectives   string `json:"keyObjectives"`
	PriorLearning   string `json:"priorLearning"`
	KeyVocabulary   string `json:"keyVocabulary"`
	Resources       string `json:"resources"`
	AssessmentFocus string `json:"assessmentFocus"`
	FutureLinks     string `json:"futureLinks"`
}

// Differentiation holds the three free-text differentiation strands of a
// lesson week.
type Differentiation struct {
	Stretch        string `json:"stretch"`
	Support        string `json:"support"`
	SENAdaptations string `json:"senAdaptations"`
}

// Lesson is a short-term plan entry. UnitID references a Unit by
// convention only; consumers must tolerate dangling references.
type Lesson struct {
	ID                 int             `json:"id"`
	UnitID             int             `json:"unitId"`
	WeekNumber         int             `json:"weekNumber"`
	FocusTopic         string          `json:"focusTopic"`
	LearningObjectives string          `json:"learningObjectives"`
	SuccessCriteria    string          `json:"successCriteria"`
	KeyActivities      string          `json:"keyActivities"`
	Resources          string          `json:"resources"`
	Assessment         string          `json:"assessment"`
	Homework           string          `json:"homework"`
	Differentiation    Differentiation `json:"differentiation"`
}

// Plan is the full planning state for one session.
type Plan struct {
	SpecID         string   `json:"specId,omitempty"`
	SpecName       string   `json:"specName"`
	SpecCode       string   `json:"specCode,omitempty"`
	Subject        string   `json:"subject,omitempty"`
	AssessmentInfo string   `json:"assessmentInfo,omitempty"`
	YearGroup      string   `json:"yearGroup"`
	AcademicYear   string   `json:"academicYear"`
	Topics         []Topic  `json:"topics"`
	Units          []Unit   `json:"units"`
	Lessons        []Lesson `json:"lessons"`
	NextUnitID     int      `json:"nextUnitId"`
	NextLessonID   int      `json:"nextLessonId"`
}

// New builds a Plan from a specification year: one Topic per catalog
// topic, enabled, in catalog order.
func New(spec curriculum.Specification, yearGroup, academicYear string) Plan {
	p := Plan{
		SpecID:         spec.ID,
		SpecName:       spec.Name,
		SpecCode:       spec.Code,
		Subject:        spec.Subject,
		AssessmentInfo: spec.AssessmentInfo,
		YearGroup:      yearGroup,
		AcademicYear:   academicYear,
		NextUnitID:     1,
		NextLessonID:   1,
	}
	for i, t := range spec.YearTopics(yearGroup) {
		weeks := t.SuggestedWeeks
		if weeks <= 0 {
			weeks = defaultTopicWeeks
		}
		p.Topics = append(p.Topics, Topic{
			ID:             t.ID,
			Title:          t.Title,
			Subtopics:      append([]string(nil), t.Subtopics...),
			SuggestedWeeks: weeks,
			Enabled:        true,
			Order:          i,
		})
	}
	return p
}

// NewCustom builds an empty Plan with no catalog backing.
func NewCustom(yearGroup, academicYear string) Plan {
	return Plan{
		SpecName:     "Custom Scheme",
		YearGroup:    yearGroup,
		AcademicYear: academicYear,
		NextUnitID:   1,
		NextLessonID: 1,
	}
}

// TotalTeachingWeeks sums SuggestedWeeks over enabled topics.
func (p Plan) TotalTeachingWeeks() int {
	total := 0
	for _, t := range p.Topics {
		if t.Enabled {
			total += t.SuggestedWeeks
		}
	}
	return total
}

// EnabledTopics returns the enabled topics in list order.
func (p Plan) EnabledTopics() []Topic {
	var out []Topic
	for _, t := range p.Topics {
		if t.Enabled {
			out = append(out, t)
		}
	}
	return out
}

// UnitByID returns the unit with the given id.
func (p Plan) UnitByID(id int) (Unit, bool) {
	for _, u := range p.Units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// UnitLessons returns the lessons for a unit ordered by ascending week
// number.
func (p Plan) UnitLessons(unitID int) []Lesson {
	var out []Lesson
	for _, l := range p.Lessons {
		if l.UnitID == unitID {
			out = append(out, l)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].WeekNumber < out[j-1].WeekNumber; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// AddCustomTopic appends a user-authored topic.
func (p Plan) AddCustomTopic(title string, weeks int) Plan {
	if weeks <= 0 {
		weeks = defaultTopicWeeks
	}
	p.Topics = append(cloneTopics(p.Topics), Topic{
		ID:             fmt.Sprintf("custom-%d", time.Now().UnixNano()),
		Title:          strings.TrimSpace(title),
		SuggestedWeeks: weeks,
		IsCustom:       true,
		Enabled:        true,
		Order:          len(p.Topics),
	})
	return p
}

// ToggleTopic flips a topic's enabled flag. Disabled topics stay in the
// list but drop out of week totals and unit generation.
func (p Plan) ToggleTopic(id string) (Plan, bool) {
	topics := cloneTopics(p.Topics)
	for i := range topics {
		if topics[i].ID == id {
			topics[i].Enabled = !topics[i].Enabled
			p.Topics = topics
			return p, true
		}
	}
	return p, false
}

// SetTopicWeeks updates a topic's suggested duration.
func (p Plan) SetTopicWeeks(id string, weeks int) (Plan, bool) {
	if weeks < 1 {
		return p, false
	}
	topics := cloneTopics(p.Topics)
	for i := range topics {
		if topics[i].ID == id {
			topics[i].SuggestedWeeks = weeks
			p.Topics = topics
			return p, true
		}
	}
	return p, false
}

// MoveTopic splices the topic at index from to index to.
func (p Plan) MoveTopic(from, to int) (Plan, bool) {
	if from < 0 || from >= len(p.Topics) || to < 0 || to >= len(p.Topics) {
		return p, false
	}
	topics := cloneTopics(p.Topics)
	t := topics[from]
	topics = append(topics[:from], topics[from+1:]...)
	topics = append(topics[:to], append([]Topic{t}, topics[to:]...)...)
	p.Topics = topics
	return p, true
}

// RemoveTopic deletes a topic from the long-term plan.
func (p Plan) RemoveTopic(id string) (Plan, bool) {
	for i, t := range p.Topics {
		if t.ID == id {
			topics := cloneTopics(p.Topics)
			p.Topics = append(topics[:i], topics[i+1:]...)
			return p, true
		}
	}
	return p, false
}

// GenerateUnits rebuilds the medium-term plan from the enabled topics:
// one unit per topic in list order, term positions cycling through the
// six half-terms. Existing units and their lessons are replaced.
func (p Plan) GenerateUnits() Plan {
	p.Units = nil
	p.Lessons = nil
	for i, t := range p.EnabledTopics() {
		p.Units = append(p.Units, Unit{
			ID:            p.NextUnitID,
			TopicID:       t.ID,
			UnitTitle:     t.Title,
			Duration:      fmt.Sprintf("%d weeks", t.SuggestedWeeks),
			TermPosition:  HalfTerms[i%len(HalfTerms)],
			KeyObjectives: strings.Join(t.Subtopics, "\n"),
		})
		p.NextUnitID++
	}
	return p
}

// AddUnit appends a standalone unit with the next cycling term position.
func (p Plan) AddUnit(title, duration string) Plan {
	p.Units = append(cloneUnits(p.Units), Unit{
		ID:           p.NextUnitID,
		UnitTitle:    title,
		Duration:     duration,
		TermPosition: HalfTerms[len(p.Units)%len(HalfTerms)],
	})
	p.NextUnitID++
	return p
}

// UpdateUnit replaces the unit with a matching id.
func (p Plan) UpdateUnit(u Unit) (Plan, bool) {
	units := cloneUnits(p.Units)
	for i := range units {
		if units[i].ID == u.ID {
			units[i] = u
			p.Units = units
			return p, true
		}
	}
	return p, false
}

// RemoveUnit deletes a unit and cascades to every lesson referencing it.
func (p Plan) RemoveUnit(id int) (Plan, bool) {
	found := false
	var units []Unit
	for _, u := range p.Units {
		if u.ID == id {
			found = true
			continue
		}
		units = append(units, u)
	}
	if !found {
		return p, false
	}
	var lessons []Lesson
	for _, l := range p.Lessons {
		if l.UnitID != id {
			lessons = append(lessons, l)
		}
	}
	p.Units = units
	p.Lessons = lessons
	return p, true
}

// AddLesson appends a lesson to a unit, assigning the next week number
// for that unit (1 for a unit with no lessons yet).
func (p Plan) AddLesson(unitID int) (Plan, Lesson, bool) {
	if _, ok := p.UnitByID(unitID); !ok {
		return p, Lesson{}, false
	}
	week := 0
	for _, l := range p.Lessons {
		if l.UnitID == unitID && l.WeekNumber > week {
			week = l.WeekNumber
		}
	}
	lesson := Lesson{
		ID:         p.NextLessonID,
		UnitID:     unitID,
		WeekNumber: week + 1,
	}
	p.Lessons = append(cloneLessons(p.Lessons), lesson)
	p.NextLessonID++
	return p, lesson, true
}

// UpdateLesson replaces the lesson with a matching id.
func (p Plan) UpdateLesson(l Lesson) (Plan, bool) {
	lessons := cloneLessons(p.Lessons)
	for i := range lessons {
		if lessons[i].ID == l.ID {
			lessons[i] = l
			p.Lessons = lessons
			return p, true
		}
	}
	return p, false
}

// RemoveLesson deletes a single lesson.
func (p Plan) RemoveLesson(id int) (Plan, bool) {
	for i, l := range p.Lessons {
		if l.ID == id {
			lessons := cloneLessons(p.Lessons)
			p.Lessons = append(lessons[:i], lessons[i+1:]...)
			return p, true
		}
	}
	return p, false
}

// DurationWeeks parses the leading integer of a duration string like
// "6 weeks", returning def when no leading integer is present.
func DurationWeeks(s string, def int) int {
	s = strings.TrimSpace(s)
	n := 0
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return def
	}
	return n
}

func cloneTopics(in []Topic) []Topic {
	return append([]Topic(nil), in...)
}

func cloneUnits(in []Unit) []Unit {
	return append([]Unit(nil), in...)
}

func cloneLessons(in []Lesson) []Lesson {
	return append([]Lesson(nil), in...)
}
