// Package adapted formats planning state for the AdaptEd adaptation
// platform: a JSON lesson export plus a per-condition adaptation report.
package adapted

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jgalan247/schemeofLearning/internal/planning"
)

//go:embed schema.json
var documentSchema []byte

// Document is the lesson export consumed by AdaptEd. Field names are a
// stable wire contract; id, unitId and weekNumber must round-trip.
type Document struct {
	Metadata Metadata `json:"metadata"`
	Lessons  []Lesson `json:"lessons"`
	Units    []Unit   `json:"units"`
}

type Metadata struct {
	Specification string `json:"specification"`
	SpecCode      string `json:"specCode"`
	YearGroup     string `json:"yearGroup"`
	AcademicYear  string `json:"academicYear"`
	Subject       string `json:"subject"`
	ExportDate    string `json:"exportDate"`
}

type Lesson struct {
	ID                      int             `json:"id"`
	UnitID                  int             `json:"unitId"`
	UnitTitle               string          `json:"unitTitle"`
	WeekNumber              int             `json:"weekNumber"`
	Topic                   string          `json:"topic"`
	Objectives              string          `json:"objectives"`
	SuccessCriteria         string          `json:"successCriteria"`
	Activities              string          `json:"activities"`
	Assessment              string          `json:"assessment"`
	Resources               string          `json:"resources"`
	Homework                string          `json:"homework"`
	ExistingDifferentiation Differentiation `json:"existingDifferentiation"`
}

type Differentiation struct {
	Stretch string `json:"stretch"`
	Support string `json:"support"`
	SEN     string `json:"sen"`
}

type Unit struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Duration        string `json:"duration"`
	TermPosition    string `json:"termPosition"`
	Objectives      string `json:"objectives"`
	Vocabulary      string `json:"vocabulary"`
	AssessmentFocus string `json:"assessmentFocus"`
}

// Format maps the plan onto the wire document. A lesson whose unit no
// longer exists keeps its row with an empty unitTitle.
func Format(plan planning.Plan) Document {
	specName := plan.SpecName
	if specName == "" {
		specName = "Custom"
	}
	doc := Document{
		Metadata: Metadata{
			Specification: specName,
			SpecCode:      plan.SpecCode,
			YearGroup:     plan.YearGroup,
			AcademicYear:  plan.AcademicYear,
			Subject:       plan.Subject,
			ExportDate:    time.Now().UTC().Format(time.RFC3339),
		},
		Lessons: []Lesson{},
		Units:   []Unit{},
	}

	for _, l := range plan.Lessons {
		title := ""
		if u, ok := plan.UnitByID(l.UnitID); ok {
			title = u.UnitTitle
		}
		doc.Lessons = append(doc.Lessons, Lesson{
			ID:              l.ID,
			UnitID:          l.UnitID,
			UnitTitle:       title,
			WeekNumber:      l.WeekNumber,
			Topic:           l.FocusTopic,
			Objectives:      l.LearningObjectives,
			SuccessCriteria: l.SuccessCriteria,
			Activities:      l.KeyActivities,
			Assessment:      l.Assessment,
			Resources:       l.Resources,
			Homework:        l.Homework,
			ExistingDifferentiation: Differentiation{
				Stretch: l.Differentiation.Stretch,
				Support: l.Differentiation.Support,
				SEN:     l.Differentiation.SENAdaptations,
			},
		})
	}

	for _, u := range plan.Units {
		doc.Units = append(doc.Units, Unit{
			ID:              u.ID,
			Title:           u.UnitTitle,
			Duration:        u.Duration,
			TermPosition:    u.TermPosition,
			Objectives:      u.KeyObjectives,
			Vocabulary:      u.KeyVocabulary,
			AssessmentFocus: u.AssessmentFocus,
		})
	}
	return doc
}

// Encode renders the document with two-space indentation.
func Encode(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding adapted document: %w", err)
	}
	return data, nil
}

// Validate checks an encoded document against the embedded schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validating adapted document: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("adapted document invalid: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Filename derives the download name from the year group and the
// current time in milliseconds.
func Filename(plan planning.Plan, now time.Time) string {
	year := strings.ReplaceAll(plan.YearGroup, " ", "_")
	return fmt.Sprintf("adapted_lessons_%s_%d.json", year, now.UnixMilli())
}
