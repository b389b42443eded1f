package adapted

import (
	"fmt"
	"time"

	"github.com/jgalan247/schemeofLearning/internal/conditions"
	"github.com/jgalan247/schemeofLearning/internal/planning"
)

// AdaptationReport summarizes the selected conditions' strategies and
// per-lesson suggestions across the whole plan.
type AdaptationReport struct {
	Metadata          ReportMetadata      `json:"metadata"`
	ConditionOverview []ConditionOverview `json:"conditionOverview"`
	LessonAdaptations []LessonAdaptation  `json:"lessonAdaptations"`
}

type ReportMetadata struct {
	GeneratedAt   string   `json:"generatedAt"`
	Specification string   `json:"specification"`
	YearGroup     string   `json:"yearGroup"`
	Conditions    []string `json:"conditions"`
}

type ConditionOverview struct {
	Condition         string   `json:"condition"`
	GeneralStrategies []string `json:"generalStrategies"`
}

type LessonAdaptation struct {
	Unit        string                          `json:"unit"`
	Week        int                             `json:"week"`
	Topic       string                          `json:"topic"`
	Adaptations map[string]ConditionSuggestions `json:"adaptations"`
}

type ConditionSuggestions struct {
	Name                string   `json:"name"`
	Color               string   `json:"color"`
	Adaptations         []string `json:"adaptations"`
	SpecificSuggestions []string `json:"specificSuggestions"`
}

// Report builds the adaptation report for the selected conditions.
// Unknown condition ids are skipped.
func Report(plan planning.Plan, conditionIDs []string) AdaptationReport {
	report := AdaptationReport{
		Metadata: ReportMetadata{
			GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
			Specification: plan.SpecName,
			YearGroup:     plan.YearGroup,
			Conditions:    conditions.Names(conditionIDs),
		},
		ConditionOverview: []ConditionOverview{},
		LessonAdaptations: []LessonAdaptation{},
	}

	for _, id := range conditionIDs {
		c, ok := conditions.Lookup(id)
		if !ok {
			continue
		}
		report.ConditionOverview = append(report.ConditionOverview, ConditionOverview{
			Condition:         c.Name,
			GeneralStrategies: c.Adaptations,
		})
	}

	for _, l := range plan.Lessons {
		unitTitle := ""
		if u, ok := plan.UnitByID(l.UnitID); ok {
			unitTitle = u.UnitTitle
		}
		report.LessonAdaptations = append(report.LessonAdaptations, LessonAdaptation{
			Unit:        unitTitle,
			Week:        l.WeekNumber,
			Topic:       l.FocusTopic,
			Adaptations: suggestionsFor(l, conditionIDs),
		})
	}
	return report
}

func suggestionsFor(l planning.Lesson, conditionIDs []string) map[string]ConditionSuggestions {
	out := make(map[string]ConditionSuggestions, len(conditionIDs))
	for _, id := range conditionIDs {
		c, ok := conditions.Lookup(id)
		if !ok {
			continue
		}
		out[id] = ConditionSuggestions{
			Name:                c.Name,
			Color:               c.Color,
			Adaptations:         c.Adaptations,
			SpecificSuggestions: specificSuggestions(l, c),
		}
	}
	return out
}

// specificSuggestions derives lesson-level advice from the lesson's
// activities and assessment content for the conditions that have a
// content-dependent strategy.
func specificSuggestions(l planning.Lesson, c conditions.Condition) []string {
	suggestions := []string{}

	if l.KeyActivities != "" {
		switch c.ID {
		case "adhd":
			suggestions = append(suggestions, fmt.Sprintf("Break %q activities into 10-minute segments", l.FocusTopic))
		case "dyslexia":
			suggestions = append(suggestions, fmt.Sprintf("Provide audio recording of instructions for %q", l.FocusTopic))
		case "autism":
			suggestions = append(suggestions, fmt.Sprintf("Create visual schedule showing all steps for %q", l.FocusTopic))
		}
	}

	if l.Assessment != "" {
		switch c.ID {
		case "anxiety":
			suggestions = append(suggestions, "Offer assessment as a take-home option or split across sessions")
		case "processing_speed":
			suggestions = append(suggestions, "Allow 50% extra time for assessment completion")
		}
	}
	return suggestions
}
