package curriculum

import "fmt"

// Topic is one long-term teaching block within a specification year.
type Topic struct {
	ID             string   `yaml:"id" json:"id"`
	Title          string   `yaml:"title" json:"title"`
	Subtopics      []string `yaml:"subtopics" json:"subtopics"`
	SuggestedWeeks int      `yaml:"suggested_weeks" json:"suggestedWeeks"`
}

// Specification is one exam-board specification loaded from YAML.
type Specification struct {
	ID             string             `yaml:"id" json:"id"`
	Name           string             `yaml:"name" json:"name"`
	ExamBoard      string             `yaml:"exam_board" json:"examBoard"`
	KeyStage       string             `yaml:"key_stage" json:"keyStage"`
	Subject        string             `yaml:"subject" json:"subject"`
	Level          string             `yaml:"level" json:"level"`
	Code           string             `yaml:"code" json:"code"`
	AssessmentInfo string             `yaml:"assessment_info" json:"assessmentInfo"`
	Years          map[string][]Topic `yaml:"years" json:"years"`
}

// YearTopics returns the topics for a year group, e.g. "Year 10".
func (s Specification) YearTopics(year string) []Topic {
	return s.Years[year]
}

// Key builds the lookup key for an (examBoard, keyStage, subject) triple.
func Key(examBoard, keyStage, subject string) string {
	return fmt.Sprintf("%s-%s-%s", examBoard, keyStage, subject)
}
