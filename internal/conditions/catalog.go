// Package conditions holds the catalog of supported SEN conditions and
// their generic adaptation strategies.
package conditions

// Condition describes one supported SEN condition.
type Condition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Adaptations []string `json:"adaptations"`
}

// catalog is the fixed set of supported conditions. Order here is the
// order All returns and the order selection widgets present.
var catalog = []Condition{
	{
		ID:    "dyslexia",
		Name:  "Dyslexia",
		Color: "#8B5CF6",
		Adaptations: []string{
			"Use dyslexia-friendly fonts (OpenDyslexic, Comic Sans)",
			"Increase line spacing (1.5x minimum)",
			"Use cream/pastel background colors",
			"Chunk text into smaller paragraphs",
			"Provide audio alternatives for reading",
			"Use bullet points instead of dense text",
			"Highlight key vocabulary",
			"Allow extra time for reading tasks",
		},
	},
	{
		ID:    "autism",
		Name:  "Autism Spectrum",
		Color: "#F59E0B",
		Adaptations: []string{
			"Use literal language (avoid idioms/metaphors)",
			"Provide explicit, step-by-step instructions",
			"Include visual schedules and timers",
			"Reduce sensory overload (calm visuals)",
			"Offer advance notice of changes",
			"Provide clear success criteria",
			"Allow processing time between activities",
			"Create predictable lesson structure",
		},
	},
	{
		ID:    "adhd",
		Name:  "ADHD",
		Color: "#10B981",
		Adaptations: []string{
			"Break tasks into small, timed chunks (10-15 mins)",
			"Include movement breaks every 20 minutes",
			"Use fidget tools and standing options",
			"Provide visual checklists",
			"Minimize distractions in materials",
			"Use timers and countdowns",
			"Offer choice in task order",
			"Include interactive/hands-on elements",
		},
	},
	{
		ID:    "anxiety",
		Name:  "Anxiety",
		Color: "#EC4899",
		Adaptations: []string{
			"Provide clear expectations upfront",
			"Offer \"safe\" exit strategies",
			"Reduce time pressure where possible",
			"Break assessments into smaller parts",
			"Provide advance copies of materials",
			"Use calm, reassuring language",
			"Offer private check-ins",
			"Include mindfulness/breathing breaks",
		},
	},
	{
		ID:    "dyscalculia",
		Name:  "Dyscalculia",
		Color: "#3B82F6",
		Adaptations: []string{
			"Use visual representations of numbers",
			"Provide number lines and manipulatives",
			"Allow calculator use for complex calculations",
			"Use graph paper for alignment",
			"Color-code steps in procedures",
			"Relate numbers to real-world contexts",
			"Provide formula sheets",
			"Extra time for number-based tasks",
		},
	},
	{
		ID:    "dyspraxia",
		Name:  "Dyspraxia",
		Color: "#6366F1",
		Adaptations: []string{
			"Provide alternatives to handwriting (typing)",
			"Use larger spaces for writing",
			"Allow extra time for physical tasks",
			"Provide printed notes instead of copying",
			"Use assistive technology",
			"Break motor tasks into steps",
			"Offer verbal responses as alternative",
			"Provide clear spatial organization",
		},
	},
	{
		ID:    "visual_processing",
		Name:  "Visual Processing",
		Color: "#14B8A6",
		Adaptations: []string{
			"Use high contrast colors",
			"Enlarge text and images",
			"Reduce visual clutter on page",
			"Provide audio descriptions",
			"Use clear, sans-serif fonts",
			"Allow screen readers",
			"Highlight important information",
			"Use consistent layouts",
		},
	},
	{
		ID:    "auditory_processing",
		Name:  "Auditory Processing",
		Color: "#F97316",
		Adaptations: []string{
			"Provide written instructions alongside verbal",
			"Use visual cues and signals",
			"Reduce background noise",
			"Allow preferential seating",
			"Provide captions/subtitles for videos",
			"Check understanding frequently",
			"Use visual timers instead of verbal warnings",
			"Provide notes before discussions",
		},
	},
	{
		ID:    "working_memory",
		Name:  "Working Memory",
		Color: "#EF4444",
		Adaptations: []string{
			"Provide step-by-step written instructions",
			"Use memory aids and checklists",
			"Reduce multi-step instructions",
			"Allow reference materials",
			"Teach memory strategies explicitly",
			"Repeat and rephrase key points",
			"Use visual organizers",
			"Provide scaffolded notes",
		},
	},
	{
		ID:    "processing_speed",
		Name:  "Processing Speed",
		Color: "#84CC16",
		Adaptations: []string{
			"Allow extended time (25-50% extra)",
			"Reduce quantity of work, not quality",
			"Provide advance organizers",
			"Allow breaks during long tasks",
			"Prioritize quality over speed",
			"Use untimed practice activities",
			"Provide templates and frameworks",
			"Reduce copying requirements",
		},
	},
}

var byID = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, c := range catalog {
		m[c.ID] = i
	}
	return m
}()

// Lookup returns the condition with the given id.
func Lookup(id string) (Condition, bool) {
	i, ok := byID[id]
	if !ok {
		return Condition{}, false
	}
	return catalog[i], true
}

// All returns every condition in declaration order. The returned slice is a
// copy; callers may reorder it freely.
func All() []Condition {
	out := make([]Condition, len(catalog))
	copy(out, catalog)
	return out
}

// Names resolves a list of condition ids to display names, skipping
// unknown ids.
func Names(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if c, ok := Lookup(id); ok {
			names = append(names, c.Name)
		}
	}
	return names
}
