package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/sbgadvisor/WellNavigator3/internal/models"
)

const ClinicalTrialSearchID = "clinical_trial_search"

// ClinicalTrialSearch returns a fixed set of synthetic trial records, lightly
// re-labelled by the condition detected in the user's message. Its trigger
// check is purely lexical: tiered keyword confidence plus substring condition
// extraction, no network call.
type ClinicalTrialSearch struct{}

func NewClinicalTrialSearch() *ClinicalTrialSearch { return &ClinicalTrialSearch{} }

func (w *ClinicalTrialSearch) ID() string   { return ClinicalTrialSearchID }
func (w *ClinicalTrialSearch) Name() string { return "Clinical Trial Search" }

var trialHighConfidence = []string{
	"clinical trial", "clinical trials", "find trials", "search for trials",
	"research study", "research studies", "experimental treatment",
	"participate in research", "clinical study",
}

var trialMediumConfidence = []string{
	"trials", "research", "studies", "experimental",
}

var conditionVocabulary = map[string][]string{
	"diabetes":       {"diabetes", "diabetic"},
	"cancer":         {"cancer", "oncology", "tumor"},
	"cardiovascular": {"heart", "cardiac", "cardiovascular"},
	"arthritis":      {"arthritis", "joint"},
}

func (w *ClinicalTrialSearch) ShouldTrigger(ctx context.Context, userMessage string, recent []models.Message) models.TriggerDecision {
	lower := strings.ToLower(userMessage)

	triggerContext := map[string]string{
		"conditions": strings.Join(extractConditions(lower), ","),
	}

	for _, kw := range trialHighConfidence {
		if strings.Contains(lower, kw) {
			return models.TriggerDecision{
				ShouldTrigger: true,
				Confidence:    models.ConfidenceHigh,
				Reasoning:     "user explicitly wants to search for clinical trials",
				Context:       triggerContext,
			}
		}
	}

	for _, kw := range trialMediumConfidence {
		if strings.Contains(lower, kw) {
			// Ambiguous vocabulary only triggers with an explicit affirmative
			// in the same message.
			if strings.Contains(lower, "yes") || strings.Contains(lower, "okay") || strings.Contains(lower, "sure") {
				return models.TriggerDecision{
					ShouldTrigger: true,
					Confidence:    models.ConfidenceHigh,
					Reasoning:     "user confirmed clinical trial search",
					Context:       triggerContext,
				}
			}
			return models.TriggerDecision{
				ShouldTrigger: false,
				Confidence:    models.ConfidenceMedium,
				Reasoning:     "mentioned trials/research but not conclusive",
				Context:       triggerContext,
			}
		}
	}

	return models.TriggerDecision{
		ShouldTrigger: false,
		Confidence:    models.ConfidenceLow,
		Reasoning:     "no clinical trial search intent detected",
	}
}

func extractConditions(lowerMessage string) []string {
	// Fixed order so identical inputs produce identical context.
	var found []string
	for _, condition := range []string{"diabetes", "cancer", "cardiovascular", "arthritis"} {
		for _, kw := range conditionVocabulary[condition] {
			if strings.Contains(lowerMessage, kw) {
				found = append(found, condition)
				break
			}
		}
	}
	if len(found) == 0 {
		return []string{"general"}
	}
	return found
}

func (w *ClinicalTrialSearch) Execute(ctx context.Context, triggerContext map[string]string) models.WorkflowResult {
	conditions := []string{"general"}
	if raw := triggerContext["conditions"]; raw != "" {
		conditions = strings.Split(raw, ",")
	}
	query := strings.Join(conditions, ", ")

	trials := baseTrials()
	for _, c := range conditions {
		switch c {
		case "diabetes":
			trials[0].Title = "Diabetes Management and Treatment Study"
			trials[0].Focus = "New approaches to diabetes care"
		case "cancer":
			trials[1].Title = "Oncology Treatment Protocols"
			trials[1].Focus = "Cancer treatment effectiveness"
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "I found %d potentially relevant clinical trials for %s.\n\n", len(trials), query)
	for i, t := range trials {
		fmt.Fprintf(&sb, "%d. %s\n   Focus: %s\n   Location: %s\n   Status: %s\n   Eligibility: %s\n   Trial ID: %s\n\n",
			i+1, t.Title, t.Focus, t.Location, t.Status, t.Eligibility, t.ID)
	}
	sb.WriteString("Remember to discuss any trials you're interested in with your healthcare provider.")

	return models.WorkflowResult{
		Status: models.StatusCompleted,
		Result: map[string]any{
			"query":        query,
			"trials_found": len(trials),
			"trials":       trials,
		},
		Message: sb.String(),
	}
}

func baseTrials() []models.ClinicalTrial {
	return []models.ClinicalTrial{
		{
			ID:          "CT-2024-001",
			Title:       "Novel Treatment Approaches for Chronic Conditions",
			Focus:       "Investigating new therapeutic interventions",
			Location:    "Multiple locations nationwide",
			Status:      "Recruiting",
			Eligibility: "Adults 18-75 with relevant conditions",
			Link:        "https://clinicaltrials.gov/example-1",
		},
		{
			ID:          "CT-2024-002",
			Title:       "Long-term Safety and Efficacy Study",
			Focus:       "Safety monitoring and outcome assessment",
			Location:    "Regional Medical Centers",
			Status:      "Active, not recruiting",
			Eligibility: "Participants from previous studies",
			Link:        "https://clinicaltrials.gov/example-2",
		},
		{
			ID:          "CT-2024-003",
			Title:       "Patient-Reported Outcomes Research",
			Focus:       "Quality of life and patient experience",
			Location:    "Online and local clinics",
			Status:      "Recruiting",
			Eligibility: "All ages, various conditions welcome",
			Link:        "https://clinicaltrials.gov/example-3",
		},
	}
}
