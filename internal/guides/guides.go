// Package guides holds the canned support content: appointment preparation
// checklists, test-result explanations, resource lists, and caregiver
// guidance. These are static lookup tables that can be replaced with real
// content services later.
package guides

import (
	"fmt"
	"strings"
)

// Guide is one renderable piece of support content.
type Guide struct {
	Title string
	Items []string
	Tips  string
}

// Render formats a guide as a Markdown chat message.
func (g Guide) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n\n", g.Title)
	for _, item := range g.Items {
		fmt.Fprintf(&sb, "- %s\n", item)
	}
	if g.Tips != "" {
		fmt.Fprintf(&sb, "\nTip: %s\n", g.Tips)
	}
	return sb.String()
}

var preparationGuides = map[string]Guide{
	"general": {
		Title: "General Appointment Preparation",
		Items: []string{
			"Write down your symptoms and when they started",
			"List any medications you're currently taking",
			"Prepare questions you want to ask your doctor",
			"Bring your insurance card and ID",
			"Bring a list of any previous test results",
			"Consider bringing a trusted friend or family member for support",
		},
		Tips: "It can be helpful to write down your questions beforehand so you don't forget anything during the appointment.",
	},
	"specialist": {
		Title: "Specialist Appointment Preparation",
		Items: []string{
			"Bring referrals and previous medical records",
			"Prepare a timeline of your condition or symptoms",
			"List all current medications and dosages",
			"Write down specific questions about your condition",
			"Bring any relevant test results or imaging",
			"Prepare to discuss your treatment goals",
		},
		Tips: "Specialist appointments can be brief, so prioritize your most important questions first.",
	},
	"follow-up": {
		Title: "Follow-up Appointment Preparation",
		Items: []string{
			"Review what was discussed in your last appointment",
			"Note any changes in your condition since then",
			"Track how well treatments or medications are working",
			"Prepare questions about next steps",
			"Bring any new test results or concerns",
		},
		Tips: "Follow-up appointments are great for tracking progress and adjusting your care plan.",
	},
}

var resultsGuides = map[string]Guide{
	"blood_test": {
		Title: "Understanding Your Blood Test Results",
		Items: []string{
			"Complete Blood Count (CBC) - measures red and white blood cells",
			"Basic Metabolic Panel - checks kidney function, electrolytes, and blood sugar",
			"Lipid Panel - measures cholesterol levels",
			"Liver Function Tests - assesses liver health",
		},
		Tips: "Ask your doctor about any values marked as high or low, and what they mean for your specific situation.",
	},
	"imaging": {
		Title: "Understanding Your Imaging Results",
		Items: []string{
			"Imaging results (X-rays, MRIs, CT scans) require interpretation by a radiologist and your doctor",
			"They'll explain what the images show in the context of your symptoms",
		},
		Tips: "Important questions: What does this finding mean? Does it explain my symptoms? What are the next steps?",
	},
	"general": {
		Title: "Understanding Your Test Results",
		Items: []string{
			"Test results are just one piece of the puzzle",
			"Your doctor considers them along with your symptoms, medical history, and physical examination",
		},
		Tips: "Always ask your doctor to explain results in plain language and what they mean for your care plan.",
	},
}

var resourceGuides = map[string]Guide{
	"support_groups": {
		Title: "Support Groups and Community Resources",
		Items: []string{
			"Local patient support groups (check with your healthcare provider or hospital)",
			"Online communities for your specific condition",
			"Caregiver support networks",
			"Mental health and wellness resources",
		},
		Tips: "Support groups can provide emotional support and practical advice from others who understand what you're going through.",
	},
	"financial": {
		Title: "Financial and Insurance Resources",
		Items: []string{
			"Patient assistance programs for medications",
			"Hospital financial aid programs",
			"Insurance navigation services",
			"Government healthcare programs (if eligible)",
		},
		Tips: "Many hospitals and clinics have financial counselors who can help you understand costs and find assistance programs.",
	},
	"educational": {
		Title: "Educational Resources",
		Items: []string{
			"Reliable health information websites (Mayo Clinic, WebMD, CDC)",
			"Condition-specific educational materials from medical organizations",
			"Your healthcare provider's patient education library",
		},
		Tips: "Always verify information from reliable, evidence-based sources and discuss what you learn with your healthcare team.",
	},
	"general": {
		Title: "General Health Resources",
		Items: []string{
			"Your primary care provider's office for referrals",
			"Local health department services",
			"Mental health support services",
			"Transportation assistance for medical appointments",
		},
		Tips: "Don't hesitate to ask your healthcare team about available resources. They often know about local services that can help.",
	},
}

var caregiverGuides = map[string]Guide{
	"burnout": {
		Title: "Caregiver Self-Care and Burnout Prevention",
		Items: []string{
			"It's okay to ask for help. You don't have to do everything alone",
			"Take breaks when you can, even if they're short",
			"Connect with other caregivers who understand your experience",
			"Prioritize your own health",
			"Consider respite care options to give yourself regular breaks",
		},
		Tips: "Look into local caregiver support groups and respite care services in your area.",
	},
	"communication": {
		Title: "Communicating with Healthcare Providers",
		Items: []string{
			"Come prepared to appointments with questions and concerns written down",
			"Take notes during appointments or bring someone to help remember details",
			"Ask for clarification if you don't understand medical terms",
			"Keep a care journal to track symptoms, medications, and appointments",
			"Don't be afraid to advocate for your loved one's needs",
		},
		Tips: "Many hospitals offer caregiver education programs to help you navigate the healthcare system.",
	},
	"general": {
		Title: "General Caregiver Support",
		Items: []string{
			"Remember that caregiving is a journey. Be patient with yourself and your loved one",
			"Seek support from family, friends, and community resources",
			"Stay organized with calendars, medication schedules, and important documents",
			"Take care of your own physical and mental health",
		},
		Tips: "There are many resources available to support caregivers. Don't hesitate to reach out for help.",
	},
}

func lookup(m map[string]Guide, key string) Guide {
	if g, ok := m[key]; ok {
		return g
	}
	return m["general"]
}

// Preparation returns the appointment-preparation guide for the given
// appointment type, defaulting to the general guide.
func Preparation(appointmentType string) Guide { return lookup(preparationGuides, appointmentType) }

// Results returns the test-result explanation for the given test type.
func Results(testType string) Guide { return lookup(resultsGuides, testType) }

// Resources returns the resource list for the given resource type.
func Resources(resourceType string) Guide { return lookup(resourceGuides, resourceType) }

// Caregiver returns caregiver guidance for the given situation.
func Caregiver(situation string) Guide { return lookup(caregiverGuides, situation) }
