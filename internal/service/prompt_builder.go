package service

import (
	"fmt"
	"strings"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
)

// analysisInstructionTemplate is a static asset: the survey rendering is
// substituted for the single placeholder and nothing else ever changes, so an
// identical survey always produces a byte-identical prompt. That property lets
// staff regenerate the exact prompt for auditing or manual retries.
const analysisInstructionTemplate = `You are an experienced academic consultant at a private education academy.
Based on the intake survey below, write a student learning assessment.

%s

Respond with a single JSON object and nothing else, using exactly this shape:
{
  "student_type": "<short classification label>",
  "attitude": {"score": <number 1-5>, "comment": "<text>"},
  "self_directed": {"score": <number 1-5>, "comment": "<text>"},
  "assignment": {"score": <number 1-5>, "comment": "<text>"},
  "willingness": {"score": <number 1-5>, "comment": "<text>"},
  "sociability": {"score": <number 1-5>, "comment": "<text>"},
  "management": {"score": <number 1-5>, "comment": "<text>"},
  "emotional_confidence": {"score": <number 1-5>, "comment": "<text>"},
  "strengths": ["<statement>", ...],
  "weaknesses": ["<statement>", ...],
  "paradoxes": [{"title": "<text>", "first": {"label": "<text>", "value": "<text>"}, "second": {"label": "<text>", "value": "<text>"}}, ...],
  "interventions": ["<recommended intervention>", ...],
  "overall": "<overall narrative>",
  "final_assessment": "<final assessment paragraph>"
}
Omit "emotional_confidence" if the survey data is insufficient to judge it.
Base every statement on the survey data; do not invent facts about the student.`

// BuildAnalysisPrompt renders a survey record into the generator prompt.
// Identical input yields byte-identical output.
func BuildAnalysisPrompt(survey *models.SurveyResponse) string {
	var sb strings.Builder

	sb.WriteString("## Student\n")
	fmt.Fprintf(&sb, "Name: %s\n", survey.StudentName)
	fmt.Fprintf(&sb, "School: %s\n", survey.SchoolName)
	fmt.Fprintf(&sb, "Grade: %s\n", survey.Grade)
	fmt.Fprintf(&sb, "Referral source: %s\n", valueOrDash(survey.ReferralSource))
	fmt.Fprintf(&sb, "Complaint about previous academy: %s\n", valueOrDash(survey.PriorComplaint))

	sb.WriteString("\n## Survey items (1 = strongly disagree, 5 = strongly agree)\n")
	items := survey.ItemScores()
	for i := 1; i <= models.SurveyItemCount; i++ {
		score := "unanswered"
		if v := items[i]; v != nil {
			score = fmt.Sprintf("%d", *v)
		}
		fmt.Fprintf(&sb, "%d. %s — %s\n", i, models.QuestionCatalogue[i-1], score)
	}

	sb.WriteString("\n## Composite factors\n")
	factors := survey.FactorScores()
	for _, factor := range models.FactorOrder {
		value := "not available"
		if v := factors[factor]; v != nil {
			value = fmt.Sprintf("%.1f", *v)
		}
		fmt.Fprintf(&sb, "%s: %s\n", models.FactorLabels[factor], value)
	}

	sb.WriteString("\n## Free-text answers\n")
	fmt.Fprintf(&sb, "Main concern: %s\n", valueOrDash(survey.ConcernText))
	fmt.Fprintf(&sb, "Goal: %s\n", valueOrDash(survey.GoalText))

	return fmt.Sprintf(analysisInstructionTemplate, strings.TrimRight(sb.String(), "\n"))
}

func valueOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
