package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
)

func samplePromptSurvey() *models.SurveyResponse {
	survey := &models.SurveyResponse{
		ID:          "sv1",
		StudentName: "Kim Minjun",
		SchoolName:  "Daehan Middle School",
		Grade:       "8",
		ConcernText: "loses focus after 20 minutes",
		GoalText:    "raise math grade",
	}
	items := make(map[int]*int, models.SurveyItemCount)
	for i := 1; i <= models.SurveyItemCount; i++ {
		v := 4
		items[i] = &v
	}
	items[7] = nil
	survey.SetItemScores(items)
	survey.SetFactorScores(ComputeFactorScores(items))
	return survey
}

func TestBuildAnalysisPromptDeterministic(t *testing.T) {
	survey := samplePromptSurvey()
	first := BuildAnalysisPrompt(survey)
	second := BuildAnalysisPrompt(survey)
	assert.Equal(t, first, second)
}

func TestBuildAnalysisPromptContent(t *testing.T) {
	survey := samplePromptSurvey()
	prompt := BuildAnalysisPrompt(survey)

	assert.Contains(t, prompt, "Name: Kim Minjun")
	assert.Contains(t, prompt, "School: Daehan Middle School")
	assert.Contains(t, prompt, "loses focus after 20 minutes")

	// Every catalogue question appears with its literal text.
	for _, question := range models.QuestionCatalogue {
		assert.Contains(t, prompt, question)
	}

	// Item 7 was skipped and must be marked explicitly.
	require.Contains(t, prompt, "7. "+models.QuestionCatalogue[6]+" — unanswered")
	assert.Contains(t, prompt, "1. "+models.QuestionCatalogue[0]+" — 4")

	// Factor lines carry one-decimal values.
	assert.Contains(t, prompt, "Learning Attitude: 4.0")
	assert.Contains(t, prompt, "\"final_assessment\"")
}

func TestBuildAnalysisPromptMissingFactor(t *testing.T) {
	survey := &models.SurveyResponse{StudentName: "Lee Seoyeon", SchoolName: "Hangang High School", Grade: "10"}
	items := map[int]*int{}
	v := 5
	items[1] = &v
	survey.SetItemScores(items)
	survey.SetFactorScores(ComputeFactorScores(items))

	prompt := BuildAnalysisPrompt(survey)
	assert.Contains(t, prompt, "Learning Attitude: not available")
	assert.False(t, strings.Contains(prompt, "Learning Attitude: 0"))
}
