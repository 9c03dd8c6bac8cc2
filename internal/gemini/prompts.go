package gemini

import (
	"fmt"
	"strings"

	"github.com/voxhire/voxhire/internal/domain"
)

const systemPrompt = `You are a professional technical interviewer conducting a structured interview.
Your role is to:
1. Ask one clear, concise question at a time (2-3 sentences max)
2. Be conversational and encouraging
3. Focus on technical skills, problem-solving, and experience
4. After receiving answers, acknowledge them briefly and move to the next question
5. Generate progressively more advanced questions

Keep your responses concise and professional.`

// defaultQuestions keeps the interview moving when generation fails.
var defaultQuestions = []string{
	"Tell me about yourself and your professional background.",
	"What is a challenging problem you've solved recently?",
	"Describe your experience with the technologies you've mentioned.",
	"How do you approach learning new technologies?",
	"Can you tell me about a time you worked in a team?",
}

func defaultQuestion(index int) string {
	i := index - 1
	if i < 0 {
		i = 0
	}
	if i >= len(defaultQuestions) {
		i = len(defaultQuestions) - 1
	}
	return defaultQuestions[i]
}

const defaultFeedback = `Interview completed!

OVERALL ASSESSMENT:
The candidate demonstrated good communication skills and technical knowledge.

STRENGTHS:
- Clear articulation of ideas
- Relevant technical experience
- Good problem-solving approach

AREAS FOR IMPROVEMENT:
- Provide more specific examples
- Elaborate on technical details
- Discuss collaboration experience more

FINAL RECOMMENDATION:
Good candidate for further consideration in the recruitment process.`

func questionPrompt(history []domain.Message, index int, candidate domain.Candidate) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n")
	if !candidate.IsZero() {
		fmt.Fprintf(&b, "Candidate context: %s, applying for %s. Experience: %s\n\n",
			candidate.Name, candidate.Role, candidate.Experience)
	}
	fmt.Fprintf(&b, `Based on this interview conversation so far:

%s

Generate question number %d for the interview.
Ask a relevant follow-up question or move to a new topic if this is the first question.
IMPORTANT: Return ONLY the question text, nothing else.`, domain.TranscriptText(history), index)
	return b.String()
}

func feedbackPrompt(history []domain.Message) string {
	return fmt.Sprintf(`Analyze this interview conversation and provide structured feedback:

%s

Provide feedback in this exact format:
OVERALL ASSESSMENT:
[1-2 sentences about overall performance]

STRENGTHS:
- [Strength 1]
- [Strength 2]
- [Strength 3]

AREAS FOR IMPROVEMENT:
- [Area 1]
- [Area 2]
- [Area 3]

FINAL RECOMMENDATION:
[1-2 sentences with recommendation]`, domain.TranscriptText(history))
}

func analyticsPrompt(history []domain.Message) string {
	return fmt.Sprintf(`Analyze this interview conversation and provide detailed performance metrics in JSON format.

%s

You must respond with ONLY valid JSON (no markdown, no code blocks) with this exact structure:
{
  "overallScore": <0-100>,
  "technicalAccuracy": <0-100>,
  "communicationClarity": <0-100>,
  "problemSolving": <0-100>,
  "depthOfKnowledge": <0-100>,
  "confidenceLevel": <0-100>,
  "averageResponseTime": <seconds>,
  "hiringRecommendation": "High|Medium|Low",
  "questionScores": [<score1>, <score2>, <score3>, <score4>, <score5>],
  "technicalSkills": <0-100>,
  "skillProblemSolving": <0-100>,
  "skillCommunication": <0-100>,
  "skillAnalyticalThinking": <0-100>,
  "skillPracticalKnowledge": <0-100>,
  "skillSystemDesign": <0-100>,
  "dsaReasoning": <0-100>,
  "codingKnowledge": <0-100>,
  "backendFundamentals": <0-100>,
  "systemDesign": <0-100>,
  "appliedProblemSolving": <0-100>,
  "behavioralSkills": <0-100>,
  "easyQuestionsScore": <0-100>,
  "mediumQuestionsScore": <0-100>,
  "hardQuestionsScore": <0-100>,
  "strengths": ["strength1", "strength2", "strength3"],
  "improvements": ["area1", "area2", "area3"],
  "recommendation": "Brief 2-3 sentence hiring recommendation"
}

Ensure all scores are between 0-100. Be objective and fair.`, domain.TranscriptText(history))
}
