package grader

import (
	"fmt"
	"strings"
)

const answerSystemPrompt = `You are a strict technical interviewer grading one candidate answer.
Score the answer from 0 to 100 against the question, considering correctness, depth, and clarity.
An empty or irrelevant answer scores 0. Respond with ONLY a JSON object:
{"score": <0-100>, "marks_obtained": <number>, "feedback": "<short justification>", "strengths": ["..."], "gaps": ["..."]}`

func buildAnswerPrompt(req AnswerRequest) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Question %d (%s, difficulty %s, max marks %.0f):\n%s\n\n",
		req.QuestionNumber, req.Criterion, req.Difficulty, req.MaxMarks, req.Question))
	sb.WriteString("Candidate answer:\n")
	sb.WriteString(req.Answer)
	sb.WriteString("\n\nGrade this answer now. marks_obtained must be between 0 and the max marks.")
	return sb.String()
}

const transcriptSystemPrompt = `You are a senior interviewer reviewing a complete interview transcript.
For EVERY question listed, locate the candidate's answer in the transcript and grade it from 0 to 100.
If a question was never answered, score it 0. Respond with ONLY a JSON object:
{"questions": [{"question_number": <n>, "score": <0-100>, "candidate_response": "<answer as given>", "strengths": ["..."], "gaps": ["..."], "evaluation_reasoning": "<why>"}],
 "summary": "<3-4 sentence overall assessment>", "key_strengths": ["..."], "areas_for_improvement": ["..."]}`

func buildTranscriptPrompt(in TranscriptRequest) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role: %s at %s\nCandidate: %s\n\n", in.JobTitle, in.Company, in.CandidateName))
	sb.WriteString("Questions asked:\n")
	for _, q := range in.Questions {
		sb.WriteString(fmt.Sprintf("%d. [%s, %s] %s\n", q.Number, q.Criterion, q.Difficulty, q.Text))
	}
	sb.WriteString("\nFull transcript:\n")
	sb.WriteString(in.Transcript)
	sb.WriteString("\n\nGrade every listed question from this transcript now.")
	return sb.String()
}
