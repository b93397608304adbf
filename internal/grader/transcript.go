package grader

import (
	"context"
	"log"

	"github.com/hirelane/hirelane-ats/internal/interview"
)

// TranscriptRequest grades every question of an interview from one
// transcript in a single model call.
type TranscriptRequest struct {
	Questions     []interview.Question
	Transcript    string
	JobTitle      string
	Company       string
	CandidateName string
}

// TranscriptResult carries the per-question evaluations plus the
// transcript-level narrative the model produced.
type TranscriptResult struct {
	Evaluations         []interview.Evaluation
	Summary             string
	KeyStrengths        []string
	AreasForImprovement []string
}

type transcriptResponse struct {
	Questions []struct {
		QuestionNumber    int      `json:"question_number"`
		Score             float64  `json:"score"`
		CandidateResponse string   `json:"candidate_response"`
		Strengths         []string `json:"strengths"`
		Gaps              []string `json:"gaps"`
		Reasoning         string   `json:"evaluation_reasoning"`
	} `json:"questions"`
	Summary             string   `json:"summary"`
	KeyStrengths        []string `json:"key_strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
}

// GradeTranscript issues one completion for the whole transcript. On an
// unusable response it returns an empty evaluation set and lets the
// scoring engine degrade; unmatched question numbers default to score 0
// when the engine merges by number.
func (g *ChatGrader) GradeTranscript(ctx context.Context, in TranscriptRequest) TranscriptResult {
	raw, err := completeWithRetry(ctx, g.client, transcriptSystemPrompt, buildTranscriptPrompt(in))
	if err != nil {
		log.Printf("grade transcript: completion failed: %v", err)
		return TranscriptResult{}
	}

	var resp transcriptResponse
	if err := unmarshalLoose(raw, &resp); err != nil {
		log.Printf("grade transcript: unparseable response: %v", err)
		return TranscriptResult{}
	}

	known := make(map[int]struct{}, len(in.Questions))
	for _, q := range in.Questions {
		known[q.Number] = struct{}{}
	}

	evals := make([]interview.Evaluation, 0, len(resp.Questions))
	for _, q := range resp.Questions {
		if _, ok := known[q.QuestionNumber]; !ok {
			continue
		}
		evals = append(evals, interview.Evaluation{
			QuestionNumber:    q.QuestionNumber,
			Score:             q.Score,
			CandidateResponse: q.CandidateResponse,
			Strengths:         q.Strengths,
			Gaps:              q.Gaps,
			Reasoning:         q.Reasoning,
		})
	}
	return TranscriptResult{
		Evaluations:         evals,
		Summary:             resp.Summary,
		KeyStrengths:        resp.KeyStrengths,
		AreasForImprovement: resp.AreasForImprovement,
	}
}
