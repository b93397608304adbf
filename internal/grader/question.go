package grader

import (
	"context"
	"log"
	"sync"

	"github.com/hirelane/hirelane-ats/internal/interview"
)

// answerResponse is the strict shape expected back from the model for one
// answer. marks_obtained is optional; when absent it is derived from score.
type answerResponse struct {
	Score         float64  `json:"score"`
	MarksObtained *float64 `json:"marks_obtained"`
	Feedback      string   `json:"feedback"`
	Strengths     []string `json:"strengths"`
	Gaps          []string `json:"gaps"`
}

// ChatGrader grades answers through a ChatClient.
type ChatGrader struct {
	client ChatClient
}

func NewChatGrader(client ChatClient) *ChatGrader {
	return &ChatGrader{client: client}
}

// GradeAnswer grades one answer. It never fails: transient upstream errors
// are retried once, and anything still unusable becomes the neutral
// default so the attempt can complete.
func (g *ChatGrader) GradeAnswer(ctx context.Context, req AnswerRequest) interview.Evaluation {
	raw, err := completeWithRetry(ctx, g.client, answerSystemPrompt, buildAnswerPrompt(req))
	if err != nil {
		log.Printf("grade q%d: completion failed, using neutral default: %v", req.QuestionNumber, err)
		return neutralEvaluation(req)
	}

	var resp answerResponse
	if err := unmarshalLoose(raw, &resp); err != nil {
		log.Printf("grade q%d: unparseable response, using neutral default: %v", req.QuestionNumber, err)
		return neutralEvaluation(req)
	}

	marks := resp.Score / 100 * req.MaxMarks
	if resp.MarksObtained != nil {
		marks = *resp.MarksObtained
	}
	if marks < 0 {
		marks = 0
	}
	if marks > req.MaxMarks {
		marks = req.MaxMarks
	}

	return interview.Evaluation{
		QuestionNumber:    req.QuestionNumber,
		Score:             resp.Score,
		MarksObtained:     marks,
		CandidateResponse: req.Answer,
		Strengths:         resp.Strengths,
		Gaps:              resp.Gaps,
		Reasoning:         resp.Feedback,
	}
}

// GradeAnswers fans the per-question calls out concurrently. Results are
// joined by question number, not arrival order, so there is no ordering
// dependency between calls.
func (g *ChatGrader) GradeAnswers(ctx context.Context, reqs []AnswerRequest) []interview.Evaluation {
	evals := make([]interview.Evaluation, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req AnswerRequest) {
			defer wg.Done()
			evals[i] = g.GradeAnswer(ctx, req)
		}(i, req)
	}
	wg.Wait()
	return evals
}

func neutralEvaluation(req AnswerRequest) interview.Evaluation {
	return interview.Evaluation{
		QuestionNumber:    req.QuestionNumber,
		Score:             50,
		MarksObtained:     req.MaxMarks * 0.5,
		CandidateResponse: req.Answer,
		Strengths:         []string{"Attempted the question"},
		Gaps:              []string{"Evaluation could not be parsed"},
		Reasoning:         "Automatic neutral grade: the grading response was unusable.",
	}
}
