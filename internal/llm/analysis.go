package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

// MeetingSummary is the result of Summarize. When the model response
// could not be parsed, Fallback is true, ExecutiveSummary carries the
// raw response text, and the lists are empty.
type MeetingSummary struct {
	ExecutiveSummary string   `json:"executive_summary"`
	KeyPoints        []string `json:"key_points"`
	DecisionsMade    []string `json:"decisions_made"`
	FollowUps        []string `json:"follow_ups"`
	Model            string   `json:"-"`
	TokenCount       int      `json:"-"`
	Fallback         bool     `json:"-"`
}

// ExtractedTask is one action item extracted from a transcript.
// DueDate is an ISO date string or empty; Priority is whatever the
// model produced, coerced to the allowed set by the caller.
type ExtractedTask struct {
	Title    string `json:"title"`
	Assignee string `json:"assignee"`
	DueDate  string `json:"due_date"`
	Priority string `json:"priority"`
	Context  string `json:"context"`
}

// TaskExtraction is the result of ExtractTasks. When the model response
// could not be parsed, Fallback is true and Tasks is empty.
type TaskExtraction struct {
	Tasks    []ExtractedTask
	Model    string
	Fallback bool
}

// SentimentPhase is one entry of a meeting's sentiment arc.
type SentimentPhase struct {
	Phase       string `json:"phase"`
	Sentiment   string `json:"sentiment"`
	Description string `json:"description"`
}

// SentimentAnalysis is the result of AnalyzeSentiment. When the model
// response could not be parsed, Fallback is true and OverallSentiment
// is "unknown".
type SentimentAnalysis struct {
	OverallSentiment string            `json:"overall_sentiment"`
	PerSpeaker       map[string]string `json:"per_speaker"`
	SentimentArc     []SentimentPhase  `json:"sentiment_arc"`
	Model            string            `json:"-"`
	Fallback         bool              `json:"-"`
}

const summarizePromptTemplate = `You are an expert meeting analyst. Analyse the following meeting transcript and produce a JSON summary.

Meeting Title: %s

Transcript:
%s

Return a JSON object with exactly these keys:
- "executive_summary": A concise 2-4 sentence overview of the meeting.
- "key_points": An array of the most important discussion points (strings).
- "decisions_made": An array of decisions that were agreed upon (strings).
- "follow_ups": An array of follow-up items mentioned (strings).

Return ONLY valid JSON, no extra text.`

const extractTasksPromptTemplate = `You are an expert meeting analyst. Extract all action items and tasks from the following meeting transcript.

Transcript:
%s

Return a JSON array of task objects. Each object must have:
- "title": Short description of the action item.
- "assignee": Person responsible (use the speaker name, or "Unassigned" if unclear).
- "due_date": Due date if mentioned (ISO format YYYY-MM-DD), or null.
- "priority": One of "low", "medium", "high", "critical".
- "context": Brief quote or context from the transcript explaining the task.

Return ONLY a valid JSON array, no extra text.`

const analyzeSentimentPromptTemplate = `You are a sentiment analysis expert. Analyse the following meeting transcript.

Speakers: %s

Transcript:
%s

Return a JSON object with:
- "overall_sentiment": Overall meeting sentiment ("positive", "negative", "neutral", or "mixed") with a brief explanation.
- "per_speaker": An object mapping each speaker name to a brief sentiment summary string.
- "sentiment_arc": An array of 3-5 objects describing how sentiment changed over the course of the meeting, each with "phase" (e.g. "Opening", "Mid-meeting", "Closing"), "sentiment" label, and "description".

Return ONLY valid JSON, no extra text.`

// Summarize produces a structured summary of a meeting transcript.
// Malformed model output degrades to a fallback result, never an error;
// only the completion call itself can fail.
func (c *Client) Summarize(ctx context.Context, transcriptText, meetingTitle string) (MeetingSummary, error) {
	completion, err := c.Complete(ctx, CompletionRequest{
		Prompt:      fmt.Sprintf(summarizePromptTemplate, meetingTitle, transcriptText),
		Format:      FormatJSON,
		Temperature: 0.3,
	})
	if err != nil {
		return MeetingSummary{}, err
	}

	summary := parseSummary(completion.Text)
	summary.Model = completion.Model
	summary.TokenCount = completion.TokenCount
	return summary, nil
}

func parseSummary(text string) MeetingSummary {
	var summary MeetingSummary
	if err := json.Unmarshal([]byte(text), &summary); err != nil {
		log.Printf("llm: summary response is not valid JSON, keeping raw text")
		return MeetingSummary{
			ExecutiveSummary: text,
			KeyPoints:        []string{},
			DecisionsMade:    []string{},
			FollowUps:        []string{},
			Fallback:         true,
		}
	}
	if summary.KeyPoints == nil {
		summary.KeyPoints = []string{}
	}
	if summary.DecisionsMade == nil {
		summary.DecisionsMade = []string{}
	}
	if summary.FollowUps == nil {
		summary.FollowUps = []string{}
	}
	return summary
}

// ExtractTasks extracts action items from a meeting transcript. The
// model may return a bare array, an object with a "tasks" array, or a
// single task object; all three parse. Any other JSON object wraps as
// one task, even without a title. Malformed output degrades to an
// empty fallback result.
func (c *Client) ExtractTasks(ctx context.Context, transcriptText string) (TaskExtraction, error) {
	completion, err := c.Complete(ctx, CompletionRequest{
		Prompt:      fmt.Sprintf(extractTasksPromptTemplate, transcriptText),
		Format:      FormatJSON,
		Temperature: 0.2,
	})
	if err != nil {
		return TaskExtraction{}, err
	}

	extraction := parseTasks(completion.Text)
	extraction.Model = completion.Model
	return extraction, nil
}

func parseTasks(text string) TaskExtraction {
	trimmed := strings.TrimSpace(text)

	var tasks []ExtractedTask
	if err := json.Unmarshal([]byte(trimmed), &tasks); err == nil {
		return TaskExtraction{Tasks: tasks}
	}

	var wrapper struct {
		Tasks []ExtractedTask `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapper); err == nil && wrapper.Tasks != nil {
		return TaskExtraction{Tasks: wrapper.Tasks}
	}

	// Any other parseable object wraps as a single task. A missing
	// title leaves the field empty; such tasks are dropped downstream.
	var single ExtractedTask
	if err := json.Unmarshal([]byte(trimmed), &single); err == nil {
		return TaskExtraction{Tasks: []ExtractedTask{single}}
	}

	log.Printf("llm: task response is not valid JSON, returning no tasks")
	return TaskExtraction{Tasks: []ExtractedTask{}, Fallback: true}
}

// AnalyzeSentiment performs deep sentiment analysis over a transcript.
// Malformed output degrades to a fallback result with overall sentiment
// "unknown".
func (c *Client) AnalyzeSentiment(ctx context.Context, transcriptText string, speakerNames []string) (SentimentAnalysis, error) {
	completion, err := c.Complete(ctx, CompletionRequest{
		Prompt:      fmt.Sprintf(analyzeSentimentPromptTemplate, strings.Join(speakerNames, ", "), transcriptText),
		Format:      FormatJSON,
		Temperature: 0.3,
	})
	if err != nil {
		return SentimentAnalysis{}, err
	}

	analysis := parseSentiment(completion.Text)
	analysis.Model = completion.Model
	return analysis, nil
}

func parseSentiment(text string) SentimentAnalysis {
	var analysis SentimentAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		log.Printf("llm: sentiment response is not valid JSON, returning fallback")
		return SentimentAnalysis{
			OverallSentiment: "unknown",
			PerSpeaker:       map[string]string{},
			SentimentArc:     []SentimentPhase{},
			Fallback:         true,
		}
	}
	if analysis.PerSpeaker == nil {
		analysis.PerSpeaker = map[string]string{}
	}
	if analysis.SentimentArc == nil {
		analysis.SentimentArc = []SentimentPhase{}
	}
	return analysis
}
