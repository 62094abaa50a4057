// Package models defines the football analysis domain types shared by FootyOracle packages.
package models

import "time"

// ConfidenceLevel is the analyst-facing reliability estimate of a prediction.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "Low"
	ConfidenceMedium ConfidenceLevel = "Medium"
	ConfidenceHigh   ConfidenceLevel = "High"
)

// Outcome is the settlement state of a prediction.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Settled reports whether the outcome is correct or incorrect.
func (o Outcome) Settled() bool {
	return o == OutcomeCorrect || o == OutcomeIncorrect
}

// Valid reports whether o is one of the known outcome values.
func (o Outcome) Valid() bool {
	return o == OutcomePending || o.Settled()
}

// Role identifies who authored a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Odds holds bookmaker prices as display strings.
type Odds struct {
	Home string `json:"home"`
	Draw string `json:"draw"`
	Away string `json:"away"`
}

// Scenario is one possible way a match plays out.
type Scenario struct {
	Name        string `json:"name"`
	Probability string `json:"probability"`
	Description string `json:"description"`
}

// PredictionDetails is the betting-market view of a prediction.
type PredictionDetails struct {
	Result1X2    string `json:"result1X2"`
	CorrectScore string `json:"correctScore"`
	OverUnder    string `json:"overUnder"`
	BTTS         string `json:"btts"`
	SafeBet      string `json:"safeBet"`
	ValueRating  string `json:"valueRating,omitempty"`
}

// MatchAnalysis is one analyzed fixture. ID and Outcome are assigned after decoding.
type MatchAnalysis struct {
	ID               string            `json:"id,omitempty"`
	MatchTitle       string            `json:"matchTitle"`
	League           string            `json:"league"`
	KickOff          string            `json:"kickOff,omitempty"`
	Status           string            `json:"status,omitempty"`
	Score            string            `json:"score,omitempty"`
	Minute           string            `json:"minute,omitempty"`
	Stats            []string          `json:"stats"`
	TacticalAnalysis []string          `json:"tacticalAnalysis,omitempty"`
	KeyStats         []string          `json:"keyStats,omitempty"`
	RiskFlags        []string          `json:"riskFlags,omitempty"`
	Scenarios        []Scenario        `json:"scenarios,omitempty"`
	Odds             *Odds             `json:"odds,omitempty"`
	Prediction       PredictionDetails `json:"prediction"`
	Reasoning        string            `json:"reasoning"`
	Confidence       ConfidenceLevel   `json:"confidence"`
	Outcome          Outcome           `json:"outcome,omitempty"`
}

// EffectiveOutcome returns the outcome, treating an unset value as pending.
func (m MatchAnalysis) EffectiveOutcome() Outcome {
	if m.Outcome == "" {
		return OutcomePending
	}
	return m.Outcome
}

// NewsItem is a football news story surfaced by the model.
type NewsItem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	SourceName    string `json:"sourceName"`
	URL           string `json:"url,omitempty"`
	PublishedTime string `json:"publishedTime,omitempty"`
	Category      string `json:"category,omitempty"`
}

// GroundingSource is a web citation attached by the search tool.
type GroundingSource struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
}

// Message is one turn of the conversation.
type Message struct {
	ID          string            `json:"id"`
	Role        Role              `json:"role"`
	Content     string            `json:"content"`
	Summary     string            `json:"summary,omitempty"`
	Predictions []MatchAnalysis   `json:"predictions,omitempty"`
	News        []NewsItem        `json:"news,omitempty"`
	Sources     []GroundingSource `json:"sources,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// AnalysisResponse is the decoded model reply before ids and outcomes are attached.
type AnalysisResponse struct {
	Reply   string          `json:"reply"`
	Matches []MatchAnalysis `json:"matches,omitempty"`
	News    []NewsItem      `json:"news,omitempty"`
	Summary string          `json:"summary,omitempty"`
}
