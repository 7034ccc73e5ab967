// Package refiner implements the iterative prompt refinement engine: the
// meta-analysis gateway, the bounded refinement loop, and the configuration
// finalizer.
package refiner

import (
	"time"

	"github.com/cdevos2017/cot6930-200-a1/params"
)

// NudgeSuffix is appended to the candidate when an iteration offers no
// improvement, so the next meta-prompt is guaranteed to differ from the
// previous one. The finalizer strips it again.
const NudgeSuffix = " (Please refine this further)"

// State describes how a refinement run ended.
type State int

const (
	StateRunning State = iota
	StateConverged
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateConverged:
		return "converged"
	case StateExhausted:
		return "exhausted"
	default:
		return "running"
	}
}

// Config is the working record of one refinement run. The loop mutates it in
// place; the finalizer freezes it before it is handed back to the caller.
type Config struct {
	Role           string     `json:"role"`
	TaskType       string     `json:"task_type"`
	Technique      string     `json:"technique,omitempty"` // empty means no technique applied
	Template       string     `json:"template"`
	Parameters     params.Set `json:"parameters"`
	FinalPrompt    string     `json:"final_prompt"`
	IterationsUsed int        `json:"iterations_used"`
	FinalQuality   float64    `json:"final_quality"`
	State          State      `json:"-"`
	Reasoning      string     `json:"reasoning,omitempty"`
	Metadata       *Metadata  `json:"metadata,omitempty"`
}

// Metadata is attached exactly once, by the finalizer.
type Metadata struct {
	OriginalQuery       string    `json:"original_query"`
	ValidationPerformed bool      `json:"validation_performed"`
	Timestamp           time.Time `json:"validation_timestamp"`
}

// Analysis is one structured result from the meta-analysis gateway. The zero
// value represents a failed round-trip: zero quality and no improvement.
// UsedDefaults marks results synthesized by the parser fallback rather than
// decoded from model output.
type Analysis struct {
	QualityScore   float64        `validate:"min=0,max=1"`
	ImprovedPrompt string
	Role           string
	Technique      string
	TaskType       string
	Template       string
	Parameters     map[string]any
	Reasoning      string
	UsedDefaults   bool
}
