package models

import "time"

// Persona kinds
const (
	PersonaKindAnalyst  = "analyst"
	PersonaKindInvestor = "investor"
)

// Persona defines an analyst voice used to frame the generated prompt
type Persona struct {
	Key         string `json:"key"`  // stable lookup key, e.g. "value", "buffett"
	Name        string `json:"name"` // display name, e.g. "Value & Fundamental Specialist"
	Instruction string `json:"instruction"`
	Kind        string `json:"kind"` // "analyst" or "investor"
}

// GeneratedPrompt is the output of a prompt build
type GeneratedPrompt struct {
	Ticker      string    `json:"ticker"`
	PersonaKey  string    `json:"persona_key"`
	PersonaName string    `json:"persona_name"`
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generated_at"`
	FilePath    string    `json:"file_path,omitempty"` // set when saved to disk
}

// PromptRecord is a stored history entry for a generated prompt
type PromptRecord struct {
	ID          string    `json:"id" badgerhold:"key"`
	Ticker      string    `json:"ticker"`
	PersonaKey  string    `json:"persona_key"`
	PersonaName string    `json:"persona_name"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}
