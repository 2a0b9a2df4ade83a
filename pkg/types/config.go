package types

import "time"

// AIConfig holds shared settings for components that call a Generative
// AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ReviewConfig holds settings for a pipeline run.
type ReviewConfig struct {
	AIConfig `yaml:",inline"`

	// MaxConcurrent bounds how many agent invocations run in parallel
	// within a round (default 4). Per-round work is capped at the number
	// of (record, agent) pairs regardless.
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`

	// InvocationTimeout applies to each agent invocation. A timeout
	// degrades that single outcome to Unsure rather than failing the
	// round (default 60s).
	InvocationTimeout time.Duration `json:"invocation_timeout" yaml:"invocation_timeout"`

	// DebateReasoningLimit is the maximum number of runes of a peer's
	// reasoning quoted in debate feedback (default 300).
	DebateReasoningLimit int `json:"debate_reasoning_limit" yaml:"debate_reasoning_limit"`
}

// ResultsConfig holds settings for the results store.
type ResultsConfig struct {
	// ResultsDir is the directory holding the run database and exports.
	ResultsDir string `json:"results_dir" yaml:"results_dir"`
}

// ProjectConfig is the on-disk metadata for one review project.
type ProjectConfig struct {
	// Name is the display name as the user entered it.
	Name string `json:"name" yaml:"name"`

	// ID is the sanitized directory name derived from Name.
	ID string `json:"id" yaml:"id"`

	// CreatedAt is the project creation timestamp.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}
