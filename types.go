package bilingo

import (
	"context"
	"time"
)

// SchemaVersion tags every fingerprint. Bumping it invalidates all cached
// records at once, which is how changes to wrapping or validation are rolled
// out.
const SchemaVersion = "v3"

// Default configuration values.
const (
	DefaultModel          = "deepseek-ai/DeepSeek-V3.2"
	DefaultEndpoint       = "https://api.siliconflow.cn/v1/chat/completions"
	DefaultMaxConcurrency = 2
	DefaultSingleTimeout  = 120 * time.Second
	DefaultMaxRetries     = 3
	DefaultTargetLayout   = "post"
	DefaultSourceLang     = "zh"
	DefaultTargetLang     = "en"
)

// ContentItem is one article handed to the core by the surrounding pipeline.
type ContentItem struct {
	Source string // Source identifier, stable across runs (e.g. "_posts/a.md")
	Title  string
	Body   string
	Layout string // Layout classification (e.g. "post", "page")
	Skip   bool   // Item opts out of translation
}

// Record is a persisted translation result plus the fingerprint and model it
// was computed against.
type Record struct {
	Hash            string `json:"hash"`
	Model           string `json:"model"`
	OriginalTitle   string `json:"originalTitle,omitempty"`
	TranslatedTitle string `json:"translatedTitle"`
	WrappedContent  string `json:"wrappedContent"`
}

// Matches reports whether the record can be reused for the given fingerprint
// and model.
func (r Record) Matches(hash, model string) bool {
	return r.Hash == hash && r.Model == model
}

// TitlePair associates an original title with its translation.
type TitlePair struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// ManualTranslation is a hand-authored translation of a content item.
type ManualTranslation struct {
	Title string
	Body  string
}

// ChatRequest is a single request to the translation backend.
type ChatRequest struct {
	Model  string
	System string
	User   string
}

// Transport performs one call to the translation backend.
// Implementations have no knowledge of retries or translation semantics.
type Transport interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// CacheStore is the interface for the translation record store.
type CacheStore interface {
	// Load merges every persistence tier into memory. Called once per process.
	Load(ctx context.Context) (map[string]Record, error)

	// Get returns the in-memory record for key. No I/O.
	Get(key string) (Record, bool)

	// Save stores a record. The in-memory view is always updated; the error
	// reports persistence failures only.
	Save(ctx context.Context, key string, rec Record) error

	// Records returns a snapshot of all records.
	Records() map[string]Record
}

// ManualSource supplies hand-authored translations that take precedence over
// machine translation.
type ManualSource interface {
	Has(id string) bool
	Load(id string) (*ManualTranslation, error)
}

// Config holds configuration for the translator.
type Config struct {
	Enable            bool          // Master switch
	APIKey            string        // Backend credential; empty disables translation
	Model             string        // Backend model identifier
	Endpoint          string        // Chat-completions endpoint URL
	MaxConcurrency    int           // Simultaneous backend calls (default: 2)
	SingleTimeout     time.Duration // Per-attempt timeout (default: 120s)
	MaxRetries        int           // Retries after the first attempt (default: 3)
	RequestsPerMinute int           // Optional request pacing (0 = off)
	TargetLayout      string        // Only items with this layout are translated
	SourceLang        string        // Language of the original content
	TargetLang        string        // Language to translate into
}

// DefaultConfig returns the default configuration. Translation is disabled
// until Enable is set and an API key is provided.
func DefaultConfig() Config {
	return Config{
		Model:          DefaultModel,
		Endpoint:       DefaultEndpoint,
		MaxConcurrency: DefaultMaxConcurrency,
		SingleTimeout:  DefaultSingleTimeout,
		MaxRetries:     DefaultMaxRetries,
		TargetLayout:   DefaultTargetLayout,
		SourceLang:     DefaultSourceLang,
		TargetLang:     DefaultTargetLang,
	}
}

// RetryConfig derives the retry policy from the configuration.
func (c Config) RetryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = c.MaxRetries
	if c.SingleTimeout > 0 {
		cfg.Timeout = c.SingleTimeout
	}
	return cfg
}
