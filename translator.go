package bilingo

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// State is the outcome of processing one content item.
type State int

const (
	StateSkipped State = iota
	StateManual
	StateCacheHit
	StatePending
	StateTranslating
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSkipped:
		return "skipped"
	case StateManual:
		return "manual"
	case StateCacheHit:
		return "cache_hit"
	case StatePending:
		return "pending"
	case StateTranslating:
		return "translating"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Translator is the translation orchestrator. It decides whether an item
// needs translation, runs the backend call under the limiter, validates the
// output and persists the result.
type Translator struct {
	cfg       Config
	transport Transport
	store     CacheStore
	limiter   *Limiter
	wrapper   Wrapper
	manual    ManualSource
	titles    *TitleRegistry
	log       zerolog.Logger

	loadGroup singleflight.Group
	loaded    atomic.Bool
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.log = log
	}
}

// WithLimiter shares a limiter between translators.
func WithLimiter(l *Limiter) TranslatorOption {
	return func(t *Translator) {
		t.limiter = l
	}
}

// WithManualSource registers hand-authored translations.
func WithManualSource(src ManualSource) TranslatorOption {
	return func(t *Translator) {
		t.manual = src
	}
}

// WithWrapper overrides the content wrapper.
func WithWrapper(w Wrapper) TranslatorOption {
	return func(t *Translator) {
		t.wrapper = w
	}
}

// NewTranslator creates a new Translator. store may be nil, in which case
// nothing is cached.
func NewTranslator(cfg Config, transport Transport, store CacheStore, opts ...TranslatorOption) *Translator {
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.TargetLayout == "" {
		cfg.TargetLayout = def.TargetLayout
	}
	if cfg.SourceLang == "" {
		cfg.SourceLang = def.SourceLang
	}
	if cfg.TargetLang == "" {
		cfg.TargetLang = def.TargetLang
	}

	t := &Translator{
		cfg:       cfg,
		transport: transport,
		store:     store,
		wrapper:   Wrapper{SourceLang: cfg.SourceLang, TargetLang: cfg.TargetLang},
		titles:    NewTitleRegistry(),
		log:       zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.limiter == nil {
		t.limiter = NewLimiter(cfg.MaxConcurrency)
	}

	if cfg.Enable && cfg.APIKey == "" {
		t.log.Warn().Msg("translation enabled but no API key configured, articles will not be translated")
	}

	return t
}

// Process translates one content item. It always returns an item: the
// translated one on success or cache hit, the original otherwise. Errors are
// logged, never returned.
func (t *Translator) Process(ctx context.Context, item ContentItem) (ContentItem, State) {
	log := t.log.With().Str("source", item.Source).Str("title", item.Title).Logger()

	if reason := t.skipReason(item); reason != "" {
		log.Debug().Str("reason", reason).Msg("skipped")
		return item, StateSkipped
	}

	if t.manual != nil && t.manual.Has(item.Source) {
		if out, ok := t.applyManual(item, log); ok {
			return out, StateManual
		}
	}

	if t.cfg.APIKey == "" {
		log.Debug().Str("reason", "no credentials").Msg("skipped")
		return item, StateSkipped
	}

	t.ensureLoaded(ctx)

	hash := ItemFingerprint(item)
	if out, ok := t.fromCache(ctx, item, hash, log); ok {
		return out, StateCacheHit
	}

	out, err := t.translate(ctx, item, hash, log)
	if err != nil {
		log.Error().Err(err).Str("state", StateFailed.String()).Msg("translation failed, keeping original")
		return item, StateFailed
	}

	log.Info().Str("state", StateSucceeded.String()).Str("translated_title", out.Title).Msg("translated")
	return out, StateSucceeded
}

func (t *Translator) skipReason(item ContentItem) string {
	switch {
	case !t.cfg.Enable:
		return "disabled"
	case strings.TrimSpace(item.Body) == "":
		return "empty body"
	case item.Skip:
		return "opted out"
	case item.Layout != t.cfg.TargetLayout:
		return "layout " + item.Layout
	}
	return ""
}

func (t *Translator) applyManual(item ContentItem, log zerolog.Logger) (ContentItem, bool) {
	m, err := t.manual.Load(item.Source)
	if err != nil || m == nil || strings.TrimSpace(m.Body) == "" {
		log.Warn().Err(err).Msg("manual translation unreadable, ignoring")
		return item, false
	}

	title := m.Title
	if title == "" {
		title = item.Title
	}

	t.titles.Add(TitlePair{Original: item.Title, Translated: title})
	item.Body = t.wrapper.Wrap(item.Body, m.Body, item.Title, title)
	item.Title = title

	log.Info().Str("state", StateManual.String()).Msg("using manual translation")
	return item, true
}

// ensureLoaded loads the store once. Concurrent callers wait for the same
// in-flight load.
func (t *Translator) ensureLoaded(ctx context.Context) {
	if t.store == nil || t.loaded.Load() {
		return
	}
	_, _, _ = t.loadGroup.Do("load", func() (interface{}, error) {
		if t.loaded.Load() {
			return nil, nil
		}
		records, err := t.store.Load(ctx)
		if err != nil {
			t.log.Warn().Err(err).Msg("cache load failed, continuing with local records")
		} else {
			t.log.Debug().Int("records", len(records)).Msg("cache loaded")
		}
		t.loaded.Store(true)
		return nil, nil
	})
}

func (t *Translator) fromCache(ctx context.Context, item ContentItem, hash string, log zerolog.Logger) (ContentItem, bool) {
	if t.store == nil {
		return item, false
	}
	rec, ok := t.store.Get(item.Source)
	if !ok || !rec.Matches(hash, t.cfg.Model) {
		return item, false
	}

	// Records written before originalTitle existed are backfilled once
	if rec.OriginalTitle == "" {
		rec.OriginalTitle = item.Title
		if err := t.store.Save(ctx, item.Source, rec); err != nil {
			log.Warn().Err(err).Msg("failed to persist backfilled record")
		}
	}

	t.titles.Add(TitlePair{Original: item.Title, Translated: rec.TranslatedTitle})
	item.Title = rec.TranslatedTitle
	item.Body = rec.WrappedContent

	log.Info().Str("state", StateCacheHit.String()).Msg("cache hit")
	return item, true
}

func (t *Translator) translate(ctx context.Context, item ContentItem, hash string, log zerolog.Logger) (ContentItem, error) {
	masked, blocks := ProtectCodeBlocks(item.Body)
	req := ChatRequest{
		Model:  t.cfg.Model,
		System: BuildSystemPrompt(t.cfg.SourceLang, t.cfg.TargetLang),
		User:   BuildUserMessage(item.Title, masked),
	}

	log.Debug().Str("state", StatePending.String()).Int("code_blocks", len(blocks)).Msg("waiting for slot")
	resp, err := Limit(ctx, t.limiter, func(ctx context.Context) (string, error) {
		log.Debug().Str("state", StateTranslating.String()).Msg("calling backend")
		return t.transport.Complete(ctx, req)
	})
	if err != nil {
		return item, &TranslationError{Message: "backend call failed", Cause: err}
	}

	title, body, err := ParseResponse(resp)
	if err != nil {
		return item, &TranslationError{Message: "unusable response", Cause: err}
	}
	if title == "" {
		title = item.Title
	}

	body = RestoreCodeBlocks(body, blocks)
	if err := ValidateOutput(body); err != nil {
		return item, &TranslationError{Message: "output rejected", Cause: err}
	}
	body = EscapeStrayTemplateSyntax(body)

	wrapped := t.wrapper.Wrap(item.Body, body, item.Title, title)

	if t.store != nil {
		rec := Record{
			Hash:            hash,
			Model:           t.cfg.Model,
			OriginalTitle:   item.Title,
			TranslatedTitle: title,
			WrappedContent:  wrapped,
		}
		if err := t.store.Save(ctx, item.Source, rec); err != nil {
			log.Warn().Err(err).Msg("failed to persist translation")
		}
	}

	t.titles.Add(TitlePair{Original: item.Title, Translated: title})
	item.Title = title
	item.Body = wrapped
	return item, nil
}

// TitlePairs returns the pairs translated in this run followed by pairs of
// cached records. Consumed by the injection layer.
func (t *Translator) TitlePairs() []TitlePair {
	var records map[string]Record
	if t.store != nil {
		records = t.store.Records()
	}
	return MergeTitlePairs(t.titles.Pairs(), records)
}

// Config returns the effective configuration.
func (t *Translator) Config() Config {
	return t.cfg
}

// Limiter returns the concurrency limiter.
func (t *Translator) Limiter() *Limiter {
	return t.limiter
}
