package macros

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Expander substitutes {MACRO} placeholders in creative markup and tracking
// URLs with observability
type Expander struct {
	logger       *zap.Logger
	expansions   map[string]ExpansionFunc
	expansionsMu sync.RWMutex
	strictMode   bool // If true, any macro expansion failure causes the entire operation to fail

	// Metrics
	expansionCounter  *prometheus.CounterVec
	expansionDuration prometheus.Histogram
	failureCounter    *prometheus.CounterVec
}

// ExpansionFunc defines the signature for macro expansion functions
type ExpansionFunc func(ctx *ExpansionContext) (string, error)

// ExpansionContext contains all data available for macro expansion
type ExpansionContext struct {
	// Serving context
	MediaBuyID string
	CreativeID string
	DeviceType string

	// Tracking endpoints
	ClickURL      string
	ImpressionURL string

	// Privacy strings
	GDPR        string
	GDPRConsent string
	USPrivacy   string
	GPPString   string

	Timestamp time.Time

	// Provided values take precedence over registered expansions; preview
	// inputs land here.
	Provided map[string]string
}

// NewExpander creates a new macro expander with default macros
func NewExpander(logger *zap.Logger) *Expander {
	return NewExpanderWithMode(logger, false) // Default to lenient mode
}

// NewExpanderWithMode creates a new macro expander with configurable strict/lenient mode
func NewExpanderWithMode(logger *zap.Logger, strictMode bool) *Expander {
	expander := &Expander{
		logger:     logger,
		expansions: make(map[string]ExpansionFunc),
		strictMode: strictMode,

		// Use global registry for production observability
		expansionCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creative_macro_expansions_total",
				Help: "Total number of macro expansions performed",
			},
			[]string{"macro", "success"},
		),
		expansionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "creative_macro_expansion_duration_seconds",
				Help:    "Time taken to expand all macros in a creative",
				Buckets: prometheus.DefBuckets,
			},
		),
		failureCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creative_macro_expansion_failures_total",
				Help: "Total number of macro expansion failures",
			},
			[]string{"macro", "error_type"},
		),
	}

	expander.registerDefaultMacros()

	return expander
}

// NewExpanderForTesting creates a new macro expander with a custom registry for testing
func NewExpanderForTesting(logger *zap.Logger, strictMode bool) *Expander {
	// Use a custom registry to avoid conflicts in tests
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	expander := &Expander{
		logger:     logger,
		expansions: make(map[string]ExpansionFunc),
		strictMode: strictMode,

		expansionCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creative_macro_expansions_total",
				Help: "Total number of macro expansions performed",
			},
			[]string{"macro", "success"},
		),
		expansionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "creative_macro_expansion_duration_seconds",
				Help:    "Time taken to expand all macros in a creative",
				Buckets: prometheus.DefBuckets,
			},
		),
		failureCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "creative_macro_expansion_failures_total",
				Help: "Total number of macro expansion failures",
			},
			[]string{"macro", "error_type"},
		),
	}

	expander.registerDefaultMacros()

	return expander
}

// SetStrictMode enables or disables strict macro expansion mode
func (e *Expander) SetStrictMode(strict bool) {
	e.strictMode = strict
}

// Expand substitutes all known macros in the given content. Caller-provided
// values win over the registered defaults. In lenient mode a failing macro
// is left unexpanded; in strict mode the whole expansion fails.
func (e *Expander) Expand(content string, ctx *ExpansionContext) (string, error) {
	start := time.Now()
	defer func() {
		e.expansionDuration.Observe(time.Since(start).Seconds())
	}()

	if content == "" {
		return "", nil
	}

	expanded := e.expandProvided(content, ctx)

	expanded, macrosFound, err := e.expandStandardMacros(expanded, ctx)
	if err != nil {
		// In production (non-strict mode), log error but continue with partially expanded content
		if !e.strictMode {
			e.logger.Warn("Macro expansion completed with errors, continuing with partial expansion",
				zap.String("partial_content", expanded),
				zap.Error(err))
		} else {
			return "", err
		}
	}

	if macrosFound > 0 {
		e.logger.Debug("Expanded macros in creative content",
			zap.Int("macros_found", macrosFound))
	}

	return expanded, nil
}

// expandStandardMacros uses an optimized approach for multiple macro replacements
func (e *Expander) expandStandardMacros(content string, ctx *ExpansionContext) (string, int, error) {
	e.expansionsMu.RLock()
	defer e.expansionsMu.RUnlock()

	// Pre-scan content to identify which macros are present to avoid unnecessary work
	var foundMacros []string
	var replacements []string

	for macro := range e.expansions {
		placeholder := "{" + macro + "}"
		if strings.Contains(content, placeholder) {
			foundMacros = append(foundMacros, macro)
		}
	}

	if len(foundMacros) == 0 {
		return content, 0, nil
	}

	for _, macro := range foundMacros {
		placeholder := "{" + macro + "}"
		expansionFunc := e.expansions[macro]

		value, err := expansionFunc(ctx)
		if err != nil {
			e.expansionCounter.WithLabelValues(macro, "false").Inc()
			e.failureCounter.WithLabelValues(macro, "expansion_error").Inc()
			e.logger.Error("Failed to expand macro",
				zap.String("macro", macro),
				zap.Error(err))

			if e.strictMode {
				return "", 0, fmt.Errorf("macro expansion failed in strict mode for macro '%s': %w", macro, err)
			}
			continue
		}

		replacements = append(replacements, placeholder, value)

		e.expansionCounter.WithLabelValues(macro, "true").Inc()
	}

	if len(replacements) > 0 {
		replacer := strings.NewReplacer(replacements...)
		return replacer.Replace(content), len(foundMacros), nil
	}

	return content, 0, nil
}

// RegisterMacro adds a custom macro expansion function
func (e *Expander) RegisterMacro(name string, expansionFunc ExpansionFunc) error {
	if name == "" {
		return fmt.Errorf("macro name cannot be empty")
	}

	if expansionFunc == nil {
		return fmt.Errorf("expansion function cannot be nil")
	}

	e.expansionsMu.Lock()
	defer e.expansionsMu.Unlock()

	e.expansions[name] = expansionFunc

	e.logger.Info("Registered custom macro",
		zap.String("macro", name))

	return nil
}

// RegisteredMacros returns a list of all registered macro names
func (e *Expander) RegisteredMacros() []string {
	e.expansionsMu.RLock()
	defer e.expansionsMu.RUnlock()

	macros := make([]string, 0, len(e.expansions))
	for name := range e.expansions {
		macros = append(macros, name)
	}

	return macros
}

// registerDefaultMacros registers the macro vocabulary every catalog format
// supports
func (e *Expander) registerDefaultMacros() {
	e.expansions["MEDIA_BUY_ID"] = func(ctx *ExpansionContext) (string, error) {
		return ctx.MediaBuyID, nil
	}

	e.expansions["CREATIVE_ID"] = func(ctx *ExpansionContext) (string, error) {
		return ctx.CreativeID, nil
	}

	e.expansions["DEVICE_TYPE"] = func(ctx *ExpansionContext) (string, error) {
		return ctx.DeviceType, nil
	}

	e.expansions["CLICK_URL"] = func(ctx *ExpansionContext) (string, error) {
		return ctx.ClickURL, nil
	}

	e.expansions["IMPRESSION_URL"] = func(ctx *ExpansionContext) (string, error) {
		return ctx.ImpressionURL, nil
	}

	// Privacy strings pass through empty when the request carries none.
	e.expansions["GDPR"] = func(ctx *ExpansionContext) (string, error) {
		return ctx.GDPR, nil
	}

	e.expansions["GDPR_CONSENT"] = func(ctx *ExpansionContext) (string, error) {
		return ctx.GDPRConsent, nil
	}

	e.expansions["US_PRIVACY"] = func(ctx *ExpansionContext) (string, error) {
		return ctx.USPrivacy, nil
	}

	e.expansions["GPP_STRING"] = func(ctx *ExpansionContext) (string, error) {
		return ctx.GPPString, nil
	}

	// Cache busting
	e.expansions["CACHEBUSTER"] = func(ctx *ExpansionContext) (string, error) {
		return fmt.Sprintf("%d", time.Now().UnixNano()), nil
	}

	e.expansions["TIMESTAMP"] = func(ctx *ExpansionContext) (string, error) {
		return fmt.Sprintf("%d", ctx.Timestamp.Unix()), nil
	}

	e.expansions["UUID"] = func(ctx *ExpansionContext) (string, error) {
		return uuid.New().String(), nil
	}
}

// expandProvided substitutes caller-supplied macro values before the
// registered defaults run, so preview inputs can override any macro.
func (e *Expander) expandProvided(content string, ctx *ExpansionContext) string {
	if ctx == nil || ctx.Provided == nil {
		return content
	}

	expanded := content
	for key, value := range ctx.Provided {
		placeholder := "{" + key + "}"
		if strings.Contains(expanded, placeholder) {
			expanded = strings.ReplaceAll(expanded, placeholder, value)
		}
	}

	return expanded
}

// Unsupported reports macro placeholders in the content that no registered
// expansion covers.
func (e *Expander) Unsupported(content string) []string {
	var unsupportedMacros []string

	macroStart := 0
	for {
		start := strings.Index(content[macroStart:], "{")
		if start == -1 {
			break
		}
		start += macroStart

		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		macro := content[start+1 : end]

		e.expansionsMu.RLock()
		_, supported := e.expansions[macro]
		e.expansionsMu.RUnlock()

		if !supported {
			unsupportedMacros = append(unsupportedMacros, macro)
		}

		macroStart = end + 1
	}

	return unsupportedMacros
}
