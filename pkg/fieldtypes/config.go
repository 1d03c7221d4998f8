package fieldtypes

import (
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/render"
	"github.com/goliatone/go-profilefields/pkg/renderers/vanilla"
	"github.com/goliatone/go-profilefields/pkg/store"
)

// SearchURLFunc builds the link target used when a color value is
// auto-linked.
type SearchURLFunc func(fieldID int64, value string) string

// Option configures the field types built by this package.
type Option func(*config)

type config struct {
	fields      store.FieldStore
	values      store.ValueStore
	taxonomies  store.TaxonomyStore
	renderer    *vanilla.Renderer
	localizer   *render.Localizer
	hooks       *field.Hooks
	searchURL   SearchURLFunc
	logger      *zap.Logger
	patternMode field.PatternMode
}

// WithFieldStore sets the definition lookup used by display formatting.
func WithFieldStore(s store.FieldStore) Option {
	return func(cfg *config) {
		cfg.fields = s
	}
}

// WithValueStore sets the stored value lookup used when a render context
// carries a subject but no value.
func WithValueStore(s store.ValueStore) Option {
	return func(cfg *config) {
		cfg.values = s
	}
}

// WithTaxonomyStore sets the taxonomy and term lookups.
func WithTaxonomyStore(s store.TaxonomyStore) Option {
	return func(cfg *config) {
		cfg.taxonomies = s
	}
}

// WithStore sets every collaborator from one store.
func WithStore(s store.Store) Option {
	return func(cfg *config) {
		if s == nil {
			return
		}
		cfg.fields = s
		cfg.values = s
		cfg.taxonomies = s
	}
}

// WithRenderer shares an HTML renderer across field types.
func WithRenderer(r *vanilla.Renderer) Option {
	return func(cfg *config) {
		if r != nil {
			cfg.renderer = r
		}
	}
}

// WithLocalizer sets the message localizer.
func WithLocalizer(l *render.Localizer) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.localizer = l
		}
	}
}

// WithHooks attaches extension callbacks to every descriptor.
func WithHooks(h *field.Hooks) Option {
	return func(cfg *config) {
		cfg.hooks = h
	}
}

// WithSearchURL overrides the auto-link target builder.
func WithSearchURL(fn SearchURLFunc) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.searchURL = fn
		}
	}
}

// WithLogger sets the logger used to report collaborator failures that are
// otherwise rendered as quiet fallbacks.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithPatternMode selects how descriptors combine multiple patterns.
func WithPatternMode(mode field.PatternMode) Option {
	return func(cfg *config) {
		cfg.patternMode = mode
	}
}

// DefaultSearchURL links to "/search?field=<id>&q=<value>".
func DefaultSearchURL(fieldID int64, value string) string {
	q := url.Values{}
	q.Set("field", strconv.FormatInt(fieldID, 10))
	q.Set("q", value)
	return "/search?" + q.Encode()
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		searchURL:   DefaultSearchURL,
		patternMode: field.PatternLastWins,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.localizer == nil {
		cfg.localizer = render.NewLocalizer()
	}
	if cfg.renderer == nil {
		r, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("fieldtypes: default renderer: %w", err)
		}
		cfg.renderer = r
	}
	registerRuntimeAssets(cfg.renderer.Assets())
	return cfg, nil
}

func registerRuntimeAssets(assets *vanilla.AssetRegistry) {
	runtime := vanilla.AssetSet{
		Stylesheets: []string{vanilla.StylesheetName},
		Scripts:     []vanilla.Script{{Src: vanilla.RuntimeScriptName, Defer: true}},
	}
	for _, tag := range []string{TagColor, TagConfirmation, TagSlider} {
		if _, ok := assets.Lookup(tag); ok {
			continue
		}
		_ = assets.Register(tag, runtime)
	}
	if _, ok := assets.Lookup(TagTaxonomy); !ok {
		_ = assets.Register(TagTaxonomy, vanilla.AssetSet{Stylesheets: []string{vanilla.StylesheetName}})
	}
}
