// Package vanilla renders profile field controls as framework-free HTML.
// Small controls are assembled with escaped string builders; the larger
// admin configuration blocks come from pongo2 templates that themes may
// override through go-theme partials.
package vanilla

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	rendertemplate "github.com/goliatone/go-profilefields/pkg/render/template"
	"github.com/goliatone/go-profilefields/pkg/render/template/pongo"
)

// Template names and their theme partial keys.
const (
	TemplateConfirmationConfig = "templates/admin/confirmation.tmpl"
	TemplateSliderConfig       = "templates/admin/slider.tmpl"
	TemplateTaxonomyConfig     = "templates/admin/taxonomy.tmpl"

	PartialConfirmationConfig = "profilefields.admin.confirmation"
	PartialSliderConfig       = "profilefields.admin.slider"
	PartialTaxonomyConfig     = "profilefields.admin.taxonomy"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	assets           *AssetRegistry
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies a resolved go-theme configuration: Partials override
// template names and AssetURL rewrites asset sources.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithAssetRegistry replaces the asset registry.
func WithAssetRegistry(assets *AssetRegistry) Option {
	return func(cfg *config) {
		if assets != nil {
			cfg.assets = assets
		}
	}
}

// Renderer holds the template engine, theme and asset registry shared by
// every field type.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	theme     *theme.RendererConfig
	assets    *AssetRegistry
}

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.assets == nil {
		cfg.assets = NewAssetRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		theme:     cfg.theme,
		assets:    cfg.assets,
	}, nil
}

// MustNew panics when New fails.
func MustNew(options ...Option) *Renderer {
	r, err := New(options...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Assets exposes the asset registry.
func (r *Renderer) Assets() *AssetRegistry {
	return r.assets
}

// RenderTemplate renders templateName, or the theme partial registered
// under partialKey when one exists.
func (r *Renderer) RenderTemplate(partialKey, templateName string, data map[string]any) (string, error) {
	if r == nil || r.templates == nil {
		return "", fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	resolved := templateName
	if r.theme != nil && r.theme.Partials != nil {
		if candidate := strings.TrimSpace(r.theme.Partials[partialKey]); candidate != "" {
			resolved = candidate
		}
	}

	out, err := r.templates.Render(resolved, data)
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render %q: %w", resolved, err)
	}
	return out, nil
}

// AssetURL resolves an asset key through the theme, falling back to key.
func (r *Renderer) AssetURL(key string) string {
	if r == nil || r.theme == nil || r.theme.AssetURL == nil {
		return key
	}
	return resolveAsset(key, r.theme.AssetURL)
}

// AssetTags renders the deduplicated dependencies of the given field types.
func (r *Renderer) AssetTags(tags ...string) string {
	if r == nil || r.assets == nil {
		return ""
	}
	stylesheets, scripts := r.assets.Assets(tags)
	return AssetTags(stylesheets, scripts, r.AssetURL)
}

// ThemeName returns the active theme and variant, if any.
func (r *Renderer) ThemeName() (string, string) {
	if r == nil || r.theme == nil {
		return "", ""
	}
	return r.theme.Theme, r.theme.Variant
}
