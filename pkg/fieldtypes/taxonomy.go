package fieldtypes

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/options"
	"github.com/goliatone/go-profilefields/pkg/render"
	"github.com/goliatone/go-profilefields/pkg/renderers/vanilla"
	"github.com/goliatone/go-profilefields/pkg/store"
)

// Taxonomy is a select list of the terms of one custom taxonomy. The field's
// first option names the taxonomy; stored values are term ids.
type Taxonomy struct {
	base
}

var (
	_ field.FieldType = (*Taxonomy)(nil)
	_ OptionEncoder   = (*Taxonomy)(nil)
)

// NewTaxonomy builds the taxonomy field type.
func NewTaxonomy(opts ...Option) (*Taxonomy, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return newTaxonomy(cfg)
}

func newTaxonomy(cfg *config) (*Taxonomy, error) {
	b, err := newBase(TagTaxonomy, cfg,
		field.WithName(render.DefaultMessages[render.MsgTypeTaxonomy]),
		field.WithCategory(field.CategoryMulti),
		field.SupportsOptions(),
		field.WithPattern(`^.+$`),
	)
	if err != nil {
		return nil, err
	}
	return &Taxonomy{base: b}, nil
}

// RenderEdit renders the labelled term select.
func (t *Taxonomy) RenderEdit(ctx context.Context, rc field.RenderContext) (string, error) {
	current := t.currentValue(ctx, rc)
	attrs := t.controlAttrs(rc, "")
	return t.editLabel(ctx, rc) + vanilla.Select(attrs, t.optionsMarkup(ctx, rc.Field, current)), nil
}

// RenderAdmin renders a preview of the term select.
func (t *Taxonomy) RenderAdmin(ctx context.Context, rc field.RenderContext) (string, error) {
	name := rc.Field.InputName()
	attrs := vanilla.NewAttrs().
		Set("name", name).
		Set("id", name).
		Merge(rc.Attrs)
	return vanilla.Select(attrs, t.optionsMarkup(ctx, rc.Field, rc.Value)), nil
}

// RenderAdminConfig renders the custom taxonomy picker, or an explanatory
// message when no custom taxonomy exists.
func (t *Taxonomy) RenderAdminConfig(ctx context.Context, current field.Definition, pending field.Submission) (string, error) {
	tag := t.desc.Tag()
	opts, _ := t.configOptions(current, pending, field.OptionIDTransient)
	selected := options.TaxonomyName(opts)

	var choices []map[string]any
	for _, tax := range store.CustomTaxonomies(t.taxonomies(ctx)) {
		label := tax.Label
		if label == "" {
			label = tax.Name
		}
		choices = append(choices, map[string]any{
			"value":    tax.Name,
			"label":    label,
			"selected": tax.Name == selected,
		})
	}

	return t.renderConfig(vanilla.PartialTaxonomyConfig, vanilla.TemplateTaxonomyConfig, map[string]any{
		"tag":           tag,
		"style":         t.configStyle(current),
		"heading":       t.text(ctx, render.MsgTaxonomyPick),
		"select_name":   field.OptionKey(tag, 1),
		"select_id":     field.OptionID(tag, 1),
		"placeholder":   t.text(ctx, render.MsgSelectPlaceholder),
		"taxonomies":    choices,
		"empty_message": t.text(ctx, render.MsgTaxonomyNone),
	})
}

// EncodeOptions stores the picked taxonomy as the single option.
func (t *Taxonomy) EncodeOptions(pending field.Submission) []field.Option {
	opts := options.Synthesize(t.desc, pending, field.OptionIDTransient)
	if options.TaxonomyName(opts) == "" {
		return nil
	}
	return opts[:1]
}

// Display resolves the stored term id to the term name. Anything that does
// not resolve to a term of the field's taxonomy renders the empty token.
func (t *Taxonomy) Display(ctx context.Context, raw string, fieldID int64) string {
	display := vanilla.Text(t.text(ctx, render.MsgDisplayEmpty))
	if term, ok := t.resolveTerm(ctx, raw, fieldID); ok {
		display = vanilla.Text(term.Name)
	}
	return t.finishDisplay(display, raw, fieldID)
}

func (t *Taxonomy) resolveTerm(ctx context.Context, raw string, fieldID int64) (store.Term, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || t.cfg.taxonomies == nil {
		return store.Term{}, false
	}
	def, ok := t.definition(ctx, fieldID)
	if !ok {
		return store.Term{}, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return store.Term{}, false
	}
	term, err := t.cfg.taxonomies.Term(ctx, id)
	if err != nil {
		return store.Term{}, false
	}
	if term.Taxonomy != options.TaxonomyName(def.Options) {
		return store.Term{}, false
	}
	return term, true
}

func (t *Taxonomy) optionsMarkup(ctx context.Context, def field.Definition, current string) string {
	entries := []vanilla.SelectOption{{Value: "", Label: t.text(ctx, render.MsgSelectPlaceholder)}}
	for _, term := range t.terms(ctx, options.TaxonomyName(def.Options)) {
		id := formatID(term.ID)
		entries = append(entries, vanilla.SelectOption{
			Value:    id,
			Label:    term.Name,
			Selected: id == strings.TrimSpace(current),
		})
	}
	return t.desc.Hooks().ApplyOptionsMarkup(vanilla.Options(entries), t.desc.Tag(), def.ID, current)
}

func (t *Taxonomy) terms(ctx context.Context, taxonomy string) []store.Term {
	if taxonomy == "" || t.cfg.taxonomies == nil {
		return nil
	}
	terms, err := t.cfg.taxonomies.Terms(ctx, taxonomy)
	if err != nil {
		t.cfg.logger.Warn("taxonomy terms lookup failed",
			zap.String("taxonomy", taxonomy),
			zap.Error(err),
		)
		return nil
	}
	return terms
}

func (t *Taxonomy) taxonomies(ctx context.Context) []store.Taxonomy {
	if t.cfg.taxonomies == nil {
		return nil
	}
	all, err := t.cfg.taxonomies.Taxonomies(ctx)
	if err != nil {
		t.cfg.logger.Warn("taxonomy list lookup failed", zap.Error(err))
		return nil
	}
	return all
}
