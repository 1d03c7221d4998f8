// Package tui collects profile field values from a terminal. Each field type
// maps to the closest prompt: confirmation fields ask yes/no, taxonomy fields
// offer their terms, and the rest take free input checked by the field type.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/fieldtypes"
	"github.com/goliatone/go-profilefields/pkg/options"
	"github.com/goliatone/go-profilefields/pkg/render"
	"github.com/goliatone/go-profilefields/pkg/store"
)

// Renderer prompts for field values through a PromptDriver.
type Renderer struct {
	registry     *field.Registry
	driver       PromptDriver
	outputFormat OutputFormat
	taxonomies   store.TaxonomyStore
	localizer    *render.Localizer
	theme        Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(registry *field.Registry, options ...Option) (*Renderer, error) {
	if registry == nil {
		return nil, errors.New("tui: registry is required")
	}

	r := &Renderer{
		registry:     registry,
		outputFormat: OutputFormatJSON,
		localizer:    render.NewLocalizer(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	return r, nil
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every definition in order and serializes the answers.
// current supplies prefilled values keyed by field id.
func (r *Renderer) Render(ctx context.Context, defs []field.Definition, current map[int64]string) ([]byte, error) {
	answers, err := r.Collect(ctx, defs, current)
	if err != nil {
		return nil, err
	}
	return answers.Encode(r.outputFormat)
}

// Collect prompts for every definition in order.
func (r *Renderer) Collect(ctx context.Context, defs []field.Definition, current map[int64]string) (*Answers, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	answers := NewAnswers()
	for _, def := range defs {
		value, err := r.Ask(ctx, def, current[def.ID])
		if err != nil {
			return nil, err
		}
		answers.Set(def.InputName(), value)
	}
	return answers, nil
}

// Ask prompts until the user supplies a value the field type accepts and
// returns it pre-validated.
func (r *Renderer) Ask(ctx context.Context, def field.Definition, current string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ft, err := r.registry.Get(def.Type)
	if err != nil {
		return "", fmt.Errorf("tui: field %d: %w", def.ID, err)
	}

	for {
		raw, err := r.prompt(ctx, ft, def, current)
		if err != nil {
			return "", err
		}
		value := ft.PreValidate(raw, def.ID)
		if err := r.check(ft, def, value); err != nil {
			_ = r.driver.Info(ctx, r.theme.ErrorPrefix+err.Error())
			continue
		}
		return value, nil
	}
}

func (r *Renderer) prompt(ctx context.Context, ft field.FieldType, def field.Definition, current string) (string, error) {
	label := r.label(ctx, def)
	switch def.Type {
	case fieldtypes.TagConfirmation:
		message := options.ConfirmationLabel(def.Options)
		if message == "" {
			message = label
		}
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: current == fieldtypes.ConfirmationAccepted,
			Help:    def.Description,
		})
		if err != nil {
			return "", err
		}
		if ok {
			return fieldtypes.ConfirmationAccepted, nil
		}
		return fieldtypes.ConfirmationDeclined, nil

	case fieldtypes.TagTaxonomy:
		return r.promptTerm(ctx, def, label, current)

	default:
		help := def.Description
		if def.Type == fieldtypes.TagSlider {
			if bounds := options.SliderBounds(def.Options); bounds.HasMin || bounds.HasMax {
				help = strings.TrimSpace(help + " [" + bounds.Min + ".." + bounds.Max + "]")
			}
		}
		return r.driver.Input(ctx, InputConfig{
			Message: label,
			Default: current,
			Help:    help,
			Validator: func(raw string) error {
				return r.check(ft, def, ft.PreValidate(raw, def.ID))
			},
		})
	}
}

func (r *Renderer) promptTerm(ctx context.Context, def field.Definition, label, current string) (string, error) {
	var terms []store.Term
	if taxonomy := options.TaxonomyName(def.Options); taxonomy != "" && r.taxonomies != nil {
		var err error
		terms, err = r.taxonomies.Terms(ctx, taxonomy)
		if err != nil {
			return "", fmt.Errorf("tui: terms of %q: %w", taxonomy, err)
		}
	}

	choices := []string{r.localizer.Text(ctx, render.MsgSelectPlaceholder)}
	defaultIndex := 0
	for i, term := range terms {
		choices = append(choices, term.Name)
		if strconv.FormatInt(term.ID, 10) == strings.TrimSpace(current) {
			defaultIndex = i + 1
		}
	}

	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      choices,
		DefaultIndex: defaultIndex,
		Help:         def.Description,
	})
	if err != nil {
		return "", err
	}
	if idx <= 0 || idx > len(terms) {
		return "", nil
	}
	return strconv.FormatInt(terms[idx-1].ID, 10), nil
}

// check applies the field type's validation plus the constraints its edit
// control enforces in a browser: required fields and slider bounds. A
// required confirmation must be accepted.
func (r *Renderer) check(ft field.FieldType, def field.Definition, value string) error {
	if def.Type == fieldtypes.TagConfirmation && value == fieldtypes.ConfirmationDeclined {
		value = ""
	}
	if value == "" {
		if def.Required {
			return fmt.Errorf("%w: %s is required", ErrInvalidValue, def.Name)
		}
		return nil
	}
	if !ft.IsValid(field.Single(value)) {
		return fmt.Errorf("%w: %q", ErrInvalidValue, value)
	}
	if def.Type == fieldtypes.TagSlider {
		return checkBounds(options.SliderBounds(def.Options), value)
	}
	return nil
}

func checkBounds(bounds options.Bounds, value string) error {
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidValue, value)
	}
	if bounds.HasMin {
		if lo, err := strconv.ParseFloat(bounds.Min, 64); err == nil && n < lo {
			return fmt.Errorf("%w: %s is below %s", ErrInvalidValue, value, bounds.Min)
		}
	}
	if bounds.HasMax {
		if hi, err := strconv.ParseFloat(bounds.Max, 64); err == nil && n > hi {
			return fmt.Errorf("%w: %s is above %s", ErrInvalidValue, value, bounds.Max)
		}
	}
	return nil
}

func (r *Renderer) label(ctx context.Context, def field.Definition) string {
	label := def.Name
	if label == "" {
		label = def.InputName()
	}
	if def.Required {
		label += " " + r.localizer.Text(ctx, render.MsgRequired)
	}
	return label
}
