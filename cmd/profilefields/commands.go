package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-profilefields/internal/server"
	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/fieldtypes"
	"github.com/goliatone/go-profilefields/pkg/renderers/tui"
	"github.com/goliatone/go-profilefields/pkg/store"
	"github.com/goliatone/go-profilefields/pkg/store/memory"
	"github.com/goliatone/go-profilefields/pkg/store/sqlstore"
)

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered field types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TAG\tNAME\tCATEGORY\tNULL\tOPTIONS\tPATTERNS")
			for _, desc := range a.registry.Descriptors() {
				ft := a.registry.MustGet(desc.Tag())
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\t%s\n",
					desc.Tag(),
					fieldtypes.TypeName(cmd.Context(), a.localizer, ft),
					desc.Category(),
					desc.AcceptsNullValue(),
					desc.SupportsOptions(),
					strings.Join(desc.Patterns(), " "),
				)
			}
			return w.Flush()
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		fieldID int64
		tag     string
	)
	cmd := &cobra.Command{
		Use:   "validate [value...]",
		Short: "Pre-validate and validate submitted values",
		Long: `Runs the field type's pre-validation filter over each value and checks the
result. Pass --field to resolve the type from a stored definition, or --type
to check against a type directly. No values checks the null value.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ft, err := a.resolve(cmd.Context(), fieldID, tag)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				args = []string{""}
			}
			values := make(field.Value, 0, len(args))
			for _, raw := range args {
				values = append(values, ft.PreValidate(raw, def.ID))
			}
			if len(values) == 1 && values[0] == "" {
				values = field.Value{}
			}

			if !ft.IsValid(values) {
				return fmt.Errorf("invalid %s value %q", ft.Descriptor().Tag(), values.String())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid %s value %q\n", ft.Descriptor().Tag(), values.String())
			return nil
		},
	}
	cmd.Flags().Int64Var(&fieldID, "field", 0, "field definition id")
	cmd.Flags().StringVar(&tag, "type", "", "field type tag")
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		fieldID   int64
		subjectID int64
		screen    string
		value     string
		tag       string
		assets    bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the edit, admin or config markup of a field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if fieldID <= 0 && screen != "config" {
				return errors.New("--field is required")
			}

			var def field.Definition
			if fieldID > 0 {
				var err error
				if def, err = a.store.Field(ctx, fieldID); err != nil {
					return err
				}
			}

			rc := field.RenderContext{
				Field:     def,
				SubjectID: subjectID,
				Value:     value,
				Screen:    field.Screen(screen),
			}

			var (
				out string
				err error
			)
			switch screen {
			case "edit", "admin":
				ft, lookupErr := a.registry.Get(def.Type)
				if lookupErr != nil {
					return lookupErr
				}
				if screen == "edit" {
					out, err = ft.RenderEdit(ctx, rc)
				} else {
					out, err = ft.RenderAdmin(ctx, rc)
				}
				tag = def.Type
			case "config":
				if tag == "" {
					tag = def.Type
				}
				ft, lookupErr := a.registry.Get(tag)
				if lookupErr != nil {
					return lookupErr
				}
				out, err = ft.RenderAdminConfig(ctx, def, field.Submission{})
			default:
				return fmt.Errorf("unknown screen %q (edit, admin or config)", screen)
			}
			if err != nil {
				return err
			}

			if assets {
				out = a.renderer.AssetTags(tag) + out
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Int64Var(&fieldID, "field", 0, "field definition id")
	cmd.Flags().Int64Var(&subjectID, "subject", 0, "subject whose stored value is shown")
	cmd.Flags().StringVar(&screen, "screen", "edit", "edit, admin or config")
	cmd.Flags().StringVar(&value, "value", "", "current value override")
	cmd.Flags().StringVar(&tag, "type", "", "type whose config block is rendered (config screen)")
	cmd.Flags().BoolVar(&assets, "assets", false, "prefix the runtime asset tags")
	return cmd
}

func newDisplayCmd(a *app) *cobra.Command {
	var fieldID int64
	cmd := &cobra.Command{
		Use:   "display VALUE",
		Short: "Format a stored value for presentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, ft, err := a.resolve(cmd.Context(), fieldID, "")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ft.Display(cmd.Context(), args[0], def.ID))
			return nil
		},
	}
	cmd.Flags().Int64Var(&fieldID, "field", 0, "field definition id")
	return cmd
}

func newPromptCmd(a *app) *cobra.Command {
	var (
		fieldIDs  []int64
		subjectID int64
		save      bool
		format    string
	)
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Ask for field values interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if save && subjectID <= 0 {
				return errors.New("--save requires --subject")
			}
			defs, err := a.definitions(ctx, fieldIDs)
			if err != nil {
				return err
			}

			current := make(map[int64]string, len(defs))
			if subjectID > 0 {
				for _, def := range defs {
					value, err := a.store.Value(ctx, def.ID, subjectID)
					if err != nil && !errors.Is(err, store.ErrNotFound) {
						return err
					}
					current[def.ID] = value
				}
			}

			prompter, err := tui.New(a.registry,
				tui.WithTaxonomyStore(a.store),
				tui.WithLocalizer(a.localizer),
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "}),
			)
			if err != nil {
				return err
			}
			answers, err := prompter.Collect(ctx, defs, current)
			if err != nil {
				return err
			}

			if save {
				writer, ok := a.store.(store.ValueWriter)
				if !ok {
					return errors.New("store cannot save values")
				}
				for _, def := range defs {
					value, _ := answers.Get(def.InputName())
					if err := writer.SaveValue(ctx, def.ID, subjectID, value); err != nil {
						return err
					}
				}
				a.logger.Info("saved profile values", zap.Int64("subject_id", subjectID), zap.Int("fields", len(defs)))
			}

			payload, err := answers.Encode(tui.OutputFormat(format))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}
	cmd.Flags().Int64SliceVar(&fieldIDs, "field", nil, "field ids to ask for (default: every field)")
	cmd.Flags().Int64Var(&subjectID, "subject", 0, "subject whose stored values prefill the prompts")
	cmd.Flags().BoolVar(&save, "save", false, "store the answers for --subject")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "output format: json, form or pretty")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the field types over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr = addr
			}
			router, err := server.NewRouter(server.Dependencies{
				Registry:  a.registry,
				Store:     a.store,
				Renderer:  a.renderer,
				Localizer: a.localizer,
				Logger:    a.logger,
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              a.cfg.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("listening", zap.String("addr", srv.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			a.logger.Info("shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides PROFILEFIELDS_ADDR)")
	return cmd
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Copy fixture taxonomies, terms and fields into the sqlite store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, ok := a.store.(*sqlstore.Store)
			if !ok {
				return errors.New("seed requires --db")
			}
			if a.cfg.FixturesDir == "" {
				return errors.New("seed requires --fixtures")
			}
			source, err := memory.LoadFS(os.DirFS(a.cfg.FixturesDir))
			if err != nil {
				return err
			}

			n, err := seed(cmd.Context(), source, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d taxonomies, %d terms, %d fields\n", n.taxonomies, n.terms, n.fields)
			return nil
		},
	}
}

type seedCounts struct {
	taxonomies, terms, fields int
}

func seed(ctx context.Context, source *memory.Store, target *sqlstore.Store) (seedCounts, error) {
	var n seedCounts

	taxonomies, err := source.Taxonomies(ctx)
	if err != nil {
		return n, err
	}
	for _, tax := range taxonomies {
		if err := target.SaveTaxonomy(ctx, tax); err != nil {
			return n, err
		}
		n.taxonomies++

		terms, err := source.Terms(ctx, tax.Name)
		if err != nil {
			return n, err
		}
		for _, term := range terms {
			if err := target.SaveTerm(ctx, term); err != nil {
				return n, err
			}
			n.terms++
		}
	}

	defs, err := source.Fields(ctx)
	if err != nil {
		return n, err
	}
	for _, def := range defs {
		if _, err := target.SaveField(ctx, def); err != nil {
			return n, err
		}
		n.fields++
	}
	return n, nil
}

// resolve finds the field type from a stored definition or a bare tag.
func (a *app) resolve(ctx context.Context, fieldID int64, tag string) (field.Definition, field.FieldType, error) {
	var def field.Definition
	if fieldID > 0 {
		var err error
		if def, err = a.store.Field(ctx, fieldID); err != nil {
			return field.Definition{}, nil, fmt.Errorf("field %d: %w", fieldID, err)
		}
		if tag == "" {
			tag = def.Type
		}
	}
	if tag == "" {
		return field.Definition{}, nil, errors.New("--field or --type is required")
	}
	ft, err := a.registry.Get(tag)
	if err != nil {
		return field.Definition{}, nil, err
	}
	return def, ft, nil
}

func (a *app) definitions(ctx context.Context, ids []int64) ([]field.Definition, error) {
	if len(ids) == 0 {
		lister, ok := a.store.(store.FieldLister)
		if !ok {
			return nil, errors.New("store cannot list fields; pass --field")
		}
		return lister.Fields(ctx)
	}
	defs := make([]field.Definition, 0, len(ids))
	for _, id := range ids {
		def, err := a.store.Field(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", strconv.FormatInt(id, 10), err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}
