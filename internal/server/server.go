// Package server exposes the registered field types over HTTP: markup for
// the edit, admin and configuration screens, validation, display formatting
// and the admin option write path.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-profilefields/pkg/field"
	"github.com/goliatone/go-profilefields/pkg/fieldtypes"
	"github.com/goliatone/go-profilefields/pkg/render"
	"github.com/goliatone/go-profilefields/pkg/renderers/vanilla"
	"github.com/goliatone/go-profilefields/pkg/store"
)

// Dependencies holds the collaborators used by route handlers. Renderer must
// be the one the field types were built with so asset tags resolve.
type Dependencies struct {
	Registry  *field.Registry
	Store     store.Store
	Renderer  *vanilla.Renderer
	Localizer *render.Localizer
	Logger    *zap.Logger
}

type server struct {
	registry  *field.Registry
	store     store.Store
	renderer  *vanilla.Renderer
	localizer *render.Localizer
	logger    *zap.Logger
}

// NewRouter builds the chi router.
func NewRouter(deps Dependencies) (chi.Router, error) {
	if deps.Registry == nil {
		return nil, errors.New("server: registry is required")
	}
	if deps.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if deps.Renderer == nil {
		return nil, errors.New("server: renderer is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &server{
		registry:  deps.Registry,
		store:     deps.Store,
		renderer:  deps.Renderer,
		localizer: deps.Localizer,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(withLocale)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/types", s.listTypes)
	r.Get("/types/{tag}/config", s.newFieldConfig)

	r.Get("/fields", s.listFields)
	r.Route("/fields/{id}", func(r chi.Router) {
		r.Get("/edit", s.renderScreen(field.ScreenEdit))
		r.Get("/admin", s.renderScreen(field.ScreenAdmin))
		r.Get("/config", s.fieldConfig)
		r.Get("/display", s.display)
		r.Post("/validate", s.validate)
		r.Post("/options", s.replaceOptions)
	})

	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))

	return r, nil
}

type typeInfo struct {
	Tag                      string         `json:"tag"`
	Name                     string         `json:"name"`
	Category                 field.Category `json:"category"`
	AcceptsNullValue         bool           `json:"accepts_null_value"`
	SupportsOptions          bool           `json:"supports_options"`
	SupportsMultipleDefaults bool           `json:"supports_multiple_defaults"`
	PersistsOptions          bool           `json:"persists_options"`
	Patterns                 []string       `json:"patterns"`
	PatternMode              string         `json:"pattern_mode"`
}

func (s *server) listTypes(w http.ResponseWriter, r *http.Request) {
	var out []typeInfo
	for _, tag := range s.registry.List() {
		ft, err := s.registry.Get(tag)
		if err != nil {
			continue
		}
		desc := ft.Descriptor()
		_, persists := ft.(fieldtypes.OptionEncoder)
		out = append(out, typeInfo{
			Tag:                      desc.Tag(),
			Name:                     fieldtypes.TypeName(r.Context(), s.localizer, ft),
			Category:                 desc.Category(),
			AcceptsNullValue:         desc.AcceptsNullValue(),
			SupportsOptions:          desc.SupportsOptions(),
			SupportsMultipleDefaults: desc.SupportsMultipleDefaults(),
			PersistsOptions:          persists,
			Patterns:                 desc.Patterns(),
			PatternMode:              desc.PatternMode().String(),
		})
	}
	s.respond(w, http.StatusOK, out)
}

func (s *server) listFields(w http.ResponseWriter, r *http.Request) {
	lister, ok := s.store.(store.FieldLister)
	if !ok {
		s.fail(w, http.StatusNotImplemented, "NOT_SUPPORTED", "store cannot list fields")
		return
	}
	defs, err := lister.Fields(r.Context())
	if err != nil {
		s.internal(w, "list fields", err)
		return
	}
	s.respond(w, http.StatusOK, defs)
}

func (s *server) renderScreen(screen field.Screen) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		def, ft, ok := s.lookup(w, r)
		if !ok {
			return
		}
		query := r.URL.Query()
		subjectID, ok := s.int64Param(w, query.Get("subject"), "subject")
		if !ok {
			return
		}

		rc := field.RenderContext{
			Field:      def,
			SubjectID:  subjectID,
			Value:      query.Get("value"),
			Screen:     screen,
			Submission: field.NewSubmission(query),
			Errors:     fieldErrors(def, query),
		}

		var markup string
		var err error
		if screen == field.ScreenAdmin {
			markup, err = ft.RenderAdmin(r.Context(), rc)
		} else {
			markup, err = ft.RenderEdit(r.Context(), rc)
		}
		if err != nil {
			s.internal(w, "render "+string(screen), err)
			return
		}
		s.html(w, s.renderer.AssetTags(def.Type)+markup)
	}
}

// fieldErrors collects the messages for def from "error" and from keyed
// "error[<key>]" parameters, where key is the input name, id or field name.
func fieldErrors(def field.Definition, query url.Values) []string {
	payload := make(map[string][]string)
	for key, messages := range query {
		if inner, ok := strings.CutPrefix(key, "error["); ok && strings.HasSuffix(inner, "]") {
			payload[strings.TrimSuffix(inner, "]")] = messages
		}
	}
	return render.MergeErrors(query["error"], render.MapFieldErrors(def, payload).Field...)
}

func (s *server) fieldConfig(w http.ResponseWriter, r *http.Request) {
	def, _, ok := s.lookup(w, r)
	if !ok {
		return
	}
	tag := strings.TrimSpace(r.URL.Query().Get("type"))
	if tag == "" {
		tag = def.Type
	}
	s.renderConfig(w, r, tag, def)
}

func (s *server) newFieldConfig(w http.ResponseWriter, r *http.Request) {
	s.renderConfig(w, r, chi.URLParam(r, "tag"), field.Definition{})
}

func (s *server) renderConfig(w http.ResponseWriter, r *http.Request, tag string, current field.Definition) {
	ft, ok := s.fieldType(w, tag)
	if !ok {
		return
	}
	markup, err := ft.RenderAdminConfig(r.Context(), current, field.NewSubmission(r.URL.Query()))
	if err != nil {
		s.internal(w, "render config", err)
		return
	}
	s.html(w, s.renderer.AssetTags(tag)+markup)
}

func (s *server) display(w http.ResponseWriter, r *http.Request) {
	def, ft, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.html(w, ft.Display(r.Context(), r.URL.Query().Get("value"), def.ID))
}

type validation struct {
	FieldID int64    `json:"field_id"`
	Type    string   `json:"type"`
	Values  []string `json:"values"`
	Valid   bool     `json:"valid"`
	Saved   bool     `json:"saved"`
}

// validate pre-validates and validates the submitted "field_<id>" values.
// A valid submission carrying a subject is saved when the store can write.
func (s *server) validate(w http.ResponseWriter, r *http.Request) {
	def, ft, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.fail(w, http.StatusBadRequest, "INVALID_FORM", err.Error())
		return
	}
	subjectID, ok := s.int64Param(w, r.PostForm.Get("subject"), "subject")
	if !ok {
		return
	}

	raw := r.PostForm[def.InputName()]
	if len(raw) == 0 {
		raw = []string{""}
	}
	values := make(field.Value, 0, len(raw))
	for _, value := range raw {
		values = append(values, ft.PreValidate(value, def.ID))
	}
	if len(values) == 1 && values[0] == "" {
		values = field.Value{}
	}

	result := validation{
		FieldID: def.ID,
		Type:    def.Type,
		Values:  values,
		Valid:   ft.IsValid(values),
	}

	if result.Valid && subjectID > 0 {
		if writer, ok := s.store.(store.ValueWriter); ok {
			// Stores hold one string per field and subject.
			if len(values) > 1 {
				s.fail(w, http.StatusUnprocessableEntity, "MULTIPLE_VALUES",
					fmt.Sprintf("field %d stores a single value, got %d", def.ID, len(values)))
				return
			}
			stored := ""
			if len(values) == 1 {
				stored = values[0]
			}
			if err := writer.SaveValue(r.Context(), def.ID, subjectID, stored); err != nil {
				s.internal(w, "save value", err)
				return
			}
			result.Saved = true
		}
	}

	status := http.StatusOK
	if !result.Valid {
		status = http.StatusUnprocessableEntity
	}
	s.respond(w, status, result)
}

// replaceOptions encodes the pending admin submission into options and
// persists them on the field.
func (s *server) replaceOptions(w http.ResponseWriter, r *http.Request) {
	def, ft, ok := s.lookup(w, r)
	if !ok {
		return
	}
	encoder, ok := ft.(fieldtypes.OptionEncoder)
	if !ok {
		s.fail(w, http.StatusUnprocessableEntity, "NO_OPTIONS", fmt.Sprintf("type %q has no options", def.Type))
		return
	}
	writer, ok := s.store.(store.OptionWriter)
	if !ok {
		s.fail(w, http.StatusNotImplemented, "NOT_SUPPORTED", "store cannot write options")
		return
	}
	if err := r.ParseForm(); err != nil {
		s.fail(w, http.StatusBadRequest, "INVALID_FORM", err.Error())
		return
	}

	saved, err := writer.ReplaceOptions(r.Context(), def.ID, encoder.EncodeOptions(field.NewSubmission(r.PostForm)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.fail(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		s.internal(w, "replace options", err)
		return
	}
	if saved == nil {
		saved = []field.Option{}
	}
	s.respond(w, http.StatusOK, saved)
}

func (s *server) lookup(w http.ResponseWriter, r *http.Request) (field.Definition, field.FieldType, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		s.fail(w, http.StatusBadRequest, "INVALID_ID", "invalid field id: "+raw)
		return field.Definition{}, nil, false
	}
	def, err := s.store.Field(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.fail(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("field %d not found", id))
			return field.Definition{}, nil, false
		}
		s.internal(w, "load field", err)
		return field.Definition{}, nil, false
	}
	ft, ok := s.fieldType(w, def.Type)
	if !ok {
		return field.Definition{}, nil, false
	}
	return def, ft, true
}

func (s *server) fieldType(w http.ResponseWriter, tag string) (field.FieldType, bool) {
	ft, err := s.registry.Get(tag)
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, "UNKNOWN_TYPE", err.Error())
		return nil, false
	}
	return ft, true
}

func (s *server) int64Param(w http.ResponseWriter, raw, name string) (int64, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		s.fail(w, http.StatusBadRequest, "INVALID_PARAM", "invalid "+name+": "+raw)
		return 0, false
	}
	return n, true
}

func (s *server) internal(w http.ResponseWriter, op string, err error) {
	s.logger.Error("request failed", zap.String("op", op), zap.Error(err))
	s.fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
