package server

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	apperrors "github.com/louisbranch/herowiki/internal/platform/errors"
	"github.com/louisbranch/herowiki/internal/services/models/catalog"
	"github.com/louisbranch/herowiki/internal/services/models/entity"
	"github.com/louisbranch/herowiki/internal/services/models/loader"
	"github.com/louisbranch/herowiki/internal/services/models/selection"
	"github.com/louisbranch/herowiki/internal/services/models/templates"
	"github.com/louisbranch/herowiki/internal/services/shared/htmx"
	"github.com/louisbranch/herowiki/internal/services/shared/i18nhttp"
	"github.com/louisbranch/herowiki/internal/services/shared/route"
)

// NewHandler serves the model API and picker fragment from source.
func NewHandler(source loader.Source) http.Handler {
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{source: source})
	return route.Canonical(withTracing(mux))
}

type handlers struct {
	source loader.Source
}

type entitiesResponse struct {
	Kind     entity.Kind `json:"kind"`
	Entities []string    `json:"entities"`
}

type variantsResponse struct {
	Entity  entity.Info      `json:"entity"`
	Options []catalog.Option `json:"options"`
	Issues  int              `json:"issues"`
}

type renderResponse struct {
	Requested string                      `json:"requested"`
	Variant   string                      `json:"variant"`
	Fallback  bool                        `json:"fallback"`
	Parts     []catalog.ModelWithTextures `json:"parts"`
}

type errorResponse struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h handlers) handleEntities(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ids, err := h.source.Entities(r.Context(), kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entitiesResponse{Kind: kind, Entities: ids})
}

func (h handlers) handleVariants(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.loadEntry(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, variantsResponse{
		Entity:  entry.Info,
		Options: catalog.Options(entry.Catalog),
		Issues:  len(entry.Issues),
	})
}

func (h handlers) handleRender(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.loadEntry(w, r)
	if !ok {
		return
	}
	resolution := selection.Resolve(entry.Catalog, r.URL.Query().Get("variant"), false)
	writeJSON(w, http.StatusOK, renderResponse{
		Requested: resolution.Requested,
		Variant:   resolution.Key,
		Fallback:  resolution.Fallback,
		Parts:     resolution.Parts,
	})
}

func (h handlers) handlePicker(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.loadEntry(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	ref := entry.Info.Ref()

	var picker selection.Picker
	if query.Get("open") == "1" {
		picker.Activate()
	}
	sel := selection.Selection{Key: query.Get("variant"), Open: picker.IsOpen()}
	props := selection.HeroCostumeProps(entry.Catalog, sel, nil)
	if ref.Kind == entity.KindBoss {
		props = selection.BossModelProps(entry.Catalog, sel, nil)
	}
	view := props.View()

	endpoint := "/" + string(ref.Kind) + "/" + ref.ID + "/picker"
	if htmx.IsHTMXRequest(r) && !view.Open && view.Current != "" {
		htmx.PushURL(w, endpoint+"?variant="+url.QueryEscape(view.Current))
		if err := htmx.Trigger(w, "variantSelected", map[string]string{"entity": ref.String(), "key": view.Current}); err != nil {
			log.Printf("picker trigger %s: %v", ref, err)
		}
	}
	fragment := templates.Picker(templates.PickerProps{
		Endpoint: endpoint,
		Noun:     ref.Kind.Noun(),
		View:     view,
	})
	htmx.RenderPage(w, r, fragment, templates.Page, entry.Info.Name+" "+ref.Kind.Noun()+"s")
}

func (h handlers) loadEntry(w http.ResponseWriter, r *http.Request) (loader.Entry, bool) {
	ref, err := parseRef(r.PathValue("kind"), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return loader.Entry{}, false
	}
	entry, err := h.source.Entity(r.Context(), ref)
	if err != nil {
		writeError(w, r, err)
		return loader.Entry{}, false
	}
	return entry, true
}

func parseKind(raw string) (entity.Kind, error) {
	kind, err := entity.ParseKind(raw)
	if err != nil {
		return "", apperrors.WrapWithMetadata(apperrors.CodeEntityKindInvalid, "parse kind", map[string]string{"Kind": raw}, err)
	}
	return kind, nil
}

func parseRef(rawKind, rawID string) (entity.Ref, error) {
	kind, err := parseKind(rawKind)
	if err != nil {
		return entity.Ref{}, err
	}
	if !entity.ValidID(rawID) {
		return entity.Ref{}, apperrors.WithMetadata(apperrors.CodeEntityIDInvalid, "invalid entity id "+rawID, map[string]string{"Kind": string(kind), "ID": rawID})
	}
	return entity.Ref{Kind: kind, ID: rawID}, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	domainErr := apperrors.As(err)
	status := domainErr.Code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{
		Code:    domainErr.Code,
		Message: domainErr.UserMessage(i18nhttp.Locale(r)),
	})
}
