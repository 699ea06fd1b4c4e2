// Package api exposes the content collections over HTTP: CRUD and
// attachment endpoints for every registered collection plus bulk
// operations for messages.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/raunak-choudhary/portfolio-admin/internal/schema"
	"github.com/raunak-choudhary/portfolio-admin/internal/signal"
	"github.com/raunak-choudhary/portfolio-admin/internal/storage"
	"github.com/raunak-choudhary/portfolio-admin/internal/store"
	"github.com/raunak-choudhary/portfolio-admin/pkg/handlers"
	"github.com/raunak-choudhary/portfolio-admin/pkg/pagination"
	"github.com/raunak-choudhary/portfolio-admin/pkg/query"
	"github.com/raunak-choudhary/portfolio-admin/pkg/routes"
)

// Handler provides HTTP endpoints for one collection.
type Handler struct {
	collection *schema.Collection
	store      store.Store
	objects    storage.System
	signals    signal.Invalidator
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a collection handler with the specified configuration.
func NewHandler(
	collection *schema.Collection,
	st store.Store,
	objects storage.System,
	signals signal.Invalidator,
	logger *slog.Logger,
	pagination pagination.Config,
) *Handler {
	return &Handler{
		collection: collection,
		store:      st,
		objects:    objects,
		signals:    signals,
		logger:     logger.With("handler", collection.Name),
		pagination: pagination,
	}
}

// Routes returns the collection's endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/api/" + h.collection.Name,
		Description: h.collection.Title,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
			{Method: "POST", Pattern: "/{id}/attachments/{field}", Handler: h.UploadAttachment},
			{Method: "DELETE", Pattern: "/{id}/attachments/{field}", Handler: h.RemoveAttachment},
		},
	}
}

// recordRequest is the create/update payload.
type recordRequest struct {
	Status store.Status `json:"status"`
	Fields store.Fields `json:"fields"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query(), h.pagination)
	q := queryFromValues(r.URL.Query())
	q.Limit = page.PageSize
	q.Offset = page.Offset()

	records, err := h.store.List(r.Context(), h.collection.Name, q)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	total, err := h.store.Count(r.Context(), h.collection.Name, q)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, pagination.NewPageResult(records, total, page.Page, page.PageSize))
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	rec, err := h.store.Find(r.Context(), h.collection.Name, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if errs := h.collection.Validate(req.Fields); len(errs) > 0 {
		handlers.RespondFieldErrors(w, errs)
		return
	}

	status := req.Status
	if status == "" {
		status = store.StatusActive
	}
	if !status.Validate() {
		handlers.RespondFieldErrors(w, map[string]string{"status": "status must be active, draft, or archived"})
		return
	}

	rec, err := h.store.Insert(r.Context(), h.collection.Name, status, h.collection.Normalize(req.Fields))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.signals.Invalidate(r.Context(), h.collection.Name)
	handlers.RespondJSON(w, http.StatusCreated, rec)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if errs := h.collection.Validate(req.Fields); len(errs) > 0 {
		handlers.RespondFieldErrors(w, errs)
		return
	}

	status := req.Status
	if status == "" {
		status = store.StatusActive
	}
	if !status.Validate() {
		handlers.RespondFieldErrors(w, map[string]string{"status": "status must be active, draft, or archived"})
		return
	}

	rec, err := h.store.Update(r.Context(), h.collection.Name, id, status, h.collection.Normalize(req.Fields))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.signals.Invalidate(r.Context(), h.collection.Name)
	handlers.RespondJSON(w, http.StatusOK, rec)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	rec, err := h.store.Find(r.Context(), h.collection.Name, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if err := h.store.Delete(r.Context(), h.collection.Name, id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	// Stored objects go after the record. A storage orphan is acceptable,
	// a dangling reference is not.
	h.removeAttachmentObjects(r, rec.Fields)

	h.signals.Invalidate(r.Context(), h.collection.Name)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	field := r.PathValue("field")
	rule, ok := h.collection.Attachments[field]
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrUnknownField)
		return
	}

	if err := r.ParseMultipartForm(rule.MaxBytes()); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	if header.Size > rule.MaxBytes() {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	contentType := storage.DetectContentType(header.Filename, data)
	if !rule.Allows(contentType) {
		handlers.RespondError(w, h.logger, http.StatusUnsupportedMediaType,
			fmt.Errorf("file type %s is not allowed", contentType))
		return
	}

	rec, err := h.store.Find(r.Context(), h.collection.Name, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	key := storage.ObjectKey(h.collection.Name, rec.Fields.Scalar(h.collection.SlugField), header.Filename)
	publicURL, err := h.objects.Put(r.Context(), key, data)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	fields := rec.Fields.Clone()
	if rule.Multi {
		fields.SetList(field, append(fields.List(field), publicURL))
	} else {
		if prior := fields.Scalar(field); prior != "" {
			h.removeObject(r, prior)
		}
		fields.SetScalar(field, publicURL)
	}

	updated, err := h.store.Update(r.Context(), h.collection.Name, id, rec.Status, fields)
	if err != nil {
		h.removeObject(r, publicURL)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.signals.Invalidate(r.Context(), h.collection.Name)
	handlers.RespondJSON(w, http.StatusCreated, updated)
}

func (h *Handler) RemoveAttachment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	field := r.PathValue("field")
	rule, ok := h.collection.Attachments[field]
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrUnknownField)
		return
	}

	target := r.URL.Query().Get("url")
	if target == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("url query parameter required"))
		return
	}

	rec, err := h.store.Find(r.Context(), h.collection.Name, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	fields := rec.Fields.Clone()
	if rule.Multi {
		items := slices.Clone(fields.List(field))
		i := slices.Index(items, target)
		if i < 0 {
			handlers.RespondError(w, h.logger, http.StatusNotFound, storage.ErrNotFound)
			return
		}
		fields.SetList(field, slices.Delete(items, i, i+1))
	} else {
		if fields.Scalar(field) != target {
			handlers.RespondError(w, h.logger, http.StatusNotFound, storage.ErrNotFound)
			return
		}
		fields.SetScalar(field, "")
	}

	updated, err := h.store.Update(r.Context(), h.collection.Name, id, rec.Status, fields)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.removeObject(r, target)
	h.signals.Invalidate(r.Context(), h.collection.Name)
	handlers.RespondJSON(w, http.StatusOK, updated)
}

// removeAttachmentObjects deletes every stored object referenced by the
// record's attachment fields, best-effort.
func (h *Handler) removeAttachmentObjects(r *http.Request, fields store.Fields) {
	for field, rule := range h.collection.Attachments {
		if rule.Multi {
			for _, u := range fields.List(field) {
				h.removeObject(r, u)
			}
		} else if u := fields.Scalar(field); u != "" {
			h.removeObject(r, u)
		}
	}
}

func (h *Handler) removeObject(r *http.Request, publicURL string) {
	key, ok := h.objects.KeyFromURL(publicURL)
	if !ok {
		return
	}
	if err := h.objects.Remove(r.Context(), key); err != nil {
		h.logger.Error("storage cleanup failed", "key", key, "error", err)
	}
}

// queryFromValues maps listing URL parameters onto a store query: status,
// search, sort (comma-separated with a leading dash for descending), and
// fields.<name>=<value> scalar filters.
func queryFromValues(values url.Values) store.Query {
	q := store.Query{
		Search: strings.TrimSpace(values.Get("search")),
		Sort:   query.ParseSortFields(values.Get("sort")),
	}

	if s := store.Status(values.Get("status")); s.Validate() {
		q.Status = &s
	}

	for name, vals := range values {
		field, ok := strings.CutPrefix(name, "fields.")
		if !ok || len(vals) == 0 || vals[0] == "" {
			continue
		}
		if q.Equals == nil {
			q.Equals = map[string]string{}
		}
		q.Equals[field] = vals[0]
	}
	return q
}
