package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/raunak-choudhary/portfolio-admin/internal/api"
	"github.com/raunak-choudhary/portfolio-admin/internal/schema"
	"github.com/raunak-choudhary/portfolio-admin/internal/store"
	"github.com/raunak-choudhary/portfolio-admin/pkg/pagination"
)

type memStore struct {
	mu      sync.Mutex
	records map[string][]store.Record
}

func newMemStore() *memStore {
	return &memStore{records: map[string][]store.Record{}}
}

func (m *memStore) List(ctx context.Context, collection string, q store.Query) ([]store.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]store.Record(nil), m.records[collection]...)
	return out, nil
}

func (m *memStore) Count(ctx context.Context, collection string, q store.Query) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records[collection]), nil
}

func (m *memStore) Find(ctx context.Context, collection string, id uuid.UUID) (*store.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.records[collection] {
		if rec.ID == id {
			return &rec, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) Insert(ctx context.Context, collection string, status store.Status, fields store.Fields) (*store.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := store.Record{
		ID:         uuid.New(),
		Collection: collection,
		Status:     status,
		Fields:     fields,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.records[collection] = append(m.records[collection], rec)
	return &rec, nil
}

func (m *memStore) Update(ctx context.Context, collection string, id uuid.UUID, status store.Status, fields store.Fields) (*store.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, rec := range m.records[collection] {
		if rec.ID == id {
			m.records[collection][i].Status = status
			m.records[collection][i].Fields = fields
			return &m.records[collection][i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := m.records[collection]
	for i, rec := range recs {
		if rec.ID == id {
			m.records[collection] = append(recs[:i], recs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memStore) DeleteMany(ctx context.Context, collection string, ids []uuid.UUID) error {
	for _, id := range ids {
		m.Delete(ctx, collection, id)
	}
	return nil
}

func (m *memStore) UpdateMany(ctx context.Context, collection string, ids []uuid.UUID, fields store.Fields) ([]store.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Record
	for _, id := range ids {
		for i, rec := range m.records[collection] {
			if rec.ID == id {
				m.records[collection][i].Fields = rec.Fields.Merge(fields)
				out = append(out, m.records[collection][i])
			}
		}
	}
	return out, nil
}

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memObjects) Put(ctx context.Context, key string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[key] = data
	return "http://localhost:8080/files/" + key, nil
}

func (m *memObjects) Remove(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.objects, key)
	}
	return nil
}

func (m *memObjects) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memObjects) KeyFromURL(url string) (string, bool) {
	return strings.CutPrefix(url, "http://localhost:8080/files/")
}

type noopSignals struct{}

func (noopSignals) Invalidate(context.Context, string) {}

func newTestServer(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	paging := pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
	paging.Finalize()

	mux := http.NewServeMux()
	api.Register(mux, api.Groups(st, &memObjects{}, noopSignals{}, logger, paging))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestHandler_CreateAndList(t *testing.T) {
	st := newMemStore()
	srv := newTestServer(t, st)

	resp := postJSON(t, srv.URL+"/api/projects", map[string]any{
		"status": "active",
		"fields": map[string]any{
			"scalars": map[string]string{
				"title":       "Portfolio Site",
				"description": "Personal portfolio built in public",
			},
			"lists": map[string][]string{
				"tech_stack": {"Go", "PostgreSQL"},
			},
		},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/projects status = %d, want 201", resp.StatusCode)
	}

	var created store.Record
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created record: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("created record has no id")
	}
	if got := created.Fields.Scalar("title"); got != "Portfolio Site" {
		t.Errorf("created title = %q, want %q", got, "Portfolio Site")
	}

	listResp, err := http.Get(srv.URL + "/api/projects?page=1&page_size=10")
	if err != nil {
		t.Fatalf("GET /api/projects: %v", err)
	}
	defer listResp.Body.Close()

	var page pagination.PageResult[store.Record]
	if err := json.NewDecoder(listResp.Body).Decode(&page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 1 || len(page.Data) != 1 {
		t.Errorf("page = total %d, data %d, want 1 and 1", page.Total, len(page.Data))
	}
}

func TestHandler_Create_ValidationErrors(t *testing.T) {
	srv := newTestServer(t, newMemStore())

	resp := postJSON(t, srv.URL+"/api/certifications", map[string]any{
		"fields": map[string]any{},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode errors: %v", err)
	}
	if body.Errors["title"] == "" || body.Errors["issuer"] == "" {
		t.Errorf("errors = %v, want title and issuer messages", body.Errors)
	}
}

func TestHandler_Find_NotFound(t *testing.T) {
	srv := newTestServer(t, newMemStore())

	resp, err := http.Get(fmt.Sprintf("%s/api/skills/%s", srv.URL, uuid.New()))
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHandler_UploadAttachment(t *testing.T) {
	st := newMemStore()
	srv := newTestServer(t, st)

	fields := store.NewFields()
	fields.SetScalar("name", "Go")
	fields.SetScalar("category", "Languages")
	rec, _ := st.Insert(context.Background(), "skills", store.StatusActive, fields)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "icon.png")
	fw.Write([]byte("\x89PNG\r\n\x1a\n"))
	mw.Close()

	url := fmt.Sprintf("%s/api/skills/%s/attachments/icon", srv.URL, rec.ID)
	resp, err := http.Post(url, mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST upload: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d, want 201", resp.StatusCode)
	}

	var updated store.Record
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode updated record: %v", err)
	}
	icon := updated.Fields.Scalar("icon")
	if !strings.Contains(icon, "/files/skills/go-") || !strings.HasSuffix(icon, "/icon.png") {
		t.Errorf("icon = %q, want stored object URL", icon)
	}
}

func TestHandler_UploadAttachment_UnknownField(t *testing.T) {
	st := newMemStore()
	srv := newTestServer(t, st)

	rec, _ := st.Insert(context.Background(), "skills", store.StatusActive, store.NewFields())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "icon.png")
	fw.Write([]byte("\x89PNG\r\n\x1a\n"))
	mw.Close()

	url := fmt.Sprintf("%s/api/skills/%s/attachments/portrait", srv.URL, rec.ID)
	resp, err := http.Post(url, mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST upload: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestBulkHandler_MarkRead(t *testing.T) {
	st := newMemStore()
	srv := newTestServer(t, st)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		fields := store.NewFields()
		fields.SetScalar("email", fmt.Sprintf("visitor%d@example.com", i))
		rec, _ := st.Insert(context.Background(), "messages", store.StatusActive, fields)
		ids = append(ids, rec.ID)
	}

	resp := postJSON(t, srv.URL+"/api/messages/bulk", map[string]any{
		"op":  "markRead",
		"ids": ids,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("bulk status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Op      string         `json:"op"`
		Count   int            `json:"count"`
		Records []store.Record `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode bulk response: %v", err)
	}
	if body.Count != 3 {
		t.Errorf("bulk count = %d, want 3", body.Count)
	}
	for _, rec := range body.Records {
		if got := rec.Fields.Scalar(schema.MessageFieldRead); got != "true" {
			t.Errorf("record %s is_read = %q, want %q", rec.ID, got, "true")
		}
	}
}

func TestBulkHandler_UnknownOp(t *testing.T) {
	srv := newTestServer(t, newMemStore())

	resp := postJSON(t, srv.URL+"/api/messages/bulk", map[string]any{
		"op":  "purge",
		"ids": []uuid.UUID{uuid.New()},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
