package complaints_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/dalemusser/complaints/internal/app/features/complaints"
	"github.com/dalemusser/complaints/internal/app/features/complaints/mocks"
	complaintstore "github.com/dalemusser/complaints/internal/app/store/complaints"
	"github.com/dalemusser/complaints/internal/app/system/metrics"
	"github.com/dalemusser/complaints/internal/domain/models"
	"github.com/dalemusser/complaints/internal/testutil"
	"github.com/go-chi/chi/v5"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// memStore is an in-memory complaints.Store.
type memStore struct {
	mu   sync.Mutex
	recs map[primitive.ObjectID]models.Complaint
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[primitive.ObjectID]models.Complaint)}
}

func (s *memStore) FindAll(ctx context.Context) ([]models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Complaint, 0, len(s.recs))
	for _, c := range s.recs {
		out = append(out, c)
	}
	return out, nil
}

func (s *memStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Complaint, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.recs[id]
	return c, ok, nil
}

func (s *memStore) Insert(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[c.ID] = c
	return c, nil
}

func (s *memStore) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[id]; !ok {
		return 0, nil
	}
	delete(s.recs, id)
	return 1, nil
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}

func newRouter(h *complaints.Handler) http.Handler {
	r := chi.NewRouter()
	r.Mount("/complaints", complaints.Routes(h))
	return r
}

func newTestRouter(t *testing.T, store complaints.Store) (http.Handler, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	h := complaints.NewHandler(store, m, 0, zap.NewNop())
	return newRouter(h), m
}

func do(router http.Handler, method, target, body string) *testutil.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = testutil.NewJSONRequest(method, target, body)
	} else {
		req = testutil.NewRequest(method, target)
	}
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeComplaint(t *testing.T, rec *testutil.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse response %q: %v", rec.Body.String(), err)
	}
	return got
}

var hexID = regexp.MustCompile(`^[0-9a-f]{24}$`)

func TestList_Empty(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore())

	rec := do(router, http.MethodGet, "/complaints", "")

	rec.AssertStatus(t, http.StatusOK)
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body: got %q, want %q", got, "[]")
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type: got %q", ct)
	}
}

func TestCreate_Scenario(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore())

	rec := do(router, http.MethodPost, "/complaints", `{"complaint":"hello"}`)
	rec.AssertStatus(t, http.StatusOK)

	body := strings.TrimSpace(rec.Body.String())
	want := regexp.MustCompile(`^\{"_id":"[0-9a-f]{24}","complaint":"hello","__v":0\}$`)
	if !want.MatchString(body) {
		t.Fatalf("body: got %s", body)
	}
	id := decodeComplaint(t, rec)["_id"].(string)

	rec = do(router, http.MethodDelete, "/complaints/"+id, "")
	rec.AssertStatus(t, http.StatusNoContent)
	rec.AssertEmptyBody(t)

	rec = do(router, http.MethodGet, "/complaints/"+id, "")
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestCreate_RoundTrip(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore())

	for _, text := range []string{"X", "  padded  ", "ünïcödé ✓", `quotes " and \ slashes`} {
		payload, _ := json.Marshal(map[string]string{"complaint": text})
		rec := do(router, http.MethodPost, "/complaints", string(payload))
		rec.AssertStatus(t, http.StatusOK)
		created := decodeComplaint(t, rec)

		id, _ := created["_id"].(string)
		if !hexID.MatchString(id) {
			t.Fatalf("_id: got %q, want 24 lowercase hex chars", id)
		}

		rec = do(router, http.MethodGet, "/complaints/"+id, "")
		rec.AssertStatus(t, http.StatusOK)
		got := decodeComplaint(t, rec)
		if got["_id"] != id {
			t.Errorf("_id: got %v, want %q", got["_id"], id)
		}
		if got["complaint"] != text {
			t.Errorf("complaint: got %v, want %q", got["complaint"], text)
		}
		if got["__v"] != float64(0) {
			t.Errorf("__v: got %v, want 0", got["__v"])
		}
	}
}

func TestCreate_IgnoresClientSuppliedIDAndVersion(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore())
	clientID := primitive.NewObjectID().Hex()

	rec := do(router, http.MethodPost, "/complaints", `{"_id":"`+clientID+`","complaint":"mine","__v":7}`)
	rec.AssertStatus(t, http.StatusOK)

	got := decodeComplaint(t, rec)
	if got["_id"] == clientID {
		t.Error("expected server-generated _id, got the client's")
	}
	if got["__v"] != float64(0) {
		t.Errorf("__v: got %v, want 0", got["__v"])
	}
}

func TestCreate_Validation(t *testing.T) {
	bodies := map[string]string{
		"empty text":     `{"complaint":""}`,
		"spaces":         `{"complaint":"   "}`,
		"whitespace mix": `{"complaint":"\t\n "}`,
		"missing field":  `{}`,
		"null field":     `{"complaint":null}`,
		"null body":      `null`,
		"wrong type":     `{"complaint":42}`,
		"malformed json": `{"complaint":`,
		"other field":    `{"text":"hello"}`,
		"trailing junk":  `{"complaint":"a"}garbage`,
		"two objects":    `{"complaint":"a"} {"complaint":"b"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			store := newMemStore()
			router, _ := newTestRouter(t, store)

			rec := do(router, http.MethodPost, "/complaints", body)
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertEmptyBody(t)

			rec = do(router, http.MethodGet, "/complaints", "")
			if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
				t.Errorf("expected nothing persisted, list is %s", got)
			}
		})
	}
}

func TestCreate_TrailingWhitespaceAccepted(t *testing.T) {
	store := newMemStore()
	router, _ := newTestRouter(t, store)

	rec := do(router, http.MethodPost, "/complaints", "{\"complaint\":\"ok\"}\n  \t")
	rec.AssertStatus(t, http.StatusOK)
	if store.len() != 1 {
		t.Errorf("expected 1 record, got %d", store.len())
	}
}

func TestCreate_EmptyBody(t *testing.T) {
	store := newMemStore()
	router, _ := newTestRouter(t, store)

	req := httptest.NewRequest(http.MethodPost, "/complaints", nil)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	if store.len() != 0 {
		t.Errorf("expected no records, got %d", store.len())
	}
}

func TestCreate_BodyTooLarge(t *testing.T) {
	store := newMemStore()
	h := complaints.NewHandler(store, nil, 32, zap.NewNop())
	router := newRouter(h)

	rec := do(router, http.MethodPost, "/complaints", `{"complaint":"`+strings.Repeat("a", 64)+`"}`)

	rec.AssertStatus(t, http.StatusBadRequest)
	if store.len() != 0 {
		t.Errorf("expected no records, got %d", store.len())
	}
}

func TestGet_MalformedAndUnknownIDs(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore())

	tests := []struct {
		id   string
		want int
	}{
		{"not-a-valid-id", http.StatusBadRequest},
		{"123", http.StatusBadRequest},
		{strings.Repeat("g", 24), http.StatusBadRequest},
		{strings.Repeat("0", 25), http.StatusBadRequest},
		{strings.Repeat("0", 24), http.StatusNotFound},
		{primitive.NewObjectID().Hex(), http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := do(router, http.MethodGet, "/complaints/"+tt.id, "")
		if rec.Code != tt.want {
			t.Errorf("GET /complaints/%s: got %d, want %d", tt.id, rec.Code, tt.want)
		}
	}
}

func TestDelete_MalformedID(t *testing.T) {
	router, _ := newTestRouter(t, newMemStore())

	rec := do(router, http.MethodDelete, "/complaints/not-a-valid-id", "")
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = do(router, http.MethodDelete, "/complaints/"+strings.Repeat("0", 24), "")
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestDelete_Idempotence(t *testing.T) {
	store := newMemStore()
	router, _ := newTestRouter(t, store)

	rec := do(router, http.MethodPost, "/complaints", `{"complaint":"once"}`)
	rec.AssertStatus(t, http.StatusOK)
	id := decodeComplaint(t, rec)["_id"].(string)

	do(router, http.MethodDelete, "/complaints/"+id, "").AssertStatus(t, http.StatusNoContent)
	for i := 0; i < 3; i++ {
		do(router, http.MethodDelete, "/complaints/"+id, "").AssertStatus(t, http.StatusNotFound)
	}
}

func TestList_IncludesCreated(t *testing.T) {
	store := newMemStore()
	router, _ := newTestRouter(t, store)

	// a record that existed before this test
	pre, _ := models.NewComplaint{Text: "pre-existing"}.Build()
	_, _ = store.Insert(context.Background(), pre)

	want := map[string]bool{}
	for _, text := range []string{"a", "b", "c", "d", "e"} {
		rec := do(router, http.MethodPost, "/complaints", `{"complaint":"`+text+`"}`)
		rec.AssertStatus(t, http.StatusOK)
		want[decodeComplaint(t, rec)["_id"].(string)] = true
	}

	rec := do(router, http.MethodGet, "/complaints", "")
	rec.AssertStatus(t, http.StatusOK)

	var list []models.Complaint
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to parse list: %v", err)
	}
	if len(list) < len(want) {
		t.Fatalf("list length: got %d, want at least %d", len(list), len(want))
	}
	for _, c := range list {
		delete(want, c.ID.Hex())
	}
	if len(want) != 0 {
		t.Errorf("created complaints missing from list: %v", want)
	}
}

func TestCreate_ConcurrentRequestsGetDistinctIDs(t *testing.T) {
	store := newMemStore()
	router, _ := newTestRouter(t, store)

	const n = 50
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := do(router, http.MethodPost, "/complaints", `{"complaint":"parallel"}`)
			var got models.Complaint
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err == nil {
				ids <- got.ID.Hex()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("distinct ids: got %d, want %d", len(seen), n)
	}
	if store.len() != n {
		t.Errorf("stored records: got %d, want %d", store.len(), n)
	}
}

func TestMetricsRecorded(t *testing.T) {
	router, m := newTestRouter(t, newMemStore())

	do(router, http.MethodPost, "/complaints", `{"complaint":"metered"}`)
	do(router, http.MethodPost, "/complaints", `{"complaint":""}`)
	do(router, http.MethodGet, "/complaints/"+strings.Repeat("0", 24), "")

	if got := promtest.ToFloat64(m.Operations.WithLabelValues("create", metrics.OutcomeOK)); got != 1 {
		t.Errorf("create ok: got %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.Operations.WithLabelValues("create", metrics.OutcomeBadRequest)); got != 1 {
		t.Errorf("create bad_request: got %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.Operations.WithLabelValues("get", metrics.OutcomeNotFound)); got != 1 {
		t.Errorf("get not_found: got %v, want 1", got)
	}
}

func TestStoreFailuresAreServerErrors(t *testing.T) {
	storeErr := errors.Join(complaintstore.ErrStoreUnavailable, errors.New("connection reset"))
	id := primitive.NewObjectID()

	tests := []struct {
		name   string
		expect func(m *mocks.MockStore)
		method string
		target string
		body   string
	}{
		{
			name:   "list",
			expect: func(m *mocks.MockStore) { m.EXPECT().FindAll(gomock.Any()).Return(nil, storeErr) },
			method: http.MethodGet,
			target: "/complaints",
		},
		{
			name: "get",
			expect: func(m *mocks.MockStore) {
				m.EXPECT().FindByID(gomock.Any(), id).Return(models.Complaint{}, false, storeErr)
			},
			method: http.MethodGet,
			target: "/complaints/" + id.Hex(),
		},
		{
			name: "create",
			expect: func(m *mocks.MockStore) {
				m.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(models.Complaint{}, storeErr)
			},
			method: http.MethodPost,
			target: "/complaints",
			body:   `{"complaint":"hello"}`,
		},
		{
			name:   "delete",
			expect: func(m *mocks.MockStore) { m.EXPECT().DeleteByID(gomock.Any(), id).Return(int64(0), storeErr) },
			method: http.MethodDelete,
			target: "/complaints/" + id.Hex(),
		},
		{
			name: "timeout",
			expect: func(m *mocks.MockStore) {
				m.EXPECT().FindAll(gomock.Any()).Return(nil, context.DeadlineExceeded)
			},
			method: http.MethodGet,
			target: "/complaints",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockStore(ctrl)
			tt.expect(store)
			router, _ := newTestRouter(t, store)

			rec := do(router, tt.method, tt.target, tt.body)
			rec.AssertStatus(t, http.StatusInternalServerError)
			rec.AssertEmptyBody(t)
		})
	}
}

func TestInvalidInputNeverReachesStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Insert(gomock.Any(), gomock.Any()).Times(0)
	store.EXPECT().FindByID(gomock.Any(), gomock.Any()).Times(0)
	store.EXPECT().DeleteByID(gomock.Any(), gomock.Any()).Times(0)
	router, _ := newTestRouter(t, store)

	do(router, http.MethodPost, "/complaints", `{"complaint":"  "}`).AssertStatus(t, http.StatusBadRequest)
	do(router, http.MethodGet, "/complaints/nope", "").AssertStatus(t, http.StatusBadRequest)
	do(router, http.MethodDelete, "/complaints/nope", "").AssertStatus(t, http.StatusBadRequest)
}

func TestInsertReceivesGeneratedRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, c models.Complaint) (models.Complaint, error) {
			if c.ID.IsZero() {
				t.Error("expected ID to be set before insert")
			}
			if c.Version != 0 {
				t.Errorf("version: got %d, want 0", c.Version)
			}
			if c.Text != "set by handler" {
				t.Errorf("text: got %q", c.Text)
			}
			return c, nil
		})
	router, _ := newTestRouter(t, store)

	do(router, http.MethodPost, "/complaints", `{"complaint":"set by handler"}`).AssertStatus(t, http.StatusOK)
}

func TestServeComplaint_DirectCall(t *testing.T) {
	store := newMemStore()
	c, _ := models.NewComplaint{Text: "direct"}.Build()
	_, _ = store.Insert(context.Background(), c)
	h := complaints.NewHandler(store, nil, 0, zap.NewNop())

	req := testutil.NewRequest(http.MethodGet, "/complaints/"+c.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", c.ID.Hex())
	rec := testutil.NewRecorder()

	h.ServeComplaint(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"complaint":"direct"`)
}

func TestHandlersAgainstMongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router, _ := newTestRouter(t, complaintstore.New(db))

	rec := do(router, http.MethodPost, "/complaints", `{"complaint":"persisted"}`)
	rec.AssertStatus(t, http.StatusOK)
	id := decodeComplaint(t, rec)["_id"].(string)

	rec = do(router, http.MethodGet, "/complaints/"+id, "")
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"complaint":"persisted"`)
	rec.AssertContains(t, `"__v":0`)

	do(router, http.MethodDelete, "/complaints/"+id, "").AssertStatus(t, http.StatusNoContent)
	do(router, http.MethodDelete, "/complaints/"+id, "").AssertStatus(t, http.StatusNotFound)
	do(router, http.MethodGet, "/complaints/"+id, "").AssertStatus(t, http.StatusNotFound)
}
