package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/container-packing/internal/packing"
	"github.com/eugenenazirov/container-packing/internal/service"
	"github.com/eugenenazirov/container-packing/internal/storage"
)

type controllableClock struct {
	mu  sync.RWMutex
	now time.Time
}

func newControllableClock(initial time.Time) *controllableClock {
	return &controllableClock{now: initial}
}

func (c *controllableClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *controllableClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func setupTestRouter(t *testing.T, opts ...service.Option) (http.Handler, *controllableClock) {
	t.Helper()

	store := storage.NewMemoryStorage()
	svc := service.New(append([]service.Option{service.WithLogger(zaptest.NewLogger(t))}, opts...)...)
	clock := newControllableClock(time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC))

	handler := NewHandler(svc, store, WithClock(clock.Now))
	logger := zaptest.NewLogger(t)
	router := NewRouter(handler, logger, WithLogging(false))

	return router, clock
}

func doJSON(t *testing.T, router http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := contextWithRequestID(context.Background(), "abc")
	if got := requestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	resp := httptest.NewRecorder()
	writeInternalError(resp, assertError("boom"))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 status, got %d", resp.Code)
	}
}

type assertError string

func (a assertError) Error() string { return string(a) }

func TestHealthEndpoint(t *testing.T) {
	router, clock := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Status != "ok" {
		t.Fatalf("expected status ok, got %s", body.Status)
	}
	if !body.Timestamp.Equal(clock.Now()) {
		t.Fatalf("expected timestamp %s, got %s", clock.Now(), body.Timestamp)
	}
}

func TestAlgorithmsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/algorithms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body algorithmsResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Algorithms) != 1 || body.Algorithms[0].ID != 1 || body.Algorithms[0].Name != "EB-AFIT" {
		t.Fatalf("unexpected algorithms %+v", body.Algorithms)
	}
}

func TestGetContainersReturnsDefaults(t *testing.T) {
	router, clock := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/containers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body containersResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	want := storage.DefaultContainers()
	if len(body.Containers) != len(want) {
		t.Fatalf("expected %d containers, got %d", len(want), len(body.Containers))
	}
	for i, p := range want {
		if body.Containers[i] != containerDTO(p) {
			t.Fatalf("expected container %+v at position %d, got %+v", p, i, body.Containers[i])
		}
	}
	if !body.UpdatedAt.Equal(clock.Now()) {
		t.Fatalf("expected updatedAt %s, got %s", clock.Now(), body.UpdatedAt)
	}
}

func TestPutContainersUpdatesStorage(t *testing.T) {
	router, clock := setupTestRouter(t)

	clock.Advance(time.Hour)

	rec := doJSON(t, router, http.MethodPut, "/api/containers", map[string]any{
		"containers": []map[string]any{
			{"id": 9, "name": "Tall", "length": 2, "width": 2, "height": 8},
			{"id": 4, "name": "Flat", "length": 8, "width": 8, "height": 1},
		},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body containersResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Message == "" {
		t.Fatalf("expected success message, got empty string")
	}
	if len(body.Containers) != 2 || body.Containers[0].ID != 4 || body.Containers[1].ID != 9 {
		t.Fatalf("expected containers sorted by id, got %+v", body.Containers)
	}
	if !body.UpdatedAt.Equal(clock.Now()) {
		t.Fatalf("expected updatedAt %s, got %s", clock.Now(), body.UpdatedAt)
	}
}

func TestPutContainersValidatesInput(t *testing.T) {
	router, _ := setupTestRouter(t)

	cases := map[string]any{
		"Empty":     map[string]any{"containers": []any{}},
		"BadLength": map[string]any{"containers": []map[string]any{{"id": 1, "length": -1, "width": 1, "height": 1}}},
		"Duplicate": map[string]any{"containers": []map[string]any{
			{"id": 1, "length": 1, "width": 1, "height": 1},
			{"id": 1, "length": 2, "width": 2, "height": 2},
		}},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPut, "/api/containers", payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestPackEndpointSuccess(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/containerpacking", map[string]any{
		"containers": []map[string]any{
			{"id": 1, "length": 10, "width": 10, "height": 10},
		},
		"containerIds": []int{1007},
		"itemsToPack": []map[string]any{
			{"id": 42, "dim1": 5, "dim2": 5, "dim3": 5, "weight": 1, "quantity": 8},
		},
		"algorithmTypeIDs": []int{1},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body []containerResultDTO
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body) != 2 || body[0].ContainerID != 1 || body[1].ContainerID != 1007 {
		t.Fatalf("unexpected container results %+v", body)
	}

	full := body[0].AlgorithmPackingResults[0]
	if !full.IsCompletePack || len(full.PackedItems) != 8 || full.PercentContainerVolumePacked != 100 {
		t.Fatalf("expected complete pack in 10x10x10, got %+v", full)
	}
	if full.AlgorithmName != "EB-AFIT" {
		t.Fatalf("expected EB-AFIT, got %s", full.AlgorithmName)
	}

	// Box8 is 6x6x6 and holds a single 5x5x5 cube.
	partial := body[1].AlgorithmPackingResults[0]
	if partial.IsCompletePack || len(partial.PackedItems) != 1 || len(partial.UnpackedItems) != 7 {
		t.Fatalf("expected one cube in Box8, got %d packed, %d unpacked", len(partial.PackedItems), len(partial.UnpackedItems))
	}
}

func TestPackEndpointErrors(t *testing.T) {
	router, _ := setupTestRouter(t, service.WithMaxItems(10))

	box := []map[string]any{{"id": 1, "length": 10, "width": 10, "height": 10}}
	cube := []map[string]any{{"id": 1, "dim1": 1, "dim2": 1, "dim3": 1, "quantity": 1}}

	cases := []struct {
		name    string
		payload map[string]any
	}{
		{name: "UnknownAlgorithm", payload: map[string]any{"containers": box, "itemsToPack": cube, "algorithmTypeIDs": []int{99}}},
		{name: "NoAlgorithm", payload: map[string]any{"containers": box, "itemsToPack": cube}},
		{name: "NoContainer", payload: map[string]any{"itemsToPack": cube, "algorithmTypeIDs": []int{1}}},
		{name: "UnknownPreset", payload: map[string]any{"containerIds": []int{5}, "itemsToPack": cube, "algorithmTypeIDs": []int{1}}},
		{name: "InvalidContainer", payload: map[string]any{
			"containers":       []map[string]any{{"id": 1, "length": 0, "width": 10, "height": 10}},
			"itemsToPack":      cube,
			"algorithmTypeIDs": []int{1},
		}},
		{name: "InvalidItem", payload: map[string]any{
			"containers":       box,
			"itemsToPack":      []map[string]any{{"id": 1, "dim1": -1, "dim2": 1, "dim3": 1, "quantity": 1}},
			"algorithmTypeIDs": []int{1},
		}},
		{name: "TooManyItems", payload: map[string]any{
			"containers":       box,
			"itemsToPack":      []map[string]any{{"id": 1, "dim1": 1, "dim2": 1, "dim3": 1, "quantity": 11}},
			"algorithmTypeIDs": []int{1},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/containerpacking", tc.payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
			var body errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body.Error == "" || body.Details == "" {
				t.Fatalf("expected error and details, got %+v", body)
			}
		})
	}
}

func TestPackEndpointRejectsMalformedJSON(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/containerpacking", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

type failingPacker struct{}

func (failingPacker) Pack(context.Context, []packing.Container, []packing.Item, []int) ([]service.ContainerPackingResult, error) {
	return nil, errors.New("worker pool exhausted")
}

func TestPackEndpointInternalError(t *testing.T) {
	handler := NewHandler(failingPacker{}, storage.NewMemoryStorage())
	router := NewRouter(handler, zaptest.NewLogger(t), WithLogging(false))

	rec := doJSON(t, router, http.MethodPost, "/api/containerpacking", map[string]any{"algorithmTypeIDs": []int{1}})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	data, err := json.Marshal(map[string]any{
		"containerIds":     []int{1000},
		"itemsToPack":      []map[string]any{{"id": 1, "dim1": 2, "dim2": 2, "dim3": 2, "quantity": 4}},
		"algorithmTypeIDs": []int{1},
	})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/containerpacking/export", bytes.NewReader(data))
	req.Header.Set("X-Request-ID", "export-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != xlsxMIME {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := attachmentName(t, rec); got != "packing-export-1.xlsx" {
		t.Fatalf("unexpected attachment name %q", got)
	}

	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 2 || sheets[1] != "1000 EB-AFIT" {
		t.Fatalf("unexpected sheets %v", sheets)
	}
}

func TestExportEndpointQuotesRequestIDInFilename(t *testing.T) {
	router, _ := setupTestRouter(t)

	data, err := json.Marshal(map[string]any{
		"containerIds":     []int{1000},
		"itemsToPack":      []map[string]any{{"id": 1, "dim1": 2, "dim2": 2, "dim3": 2, "quantity": 1}},
		"algorithmTypeIDs": []int{1},
	})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/containerpacking/export", bytes.NewReader(data))
	req.Header.Set("X-Request-ID", `run"; filename=evil.exe`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := attachmentName(t, rec); got != `packing-run"; filename=evil.exe.xlsx` {
		t.Fatalf("unexpected attachment name %q", got)
	}
}

func attachmentName(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("malformed Content-Disposition %q: %v", rec.Header().Get("Content-Disposition"), err)
	}
	if disposition != "attachment" {
		t.Fatalf("expected attachment disposition, got %q", disposition)
	}
	return params["filename"]
}

func TestCorsPreflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/containerpacking", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatalf("expected Access-Control-Allow-Origin header to be set")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "test-request-id")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "test-request-id" {
		t.Fatalf("expected request id to propagate, got %q", got)
	}

	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if got := rec2.Header().Get("X-Request-ID"); len(got) != 36 {
		t.Fatalf("expected generated uuid request id, got %q", got)
	}
}
