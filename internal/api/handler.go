package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"sync"
	"time"

	"github.com/eugenenazirov/container-packing/internal/export"
	"github.com/eugenenazirov/container-packing/internal/packing"
	"github.com/eugenenazirov/container-packing/internal/service"
	"github.com/eugenenazirov/container-packing/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	maxBodyBytes = 4 << 20
	xlsxMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Packer runs packing requests.
type Packer interface {
	Pack(ctx context.Context, containers []packing.Container, items []packing.Item, algorithmIDs []int) ([]service.ContainerPackingResult, error)
}

// Handler wires the packing service and container storage into HTTP handlers.
type Handler struct {
	packer  Packer
	storage storage.Storage

	clock func() time.Time

	mu                  sync.RWMutex
	containersUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(packer Packer, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		packer:  packer,
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.containersUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	_ = r
	algorithms := service.Algorithms()
	resp := algorithmsResponse{Algorithms: make([]algorithmDTO, 0, len(algorithms))}
	for _, a := range algorithms {
		resp.Algorithms = append(resp.Algorithms, algorithmDTO{ID: a.ID, Name: a.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetContainers(w http.ResponseWriter, r *http.Request) {
	_ = r
	presets, err := h.storage.ListContainers()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := containersResponse{
		Containers: presetsToDTO(presets),
		UpdatedAt:  h.currentContainersUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutContainers(w http.ResponseWriter, r *http.Request) {
	var req containersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Containers) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid containers", "containers must contain at least one container")
		return
	}

	presets := make([]storage.Preset, 0, len(req.Containers))
	for _, c := range req.Containers {
		presets = append(presets, c.toPreset())
	}
	if err := h.storage.SetContainers(presets); err != nil {
		if errors.Is(err, storage.ErrInvalidContainers) {
			writeError(w, http.StatusBadRequest, "Invalid containers", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markContainersUpdated()

	stored, err := h.storage.ListContainers()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := containersResponse{
		Containers: presetsToDTO(stored),
		UpdatedAt:  h.currentContainersUpdatedAt(),
		Message:    "Containers updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePack(w http.ResponseWriter, r *http.Request) {
	results, ok := h.pack(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resultsToDTO(results))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	results, ok := h.pack(w, r)
	if !ok {
		return
	}

	runID := requestIDFromContext(r.Context())
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, results, runID); err != nil {
		writeInternalError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": fmt.Sprintf("packing-%s.xlsx", runID),
	}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// pack decodes a packing request, runs it and writes an error response when
// it fails.
func (h *Handler) pack(w http.ResponseWriter, r *http.Request) ([]service.ContainerPackingResult, bool) {
	var req packRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return nil, false
	}

	containers := make([]packing.Container, 0, len(req.Containers)+len(req.ContainerIDs))
	for _, c := range req.Containers {
		containers = append(containers, c.toContainer())
	}
	for _, id := range req.ContainerIDs {
		preset, err := h.storage.GetContainer(id)
		if err != nil {
			writePackError(w, err)
			return nil, false
		}
		containers = append(containers, preset.Container())
	}

	items := make([]packing.Item, 0, len(req.ItemsToPack))
	for _, item := range req.ItemsToPack {
		items = append(items, item.toItem())
	}

	results, err := h.packer.Pack(r.Context(), containers, items, req.AlgorithmTypeIDs)
	if err != nil {
		writePackError(w, err)
		return nil, false
	}
	return results, true
}

func writePackError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAlgorithm):
		writeError(w, http.StatusBadRequest, "Invalid algorithm", err.Error(), "GET /api/algorithms lists the supported algorithm type ids")
	case errors.Is(err, service.ErrNoAlgorithms):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error(), "set algorithmTypeIDs, for example [1]")
	case errors.Is(err, service.ErrNoContainers):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error(), "send containers or containerIds")
	case errors.Is(err, service.ErrTooManyItems):
		writeError(w, http.StatusBadRequest, "Too many items", err.Error(), "split the request or lower item quantities")
	case errors.Is(err, storage.ErrContainerNotFound):
		writeError(w, http.StatusBadRequest, "Unknown container", err.Error(), "GET /api/containers lists the preset ids")
	case errors.Is(err, packing.ErrInvalidContainer):
		writeError(w, http.StatusBadRequest, "Invalid container", err.Error())
	case errors.Is(err, packing.ErrInvalidItem):
		writeError(w, http.StatusBadRequest, "Invalid item", err.Error())
	default:
		writeInternalError(w, err)
	}
}

func (h *Handler) currentContainersUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.containersUpdatedAt
}

func (h *Handler) markContainersUpdated() {
	h.mu.Lock()
	h.containersUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
