// Package server exposes the calculators and per-user settings over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/finance-calculator/internal/config"
	"github.com/iwvelando/finance-calculator/internal/forecast"
	"github.com/iwvelando/finance-calculator/internal/session"
	"github.com/iwvelando/finance-calculator/internal/settings"
	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/finance"
	"github.com/iwvelando/finance-calculator/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger      *zap.Logger
	settings    *settings.Service
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler for the calculator API. The settings
// endpoints respond 503 when svc is nil.
func NewHandler(logger *zap.Logger, svc *settings.Service, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, settings: svc, maxBodySize: maxBodySize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Metadata for clients
	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/api/rates", h.handleRates)

	// Stateless projections
	mux.HandleFunc("/api/investment/project", h.handleInvestment)
	mux.HandleFunc("/api/budget/project", h.handleBudget)
	mux.HandleFunc("/api/forecast", h.handleForecast)

	// Per-user settings record
	mux.HandleFunc("/api/settings", h.handleSettings)
	mux.HandleFunc("/api/settings/export", h.handleSettingsExport)

	return h.logRequests(mux)
}

type projectionResponse struct {
	Result   interface{} `json:"result"`
	CSV      string      `json:"csv"`
	Warnings []string    `json:"warnings,omitempty"`
	Duration string      `json:"duration"`
}

type forecastResponse struct {
	forecast.Forecast
	CSV      string `json:"csv"`
	Duration string `json:"duration"`
}

type settingsResponse struct {
	Settings  config.Settings `json:"settings"`
	Revision  string          `json:"revision"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Created   bool            `json:"created,omitempty"`
	Warnings  []string        `json:"warnings,omitempty"`
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleRates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"rates": finance.Rates(),
	})
}

func (h *handler) handleInvestment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleInvestment"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var s config.Settings
	if !h.decodeJSON(w, r, &s, op) {
		return
	}

	result, err := forecast.ComputeInvestment(h.logger, s)
	if err != nil {
		h.respondProjectionError(w, err, op)
		return
	}

	var buf bytes.Buffer
	output.CsvInvestment(&buf, result)
	h.writeJSON(w, http.StatusOK, projectionResponse{
		Result:   result,
		CSV:      buf.String(),
		Warnings: s.ValidateSettings(),
		Duration: time.Since(start).String(),
	})
}

func (h *handler) handleBudget(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleBudget"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var s config.Settings
	if !h.decodeJSON(w, r, &s, op) {
		return
	}

	result, err := forecast.ComputeBudget(h.logger, s)
	if err != nil {
		h.respondProjectionError(w, err, op)
		return
	}

	var buf bytes.Buffer
	output.CsvBudget(&buf, result)
	h.writeJSON(w, http.StatusOK, projectionResponse{
		Result:   result,
		CSV:      buf.String(),
		Warnings: s.ValidateSettings(),
		Duration: time.Since(start).String(),
	})
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var s config.Settings
	if !h.decodeJSON(w, r, &s, op) {
		return
	}

	result, err := forecast.Compute(h.logger, s)
	if err != nil {
		h.respondProjectionError(w, err, op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("forecast computed",
		zap.String("op", op),
		zap.Int("years", len(result.Investment.Yearly)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, forecastResponse{
		Forecast: result,
		CSV:      output.CsvString(result),
		Duration: elapsed.String(),
	})
}

func (h *handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSettings"
	if h.settings == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "settings storage is not configured", op)
		return
	}

	sess := session.FromRequest(r)
	switch r.Method {
	case http.MethodGet:
		snap, err := h.settings.Load(r.Context(), sess)
		if err != nil {
			h.respondSettingsError(w, err, op)
			return
		}
		h.writeJSON(w, http.StatusOK, snapshotResponse(snap))

	case http.MethodPut:
		if !sess.Authenticated() {
			h.respondSettingsError(w, settings.ErrUnauthenticated, op)
			return
		}
		var s config.Settings
		if !h.decodeJSON(w, r, &s, op) {
			return
		}
		snap, err := h.settings.Save(r.Context(), sess, s)
		if err != nil {
			h.respondSettingsError(w, err, op)
			return
		}
		h.writeJSON(w, http.StatusOK, snapshotResponse(snap))

	case http.MethodDelete:
		if err := h.settings.Reset(r.Context(), sess); err != nil {
			h.respondSettingsError(w, err, op)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func snapshotResponse(snap settings.Snapshot) settingsResponse {
	return settingsResponse{
		Settings:  snap.Settings,
		Revision:  snap.Revision,
		UpdatedAt: snap.UpdatedAt,
		Created:   snap.Created,
		Warnings:  snap.Settings.ValidateSettings(),
	}
}

func (h *handler) handleSettingsExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSettingsExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if !h.decodeJSON(w, r, &payload, op) {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedSettingsYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode settings: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"settingsYaml": string(yamlBytes),
	})
}

// settingsKeyOrder is the order a settings file is written in: investment
// fields first, then budget fields.
var settingsKeyOrder = []string{
	"monthlyInvestment",
	"years",
	"selectedRate",
	"customRate",
	"lumpSums",
	"totalGoal",
	"monthlyIncome",
	"expenses",
	"savingsGoal",
}

func marshalOrderedSettingsYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range settingsKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedSettings{items: items})
}

type orderedSettings struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedSettings) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

// decodeJSON reads a size-limited JSON body into dst. It writes the error
// response itself and reports whether decoding succeeded.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondProjectionError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, finance.ErrConfiguration) {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute projection: %v", err), op)
}

func (h *handler) respondSettingsError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, settings.ErrUnauthenticated) {
		h.respondErrorWithOp(w, http.StatusUnauthorized, err.Error(), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before writing the status, so an unencodable
// payload becomes a 500 instead of an empty success.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Int("status", status),
			zap.Error(err),
		)
		buf.Reset()
		status = http.StatusInternalServerError
		buf.WriteString(`{"error":"failed to encode response"}` + "\n")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Debug("handled request",
			zap.String("op", "server.logRequests"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
