package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/occupancy-forecast/internal/config"
	"github.com/iwvelando/occupancy-forecast/internal/forecast"
	"github.com/iwvelando/occupancy-forecast/internal/repository"
	"github.com/iwvelando/occupancy-forecast/pkg/constants"
	"github.com/iwvelando/occupancy-forecast/pkg/datetime"
	"github.com/iwvelando/occupancy-forecast/pkg/output"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	reader        repository.Reader
	engine        config.EngineConfig
	retry         repository.RetryPolicy
	now           func() time.Time
}

// Option customizes the handler built by NewHandler.
type Option func(*handler)

// WithReader enables the owner forecast endpoint backed by reader.
func WithReader(reader repository.Reader, retry repository.RetryPolicy) Option {
	return func(h *handler) {
		h.reader = reader
		h.retry = retry
	}
}

// WithEngine sets the default window and horizon used when a request does not
// override them.
func WithEngine(engine config.EngineConfig) Option {
	return func(h *handler) {
		h.engine = engine
	}
}

// WithClock replaces time.Now as the source of the default anchor date.
func WithClock(now func() time.Time) Option {
	return func(h *handler) {
		h.now = now
	}
}

// NewHandler constructs the HTTP handler that serves the forecast API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, opts ...Option) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		engine: config.EngineConfig{
			MonthsBack:    constants.DefaultMonthsBack,
			HorizonMonths: constants.DefaultHorizonMonths,
			FetchLimit:    constants.DefaultFetchLimit,
		},
		retry: repository.RetryPolicy{Attempts: 1},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	mux := http.NewServeMux()

	// Forecast for an uploaded snapshot
	mux.HandleFunc("/api/forecast", h.handleForecast)

	// Forecast for an owner's portfolio read from the configured source
	mux.HandleFunc("GET /api/owners/{owner}/forecast", h.handleOwnerForecast)

	// Version endpoint
	mux.HandleFunc("/api/version", h.handleVersion)

	return withRequestID(logger, mux)
}

type forecastResponse struct {
	Report   *forecast.Report `json:"report"`
	CSV      string           `json:"csv"`
	Warnings []string         `json:"warnings,omitempty"`
	Rejected []string         `json:"rejected,omitempty"`
	Duration string           `json:"duration"`
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	opts, err := h.parseOptions(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	body, err := h.readSnapshotBody(r)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	snapshot, err := repository.DecodeSnapshot(bytes.NewReader(body))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("error reading snapshot, %v", err), op)
		return
	}

	logger := h.requestLogger(r)
	for _, invalid := range snapshot.Validate() {
		logger.Warn("snapshot record has an unparseable date and will be skipped",
			zap.String("op", op),
			zap.Error(invalid),
		)
	}
	result, err := repository.Load(r.Context(), logger, snapshot, snapshot, repository.Query{}, repository.RetryPolicy{Attempts: 1})
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.runForecast(w, r, result, opts, start, op)
}

func (h *handler) handleOwnerForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOwnerForecast"
	if h.reader == nil {
		h.respondErrorWithOp(w, r, http.StatusServiceUnavailable, "no data source configured", op)
		return
	}

	start := time.Now()
	opts, err := h.parseOptions(r)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	query := repository.Query{
		OwnerID:    r.PathValue("owner"),
		PropertyID: strings.TrimSpace(r.URL.Query().Get("property")),
		Limit:      h.engine.FetchLimit,
	}
	result, err := repository.Load(r.Context(), h.requestLogger(r), h.reader, h.reader, query, h.retry)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			h.respondErrorWithOp(w, r, http.StatusNotFound, err.Error(), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadGateway, fmt.Sprintf("failed to load snapshot: %v", err), op)
		return
	}

	h.runForecast(w, r, result, opts, start, op)
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

func (h *handler) runForecast(w http.ResponseWriter, r *http.Request, result *repository.Result, opts forecast.Options, start time.Time, op string) {
	logger := h.requestLogger(r)

	report, err := forecast.BuildReport(logger, result.Properties, result.Bookings, opts)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to compute forecast: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	response := forecastResponse{
		Report:   report,
		CSV:      output.CsvString(report),
		Duration: elapsed.String(),
	}
	if !report.Warning.Empty() {
		response.Warnings = append(response.Warnings, report.Warning.String())
	}
	for _, rejected := range result.Rejected {
		response.Rejected = append(response.Rejected, rejected.Error())
	}

	logger.Info("forecast computed",
		zap.String("op", op),
		zap.Int("properties", len(result.Properties)),
		zap.Int("bookings", len(result.Bookings)),
		zap.Int("forecastMonths", len(report.Forecast)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

// readSnapshotBody returns the uploaded "file" part of a multipart form, or the raw
// request body for JSON and YAML requests.
func (h *handler) readSnapshotBody(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		return body, nil
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to parse upload: %w", err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("missing snapshot file")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.readSnapshotBody"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// parseOptions applies the monthsBack, horizon and anchor query parameters over the
// handler defaults.
func (h *handler) parseOptions(r *http.Request) (forecast.Options, error) {
	query := r.URL.Query()
	opts := forecast.Options{
		Anchor:        datetime.Day(h.now()),
		MonthsBack:    h.engine.MonthsBack,
		HorizonMonths: h.engine.HorizonMonths,
	}

	if h.engine.AnchorDate != "" {
		anchor, err := datetime.ParseDate(h.engine.AnchorDate)
		if err != nil {
			return opts, fmt.Errorf("invalid configured anchor: %w", err)
		}
		opts.Anchor = anchor
	}
	if value := query.Get("anchor"); value != "" {
		anchor, err := datetime.ParseDate(value)
		if err != nil {
			return opts, fmt.Errorf("invalid anchor: %w", err)
		}
		opts.Anchor = anchor
	}

	var err error
	if opts.MonthsBack, err = intParam(query.Get("monthsBack"), opts.MonthsBack, constants.MaxMonthsBack); err != nil {
		return opts, fmt.Errorf("invalid monthsBack: %w", err)
	}
	if opts.HorizonMonths, err = intParam(query.Get("horizon"), opts.HorizonMonths, constants.MaxHorizonMonths); err != nil {
		return opts, fmt.Errorf("invalid horizon: %w", err)
	}
	return opts, nil
}

// intParam parses a query value in [0, limit], returning fallback when it is blank.
func intParam(value string, fallback, limit int) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative, got %d", n)
	}
	if n > limit {
		return 0, fmt.Errorf("must not exceed %d, got %d", limit, n)
	}
	return n, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.requestLogger(r).Error("forecast request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
