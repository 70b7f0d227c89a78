// Package dashboardhttp serves dashboard snapshots, exports and charts.
package dashboardhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wardline/wardline/internal/dashboard"
	"github.com/wardline/wardline/internal/dashboard/export"
	"github.com/wardline/wardline/internal/dashboard/svg"
	"github.com/wardline/wardline/internal/identity"
	"github.com/wardline/wardline/internal/platform/httpx"
)

const defaultRequestTimeout = 10 * time.Second

// UserHeader carries the caller's user id when an upstream gateway has
// authenticated them.
const UserHeader = "X-User-ID"

// DashboardService is the snapshot contract used by the handler.
type DashboardService interface {
	Snapshot(ctx context.Context, profile dashboard.Profile) (dashboard.Result, error)
	Invalidate(ctx context.Context) error
}

// WarmupEnqueuer schedules a background refresh.
type WarmupEnqueuer interface {
	EnqueueWarmup(ctx context.Context, roles ...string) (string, error)
}

// PDFRenderer converts an HTML page to PDF.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html []byte) ([]byte, error)
}

// Handler coordinates HTTP requests for the dashboard.
type Handler struct {
	logger    *slog.Logger
	service   DashboardService
	directory identity.Directory
	jobs      WarmupEnqueuer
	pdf       PDFRenderer
	validator *validator.Validate
	timeout   time.Duration
	bufPool   sync.Pool
}

// NewHandler constructs the dashboard HTTP handler. directory and jobs are
// optional.
func NewHandler(logger *slog.Logger, service DashboardService, directory identity.Directory, jobs WarmupEnqueuer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:    logger,
		service:   service,
		directory: directory,
		jobs:      jobs,
		validator: validator.New(),
		timeout:   defaultRequestTimeout,
	}
	h.bufPool.New = func() any { return new(bytes.Buffer) }
	return h
}

// WithTimeout overrides the per-request snapshot timeout.
func (h *Handler) WithTimeout(d time.Duration) {
	if d > 0 {
		h.timeout = d
	}
}

// WithPDF enables the PDF export.
func (h *Handler) WithPDF(r PDFRenderer) {
	h.pdf = r
}

type dashboardQuery struct {
	Role         string   `validate:"omitempty,oneof=general lab pharmacy"`
	Roles        []string `validate:"max=32,dive,max=64"`
	FacilityType string   `validate:"max=64"`
}

type refreshRequest struct {
	Roles []string `json:"roles" validate:"max=3,dive,oneof=general lab pharmacy"`
}

type refreshResponse struct {
	RunID string   `json:"runId,omitempty"`
	Roles []string `json:"roles"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	res, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *Handler) handleProfiles(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, dashboard.Profiles())
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	res, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	h.stream(w, "text/csv; charset=utf-8", filename(res, "csv"), func(buf *bytes.Buffer) error {
		return export.WriteCSV(buf, res)
	})
}

func (h *Handler) handleXLSX(w http.ResponseWriter, r *http.Request) {
	res, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	h.stream(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename(res, "xlsx"), func(buf *bytes.Buffer) error {
		return export.WriteXLSX(buf, res)
	})
}

func (h *Handler) handlePrint(w http.ResponseWriter, r *http.Request) {
	res, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := export.WriteHTML(w, res); err != nil {
		h.logger.Error("render print view", slog.Any("error", err))
	}
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		httpx.RespondError(w, fmt.Errorf("%w: pdf export disabled", httpx.ErrUnavailable))
		return
	}
	res, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	buf := h.bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer h.bufPool.Put(buf)
	if err := export.WriteHTML(buf, res); err != nil {
		h.handleServerError(w, "render print view", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	pdf, err := h.pdf.RenderHTML(ctx, buf.Bytes())
	if err != nil {
		h.logger.Error("render pdf", slog.Any("error", err))
		httpx.RespondError(w, fmt.Errorf("%w: pdf renderer failed", httpx.ErrUnavailable))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename(res, "pdf")))
	_, _ = w.Write(pdf)
}

func (h *Handler) handleTrendSVG(w http.ResponseWriter, r *http.Request) {
	res, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	chart, err := svg.Trend(0, 0, res.Trend, svg.LineOpts{
		Title:       res.Profile.Title + " trend",
		Description: "Daily volume over the last 7 days",
		ShowDots:    true,
	})
	if err != nil {
		h.handleServerError(w, "render trend", err)
		return
	}
	h.writeSVG(w, string(chart))
}

func (h *Handler) handleDistributionSVG(w http.ResponseWriter, r *http.Request) {
	res, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	if len(res.Distribution.Segments) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	chart, err := svg.Segments(0, res.Distribution, svg.BarOpts{
		Title:       res.Profile.Title + " status mix",
		Description: "Records per status",
		ShowTotals:  true,
	})
	if err != nil {
		h.handleServerError(w, "render distribution", err)
		return
	}
	h.writeSVG(w, string(chart))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, validationError(err))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.service.Invalidate(ctx); err != nil {
		h.handleServerError(w, "invalidate cache", err)
		return
	}
	resp := refreshResponse{Roles: req.Roles}
	if resp.Roles == nil {
		resp.Roles = []string{}
	}
	if h.jobs != nil {
		runID, err := h.jobs.EnqueueWarmup(ctx, req.Roles...)
		if err != nil {
			// The bump already happened; the next request refetches on its own.
			h.logger.Warn("enqueue warmup", slog.Any("error", err))
		}
		resp.RunID = runID
	}
	httpx.JSON(w, http.StatusAccepted, resp)
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) (dashboard.Result, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	profile, err := h.resolveProfile(ctx, r)
	if err != nil {
		h.respondError(w, "resolve profile", err)
		return dashboard.Result{}, false
	}
	res, err := h.service.Snapshot(ctx, profile)
	if err != nil {
		h.handleServerError(w, "load dashboard", err)
		return dashboard.Result{}, false
	}
	return res, true
}

// resolveProfile picks the persona from an explicit role, then the
// authenticated user, then the role tokens and facility type in the query.
func (h *Handler) resolveProfile(ctx context.Context, r *http.Request) (dashboard.Profile, error) {
	q := r.URL.Query()
	query := dashboardQuery{
		Role:         strings.ToLower(strings.TrimSpace(q.Get("role"))),
		Roles:        splitList(q["roles"]),
		FacilityType: strings.TrimSpace(q.Get("facility_type")),
	}
	if err := h.validator.Struct(query); err != nil {
		return dashboard.Profile{}, validationError(err)
	}
	if query.Role != "" {
		profile, _ := dashboard.ProfileFor(dashboard.RoleID(query.Role))
		return profile, nil
	}
	if userID := strings.TrimSpace(r.Header.Get(UserHeader)); userID != "" && h.directory != nil {
		profile, _, err := identity.Resolve(ctx, h.directory, userID)
		if errors.Is(err, identity.ErrNotFound) {
			return dashboard.Profile{}, fmt.Errorf("user %s: %w", userID, httpx.ErrNotFound)
		}
		if err != nil {
			return dashboard.Profile{}, err
		}
		return profile, nil
	}
	return dashboard.ResolveRole(query.Roles, query.FacilityType), nil
}

func (h *Handler) stream(w http.ResponseWriter, contentType, name string, write func(*bytes.Buffer) error) {
	buf := h.bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.bufPool.Put(buf)
	}()
	if err := write(buf); err != nil {
		h.handleServerError(w, "write "+name, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("stream export", slog.String("file", name), slog.Any("error", err))
	}
}

func (h *Handler) writeSVG(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(body))
}

func (h *Handler) respondError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, httpx.ErrValidation) || errors.Is(err, httpx.ErrNotFound) {
		httpx.RespondError(w, err)
		return
	}
	h.handleServerError(w, action, err)
}

func (h *Handler) handleServerError(w http.ResponseWriter, action string, err error) {
	h.logger.Error("dashboard handler error", slog.String("action", action), slog.Any("error", err))
	httpx.RespondError(w, err)
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("%w: %s failed %s", httpx.ErrValidation, strings.ToLower(fe.Field()), fe.Tag())
	}
	return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
}

// splitList accepts both repeated and comma separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func filename(res dashboard.Result, ext string) string {
	return fmt.Sprintf("dashboard-%s-%s.%s", res.Profile.ID, res.GeneratedAt.Format("20060102-1504"), ext)
}
