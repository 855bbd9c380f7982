package dashboardhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/energydash/energydash/internal/dashboard/export"
	"github.com/energydash/energydash/internal/dashboard/ui"
	"github.com/energydash/energydash/internal/energy"
	"github.com/energydash/energydash/internal/platform/httpx"
	"github.com/energydash/energydash/internal/shared"
	"github.com/energydash/energydash/internal/theme"
	"github.com/energydash/energydash/internal/view"
	"github.com/energydash/energydash/internal/viewstate"
)

const requestTimeout = 5 * time.Second

var errUnknownToggle = errors.New("dashboard: unknown toggle")

// PDFService renders dashboard snapshots to PDF bytes.
type PDFService interface {
	RenderDashboard(ctx context.Context, payload export.DashboardPayload) ([]byte, error)
}

// Handler serves the dashboard pages, their state transitions and exports.
type Handler struct {
	logger    *slog.Logger
	registry  *viewstate.Registry
	builder   *ui.Builder
	exporter  *export.Exporter
	pdf       PDFService
	templates *view.Engine
	csrf      *shared.CSRFManager
	validate  *validator.Validate
	csvPool   sync.Pool
}

// NewHandler constructs the dashboard HTTP handler. pdf may be nil, in which
// case the PDF endpoint answers 503.
func NewHandler(logger *slog.Logger, registry *viewstate.Registry, builder *ui.Builder, exporter *export.Exporter, pdf PDFService, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:    logger,
		registry:  registry,
		builder:   builder,
		exporter:  exporter,
		pdf:       pdf,
		templates: templates,
		csrf:      csrf,
		validate:  validator.New(),
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

type yearForm struct {
	Year int `validate:"gte=1900,lte=2100"`
}

type indexForm struct {
	Index int `validate:"gte=0"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	variant, ok := h.variant(w, r)
	if !ok {
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	v := h.registry.View(sess.ID, variant)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	vm, err := h.builder.Build(ctx, variant, v.State(), v.Loading(), v.ReadyIn())
	if err != nil {
		h.handleServerError(w, "build view model", err)
		return
	}

	csrfToken, err := h.csrf.EnsureToken(ctx, sess)
	if err != nil {
		h.handleServerError(w, "csrf token", err)
		return
	}

	data := view.TemplateData{
		Title:       variant.Title(),
		CSRFToken:   csrfToken,
		Flash:       sess.PopFlash(),
		CurrentPath: r.URL.Path,
		Data:        vm,
	}
	if err := h.templates.Render(w, pageTemplate(variant), data); err != nil {
		h.handleServerError(w, "render template", err)
	}
}

func (h *Handler) handleTheme(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(v *viewstate.View) (viewstate.State, error) {
		switch chi.URLParam(r, "toggle") {
		case "dark":
			return v.ToggleDark()
		case "contrast":
			return v.ToggleHighContrast()
		default:
			return viewstate.State{}, errUnknownToggle
		}
	})
}

func (h *Handler) handleYear(w http.ResponseWriter, r *http.Request) {
	form := yearForm{}
	if err := h.decodeInt(r, "year", &form.Year, &form); err != nil {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return
	}
	h.transition(w, r, func(v *viewstate.View) (viewstate.State, error) {
		return v.SetMaxYear(form.Year)
	})
}

func (h *Handler) handleTab(w http.ResponseWriter, r *http.Request) {
	form := indexForm{}
	if err := h.decodeInt(r, "index", &form.Index, &form); err != nil {
		http.Error(w, "invalid tab", http.StatusBadRequest)
		return
	}
	h.transition(w, r, func(v *viewstate.View) (viewstate.State, error) {
		return v.SelectTab(form.Index)
	})
}

func (h *Handler) handleSection(w http.ResponseWriter, r *http.Request) {
	form := indexForm{}
	if err := h.decodeInt(r, "index", &form.Index, &form); err != nil {
		http.Error(w, "invalid section", http.StatusBadRequest)
		return
	}
	h.transition(w, r, func(v *viewstate.View) (viewstate.State, error) {
		return v.SelectSection(form.Index)
	})
}

func (h *Handler) handleUnmount(w http.ResponseWriter, r *http.Request) {
	variant, ok := h.variant(w, r)
	if !ok {
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	if h.registry.Unmount(sess.ID, variant) {
		sess.AddFlash(shared.FlashMessage{Kind: "info", Message: "Vista reiniciada."})
	}
	http.Redirect(w, r, dashboardPath(variant), http.StatusSeeOther)
}

// transition applies a slot change to the caller's view and redirects back
// to the page.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, change func(*viewstate.View) (viewstate.State, error)) {
	variant, ok := h.variant(w, r)
	if !ok {
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	v := h.registry.View(sess.ID, variant)
	if _, err := change(v); err != nil {
		switch {
		case errors.Is(err, errUnknownToggle):
			http.NotFound(w, r)
		case errors.Is(err, viewstate.ErrInvalidYear), errors.Is(err, viewstate.ErrInvalidIndex):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, viewstate.ErrUnmounted):
			sess.AddFlash(shared.FlashMessage{Kind: "info", Message: "La vista se reinició, intente de nuevo."})
			http.Redirect(w, r, dashboardPath(variant), http.StatusSeeOther)
		default:
			h.handleServerError(w, "apply transition", err)
		}
		return
	}
	http.Redirect(w, r, dashboardPath(variant), http.StatusSeeOther)
}

func (h *Handler) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	variant, ok := h.variant(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "chart")

	var resolver export.SurfaceResolver
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if v, mounted := h.registry.Lookup(sess.ID, variant); mounted {
			resolver = h.builder.Surfaces(variant, v.State(), v.Loading())
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	delivered := false
	h.exporter.Export(ctx, resolver, export.DownloaderFunc(func(_ context.Context, anchor export.Anchor) {
		data, err := export.DecodeDataURI(anchor.Href)
		if err != nil {
			h.logError("decode export", err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", anchor.Download))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			h.logError("stream png", err)
		}
		delivered = true
	}), id)
	if !delivered {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	variant, ok := h.variant(w, r)
	if !ok {
		return
	}
	state := h.currentState(r, variant)

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteSeriesCSV(buf, h.builder.Tables(variant, state)); err != nil {
		h.handleServerError(w, "write series csv", err)
		return
	}
	if kpis := h.builder.KPIs(variant); len(kpis) > 0 {
		buf.WriteString("\n")
		if err := export.WriteKPICSV(buf, kpis); err != nil {
			h.handleServerError(w, "write kpi csv", err)
			return
		}
	}

	filename := fmt.Sprintf("energydash-%s-%d.csv", variant, state.MaxYear)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	variant, ok := h.variant(w, r)
	if !ok {
		return
	}
	if h.pdf == nil {
		http.Error(w, "pdf export not configured", http.StatusServiceUnavailable)
		return
	}
	state := h.currentState(r, variant)

	ctx, cancel := context.WithTimeout(r.Context(), 3*requestTimeout)
	defer cancel()

	vm, err := h.builder.Build(ctx, variant, state, false, 0)
	if err != nil {
		h.handleServerError(w, "build view model", err)
		return
	}
	palette := theme.Palette(state.Flags())
	payload := export.DashboardPayload{
		Title:      variant.Title(),
		Subtitle:   fmt.Sprintf("Año máximo: %d", state.MaxYear),
		Background: palette.Background,
		Foreground: palette.Foreground,
		KPIs:       h.builder.KPIs(variant),
		Tables:     h.builder.Tables(variant, state),
	}
	for _, card := range allCharts(vm) {
		payload.Charts = append(payload.Charts, export.ChartImage{Title: card.Title, SVG: card.SVG})
	}

	pdfBytes, err := h.pdf.RenderDashboard(ctx, payload)
	if err != nil {
		h.handleServerError(w, "render pdf", err)
		return
	}
	filename := fmt.Sprintf("energydash-%s.pdf", variant)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	if _, err := w.Write(pdfBytes); err != nil {
		h.logError("stream pdf", err)
	}
}

// dashboardResponse is the JSON form of a view's derived data.
type dashboardResponse struct {
	Variant   energy.Variant    `json:"variant"`
	State     viewstate.State   `json:"state"`
	Mounted   bool              `json:"mounted"`
	Loading   bool              `json:"loading"`
	ReadyInMS int64             `json:"ready_in_ms"`
	Tables    []export.Table    `json:"tables"`
	KPIs      []energy.KPIEntry `json:"kpis,omitempty"`
	Charts    []string          `json:"charts"`
}

func (h *Handler) handleAPI(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "variant")
	variant, ok := energy.ParseVariant(raw)
	if !ok {
		httpx.RespondError(w, r, fmt.Errorf("dashboard %q: %w", raw, httpx.ErrNotFound))
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, r, httpx.ErrForbidden)
		return
	}
	// Reads the mounted view; never mounts one.
	resp := dashboardResponse{Variant: variant, State: viewstate.Initial(h.registry.Catalog())}
	loading := true
	if v, ok := h.registry.Lookup(sess.ID, variant); ok {
		resp.Mounted = true
		resp.State = v.State()
		loading = v.Loading()
		resp.Loading = loading
		resp.ReadyInMS = v.ReadyIn().Milliseconds()
	}
	resp.Tables = h.builder.Tables(variant, resp.State)
	resp.KPIs = h.builder.KPIs(variant)
	resp.Charts = h.builder.Surfaces(variant, resp.State, loading).IDs()
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) variant(w http.ResponseWriter, r *http.Request) (energy.Variant, bool) {
	variant, ok := energy.ParseVariant(chi.URLParam(r, "variant"))
	if !ok {
		http.NotFound(w, r)
		return "", false
	}
	return variant, true
}

// currentState returns the caller's mounted view state, or the initial state
// when nothing is mounted. Exports never mount a view.
func (h *Handler) currentState(r *http.Request, variant energy.Variant) viewstate.State {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if v, ok := h.registry.Lookup(sess.ID, variant); ok {
			return v.State()
		}
	}
	return viewstate.Initial(h.registry.Catalog())
}

func (h *Handler) decodeInt(r *http.Request, field string, dst *int, form any) error {
	raw := strings.TrimSpace(r.PostFormValue(field))
	if raw == "" {
		return fmt.Errorf("%s: %w", field, httpx.ErrValidation)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, httpx.ErrValidation)
	}
	*dst = n
	if err := h.validate.Struct(form); err != nil {
		return fmt.Errorf("%s: %w: %v", field, httpx.ErrValidation, err)
	}
	return nil
}

func (h *Handler) handleServerError(w http.ResponseWriter, msg string, err error) {
	h.logError(msg, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(msg string, err error) {
	if h.logger == nil {
		return
	}
	h.logger.Error(msg, slog.Any("error", err))
}

func pageTemplate(variant energy.Variant) string {
	return "pages/" + string(variant) + ".html"
}

func dashboardPath(variant energy.Variant) string {
	return "/dashboards/" + string(variant)
}

func allCharts(vm ui.PageModel) []ui.ChartCard {
	var out []ui.ChartCard
	for _, panel := range vm.Countries {
		out = append(out, panel.Charts...)
	}
	return append(out, vm.Charts...)
}
