// Package web renders the browser UI: the version table, the Gantt chart and
// the create/edit form. Pages are rendered on the server from embedded
// templates; every mutation redirects back to the table, which re-reads the
// whole list.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/juju/zaputil/zapctx"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/version-tracker-api/internal/chart"
	"github.com/BuzzLyutic/version-tracker-api/internal/model"
	"github.com/BuzzLyutic/version-tracker-api/internal/repo"
	"github.com/BuzzLyutic/version-tracker-api/internal/service"
	"github.com/BuzzLyutic/version-tracker-api/pkg/client"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed assets
var assetsFS embed.FS

// chartTicks - число подписей на оси диаграммы
const chartTicks = 8

const (
	msgNotFound   = "找不到该版本"
	msgLoadFailed = "加载版本数据失败"
	msgSaveFailed = "保存版本失败"
	msgDelFailed  = "删除版本失败"
	msgBadID      = "无效的版本ID"
	msgBadDate    = "日期格式无效: %s"
	msgBadNumber  = "数值格式无效: %s"
	msgInvalid    = "输入无效: %s"
)

// Versions is the data source of the UI. Both *service.VersionService
// (in-process) and *client.Client (remote API) satisfy it.
type Versions interface {
	List(ctx context.Context) ([]model.Version, error)
	Get(ctx context.Context, id int64) (model.Version, error)
	Create(ctx context.Context, in model.VersionInput) (model.Version, error)
	Update(ctx context.Context, id int64, in model.VersionInput) (model.Version, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	versions Versions
	base     string
	tmpl     *template.Template
}

// New parses the embedded templates. base is the path the UI is mounted
// under, e.g. "/ui"; links and redirects are built from it.
func New(versions Versions, base string) (*Handler, error) {
	tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	return &Handler{
		versions: versions,
		base:     strings.TrimRight(base, "/"),
		tmpl:     tmpl,
	}, nil
}

var funcs = template.FuncMap{
	"int": func(p model.Priority) int { return int(p) },
	"clampPct": func(p int) int {
		if p < 0 {
			return 0
		}
		if p > 100 {
			return 100
		}
		return p
	},
	// pct - доля дней от всего диапазона оси, в процентах
	"pct": func(days, span int) string {
		if span <= 0 {
			return "0"
		}
		return strconv.FormatFloat(float64(days)*100/float64(span), 'f', 4, 64)
	},
	"css":   func(s string) template.CSS { return template.CSS(s) },
	"color": chart.ColorFor,
}

// Routes returns the UI router, to be mounted at base.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/chart", h.Chart)
	r.Get("/versions/new", h.NewForm)
	r.Get("/versions/{id}/edit", h.Edit)
	r.Post("/versions", h.Create)
	r.Post("/versions/{id}", h.Update)
	r.Post("/versions/{id}/delete", h.Delete)

	static, _ := fs.Sub(assetsFS, "assets")
	r.Handle("/static/*", http.StripPrefix(h.base+"/static/", http.FileServer(http.FS(static))))
	return r
}

type page struct {
	Base       string
	Page       string
	Error      string
	Versions   []model.Version
	Chart      *chart.Chart
	Ticks      []chart.Tick
	Span       int
	Form       *form
	Statuses   []model.Status
	Priorities []model.Priority
}

// form holds the raw field values so that a rejected submit is shown back
// to the user unchanged.
type form struct {
	ID                      int64
	Action                  string
	Name                    string
	Priority                model.Priority
	Summary                 string
	StartDate               string
	EndDate                 string
	RequirementCompleteDate string
	DevelopmentCompleteDate string
	TestingCompleteDate     string
	Status                  model.Status
	Progress                string
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	versions, err := h.versions.List(r.Context())
	if err != nil {
		h.fail(w, r, err, msgLoadFailed)
		return
	}
	h.render(w, r, http.StatusOK, page{Page: "list", Versions: versions})
}

func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	versions, err := h.versions.List(r.Context())
	if err != nil {
		h.fail(w, r, err, msgLoadFailed)
		return
	}

	p := page{Page: "chart", Statuses: model.Statuses}
	c, err := chart.Build(versions)
	if err == nil {
		p.Chart = &c
		p.Ticks = c.Ticks(chartTicks)
		p.Span = c.Domain.SpanDays()
	}
	h.render(w, r, http.StatusOK, p)
}

// NewForm shows an empty form with the defaults of a freshly planned version.
func (h *Handler) NewForm(w http.ResponseWriter, r *http.Request) {
	f := &form{
		Action:   h.base + "/versions",
		Priority: model.PriorityMedium,
		Status:   model.StatusPlanning,
		Progress: "0",
	}
	h.renderForm(w, r, http.StatusOK, f, "")
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	v, err := h.versions.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, msgLoadFailed)
		return
	}
	h.renderForm(w, r, http.StatusOK, formOf(v, h.base), "")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	f, in, err := parseForm(r)
	f.Action = h.base + "/versions"
	if err != nil {
		h.renderForm(w, r, http.StatusBadRequest, f, err.Error())
		return
	}

	if _, err := h.versions.Create(r.Context(), in); err != nil {
		if isInvalid(err) {
			h.renderForm(w, r, http.StatusBadRequest, f, fmt.Sprintf(msgInvalid, err.Error()))
			return
		}
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	http.Redirect(w, r, h.base, http.StatusSeeOther)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	action := fmt.Sprintf("%s/versions/%d", h.base, id)

	f, in, err := parseForm(r)
	f.ID, f.Action = id, action
	if err != nil {
		h.renderForm(w, r, http.StatusBadRequest, f, err.Error())
		return
	}

	if _, err := h.versions.Update(r.Context(), id, in); err != nil {
		if isInvalid(err) {
			h.renderForm(w, r, http.StatusBadRequest, f, fmt.Sprintf(msgInvalid, err.Error()))
			return
		}
		h.fail(w, r, err, msgSaveFailed)
		return
	}
	http.Redirect(w, r, h.base, http.StatusSeeOther)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := h.versions.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err, msgDelFailed)
		return
	}
	http.Redirect(w, r, h.base, http.StatusSeeOther)
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.render(w, r, http.StatusBadRequest, page{Page: "error", Error: msgBadID})
		return 0, false
	}
	return id, true
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, code int, f *form, errMsg string) {
	h.render(w, r, code, page{
		Page:       "form",
		Form:       f,
		Error:      errMsg,
		Statuses:   model.Statuses,
		Priorities: []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityCritical},
	})
}

// fail renders the error page: 404 for a missing version, 400 for rejected
// input, 500 otherwise.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case isNotFound(err):
		h.render(w, r, http.StatusNotFound, page{Page: "error", Error: msgNotFound})
	case isInvalid(err):
		h.render(w, r, http.StatusBadRequest, page{Page: "error", Error: fmt.Sprintf(msgInvalid, err.Error())})
	default:
		zapctx.Error(r.Context(), "ui request failed", zap.String("operation", msg), zap.Error(err))
		h.render(w, r, http.StatusInternalServerError, page{Page: "error", Error: msg})
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, code int, p page) {
	p.Base = h.base

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "layout.html", p); err != nil {
		zapctx.Error(r.Context(), "failed to render template", zap.String("page", p.Page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrorNotFound) || errors.Is(err, client.ErrNotFound)
}

func isInvalid(err error) bool {
	return errors.Is(err, service.ErrValidation) || errors.Is(err, repo.ErrorConstraint)
}

func formOf(v model.Version, base string) *form {
	return &form{
		ID:                      v.ID,
		Action:                  fmt.Sprintf("%s/versions/%d", base, v.ID),
		Name:                    v.Name,
		Priority:                v.Priority,
		Summary:                 v.Summary,
		StartDate:               v.StartDate.String(),
		EndDate:                 v.EndDate.String(),
		RequirementCompleteDate: v.RequirementCompleteDate.String(),
		DevelopmentCompleteDate: v.DevelopmentCompleteDate.String(),
		TestingCompleteDate:     v.TestingCompleteDate.String(),
		Status:                  v.Status,
		Progress:                strconv.Itoa(v.Progress),
	}
}

// parseForm reads a submitted form. The returned *form is always non-nil so
// it can be shown again together with the error.
func parseForm(r *http.Request) (*form, model.VersionInput, error) {
	f := &form{}
	var in model.VersionInput
	if err := r.ParseForm(); err != nil {
		return f, in, fmt.Errorf(msgInvalid, err.Error())
	}

	f.Name = strings.TrimSpace(r.PostForm.Get("name"))
	f.Summary = r.PostForm.Get("summary")
	f.StartDate = r.PostForm.Get("start_date")
	f.EndDate = r.PostForm.Get("end_date")
	f.RequirementCompleteDate = r.PostForm.Get("requirement_complete_date")
	f.DevelopmentCompleteDate = r.PostForm.Get("development_complete_date")
	f.TestingCompleteDate = r.PostForm.Get("testing_complete_date")
	f.Status = model.Status(r.PostForm.Get("status"))
	f.Progress = strings.TrimSpace(r.PostForm.Get("progress"))

	priority, err := strconv.Atoi(r.PostForm.Get("priority"))
	if err != nil {
		return f, in, fmt.Errorf(msgBadNumber, "priority")
	}
	f.Priority = model.Priority(priority)

	progress := 0
	if f.Progress != "" {
		if progress, err = strconv.Atoi(f.Progress); err != nil {
			return f, in, fmt.Errorf(msgBadNumber, "progress")
		}
	}

	in = model.VersionInput{
		Name:     f.Name,
		Priority: f.Priority,
		Summary:  f.Summary,
		Status:   f.Status,
		Progress: progress,
	}

	dates := []struct {
		field string
		raw   string
		dst   *model.Date
	}{
		{"start_date", f.StartDate, &in.StartDate},
		{"end_date", f.EndDate, &in.EndDate},
		{"requirement_complete_date", f.RequirementCompleteDate, &in.RequirementCompleteDate},
		{"development_complete_date", f.DevelopmentCompleteDate, &in.DevelopmentCompleteDate},
		{"testing_complete_date", f.TestingCompleteDate, &in.TestingCompleteDate},
	}
	for _, d := range dates {
		parsed, err := model.ParseDate(strings.TrimSpace(d.raw))
		if err != nil {
			return f, in, fmt.Errorf(msgBadDate, d.field)
		}
		*d.dst = parsed
	}
	return f, in, nil
}
