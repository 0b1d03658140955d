package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/juju/zaputil/zapctx"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/version-tracker-api/internal/chart"
	"github.com/BuzzLyutic/version-tracker-api/internal/model"
	"github.com/BuzzLyutic/version-tracker-api/internal/repo"
	"github.com/BuzzLyutic/version-tracker-api/internal/service"
	"github.com/BuzzLyutic/version-tracker-api/pkg/respond"
)

// chartTicks - число подписей на оси времени
const chartTicks = 8

type VersionHandler struct {
	service *service.VersionService
}

func NewVersionHandler(srv *service.VersionService) *VersionHandler {
	return &VersionHandler{
		service: srv,
	}
}

type chartResponse struct {
	chart.Chart
	Ticks []chart.Tick `json:"ticks"`
}

// Root отвечает строкой о том, что API работает
func (h *VersionHandler) Root(w http.ResponseWriter, r *http.Request) {
	respond.Text(w, r, http.StatusOK, msgRunning)
}

func (h *VersionHandler) List(w http.ResponseWriter, r *http.Request) {
	versions, err := h.service.List(r.Context())
	if err != nil {
		h.handleErrors(w, r, err, msgListFailed)
		return
	}
	respond.JSON(w, r, http.StatusOK, versions)
}

func (h *VersionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	version, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err, msgGetFailed)
		return
	}
	respond.JSON(w, r, http.StatusOK, version)
}

func (h *VersionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, msgBadJSON)
		return
	}

	var req model.VersionInput
	if err := respond.DecodeJSON(r, &req); err != nil {
		zapctx.Debug(r.Context(), "failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, msgBadJSON)
		return
	}

	version, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleErrors(w, r, err, msgCreateFailed)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/versions/%d", version.ID))
	respond.JSON(w, r, http.StatusCreated, version)
}

func (h *VersionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req model.VersionInput
	if err := respond.DecodeJSON(r, &req); err != nil {
		zapctx.Debug(r.Context(), "failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, msgBadJSON)
		return
	}

	version, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.handleErrors(w, r, err, msgUpdateFailed)
		return
	}

	respond.JSON(w, r, http.StatusOK, version)
}

func (h *VersionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleErrors(w, r, err, msgDeleteFailed)
		return
	}

	respond.Message(w, r, http.StatusOK, msgDeleted)
}

// Chart отдает данные для диаграммы Ганта; пустое хранилище - не ошибка.
func (h *VersionHandler) Chart(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Chart(r.Context())
	if errors.Is(err, chart.ErrEmpty) {
		respond.JSON(w, r, http.StatusOK, chartResponse{Chart: chart.Chart{Bars: []chart.Bar{}}, Ticks: []chart.Tick{}})
		return
	}
	if err != nil {
		h.handleErrors(w, r, err, msgChartFailed)
		return
	}
	respond.JSON(w, r, http.StatusOK, chartResponse{Chart: c, Ticks: c.Ticks(chartTicks)})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, r, http.StatusBadRequest, msgBadID)
		return 0, false
	}
	return id, true
}

// handleErrors переводит ошибки слоев ниже в HTTP-ответ; failMsg - текст
// для непредвиденных ошибок хранилища.
func (h *VersionHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error, failMsg string) {
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, msgNotFound)
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf(msgValidationFmt, err.Error()))
	case errors.Is(err, repo.ErrorConstraint):
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf(msgValidationFmt, err.Error()))
	default:
		zapctx.Error(r.Context(), "internal error",
			zap.String("operation", failMsg),
			zap.String("id", chi.URLParam(r, "id")),
			zap.Error(err),
		)
		respond.Error(w, r, http.StatusInternalServerError, failMsg)
	}
}
