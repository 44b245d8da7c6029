package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"furever/models"
	"furever/services/schedule"
	"furever/services/tasks"
	"furever/utils"
)

// ScheduleHandler exposes the provider calendar engine over HTTP.
type ScheduleHandler struct {
	Registry   *schedule.Registry
	TaskClient *asynq.Client
	Logger     *zap.Logger
}

// NewScheduleHandler constructs a ScheduleHandler.
func NewScheduleHandler(registry *schedule.Registry, taskClient *asynq.Client, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{Registry: registry, TaskClient: taskClient, Logger: logger}
}

// statusForKind maps scheduling error kinds to HTTP statuses. Aborted
// never reaches here: the engine swallows superseded saves.
func statusForKind(kind schedule.ErrorKind) int {
	switch kind {
	case schedule.KindInvalidRange, schedule.KindNoServiceSelected:
		return http.StatusBadRequest
	case schedule.KindConflict:
		return http.StatusConflict
	case schedule.KindServerRejected:
		return http.StatusUnprocessableEntity
	case schedule.KindTimeout:
		return http.StatusGatewayTimeout
	case schedule.KindNetworkFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondScheduleError(c *gin.Context, err error) {
	var se *schedule.Error
	if errors.As(err, &se) {
		body := gin.H{"error": string(se.Kind), "message": se.Message}
		if se.Conflicting != nil {
			body["conflictingSlot"] = se.Conflicting
		}
		if se.Batch != nil {
			body["summary"] = se.Batch
		}
		c.JSON(statusForKind(se.Kind), body)
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
}

// GetCalendarHandler handles GET /api/schedule/:providerID/calendar.
// Changing the year/month scope triggers a silent fetch for the new
// range; a fetch failure still renders whatever is cached, flagged so
// the client can show a "using cached data" notice.
func (h *ScheduleHandler) GetCalendarHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	var q models.CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid calendar query", err.Error())
		return
	}

	engine := h.Registry.Engine(providerID)

	var ferr error
	if q.Month >= 1 && q.Month <= 12 {
		ferr = engine.FetchMonth(c.Request.Context(), q.Year, q.Month, false)
	} else {
		ferr = engine.FetchYear(c.Request.Context(), q.Year, false)
	}
	if ferr != nil {
		h.Logger.Warn("calendar fetch degraded to cache", zap.String("providerId", providerID), zap.Error(ferr))
	}

	c.JSON(http.StatusOK, gin.H{
		"days":            engine.Calendar(q.Year, q.Month),
		"usingCachedData": engine.Store().ServingCached(),
	})
}

// GetDayHandler handles GET /api/schedule/:providerID/days/:date.
func (h *ScheduleHandler) GetDayHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	date := c.Param("date")

	engine := h.Registry.Engine(providerID)
	day, ok := engine.Store().Get(date)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"day": models.DayAvailability{
			ProviderID: providerID, Date: date, TimeSlots: []models.TimeSlot{},
		}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"day": day})
}

// AddSlotHandler handles POST /api/schedule/:providerID/days/:date/slots.
func (h *ScheduleHandler) AddSlotHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	date := c.Param("date")

	var req models.AddSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	engine := h.Registry.Engine(providerID)
	day, warning, err := engine.AddSlot(c.Request.Context(), date, req)
	if err != nil {
		if kind := schedule.KindOf(err); kind == schedule.KindNetworkFailure || kind == schedule.KindTimeout {
			// The optimistic local state is kept; surface a recoverable notice.
			c.JSON(http.StatusAccepted, gin.H{
				"day":     day,
				"warning": "saved locally; sync pending",
			})
			return
		}
		respondScheduleError(c, err)
		return
	}

	resp := gin.H{"day": day}
	if warning {
		resp["warning"] = "no service packages configured; slot will not be customer-visible"
	}
	c.JSON(http.StatusOK, resp)
}

// SetDayHandler handles PUT /api/schedule/:providerID/days/:date.
func (h *ScheduleHandler) SetDayHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	date := c.Param("date")

	var req models.SetDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	engine := h.Registry.Engine(providerID)
	day, err := engine.SetDay(c.Request.Context(), date, req)
	if err != nil {
		if kind := schedule.KindOf(err); kind == schedule.KindNetworkFailure || kind == schedule.KindTimeout {
			// The optimistic local state is kept; surface a recoverable notice.
			c.JSON(http.StatusAccepted, gin.H{
				"day":     day,
				"warning": "saved locally; sync pending",
			})
			return
		}
		respondScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"day": day})
}

// DeleteSlotHandler handles DELETE /api/schedule/:providerID/days/:date/slots/:slotID.
func (h *ScheduleHandler) DeleteSlotHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	date := c.Param("date")
	slotID := c.Param("slotID")

	engine := h.Registry.Engine(providerID)
	if err := engine.DeleteSlot(c.Request.Context(), date, slotID); err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "slot deleted"})
}

// ApplyPresetHandler handles POST /api/schedule/:providerID/preset.
func (h *ScheduleHandler) ApplyPresetHandler(c *gin.Context) {
	providerID := c.Param("providerID")

	var req models.PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	engine := h.Registry.Engine(providerID)
	result, err := engine.ApplyPreset(c.Request.Context(), req)
	if err != nil {
		if schedule.IsKind(err, schedule.KindPartialBatch) {
			// One consolidated summary, not a notification per date.
			c.JSON(http.StatusMultiStatus, gin.H{"summary": result})
			return
		}
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": result})
}

// ClearAllHandler handles POST /api/schedule/:providerID/clear.
func (h *ScheduleHandler) ClearAllHandler(c *gin.Context) {
	providerID := c.Param("providerID")

	engine := h.Registry.Engine(providerID)
	result, err := engine.ClearAll(c.Request.Context())
	if err != nil {
		if schedule.IsKind(err, schedule.KindPartialBatch) {
			c.JSON(http.StatusMultiStatus, gin.H{"summary": result})
			return
		}
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": result})
}

// RefreshHandler handles POST /api/schedule/:providerID/refresh, the
// explicit user refresh, which is allowed to clear-and-replace.
func (h *ScheduleHandler) RefreshHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))

	engine := h.Registry.Engine(providerID)
	var err error
	switch {
	case year > 0 && month >= 1 && month <= 12:
		err = engine.FetchMonth(c.Request.Context(), year, month, true)
	case year > 0:
		err = engine.FetchYear(c.Request.Context(), year, true)
	default:
		err = engine.Refresh(c.Request.Context())
	}
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refreshed"})
}

// EnqueueRefreshHandler handles POST /api/schedule/:providerID/refresh/async.
// External systems (the booking service after a new booking, admin
// tooling) use this to queue a refresh instead of blocking on one.
func (h *ScheduleHandler) EnqueueRefreshHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	year, _ := strconv.Atoi(c.Query("year"))
	month, _ := strconv.Atoi(c.Query("month"))

	task, err := tasks.NewRefreshTask(models.RefreshPayload{
		ProviderID: providerID,
		Year:       year,
		Month:      month,
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
		return
	}
	if _, err := h.TaskClient.EnqueueContext(c.Request.Context(), task); err != nil {
		h.Logger.Error("failed to enqueue refresh task", zap.String("providerId", providerID), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queue_unavailable", "message": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "refresh queued"})
}

// ReleaseSessionHandler handles DELETE /api/schedule/:providerID/session.
// Dashboards call this on provider switch so calendars reset instead of
// merging across providers.
func (h *ScheduleHandler) ReleaseSessionHandler(c *gin.Context) {
	providerID := c.Param("providerID")
	h.Registry.Release(providerID)
	c.JSON(http.StatusOK, gin.H{"message": "session released"})
}

// GetServicePackagesHandler handles GET /api/schedule/:providerID/packages.
func (h *ScheduleHandler) GetServicePackagesHandler(c *gin.Context) {
	providerID := c.Param("providerID")

	engine := h.Registry.Engine(providerID)
	packages, err := engine.Packages(c.Request.Context())
	if err != nil {
		respondScheduleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages})
}
