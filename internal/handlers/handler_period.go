package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks/posting-engine/internal/core/ports/services"
	"github.com/finbooks/posting-engine/internal/dto"
	"github.com/finbooks/posting-engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodHandler covers administrative period operations.
type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

func newPeriodHandler(periodService portssvc.PeriodSvcFacade) *periodHandler {
	return &periodHandler{periodService: periodService}
}

func registerPeriodRoutes(rg *gin.RouterGroup, periodService portssvc.PeriodSvcFacade) {
	h := newPeriodHandler(periodService)
	rg.POST("/orgs/:orgID/periods/:periodID/reopen", h.reopenPeriod)
}

// reopenPeriod godoc
// @Summary Reopen a closed accounting period
// @Description Moves a CLOSED period back to OPEN and records the reopening in the audit trail
// @Tags periods
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.PeriodResponse "The reopened period"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 409 {object} map[string]string "Period is already open"
// @Router /orgs/{orgID}/periods/{periodID}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.periodService.ReopenPeriod(c.Request.Context(), c.Param("orgID"), c.Param("periodID"), actor)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Period reopened", slog.String("period_id", period.PeriodID))
	c.JSON(http.StatusOK, dto.ToPeriodResponse(period))
}
