package handlers

import (
	"net/http"

	portssvc "github.com/finbooks/posting-engine/internal/core/ports/services"
	"github.com/finbooks/posting-engine/internal/dto"
	"github.com/finbooks/posting-engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves the read-only ledger surface.
type ledgerHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newLedgerHandler(postingService portssvc.PostingSvcFacade) *ledgerHandler {
	return &ledgerHandler{postingService: postingService}
}

func registerLedgerRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newLedgerHandler(postingService)
	rg.GET("/orgs/:orgID/accounts/:accountID/entries", h.listLedgerEntries)
}

// listLedgerEntries godoc
// @Summary List ledger entries for an account
// @Description Retrieves a token-paginated page of immutable ledger entries, newest first
// @Tags ledger
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size (default 50, max 200)"
// @Param   nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListLedgerEntriesResponse "A page of ledger entries"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /orgs/{orgID}/accounts/{accountID}/entries [get]
func (h *ledgerHandler) listLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.postingService.ListLedgerEntries(c.Request.Context(), c.Param("orgID"), c.Param("accountID"), params)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
