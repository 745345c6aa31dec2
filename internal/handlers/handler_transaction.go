package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/finbooks/posting-engine/internal/core/domain"
	portssvc "github.com/finbooks/posting-engine/internal/core/ports/services"
	"github.com/finbooks/posting-engine/internal/dto"
	"github.com/finbooks/posting-engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for the transaction lifecycle.
type transactionHandler struct {
	postingService portssvc.PostingSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(postingService portssvc.PostingSvcFacade) *transactionHandler {
	return &transactionHandler{
		postingService: postingService,
	}
}

// registerTransactionRoutes wires the transaction lifecycle under an
// organization scope.
func registerTransactionRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newTransactionHandler(postingService)
	txns := rg.Group("/orgs/:orgID/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("/:txnID", h.getTransaction)
		txns.PUT("/:txnID", h.updateTransaction)
		txns.POST("/:txnID/validate", h.validateTransaction)
		txns.POST("/:txnID/submit", h.submitTransaction)
		txns.POST("/:txnID/approve", h.approveTransaction)
		txns.POST("/:txnID/reject", h.rejectTransaction)
		txns.POST("/:txnID/post", h.postTransaction)
		txns.POST("/:txnID/reverse", h.reverseTransaction)
	}
}

// createTransaction godoc
// @Summary Create a draft transaction
// @Description Creates a new transaction in DRAFT status with its lines
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse "The created draft"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 403 {object} map[string]string "Permission denied"
// @Router /orgs/{orgID}/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("orgID")

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.postingService.CreateDraft(c.Request.Context(), orgID, req, actor)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Draft transaction created", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Retrieves a transaction header with its lines
// @Tags transactions
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   txnID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse "The transaction"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /orgs/{orgID}/transactions/{txnID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	txn, err := h.postingService.GetTransaction(c.Request.Context(), c.Param("orgID"), c.Param("txnID"))
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a draft transaction
// @Description Edits header fields or replaces the line set of a DRAFT or REJECTED transaction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   txnID path string true "Transaction ID"
// @Param   transaction body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} dto.TransactionResponse "The updated draft"
// @Failure 409 {object} map[string]string "Transaction is locked"
// @Router /orgs/{orgID}/transactions/{txnID} [put]
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.postingService.UpdateDraft(c.Request.Context(), c.Param("orgID"), c.Param("txnID"), req, actor)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Draft transaction updated", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// validateTransaction godoc
// @Summary Validate a transaction
// @Description Runs the full validation pipeline and returns every violation found
// @Tags transactions
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   txnID path string true "Transaction ID"
// @Success 200 {object} dto.ValidationResponse "The complete validation report"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Router /orgs/{orgID}/transactions/{txnID}/validate [post]
func (h *transactionHandler) validateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	violations, err := h.postingService.Validate(c.Request.Context(), c.Param("orgID"), c.Param("txnID"))
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ValidationResponse{Valid: len(violations) == 0, Violations: violations})
}

// submitTransaction godoc
// @Summary Submit a draft for approval
// @Description Moves a valid DRAFT transaction to AWAITING_APPROVAL
// @Tags transactions
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   txnID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse "The submitted transaction"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Failure 422 {object} dto.ValidationResponse "Validation failed"
// @Router /orgs/{orgID}/transactions/{txnID}/submit [post]
func (h *transactionHandler) submitTransaction(c *gin.Context) {
	h.transition(c, h.postingService.Submit, "submitted")
}

// approveTransaction godoc
// @Summary Approve a submitted transaction
// @Description Moves an AWAITING_APPROVAL transaction to APPROVED; the submitter cannot approve their own transaction
// @Tags transactions
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   txnID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse "The approved transaction"
// @Failure 403 {object} map[string]string "Permission denied"
// @Router /orgs/{orgID}/transactions/{txnID}/approve [post]
func (h *transactionHandler) approveTransaction(c *gin.Context) {
	h.transition(c, h.postingService.Approve, "approved")
}

// rejectTransaction godoc
// @Summary Reject a submitted transaction
// @Description Moves an AWAITING_APPROVAL transaction to REJECTED
// @Tags transactions
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   txnID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse "The rejected transaction"
// @Failure 409 {object} map[string]string "Invalid status transition"
// @Router /orgs/{orgID}/transactions/{txnID}/reject [post]
func (h *transactionHandler) rejectTransaction(c *gin.Context) {
	h.transition(c, h.postingService.Reject, "rejected")
}

// postTransaction godoc
// @Summary Post a transaction to the ledger
// @Description Validates, checks budgets and atomically writes ledger and inventory effects. Repeating the call with the same idempotency key replays the original result.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   txnID path string true "Transaction ID"
// @Param   request body dto.PostRequest false "Posting controls"
// @Success 200 {object} dto.PostResultResponse "The posting result"
// @Failure 409 {object} map[string]string "Already posted or duplicate key"
// @Failure 422 {object} dto.ValidationResponse "Validation or budget failure"
// @Failure 503 {object} map[string]string "Lock timeout, retry the request"
// @Router /orgs/{orgID}/transactions/{txnID}/post [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PostRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for postTransaction", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.postingService.Post(c.Request.Context(), c.Param("orgID"), c.Param("txnID"), actor, req)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Transaction posted",
		slog.String("transaction_id", result.TransactionID),
		slog.Int64("document_number", result.DocumentNumber))
	c.JSON(http.StatusOK, dto.ToPostResultResponse(result))
}

// reverseTransaction godoc
// @Summary Reverse a posted transaction
// @Description Creates and posts the mirror transaction of a POSTED one; the original becomes REVERSED
// @Tags transactions
// @Produce  json
// @Param   orgID path string true "Organization ID"
// @Param   txnID path string true "Transaction ID"
// @Success 200 {object} dto.PostResultResponse "The posting result of the reversal"
// @Failure 409 {object} map[string]string "Not posted or already reversed"
// @Router /orgs/{orgID}/transactions/{txnID}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.postingService.Reverse(c.Request.Context(), c.Param("orgID"), c.Param("txnID"), actor)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Transaction reversed",
		slog.String("original_id", c.Param("txnID")),
		slog.String("reversal_id", result.TransactionID))
	c.JSON(http.StatusOK, dto.ToPostResultResponse(result))
}

type transitionFunc func(ctx context.Context, orgID, txnID string, actor domain.Actor) (*domain.Transaction, error)

// transition handles the shared shape of submit/approve/reject.
func (h *transactionHandler) transition(c *gin.Context, fn transitionFunc, verb string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := fn(c.Request.Context(), c.Param("orgID"), c.Param("txnID"), actor)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Transaction "+verb, slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
