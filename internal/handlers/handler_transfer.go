package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tillpoint/cashdesk_backend/internal/core/ports/services"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
	"github.com/tillpoint/cashdesk_backend/internal/middleware"
)

// transferHandler handles HTTP requests related to transfer requests.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
	approvalService portssvc.ApprovalSvcFacade
	querySvc        portssvc.LedgerQuerySvcFacade
}

// newTransferHandler creates a new transferHandler.
func newTransferHandler(ts portssvc.TransferSvcFacade, as portssvc.ApprovalSvcFacade, qs portssvc.LedgerQuerySvcFacade) *transferHandler {
	return &transferHandler{
		transferService: ts,
		approvalService: as,
		querySvc:        qs,
	}
}

// registerTransferRoutes registers routes related to transfer requests.
func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade, approvalService portssvc.ApprovalSvcFacade, querySvc portssvc.LedgerQuerySvcFacade) {
	h := newTransferHandler(transferService, approvalService, querySvc)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("/drawer", h.createDrawerTransfer)
		transfers.POST("/account", h.createAccountTransfer)
		transfers.GET("", h.listTransfers)
		transfers.GET("/pending-approvals", h.listPendingApprovals)
		transfers.GET("/:id", h.getTransfer)
		transfers.POST("/:id/resolve", h.resolveTransfer)
	}
}

// createDrawerTransfer godoc
// @Summary Propose a drawer-to-drawer transfer
// @Description Creates a PENDING transfer request moving cash between two drawers
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.CreateDrawerTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Source or destination drawer not OPEN"
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /transfers/drawer [post]
func (h *transferHandler) createDrawerTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDrawerTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDrawerTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	transfer, err := h.transferService.CreateDrawerTransfer(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create transfer request")
		return
	}

	logger.Info("Drawer transfer proposed", slog.String("request_id", transfer.RequestID), slog.String("reference", transfer.ReferenceNumber))
	c.JSON(http.StatusCreated, dto.ToTransferResponse(transfer))
}

// createAccountTransfer godoc
// @Summary Propose a drawer-to-account transfer
// @Description Creates a PENDING transfer request moving cash from a drawer to an external account
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.CreateAccountTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /transfers/account [post]
func (h *transferHandler) createAccountTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAccountTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAccountTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	transfer, err := h.transferService.CreateAccountTransfer(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create transfer request")
		return
	}

	logger.Info("Account transfer proposed", slog.String("request_id", transfer.RequestID), slog.String("reference", transfer.ReferenceNumber))
	c.JSON(http.StatusCreated, dto.ToTransferResponse(transfer))
}

// listTransfers godoc
// @Summary List transfer requests
// @Description Lists transfer requests in the tenant, newest first, token-paginated
// @Tags transfers
// @Produce json
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED)
// @Param kind query string false "Filter by kind" Enums(DRAWER, ACCOUNT)
// @Param actorID query string false "Filter by actor on either side"
// @Param limit query int false "Page size (default 20)"
// @Param nextToken query string false "Pagination token from the previous page"
// @Success 200 {object} dto.ListTransfersResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers [get]
func (h *transferHandler) listTransfers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransfersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransfers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.transferService.ListTransfers(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, err, "Failed to list transfer requests")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listPendingApprovals godoc
// @Summary List pending approvals
// @Description Lists PENDING transfer requests the calling operator may resolve
// @Tags transfers
// @Produce json
// @Success 200 {array} dto.TransferResponse
// @Security BearerAuth
// @Router /transfers/pending-approvals [get]
func (h *transferHandler) listPendingApprovals(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	pending, err := h.querySvc.ListPendingApprovals(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "Failed to list pending approvals")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferResponses(pending))
}

// getTransfer godoc
// @Summary Get a transfer request
// @Description Retrieves a transfer request by ID within the operator's tenant
// @Tags transfers
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.TransferResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/{id} [get]
func (h *transferHandler) getTransfer(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	transfer, err := h.transferService.GetTransfer(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve transfer request")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}

// resolveTransfer godoc
// @Summary Resolve a transfer request
// @Description Approves or rejects a PENDING transfer request. Each request resolves exactly once;
// @Description a losing concurrent resolver receives 409. An approval re-checks source funds and may
// @Description come back REJECTED with an explanatory note, which is a business outcome, not an error.
// @Tags transfers
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param verdict body dto.ResolveTransferRequest true "Decision"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Not permitted to resolve this request"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already resolved"
// @Failure 503 {object} ErrorResponse "Transient storage conflict, retry"
// @Security BearerAuth
// @Router /transfers/{id}/resolve [post]
func (h *transferHandler) resolveTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ResolveTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ResolveTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	transfer, err := h.approvalService.Resolve(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to resolve transfer request")
		return
	}

	logger.Info("Transfer request resolved",
		slog.String("request_id", transfer.RequestID),
		slog.String("status", string(transfer.Status)))
	c.JSON(http.StatusOK, dto.ToTransferResponse(transfer))
}
