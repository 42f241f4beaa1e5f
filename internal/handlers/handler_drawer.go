package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/tillpoint/cashdesk_backend/internal/core/ports/services"
	"github.com/tillpoint/cashdesk_backend/internal/dto"
	"github.com/tillpoint/cashdesk_backend/internal/middleware"
)

// drawerHandler handles HTTP requests related to cash drawers.
type drawerHandler struct {
	drawerService portssvc.DrawerSvcFacade
	querySvc      portssvc.LedgerQuerySvcFacade
}

// newDrawerHandler creates a new drawerHandler.
func newDrawerHandler(ds portssvc.DrawerSvcFacade, qs portssvc.LedgerQuerySvcFacade) *drawerHandler {
	return &drawerHandler{
		drawerService: ds,
		querySvc:      qs,
	}
}

// registerDrawerRoutes registers routes related to drawers.
func registerDrawerRoutes(rg *gin.RouterGroup, drawerService portssvc.DrawerSvcFacade, querySvc portssvc.LedgerQuerySvcFacade) {
	h := newDrawerHandler(drawerService, querySvc)

	drawers := rg.Group("/drawers")
	{
		drawers.POST("", h.createDrawer)
		drawers.GET("", h.listDrawers)
		drawers.GET("/:id", h.getDrawer)
		drawers.GET("/:id/balance", h.getBalance)
		drawers.GET("/:id/journal", h.getJournal)
		drawers.POST("/:id/open", h.openDrawer)
		drawers.POST("/:id/close", h.closeDrawer)
		drawers.POST("/:id/suspend", h.suspendDrawer)
		drawers.POST("/:id/reinstate", h.reinstateDrawer)
		drawers.POST("/:id/entries", h.recordEntry)
	}
}

// createDrawer godoc
// @Summary Create a new drawer
// @Description Registers a new cash drawer (status CLOSED) within the operator's tenant
// @Tags drawers
// @Accept json
// @Produce json
// @Param drawer body dto.CreateDrawerRequest true "Drawer details"
// @Success 201 {object} dto.DrawerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /drawers [post]
func (h *drawerHandler) createDrawer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDrawer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	drawer, err := h.drawerService.CreateDrawer(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to create drawer")
		return
	}

	logger.Info("Drawer created", slog.String("drawer_id", drawer.DrawerID))
	c.JSON(http.StatusCreated, dto.ToDrawerResponse(drawer))
}

// listDrawers godoc
// @Summary List drawers
// @Description Lists all drawers within the operator's tenant
// @Tags drawers
// @Produce json
// @Success 200 {array} dto.DrawerResponse
// @Security BearerAuth
// @Router /drawers [get]
func (h *drawerHandler) listDrawers(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	drawers, err := h.drawerService.ListDrawers(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "Failed to list drawers")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDrawerResponse(drawers))
}

// getDrawer godoc
// @Summary Get a drawer
// @Description Retrieves a drawer by ID within the operator's tenant
// @Tags drawers
// @Produce json
// @Param id path string true "Drawer ID"
// @Success 200 {object} dto.DrawerResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /drawers/{id} [get]
func (h *drawerHandler) getDrawer(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	drawer, err := h.drawerService.GetDrawer(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve drawer")
		return
	}
	c.JSON(http.StatusOK, dto.ToDrawerResponse(drawer))
}

// getBalance godoc
// @Summary Get a drawer's balance
// @Description Retrieves the current balance of a drawer
// @Tags drawers
// @Produce json
// @Param id path string true "Drawer ID"
// @Success 200 {object} dto.DrawerBalanceResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /drawers/{id}/balance [get]
func (h *drawerHandler) getBalance(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	drawerID := c.Param("id")
	balance, err := h.drawerService.GetBalance(c.Request.Context(), actor, drawerID)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.DrawerBalanceResponse{DrawerID: drawerID, Balance: balance})
}

// getJournal godoc
// @Summary Get a drawer's journal
// @Description Retrieves journal entries ordered by sequence number with period totals
// @Tags drawers
// @Produce json
// @Param id path string true "Drawer ID"
// @Param from query string false "Range start (inclusive), YYYY-MM-DD"
// @Param to query string false "Range end (exclusive), YYYY-MM-DD"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /drawers/{id}/journal [get]
func (h *drawerHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.GetJournalParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for GetJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	journal, err := h.querySvc.GetJournal(c.Request.Context(), actor, c.Param("id"), params)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve journal")
		return
	}
	c.JSON(http.StatusOK, journal)
}

// openDrawer godoc
// @Summary Open a drawer
// @Description Transitions a CLOSED drawer to OPEN with the given opening balance
// @Tags drawers
// @Accept json
// @Produce json
// @Param id path string true "Drawer ID"
// @Param body body dto.OpenDrawerRequest true "Opening balance"
// @Success 200 {object} dto.DrawerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Drawer not CLOSED"
// @Security BearerAuth
// @Router /drawers/{id}/open [post]
func (h *drawerHandler) openDrawer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.OpenDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenDrawer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	drawer, err := h.drawerService.OpenDrawer(c.Request.Context(), actor, c.Param("id"), req.OpeningBalance)
	if err != nil {
		respondWithError(c, err, "Failed to open drawer")
		return
	}

	logger.Info("Drawer opened", slog.String("drawer_id", drawer.DrawerID))
	c.JSON(http.StatusOK, dto.ToDrawerResponse(drawer))
}

// closeDrawer godoc
// @Summary Close a drawer
// @Description Transitions an OPEN drawer to CLOSED, snapshotting its balance
// @Tags drawers
// @Produce json
// @Param id path string true "Drawer ID"
// @Success 200 {object} dto.DrawerResponse
// @Failure 409 {object} ErrorResponse "Drawer not OPEN"
// @Security BearerAuth
// @Router /drawers/{id}/close [post]
func (h *drawerHandler) closeDrawer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	drawer, err := h.drawerService.CloseDrawer(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to close drawer")
		return
	}

	logger.Info("Drawer closed", slog.String("drawer_id", drawer.DrawerID))
	c.JSON(http.StatusOK, dto.ToDrawerResponse(drawer))
}

// suspendDrawer godoc
// @Summary Suspend a drawer
// @Description Administratively blocks all mutation of a drawer (elevated roles only)
// @Tags drawers
// @Produce json
// @Param id path string true "Drawer ID"
// @Success 200 {object} dto.DrawerResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /drawers/{id}/suspend [post]
func (h *drawerHandler) suspendDrawer(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	drawer, err := h.drawerService.SuspendDrawer(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to suspend drawer")
		return
	}
	c.JSON(http.StatusOK, dto.ToDrawerResponse(drawer))
}

// reinstateDrawer godoc
// @Summary Reinstate a suspended drawer
// @Description Lifts a suspension, returning the drawer to OPEN (elevated roles only)
// @Tags drawers
// @Produce json
// @Param id path string true "Drawer ID"
// @Success 200 {object} dto.DrawerResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /drawers/{id}/reinstate [post]
func (h *drawerHandler) reinstateDrawer(c *gin.Context) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	drawer, err := h.drawerService.ReinstateDrawer(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to reinstate drawer")
		return
	}
	c.JSON(http.StatusOK, dto.ToDrawerResponse(drawer))
}

// recordEntry godoc
// @Summary Record a cash movement
// @Description Appends a sale payment, change, deposit, expense or adjustment to an OPEN drawer's journal
// @Tags drawers
// @Accept json
// @Produce json
// @Param id path string true "Drawer ID"
// @Param entry body dto.RecordEntryRequest true "Entry details"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Drawer not OPEN"
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Security BearerAuth
// @Router /drawers/{id}/entries [post]
func (h *drawerHandler) recordEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.drawerService.RecordEntry(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err, "Failed to record entry")
		return
	}

	logger.Info("Journal entry recorded", slog.String("entry_id", entry.EntryID), slog.String("kind", string(entry.Kind)))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}
