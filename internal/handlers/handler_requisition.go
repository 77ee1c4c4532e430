package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jmcduran/requisition_mgmt_app/internal/core/domain"
	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/dto"
	"github.com/jmcduran/requisition_mgmt_app/internal/middleware"
)

// requisitionHandler handles HTTP requests for the requisition lifecycle.
type requisitionHandler struct {
	requisitionService portssvc.RequisitionSvcFacade
	approvalService    portssvc.ApprovalSvcFacade
	pendingService     portssvc.PendingQuerySvcFacade
	auditService       portssvc.AuditRecorderSvcFacade
	renderer           portssvc.DocumentRenderer
}

func newRequisitionHandler(services *portssvc.ServiceContainer) *requisitionHandler {
	return &requisitionHandler{
		requisitionService: services.Requisition,
		approvalService:    services.Approval,
		pendingService:     services.Pending,
		auditService:       services.Audit,
		renderer:           services.Renderer,
	}
}

// createRequisition godoc
// @Summary Submit a new requisition
// @Description Creates a requisition for the authenticated requester; the immediate supervisor is resolved at submission time
// @Tags requisitions
// @Accept json
// @Produce json
// @Param requisition body dto.CreateRequisitionRequest true "Requisition to submit"
// @Success 201 {object} dto.CreateRequisitionResponse "Assigned identifiers and resolved supervisor"
// @Failure 400 {object} map[string]string "Invalid request format or no resolvable supervisor"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /requisitions [post]
func (h *requisitionHandler) createRequisition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createRequisition", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	requesterEmail, ok := middleware.GetPrincipalEmailFromContext(c)
	if !ok {
		logger.Error("Principal email not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.requisitionService.Create(c.Request.Context(), req, requesterEmail)
	if err != nil {
		logger.Warn("Failed to create requisition", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to create requisition")
		return
	}

	logger.Info("Requisition created", slog.String("requisition_id", resp.RequisitionID), slog.String("code", resp.Code))
	c.JSON(http.StatusCreated, resp)
}

// listMine godoc
// @Summary List the requester's own requisitions
// @Description Returns all requisitions submitted by the authenticated principal, newest first
// @Tags requisitions
// @Produce json
// @Success 200 {array} dto.RequisitionResponse "Requisitions"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /requisitions/mine [get]
func (h *requisitionHandler) listMine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	requesterEmail, ok := middleware.GetPrincipalEmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.requisitionService.ListMine(c.Request.Context(), requesterEmail)
	if err != nil {
		logger.Error("Failed to list requisitions", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to list requisitions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listPending godoc
// @Summary List requisitions awaiting the principal's action
// @Description Resolves the principal's approval role and returns every requisition whose current pending stage matches it
// @Tags requisitions
// @Produce json
// @Success 200 {object} dto.PendingListResponse "Pending queue for the resolved stage"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Principal holds no approval role"
// @Router /requisitions/pending [get]
func (h *requisitionHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	principalEmail, ok := middleware.GetPrincipalEmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.pendingService.PendingFor(c.Request.Context(), principalEmail)
	if err != nil {
		logger.Warn("Failed to build pending queue", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to list pending requisitions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// act godoc
// @Summary Approve or reject a pending requisition
// @Description Applies one role's decision; the acting role must equal the current pending stage and rejections require a comment
// @Tags requisitions
// @Accept json
// @Produce json
// @Param requisitionID path string true "Requisition ID"
// @Param decision body dto.ActRequest true "Decision payload"
// @Success 200 {object} dto.ActResponse "State reached by the decision"
// @Failure 400 {object} map[string]string "Invalid payload, missing rejection comment or quantity increase"
// @Failure 403 {object} map[string]string "Role does not match the pending stage"
// @Failure 404 {object} map[string]string "Requisition not found"
// @Failure 409 {object} map[string]string "Requisition already finalized"
// @Router /requisitions/{requisitionID}/act [post]
func (h *requisitionHandler) act(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	var req dto.ActRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for act", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	principalEmail, ok := middleware.GetPrincipalEmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cmd := portssvc.ActCommand{
		RequisitionID:  requisitionID,
		ActingRole:     domain.ApprovalStage(req.ActingRole),
		PrincipalEmail: principalEmail,
		Decision:       domain.ApprovalDecision(req.Decision),
		Comment:        req.Comment,
		Adjustments:    make([]domain.QuantityAdjustment, len(req.Adjustments)),
	}
	for i, adj := range req.Adjustments {
		cmd.Adjustments[i] = domain.QuantityAdjustment{
			ProductID:   adj.ProductID,
			NewQuantity: adj.NewQuantity,
		}
	}

	result, err := h.approvalService.Act(c.Request.Context(), cmd)
	if err != nil {
		logger.Warn("Decision rejected",
			slog.String("requisition_id", requisitionID),
			slog.String("stage", req.ActingRole),
			slog.String("error", err.Error()),
		)
		respondWithError(c, err, "Failed to apply decision")
		return
	}

	resp := dto.ActResponse{
		RequisitionID: result.Requisition.RequisitionID,
		Status:        string(result.Requisition.Status),
		PendingStage:  string(result.PendingStage),
		TotalAmount:   result.Requisition.TotalAmount,
	}
	c.JSON(http.StatusOK, resp)
}

// getRequisition godoc
// @Summary Get one requisition
// @Description Returns the full detail view of a requisition including line items and the per-stage approval status
// @Tags requisitions
// @Produce json
// @Param requisitionID path string true "Requisition ID"
// @Success 200 {object} dto.RequisitionResponse "Requisition detail"
// @Failure 404 {object} map[string]string "Requisition not found"
// @Router /requisitions/{requisitionID} [get]
func (h *requisitionHandler) getRequisition(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	resp, err := h.requisitionService.GetByID(c.Request.Context(), requisitionID)
	if err != nil {
		logger.Warn("Failed to get requisition", slog.String("requisition_id", requisitionID), slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to retrieve requisition")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getRequisitionByCode godoc
// @Summary Get one requisition by code
// @Description Returns the full detail view looked up by the human-readable requisition code
// @Tags requisitions
// @Produce json
// @Param code path string true "Requisition code"
// @Success 200 {object} dto.RequisitionResponse "Requisition detail"
// @Failure 404 {object} map[string]string "Requisition not found"
// @Router /requisitions/code/{code} [get]
func (h *requisitionHandler) getRequisitionByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	resp, err := h.requisitionService.GetByCode(c.Request.Context(), code)
	if err != nil {
		logger.Warn("Failed to get requisition by code", slog.String("code", code), slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to retrieve requisition")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getTimeline godoc
// @Summary Get the audit timeline of a requisition
// @Description Returns the ordered audit events recorded over the requisition's lifecycle
// @Tags requisitions
// @Produce json
// @Param requisitionID path string true "Requisition ID"
// @Success 200 {array} domain.AuditEvent "Audit events, oldest first"
// @Failure 404 {object} map[string]string "Requisition not found"
// @Router /requisitions/{requisitionID}/timeline [get]
func (h *requisitionHandler) getTimeline(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	events, err := h.auditService.Timeline(c.Request.Context(), requisitionID)
	if err != nil {
		logger.Error("Failed to get timeline", slog.String("requisition_id", requisitionID), slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to retrieve timeline")
		return
	}
	c.JSON(http.StatusOK, events)
}

// getDurations godoc
// @Summary Get elapsed time between lifecycle milestones
// @Description Returns the elapsed days between the requisition's lifecycle milestones, in fractional days
// @Tags requisitions
// @Produce json
// @Param requisitionID path string true "Requisition ID"
// @Success 200 {object} domain.StageDurations "Durations in fractional days"
// @Failure 404 {object} map[string]string "Requisition not found"
// @Router /requisitions/{requisitionID}/durations [get]
func (h *requisitionHandler) getDurations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	durations, err := h.auditService.StageDurations(c.Request.Context(), requisitionID)
	if err != nil {
		logger.Error("Failed to compute durations", slog.String("requisition_id", requisitionID), slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to compute durations")
		return
	}
	c.JSON(http.StatusOK, durations)
}

// getPDF godoc
// @Summary Download the printable summary of a requisition
// @Description Renders a PDF summary with line items, totals and the approval trail
// @Tags requisitions
// @Produce application/pdf
// @Param requisitionID path string true "Requisition ID"
// @Success 200 {file} file "PDF document"
// @Failure 404 {object} map[string]string "Requisition not found"
// @Router /requisitions/{requisitionID}/pdf [get]
func (h *requisitionHandler) getPDF(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	content, err := h.renderer.RenderSummary(c.Request.Context(), requisitionID)
	if err != nil {
		logger.Error("Failed to render summary", slog.String("requisition_id", requisitionID), slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to render summary")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="requisition-`+requisitionID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", content)
}

// deliver godoc
// @Summary Record the physical delivery of a fully approved requisition
// @Description Stores per-line delivered quantities, who delivered and who received, and stamps the delivery time
// @Tags requisitions
// @Accept json
// @Produce json
// @Param requisitionID path string true "Requisition ID"
// @Param delivery body dto.DeliverRequest true "Delivery payload"
// @Success 200 {object} map[string]string "Delivery recorded"
// @Failure 400 {object} map[string]string "Invalid payload or delivered quantity out of range"
// @Failure 404 {object} map[string]string "Requisition not found"
// @Failure 409 {object} map[string]string "Requisition not deliverable or already delivered"
// @Router /requisitions/{requisitionID}/deliver [post]
func (h *requisitionHandler) deliver(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	requisitionID := c.Param("requisitionID")

	var req dto.DeliverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for deliver", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	principalEmail, ok := middleware.GetPrincipalEmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.requisitionService.MarkDelivered(c.Request.Context(), requisitionID, principalEmail, req); err != nil {
		logger.Warn("Failed to record delivery", slog.String("requisition_id", requisitionID), slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to record delivery")
		return
	}

	logger.Info("Delivery recorded", slog.String("requisition_id", requisitionID))
	c.JSON(http.StatusOK, gin.H{"status": "delivered"})
}

// RegisterRequisitionRoutes registers requisition specific routes
func RegisterRequisitionRoutes(group *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newRequisitionHandler(services)

	requisitions := group.Group("/requisitions")
	{
		requisitions.POST("", h.createRequisition)
		requisitions.GET("/mine", h.listMine)
		requisitions.GET("/pending", h.listPending)
		requisitions.GET("/code/:code", h.getRequisitionByCode)
		requisitions.GET("/:requisitionID", h.getRequisition)
		requisitions.POST("/:requisitionID/act", h.act)
		requisitions.GET("/:requisitionID/timeline", h.getTimeline)
		requisitions.GET("/:requisitionID/durations", h.getDurations)
		requisitions.GET("/:requisitionID/pdf", h.getPDF)
		requisitions.POST("/:requisitionID/deliver", h.deliver)
	}
}
