package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/jmcduran/requisition_mgmt_app/internal/core/ports/services"
	"github.com/jmcduran/requisition_mgmt_app/internal/dto"
	"github.com/jmcduran/requisition_mgmt_app/internal/middleware"
)

// notificationHandler handles HTTP requests for in-app notifications.
type notificationHandler struct {
	dispatcher portssvc.NotificationDispatcherSvcFacade
}

func newNotificationHandler(dispatcher portssvc.NotificationDispatcherSvcFacade) *notificationHandler {
	return &notificationHandler{dispatcher: dispatcher}
}

// listNotifications godoc
// @Summary List the principal's notifications
// @Description Returns the authenticated principal's notifications, newest first, optionally filtered to unread or by requisition code
// @Tags notifications
// @Produce json
// @Param unreadOnly query bool false "Only unread notifications"
// @Param code query string false "Requisition code fragment"
// @Param limit query int false "Maximum rows returned" default(200)
// @Success 200 {object} dto.ListNotificationsResponse "Notifications with counts"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userEmail, ok := middleware.GetPrincipalEmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListNotificationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listNotifications", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.dispatcher.List(c.Request.Context(), userEmail, params)
	if err != nil {
		logger.Error("Failed to list notifications", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// markRead godoc
// @Summary Mark one notification as read
// @Description Marks a notification as read, scoped to the authenticated recipient
// @Tags notifications
// @Produce json
// @Param notificationID path string true "Notification ID"
// @Success 200 {object} map[string]string "Marked read"
// @Failure 404 {object} map[string]string "Notification not found for this recipient"
// @Router /notifications/{notificationID}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	notificationID := c.Param("notificationID")

	userEmail, ok := middleware.GetPrincipalEmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.dispatcher.MarkRead(c.Request.Context(), notificationID, userEmail); err != nil {
		logger.Warn("Failed to mark notification read", slog.String("notification_id", notificationID), slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to mark notification read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

// markAllRead godoc
// @Summary Mark all notifications as read
// @Description Marks every notification of the authenticated recipient as read
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]string "All marked read"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /notifications/read-all [post]
func (h *notificationHandler) markAllRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userEmail, ok := middleware.GetPrincipalEmailFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.dispatcher.MarkAllRead(c.Request.Context(), userEmail); err != nil {
		logger.Error("Failed to mark all notifications read", slog.String("error", err.Error()))
		respondWithError(c, err, "Failed to mark notifications read")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

// resendPending godoc
// @Summary Retry undelivered notification emails
// @Description Synchronously retries the outbound email of notifications whose delivery outcome is not sent
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]int "Number of send attempts"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /notifications/resend-pending [post]
func (h *notificationHandler) resendPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	attempted := h.dispatcher.ResendPending(c.Request.Context(), 100)

	logger.Info("Resend sweep finished", slog.Int("attempted", attempted))
	c.JSON(http.StatusOK, gin.H{"attempted": attempted})
}

// RegisterNotificationRoutes registers notification specific routes
func RegisterNotificationRoutes(group *gin.RouterGroup, dispatcher portssvc.NotificationDispatcherSvcFacade) {
	h := newNotificationHandler(dispatcher)

	notifications := group.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("/read-all", h.markAllRead)
		notifications.POST("/resend-pending", h.resendPending)
		notifications.POST("/:notificationID/read", h.markRead)
	}
}
