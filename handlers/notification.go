package handlers

import (
	"docvault/utils"

	"github.com/gin-gonic/gin"
)

func ListNotifications(c *gin.Context) {
	page, pageSize := pageParams(c)
	unreadOnly := c.Query("unread_only") == "true"

	out, err := getServices().Notifications.List(c.Request.Context(), c.GetUint("user_id"), unreadOnly, page, pageSize)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}

func MarkNotificationRead(c *gin.Context) {
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := getServices().Notifications.MarkRead(c.Request.Context(), c.GetUint("user_id"), notificationID); respondServiceError(c, err) {
		return
	}
	utils.SuccessWithMessage(c, "notification marked read", nil)
}

func MarkAllNotificationsRead(c *gin.Context) {
	if err := getServices().Notifications.MarkAllRead(c.Request.Context(), c.GetUint("user_id")); respondServiceError(c, err) {
		return
	}
	utils.SuccessWithMessage(c, "all notifications marked read", nil)
}

func DeleteNotification(c *gin.Context) {
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := getServices().Notifications.Delete(c.Request.Context(), c.GetUint("user_id"), notificationID); respondServiceError(c, err) {
		return
	}
	utils.SuccessWithMessage(c, "notification deleted", nil)
}
