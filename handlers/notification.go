package handlers

import (
	"net/http"
	"strconv"

	"legal_office_go/middleware"

	"github.com/labstack/echo/v4"
)

// ListNotificationsHandler returns the firm's unread notifications
func ListNotificationsHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	notifications, err := Notifications.GetUnread(firm.ID, limit)
	if err != nil {
		return serviceError(err)
	}

	count, err := Notifications.UnreadCount(firm.ID)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"unread_count":  count,
		"notifications": notifications,
	})
}

// MarkNotificationReadHandler flags one notification as read
func MarkNotificationReadHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	if err := Notifications.MarkAsRead(firm.ID, c.Param("id")); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllNotificationsReadHandler flags every unread notification as read
func MarkAllNotificationsReadHandler(c echo.Context) error {
	firm := middleware.FirmFromContext(c)

	if err := Notifications.MarkAllAsRead(firm.ID); err != nil {
		return serviceError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
