package handlers

import (
	"net/http"
	"strconv"

	"docvault/models"
	"docvault/services"
	"docvault/utils"

	"github.com/gin-gonic/gin"
)

var appServices *services.Container

func SetServices(container *services.Container) {
	appServices = container
}

func getServices() *services.Container {
	if appServices == nil {
		panic("services container is not initialized")
	}
	return appServices
}

func respondServiceError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*services.AppError); ok {
		if appErr.Data != nil {
			utils.ErrorWithData(c, appErr.HTTPCode, appErr.Message, appErr.Data)
		} else {
			utils.Error(c, appErr.HTTPCode, appErr.Message)
		}
		return true
	}
	utils.Error(c, http.StatusInternalServerError, "internal error")
	return true
}

func principalFrom(c *gin.Context) services.Principal {
	return services.Principal{
		UserID: c.GetUint("user_id"),
		Role:   c.GetString("role"),
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.Error(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "0"))
	return page, pageSize
}

// requireAccess enforces a permission right at the API boundary. A false
// return means the response has already been written.
func requireAccess(c *gin.Context, ref services.ResourceRef, right models.AccessRight) bool {
	allowed, err := getServices().Permissions.CanAccess(c.Request.Context(), principalFrom(c), ref, right)
	if respondServiceError(c, err) {
		return false
	}
	if !allowed {
		utils.Error(c, http.StatusForbidden, "access denied")
		return false
	}
	return true
}

func recordAudit(c *gin.Context, action string, resourceType models.ResourceType, resourceID uint, resourceName string, departmentID uint, details string) {
	getServices().Audit.Record(models.AuditLogEntry{
		UserID:       c.GetUint("user_id"),
		Action:       action,
		ResourceType: string(resourceType),
		ResourceID:   resourceID,
		ResourceName: resourceName,
		DepartmentID: departmentID,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		Details:      details,
	})
}
