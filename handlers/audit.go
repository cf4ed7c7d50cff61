package handlers

import (
	"strconv"

	"docvault/services"
	"docvault/utils"

	"github.com/gin-gonic/gin"
)

func ListAuditLog(c *gin.Context) {
	page, pageSize := pageParams(c)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 32)
	departmentID, _ := strconv.ParseUint(c.Query("department_id"), 10, 32)

	out, err := getServices().Audit.List(c.Request.Context(), principalFrom(c), services.AuditFilter{
		UserID:       uint(userID),
		Action:       c.Query("action"),
		ResourceType: c.Query("resource_type"),
		DepartmentID: uint(departmentID),
		Page:         page,
		PageSize:     pageSize,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, out)
}
