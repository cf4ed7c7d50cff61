package handlers

import (
	"net/http"

	"docvault/models"
	"docvault/utils"

	"github.com/gin-gonic/gin"
)

type DepartmentRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

func ListDepartments(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "true") != "false"
	departments, err := getServices().Departments.List(c.Request.Context(), activeOnly)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, departments)
}

func GetDepartment(c *gin.Context) {
	departmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	department, err := getServices().Departments.Get(c.Request.Context(), departmentID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, department)
}

func CreateDepartment(c *gin.Context) {
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	department, err := getServices().Departments.Create(c.Request.Context(), principalFrom(c), req.Name)
	if respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionDepartmentChange, "", department.ID, department.Name, department.ID, "created")
	utils.Success(c, department)
}

func RenameDepartment(c *gin.Context) {
	departmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	department, err := getServices().Departments.Rename(c.Request.Context(), principalFrom(c), departmentID, req.Name)
	if respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionDepartmentChange, "", department.ID, department.Name, department.ID, "renamed")
	utils.Success(c, department)
}

func DeactivateDepartment(c *gin.Context) {
	departmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := getServices().Departments.Deactivate(c.Request.Context(), principalFrom(c), departmentID); respondServiceError(c, err) {
		return
	}
	recordAudit(c, models.AuditActionDepartmentChange, "", departmentID, "", departmentID, "deactivated")
	utils.SuccessWithMessage(c, "department deactivated", nil)
}

func ReactivateDepartment(c *gin.Context) {
	departmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := getServices().Departments.Reactivate(c.Request.Context(), principalFrom(c), departmentID); respondServiceError(c, err) {
		return
	}
	recordAudit(c, models.AuditActionDepartmentChange, "", departmentID, "", departmentID, "reactivated")
	utils.SuccessWithMessage(c, "department reactivated", nil)
}
