package handlers

import (
	"net/http"

	"docvault/models"
	"docvault/services"
	"docvault/utils"

	"github.com/gin-gonic/gin"
)

type GrantPermissionRequest struct {
	ResourceType string `json:"resource_type" binding:"required,oneof=folder document"`
	ResourceID   uint   `json:"resource_id" binding:"required"`
	UserID       *uint  `json:"user_id"`
	Role         string `json:"role"`
	CanView      bool   `json:"can_view"`
	CanUpload    bool   `json:"can_upload"`
	CanEdit      bool   `json:"can_edit"`
	CanDelete    bool   `json:"can_delete"`
	CanDownload  bool   `json:"can_download"`
}

func resourceRefFromQuery(c *gin.Context) (services.ResourceRef, bool) {
	resourceType := models.ResourceType(c.Query("resource_type"))
	if resourceType != models.ResourceFolder && resourceType != models.ResourceDocument {
		utils.Error(c, http.StatusBadRequest, "resource_type must be folder or document")
		return services.ResourceRef{}, false
	}
	resourceID, ok := parseIDParam(c, "id")
	if !ok {
		return services.ResourceRef{}, false
	}
	return services.ResourceRef{Type: resourceType, ID: resourceID}, true
}

func ListPermissions(c *gin.Context) {
	ref, ok := resourceRefFromQuery(c)
	if !ok {
		return
	}

	entries, err := getServices().Permissions.ListEntries(c.Request.Context(), principalFrom(c), ref)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, entries)
}

func GrantPermission(c *gin.Context) {
	var req GrantPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	ref := services.ResourceRef{Type: models.ResourceType(req.ResourceType), ID: req.ResourceID}
	entry, err := getServices().Permissions.Grant(c.Request.Context(), principalFrom(c), ref, services.GrantInput{
		UserID:      req.UserID,
		Role:        req.Role,
		CanView:     req.CanView,
		CanUpload:   req.CanUpload,
		CanEdit:     req.CanEdit,
		CanDelete:   req.CanDelete,
		CanDownload: req.CanDownload,
	})
	if respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionPermissionGrant, ref.Type, ref.ID, "", 0, "")
	utils.Success(c, entry)
}

func RevokePermission(c *gin.Context) {
	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := getServices().Permissions.Revoke(c.Request.Context(), principalFrom(c), entryID); respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionPermissionRevoke, "", entryID, "", 0, "")
	utils.SuccessWithMessage(c, "permission revoked", nil)
}
