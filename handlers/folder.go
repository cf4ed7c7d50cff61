package handlers

import (
	"net/http"
	"strconv"

	"docvault/models"
	"docvault/services"
	"docvault/utils"

	"github.com/gin-gonic/gin"
)

type CreateFolderRequest struct {
	Name                  string `json:"name" binding:"required,max=255"`
	ParentID              *uint  `json:"parent_id"`
	DepartmentID          uint   `json:"department_id"`
	CopyParentPermissions bool   `json:"copy_parent_permissions"`
}

type RenameFolderRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type MoveFolderRequest struct {
	NewParentID uint `json:"new_parent_id" binding:"required"`
}

func ListFolders(c *gin.Context) {
	departmentID, err := strconv.ParseUint(c.Query("department_id"), 10, 32)
	if err != nil || departmentID == 0 {
		utils.Error(c, http.StatusBadRequest, "department_id is required")
		return
	}

	var parentID *uint
	if raw := c.Query("parent_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.Error(c, http.StatusBadRequest, "invalid parent_id")
			return
		}
		id := uint(parsed)
		parentID = &id
	}

	folders, svcErr := getServices().Folders.ListFolders(c.Request.Context(), uint(departmentID), parentID)
	if respondServiceError(c, svcErr) {
		return
	}
	utils.Success(c, folders)
}

func GetFolder(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceFolder, ID: folderID}, models.RightView) {
		return
	}

	folder, err := getServices().Folders.GetFolder(c.Request.Context(), folderID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, folder)
}

// GetBreadcrumb returns the root-first path of ancestors ending at the folder
// itself.
func GetBreadcrumb(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceFolder, ID: folderID}, models.RightView) {
		return
	}

	breadcrumb, err := getServices().Folders.Breadcrumb(c.Request.Context(), folderID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, breadcrumb)
}

func CreateFolder(c *gin.Context) {
	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if req.ParentID != nil {
		if !requireAccess(c, services.ResourceRef{Type: models.ResourceFolder, ID: *req.ParentID}, models.RightUpload) {
			return
		}
	}

	folder, err := getServices().Folders.CreateFolder(c.Request.Context(), principalFrom(c), services.CreateFolderInput{
		Name:                  req.Name,
		ParentID:              req.ParentID,
		DepartmentID:          req.DepartmentID,
		CopyParentPermissions: req.CopyParentPermissions,
	})
	if respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionFolderCreate, models.ResourceFolder, folder.ID, folder.Name, folder.DepartmentID, "")
	utils.Success(c, folder)
}

func RenameFolder(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req RenameFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceFolder, ID: folderID}, models.RightEdit) {
		return
	}

	folder, err := getServices().Folders.RenameFolder(c.Request.Context(), principalFrom(c), folderID, req.Name)
	if respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionRename, models.ResourceFolder, folder.ID, folder.Name, folder.DepartmentID, "")
	utils.Success(c, folder)
}

func MoveFolder(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req MoveFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceFolder, ID: folderID}, models.RightEdit) {
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceFolder, ID: req.NewParentID}, models.RightUpload) {
		return
	}

	if err := getServices().Folders.MoveFolder(c.Request.Context(), principalFrom(c), folderID, req.NewParentID); respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionMove, models.ResourceFolder, folderID, "", 0, "")
	utils.SuccessWithMessage(c, "folder moved", nil)
}

func DeleteFolder(c *gin.Context) {
	folderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceFolder, ID: folderID}, models.RightDelete) {
		return
	}

	if err := getServices().Folders.DeleteFolder(c.Request.Context(), principalFrom(c), folderID); respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionDelete, models.ResourceFolder, folderID, "", 0, "")
	utils.SuccessWithMessage(c, "folder deleted", nil)
}
