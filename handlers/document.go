package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"docvault/models"
	"docvault/services"
	"docvault/utils"

	"github.com/gin-gonic/gin"
)

type UpdateDocumentRequest struct {
	Title    *string           `json:"title"`
	Tags     []string          `json:"tags"`
	Metadata map[string]string `json:"metadata"`
}

type MoveDocumentRequest struct {
	TargetFolderID uint `json:"target_folder_id" binding:"required"`
}

func UploadDocument(c *gin.Context) {
	folderID, err := strconv.ParseUint(c.PostForm("folder_id"), 10, 32)
	if err != nil || folderID == 0 {
		utils.Error(c, http.StatusBadRequest, "folder_id is required")
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceFolder, ID: uint(folderID)}, models.RightUpload) {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	defer file.Close()

	var tags []string
	if raw := c.PostForm("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}
	var metadata map[string]string
	if raw := c.PostForm("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
			utils.Error(c, http.StatusBadRequest, "metadata must be a JSON object of strings")
			return
		}
	}

	document, svcErr := getServices().Documents.Upload(c.Request.Context(), principalFrom(c), services.UploadDocumentInput{
		Title:       c.PostForm("title"),
		FolderID:    uint(folderID),
		FileName:    fileHeader.Filename,
		Reader:      file,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Tags:        tags,
		Metadata:    metadata,
	})
	if respondServiceError(c, svcErr) {
		return
	}

	recordAudit(c, models.AuditActionUpload, models.ResourceDocument, document.ID, document.Title, document.DepartmentID, "")
	utils.Success(c, document)
}

func GetDocument(c *gin.Context) {
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceDocument, ID: documentID}, models.RightView) {
		return
	}

	document, err := getServices().Documents.Get(c.Request.Context(), documentID)
	if respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionView, models.ResourceDocument, document.ID, document.Title, document.DepartmentID, "")
	utils.Success(c, document)
}

func ListDocuments(c *gin.Context) {
	folderID, err := strconv.ParseUint(c.Query("folder_id"), 10, 32)
	if err != nil || folderID == 0 {
		utils.Error(c, http.StatusBadRequest, "folder_id is required")
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceFolder, ID: uint(folderID)}, models.RightView) {
		return
	}

	page, pageSize := pageParams(c)
	out, svcErr := getServices().Documents.ListByFolder(
		c.Request.Context(), uint(folderID), page, pageSize,
		c.Query("sort_by"), c.Query("order"),
	)
	if respondServiceError(c, svcErr) {
		return
	}
	utils.Success(c, out)
}

func SearchDocuments(c *gin.Context) {
	departmentID, err := strconv.ParseUint(c.Query("department_id"), 10, 32)
	if err != nil || departmentID == 0 {
		utils.Error(c, http.StatusBadRequest, "department_id is required")
		return
	}

	page, pageSize := pageParams(c)
	out, svcErr := getServices().Documents.Search(
		c.Request.Context(), uint(departmentID),
		c.Query("q"), c.Query("tag"), c.Query("file_type"),
		page, pageSize,
	)
	if respondServiceError(c, svcErr) {
		return
	}
	utils.Success(c, out)
}

func UpdateDocument(c *gin.Context) {
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceDocument, ID: documentID}, models.RightEdit) {
		return
	}

	document, err := getServices().Documents.Update(c.Request.Context(), principalFrom(c), documentID, services.UpdateDocumentInput{
		Title:    req.Title,
		Tags:     req.Tags,
		Metadata: req.Metadata,
	})
	if respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionRename, models.ResourceDocument, document.ID, document.Title, document.DepartmentID, "")
	utils.Success(c, document)
}

func MoveDocument(c *gin.Context) {
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req MoveDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceDocument, ID: documentID}, models.RightEdit) {
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceFolder, ID: req.TargetFolderID}, models.RightUpload) {
		return
	}

	if err := getServices().Documents.Move(c.Request.Context(), principalFrom(c), documentID, req.TargetFolderID); respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionMove, models.ResourceDocument, documentID, "", 0, "")
	utils.SuccessWithMessage(c, "document moved", nil)
}

func DeleteDocument(c *gin.Context) {
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceDocument, ID: documentID}, models.RightDelete) {
		return
	}

	if err := getServices().Documents.Delete(c.Request.Context(), principalFrom(c), documentID); respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionDelete, models.ResourceDocument, documentID, "", 0, "")
	utils.SuccessWithMessage(c, "document deleted", nil)
}

// DownloadDocument hands out a short-lived presigned URL instead of proxying
// object bytes through the API.
func DownloadDocument(c *gin.Context) {
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceDocument, ID: documentID}, models.RightDownload) {
		return
	}

	url, err := getServices().Documents.DownloadURL(c.Request.Context(), documentID)
	if respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionDownload, models.ResourceDocument, documentID, "", 0, "")
	utils.Success(c, gin.H{"url": url})
}

func GetThumbnail(c *gin.Context) {
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceDocument, ID: documentID}, models.RightView) {
		return
	}

	url, err := getServices().Documents.ThumbnailURL(c.Request.Context(), documentID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, gin.H{"url": url})
}
