package handlers

import (
	"fmt"
	"net/http"

	"docvault/models"
	"docvault/services"
	"docvault/utils"

	"github.com/gin-gonic/gin"
)

func ListVersions(c *gin.Context) {
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceDocument, ID: documentID}, models.RightView) {
		return
	}

	versions, err := getServices().Versions.ListVersions(c.Request.Context(), documentID)
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, versions)
}

// ReplaceDocument uploads new content for an existing document. The previous
// state is preserved as a version row before the pointer moves.
func ReplaceDocument(c *gin.Context) {
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceDocument, ID: documentID}, models.RightEdit) {
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

	snapshot, svcErr := getServices().Versions.Replace(c.Request.Context(), principalFrom(c), documentID, services.ReplaceInput{
		Reader:       file,
		Size:         fileHeader.Size,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		OriginalName: fileHeader.Filename,
		ChangeNote:   c.PostForm("change_note"),
	})
	if respondServiceError(c, svcErr) {
		return
	}

	recordAudit(c, models.AuditActionVersionReplace, models.ResourceDocument, documentID, "", 0,
		fmt.Sprintf("version %d archived", snapshot.VersionNumber))
	utils.Success(c, snapshot)
}

func RestoreVersion(c *gin.Context) {
	documentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	versionID, ok := parseIDParam(c, "version_id")
	if !ok {
		return
	}
	if !requireAccess(c, services.ResourceRef{Type: models.ResourceDocument, ID: documentID}, models.RightEdit) {
		return
	}

	backup, err := getServices().Versions.Restore(c.Request.Context(), principalFrom(c), documentID, versionID)
	if respondServiceError(c, err) {
		return
	}

	recordAudit(c, models.AuditActionVersionRestore, models.ResourceDocument, documentID, "", 0,
		fmt.Sprintf("backup version %d created", backup.VersionNumber))
	utils.Success(c, backup)
}
