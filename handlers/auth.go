package handlers

import (
	"net/http"

	"docvault/models"
	"docvault/services"
	"docvault/utils"

	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	Username     string `json:"username" binding:"required,min=3,max=50"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
	DisplayName  string `json:"display_name" binding:"max=100"`
	DepartmentID *uint  `json:"department_id"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, err := getServices().Auth.Register(c.Request.Context(), services.RegisterInput{
		Username:     req.Username,
		Password:     req.Password,
		DisplayName:  req.DisplayName,
		DepartmentID: req.DepartmentID,
	})
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, user)
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	out, err := getServices().Auth.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if respondServiceError(c, err) {
		return
	}

	getServices().Audit.Record(models.AuditLogEntry{
		UserID:    out.User.ID,
		Action:    models.AuditActionLogin,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	utils.Success(c, out)
}

func GetProfile(c *gin.Context) {
	profile, err := getServices().Auth.GetProfile(c.Request.Context(), c.GetUint("user_id"))
	if respondServiceError(c, err) {
		return
	}
	utils.Success(c, profile)
}
