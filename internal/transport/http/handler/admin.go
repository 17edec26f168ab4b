package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"moodmatch/internal/app"
	"moodmatch/internal/taxonomy"
	"moodmatch/internal/transport/http/response"
)

type AdminHandler struct {
	adminService *app.AdminService
}

type LoadModelRequest struct {
	Path string `json:"path" binding:"required,max=512"`
}

type SetTaxonomyRequest struct {
	Version string `json:"version" binding:"required,max=32"`
}

func NewAdminHandler(adminService *app.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) ModelStatus(c *gin.Context) {
	response.OK(c, h.adminService.ModelStatus())
}

func (h *AdminHandler) LoadModel(c *gin.Context) {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req LoadModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	status, err := h.adminService.LoadModel(c.Request.Context(), adminID, req.Path)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			// the previous model keeps serving
			response.Error(c, http.StatusUnprocessableEntity, response.CodeModelRejected, err.Error())
		}
		return
	}

	response.OK(c, status)
}

func (h *AdminHandler) ModelHistory(c *gin.Context) {
	versions, err := h.adminService.ModelHistory(c.Request.Context(), listLimit(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list model versions failed")
		return
	}
	response.OK(c, gin.H{"versions": versions})
}

func (h *AdminHandler) Taxonomy(c *gin.Context) {
	versions, active := h.adminService.Taxonomy()
	response.OK(c, gin.H{"active": active, "versions": versions})
}

func (h *AdminHandler) SetTaxonomy(c *gin.Context) {
	var req SetTaxonomyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := h.adminService.SetActiveTaxonomy(req.Version); err != nil {
		switch {
		case errors.Is(err, taxonomy.ErrUnknownVersion):
			response.Error(c, http.StatusBadRequest, response.CodeUnknownTaxonomy, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "switch taxonomy failed")
		}
		return
	}

	_, active := h.adminService.Taxonomy()
	response.OK(c, gin.H{"active": active})
}
