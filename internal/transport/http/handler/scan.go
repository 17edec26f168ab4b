package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"moodmatch/internal/app"
	"moodmatch/internal/logging"
	"moodmatch/internal/model"
	"moodmatch/internal/taxonomy"
	"moodmatch/internal/transport/http/response"
)

type Scanner interface {
	Scan(ctx context.Context, in app.ScanInput) (*app.ScanResult, error)
}

type ScanHistory interface {
	List(ctx context.Context, userID uint, limit int) ([]model.EmotionScan, error)
}

type ScanHandler struct {
	scanner  Scanner
	history  ScanHistory
	maxBytes int64
}

func NewScanHandler(scanner Scanner, history ScanHistory, maxBytes int64) *ScanHandler {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &ScanHandler{scanner: scanner, history: history, maxBytes: maxBytes}
}

// Scan accepts a multipart form with "image" and an optional
// "taxonomy_version" and returns the matched songs.
func (h *ScanHandler) Scan(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing image file (form field 'image')")
		return
	}
	if file.Size > h.maxBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeImageTooLarge,
			fmt.Sprintf("image too large (max %d bytes)", h.maxBytes))
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to open uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "failed to read image")
		return
	}
	if int64(len(data)) > h.maxBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeImageTooLarge,
			fmt.Sprintf("image too large (max %d bytes)", h.maxBytes))
		return
	}

	result, err := h.scanner.Scan(c.Request.Context(), app.ScanInput{
		UserID:          userID,
		Image:           data,
		TaxonomyVersion: c.PostForm("taxonomy_version"),
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidImage):
			response.Error(c, http.StatusBadRequest, response.CodeInvalidImage, "invalid image")
		case errors.Is(err, taxonomy.ErrUnknownVersion):
			response.Error(c, http.StatusBadRequest, response.CodeUnknownTaxonomy, err.Error())
		case errors.Is(err, app.ErrNoContent):
			response.Error(c, http.StatusNotFound, response.CodeNoContent, "no content available")
		default:
			logging.Error().Err(err).Uint("user_id", userID).Msg("scan failed")
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "scan failed")
		}
		return
	}

	response.OK(c, result)
}

func (h *ScanHandler) History(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	scans, err := h.history.List(c.Request.Context(), userID, listLimit(c))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list scans failed")
		}
		return
	}

	response.OK(c, gin.H{"scans": scans})
}
