package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"moodmatch/internal/app"
	"moodmatch/internal/transport/http/response"
)

type FavoriteHandler struct {
	favoriteService *app.FavoriteService
}

func NewFavoriteHandler(favoriteService *app.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

func (h *FavoriteHandler) Like(c *gin.Context) {
	userID, songID, ok := h.target(c)
	if !ok {
		return
	}
	if err := h.favoriteService.Like(c.Request.Context(), userID, songID); err != nil {
		writeFavoriteError(c, err, "like song failed")
		return
	}
	response.OK(c, gin.H{"song_id": songID, "liked": true})
}

func (h *FavoriteHandler) Unlike(c *gin.Context) {
	userID, songID, ok := h.target(c)
	if !ok {
		return
	}
	if err := h.favoriteService.Unlike(c.Request.Context(), userID, songID); err != nil {
		writeFavoriteError(c, err, "unlike song failed")
		return
	}
	response.OK(c, gin.H{"song_id": songID, "liked": false})
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	favorites, err := h.favoriteService.List(c.Request.Context(), userID, listLimit(c))
	if err != nil {
		writeFavoriteError(c, err, "list favorites failed")
		return
	}
	response.OK(c, gin.H{"favorites": favorites})
}

func (h *FavoriteHandler) target(c *gin.Context) (uint, uint, bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return 0, 0, false
	}
	songID, ok := parseIDParam(c, "song_id")
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid song id")
		return 0, 0, false
	}
	return userID, songID, true
}

func writeFavoriteError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrSongNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSongNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
