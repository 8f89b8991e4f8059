package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/WooodHead/blog-be-next/internal/ids"
	"github.com/WooodHead/blog-be-next/internal/models"
	"github.com/WooodHead/blog-be-next/internal/repository"
)

type albumRequest struct {
	Title       string    `json:"title" binding:"required"`
	Artist      string    `json:"artist" binding:"required"`
	CoverURL    string    `json:"coverUrl" binding:"required"`
	ReleaseDate time.Time `json:"releaseDate" binding:"required"`
}

func (h HandlerSet) ListAlbums(c *gin.Context) {
	albums, err := h.albums.FindAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, albums)
}

func (h HandlerSet) GetAlbum(c *gin.Context) {
	album, err := h.albums.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrAlbumNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "album_not_found"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

func (h HandlerSet) CreateAlbum(c *gin.Context) {
	var req albumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	album, err := h.albums.Create(c.Request.Context(), models.BestAlbum{
		ID:          ids.New(),
		Title:       req.Title,
		Artist:      req.Artist,
		CoverURL:    req.CoverURL,
		ReleaseDate: req.ReleaseDate,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, album)
}

func (h HandlerSet) UpdateAlbum(c *gin.Context) {
	var req albumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	album, err := h.albums.Update(c.Request.Context(), models.BestAlbum{
		ID:          c.Param("id"),
		Title:       req.Title,
		Artist:      req.Artist,
		CoverURL:    req.CoverURL,
		ReleaseDate: req.ReleaseDate,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlbumNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "album_not_found"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

func (h HandlerSet) DeleteAlbum(c *gin.Context) {
	album, err := h.albums.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrAlbumNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "album_not_found"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, album)
}

func (h HandlerSet) BatchDeleteAlbums(c *gin.Context) {
	var req batchIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.albums.BatchDelete(c.Request.Context(), req.IDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
