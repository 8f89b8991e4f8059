package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WooodHead/blog-be-next/internal/ids"
	"github.com/WooodHead/blog-be-next/internal/models"
	"github.com/WooodHead/blog-be-next/internal/repository"
)

type playerRequest struct {
	Title    string `json:"title" binding:"required"`
	Artist   string `json:"artist" binding:"required"`
	CoverURL string `json:"coverUrl" binding:"required"`
	MusicURL string `json:"musicFileUrl" binding:"required"`
	LrcURL   string `json:"lrcUrl"`
	IsPublic bool   `json:"isPublic"`
}

type batchIDsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

func (h HandlerSet) ListPlayers(c *gin.Context) {
	players, err := h.players.FindAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, players)
}

func (h HandlerSet) GetPlayer(c *gin.Context) {
	player, err := h.players.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player_not_found"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

func (h HandlerSet) CreatePlayer(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.players.Create(c.Request.Context(), models.Player{
		ID:       ids.New(),
		Title:    req.Title,
		Artist:   req.Artist,
		CoverURL: req.CoverURL,
		MusicURL: req.MusicURL,
		LrcURL:   req.LrcURL,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, player)
}

func (h HandlerSet) UpdatePlayer(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	player, err := h.players.Update(c.Request.Context(), models.Player{
		ID:       c.Param("id"),
		Title:    req.Title,
		Artist:   req.Artist,
		CoverURL: req.CoverURL,
		MusicURL: req.MusicURL,
		LrcURL:   req.LrcURL,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player_not_found"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

func (h HandlerSet) DeletePlayer(c *gin.Context) {
	player, err := h.players.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "player_not_found"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

func (h HandlerSet) BatchDeletePlayers(c *gin.Context) {
	var req batchIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.players.BatchDelete(c.Request.Context(), req.IDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HandlerSet) BatchOfflinePlayers(c *gin.Context) {
	var req batchIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.players.BatchOffline(c.Request.Context(), req.IDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
