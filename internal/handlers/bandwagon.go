package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) BandwagonServiceInfo(c *gin.Context) {
	info, err := h.bandwagonService.GetServiceInfo(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h HandlerSet) BandwagonUsageStats(c *gin.Context) {
	stats, err := h.bandwagonService.GetUsageStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h HandlerSet) UsageSnapshots(c *gin.Context) {
	snapshots, err := h.snapshots.Recent(c.Request.Context(), 30)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshots)
}
