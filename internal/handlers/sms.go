package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WooodHead/blog-be-next/internal/service"
)

type sendSMSRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

func (h HandlerSet) SendSMS(c *gin.Context) {
	var req sendSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.smsService.Send(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPhoneNumber):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrVerificationThrottled):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		default:
			h.fail(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

type validateSMSRequest struct {
	PhoneNumber      string `json:"phoneNumber" binding:"required"`
	VerificationCode string `json:"verificationCode" binding:"required"`
}

func (h HandlerSet) ValidateSMS(c *gin.Context) {
	var req validateSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.smsService.Validate(c.Request.Context(), req.PhoneNumber, req.VerificationCode); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPhoneNumber):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrVerificationFailed):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			h.fail(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
