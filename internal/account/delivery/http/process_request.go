package http

import (
	"errors"

	"github.com/gin-gonic/gin"
)

func (h *handler) processRegisterUserReq(c *gin.Context) (registerUserReq, error) {
	var req registerUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

func (h *handler) processStoreCredentialReq(c *gin.Context) (storeCredentialReq, error) {
	var req storeCredentialReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

func (h *handler) processServiceFlagReq(c *gin.Context) (serviceFlagReq, error) {
	var req serviceFlagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

func (h *handler) processSettingsReq(c *gin.Context) (settingsReq, error) {
	var req settingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}

func (h *handler) processConnectRepositoryReq(c *gin.Context) (connectRepositoryReq, error) {
	var req connectRepositoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, req.validate()
}

// userID extracts the :id path parameter.
func userID(c *gin.Context) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", errors.New("user id is required")
	}
	return id, nil
}
