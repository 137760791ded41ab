package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pr-rca-service/pkg/response"
)

// RegisterUser godoc
// @Summary     Register a user
// @Description Creates a new account on the free plan with default settings.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body body registerUserReq true "User data"
// @Success     200 {object} userResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/users [POST]
func (h *handler) RegisterUser(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processRegisterUserReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	user, err := h.uc.RegisterUser(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.RegisterUser: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, newUserResp(user))
}

// StoreCredential godoc
// @Summary     Store OAuth tokens
// @Description Saves the access/refresh token pair obtained for a user.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       id   path string             true "User ID"
// @Param       body body storeCredentialReq true "Token pair"
// @Success     200 {object} response.Resp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/users/{id}/credentials [PUT]
func (h *handler) StoreCredential(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := userID(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	req, err := h.processStoreCredentialReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	if err := h.uc.StoreCredential(ctx, req.toInput(id)); err != nil {
		h.l.Errorf(ctx, "uc.StoreCredential: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, nil)
}

// SetServiceEnabled godoc
// @Summary     Enable or disable analysis
// @Description Flips the per-user service flag; disabled users skip all analysis runs.
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       id   path string         true "User ID"
// @Param       body body serviceFlagReq true "Flag"
// @Success     200 {object} response.Resp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/users/{id}/service [PATCH]
func (h *handler) SetServiceEnabled(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := userID(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	req, err := h.processServiceFlagReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	if err := h.uc.SetServiceEnabled(ctx, id, *req.Enabled); err != nil {
		h.l.Errorf(ctx, "uc.SetServiceEnabled: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetSettings godoc
// @Summary     Get user settings
// @Tags        Settings
// @Produce     json
// @Param       id path string true "User ID"
// @Success     200 {object} settingsResp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/users/{id}/settings [GET]
func (h *handler) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := userID(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	settings, err := h.uc.GetSettings(ctx, id)
	if err != nil {
		h.l.Errorf(ctx, "uc.GetSettings: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, newSettingsResp(settings))
}

// UpdateSettings godoc
// @Summary     Update user settings
// @Description Replaces the user's analysis and notification settings. Invalid email addresses are dropped.
// @Tags        Settings
// @Accept      json
// @Produce     json
// @Param       id   path string      true "User ID"
// @Param       body body settingsReq true "Settings"
// @Success     200 {object} response.Resp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/users/{id}/settings [PUT]
func (h *handler) UpdateSettings(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := userID(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	req, err := h.processSettingsReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	if err := h.uc.UpdateSettings(ctx, id, req.toModel()); err != nil {
		h.l.Errorf(ctx, "uc.UpdateSettings: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, nil)
}

// ConnectRepository godoc
// @Summary     Connect a repository
// @Description Links a repository to the account and registers the PR-created service hook.
// @Tags        Repositories
// @Accept      json
// @Produce     json
// @Param       id   path string                true "User ID"
// @Param       body body connectRepositoryReq true "Repository data"
// @Success     200 {object} repositoryResp
// @Failure     402 {object} response.Resp "Plan limit reached"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     409 {object} response.Resp "Already connected"
// @Router      /api/v1/users/{id}/repositories [POST]
func (h *handler) ConnectRepository(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := userID(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	req, err := h.processConnectRepositoryReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	link, err := h.uc.ConnectRepository(ctx, req.toInput(id))
	if err != nil {
		h.l.Errorf(ctx, "uc.ConnectRepository: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, newRepositoryResp(link))
}

// ListRepositories godoc
// @Summary     List connected repositories
// @Tags        Repositories
// @Produce     json
// @Param       id path string true "User ID"
// @Success     200 {object} listRepositoriesResp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/users/{id}/repositories [GET]
func (h *handler) ListRepositories(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := userID(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	links, err := h.uc.ListRepositories(ctx, id)
	if err != nil {
		h.l.Errorf(ctx, "uc.ListRepositories: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, newListRepositoriesResp(links))
}

// DisconnectRepository godoc
// @Summary     Disconnect a repository
// @Description Removes the link and deregisters the service hook (best effort).
// @Tags        Repositories
// @Produce     json
// @Param       id      path string true "User ID"
// @Param       repo_id path string true "Repository ID"
// @Success     200 {object} response.Resp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/users/{id}/repositories/{repo_id} [DELETE]
func (h *handler) DisconnectRepository(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := userID(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	if err := h.uc.DisconnectRepository(ctx, id, c.Param("repo_id")); err != nil {
		h.l.Errorf(ctx, "uc.DisconnectRepository: %v", err)
		h.respondError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *handler) respondError(c *gin.Context, err error) {
	status := h.mapError(err)
	if status == http.StatusInternalServerError {
		response.InternalError(c, err)
		return
	}
	response.ErrorWithCode(c, status, err)
}
