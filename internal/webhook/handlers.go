package webhook

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pr-rca-service/pkg/response"
)

// Handle godoc
// @Summary     Receive a service-hook event
// @Description Accepts git.pullrequest.created events and queues the analysis. The delivery is acknowledged immediately; the pipeline runs in the background.
// @Tags        Webhooks
// @Accept      json
// @Produce     json
// @Success     200 {object} acceptedResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     403 {object} response.Resp "Forbidden"
// @Failure     429 {object} response.Resp "Too Many Requests"
// @Router      /internal/webhooks/azure-devops [POST]
func (h *handler) Handle(c *gin.Context) {
	ctx := c.Request.Context()
	ip := c.ClientIP()

	if !h.sec.ipAllowed(ip) {
		h.l.Warnf(ctx, "webhook: rejected delivery from %s: not in allowlist", ip)
		response.Forbidden(c)
		return
	}
	if !h.sec.allowRate(ip) {
		h.l.Warnf(ctx, "webhook: rate limited %s", ip)
		response.ErrorWithCode(c, http.StatusTooManyRequests, errors.New("rate limit exceeded"))
		return
	}
	if !h.sec.secretOK(c) {
		h.l.Warnf(ctx, "webhook: rejected delivery from %s: bad secret", ip)
		response.Unauthorized(c)
		return
	}

	var payload azurePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, err, nil)
		return
	}

	if !payload.isPullRequestCreated() {
		h.l.Debugf(ctx, "webhook: ignoring event type %q", payload.EventType)
		response.OK(c, acceptedResp{Status: "ignored"})
		return
	}
	if err := payload.validate(); err != nil {
		response.Error(c, err, nil)
		return
	}

	event := payload.toEvent(time.Now())

	// Ack before the pipeline runs; service hooks retry slow consumers
	// and a retry would only burn a dedup slot.
	go func() {
		runCtx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()

		out, err := h.uc.Analyze(runCtx, event)
		if err != nil {
			h.l.Errorf(runCtx, "webhook: analysis failed for PR %d in %s: %v", event.PullRequestID, event.RepositoryID, err)
			return
		}
		if out.Skipped {
			h.l.Infof(runCtx, "webhook: analysis skipped for PR %d (%s)", event.PullRequestID, out.SkipReason)
		}
	}()

	response.OK(c, acceptedResp{Status: "accepted"})
}
