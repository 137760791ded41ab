package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	accountHTTP "pr-rca-service/internal/account/delivery/http"
	accountUC "pr-rca-service/internal/account/usecase"
)

// setupAccountDomain initializes the account domain and registers its
// routes under /api/v1.
func (srv *HTTPServer) setupAccountDomain(ctx context.Context, api *gin.RouterGroup) {
	uc := accountUC.New(srv.l, srv.store, srv.tokens, srv.hookMgrs, srv.notifyURL)
	h := accountHTTP.New(srv.l, uc)
	accountHTTP.RegisterRoutes(api, h)

	srv.l.Infof(ctx, "account domain registered")
}
