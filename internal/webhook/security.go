package webhook

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	secretHeader = "X-Webhook-Secret"

	// Per-IP limiter state is dropped after idling for limiterTTL.
	limiterTTL    = 10 * time.Minute
	maxTrackedIPs = 1024
	defaultPerMin = 60
)

type security struct {
	secret     string
	allowedIPs map[string]struct{}
	limiters   *expirable.LRU[string, *rate.Limiter]
	perMin     int
}

func newSecurity(cfg Config) *security {
	perMin := cfg.RateLimitPerMin
	if perMin <= 0 {
		perMin = defaultPerMin
	}

	var allowed map[string]struct{}
	if len(cfg.AllowedIPs) > 0 {
		allowed = make(map[string]struct{}, len(cfg.AllowedIPs))
		for _, ip := range cfg.AllowedIPs {
			allowed[ip] = struct{}{}
		}
	}

	return &security{
		secret:     cfg.Secret,
		allowedIPs: allowed,
		limiters:   expirable.NewLRU[string, *rate.Limiter](maxTrackedIPs, nil, limiterTTL),
		perMin:     perMin,
	}
}

// secretOK validates the shared secret from the header or, for hook
// consumers that cannot set headers, the query string. An empty
// configured secret disables the check.
func (s *security) secretOK(c *gin.Context) bool {
	if s.secret == "" {
		return true
	}
	if got := c.GetHeader(secretHeader); got != "" {
		return got == s.secret
	}
	return c.Query("secret") == s.secret
}

// ipAllowed reports whether the caller passes the allowlist. An empty
// allowlist admits everyone.
func (s *security) ipAllowed(ip string) bool {
	if s.allowedIPs == nil {
		return true
	}
	_, ok := s.allowedIPs[ip]
	return ok
}

// allowRate applies the per-IP token bucket.
func (s *security) allowRate(ip string) bool {
	limiter, ok := s.limiters.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(s.perMin)/60.0), s.perMin)
		s.limiters.Add(ip, limiter)
	}
	return limiter.Allow()
}
