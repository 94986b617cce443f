package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lopeshyago/fusionbackapp/api/responses"
	"github.com/lopeshyago/fusionbackapp/pkg/config"
	pkgerrors "github.com/lopeshyago/fusionbackapp/pkg/errors"
	"github.com/lopeshyago/fusionbackapp/pkg/logger"
)

const maxRateLimitBody = 64 << 10

// RateLimitStore counts attempts per scope inside a fixed window.
type RateLimitStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// rateRule derives one counter key from a request. An empty key skips the rule.
type rateRule struct {
	kind  string
	limit int64
	key   func(r *http.Request, body []byte) string
}

// AuthRateLimitPolicy groups the per-IP and per-email rules that share a window.
type AuthRateLimitPolicy struct {
	name     string
	window   time.Duration
	rules    []rateRule
	readBody bool
}

// NewAuthRateLimitPolicy builds a policy; a zero limit disables that rule.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	p := AuthRateLimitPolicy{name: name, window: window}
	if ipLimit > 0 {
		p.rules = append(p.rules, rateRule{kind: "ip", limit: int64(ipLimit), key: func(r *http.Request, _ []byte) string {
			return clientIP(r)
		}})
	}
	if emailLimit > 0 {
		p.readBody = true
		p.rules = append(p.rules, rateRule{kind: "email", limit: int64(emailLimit), key: func(_ *http.Request, body []byte) string {
			if email := emailFromBody(body); email != "" {
				return digest(email)
			}
			return ""
		}})
	}
	return p
}

// LoginRateLimitPolicy throttles credential checks.
func LoginRateLimitPolicy(cfg config.AuthRateLimitConfig) AuthRateLimitPolicy {
	return NewAuthRateLimitPolicy("login", cfg.LoginWindow, cfg.LoginIPLimit, cfg.LoginEmailLimit)
}

// RegisterRateLimitPolicy throttles every account creation surface.
func RegisterRateLimitPolicy(cfg config.AuthRateLimitConfig) AuthRateLimitPolicy {
	return NewAuthRateLimitPolicy("register", cfg.RegisterWindow, cfg.RegisterIPLimit, cfg.RegisterEmailLimit)
}

func (p AuthRateLimitPolicy) scope(kind, value string) string {
	return p.name + ":" + kind + ":" + value
}

// AuthRateLimit applies policy before next. Without a store, which is the case
// when Redis is not configured, requests pass straight through.
func AuthRateLimit(policy AuthRateLimitPolicy, store RateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || policy.window <= 0 || len(policy.rules) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var body []byte
			if policy.readBody && r.Body != nil {
				var err error
				if body, err = io.ReadAll(io.LimitReader(r.Body, maxRateLimitBody)); err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			for _, rule := range policy.rules {
				key := rule.key(r, body)
				if key == "" {
					continue
				}
				allowed, count, err := store.FixedWindowAllow(ctx, policy.scope(rule.kind, key), rule.limit, policy.window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if !allowed {
					if logg != nil {
						logg.Warn(logg.WithFields(ctx, map[string]any{
							"policy":   policy.name,
							"scope":    rule.kind,
							"key":      key,
							"attempts": count,
							"limit":    rule.limit,
						}), "auth.rate_limit.blocked")
					}
					w.Header().Set("Retry-After", strconv.Itoa(int(policy.window.Seconds())))
					responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP takes the first X-Forwarded-For hop, then X-Real-IP, then the peer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func emailFromBody(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(payload, &body) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}

func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
