package gatekeeper

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/fulbitoplay/prediction-pool/internal/domain/user"
	"github.com/fulbitoplay/prediction-pool/internal/platform/logging"
	"github.com/fulbitoplay/prediction-pool/internal/platform/resilience"
	"github.com/fulbitoplay/prediction-pool/internal/usecase"
)

// errTransient marks introspection failures that should trip the
// circuit breaker. Token rejections never count.
var errTransient = errors.New("gatekeeper transient failure")

const (
	defaultCacheTTL        = 30 * time.Second
	defaultCacheMaxEntries = 10_000
	maxResponseBytes       = 1 << 20
)

// Client verifies bearer tokens against the gatekeeper account
// service. Verified principals are cached briefly, keyed by token
// hash, so a burst of requests does not hammer the introspection
// endpoint.
type Client struct {
	httpClient    *http.Client
	introspectURL string
	adminKey      string
	logger        *logging.Logger
	breaker       *resilience.CircuitBreaker
	cache         *principalCache
}

func NewClient(httpClient *http.Client, baseURL, introspectPath, adminKey string, breakerCfg resilience.CircuitBreakerConfig, logger *logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}

	var breaker *resilience.CircuitBreaker
	if breakerCfg.Enabled {
		breakerCfg = resilience.NormalizeCircuitBreakerConfig(breakerCfg)
		breaker = resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq)
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(baseURL, introspectPath),
		adminKey:      adminKey,
		logger:        logger,
		breaker:       breaker,
		cache:         newPrincipalCache(defaultCacheTTL, defaultCacheMaxEntries),
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "token is required")
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cache.Get(cacheKey); ok {
		return principal, nil
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return user.Principal{}, errors.Wrap(usecase.ErrDependencyUnavailable, "gatekeeper circuit open")
		}
	}

	principal, err := c.introspect(ctx, token)
	if c.breaker != nil {
		if errors.Is(err, errTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		if errors.Is(err, errTransient) {
			return user.Principal{}, errors.Wrapf(usecase.ErrDependencyUnavailable, "gatekeeper introspection: %v", err)
		}
		return user.Principal{}, err
	}

	c.cache.Set(cacheKey, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, errors.Wrap(err, "marshal introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, errors.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, errors.Mark(errors.Wrap(err, "request introspection"), errTransient)
	}
	defer resp.Body.Close()

	// 401 is a verdict on the token. 403 means our admin key was
	// rejected, which is our misconfiguration, not the caller's.
	if resp.StatusCode == http.StatusUnauthorized {
		return user.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "introspection denied")
	}
	if resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, errors.Mark(errors.New("introspection admin key rejected"), errTransient)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return user.Principal{}, errors.Mark(errors.Wrap(err, "read introspect response"), errTransient)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "gatekeeper introspection non-200",
			"status_code", resp.StatusCode,
		)
		return user.Principal{}, errors.Mark(errors.Newf("introspection status %d", resp.StatusCode), errTransient)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, errors.Mark(errors.Wrap(err, "unmarshal introspect response"), errTransient)
	}

	if !decoded.Active {
		return user.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "inactive token")
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, errors.Mark(errors.New("introspect response missing user_id"), errTransient)
	}

	return user.Principal{
		UserID: decoded.UserID,
		Email:  decoded.Email,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
