package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrTransientFetch marks any failure reaching or decoding the feed. The
// feed layer does not distinguish "not found" from "service down"; every
// failure is retried implicitly by the next poll cycle.
var ErrTransientFetch = errors.New("transient fetch failure")

// FeedClient defines the two read-only operations the radar consumes from
// the DEX Screener API.
type FeedClient interface {
	LatestTokenProfiles(ctx context.Context) ([]entity.TokenProfile, error)
	TokenPairs(ctx context.Context, tokenAddress string) ([]entity.Pair, error)
}

// dexScreenerClient is the fasthttp-backed implementation of FeedClient.
type dexScreenerClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewDEXScreenerClient creates a new DEX Screener client. requestsPerMinute
// and burst bound the outbound call budget so tight poll intervals cannot
// exhaust the public API allowance.
func NewDEXScreenerClient(baseURL string, timeout time.Duration, requestsPerMinute, burst int, logger *zap.Logger) FeedClient {
	return &dexScreenerClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
		logger:  logger.Named("DEXScreenerClient"),
	}
}

// LatestTokenProfiles implements FeedClient.
func (c *dexScreenerClient) LatestTokenProfiles(ctx context.Context) ([]entity.TokenProfile, error) {
	requestURL := c.baseURL + "/token-profiles/latest/v1"

	body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	profiles, err := decodeTokenProfiles(body)
	if err != nil {
		c.logger.Error("Failed to unmarshal token profiles response",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", body),
			zap.Error(err))
		return nil, fmt.Errorf("%w: decode token profiles: %v", ErrTransientFetch, err)
	}

	c.logger.Debug("Fetched token profiles", zap.Int("count", len(profiles)))
	return profiles, nil
}

// TokenPairs implements FeedClient.
func (c *dexScreenerClient) TokenPairs(ctx context.Context, tokenAddress string) ([]entity.Pair, error) {
	if tokenAddress == "" {
		return nil, fmt.Errorf("tokenAddress cannot be empty")
	}
	requestURL := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, tokenAddress)

	body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	pairs, err := decodePairs(body)
	if err != nil {
		c.logger.Error("Failed to unmarshal pairs response",
			zap.String("url", requestURL),
			zap.String("tokenAddress", tokenAddress),
			zap.ByteString("responseBody", body),
			zap.Error(err))
		return nil, fmt.Errorf("%w: decode pairs for %s: %v", ErrTransientFetch, tokenAddress, err)
	}

	c.logger.Debug("Fetched pairs for token",
		zap.String("tokenAddress", tokenAddress),
		zap.Int("pairCount", len(pairs)))
	return pairs, nil
}

// get performs a rate-limited GET and returns the response body. Every
// failure mode is classified as ErrTransientFetch.
func (c *dexScreenerClient) get(ctx context.Context, requestURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrTransientFetch, err)
	}

	c.logger.Debug("Requesting DEX Screener", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute request to DEX Screener", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("%w: request to %s: %v", ErrTransientFetch, requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute request to DEX Screener (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("%w: request to %s with default timeout: %v", ErrTransientFetch, requestURL, err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("DEX Screener API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()))
		return nil, fmt.Errorf("%w: request to %s returned status %d", ErrTransientFetch, requestURL, resp.StatusCode())
	}

	// The body buffer is reused once the response is released.
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

// decodeTokenProfiles parses the token-profiles response, a bare JSON array.
func decodeTokenProfiles(body []byte) ([]entity.TokenProfile, error) {
	var profiles []entity.TokenProfile
	if err := json.Unmarshal(body, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// pairsResponse wraps the pairs array on the /latest/dex/tokens endpoint.
type pairsResponse struct {
	SchemaVersion string        `json:"schemaVersion"`
	Pairs         []entity.Pair `json:"pairs"`
}

// decodePairs parses a pairs response. The API has historically returned
// either a wrapped object or a direct array depending on the endpoint
// revision, so both shapes are accepted.
func decodePairs(body []byte) ([]entity.Pair, error) {
	var wrapper pairsResponse
	if err := json.Unmarshal(body, &wrapper); err == nil && (wrapper.Pairs != nil || wrapper.SchemaVersion != "") {
		// A wrapped response with "pairs": null means the token simply has
		// no pairs yet.
		return wrapper.Pairs, nil
	}

	var direct []entity.Pair
	if err := json.Unmarshal(body, &direct); err != nil {
		return nil, err
	}
	return direct, nil
}
