package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	netUrl "net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/circuitbreaker"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/params"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/thirdparty"
)

const quotePath = "/quote"

const (
	// A fetch makes up to maxFetchAttempts transport attempts before the
	// failure is reported to the circuit.
	maxFetchAttempts = 3
	retryInterval    = 500 * time.Millisecond
)

// Client fetches quotes from the per-chain quoter REST deployments.
type Client struct {
	httpClient *thirdparty.HTTPClient
	config     *params.ServiceConfig
	cb         *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

func NewClient(config *params.ServiceConfig, logger *zap.Logger) *Client {
	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
		// The circuit timeout spans the whole retry envelope, not one attempt.
		Timeout:               20000,
		MaxConcurrentRequests: 100,
		SleepWindow:           300000,
		ErrorPercentThreshold: 25,
	})

	return &Client{
		httpClient: thirdparty.NewHTTPClient(),
		config:     config,
		cb:         cb,
		logger:     logger.Named("quotes"),
	}
}

// FetchQuote asks the quoter service to price the request. Calls go through
// a per-chain circuit so one dead deployment cannot slow down the rest.
func (c *Client) FetchQuote(ctx context.Context, request Request) (*Quote, error) {
	network := c.config.NetworkByChainID(request.ChainID)
	if network == nil {
		return nil, errors.Errorf("no network configured for chain %d", request.ChainID)
	}
	if request.AmountIn == nil || request.AmountIn.Int == nil {
		return nil, errors.New("quote request misses the input amount")
	}

	result := c.cb.Call(ctx, circuitbreaker.Provider{
		Circuit: circuitName(request.ChainID),
		Call: func() (any, error) {
			return c.fetchWithRetry(ctx, network.QuoterAPIURL+quotePath, request)
		},
	})
	if result.Error() != nil {
		c.logger.Error("fetching quote failed",
			zap.Uint64("chainID", request.ChainID),
			zap.Error(result.Error()))
		return nil, result.Error()
	}

	return result.Value().(*Quote), nil
}

func (c *Client) fetchWithRetry(ctx context.Context, url string, request Request) (*Quote, error) {
	var quote *Quote
	operation := func() error {
		response, err := c.httpClient.DoGetRequest(ctx, url, requestParams(request), nil)
		if err != nil {
			// Transport failure, worth another attempt.
			return err
		}
		quote, err = handleQuoteResponse(response)
		if err != nil {
			// The quoter answered; retrying will not change its mind.
			return backoff.Permanent(err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(
		backoff.NewConstantBackOff(retryInterval), maxFetchAttempts-1), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, errors.Wrap(err, "fetching quote")
	}
	return quote, nil
}

func requestParams(request Request) netUrl.Values {
	params := netUrl.Values{}
	params.Add("chainId", strconv.FormatUint(request.ChainID, 10))
	params.Add("tokenIn", request.TokenIn.Hex())
	params.Add("tokenOut", request.TokenOut.Hex())
	params.Add("amountIn", request.AmountIn.String())
	params.Add("slippageBps", strconv.FormatInt(request.SlippageBps, 10))
	return params
}

type quoteResponse struct {
	Quote *Quote `json:"quote"`
	Error string `json:"error"`
}

func handleQuoteResponse(response []byte) (*Quote, error) {
	var parsed quoteResponse
	if err := json.Unmarshal(response, &parsed); err != nil {
		return nil, err
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	if parsed.Quote == nil || parsed.Quote.AmountOut == nil {
		return nil, errors.New("quoter response carries no quote")
	}
	return parsed.Quote, nil
}

func circuitName(chainID uint64) string {
	return fmt.Sprintf("quoterClient_%d", chainID)
}
