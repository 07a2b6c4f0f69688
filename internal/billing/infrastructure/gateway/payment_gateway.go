// Package gateway adapts the external payment provider behind the
// PaymentProcessor port, with circuit breaker protection.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
)

var (
	// ErrPaymentDeclined is returned when the provider rejects the charge.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrPaymentUnavailable is returned when the provider is unreachable or
	// the circuit is open.
	ErrPaymentUnavailable = errors.New("payment provider unavailable")
)

// Config configures the HTTP payment gateway.
type Config struct {
	// BaseURL is the provider API root.
	BaseURL string

	// APIKey authenticates requests to the provider.
	APIKey string

	// RequestTimeout bounds a single provider call.
	RequestTimeout time.Duration

	// MaxRequests is the number of probes allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state.
	Interval time.Duration

	// Timeout is the period of the open state.
	Timeout time.Duration

	// FailureThreshold is the consecutive failure count that trips the
	// breaker.
	FailureThreshold uint32
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig(baseURL, apiKey string) Config {
	return Config{
		BaseURL:          baseURL,
		APIKey:           apiKey,
		RequestTimeout:   10 * time.Second,
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// HTTPPaymentGateway implements the PaymentProcessor port against the
// provider's REST API. Provider outages trip a circuit breaker so renewal
// sweeps shed load instead of hammering a dead endpoint.
type HTTPPaymentGateway struct {
	config  Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	logger  *slog.Logger
}

// NewHTTPPaymentGateway creates a circuit-broken HTTP payment gateway.
func NewHTTPPaymentGateway(config Config, logger *slog.Logger) *HTTPPaymentGateway {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"gateway", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &HTTPPaymentGateway{
		config:  config,
		client:  &http.Client{Timeout: config.RequestTimeout},
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
		logger:  logger,
	}
}

type paymentRequest struct {
	AccountID   string `json:"account_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

// Charge debits the account for the given amount.
func (g *HTTPPaymentGateway) Charge(ctx context.Context, accountID uuid.UUID, amount shared.Money, description string) error {
	return g.send(ctx, "/v1/charges", accountID, amount, description)
}

// Refund credits the account for the given amount.
func (g *HTTPPaymentGateway) Refund(ctx context.Context, accountID uuid.UUID, amount shared.Money, description string) error {
	return g.send(ctx, "/v1/refunds", accountID, amount, description)
}

func (g *HTTPPaymentGateway) send(ctx context.Context, path string, accountID uuid.UUID, amount shared.Money, description string) error {
	body, err := json.Marshal(paymentRequest{
		AccountID:   accountID.String(),
		Amount:      amount.String(),
		Description: description,
	})
	if err != nil {
		return err
	}

	resp, err := g.breaker.Execute(func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+g.config.APIKey)

		resp, err := g.client.Do(req)
		if err != nil {
			return nil, err
		}
		// 5xx counts as a provider failure for the breaker; declines do
		// not, a healthy provider saying no is not an outage.
		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: status %d", ErrPaymentUnavailable, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
		}
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return nil
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s", ErrPaymentDeclined, bytes.TrimSpace(detail))
	default:
		return fmt.Errorf("payment request failed: status %d", resp.StatusCode)
	}
}

// LoggingPaymentGateway is a no-op processor for the local mode. Every charge
// and refund succeeds and is logged.
type LoggingPaymentGateway struct {
	logger *slog.Logger
}

// NewLoggingPaymentGateway creates a payment processor that only logs.
func NewLoggingPaymentGateway(logger *slog.Logger) *LoggingPaymentGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingPaymentGateway{logger: logger}
}

// Charge logs the charge and succeeds.
func (g *LoggingPaymentGateway) Charge(ctx context.Context, accountID uuid.UUID, amount shared.Money, description string) error {
	g.logger.Info("charge recorded", "account_id", accountID, "amount", amount.String(), "description", description)
	return nil
}

// Refund logs the refund and succeeds.
func (g *LoggingPaymentGateway) Refund(ctx context.Context, accountID uuid.UUID, amount shared.Money, description string) error {
	g.logger.Info("refund recorded", "account_id", accountID, "amount", amount.String(), "description", description)
	return nil
}
