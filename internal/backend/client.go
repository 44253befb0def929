package backend

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/woodline/shopterm/domain"
	"github.com/woodline/shopterm/internal/services/sound"
	"github.com/woodline/shopterm/repository"
)

// Config holds the client's endpoint and timeout settings.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	BulkTimeout    time.Duration
	SingleTimeout  time.Duration
}

// Client is the typed wrapper around the plant backend. Every operation
// issues one request, classifies the outcome into a domain error code
// and never retries. Alert-worthy failures ring the station alerter.
type Client struct {
	cfg     Config
	http    *fasthttp.Client
	store   repository.SessionStore
	alerter sound.Alerter
	logger  *zap.Logger
}

// New creates a backend client. TLS certificate validation is disabled:
// plant backends run self-signed certificates. Insecure by design of the
// deployment, not of this client.
func New(cfg Config, store repository.SessionStore, alerter sound.Alerter, logger *zap.Logger) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}
	if cfg.BulkTimeout <= 0 {
		cfg.BulkTimeout = 300 * time.Second
	}
	if cfg.SingleTimeout <= 0 {
		cfg.SingleTimeout = 120 * time.Second
	}
	if alerter == nil {
		alerter = sound.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:     cfg,
		store:   store,
		alerter: alerter,
		logger:  logger,
		http: &fasthttp.Client{
			Name:      "shopterm",
			TLSConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

// NewWithHTTPClient injects a transport, for tests.
func NewWithHTTPClient(cfg Config, store repository.SessionStore, alerter sound.Alerter, logger *zap.Logger, http *fasthttp.Client) *Client {
	c := New(cfg, store, alerter, logger)
	if http != nil {
		c.http = http
	}
	return c
}

// Authorize exchanges credentials for a token and stores it in the
// session store on success.
func (c *Client) Authorize(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(authRequest{Username: username, Password: password})
	if err != nil {
		return "", c.fail(domain.WrapError(domain.ErrCodeInvalid, "encode auth request", err))
	}

	status, respBody, err := c.do(ctx, fasthttp.MethodPost, c.cfg.BaseURL+"/auth", "", body, c.cfg.RequestTimeout)
	if err != nil {
		return "", c.fail(err)
	}

	switch {
	case status == fasthttp.StatusOK:
		var auth authResponse
		if err := json.Unmarshal(respBody, &auth); err != nil {
			return "", c.fail(domain.WrapError(domain.ErrCodeTransport, "malformed auth response", err))
		}
		token := auth.token()
		if token == "" {
			return "", c.fail(domain.NewError(domain.ErrCodeTransport, "auth response carries no token"))
		}
		c.store.Upsert(username, token)
		c.logger.Info("operator authorized", zap.String("username", username))
		return token, nil
	case status == fasthttp.StatusUnauthorized:
		return "", c.fail(domain.ErrBadCredentials)
	default:
		return "", c.fail(serverError(status, respBody))
	}
}

// ListWorkplaces fetches the workplace names assigned to an operator.
// Requires a fresh token for that operator; fails locally without one.
func (c *Client) ListWorkplaces(ctx context.Context, username string) ([]string, error) {
	token, ok := c.store.CurrentToken(username)
	if !ok {
		return nil, domain.ErrTokenExpired
	}

	url := fmt.Sprintf("%s/api/v1/admin/users/%s/workplaces", c.cfg.BaseURL, username)
	status, respBody, err := c.do(ctx, fasthttp.MethodGet, url, token, nil, c.cfg.RequestTimeout)
	if err != nil {
		return nil, c.fail(err)
	}
	if status != fasthttp.StatusOK {
		return nil, c.fail(serverError(status, respBody))
	}

	var workplaces []string
	if err := json.Unmarshal(respBody, &workplaces); err != nil {
		return nil, c.fail(domain.WrapError(domain.ErrCodeTransport, "malformed workplaces response", err))
	}
	if len(workplaces) == 0 {
		return nil, domain.NewError(domain.ErrCodeNotFound, "no workplaces available")
	}
	return workplaces, nil
}

// ValidateOrder checks an order number before any work proceeds. The
// server's needAlert flag forces a failure with an audible alert
// regardless of anything else in the response.
func (c *Client) ValidateOrder(ctx context.Context, orderNumber string, facadePrepared bool) (string, error) {
	token, err := c.crewToken()
	if err != nil {
		return "", c.fail(err)
	}

	body, err := json.Marshal(validateOrderRequest{
		OrderNumber:              orderNumber,
		IsEmployeePreparedFacade: facadePrepared,
	})
	if err != nil {
		return "", c.fail(domain.WrapError(domain.ErrCodeInvalid, "encode validation request", err))
	}

	status, respBody, err := c.do(ctx, fasthttp.MethodPost, c.cfg.BaseURL+"/api/v1/orders/validation", token, body, c.cfg.RequestTimeout)
	if err != nil {
		return "", c.fail(err)
	}
	if status != fasthttp.StatusOK {
		return "", c.fail(serverError(status, respBody))
	}

	var result resultInformation
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", c.fail(domain.WrapError(domain.ErrCodeTransport, "malformed validation response", err))
	}
	if result.NeedAlert {
		c.alerter.Alert()
		return "", domain.NewError(domain.ErrCodeValidation, messageOr(result.Message, "order validation rejected"))
	}
	return result.Message, nil
}

// RecordWork reports a completed work record for the whole crew. Success
// requires needAlert == false and orderWasUpdated == true.
func (c *Client) RecordWork(ctx context.Context, record domain.WorkRecord) (string, error) {
	if len(record.Employees) == 0 {
		return "", domain.ErrNoCrew
	}

	token, ok := c.store.CurrentToken(record.Employees[0].Username)
	if !ok {
		return "", domain.ErrTokenExpired
	}

	body, err := json.Marshal(record)
	if err != nil {
		return "", c.fail(domain.WrapError(domain.ErrCodeInvalid, "encode work record", err))
	}

	status, respBody, err := c.do(ctx, fasthttp.MethodPost, c.cfg.BaseURL+"/api/v1/employees/work/process", token, body, c.cfg.RequestTimeout)
	if err != nil {
		return "", c.fail(err)
	}
	if status != fasthttp.StatusOK {
		return "", c.fail(serverError(status, respBody))
	}

	var result resultInformation
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", c.fail(domain.WrapError(domain.ErrCodeTransport, "malformed work process response", err))
	}

	switch {
	case result.NeedAlert:
		c.alerter.Alert()
		return "", domain.NewError(domain.ErrCodeValidation, messageOr(result.Message, "unknown error"))
	case result.OrderWasUpdated:
		return messageOr(result.Message, "work recorded"), nil
	default:
		// failure, but informational: no alert
		return "", domain.NewError(domain.ErrCodeValidation, messageOr(result.Message, "operation was not applied"))
	}
}

// FetchLabels downloads the bulk label manifest. A 404 is a meaningful
// business result (nothing ready for packing), not an error path.
func (c *Client) FetchLabels(ctx context.Context, username string, onlyPackagingMaterials bool) ([]byte, error) {
	token, ok := c.store.CurrentToken(username)
	if !ok {
		return nil, c.fail(domain.ErrTokenExpired)
	}

	url := fmt.Sprintf("%s/api/v1/orders/packages?onlyPackagingMaterials=%t", c.cfg.BaseURL, onlyPackagingMaterials)
	status, respBody, err := c.do(ctx, fasthttp.MethodPost, url, token, nil, c.cfg.BulkTimeout)
	if err != nil {
		return nil, c.fail(err)
	}

	switch status {
	case fasthttp.StatusOK:
		return respBody, nil
	case fasthttp.StatusNotFound:
		return nil, domain.NewError(domain.ErrCodeNotFound, "no orders ready for packing")
	default:
		return nil, c.fail(serverError(status, respBody))
	}
}

// FetchLabelByOrder downloads the label document for a single order.
func (c *Client) FetchLabelByOrder(ctx context.Context, username, orderNumber string) ([]byte, error) {
	token, ok := c.store.CurrentToken(username)
	if !ok {
		return nil, c.fail(domain.ErrTokenExpired)
	}

	url := fmt.Sprintf("%s/api/v1/orders/%s/package", c.cfg.BaseURL, orderNumber)
	status, respBody, err := c.do(ctx, fasthttp.MethodGet, url, token, nil, c.cfg.SingleTimeout)
	if err != nil {
		return nil, c.fail(err)
	}

	switch status {
	case fasthttp.StatusOK:
		return respBody, nil
	case fasthttp.StatusNotFound:
		return nil, domain.NewError(domain.ErrCodeNotFound, fmt.Sprintf("order %s was not found", orderNumber))
	default:
		return nil, c.fail(serverError(status, respBody))
	}
}

// crewToken returns the first session's token. One operator's token
// authorizes the whole crew's calls on this shared terminal.
func (c *Client) crewToken() (string, error) {
	first, ok := c.store.First()
	if !ok {
		return "", domain.ErrNoOperators
	}
	token, ok := c.store.CurrentToken(first.Username)
	if !ok {
		return "", domain.WrapError(domain.ErrCodeUnauthorized,
			fmt.Sprintf("no fresh token for %s", first.Username), domain.ErrTokenExpired)
	}
	return token, nil
}

func (c *Client) do(ctx context.Context, method, url, token string, body []byte, timeout time.Duration) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, domain.WrapError(domain.ErrCodeTransport, "request aborted", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	if token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		c.logger.Warn("request failed", zap.String("url", url), zap.Error(err))
		return 0, nil, domain.WrapError(domain.ErrCodeTransport, "request failed", err)
	}

	out := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), out, nil
}

// fail rings the alerter for alert-worthy failures and passes the error on.
func (c *Client) fail(err error) error {
	if domain.AlertWorthy(err) {
		c.alerter.Alert()
	}
	return err
}

func serverError(status int, body []byte) *domain.Error {
	if status == fasthttp.StatusUnauthorized {
		return domain.ErrBadCredentials
	}
	return domain.NewError(domain.ErrCodeServer, fmt.Sprintf("server error %d: %s", status, string(body)))
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}
	return fallback
}
