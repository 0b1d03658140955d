// Package client is an HTTP client for the version tracker API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gopkg.in/errgo.v1"
	"gopkg.in/httprequest.v1"

	"github.com/BuzzLyutic/version-tracker-api/internal/model"
	"github.com/BuzzLyutic/version-tracker-api/internal/service"
	"github.com/BuzzLyutic/version-tracker-api/pkg/respond"
)

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("client: version not found")

// APIError is any other non-2xx answer.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Запросы API в виде, понятном httprequest.
type (
	listRequest struct {
		httprequest.Route `httprequest:"GET /api/versions"`
	}
	getRequest struct {
		httprequest.Route `httprequest:"GET /api/versions/:id"`
		ID                int64 `httprequest:"id,path"`
	}
	createRequest struct {
		httprequest.Route `httprequest:"POST /api/versions"`
		Version           model.VersionInput `httprequest:",body"`
	}
	updateRequest struct {
		httprequest.Route `httprequest:"PUT /api/versions/:id"`
		ID                int64              `httprequest:"id,path"`
		Version           model.VersionInput `httprequest:",body"`
	}
	deleteRequest struct {
		httprequest.Route `httprequest:"DELETE /api/versions/:id"`
		ID                int64 `httprequest:"id,path"`
	}
)

type Client struct {
	client httprequest.Client
}

// NewParams holds the parameters for creating a new client.
type NewParams struct {
	// BaseURL is the API root, e.g. "http://localhost:3001".
	BaseURL string
	// Doer sends the requests; nil means an http.Client with a 10s timeout.
	Doer httprequest.Doer
}

// New returns a new client.
func New(p NewParams) *Client {
	doer := p.Doer
	if doer == nil {
		doer = &http.Client{Timeout: 10 * time.Second}
	}

	var c Client
	c.client.BaseURL = strings.TrimRight(p.BaseURL, "/")
	c.client.Doer = doer
	c.client.UnmarshalError = unmarshalError
	return &c
}

func (c *Client) List(ctx context.Context) ([]model.Version, error) {
	var versions []model.Version
	if err := c.call(ctx, &listRequest{}, &versions); err != nil {
		return nil, err
	}
	if versions == nil {
		versions = []model.Version{}
	}
	return versions, nil
}

func (c *Client) Get(ctx context.Context, id int64) (model.Version, error) {
	var v model.Version
	err := c.call(ctx, &getRequest{ID: id}, &v)
	return v, err
}

func (c *Client) Create(ctx context.Context, in model.VersionInput) (model.Version, error) {
	var v model.Version
	err := c.call(ctx, &createRequest{Version: in}, &v)
	return v, err
}

func (c *Client) Update(ctx context.Context, id int64, in model.VersionInput) (model.Version, error) {
	var v model.Version
	err := c.call(ctx, &updateRequest{ID: id, Version: in}, &v)
	return v, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	var confirmation respond.MessageResponse
	return c.call(ctx, &deleteRequest{ID: id}, &confirmation)
}

// call выполняет запрос и снимает с ошибки обертки httprequest, чтобы
// вызывающий код мог сравнивать ее с ErrNotFound и service.ErrValidation.
func (c *Client) call(ctx context.Context, p, resp interface{}) error {
	err := c.client.Call(ctx, p, resp)
	if err == nil {
		return nil
	}
	cause := errgo.Cause(err)
	var apiErr *APIError
	if cause == ErrNotFound || errors.Is(cause, service.ErrValidation) || errors.As(cause, &apiErr) {
		return cause
	}
	return fmt.Errorf("client: %w", err)
}

var unmarshalErrorBody = httprequest.ErrorUnmarshaler(new(respond.ErrorResponse))

// unmarshalError maps a non-2xx answer with a {"message": ...} body to a Go error.
func unmarshalError(resp *http.Response) error {
	var message string
	switch err := unmarshalErrorBody(resp).(type) {
	case *respond.ErrorResponse:
		message = err.Message
	case nil:
	default:
		message = err.Error()
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", service.ErrValidation, message)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message}
}
