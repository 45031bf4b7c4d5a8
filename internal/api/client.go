// Package api is the REST client for the parking backend.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/auth"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

type Client interface {
	ListGates(ctx context.Context) ([]models.Gate, error)
	ListZones(ctx context.Context, gateID string) ([]models.Zone, error)
	GetSubscription(ctx context.Context, id string) (*models.Subscription, error)

	Checkin(ctx context.Context, req models.CheckinRequest) (*models.CheckinResult, error)
	Checkout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error)

	SetZoneOpen(ctx context.Context, zoneID string, open bool) (*models.Zone, error)
	UpdateCategory(ctx context.Context, id string, c models.Category) (*models.Category, error)
	CreateRushHour(ctx context.Context, r models.RushHour) (*models.RushHour, error)
	CreateVacation(ctx context.Context, v models.Vacation) (*models.Vacation, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id string, u models.User) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type Option func(*client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithRetry sets how many times a failed GET is retried.
func WithRetry(n int) Option {
	return func(c *client) {
		c.retry = n
	}
}

// WithOnUnauthorized registers the forced-logout hook run on every 401.
func WithOnUnauthorized(fn func(ctx context.Context)) Option {
	return func(c *client) {
		c.onUnauthorized = fn
	}
}

type client struct {
	baseURL        string
	tokens         auth.TokenProvider
	httpClient     *http.Client
	retry          int
	onUnauthorized func(ctx context.Context)
	l              logger.Logger
}

func New(baseURL string, tokens auth.TokenProvider, l logger.Logger, opts ...Option) Client {
	c := &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		retry:      1,
		l:          l,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
