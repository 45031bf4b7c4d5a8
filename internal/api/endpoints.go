package api

import (
	"context"
	"net/url"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
)

func (c *client) ListGates(ctx context.Context) ([]models.Gate, error) {
	var gates []models.Gate
	if err := c.get(ctx, "/master/gates", &gates); err != nil {
		return nil, err
	}
	return gates, nil
}

func (c *client) ListZones(ctx context.Context, gateID string) ([]models.Zone, error) {
	var zones []models.Zone
	if err := c.get(ctx, "/master/zones?gateId="+url.QueryEscape(gateID), &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

func (c *client) GetSubscription(ctx context.Context, id string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := c.get(ctx, "/subscriptions/"+url.PathEscape(id), &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (c *client) Checkin(ctx context.Context, req models.CheckinRequest) (*models.CheckinResult, error) {
	var res models.CheckinResult
	if err := c.post(ctx, "/tickets/checkin", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) Checkout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutResult, error) {
	var res models.CheckoutResult
	if err := c.post(ctx, "/tickets/checkout", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type zoneOpenRequest struct {
	Open bool `json:"open"`
}

func (c *client) SetZoneOpen(ctx context.Context, zoneID string, open bool) (*models.Zone, error) {
	var z models.Zone
	if err := c.put(ctx, "/admin/zones/"+url.PathEscape(zoneID)+"/open", zoneOpenRequest{Open: open}, &z); err != nil {
		return nil, err
	}
	return &z, nil
}

func (c *client) UpdateCategory(ctx context.Context, id string, cat models.Category) (*models.Category, error) {
	var res models.Category
	if err := c.put(ctx, "/admin/categories/"+url.PathEscape(id), cat, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) CreateRushHour(ctx context.Context, r models.RushHour) (*models.RushHour, error) {
	var res models.RushHour
	if err := c.post(ctx, "/admin/rush-hours", r, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) CreateVacation(ctx context.Context, v models.Vacation) (*models.Vacation, error) {
	var res models.Vacation
	if err := c.post(ctx, "/admin/vacations", v, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.get(ctx, "/admin/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *client) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	var res models.User
	if err := c.post(ctx, "/admin/users", u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) UpdateUser(ctx context.Context, id string, u models.User) (*models.User, error) {
	var res models.User
	if err := c.put(ctx, "/admin/users/"+url.PathEscape(id), u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *client) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, "/admin/users/"+url.PathEscape(id))
}
