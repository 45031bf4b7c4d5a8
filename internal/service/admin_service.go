package service

import (
	"context"

	"github.com/vogiaan1904/ticketbottle-parkgate/internal/api"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	pkgLog "github.com/vogiaan1904/ticketbottle-parkgate/pkg/logger"
)

// AdminService forwards admin console actions. Zone state is not touched
// locally: the backend pushes the resulting zone-update.
type AdminService interface {
	SetZoneOpen(ctx context.Context, zoneID string, open bool) (*models.Zone, error)
	UpdateCategory(ctx context.Context, id string, c models.Category) (*models.Category, error)
	CreateRushHour(ctx context.Context, r models.RushHour) (*models.RushHour, error)
	CreateVacation(ctx context.Context, v models.Vacation) (*models.Vacation, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id string, u models.User) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type adminService struct {
	api api.Client
	l   pkgLog.Logger
}

func NewAdminService(cli api.Client, l pkgLog.Logger) AdminService {
	return &adminService{api: cli, l: l}
}

func (s *adminService) SetZoneOpen(ctx context.Context, zoneID string, open bool) (*models.Zone, error) {
	z, err := s.api.SetZoneOpen(ctx, zoneID, open)
	if err != nil {
		s.l.Errorf(ctx, "service.adminService.SetZoneOpen: %v", err)
		return nil, err
	}
	s.l.Infof(ctx, "service.adminService.SetZoneOpen: zone %s open=%t", zoneID, open)
	return z, nil
}

func (s *adminService) UpdateCategory(ctx context.Context, id string, c models.Category) (*models.Category, error) {
	res, err := s.api.UpdateCategory(ctx, id, c)
	if err != nil {
		s.l.Errorf(ctx, "service.adminService.UpdateCategory: %v", err)
		return nil, err
	}
	return res, nil
}

func (s *adminService) CreateRushHour(ctx context.Context, r models.RushHour) (*models.RushHour, error) {
	res, err := s.api.CreateRushHour(ctx, r)
	if err != nil {
		s.l.Errorf(ctx, "service.adminService.CreateRushHour: %v", err)
		return nil, err
	}
	return res, nil
}

func (s *adminService) CreateVacation(ctx context.Context, v models.Vacation) (*models.Vacation, error) {
	res, err := s.api.CreateVacation(ctx, v)
	if err != nil {
		s.l.Errorf(ctx, "service.adminService.CreateVacation: %v", err)
		return nil, err
	}
	return res, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.api.ListUsers(ctx)
}

func (s *adminService) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	res, err := s.api.CreateUser(ctx, u)
	if err != nil {
		s.l.Errorf(ctx, "service.adminService.CreateUser: %v", err)
		return nil, err
	}
	return res, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id string, u models.User) (*models.User, error) {
	res, err := s.api.UpdateUser(ctx, id, u)
	if err != nil {
		s.l.Errorf(ctx, "service.adminService.UpdateUser: %v", err)
		return nil, err
	}
	return res, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	if err := s.api.DeleteUser(ctx, id); err != nil {
		s.l.Errorf(ctx, "service.adminService.DeleteUser: %v", err)
		return err
	}
	return nil
}
