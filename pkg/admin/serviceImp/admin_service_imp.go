package serviceImp

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"larsbees/entities"
	"larsbees/pkg/admin/service"
	"larsbees/pkg/apperr"
	userRepo "larsbees/pkg/auth/repository"
	authsvc "larsbees/pkg/auth/service"
)

var errPasswordRequired = fmt.Errorf("%w: password is required", apperr.ErrInvalid)

type adminSvc struct {
	users userRepo.UserRepository
	auth  authsvc.AuthService
	log   *zap.Logger
}

func New(users userRepo.UserRepository, auth authsvc.AuthService, log *zap.Logger) service.AdminService {
	return &adminSvc{users: users, auth: auth, log: log}
}

func (s *adminSvc) List(ctx context.Context, search string) ([]entities.User, error) {
	return s.users.List(ctx, strings.TrimSpace(search))
}

func (s *adminSvc) Get(ctx context.Context, id uint) (*entities.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *adminSvc) Create(ctx context.Context, in service.UserInput) (*entities.User, error) {
	if in.Password == "" {
		return nil, errPasswordRequired
	}
	u := &entities.User{IsActive: true, CalendarToken: uuid.NewString()}
	if err := s.apply(ctx, u, in); err != nil {
		return nil, err
	}
	// is_active defaults to true on insert, so an inactive account is saved twice
	active := u.IsActive
	u.IsActive = true
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if !active {
		u.IsActive = false
		if err := s.users.Update(ctx, u); err != nil {
			return nil, err
		}
	}
	s.log.Info("user created", zap.Uint("user_id", u.UserID), zap.String("role", u.Role))
	return u, nil
}

func (s *adminSvc) Update(ctx context.Context, id uint, in service.UserInput) (*entities.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, u, in); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *adminSvc) apply(ctx context.Context, u *entities.User, in service.UserInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.users.Taken(ctx, in.Username, in.Email, u.UserID)
	if err != nil {
		return err
	}
	if taken {
		return authsvc.ErrDuplicateUser
	}
	if in.Password != "" {
		hash, err := s.auth.HashPassword(in.Password)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	u.Username, u.Email = in.Username, in.Email
	u.Role = orDefault(in.Role, "staff")
	u.Status = orDefault(in.Status, "active")
	u.FirstName, u.LastName = in.FirstName, in.LastName
	u.Phone, u.Address, u.Notes = in.Phone, in.Address, in.Notes
	u.IsAdmin, u.CanManageUsers = in.IsAdmin, in.CanManageUsers
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	return nil
}

func (s *adminSvc) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return service.ErrDeleteSelf
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.IsActive = false
	u.Status = "inactive"
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}
	s.log.Info("user deactivated", zap.Uint("user_id", id), zap.Uint("by", actorID))
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
