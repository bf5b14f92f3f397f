package account

import (
	"fmt"
	"time"

	accountRepo "lastmile/database/repository/account"
	"lastmile/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultAccountService implements AccountService.
type DefaultAccountService struct {
	Businesses accountRepo.BusinessRepository
	Riders     accountRepo.RiderRepository
	Logger     *zap.Logger
}

func (s *DefaultAccountService) RegisterBusiness(reg BusinessRegistration) (*models.Business, error) {
	if reg.Email == "" || reg.Password == "" || reg.Name == "" {
		return nil, newAccountError(CodeInvalidInput, "name, email and password are required")
	}
	if existing, _ := s.Businesses.GetByEmail(reg.Email); existing != nil {
		return nil, newAccountError(CodeEmailTaken, "email %s is already registered", reg.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	business := &models.Business{
		ID:          uuid.New().String(),
		Name:        reg.Name,
		Email:       reg.Email,
		PhoneNumber: reg.PhoneNumber,
		Address:     reg.Address,
		Security:    models.Security{PasswordHash: string(hash)},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Businesses.Create(business); err != nil {
		return nil, err
	}
	s.Logger.Info("business registered", zap.String("businessId", business.ID))
	business.Security = models.Security{}
	return business, nil
}

func (s *DefaultAccountService) RegisterRider(reg RiderRegistration) (*models.Rider, error) {
	if reg.Email == "" || reg.Password == "" || reg.Name == "" {
		return nil, newAccountError(CodeInvalidInput, "name, email and password are required")
	}
	switch reg.VehicleType {
	case models.VehicleBike, models.VehicleScooter, models.VehicleCar, models.VehicleVan:
	default:
		return nil, newAccountError(CodeInvalidInput, "unknown vehicle type %q", reg.VehicleType)
	}
	if existing, _ := s.Riders.GetByEmail(reg.Email); existing != nil {
		return nil, newAccountError(CodeEmailTaken, "email %s is already registered", reg.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	rider := &models.Rider{
		ID:          uuid.New().String(),
		Name:        reg.Name,
		Email:       reg.Email,
		PhoneNumber: reg.PhoneNumber,
		VehicleType: reg.VehicleType,
		Security:    models.Security{PasswordHash: string(hash)},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Riders.Create(rider); err != nil {
		return nil, err
	}
	s.Logger.Info("rider registered", zap.String("riderId", rider.ID))
	rider.Security = models.Security{}
	return rider, nil
}

func (s *DefaultAccountService) GetRider(id string) (*models.Rider, error) {
	rider, err := s.Riders.GetByID(id)
	if err != nil {
		return nil, err
	}
	rider.Security = models.Security{}
	return rider, nil
}

func (s *DefaultAccountService) GetBusiness(id string) (*models.Business, error) {
	business, err := s.Businesses.GetByID(id)
	if err != nil {
		return nil, err
	}
	business.Security = models.Security{}
	return business, nil
}
