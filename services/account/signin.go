package account

import (
	"time"

	"lastmile/models"
	"lastmile/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 72 * time.Hour

func (s *DefaultAccountService) SignInBusiness(email, password string) (*models.Business, error) {
	business, err := s.Businesses.GetByEmail(email)
	if err != nil {
		return nil, newAccountError(CodeInvalidCredentials, "invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(business.Security.PasswordHash), []byte(password)) != nil {
		return nil, newAccountError(CodeInvalidCredentials, "invalid email or password")
	}

	token, err := utils.GenerateToken(business.ID, string(models.RoleBusiness), tokenLifetime)
	if err != nil {
		return nil, err
	}
	if err := s.Businesses.UpdateWithDocument(business.ID, bson.M{"$set": bson.M{
		"security.tokenHash": utils.HashToken(token),
		"updatedAt":          time.Now(),
	}}); err != nil {
		return nil, err
	}

	s.Logger.Info("business signed in", zap.String("businessId", business.ID))
	business.Security = models.Security{Token: token}
	return business, nil
}

func (s *DefaultAccountService) SignInRider(email, password string) (*models.Rider, error) {
	rider, err := s.Riders.GetByEmail(email)
	if err != nil {
		return nil, newAccountError(CodeInvalidCredentials, "invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(rider.Security.PasswordHash), []byte(password)) != nil {
		return nil, newAccountError(CodeInvalidCredentials, "invalid email or password")
	}

	token, err := utils.GenerateToken(rider.ID, string(models.RoleRider), tokenLifetime)
	if err != nil {
		return nil, err
	}
	if err := s.Riders.UpdateWithDocument(rider.ID, bson.M{"$set": bson.M{
		"security.tokenHash": utils.HashToken(token),
		"updatedAt":          time.Now(),
	}}); err != nil {
		return nil, err
	}

	s.Logger.Info("rider signed in", zap.String("riderId", rider.ID))
	rider.Security = models.Security{Token: token}
	return rider, nil
}

// TokenHash returns the stored hash of the account's most recent sign-in
// token. The auth middleware compares it against the presented token, so a
// newer sign-in revokes every earlier token.
func (s *DefaultAccountService) TokenHash(accountID string, role models.AccountRole) (string, error) {
	switch role {
	case models.RoleBusiness:
		business, err := s.Businesses.GetByID(accountID)
		if err != nil {
			return "", err
		}
		return business.Security.TokenHash, nil
	case models.RoleRider:
		rider, err := s.Riders.GetByID(accountID)
		if err != nil {
			return "", err
		}
		return rider.Security.TokenHash, nil
	default:
		return "", newAccountError(CodeInvalidInput, "unknown role %q", role)
	}
}
