// This file implements UserService: registration with activation mail,
// account activation, listing, profile updates, deletion, and the password
// reset flow. It is also the credential verifier the session layer depends
// on. Lifecycle operations that must kill every live session (password
// reset completion, account deletion) call TokenService.RevokeAll.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samuelireke/hoaxify/internal/common"
	"github.com/samuelireke/hoaxify/internal/logging"
	"github.com/samuelireke/hoaxify/internal/server/config"
	"github.com/samuelireke/hoaxify/internal/server/models"
	"github.com/samuelireke/hoaxify/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

const oneTimeTokenLength = 16

// Mailer sends account lifecycle mail. Implemented by email.SMTPMailer.
type Mailer interface {
	SendAccountActivation(ctx context.Context, to, token string) error
	SendPasswordReset(ctx context.Context, to, token string) error
}

// ProfileImageStore persists profile images. Implemented by FileService.
type ProfileImageStore interface {
	Save(ctx context.Context, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// UserTxRunner runs fn atomically when the backing store supports
// transactions, handing it a users repository bound to the transaction.
type UserTxRunner interface {
	RunTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error
}

// UserPage is one page of the active-user listing.
type UserPage struct {
	Content    []*models.User
	Page       int
	Size       int
	TotalPages int
}

type UserService struct {
	users      users.Repository
	tx         UserTxRunner
	tokens     *TokenService
	mailer     Mailer
	images     ProfileImageStore
	bcryptCost int
	logger     logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(repo users.Repository, tx UserTxRunner, tokens *TokenService,
	mailer Mailer, images ProfileImageStore, cfg *config.Config, logger logging.Logger) *UserService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserService{
		users:      repo,
		tx:         tx,
		tokens:     tokens,
		mailer:     mailer,
		images:     images,
		bcryptCost: cost,
		logger:     logger,
	}
}

// Register creates an inactive user and sends the activation mail inside one
// transaction: when the mail cannot be delivered the insert is rolled back
// and ErrorEmailDelivery is returned, so no account exists that can never be
// activated.
func (s *UserService) Register(ctx context.Context, username, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	activationToken, err := common.MakeRandString(oneTimeTokenLength)
	if err != nil {
		return fmt.Errorf("error generating activation token: %w", err)
	}

	user := &models.User{
		ID:              uuid.NewString(),
		Username:        username,
		Email:           email,
		PasswordHash:    string(hash),
		Inactive:        true,
		ActivationToken: activationToken,
	}

	return s.tx.RunTx(ctx, func(ctx context.Context, repo users.Repository) error {
		if _, err := repo.Create(ctx, user); err != nil {
			if errors.Is(err, common.ErrorConflict) {
				return common.ErrorEmailInUse
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		if err := s.mailer.SendAccountActivation(ctx, email, activationToken); err != nil {
			s.logger.Error(ctx, "activation mail failed", "email", email, "error", err)
			return common.ErrorEmailDelivery
		}
		return nil
	})
}

// IsEmailTaken reports whether an account with that email already exists.
func (s *UserService) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Activate marks the account matching the activation token as active and
// clears the token. Unknown tokens fail with ErrorInvalidToken.
func (s *UserService) Activate(ctx context.Context, token string) error {
	user, err := s.users.FindByActivationToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInvalidToken
		}
		return err
	}
	user.Inactive = false
	user.ActivationToken = ""
	return s.users.Update(ctx, user)
}

// List returns one page of active users, excluding the authenticated caller
// when authenticatedID is non-empty.
func (s *UserService) List(ctx context.Context, page, size int, authenticatedID string) (*UserPage, error) {
	list, total, err := s.users.ListActive(ctx, authenticatedID, size, page*size)
	if err != nil {
		return nil, err
	}
	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}
	return &UserPage{Content: list, Page: page, Size: size, TotalPages: totalPages}, nil
}

// Get returns an active user by id, or ErrorNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	return s.users.FindActiveByID(ctx, id)
}

// Update changes the user's name and, when image data is provided, replaces
// the stored profile image. A failure to delete the previous image is logged
// and otherwise ignored; the orphan costs storage, not correctness.
func (s *UserService) Update(ctx context.Context, id, username string, image []byte) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Username = username

	if len(image) > 0 {
		if user.Image != "" {
			if err := s.images.Delete(ctx, user.Image); err != nil {
				s.logger.Warn(ctx, "previous profile image not deleted", "key", user.Image, "error", err)
			}
		}
		key, err := s.images.Save(ctx, image)
		if err != nil {
			return nil, fmt.Errorf("error storing profile image: %w", err)
		}
		user.Image = key
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account, its stored profile image, and every live
// session token for it.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}

	if _, err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if user.Image != "" {
		if err := s.images.Delete(ctx, user.Image); err != nil {
			s.logger.Warn(ctx, "profile image not deleted", "key", user.Image, "error", err)
		}
	}
	return s.tokens.RevokeAll(ctx, id)
}

// RequestPasswordReset stores a one-time reset token for the account with
// that email and mails it out. Unknown emails fail with ErrorNotFound.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	resetToken, err := common.MakeRandString(oneTimeTokenLength)
	if err != nil {
		return fmt.Errorf("error generating reset token: %w", err)
	}
	user.PasswordResetToken = resetToken
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, email, resetToken); err != nil {
		s.logger.Error(ctx, "password reset mail failed", "email", email, "error", err)
		return common.ErrorEmailDelivery
	}
	return nil
}

// FindByPasswordResetToken resolves a reset token to its account, or
// ErrorForbidden when the token matches nothing.
func (s *UserService) FindByPasswordResetToken(ctx context.Context, token string) (*models.User, error) {
	user, err := s.users.FindByPasswordResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorForbidden
		}
		return nil, err
	}
	return user, nil
}

// ResetPassword completes the reset flow: re-hashes the password, clears
// both one-time tokens, activates the account, and revokes every live
// session for it.
func (s *UserService) ResetPassword(ctx context.Context, resetToken, password string) error {
	user, err := s.FindByPasswordResetToken(ctx, resetToken)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.PasswordResetToken = ""
	user.ActivationToken = ""
	user.Inactive = false

	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.tokens.RevokeAll(ctx, user.ID)
}

// Authenticate verifies credentials: ErrorUnauthorized for an unknown email
// or wrong password, ErrorForbidden for a valid login on an inactive
// account.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}
	if user.Inactive {
		return nil, common.ErrorForbidden
	}
	return user, nil
}
