package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"volunteer-backend/internal/models"
	"volunteer-backend/internal/notify"
	"volunteer-backend/internal/storage"
)

// AccountStore is the persistence the auth flow depends on. Lookups return
// nil, nil when the row does not exist.
type AccountStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	FindCredentialByUser(ctx context.Context, userID int64) (*models.Credential, error)
	UpdateCredentialPassword(ctx context.Context, userID int64, hashedPassword string) (bool, error)
	HasAdminRole(ctx context.Context, userID int64) (bool, error)
	RunInTx(ctx context.Context, fn func(w storage.AccountWriter) error) error
}

type Options struct {
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
}

type Service struct {
	store    AccountStore
	tokens   *TokenCodec
	hasher   *Hasher
	notifier notify.Notifier
	logger   *zap.Logger
	opts     Options

	// dummyHash is verified when no credential exists so both login failure
	// paths pay for one bcrypt comparison.
	dummyHash string
}

func NewService(store AccountStore, tokens *TokenCodec, hasher *Hasher, notifier notify.Notifier, logger *zap.Logger, opts Options) (*Service, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		tokens:    tokens,
		hasher:    hasher,
		notifier:  notifier,
		logger:    logger,
		opts:      opts,
		dummyHash: dummy,
	}, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, ErrPasswordTooLong) {
		return "", badRequest(MsgPasswordTooLong)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates the user, the optional organization with an admin role, and
// the credential in one transaction.
func (s *Service) Signup(ctx context.Context, in models.SignupInput) (*models.SignupResult, error) {
	email := normalizeEmail(in.Email)

	existing, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, conflict(MsgEmailTaken)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	var orgID *int64

	err = s.store.RunInTx(ctx, func(w storage.AccountWriter) error {
		if err := w.InsertUser(ctx, user); err != nil {
			return err
		}

		if in.OrgName != nil {
			org := &models.Organization{
				Name:            strings.TrimSpace(*in.OrgName),
				Description:     in.OrgDescription,
				CreatedByUserID: user.ID,
			}
			if err := w.InsertOrganization(ctx, org); err != nil {
				return fmt.Errorf("insert organization: %w", err)
			}
			role := models.Role{
				UserID:          user.ID,
				OrganizationID:  org.ID,
				PermissionLevel: models.PermissionAdmin,
			}
			if err := w.InsertRole(ctx, role); err != nil {
				return fmt.Errorf("insert role: %w", err)
			}
			orgID = &org.ID
		}

		if err := w.InsertCredential(ctx, user.ID, hash); err != nil {
			return fmt.Errorf("insert credential: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return nil, conflict(MsgEmailTaken)
		}
		return nil, fmt.Errorf("signup: %w", err)
	}

	role := models.RoleVolunteer
	if orgID != nil {
		role = models.RoleOrgAdmin
	}

	s.logger.Info("user signed up", zap.Int64("user_id", user.ID), zap.String("role", role))

	return &models.SignupResult{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      role,
		OrgID:     orgID,
	}, nil
}

// Login checks the password and issues a session token carrying the role
// computed from the user's current role rows.
func (s *Service) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	user, err := s.store.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash := s.dummyHash
	if user != nil {
		cred, err := s.store.FindCredentialByUser(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("lookup credential: %w", err)
		}
		if cred != nil {
			hash = cred.HashedPassword
		} else {
			user = nil
		}
	}

	if !s.hasher.Verify(password, hash) || user == nil {
		return nil, unauthorized(MsgInvalidCredentials)
	}

	role, err := s.roleOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, _, err := s.tokens.Issue(Claims{
		Role:             role,
		RegisteredClaims: subject(user.ID),
	}, s.opts.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	return &models.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// RequestReset issues a reset token for a known email and hands it to the
// notifier. The result never depends on whether the email exists.
func (s *Service) RequestReset(ctx context.Context, email string) (*models.MessageResponse, error) {
	ack := &models.MessageResponse{Message: MsgResetRequested}

	email = normalizeEmail(email)
	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		s.logger.Error("request reset: lookup user", zap.Error(err))
		return ack, nil
	}
	if user == nil {
		return ack, nil
	}

	token, expiresAt, err := s.tokens.Issue(Claims{
		Purpose:          PurposePasswordReset,
		RegisteredClaims: subject(user.ID),
	}, s.opts.ResetTokenTTL)
	if err != nil {
		s.logger.Error("request reset: issue token", zap.Int64("user_id", user.ID), zap.Error(err))
		return ack, nil
	}

	notice := notify.ResetNotice{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.notifier.PasswordReset(ctx, notice); err != nil {
		s.logger.Error("request reset: deliver token", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	return ack, nil
}

// ResetPassword replaces the credential of the token's subject. Only tokens
// issued with the password reset purpose are accepted.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (*models.MessageResponse, error) {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil, badRequest(MsgInvalidResetToken)
	}
	if claims.Purpose != PurposePasswordReset {
		return nil, badRequest(MsgWrongTokenPurpose)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, badRequest(MsgWrongTokenPurpose)
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateCredentialPassword(ctx, userID, hash)
	if err != nil {
		return nil, fmt.Errorf("update credential: %w", err)
	}
	if !updated {
		return nil, notFound(MsgUserNotFound)
	}

	s.logger.Info("password reset", zap.Int64("user_id", userID))
	return &models.MessageResponse{Message: MsgPasswordReset}, nil
}

// Authenticate resolves a session token to the current user. Reset tokens are
// rejected.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.CurrentUser, error) {
	claims, err := s.tokens.Decode(token)
	if err != nil {
		return nil, unauthorized(MsgInvalidToken)
	}
	if claims.Purpose != "" {
		return nil, unauthorized(MsgInvalidClaims)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, unauthorized(MsgInvalidClaims)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, unauthorized(MsgUserNotFound)
	}

	role, err := s.roleOf(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.CurrentUser{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      role,
	}, nil
}

func (s *Service) SessionTTL() time.Duration {
	return s.opts.SessionTTL
}

func (s *Service) roleOf(ctx context.Context, userID int64) (string, error) {
	admin, err := s.store.HasAdminRole(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("check admin role: %w", err)
	}
	if admin {
		return models.RoleOrgAdmin, nil
	}
	return models.RoleVolunteer, nil
}

func subject(userID int64) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: strconv.FormatInt(userID, 10)}
}
