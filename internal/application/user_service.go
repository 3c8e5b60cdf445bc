package application

import (
	"context"
	"errors"
	"expvar"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	repo "github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/validation"
)

// Pagination defaults for List when the caller does not specify them.
const (
	DefaultFrom  = 0
	DefaultLimit = 5
)

const defaultSearchSize = 10

var stats = expvar.NewMap("accounts")

// VerificationSender delivers the email-verification link for a new account.
type VerificationSender interface {
	SendVerification(ctx context.Context, userID, name, email, token string) error
}

// UserIndexer keeps a search index of users.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Search(ctx context.Context, q string, size int) ([]string, error)
}

// Service runs the account lifecycle: registration, login, updates,
// enable/disable and the email-verification handshake.
type Service struct {
	Repo     repo.UserRepository
	Hasher   *helpers.Hasher
	JWT      *helpers.JWTManager
	Mailer   VerificationSender // optional
	Indexer  UserIndexer        // optional
	Logger   *logrus.Logger
	validate *validator.Validate
}

func NewService(users repo.UserRepository, hasher *helpers.Hasher, jwt *helpers.JWTManager, mailer VerificationSender, indexer UserIndexer, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &Service{
		Repo:     users,
		Hasher:   hasher,
		JWT:      jwt,
		Mailer:   mailer,
		Indexer:  indexer,
		Logger:   logger,
		validate: validation.New(),
	}
}

type RegisterInput struct {
	Name            string `json:"name" form:"name" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,pwd"`
	PasswordConfirm string `json:"password2" form:"password2" validate:"required,eqfield=Password"`
}

// Register creates an active, unverified USER account and mails its verification link.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalidFromValidator("name, email, password and password2 are required and passwords must match", err)
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	token, err := helpers.NewVerificationToken()
	if err != nil {
		return nil, err
	}

	u := entity.NewUser(in.Name, in.Email, hash, token)
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, mapRepoError(err)
	}
	stats.Add("registered", 1)
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user registered")

	if s.Mailer != nil {
		if err := s.Mailer.SendVerification(ctx, u.ID, u.Name, u.Email, u.VerificationToken); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue verification email failed")
		}
	}
	s.index(ctx, u)
	return u, nil
}

type LoginResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// Login exchanges credentials for a session token. Unknown email and wrong
// password fail identically, and both pay for one bcrypt comparison.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		s.Hasher.CompareDummy(password)
		stats.Add("login_failed", 1)
		return nil, ErrInvalidCredentials
	}
	if !s.Hasher.Compare(u.PasswordHash, password) {
		stats.Add("login_failed", 1)
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.Issue(IdentityOf(u))
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue token failed")
		return nil, err
	}
	stats.Add("login_ok", 1)
	return &LoginResult{User: u, Token: token, ExpiresAt: exp}, nil
}

type ListResult struct {
	Users []*entity.User
	Count int64 // active users, independent of the page
}

// List returns one page of users plus the number of active users.
func (s *Service) List(ctx context.Context, from, limit int) (*ListResult, error) {
	fields := map[string]string{}
	if from < 0 {
		fields["from"] = "must be greater than or equal to 0"
	}
	if limit <= 0 {
		fields["limit"] = "must be greater than 0"
	}
	if len(fields) > 0 {
		return nil, invalid("invalid pagination", fields)
	}

	users, err := s.Repo.List(ctx, from, limit)
	if err != nil {
		return nil, err
	}
	count, err := s.Repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{Users: users, Count: count}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return u, nil
}

// UpdateInput replaces name and email; Role and Password are applied only when non-empty.
type UpdateInput struct {
	Name            string `json:"name" form:"name" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Role            string `json:"role" form:"role"`
	Password        string `json:"password" form:"password" validate:"omitempty,pwd"`
	PasswordConfirm string `json:"password2" form:"password2"`
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*entity.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalidFromValidator("name and email are required", err)
	}
	var role entity.Role
	if in.Role != "" {
		r, err := entity.ParseRole(in.Role)
		if err != nil {
			return nil, invalid(err.Error(), map[string]string{"role": "must be one of: ADMIN_ROLE, USER_ROLE, WORKER_ROLE"})
		}
		role = r
	}
	if in.Password != "" && in.Password != in.PasswordConfirm {
		return nil, invalid("passwords must match", map[string]string{"password2": "must be equal to password field"})
	}

	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	u.Name = in.Name
	u.ChangeEmail(in.Email)
	if role != "" {
		u.Role = role
	}
	if in.Password != "" {
		hash, err := s.hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, mapRepoError(err)
	}
	s.Logger.WithField("user_id", u.ID).Info("user updated")
	s.index(ctx, u)
	return u, nil
}

// SetStatus enables (true) or soft-disables (false) an account.
func (s *Service) SetStatus(ctx context.Context, id string, status bool) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	u.Status = status
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, mapRepoError(err)
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "status": status}).Info("user status changed")
	s.index(ctx, u)
	return u, nil
}

// VerifyAccount marks the account verified when token matches the one issued
// at registration. A repeated call with the right token changes nothing.
func (s *Service) VerifyAccount(ctx context.Context, id, token string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if token == "" || !helpers.TokensEqual(u.VerificationToken, token) {
		return nil, ErrTokenMismatch
	}
	if u.Verified {
		return u, nil
	}

	u.Verified = true
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, mapRepoError(err)
	}
	stats.Add("verified", 1)
	s.Logger.WithField("user_id", u.ID).Info("user verified")
	s.index(ctx, u)
	return u, nil
}

// ResendVerification queues the verification email again. It reports false
// when the account is already verified or no mailer is configured.
func (s *Service) ResendVerification(ctx context.Context, id string) (bool, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return false, mapRepoError(err)
	}
	if u.Verified || s.Mailer == nil {
		return false, nil
	}
	if err := s.Mailer.SendVerification(ctx, u.ID, u.Name, u.Email, u.VerificationToken); err != nil {
		return false, err
	}
	return true, nil
}

// Search looks users up in the search index and loads them from the repository.
// Without an index it returns an empty result.
func (s *Service) Search(ctx context.Context, q string, size int) ([]*entity.User, error) {
	if s.Indexer == nil || q == "" {
		return []*entity.User{}, nil
	}
	if size <= 0 || size > 50 {
		size = defaultSearchSize
	}
	ids, err := s.Indexer.Search(ctx, q, size)
	if err != nil {
		return nil, err
	}
	users := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.Repo.GetByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue // index ahead of or behind the store
		}
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *Service) hashPassword(plain string) (string, error) {
	hash, err := s.Hasher.Hash(plain)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return "", invalid("password is too long", map[string]string{"password": "must be between 1 and 72 bytes long"})
	}
	return hash, err
}

func (s *Service) index(ctx context.Context, u *entity.User) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("index user failed")
	}
}

// IdentityOf is the snapshot embedded in session tokens.
func IdentityOf(u *entity.User) helpers.Identity {
	return helpers.Identity{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     string(u.Role),
		Status:   u.Status,
		Verified: u.Verified,
	}
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repo.ErrDuplicateEmail):
		return ErrConflict
	default:
		return err
	}
}
