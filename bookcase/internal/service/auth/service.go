package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/bookcase/bookcase/internal/errs"
	"github.com/Astemirdum/bookcase/bookcase/internal/model"
	"github.com/Astemirdum/bookcase/bookcase/internal/repository"
)

type Service struct {
	log                  *zap.Logger
	repo                 repository.UserRepository
	registrationPassword string
	cost                 int
}

func NewService(repo repository.UserRepository, registrationPassword string, log *zap.Logger) *Service {
	return &Service{
		log:                  log.Named("auth"),
		repo:                 repo,
		registrationPassword: registrationPassword,
		cost:                 bcrypt.DefaultCost,
	}
}

// Register creates an account only when the shared registration secret matches.
func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	if s.registrationPassword == "" ||
		subtle.ConstantTimeCompare([]byte(req.RegistrationPassword), []byte(s.registrationPassword)) != 1 {
		return model.User{}, errs.ErrRegistrationForbidden
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return model.User{}, errs.ErrRegisterFields
	}

	usernameTaken, emailTaken, err := s.repo.UserExists(ctx, req.Username, req.Email)
	if err != nil {
		return model.User{}, errors.Wrap(err, "user exists")
	}
	if usernameTaken {
		return model.User{}, errs.ErrUsernameTaken
	}
	if emailTaken {
		return model.User{}, errs.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}
	user, err := s.repo.CreateUser(ctx, model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	})
	if err != nil {
		return model.User{}, err
	}
	s.log.Info("user registered", zap.Int("id", user.ID))
	return user, nil
}

// Login never tells which of username or password was wrong.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.User, error) {
	if req.Username == "" || req.Password == "" {
		return model.User{}, errs.ErrLoginFields
	}
	user, err := s.repo.UserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.User{}, errs.ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.User{}, errs.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) User(ctx context.Context, id int) (model.User, error) {
	return s.repo.UserByID(ctx, id)
}
