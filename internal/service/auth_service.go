package service

import (
	"errors"
	"strings"

	"unimart/config"
	"unimart/internal/auth"
	"unimart/internal/models"
	"unimart/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
	ErrWrongCampus  = errors.New("invalid email domain; please use your campus email")
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

// AllowedCampusEmail reports whether the address belongs to the configured campus
// domain. An empty configured domain disables the restriction (dev setups).
func AllowedCampusEmail(cfg *config.CampusConfig, email string) bool {
	if cfg.EmailDomain == "" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(email)), "@"+strings.ToLower(cfg.EmailDomain))
}

func (s *AuthService) Register(name, email, password, university string) (*models.User, string, string, error) {
	if !AllowedCampusEmail(&s.cfg.Campus, email) {
		return nil, "", "", ErrWrongCampus
	}
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		University:   university,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	return s.withTokens(u)
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	return s.withTokens(u)
}

// LoginWithGoogle finds or creates a user from a Google identity. The campus domain
// is enforced before any row is created, so an off-campus Google account leaves no
// trace.
func (s *AuthService) LoginWithGoogle(googleID, email, name, avatarURL string) (*models.User, string, string, bool, error) {
	if !AllowedCampusEmail(&s.cfg.Campus, email) {
		return nil, "", "", false, ErrWrongCampus
	}
	u, err := s.userRepo.GetByGoogleID(googleID)
	if err == nil {
		user, access, refresh, terr := s.withTokens(u)
		return user, access, refresh, false, terr
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	existing, _ := s.userRepo.GetByEmail(email)
	if existing != nil {
		gid := googleID
		existing.GoogleID = &gid
		if avatarURL != "" {
			existing.AvatarURL = avatarURL
		}
		if err := s.userRepo.Update(existing); err != nil {
			return nil, "", "", false, err
		}
		user, access, refresh, terr := s.withTokens(existing)
		return user, access, refresh, false, terr
	}
	gid := googleID
	u = &models.User{
		Name:      name,
		Email:     email,
		GoogleID:  &gid,
		AvatarURL: avatarURL,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", false, err
	}
	user, access, refresh, terr := s.withTokens(u)
	return user, access, refresh, true, terr
}

func (s *AuthService) RefreshToken(refreshToken string) (access, refresh string, err error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", "", err
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", "", err
	}
	access, _ = auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email)
	refresh, _ = auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return access, refresh, nil
}

func (s *AuthService) withTokens(u *models.User) (*models.User, string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}
