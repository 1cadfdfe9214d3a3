package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bursary-portal/bursary-api/internal/models"
	"github.com/bursary-portal/bursary-api/internal/repository"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
)

type studentAccountRepository interface {
	Create(ctx context.Context, student *models.Student) (int64, error)
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
}

type adminAccountRepository interface {
	Create(ctx context.Context, admin *models.Admin) (int64, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// AuthConfig defines token issuance settings.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
}

// RegisterStudentRequest is the student sign-up payload.
type RegisterStudentRequest struct {
	FullName     string `json:"full_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Phone        string `json:"phone"`
	Institution  string `json:"institution"`
	FieldOfStudy string `json:"field_of_study"`
	YearOfStudy  string `json:"year_of_study"`
}

// RegisterAdminRequest is the admin sign-up payload.
type RegisterAdminRequest struct {
	FullName        string `json:"full_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	Role            string `json:"role"`
	ProfilePhotoURL string `json:"profile_photo_url"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	Department      string `json:"department"`
	PositionTitle   string `json:"position_title"`
	Bio             string `json:"bio"`
}

// LoginRequest authenticates either account type; role picks the table.
type LoginRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	Role     models.Role `json:"role" validate:"required,oneof=student admin"`
}

// LoginResponse carries the issued session token and the account profile.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	User      interface{} `json:"user"`
}

// AuthService registers accounts and issues session tokens.
type AuthService struct {
	students  studentAccountRepository
	admins    adminAccountRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(students studentAccountRepository, admins adminAccountRepository, validate *validator.Validate, logger *zap.Logger, cfg AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = 2 * time.Hour
	}
	return &AuthService{students: students, admins: admins, validator: validate, logger: logger, config: cfg}
}

// RegisterStudent creates a student account with a hashed credential.
func (s *AuthService) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (int64, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student registration payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	student := &models.Student{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(req.Phone),
		Institution:  strings.TrimSpace(req.Institution),
		FieldOfStudy: strings.TrimSpace(req.FieldOfStudy),
		YearOfStudy:  strings.TrimSpace(req.YearOfStudy),
	}

	id, err := s.students.Create(ctx, student)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return 0, appErrors.Clone(appErrors.ErrConflict, "student already exists")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register student")
	}
	return id, nil
}

// RegisterAdmin creates an admin account. Role defaults to "admin".
func (s *AuthService) RegisterAdmin(ctx context.Context, req RegisterAdminRequest) (int64, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing required fields: full_name, email, or password")
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = string(models.RoleAdmin)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	admin := &models.Admin{
		FullName:        strings.TrimSpace(req.FullName),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:    string(hash),
		Role:            role,
		ProfilePhotoURL: strings.TrimSpace(req.ProfilePhotoURL),
		Address:         strings.TrimSpace(req.Address),
		Phone:           strings.TrimSpace(req.Phone),
		Department:      strings.TrimSpace(req.Department),
		PositionTitle:   strings.TrimSpace(req.PositionTitle),
		Bio:             strings.TrimSpace(req.Bio),
	}

	id, err := s.admins.Create(ctx, admin)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return 0, appErrors.Clone(appErrors.ErrConflict, "admin already exists")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register admin")
	}
	return id, nil
}

// Login authenticates against the role-indicated table and issues a token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var (
		userID int64
		hash   string
		user   interface{}
	)
	switch req.Role {
	case models.RoleAdmin:
		admin, err := s.admins.FindByEmail(ctx, email)
		if err != nil {
			return nil, s.loginLookupError(err)
		}
		userID, hash, user = admin.ID, admin.PasswordHash, admin
	default:
		student, err := s.students.FindByEmail(ctx, email)
		if err != nil {
			return nil, s.loginLookupError(err)
		}
		userID, hash, user = student.ID, student.PasswordHash, student
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "incorrect password")
	}

	token, err := s.generateToken(userID, req.Role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to issue token")
	}

	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.Expiration.Seconds()),
		User:      user,
	}, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	if !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown role")
	}
	return claims, nil
}

func (s *AuthService) generateToken(userID int64, role models.Role) (string, error) {
	now := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

func (s *AuthService) loginLookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrInvalidCredentials, "email not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
}
