package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"rental-backend/internal/models"
	"rental-backend/internal/repository"
	"rental-backend/pkg/email"
	"rental-backend/pkg/jwt"
)

type AuthService struct {
	userRepo     *repository.UserRepository
	jwtUtil      *jwt.JWTUtil
	emailService *email.EmailService
}

func NewAuthService(userRepo *repository.UserRepository, emailService *email.EmailService) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtUtil:      jwt.NewJWTUtil(),
		emailService: emailService,
	}
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,min=1,max=50"`
	LastName  string `json:"lastName" validate:"required,min=1,max=50"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  *models.AuthUser `json:"user"`
	Token string           `json:"token"`
}

// Register creates a customer account and signs it in. Admin accounts are
// only created through the user management API.
func (s *AuthService) Register(req *RegisterRequest) (*LoginResponse, error) {
	existingUser, _ := s.userRepo.FindByUsername(req.Username)
	if existingUser != nil {
		return nil, errors.New("username already exists")
	}

	existingUser, _ = s.userRepo.FindByEmail(req.Email)
	if existingUser != nil {
		return nil, errors.New("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		ID:        primitive.NewObjectID(),
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Password:  string(hashedPassword),
		Role:      "customer",
		Status:    "active",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	created, err := s.userRepo.Create(user)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtUtil.GenerateToken(created.ID.Hex(), created.Email, created.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		User:  toAuthUser(created),
		Token: token,
	}, nil
}

func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if user.Status != "active" {
		return nil, errors.New("account is not active")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	// Update last login
	now := time.Now()
	user.LastLogin = &now
	s.userRepo.Update(user.ID.Hex(), user)

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		User:  toAuthUser(user),
		Token: token,
	}, nil
}

func (s *AuthService) RefreshToken(userID string) (string, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return "", errors.New("user not found")
	}

	if user.Status != "active" {
		return "", errors.New("account is not active")
	}

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return "", errors.New("failed to generate token")
	}

	return token, nil
}

func (s *AuthService) GetUserProfile(userID string) (*models.AuthUser, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if user.Status != "active" {
		return nil, errors.New("account is not active")
	}

	return toAuthUser(user), nil
}

func (s *AuthService) ValidateToken(tokenString string) (*models.AuthUser, error) {
	claims, err := s.jwtUtil.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if user.Status != "active" {
		return nil, errors.New("account is not active")
	}

	return toAuthUser(user), nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword initiates the password reset process
func (s *AuthService) ForgotPassword(emailAddr string) error {
	// Don't reveal whether the email exists
	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		return nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return errors.New("failed to generate reset token")
	}
	token := hex.EncodeToString(tokenBytes)

	// Hash the token before storing
	hashedToken, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash reset token")
	}

	expiry := time.Now().Add(24 * time.Hour)

	if err := s.userRepo.UpdatePasswordResetToken(emailAddr, string(hashedToken), expiry); err != nil {
		return errors.New("failed to update reset token")
	}

	if s.emailService != nil {
		if err := s.emailService.SendPasswordResetEmail(user.Email, token); err != nil {
			fmt.Printf("Failed to send reset email to %s: %v\n", user.Email, err)
			return errors.New("failed to send reset email")
		}
	}

	return nil
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ResetPassword resets a user's password using a valid reset token
func (s *AuthService) ResetPassword(token, newPassword string) error {
	// Tokens are stored hashed, so every candidate has to be compared
	users, err := s.userRepo.FindAll()
	if err != nil {
		return errors.New("failed to process reset request")
	}

	var matchedUser *models.User
	for _, user := range users {
		if user.PasswordResetToken == "" || user.PasswordResetExpiry == nil {
			continue
		}

		if user.PasswordResetExpiry.Before(time.Now()) {
			continue
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordResetToken), []byte(token)); err == nil {
			matchedUser = user
			break
		}
	}

	if matchedUser == nil {
		return errors.New("invalid or expired reset token")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash new password")
	}

	matchedUser.Password = string(hashedPassword)
	matchedUser.UpdatedAt = time.Now()

	if _, err := s.userRepo.Update(matchedUser.ID.Hex(), matchedUser); err != nil {
		return errors.New("failed to update password")
	}

	// Clearing the token is best effort; the password is already changed
	s.userRepo.ClearPasswordResetToken(matchedUser.ID.Hex())

	return nil
}

func toAuthUser(user *models.User) *models.AuthUser {
	return &models.AuthUser{
		ID:        user.ID.Hex(),
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Role:      user.Role,
	}
}
