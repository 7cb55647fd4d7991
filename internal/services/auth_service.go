package services

import (
	"fmt"
	"log"
	"time"

	"github.com/kenzyo3030/cafe/internal/models"
	"github.com/kenzyo3030/cafe/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for admin authentication. Admin
// sessions are JWTs issued on email+password login; there is no open
// registration, accounts are seeded at startup.
type AuthService struct {
	adminRepo  repositories.AdminRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(adminRepo repositories.AdminRepository, jwtSecret string) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// RegisterAdmin hashes the password and stores a new admin account.
// Called from startup seeding, not exposed as a route.
func (s *AuthService) RegisterAdmin(admin *models.Admin) error {
	if existing, err := s.adminRepo.GetByEmail(admin.Email); err == nil && existing != nil {
		return fmt.Errorf("email '%s' already registered", admin.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin.Password = string(hashedPassword) // Store the hashed password

	if err := s.adminRepo.Create(admin); err != nil {
		return fmt.Errorf("failed to register admin: %w", err)
	}
	return nil
}

// Login authenticates an admin and returns a JWT token if successful.
func (s *AuthService) Login(email, password string) (string, error) {
	admin, err := s.adminRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id": admin.ID,
		"email":    admin.Email,
		"exp":      time.Now().Add(s.tokenDurat).Unix(), // Token expiration time
		"iat":      time.Now().Unix(),                   // Issued at time
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
