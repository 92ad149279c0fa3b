package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/bally3399/chord001-monograms/internal/repository"
	"github.com/bally3399/chord001-monograms/internal/upload"
	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
)

// bcryptCost is the cost factor for hashing the admin password.
const bcryptCost = 12

const sessionTokenBytes = 32

// AdminService gates catalog administration behind an expiring session
// token issued for the configured admin password.
type AdminService struct {
	passwordHash []byte
	sessions     repository.AdminSessionRepository
	uploader     upload.Uploader
	logger       *slog.Logger
}

// NewAdminService creates a new admin service. passwordHash is a bcrypt hash.
func NewAdminService(passwordHash string, sessions repository.AdminSessionRepository, uploader upload.Uploader, logger *slog.Logger) *AdminService {
	return &AdminService{
		passwordHash: []byte(passwordHash),
		sessions:     sessions,
		uploader:     uploader,
		logger:       logger,
	}
}

// HashAdminPassword hashes a plaintext admin password for configuration.
func HashAdminPassword(password string) (string, error) {
	if password == "" {
		return "", apperrors.InvalidInput("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}
	return string(hash), nil
}

// Login exchanges the admin password for a new session token.
func (s *AdminService) Login(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", apperrors.InvalidInput("password is required")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		adminLogins.WithLabelValues("rejected").Inc()
		s.logger.WarnContext(ctx, "admin login rejected")
		return "", apperrors.Unauthorized("invalid password")
	}

	token, err := newSessionToken(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	if err := s.sessions.Create(ctx, token); err != nil {
		return "", fmt.Errorf("store admin session: %w", err)
	}

	adminLogins.WithLabelValues("accepted").Inc()
	s.logger.InfoContext(ctx, "admin session created")
	return token, nil
}

// Logout revokes a session token. Revoking an unknown token is not an error.
func (s *AdminService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete admin session: %w", err)
	}
	s.logger.InfoContext(ctx, "admin session revoked")
	return nil
}

// CheckSession reports whether token is a live admin session.
func (s *AdminService) CheckSession(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	ok, err := s.sessions.Exists(ctx, token)
	if err != nil {
		return false, fmt.Errorf("check admin session: %w", err)
	}
	return ok, nil
}

// UploadImage validates an image and forwards it to the upload service,
// returning the URL to store on a design.
func (s *AdminService) UploadImage(ctx context.Context, name, contentType string, size int64, r io.Reader) (string, error) {
	if err := upload.Validate(contentType, size); err != nil {
		return "", err
	}
	url, err := s.uploader.Upload(ctx, name, contentType, r)
	if err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "image uploaded",
		slog.String("file_name", name),
		slog.Int64("size", size),
		slog.String("url", url),
	)
	return url, nil
}

func newSessionToken(r io.Reader) (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
