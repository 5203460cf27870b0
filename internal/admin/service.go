package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/saulo-duarte/prepmate-api/internal/auth"
	"github.com/saulo-duarte/prepmate-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPasscode = errors.New("invalid passcode")
	ErrPasscodeTooLong = errors.New("passcode longer than 72 bytes")
)

type AdminService interface {
	// Verify returns a signed admin token when passcode matches.
	Verify(ctx context.Context, passcode string) (string, error)
	UpdatePasscode(ctx context.Context, newPasscode string) error
}

type adminService struct {
	repo            AdminRepository
	defaultPasscode string
}

func NewService(repo AdminRepository, defaultPasscode string) AdminService {
	if defaultPasscode == "" {
		defaultPasscode = config.DefaultAdminPasscode
	}
	return &adminService{repo: repo, defaultPasscode: defaultPasscode}
}

// storedHash lazily seeds the passcode row on first use.
func (s *adminService) storedHash(ctx context.Context) (string, error) {
	row, err := s.repo.Get(ctx, PasscodeKey)
	if err != nil {
		return "", err
	}
	if row != nil {
		return row.Value, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.defaultPasscode), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash default passcode: %w", err)
	}
	if err := s.repo.CreateIfAbsent(ctx, &AdminConfig{Key: PasscodeKey, Value: string(hash)}); err != nil {
		return "", err
	}
	config.WithContext(ctx).Info("admin passcode initialized from default")

	row, err = s.repo.Get(ctx, PasscodeKey)
	if err != nil {
		return "", err
	}
	if row == nil {
		return "", errors.New("admin passcode row missing after init")
	}
	return row.Value, nil
}

func (s *adminService) Verify(ctx context.Context, passcode string) (string, error) {
	hash, err := s.storedHash(ctx)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("failed to load admin passcode")
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode)); err != nil {
		return "", ErrInvalidPasscode
	}
	return auth.GenerateAdminToken()
}

// UpdatePasscode overwrites the stored value without checking the old one.
func (s *adminService) UpdatePasscode(ctx context.Context, newPasscode string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPasscode), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ErrPasscodeTooLong
	}
	if err != nil {
		return fmt.Errorf("hash passcode: %w", err)
	}
	if err := s.repo.Save(ctx, &AdminConfig{Key: PasscodeKey, Value: string(hash)}); err != nil {
		config.WithContext(ctx).WithError(err).Error("failed to save admin passcode")
		return err
	}
	config.WithContext(ctx).Info("admin passcode updated")
	return nil
}
