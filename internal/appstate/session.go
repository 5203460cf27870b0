package appstate

import (
	"context"
	"errors"

	"github.com/saulo-duarte/prepmate-api/internal/client"
)

var (
	ErrWrongPasscode    = errors.New("current passcode is incorrect")
	ErrPasscodeTooShort = errors.New("new passcode must be at least 4 characters")
	ErrPasscodeMismatch = errors.New("new passcodes do not match")
	ErrNotAdmin         = errors.New("admin login required")
)

const minPasscodeLength = 4

type session struct {
	student *client.Student
	admin   bool
}

// Login signs the student in and replaces the result list with theirs.
func (s *Store) Login(ctx context.Context, email, password string) (*client.Student, error) {
	st, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.WithError(err).WithField("email", email).Warn("student login failed")
		return nil, err
	}
	s.setStudent(st)
	return s.Student(), nil
}

// Signup registers and logs in the new student.
func (s *Store) Signup(ctx context.Context, name, email, password string) (*client.Student, error) {
	st, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.log.WithError(err).WithField("email", email).Warn("student signup failed")
		return nil, err
	}
	s.setStudent(st)
	return s.Student(), nil
}

// Logout drops the student and falls back to guest results.
func (s *Store) Logout() {
	results, err := s.guest.Load()
	if err != nil {
		s.log.WithError(err).Warn("failed to load guest results")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.student = nil
	s.data.Results = append(emptyResults(), results...)
}

func (s *Store) setStudent(st *client.Student) {
	cp := *st
	cp.Results = append(emptyResults(), st.Results...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.student = &cp
	s.data.Results = append(emptyResults(), cp.Results...)
}

// Student returns a copy of the logged-in student, or nil for guests.
func (s *Store) Student() *client.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session.student == nil {
		return nil
	}
	cp := *s.session.student
	cp.Results = append(emptyResults(), s.session.student.Results...)
	return &cp
}

func (s *Store) AdminLogin(ctx context.Context, passcode string) error {
	if _, err := s.api.AdminLogin(ctx, passcode); err != nil {
		if client.IsAuthFailure(err) {
			return ErrWrongPasscode
		}
		s.log.WithError(err).Error("admin login failed")
		return err
	}

	s.mu.Lock()
	s.session.admin = true
	s.mu.Unlock()
	return nil
}

type tokenHolder interface {
	SetAdminToken(token string)
}

func (s *Store) AdminLogout() {
	if th, ok := s.api.(tokenHolder); ok {
		th.SetAdminToken("")
	}
	s.mu.Lock()
	s.session.admin = false
	s.mu.Unlock()
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.admin
}

// UpdatePasscode re-verifies current against the server before changing it.
func (s *Store) UpdatePasscode(ctx context.Context, current, next, confirm string) error {
	if !s.IsAdmin() {
		return ErrNotAdmin
	}
	if _, err := s.api.AdminLogin(ctx, current); err != nil {
		if client.IsAuthFailure(err) {
			return ErrWrongPasscode
		}
		return err
	}
	if len(next) < minPasscodeLength {
		return ErrPasscodeTooShort
	}
	if next != confirm {
		return ErrPasscodeMismatch
	}
	if err := s.api.UpdatePasscode(ctx, next); err != nil {
		s.log.WithError(err).Error("failed to update passcode")
		return err
	}
	return nil
}
