package student

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/saulo-duarte/prepmate-api/internal/config"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrStudentExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStudentNotFound    = errors.New("student not found")
	ErrInvalidResult      = errors.New("invalid result")
	ErrPasswordTooLong    = errors.New("password longer than 72 bytes")
)

type StudentService interface {
	Register(ctx context.Context, req RegisterRequest) (*StudentResponse, error)
	Login(ctx context.Context, req LoginRequest) (*StudentResponse, error)
	SaveResult(ctx context.Context, email string, result curriculum.QuizResult) ([]curriculum.QuizResult, error)
}

type studentService struct {
	repo StudentRepository
	now  func() time.Time
}

func NewService(repo StudentRepository) StudentService {
	return &studentService{repo: repo, now: time.Now}
}

func (s *studentService) Register(ctx context.Context, req RegisterRequest) (*StudentResponse, error) {
	log := config.WithContext(ctx).WithField("email", req.Email)

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		log.WithError(err).Error("failed to look up student")
		return nil, err
	}
	if existing != nil {
		return nil, ErrStudentExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	st := &Student{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, st); err != nil {
		log.WithError(err).Error("failed to create student")
		return nil, err
	}

	log.Info("student registered")
	return toResponse(st), nil
}

// Login reports ErrInvalidCredentials for both an unknown email and a wrong password.
func (s *studentService) Login(ctx context.Context, req LoginRequest) (*StudentResponse, error) {
	st, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		config.WithContext(ctx).WithError(err).Error("failed to look up student")
		return nil, err
	}
	if st == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(st.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return toResponse(st), nil
}

func (s *studentService) SaveResult(ctx context.Context, email string, result curriculum.QuizResult) ([]curriculum.QuizResult, error) {
	log := config.WithContext(ctx).WithField("email", email)

	st, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		log.WithError(err).Error("failed to look up student")
		return nil, err
	}
	if st == nil {
		return nil, ErrStudentNotFound
	}

	date := s.now()
	if result.Date != "" {
		date, err = curriculum.ParseDate(result.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q", ErrInvalidResult, result.Date)
		}
	}

	row := &Result{
		StudentID:      st.ID,
		ResultID:       result.ID,
		SubjectID:      result.SubjectID,
		ChapterID:      result.ChapterID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage,
		Mode:           string(result.Mode),
		Date:           date,
	}
	if err := s.repo.AddResult(ctx, row); err != nil {
		log.WithError(err).Error("failed to save result")
		return nil, err
	}

	rows, err := s.repo.ListResults(ctx, st.ID)
	if err != nil {
		log.WithError(err).Error("failed to list results")
		return nil, err
	}
	return resultsToDomain(rows), nil
}
