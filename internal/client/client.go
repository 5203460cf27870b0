// Package client is the typed HTTP client for the PrepMate API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
)

const DefaultBaseURL = "http://localhost:5000/api"

var ErrServiceUnavailable = errors.New("prepmate service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsAuthFailure reports a rejected credential (400 for students, 401 for admins).
func IsAuthFailure(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusBadRequest)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type Student struct {
	ID      string                  `json:"id"`
	Name    string                  `json:"name"`
	Email   string                  `json:"email"`
	Results []curriculum.QuizResult `json:"results"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu         sync.RWMutex
	adminToken string
}

type messageResponse struct {
	Msg string `json:"msg"`
}

func New(baseURL string, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

func (c *Client) BaseURL() string { return c.baseURL }

// SetAdminToken attaches token as a bearer credential to later requests.
func (c *Client) SetAdminToken(token string) {
	c.mu.Lock()
	c.adminToken = token
	c.mu.Unlock()
}

func (c *Client) ListSubjects(ctx context.Context) ([]curriculum.Subject, error) {
	var payload curriculum.AppData
	if err := c.doJSON(ctx, http.MethodGet, "/subjects", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Subjects == nil {
		payload.Subjects = []curriculum.Subject{}
	}
	return payload.Subjects, nil
}

func (c *Client) CreateSubject(ctx context.Context, s curriculum.Subject) (curriculum.Subject, error) {
	if s.Chapters == nil {
		s.Chapters = []curriculum.Chapter{}
	}
	var out curriculum.Subject
	err := c.doJSON(ctx, http.MethodPost, "/subjects", s, &out)
	return out, err
}

// SyncSubject replaces the stored document with s. It fails with a 404
// APIError when the subject does not exist.
func (c *Client) SyncSubject(ctx context.Context, s curriculum.Subject) (curriculum.Subject, error) {
	if s.Chapters == nil {
		s.Chapters = []curriculum.Chapter{}
	}
	body := struct {
		Name     string               `json:"name"`
		Chapters []curriculum.Chapter `json:"chapters"`
	}{s.Name, s.Chapters}

	var out curriculum.Subject
	err := c.doJSON(ctx, http.MethodPut, "/subjects/"+url.PathEscape(s.ID), body, &out)
	return out, err
}

func (c *Client) DeleteSubject(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/subjects/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*Student, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var out Student
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Student, error) {
	body := map[string]string{"email": email, "password": password}
	var out Student
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveResult(ctx context.Context, email string, result curriculum.QuizResult) ([]curriculum.QuizResult, error) {
	body := struct {
		Email  string                `json:"email"`
		Result curriculum.QuizResult `json:"result"`
	}{email, result}

	var out []curriculum.QuizResult
	if err := c.doJSON(ctx, http.MethodPost, "/student/results", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdminLogin verifies passcode and stores the returned token on success.
func (c *Client) AdminLogin(ctx context.Context, passcode string) (string, error) {
	var out struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/admin/login", map[string]string{"passcode": passcode}, &out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", &APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid passcode"}
	}
	c.SetAdminToken(out.Token)
	return out.Token, nil
}

func (c *Client) UpdatePasscode(ctx context.Context, newPasscode string) error {
	return c.doJSON(ctx, http.MethodPost, "/admin/update-passcode", map[string]string{"newPasscode": newPasscode}, nil)
}

func (c *Client) GenerateQuestions(ctx context.Context, topic, difficulty string, count int) ([]*curriculum.MCQ, error) {
	body := map[string]any{"topic": topic, "difficulty": difficulty, "count": count}
	var out struct {
		Questions []*curriculum.MCQ `json:"questions"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/ai-questions", body, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.adminToken != "" {
		request.Header.Set("Authorization", "Bearer "+c.adminToken)
	}
	c.mu.RUnlock()

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return decodeAPIError(response)
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}

// decodeAPIError accepts both {msg} JSON bodies and the plain-text 500 body.
func decodeAPIError(response *http.Response) error {
	apiErr := APIError{StatusCode: response.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(response.Body, 64<<10))
	var payload messageResponse
	if err := json.Unmarshal(raw, &payload); err == nil && strings.TrimSpace(payload.Msg) != "" {
		apiErr.Message = payload.Msg
	} else if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "{") {
		apiErr.Message = text
	}
	if apiErr.Message == "" {
		apiErr.Message = response.Status
	}
	return &apiErr
}
