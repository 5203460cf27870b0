package appstate_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/saulo-duarte/prepmate-api/internal/client"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
)

// fakeAPI mimics the server: subjects keyed by logical id in insertion
// order, students keyed by email.
type fakeAPI struct {
	mu       sync.Mutex
	subjects []curriculum.Subject
	students map[string]*client.Student
	passcode string
	token    string

	calls     map[string]int
	syncErr   error
	saveDelay chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		students: map[string]*client.Student{},
		passcode: "admin123",
		calls:    map[string]int{},
	}
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) networkCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) ListSubjects(context.Context) ([]curriculum.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++
	out := make([]curriculum.Subject, len(f.subjects))
	for i, s := range f.subjects {
		out[i] = s.Clone()
	}
	return out, nil
}

func (f *fakeAPI) CreateSubject(_ context.Context, s curriculum.Subject) (curriculum.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++
	f.subjects = append(f.subjects, s.Clone())
	return s, nil
}

func (f *fakeAPI) SyncSubject(_ context.Context, s curriculum.Subject) (curriculum.Subject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["sync"]++
	if f.syncErr != nil {
		return curriculum.Subject{}, f.syncErr
	}
	for i := range f.subjects {
		if f.subjects[i].ID == s.ID {
			f.subjects[i] = s.Clone()
			return s, nil
		}
	}
	return curriculum.Subject{}, &client.APIError{StatusCode: http.StatusNotFound, Message: "Subject not found"}
}

func (f *fakeAPI) DeleteSubject(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["delete"]++
	for i := range f.subjects {
		if f.subjects[i].ID == id {
			f.subjects = append(f.subjects[:i], f.subjects[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeAPI) Register(_ context.Context, name, email, password string) (*client.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["register"]++
	if _, ok := f.students[email]; ok {
		return nil, &client.APIError{StatusCode: http.StatusBadRequest, Message: "User already exists"}
	}
	st := &client.Student{ID: fmt.Sprintf("stu_%d", len(f.students)+1), Name: name, Email: email, Results: []curriculum.QuizResult{}}
	f.students[email] = st
	cp := *st
	return &cp, nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*client.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["login"]++
	st, ok := f.students[email]
	if !ok {
		return nil, &client.APIError{StatusCode: http.StatusBadRequest, Message: "Invalid Credentials"}
	}
	cp := *st
	cp.Results = append([]curriculum.QuizResult{}, st.Results...)
	return &cp, nil
}

func (f *fakeAPI) SaveResult(_ context.Context, email string, result curriculum.QuizResult) ([]curriculum.QuizResult, error) {
	if f.saveDelay != nil {
		<-f.saveDelay
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["save"]++
	st, ok := f.students[email]
	if !ok {
		return nil, &client.APIError{StatusCode: http.StatusNotFound, Message: "Student not found"}
	}
	st.Results = append(st.Results, result)
	return append([]curriculum.QuizResult{}, st.Results...), nil
}

func (f *fakeAPI) AdminLogin(_ context.Context, passcode string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["admin_login"]++
	if passcode != f.passcode {
		return "", &client.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid passcode"}
	}
	f.token = "token"
	return f.token, nil
}

func (f *fakeAPI) UpdatePasscode(_ context.Context, next string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["update_passcode"]++
	f.passcode = next
	return nil
}

func (f *fakeAPI) SetAdminToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}
