package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/saulo-duarte/prepmate-api/internal/auth"
	"github.com/saulo-duarte/prepmate-api/internal/config"
	"github.com/saulo-duarte/prepmate-api/internal/container"
	"github.com/saulo-duarte/prepmate-api/internal/curriculum"
	"github.com/saulo-duarte/prepmate-api/internal/router"
	"github.com/saulo-duarte/prepmate-api/internal/testutil"
)

func newServer(t *testing.T, requireToken bool) *httptest.Server {
	t.Helper()
	auth.InitWithSecret("router-test-secret")

	c, err := container.Build(context.Background(), testutil.NewDB(t), config.Config{
		AdminPasscode:     "admin123",
		CORSOrigins:       []string{"*"},
		RequireAdminToken: requireToken,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	srv := httptest.NewServer(router.New(c.RouterConfig()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	return doWithToken(t, srv, method, path, "", body, out)
}

func doWithToken(t *testing.T, srv *httptest.Server, method, path, token string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

type listResponse struct {
	Subjects []curriculum.Subject    `json:"subjects"`
	Results  []curriculum.QuizResult `json:"results"`
}

func TestSubjectChapterQuestionFlow(t *testing.T) {
	srv := newServer(t, false)

	if code := do(t, srv, http.MethodPost, "/api/subjects",
		map[string]any{"id": "sub_1", "name": "Physics", "chapters": []any{}}, nil); code != http.StatusOK {
		t.Fatalf("create status = %d", code)
	}

	chapter := map[string]any{"id": "chap_1", "title": "Motion", "questions": []any{}}
	if code := do(t, srv, http.MethodPut, "/api/subjects/sub_1",
		map[string]any{"name": "Physics", "chapters": []any{chapter}}, nil); code != http.StatusOK {
		t.Fatalf("add chapter status = %d", code)
	}

	chapter["questions"] = []any{map[string]any{
		"id": "q_1", "type": "MCQ", "text": "Pick C",
		"options": []string{"A", "B", "C", "D"}, "correctIndex": 2,
	}}
	if code := do(t, srv, http.MethodPut, "/api/subjects/sub_1",
		map[string]any{"name": "Physics", "chapters": []any{chapter}}, nil); code != http.StatusOK {
		t.Fatalf("add question status = %d", code)
	}

	var list listResponse
	if code := do(t, srv, http.MethodGet, "/api/subjects", nil, &list); code != http.StatusOK {
		t.Fatalf("list status = %d", code)
	}
	if list.Results == nil || len(list.Results) != 0 {
		t.Errorf("results placeholder = %v, want []", list.Results)
	}
	if len(list.Subjects) != 1 {
		t.Fatalf("subjects = %d, want 1", len(list.Subjects))
	}
	chapters := list.Subjects[0].Chapters
	if len(chapters) != 1 || len(chapters[0].Questions) != 1 {
		t.Fatalf("unexpected tree: %+v", chapters)
	}
	mcq, ok := chapters[0].Questions[0].(*curriculum.MCQ)
	if !ok || mcq.CorrectIndex != 2 {
		t.Fatalf("question = %#v, want MCQ with correctIndex 2", chapters[0].Questions[0])
	}
}

func TestSubjectErrors(t *testing.T) {
	srv := newServer(t, false)

	var msg map[string]string
	if code := do(t, srv, http.MethodPut, "/api/subjects/missing", map[string]any{"name": "x"}, &msg); code != http.StatusNotFound {
		t.Fatalf("sync missing status = %d, want 404", code)
	}
	if msg["msg"] != "Subject not found" {
		t.Errorf("msg = %q", msg["msg"])
	}

	if code := do(t, srv, http.MethodDelete, "/api/subjects/missing", nil, &msg); code != http.StatusOK {
		t.Fatalf("delete missing status = %d, want 200", code)
	}
	if msg["msg"] != "Subject removed" {
		t.Errorf("msg = %q", msg["msg"])
	}

	bad := map[string]any{"id": "sub_2", "name": "Bad", "chapters": []any{map[string]any{
		"id": "chap_1", "title": "t", "questions": []any{map[string]any{
			"id": "q_1", "type": "MCQ", "text": "?", "options": []string{"a"}, "correctIndex": 4,
		}},
	}}}
	if code := do(t, srv, http.MethodPost, "/api/subjects", bad, nil); code != http.StatusBadRequest {
		t.Fatalf("invalid MCQ status = %d, want 400", code)
	}

	unknown := map[string]any{"id": "sub_3", "name": "Bad", "chapters": []any{map[string]any{
		"id": "chap_1", "title": "t", "questions": []any{map[string]any{"id": "q_1", "type": "ESSAY"}},
	}}}
	if code := do(t, srv, http.MethodPost, "/api/subjects", unknown, nil); code != http.StatusBadRequest {
		t.Fatalf("unknown question type status = %d, want 400", code)
	}
}

func TestStudentFlow(t *testing.T) {
	srv := newServer(t, false)

	type studentResp struct {
		ID      string                  `json:"id"`
		Email   string                  `json:"email"`
		Results []curriculum.QuizResult `json:"results"`
		Msg     string                  `json:"msg"`
	}

	var reg studentResp
	if code := do(t, srv, http.MethodPost, "/api/auth/register",
		map[string]string{"name": "Alice", "email": "alice@example.com", "password": "pw"}, &reg); code != http.StatusOK {
		t.Fatalf("register status = %d", code)
	}

	var dup studentResp
	if code := do(t, srv, http.MethodPost, "/api/auth/register",
		map[string]string{"name": "Alice", "email": "alice@example.com", "password": "pw"}, &dup); code != http.StatusBadRequest {
		t.Fatalf("duplicate register status = %d, want 400", code)
	}
	if dup.Msg != "User already exists" {
		t.Errorf("msg = %q", dup.Msg)
	}

	var wrong studentResp
	if code := do(t, srv, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "alice@example.com", "password": "bad"}, &wrong); code != http.StatusBadRequest {
		t.Fatalf("wrong password status = %d, want 400", code)
	}
	if wrong.Msg != "Invalid Credentials" {
		t.Errorf("msg = %q", wrong.Msg)
	}

	var ok studentResp
	if code := do(t, srv, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "alice@example.com", "password": "pw"}, &ok); code != http.StatusOK {
		t.Fatalf("login status = %d", code)
	}
	if ok.Results == nil || len(ok.Results) != 0 {
		t.Errorf("results = %v, want []", ok.Results)
	}

	result := curriculum.QuizResult{
		ID: "res_1", SubjectID: "sub_1", ChapterID: "chap_1",
		Score: 4, TotalQuestions: 5, Percentage: 80,
		Date: "2025-01-02T03:04:05.000Z", Mode: curriculum.ModeExam,
	}
	var results []curriculum.QuizResult
	if code := do(t, srv, http.MethodPost, "/api/student/results",
		map[string]any{"email": "alice@example.com", "result": result}, &results); code != http.StatusOK {
		t.Fatalf("save result status = %d", code)
	}
	if len(results) != 1 || results[0] != result {
		t.Fatalf("results = %+v", results)
	}

	var missing map[string]string
	if code := do(t, srv, http.MethodPost, "/api/student/results",
		map[string]any{"email": "ghost@example.com", "result": result}, &missing); code != http.StatusNotFound {
		t.Fatalf("unknown student status = %d, want 404", code)
	}
	if missing["msg"] != "Student not found" {
		t.Errorf("msg = %q", missing["msg"])
	}
}

func TestAdminGate(t *testing.T) {
	srv := newServer(t, false)

	type loginResp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		Msg     string `json:"msg"`
	}

	var bad loginResp
	if code := do(t, srv, http.MethodPost, "/api/admin/login", map[string]string{"passcode": "nope"}, &bad); code != http.StatusUnauthorized {
		t.Fatalf("bad passcode status = %d, want 401", code)
	}
	if bad.Success || bad.Msg != "Invalid passcode" {
		t.Errorf("unexpected body: %+v", bad)
	}

	var good loginResp
	if code := do(t, srv, http.MethodPost, "/api/admin/login", map[string]string{"passcode": "admin123"}, &good); code != http.StatusOK {
		t.Fatalf("default passcode status = %d", code)
	}
	if !good.Success || good.Token == "" {
		t.Errorf("unexpected body: %+v", good)
	}

	var upd map[string]any
	if code := do(t, srv, http.MethodPost, "/api/admin/update-passcode", map[string]string{"newPasscode": "9999"}, &upd); code != http.StatusOK {
		t.Fatalf("update status = %d", code)
	}
	if upd["success"] != true || upd["msg"] != "Passcode updated" {
		t.Errorf("unexpected body: %+v", upd)
	}

	if code := do(t, srv, http.MethodPost, "/api/admin/login", map[string]string{"passcode": "admin123"}, nil); code != http.StatusUnauthorized {
		t.Fatalf("old passcode status = %d, want 401", code)
	}
	if code := do(t, srv, http.MethodPost, "/api/admin/login", map[string]string{"passcode": "9999"}, nil); code != http.StatusOK {
		t.Fatalf("new passcode status = %d, want 200", code)
	}
}

func TestOverlongSecretsAreBadRequests(t *testing.T) {
	srv := newServer(t, false)
	long := strings.Repeat("a", 80)
	multiByte := strings.Repeat("€", 25)

	cases := []struct {
		name string
		path string
		body map[string]string
	}{
		{"RegisterASCII", "/api/auth/register", map[string]string{"name": "Bob", "email": "bob@example.com", "password": long}},
		{"RegisterMultiByte", "/api/auth/register", map[string]string{"name": "Bob", "email": "bob@example.com", "password": multiByte}},
		{"PasscodeASCII", "/api/admin/update-passcode", map[string]string{"newPasscode": long}},
		{"PasscodeMultiByte", "/api/admin/update-passcode", map[string]string{"newPasscode": multiByte}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body map[string]any
			if code := do(t, srv, http.MethodPost, tc.path, tc.body, &body); code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", code)
			}
			if msg, _ := body["msg"].(string); msg == "" {
				t.Errorf("missing msg in %+v", body)
			}
		})
	}

	if code := do(t, srv, http.MethodPost, "/api/admin/login", map[string]string{"passcode": "admin123"}, nil); code != http.StatusOK {
		t.Fatalf("default passcode should survive rejected updates, got %d", code)
	}
}

func TestAdminTokenGuard(t *testing.T) {
	srv := newServer(t, true)

	sub := map[string]any{"id": "sub_1", "name": "Physics"}
	if code := do(t, srv, http.MethodPost, "/api/subjects", sub, nil); code != http.StatusUnauthorized {
		t.Fatalf("unguarded create status = %d, want 401", code)
	}
	if code := do(t, srv, http.MethodGet, "/api/subjects", nil, nil); code != http.StatusOK {
		t.Fatalf("list should stay public, got %d", code)
	}

	var login struct {
		Token string `json:"token"`
	}
	if code := do(t, srv, http.MethodPost, "/api/admin/login", map[string]string{"passcode": "admin123"}, &login); code != http.StatusOK {
		t.Fatalf("admin login status = %d", code)
	}
	if code := doWithToken(t, srv, http.MethodPost, "/api/subjects", login.Token, sub, nil); code != http.StatusOK {
		t.Fatalf("guarded create status = %d, want 200", code)
	}
}

func TestRootLiveness(t *testing.T) {
	srv := newServer(t, false)

	resp, err := srv.Client().Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode != http.StatusOK || buf.String() != "PrepMate API is running" {
		t.Fatalf("GET / = %d %q", resp.StatusCode, buf.String())
	}
}
