package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/classtrack/classtrack-back/internal/config"
	"github.com/classtrack/classtrack-back/internal/db"
)

func setupTest(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	g, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	db.DB = g
	require.NoError(t, db.Migrate())

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpire: time.Hour}
	return SetupRouter(cfg)
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func registerUser(t *testing.T, r *gin.Engine, name, email, role string) authResponse {
	rec := doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret1",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupTest(t)

	alice := registerUser(t, r, "Alice", "a@x.com", "student")
	assert.Equal(t, "Alice", alice.User.Name)
	assert.Equal(t, "student", alice.User.Role)

	// second registration with the same email is a conflict, never a
	// second account
	rec := doRequest(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Alice Again", "email": "a@x.com", "password": "secret2",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")

	rec = doRequest(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "a@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	// the password hash must never leak
	assert.NotContains(t, rec.Body.String(), "password")

	// wrong password and unknown email are indistinguishable
	wrongPwd := doRequest(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "a@x.com", "password": "wrong1",
	})
	unknown := doRequest(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "nobody@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongPwd.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.JSONEq(t, wrongPwd.Body.String(), unknown.Body.String())
}

func TestRegisterValidation(t *testing.T) {
	r := setupTest(t)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"email": "a@x.com", "password": "secret1"}},
		{"bad email", gin.H{"name": "A", "email": "not-an-email", "password": "secret1"}},
		{"short password", gin.H{"name": "A", "email": "a@x.com", "password": "abc"}},
		{"bad role", gin.H{"name": "A", "email": "a@x.com", "password": "secret1", "role": "principal"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, r, http.MethodPost, "/api/auth/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "errors")
		})
	}
}

func TestMe(t *testing.T) {
	r := setupTest(t)
	alice := registerUser(t, r, "Alice", "a@x.com", "student")

	rec := doRequest(t, r, http.MethodGet, "/api/auth/me", alice.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@x.com")

	rec = doRequest(t, r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttendanceFlow(t *testing.T) {
	r := setupTest(t)

	teacher := registerUser(t, r, "Ms Hill", "hill@x.com", "teacher")
	studentS := registerUser(t, r, "Sam", "sam@x.com", "student")
	studentT := registerUser(t, r, "Tess", "tess@x.com", "student")

	mark := gin.H{
		"student": studentS.User.ID,
		"date":    "2026-03-02T10:30:00Z",
		"status":  "present",
		"subject": "Math",
	}

	rec := doRequest(t, r, http.MethodPost, "/api/attendance", teacher.Token, mark)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// same student, same day (different time of day) is a conflict
	mark["date"] = "2026-03-02T15:00:00Z"
	mark["status"] = "late"
	rec = doRequest(t, r, http.MethodPost, "/api/attendance", teacher.Token, mark)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already marked")

	// next day is fine
	mark["date"] = "2026-03-03T10:30:00Z"
	rec = doRequest(t, r, http.MethodPost, "/api/attendance", teacher.Token, mark)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// students cannot mark attendance
	rec = doRequest(t, r, http.MethodPost, "/api/attendance", studentS.Token, mark)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// unauthenticated requests never reach the handler
	rec = doRequest(t, r, http.MethodGet, "/api/attendance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// students only see their own records
	rec = doRequest(t, r, http.MethodGet, "/api/attendance", studentS.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var own []struct {
		StudentID uint `json:"student_id"`
		Student   struct {
			Name string `json:"name"`
		} `json:"student"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &own))
	require.Len(t, own, 2)
	for _, a := range own {
		assert.Equal(t, studentS.User.ID, a.StudentID)
		assert.Equal(t, "Sam", a.Student.Name)
	}

	rec = doRequest(t, r, http.MethodGet, "/api/attendance", studentT.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	// teachers see everything
	rec = doRequest(t, r, http.MethodGet, "/api/attendance", teacher.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)
}

func TestMarksFlow(t *testing.T) {
	r := setupTest(t)

	teacher := registerUser(t, r, "Ms Hill", "hill@x.com", "teacher")
	studentS := registerUser(t, r, "Sam", "sam@x.com", "student")
	studentT := registerUser(t, r, "Tess", "tess@x.com", "student")

	rec := doRequest(t, r, http.MethodPost, "/api/marks", teacher.Token, gin.H{
		"student":     studentS.User.ID,
		"subject":     "Math",
		"exam_type":   "quiz",
		"marks":       8,
		"total_marks": 10,
		"date":        "2026-03-02T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// the uploader reference comes from the token, not the body
	var created struct {
		UploadedByID uint `json:"uploaded_by_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, teacher.User.ID, created.UploadedByID)

	// zero marks are valid
	rec = doRequest(t, r, http.MethodPost, "/api/marks", teacher.Token, gin.H{
		"student": studentS.User.ID, "subject": "Math", "exam_type": "final",
		"marks": 0, "total_marks": 100, "date": "2026-03-05T00:00:00Z",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// marks above total are accepted (only non-negativity is enforced)
	rec = doRequest(t, r, http.MethodPost, "/api/marks", teacher.Token, gin.H{
		"student": studentS.User.ID, "subject": "Math", "exam_type": "project",
		"marks": 12, "total_marks": 10, "date": "2026-03-06T00:00:00Z",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// negative marks are not
	rec = doRequest(t, r, http.MethodPost, "/api/marks", teacher.Token, gin.H{
		"student": studentS.User.ID, "subject": "Math", "exam_type": "quiz",
		"marks": -1, "total_marks": 10, "date": "2026-03-07T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/api/marks", studentS.Token, gin.H{
		"student": studentS.User.ID, "subject": "Math", "exam_type": "quiz",
		"marks": 10, "total_marks": 10, "date": "2026-03-08T00:00:00Z",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// student S sees exactly their records, student T sees none of them
	rec = doRequest(t, r, http.MethodGet, "/api/marks", studentS.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var own []struct {
		StudentID uint `json:"student_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &own))
	require.Len(t, own, 3)
	for _, m := range own {
		assert.Equal(t, studentS.User.ID, m.StudentID)
	}

	rec = doRequest(t, r, http.MethodGet, "/api/marks", studentT.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestMaterialsOwnership(t *testing.T) {
	r := setupTest(t)

	owner := registerUser(t, r, "Ms Hill", "hill@x.com", "teacher")
	other := registerUser(t, r, "Mr Cole", "cole@x.com", "teacher")
	student := registerUser(t, r, "Sam", "sam@x.com", "student")
	admin := registerUser(t, r, "Root", "root@x.com", "admin")

	upload := func() uint {
		rec := doRequest(t, r, http.MethodPost, "/api/materials", owner.Token, gin.H{
			"title":     "Algebra notes",
			"file_url":  "https://files.example.com/algebra.pdf",
			"file_name": "algebra.pdf",
			"file_type": "pdf",
			"subject":   "Math",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var m struct {
			ID uint `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
		return m.ID
	}

	id := upload()

	// everyone authenticated can list
	rec := doRequest(t, r, http.MethodGet, "/api/materials", student.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Algebra notes")

	// students cannot upload
	rec = doRequest(t, r, http.MethodPost, "/api/materials", student.Token, gin.H{
		"title": "x", "file_url": "https://x", "file_name": "x", "subject": "x",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// neither students nor unrelated teachers may delete
	rec = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/materials/%d", id), student.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/materials/%d", id), other.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// the uploader may
	rec = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/materials/%d", id), owner.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deleted")

	// and so may an admin who did not upload it
	id = upload()
	rec = doRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/materials/%d", id), admin.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// unknown ids are 404
	rec = doRequest(t, r, http.MethodDelete, "/api/materials/99999", admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(t, r, http.MethodDelete, "/api/materials/not-a-number", admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReportExport(t *testing.T) {
	r := setupTest(t)

	teacher := registerUser(t, r, "Ms Hill", "hill@x.com", "teacher")
	student := registerUser(t, r, "Sam", "sam@x.com", "student")

	rec := doRequest(t, r, http.MethodPost, "/api/marks", teacher.Token, gin.H{
		"student": student.User.ID, "subject": "Math", "exam_type": "quiz",
		"marks": 8, "total_marks": 10, "date": "2026-03-02T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/api/reports/export", teacher.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())

	rec = doRequest(t, r, http.MethodGet, "/api/reports/export", student.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
