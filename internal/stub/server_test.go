package stub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/edusenior/eduterm/internal/models"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := OpenStore(filepath.Join(t.TempDir(), "stub.db"))
	require.NoError(t, err)

	tokens := NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	srv := httptest.NewServer(NewServer(store, tokens, nil).Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func registerAndLogin(t *testing.T, srv *httptest.Server, role, email string) string {
	t.Helper()

	status := doJSON(t, srv, http.MethodPost, "/auth/register", "", map[string]any{
		"email": email, "password": "secret123", "full_name": "User " + email, "role": role,
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var pair models.TokenPair
	status = doJSON(t, srv, http.MethodPost, "/auth/login", "", map[string]any{
		"email": email, "password": "secret123",
	}, &pair)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "bearer", pair.TokenType)
	require.NotEmpty(t, pair.RefreshToken)
	return pair.AccessToken
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)
	token := registerAndLogin(t, srv, "teacher", "t@example.com")

	var profile models.Profile
	status := doJSON(t, srv, http.MethodGet, "/auth/me", token, nil, &profile)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "t@example.com", profile.Email)
	require.Equal(t, models.RoleTeacher, profile.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv, "teacher", "t@example.com")

	var errBody map[string]string
	status := doJSON(t, srv, http.MethodPost, "/auth/register", "", map[string]any{
		"email": "t@example.com", "password": "secret123", "full_name": "Again", "role": "teacher",
	}, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Email already registered", errBody["detail"])
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newTestServer(t)
	registerAndLogin(t, srv, "student", "s@example.com")

	var errBody map[string]string
	status := doJSON(t, srv, http.MethodPost, "/auth/login", "", map[string]any{
		"email": "s@example.com", "password": "wrong-password",
	}, &errBody)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid credentials", errBody["detail"])
}

func TestStudySetsRequireAuth(t *testing.T) {
	srv := newTestServer(t)
	var errBody map[string]string
	status := doJSON(t, srv, http.MethodGet, "/study-sets", "", nil, &errBody)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Not authenticated", errBody["detail"])
}

func createSet(t *testing.T, srv *httptest.Server, token string, req map[string]any) models.StudySet {
	t.Helper()
	var set models.StudySet
	status := doJSON(t, srv, http.MethodPost, "/study-sets", token, req, &set)
	require.Equal(t, http.StatusCreated, status)
	return set
}

func TestStudySetVisibilityByRole(t *testing.T) {
	srv := newTestServer(t)
	teacher := registerAndLogin(t, srv, "teacher", "t@example.com")
	student := registerAndLogin(t, srv, "student", "s@example.com")

	createSet(t, srv, teacher, map[string]any{
		"title": "Private set", "subject": "Math", "type": "Flashcards",
	})
	createSet(t, srv, student, map[string]any{
		"title": "Student set", "subject": "Math", "type": "Quiz",
	})

	var teacherSets []models.StudySet
	doJSON(t, srv, http.MethodGet, "/study-sets", teacher, nil, &teacherSets)
	require.Len(t, teacherSets, 1, "teachers see their own and shared sets only")

	var studentSets []models.StudySet
	doJSON(t, srv, http.MethodGet, "/study-sets", student, nil, &studentSets)
	require.Len(t, studentSets, 1)
	require.Equal(t, "Student set", studentSets[0].Title)
}

func TestStudySetFilters(t *testing.T) {
	srv := newTestServer(t)
	teacher := registerAndLogin(t, srv, "teacher", "t@example.com")

	createSet(t, srv, teacher, map[string]any{
		"title": "Algebra basics", "subject": "Math", "type": "Flashcards",
	})
	createSet(t, srv, teacher, map[string]any{
		"title": "Cell biology", "subject": "Biology", "type": "Quiz",
	})

	var sets []models.StudySet
	doJSON(t, srv, http.MethodGet, "/study-sets?search=algebra", teacher, nil, &sets)
	require.Len(t, sets, 1)
	require.Equal(t, "Algebra basics", sets[0].Title)

	doJSON(t, srv, http.MethodGet, "/study-sets?subject=Biology", teacher, nil, &sets)
	require.Len(t, sets, 1)

	doJSON(t, srv, http.MethodGet, "/study-sets?type=Quiz", teacher, nil, &sets)
	require.Len(t, sets, 1)
	require.Equal(t, "Cell biology", sets[0].Title)

	doJSON(t, srv, http.MethodGet, "/study-sets?sort=a-z", teacher, nil, &sets)
	require.Len(t, sets, 2)
	require.Equal(t, "Algebra basics", sets[0].Title)
}

func TestUpdateStudySetPermission(t *testing.T) {
	srv := newTestServer(t)
	owner := registerAndLogin(t, srv, "teacher", "owner@example.com")
	other := registerAndLogin(t, srv, "teacher", "other@example.com")

	set := createSet(t, srv, owner, map[string]any{
		"title": "Mine", "subject": "Math", "type": "Flashcards",
	})

	var errBody map[string]string
	status := doJSON(t, srv, http.MethodPut, fmt.Sprintf("/study-sets/%d", set.ID), other,
		map[string]any{"title": "Hijacked"}, &errBody)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "You don't have permission to edit this study set", errBody["detail"])

	var updated models.StudySet
	status = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/study-sets/%d", set.ID), owner,
		map[string]any{"title": "Renamed"}, &updated)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Renamed", updated.Title)
}

func TestOfflineToggle(t *testing.T) {
	srv := newTestServer(t)
	teacher := registerAndLogin(t, srv, "teacher", "t@example.com")

	set := createSet(t, srv, teacher, map[string]any{
		"title": "Downloadable", "subject": "Math", "type": "Flashcards",
	})

	status := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/study-sets/%d/offline", set.ID), teacher, nil, nil)
	require.Equal(t, http.StatusOK, status)
	// Marking twice is idempotent.
	status = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/study-sets/%d/offline", set.ID), teacher, nil, nil)
	require.Equal(t, http.StatusOK, status)

	var sets []models.StudySet
	doJSON(t, srv, http.MethodGet, "/study-sets", teacher, nil, &sets)
	require.True(t, sets[0].IsDownloaded)

	status = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/study-sets/%d/offline", set.ID), teacher, nil, nil)
	require.Equal(t, http.StatusOK, status)

	doJSON(t, srv, http.MethodGet, "/study-sets", teacher, nil, &sets)
	require.False(t, sets[0].IsDownloaded)
}

func createClass(t *testing.T, srv *httptest.Server, token, name string) models.ClassGroup {
	t.Helper()
	var class models.ClassGroup
	status := doJSON(t, srv, http.MethodPost, "/study-sets/classes", token, map[string]any{
		"class_name": name, "subject": "Math",
	}, &class)
	require.Equal(t, http.StatusCreated, status)
	return class
}

func TestOnlyTeachersCreateClasses(t *testing.T) {
	srv := newTestServer(t)
	student := registerAndLogin(t, srv, "student", "s@example.com")

	var errBody map[string]string
	status := doJSON(t, srv, http.MethodPost, "/study-sets/classes", student, map[string]any{
		"class_name": "Sneaky", "subject": "Math",
	}, &errBody)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "Only teachers can create classes", errBody["detail"])
}

func TestRosterLifecycle(t *testing.T) {
	srv := newTestServer(t)
	teacher := registerAndLogin(t, srv, "teacher", "t@example.com")
	registerAndLogin(t, srv, "student", "ann@example.com")

	var me models.Profile
	doJSON(t, srv, http.MethodGet, "/auth/me", teacher, nil, &me)

	class := createClass(t, srv, teacher, "Math 7A")

	var found []models.Student
	status := doJSON(t, srv, http.MethodGet, "/study-sets/users/search?query=ann", teacher, nil, &found)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, found, 1)
	annID := found[0].ID

	var addResult models.AddStudentsResult
	path := fmt.Sprintf("/study-sets/classes/%d/students", class.ID)
	status = doJSON(t, srv, http.MethodPost, path, teacher, map[string]any{
		"student_ids": []int64{annID},
	}, &addResult)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []int64{annID}, addResult.Added)
	require.Equal(t, "Added 1 student(s)", addResult.Message)

	// Adding the same student again surfaces a per-student error.
	status = doJSON(t, srv, http.MethodPost, path, teacher, map[string]any{
		"student_ids": []int64{annID},
	}, &addResult)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, addResult.Added)
	require.Len(t, addResult.Errors, 1)
	require.Equal(t, "Added 0 student(s), 1 error(s)", addResult.Message)

	var roster []models.Student
	doJSON(t, srv, http.MethodGet, path, teacher, nil, &roster)
	require.Len(t, roster, 1)

	status = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("%s/%d", path, annID), teacher, nil, nil)
	require.Equal(t, http.StatusOK, status)

	var errBody map[string]string
	status = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("%s/%d", path, annID), teacher, nil, &errBody)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Student is not enrolled in this class", errBody["detail"])
}

func TestAssignmentsMakeSetsVisibleToStudents(t *testing.T) {
	srv := newTestServer(t)
	teacher := registerAndLogin(t, srv, "teacher", "t@example.com")
	student := registerAndLogin(t, srv, "student", "ann@example.com")

	class := createClass(t, srv, teacher, "Math 7A")

	var found []models.Student
	doJSON(t, srv, http.MethodGet, "/study-sets/users/search?query=ann", teacher, nil, &found)
	require.Len(t, found, 1)
	doJSON(t, srv, http.MethodPost, fmt.Sprintf("/study-sets/classes/%d/students", class.ID), teacher,
		map[string]any{"student_ids": []int64{found[0].ID}}, nil)

	set := createSet(t, srv, teacher, map[string]any{
		"title": "Fractions", "subject": "Math", "type": "Quiz",
	})

	var result models.CreateAssignmentResult
	status := doJSON(t, srv, http.MethodPost, fmt.Sprintf("/study-sets/classes/%d/assignments", class.ID), teacher,
		map[string]any{"set_id": set.ID}, &result)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "Study set assigned to class successfully", result.Message)

	// Assigning the same set twice is rejected.
	var errBody map[string]string
	status = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/study-sets/classes/%d/assignments", class.ID), teacher,
		map[string]any{"set_id": set.ID}, &errBody)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "This study set is already assigned to this class", errBody["detail"])

	var assignments []models.Assignment
	doJSON(t, srv, http.MethodGet, fmt.Sprintf("/study-sets/classes/%d/assignments", class.ID), teacher, nil, &assignments)
	require.Len(t, assignments, 1)
	require.Equal(t, "Fractions", assignments[0].Title)

	var studentSets []models.StudySet
	doJSON(t, srv, http.MethodGet, "/study-sets", student, nil, &studentSets)
	require.Len(t, studentSets, 1)
	require.True(t, studentSets[0].IsAssigned)

	doJSON(t, srv, http.MethodGet, "/study-sets?ownership=Assigned", student, nil, &studentSets)
	require.Len(t, studentSets, 1)
}

func TestSearchUsersExcludesTeachersAndCaller(t *testing.T) {
	srv := newTestServer(t)
	teacher := registerAndLogin(t, srv, "teacher", "smith@example.com")
	student := registerAndLogin(t, srv, "student", "smythe@example.com")

	var found []models.Student
	doJSON(t, srv, http.MethodGet, "/study-sets/users/search?query=sm", teacher, nil, &found)
	require.Len(t, found, 1, "teachers are never returned")

	doJSON(t, srv, http.MethodGet, "/study-sets/users/search?query=sm", student, nil, &found)
	require.Empty(t, found, "the caller is excluded from results")
}

func TestSearchUsersEmptyQuery(t *testing.T) {
	srv := newTestServer(t)
	teacher := registerAndLogin(t, srv, "teacher", "t@example.com")

	var errBody map[string]string
	status := doJSON(t, srv, http.MethodGet, "/study-sets/users/search", teacher, nil, &errBody)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "Query must not be empty", errBody["detail"])
}

func TestClassNotFound(t *testing.T) {
	srv := newTestServer(t)
	teacher := registerAndLogin(t, srv, "teacher", "t@example.com")

	var errBody map[string]string
	status := doJSON(t, srv, http.MethodGet, "/study-sets/classes/99/students", teacher, nil, &errBody)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Class not found", errBody["detail"])
}

func TestSanitizeStripsMarkup(t *testing.T) {
	srv := newTestServer(t)
	teacher := registerAndLogin(t, srv, "teacher", "t@example.com")

	set := createSet(t, srv, teacher, map[string]any{
		"title": "<script>alert(1)</script>Algebra", "subject": "Math", "type": "Flashcards",
	})
	require.Equal(t, "Algebra", set.Title)
}
