package view

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edusenior/eduterm/internal/models"
	appErrors "github.com/edusenior/eduterm/pkg/errors"
)

type fakeRosterClient struct {
	classes    []models.ClassGroup
	classesErr error

	students        []models.Student
	studentsErr     error
	studentsCalls   int
	assignments     []models.Assignment
	assignmentsErr  error
	assignmentCalls int

	removeErr   error
	removedIDs  []int64
	addedResult *models.AddStudentsResult
	addedIDs    []int64

	searchResult []models.Student

	createResult *models.CreateAssignmentResult
	createErr    error
}

func (f *fakeRosterClient) ListClasses(ctx context.Context) ([]models.ClassGroup, error) {
	return f.classes, f.classesErr
}

func (f *fakeRosterClient) ListClassStudents(ctx context.Context, classID int64) ([]models.Student, error) {
	f.studentsCalls++
	return f.students, f.studentsErr
}

func (f *fakeRosterClient) AddStudents(ctx context.Context, classID int64, studentIDs []int64) (*models.AddStudentsResult, error) {
	f.addedIDs = append(f.addedIDs, studentIDs...)
	return f.addedResult, nil
}

func (f *fakeRosterClient) RemoveStudent(ctx context.Context, classID, studentID int64) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removedIDs = append(f.removedIDs, studentID)
	return nil
}

func (f *fakeRosterClient) SearchUsers(ctx context.Context, query string) ([]models.Student, error) {
	return f.searchResult, nil
}

func (f *fakeRosterClient) ListAssignments(ctx context.Context, classID int64) ([]models.Assignment, error) {
	f.assignmentCalls++
	return f.assignments, f.assignmentsErr
}

func (f *fakeRosterClient) CreateAssignment(ctx context.Context, classID int64, req models.CreateAssignmentRequest) (*models.CreateAssignmentResult, error) {
	return f.createResult, f.createErr
}

func newLoadedRoster(t *testing.T, client *fakeRosterClient) *RosterView {
	t.Helper()
	roster := NewRosterView(client, 1, nil)
	require.NoError(t, roster.Load(context.Background()))
	return roster
}

func classFixture() []models.ClassGroup {
	return []models.ClassGroup{
		{ID: 1, ClassName: "Math 7A", TeacherID: 3},
		{ID: 2, ClassName: "Math 7B", TeacherID: 3},
	}
}

func TestRosterLoadResolvesClassFromList(t *testing.T) {
	client := &fakeRosterClient{classes: classFixture()}
	roster := newLoadedRoster(t, client)

	snap := roster.Snapshot()
	require.NotNil(t, snap.Class)
	require.Equal(t, "Math 7A", snap.Class.ClassName)
	require.False(t, snap.ClassNotFound)
	require.Equal(t, 0, client.studentsCalls, "students are fetched lazily")
}

func TestRosterLoadClassNotFound(t *testing.T) {
	client := &fakeRosterClient{classes: classFixture()}
	roster := NewRosterView(client, 42, nil)

	err := roster.Load(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrClassNotFound.Code, appErr.Code)

	snap := roster.Snapshot()
	require.True(t, snap.ClassNotFound)
	require.Nil(t, snap.Class)

	// A missing class issues no roster fetches.
	require.Error(t, roster.ActivateTab(context.Background(), RosterTabStudents))
	require.Equal(t, 0, client.studentsCalls)
}

func TestRosterLoadNetworkErrorIsNotNotFound(t *testing.T) {
	client := &fakeRosterClient{classesErr: appErrors.Unreachable(nil)}
	roster := NewRosterView(client, 1, nil)

	require.Error(t, roster.Load(context.Background()))
	snap := roster.Snapshot()
	require.False(t, snap.ClassNotFound)
	require.Equal(t, PhaseError, snap.ClassState.Phase)
}

func TestRosterTabsFetchLazilyOnce(t *testing.T) {
	client := &fakeRosterClient{
		classes:     classFixture(),
		students:    []models.Student{{ID: 10, Name: "Ann"}},
		assignments: []models.Assignment{{AssignmentID: 1, SetID: 4, Title: "Fractions"}},
	}
	roster := newLoadedRoster(t, client)
	ctx := context.Background()

	require.NoError(t, roster.ActivateTab(ctx, RosterTabStudents))
	require.NoError(t, roster.ActivateTab(ctx, RosterTabAssignments))
	require.NoError(t, roster.ActivateTab(ctx, RosterTabStudents))
	require.NoError(t, roster.ActivateTab(ctx, RosterTabAssignments))

	require.Equal(t, 1, client.studentsCalls)
	require.Equal(t, 1, client.assignmentCalls)

	snap := roster.Snapshot()
	require.Len(t, snap.Students, 1)
	require.Len(t, snap.Assignments, 1)
}

func TestRosterPanelErrorsAreIndependent(t *testing.T) {
	client := &fakeRosterClient{
		classes:        classFixture(),
		students:       []models.Student{{ID: 10, Name: "Ann"}},
		assignmentsErr: appErrors.RequestFailed(http.StatusInternalServerError, "boom"),
	}
	roster := newLoadedRoster(t, client)
	ctx := context.Background()

	require.NoError(t, roster.ActivateTab(ctx, RosterTabStudents))
	require.Error(t, roster.ActivateTab(ctx, RosterTabAssignments))

	snap := roster.Snapshot()
	require.Equal(t, PhaseIdle, snap.StudentsState.Phase)
	require.Equal(t, PhaseError, snap.AssignmentsState.Phase)
	require.Equal(t, "boom", snap.AssignmentsState.Message)
	require.Len(t, snap.Students, 1, "the students panel keeps its data")
}

func TestRemoveStudentHappyPath(t *testing.T) {
	client := &fakeRosterClient{
		classes:  classFixture(),
		students: []models.Student{{ID: 10, Name: "Ann"}, {ID: 11, Name: "Ben"}},
	}
	roster := newLoadedRoster(t, client)
	ctx := context.Background()
	require.NoError(t, roster.ActivateTab(ctx, RosterTabStudents))

	require.NoError(t, roster.RequestRemove(11))
	snap := roster.Snapshot()
	require.Equal(t, RemoveConfirming, snap.Remove.Phase)
	require.Equal(t, "Ben", snap.Remove.Target.Name)
	require.Len(t, snap.Students, 2, "no optimistic removal while confirming")

	require.NoError(t, roster.ConfirmRemove(ctx))
	require.Equal(t, []int64{11}, client.removedIDs)
	require.Equal(t, RemoveIdle, roster.Snapshot().Remove.Phase)
	require.Equal(t, 2, client.studentsCalls, "success re-fetches the roster")
}

func TestRemoveStudentFailureParksInFailed(t *testing.T) {
	client := &fakeRosterClient{
		classes:   classFixture(),
		students:  []models.Student{{ID: 10, Name: "Ann"}},
		removeErr: appErrors.RequestFailed(http.StatusNotFound, "Student is not enrolled in this class"),
	}
	roster := newLoadedRoster(t, client)
	ctx := context.Background()
	require.NoError(t, roster.ActivateTab(ctx, RosterTabStudents))

	require.NoError(t, roster.RequestRemove(10))
	require.Error(t, roster.ConfirmRemove(ctx))

	snap := roster.Snapshot()
	require.Equal(t, RemoveFailed, snap.Remove.Phase)
	require.Equal(t, "Student is not enrolled in this class", snap.Remove.Message)
	require.Len(t, snap.Students, 1, "the roster row survives a failed removal")
	require.Equal(t, 1, client.studentsCalls, "no re-fetch on failure")

	roster.AcknowledgeRemoveFailure()
	require.Equal(t, RemoveIdle, roster.Snapshot().Remove.Phase)
}

func TestRemoveStudentRequiresRosterMembership(t *testing.T) {
	client := &fakeRosterClient{
		classes:  classFixture(),
		students: []models.Student{{ID: 10, Name: "Ann"}},
	}
	roster := newLoadedRoster(t, client)
	require.NoError(t, roster.ActivateTab(context.Background(), RosterTabStudents))

	require.Error(t, roster.RequestRemove(999))
	require.Equal(t, RemoveIdle, roster.Snapshot().Remove.Phase)
}

func TestRemoveStudentCancel(t *testing.T) {
	client := &fakeRosterClient{
		classes:  classFixture(),
		students: []models.Student{{ID: 10, Name: "Ann"}},
	}
	roster := newLoadedRoster(t, client)
	require.NoError(t, roster.ActivateTab(context.Background(), RosterTabStudents))

	require.NoError(t, roster.RequestRemove(10))
	roster.CancelRemove()
	require.Equal(t, RemoveIdle, roster.Snapshot().Remove.Phase)
	require.Empty(t, client.removedIDs)
}

func TestAddStudentsRefreshesRoster(t *testing.T) {
	client := &fakeRosterClient{
		classes:     classFixture(),
		students:    []models.Student{{ID: 10, Name: "Ann"}},
		addedResult: &models.AddStudentsResult{Added: []int64{11}, Message: "Added 1 student(s)"},
	}
	roster := newLoadedRoster(t, client)
	ctx := context.Background()
	require.NoError(t, roster.ActivateTab(ctx, RosterTabStudents))

	result, err := roster.AddStudents(ctx, []int64{11})
	require.NoError(t, err)
	require.Equal(t, "Added 1 student(s)", result.Message)
	require.Equal(t, []int64{11}, client.addedIDs)
	require.Equal(t, 2, client.studentsCalls)
}

func TestAddStudentsRejectsEmptySelection(t *testing.T) {
	client := &fakeRosterClient{classes: classFixture()}
	roster := newLoadedRoster(t, client)

	_, err := roster.AddStudents(context.Background(), nil)
	require.Error(t, err)
	require.Empty(t, client.addedIDs)
}

func TestCreateAssignmentRefreshesAssignments(t *testing.T) {
	client := &fakeRosterClient{
		classes:      classFixture(),
		createResult: &models.CreateAssignmentResult{Message: "Study set assigned to class successfully", AssignmentID: 9},
	}
	roster := newLoadedRoster(t, client)

	result, err := roster.CreateAssignment(context.Background(), 4, "")
	require.NoError(t, err)
	require.Equal(t, int64(9), result.AssignmentID)
	require.Equal(t, 1, client.assignmentCalls)
}

func TestExportRosterCSV(t *testing.T) {
	client := &fakeRosterClient{
		classes:  classFixture(),
		students: []models.Student{{ID: 10, Name: "Ann", Email: "ann@example.com"}},
	}
	roster := newLoadedRoster(t, client)
	require.NoError(t, roster.ActivateTab(context.Background(), RosterTabStudents))

	data, err := roster.ExportRoster("csv")
	require.NoError(t, err)
	require.Contains(t, string(data), "ann@example.com")

	_, err = roster.ExportRoster("xlsx")
	require.Error(t, err)
}

func TestExportRosterRequiresLoadedStudents(t *testing.T) {
	client := &fakeRosterClient{classes: classFixture()}
	roster := newLoadedRoster(t, client)

	_, err := roster.ExportRoster("csv")
	require.Error(t, err)
}
