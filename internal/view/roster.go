package view

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/edusenior/eduterm/internal/models"
	appErrors "github.com/edusenior/eduterm/pkg/errors"
	"github.com/edusenior/eduterm/pkg/export"
)

// RosterTab selects a panel of the class view.
type RosterTab string

const (
	RosterTabStudents    RosterTab = "Students"
	RosterTabAssignments RosterTab = "Assignments"
	RosterTabLeaderboard RosterTab = "Leaderboard"
	RosterTabAnalytics   RosterTab = "Analytics"
)

// RemovePhase tracks the remove-student interaction. The flow is
// Idle -> Confirming -> InFlight -> Idle on success or Failed on error;
// the confirmation state is only left once the call has settled.
type RemovePhase int

const (
	RemoveIdle RemovePhase = iota
	RemoveConfirming
	RemoveInFlight
	RemoveFailed
)

// RemoveState is the remove-student state machine's current position.
type RemoveState struct {
	Phase   RemovePhase
	Target  *models.Student
	Message string
}

type rosterClient interface {
	ListClasses(ctx context.Context) ([]models.ClassGroup, error)
	ListClassStudents(ctx context.Context, classID int64) ([]models.Student, error)
	AddStudents(ctx context.Context, classID int64, studentIDs []int64) (*models.AddStudentsResult, error)
	RemoveStudent(ctx context.Context, classID, studentID int64) error
	SearchUsers(ctx context.Context, query string) ([]models.Student, error)
	ListAssignments(ctx context.Context, classID int64) ([]models.Assignment, error)
	CreateAssignment(ctx context.Context, classID int64, req models.CreateAssignmentRequest) (*models.CreateAssignmentResult, error)
}

// RosterView owns one class's student and assignment lists. Students and
// assignments are fetched lazily on first tab activation, each with its own
// loading flag, and re-fetched after every mutation.
type RosterView struct {
	client rosterClient
	logger *zap.Logger

	mu      sync.Mutex
	classID int64
	class   *models.ClassGroup
	// notFound distinguishes "id missing from the class list" from a
	// network failure; it suppresses all further fetches.
	notFound   bool
	classState LoadState

	tab RosterTab

	students       []models.Student
	studentsState  LoadState
	studentsLoaded bool

	assignments       []models.Assignment
	assignmentsState  LoadState
	assignmentsLoaded bool

	remove RemoveState
}

// RosterSnapshot is an immutable copy of the roster state for rendering.
type RosterSnapshot struct {
	Class            *models.ClassGroup
	ClassState       LoadState
	ClassNotFound    bool
	Tab              RosterTab
	Students         []models.Student
	StudentsState    LoadState
	Assignments      []models.Assignment
	AssignmentsState LoadState
	Remove           RemoveState
}

// NewRosterView builds a roster view for one class id.
func NewRosterView(client rosterClient, classID int64, logger *zap.Logger) *RosterView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterView{
		client:  client,
		logger:  logger,
		classID: classID,
		tab:     RosterTabStudents,
	}
}

// Load resolves the class by scanning the full class list; the collaborator
// offers no fetch-by-id endpoint, so the lookup is O(n) over classes visible
// to the user and shares that list's staleness window. A missing id is the
// distinct "class not found" condition, not a network error, and issues no
// student or assignment fetch.
func (v *RosterView) Load(ctx context.Context) error {
	v.mu.Lock()
	v.classState = LoadState{Phase: PhaseLoading}
	v.mu.Unlock()

	classes, err := v.client.ListClasses(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.classState = LoadState{Phase: PhaseError, Message: appErrors.FromError(err).Message}
		return err
	}
	for i := range classes {
		if classes[i].ID == v.classID {
			class := classes[i]
			v.class = &class
			v.classState = LoadState{Phase: PhaseIdle}
			return nil
		}
	}
	v.notFound = true
	v.classState = LoadState{Phase: PhaseError, Message: appErrors.ErrClassNotFound.Message}
	return appErrors.Clone(appErrors.ErrClassNotFound, fmt.Sprintf("class %d not found", v.classID))
}

// ActivateTab switches panels, triggering the first students or assignments
// fetch when that tab becomes active for the first time. Leaderboard and
// Analytics are placeholders and fetch nothing.
func (v *RosterView) ActivateTab(ctx context.Context, tab RosterTab) error {
	v.mu.Lock()
	if v.class == nil {
		v.mu.Unlock()
		if v.notFound {
			return appErrors.ErrClassNotFound
		}
		return appErrors.Clone(appErrors.ErrInternal, "class is not loaded")
	}
	v.tab = tab
	fetchStudents := tab == RosterTabStudents && !v.studentsLoaded
	fetchAssignments := tab == RosterTabAssignments && !v.assignmentsLoaded
	v.mu.Unlock()

	if fetchStudents {
		return v.RefreshStudents(ctx)
	}
	if fetchAssignments {
		return v.RefreshAssignments(ctx)
	}
	return nil
}

// RefreshStudents re-fetches the enrollment roster.
func (v *RosterView) RefreshStudents(ctx context.Context) error {
	v.mu.Lock()
	v.studentsState = LoadState{Phase: PhaseLoading}
	v.mu.Unlock()

	students, err := v.client.ListClassStudents(ctx, v.classID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.studentsState = LoadState{Phase: PhaseError, Message: appErrors.FromError(err).Message}
		return err
	}
	v.students = students
	v.studentsLoaded = true
	v.studentsState = LoadState{Phase: PhaseIdle}
	return nil
}

// RefreshAssignments re-fetches the assignment list.
func (v *RosterView) RefreshAssignments(ctx context.Context) error {
	v.mu.Lock()
	v.assignmentsState = LoadState{Phase: PhaseLoading}
	v.mu.Unlock()

	assignments, err := v.client.ListAssignments(ctx, v.classID)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.assignmentsState = LoadState{Phase: PhaseError, Message: appErrors.FromError(err).Message}
		return err
	}
	v.assignments = assignments
	v.assignmentsLoaded = true
	v.assignmentsState = LoadState{Phase: PhaseIdle}
	return nil
}

// RequestRemove captures the target and asks for confirmation. The roster
// row is never removed before the server call succeeds.
func (v *RosterView) RequestRemove(studentID int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.remove.Phase != RemoveIdle {
		return appErrors.Clone(appErrors.ErrValidation, "a removal is already in progress")
	}
	for i := range v.students {
		if v.students[i].ID == studentID {
			target := v.students[i]
			v.remove = RemoveState{Phase: RemoveConfirming, Target: &target}
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, "student "+strconv.FormatInt(studentID, 10)+" is not in the roster")
}

// ConfirmRemove issues the removal. On success the student list is
// re-fetched; on failure the machine parks in Failed with the message, so
// the confirmation affordance only resolves after the call settles.
func (v *RosterView) ConfirmRemove(ctx context.Context) error {
	v.mu.Lock()
	if v.remove.Phase != RemoveConfirming || v.remove.Target == nil {
		v.mu.Unlock()
		return appErrors.Clone(appErrors.ErrValidation, "no removal awaiting confirmation")
	}
	target := *v.remove.Target
	v.remove.Phase = RemoveInFlight
	v.mu.Unlock()

	err := v.client.RemoveStudent(ctx, v.classID, target.ID)

	v.mu.Lock()
	if err != nil {
		v.remove = RemoveState{Phase: RemoveFailed, Target: &target, Message: appErrors.FromError(err).Message}
		v.mu.Unlock()
		return err
	}
	v.remove = RemoveState{Phase: RemoveIdle}
	v.mu.Unlock()

	return v.RefreshStudents(ctx)
}

// CancelRemove abandons a pending confirmation.
func (v *RosterView) CancelRemove() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.remove.Phase == RemoveConfirming {
		v.remove = RemoveState{Phase: RemoveIdle}
	}
}

// AcknowledgeRemoveFailure returns the machine to Idle after the failure
// message has been shown.
func (v *RosterView) AcknowledgeRemoveFailure() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.remove.Phase == RemoveFailed {
		v.remove = RemoveState{Phase: RemoveIdle}
	}
}

// AddStudents is the add-students dialog's commit path: enroll the batch,
// then refresh the roster so server-side state is re-read.
func (v *RosterView) AddStudents(ctx context.Context, studentIDs []int64) (*models.AddStudentsResult, error) {
	if len(studentIDs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no students selected")
	}
	result, err := v.client.AddStudents(ctx, v.classID, studentIDs)
	if err != nil {
		return nil, err
	}
	if err := v.RefreshStudents(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// SearchUsers backs the add-students dialog's picker.
func (v *RosterView) SearchUsers(ctx context.Context, query string) ([]models.Student, error) {
	return v.client.SearchUsers(ctx, query)
}

// CreateAssignment is the add-assignment dialog's commit path.
func (v *RosterView) CreateAssignment(ctx context.Context, setID int64, dueDate string) (*models.CreateAssignmentResult, error) {
	result, err := v.client.CreateAssignment(ctx, v.classID, models.CreateAssignmentRequest{
		SetID:   setID,
		DueDate: dueDate,
	})
	if err != nil {
		return nil, err
	}
	if err := v.RefreshAssignments(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// ExportRoster renders the loaded student list as csv or pdf.
func (v *RosterView) ExportRoster(format string) ([]byte, error) {
	v.mu.Lock()
	if !v.studentsLoaded {
		v.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrValidation, "roster is not loaded")
	}
	data := export.Dataset{Headers: []string{"ID", "Name", "Email"}}
	for _, s := range v.students {
		data.Rows = append(data.Rows, map[string]string{
			"ID":    strconv.FormatInt(s.ID, 10),
			"Name":  s.Name,
			"Email": s.Email,
		})
	}
	title := "Class roster"
	if v.class != nil {
		title = v.class.ClassName + " roster"
	}
	v.mu.Unlock()

	return renderDataset(data, title, format)
}

// ExportAssignments renders the loaded assignment list as csv or pdf.
func (v *RosterView) ExportAssignments(format string) ([]byte, error) {
	v.mu.Lock()
	if !v.assignmentsLoaded {
		v.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrValidation, "assignments are not loaded")
	}
	data := export.Dataset{Headers: []string{"Study set", "Subject", "Type", "Due date"}}
	for _, a := range v.assignments {
		subject := ""
		if a.Subject != nil {
			subject = *a.Subject
		}
		due := "No due date"
		if a.DueDate != nil && !a.DueDate.IsZero() {
			due = a.DueDate.Format("2006-01-02")
		}
		data.Rows = append(data.Rows, map[string]string{
			"Study set": a.Title,
			"Subject":   subject,
			"Type":      a.Type,
			"Due date":  due,
		})
	}
	title := "Assignments"
	if v.class != nil {
		title = v.class.ClassName + " assignments"
	}
	v.mu.Unlock()

	return renderDataset(data, title, format)
}

func renderDataset(data export.Dataset, title, format string) ([]byte, error) {
	switch format {
	case "csv", "":
		return export.NewCSVExporter().Render(data)
	case "pdf":
		return export.NewPDFExporter().Render(data, title)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown export format: "+format)
	}
}

// Snapshot returns a copy of the state for rendering.
func (v *RosterView) Snapshot() RosterSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snap := RosterSnapshot{
		ClassState:       v.classState,
		ClassNotFound:    v.notFound,
		Tab:              v.tab,
		Students:         append([]models.Student(nil), v.students...),
		StudentsState:    v.studentsState,
		Assignments:      append([]models.Assignment(nil), v.assignments...),
		AssignmentsState: v.assignmentsState,
		Remove:           v.remove,
	}
	if v.class != nil {
		class := *v.class
		snap.Class = &class
	}
	return snap
}
