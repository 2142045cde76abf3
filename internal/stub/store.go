package stub

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/edusenior/eduterm/internal/models"
	appErrors "github.com/edusenior/eduterm/pkg/errors"
)

// userRecord is a platform account.
type userRecord struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	FullName     string
	Role         string
	CreatedAt    time.Time
}

type setRecord struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	Title       string
	Subject     string
	Type        string
	Level       string
	Description string
	CreatorID   int64
	IsShared    bool
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type tagRecord struct {
	ID    int64 `gorm:"primaryKey;autoIncrement"`
	SetID int64 `gorm:"index"`
	Tag   string
}

type questionRecord struct {
	ID            int64 `gorm:"primaryKey;autoIncrement"`
	SetID         int64 `gorm:"index"`
	Type          string
	Content       string
	CorrectAnswer string
	// Options holds multiple-choice options joined by newline; SQLite has
	// no array column and the stub never needs to query inside them.
	Options    string
	Term       string
	Definition string
}

type classRecord struct {
	ID          int64 `gorm:"primaryKey;autoIncrement"`
	ClassName   string
	TeacherID   int64 `gorm:"index"`
	Subject     string
	Level       string
	Description string
	CreatedAt   time.Time
}

type enrollmentRecord struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	ClassID   int64 `gorm:"index:idx_enrollment,unique"`
	StudentID int64 `gorm:"index:idx_enrollment,unique"`
}

type assignmentRecord struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	SetID      int64 `gorm:"index"`
	ClassID    int64 `gorm:"index"`
	AssignedBy int64
	DueDate    *time.Time
	CreatedAt  time.Time
}

type offlineRecord struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"index:idx_offline,unique"`
	SetID  int64 `gorm:"index:idx_offline,unique"`
}

type progressRecord struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	UserID       int64 `gorm:"index:idx_progress,unique"`
	SetID        int64 `gorm:"index:idx_progress,unique"`
	Mastery      float64
	LastActivity time.Time
}

// Store is the stub backend's persistence layer. All viewer-relative fields
// (is_assigned, is_downloaded, mastery, counts) are derived here so the
// client can treat them as server truth.
type Store struct {
	db       *gorm.DB
	sanitize *bluemonday.Policy
}

// OpenStore opens (and migrates) the SQLite database at path.
func OpenStore(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.AutoMigrate(
		&userRecord{}, &setRecord{}, &tagRecord{}, &questionRecord{},
		&classRecord{}, &enrollmentRecord{}, &assignmentRecord{},
		&offlineRecord{}, &progressRecord{},
	); err != nil {
		return nil, fmt.Errorf("migrate stub schema: %w", err)
	}
	return &Store{db: db, sanitize: bluemonday.StrictPolicy()}, nil
}

func detail(status int, message string) *appErrors.Error {
	return appErrors.New(appErrors.ErrRequestFailed.Code, status, message)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *Store) clean(text string) string {
	return strings.TrimSpace(s.sanitize.Sanitize(text))
}

// --- users ---

func (s *Store) CreateUser(email, passwordHash, fullName, role string) (*models.Profile, error) {
	var existing userRecord
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, detail(http.StatusBadRequest, "Email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := userRecord{
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     s.clean(fullName),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &models.Profile{ID: user.ID, Email: user.Email, FullName: user.FullName, Role: models.Role(user.Role)}, nil
}

func (s *Store) UserByEmail(email string) (*userRecord, error) {
	var user userRecord
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, detail(http.StatusUnauthorized, "Invalid credentials")
		}
		return nil, err
	}
	return &user, nil
}

// SearchStudents finds students matching the query by name or email,
// excluding the caller, capped at 20 rows.
func (s *Store) SearchStudents(query string, excludeID int64) ([]models.Student, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var users []userRecord
	err := s.db.
		Where("role = ? AND id <> ?", string(models.RoleStudent), excludeID).
		Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern).
		Order("full_name").
		Limit(20).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	students := make([]models.Student, 0, len(users))
	for _, u := range users {
		students = append(students, models.Student{ID: u.ID, Name: u.FullName, Email: u.Email})
	}
	return students, nil
}

// --- study sets ---

// ListStudySets applies role visibility, the server-side filters, and the
// sort key, then decorates each set with viewer-relative fields.
func (s *Store) ListStudySets(viewer *userRecord, filter models.StudySetFilter) ([]models.StudySet, error) {
	var records []setRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, err
	}

	enrolled, err := s.enrolledClassIDs(viewer.ID)
	if err != nil {
		return nil, err
	}
	assignedIDs, err := s.assignedSetIDs(enrolled)
	if err != nil {
		return nil, err
	}

	isStudent := viewer.Role == string(models.RoleStudent)
	out := make([]models.StudySet, 0, len(records))
	for _, rec := range records {
		if !s.visibleTo(rec, viewer, assignedIDs, isStudent) {
			continue
		}
		if !matchesFilter(rec, viewer, filter, assignedIDs) {
			continue
		}
		set, err := s.decorate(rec, viewer, assignedIDs, isStudent)
		if err != nil {
			return nil, err
		}
		out = append(out, *set)
	}

	s.applySort(out, viewer.ID, filter.Sort)
	return out, nil
}

func (s *Store) GetStudySet(viewer *userRecord, id int64) (*models.StudySet, error) {
	var rec setRecord
	if err := s.db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, detail(http.StatusNotFound, "Study set not found")
		}
		return nil, err
	}
	enrolled, err := s.enrolledClassIDs(viewer.ID)
	if err != nil {
		return nil, err
	}
	assignedIDs, err := s.assignedSetIDs(enrolled)
	if err != nil {
		return nil, err
	}
	return s.decorate(rec, viewer, assignedIDs, viewer.Role == string(models.RoleStudent))
}

func (s *Store) CreateStudySet(viewer *userRecord, req models.CreateStudySetRequest) (*models.StudySet, error) {
	isStudent := viewer.Role == string(models.RoleStudent)
	now := time.Now().UTC()
	rec := setRecord{
		Title:       s.clean(req.Title),
		Subject:     s.clean(req.Subject),
		Type:        req.Type,
		Level:       s.clean(req.Level),
		Description: s.clean(req.Description),
		CreatorID:   viewer.ID,
		// Students' sets are never shared; a teacher's set becomes shared
		// when it is created with an assignment.
		IsShared:  !isStudent && req.Assignment != nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, err
	}

	for _, tag := range req.Tags {
		if err := s.db.Create(&tagRecord{SetID: rec.ID, Tag: s.clean(tag)}).Error; err != nil {
			return nil, err
		}
	}

	if req.InitialItem != nil {
		if err := s.db.Create(initialQuestion(rec, req.InitialItem, s.sanitize)).Error; err != nil {
			return nil, err
		}
	}

	if req.Assignment != nil && req.Assignment.ClassID != 0 {
		assignment := assignmentRecord{
			SetID:      rec.ID,
			ClassID:    req.Assignment.ClassID,
			AssignedBy: viewer.ID,
			CreatedAt:  now,
		}
		if due, err := time.Parse(time.RFC3339, req.Assignment.DueDate); err == nil {
			assignment.DueDate = &due
		}
		if err := s.db.Create(&assignment).Error; err != nil {
			return nil, err
		}
	}

	return s.GetStudySet(viewer, rec.ID)
}

func (s *Store) UpdateStudySet(viewer *userRecord, id int64, req models.UpdateStudySetRequest) (*models.StudySet, error) {
	var rec setRecord
	if err := s.db.First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, detail(http.StatusNotFound, "Study set not found")
		}
		return nil, err
	}
	if rec.CreatorID != viewer.ID {
		return nil, detail(http.StatusForbidden, "You don't have permission to edit this study set")
	}

	if req.Title != nil {
		rec.Title = s.clean(*req.Title)
	}
	if req.Subject != nil {
		rec.Subject = s.clean(*req.Subject)
	}
	if req.Type != nil {
		rec.Type = *req.Type
	}
	if req.Level != nil {
		rec.Level = s.clean(*req.Level)
	}
	if req.Description != nil {
		rec.Description = s.clean(*req.Description)
	}
	if req.IsShared != nil {
		rec.IsShared = *req.IsShared
	}
	if req.IsPublic != nil {
		rec.IsPublic = *req.IsPublic
	}
	rec.UpdatedAt = time.Now().UTC()
	if err := s.db.Save(&rec).Error; err != nil {
		return nil, err
	}

	if req.Tags != nil {
		if err := s.db.Where("set_id = ?", rec.ID).Delete(&tagRecord{}).Error; err != nil {
			return nil, err
		}
		for _, tag := range req.Tags {
			if err := s.db.Create(&tagRecord{SetID: rec.ID, Tag: s.clean(tag)}).Error; err != nil {
				return nil, err
			}
		}
	}

	return s.GetStudySet(viewer, rec.ID)
}

// SetOffline flags the set as downloaded for the viewer. Repeating the call
// is a no-op.
func (s *Store) SetOffline(viewerID, setID int64) error {
	var rec setRecord
	if err := s.db.First(&rec, setID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail(http.StatusNotFound, "Study set not found")
		}
		return err
	}
	var existing offlineRecord
	err := s.db.Where("user_id = ? AND set_id = ?", viewerID, setID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.db.Create(&offlineRecord{UserID: viewerID, SetID: setID}).Error
}

// ClearOffline removes the downloaded flag for the viewer.
func (s *Store) ClearOffline(viewerID, setID int64) error {
	var rec setRecord
	if err := s.db.First(&rec, setID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail(http.StatusNotFound, "Study set not found")
		}
		return err
	}
	return s.db.Where("user_id = ? AND set_id = ?", viewerID, setID).Delete(&offlineRecord{}).Error
}

// --- helpers ---

func (s *Store) visibleTo(rec setRecord, viewer *userRecord, assignedIDs map[int64]bool, isStudent bool) bool {
	if rec.CreatorID == viewer.ID {
		return true
	}
	if isStudent {
		return assignedIDs[rec.ID]
	}
	return rec.IsShared
}

func matchesFilter(rec setRecord, viewer *userRecord, filter models.StudySetFilter, assignedIDs map[int64]bool) bool {
	switch filter.Ownership {
	case models.OwnershipMine:
		if rec.CreatorID != viewer.ID {
			return false
		}
	case models.OwnershipShared:
		if rec.CreatorID == viewer.ID || !(rec.IsShared || assignedIDs[rec.ID]) {
			return false
		}
	case models.OwnershipAssigned:
		if !assignedIDs[rec.ID] {
			return false
		}
	}
	if filter.Subject != "" && rec.Subject != filter.Subject {
		return false
	}
	if filter.Type != "" && rec.Type != filter.Type {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(rec.Title), needle) &&
			!strings.Contains(strings.ToLower(rec.Subject), needle) &&
			!strings.Contains(strings.ToLower(rec.Description), needle) {
			return false
		}
	}
	return true
}

func (s *Store) applySort(sets []models.StudySet, viewerID int64, key string) {
	switch key {
	case models.SortAlphabetical:
		sort.SliceStable(sets, func(i, j int) bool { return sets[i].Title < sets[j].Title })
	case models.SortRecentlyCreated, models.SortRecommended:
		sort.SliceStable(sets, func(i, j int) bool { return sets[i].CreatedAt.After(sets[j].CreatedAt.Time) })
	default: // recently-used
		activity := s.lastActivity(viewerID)
		sort.SliceStable(sets, func(i, j int) bool {
			ai, aj := activity[sets[i].ID], activity[sets[j].ID]
			if !ai.Equal(aj) {
				return ai.After(aj)
			}
			return sets[i].UpdatedAt.After(sets[j].UpdatedAt.Time)
		})
	}
}

func (s *Store) lastActivity(viewerID int64) map[int64]time.Time {
	var rows []progressRecord
	out := map[int64]time.Time{}
	if err := s.db.Where("user_id = ?", viewerID).Find(&rows).Error; err != nil {
		return out
	}
	for _, row := range rows {
		out[row.SetID] = row.LastActivity
	}
	return out
}

func (s *Store) enrolledClassIDs(userID int64) ([]int64, error) {
	var rows []enrollmentRecord
	if err := s.db.Where("student_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ClassID)
	}
	return ids, nil
}

func (s *Store) assignedSetIDs(classIDs []int64) (map[int64]bool, error) {
	out := map[int64]bool{}
	if len(classIDs) == 0 {
		return out, nil
	}
	var rows []assignmentRecord
	if err := s.db.Where("class_id IN ?", classIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.SetID] = true
	}
	return out, nil
}

func (s *Store) decorate(rec setRecord, viewer *userRecord, assignedIDs map[int64]bool, isStudent bool) (*models.StudySet, error) {
	var itemCount int64
	if err := s.db.Model(&questionRecord{}).Where("set_id = ?", rec.ID).Count(&itemCount).Error; err != nil {
		return nil, err
	}

	var tagRows []tagRecord
	if err := s.db.Where("set_id = ?", rec.ID).Find(&tagRows).Error; err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(tagRows))
	for _, row := range tagRows {
		tags = append(tags, row.Tag)
	}

	isAssigned := assignedIDs[rec.ID]
	if !isStudent {
		// Teachers see whether the set is assigned anywhere at all.
		var count int64
		if err := s.db.Model(&assignmentRecord{}).Where("set_id = ?", rec.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		isAssigned = count > 0
	}

	var downloaded int64
	if err := s.db.Model(&offlineRecord{}).Where("user_id = ? AND set_id = ?", viewer.ID, rec.ID).Count(&downloaded).Error; err != nil {
		return nil, err
	}

	var mastery *float64
	var progress progressRecord
	err := s.db.Where("user_id = ? AND set_id = ?", viewer.ID, rec.ID).First(&progress).Error
	if err == nil {
		m := progress.Mastery
		mastery = &m
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &models.StudySet{
		ID:           rec.ID,
		Title:        rec.Title,
		Subject:      strPtr(rec.Subject),
		Type:         rec.Type,
		Level:        strPtr(rec.Level),
		Description:  strPtr(rec.Description),
		CreatorID:    rec.CreatorID,
		CreatedAt:    models.Timestamp{Time: rec.CreatedAt},
		UpdatedAt:    models.Timestamp{Time: rec.UpdatedAt},
		ItemCount:    int(itemCount),
		Tags:         tags,
		IsAssigned:   isAssigned,
		IsDownloaded: downloaded > 0,
		Mastery:      mastery,
	}, nil
}

func initialQuestion(rec setRecord, item *models.InitialItem, policy *bluemonday.Policy) *questionRecord {
	clean := func(text string) string { return strings.TrimSpace(policy.Sanitize(text)) }
	q := &questionRecord{SetID: rec.ID}
	switch rec.Type {
	case models.SetTypeFlashcards:
		q.Type = "flashcard"
		q.Content = clean(item.Term)
		q.CorrectAnswer = clean(item.Definition)
		q.Term = clean(item.Term)
		q.Definition = clean(item.Definition)
	case models.SetTypeQuiz:
		questionType := item.QuestionType
		if questionType == "" {
			questionType = "multiple_choice"
		}
		q.Type = strings.ReplaceAll(strings.ToLower(questionType), " ", "_")
		q.Content = clean(item.Question)
		q.CorrectAnswer = clean(fmt.Sprint(item.CorrectAnswer))
		q.Options = strings.Join(item.Options, "\n")
	case models.SetTypeProblemSet:
		q.Type = "problem"
		q.Content = clean(item.Problem)
		q.CorrectAnswer = clean(item.Solution)
	}
	return q
}
