package stub

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/edusenior/eduterm/internal/models"
)

// ListClasses returns the viewer's classes: a teacher's own classes with
// aggregate counts, or the classes a student is enrolled in.
func (s *Store) ListClasses(viewer *userRecord) ([]models.ClassGroup, error) {
	var records []classRecord
	if viewer.Role == string(models.RoleTeacher) {
		if err := s.db.Where("teacher_id = ?", viewer.ID).Find(&records).Error; err != nil {
			return nil, err
		}
	} else {
		classIDs, err := s.enrolledClassIDs(viewer.ID)
		if err != nil {
			return nil, err
		}
		if len(classIDs) > 0 {
			if err := s.db.Where("id IN ?", classIDs).Find(&records).Error; err != nil {
				return nil, err
			}
		}
	}

	out := make([]models.ClassGroup, 0, len(records))
	for _, rec := range records {
		group := models.ClassGroup{
			ID:          rec.ID,
			ClassName:   rec.ClassName,
			TeacherID:   rec.TeacherID,
			Subject:     strPtr(rec.Subject),
			Level:       strPtr(rec.Level),
			Description: strPtr(rec.Description),
		}
		if viewer.Role == string(models.RoleTeacher) {
			var studentCount, assignmentCount int64
			if err := s.db.Model(&enrollmentRecord{}).Where("class_id = ?", rec.ID).Count(&studentCount).Error; err != nil {
				return nil, err
			}
			if err := s.db.Model(&assignmentRecord{}).Where("class_id = ?", rec.ID).Count(&assignmentCount).Error; err != nil {
				return nil, err
			}
			group.StudentCount = int(studentCount)
			group.AssignmentCount = int(assignmentCount)
		}
		out = append(out, group)
	}
	return out, nil
}

func (s *Store) CreateClass(viewer *userRecord, req models.CreateClassRequest) (*models.ClassGroup, error) {
	if viewer.Role != string(models.RoleTeacher) {
		return nil, detail(http.StatusForbidden, "Only teachers can create classes")
	}
	rec := classRecord{
		ClassName:   s.clean(req.ClassName),
		TeacherID:   viewer.ID,
		Subject:     s.clean(req.Subject),
		Level:       s.clean(req.Level),
		Description: s.clean(req.Description),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &models.ClassGroup{
		ID:          rec.ID,
		ClassName:   rec.ClassName,
		TeacherID:   rec.TeacherID,
		Subject:     strPtr(rec.Subject),
		Level:       strPtr(rec.Level),
		Description: strPtr(rec.Description),
	}, nil
}

func (s *Store) UpdateClass(viewer *userRecord, classID int64, req models.UpdateClassRequest) (*models.ClassGroup, error) {
	rec, err := s.ownedClass(viewer, classID, "modify")
	if err != nil {
		return nil, err
	}
	if req.ClassName != nil {
		rec.ClassName = s.clean(*req.ClassName)
	}
	if req.Subject != nil {
		rec.Subject = s.clean(*req.Subject)
	}
	if req.Level != nil {
		rec.Level = s.clean(*req.Level)
	}
	if req.Description != nil {
		rec.Description = s.clean(*req.Description)
	}
	if err := s.db.Save(rec).Error; err != nil {
		return nil, err
	}
	return &models.ClassGroup{
		ID:          rec.ID,
		ClassName:   rec.ClassName,
		TeacherID:   rec.TeacherID,
		Subject:     strPtr(rec.Subject),
		Level:       strPtr(rec.Level),
		Description: strPtr(rec.Description),
	}, nil
}

// ClassStudents lists the roster of a class owned by the viewer.
func (s *Store) ClassStudents(viewer *userRecord, classID int64) ([]models.Student, error) {
	if _, err := s.ownedClass(viewer, classID, "view"); err != nil {
		return nil, err
	}
	var enrollments []enrollmentRecord
	if err := s.db.Where("class_id = ?", classID).Find(&enrollments).Error; err != nil {
		return nil, err
	}
	students := make([]models.Student, 0, len(enrollments))
	for _, e := range enrollments {
		var user userRecord
		if err := s.db.First(&user, e.StudentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		students = append(students, models.Student{ID: user.ID, Name: user.FullName, Email: user.Email})
	}
	sortStudentsByName(students)
	return students, nil
}

// AddStudents enrolls each id, collecting per-student errors instead of
// failing the batch.
func (s *Store) AddStudents(viewer *userRecord, classID int64, studentIDs []int64) (*models.AddStudentsResult, error) {
	if _, err := s.ownedClass(viewer, classID, "modify"); err != nil {
		return nil, err
	}

	result := &models.AddStudentsResult{Added: []int64{}, Errors: []string{}}
	for _, studentID := range studentIDs {
		var existing enrollmentRecord
		err := s.db.Where("class_id = ? AND student_id = ?", classID, studentID).First(&existing).Error
		if err == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Student %d is already enrolled", studentID))
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := s.db.Create(&enrollmentRecord{ClassID: classID, StudentID: studentID}).Error; err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to add student %d: %v", studentID, err))
			continue
		}
		result.Added = append(result.Added, studentID)
	}

	result.Message = fmt.Sprintf("Added %d student(s)", len(result.Added))
	if len(result.Errors) > 0 {
		result.Message += fmt.Sprintf(", %d error(s)", len(result.Errors))
	}
	return result, nil
}

// RemoveStudent removes one enrollment; removing a student who is not
// enrolled is a 404, matching the backend contract.
func (s *Store) RemoveStudent(viewer *userRecord, classID, studentID int64) error {
	if _, err := s.ownedClass(viewer, classID, "modify"); err != nil {
		return err
	}
	var enrollment enrollmentRecord
	err := s.db.Where("class_id = ? AND student_id = ?", classID, studentID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return detail(http.StatusNotFound, "Student is not enrolled in this class")
	}
	if err != nil {
		return err
	}
	return s.db.Delete(&enrollment).Error
}

// Assignments lists a class's assignments with the study set fields
// denormalized for display.
func (s *Store) Assignments(viewer *userRecord, classID int64) ([]models.Assignment, error) {
	if _, err := s.ownedClass(viewer, classID, "view"); err != nil {
		return nil, err
	}
	var records []assignmentRecord
	if err := s.db.Where("class_id = ?", classID).Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]models.Assignment, 0, len(records))
	for _, rec := range records {
		var set setRecord
		if err := s.db.First(&set, rec.SetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		assignment := models.Assignment{
			AssignmentID: rec.ID,
			SetID:        rec.SetID,
			AssignedBy:   rec.AssignedBy,
			Title:        set.Title,
			Subject:      strPtr(set.Subject),
			Type:         set.Type,
			Level:        strPtr(set.Level),
			Description:  strPtr(set.Description),
		}
		if rec.DueDate != nil {
			assignment.DueDate = &models.Timestamp{Time: *rec.DueDate}
		}
		out = append(out, assignment)
	}
	return out, nil
}

func (s *Store) CreateAssignment(viewer *userRecord, classID int64, req models.CreateAssignmentRequest) (*models.CreateAssignmentResult, error) {
	if _, err := s.ownedClass(viewer, classID, "modify"); err != nil {
		return nil, err
	}

	var set setRecord
	if err := s.db.First(&set, req.SetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, detail(http.StatusNotFound, "Study set not found")
		}
		return nil, err
	}
	if set.CreatorID != viewer.ID && !set.IsShared {
		return nil, detail(http.StatusForbidden, "You don't have permission to assign this study set")
	}

	var existing assignmentRecord
	err := s.db.Where("set_id = ? AND class_id = ?", req.SetID, classID).First(&existing).Error
	if err == nil {
		return nil, detail(http.StatusBadRequest, "This study set is already assigned to this class")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rec := assignmentRecord{
		SetID:      req.SetID,
		ClassID:    classID,
		AssignedBy: viewer.ID,
		CreatedAt:  time.Now().UTC(),
	}
	if req.DueDate != "" {
		if due, err := time.Parse(time.RFC3339, req.DueDate); err == nil {
			rec.DueDate = &due
		}
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &models.CreateAssignmentResult{
		Message:      "Study set assigned to class successfully",
		AssignmentID: rec.ID,
	}, nil
}

// ownedClass loads a class and verifies the viewer is its teacher.
func (s *Store) ownedClass(viewer *userRecord, classID int64, action string) (*classRecord, error) {
	if viewer.Role != string(models.RoleTeacher) {
		return nil, detail(http.StatusForbidden, "Only teachers can "+action+" class rosters")
	}
	var rec classRecord
	if err := s.db.First(&rec, classID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, detail(http.StatusNotFound, "Class not found")
		}
		return nil, err
	}
	if rec.TeacherID != viewer.ID {
		return nil, detail(http.StatusForbidden, "You don't have permission to "+action+" this class")
	}
	return &rec, nil
}

func sortStudentsByName(students []models.Student) {
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
}
