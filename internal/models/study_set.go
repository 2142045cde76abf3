package models

// Set types recognised by the catalog.
const (
	SetTypeFlashcards = "Flashcards"
	SetTypeQuiz       = "Quiz"
	SetTypeProblemSet = "Problem set"
)

// Sort keys accepted by the list endpoint.
const (
	SortRecentlyUsed    = "recently-used"
	SortRecentlyCreated = "recently-created"
	SortAlphabetical    = "a-z"
	SortRecommended     = "recommended"
)

// Ownership filter values understood by the server.
const (
	OwnershipMine     = "Mine"
	OwnershipShared   = "Shared with me"
	OwnershipAssigned = "Assigned"
)

// StudySet is the read model for a titled collection of learning items.
// IsAssigned, IsDownloaded and Mastery describe the server-tracked
// relationship to the current viewer; Mastery is never computed locally.
type StudySet struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Subject      *string   `json:"subject"`
	Type         string    `json:"type"`
	Level        *string   `json:"level"`
	Description  *string   `json:"description"`
	CreatorID    int64     `json:"creator_id"`
	CreatedAt    Timestamp `json:"created_at"`
	UpdatedAt    Timestamp `json:"updated_at"`
	ItemCount    int       `json:"item_count"`
	Tags         []string  `json:"tags"`
	IsAssigned   bool      `json:"is_assigned"`
	IsDownloaded bool      `json:"is_downloaded"`
	Mastery      *float64  `json:"mastery"`
}

// StudySetFilter is the server-side filter set carried by every list request.
// Empty fields are omitted from the query string entirely.
type StudySetFilter struct {
	Search    string
	Subject   string
	Type      string
	Ownership string
	Sort      string
}

// InitialItem seeds a study set with its first entry. Which fields apply
// depends on the set type.
type InitialItem struct {
	Term          string   `json:"term,omitempty"`
	Definition    string   `json:"definition,omitempty"`
	Question      string   `json:"question,omitempty"`
	QuestionType  string   `json:"questionType,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer any      `json:"correctAnswer,omitempty"`
	Problem       string   `json:"problem,omitempty"`
	Solution      string   `json:"solution,omitempty"`
}

// InitialAssignment optionally assigns the new set to a class on creation.
type InitialAssignment struct {
	ClassID     int64   `json:"classId,omitempty"`
	AssignToAll bool    `json:"assignToAll,omitempty"`
	StudentIDs  []int64 `json:"studentIds,omitempty"`
	DueDate     string  `json:"dueDate,omitempty"`
}

// CreateStudySetRequest is the creation payload.
type CreateStudySetRequest struct {
	Title       string             `json:"title" validate:"required"`
	Subject     string             `json:"subject" validate:"required"`
	Type        string             `json:"type" validate:"required,oneof=Flashcards Quiz 'Problem set'"`
	Level       string             `json:"level,omitempty"`
	Description string             `json:"description,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	InitialItem *InitialItem       `json:"initialItem,omitempty"`
	Assignment  *InitialAssignment `json:"assignment,omitempty"`
}

// UpdateStudySetRequest carries only the fields being changed.
type UpdateStudySetRequest struct {
	Title       *string  `json:"title,omitempty"`
	Subject     *string  `json:"subject,omitempty"`
	Type        *string  `json:"type,omitempty"`
	Level       *string  `json:"level,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	IsShared    *bool    `json:"is_shared,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty"`
}

// Question belongs to exactly one study set. It is created as part of the
// study set creation payload; this client never fetches questions on their own.
type Question struct {
	ID            int64    `json:"id"`
	SetID         int64    `json:"set_id"`
	Type          string   `json:"type"`
	Content       string   `json:"content"`
	CorrectAnswer string   `json:"correct_answer"`
	Options       []string `json:"options,omitempty"`
	Term          *string  `json:"term,omitempty"`
	Definition    *string  `json:"definition,omitempty"`
}
