package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Visibility controls who can see a quiz.
type Visibility int16

const (
	VisibilityPrivate Visibility = iota
	VisibilityShared
	VisibilityUnlisted
	VisibilityPublic
)

// DefaultVisibility is applied to new and copied quizzes.
const DefaultVisibility = VisibilityPrivate

// MaxTitleLength is the upper bound on quiz titles, including the copy suffix.
const MaxTitleLength = 100

// FolderKind distinguishes the system-managed archive folder from user folders.
type FolderKind int16

const (
	FolderKindNormal FolderKind = iota
	FolderKindArchive
)

// Quiz is the root of a question/answer tree owned by a single user.
type Quiz struct {
	bun.BaseModel `bun:"table:quizzes,alias:q"`

	ID          uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Title       string     `bun:"title,notnull" json:"title"`
	Description string     `bun:"description" json:"description"`
	OwnerID     uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"ownerId"`
	Visibility  Visibility `bun:"visibility,notnull" json:"visibility"`
	Anonymous   bool       `bun:"anonymous,notnull" json:"anonymous"`
	// MaxReoccurrences is the quiz-level repetition cap consumed only by the
	// legacy attempt endpoint. The user-level setting is a separate knob.
	MaxReoccurrences int        `bun:"max_reoccurrences,notnull" json:"maxReoccurrences"`
	FolderID         *uuid.UUID `bun:"folder_id,type:uuid" json:"folderId,omitempty"`
	Version          int        `bun:"version,notnull" json:"version"`
	CreatedAt        time.Time  `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt        time.Time  `bun:"updated_at,notnull" json:"updatedAt"`

	Questions []*Question `bun:"rel:has-many,join:id=quiz_id" json:"questions,omitempty"`
}

// Question belongs to a quiz. Order is unique within the quiz and defines the
// presentation sequence used by next-question resolution.
type Question struct {
	bun.BaseModel `bun:"table:questions,alias:qq"`

	ID             uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	QuizID         uuid.UUID  `bun:"quiz_id,notnull,type:uuid" json:"quizId"`
	Order          int        `bun:"question_order,notnull" json:"order"`
	Text           string     `bun:"text,notnull" json:"text"`
	Image          string     `bun:"image" json:"image,omitempty"`
	ImageAssetID   *uuid.UUID `bun:"image_asset_id,type:uuid" json:"imageAssetId,omitempty"`
	Explanation    string     `bun:"explanation" json:"explanation,omitempty"`
	MultipleChoice bool       `bun:"multiple_choice,notnull" json:"multipleChoice"`

	Answers []*Answer `bun:"rel:has-many,join:id=question_id" json:"answers,omitempty"`
}

// Answer belongs to a question.
type Answer struct {
	bun.BaseModel `bun:"table:answers,alias:a"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	QuestionID   uuid.UUID  `bun:"question_id,notnull,type:uuid" json:"questionId"`
	Order        int        `bun:"answer_order,notnull" json:"order"`
	Text         string     `bun:"text,notnull" json:"text"`
	Image        string     `bun:"image" json:"image,omitempty"`
	ImageAssetID *uuid.UUID `bun:"image_asset_id,type:uuid" json:"imageAssetId,omitempty"`
	Correct      bool       `bun:"correct,notnull" json:"correct"`
}

// ImageRef returns the effective image reference for a question or answer:
// an owned asset wins over an external URL when both are set.
func ImageRef(url string, assetID *uuid.UUID) (asset *uuid.UUID, external string) {
	if assetID != nil {
		return assetID, ""
	}
	return nil, url
}

// QuizSession tracks one user's run through a quiz. At most one row per
// (quiz, user) may have IsActive=true; a partial unique index enforces this.
type QuizSession struct {
	bun.BaseModel `bun:"table:quiz_sessions,alias:qs"`

	ID                uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	QuizID            uuid.UUID  `bun:"quiz_id,notnull,type:uuid" json:"quizId"`
	UserID            uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"userId"`
	StartedAt         time.Time  `bun:"started_at,notnull" json:"startedAt"`
	UpdatedAt         time.Time  `bun:"updated_at,notnull" json:"updatedAt"`
	EndedAt           *time.Time `bun:"ended_at" json:"endedAt,omitempty"`
	IsActive          bool       `bun:"is_active,notnull" json:"isActive"`
	StudyTimeSeconds  float64    `bun:"study_time_seconds,notnull" json:"studyTimeSeconds"`
	CurrentQuestionID *uuid.UUID `bun:"current_question_id,type:uuid" json:"currentQuestionId,omitempty"`
}

// AnswerRecord is one immutable entry in a session's append-only attempt log.
// SelectedAnswerIDs is a snapshot serialized as JSONB so it survives deletion
// of the referenced answers.
type AnswerRecord struct {
	bun.BaseModel `bun:"table:answer_records,alias:ar"`

	ID                uuid.UUID   `bun:"id,pk,type:uuid" json:"id"`
	SessionID         uuid.UUID   `bun:"session_id,notnull,type:uuid" json:"sessionId"`
	QuestionID        uuid.UUID   `bun:"question_id,notnull,type:uuid" json:"questionId"`
	AnsweredAt        time.Time   `bun:"answered_at,notnull" json:"answeredAt"`
	SelectedAnswerIDs []uuid.UUID `bun:"selected_answer_ids,type:jsonb" json:"selectedAnswerIds"`
	WasCorrect        bool        `bun:"was_correct,notnull" json:"wasCorrect"`
	SkippedDueToLimit bool        `bun:"skipped_due_to_limit,notnull" json:"skippedDueToLimit"`
}

// SharedQuiz grants quiz access to exactly one of a user or a study group.
// A CHECK constraint backs the exclusivity.
type SharedQuiz struct {
	bun.BaseModel `bun:"table:shared_quizzes,alias:sq"`

	ID        uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	QuizID    uuid.UUID  `bun:"quiz_id,notnull,type:uuid" json:"quizId"`
	UserID    *uuid.UUID `bun:"user_id,type:uuid" json:"userId,omitempty"`
	GroupID   *uuid.UUID `bun:"group_id,type:uuid" json:"groupId,omitempty"`
	AllowEdit bool       `bun:"allow_edit,notnull" json:"allowEdit"`
	CreatedAt time.Time  `bun:"created_at,notnull" json:"createdAt"`
}

// ImageAsset is an owned upload. The core only checks that an id resolves;
// bytes and transcoding live in the image service.
type ImageAsset struct {
	bun.BaseModel `bun:"table:image_assets,alias:ia"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	OwnerID   uuid.UUID `bun:"owner_id,notnull,type:uuid" json:"ownerId"`
	Path      string    `bun:"path,notnull" json:"path"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

// Folder is an owner-scoped hierarchy node. Each owner has one archive folder
// that the folder service protects from rename, move, delete and re-typing.
type Folder struct {
	bun.BaseModel `bun:"table:folders,alias:f"`

	ID       uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	OwnerID  uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"ownerId"`
	ParentID *uuid.UUID `bun:"parent_id,type:uuid" json:"parentId,omitempty"`
	Name     string     `bun:"name,notnull" json:"name"`
	Kind     FolderKind `bun:"kind,notnull" json:"kind"`
}
