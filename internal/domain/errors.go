package domain

import "errors"

var (
	// ErrQuizNotFound covers both a missing quiz and one the caller may not
	// access; the two are deliberately indistinguishable.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates the question does not exist or does not
	// belong to the given quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrSessionNotFound indicates no active session exists for (quiz, user).
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrFolderNotFound indicates the folder does not exist for the owner.
	ErrFolderNotFound = errors.New("folder not found")
	// ErrInvalidSelection indicates a selected answer id outside the
	// question's live answer set.
	ErrInvalidSelection = errors.New("selected answer does not belong to question")
	// ErrInvalidStudyTime indicates a negative or non-numeric study time.
	ErrInvalidStudyTime = errors.New("study time must be a non-negative number of seconds")
	// ErrInvalidNextQuestion indicates a next-question pointer outside the quiz.
	ErrInvalidNextQuestion = errors.New("next question does not belong to quiz")
	// ErrInvalidShareTarget indicates a share grant naming neither or both of
	// a user and a group.
	ErrInvalidShareTarget = errors.New("share must target exactly one of user or group")
	// ErrAlreadyShared indicates a duplicate grant for the same target.
	ErrAlreadyShared = errors.New("quiz already shared with target")
	// ErrLimitExceeded is the legacy rejection when the quiz-level repetition
	// cap is exhausted. The current endpoint generation reports a skip instead.
	ErrLimitExceeded = errors.New("question repetition limit exceeded")
	// ErrThrottled indicates the per-user copy quota was exhausted.
	ErrThrottled = errors.New("copy rate limit exceeded")
	// ErrPermissionDenied indicates an authenticated caller lacking
	// entitlement for a maintainer-only action.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrFolderCycle indicates a move that would make a folder its own ancestor.
	ErrFolderCycle = errors.New("folder move would create a cycle")
	// ErrArchiveProtected indicates an attempt to rename, move, delete or
	// re-type the system archive folder.
	ErrArchiveProtected = errors.New("archive folder is system managed")
)
