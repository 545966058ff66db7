package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Solvro/backend-testownik-sub000/internal/app"
	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

// API wires the quiz use cases into HTTP handlers. The wire layer stays thin:
// parse, call, map errors.
type API struct {
	recorder  *app.Recorder
	projector *app.Projector
	cloner    *app.Cloner
	sharer    *app.Sharer
	folders   *app.Folders
	events    *app.ProgressBroadcaster
}

func NewAPI(recorder *app.Recorder, projector *app.Projector, cloner *app.Cloner, sharer *app.Sharer, folders *app.Folders, events *app.ProgressBroadcaster) *API {
	return &API{
		recorder:  recorder,
		projector: projector,
		cloner:    cloner,
		sharer:    sharer,
		folders:   folders,
		events:    events,
	}
}

// RouterConfig carries the per-request configuration the handlers need.
type RouterConfig struct {
	JWTSecret   []byte
	Maintenance bool
}

// Handler builds the full route table. /healthz bypasses both auth and
// maintenance mode.
func (a *API) Handler(cfg RouterConfig) http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /api/quizzes/{quizID}/answers", a.recordAnswer)
	api.HandleFunc("POST /api/v1/quizzes/{quizID}/attempts", a.recordAttemptLegacy)
	api.HandleFunc("GET /api/quizzes/{quizID}/progress", a.getProgress)
	api.HandleFunc("DELETE /api/quizzes/{quizID}/progress", a.resetProgress)
	api.HandleFunc("GET /api/v1/quizzes/{quizID}/progress", a.getProgressLegacy)
	api.HandleFunc("GET /api/quizzes/{quizID}/session", a.getSession)
	api.HandleFunc("POST /api/quizzes/{quizID}/copy", a.copyQuiz)
	api.HandleFunc("POST /api/quizzes/{quizID}/share", a.shareQuiz)
	api.HandleFunc("GET /api/quizzes/{quizID}/progress/ws", a.serveProgressWS)
	api.HandleFunc("GET /api/folders/archive", a.getArchiveFolder)
	api.HandleFunc("POST /api/folders", a.createFolder)
	api.HandleFunc("PATCH /api/folders/{folderID}", a.updateFolder)
	api.HandleFunc("DELETE /api/folders/{folderID}", a.deleteFolder)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/api/", Maintenance(cfg.Maintenance, RequireUser(cfg.JWTSecret, api)))
	return mux
}

type errorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type recordAnswerRequest struct {
	QuestionID      uuid.UUID                  `json:"question_id"`
	SelectedAnswers []uuid.UUID                `json:"selected_answers"`
	StudyTime       domain.Optional[float64]   `json:"study_time"`
	NextQuestion    domain.Optional[uuid.UUID] `json:"next_question"`
}

type recordAnswerResponse struct {
	Status       string               `json:"status"`
	Record       *domain.AnswerRecord `json:"record,omitempty"`
	Correct      bool                 `json:"correct"`
	Limit        int                  `json:"limit"`
	AttemptsUsed int                  `json:"attempts_used"`
	Remaining    int                  `json:"remaining"`
	NextQuestion *uuid.UUID           `json:"next_question,omitempty"`
}

// recordAnswer is the current endpoint generation: an exhausted limit is a
// successful skip (200), a recorded attempt answers 201.
func (a *API) recordAnswer(w http.ResponseWriter, r *http.Request) {
	userID, quizID, req, ok := a.parseRecord(w, r)
	if !ok {
		return
	}

	result, err := a.recorder.RecordAnswer(r.Context(), quizID, userID, app.RecordInput{
		QuestionID:        req.QuestionID,
		SelectedAnswerIDs: req.SelectedAnswers,
		StudyTime:         req.StudyTime,
		NextQuestionID:    req.NextQuestion,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if result.Skipped {
		writeJSON(w, http.StatusOK, recordAnswerResponse{
			Status:       "skipped",
			Record:       result.Record,
			Limit:        result.Limit,
			AttemptsUsed: result.AttemptsUsed,
			Remaining:    result.Remaining,
			NextQuestion: result.NextQuestionID,
		})
		return
	}
	writeJSON(w, http.StatusCreated, recordAnswerResponse{
		Status:       "recorded",
		Record:       result.Record,
		Correct:      result.Record.WasCorrect,
		Limit:        result.Limit,
		AttemptsUsed: result.AttemptsUsed,
		Remaining:    result.Remaining,
	})
}

// recordAttemptLegacy preserves the older contract: the quiz-level cap drives
// the decision and an exhausted cap is a 400 rejection with no record.
func (a *API) recordAttemptLegacy(w http.ResponseWriter, r *http.Request) {
	userID, quizID, req, ok := a.parseRecord(w, r)
	if !ok {
		return
	}

	result, err := a.recorder.RecordAnswerLegacy(r.Context(), quizID, userID, app.RecordInput{
		QuestionID:        req.QuestionID,
		SelectedAnswerIDs: req.SelectedAnswers,
		StudyTime:         req.StudyTime,
		NextQuestionID:    req.NextQuestion,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recordAnswerResponse{
		Status:       "recorded",
		Record:       result.Record,
		Correct:      result.Record.WasCorrect,
		Limit:        result.Limit,
		AttemptsUsed: result.AttemptsUsed,
		Remaining:    result.Remaining,
	})
}

func (a *API) parseRecord(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, recordAnswerRequest, bool) {
	var req recordAnswerRequest
	userID, _ := UserFromContext(r.Context())
	quizID, err := uuid.Parse(r.PathValue("quizID"))
	if err != nil {
		writeError(w, domain.ErrQuizNotFound)
		return uuid.Nil, uuid.Nil, req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Kind: "invalid_input", Message: "malformed request body"})
		return uuid.Nil, uuid.Nil, req, false
	}
	return userID, quizID, req, true
}

func (a *API) getProgress(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := a.parseIDs(w, r)
	if !ok {
		return
	}
	view, err := a.projector.Get(r.Context(), quizID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) getProgressLegacy(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := a.parseIDs(w, r)
	if !ok {
		return
	}
	view, err := a.projector.Legacy(r.Context(), quizID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) resetProgress(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := a.parseIDs(w, r)
	if !ok {
		return
	}
	session, err := a.projector.Reset(r.Context(), quizID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (a *API) getSession(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := a.parseIDs(w, r)
	if !ok {
		return
	}
	session, err := a.projector.Session(r.Context(), quizID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (a *API) copyQuiz(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := a.parseIDs(w, r)
	if !ok {
		return
	}
	clone, err := a.cloner.Copy(r.Context(), quizID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, clone)
}

type shareRequest struct {
	UserID    *uuid.UUID `json:"user_id"`
	GroupID   *uuid.UUID `json:"group_id"`
	AllowEdit bool       `json:"allow_edit"`
}

func (a *API) shareQuiz(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := a.parseIDs(w, r)
	if !ok {
		return
	}
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Kind: "invalid_input", Message: "malformed request body"})
		return
	}
	share, err := a.sharer.Share(r.Context(), quizID, userID, app.ShareTarget{
		UserID:    req.UserID,
		GroupID:   req.GroupID,
		AllowEdit: req.AllowEdit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, share)
}

func (a *API) parseIDs(w http.ResponseWriter, r *http.Request) (userID, quizID uuid.UUID, ok bool) {
	userID, _ = UserFromContext(r.Context())
	quizID, err := uuid.Parse(r.PathValue("quizID"))
	if err != nil {
		writeError(w, domain.ErrQuizNotFound)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, quizID, true
}

// writeError maps domain sentinels to the documented status codes. Stack
// traces never reach the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrFolderNotFound):
		writeJSON(w, http.StatusNotFound, errorPayload{Kind: "not_found", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidSelection),
		errors.Is(err, domain.ErrInvalidStudyTime),
		errors.Is(err, domain.ErrInvalidNextQuestion),
		errors.Is(err, domain.ErrInvalidShareTarget),
		errors.Is(err, domain.ErrAlreadyShared),
		errors.Is(err, domain.ErrFolderCycle),
		errors.Is(err, domain.ErrArchiveProtected):
		writeJSON(w, http.StatusBadRequest, errorPayload{Kind: "invalid_input", Message: err.Error()})
	case errors.Is(err, domain.ErrLimitExceeded):
		writeJSON(w, http.StatusBadRequest, errorPayload{Kind: "limit_exceeded", Message: err.Error()})
	case errors.Is(err, domain.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errorPayload{Kind: "permission_denied", Message: err.Error()})
	case errors.Is(err, domain.ErrThrottled):
		writeJSON(w, http.StatusTooManyRequests, errorPayload{Kind: "throttled", Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorPayload{Kind: "internal", Message: "internal error"})
	}
}
