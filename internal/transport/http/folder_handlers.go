package http

import (
	"encoding/json"
	"net/http"

	"github.com/Solvro/backend-testownik-sub000/internal/domain"
	"github.com/google/uuid"
)

type createFolderRequest struct {
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// updateFolderRequest patches a folder. Name renames when present; parent_id
// is three-way like the session fields: absent leaves the placement, null
// moves to the root, a value re-parents.
type updateFolderRequest struct {
	Name     *string                    `json:"name"`
	ParentID domain.Optional[uuid.UUID] `json:"parent_id"`
}

func (a *API) getArchiveFolder(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())
	folder, err := a.folders.Archive(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

func (a *API) createFolder(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserFromContext(r.Context())
	var req createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Kind: "invalid_input", Message: "folder name is required"})
		return
	}
	folder, err := a.folders.Create(r.Context(), userID, req.Name, req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

func (a *API) updateFolder(w http.ResponseWriter, r *http.Request) {
	userID, folderID, ok := parseFolderID(w, r)
	if !ok {
		return
	}
	var req updateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Kind: "invalid_input", Message: "malformed request body"})
		return
	}

	var folder *domain.Folder
	var err error
	if req.Name != nil {
		if folder, err = a.folders.Rename(r.Context(), userID, folderID, *req.Name); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.ParentID.Set {
		var parent *uuid.UUID
		if req.ParentID.Valid {
			id := req.ParentID.Value
			parent = &id
		}
		if folder, err = a.folders.Move(r.Context(), userID, folderID, parent); err != nil {
			writeError(w, err)
			return
		}
	}
	if folder == nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Kind: "invalid_input", Message: "nothing to update"})
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

func (a *API) deleteFolder(w http.ResponseWriter, r *http.Request) {
	userID, folderID, ok := parseFolderID(w, r)
	if !ok {
		return
	}
	if err := a.folders.Delete(r.Context(), userID, folderID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseFolderID(w http.ResponseWriter, r *http.Request) (userID, folderID uuid.UUID, ok bool) {
	userID, _ = UserFromContext(r.Context())
	folderID, err := uuid.Parse(r.PathValue("folderID"))
	if err != nil {
		writeError(w, domain.ErrFolderNotFound)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, folderID, true
}
