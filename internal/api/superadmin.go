package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avashist/campusdesk/internal/auth"
	"github.com/avashist/campusdesk/internal/db"
)

// handleAdminLogin signs in admins and super-admins alike; the role baked
// into the token decides what the account can reach afterwards.
func (a *API) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	admin, passwordHash, err := a.db.GetAdminByEmail(req.Email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
			jsonError(w, "Invalid email or password", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !a.auth.CheckPassword(passwordHash, req.Password) {
		jsonError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if admin.Status != "active" {
		jsonError(w, "Account inactive", http.StatusForbidden)
		return
	}

	token, err := a.auth.AdminToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (a *API) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		Status   string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		jsonError(w, "name, email and password are required", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = auth.RoleAdmin
	}
	if req.Status == "" {
		req.Status = "active"
	}

	hash, err := a.auth.HashPassword(req.Password)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	admin, err := a.db.CreateAdmin(db.CreateAdminInput{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       req.Status,
	})
	if err != nil {
		slog.Error("creating admin", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, admin)
}

func (a *API) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := a.db.ListAdmins()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, admins)
}

func (a *API) handleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
		Role     *string `json:"role"`
		Status   *string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	upd := db.AdminUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Status: req.Status,
	}
	if req.Password != nil {
		hash, err := a.auth.HashPassword(*req.Password)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		upd.PasswordHash = &hash
	}

	admin, err := a.db.UpdateAdmin(id, upd)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			jsonError(w, "Admin not found.", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, admin)
}

func (a *API) handleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.db.DeleteAdmin(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			jsonError(w, "Admin not found or already deleted.", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"message":    "Admin deleted successfully",
		"deleted_id": id,
	})
}

// --- Profile ---

// The super-admin profile is the admins row with role='super_admin'; there
// is no dedicated table.

func (a *API) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	admin, err := a.db.GetSuperAdmin()
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			jsonError(w, "Super Admin not found.", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, admin)
}

func (a *API) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		Contact *string `json:"contact"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Name == nil && req.Email == nil && req.Contact == nil {
		jsonError(w, "No valid fields to update.", http.StatusBadRequest)
		return
	}

	admin, err := a.db.GetSuperAdmin()
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			jsonError(w, "Super Admin not found.", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	updated, err := a.db.UpdateAdmin(admin.ID, db.AdminUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Contact: req.Contact,
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, updated)
}
