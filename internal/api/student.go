package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avashist/campusdesk/internal/chatbot"
	"github.com/avashist/campusdesk/internal/db"
)

func (a *API) handleStudentLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	// Unknown email is a 404, wrong password a 401. The distinction leaks
	// account existence but is part of the wire contract clients rely on.
	student, passwordHash, err := a.db.GetStudentByEmail(req.Email)
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
	if student.Status != "active" {
		jsonError(w, "Account inactive. Contact admin.", http.StatusForbidden)
		return
	}

	token, err := a.auth.StudentToken(student.ID, student.Email)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (a *API) handleStudentChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentID        int    `json:"student_id"`
		QueryText        string `json:"query_text"`
		DetectedLanguage string `json:"detected_language"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	result, err := a.resolver.Resolve(req.StudentID, req.QueryText, req.DetectedLanguage, a.chatCfg.FallbackMessage)
	if err != nil {
		if errors.Is(err, chatbot.ErrEmptyQuery) {
			jsonError(w, "Query text cannot be empty.", http.StatusBadRequest)
			return
		}
		slog.Error("resolving chat query", "student_id", req.StudentID, "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, result)
}

func (a *API) handleStudentChatHistory(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathID(w, r, "student_id")
	if !ok {
		return
	}
	entries, err := a.db.ListChatLogs(studentID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(entries) == 0 {
		jsonError(w, "No chat history found for this student.", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, entries)
}

func (a *API) handleStudentHome(w http.ResponseWriter, r *http.Request) {
	studentID, ok := pathID(w, r, "student_id")
	if !ok {
		return
	}
	student, err := a.db.GetStudent(studentID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
			jsonError(w, "Student not found", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	latest, err := a.db.LatestNews(3)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResp(w, http.StatusOK, map[string]interface{}{
		"name":               student.Name,
		"department":         student.Department,
		"enrollment_no":      student.EnrollmentNo,
		"motivational_quote": a.chatCfg.MotivationalQuote,
		"latest_news":        latest,
	})
}

func (a *API) handleStudentNews(w http.ResponseWriter, r *http.Request) {
	news, err := a.db.ListNews()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, news)
}
