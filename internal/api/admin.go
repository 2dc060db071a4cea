package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/avashist/campusdesk/internal/chatbot"
	"github.com/avashist/campusdesk/internal/db"
	"github.com/avashist/campusdesk/internal/export"
)

// maxUploadSize caps the multipart FAQ form (PDF uploads included).
const maxUploadSize = 10 << 20 // 10MB

// --- Dashboard ---

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := chatbot.Report(a.db)
	if err != nil {
		slog.Error("computing dashboard", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, stats)
}

// --- FAQs ---

func (a *API) handleCreateFAQ(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	createdBy, ok := formInt(w, r, "created_by")
	if !ok {
		return
	}
	sourceType := r.FormValue("source_type")
	if sourceType == "" {
		sourceType = "manual"
	}

	question := r.FormValue("question")
	answer := r.FormValue("answer")
	var sourceFile *string

	file, header, err := r.FormFile("file")
	if sourceType == "pdf" && err == nil {
		defer file.Close()
		// The upload is parked in the temp dir; extraction is a stub until
		// the ingestion pipeline lands, so the stored Q&A is a placeholder.
		dst := filepath.Join(os.TempDir(), filepath.Base(header.Filename))
		out, cerr := os.Create(dst)
		if cerr != nil {
			jsonError(w, cerr.Error(), http.StatusInternalServerError)
			return
		}
		_, cerr = io.Copy(out, file)
		out.Close()
		if cerr != nil {
			jsonError(w, cerr.Error(), http.StatusInternalServerError)
			return
		}
		question = "Extracted question from PDF"
		answer = "Extracted answer from PDF"
		name := header.Filename
		sourceFile = &name
	} else if err == nil {
		file.Close()
	}

	if question == "" || answer == "" {
		jsonError(w, "question and answer are required", http.StatusBadRequest)
		return
	}

	faq, err := a.db.CreateFAQ(db.CreateFAQInput{
		Question:   question,
		Answer:     answer,
		SourceType: sourceType,
		SourceFile: sourceFile,
		CreatedBy:  createdBy,
		Status:     "pending",
	})
	if err != nil {
		slog.Error("creating faq", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, faq)
}

func (a *API) handleListFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := a.db.ListFAQs()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, faqs)
}

func (a *API) handleUpdateFAQ(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Question *string `json:"question"`
		Answer   *string `json:"answer"`
		Status   *string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	faq, err := a.db.UpdateFAQ(id, db.FAQUpdate{
		Question: req.Question,
		Answer:   req.Answer,
		Status:   req.Status,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			jsonError(w, "FAQ not found", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, faq)
}

func (a *API) handleDeleteFAQ(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.db.DeleteFAQ(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			jsonError(w, "FAQ not found", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"message":    "FAQ deleted successfully",
		"deleted_id": id,
	})
}

// --- News ---

func (a *API) handleCreateNews(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title     string `json:"title"`
		Content   string `json:"content"`
		CreatedBy int    `json:"created_by"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Title == "" || req.Content == "" {
		jsonError(w, "title and content are required", http.StatusBadRequest)
		return
	}
	news, err := a.db.CreateNews(db.CreateNewsInput{
		Title:     req.Title,
		Content:   req.Content,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, news)
}

func (a *API) handleListNews(w http.ResponseWriter, r *http.Request) {
	news, err := a.db.ListNews()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, news)
}

func (a *API) handleUpdateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	news, err := a.db.UpdateNews(id, db.NewsUpdate{Title: req.Title, Content: req.Content})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			jsonError(w, "News not found.", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, news)
}

func (a *API) handleDeleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.db.DeleteNews(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			jsonError(w, "News not found or already deleted.", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"message":    "News deleted successfully",
		"deleted_id": id,
	})
}

// --- Students ---

func (a *API) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Password     string `json:"password"`
		Department   string `json:"department"`
		EnrollmentNo string `json:"enrollment_no"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		jsonError(w, "name, email and password are required", http.StatusBadRequest)
		return
	}

	hash, err := a.auth.HashPassword(req.Password)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	student, err := a.db.CreateStudent(db.CreateStudentInput{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Department:   req.Department,
		EnrollmentNo: req.EnrollmentNo,
	})
	if err != nil {
		slog.Error("creating student", "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, student)
}

func (a *API) handleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := a.db.ListStudents()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, students)
}

func (a *API) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Name         *string `json:"name"`
		Email        *string `json:"email"`
		Password     *string `json:"password"`
		Department   *string `json:"department"`
		EnrollmentNo *string `json:"enrollment_no"`
		Status       *string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	upd := db.StudentUpdate{
		Name:         req.Name,
		Email:        req.Email,
		Department:   req.Department,
		EnrollmentNo: req.EnrollmentNo,
		Status:       req.Status,
	}
	if req.Password != nil {
		hash, err := a.auth.HashPassword(*req.Password)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		upd.PasswordHash = &hash
	}

	student, err := a.db.UpdateStudent(id, upd)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			jsonError(w, "Student not found.", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, student)
}

func (a *API) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.db.DeleteStudent(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			jsonError(w, "Student not found.", http.StatusNotFound)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, map[string]interface{}{
		"message":    "Student deleted successfully",
		"deleted_id": id,
	})
}

// --- Dataset export ---

func (a *API) handleExportChats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", `attachment; filename="chat_logs.jsonl"`)
	if err := export.NewExporter(a.db).ExportChatLogs(w); err != nil {
		slog.Error("exporting chat logs", "error", err)
	}
}

func (a *API) handleExportFAQs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", `attachment; filename="faqs.jsonl"`)
	if err := export.NewExporter(a.db).ExportFAQs(w); err != nil {
		slog.Error("exporting faqs", "error", err)
	}
}

// --- Unsolved queries ---

func (a *API) handleListUnsolved(w http.ResponseWriter, r *http.Request) {
	queries, err := a.db.ListUnsolvedQueries()
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, queries)
}

func (a *API) handleEscalateUnsolved(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Reviewed *bool  `json:"reviewed"`
		Solved   bool   `json:"solved"`
		Answer   string `json:"answer"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}
	reviewed := true
	if req.Reviewed != nil {
		reviewed = *req.Reviewed
	}

	result, err := a.resolver.Escalate(id, chatbot.EscalationInput{
		Reviewed: reviewed,
		Solved:   req.Solved,
		Answer:   req.Answer,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			jsonError(w, "Query not found", http.StatusNotFound)
			return
		}
		slog.Error("escalating unsolved query", "id", id, "error", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	jsonResp(w, http.StatusOK, result)
}
