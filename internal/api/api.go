// Package api exposes the portal's HTTP surface: admin CRUD and dashboard,
// the student chat endpoints, and super-admin account management.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/avashist/campusdesk/internal/auth"
	"github.com/avashist/campusdesk/internal/chatbot"
	"github.com/avashist/campusdesk/internal/config"
	"github.com/avashist/campusdesk/internal/db"
	"github.com/avashist/campusdesk/pkg/audit"
)

// LoginRateLimiter guards the two credential endpoints (10 req/60s per IP).
var LoginRateLimiter = NewRateLimiter(10, 60*time.Second)

type API struct {
	db       *db.DB
	auth     *auth.Auth
	resolver *chatbot.Resolver
	chatCfg  config.ChatConfig
	auditLog audit.Logger
}

func New(database *db.DB, a *auth.Auth, chatCfg config.ChatConfig) *API {
	return &API{
		db:       database,
		auth:     a,
		resolver: chatbot.NewResolver(database),
		chatCfg:  chatCfg,
	}
}

// SetAuditLog enables the audit trail for mutating admin actions.
func (a *API) SetAuditLog(l audit.Logger) {
	a.auditLog = l
}

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	// Admin
	mux.HandleFunc("GET /admin/dashboard", a.handleDashboard)
	mux.HandleFunc("POST /admin/faqs", a.audited("faq_create", a.handleCreateFAQ))
	mux.HandleFunc("GET /admin/faqs", a.handleListFAQs)
	mux.HandleFunc("PUT /admin/faqs/{id}", a.audited("faq_update", a.handleUpdateFAQ))
	mux.HandleFunc("DELETE /admin/faqs/{id}", a.audited("faq_delete", a.handleDeleteFAQ))
	mux.HandleFunc("POST /admin/news", a.audited("news_create", a.handleCreateNews))
	mux.HandleFunc("GET /admin/news", a.handleListNews)
	mux.HandleFunc("PUT /admin/news/{id}", a.audited("news_update", a.handleUpdateNews))
	mux.HandleFunc("DELETE /admin/news/{id}", a.audited("news_delete", a.handleDeleteNews))
	mux.HandleFunc("POST /admin/students", a.audited("student_create", a.handleCreateStudent))
	mux.HandleFunc("GET /admin/students", a.handleListStudents)
	mux.HandleFunc("PUT /admin/students/{id}", a.audited("student_update", a.handleUpdateStudent))
	mux.HandleFunc("DELETE /admin/students/{id}", a.audited("student_delete", a.handleDeleteStudent))
	mux.HandleFunc("GET /admin/unsolved", a.handleListUnsolved)
	mux.HandleFunc("PUT /admin/unsolved/{id}", a.audited("unsolved_escalate", a.handleEscalateUnsolved))
	mux.HandleFunc("GET /admin/export/chats", a.audited("export_chats", a.handleExportChats))
	mux.HandleFunc("GET /admin/export/faqs", a.audited("export_faqs", a.handleExportFAQs))

	// Student
	mux.HandleFunc("POST /student/login", RateLimitMiddleware(LoginRateLimiter, a.handleStudentLogin))
	mux.HandleFunc("POST /student/chat", a.handleStudentChat)
	mux.HandleFunc("GET /student/chat/{student_id}", a.handleStudentChatHistory)
	mux.HandleFunc("GET /student/home/{student_id}", a.handleStudentHome)
	mux.HandleFunc("GET /student/news", a.handleStudentNews)

	// Super-admin
	mux.HandleFunc("POST /super-admin/login", RateLimitMiddleware(LoginRateLimiter, a.handleAdminLogin))
	mux.HandleFunc("POST /super-admin/admins", a.audited("admin_create", a.requireRole(a.handleCreateAdmin, auth.RoleSuperAdmin)))
	mux.HandleFunc("GET /super-admin/admins", a.requireRole(a.handleListAdmins, auth.RoleAdmin, auth.RoleSuperAdmin))
	mux.HandleFunc("PUT /super-admin/admins/{id}", a.audited("admin_update", a.requireRole(a.handleUpdateAdmin, auth.RoleAdmin, auth.RoleSuperAdmin)))
	mux.HandleFunc("DELETE /super-admin/admins/{id}", a.audited("admin_delete", a.requireRole(a.handleDeleteAdmin, auth.RoleSuperAdmin)))
	mux.HandleFunc("GET /super-admin/profile", a.requireRole(a.handleGetProfile, auth.RoleSuperAdmin))
	mux.HandleFunc("PUT /super-admin/profile", a.audited("profile_update", a.requireRole(a.handleUpdateProfile, auth.RoleSuperAdmin)))

	mux.HandleFunc("GET /", a.handleRoot)
}

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	jsonResp(w, http.StatusOK, map[string]string{"message": "campusdesk backend running"})
}

// audited wraps mutating handlers with the audit-trail middleware, stamping
// the acting admin when a valid token is present.
func (a *API) audited(action string, next http.HandlerFunc) http.HandlerFunc {
	return audit.Middleware(a.auditLog, action, a.actorID, next)
}

func (a *API) actorID(r *http.Request) string {
	claims := a.auth.ExtractClaims(r)
	if claims == nil {
		return ""
	}
	if claims.AdminID != 0 {
		return strconv.Itoa(claims.AdminID)
	}
	if claims.StudentID != 0 {
		return strconv.Itoa(claims.StudentID)
	}
	return ""
}

// --- Helpers ---

func jsonResp(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// jsonError writes the {"detail": ...} error body every status class shares.
func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": msg})
}

// pathID parses the integer {id}-style path segment; ok=false means a 400
// was already written.
func pathID(w http.ResponseWriter, r *http.Request, segment string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(segment))
	if err != nil {
		jsonError(w, "invalid "+segment, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body; a non-nil error means a 400 was
// already written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return err
	}
	return nil
}

// formInt parses a required integer form field; ok=false means a 400 was
// already written.
func formInt(w http.ResponseWriter, r *http.Request, field string) (int, bool) {
	v, err := strconv.Atoi(r.FormValue(field))
	if err != nil {
		jsonError(w, field+" is required", http.StatusBadRequest)
		return 0, false
	}
	return v, true
}
