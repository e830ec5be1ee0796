package devserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Server is a self-contained development backend for the Echo client.
// It keeps everything in memory and speaks the same JSON contract the
// production API does, so the client can be exercised end to end
// without any external service.
type Server struct {
	store  *memoryStore
	secret []byte
	logger *zap.Logger
}

// New builds a Server with the standard development fixture account
// (test@echo.com / 123) already seeded.
func New(secret []byte, logger *zap.Logger) (*Server, error) {
	store := newMemoryStore()
	if err := store.seed(); err != nil {
		return nil, err
	}
	return &Server{store: store, secret: secret, logger: logger}, nil
}

// Handler assembles the chi router with the full /api surface.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(s.requestLogger)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Post("/users/login", s.handleLogin)
		r.Post("/users/register", s.handleRegister)

		r.Group(func(r chi.Router) {
			r.Use(authenticate(s.secret))
			r.Put("/users/update", s.handleUpdateProfile)
			r.Get("/posts", s.handleListPosts)
			r.Post("/posts/create", s.handleCreatePost)
			r.Delete("/posts/{postID}", s.handleDeletePost)
		})
	})

	return router
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
		)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, ok := s.store.findUserByEmail(strings.TrimSpace(req.Email))
	if !ok {
		writeError(w, http.StatusUnauthorized, "Kullanıcı bulunamadı")
		return
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Geçersiz şifre")
		return
	}

	token, err := issueToken(s.secret, u.ID, u.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  s.userJSON(u),
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

func (r registerRequest) displayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.FullName
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email, username and password are required")
		return
	}
	if s.store.emailOrUsernameTaken(req.Email, req.Username) {
		writeError(w, http.StatusConflict, "Bu e-posta veya kullanıcı adı zaten kayıtlı")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not store password")
		return
	}
	u := s.store.createUser(req.Email, req.Username, req.displayName(), hash)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Kayıt başarılı",
		"user":    s.userJSON(u),
	})
}

type updateProfileRequest struct {
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	u, ok := s.store.updateUser(id, req.Name, req.Bio)
	if !ok {
		writeError(w, http.StatusNotFound, "Kullanıcı bulunamadı")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user": s.userJSON(u),
	})
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts := s.store.listPosts()
	out := make([]map[string]interface{}, 0, len(posts))
	for i := range posts {
		out = append(out, s.postJSON(&posts[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

type createPostRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "İçerik boş olamaz")
		return
	}
	p := s.store.createPost(id, req.Content)
	writeJSON(w, http.StatusCreated, s.postJSON(p))
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := callerID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid post id")
		return
	}
	p, ok := s.store.findPost(postID)
	if !ok {
		writeError(w, http.StatusNotFound, "Gönderi bulunamadı")
		return
	}
	if p.AuthorID != id {
		writeError(w, http.StatusForbidden, "Bu gönderiyi silme yetkiniz yok")
		return
	}
	s.store.deletePost(postID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) userJSON(u *user) map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"name":     u.Name,
		"bio":      u.Bio,
		"_count": map[string]interface{}{
			"posts":     s.store.countPostsBy(u.ID),
			"followers": u.Followers,
			"following": u.Following,
		},
	}
}

func (s *Server) postJSON(p *post) map[string]interface{} {
	authorName := ""
	if u, ok := s.store.findUser(p.AuthorID); ok {
		authorName = u.Name
	}
	return map[string]interface{}{
		"id":        p.ID,
		"content":   p.Content,
		"createdAt": p.CreatedAt.Format(time.RFC3339Nano),
		"authorId":  p.AuthorID,
		"author": map[string]interface{}{
			"id":   p.AuthorID,
			"name": authorName,
		},
		"likeCount":          0,
		"likedByCurrentUser": false,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
