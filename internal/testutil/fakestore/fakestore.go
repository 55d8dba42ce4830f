// Package fakestore is an in-process record store speaking the same REST
// dialect as the real one. Tests start it with httptest and point the
// record store client at it.
package fakestore

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
)

// Failure is a canned response returned instead of the normal handler
type Failure struct {
	Status int
	Body   any
	// Raw is written verbatim when set, e.g. to simulate a non-JSON body
	Raw string
}

// Upload is one file received in a multipart request
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Request is a recorded multipart or JSON request
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Values        map[string][]string
	Uploads       []Upload
	JSON          map[string]any
}

// Store is the fake. The zero value is not usable; call New.
type Store struct {
	mu         sync.Mutex
	products   map[string]*entities.Product
	categories map[string]*entities.Category
	blogs      map[string]*entities.BlogPost
	contacts   map[string]*entities.ContactMessage
	users      map[string]string
	secret     []byte
	requireJWT bool
	failures   map[string][]Failure
	requests   []Request
	uploads    int
	now        func() time.Time
	router     *chi.Mux
}

// New creates an empty store
func New() *Store {
	s := &Store{
		products:   make(map[string]*entities.Product),
		categories: make(map[string]*entities.Category),
		blogs:      make(map[string]*entities.BlogPost),
		contacts:   make(map[string]*entities.ContactMessage),
		users:      make(map[string]string),
		secret:     []byte("fakestore-secret"),
		failures:   make(map[string][]Failure),
		now:        time.Now,
	}
	s.router = s.routes()
	return s
}

// Server starts an httptest server for the store
func (s *Store) Server() *httptest.Server {
	return httptest.NewServer(s.router)
}

// ServeHTTP implements http.Handler
func (s *Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Store) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(s.recordAndFail)

	r.Post("/api/auth/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/api/products/getall", s.listProducts)
		r.Post("/api/products/add", s.createProduct)
		r.Put("/api/products/update/{id}", s.updateProduct)
		r.Delete("/api/products/delete/{id}", s.deleteProduct)

		r.Get("/api/categories/getall", s.listCategories)
		r.Post("/api/categories/add", s.createCategory)
		r.Put("/api/categories/update/{id}", s.updateCategory)
		r.Delete("/api/categories/delete/{id}", s.deleteCategory)

		r.Get("/api/blogs/getall", s.listBlogs)
		r.Put("/api/blogs/update/{id}", s.updateBlog)
		r.Delete("/api/blogs/delete/{id}", s.deleteBlog)

		r.Get("/api/contact/getallcontacts", s.listContacts)
		r.Delete("/api/contact/delete/{id}", s.deleteContact)
	})
	return r
}

// FailNext queues a canned failure for the next request whose method and
// path match, e.g. FailNext("PUT", "/api/products/update/p1", ...).
func (s *Store) FailNext(method, path string, f Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], f)
}

// RequireJWT makes every catalog route demand a token issued by Login
func (s *Store) RequireJWT() {
	s.mu.Lock()
	s.requireJWT = true
	s.mu.Unlock()
}

// AddUser registers operator credentials accepted by the login endpoint
func (s *Store) AddUser(username, password string) {
	s.mu.Lock()
	s.users[username] = password
	s.mu.Unlock()
}

// SetClock overrides the store's time source
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// SeedProduct stores p, assigning an id when it has none
func (s *Store) SeedProduct(p entities.Product) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.products[p.ID] = &p
	return p.ID
}

// SeedCategory stores a category and returns its id
func (s *Store) SeedCategory(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &entities.Category{ID: uuid.NewString(), Name: name, CreatedAt: s.now()}
	s.categories[c.ID] = c
	return c.ID
}

// SeedBlog stores b, assigning an id when it has none
func (s *Store) SeedBlog(b entities.BlogPost) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	s.blogs[b.ID] = &b
	return b.ID
}

// SeedContact stores c, assigning an id when it has none
func (s *Store) SeedContact(c entities.ContactMessage) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.contacts[c.ID] = &c
	return c.ID
}

// Product returns a copy of a stored product
func (s *Store) Product(id string) (entities.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return entities.Product{}, false
	}
	return *p, true
}

// Blog returns a copy of a stored blog post
func (s *Store) Blog(id string) (entities.BlogPost, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[id]
	if !ok {
		return entities.BlogPost{}, false
	}
	return *b, true
}

// Categories returns the stored category names, sorted
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c.Name)
	}
	sort.Strings(out)
	return out
}

// Requests returns every request seen so far
func (s *Store) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request matching method and path
// prefix
func (s *Store) LastRequest(method, pathPrefix string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		r := s.requests[i]
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			return r, true
		}
	}
	return Request{}, false
}

// CountRequests returns how many requests matched method and path prefix
func (s *Store) CountRequests(method, pathPrefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Method == method && strings.HasPrefix(r.Path, pathPrefix) {
			n++
		}
	}
	return n
}

func (s *Store) recordAndFail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		}

		ct := r.Header.Get("Content-Type")
		switch {
		case strings.HasPrefix(ct, "multipart/form-data"):
			if err := r.ParseMultipartForm(32 << 20); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
				return
			}
			rec.Values = r.MultipartForm.Value
			rec.Uploads = readUploads(r)
		case strings.HasPrefix(ct, "application/json"):
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid JSON"})
				return
			}
			rec.JSON = body
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		key := r.Method + " " + r.URL.Path
		var failure *Failure
		if queue := s.failures[key]; len(queue) > 0 {
			f := queue[0]
			failure = &f
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if failure != nil {
			if failure.Raw != "" {
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(failure.Status)
				_, _ = w.Write([]byte(failure.Raw))
				return
			}
			writeJSON(w, failure.Status, failure.Body)
			return
		}

		next.ServeHTTP(w, withRequest(r, rec))
	})
}

func (s *Store) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		required := s.requireJWT
		s.mu.Unlock()
		if !required {
			next.ServeHTTP(w, r)
			return
		}

		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		_, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "invalid or missing token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Store) login(w http.ResponseWriter, r *http.Request) {
	rec := requestFrom(r)
	username, _ := rec.JSON["username"].(string)
	password, _ := rec.JSON["password"].(string)

	s.mu.Lock()
	want, ok := s.users[username]
	now := s.now()
	s.mu.Unlock()

	if !ok || want != password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": signed})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func notFound(w http.ResponseWriter, kind, id string) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"success": false,
		"message": fmt.Sprintf("%s %s not found", kind, id),
	})
}
