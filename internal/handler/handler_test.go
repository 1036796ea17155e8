package handler_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/inkwell/internal/auth"
	"github.com/sakif/inkwell/internal/handler"
	sqliteRepo "github.com/sakif/inkwell/internal/repository/sqlite"
	"github.com/sakif/inkwell/internal/service"
)

const testSecret = "test-secret-at-least-16-chars!!"

// testApp wires the full handler stack against an in-memory database, with
// the same routes and guards as internal/server. bcrypt runs at cost 4 so
// the register/login round-trips stay fast.
type testApp struct {
	router   *chi.Mux
	db       *sqliteRepo.DB
	sessions *auth.SessionService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqliteRepo.New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sessions, err := auth.NewSessionService(testSecret)
	if err != nil {
		t.Fatalf("creating session service: %v", err)
	}

	render, err := handler.NewRenderer("../../web/templates", logger)
	if err != nil {
		t.Fatalf("parsing templates: %v", err)
	}

	users := db.Users()
	authSvc := service.NewAuthService(users, auth.NewPasswordServiceForTest(4), logger)
	blogSvc := service.NewBlogService(db.Posts(), db.Comments(), logger)

	authHandler := handler.NewAuthHandler(authSvc, sessions, render, logger)
	blogHandler := handler.NewBlogHandler(blogSvc, render, logger)

	router := chi.NewRouter()
	router.Use(auth.WithCurrentUser(sessions, users, logger))

	router.Get("/", blogHandler.HandleIndex)
	router.Get("/about", blogHandler.HandleAbout)
	router.Get("/register", authHandler.HandleRegisterPage)
	router.Post("/register", authHandler.HandleRegister)
	router.Get("/login", authHandler.HandleLoginPage)
	router.Post("/login", authHandler.HandleLogin)
	router.Get("/logout", authHandler.HandleLogout)
	router.Get("/post/{id}", blogHandler.HandleShowPost)

	router.With(auth.RequireLogin).Post("/post/{id}", blogHandler.HandleAddComment)
	router.With(auth.RequireLogin).Get("/new-post", blogHandler.HandleNewPostPage)
	router.With(auth.RequireLogin).Post("/new-post", blogHandler.HandleCreatePost)

	router.With(auth.RequireAdmin).Get("/edit-post/{id}", blogHandler.HandleEditPostPage)
	router.With(auth.RequireAdmin).Post("/edit-post/{id}", blogHandler.HandleEditPost)
	router.With(auth.RequireAdmin).Get("/delete/{id}", blogHandler.HandleDeletePost)

	return &testApp{router: router, db: db, sessions: sessions}
}

// do performs a request against the app and returns the recorder.
func (app *testApp) do(method, target string, body url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(body.Encode())
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

// register signs up a user through the real route and returns the session
// cookie the response carried.
func (app *testApp) register(t *testing.T, email, password, name string) *http.Cookie {
	t.Helper()

	body := url.Values{}
	body.Set("email", email)
	body.Set("password", password)
	body.Set("name", name)

	rec := app.do(http.MethodPost, "/register", body)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("register %s: status = %d, want %d", email, rec.Code, http.StatusSeeOther)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("register %s: no session cookie in response", email)
	}
	return cookie
}

// sessionCookie extracts the session cookie from a response, or nil.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie && c.Value != "" {
			return c
		}
	}
	return nil
}

// flashCookie extracts the flash-notice cookie from a response, or nil.
func flashCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash" && c.Value != "" {
			return c
		}
	}
	return nil
}

// postForm builds a valid post form body.
func postForm(title string) url.Values {
	body := url.Values{}
	body.Set("title", title)
	body.Set("subtitle", "a subtitle")
	body.Set("body", "<p>post body</p>")
	body.Set("img_url", "https://example.com/header.jpg")
	return body
}
