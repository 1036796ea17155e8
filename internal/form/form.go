// Package form validates submitted form fields before they reach the
// service layer.
//
// Each form type mirrors one HTML form. Validate checks required-ness and
// shape, filling the Errors map keyed by field name; the handler re-renders
// the originating page with those annotations and persists nothing until
// Validate returns true.
package form

import (
	"net/http"
	"net/url"
	"strings"
)

// Errors maps a field name to its validation message.
type Errors map[string]string

// RegisterForm backs the /register page.
type RegisterForm struct {
	Email    string
	Password string
	Name     string
	Errors   Errors
}

// ParseRegister reads the register form fields from a request.
func ParseRegister(r *http.Request) *RegisterForm {
	return &RegisterForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Errors:   Errors{},
	}
}

// Validate checks the form and returns true when it is acceptable.
func (f *RegisterForm) Validate() bool {
	if f.Email == "" {
		f.Errors["email"] = "Email is required."
	} else if !strings.Contains(f.Email, "@") {
		f.Errors["email"] = "Enter a valid email address."
	}
	if f.Password == "" {
		f.Errors["password"] = "Password is required."
	}
	if f.Name == "" {
		f.Errors["name"] = "Name is required."
	}
	return len(f.Errors) == 0
}

// LoginForm backs the /login page.
type LoginForm struct {
	Email    string
	Password string
	Errors   Errors
}

// ParseLogin reads the login form fields from a request.
func ParseLogin(r *http.Request) *LoginForm {
	return &LoginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Errors:   Errors{},
	}
}

func (f *LoginForm) Validate() bool {
	if f.Email == "" {
		f.Errors["email"] = "Email is required."
	}
	if f.Password == "" {
		f.Errors["password"] = "Password is required."
	}
	return len(f.Errors) == 0
}

// PostForm backs both the new-post and edit-post pages.
type PostForm struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
	Errors   Errors
}

// ParsePost reads the post form fields from a request.
func ParsePost(r *http.Request) *PostForm {
	return &PostForm{
		Title:    strings.TrimSpace(r.PostFormValue("title")),
		Subtitle: strings.TrimSpace(r.PostFormValue("subtitle")),
		Body:     r.PostFormValue("body"),
		ImgURL:   strings.TrimSpace(r.PostFormValue("img_url")),
		Errors:   Errors{},
	}
}

func (f *PostForm) Validate() bool {
	if f.Title == "" {
		f.Errors["title"] = "Title is required."
	}
	if f.Subtitle == "" {
		f.Errors["subtitle"] = "Subtitle is required."
	}
	if strings.TrimSpace(f.Body) == "" {
		f.Errors["body"] = "Body is required."
	}
	if f.ImgURL == "" {
		f.Errors["img_url"] = "Image URL is required."
	} else if !isURL(f.ImgURL) {
		f.Errors["img_url"] = "Image URL must be a valid URL."
	}
	return len(f.Errors) == 0
}

// CommentForm backs the comment box on the post page.
type CommentForm struct {
	Text   string
	Errors Errors
}

// ParseComment reads the comment form fields from a request.
func ParseComment(r *http.Request) *CommentForm {
	return &CommentForm{
		Text:   r.PostFormValue("text"),
		Errors: Errors{},
	}
}

func (f *CommentForm) Validate() bool {
	if strings.TrimSpace(f.Text) == "" {
		f.Errors["text"] = "Comment is required."
	}
	return len(f.Errors) == 0
}

// isURL reports whether s parses as an absolute http(s) URL with a host.
// url.Parse accepts almost anything, so the scheme and host checks carry
// the real weight here.
func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
