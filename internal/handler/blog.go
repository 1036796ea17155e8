package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/inkwell/internal/apperror"
	"github.com/sakif/inkwell/internal/auth"
	"github.com/sakif/inkwell/internal/form"
	"github.com/sakif/inkwell/internal/service"
)

// BlogHandler serves the post listing, post pages, comments, and the
// admin-gated post management routes.
type BlogHandler struct {
	blog   *service.BlogService
	render *Renderer
	logger *slog.Logger
}

// NewBlogHandler creates a BlogHandler.
func NewBlogHandler(blog *service.BlogService, render *Renderer, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{blog: blog, render: render, logger: logger}
}

// HandleIndex renders the post listing, newest first.
//
// HTTP: GET /
func (h *BlogHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.List(r.Context())
	if err != nil {
		h.render.Error(w, r, err)
		return
	}

	h.render.Render(w, r, http.StatusOK, "index", map[string]any{
		"Title": "Inkwell",
		"Posts": posts,
	})
}

// HandleAbout renders the static about page.
//
// HTTP: GET /about
func (h *BlogHandler) HandleAbout(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "about", map[string]any{
		"Title": "About",
	})
}

// HandleShowPost renders one post with its comments and the comment form.
//
// HTTP: GET /post/{id}
//
// A missing or malformed id renders the 404 page, never a nil dereference.
func (h *BlogHandler) HandleShowPost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}

	post, err := h.blog.Get(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}

	comments, err := h.blog.CommentsFor(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}

	h.render.Render(w, r, http.StatusOK, "post", map[string]any{
		"Title":    post.Title,
		"Post":     post,
		"Comments": comments,
		"Form":     &form.CommentForm{},
	})
}

// HandleAddComment validates the comment form and appends a comment by the
// current user, then redirects back to the post (GET) so a refresh can't
// resubmit.
//
// HTTP: POST /post/{id} (login required, enforced by route middleware)
func (h *BlogHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}

	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		// The RequireLogin middleware already guards this route.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	f := form.ParseComment(r)
	if !f.Validate() {
		post, err := h.blog.Get(r.Context(), id)
		if err != nil {
			h.render.Error(w, r, err)
			return
		}
		comments, err := h.blog.CommentsFor(r.Context(), id)
		if err != nil {
			h.render.Error(w, r, err)
			return
		}
		h.render.Render(w, r, http.StatusUnprocessableEntity, "post", map[string]any{
			"Title":    post.Title,
			"Post":     post,
			"Comments": comments,
			"Form":     f,
		})
		return
	}

	if _, err := h.blog.AddComment(r.Context(), id, user.ID, f.Text); err != nil {
		h.render.Error(w, r, err)
		return
	}

	http.Redirect(w, r, "/post/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// HandleNewPostPage renders the empty post form.
//
// HTTP: GET /new-post (login required)
func (h *BlogHandler) HandleNewPostPage(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "make-post", map[string]any{
		"Title":   "New Post",
		"Heading": "New Post",
		"Form":    &form.PostForm{},
	})
}

// HandleCreatePost validates the post form and creates a post authored by
// the current user, stamped with today's date,
// then redirects to the listing.
//
// HTTP: POST /new-post (login required)
func (h *BlogHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	f := form.ParsePost(r)
	if !f.Validate() {
		h.render.Render(w, r, http.StatusUnprocessableEntity, "make-post", map[string]any{
			"Title":   "New Post",
			"Heading": "New Post",
			"Form":    f,
		})
		return
	}

	if _, err := h.blog.Create(r.Context(), user.ID, f.Title, f.Subtitle, f.Body, f.ImgURL); err != nil {
		h.render.Error(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleEditPostPage renders the post form pre-filled with the existing
// post. A missing id is a 404.
//
// HTTP: GET /edit-post/{id} (admin required)
func (h *BlogHandler) HandleEditPostPage(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}

	post, err := h.blog.Get(r.Context(), id)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}

	h.render.Render(w, r, http.StatusOK, "make-post", map[string]any{
		"Title":   "Edit Post",
		"Heading": "Edit Post",
		"Form": &form.PostForm{
			Title:    post.Title,
			Subtitle: post.Subtitle,
			Body:     post.Body,
			ImgURL:   post.ImgURL,
		},
	})
}

// HandleEditPost overwrites the mutable fields of a post and redirects to
// the post's own page.
//
// HTTP: POST /edit-post/{id} (admin required)
func (h *BlogHandler) HandleEditPost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}

	f := form.ParsePost(r)
	if !f.Validate() {
		h.render.Render(w, r, http.StatusUnprocessableEntity, "make-post", map[string]any{
			"Title":   "Edit Post",
			"Heading": "Edit Post",
			"Form":    f,
		})
		return
	}

	post, err := h.blog.Update(r.Context(), id, f.Title, f.Subtitle, f.Body, f.ImgURL)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}

	http.Redirect(w, r, "/post/"+strconv.FormatInt(post.ID, 10), http.StatusSeeOther)
}

// HandleDeletePost deletes a post (and its comments) and redirects to the
// listing.
//
// HTTP: GET /delete/{id} (admin required)
func (h *BlogHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		h.render.Error(w, r, err)
		return
	}

	if err := h.blog.Delete(r.Context(), id); err != nil {
		h.render.Error(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// postID parses the {id} path parameter. A non-numeric id behaves like a
// missing post: NotFound.
func postID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &apperror.AppError{
			Err:     apperror.ErrNotFound,
			Message: "post not found with id " + raw,
		}
	}
	return id, nil
}
