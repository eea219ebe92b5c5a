package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/agency-project-tracker/internal/errors"
	"github.com/yukikurage/agency-project-tracker/internal/posts"
)

// maxPostUpload bounds the multipart body accepted by the posts proxy
const maxPostUpload = 10 << 20

// PostsClient is the remote posts API.
type PostsClient interface {
	Create(ctx context.Context, form posts.PostForm) (json.RawMessage, error)
	List(ctx context.Context) (json.RawMessage, error)
	Delete(ctx context.Context, id string) (json.RawMessage, error)
	Update(ctx context.Context, form posts.PostForm) (json.RawMessage, error)
}

// PostHandler proxies the dashboard's posts feature to the remote API.
type PostHandler struct {
	client PostsClient
}

func NewPostHandler(client PostsClient) *PostHandler {
	return &PostHandler{client: client}
}

func (h *PostHandler) ListPosts(c *gin.Context) {
	out, err := h.client.List(c.Request.Context())
	if err != nil {
		respondPostsError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	form, ok := readPostForm(c)
	if !ok {
		return
	}

	out, err := h.client.Create(c.Request.Context(), form)
	if err != nil {
		respondPostsError(c, err)
		return
	}
	c.Data(http.StatusCreated, "application/json; charset=utf-8", out)
}

// UpdatePost forwards the form with the id from the path.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	form, ok := readPostForm(c)
	if !ok {
		return
	}
	form.Fields["id"] = c.Param("id")

	out, err := h.client.Update(c.Request.Context(), form)
	if err != nil {
		respondPostsError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	out, err := h.client.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondPostsError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

// readPostForm copies the incoming multipart or urlencoded form. The first uploaded file is forwarded.
func readPostForm(c *gin.Context) (posts.PostForm, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPostUpload)
	form := posts.PostForm{Fields: map[string]string{}}

	mf, err := c.MultipartForm()
	switch {
	case err == nil:
		for name, values := range mf.Value {
			if len(values) > 0 {
				form.Fields[name] = values[0]
			}
		}
		for name, headers := range mf.File {
			if len(headers) == 0 {
				continue
			}
			content, err := readUpload(headers[0])
			if err != nil {
				apierrors.BadRequest(c, "Could not read uploaded file")
				return form, false
			}
			form.File = &posts.File{
				FieldName:   name,
				FileName:    headers[0].Filename,
				ContentType: headers[0].Header.Get("Content-Type"),
				Content:     bytes.NewReader(content),
			}
			break
		}
		return form, true
	case !errors.Is(err, http.ErrNotMultipart):
		apierrors.BadRequest(c, "Invalid multipart body")
		return form, false
	}

	if err := c.Request.ParseForm(); err != nil {
		apierrors.BadRequest(c, "Invalid form body")
		return form, false
	}
	for name, values := range c.Request.PostForm {
		if len(values) > 0 {
			form.Fields[name] = values[0]
		}
	}
	return form, true
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func respondPostsError(c *gin.Context, err error) {
	var httpErr *posts.HTTPError
	if errors.As(err, &httpErr) {
		apierrors.BadGateway(c, "Posts service returned an error", gin.H{
			"status": httpErr.StatusCode,
			"body":   httpErr.Body,
		})
		return
	}
	_ = c.Error(err)
	apierrors.BadGateway(c, "Posts service is unreachable", nil)
}
