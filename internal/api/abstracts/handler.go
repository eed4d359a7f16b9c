package abstracts

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"conference-app/internal/api/response"
	"conference-app/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// multipartSlack is the allowance for form fields on top of the file itself.
const multipartSlack = 1 << 20

type Handler struct {
	svc *workflow.Service
	log zerolog.Logger
}

func NewHandler(svc *workflow.Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// POST /abstracts
func (h *Handler) Create(c *gin.Context) {
	if !h.parseForm(c) {
		return
	}

	input := workflow.AbstractInput{
		Name:             c.PostForm("name"),
		Email:            c.PostForm("email"),
		Affiliation:      c.PostForm("affiliation"),
		Designation:      c.PostForm("designation"),
		Title:            c.PostForm("title"),
		Subject:          c.PostForm("subject"),
		ArticleType:      c.PostForm("articleType"),
		PresentationType: c.PostForm("presentationType"),
		CoAuthors:        c.PostForm("coAuthors"),
	}

	file, err := readUpload(c, "file")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := h.svc.SubmitAbstract(c.Request.Context(), input, file)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Created(c, "Abstract submitted successfully", res)
}

// POST /abstracts/:id/file
func (h *Handler) UploadFile(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	if !h.parseForm(c) {
		return
	}

	file, err := readUpload(c, "file")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	url, err := h.svc.UploadAbstractFile(c.Request.Context(), id, file)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, gin.H{"fileUrl": url})
}

// PUT /abstracts/:id/revision
func (h *Handler) Resubmit(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	var body struct {
		FileURL string `json:"fileUrl"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	abs, err := h.svc.ResubmitAbstract(c.Request.Context(), id, body.FileURL)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.SuccessWithMessage(c, "Abstract resubmitted for review", abs)
}

// GET /abstracts/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := response.PathID(c, "id")
	if !ok {
		return
	}
	abs, err := h.svc.GetAbstract(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, abs)
}

// GET /abstracts/code/:code
func (h *Handler) GetByCode(c *gin.Context) {
	abs, err := h.svc.GetAbstractByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, abs)
}

// GET /abstracts/email/:email
func (h *Handler) ListByEmail(c *gin.Context) {
	list, err := h.svc.ListAbstractsByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.FromError(c, h.log, err)
		return
	}
	response.Success(c, list)
}

func (h *Handler) parseForm(c *gin.Context) bool {
	limit := h.svc.MaxUploadBytes() + multipartSlack
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	if err := c.Request.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(c, "File exceeds the upload limit")
			return false
		}
		response.BadRequest(c, "Expected a multipart form")
		return false
	}
	return true
}

// readUpload returns nil when the form carries no such file.
func readUpload(c *gin.Context, field string) (*workflow.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, errors.New("Invalid file upload")
	}
	return readFileHeader(fh)
}

func readFileHeader(fh *multipart.FileHeader) (*workflow.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, errors.New("Invalid file upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.New("Invalid file upload")
	}
	return &workflow.Upload{
		Data:        data,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}
