package transport

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ds124wfegd/imagehist/internal/entity"
	"github.com/ds124wfegd/imagehist/internal/pkg/processor"
	"github.com/ds124wfegd/imagehist/internal/service"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedMIME = []string{"image/png", "image/jpeg", "image/gif"}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

type uploadForm struct {
	Angle int `form:"angle"`
}

func (h *ImageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", h.indexData(""))
}

// Upload renders the result page with both images and their histograms.
func (h *ImageHandler) Upload(c *gin.Context) {
	result, err := h.analyze(c)
	if err != nil {
		c.Error(err)
		c.HTML(statusFor(err), "index.html", h.indexData(err.Error()))
		return
	}

	c.HTML(http.StatusOK, "result.html", gin.H{
		"result":        result,
		"originalChart": dataURI(result.OriginalHistogram),
		"rotatedChart":  dataURI(result.RotatedHistogram),
	})
}

func (h *ImageHandler) Analyze(c *gin.Context) {
	result, err := h.analyze(c)
	if err != nil {
		c.Error(err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	r, err := h.service.OpenImage(c.Param("name"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": entity.ErrInvalidName.Error()})
		return
	}

	if err := h.service.DeleteImage(id); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

func (h *ImageHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "imagehist",
	})
}

func (h *ImageHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":     h.opts.AppVersion,
		"environment": h.opts.Environment,
		"allowed_ext": h.opts.AllowedExt,
		"max_bytes":   h.opts.MaxBytes,
		"events":      h.opts.EventDriver,
		"layouts":     []string{processor.Grayscale.String(), processor.RGB.String()},
	})
}

func (h *ImageHandler) analyze(c *gin.Context) (*entity.AnalysisResult, error) {
	upload, err := h.readUpload(c)
	if err != nil {
		return nil, err
	}

	return h.service.Analyze(c.Request.Context(), uuid.New().String(), upload)
}

func (h *ImageHandler) readUpload(c *gin.Context) (service.Upload, error) {
	file, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			return service.Upload{}, entity.ErrFileTooLarge
		}
		return service.Upload{}, entity.ErrNoFile
	}

	var form uploadForm
	if err := c.ShouldBind(&form); err != nil {
		return service.Upload{}, entity.ErrInvalidAngle
	}

	// Проверка расширения
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !h.isAllowedExt(ext) {
		return service.Upload{}, entity.ErrInvalidFileType
	}
	if file.Size == 0 {
		return service.Upload{}, entity.ErrEmptyFile
	}
	if file.Size > h.opts.MaxBytes {
		return service.Upload{}, entity.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return service.Upload{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.opts.MaxBytes+1))
	if err != nil {
		return service.Upload{}, err
	}
	if int64(len(data)) > h.opts.MaxBytes {
		return service.Upload{}, entity.ErrFileTooLarge
	}

	// Расширение может врать, смотрим на содержимое
	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedMIME...) {
		return service.Upload{}, entity.ErrInvalidFileType
	}

	return service.Upload{
		Filename: secureFilename(file.Filename),
		Ext:      mt.Extension(),
		Data:     data,
		Angle:    form.Angle,
	}, nil
}

func (h *ImageHandler) isAllowedExt(ext string) bool {
	for _, allowed := range h.opts.AllowedExt {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

func (h *ImageHandler) indexData(errMsg string) gin.H {
	return gin.H{
		"error":  errMsg,
		"accept": strings.Join(h.opts.AllowedExt, ","),
		"maxMB":  h.opts.MaxBytes >> 20,
	}
}

func statusFor(err error) int {
	var (
		decodeErr      *processor.DecodeError
		unsupportedErr *processor.UnsupportedFormatError
		renderErr      *processor.RenderError
	)

	switch {
	case isTooLarge(err):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, entity.ErrNoFile),
		errors.Is(err, entity.ErrEmptyFile),
		errors.Is(err, entity.ErrInvalidFileType),
		errors.Is(err, entity.ErrInvalidAngle),
		errors.Is(err, entity.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrImageNotFound):
		return http.StatusNotFound
	case errors.As(err, &decodeErr), errors.As(err, &unsupportedErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &renderErr):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || errors.Is(err, entity.ErrFileTooLarge)
}

// secureFilename strips directories and anything outside [A-Za-z0-9_.-].
func secureFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	if name == "" {
		return "image"
	}
	return name
}

func dataURI(report entity.HistogramReport) template.URL {
	return template.URL("data:" + report.MimeType + ";base64," + report.ChartBase64)
}
