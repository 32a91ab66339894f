package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"snapgram/httpx"
	"snapgram/service"

	"github.com/gin-gonic/gin"
)

const imageField = "image"

type ImageHandler struct {
	images   *service.ImageService
	maxFiles int
}

func NewImageHandler(images *service.ImageService, maxFiles int) *ImageHandler {
	if maxFiles <= 0 {
		maxFiles = 3
	}
	return &ImageHandler{images: images, maxFiles: maxFiles}
}

func (h *ImageHandler) UploadFile(c *gin.Context) {
	file, err := c.FormFile(imageField)
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		writeMultipartError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), uploadTimeout)
	defer cancel()

	dto, err := h.images.UploadFile(ctx, file, imageField)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to upload file")
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (h *ImageHandler) UploadFiles(c *gin.Context) {
	var files []*multipart.FileHeader
	form, err := c.MultipartForm()
	switch {
	case err == nil:
		files = form.File[imageField]
	case !errors.Is(err, http.ErrNotMultipart):
		writeMultipartError(c, err)
		return
	}
	if len(files) > h.maxFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d files per upload", h.maxFiles)})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), uploadTimeout)
	defer cancel()

	out, err := h.images.UploadFiles(ctx, files, imageField)
	if err != nil {
		httpx.WriteServiceError(c, err, "failed to upload files")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.images.DeleteImage(ctx, c.Query("filename")); err != nil {
		httpx.WriteServiceError(c, err, "failed to delete image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}

func writeMultipartError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload is too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
}
