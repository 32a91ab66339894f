package service

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"snapgram/models"
	"snapgram/repository"
	"snapgram/storage"
)

// multer reports every part with this encoding; clients read it back.
const uploadEncoding = "7bit"

type ImageService struct {
	images repository.ImageRepository
	store  storage.FileStore
}

func NewImageService(images repository.ImageRepository, store storage.FileStore) *ImageService {
	return &ImageService{images: images, store: store}
}

func (s *ImageService) UploadFile(ctx context.Context, file *multipart.FileHeader, field string) (*models.ImageDTO, error) {
	if file == nil {
		return nil, NewValidationError("no file uploaded")
	}
	return s.save(ctx, file, field)
}

// UploadFiles stores every file and returns a single DTO whose fields list the
// files in upload order, separated by commas.
func (s *ImageService) UploadFiles(ctx context.Context, files []*multipart.FileHeader, field string) ([]models.MergedImageDTO, error) {
	if len(files) == 0 {
		return nil, NewValidationError("no file uploaded")
	}

	saved := make([]*models.ImageDTO, 0, len(files))
	for _, file := range files {
		dto, err := s.save(ctx, file, field)
		if err != nil {
			s.rollback(ctx, saved)
			return nil, err
		}
		saved = append(saved, dto)
	}
	return []models.MergedImageDTO{mergeImages(saved)}, nil
}

func (s *ImageService) save(ctx context.Context, file *multipart.FileHeader, field string) (*models.ImageDTO, error) {
	stored, err := s.store.Save(ctx, file)
	switch {
	case errors.Is(err, storage.ErrNotReady):
		return nil, NewValidationError("upload directory does not exist")
	case errors.Is(err, storage.ErrUnsupportedType):
		return nil, NewValidationError("unsupported image type")
	case err != nil:
		log.Printf("[ImageService] store %q failed: %v", file.Filename, err)
		return nil, NewInternalError("failed to store file")
	}

	record := &models.Image{Filename: stored.Filename, CreatedAt: time.Now().Unix()}
	if err := s.images.Create(ctx, record); err != nil {
		log.Printf("[ImageService] save record %s failed: %v", stored.Filename, err)
		if rmErr := s.store.Remove(ctx, stored.Filename); rmErr != nil {
			log.Printf("[ImageService] rollback of %s failed: %v", stored.Filename, rmErr)
		}
		return nil, NewInternalError("failed to save image")
	}

	return &models.ImageDTO{
		FieldName:    field,
		OriginalName: file.Filename,
		Encoding:     uploadEncoding,
		MimeType:     file.Header.Get("Content-Type"),
		Destination:  stored.Destination,
		Filename:     stored.Filename,
		Path:         stored.Path,
		Size:         stored.Size,
	}, nil
}

func (s *ImageService) rollback(ctx context.Context, saved []*models.ImageDTO) {
	for _, dto := range saved {
		if _, err := s.images.DeleteByFilename(ctx, dto.Filename); err != nil {
			log.Printf("[ImageService] rollback record %s failed: %v", dto.Filename, err)
		}
		if err := s.store.Remove(ctx, dto.Filename); err != nil {
			log.Printf("[ImageService] rollback file %s failed: %v", dto.Filename, err)
		}
	}
}

func mergeImages(files []*models.ImageDTO) models.MergedImageDTO {
	first := files[0]
	merged := models.MergedImageDTO{
		FieldName:    first.FieldName,
		OriginalName: first.OriginalName,
		Encoding:     first.Encoding,
		MimeType:     first.MimeType,
		Destination:  first.Destination,
		Filename:     first.Filename,
		Path:         first.Path,
		Size:         strconv.FormatInt(first.Size, 10),
	}
	for _, f := range files[1:] {
		merged.OriginalName += "," + f.OriginalName
		merged.Encoding += "," + f.Encoding
		merged.MimeType += "," + f.MimeType
		merged.Filename += "," + f.Filename
		merged.Path += "," + f.Path
		merged.Size += "," + strconv.FormatInt(f.Size, 10)
	}
	return merged
}

// DeleteImage removes image records and their bytes. filename is either an
// http(s) URL, whose last path segment names the file, or a comma separated
// list of file names.
func (s *ImageService) DeleteImage(ctx context.Context, filename string) error {
	if err := s.store.Ready(); err != nil {
		return NewValidationError("upload directory does not exist")
	}

	names, err := parseImageNames(filename)
	if err != nil {
		return err
	}

	for _, name := range names {
		if _, err := s.images.DeleteByFilename(ctx, name); err != nil {
			log.Printf("[ImageService] delete record %s failed: %v", name, err)
			return NewInternalError("failed to delete image")
		}
		if err := s.store.Remove(ctx, name); err != nil {
			log.Printf("[ImageService] ⚠️  remove file %s failed: %v", name, err)
		}
	}
	return nil
}

func parseImageNames(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, NewValidationError("filename is required")
	}

	var names []string
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		u, err := url.Parse(input)
		if err != nil {
			return nil, NewValidationError("invalid image url")
		}
		names = []string{path.Base(u.Path)}
	} else {
		for _, part := range strings.Split(input, ",") {
			if part = strings.TrimSpace(part); part != "" {
				names = append(names, part)
			}
		}
	}

	if len(names) == 0 {
		return nil, NewValidationError("filename is required")
	}
	for _, name := range names {
		if err := storage.ValidateName(name); err != nil {
			return nil, NewValidationError("invalid file name")
		}
	}
	return names, nil
}
