package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// CloudinaryStore keeps uploads in a Cloudinary folder. The stored filename is
// "<public id>.<format>", so it can be mapped back to the asset on removal.
type CloudinaryStore struct {
	cld         *cloudinary.Cloudinary
	folder      string
	allowedExts string
}

func NewCloudinaryStore(cloudinaryURL, folder, allowedExts string) (*CloudinaryStore, error) {
	if cloudinaryURL == "" {
		return nil, errors.New("cloudinary url is empty")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary configuration: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: strings.Trim(folder, "/"), allowedExts: allowedExts}, nil
}

func (s *CloudinaryStore) Ready() error {
	if s.cld == nil {
		return ErrNotReady
	}
	return nil
}

func (s *CloudinaryStore) Save(ctx context.Context, file *multipart.FileHeader) (*StoredFile, error) {
	ext, ok := ExtensionAllowed(file.Filename, s.allowedExts)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	id := uuid.New().String()
	res, err := s.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder:   s.folder,
		PublicID: id,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}

	format := res.Format
	if format == "" {
		format = strings.TrimPrefix(ext, ".")
	}
	return &StoredFile{
		Filename:    id + "." + format,
		Destination: s.folder,
		Path:        res.SecureURL,
		Size:        int64(res.Bytes),
	}, nil
}

func (s *CloudinaryStore) Remove(ctx context.Context, filename string) error {
	if err := ValidateName(filename); err != nil {
		return err
	}
	publicID := strings.TrimSuffix(filename, path.Ext(filename))
	if s.folder != "" {
		publicID = s.folder + "/" + publicID
	}

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Result != "ok" && res.Result != "not found" {
		log.Printf("[CloudinaryStore] destroy %s returned %q", publicID, res.Result)
	}
	return nil
}
