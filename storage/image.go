// Package storage persists uploaded post images under the configured media
// root. Images have no database table; the owning post keeps the relative
// reference returned by domain.Image.Ref.
package storage

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"yatube/domain"
	"yatube/errs"
)

// Ensure the ImageService struct properly implements the domain.ImageService
// interface. If it does not, then this expression becomes invalid and won't compile.
var _ domain.ImageService = &ImageService{}

// NewImageService returns an image service storing files under mediaRoot.
func NewImageService(mediaRoot string) *ImageService {
	return &ImageService{
		imageValidator{
			imageFS{
				mediaRoot: mediaRoot,
			},
		},
	}
}

// ImageService manages image files in the filesystem.
type ImageService struct {
	imageValidator
}

// imageValidator runs validations and normalizations on incoming images.
// On success, it passes the image on to imageFS.
type imageValidator struct {
	imageFS
}

// imageFS reads and writes image files below the media root.
// It assumes the image has been validated.
type imageFS struct {
	mediaRoot string
}

// Create validates the uploaded image and writes it below the media root.
// The stored filename is assigned here and can be read from the image object
// afterwards.
func (iv *imageValidator) Create(img *domain.Image) error {
	err := runImageValFns(img,
		iv.belowMaxSize,
		iv.contentTypeValid,
		iv.filenameAssign)
	if err != nil {
		return err
	}
	return iv.imageFS.Create(img)
}

// A imageValFn is any function that takes in a pointer to a domain.Image
// object and returns an error.
type imageValFn func(img *domain.Image) error

func runImageValFns(img *domain.Image, fns ...imageValFn) error {
	for _, fn := range fns {
		if err := fn(img); err != nil {
			return err
		}
	}
	return nil
}

// belowMaxSize makes sure the upload does not exceed the size limit.
func (iv *imageValidator) belowMaxSize(img *domain.Image) error {
	size, err := img.File.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if err = resetReaderPosition(img); err != nil {
		return err
	}
	if size > domain.MaxUploadSize {
		return errs.Errorf(errs.EINVALID, "The image exceeds the upload size limit of %dMB.", domain.MaxUploadSize/(1<<20))
	}
	return nil
}

// contentTypeValid sniffs the file's content type and makes sure it is a
// jpeg or png, regardless of what the client claims.
func (iv *imageValidator) contentTypeValid(img *domain.Image) error {
	buffer := make([]byte, 512)
	if _, err := img.File.Read(buffer); err != nil && err != io.EOF {
		return err
	}
	if err := resetReaderPosition(img); err != nil {
		return err
	}
	contentType := http.DetectContentType(buffer)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return errs.Errorf(errs.EINVALID, "Invalid image content-type, must be image/jpeg or image/png.")
	}
	img.ContentType = contentType
	return nil
}

// filenameAssign gives the stored file a unique name, so uploads can never
// clobber each other.
func (iv *imageValidator) filenameAssign(img *domain.Image) error {
	ext := ".jpg"
	if img.ContentType == "image/png" {
		ext = ".png"
	}
	img.Filename = uuid.NewString() + ext
	return nil
}

func resetReaderPosition(img *domain.Image) error {
	_, err := img.File.Seek(0, io.SeekStart)
	return err
}

// Create writes the image file below the media root.
func (ifs *imageFS) Create(img *domain.Image) error {
	dir := filepath.Join(ifs.mediaRoot, domain.PostsImageDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	dst, err := os.Create(filepath.Join(dir, img.Filename))
	if err != nil {
		return err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, img.File); err != nil {
		return err
	}
	return nil
}

// Delete removes the image file from below the media root.
func (ifs *imageFS) Delete(img *domain.Image) error {
	return os.Remove(filepath.Join(ifs.mediaRoot, domain.PostsImageDir, img.Filename))
}
