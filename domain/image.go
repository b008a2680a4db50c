package domain

import (
	"mime/multipart"
	"path"
)

const (
	// PostsImageDir is the directory under the media root where post
	// images are stored.
	PostsImageDir = "posts"
	// MaxUploadSize caps the filesize of an uploaded image.
	MaxUploadSize int64 = 5 << 20 // 5 Megabyte
)

// Image represents an image file to be attached to a post. Images have no
// table of their own: the file lands under the media root and the owning
// post stores the relative reference returned by Ref. File is the uploaded
// blob; Filename is assigned by the storage service on create.
type Image struct {
	Filename    string         `json:"filename"`
	File        multipart.File `json:"-"`
	ContentType string         `json:"-"`
}

// ImageService is a set of methods to work with image files under the media root.
type ImageService interface {
	Create(image *Image) error
	Delete(image *Image) error
}

// Ref returns the reference to the stored image, relative to the media root.
func (i *Image) Ref() string {
	return path.Join(PostsImageDir, i.Filename)
}
