package services

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const profilePicFolder = "lingua/avatars"

// ProfilePicUploader stores an uploaded image and returns its public URL.
type ProfilePicUploader interface {
	UploadProfilePic(ctx context.Context, file io.Reader, userID string) (string, error)
}

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryService{cld: cld}, nil
}

// UploadProfilePic uploads under a per-user public id so a new picture
// replaces the previous one.
func (s *CloudinaryService) UploadProfilePic(ctx context.Context, file io.Reader, userID string) (string, error) {
	uploadResult, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       profilePicFolder,
		PublicID:     userID,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if uploadResult.SecureURL == "" {
		return "", fmt.Errorf("cloudinary returned no URL")
	}

	return uploadResult.SecureURL, nil
}
