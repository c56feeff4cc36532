package service

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	"github.com/carnage999-max/ultimate-app-manager/internal/policy"
	"github.com/carnage999-max/ultimate-app-manager/internal/storage"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

const (
	// UploadURLTTL bounds presigned uploads.
	UploadURLTTL = time.Hour
	uploadPrefix = "uploads/"
)

// FileService hands out presigned upload URLs.
type FileService struct {
	authz     policy.Authorizer
	presigner storage.Presigner
	newID     func() string
}

// UploadTicket is a presigned upload target.
type UploadTicket struct {
	UploadURL string
	FileKey   string
}

func NewFileService(authz policy.Authorizer, presigner storage.Presigner) *FileService {
	if presigner == nil {
		presigner = storage.Unconfigured{}
	}
	return &FileService{authz: authz, presigner: presigner, newID: uuid.NewString}
}

// UploadURL presigns a PUT for uploads/<uuid>-<basename>. The random prefix keeps
// keys unique, and only the base name of the client filename is kept.
func (s *FileService) UploadURL(ctx context.Context, id domain.Identity, filename, contentType string) (*UploadTicket, error) {
	if err := s.authz.Authorize(ctx, id, policy.ActionFileUpload, policy.Resource{Kind: policy.KindFile}); err != nil {
		return nil, err
	}

	base := UploadBaseName(filename)
	if base == "" {
		return nil, apperrors.NewValidationError("filename is required", map[string]any{"field": "filename"})
	}

	key := uploadPrefix + s.newID() + "-" + base
	url, err := s.presigner.PresignUpload(ctx, key, strings.TrimSpace(contentType), UploadURLTTL)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable("storage", err)
	}
	return &UploadTicket{UploadURL: url, FileKey: key}, nil
}

// UploadBaseName strips any directory components from a client filename.
func UploadBaseName(filename string) string {
	name := strings.TrimSpace(strings.ReplaceAll(filename, "\\", "/"))
	if name == "" {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}
