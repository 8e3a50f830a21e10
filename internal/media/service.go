package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/senecapartners/seneca-cms-backend/internal/filestore"
	"github.com/senecapartners/seneca-cms-backend/utils"
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

type Service struct {
	repo  Repository
	files filestore.Store
}

func NewService(repo Repository, files filestore.Store) *Service {
	return &Service{repo: repo, files: files}
}

// ========================= PHOTOS =============================

func (s *Service) ListPhotos(ctx context.Context, siteID uint) ([]Photo, error) {
	photos, err := s.repo.ListPhotos(ctx, siteID)
	if err != nil {
		return nil, err
	}
	for i := range photos {
		photos[i].ImageURL = s.files.URL(photos[i].Image)
	}
	return photos, nil
}

func (s *Service) GetPhoto(ctx context.Context, siteID, id uint) (*Photo, error) {
	photo, err := s.repo.GetPhoto(ctx, siteID, id)
	if err != nil {
		return nil, err
	}
	photo.ImageURL = s.files.URL(photo.Image)
	return photo, nil
}

// UploadPhoto stores the image under photos/ and creates the record.
func (s *Service) UploadPhoto(ctx context.Context, siteID uint, caption, ext string, r io.Reader) (*Photo, error) {
	ext = strings.ToLower(ext)
	if !allowedImageExt[ext] {
		return nil, utils.NewValidationError(fmt.Sprintf("unsupported image type %q", ext))
	}
	if err := validateCaption(caption); err != nil {
		return nil, err
	}

	key, err := s.files.Save(ctx, filestore.PrefixPhotos, ext, r)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	photo := &Photo{SiteID: siteID, Image: key, Caption: strings.TrimSpace(caption)}
	if err := s.repo.CreatePhoto(ctx, photo); err != nil {
		s.removeFile(ctx, key)
		return nil, err
	}
	photo.ImageURL = s.files.URL(key)
	return photo, nil
}

func (s *Service) UpdateCaption(ctx context.Context, siteID, id uint, caption string) (*Photo, error) {
	if err := validateCaption(caption); err != nil {
		return nil, err
	}
	photo, err := s.repo.GetPhoto(ctx, siteID, id)
	if err != nil {
		return nil, err
	}
	photo.Caption = strings.TrimSpace(caption)
	if err := s.repo.UpdatePhoto(ctx, photo); err != nil {
		return nil, err
	}
	photo.ImageURL = s.files.URL(photo.Image)
	return photo, nil
}

// DeletePhoto removes the record and then its file.
func (s *Service) DeletePhoto(ctx context.Context, siteID, id uint) error {
	photo, err := s.repo.GetPhoto(ctx, siteID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePhoto(ctx, siteID, id); err != nil {
		return err
	}
	s.removeFile(ctx, photo.Image)
	return nil
}

func validateCaption(caption string) error {
	if utf8.RuneCountInString(strings.TrimSpace(caption)) > 255 {
		return utils.NewValidationError("caption must be at most 255 characters")
	}
	return nil
}

func (s *Service) removeFile(ctx context.Context, key string) {
	if err := s.files.Delete(ctx, key); err != nil && !errors.Is(err, filestore.ErrNotFound) {
		log.Printf("⚠️ failed to remove %s: %v", key, err)
	}
}

// ========================= VIDEOS =============================

func (s *Service) ListVideos(ctx context.Context, siteID uint, filter VideoFilter) ([]Video, error) {
	return s.repo.ListVideos(ctx, siteID, filter)
}

func (s *Service) GetVideo(ctx context.Context, siteID, id uint) (*Video, error) {
	return s.repo.GetVideo(ctx, siteID, id)
}

func (s *Service) CreateVideo(ctx context.Context, siteID uint, in VideoInput) (*Video, error) {
	video := &Video{SiteID: siteID}
	if err := applyVideoInput(video, in); err != nil {
		return nil, err
	}
	if err := s.repo.CreateVideo(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *Service) UpdateVideo(ctx context.Context, siteID, id uint, in VideoInput) (*Video, error) {
	video, err := s.repo.GetVideo(ctx, siteID, id)
	if err != nil {
		return nil, err
	}
	if err := applyVideoInput(video, in); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateVideo(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (s *Service) DeleteVideo(ctx context.Context, siteID, id uint) error {
	return s.repo.DeleteVideo(ctx, siteID, id)
}

func applyVideoInput(v *Video, in VideoInput) error {
	link := strings.TrimSpace(in.YoutubeLink)
	u, err := url.ParseRequestURI(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return utils.NewValidationError("youtube_link must be an http(s) URL")
	}

	year := strings.TrimSpace(in.Year)
	if len(year) != 4 || strings.Trim(year, "0123456789") != "" {
		return utils.NewValidationError("year must have four digits")
	}
	month := strings.TrimSpace(in.Month)
	if month == "" || utf8.RuneCountInString(month) > 20 {
		return utils.NewValidationError("month must be 1 to 20 characters")
	}

	v.YoutubeLink = link
	v.Description = in.Description
	v.Year = year
	v.Month = month
	return nil
}
