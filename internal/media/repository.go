package media

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListPhotos(ctx context.Context, siteID uint) ([]Photo, error)
	GetPhoto(ctx context.Context, siteID, id uint) (*Photo, error)
	CreatePhoto(ctx context.Context, photo *Photo) error
	UpdatePhoto(ctx context.Context, photo *Photo) error
	DeletePhoto(ctx context.Context, siteID, id uint) error

	ListVideos(ctx context.Context, siteID uint, filter VideoFilter) ([]Video, error)
	GetVideo(ctx context.Context, siteID, id uint) (*Video, error)
	CreateVideo(ctx context.Context, video *Video) error
	UpdateVideo(ctx context.Context, video *Video) error
	DeleteVideo(ctx context.Context, siteID, id uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) ListPhotos(ctx context.Context, siteID uint) ([]Photo, error) {
	var photos []Photo
	err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}

func (r *repository) GetPhoto(ctx context.Context, siteID, id uint) (*Photo, error) {
	var photo Photo
	if err := r.db.WithContext(ctx).Where("site_id = ?", siteID).First(&photo, id).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *repository) CreatePhoto(ctx context.Context, photo *Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *repository) UpdatePhoto(ctx context.Context, photo *Photo) error {
	return r.db.WithContext(ctx).Save(photo).Error
}

func (r *repository) DeletePhoto(ctx context.Context, siteID, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), &Photo{}, siteID, id)
}

func (r *repository) ListVideos(ctx context.Context, siteID uint, filter VideoFilter) ([]Video, error) {
	var videos []Video
	query := r.db.WithContext(ctx).Where("site_id = ?", siteID)

	if filter.Year != "" {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Month != "" {
		query = query.Where("month ILIKE ?", filter.Month)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		query = query.Where("youtube_link ILIKE ? OR description ILIKE ?", term, term)
	}

	err := query.Order("year DESC, id DESC").Find(&videos).Error
	return videos, err
}

func (r *repository) GetVideo(ctx context.Context, siteID, id uint) (*Video, error) {
	var video Video
	if err := r.db.WithContext(ctx).Where("site_id = ?", siteID).First(&video, id).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *repository) CreateVideo(ctx context.Context, video *Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *repository) UpdateVideo(ctx context.Context, video *Video) error {
	return r.db.WithContext(ctx).Save(video).Error
}

func (r *repository) DeleteVideo(ctx context.Context, siteID, id uint) error {
	return deleteScoped(r.db.WithContext(ctx), &Video{}, siteID, id)
}

func deleteScoped(db *gorm.DB, model interface{}, siteID, id uint) error {
	res := db.Where("site_id = ?", siteID).Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
