package repository

import (
	"context"

	"github.com/pazarmk/pazar-backend/internal/model"
	"gorm.io/gorm"
)

// ListingFilter narrows List results. Zero values mean "no filter".
type ListingFilter struct {
	Search     string
	CategoryID uint64
	Limit      int
	Offset     int
}

type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing, images []model.ListingImage) error
	FindByID(ctx context.Context, id uint64) (*model.Listing, error)
	List(ctx context.Context, f ListingFilter) ([]model.Listing, int64, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error)
	Update(ctx context.Context, listing *model.Listing) error
	MarkSold(ctx context.Context, id uint64) error
	Delete(ctx context.Context, id uint64) error
	ReplaceImages(ctx context.Context, listingID uint64, images []model.ListingImage) error
	ListImagesByListingIDs(ctx context.Context, listingIDs []uint64) ([]model.ListingImage, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]model.Listing, error)
	SetDB(db *gorm.DB)
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func (r *listingRepository) Create(ctx context.Context, listing *model.Listing, images []model.ListingImage) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ListingID = listing.ID
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *listingRepository) FindByID(ctx context.Context, id uint64) (*model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var l model.Listing
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *listingRepository) FindByIDs(ctx context.Context, ids []uint64) ([]model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var list []model.Listing
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *listingRepository) List(ctx context.Context, f ListingFilter) ([]model.Listing, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	q := r.db.WithContext(ctx).Model(&model.Listing{}).Where("is_sold = ?", false)
	if f.Search != "" {
		q = q.Where("title LIKE ?", "%"+f.Search+"%")
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []model.Listing
	if err := q.
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *listingRepository) ListBySeller(ctx context.Context, sellerUID string) ([]model.Listing, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Listing
	if err := r.db.WithContext(ctx).
		Where("seller_uid = ?", sellerUID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *listingRepository) Update(ctx context.Context, listing *model.Listing) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(listing).Error
}

func (r *listingRepository) MarkSold(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.Listing{}).
		Where("id = ?", id).
		Update("is_sold", true).Error
}

// Delete removes the listing and its images. Conversations referencing the
// listing are left in place; the aggregator tolerates the missing listing.
func (r *listingRepository) Delete(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&model.ListingImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Listing{}, id).Error
	})
}

func (r *listingRepository) ReplaceImages(ctx context.Context, listingID uint64, images []model.ListingImage) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).Delete(&model.ListingImage{}).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ID = 0
			images[i].ListingID = listingID
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *listingRepository) ListImagesByListingIDs(ctx context.Context, listingIDs []uint64) ([]model.ListingImage, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if len(listingIDs) == 0 {
		return nil, nil
	}
	var imgs []model.ListingImage
	if err := r.db.WithContext(ctx).
		Where("listing_id IN ?", listingIDs).
		Order("order_index ASC").
		Find(&imgs).Error; err != nil {
		return nil, err
	}
	return imgs, nil
}
