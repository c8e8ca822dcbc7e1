package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pazarmk/pazar-backend/internal/model"
	"github.com/pazarmk/pazar-backend/internal/repository"
	"gorm.io/gorm"
)

// NewListingImage is one entry of the image set supplied on create/update.
type NewListingImage struct {
	URL        string
	IsDefault  bool
	OrderIndex int
}

type NewListing struct {
	Title           string
	Description     string
	Price           uint
	CategoryID      uint64
	LocationLat     *float64
	LocationLng     *float64
	LocationAddress *string
	Images          []NewListingImage
}

// ListingDetail is a listing enriched with its category, seller profile and
// ordered image set.
type ListingDetail struct {
	Listing  model.Listing
	Category *model.Category
	Seller   *model.UserProfile
	Images   []model.ListingImage
}

type ListingService interface {
	Create(ctx context.Context, sellerUID string, in NewListing) (*ListingDetail, error)
	Get(ctx context.Context, id uint64) (*ListingDetail, error)
	GetOwned(ctx context.Context, id uint64, sellerUID string) (*ListingDetail, error)
	List(ctx context.Context, search string, categoryID uint64, limit, offset int) ([]ListingDetail, int64, error)
	ListMine(ctx context.Context, sellerUID string) ([]ListingDetail, error)
	Update(ctx context.Context, id uint64, sellerUID string, in NewListing, replaceImages bool) (*ListingDetail, error)
	MarkSold(ctx context.Context, id uint64, sellerUID string) error
	Delete(ctx context.Context, id uint64, sellerUID string) error
}

type listingService struct {
	repo     repository.ListingRepository
	catRepo  repository.CategoryRepository
	userRepo repository.UserRepository
}

func NewListingService(repo repository.ListingRepository, catRepo repository.CategoryRepository, userRepo repository.UserRepository) ListingService {
	return &listingService{repo: repo, catRepo: catRepo, userRepo: userRepo}
}

func (s *listingService) Create(ctx context.Context, sellerUID string, in NewListing) (*ListingDetail, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	if err := validateListing(&in); err != nil {
		return nil, err
	}
	if _, err := s.catRepo.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("unknown category")
		}
		return nil, err
	}

	listing := &model.Listing{
		SellerUID:       sellerUID,
		Title:           in.Title,
		Description:     in.Description,
		Price:           in.Price,
		CategoryID:      in.CategoryID,
		LocationLat:     in.LocationLat,
		LocationLng:     in.LocationLng,
		LocationAddress: in.LocationAddress,
	}
	if err := s.repo.Create(ctx, listing, toImageRows(in.Images)); err != nil {
		return nil, err
	}
	return s.detail(ctx, listing)
}

// Get returns an unsold listing; sold or missing listings are not found,
// matching the public detail page.
func (s *listingService) Get(ctx context.Context, id uint64) (*ListingDetail, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if listing.IsSold {
		return nil, ErrNotFound
	}
	return s.detail(ctx, listing)
}

func (s *listingService) GetOwned(ctx context.Context, id uint64, sellerUID string) (*ListingDetail, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if listing.SellerUID != sellerUID {
		return nil, ErrForbidden
	}
	return s.detail(ctx, listing)
}

func (s *listingService) List(ctx context.Context, search string, categoryID uint64, limit, offset int) ([]ListingDetail, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	listings, total, err := s.repo.List(ctx, repository.ListingFilter{
		Search:     strings.TrimSpace(search),
		CategoryID: categoryID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, 0, err
	}
	details, err := s.enrich(ctx, listings)
	if err != nil {
		return nil, 0, err
	}
	return details, total, nil
}

func (s *listingService) ListMine(ctx context.Context, sellerUID string) ([]ListingDetail, error) {
	listings, err := s.repo.ListBySeller(ctx, sellerUID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, listings)
}

func (s *listingService) Update(ctx context.Context, id uint64, sellerUID string, in NewListing, replaceImages bool) (*ListingDetail, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if listing.SellerUID != sellerUID {
		return nil, ErrForbidden
	}
	if err := validateListing(&in); err != nil {
		return nil, err
	}
	if _, err := s.catRepo.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("unknown category")
		}
		return nil, err
	}

	listing.Title = in.Title
	listing.Description = in.Description
	listing.Price = in.Price
	listing.CategoryID = in.CategoryID
	listing.LocationLat = in.LocationLat
	listing.LocationLng = in.LocationLng
	listing.LocationAddress = in.LocationAddress
	if err := s.repo.Update(ctx, listing); err != nil {
		return nil, err
	}
	if replaceImages {
		if err := s.repo.ReplaceImages(ctx, id, toImageRows(in.Images)); err != nil {
			return nil, err
		}
	}
	return s.detail(ctx, listing)
}

func (s *listingService) MarkSold(ctx context.Context, id uint64, sellerUID string) error {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if listing.SellerUID != sellerUID {
		return ErrForbidden
	}
	return s.repo.MarkSold(ctx, id)
}

func (s *listingService) Delete(ctx context.Context, id uint64, sellerUID string) error {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if listing.SellerUID != sellerUID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *listingService) detail(ctx context.Context, listing *model.Listing) (*ListingDetail, error) {
	details, err := s.enrich(ctx, []model.Listing{*listing})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// enrich joins categories, seller profiles and image sets in three batched
// queries.
func (s *listingService) enrich(ctx context.Context, listings []model.Listing) ([]ListingDetail, error) {
	if len(listings) == 0 {
		return []ListingDetail{}, nil
	}

	cats, err := s.catRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	catByID := make(map[uint64]model.Category, len(cats))
	for _, c := range cats {
		catByID[c.ID] = c
	}

	uidSet := make(map[string]struct{})
	idSet := make([]uint64, 0, len(listings))
	for _, l := range listings {
		uidSet[l.SellerUID] = struct{}{}
		idSet = append(idSet, l.ID)
	}
	uids := make([]string, 0, len(uidSet))
	for uid := range uidSet {
		uids = append(uids, uid)
	}
	sellers, err := s.userRepo.FindByUIDs(ctx, uids)
	if err != nil {
		return nil, err
	}
	sellerByUID := make(map[string]model.UserProfile, len(sellers))
	for _, u := range sellers {
		sellerByUID[u.UID] = u
	}

	images, err := s.repo.ListImagesByListingIDs(ctx, idSet)
	if err != nil {
		return nil, err
	}
	imagesByListing := make(map[uint64][]model.ListingImage)
	for _, img := range images {
		imagesByListing[img.ListingID] = append(imagesByListing[img.ListingID], img)
	}

	details := make([]ListingDetail, 0, len(listings))
	for _, l := range listings {
		d := ListingDetail{Listing: l, Images: imagesByListing[l.ID]}
		if c, ok := catByID[l.CategoryID]; ok {
			cat := c
			d.Category = &cat
		}
		if u, ok := sellerByUID[l.SellerUID]; ok {
			seller := u
			d.Seller = &seller
		}
		details = append(details, d)
	}
	return details, nil
}

func validateListing(in *NewListing) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || len(in.Title) > 120 {
		return errors.New("invalid title")
	}
	if in.Description == "" {
		return errors.New("invalid description")
	}
	if in.CategoryID == 0 {
		return errors.New("category is required")
	}
	for _, img := range in.Images {
		if strings.HasPrefix(strings.TrimSpace(img.URL), "data:") {
			return errors.New("image url must be a URL, not data URI")
		}
	}
	return nil
}

// toImageRows converts the request image set, enforcing exactly one default:
// surplus defaults are demoted and, when none is flagged, the first image
// becomes the default.
func toImageRows(images []NewListingImage) []model.ListingImage {
	rows := make([]model.ListingImage, 0, len(images))
	seenDefault := false
	for _, img := range images {
		isDefault := img.IsDefault && !seenDefault
		if isDefault {
			seenDefault = true
		}
		rows = append(rows, model.ListingImage{
			ImageURL:   img.URL,
			IsDefault:  isDefault,
			OrderIndex: img.OrderIndex,
		})
	}
	if !seenDefault && len(rows) > 0 {
		rows[0].IsDefault = true
	}
	return rows
}
