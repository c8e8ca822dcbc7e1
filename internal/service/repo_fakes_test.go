package service

import (
	"context"
	"strings"
	"time"

	"github.com/pazarmk/pazar-backend/internal/model"
	"github.com/pazarmk/pazar-backend/internal/repository"
	"gorm.io/gorm"
)

// In-memory repository fakes. IDs are assigned sequentially; lookups mimic
// the gorm repositories including ErrRecordNotFound.

type fakeUserRepo struct {
	profiles map[string]model.UserProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{profiles: make(map[string]model.UserProfile)}
}

func (f *fakeUserRepo) FindByUID(_ context.Context, uid string) (*model.UserProfile, error) {
	p, ok := f.profiles[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakeUserRepo) FindByUIDs(_ context.Context, uids []string) ([]model.UserProfile, error) {
	var out []model.UserProfile
	for _, uid := range uids {
		if p, ok := f.profiles[uid]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, p := range f.profiles {
		if p.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Create(_ context.Context, profile *model.UserProfile) error {
	profile.CreatedAt = time.Now()
	f.profiles[profile.UID] = *profile
	return nil
}

func (f *fakeUserRepo) SetDB(*gorm.DB) {}

type fakeCategoryRepo struct {
	categories []model.Category
}

func (f *fakeCategoryRepo) ListRoot(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range f.categories {
		if c.ParentID == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) ListAll(_ context.Context) ([]model.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoryRepo) ListChildren(_ context.Context, parentID uint64) ([]model.Category, error) {
	var out []model.Category
	for _, c := range f.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) FindByID(_ context.Context, id uint64) (*model.Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			cat := c
			return &cat, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCategoryRepo) SetDB(*gorm.DB) {}

type fakeListingRepo struct {
	nextID   uint64
	listings map[uint64]model.Listing
	images   map[uint64][]model.ListingImage
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{
		nextID:   1,
		listings: make(map[uint64]model.Listing),
		images:   make(map[uint64][]model.ListingImage),
	}
}

func (f *fakeListingRepo) Create(_ context.Context, listing *model.Listing, images []model.ListingImage) error {
	listing.ID = f.nextID
	f.nextID++
	listing.CreatedAt = time.Now()
	f.listings[listing.ID] = *listing
	for i := range images {
		images[i].ListingID = listing.ID
	}
	f.images[listing.ID] = images
	return nil
}

func (f *fakeListingRepo) FindByID(_ context.Context, id uint64) (*model.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (f *fakeListingRepo) FindByIDs(_ context.Context, ids []uint64) ([]model.Listing, error) {
	var out []model.Listing
	for _, id := range ids {
		if l, ok := f.listings[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) List(_ context.Context, filter repository.ListingFilter) ([]model.Listing, int64, error) {
	var out []model.Listing
	for _, l := range f.listings {
		if l.IsSold {
			continue
		}
		if filter.CategoryID != 0 && l.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Search != "" && !strings.Contains(l.Title, filter.Search) {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (f *fakeListingRepo) ListBySeller(_ context.Context, sellerUID string) ([]model.Listing, error) {
	var out []model.Listing
	for _, l := range f.listings {
		if l.SellerUID == sellerUID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) Update(_ context.Context, listing *model.Listing) error {
	f.listings[listing.ID] = *listing
	return nil
}

func (f *fakeListingRepo) MarkSold(_ context.Context, id uint64) error {
	l := f.listings[id]
	l.IsSold = true
	f.listings[id] = l
	return nil
}

func (f *fakeListingRepo) Delete(_ context.Context, id uint64) error {
	delete(f.listings, id)
	delete(f.images, id)
	return nil
}

func (f *fakeListingRepo) ReplaceImages(_ context.Context, listingID uint64, images []model.ListingImage) error {
	for i := range images {
		images[i].ListingID = listingID
	}
	f.images[listingID] = images
	return nil
}

func (f *fakeListingRepo) ListImagesByListingIDs(_ context.Context, listingIDs []uint64) ([]model.ListingImage, error) {
	var out []model.ListingImage
	for _, id := range listingIDs {
		out = append(out, f.images[id]...)
	}
	return out, nil
}

func (f *fakeListingRepo) SetDB(*gorm.DB) {}

type fakeConversationRepo struct {
	nextConvID uint64
	nextMsgID  uint64
	convs      map[uint64]model.Conversation
	messages   []model.Message
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		nextConvID: 1,
		nextMsgID:  1,
		convs:      make(map[uint64]model.Conversation),
	}
}

func (f *fakeConversationRepo) FindOrCreate(_ context.Context, listingID uint64, buyerUID, sellerUID string) (*model.Conversation, error) {
	for _, cv := range f.convs {
		if cv.ListingID == listingID && cv.BuyerUID == buyerUID && cv.SellerUID == sellerUID {
			found := cv
			return &found, nil
		}
	}
	cv := model.Conversation{
		ID:        f.nextConvID,
		ListingID: listingID,
		BuyerUID:  buyerUID,
		SellerUID: sellerUID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.nextConvID++
	f.convs[cv.ID] = cv
	return &cv, nil
}

func (f *fakeConversationRepo) FindByID(_ context.Context, id uint64) (*model.Conversation, error) {
	cv, ok := f.convs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &cv, nil
}

func (f *fakeConversationRepo) FindByUser(_ context.Context, uid string) ([]model.Conversation, error) {
	var out []model.Conversation
	for _, cv := range f.convs {
		if cv.BuyerUID == uid || cv.SellerUID == uid {
			out = append(out, cv)
		}
	}
	return out, nil
}

func (f *fakeConversationRepo) ConversationIDsByUser(_ context.Context, uid string) ([]uint64, error) {
	var ids []uint64
	for _, cv := range f.convs {
		if cv.BuyerUID == uid || cv.SellerUID == uid {
			ids = append(ids, cv.ID)
		}
	}
	return ids, nil
}

func (f *fakeConversationRepo) CreateMessage(_ context.Context, msg *model.Message) error {
	msg.ID = f.nextMsgID
	f.nextMsgID++
	msg.CreatedAt = time.Now()
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeConversationRepo) ListMessages(_ context.Context, convID uint64, limit int) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.messages {
		if m.ConversationID == convID {
			out = append(out, m)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeConversationRepo) LatestMessages(_ context.Context, convIDs []uint64) (map[uint64]model.Message, error) {
	latest := make(map[uint64]model.Message)
	for _, id := range convIDs {
		for _, m := range f.messages {
			if m.ConversationID == id {
				latest[id] = m
			}
		}
	}
	return latest, nil
}

func (f *fakeConversationRepo) UnreadCounts(_ context.Context, convIDs []uint64, readerUID string) (map[uint64]int64, error) {
	counts := make(map[uint64]int64)
	for _, id := range convIDs {
		for _, m := range f.messages {
			if m.ConversationID == id && !m.IsRead && m.SenderUID != readerUID {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (f *fakeConversationRepo) CountUnread(_ context.Context, convIDs []uint64, readerUID string) (int64, error) {
	counts, _ := f.UnreadCounts(context.Background(), convIDs, readerUID)
	var total int64
	for _, c := range counts {
		total += c
	}
	return total, nil
}

func (f *fakeConversationRepo) MarkRead(_ context.Context, convID uint64, readerUID string) error {
	for i, m := range f.messages {
		if m.ConversationID == convID && !m.IsRead && m.SenderUID != readerUID {
			f.messages[i].IsRead = true
		}
	}
	return nil
}

func (f *fakeConversationRepo) TouchLastMessage(_ context.Context, convID uint64, preview string) error {
	cv, ok := f.convs[convID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	cv.LastMessage = preview
	cv.UpdatedAt = time.Now()
	f.convs[convID] = cv
	return nil
}

func (f *fakeConversationRepo) SetDB(*gorm.DB) {}

type fakeNotificationRepo struct {
	notifications []model.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	n.ID = uint64(len(f.notifications) + 1)
	n.CreatedAt = time.Now()
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userUID string, unreadOnly bool, _ int) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range f.notifications {
		if n.UserUID != userUID {
			continue
		}
		if unreadOnly && n.ReadAt != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userUID string) error {
	now := time.Now()
	for i, n := range f.notifications {
		if n.UserUID == userUID && n.ReadAt == nil {
			f.notifications[i].ReadAt = &now
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkByConversation(_ context.Context, userUID string, convID uint64) error {
	now := time.Now()
	for i, n := range f.notifications {
		if n.UserUID == userUID && n.ConversationID != nil && *n.ConversationID == convID && n.ReadAt == nil {
			f.notifications[i].ReadAt = &now
		}
	}
	return nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userUID string) (int64, error) {
	var cnt int64
	for _, n := range f.notifications {
		if n.UserUID == userUID && n.ReadAt == nil {
			cnt++
		}
	}
	return cnt, nil
}

func (f *fakeNotificationRepo) SetDB(*gorm.DB) {}
