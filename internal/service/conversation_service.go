package service

import (
	"context"
	"errors"

	"github.com/pazarmk/pazar-backend/internal/model"
	"github.com/pazarmk/pazar-backend/internal/realtime"
	"github.com/pazarmk/pazar-backend/internal/repository"
	"gorm.io/gorm"
)

const lastMessagePreviewLen = 120

// ListingSummary is the slice of a listing the conversation list needs.
type ListingSummary struct {
	ID              uint64
	Title           string
	Price           uint
	DefaultImageURL *string
}

// ConversationSummary is one row of the conversation list: the conversation
// plus listing summary, both participants, the latest message and the
// caller's unread count.
type ConversationSummary struct {
	Conversation  model.Conversation
	Listing       *ListingSummary
	Buyer         *model.UserProfile
	Seller        *model.UserProfile
	LatestMessage *model.Message
	UnreadCount   int64
}

type ConversationService interface {
	CreateOrGet(ctx context.Context, listingID uint64, buyerUID string) (*model.Conversation, error)
	Get(ctx context.Context, convID uint64, uid string) (*model.Conversation, error)
	ListByUser(ctx context.Context, uid string) ([]ConversationSummary, error)
	ListMessages(ctx context.Context, convID uint64, uid string) ([]model.Message, error)
	SendMessage(ctx context.Context, convID uint64, senderUID, content string) (*model.Message, error)
	MarkRead(ctx context.Context, convID uint64, uid string) error
	UnreadCount(ctx context.Context, uid string) (int64, error)
}

type conversationService struct {
	convRepo    repository.ConversationRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	hub         *realtime.Hub
	notifySvc   NotificationService
}

func NewConversationService(convRepo repository.ConversationRepository, listingRepo repository.ListingRepository, userRepo repository.UserRepository, hub *realtime.Hub, notifySvc NotificationService) ConversationService {
	return &conversationService{
		convRepo:    convRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		hub:         hub,
		notifySvc:   notifySvc,
	}
}

// CreateOrGet resolves the (listing, buyer, seller) conversation, creating it
// on first contact. The seller comes from the listing; the unique index on
// the triple makes repeated and concurrent calls return the same row.
func (s *conversationService) CreateOrGet(ctx context.Context, listingID uint64, buyerUID string) (*model.Conversation, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if listing.SellerUID == "" {
		return nil, errors.New("listing has no seller")
	}
	if listing.SellerUID == buyerUID {
		return nil, errors.New("cannot chat with yourself")
	}
	return s.convRepo.FindOrCreate(ctx, listingID, buyerUID, listing.SellerUID)
}

func (s *conversationService) Get(ctx context.Context, convID uint64, uid string) (*model.Conversation, error) {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cv.BuyerUID != uid && cv.SellerUID != uid {
		return nil, ErrForbidden
	}
	return cv, nil
}

// ListByUser aggregates the caller's conversations newest-activity first.
// Five batched queries (conversations, listings, images, profiles, latest
// messages + unread counts) are joined here; a conversation whose listing
// was deleted keeps its row with no listing summary.
func (s *conversationService) ListByUser(ctx context.Context, uid string) ([]ConversationSummary, error) {
	convs, err := s.convRepo.FindByUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(convs) == 0 {
		return []ConversationSummary{}, nil
	}

	convIDs := make([]uint64, 0, len(convs))
	listingIDSet := make(map[uint64]struct{})
	uidSet := make(map[string]struct{})
	for _, cv := range convs {
		convIDs = append(convIDs, cv.ID)
		listingIDSet[cv.ListingID] = struct{}{}
		uidSet[cv.BuyerUID] = struct{}{}
		uidSet[cv.SellerUID] = struct{}{}
	}
	listingIDs := make([]uint64, 0, len(listingIDSet))
	for id := range listingIDSet {
		listingIDs = append(listingIDs, id)
	}
	uids := make([]string, 0, len(uidSet))
	for u := range uidSet {
		uids = append(uids, u)
	}

	listings, err := s.listingRepo.FindByIDs(ctx, listingIDs)
	if err != nil {
		return nil, err
	}
	images, err := s.listingRepo.ListImagesByListingIDs(ctx, listingIDs)
	if err != nil {
		return nil, err
	}
	profiles, err := s.userRepo.FindByUIDs(ctx, uids)
	if err != nil {
		return nil, err
	}
	latest, err := s.convRepo.LatestMessages(ctx, convIDs)
	if err != nil {
		return nil, err
	}
	unread, err := s.convRepo.UnreadCounts(ctx, convIDs, uid)
	if err != nil {
		return nil, err
	}

	defaultImageByListing := make(map[uint64]string)
	for _, img := range images {
		if img.IsDefault {
			defaultImageByListing[img.ListingID] = img.ImageURL
		}
	}
	listingByID := make(map[uint64]model.Listing, len(listings))
	for _, l := range listings {
		listingByID[l.ID] = l
	}
	profileByUID := make(map[string]model.UserProfile, len(profiles))
	for _, p := range profiles {
		profileByUID[p.UID] = p
	}

	summaries := make([]ConversationSummary, 0, len(convs))
	for _, cv := range convs {
		sum := ConversationSummary{Conversation: cv, UnreadCount: unread[cv.ID]}
		if l, ok := listingByID[cv.ListingID]; ok {
			ls := ListingSummary{ID: l.ID, Title: l.Title, Price: l.Price}
			if url, ok := defaultImageByListing[l.ID]; ok {
				u := url
				ls.DefaultImageURL = &u
			}
			sum.Listing = &ls
		}
		if p, ok := profileByUID[cv.BuyerUID]; ok {
			buyer := p
			sum.Buyer = &buyer
		}
		if p, ok := profileByUID[cv.SellerUID]; ok {
			seller := p
			sum.Seller = &seller
		}
		if m, ok := latest[cv.ID]; ok {
			msg := m
			sum.LatestMessage = &msg
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

func (s *conversationService) ListMessages(ctx context.Context, convID uint64, uid string) ([]model.Message, error) {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cv.BuyerUID != uid && cv.SellerUID != uid {
		return nil, ErrForbidden
	}
	return s.convRepo.ListMessages(ctx, convID, 0)
}

// SendMessage inserts the message unread, bumps the conversation's activity
// and preview, pushes the event to realtime subscribers and leaves a
// best-effort notification for the counterpart.
func (s *conversationService) SendMessage(ctx context.Context, convID uint64, senderUID, content string) (*model.Message, error) {
	if content == "" {
		return nil, errors.New("content is required")
	}
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cv.BuyerUID != senderUID && cv.SellerUID != senderUID {
		return nil, ErrForbidden
	}

	msg := &model.Message{
		ConversationID: convID,
		SenderUID:      senderUID,
		Content:        content,
	}
	if err := s.convRepo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	preview := content
	// Truncate on rune boundaries; slicing bytes would split Cyrillic content.
	if runes := []rune(content); len(runes) > lastMessagePreviewLen {
		preview = string(runes[:lastMessagePreviewLen])
	}
	if err := s.convRepo.TouchLastMessage(ctx, convID, preview); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Publish(convID, cv.BuyerUID, cv.SellerUID, realtime.NewMessageEvent(msg))
	}
	if s.notifySvc != nil {
		recipient := cv.BuyerUID
		if senderUID == cv.BuyerUID {
			recipient = cv.SellerUID
		}
		s.notifySvc.Notify(ctx, recipient, "message", "New message", preview, &cv.ListingID, &cv.ID)
	}
	return msg, nil
}

// MarkRead flips unread counterpart messages and clears the caller's
// notifications for the conversation.
func (s *conversationService) MarkRead(ctx context.Context, convID uint64, uid string) error {
	cv, err := s.convRepo.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if cv.BuyerUID != uid && cv.SellerUID != uid {
		return ErrForbidden
	}
	if err := s.convRepo.MarkRead(ctx, convID, uid); err != nil {
		return err
	}
	if s.notifySvc != nil {
		s.notifySvc.MarkByConversation(ctx, uid, convID)
	}
	return nil
}

// UnreadCount resolves the caller's conversation ids, then counts unread
// counterpart messages in that set. A message landing between the two steps
// is missed until the next poll.
func (s *conversationService) UnreadCount(ctx context.Context, uid string) (int64, error) {
	ids, err := s.convRepo.ConversationIDsByUser(ctx, uid)
	if err != nil {
		return 0, err
	}
	return s.convRepo.CountUnread(ctx, ids, uid)
}
