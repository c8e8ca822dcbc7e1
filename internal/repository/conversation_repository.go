package repository

import (
	"context"

	"github.com/pazarmk/pazar-backend/internal/model"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	FindOrCreate(ctx context.Context, listingID uint64, buyerUID, sellerUID string) (*model.Conversation, error)
	FindByID(ctx context.Context, id uint64) (*model.Conversation, error)
	FindByUser(ctx context.Context, uid string) ([]model.Conversation, error)
	ConversationIDsByUser(ctx context.Context, uid string) ([]uint64, error)
	CreateMessage(ctx context.Context, msg *model.Message) error
	ListMessages(ctx context.Context, convID uint64, limit int) ([]model.Message, error)
	LatestMessages(ctx context.Context, convIDs []uint64) (map[uint64]model.Message, error)
	UnreadCounts(ctx context.Context, convIDs []uint64, readerUID string) (map[uint64]int64, error)
	CountUnread(ctx context.Context, convIDs []uint64, readerUID string) (int64, error)
	MarkRead(ctx context.Context, convID uint64, readerUID string) error
	TouchLastMessage(ctx context.Context, convID uint64, preview string) error
	SetDB(db *gorm.DB)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) SetDB(db *gorm.DB) {
	r.db = db
}

// FindOrCreate is safe against concurrent first contact: the conversations
// table carries a unique index on (listing_id, buyer_uid, seller_uid).
func (r *conversationRepository) FindOrCreate(ctx context.Context, listingID uint64, buyerUID, sellerUID string) (*model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	cv := model.Conversation{ListingID: listingID, BuyerUID: buyerUID, SellerUID: sellerUID}
	if err := r.db.WithContext(ctx).
		Where("listing_id = ? AND buyer_uid = ? AND seller_uid = ?", listingID, buyerUID, sellerUID).
		FirstOrCreate(&cv).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id uint64) (*model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var cv model.Conversation
	if err := r.db.WithContext(ctx).First(&cv, id).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *conversationRepository) FindByUser(ctx context.Context, uid string) ([]model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Conversation
	if err := r.db.WithContext(ctx).
		Where("buyer_uid = ? OR seller_uid = ?", uid, uid).
		Order("updated_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *conversationRepository) ConversationIDsByUser(ctx context.Context, uid string) ([]uint64, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var ids []uint64
	if err := r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("buyer_uid = ? OR seller_uid = ?", uid, uid).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *conversationRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListMessages returns messages oldest-first. limit <= 0 returns everything.
func (r *conversationRepository) ListMessages(ctx context.Context, convID uint64, limit int) ([]model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	q := r.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var msgs []model.Message
	if err := q.Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// LatestMessages returns the newest message per conversation. Rows come back
// newest-first; the first row seen per conversation wins.
func (r *conversationRepository) LatestMessages(ctx context.Context, convIDs []uint64) (map[uint64]model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if len(convIDs) == 0 {
		return map[uint64]model.Message{}, nil
	}
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id IN ?", convIDs).
		Order("id DESC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	latest := make(map[uint64]model.Message, len(convIDs))
	for _, m := range msgs {
		if _, ok := latest[m.ConversationID]; !ok {
			latest[m.ConversationID] = m
		}
	}
	return latest, nil
}

func (r *conversationRepository) UnreadCounts(ctx context.Context, convIDs []uint64, readerUID string) (map[uint64]int64, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if len(convIDs) == 0 {
		return map[uint64]int64{}, nil
	}
	type row struct {
		ConversationID uint64
		Cnt            int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Select("conversation_id, COUNT(*) AS cnt").
		Where("conversation_id IN ? AND is_read = ? AND sender_uid <> ?", convIDs, false, readerUID).
		Group("conversation_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[uint64]int64, len(rows))
	for _, r := range rows {
		counts[r.ConversationID] = r.Cnt
	}
	return counts, nil
}

func (r *conversationRepository) CountUnread(ctx context.Context, convIDs []uint64, readerUID string) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	if len(convIDs) == 0 {
		return 0, nil
	}
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_id IN ? AND is_read = ? AND sender_uid <> ?", convIDs, false, readerUID).
		Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

// MarkRead flips counterpart messages only; the reader's own rows are untouched.
func (r *conversationRepository) MarkRead(ctx context.Context, convID uint64, readerUID string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_id = ? AND is_read = ? AND sender_uid <> ?", convID, false, readerUID).
		Update("is_read", true).Error
}

func (r *conversationRepository) TouchLastMessage(ctx context.Context, convID uint64, preview string) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", convID).
		Updates(map[string]interface{}{
			"last_message": preview,
			"updated_at":   r.db.NowFunc(),
		}).Error
}
