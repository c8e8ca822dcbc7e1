package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pazarmk/pazar-backend/internal/model"
	"github.com/pazarmk/pazar-backend/internal/realtime"
)

func newConvFixture(t *testing.T) (ConversationService, *fakeConversationRepo, *fakeListingRepo, *fakeUserRepo, *realtime.Hub) {
	t.Helper()
	convRepo := newFakeConversationRepo()
	listingRepo := newFakeListingRepo()
	userRepo := newFakeUserRepo()
	hub := realtime.NewHub()
	notifySvc := NewNotificationService(&fakeNotificationRepo{})
	svc := NewConversationService(convRepo, listingRepo, userRepo, hub, notifySvc)
	return svc, convRepo, listingRepo, userRepo, hub
}

func seedListing(listingRepo *fakeListingRepo, sellerUID string) *model.Listing {
	l := &model.Listing{SellerUID: sellerUID, Title: "Bike", Description: "city bike", Price: 120, CategoryID: 1}
	_ = listingRepo.Create(context.Background(), l, nil)
	return l
}

func TestCreateOrGetIsIdempotent(t *testing.T) {
	svc, _, listingRepo, _, _ := newConvFixture(t)
	l := seedListing(listingRepo, "seller")

	first, err := svc.CreateOrGet(context.Background(), l.ID, "buyer")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := svc.CreateOrGet(context.Background(), l.ID, "buyer")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("resolver created a duplicate: %d != %d", first.ID, second.ID)
	}
}

func TestCreateOrGetRejectsSelfChat(t *testing.T) {
	svc, _, listingRepo, _, _ := newConvFixture(t)
	l := seedListing(listingRepo, "seller")

	if _, err := svc.CreateOrGet(context.Background(), l.ID, "seller"); err == nil {
		t.Fatal("expected error for seller chatting with themselves")
	}
}

func TestCreateOrGetUnknownListing(t *testing.T) {
	svc, _, _, _, _ := newConvFixture(t)

	if _, err := svc.CreateOrGet(context.Background(), 99, "buyer"); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestSendMessage(t *testing.T) {
	svc, convRepo, listingRepo, _, _ := newConvFixture(t)
	l := seedListing(listingRepo, "seller")
	cv, _ := svc.CreateOrGet(context.Background(), l.ID, "buyer")

	tests := []struct {
		name    string
		convID  uint64
		sender  string
		content string
		wantErr bool
	}{
		{"ok", cv.ID, "buyer", "Hi, is this available?", false},
		{"empty content", cv.ID, "buyer", "", true},
		{"not a participant", cv.ID, "stranger", "hello", true},
		{"unknown conversation", 42, "buyer", "hello", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := svc.SendMessage(context.Background(), tt.convID, tt.sender, tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if msg.IsRead {
				t.Error("new message must start unread")
			}
			if msg.CreatedAt.IsZero() {
				t.Error("message must carry a server-assigned timestamp")
			}
			updated, _ := convRepo.FindByID(context.Background(), cv.ID)
			if updated.LastMessage != tt.content {
				t.Errorf("preview = %q, want %q", updated.LastMessage, tt.content)
			}
		})
	}
}

func TestSendMessagePreviewKeepsRunesIntact(t *testing.T) {
	svc, convRepo, listingRepo, _, _ := newConvFixture(t)
	l := seedListing(listingRepo, "seller")
	cv, _ := svc.CreateOrGet(context.Background(), l.ID, "buyer")

	content := strings.TrimSpace(strings.Repeat("здраво ", 30))
	if _, err := svc.SendMessage(context.Background(), cv.ID, "buyer", content); err != nil {
		t.Fatalf("send: %v", err)
	}

	updated, _ := convRepo.FindByID(context.Background(), cv.ID)
	if !utf8.ValidString(updated.LastMessage) {
		t.Fatalf("preview is not valid UTF-8: %q", updated.LastMessage)
	}
	if got := utf8.RuneCountInString(updated.LastMessage); got != lastMessagePreviewLen {
		t.Fatalf("preview rune count = %d, want %d", got, lastMessagePreviewLen)
	}
	if !strings.HasPrefix(content, updated.LastMessage) {
		t.Fatalf("preview %q is not a prefix of the message", updated.LastMessage)
	}
}

func TestSendMessagePublishesToHub(t *testing.T) {
	svc, _, listingRepo, _, hub := newConvFixture(t)
	l := seedListing(listingRepo, "seller")
	cv, _ := svc.CreateOrGet(context.Background(), l.ID, "buyer")

	sub := hub.Subscribe("seller", cv.ID)
	defer hub.Unsubscribe(sub)

	if _, err := svc.SendMessage(context.Background(), cv.ID, "buyer", "ping"); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case ev := <-sub.Send:
		if ev.Type != realtime.EventNewMessage {
			t.Fatalf("event type = %q", ev.Type)
		}
		if ev.Message == nil || ev.Message.Content != "ping" {
			t.Fatalf("unexpected payload: %+v", ev.Message)
		}
	default:
		t.Fatal("no event delivered to subscriber")
	}
}

func TestMarkReadFlipsOnlyCounterpartMessages(t *testing.T) {
	svc, convRepo, listingRepo, _, _ := newConvFixture(t)
	l := seedListing(listingRepo, "seller")
	cv, _ := svc.CreateOrGet(context.Background(), l.ID, "buyer")

	if _, err := svc.SendMessage(context.Background(), cv.ID, "buyer", "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.SendMessage(context.Background(), cv.ID, "seller", "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := svc.MarkRead(context.Background(), cv.ID, "seller"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	msgs, _ := convRepo.ListMessages(context.Background(), cv.ID, 0)
	for _, m := range msgs {
		switch m.SenderUID {
		case "buyer":
			if !m.IsRead {
				t.Errorf("buyer's message %d should be read", m.ID)
			}
		case "seller":
			if m.IsRead {
				t.Errorf("seller's own message %d must stay unread", m.ID)
			}
		}
	}
}

func TestMarkReadRequiresParticipant(t *testing.T) {
	svc, _, listingRepo, _, _ := newConvFixture(t)
	l := seedListing(listingRepo, "seller")
	cv, _ := svc.CreateOrGet(context.Background(), l.ID, "buyer")

	if err := svc.MarkRead(context.Background(), cv.ID, "stranger"); err != ErrForbidden {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

// Full exchange: B contacts A's listing, sends a message, A's unread count
// rises and falls with mark-read, and the resolver stays stable throughout.
func TestConversationScenario(t *testing.T) {
	svc, _, listingRepo, _, _ := newConvFixture(t)
	ctx := context.Background()
	l := seedListing(listingRepo, "userA")

	c1, err := svc.CreateOrGet(ctx, l.ID, "userB")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, err := svc.SendMessage(ctx, c1.ID, "userB", "Hi"); err != nil {
		t.Fatalf("send: %v", err)
	}

	cnt, err := svc.UnreadCount(ctx, "userA")
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("unread count = %d, want 1", cnt)
	}

	// Sender's own message never counts against them.
	cnt, _ = svc.UnreadCount(ctx, "userB")
	if cnt != 0 {
		t.Fatalf("sender unread count = %d, want 0", cnt)
	}

	if err := svc.MarkRead(ctx, c1.ID, "userA"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	cnt, _ = svc.UnreadCount(ctx, "userA")
	if cnt != 0 {
		t.Fatalf("unread count after read = %d, want 0", cnt)
	}

	again, err := svc.CreateOrGet(ctx, l.ID, "userB")
	if err != nil {
		t.Fatalf("re-resolve: %v", err)
	}
	if again.ID != c1.ID {
		t.Fatalf("resolver returned %d, want %d", again.ID, c1.ID)
	}
}

func TestListByUserAggregation(t *testing.T) {
	svc, _, listingRepo, userRepo, _ := newConvFixture(t)
	ctx := context.Background()

	_ = userRepo.Create(ctx, &model.UserProfile{UID: "userA", Username: "anna", DisplayName: "Anna"})
	_ = userRepo.Create(ctx, &model.UserProfile{UID: "userB", Username: "boris", DisplayName: "Boris"})

	l := &model.Listing{SellerUID: "userA", Title: "Couch", Description: "two-seater", Price: 80, CategoryID: 1}
	_ = listingRepo.Create(ctx, l, []model.ListingImage{
		{ImageURL: "https://img/1.jpg", IsDefault: true, OrderIndex: 0},
		{ImageURL: "https://img/2.jpg", OrderIndex: 1},
	})

	cv, _ := svc.CreateOrGet(ctx, l.ID, "userB")
	if _, err := svc.SendMessage(ctx, cv.ID, "userB", "still available?"); err != nil {
		t.Fatalf("send: %v", err)
	}

	summaries, err := svc.ListByUser(ctx, "userA")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	s := summaries[0]
	if s.Listing == nil || s.Listing.Title != "Couch" {
		t.Fatalf("listing summary missing: %+v", s.Listing)
	}
	if s.Listing.DefaultImageURL == nil || *s.Listing.DefaultImageURL != "https://img/1.jpg" {
		t.Errorf("default image not picked: %v", s.Listing.DefaultImageURL)
	}
	if s.Buyer == nil || s.Buyer.DisplayName != "Boris" {
		t.Errorf("buyer profile missing: %+v", s.Buyer)
	}
	if s.Seller == nil || s.Seller.DisplayName != "Anna" {
		t.Errorf("seller profile missing: %+v", s.Seller)
	}
	if s.LatestMessage == nil || s.LatestMessage.Content != "still available?" {
		t.Errorf("latest message missing: %+v", s.LatestMessage)
	}
	if s.UnreadCount != 1 {
		t.Errorf("unread count = %d, want 1", s.UnreadCount)
	}
}

func TestListByUserToleratesDeletedListing(t *testing.T) {
	svc, _, listingRepo, _, _ := newConvFixture(t)
	ctx := context.Background()
	l := seedListing(listingRepo, "seller")
	cv, _ := svc.CreateOrGet(ctx, l.ID, "buyer")
	_ = cv

	if err := listingRepo.Delete(ctx, l.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	summaries, err := svc.ListByUser(ctx, "buyer")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("conversation must survive listing deletion, got %d rows", len(summaries))
	}
	if summaries[0].Listing != nil {
		t.Error("deleted listing must yield no summary")
	}
}
