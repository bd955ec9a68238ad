package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"loanapp-backend/internal/domain/notification"
	"loanapp-backend/internal/testutil/notificationmock"
)

func TestNotifier_StoresAndPublishes(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub := rdb.Subscribe(ctx, Channel("cust1"))
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	var stored []notification.Notification
	repo := &notificationmock.Repo{CreateFn: func(_ context.Context, n *notification.Notification) error {
		stored = append(stored, *n)
		return nil
	}}
	p := notification.Payload{Title: "Application Approved", Message: "Your loan application has been approved.", Link: notification.ApplicationLink("abc")}
	if err := NewNotifier(repo, rdb).Notify(ctx, "cust1", p); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(stored) != 1 || stored[0].RecipientID != "cust1" || stored[0].Title != p.Title || stored[0].IsRead {
		t.Fatalf("stored = %+v", stored)
	}

	msg, err := sub.ReceiveMessage(ctx)
	if err != nil {
		t.Fatalf("ReceiveMessage: %v", err)
	}
	if msg.Channel != "notifications:cust1" {
		t.Fatalf("channel = %q", msg.Channel)
	}
	var got notification.Notification
	if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if got.NotificationID != stored[0].NotificationID || got.Link != "/loan-application-list?id=abc" {
		t.Fatalf("published = %+v", got)
	}
}

func TestNotifier_StoreFailureSkipsPublish(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	boom := errors.New("db down")
	repo := &notificationmock.Repo{CreateFn: func(context.Context, *notification.Notification) error { return boom }}
	err := NewNotifier(repo, rdb).Notify(context.Background(), "cust1", notification.Payload{Title: "x"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestNotifier_WithoutRedis(t *testing.T) {
	calls := 0
	repo := &notificationmock.Repo{CreateFn: func(context.Context, *notification.Notification) error {
		calls++
		return nil
	}}
	if err := NewNotifier(repo, nil).Notify(context.Background(), "cust1", notification.Payload{Title: "x"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if calls != 1 {
		t.Fatalf("Create calls = %d", calls)
	}
}

func TestNotifier_PublishFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	err := NewNotifier(&notificationmock.Repo{}, rdb).Notify(context.Background(), "cust1", notification.Payload{Title: "x"})
	if err == nil {
		t.Fatal("expected publish error with redis down")
	}
}
