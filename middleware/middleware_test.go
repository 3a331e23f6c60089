package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"udprpc/message"
)

func echoHandler(_ context.Context, arg message.ArgVariant) (message.RetVariant, error) {
	return &message.ExampleReturn{Msg: arg.(*message.ExampleMessage).Msg}, nil
}

func slowHandler(ctx context.Context, arg message.ArgVariant) (message.RetVariant, error) {
	time.Sleep(200 * time.Millisecond)
	return echoHandler(ctx, arg)
}

func panicHandler(_ context.Context, _ message.ArgVariant) (message.RetVariant, error) {
	panic("handler exploded")
}

func TestLogging(t *testing.T) {
	handler := LoggingMiddleware()(echoHandler)

	ret, err := handler(context.Background(), &message.ExampleMessage{Msg: "ok"})
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if got := ret.(*message.ExampleReturn).Msg; got != "ok" {
		t.Fatalf("expect msg 'ok', got %q", got)
	}
}

func TestTimeoutPass(t *testing.T) {
	handler := TimeOutMiddleware(500 * time.Millisecond)(echoHandler)

	_, err := handler(context.Background(), &message.ExampleMessage{Msg: "ok"})
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
}

func TestTimeoutExceeded(t *testing.T) {
	handler := TimeOutMiddleware(50 * time.Millisecond)(slowHandler)

	_, err := handler(context.Background(), &message.ExampleMessage{Msg: "ok"})
	if !errors.Is(err, ErrHandlerTimeout) {
		t.Fatalf("expect timeout error, got %v", err)
	}
}

func TestRateLimit(t *testing.T) {
	// rate=1 per second, burst=2: the first 2 pass, the 3rd is rejected
	handler := RateLimitMiddleware(1, 2)(echoHandler)
	arg := &message.ExampleMessage{Msg: "ok"}

	for i := 0; i < 2; i++ {
		if _, err := handler(context.Background(), arg); err != nil {
			t.Fatalf("request %d should pass, got error: %v", i, err)
		}
	}

	_, err := handler(context.Background(), arg)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("request 3 should be rate limited, got: %v", err)
	}
}

func TestRecovery(t *testing.T) {
	handler := RecoveryMiddleware()(panicHandler)

	_, err := handler(context.Background(), &message.ExampleMessage{Msg: "ok"})
	if err == nil {
		t.Fatal("expect panic converted to error")
	}
}

func TestChain(t *testing.T) {
	chained := Chain(LoggingMiddleware(), TimeOutMiddleware(500*time.Millisecond))
	handler := chained(echoHandler)

	ret, err := handler(context.Background(), &message.ExampleMessage{Msg: "ok"})
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if ret == nil {
		t.Fatal("expect non-nil return variant")
	}
}
