package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carnage999-max/ultimate-app-manager/internal/config"
	"github.com/carnage999-max/ultimate-app-manager/internal/mail"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	done chan struct{}
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()
	s.done <- struct{}{}
	return nil
}

func TestDirectOutboxDeliversAsynchronously(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 1)}
	outbox := NewDirectOutbox(sender, zap.NewNop())

	msg := mail.Message{To: []string{"a@b.c"}, Subject: "hello"}
	require.NoError(t, outbox.Send(context.Background(), "welcome", msg))

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("email was not delivered")
	}
	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, []mail.Message{msg}, sender.sent)
}

func TestDirectOutboxRejectsInvalidMessage(t *testing.T) {
	outbox := NewDirectOutbox(&recordingSender{done: make(chan struct{}, 1)}, zap.NewNop())
	assert.Error(t, outbox.Send(context.Background(), "welcome", mail.Message{Subject: "x"}))
}

func TestRedisOpt(t *testing.T) {
	opt := RedisOpt(config.RedisConfig{Addr: "localhost:6379", Password: "pw", DB: 2})
	assert.Equal(t, "localhost:6379", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 2, opt.DB)
}
