package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carnage999-max/ultimate-app-manager/internal/auth"
	"github.com/carnage999-max/ultimate-app-manager/internal/domain"
	"github.com/carnage999-max/ultimate-app-manager/internal/events"
	"github.com/carnage999-max/ultimate-app-manager/internal/mail"
	"github.com/carnage999-max/ultimate-app-manager/internal/payments"
	"github.com/carnage999-max/ultimate-app-manager/internal/policy"
	"github.com/carnage999-max/ultimate-app-manager/internal/repository/repotest"
	apperrors "github.com/carnage999-max/ultimate-app-manager/pkg/util/errorutil"
)

type sentEmail struct {
	kind string
	msg  mail.Message
}

type fakeOutbox struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (o *fakeOutbox) Send(_ context.Context, kind string, msg mail.Message) error {
	if o.err != nil {
		return o.err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, sentEmail{kind: kind, msg: msg})
	return nil
}

func (o *fakeOutbox) kinds() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.sent))
	for _, s := range o.sent {
		out = append(out, s.kind)
	}
	return out
}

type fakePresigner struct {
	err        error
	lastKey    string
	lastType   string
	lastExpiry time.Duration
}

func (p *fakePresigner) PresignUpload(_ context.Context, key, contentType string, ttl time.Duration) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.lastKey, p.lastType, p.lastExpiry = key, contentType, ttl
	return "https://bucket.example/" + key + "?upload", nil
}

func (p *fakePresigner) PresignDownload(_ context.Context, key string, ttl time.Duration) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.lastKey, p.lastExpiry = key, ttl
	return "https://bucket.example/" + key + "?download", nil
}

type fakeProcessor struct {
	intents   int
	lastCents int64
	event     *payments.WebhookEvent
	err       error
}

func (p *fakeProcessor) CreateIntent(_ context.Context, cents int64, _ string, _ string) (*payments.Intent, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.intents++
	p.lastCents = cents
	return &payments.Intent{ID: "pi_test_" + strconv.Itoa(p.intents), ClientSecret: "secret"}, nil
}

func (p *fakeProcessor) ParseWebhook(_ []byte, signature string) (*payments.WebhookEvent, error) {
	if signature != "valid" {
		return nil, payments.ErrInvalidSignature
	}
	return p.event, nil
}

// harness wires every service over in-memory repositories and the real policy engine.
type harness struct {
	store         *repotest.Store
	outbox        *fakeOutbox
	presigner     *fakePresigner
	processor     *fakeProcessor
	tokens        *auth.TokenManager
	auth          *AuthService
	leases        *LeaseService
	maintenance   *MaintenanceService
	files         *FileService
	users         *UserService
	payments      *PaymentService
	accounts      *AccountService
	notifications *NotificationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	engine, err := policy.NewEngine(ctx)
	require.NoError(t, err)
	renderer, err := mail.NewRenderer("https://app.example", "support@example.com")
	require.NoError(t, err)

	h := &harness{
		store:     repotest.NewStore(),
		outbox:    &fakeOutbox{},
		presigner: &fakePresigner{},
		processor: &fakeProcessor{},
		tokens:    auth.NewTokenManager("access-secret", "refresh-secret"),
	}
	dispatcher := events.NewInMemoryDispatcher(nil)
	h.notifications = NewNotificationService(dispatcher, renderer, h.outbox, nil)
	h.notifications.RegisterHandlers()

	h.auth = NewAuthService(AuthDependencies{UserRepo: h.store.Users, Tokens: h.tokens, BcryptCost: 4, Dispatcher: dispatcher})
	h.leases = NewLeaseService(LeaseDependencies{LeaseRepo: h.store.Leases, UserRepo: h.store.Users, Authorizer: engine, Presigner: h.presigner})
	h.maintenance = NewMaintenanceService(MaintenanceDependencies{TicketRepo: h.store.Tickets, Authorizer: engine, Dispatcher: dispatcher})
	h.files = NewFileService(engine, h.presigner)
	h.users = NewUserService(h.store.Users, engine)
	h.payments = NewPaymentService(PaymentDependencies{PaymentRepo: h.store.Payments, Processor: h.processor, Authorizer: engine, Dispatcher: dispatcher})
	h.accounts = NewAccountService(h.notifications)
	return h
}

// register signs up a tenant and returns its identity.
func (h *harness) register(t *testing.T, name, email string) domain.Identity {
	t.Helper()
	res, err := h.auth.Register(context.Background(), RegisterInput{Email: email, Password: "pw123456", Name: name})
	require.NoError(t, err)
	return domain.Identity{UserID: res.User.ID, Role: res.User.Role}
}

// admin inserts an ADMIN directly, the way the seed command does.
func (h *harness) admin(t *testing.T) domain.Identity {
	t.Helper()
	hash, err := auth.HashPassword("admin-pw", 4)
	require.NoError(t, err)
	user := &domain.User{Email: "admin@example.com", Name: "Admin", PasswordHash: hash, Role: domain.RoleAdmin}
	require.NoError(t, h.store.Users.Create(context.Background(), user))
	return domain.Identity{UserID: user.ID, Role: domain.RoleAdmin}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	require.Equal(t, code, domainErr.Code, domainErr.Message)
}

func ptr[T any](v T) *T { return &v }
