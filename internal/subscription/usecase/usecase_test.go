package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shandysiswandi/newsletter/internal/pkg/clock"
	"github.com/shandysiswandi/newsletter/internal/pkg/config"
	"github.com/shandysiswandi/newsletter/internal/pkg/goerror"
	"github.com/shandysiswandi/newsletter/internal/pkg/hash"
	"github.com/shandysiswandi/newsletter/internal/pkg/instrument"
	"github.com/shandysiswandi/newsletter/internal/pkg/mail"
	"github.com/shandysiswandi/newsletter/internal/pkg/secret"
	"github.com/shandysiswandi/newsletter/internal/pkg/validator"
	"github.com/shandysiswandi/newsletter/internal/pkg/valueobject"
	"github.com/shandysiswandi/newsletter/internal/subscription/entity"
	"github.com/stretchr/testify/require"
)

const testToken = "AbCdEfGhIjKlMnOpQrStUvWxY"

var (
	testNow          = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	testSubscriberID = uuid.MustParse("0199f0a4-5b1e-7c3d-9a2b-1c2d3e4f5a6b")
)

type fakeDB struct {
	mu sync.Mutex

	getByEmail     func(ctx context.Context, email valueobject.Email) (*entity.Subscriber, error)
	getIDByToken   func(ctx context.Context, tokenHash string) (uuid.UUID, error)
	newSubErr      error
	confirmErr     error
	subscriptions  []entity.NewSubscription
	confirmedIDs   []uuid.UUID
	lookedUpHashes []string
}

func (f *fakeDB) GetSubscriberByEmail(ctx context.Context, email valueobject.Email) (*entity.Subscriber, error) {
	if f.getByEmail == nil {
		return nil, goerror.ErrNotFound
	}
	return f.getByEmail(ctx, email)
}

func (f *fakeDB) GetSubscriberIDByToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	f.mu.Lock()
	f.lookedUpHashes = append(f.lookedUpHashes, tokenHash)
	f.mu.Unlock()

	if f.getIDByToken == nil {
		return uuid.Nil, goerror.ErrNotFound
	}
	return f.getIDByToken(ctx, tokenHash)
}

func (f *fakeDB) NewSubscription(_ context.Context, sub entity.NewSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.newSubErr != nil {
		return f.newSubErr
	}
	f.subscriptions = append(f.subscriptions, sub)
	return nil
}

func (f *fakeDB) ConfirmSubscriber(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmedIDs = append(f.confirmedIDs, id)
	return nil
}

type fakeMail struct {
	mu   sync.Mutex
	err  error
	sent []mail.Message
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sent = append(f.sent, msg)
	return f.err
}

type fixedIDs uuid.UUID

func (f fixedIDs) Next() uuid.UUID { return uuid.UUID(f) }

type fixedToken string

func (f fixedToken) Generate() string { return string(f) }

type harness struct {
	uc   *Usecase
	db   *fakeDB
	mail *fakeMail
	hmac hash.Hash
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("app:\n  base_url: http://127.0.0.1:8000/\n"))
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	h := &harness{
		db:   &fakeDB{},
		mail: &fakeMail{},
		hmac: hash.NewHMACSHA256(secret.New("test-hmac-key")),
	}
	h.uc = NewSubscription(Dependency{
		RepoDB:     h.db,
		RepoMail:   h.mail,
		Config:     cfg,
		IDs:        fixedIDs(testSubscriberID),
		Token:      fixedToken(testToken),
		HMAC:       h.hmac,
		Clock:      clock.NewFixed(testNow),
		Validator:  v,
		Instrument: instrument.NewNoop(),
	})

	return h
}

func (h *harness) tokenHash(t *testing.T, token string) string {
	t.Helper()

	b, err := h.hmac.Hash(token)
	require.NoError(t, err)
	return string(b)
}

func requireGoError(t *testing.T, err error, code goerror.Code) *goerror.Error {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, code, gerr.Code(), gerr.String())
	return gerr
}
