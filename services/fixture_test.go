package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"resort-backend/models"
	"resort-backend/repository"
	"resort-backend/testutil"
)

type fixture struct {
	db *gorm.DB

	users      *repository.GormUserRepository
	categories *repository.GormCategoryRepository
	offerings  *repository.GormOfferingRepository
	bookings   *repository.GormBookingRepository

	credentials *CredentialService
	categorySvc *CategoryService
	offeringSvc *OfferingService
	bookingSvc  *BookingService
	hasher      *countingHasher
	now         time.Time
}

// countingHasher wraps bcrypt at minimum cost and counts Hash calls.
type countingHasher struct {
	BcryptHasher
	calls int
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.calls++
	return h.BcryptHasher.Hash(password)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	f := &fixture{
		db:         db,
		users:      repository.NewGormUserRepository(db),
		categories: repository.NewGormCategoryRepository(db),
		offerings:  repository.NewGormOfferingRepository(db),
		bookings:   repository.NewGormBookingRepository(db),
		hasher:     &countingHasher{BcryptHasher: BcryptHasher{Cost: bcrypt.MinCost}},
		now:        time.Date(2031, 1, 10, 9, 0, 0, 0, time.UTC),
	}
	f.credentials = NewCredentialService(f.users, f.hasher)
	f.categorySvc = NewCategoryService(f.categories, f.offerings)
	f.offeringSvc = NewOfferingService(f.offerings, f.categories, f.bookings, NewImageStore(t.TempDir()))
	f.bookingSvc = NewBookingService(f.bookings, f.offerings, slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.bookingSvc.Now = func() time.Time { return f.now }
	return f
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.credentials.Create(context.Background(), RegisterInput{
		Name: "Guest", Email: email, Phone: "0800000000", Password: "secret123",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) offering(t *testing.T, name string) *models.Offering {
	t.Helper()
	ctx := context.Background()
	cat, err := f.categories.FindByName(ctx, "Rooms", 0)
	if err != nil {
		cat, err = f.categorySvc.Create(ctx, CategoryInput{Name: "Rooms"})
		require.NoError(t, err)
	}
	price := 100.0
	o, err := f.offeringSvc.Create(ctx, OfferingInput{
		Name: name, CategoryID: cat.ID, Description: "Sea view", Image: "/img/" + name + ".jpg",
		Amenities: []string{"wifi", " ", "breakfast"}, Price: &price,
	})
	require.NoError(t, err)
	return o
}
