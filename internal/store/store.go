// Package store is the data-access layer of the community platform. It owns
// every collection, performs read-time joins, and applies the point and
// notification side effects of compound operations.
//
// A Store is not safe for concurrent use. Callers serialize access, which the
// engine package does by owning the Store inside a single actor.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/sirupsen/logrus"

	"hemp-commons/internal/database"
	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

var log = logrus.WithField("component", "store")

// Collection keys in the key-value namespace.
const (
	KeyUsers            = "nhc_users"
	KeyPosts            = "nhc_posts"
	KeyProducts         = "nhc_products"
	KeyComments         = "nhc_comments"
	KeyPointsHistory    = "nhc_points_history"
	KeyNotifications    = "nhc_notifications"
	KeyFollows          = "nhc_follows"
	KeyAffiliateClicks  = "nhc_affiliate_clicks"
	KeyRevenue          = "nhc_revenue"
	KeyWallets          = "nhc_wallets"
	KeyVotes            = "nhc_votes"
	KeyCourses          = "nhc_courses"
	KeyLearningProgress = "nhc_learning_progress"
	KeyWelfare          = "nhc_welfare_activity"
	KeyTokenConversions = "nhc_token_conversions"
)

const (
	DefaultLatency         = 300 * time.Millisecond
	DefaultNotificationCap = 100
)

// NotificationPublisher is told about every notification after it is stored.
type NotificationPublisher interface {
	Publish(n models.Notification)
}

type Store struct {
	kv          database.KVStore
	initialized bool

	latency         time.Duration
	notificationCap int
	seedDemo        bool
	revenue         RevenuePolicy
	publisher       NotificationPublisher

	newID func() string
	now   func() time.Time
}

type Option func(*Store)

// WithLatency sets the simulated round-trip delay applied to every operation.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

func WithNotificationCap(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.notificationCap = n
		}
	}
}

// WithSeedData controls whether an empty namespace is populated with demo data.
func WithSeedData(enabled bool) Option {
	return func(s *Store) { s.seedDemo = enabled }
}

func WithRevenuePolicy(p RevenuePolicy) Option {
	return func(s *Store) {
		if p != nil {
			s.revenue = p
		}
	}
}

func WithPublisher(p NotificationPublisher) Option {
	return func(s *Store) { s.publisher = p }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(kv database.KVStore, opts ...Option) *Store {
	s := &Store{
		kv:              kv,
		latency:         DefaultLatency,
		notificationCap: DefaultNotificationCap,
		seedDemo:        true,
		revenue:         NewRandomRevenuePolicy(0.2, time.Now().UnixNano()),
		newID:           generateID,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// generateID returns a short random identifier. Uniqueness is not checked.
func generateID() string {
	return shortuuid.New()
}

// Initialized reports whether Init has completed.
func (s *Store) Initialized() bool {
	return s.initialized
}

// Init seeds an empty namespace on first activation. Once any user exists
// seeding never runs again. A failed read of the users collection leaves the
// store uninitialized so the next operation retries.
func (s *Store) Init(ctx context.Context) error {
	if s.initialized {
		return nil
	}

	empty, err := s.usersEmpty(ctx)
	if err != nil {
		return err
	}
	if empty && s.seedDemo {
		log.Info("Seeding database with demo data")
		if err := s.seed(ctx); err != nil {
			return err
		}
	}
	s.initialized = true
	return nil
}

// usersEmpty reports true only for an absent key or an empty list. Users data
// that cannot be decoded counts as present so it is never reseeded over.
func (s *Store) usersEmpty(ctx context.Context) (bool, error) {
	raw, err := s.kv.Load(ctx, KeyUsers)
	if err != nil {
		log.WithError(err).WithField("collection", KeyUsers).Error("Database error while checking for seed data")
		return false, utils.NewDatabaseError("failed to load "+KeyUsers, err)
	}
	if len(raw) == 0 {
		return true, nil
	}
	var users []json.RawMessage
	if err := json.Unmarshal(raw, &users); err != nil {
		log.WithError(err).WithField("collection", KeyUsers).Error("Malformed users collection, skipping seed")
		return false, nil
	}
	return len(users) == 0, nil
}

// begin applies the simulated latency and activates the store. Cancellation is
// honoured only while waiting; the returned context is detached so storage
// work, once started, always completes.
func (s *Store) begin(ctx context.Context) (context.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	ctx = context.WithoutCancel(ctx)
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func (s *Store) today() string {
	return s.timestamp().Format(models.DateLayout)
}

func (s *Store) isToday(t time.Time) bool {
	return t.UTC().Format(models.DateLayout) == s.today()
}

// getCollection never fails: absent keys and unreadable data both come back
// as an empty collection. Paths that write the collection back use
// loadCollection instead.
func getCollection[T any](ctx context.Context, s *Store, key string) []T {
	items, err := loadCollection[T](ctx, s, key)
	if err != nil {
		return []T{}
	}
	return items
}

// loadCollection is the read half of a read-modify-write. A backend failure
// is returned as a database error so the caller never saves a partial
// collection over stored data. Malformed data still degrades to empty.
func loadCollection[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	raw, err := s.kv.Load(ctx, key)
	if err != nil {
		log.WithError(err).WithField("collection", key).Error("Database error while loading collection")
		return nil, utils.NewDatabaseError("failed to load "+key, err)
	}
	if len(raw) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		log.WithError(err).WithField("collection", key).Error("Malformed collection data, treating as empty")
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// setCollection overwrites the collection with a snapshot of items.
func setCollection[T any](ctx context.Context, s *Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return utils.NewDatabaseError("failed to encode "+key, err)
	}
	if err := s.kv.Save(ctx, key, raw); err != nil {
		log.WithError(err).WithField("collection", key).Error("Database save error")
		return utils.NewDatabaseError("failed to save "+key, err)
	}
	return nil
}

func findUser(users []models.User, id string) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}

// userIndex maps ids to users for read-time joins.
func userIndex(users []models.User) map[string]models.User {
	index := make(map[string]models.User, len(users))
	for _, u := range users {
		index[u.ID] = u
	}
	return index
}

// resolveAuthor joins an author by id, falling back to a placeholder.
func resolveAuthor(index map[string]models.User, id string) *models.User {
	author, ok := index[id]
	if !ok {
		author = models.PlaceholderUser(id)
	}
	public := author.Public()
	return &public
}
