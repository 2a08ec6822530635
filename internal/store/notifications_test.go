package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

type recordingPublisher struct {
	published []models.Notification
}

func (r *recordingPublisher) Publish(n models.Notification) {
	r.published = append(r.published, n)
}

func TestNotificationFeedIsCappedGlobally(t *testing.T) {
	ctx := context.Background()
	s, _ := newEmptyStore(t, WithNotificationCap(3))

	target := mustCreateUser(t, s, "target")
	var followers []string
	for i := 0; i < 5; i++ {
		u := mustCreateUser(t, s, fmt.Sprintf("fan%d", i))
		followers = append(followers, u.ID)
		require.NoError(t, s.FollowUser(ctx, u.ID, target.ID))
	}

	all := getCollection[models.Notification](ctx, s, KeyNotifications)
	require.Len(t, all, 3)
	assert.Equal(t, followers[4], all[0].ActorID, "newest first")
	assert.Equal(t, followers[2], all[2].ActorID, "oldest evicted")
}

func TestNotificationsDenormalizeActor(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.ToggleLike(ctx, "p1", "u5")
	require.NoError(t, err)

	renamed := "EverestLow"
	_, err = s.UpdateUser(ctx, "u5", models.UserUpdate{Username: &renamed})
	require.NoError(t, err)

	notes, err := s.GetNotifications(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "EverestHigh", notes[0].ActorName)
}

func TestUnknownActorIsSomeone(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.ToggleLike(ctx, "p1", "anonymous-visitor")
	require.NoError(t, err)

	notes, err := s.GetNotifications(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Someone", notes[0].ActorName)
}

func TestMarkNotificationsRead(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.ToggleLike(ctx, "p1", "u1")
	require.NoError(t, err)
	_, err = s.AddComment(ctx, models.NewCommentInput{PostID: "p1", UserID: "u3", Content: "yes"})
	require.NoError(t, err)
	_, err = s.ToggleLike(ctx, "p2", "u1")
	require.NoError(t, err)

	changed, err := s.MarkNotificationsRead(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	notes, err := s.GetNotifications(ctx, "u2")
	require.NoError(t, err)
	for _, n := range notes {
		assert.True(t, n.Read)
	}

	others, err := s.GetNotifications(ctx, "u3")
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.False(t, others[0].Read)

	changed, err = s.MarkNotificationsRead(ctx, "u2")
	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestPublisherSeesStoredNotifications(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	s, _ := newTestStore(t, WithPublisher(pub))

	require.NoError(t, s.FollowUser(ctx, "u1", "u3"))
	_, err := s.ToggleLike(ctx, "p2", "u3") // self-like, no notification
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	assert.Equal(t, "u3", pub.published[0].UserID)
	assert.Equal(t, models.NotificationFollow, pub.published[0].Type)
}

func TestFollowGraph(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.FollowUser(ctx, "u1", "u2"))
	require.NoError(t, s.FollowUser(ctx, "u1", "u2"))

	following, err := s.IsFollowing(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, following)
	reverse, err := s.IsFollowing(ctx, "u2", "u1")
	require.NoError(t, err)
	assert.False(t, reverse)

	assert.Len(t, getCollection[models.Follow](ctx, s, KeyFollows), 1)
	notes, err := s.GetNotifications(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "started following you", notes[0].Content)
	assert.Equal(t, "u1", notes[0].RelatedID)

	require.NoError(t, s.UnfollowUser(ctx, "u1", "u2"))
	require.NoError(t, s.UnfollowUser(ctx, "u1", "u2"))
	following, err = s.IsFollowing(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, following)

	// unfollowing leaves the notification in place
	notes, err = s.GetNotifications(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	err = s.FollowUser(ctx, "u1", "u1")
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
}
