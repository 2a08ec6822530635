package store

import (
	"context"
	"strings"

	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

func (s *Store) GetVotes(ctx context.Context) ([]models.CommunityVote, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return getCollection[models.CommunityVote](ctx, s, KeyVotes), nil
}

// CastVote records userID's ballot and rewards participation. An unknown
// optionID still registers the voter but increments no option.
func (s *Store) CastVote(ctx context.Context, voteID, optionID, userID string) (*models.CommunityVote, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, utils.NewInvalidInputError("user_id is required")
	}
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	votes, err := loadCollection[models.CommunityVote](ctx, s, KeyVotes)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range votes {
		if votes[i].ID == voteID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, utils.NewNotFoundError("vote", voteID)
	}

	vote := &votes[idx]
	if vote.Status == models.VoteClosed {
		return nil, utils.NewAppError(utils.ErrVoteClosed, "Vote is closed: "+voteID, nil)
	}
	if vote.HasVoted(userID) {
		return nil, utils.NewAlreadyVotedError(voteID, userID)
	}

	vote.VotedUsers = append(vote.VotedUsers, userID)
	matched := false
	for i := range vote.Options {
		if vote.Options[i].ID == optionID {
			vote.Options[i].Votes++
			matched = true
			break
		}
	}
	if !matched {
		log.WithField("vote", voteID).WithField("option", optionID).Warn("Ballot cast for unknown option")
	}

	if err := setCollection(ctx, s, KeyVotes, votes); err != nil {
		return nil, err
	}
	if err := s.awardPoints(ctx, userID, PointsVote, models.ReasonVotingReward); err != nil {
		return nil, err
	}

	result := votes[idx]
	return &result, nil
}
