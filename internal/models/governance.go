package models

type VoteStatus string

const (
	VoteActive VoteStatus = "active"
	VoteClosed VoteStatus = "closed"
)

type VoteCategory string

const (
	VoteCategoryFeature   VoteCategory = "Feature"
	VoteCategoryCommunity VoteCategory = "Community"
	VoteCategoryCharity   VoteCategory = "Charity"
)

type VoteOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Votes int    `json:"votes"`
}

// CommunityVote is a poll where each user casts at most one ballot.
type CommunityVote struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Options     []VoteOption `json:"options"`
	EndDate     string       `json:"endDate"`
	VotedUsers  []string     `json:"voted_users"`
	Status      VoteStatus   `json:"status"`
	Category    VoteCategory `json:"category"`
}

func (v *CommunityVote) HasVoted(userID string) bool {
	for _, id := range v.VotedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

func (v *CommunityVote) TotalVotes() int {
	total := 0
	for _, opt := range v.Options {
		total += opt.Votes
	}
	return total
}
