package store

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hemp-commons/internal/models"
)

type seedAccount struct {
	user     models.User
	password string
}

func demoAccounts() []seedAccount {
	account := func(id, username string, points int, avatar, location, bio string, role models.Role) seedAccount {
		return seedAccount{
			user: models.User{
				ID:            id,
				Username:      username,
				Email:         strings.ToLower(username) + "@example.com",
				HempPoints:    points,
				Avatar:        avatar,
				Location:      location,
				Bio:           bio,
				IsVerifiedAge: true,
				Role:          role,
				JoinedAt:      "2023-11-01",
			},
			password: "password123",
		}
	}

	owner := account("u1", "HimalayanGrower", 1420, "https://picsum.photos/seed/user1/200/200", "Pokhara",
		"Passionate about hemp farming and sustainable living in Nepal.", models.RoleAdmin)
	owner.user.Email = "user@example.com"

	return []seedAccount{
		owner,
		account("u2", "KathmanduVibes", 980, "https://picsum.photos/seed/u2/200", "Kathmandu", "Community member.", models.RoleUser),
		account("u3", "StrayDogRescue", 850, "https://picsum.photos/seed/u3/200", "Lalitpur", "Community member.", models.RoleModerator),
		account("u4", "GreenValleyShop", 720, "https://picsum.photos/seed/u4/200", "Bhaktapur", "Community member.", models.RoleUser),
		account("u5", "EverestHigh", 5200, "https://picsum.photos/seed/l1/100", "Dharan", "Community member.", models.RoleUser),
	}
}

func demoPosts(now time.Time) []models.Post {
	post := func(id, userID, title, content, image string, category models.PostCategory, age time.Duration, sponsored bool) models.Post {
		return models.Post{
			ID:          id,
			UserID:      userID,
			Title:       title,
			Content:     content,
			ImageURL:    image,
			Category:    category,
			LikedBy:     []string{},
			CreatedAt:   now.Add(-age),
			IsSponsored: sponsored,
		}
	}
	return []models.Post{
		post("p1", "u2", "The history of hemp usage in rural Nepal",
			"For centuries, hemp has been an integral part of Nepalese culture, used for fibers, food, and medicine. Let's discuss how we can preserve these traditions while modernizing cultivation.",
			"https://picsum.photos/seed/hemp1/800/400", models.CategoryEducation, 2*time.Hour, false),
		post("p2", "u3", "Rescued 3 pups from Thamel today!",
			"Our team found these little ones near the market. They are safe now. A portion of all hemp accessory sales this week goes to their food and vaccination. #AnimalWelfare",
			"https://picsum.photos/seed/dog1/800/400", models.CategoryAnimalWelfare, 5*time.Hour, false),
		post("p3", "u4", "Top 5 Organic CBD Oils available in Kathmandu",
			"Reviewing the best local brands. Check the marketplace for links!",
			"", models.CategoryProducts, 24*time.Hour, true),
	}
}

func demoProducts() []models.Product {
	product := func(id, title, description string, price int64, image string, rating float64, category string, featured bool) models.Product {
		return models.Product{
			ID:            id,
			Title:         title,
			Description:   description,
			Price:         decimal.NewFromInt(price),
			Currency:      models.CurrencyNPR,
			ImageURL:      image,
			AffiliateLink: "#",
			Rating:        rating,
			Category:      category,
			IsFeatured:    featured,
		}
	}
	return []models.Product{
		product("pr1", "Hemp Backpack - Handmade", "Durable, eco-friendly backpack made from 100% wild Himalayan hemp.",
			2500, "https://picsum.photos/seed/bag/300/300", 4.8, "Accessories", true),
		product("pr2", "Full Spectrum CBD Oil (10%)", "Organic CBD oil sourced from local farms. Great for relaxation.",
			4500, "https://picsum.photos/seed/oil/300/300", 4.9, "Wellness", true),
		product("pr3", "Hemp Seed Oil Soap", "Natural soap bar rich in Omega-3 and Omega-6.",
			350, "https://picsum.photos/seed/soap/300/300", 4.5, "Beauty", false),
		product("pr4", "Dog Treats - Calming Hemp", "Help your furry friend relax with these natural treats.",
			1200, "https://picsum.photos/seed/treats/300/300", 5.0, "Pets", false),
	}
}

func demoCourses() []models.Course {
	return []models.Course{
		{
			ID:           "c1",
			Title:        "Hemp Cultivation Basics",
			Description:  "Soil, seed selection and the growing calendar for the mid-hills.",
			ModulesCount: 5,
			PointsReward: 100,
			ImageURL:     "https://picsum.photos/seed/course1/400/200",
			Difficulty:   models.DifficultyBeginner,
		},
		{
			ID:           "c2",
			Title:        "Fiber Processing and Weaving",
			Description:  "From retting to yarn: traditional and modern fiber techniques.",
			ModulesCount: 8,
			PointsReward: 200,
			ImageURL:     "https://picsum.photos/seed/course2/400/200",
			Difficulty:   models.DifficultyIntermediate,
		},
		{
			ID:           "c3",
			Title:        "Nepal Hemp Law and Compliance",
			Description:  "Licensing, export rules and responsible retail.",
			ModulesCount: 3,
			PointsReward: 50,
			ImageURL:     "https://picsum.photos/seed/course3/400/200",
			Difficulty:   models.DifficultyAdvanced,
		},
	}
}

func demoVotes(now time.Time) []models.CommunityVote {
	return []models.CommunityVote{
		{
			ID:          "v1",
			Title:       "Which shelter should receive this month's donation pool?",
			Description: "Points donated this month are converted into food and vaccines for one partner shelter.",
			Options: []models.VoteOption{
				{ID: "o1", Label: "Kathmandu Animal Treatment Centre"},
				{ID: "o2", Label: "Pokhara Street Dog Project"},
				{ID: "o3", Label: "Lalitpur Rescue Home"},
			},
			EndDate:    now.AddDate(0, 0, 14).Format(models.DateLayout),
			VotedUsers: []string{},
			Status:     models.VoteActive,
			Category:   models.VoteCategoryCharity,
		},
		{
			ID:          "v2",
			Title:       "Add a Nepali language option to the app?",
			Description: "Vote on the next major feature for the platform.",
			Options: []models.VoteOption{
				{ID: "o1", Label: "Yes, as soon as possible"},
				{ID: "o2", Label: "After the marketplace update"},
			},
			EndDate:    now.AddDate(0, 0, 7).Format(models.DateLayout),
			VotedUsers: []string{},
			Status:     models.VoteActive,
			Category:   models.VoteCategoryFeature,
		},
	}
}

// seed populates every collection. Each seeded balance is mirrored by one
// ledger row so history reconciles from the start.
func (s *Store) seed(ctx context.Context) error {
	now := s.timestamp()

	accounts := demoAccounts()
	users := make([]models.User, 0, len(accounts))
	seen := make(map[string]bool, len(accounts))
	for _, acct := range accounts {
		if seen[acct.user.ID] {
			continue
		}
		seen[acct.user.ID] = true
		u := acct.user
		u.PasswordHash = acct.password
		users = append(users, u)
	}

	history := make([]models.PointHistory, 0, len(users))
	for _, u := range users {
		history = append(history, models.PointHistory{
			ID:        s.newID(),
			UserID:    u.ID,
			Points:    u.HempPoints,
			Reason:    models.ReasonProfileComplete,
			CreatedAt: now,
		})
	}

	steps := []func() error{
		func() error { return setCollection(ctx, s, KeyPosts, demoPosts(now)) },
		func() error { return setCollection(ctx, s, KeyProducts, demoProducts()) },
		func() error { return setCollection(ctx, s, KeyPointsHistory, history) },
		func() error { return setCollection(ctx, s, KeyComments, []models.Comment{}) },
		func() error { return setCollection(ctx, s, KeyNotifications, []models.Notification{}) },
		func() error { return setCollection(ctx, s, KeyFollows, []models.Follow{}) },
		func() error { return setCollection(ctx, s, KeyAffiliateClicks, []models.AffiliateClick{}) },
		func() error { return setCollection(ctx, s, KeyRevenue, []models.RevenueRecord{}) },
		func() error { return setCollection(ctx, s, KeyVotes, demoVotes(now)) },
		func() error { return setCollection(ctx, s, KeyCourses, demoCourses()) },
		func() error { return setCollection(ctx, s, KeyLearningProgress, []models.LearningProgress{}) },
		func() error { return setCollection(ctx, s, KeyWallets, []models.WalletAddress{}) },
		func() error { return setCollection(ctx, s, KeyWelfare, []models.WelfareActivity{}) },
		func() error { return setCollection(ctx, s, KeyTokenConversions, []models.TokenConversion{}) },
		// users last: their presence marks the namespace as seeded
		func() error { return setCollection(ctx, s, KeyUsers, users) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	log.WithField("users", len(users)).Info("Demo data seeded")
	return nil
}
