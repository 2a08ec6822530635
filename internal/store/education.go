package store

import (
	"context"
	"strings"

	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

func (s *Store) GetCourses(ctx context.Context) ([]models.Course, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return getCollection[models.Course](ctx, s, KeyCourses), nil
}

func (s *Store) GetLearningProgress(ctx context.Context, userID string) ([]models.LearningProgress, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	result := []models.LearningProgress{}
	for _, p := range getCollection[models.LearningProgress](ctx, s, KeyLearningProgress) {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	return result, nil
}

// UpdateCourseProgress upserts the (user, course) progress record. Completed
// modules never go down, and the course reward is paid once, the first time
// the record reaches completion.
func (s *Store) UpdateCourseProgress(ctx context.Context, userID, courseID string, modulesCompleted int) (*models.LearningProgress, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, utils.NewInvalidInputError("user_id is required")
	}
	if modulesCompleted < 0 {
		return nil, utils.NewInvalidInputError("completed modules cannot be negative")
	}
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	var course *models.Course
	courses, err := loadCollection[models.Course](ctx, s, KeyCourses)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID == courseID {
			course = &courses[i]
			break
		}
	}
	if course == nil {
		return nil, utils.NewNotFoundError("course", courseID)
	}

	progressList, err := loadCollection[models.LearningProgress](ctx, s, KeyLearningProgress)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range progressList {
		if progressList[i].UserID == userID && progressList[i].CourseID == courseID {
			idx = i
			break
		}
	}
	if idx == -1 {
		progressList = append(progressList, models.LearningProgress{
			ID:       s.newID(),
			UserID:   userID,
			CourseID: courseID,
		})
		idx = len(progressList) - 1
	}

	progress := &progressList[idx]
	if modulesCompleted > progress.CompletedModules {
		progress.CompletedModules = modulesCompleted
	}
	progress.IsCompleted = progress.CompletedModules >= course.ModulesCount
	progress.LastUpdated = s.timestamp()

	award := progress.IsCompleted && !progress.Rewarded
	if award {
		progress.Rewarded = true
	}
	if err := setCollection(ctx, s, KeyLearningProgress, progressList); err != nil {
		return nil, err
	}

	if award {
		reason := models.ReasonCourseCompletion + ": " + course.Title
		if err := s.awardPoints(ctx, userID, course.PointsReward, reason); err != nil {
			return nil, err
		}
		log.WithField("user", userID).WithField("course", courseID).Info("Course completed")
	}

	result := progressList[idx]
	return &result, nil
}
