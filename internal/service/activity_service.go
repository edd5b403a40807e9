package service

import (
	"context"

	"github.com/ndewijer/Broker-Statement-Importer/internal/api/request"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
	"github.com/ndewijer/Broker-Statement-Importer/internal/repository"
)

// ActivityService exposes the activity history of an account.
type ActivityService struct {
	accountRepo  *repository.AccountRepository
	activityRepo *repository.ActivityRepository
}

// NewActivityService creates a new ActivityService with the provided repository dependencies.
func NewActivityService(
	accountRepo *repository.AccountRepository, activityRepo *repository.ActivityRepository,
) *ActivityService {
	return &ActivityService{
		accountRepo:  accountRepo,
		activityRepo: activityRepo,
	}
}

// GetActivities returns one page of the account's history, newest first.
// Returns apperrors.ErrAccountNotFound if the account does not exist.
func (s *ActivityService) GetActivities(
	ctx context.Context, accountID string, params request.ActivityPageParams,
) (model.ActivityPage, error) {
	if _, err := s.accountRepo.GetAccount(ctx, accountID); err != nil {
		return model.ActivityPage{}, err
	}

	activities, err := s.activityRepo.Search(ctx, accountID, params.Page, params.PerPage)
	if err != nil {
		return model.ActivityPage{}, err
	}

	total, err := s.activityRepo.CountActivities(ctx, accountID)
	if err != nil {
		return model.ActivityPage{}, err
	}

	return model.ActivityPage{
		Activities: activities,
		Page:       params.Page,
		PerPage:    params.PerPage,
		HasMore:    (params.Page+1)*params.PerPage < total,
	}, nil
}
