package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/ecs-booking-api/internal/repository"
	appErrors "github.com/noah-isme/ecs-booking-api/pkg/errors"
)

// mapStoreError converts low-level store failures into the public error
// taxonomy: connectivity faults become 503s, everything else a wrapped 500.
func mapStoreError(err error, logger *zap.Logger, message string) error {
	if repository.IsUnavailable(err) {
		if logger != nil {
			logger.Warn("store unavailable", zap.Error(err))
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, appErrors.ErrStoreUnavailable.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
