package service

import (
	"context"
	"errors"
	"net"

	appErrors "github.com/ensino-labs/agenda-api/pkg/errors"
)

// storeError maps a repository failure onto the API taxonomy. Timeouts and
// unreachable stores are DATA_UNAVAILABLE and must never be treated as
// empty data; anything else is an internal failure.
func storeError(err error, message string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return appErrors.Wrap(err, appErrors.ErrDataUnavailable.Code, appErrors.ErrDataUnavailable.Status, message)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return appErrors.Wrap(err, appErrors.ErrDataUnavailable.Code, appErrors.ErrDataUnavailable.Status, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
