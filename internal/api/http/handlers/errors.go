package handlers

import (
	"errors"

	"github.com/spec-kit/identity-gateway/internal/idp"
	apperrors "github.com/spec-kit/identity-gateway/pkg/util"
)

// mapProviderError folds provider-client failures into the DomainError
// taxonomy: missing deployment config becomes a 500-class configuration
// error, upstream non-success passes its status through, everything else
// is internal.
func mapProviderError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, idp.ErrServiceClientNotConfigured) || errors.Is(err, idp.ErrLoginClientNotConfigured) {
		return apperrors.NewConfigurationError(err)
	}
	var upstream *idp.UpstreamError
	if errors.As(err, &upstream) {
		return apperrors.NewUpstreamFailure(upstream.Status, err)
	}
	return apperrors.NewInternalError(err)
}
