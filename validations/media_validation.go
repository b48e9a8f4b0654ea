package validations

import (
	"context"

	domainCache "ytmcp/domains/cache"
	domainMedia "ytmcp/domains/media"
	domainTranscript "ytmcp/domains/transcript"
	pkgError "ytmcp/pkg/error"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

func ValidateDownload(ctx context.Context, request domainMedia.DownloadRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.URL, validation.Required, is.URL),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateTranscribe(ctx context.Context, request domainTranscript.TranscribeRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.URL, validation.Required, is.URL),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateCacheSettings(ctx context.Context, request domainCache.CacheSettings) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.MaxAgeDays, validation.Required, validation.Min(1)),
		validation.Field(&request.CleanupInterval, validation.Required, validation.Min(1)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
