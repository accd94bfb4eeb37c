package social

import "github.com/goliatone/go-errors"

const (
	TextCodeMissingAccessToken  = "social_missing_access_token"
	TextCodeUserInfoFail        = "social_user_info_failed"
	TextCodeProviderUnreachable = "social_provider_unreachable"
)

// ErrMissingAccessToken is returned when no access token was supplied.
var ErrMissingAccessToken = errors.New("missing access token", errors.CategoryBadInput).
	WithTextCode(TextCodeMissingAccessToken).
	WithCode(errors.CodeBadRequest)

// ErrUserInfoFailed is returned when the provider rejects the access token.
var ErrUserInfoFailed = errors.New("failed to fetch user info", errors.CategoryAuth).
	WithTextCode(TextCodeUserInfoFail).
	WithCode(errors.CodeUnauthorized)

// ErrProviderUnreachable is returned when the provider could not be reached.
var ErrProviderUnreachable = errors.New("identity provider unreachable", errors.CategoryOperation).
	WithTextCode(TextCodeProviderUnreachable).
	WithCode(errors.CodeInternal)
