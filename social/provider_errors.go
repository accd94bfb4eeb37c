package social

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// ProviderError describes a failed identity provider call. Status is zero
// when the provider could not be reached.
type ProviderError struct {
	Provider  string
	Operation string
	Status    int
	Reason    string
	Message   string
	Err       error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}

	scope := e.Provider
	if scope == "" {
		scope = "provider"
	}
	if e.Operation != "" {
		scope += " " + e.Operation
	}

	switch {
	case e.Message != "":
		return fmt.Sprintf("%s failed: %s", scope, e.Message)
	case e.Reason != "":
		return fmt.Sprintf("%s failed: %s", scope, e.Reason)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", scope, e.Err)
	}
	return scope + " failed"
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// LogAttrs returns the details as key/value pairs for structured logs
func (e *ProviderError) LogAttrs() []any {
	if e == nil {
		return nil
	}
	attrs := []any{"provider", e.Provider, "operation", e.Operation}
	if e.Status != 0 {
		attrs = append(attrs, "provider_status", e.Status)
	}
	if e.Reason != "" {
		attrs = append(attrs, "provider_reason", e.Reason)
	}
	if e.Err != nil {
		attrs = append(attrs, "cause", e.Err.Error())
	}
	return attrs
}

// Fail returns a copy of base carrying detail as its source. The sentinel
// itself is never modified.
func Fail(base *goerrors.Error, detail *ProviderError) error {
	if detail == nil {
		return base
	}

	clone := base.Clone()
	clone.Source = detail

	meta := map[string]any{"provider": detail.Provider, "operation": detail.Operation}
	if detail.Status != 0 {
		meta["status"] = detail.Status
	}
	if detail.Reason != "" {
		meta["reason"] = detail.Reason
	}
	return clone.WithMetadata(meta)
}

// Details finds the ProviderError in an error chain
func Details(err error) (*ProviderError, bool) {
	var detail *ProviderError
	if !errors.As(err, &detail) || detail == nil {
		return nil, false
	}
	return detail, true
}

// IsUserInfoFailed reports whether the provider rejected the access token
func IsUserInfoFailed(err error) bool {
	return hasTextCode(err, TextCodeUserInfoFail)
}

// IsMissingAccessToken reports whether no access token was supplied
func IsMissingAccessToken(err error) bool {
	return hasTextCode(err, TextCodeMissingAccessToken)
}

func hasTextCode(err error, code string) bool {
	var richErr *goerrors.Error
	if !errors.As(err, &richErr) || richErr == nil {
		return false
	}
	return richErr.TextCode == code
}
