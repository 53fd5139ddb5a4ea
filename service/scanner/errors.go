package scanner

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// ErrNoProfiles is returned when a scan is started without any profile.
var ErrNoProfiles = errors.New("no AWS profiles to scan")

var accessDeniedCodes = []string{
	"AccessDenied",
	"AccessDeniedException",
	"UnauthorizedOperation",
	"UnrecognizedClientException",
	"ExpiredToken",
	"ExpiredTokenException",
	"InvalidClientTokenId",
}

// IsAccessDenied reports whether err is an authorization or credential
// failure rather than a service fault.
func IsAccessDenied(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	for _, c := range accessDeniedCodes {
		if code == c {
			return true
		}
	}
	return strings.HasPrefix(code, "AccessDenied")
}

// ErrorCode returns the AWS error code of err, or "" for non-API errors.
func ErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
