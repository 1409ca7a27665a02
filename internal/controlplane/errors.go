package controlplane

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/kittynxr/maowbot/internal/apperr"
)

// toStatus maps an apperr.Kind to its gRPC status code. Everything not
// explicitly listed here is Internal.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var code codes.Code
	switch apperr.KindOf(err) {
	case apperr.KindAuth:
		code = codes.Unauthenticated
	case apperr.KindUnauthorized:
		code = codes.PermissionDenied
	case apperr.KindNotFound:
		code = codes.NotFound
	case apperr.KindInvalidInput, apperr.KindConfig:
		code = codes.InvalidArgument
	case apperr.KindTimeout:
		code = codes.DeadlineExceeded
	default:
		code = codes.Internal
	}
	return status.Error(code, err.Error())
}
