package response

import (
	"net/http"

	reqctx "github.com/baechuer/identity-service/internal/pkg/context"
)

func RequestIDFromContext(r *http.Request) string {
	return reqctx.GetRequestID(r.Context())
}
