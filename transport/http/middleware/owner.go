package middleware

import (
	"context"
	"net/http"

	"todoevo/infras/otel"
	"todoevo/internal/domains/task/model"
	"todoevo/shared/constant"
	"todoevo/shared/failure"
	"todoevo/transport/http/response"
)

// Owner resolves the calling owner for every request. There is no
// authentication behind it; the header is trusted as-is and exists only to
// scope reads and writes to one owner's rows.
type Owner interface {
	Resolve(http.Handler) http.Handler
}

type ownerImpl struct {
	otel otel.Otel
}

func NewOwner(otl otel.Otel) Owner {
	return &ownerImpl{otel: otl}
}

// Resolve reads the owner identifier from the request header and stores it
// in the request context. Requests without a usable identifier are rejected
// before any handler runs.
func (m *ownerImpl) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "owner.middleware")

		owner := model.OwnerID(request.Header.Get(constant.RequestHeaderOwnerID))
		if owner.IsEmpty() {
			err := failure.Validation("missing " + constant.RequestHeaderOwnerID + " header")
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyOwnerID, owner)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// OwnerFromContext extracts the owner identifier placed by Resolve.
func OwnerFromContext(ctx context.Context) (model.OwnerID, bool) {
	owner, ok := ctx.Value(constant.ContextKeyOwnerID).(model.OwnerID)

	return owner, ok
}
