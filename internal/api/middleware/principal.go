package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusconnect/campus-api/internal/api/handler/v1/response"
	"github.com/campusconnect/campus-api/internal/domain"
	"github.com/campusconnect/campus-api/internal/pkg/jwthelper"
	"github.com/campusconnect/campus-api/internal/pkg/principal"
	"github.com/campusconnect/campus-api/internal/service"
)

const principalKey = "principal"

type PrincipalResolver struct {
	signingKey []byte
}

func NewPrincipalResolver(signingKey string) *PrincipalResolver {
	return &PrincipalResolver{
		signingKey: []byte(signingKey),
	}
}

// Resolve attaches the caller's principal to every request. The platform header wins over a
// bearer token. Anything that fails to decode leaves the request anonymous.
func (r *PrincipalResolver) Resolve() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if p := r.resolve(ctx); p != nil {
			ctx.Set(principalKey, p)
		}

		ctx.Next()
	}
}

func (r *PrincipalResolver) resolve(ctx *gin.Context) *domain.Principal {
	if header := ctx.GetHeader(principal.Header); header != "" {
		p, err := principal.Decode(header)
		if err != nil {
			zap.L().Debug("ignoring client principal", zap.Error(err))
			return nil
		}

		return p
	}

	token, ok := strings.CutPrefix(ctx.GetHeader("Authorization"), "Bearer ")
	if !ok || len(r.signingKey) == 0 {
		return nil
	}

	p, err := jwthelper.ParseToken(r.signingKey, strings.TrimSpace(token))
	if err != nil {
		zap.L().Debug("ignoring bearer token", zap.Error(err))
		return nil
	}

	return &p
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !Principal(ctx).IsAuthenticated() {
			response.RenderErr(ctx, response.ErrUnauthorized(service.ErrUnauthorized))
			return
		}

		ctx.Next()
	}
}

// Principal returns the resolved principal, or nil for anonymous requests.
func Principal(ctx *gin.Context) *domain.Principal {
	v, ok := ctx.Get(principalKey)
	if !ok {
		return nil
	}

	p, _ := v.(*domain.Principal)

	return p
}

// SetPrincipal is used by tests that bypass Resolve.
func SetPrincipal(ctx *gin.Context, p *domain.Principal) {
	ctx.Set(principalKey, p)
}
