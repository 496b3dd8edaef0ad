package api

import (
	"github.com/dossiman/coursera-fullstack-web-dev/internal/auth"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const principalKey = "principal"

// guard inspects a request before its handler runs. A non-nil error ends
// the request with that error.
type guard func(c *gin.Context) error

// guarded runs the guards in order and calls h only when all of them pass
func guarded(log zerolog.Logger, h gin.HandlerFunc, guards ...guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, g := range guards {
			if err := g(c); err != nil {
				respondError(c, log, err)
				return
			}
		}
		h(c)
	}
}

// requireUser authenticates the bearer token and stores the principal
func requireUser(users service.UserService) guard {
	return func(c *gin.Context) error {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			return &service.Error{Kind: service.KindUnauthorized, Message: err.Error()}
		}
		principal, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			return err
		}
		c.Set(principalKey, principal)
		return nil
	}
}

// requireAdmin admits only admins. It must follow requireUser.
func requireAdmin(c *gin.Context) error {
	principal := principalFrom(c)
	if principal == nil || !principal.Admin {
		return &service.Error{Kind: service.KindForbidden, Message: service.NotAuthorizedMessage}
	}
	return nil
}

// principalFrom returns the authenticated principal, or nil
func principalFrom(c *gin.Context) *auth.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}
