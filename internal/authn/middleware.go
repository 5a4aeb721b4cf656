package authn

import (
	"context"
	"crypto/tls"
	"log/slog"

	"github.com/gin-gonic/gin"

	accessDomain "github.com/allisson/keyhouse/internal/access/domain"
	accessUsecase "github.com/allisson/keyhouse/internal/access/usecase"
	apperrors "github.com/allisson/keyhouse/internal/errors"
	"github.com/allisson/keyhouse/internal/httputil"
)

// Middleware authenticates an automation API request from the peer
// certificate's Common Name. MUST run behind a server configured for
// tls.RequireAndVerifyClientCert, since it trusts that a verified chain is
// already present on the connection.
//
// Returns:
//   - 401: no peer certificate, or no client matches the certificate's CN
//   - 403: client exists but is disabled, or automationAllowed is false
func Middleware(clients accessUsecase.ClientUsecase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.TLS == nil || len(c.Request.TLS.PeerCertificates) == 0 {
			logger.Debug("authentication failed: no client certificate presented")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		cn := commonName(c.Request.TLS)
		client, err := clients.GetByName(c.Request.Context(), cn)
		if err != nil {
			logger.Debug("authentication failed: no client matches certificate cn", slog.String("cn", cn))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !client.Enabled {
			httputil.HandleErrorGin(c, accessDomain.ErrClientDisabled, logger)
			c.Abort()
			return
		}
		if !client.AutomationAllowed {
			httputil.HandleErrorGin(c, accessDomain.ErrAutomationNotAllowed, logger)
			c.Abort()
			return
		}

		ctx := WithClient(c.Request.Context(), client)
		c.Request = c.Request.WithContext(ctx)

		touchLastSeen(clients, client.ID, logger)

		c.Next()
	}
}

// commonName extracts the authenticating identity from the verified peer
// certificate chain.
func commonName(state *tls.ConnectionState) string {
	return state.PeerCertificates[0].Subject.CommonName
}

// touchLastSeen records client activity out-of-band: it must never slow
// down or fail the request it was triggered by.
func touchLastSeen(clients accessUsecase.ClientUsecase, clientID int64, logger *slog.Logger) {
	go func() {
		ctx := context.Background()
		if err := clients.TouchLastSeen(ctx, clientID); err != nil {
			logger.Error("failed to update client last seen", slog.Any("error", err))
		}
	}()
}
