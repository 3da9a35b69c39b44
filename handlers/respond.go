package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"food-marketplace-api/apperr"
)

// respondError maps the three error kinds onto HTTP statuses: 401 for
// authentication, 403 for authorization, 422 for domain violations.
// Authorization denials are logged with the target record for audit; the
// response body never explains what scope would have sufficed.
func respondError(c *gin.Context, err error) {
	var authnErr *apperr.AuthenticationError
	var authzErr *apperr.AuthorizationError
	var domainErr *apperr.DomainError

	switch {
	case errors.As(err, &authnErr):
		c.JSON(http.StatusUnauthorized, gin.H{"error": authnErr.Error()})
	case errors.As(err, &authzErr):
		logrus.WithFields(logrus.Fields{
			"resource": authzErr.Resource,
			"id":       authzErr.ID,
			"path":     c.FullPath(),
		}).Warn("authorization denied")
		c.JSON(http.StatusForbidden, gin.H{"error": authzErr.Error()})
	case errors.As(err, &domainErr):
		body := gin.H{"error": domainErr.Invariant}
		if domainErr.Current != "" || domainErr.Required != "" {
			body["current_state"] = domainErr.Current
			body["required_state"] = domainErr.Required
		}
		c.JSON(http.StatusUnprocessableEntity, body)
	default:
		logrus.WithError(err).Error("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
