package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/erp/sales/internal/infrastructure/logger"
	"github.com/erp/sales/internal/interfaces/http/dto"
)

// Context and header keys for tenant propagation
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantConfig holds tenant middleware configuration
type TenantConfig struct {
	// SkipPaths are paths served without tenant context
	SkipPaths []string
	// Required rejects requests without a tenant ID when set
	Required bool
	// DefaultTenantID is used when the header is absent and Required is false.
	// Meant for development setups only.
	DefaultTenantID uuid.UUID
}

// DefaultTenantConfig returns the development-friendly tenant configuration
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		SkipPaths:       []string{"/health", "/ready"},
		Required:        false,
		DefaultTenantID: uuid.MustParse("00000000-0000-0000-0000-000000000001"),
	}
}

// Tenant extracts the tenant ID from the X-Tenant-ID header and stores it in
// the gin context and the request context logger.
func Tenant(cfg TenantConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		raw := c.GetHeader(TenantHeaderKey)
		if raw == "" {
			if cfg.Required {
				c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
					dto.ErrCodeBadRequest,
					"missing X-Tenant-ID header",
				))
				return
			}
			c.Set(TenantIDKey, cfg.DefaultTenantID)
			c.Next()
			return
		}

		tenantID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeBadRequest,
				"invalid X-Tenant-ID header",
			))
			return
		}

		c.Set(TenantIDKey, tenantID)
		ctx, _ := logger.WithTenantID(c.Request.Context(), logger.FromContext(c.Request.Context()), tenantID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetTenantID returns the tenant ID stored by the Tenant middleware
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(TenantIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
