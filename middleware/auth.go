package middleware

import (
	"context"
	"net/http"
	"strings"

	"lastmile/models"
	"lastmile/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// TokenHashSource resolves the stored hash of an account's current sign-in
// token. A fresh sign-in replaces the hash, which revokes older tokens.
type TokenHashSource interface {
	TokenHash(accountID string, role models.AccountRole) (string, error)
}

// jwtAuth validates the Bearer token, rejects tokens superseded by a newer
// sign-in, and, when allowedRoles is non-empty, requires the token's role to
// be among them. On success the account id and role land in the gin context.
func jwtAuth(tokens TokenHashSource, allowedRoles ...models.AccountRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		accountID, role, err := utils.ExtractClaimsFromToken(tokenString)
		if err != nil || accountID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		if !tokenCurrent(c, tokens, tokenString, accountID, role) {
			return
		}

		if len(allowedRoles) > 0 {
			permitted := false
			for _, allowed := range allowedRoles {
				if models.AccountRole(role) == allowed {
					permitted = true
					break
				}
			}
			if !permitted {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"error": "Forbidden for this role",
					"code":  0,
				})
				return
			}
		}

		c.Set("accountID", accountID)
		c.Set("role", role)
		c.Next()
	}
}

// tokenCurrent compares the presented token's hash against the stored one,
// consulting the auth cache first and falling back to the account store on a
// miss. A mismatch means the token was revoked by a later sign-in; the
// request is aborted and false returned.
func tokenCurrent(c *gin.Context, tokens TokenHashSource, tokenString, accountID, role string) bool {
	presentedHash := utils.HashToken(tokenString)
	cacheKey := utils.AuthCachePrefix + accountID

	ctx := context.Background()
	authCache := utils.AuthCacheClient

	if authCache != nil {
		cachedHash, err := authCache.Get(ctx, cacheKey).Result()
		if err == nil {
			if cachedHash == presentedHash {
				_ = authCache.Expire(ctx, cacheKey, utils.AuthCacheTTL).Err()
				return true
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Token mismatch",
				"code":  0,
			})
			return false
		} else if err != redis.Nil {
			utils.GetLogger().Warn("auth cache lookup failed, falling back to account store")
		}
	}

	storedHash, err := tokens.TokenHash(accountID, models.AccountRole(role))
	if err != nil || storedHash == "" || storedHash != presentedHash {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Token mismatch",
			"code":  0,
		})
		return false
	}
	if authCache != nil {
		_ = authCache.Set(ctx, cacheKey, storedHash, utils.AuthCacheTTL).Err()
	}
	return true
}

// JWTAuthBusinessMiddleware restricts a route to business accounts.
func JWTAuthBusinessMiddleware(tokens TokenHashSource) gin.HandlerFunc {
	return jwtAuth(tokens, models.RoleBusiness)
}

// JWTAuthRiderMiddleware restricts a route to rider accounts.
func JWTAuthRiderMiddleware(tokens TokenHashSource) gin.HandlerFunc {
	return jwtAuth(tokens, models.RoleRider)
}

// JWTAuthAnyMiddleware accepts either role; workflow role rules are enforced
// downstream by the offer service.
func JWTAuthAnyMiddleware(tokens TokenHashSource) gin.HandlerFunc {
	return jwtAuth(tokens)
}
