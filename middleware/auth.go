// auth.go - JWT authentication middleware
// This file guards the protected blog routes
//
// Authentication Flow:
// 1. Extract JWT token from Authorization header
// 2. Validate token signature and expiration
// 3. Store the user ID from the claims in the context for handlers

package middleware // Declares the package name

import ( // Import required packages
	"net/http" // HTTP status codes (401)
	"strings"  // String operations (for header parsing)

	"go-blog-backend/services" // Token verification

	"github.com/gin-gonic/gin" // Gin web framework (for middleware)
)

const UserIDKey = "user_id" // Context key holding the acting user's ID

// AuthMiddleware - Returns a Gin middleware function for JWT authentication
// The acting user is always taken from the verified token, never from the request body
func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) { // Middleware handler (runs before each protected request)
		// STEP 1: Extract Authorization header
		header := c.GetHeader("Authorization")                     // Get Authorization header
		if header == "" || !strings.HasPrefix(header, "Bearer ") { // If missing or invalid format
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. No token"}) // Return 401 Unauthorized
			return
		}

		// STEP 2: Parse JWT token
		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")) // Remove 'Bearer ' prefix
		claims, err := auth.VerifyToken(tokenStr)                            // Check signature and expiry
		if err != nil {                                                      // If token is invalid or expired
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Invalid token"}) // Return 401 Unauthorized
			return
		}

		// STEP 3: Store user ID in context so handlers don't re-parse the token
		c.Set(UserIDKey, claims.UserID)

		c.Next() // Continue to next handler (authentication successful)
	}
}

// CurrentUserID returns the ID stored by AuthMiddleware, or "" outside a protected route
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
