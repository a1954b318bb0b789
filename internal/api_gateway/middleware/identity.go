package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// AgentIDHeader carries the authenticated agent identity. Requests are
	// authenticated upstream; this service trusts the header value.
	AgentIDHeader = "X-Agent-ID"

	// AgentIDKey is the key used to store the agent ID in the context
	AgentIDKey = "agent_id"
)

// AgentIdentity middleware requires a valid agent UUID on every request
func AgentIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(AgentIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing " + AgentIDHeader + " header",
				},
			})
			return
		}

		agentID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid " + AgentIDHeader + " header",
				},
			})
			return
		}

		c.Set(AgentIDKey, agentID)
		c.Next()
	}
}

// GetAgentID retrieves the authenticated agent ID from the gin context
func GetAgentID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(AgentIDKey); exists {
		if agentID, ok := v.(uuid.UUID); ok {
			return agentID, true
		}
	}
	return uuid.Nil, false
}
