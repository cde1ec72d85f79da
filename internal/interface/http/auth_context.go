package http

import "github.com/gin-gonic/gin"

const (
	subjectKey   = "auth_subject"
	requestIDKey = "request_id"
)

func setSubject(c *gin.Context, subject string) {
	c.Set(subjectKey, subject)
}

// subjectFrom returns the authenticated caller, or "" for anonymous requests.
func subjectFrom(c *gin.Context) string {
	value, ok := c.Get(subjectKey)
	if !ok {
		return ""
	}
	subject, _ := value.(string)
	return subject
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
