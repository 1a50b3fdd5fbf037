package backend

import (
	"strings"

	"github.com/sangkips/pos-terminal/internal/domain/entity"
)

func methodURL(sess *entity.SessionContext, method string) string {
	return strings.TrimRight(sess.BaseURL, "/") + "/api/method/" + method
}

func authHeader(sess *entity.SessionContext) string {
	return "token " + sess.Token
}
