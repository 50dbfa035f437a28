package report

import (
	"net/mail"
	"strings"
)

// CCAddress decides whether the submitter's own email field is usable as a
// carbon-copy recipient. An address the provider would reject must not sink
// the whole notification, so anything unparseable simply drops the CC.
func CCAddress(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address == "" {
		return "", false
	}
	return addr.Address, true
}
