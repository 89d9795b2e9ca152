package core

import (
	"net/url"
	"strings"
)

// DetectHint guesses what kind of text was copied.
func DetectHint(content string) Hint {
	s := strings.TrimSpace(content)
	if s == "" {
		return HintText
	}

	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Host != "" && !strings.ContainsAny(s, " \n") {
		return HintURL
	}
	if looksLikeCommand(s) {
		return HintCommand
	}
	if looksLikeCode(s) {
		return HintCode
	}
	return HintText
}

func looksLikeCommand(s string) bool {
	if strings.HasPrefix(s, "$ ") || strings.HasPrefix(s, "sudo ") {
		return true
	}
	return strings.Contains(s, " --") || strings.Contains(s, " | ") || strings.Contains(s, " && ")
}

func looksLikeCode(s string) bool {
	if strings.Contains(s, "{") && strings.Contains(s, "}") {
		return true
	}
	for _, kw := range []string{"function ", "package ", "import ", "def ", "return "} {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return strings.Contains(s, ";") && strings.Contains(s, "=")
}
