package platform

import (
	"fmt"
	"net/url"
	"strings"
)

// ErrorKind distinguishes validation failures.
type ErrorKind int

const (
	MissingURL ErrorKind = iota
	InvalidURL
	UnsupportedPlatform
)

// ValidationError is returned by Validate. It is raised before any provider is called.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

const (
	msgMissingURL = "URL é obrigatória"
	msgInvalidURL = "URL inválida"
)

// MissingURLError returns the fixed error for a request without a URL.
func MissingURLError() *ValidationError {
	return &ValidationError{Kind: MissingURL, Message: msgMissingURL}
}

// Validate checks that raw is a well-formed http(s) URL that belongs to a
// supported platform and returns that platform.
func Validate(raw string) (Platform, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Unknown, MissingURLError()
	}

	u, err := url.ParseRequestURI(trimmed)
	if err != nil {
		return Unknown, &ValidationError{Kind: InvalidURL, Message: msgInvalidURL}
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return Unknown, &ValidationError{Kind: InvalidURL, Message: msgInvalidURL}
	}
	if u.Host == "" {
		return Unknown, &ValidationError{Kind: InvalidURL, Message: msgInvalidURL}
	}

	p := Detect(trimmed)
	if p == Unknown {
		return Unknown, &ValidationError{
			Kind:    UnsupportedPlatform,
			Message: unsupportedMessage(),
		}
	}
	return p, nil
}

func unsupportedMessage() string {
	names := make([]string, 0, len(Supported()))
	for _, p := range Supported() {
		names = append(names, p.DisplayName())
	}
	return fmt.Sprintf("Plataforma não suportada. Plataformas suportadas: %s", strings.Join(names, ", "))
}
