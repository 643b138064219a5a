// Package classify maps raw provider failure text to a user-facing category,
// HTTP status and localized message.
package classify

import (
	"fmt"
	"net/http"
	"strings"

	"social-dl/internal/platform"
)

// Category groups provider failures by what the caller can do about them.
type Category string

const (
	UpstreamUnavailable Category = "upstream_unavailable"
	PrivateContent      Category = "private_content"
	Timeout             Category = "timeout"
	ContentRemoved      Category = "content_removed"
	UpstreamRateLimited Category = "upstream_rate_limited"
	RequestFailed       Category = "request_failed"
	Generic             Category = "generic"
)

// ClassifiedError is the caller-facing form of a provider failure.
// Detail keeps the raw text for logs and is never serialized.
type ClassifiedError struct {
	Category Category `json:"category"`
	Status   int      `json:"-"`
	Message  string   `json:"error"`
	Detail   string   `json:"-"`
}

func (e *ClassifiedError) Error() string {
	return e.Message
}

// Policy holds the statuses that depend on the deployment.
type Policy struct {
	RateLimitStatus int
	GenericStatus   int
}

// DefaultPolicy reports upstream rate limits as 429 and unknown failures as 422.
func DefaultPolicy() Policy {
	return Policy{
		RateLimitStatus: http.StatusTooManyRequests,
		GenericStatus:   http.StatusUnprocessableEntity,
	}
}

// Rule matches when any of its signatures occurs in the lowercased raw text.
type Rule struct {
	Signatures []string
	Category   Category
	Status     func(Policy) int
	// Message receives the platform display name ("" when unknown).
	Message func(name string) string
}

func fixed(status int) func(Policy) int {
	return func(Policy) int { return status }
}

// DefaultRules is evaluated top to bottom, first match wins.
var DefaultRules = []Rule{
	{
		Signatures: []string{"522", "service unavailable", "service_unavailable"},
		Category:   UpstreamUnavailable,
		Status:     fixed(http.StatusServiceUnavailable),
		Message: func(name string) string {
			return "Serviços de download" + of(name) + " temporariamente indisponíveis. Tente novamente em alguns minutos."
		},
	},
	{
		Signatures: []string{"401"},
		Category:   PrivateContent,
		Status:     fixed(http.StatusUnprocessableEntity),
		Message:    privateMessage,
	},
	{
		Signatures: []string{"timeout", "timed out"},
		Category:   Timeout,
		Status:     fixed(http.StatusInternalServerError),
		Message: func(name string) string {
			return "Timeout ao processar conteúdo" + of(name) + ". Tente novamente."
		},
	},
	{
		Signatures: []string{"private", "login"},
		Category:   PrivateContent,
		Status:     fixed(http.StatusUnprocessableEntity),
		Message:    privateMessage,
	},
	{
		Signatures: []string{"not found", "unavailable"},
		Category:   ContentRemoved,
		Status:     fixed(http.StatusUnprocessableEntity),
		Message: func(name string) string {
			return "Conteúdo" + of(name) + " não encontrado ou removido"
		},
	},
	{
		Signatures: []string{"rate limit", "too many"},
		Category:   UpstreamRateLimited,
		Status:     func(p Policy) int { return p.RateLimitStatus },
		Message: func(name string) string {
			return "Limite de requisições" + of(name) + " atingido. Tente novamente mais tarde."
		},
	},
	{
		Signatures: []string{"request failed"},
		Category:   RequestFailed,
		Status:     fixed(http.StatusUnprocessableEntity),
		Message: func(string) string {
			return "Falha na requisição. Verifique se a URL está correta."
		},
	},
}

func privateMessage(name string) string {
	return "Conteúdo privado" + of(name) + " ou não disponível para download"
}

// of renders " do <Platform>" or nothing when the platform is unknown.
func of(name string) string {
	if name == "" {
		return ""
	}
	return " do " + name
}

// Classifier applies an ordered rule list.
type Classifier struct {
	rules  []Rule
	policy Policy
}

// New creates a classifier with the default rules.
func New(policy Policy) *Classifier {
	return &Classifier{rules: DefaultRules, policy: policy}
}

// NewWithRules creates a classifier with a custom rule list.
func NewWithRules(policy Policy, rules []Rule) *Classifier {
	return &Classifier{rules: rules, policy: policy}
}

// Classify maps raw to a ClassifiedError. Unmatched text yields Generic.
func (c *Classifier) Classify(raw string, p platform.Platform) *ClassifiedError {
	lower := strings.ToLower(raw)
	name := p.DisplayName()

	for _, r := range c.rules {
		for _, sig := range r.Signatures {
			if matches(lower, sig) {
				return &ClassifiedError{
					Category: r.Category,
					Status:   r.Status(c.policy),
					Message:  r.Message(name),
					Detail:   raw,
				}
			}
		}
	}

	return &ClassifiedError{
		Category: Generic,
		Status:   c.policy.GenericStatus,
		Message:  genericMessage(name),
		Detail:   raw,
	}
}

// matches reports whether sig occurs in text. Numeric signatures such as
// status codes only match as a whole number, so digits inside post IDs do not.
func matches(text, sig string) bool {
	if !isDigits(sig) {
		return strings.Contains(text, sig)
	}
	for i := 0; ; {
		j := strings.Index(text[i:], sig)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(sig)
		if (start == 0 || !isDigit(text[start-1])) && (end == len(text) || !isDigit(text[end])) {
			return true
		}
		i = start + 1
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func genericMessage(name string) string {
	if name == "" {
		return "Não foi possível processar este conteúdo. Tente novamente."
	}
	return fmt.Sprintf("Não foi possível processar o conteúdo do %s. Tente novamente.", name)
}
