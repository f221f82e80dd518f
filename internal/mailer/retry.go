package mailer

import "time"

// TemplateKind selects which body builder an attempt uses.
type TemplateKind int

const (
	// TemplatePrimary is the full styled email body.
	TemplatePrimary TemplateKind = iota
	// TemplateFallback is the simplified body used after a primary failure.
	TemplateFallback
)

func (k TemplateKind) String() string {
	if k == TemplateFallback {
		return "fallback"
	}
	return "primary"
}

// RetryPolicy makes the dispatch retry behavior explicit: the ordered list
// of templates to attempt and the pause between attempts. An empty Delay
// retries immediately.
type RetryPolicy struct {
	Templates []TemplateKind
	Delay     time.Duration
}

// MaxAttempts is the number of sends the policy allows.
func (p RetryPolicy) MaxAttempts() int {
	return len(p.Templates)
}

// CredentialRetryPolicy tries the primary template once, then the
// simplified fallback once on the same provider. The fallback attempt is
// unconditional, not limited to transient errors.
func CredentialRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Templates: []TemplateKind{TemplatePrimary, TemplateFallback},
	}
}

// BookingRetryPolicy is a single attempt; a failed confirmation send is
// recorded on the appointment, never retried automatically.
func BookingRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Templates: []TemplateKind{TemplatePrimary},
	}
}
