package middleware

import "net/http"

const (
	defaultFrameOptions       = "DENY"
	defaultReferrerPolicy     = "no-referrer"
	defaultContentTypeOptions = "nosniff"
)

// SecurityConfig controls the response headers that harden the server against
// clickjacking, MIME sniffing, and referrer leakage. Zero-valued fields fall
// back to safe defaults.
type SecurityConfig struct {
	FrameOptions       string
	ReferrerPolicy     string
	ContentTypeOptions string
}

// DefaultSecurityConfig returns the default security header configuration.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		FrameOptions:       defaultFrameOptions,
		ReferrerPolicy:     defaultReferrerPolicy,
		ContentTypeOptions: defaultContentTypeOptions,
	}
}

func (cfg SecurityConfig) withDefaults() SecurityConfig {
	defaults := DefaultSecurityConfig()

	if cfg.FrameOptions == "" {
		cfg.FrameOptions = defaults.FrameOptions
	}
	if cfg.ReferrerPolicy == "" {
		cfg.ReferrerPolicy = defaults.ReferrerPolicy
	}
	if cfg.ContentTypeOptions == "" {
		cfg.ContentTypeOptions = defaults.ContentTypeOptions
	}

	return cfg
}

// SecurityHeaders sets hardening headers on every response.
func SecurityHeaders(cfg SecurityConfig) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", cfg.ContentTypeOptions)
			h.Set("X-Frame-Options", cfg.FrameOptions)
			h.Set("Referrer-Policy", cfg.ReferrerPolicy)

			next.ServeHTTP(w, r)
		})
	}
}
