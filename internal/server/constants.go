package server

import "time"

// HTTP server limits
const (
	ReadHeaderTimeout = 5 * time.Second
	MaxRequestBytes   = 1 << 16
	CORSMaxAge        = 15 * 60 // seconds
)

// Rate limiting
const (
	RateLimitWindow       = 5 * time.Minute
	RateLimitMaxRequests  = 1000
	RateLimitLogEvery     = 100
	FailedRequestsAlertAt = 50
)

// HTTP error messages for middleware responses
const (
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertRejected = "SECURITY ALERT: Many rejected requests from one client"
	SecurityAlertHighRate = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
)

// HTTP header names
const (
	HeaderRequestID      = "X-Request-ID"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// QuietPaths are scraped or polled often and skip request logging
var QuietPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}

// SensitiveHeaders are redacted from request logs
var SensitiveHeaders = []string{"Authorization", "Cookie", "X-API-Key"}

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)
