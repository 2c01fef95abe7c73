package constants

import "time"

var Confidence = struct {
	NotSendIntent   float64
	Complete        float64
	Incomplete      float64
	ExtractionError float64
	InvalidPenalty  float64
	PenaltyFloor    float64
	SkipRemoteAbove float64
	RemoteWinsBelow float64
}{
	NotSendIntent:   0.99,
	Complete:        0.95,
	Incomplete:      0.60,
	ExtractionError: 0.1,
	InvalidPenalty:  0.2,
	PenaltyFloor:    0.3,
	SkipRemoteAbove: 0.8, // strictly greater skips the remote call
	RemoteWinsBelow: 0.7, // strictly lower lets the remote result win every field
}

var AddressRules = struct {
	CelestiaPrefix    string
	MochaPrefix       string
	CelestiaMinLength int
	MochaMinLength    int
	PreviewLength     int
}{
	CelestiaPrefix:    "celestia1",
	MochaPrefix:       "mocha1",
	CelestiaMinLength: 45,
	MochaMinLength:    40,
	PreviewLength:     20,
}

var CacheTTL = struct {
	RemoteParse     time.Duration
	SessionSnapshot time.Duration
}{
	RemoteParse:     5 * time.Minute,
	SessionSnapshot: 24 * time.Hour,
}

var WebSocketConfig = struct {
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
}{
	MaxReconnectAttempts: 5,
	ReconnectDelay:       5 * time.Second,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var AIInputLimits = struct {
	MaxQueryLength int
}{
	MaxQueryLength: 500,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
	RateLimitTimeout time.Duration
}{
	FailureThreshold: 3,
	ResetTimeout:     30 * time.Second,
	RateLimitTimeout: 10 * time.Minute, // 429 from a provider
}

var WalletConfig = struct {
	QueueKey     string
	ResultPrefix string
	ReplyTimeout time.Duration
}{
	QueueKey:     "transfer:requests",
	ResultPrefix: "transfer:results:",
	ReplyTimeout: 60 * time.Second,
}

var SessionConfig = struct {
	SnapshotPrefix string
}{
	SnapshotPrefix: "transfer:session:",
}
