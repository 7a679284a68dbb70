package analytics

import "strings"

// Bucket is the dashboard's pie-chart category for a finished call.
type Bucket string

const (
	BucketCompleted       Bucket = "completed"
	BucketFailed          Bucket = "failed"
	BucketUserHangup      Bucket = "userHangup"
	BucketAssistantHangup Bucket = "assistantHangup"
)

var userHangupReasons = []string{
	"customer-ended-call",
	"customer-busy",
	"customer-did-not-answer",
	"customer-did-not-give-microphone-permission",
}

var assistantHangupReasons = []string{
	"assistant-ended-call",
	"assistant-said-end-call-phrase",
	"assistant-forwarded-call",
	"assistant-said-message-with-end-call-enabled",
}

var failedSubstrings = []string{
	"error",
	"failed",
	"invalid",
	"timeout",
}

var failedExact = map[string]bool{
	"silence-timed-out":     true,
	"worker-shutdown":       true,
	"unknown-error":         true,
	"db-error":              true,
	"manually-canceled":     true,
	"exceeded-max-duration": true,
}

// Classify maps a call's status and ended reason to a pie-chart bucket.
// Order matters: user hangups win over assistant hangups, which win over
// failure patterns, which win over completion. The second return reports
// whether the reason matched a known rule; unrecognized reasons land in
// failed and get logged by the caller.
func Classify(status, endedReason string) (Bucket, bool) {
	reason := strings.ToLower(endedReason)

	for _, r := range userHangupReasons {
		if strings.Contains(reason, r) {
			return BucketUserHangup, true
		}
	}
	for _, r := range assistantHangupReasons {
		if strings.Contains(reason, r) {
			return BucketAssistantHangup, true
		}
	}
	for _, s := range failedSubstrings {
		if strings.Contains(reason, s) {
			return BucketFailed, true
		}
	}
	if failedExact[reason] ||
		strings.HasPrefix(reason, "pipeline-") ||
		strings.HasPrefix(reason, "vapifault-") {
		return BucketFailed, true
	}
	if status == "completed" || reason == "" || reason == "undefined" || reason == "null" {
		return BucketCompleted, true
	}
	return BucketFailed, false
}
