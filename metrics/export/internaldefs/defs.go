package internaldefs

import (
	"strconv"
	"strings"

	"github.com/MrEthical07/mediaguard"
)

// BucketCount is the number of histogram buckets including +Inf.
const BucketCount = len(mediaguard.HistogramBounds) + 1

type CounterDef struct {
	ID   mediaguard.MetricID
	Name string
	Help string
}

type HistogramDef struct {
	ID   mediaguard.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: mediaguard.MetricTokenIssued, Name: "mediaguard_token_issued_total", Help: "Issued access/refresh token pairs."},
	{ID: mediaguard.MetricTokenIssueFailure, Name: "mediaguard_token_issue_failure_total", Help: "Rejected token issue requests."},
	{ID: mediaguard.MetricRefreshSuccess, Name: "mediaguard_refresh_success_total", Help: "Successful refresh operations."},
	{ID: mediaguard.MetricRefreshFailure, Name: "mediaguard_refresh_failure_total", Help: "Failed refresh operations."},
	{ID: mediaguard.MetricValidateSuccess, Name: "mediaguard_validate_success_total", Help: "Accepted access tokens."},
	{ID: mediaguard.MetricValidateUnauthorized, Name: "mediaguard_validate_unauthorized_total", Help: "Access tokens rejected as invalid, expired or revoked."},
	{ID: mediaguard.MetricValidateTypeMismatch, Name: "mediaguard_validate_type_mismatch_total", Help: "Refresh tokens presented as access tokens."},
	{ID: mediaguard.MetricValidateForbidden, Name: "mediaguard_validate_forbidden_total", Help: "Valid tokens carrying the wrong role."},
	{ID: mediaguard.MetricTokenRevoked, Name: "mediaguard_token_revoked_total", Help: "Denylisted tokens presented."},
	{ID: mediaguard.MetricCapabilityIssued, Name: "mediaguard_capability_issued_total", Help: "Signed download URLs issued."},
	{ID: mediaguard.MetricCapabilityGranted, Name: "mediaguard_capability_granted_total", Help: "Accepted download tokens."},
	{ID: mediaguard.MetricCapabilityDenied, Name: "mediaguard_capability_denied_total", Help: "Download tokens rejected as invalid or expired."},
	{ID: mediaguard.MetricCapabilityMismatch, Name: "mediaguard_capability_mismatch_total", Help: "Valid download tokens presented for another file."},
	{ID: mediaguard.MetricPasswordResetRequest, Name: "mediaguard_password_reset_request_total", Help: "Reset tokens issued or reused."},
	{ID: mediaguard.MetricPasswordResetUnknownAccount, Name: "mediaguard_password_reset_unknown_account_total", Help: "Reset requests for unknown or inactive accounts."},
	{ID: mediaguard.MetricPasswordResetRateLimited, Name: "mediaguard_password_reset_rate_limited_total", Help: "Rate-limited reset requests and confirmations."},
	{ID: mediaguard.MetricPasswordResetConfirmSuccess, Name: "mediaguard_password_reset_confirm_success_total", Help: "Successful password reset confirmations."},
	{ID: mediaguard.MetricPasswordResetConfirmFailure, Name: "mediaguard_password_reset_confirm_failure_total", Help: "Failed password reset confirmations."},
	{ID: mediaguard.MetricPasswordResetNotDeactivated, Name: "mediaguard_password_reset_not_deactivated_total", Help: "Resets that changed the password but left the token active."},
	{ID: mediaguard.MetricCacheHit, Name: "mediaguard_cache_hit_total", Help: "Cache hits."},
	{ID: mediaguard.MetricCacheMiss, Name: "mediaguard_cache_miss_total", Help: "Cache misses."},
	{ID: mediaguard.MetricCacheInvalidation, Name: "mediaguard_cache_invalidation_total", Help: "Bucket invalidations."},
	{ID: mediaguard.MetricRankMove, Name: "mediaguard_rank_move_total", Help: "Channel moves applied."},
	{ID: mediaguard.MetricRankNoOp, Name: "mediaguard_rank_noop_total", Help: "Channel moves to the current position."},
	{ID: mediaguard.MetricRankPartialFailure, Name: "mediaguard_rank_partial_failure_total", Help: "Channel moves that left positions non-dense."},
	{ID: mediaguard.MetricRankRolledBack, Name: "mediaguard_rank_rolled_back_total", Help: "Transactional channel moves rolled back."},
}

var HistogramDefs = []HistogramDef{
	{ID: mediaguard.MetricValidateLatency, Name: "mediaguard_validate_latency_seconds", Help: "ValidateAccess latency."},
}

// AuditDroppedName is the counter for audit events lost to backpressure.
const AuditDroppedName = "mediaguard_audit_dropped_total"

var (
	// HistogramBounds are the finite upper bounds in seconds.
	HistogramBounds [BucketCount - 1]float64
	// HistogramBoundLabels are the le label values, ending with "+Inf".
	HistogramBoundLabels [BucketCount]string
	// HistogramBoundSuffix are instrument-name-safe forms of the labels.
	HistogramBoundSuffix [BucketCount]string
)

func init() {
	for i, d := range mediaguard.HistogramBounds {
		s := d.Seconds()
		HistogramBounds[i] = s
		HistogramBoundLabels[i] = strconv.FormatFloat(s, 'f', -1, 64)
		HistogramBoundSuffix[i] = strings.ReplaceAll(HistogramBoundLabels[i], ".", "_")
	}
	HistogramBoundLabels[BucketCount-1] = "+Inf"
	HistogramBoundSuffix[BucketCount-1] = "inf"
}

// NormalizeBuckets copies raw into a fixed-size array, zero-filling.
func NormalizeBuckets(raw []uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

func CumulativeBuckets(raw [BucketCount]uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
