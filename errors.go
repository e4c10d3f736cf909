package mediaguard

import (
	"errors"

	"github.com/MrEthical07/mediaguard/cache"
	"github.com/MrEthical07/mediaguard/capability"
	"github.com/MrEthical07/mediaguard/jwt"
	"github.com/MrEthical07/mediaguard/rank"
	"github.com/MrEthical07/mediaguard/reset"
	"github.com/MrEthical07/mediaguard/session"
)

var (
	// ErrUnauthorized wraps every token signature, structure and expiry
	// failure. Use errors.Is with ErrTokenExpired or ErrTokenInvalid for the
	// reason; never show it to the client.
	ErrUnauthorized = session.ErrUnauthorized
	// ErrTokenExpired is a valid signature with exp in the past.
	ErrTokenExpired = jwt.ErrTokenExpired
	// ErrTokenInvalid is a malformed, forged or foreign token.
	ErrTokenInvalid = jwt.ErrTokenInvalid
	// ErrTokenTypeMismatch is a refresh token used as access or the reverse.
	ErrTokenTypeMismatch = session.ErrTokenTypeMismatch
	// ErrForbidden is a valid token with the wrong role.
	ErrForbidden = session.ErrForbidden
	// ErrInvalidRole is returned when issuing tokens for an unknown role.
	ErrInvalidRole = session.ErrInvalidRole
	// ErrTokenRevoked is a token found on the denylist.
	ErrTokenRevoked = session.ErrTokenRevoked
	// ErrRevocationDisabled is returned by Logout without a denylist.
	ErrRevocationDisabled = session.ErrRevocationDisabled
	// ErrDenylistUnavailable wraps Redis failures of the denylist.
	ErrDenylistUnavailable = session.ErrDenylistUnavailable

	// ErrInvalidFilename is returned when nothing of a filename survives sanitization.
	ErrInvalidFilename = capability.ErrInvalidFilename
	// ErrCapabilityExpired is an expired download token.
	ErrCapabilityExpired = capability.ErrCapabilityExpired
	// ErrCapabilityInvalid is a malformed or forged download token.
	ErrCapabilityInvalid = capability.ErrCapabilityInvalid
	// ErrCapabilityFilenameMismatch is a valid download token presented for
	// another file. The Engine logs and audits it as a tampering signal.
	ErrCapabilityFilenameMismatch = capability.ErrCapabilityFilenameMismatch

	// ErrPasswordResetInvalid covers unknown, used and expired reset tokens.
	ErrPasswordResetInvalid = reset.ErrResetTokenInvalid
	// ErrInvalidUserType is returned for reset requests outside {admin,user}.
	ErrInvalidUserType = reset.ErrInvalidUserType
	// ErrResetNotDeactivated means the password changed but the token may be
	// replayable. Alert on it.
	ErrResetNotDeactivated = reset.ErrResetNotDeactivated
	// ErrPasswordResetRateLimited is returned when the request budget is spent.
	ErrPasswordResetRateLimited = errors.New("password reset rate limited")
	// ErrPasswordResetUnavailable is returned when no reset repository or
	// account store was configured.
	ErrPasswordResetUnavailable = errors.New("password reset unavailable")
	// ErrPasswordPolicy is returned when the new password is rejected by the hasher.
	ErrPasswordPolicy = errors.New("password does not meet policy")

	// ErrRankNotFound is an unknown channel id.
	ErrRankNotFound = rank.ErrRankNotFound
	// ErrPositionOutOfRange is a negative or past-the-end target.
	ErrPositionOutOfRange = rank.ErrPositionOutOfRange
	// ErrRankShiftPartial is a move that left positions non-dense. Do not retry.
	ErrRankShiftPartial = rank.ErrRankShiftPartial
	// ErrMoveRolledBack is a transactional move that wrote nothing.
	ErrMoveRolledBack = rank.ErrMoveRolledBack
	// ErrRankUnavailable is returned when no channel store was configured.
	ErrRankUnavailable = errors.New("channel ordering unavailable")

	// ErrCacheBackendUnavailable wraps cache backend failures.
	ErrCacheBackendUnavailable = cache.ErrBackendUnavailable

	// ErrEngineNotReady is returned by methods called on a nil Engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
