package gate

// DefaultPreviewLimitSec is the guest preview ceiling.
const DefaultPreviewLimitSec = 30

// LoginRequiredRule denies library mutations to guests.
type LoginRequiredRule struct{}

func (r *LoginRequiredRule) Name() string {
	return "login_required"
}

func (r *LoginRequiredRule) AppliesTo(action Action) bool {
	return action.IsLibraryMutation()
}

func (r *LoginRequiredRule) Check(req Request) Decision {
	if req.Role.IsGuest() {
		return Deny(ReasonLoginRequired)
	}
	return Allow()
}

// PreviewLimitRule denies guests any playback continuation at or past the limit.
type PreviewLimitRule struct {
	limit float64
}

// NewPreviewLimitRule creates the rule. Non-positive limits fall back to the default.
func NewPreviewLimitRule(limitSec float64) *PreviewLimitRule {
	if limitSec <= 0 {
		limitSec = DefaultPreviewLimitSec
	}
	return &PreviewLimitRule{limit: limitSec}
}

func (r *PreviewLimitRule) Name() string {
	return "preview_limit"
}

// Limit returns the ceiling in seconds.
func (r *PreviewLimitRule) Limit() float64 {
	return r.limit
}

func (r *PreviewLimitRule) AppliesTo(action Action) bool {
	return action.IsContinuation()
}

func (r *PreviewLimitRule) Check(req Request) Decision {
	// The boundary itself is denied.
	if req.Role.IsGuest() && req.Position >= r.limit {
		return Deny(ReasonPreviewExpired)
	}
	return Allow()
}
