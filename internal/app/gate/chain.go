package gate

import zlog "github.com/rs/zerolog/log"

// Chain executes rules in sequence.
type Chain struct {
	rules []Rule
}

// NewChain creates a new empty rule chain.
func NewChain() *Chain {
	return &Chain{
		rules: make([]Rule, 0),
	}
}

// NewDefaultChain creates the chain used by the player: login-required for
// library mutations, then the guest preview limit.
func NewDefaultChain(previewLimitSec float64) *Chain {
	c := NewChain()
	c.Add(&LoginRequiredRule{})
	c.Add(NewPreviewLimitRule(previewLimitSec))
	return c
}

// Add adds a rule to the chain.
func (c *Chain) Add(r Rule) {
	c.rules = append(c.rules, r)
}

// Check runs all rules that apply to the action.
// Returns immediately if any rule denies.
func (c *Chain) Check(req Request) Decision {
	for _, r := range c.rules {
		if !r.AppliesTo(req.Action) {
			continue
		}

		d := r.Check(req)
		if !d.Allowed {
			zlog.Debug().Msgf("gate: denied: rule=%s action=%s role=%s reason=%s",
				r.Name(), req.Action, req.Role, d.Reason.Code())
			return d
		}
	}
	return Allow()
}
