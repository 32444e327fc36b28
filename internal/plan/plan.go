// Package plan resolves subscription plan identifiers to ordinal levels and
// decides whether gated features are available to a caller.
package plan

import (
	"fmt"
	"strings"
)

// Level is the ordinal rank of a subscription tier. Gaps between values
// leave room for intermediate tiers.
type Level int

const (
	Free     Level = 0
	Educator Level = 10
	Premium  Level = 20
	Royalty  Level = 30
)

func (l Level) String() string {
	switch l {
	case Free:
		return "FREE"
	case Educator:
		return "EDUCATOR"
	case Premium:
		return "PREMIUM"
	case Royalty:
		return "ROYALTY"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel parses one of the four named tiers, case-insensitively.
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "FREE":
		return Free, nil
	case "EDUCATOR":
		return Educator, nil
	case "PREMIUM":
		return Premium, nil
	case "ROYALTY":
		return Royalty, nil
	}
	return Free, fmt.Errorf("unknown plan level %q", name)
}

// aliases maps billing plan identifiers, including legacy ones, to levels.
// Several identifiers collapse onto the same level.
var aliases = map[string]Level{
	"free":           Free,
	"educator":       Educator,
	"basic_seller":   Educator,
	"seller":         Educator,
	"premium":        Premium,
	"premium_seller": Premium,
	"studio":         Premium,
	"royalty":        Royalty,
	"royalty_annual": Royalty,
}

// KnownAlias reports whether the identifier maps to a tier. Use it to
// validate writes; Resolve deliberately folds unknown values to Free.
func KnownAlias(id string) bool {
	_, ok := aliases[strings.ToLower(strings.TrimSpace(id))]
	return ok
}

// Resolve maps a nullable plan identifier to its level. Nil, empty and
// unknown identifiers all resolve to Free.
func Resolve(plan *string) Level {
	if plan == nil {
		return Free
	}
	if level, ok := aliases[strings.ToLower(strings.TrimSpace(*plan))]; ok {
		return level
	}
	return Free
}

// Decision is the outcome of an entitlement check. When denied, Message and
// UpgradeURL feed the upsell prompt rendered by the caller.
type Decision struct {
	Allowed    bool   `json:"allowed"`
	Required   string `json:"required"`
	Resolved   string `json:"resolved"`
	Message    string `json:"message,omitempty"`
	UpgradeURL string `json:"upgradeUrl,omitempty"`
}

// Gate evaluates entitlement checks against a fixed upgrade destination.
type Gate struct {
	upgradeURL string
}

func NewGate(upgradeURL string) *Gate {
	return &Gate{upgradeURL: upgradeURL}
}

// Evaluate recomputes the comparison from the current plan identifier on
// every call; nothing is cached.
func (g *Gate) Evaluate(plan *string, required Level, message string) Decision {
	resolved := Resolve(plan)
	d := Decision{
		Allowed:  resolved >= required,
		Required: required.String(),
		Resolved: resolved.String(),
	}
	if !d.Allowed {
		d.Message = message
		d.UpgradeURL = g.upgradeURL
	}
	return d
}
