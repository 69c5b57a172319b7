package quota

import "fmt"

// FallbackTier is the entitlement tag applied when a user has no recognized
// subscription tier. It must always be present in the tier limits table.
const FallbackTier = "none"

// TierLimits maps entitlement tags to the limits that tier grants.
// Tiers are data, not types: adding a plan is a configuration change.
type TierLimits map[string]LimitSet

// Validate checks that the mandatory fallback tier is configured. Called at
// config load time so a broken table is fatal at startup, never at request
// time.
func (t TierLimits) Validate() error {
	if _, ok := t[FallbackTier]; !ok {
		return fmt.Errorf("tier limits must include the %q fallback tier", FallbackTier)
	}
	return nil
}

// ResolveLimits merges the limits of every configured tag into one effective
// limit set using a most-permissive-wins policy. Tags missing from the table
// are ignored; if none of the supplied tags is configured the fallback tier
// applies. The result does not depend on tag order and resolution never
// fails.
func ResolveLimits(tags []string, tiers TierLimits) LimitSet {
	var merged LimitSet
	matched := false

	for _, tag := range tags {
		limits, ok := tiers[tag]
		if !ok {
			continue
		}
		if !matched {
			merged = limits
			matched = true
			continue
		}
		merged = merged.Merge(limits)
	}

	if !matched {
		return tiers[FallbackTier]
	}
	return merged
}
