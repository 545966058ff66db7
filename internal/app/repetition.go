package app

// Decision is the outcome of the repetition policy.
type Decision int

const (
	Accept Decision = iota
	Skip
)

// Decide applies the repetition policy: limit 0 means unlimited, otherwise a
// submission is accepted while fewer than limit non-skipped attempts exist for
// the (session, question) pair. Callers must count only non-skipped records.
func Decide(limit, attemptsUsed int) Decision {
	if limit == 0 {
		return Accept
	}
	if attemptsUsed < limit {
		return Accept
	}
	return Skip
}

// Remaining reports how many attempts are left, or UnlimitedRemaining when the
// limit is zero.
func Remaining(limit, attemptsUsed int) int {
	if limit == 0 {
		return UnlimitedRemaining
	}
	left := limit - attemptsUsed
	if left < 0 {
		return 0
	}
	return left
}

// UnlimitedRemaining marks an unbounded remaining-attempts value in results.
const UnlimitedRemaining = -1
