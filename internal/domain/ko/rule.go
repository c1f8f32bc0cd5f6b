package ko

import (
	"fmt"
	"strings"

	errs "goban_rules/internal/errors"
)

// Rule selects how repeated positions are forbidden.
type Rule int

const (
	// SimpleKo forbids only the immediate single-stone recapture.
	SimpleKo Rule = iota
	// PositionalSuperko forbids any earlier board position.
	PositionalSuperko
	// SituationalSuperko forbids a board position the same color produced before.
	SituationalSuperko
	// SuperkoBoth reports immediate recaptures as simple ko and everything
	// else as positional superko.
	SuperkoBoth
)

func (r Rule) String() string {
	switch r {
	case SimpleKo:
		return "simple"
	case PositionalSuperko:
		return "positional"
	case SituationalSuperko:
		return "situational"
	case SuperkoBoth:
		return "both"
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

func ParseRule(s string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "simple", "simple-ko":
		return SimpleKo, nil
	case "positional", "positional-superko":
		return PositionalSuperko, nil
	case "situational", "situational-superko":
		return SituationalSuperko, nil
	case "both":
		return SuperkoBoth, nil
	}
	return SimpleKo, fmt.Errorf("%w: unknown ko rule %q", errs.ErrInvalidArgument, s)
}

// Reason tells why a move is illegal. None means legal.
type Reason int

const (
	None Reason = iota
	Occupied
	Suicide
	SimpleKoViolation
	SuperkoViolation
)

func (r Reason) String() string {
	switch r {
	case None:
		return "legal"
	case Occupied:
		return "intersection occupied"
	case Suicide:
		return "suicide"
	case SimpleKoViolation:
		return "simple ko"
	case SuperkoViolation:
		return "superko"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}
