package progressiondomain

import "errors"

const (
	MinRetireLevel   = 20
	HeirloomMinLevel = 31
)

var (
	ErrBelowRetireLevel = errors.New("level too low to retire")
	ErrRetireNotConfirm = errors.New("retirement must be confirmed")
)

// HeirloomPoints returns 2^(level−31) for levels 31..38, else 0.
func HeirloomPoints(level int) int64 {
	if level < HeirloomMinLevel || level > MaxLevel {
		return 0
	}
	return int64(1) << (level - HeirloomMinLevel)
}

// CheckRetire validates a retirement request.
func CheckRetire(level int, confirm bool) error {
	if level < MinRetireLevel {
		return ErrBelowRetireLevel
	}
	if !confirm {
		return ErrRetireNotConfirm
	}
	return nil
}
