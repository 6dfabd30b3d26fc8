package domain

import "fmt"

// Strategy is an enrolled second-factor delivery method. The set is closed;
// extend it only by adding new variants here and teaching the notifier the
// new channel.
type Strategy string

const (
	StrategyEmail Strategy = "EMAIL"
	StrategyPhone Strategy = "PHONE"
)

// ParseStrategy validates a wire-level strategy string.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyEmail:
		return StrategyEmail, nil
	case StrategyPhone:
		return StrategyPhone, nil
	default:
		return "", fmt.Errorf("unknown strategy %q", s)
	}
}

func (s Strategy) String() string { return string(s) }
