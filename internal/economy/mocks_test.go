package economy

import (
	"github.com/stretchr/testify/mock"

	"github.com/osse101/QuotaPit_Go/internal/domain"
)

// MockSpinResolver implements SpinResolver for testing
type MockSpinResolver struct {
	mock.Mock
}

func (m *MockSpinResolver) ResolveSpin(coins int) domain.SpinOutcome {
	args := m.Called(coins)
	return args.Get(0).(domain.SpinOutcome)
}

// Test fixtures
func losingSpin() domain.SpinOutcome {
	return domain.SpinOutcome{Summary: "No matches."}
}

func winningSpin(gain int) domain.SpinOutcome {
	return domain.SpinOutcome{
		Gain:       gain,
		Multiplier: float64(gain),
		Summary:    "Won",
	}
}

func penaltySpin(loss int) domain.SpinOutcome {
	return domain.SpinOutcome{
		Loss:    loss,
		Penalty: true,
		Summary: "No matches. | Penalty!",
	}
}
