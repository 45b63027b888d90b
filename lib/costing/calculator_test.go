package costing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCost(t *testing.T) {
	t.Run(`полные часы`, func(t *testing.T) {
		require.InDelta(t, 30.0, Cost(90, 20), 1e-9)
		require.InDelta(t, 75.0, Cost(45, 100), 1e-9)
	})

	t.Run(`нулевые значения`, func(t *testing.T) {
		require.InDelta(t, 0.0, Cost(0, 20), 1e-9)
		require.InDelta(t, 0.0, Cost(90, 0), 1e-9)
	})

	t.Run(`без округления промежуточных значений`, func(t *testing.T) {
		// 1 минута по ставке 1 в час, при агрегации ошибка не копится
		sum := 0.0
		for idx := 0; idx < 60; idx++ {
			sum += Cost(1, 1)
		}
		require.InDelta(t, 1.0, sum, 1e-9)
	})
}

func TestRoundMoney(t *testing.T) {
	require.InDelta(t, 3.14, RoundMoney(3.14159), 1e-9)
	require.InDelta(t, 2.72, RoundMoney(2.718), 1e-9)
	require.InDelta(t, 10.0, RoundMoney(10.0), 1e-9)
	require.InDelta(t, 0.67, RoundMoney(Cost(2, 20)), 1e-9)
}
