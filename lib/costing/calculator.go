package costing

import "math"

// Cost - чистый расчет стоимости времени: минуты переводятся в часы
// и умножаются на ставку. Без округления, чтобы не копить ошибку
// при промежуточных агрегациях.
func Cost(minutes int, ratePerHour float64) float64 {
	return float64(minutes) / 60.0 * ratePerHour
}

// RoundMoney - округление до копеек, применяется только в точке записи
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
