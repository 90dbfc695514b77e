package pricing

import (
	"math"
	"time"

	"github.com/cercle-asbl/ASBL-BookingService/internal/domain"
)

// Детерминированный расчет цены бронирования
// Расчет не читает изменяемого состояния: одинаковые входные данные
// всегда дают одинаковый результат. Это обязательное свойство —
// той же функцией котируется цена клиенту и валидируется заявленная
// клиентом цена перед списанием

// priceTolerance допуск сравнения цен (полцента)
// Заявленная цена приходит из JSON через float64
const priceTolerance = 0.005

// ForSpace возвращает цену бронирования пространства на интервал [start, end)
// При почасовой тарификации цена = basePrice за каждый начатый час,
// минимум один час; иначе фиксированная basePrice за бронирование
func ForSpace(resource *domain.Resource, start, end time.Time) (float64, error) {
	if resource.Type != domain.ResourceSpace {
		return 0, ErrWrongResourceType
	}
	if !end.After(start) {
		return 0, ErrInvalidInterval
	}

	if !resource.HourlyPricing {
		return resource.Price, nil
	}

	hours := int(math.Ceil(end.Sub(start).Hours()))
	if hours < 1 {
		hours = 1
	}
	return resource.Price * float64(hours), nil
}

// PerUnit возвращает цену регистрации на событие или сессию гардери:
// цена за единицу, умноженная на количество участников/детей
func PerUnit(resource *domain.Resource, quantity int) (float64, error) {
	if !resource.IsCapacityLimited() {
		return 0, ErrWrongResourceType
	}
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	return resource.Price * float64(quantity), nil
}

// Matches сравнивает заявленную клиентом цену с рассчитанной
func Matches(declared, computed float64) bool {
	return math.Abs(declared-computed) <= priceTolerance
}
