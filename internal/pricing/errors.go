package pricing

import "errors"

var (
	// ErrWrongResourceType возвращается при расчете цены не для того типа ресурса
	ErrWrongResourceType = errors.New("pricing: wrong resource type for this calculation")

	// ErrInvalidInterval возвращается при некорректном интервале бронирования
	ErrInvalidInterval = errors.New("pricing: invalid booking interval")

	// ErrInvalidQuantity возвращается при некорректном количестве
	ErrInvalidQuantity = errors.New("pricing: quantity must be positive")
)
