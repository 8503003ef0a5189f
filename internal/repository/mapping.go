package repository

import (
	"fmt"

	"github.com/nikolayk812/foodcart/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

func mapMoney(amount decimal.Decimal, isoCode string) (domain.Money, error) {
	parsedCurrency, err := currency.ParseISO(isoCode)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", isoCode, err)
	}

	return domain.Money{Amount: amount, Currency: parsedCurrency}, nil
}
