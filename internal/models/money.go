package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultCurrency = "€"

// Decimal wraps shopspring's decimal so amounts keep exact arithmetic in Go,
// render as quoted strings in JSON and round-trip as Decimal128 in MongoDB.
type Decimal struct {
	decimal.Decimal
}

func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d}
}

func DecimalFromString(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}

	return Decimal{Decimal: d}, nil
}

// MustDecimal panics on a malformed literal. Intended for constants and tests.
func MustDecimal(s string) Decimal {
	return Decimal{Decimal: decimal.RequireFromString(s)}
}

func (d Decimal) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return 0, nil, fmt.Errorf("decimal %q does not fit Decimal128: %w", d.String(), err)
	}

	return bson.MarshalValue(d128)
}

func (d *Decimal) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Decimal128:
		d128, ok := raw.Decimal128OK()
		if !ok {
			return fmt.Errorf("malformed Decimal128 value")
		}

		parsed, err := decimal.NewFromString(d128.String())
		if err != nil {
			return fmt.Errorf("stored Decimal128 %q is not a valid decimal: %w", d128.String(), err)
		}

		d.Decimal = parsed

		return nil
	case bsontype.String:
		s, ok := raw.StringValueOK()
		if !ok {
			return fmt.Errorf("malformed string value")
		}

		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("stored string %q is not a valid decimal: %w", s, err)
		}

		d.Decimal = parsed

		return nil
	case bsontype.Double:
		f, ok := raw.DoubleOK()
		if !ok {
			return fmt.Errorf("malformed double value")
		}

		d.Decimal = decimal.NewFromFloat(f)

		return nil
	case bsontype.Int32:
		i, ok := raw.Int32OK()
		if !ok {
			return fmt.Errorf("malformed int32 value")
		}

		d.Decimal = decimal.NewFromInt32(i)

		return nil
	case bsontype.Int64:
		i, ok := raw.Int64OK()
		if !ok {
			return fmt.Errorf("malformed int64 value")
		}

		d.Decimal = decimal.NewFromInt(i)

		return nil
	default:
		return fmt.Errorf("cannot decode BSON type %s into a decimal", t)
	}
}

// Money is an amount tagged with a currency symbol. Amounts are stored as
// Decimal128 so cart and order totals never accumulate float drift.
type Money struct {
	Amount   Decimal `json:"amount" bson:"amount"`
	Currency string  `json:"currency" bson:"currency" validate:"required,oneof=€ £ $"`
}

func NewMoney(amount Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}

	return Money{Amount: amount, Currency: currency}
}

func ZeroMoney(currency string) Money {
	return NewMoney(NewDecimal(decimal.Zero), currency)
}

// MulQuantity returns the line total for q units at this unit price.
func (m Money) MulQuantity(q int) Money {
	return Money{
		Amount:   NewDecimal(m.Amount.Mul(decimal.NewFromInt(int64(q)))),
		Currency: m.Currency,
	}
}

// Add keeps the receiver's currency; the store holds a single currency per
// catalog, so mixed-currency carts do not occur in practice.
func (m Money) Add(other Money) Money {
	return Money{
		Amount:   NewDecimal(m.Amount.Add(other.Amount.Decimal)),
		Currency: m.Currency,
	}
}

func (m Money) IsPositive() bool {
	return m.Amount.Decimal.IsPositive()
}

func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Decimal.Equal(other.Amount.Decimal)
}

func (m Money) String() string {
	return m.Currency + m.Amount.String()
}

// Volume describes bottle size or alcohol strength of a beverage.
type Volume struct {
	Amount Decimal `json:"amount" bson:"amount"`
	Unit   string  `json:"unit" bson:"unit" validate:"omitempty,oneof=ml cl dl l %"`
}
