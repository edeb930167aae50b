package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nikolayk812/storefront-demo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"golang.org/x/text/currency"
)

var (
	errUnparseable = errors.New("cart payload is not valid JSON")

	validate = validator.New(validator.WithRequiredStructEnabled())
)

// persistedLineItem is the slot layout: [{id, name, price, image, quantity}, ...]
type persistedLineItem struct {
	ID       int64       `json:"id" validate:"gt=0"`
	Name     string      `json:"name" validate:"required"`
	Price    json.Number `json:"price" validate:"required"`
	Image    string      `json:"image" validate:"required"`
	Quantity int         `json:"quantity" validate:"gte=1"`
}

func toPersisted(item domain.LineItem) persistedLineItem {
	return persistedLineItem{
		ID:       item.ProductID,
		Name:     item.Name,
		Price:    json.Number(item.Price.Amount.String()),
		Image:    item.Image,
		Quantity: item.Quantity,
	}
}

func encodeItems(items []domain.LineItem) ([]byte, error) {
	out := make([]persistedLineItem, 0, len(items))
	for _, item := range items {
		out = append(out, toPersisted(item))
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return payload, nil
}

// decodeItems returns errUnparseable for broken JSON and an error wrapping
// domain.ErrInvalidCart for JSON that breaks the cart invariant.
func decodeItems(payload []byte, unit currency.Unit) ([]domain.LineItem, error) {
	if !gjson.ValidBytes(payload) {
		return nil, errUnparseable
	}

	root := gjson.ParseBytes(payload)
	if !root.IsArray() {
		return nil, fmt.Errorf("payload is not an array: %w", domain.ErrInvalidCart)
	}

	var (
		items     []domain.LineItem
		decodeErr error
	)
	root.ForEach(func(_, value gjson.Result) bool {
		item, err := decodeItem(value, unit)
		if err != nil {
			decodeErr = fmt.Errorf("item[%d]: %w", len(items), err)
			return false
		}
		items = append(items, item)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	if err := validateItems(items, unit); err != nil {
		return nil, fmt.Errorf("validateItems: %w", err)
	}

	return items, nil
}

func decodeItem(value gjson.Result, unit currency.Unit) (domain.LineItem, error) {
	if !value.IsObject() {
		return domain.LineItem{}, fmt.Errorf("not an object: %w", domain.ErrInvalidCart)
	}

	id, err := integerField(value, "id")
	if err != nil {
		return domain.LineItem{}, err
	}

	quantity, err := integerField(value, "quantity")
	if err != nil {
		return domain.LineItem{}, err
	}

	name, err := stringField(value, "name")
	if err != nil {
		return domain.LineItem{}, err
	}

	image, err := stringField(value, "image")
	if err != nil {
		return domain.LineItem{}, err
	}

	price, err := priceField(value.Get("price"))
	if err != nil {
		return domain.LineItem{}, err
	}

	return domain.LineItem{
		ProductID: id,
		Name:      name,
		Price:     domain.Money{Amount: price, Currency: unit},
		Image:     image,
		Quantity:  int(quantity),
	}, nil
}

func integerField(value gjson.Result, key string) (int64, error) {
	field := value.Get(key)
	if field.Type != gjson.Number || field.Num != math.Trunc(field.Num) {
		return 0, fmt.Errorf("%s is not an integer: %w", key, domain.ErrInvalidCart)
	}
	return field.Int(), nil
}

func stringField(value gjson.Result, key string) (string, error) {
	field := value.Get(key)
	if field.Type != gjson.String {
		return "", fmt.Errorf("%s is not a string: %w", key, domain.ErrInvalidCart)
	}
	return field.Str, nil
}

// priceField accepts a JSON number or a numeric string.
func priceField(field gjson.Result) (decimal.Decimal, error) {
	var raw string
	switch field.Type {
	case gjson.Number:
		raw = field.Raw
	case gjson.String:
		raw = strings.TrimSpace(field.Str)
	default:
		return decimal.Zero, fmt.Errorf("price is not numeric: %w", domain.ErrInvalidCart)
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q is not numeric: %w", raw, domain.ErrInvalidCart)
	}

	return price, nil
}

func validateItems(items []domain.LineItem, unit currency.Unit) error {
	seen := make(map[int64]struct{}, len(items))

	for i, item := range items {
		if err := validate.Struct(toPersisted(item)); err != nil {
			return fmt.Errorf("item[%d] %v: %w", i, err, domain.ErrInvalidCart)
		}
		if item.Price.Amount.IsNegative() {
			return fmt.Errorf("item[%d] price is negative: %w", i, domain.ErrInvalidCart)
		}
		if item.Price.Currency != unit {
			return fmt.Errorf("item[%d] currency[%s] differs from %s: %w", i, item.Price.Currency, unit, domain.ErrInvalidCart)
		}
		if _, dup := seen[item.ProductID]; dup {
			return fmt.Errorf("item[%d] duplicate product[%d]: %w", i, item.ProductID, domain.ErrInvalidCart)
		}
		seen[item.ProductID] = struct{}{}
	}

	return nil
}
