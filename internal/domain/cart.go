package domain

import (
	"golang.org/x/text/currency"
)

type Product struct {
	ID          int64
	Name        string
	Price       Money
	Image       string
	Description string
}

type Cart struct {
	Items []LineItem
}

// LineItem copies name, price and image from the product when it is added,
// later catalog changes do not reach it.
type LineItem struct {
	ProductID int64
	Name      string
	Price     Money
	Image     string
	Quantity  int
}

func NewLineItem(p Product, quantity int) LineItem {
	return LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  quantity,
	}
}

func (li LineItem) Total() Money {
	return li.Price.Mul(li.Quantity)
}

func (c Cart) Find(productID int64) (int, bool) {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i, true
		}
	}
	return -1, false
}

func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{}
	}
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c Cart) Subtotal(unit currency.Unit) Money {
	sum := ZeroMoney(unit)
	for _, item := range c.Items {
		sum = sum.Add(item.Total())
	}
	return sum
}

// Summary is the order breakdown shown on the cart and checkout pages.
type Summary struct {
	ItemCount int
	Subtotal  Money
	Shipping  Money
	Discount  Money
	Total     Money
}

func (s Summary) FreeShipping() bool {
	return s.Shipping.IsZero()
}
