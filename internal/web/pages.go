package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/nikolayk812/storefront-demo/internal/cart"
	"github.com/nikolayk812/storefront-demo/internal/domain"
	"github.com/nikolayk812/storefront-demo/internal/logger"
	"github.com/nikolayk812/storefront-demo/internal/port"
)

// StoreFactory builds the cart store for one page load.
type StoreFactory func(slot string) (*cart.Store, error)

type pages struct {
	logg      *logger.Logger
	catalog   port.Catalog
	stores    StoreFactory
	baseSlot  string
	templates map[Page]*template.Template
}

// pageLoad is the state of a single request: its store and the latest
// snapshot the store published.
type pageLoad struct {
	store    *cart.Store
	snapshot cart.Snapshot
	flash    string
}

func newPages(logg *logger.Logger, catalog port.Catalog, stores StoreFactory, baseSlot string) (*pages, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &pages{
		logg:      logg,
		catalog:   catalog,
		stores:    stores,
		baseSlot:  baseSlot,
		templates: templates,
	}, nil
}

func (p *pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	load, err := p.load(r.Context())
	if err != nil {
		p.fail(w, r, "page.load", err)
		return
	}

	unsubscribe := load.store.Subscribe(func(s cart.Snapshot) {
		load.snapshot = s
		p.logg.Debug(p.logg.WithField(r.Context(), "item_count", s.Summary.ItemCount), "cart.changed")
	})
	defer unsubscribe()

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "malformed form", http.StatusBadRequest)
			return
		}
	}

	switch PageFor(r.URL.Path) {
	case PageProduct:
		p.product(w, r, load)
	case PageCart:
		p.cart(w, r, load)
	case PageCheckout:
		p.checkout(w, r, load)
	default:
		p.grid(w, r, load)
	}
}

func (p *pages) load(ctx context.Context) (*pageLoad, error) {
	slot := p.baseSlot
	if id, ok := SessionIDFrom(ctx); ok {
		slot = SlotFor(p.baseSlot, id)
	}

	store, err := p.stores(slot)
	if err != nil {
		return nil, fmt.Errorf("stores: %w", err)
	}

	// an unreadable slot still renders, with an empty cart
	if err := store.Restore(ctx); err != nil {
		p.logg.Warn(ctx, "page.restore_failed", err)
	}

	return &pageLoad{store: store, snapshot: store.Snapshot()}, nil
}

func (p *pages) grid(w http.ResponseWriter, r *http.Request, load *pageLoad) {
	data := newPageData("Shop", load.snapshot)
	for _, product := range p.catalog.Products() {
		data.Products = append(data.Products, newProductView(product))
	}

	p.render(w, r, PageGrid, http.StatusOK, data)
}

func (p *pages) product(w http.ResponseWriter, r *http.Request, load *pageLoad) {
	product, found := p.lookupProduct(r.URL.Query().Get("id"))
	if !found {
		data := newPageData("Product not found", load.snapshot)
		p.render(w, r, PageProduct, http.StatusNotFound, data)
		return
	}

	if r.Method == http.MethodPost {
		quantity := cart.ParseQuantity(r.PostFormValue("quantity"))
		if err := load.store.Add(r.Context(), product.ID, quantity); err != nil {
			p.fail(w, r, "cart.add", err)
			return
		}
		http.Redirect(w, r, fmt.Sprintf("/product.html?id=%d&added=1", product.ID), http.StatusSeeOther)
		return
	}

	data := newPageData(product.Name, load.snapshot)
	view := newProductView(product)
	data.Product = &view
	if r.URL.Query().Get("added") == "1" {
		data.Flash = "Added to cart!"
	}

	p.render(w, r, PageProduct, http.StatusOK, data)
}

func (p *pages) lookupProduct(raw string) (domain.Product, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return domain.Product{}, false
	}
	return p.catalog.Product(id)
}

func (p *pages) cart(w http.ResponseWriter, r *http.Request, load *pageLoad) {
	if r.Method == http.MethodPost {
		done, err := p.cartAction(r, load)
		if err != nil {
			p.fail(w, r, "cart.action", err)
			return
		}
		if done {
			http.Redirect(w, r, "/cart.html", http.StatusSeeOther)
			return
		}
	}

	data := newPageData("Cart", load.snapshot)
	data.Flash = load.flash

	p.render(w, r, PageCart, http.StatusOK, data)
}

// cartAction applies the posted action. It reports true when the page should
// redirect; coupon results render in place because the discount only lives
// for this page load.
func (p *pages) cartAction(r *http.Request, load *pageLoad) (bool, error) {
	ctx := r.Context()
	store := load.store
	id, _ := strconv.ParseInt(r.PostFormValue("id"), 10, 64)

	switch r.PostFormValue("action") {
	case "inc":
		return true, store.Increment(ctx, id)
	case "dec":
		return true, store.Decrement(ctx, id)
	case "set":
		return true, store.SetQuantity(ctx, id, cart.ParseQuantity(r.PostFormValue("quantity")))
	case "remove":
		return true, store.Remove(ctx, id)
	case "coupon":
		coupon, err := store.ApplyCoupon(ctx, r.PostFormValue("code"))
		switch {
		case errors.Is(err, domain.ErrEmptyCouponInput):
			load.flash = "Please enter a coupon code"
		case errors.Is(err, domain.ErrInvalidCoupon):
			load.flash = "Invalid coupon code"
		case err != nil:
			return false, err
		default:
			load.flash = fmt.Sprintf("%s%% discount applied!", coupon.Percent.String())
		}
		return false, nil
	default:
		return true, nil
	}
}

func (p *pages) checkout(w http.ResponseWriter, r *http.Request, load *pageLoad) {
	data := newPageData("Checkout", load.snapshot)

	if r.Method == http.MethodPost {
		notice, err := load.store.ConfirmOrder()
		if errors.Is(err, domain.ErrEmptyCart) {
			data.Flash = "Your cart is empty."
		} else {
			data.Flash = notice
		}
	}

	p.render(w, r, PageCheckout, http.StatusOK, data)
}

func (p *pages) render(w http.ResponseWriter, r *http.Request, page Page, status int, data pageData) {
	var buf bytes.Buffer
	if err := p.templates[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		p.fail(w, r, "page.render", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (p *pages) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	p.logg.Error(r.Context(), msg, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
