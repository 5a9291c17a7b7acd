package stockbook

import "fmt"

// Orders is the controller of the limit order list.
//
// It is either idle or editing one order. Every successful mutation rewrites
// the limitOrders key.
type Orders struct {
	list list[LimitOrder]
	form OrderForm
}

// NewOrders loads the order list from 's'.
func NewOrders(s Store) *Orders {
	return &Orders{list: newList[LimitOrder](s, LimitOrdersKey)}
}

// Reload reads the list again from the store, and returns to idle.
func (o *Orders) Reload() {
	o.list.load()
	o.form = OrderForm{}
}

// Items returns a copy of the orders, most recent first.
func (o *Orders) Items() []LimitOrder { return o.list.all() }

// Get returns the order 'id'.
func (o *Orders) Get(id string) (LimitOrder, bool) { return o.list.find(id) }

// Form returns the current content of the order form.
func (o *Orders) Form() OrderForm { return o.form }

// SetForm replaces the content of the order form.
func (o *Orders) SetForm(f OrderForm) { o.form = f }

// Editing returns the id of the order being edited, if any.
func (o *Orders) Editing() (string, bool) { return o.list.editing, o.list.editing != "" }

// Create validates 'f' and prepends a new order with a fresh id.
//
// On a validation error nothing changes and the form keeps 'f'.
func (o *Orders) Create(f OrderForm) (LimitOrder, error) {
	if o.list.editing != "" {
		return LimitOrder{}, fmt.Errorf("cannot create an order: %w", ErrEditing)
	}
	o.form = f
	order, err := f.Validate(newID())
	if err != nil {
		return LimitOrder{}, err
	}
	if err := o.list.prepend(order); err != nil {
		return LimitOrder{}, err
	}
	o.form = OrderForm{}
	return order, nil
}

// BeginEdit starts editing the order 'id' and fills the form with its values.
// It reports false if there is no such order.
func (o *Orders) BeginEdit(id string) bool {
	order, ok := o.list.find(id)
	if !ok {
		return false
	}
	o.list.editing = id
	o.form = orderForm(order)
	return true
}

// CancelEdit discards the form and returns to idle.
func (o *Orders) CancelEdit() {
	o.list.editing = ""
	o.form = OrderForm{}
}

// Update replaces the fields of the order being edited with 'f', keeping its id and position.
func (o *Orders) Update(id string, f OrderForm) (LimitOrder, error) {
	if !o.list.isEditing(id) {
		return LimitOrder{}, fmt.Errorf("cannot update order %q: %w", id, ErrNotEditing)
	}
	o.form = f
	order, err := f.Validate(id)
	if err != nil {
		return LimitOrder{}, err
	}
	i := o.list.index(id)
	if i < 0 {
		return LimitOrder{}, fmt.Errorf("cannot update order %q: %w", id, ErrNotFound)
	}
	if err := o.list.replace(i, order); err != nil {
		return LimitOrder{}, err
	}
	o.CancelEdit()
	return order, nil
}

// Submit submits the current form: it updates the edited order, or creates a new one.
func (o *Orders) Submit() (LimitOrder, error) {
	if id, ok := o.Editing(); ok {
		return o.Update(id, o.form)
	}
	return o.Create(o.form)
}

// Delete removes the order 'id', in any state. It reports false if there is no such order.
func (o *Orders) Delete(id string) (bool, error) {
	wasEditing := o.list.isEditing(id)
	ok, err := o.list.remove(id)
	if ok && wasEditing {
		o.form = OrderForm{}
	}
	return ok, err
}

// Buys returns the Buy orders.
func (o *Orders) Buys() []LimitOrder { return FilterSide(o.list.items, Buy) }

// Sells returns the Sell orders.
func (o *Orders) Sells() []LimitOrder { return FilterSide(o.list.items, Sell) }

// TotalInvestment returns the sum of limit price times quantity over the Buy orders.
func (o *Orders) TotalInvestment() Price { return TotalInvestment(o.list.items) }

// FilterSide returns the orders of the given side, in order.
func FilterSide(orders []LimitOrder, side Side) []LimitOrder {
	res := []LimitOrder{}
	for _, o := range orders {
		if o.Side == side {
			res = append(res, o)
		}
	}
	return res
}

// TotalInvestment returns the sum of limit price times quantity over the Buy orders.
func TotalInvestment(orders []LimitOrder) Price { return Total(FilterSide(orders, Buy)) }

// Total returns the sum of limit price times quantity over all 'orders'.
func Total(orders []LimitOrder) Price {
	var total Price
	for _, o := range orders {
		total = total.Add(o.Amount())
	}
	return total
}
