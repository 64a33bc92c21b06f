package domain

// OrderItem.Quantity is the amount reserved from its phone's stock. Items are
// created, edited and deleted only through the inventory ledger so the phone
// quantity stays consistent.
type OrderItem struct {
	ID       uint
	OrderID  uint
	PhoneID  uint
	Quantity int
	Phone    *Phone
}
