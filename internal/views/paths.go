package views

import "mensa/internal/core"

// Session names never build filenames directly; every session resolves
// through this table to fixed storage keys.
var sessionFiles = map[core.Session]struct {
	kitchen string
	packing string
}{
	core.SessionBreakfast: {kitchen: "kitchen_breakfast.csv", packing: "packing_breakfast.csv"},
	core.SessionLunch:     {kitchen: "kitchen_lunch.csv", packing: "packing_lunch.csv"},
	core.SessionDinner:    {kitchen: "kitchen_dinner.csv", packing: "packing_dinner.csv"},
}

const billingFile = "billing.csv"

var (
	kitchenHeader = []string{"Item", "Quantity"}
	packingHeader = []string{"Location", "Name", "Customer ID", "Order"}
	billingHeader = []string{"Customer ID", "Name", "Date", "Item", "Price", "Monthly Total"}
)
