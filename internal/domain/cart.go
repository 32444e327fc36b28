package domain

// ItemTypeResource is the only purchasable item type today. The field is
// kept open so bundles or workshops can join later without a schema change.
const ItemTypeResource = "resource"

// CartItem is the unified line-item shape seen by every layer, whether the
// line lives in the guest store or in the remote cart. Price is the decimal
// string captured at add time; it is never re-fetched.
type CartItem struct {
	ID       int64   `json:"id"`
	Type     string  `json:"type"`
	ItemID   int64   `json:"itemId"`
	Title    string  `json:"title"`
	Price    string  `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL *string `json:"imageUrl"`
}

// SameLine reports whether two items refer to the same purchasable entity.
// Lines with equal (ItemID, Type) are merged, never duplicated.
func (i CartItem) SameLine(other CartItem) bool {
	return i.ItemID == other.ItemID && i.Type == other.Type
}
