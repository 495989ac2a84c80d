package store

// Kind names a collection in the record store.
type Kind string

const (
	KindUsers    Kind = "users"
	KindProducts Kind = "products"
	KindOrders   Kind = "orders"
	KindCart     Kind = "cart"
)

// Key addresses one collection. Owner is empty for shared collections and holds the
// user id for per-user collections such as carts.
type Key struct {
	Kind  Kind
	Owner string
}

func UsersKey() Key    { return Key{Kind: KindUsers} }
func ProductsKey() Key { return Key{Kind: KindProducts} }
func OrdersKey() Key   { return Key{Kind: KindOrders} }

// CartKey addresses the cart owned by userID.
func CartKey(userID string) Key {
	return Key{Kind: KindCart, Owner: userID}
}

func (k Key) String() string {
	if k.Owner == "" {
		return string(k.Kind)
	}
	return string(k.Kind) + "/" + k.Owner
}
