package query

import (
	"net/url"
	"strings"
)

// Resource names of cached reads.
const (
	ResourceProducts       = "products"
	ResourceProduct        = "product"
	ResourceCategories     = "categories"
	ResourcePublicSettings = "public-settings"
	ResourcePublicOrder    = "public-order"
	ResourceAdminOrders    = "admin-orders"
	ResourceAdminOrder     = "admin-order"
	ResourceAdminProducts  = "admin-products"
	ResourceAdminProduct   = "admin-product"
	ResourceAdminSettings  = "admin-settings"
	ResourceDashboard      = "dashboard-stats"
	ResourceOrderStats     = "order-stats"
	ResourceTopProducts    = "top-products"
)

// Key identifies a cached read: a resource, an optional id and the filter
// parameters in effect. Two keys with different params are distinct entries.
type Key struct {
	Resource string
	ID       string
	Params   url.Values
}

// List builds a list key. Empty parameter values are dropped so that an
// unset filter and a missing filter share an entry.
func List(resource string, params map[string]string) Key {
	k := Key{Resource: resource}
	for name, value := range params {
		if value == "" {
			continue
		}
		if k.Params == nil {
			k.Params = url.Values{}
		}
		k.Params.Set(name, value)
	}
	return k
}

// One builds a single-resource key.
func One(resource, id string) Key {
	return Key{Resource: resource, ID: id}
}

// All matches every key of resource regardless of id or params.
func All(resource string) Key {
	return Key{Resource: resource}
}

// String renders the key as resource[/id][?params] with params sorted.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(k.Resource)
	if k.ID != "" {
		b.WriteByte('/')
		b.WriteString(k.ID)
	}
	if len(k.Params) > 0 {
		b.WriteByte('?')
		b.WriteString(k.Params.Encode())
	}
	return b.String()
}

// Matches reports whether k, used as a filter, selects other. An empty ID or
// param set in k matches anything.
func (k Key) Matches(other Key) bool {
	if k.Resource != other.Resource {
		return false
	}
	if k.ID != "" && k.ID != other.ID {
		return false
	}
	for name, values := range k.Params {
		if other.Params.Get(name) != strings.Join(values, ",") {
			return false
		}
	}
	return true
}

// OrderKeys are invalidated by any change to order id.
func OrderKeys(id string) []Key {
	return []Key{One(ResourceAdminOrder, id), All(ResourceAdminOrders)}
}

// AnalyticsKeys are the dashboard reads derived from orders.
func AnalyticsKeys() []Key {
	return []Key{All(ResourceDashboard), All(ResourceOrderStats), All(ResourceTopProducts)}
}

// OrderCreatedKeys are invalidated when a new order is placed: every admin
// order list and the analytics built from them.
func OrderCreatedKeys() []Key {
	return append([]Key{All(ResourceAdminOrders)}, AnalyticsKeys()...)
}

// OrderChangedKeys are invalidated by an update or delete of order id: the
// order itself, every order list and the analytics.
func OrderChangedKeys(id string) []Key {
	return append(OrderKeys(id), AnalyticsKeys()...)
}

// ProductKeys are invalidated by any change to product id.
func ProductKeys(id string) []Key {
	keys := []Key{All(ResourceAdminProducts), All(ResourceProducts)}
	if id != "" {
		keys = append(keys, One(ResourceAdminProduct, id), One(ResourceProduct, id))
	}
	return keys
}

// SettingsKeys are invalidated by a settings save.
func SettingsKeys() []Key {
	return []Key{All(ResourceAdminSettings), All(ResourcePublicSettings)}
}
