package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/WappTienda/frontend/internal/storefront/orderstatus"
)

func init() {
	// The REST API exchanges money as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is the catalog entry owned by the API. The client never mutates it.
type Product struct {
	ID             string              `json:"id"`
	SKU            string              `json:"sku"`
	Name           string              `json:"name"`
	Description    *string             `json:"description"`
	Price          decimal.Decimal     `json:"price"`
	SalePrice      decimal.NullDecimal `json:"salePrice"`
	ImageURL       *string             `json:"imageUrl"`
	CategoryID     *string             `json:"categoryId"`
	Category       *Category           `json:"category,omitempty"`
	StockQuantity  int                 `json:"stockQuantity"`
	TrackInventory bool                `json:"trackInventory"`
	IsVisible      bool                `json:"isVisible"`
	IsActive       bool                `json:"isActive"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
	DeletedAt      *time.Time          `json:"deletedAt"`
}

// EffectivePrice is the sale price when one is set, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice.Valid {
		return p.SalePrice.Decimal
	}
	return p.Price
}

// OnSale reports whether a sale price is set.
func (p Product) OnSale() bool {
	return p.SalePrice.Valid
}

// Deleted reports whether the product carries the soft-delete marker.
func (p Product) Deleted() bool {
	return p.DeletedAt != nil
}

// Category groups products in the catalog.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Order       int       `json:"order"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CartItem pairs a product snapshot taken when it was added with a quantity >= 1.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is the effective unit price times the quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Customer is the buyer record attached to admin orders.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   *string   `json:"address"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrderItem is a line of an admin order. Prices are captured at creation time.
type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"orderId"`
	ProductID   *string         `json:"productId"`
	ProductName string          `json:"productName"`
	ProductSKU  string          `json:"productSku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Order is the full admin view of an order.
type Order struct {
	ID           string             `json:"id"`
	PublicID     string             `json:"publicId"`
	CustomerID   *string            `json:"customerId"`
	Customer     *Customer          `json:"customer"`
	Status       orderstatus.Status `json:"status"`
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
	CustomerNote *string            `json:"customerNote"`
	AdminNote    *string            `json:"adminNote"`
	Items        []OrderItem        `json:"items"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// Consistent reports whether every subtotal equals unit price times quantity and
// the total equals the sum of subtotals.
func (o Order) Consistent() bool {
	sum := decimal.Zero
	for _, item := range o.Items {
		if !item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Equal(item.Subtotal) {
			return false
		}
		sum = sum.Add(item.Subtotal)
	}
	return sum.Equal(o.TotalAmount)
}

// OrderSummaryItem is a line of the public order summary.
type OrderSummaryItem struct {
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SummaryCustomer is the customer block of a public order summary.
type SummaryCustomer struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Address *string `json:"address"`
}

// OrderSummary is the public, customer-facing view of an order.
type OrderSummary struct {
	OrderID      string             `json:"orderId"`
	Status       orderstatus.Status `json:"status"`
	Customer     *SummaryCustomer   `json:"customer"`
	Items        []OrderSummaryItem `json:"items"`
	TotalAmount  decimal.Decimal    `json:"totalAmount"`
	CustomerNote *string            `json:"customerNote"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// Consistent applies the same total invariant as Order.Consistent.
func (o OrderSummary) Consistent() bool {
	sum := decimal.Zero
	for _, item := range o.Items {
		if !item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Equal(item.Subtotal) {
			return false
		}
		sum = sum.Add(item.Subtotal)
	}
	return sum.Equal(o.TotalAmount)
}

// PublicOrder is returned by order creation and the public order lookup.
type PublicOrder struct {
	Order        OrderSummary `json:"order"`
	WhatsAppLink *string      `json:"whatsappLink"`
}

// UserRole enumerates staff roles. Only admins exist today.
type UserRole string

// RoleAdmin is the only staff role.
const RoleAdmin UserRole = "ADMIN"

// User is the authenticated staff member.
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     *string  `json:"name"`
	Role     UserRole `json:"role"`
	IsActive *bool    `json:"isActive,omitempty"`
}

// AuthResponse is the payload of a successful login.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// PaginationMeta describes a page of results.
type PaginationMeta struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Page is a paginated list response.
type Page[T any] struct {
	Data []T           `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// ProductQuery filters product listings.
type ProductQuery struct {
	Page        int
	Limit       int
	CategoryID  string
	Search      string
	OnlyInStock bool
}

// OrderQuery filters admin order listings. An empty Status means every status.
type OrderQuery struct {
	Page   int
	Limit  int
	Status orderstatus.Status
	Search string
}

// OrderLine is a product reference submitted with a new order.
type OrderLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrder is the public order submission payload.
type CreateOrder struct {
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `json:"customerPhone"`
	CustomerAddress string      `json:"customerAddress,omitempty"`
	CustomerNote    string      `json:"customerNote,omitempty"`
	Items           []OrderLine `json:"items"`
}

// UpdateOrder is the admin patch payload for an order.
type UpdateOrder struct {
	Status    *orderstatus.Status `json:"status,omitempty"`
	AdminNote *string             `json:"adminNote,omitempty"`
}

// CreateProduct is the admin payload for a new product.
type CreateProduct struct {
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	Price          decimal.Decimal  `json:"price"`
	SalePrice      *decimal.Decimal `json:"salePrice,omitempty"`
	ImageURL       string           `json:"imageUrl,omitempty"`
	CategoryID     string           `json:"categoryId,omitempty"`
	StockQuantity  *int             `json:"stockQuantity,omitempty"`
	TrackInventory *bool            `json:"trackInventory,omitempty"`
	IsVisible      *bool            `json:"isVisible,omitempty"`
	IsActive       *bool            `json:"isActive,omitempty"`
}

// UpdateProduct is the admin patch payload for a product.
type UpdateProduct struct {
	Name           *string          `json:"name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	SalePrice      *decimal.Decimal `json:"salePrice,omitempty"`
	ImageURL       *string          `json:"imageUrl,omitempty"`
	CategoryID     *string          `json:"categoryId,omitempty"`
	StockQuantity  *int             `json:"stockQuantity,omitempty"`
	TrackInventory *bool            `json:"trackInventory,omitempty"`
	IsVisible      *bool            `json:"isVisible,omitempty"`
	IsActive       *bool            `json:"isActive,omitempty"`
}

// DashboardStats aggregates the admin dashboard counters.
type DashboardStats struct {
	Orders struct {
		Total     int `json:"total"`
		Pending   int `json:"pending"`
		Confirmed int `json:"confirmed"`
		Delivered int `json:"delivered"`
		Cancelled int `json:"cancelled"`
	} `json:"orders"`
	Revenue struct {
		Total     decimal.Decimal `json:"total"`
		Today     decimal.Decimal `json:"today"`
		ThisWeek  decimal.Decimal `json:"thisWeek"`
		ThisMonth decimal.Decimal `json:"thisMonth"`
	} `json:"revenue"`
	Products struct {
		Total      int `json:"total"`
		Visible    int `json:"visible"`
		OutOfStock int `json:"outOfStock"`
	} `json:"products"`
	Customers struct {
		Total int `json:"total"`
	} `json:"customers"`
}

// DailyOrders is a point of the orders-over-time chart.
type DailyOrders struct {
	Date    string          `json:"date"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// OrderStats breaks orders down by status and by day.
type OrderStats struct {
	ByStatus map[orderstatus.Status]int `json:"byStatus"`
	ByDate   []DailyOrders              `json:"byDate"`
}

// TopProduct is a best-seller entry.
type TopProduct struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// Setting is a key/value site setting.
type Setting struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Value       *string   `json:"value"`
	Description *string   `json:"description"`
	IsPublic    bool      `json:"isPublic"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SettingUpdate sets one setting value.
type SettingUpdate struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// SettingGroups partitions settings the way the settings screen shows them.
type SettingGroups struct {
	General  []Setting `json:"general"`
	WhatsApp []Setting `json:"whatsapp"`
	System   []Setting `json:"system"`
}

// GroupSettings splits settings by key prefix: whatsapp_ keys, store_/site_ keys, everything else.
func GroupSettings(settings []Setting) SettingGroups {
	groups := SettingGroups{
		General:  []Setting{},
		WhatsApp: []Setting{},
		System:   []Setting{},
	}
	for _, s := range settings {
		switch {
		case strings.HasPrefix(s.Key, "whatsapp_"):
			groups.WhatsApp = append(groups.WhatsApp, s)
		case strings.HasPrefix(s.Key, "store_"), strings.HasPrefix(s.Key, "site_"):
			groups.General = append(groups.General, s)
		default:
			groups.System = append(groups.System, s)
		}
	}
	return groups
}
