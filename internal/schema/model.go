package schema

// DateLayout is the canonical output format for every normalized date field.
const DateLayout = "2006-01-02"

// Customer is a canonical customer row. Email is never empty after cleaning;
// missing addresses get the unknown_email_<customer_id> placeholder.
type Customer struct {
	CustomerID       string  `db:"customer_id"`
	FirstName        string  `db:"first_name"`
	LastName         string  `db:"last_name"`
	Email            string  `db:"email"`
	Phone            *string `db:"phone"`
	City             *string `db:"city"`
	RegistrationDate *string `db:"registration_date"`
}

// Product is a canonical product row. Price and StockQuantity are never null
// after cleaning; missing values are median-imputed per load.
type Product struct {
	ProductID     string  `db:"product_id"`
	ProductName   string  `db:"product_name"`
	Category      *string `db:"category"`
	Price         float64 `db:"price"`
	StockQuantity int     `db:"stock_quantity"`
}

// SalesTransaction is the cleaned intermediate form; it is decomposed into
// Order and OrderItem and never persisted as-is.
type SalesTransaction struct {
	TransactionID   string  `db:"transaction_id"`
	CustomerID      string  `db:"customer_id"`
	ProductID       string  `db:"product_id"`
	Quantity        int     `db:"quantity"`
	UnitPrice       float64 `db:"unit_price"`
	TransactionDate *string `db:"transaction_date"`
	Status          *string `db:"status"`
}

// Order is derived 1:1 from a surviving transaction.
type Order struct {
	OrderID     string  `db:"order_id"`
	CustomerID  string  `db:"customer_id"`
	OrderDate   *string `db:"order_date"`
	TotalAmount float64 `db:"total_amount"`
	Status      string  `db:"status"`
}

// OrderItem is the single line item of its order. OrderItemID is the 1-based
// position in the cleaned sales sequence.
type OrderItem struct {
	OrderItemID int     `db:"order_item_id"`
	OrderID     string  `db:"order_id"`
	ProductID   string  `db:"product_id"`
	Quantity    int     `db:"quantity"`
	UnitPrice   float64 `db:"unit_price"`
	Subtotal    float64 `db:"subtotal"`
}

// Column orders shared by the CSV writers and the database loaders. These
// must match the persisted table definitions.
var (
	CustomerColumns  = []string{"customer_id", "first_name", "last_name", "email", "phone", "city", "registration_date"}
	ProductColumns   = []string{"product_id", "product_name", "category", "price", "stock_quantity"}
	OrderColumns     = []string{"order_id", "customer_id", "order_date", "total_amount", "status"}
	OrderItemColumns = []string{"order_item_id", "order_id", "product_id", "quantity", "unit_price", "subtotal"}
)
