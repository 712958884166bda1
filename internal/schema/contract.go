package schema

// Field describes one column a dataset must carry to enter its cleaner.
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"` // "int" | "text" | "real" | "date"
	Required bool   `json:"required,omitempty"`
}

// Contract is the entry requirement for one raw dataset. A cleaner refuses
// the whole dataset when a required field is missing from the header or the
// dataset is empty; partial loads would break referential integrity in the
// relational target.
type Contract struct {
	Name      string            `json:"name"`
	Fields    []Field           `json:"fields"`
	HeaderMap map[string]string `json:"header_map,omitempty"`
}

// RequiredFields returns the names of all required fields in order.
func (c Contract) RequiredFields() []string {
	var out []string
	for _, f := range c.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// Customers is the entry contract for customers_raw.csv.
var Customers = Contract{
	Name: "customers",
	Fields: []Field{
		{Name: "customer_id", Type: "text", Required: true},
		{Name: "first_name", Type: "text", Required: true},
		{Name: "last_name", Type: "text", Required: true},
		{Name: "email", Type: "text", Required: true},
		{Name: "phone", Type: "text", Required: true},
		{Name: "city", Type: "text", Required: true},
		{Name: "registration_date", Type: "date", Required: true},
	},
}

// Products is the entry contract for products_raw.csv.
var Products = Contract{
	Name: "products",
	Fields: []Field{
		{Name: "product_id", Type: "text", Required: true},
		{Name: "product_name", Type: "text", Required: true},
		{Name: "category", Type: "text", Required: true},
		{Name: "price", Type: "real", Required: true},
		{Name: "stock_quantity", Type: "int", Required: true},
	},
}

// Sales is the entry contract for sales_raw.csv. The status column is
// optional; orders derived from status-less feeds default to "Pending".
var Sales = Contract{
	Name: "sales",
	Fields: []Field{
		{Name: "transaction_id", Type: "text", Required: true},
		{Name: "customer_id", Type: "text", Required: true},
		{Name: "product_id", Type: "text", Required: true},
		{Name: "quantity", Type: "int", Required: true},
		{Name: "unit_price", Type: "real", Required: true},
		{Name: "transaction_date", Type: "date", Required: true},
		{Name: "status", Type: "text"},
	},
}
