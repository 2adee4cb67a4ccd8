package warehouse

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Date is a day-precision timestamp stored as a plain 2006-01-02 string so
// that Power BI and notebook consumers see one consistent format.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalText parses the canonical date layout, for csvutil decoding
func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := time.Parse(dateLayout, string(data))
	if err != nil {
		return err
	}
	d.Time = parsed
	return nil
}

// MarshalText renders the canonical date layout, for csvutil encoding
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.Format(dateLayout)), nil
}

// Value implements driver.Valuer so dates persist as canonical strings
func (d Date) Value() (driver.Value, error) {
	return d.Format(dateLayout), nil
}

// Scan implements sql.Scanner
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		parsed, err := time.Parse(dateLayout, v)
		if err != nil {
			return err
		}
		d.Time = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	case time.Time:
		d.Time = v
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// Weekday names indexed like SQLite's strftime('%w'), Sunday first
var WeekdayNames = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// Customer is a row of the customer dimension
type Customer struct {
	CustomerID  string          `csv:"CustomerID" db:"CustomerID"`
	Name        string          `csv:"Name" db:"Name"`
	Region      string          `csv:"Region" db:"Region"`
	JoinDate    Date            `csv:"JoinDate" db:"JoinDate"`
	Purchases   int             `csv:"Purchases" db:"Purchases"`
	AmountSpent decimal.Decimal `csv:"AmountSpent" db:"AmountSpent"`
	State       string          `csv:"State" db:"State"`
}

// Product is a row of the product dimension
type Product struct {
	ProductID       string          `csv:"ProductID" db:"ProductID"`
	ProductName     string          `csv:"ProductName" db:"ProductName"`
	Category        string          `csv:"Category" db:"Category"`
	UnitPrice       decimal.Decimal `csv:"UnitPrice" db:"UnitPrice"`
	QuantityInStock int             `csv:"QuantityInStock" db:"QuantityInStock"`
	Supplier        string          `csv:"Supplier" db:"Supplier"`
}

// Store is a row of the store dimension. Raw sales data carries no store
// master file, so stores are derived one per sales region and keyed by a
// surrogate UUID.
type Store struct {
	StoreID string `db:"StoreID"`
	Region  string `db:"Region"`
}

// Sale is a row of the fact table
type Sale struct {
	TransactionID string          `csv:"TransactionID" db:"TransactionID"`
	CustomerID    string          `csv:"CustomerID" db:"CustomerID"`
	ProductID     string          `csv:"ProductID" db:"ProductID"`
	StoreID       string          `csv:"StoreID" db:"StoreID"`
	SaleDate      Date            `csv:"SaleDate" db:"SaleDate"`
	SaleAmount    decimal.Decimal `csv:"SaleAmount" db:"SaleAmount"`
	MemberStatus  string          `csv:"MemberStatus" db:"MemberStatus"`
}
