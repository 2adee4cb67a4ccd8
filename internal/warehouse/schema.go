package warehouse

// Star schema: the sale fact table referencing the customer, product, and
// store dimensions. Tables are created if absent and fully reloaded on
// every run; there is no migration versioning.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customer (
		CustomerID  TEXT PRIMARY KEY,
		Name        TEXT,
		Region      TEXT,
		JoinDate    DATE,
		Purchases   INTEGER,
		AmountSpent REAL,
		State       TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS product (
		ProductID       TEXT PRIMARY KEY,
		ProductName     TEXT,
		Category        TEXT,
		UnitPrice       REAL,
		QuantityInStock INTEGER,
		Supplier        TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS store (
		StoreID TEXT PRIMARY KEY,
		Region  TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS sale (
		TransactionID TEXT PRIMARY KEY,
		CustomerID    TEXT,
		ProductID     TEXT,
		StoreID       TEXT,
		SaleDate      DATE,
		SaleAmount    REAL,
		MemberStatus  TEXT,
		FOREIGN KEY (CustomerID) REFERENCES customer (CustomerID),
		FOREIGN KEY (ProductID)  REFERENCES product (ProductID),
		FOREIGN KEY (StoreID)    REFERENCES store (StoreID)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_customer ON sale (CustomerID)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_product ON sale (ProductID)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_date ON sale (SaleDate)`,
}

// Insert statements for the full-rebuild load
const (
	insertCustomerSQL = `INSERT INTO customer
		(CustomerID, Name, Region, JoinDate, Purchases, AmountSpent, State)
		VALUES (:CustomerID, :Name, :Region, :JoinDate, :Purchases, :AmountSpent, :State)`

	insertProductSQL = `INSERT INTO product
		(ProductID, ProductName, Category, UnitPrice, QuantityInStock, Supplier)
		VALUES (:ProductID, :ProductName, :Category, :UnitPrice, :QuantityInStock, :Supplier)`

	insertStoreSQL = `INSERT INTO store (StoreID, Region) VALUES (:StoreID, :Region)`

	insertSaleSQL = `INSERT INTO sale
		(TransactionID, CustomerID, ProductID, StoreID, SaleDate, SaleAmount, MemberStatus)
		VALUES (:TransactionID, :CustomerID, :ProductID, :StoreID, :SaleDate, :SaleAmount, :MemberStatus)`
)

// deleteStatements clear existing rows before a reload, facts first so
// foreign keys stay satisfied throughout.
var deleteStatements = []string{
	"DELETE FROM sale",
	"DELETE FROM customer",
	"DELETE FROM product",
	"DELETE FROM store",
}
