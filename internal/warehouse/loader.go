package warehouse

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jszwec/csvutil"

	"smartsales/internal/common"
	"smartsales/internal/observability"
	"smartsales/pkg/errors"
	"smartsales/pkg/models"
)

// UnknownRegion labels the fallback store for customers without a region
const UnknownRegion = "Unknown"

// Loader performs the full-rebuild warehouse load from prepared CSV files
type Loader struct {
	svc    *Service
	cfg    *models.Config
	logger *observability.Logger
}

// NewLoader creates a warehouse loader
func NewLoader(svc *Service, cfg *models.Config, logger *observability.Logger) *Loader {
	if logger == nil {
		logger = observability.Default()
	}
	return &Loader{svc: svc, cfg: cfg, logger: logger}
}

// LoadSummary reports what one load run did
type LoadSummary struct {
	Customers    int
	Products     int
	Stores       int
	Sales        int
	SalesRead    int
	DecodeErrors int
	Orphans      int
	Duration     time.Duration
}

// Load reads the prepared CSVs, derives the store dimension, verifies
// referential integrity, and rebuilds every warehouse table inside one
// transaction. Fact rows referencing a missing customer or product are
// skipped and counted; a skip fraction above the configured threshold
// aborts the load before anything is written.
func (l *Loader) Load(ctx context.Context) (*LoadSummary, error) {
	start := time.Now()
	summary := &LoadSummary{}

	customers, badCustomers, err := decodeCSV[Customer](l.preparedPath("customers_cleaned.csv"))
	if err != nil {
		return nil, err
	}
	products, badProducts, err := decodeCSV[Product](l.preparedPath("products_cleaned.csv"))
	if err != nil {
		return nil, err
	}
	sales, badSales, err := decodeCSV[Sale](l.preparedPath("sales_data_prepared.csv"))
	if err != nil {
		return nil, err
	}

	summary.SalesRead = len(sales) + badSales
	summary.DecodeErrors = badCustomers + badProducts + badSales

	if summary.DecodeErrors > 0 {
		l.logger.WarnWithFields("skipped undecodable prepared rows", map[string]interface{}{
			"customers": badCustomers,
			"products":  badProducts,
			"sales":     badSales,
		})
	}

	stores, storeByRegion := deriveStores(customers)

	customerByID := make(map[string]Customer, len(customers))
	for _, c := range customers {
		customerByID[c.CustomerID] = c
	}
	productIDs := make(map[string]bool, len(products))
	for _, p := range products {
		productIDs[p.ProductID] = true
	}

	// Referential integrity: every fact row must land on existing
	// dimension rows. Violations are skipped, never loaded.
	facts := make([]Sale, 0, len(sales))
	for _, sale := range sales {
		customer, ok := customerByID[sale.CustomerID]
		if !ok || !productIDs[sale.ProductID] {
			summary.Orphans++
			l.logger.WarnWithFields("skipping orphaned sale", map[string]interface{}{
				"transaction_id": sale.TransactionID,
				"customer_id":    sale.CustomerID,
				"product_id":     sale.ProductID,
			})
			continue
		}
		// Raw exports sometimes carry their own store codes, but the
		// store dimension is keyed by surrogate UUIDs minted per
		// region, so every fact lands on its customer's region store.
		sale.StoreID = storeByRegion[regionOrUnknown(customer.Region)]
		facts = append(facts, sale)
	}

	if summary.SalesRead > 0 {
		skipped := summary.Orphans + badSales
		frac := float64(skipped) / float64(summary.SalesRead)
		if frac > l.cfg.Warehouse.ErrorThreshold {
			return nil, errors.New(errors.ErrCodeLoadAborted,
				fmt.Sprintf("%.0f%% of sale records are unloadable, aborting", frac*100)).
				WithContext("skipped", skipped).
				WithContext("read", summary.SalesRead).
				WithSuggestions(
					"Re-run 'smartsales prepare' to regenerate the prepared files",
					"Check the raw sales export for missing customer or product IDs",
				)
		}
	}

	if err := l.svc.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	tx, err := l.svc.DB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSQLTransaction, "failed to begin load transaction")
	}

	txHandler := l.svc.ErrorHandler().NewTransactionHandler(tx.Rollback)
	err = txHandler.Execute(func() error {
		for _, stmt := range deleteStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return errors.SQLError("failed to clear existing records", stmt, err)
			}
		}

		for _, c := range customers {
			if _, err := tx.NamedExecContext(ctx, insertCustomerSQL, &c); err != nil {
				return errors.SQLError("failed to insert customer", insertCustomerSQL, err).
					WithContext("customer_id", c.CustomerID)
			}
		}
		for _, p := range products {
			if _, err := tx.NamedExecContext(ctx, insertProductSQL, &p); err != nil {
				return errors.SQLError("failed to insert product", insertProductSQL, err).
					WithContext("product_id", p.ProductID)
			}
		}
		for _, st := range stores {
			if _, err := tx.NamedExecContext(ctx, insertStoreSQL, &st); err != nil {
				return errors.SQLError("failed to insert store", insertStoreSQL, err).
					WithContext("region", st.Region)
			}
		}
		for _, f := range facts {
			if _, err := tx.NamedExecContext(ctx, insertSaleSQL, &f); err != nil {
				return errors.SQLError("failed to insert sale", insertSaleSQL, err).
					WithContext("transaction_id", f.TransactionID)
			}
		}

		if err := tx.Commit(); err != nil {
			return errors.Wrap(err, errors.ErrCodeSQLTransaction, "failed to commit load transaction")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.Customers = len(customers)
	summary.Products = len(products)
	summary.Stores = len(stores)
	summary.Sales = len(facts)
	summary.Duration = time.Since(start)

	l.logger.InfoWithFields("warehouse rebuilt", map[string]interface{}{
		"customers": summary.Customers,
		"products":  summary.Products,
		"stores":    summary.Stores,
		"sales":     summary.Sales,
		"orphans":   summary.Orphans,
		"duration":  summary.Duration.String(),
	})

	return summary, nil
}

func (l *Loader) preparedPath(file string) string {
	path, err := common.JoinPath(l.cfg.Data.Prepared, file)
	if err != nil {
		// JoinPath only fails on traversal; fall back to the raw join and
		// let the open fail loudly.
		return l.cfg.Data.Prepared + "/" + file
	}
	return path
}

// deriveStores builds the store dimension: one surrogate-keyed store per
// distinct customer region, regions sorted so key assignment is stable
// within a run.
func deriveStores(customers []Customer) ([]Store, map[string]string) {
	regions := make(map[string]bool)
	for _, c := range customers {
		regions[regionOrUnknown(c.Region)] = true
	}

	names := make([]string, 0, len(regions))
	for region := range regions {
		names = append(names, region)
	}
	sort.Strings(names)

	stores := make([]Store, 0, len(names))
	byRegion := make(map[string]string, len(names))
	for _, region := range names {
		store := Store{StoreID: uuid.NewString(), Region: region}
		stores = append(stores, store)
		byRegion[region] = store.StoreID
	}
	return stores, byRegion
}

func regionOrUnknown(region string) string {
	if region == "" {
		return UnknownRegion
	}
	return region
}

// decodeCSV reads a prepared CSV file into typed records. Rows that fail
// to decode are counted and skipped; only I/O and header failures are
// fatal.
func decodeCSV[T any](path string) ([]T, int, error) {
	file, err := os.Open(path) // #nosec G304 - path is validated by the caller
	if err != nil {
		return nil, 0, errors.FileError("failed to open prepared data file", path, err).
			WithSuggestions("Run 'smartsales prepare' before 'smartsales load'")
	}
	defer file.Close()

	cr := csv.NewReader(file)
	cr.FieldsPerRecord = -1
	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeBadHeader, "failed to read prepared file header").
			WithContext("path", path)
	}

	var records []T
	bad := 0
	for {
		var record T
		err := dec.Decode(&record)
		if err == io.EOF {
			break
		}
		if err != nil {
			bad++
			continue
		}
		records = append(records, record)
	}

	return records, bad, nil
}
