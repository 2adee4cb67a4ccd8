package prepare

import (
	"smartsales/internal/scrubber"
	"smartsales/pkg/models"
)

// Dataset binds a raw source file to its prepared output and the cleaning
// rules that take one to the other.
type Dataset struct {
	Name         string
	RawFile      string
	PreparedFile string
	Pipeline     func(cfg *models.Config) *scrubber.Pipeline
}

// Datasets is the registry of sources the preparation stage knows about,
// in load order.
var Datasets = []Dataset{
	{
		Name:         "customers",
		RawFile:      "customers.csv",
		PreparedFile: "customers_cleaned.csv",
		Pipeline:     customersPipeline,
	},
	{
		Name:         "products",
		RawFile:      "products_data.csv",
		PreparedFile: "products_cleaned.csv",
		Pipeline:     productsPipeline,
	},
	{
		Name:         "sales",
		RawFile:      "sales_data.csv",
		PreparedFile: "sales_data_prepared.csv",
		Pipeline:     salesPipeline,
	},
}

// Lookup finds a dataset by name
func Lookup(name string) (Dataset, bool) {
	for _, ds := range Datasets {
		if ds.Name == name {
			return ds, true
		}
	}
	return Dataset{}, false
}

func customersPipeline(cfg *models.Config) *scrubber.Pipeline {
	return scrubber.NewPipeline(
		scrubber.TrimSpace{},
		scrubber.NormalizeHeader{},
		scrubber.DropDuplicates{},
		scrubber.FillMissing{Column: "Name", Policy: scrubber.FillConstant, Value: cfg.Scrubbing.Customers.MissingName},
		scrubber.FillMissing{Column: "CustomerID", Policy: scrubber.FillDropRow},
		scrubber.NormalizeDates{
			Columns: []string{"JoinDate"},
			Layouts: cfg.Scrubbing.DateLayouts,
			Policy:  scrubber.DatePolicy(cfg.Scrubbing.DatePolicy),
		},
		scrubber.DropOutlierRange{
			Column: "AmountSpent",
			Min:    cfg.Scrubbing.Customers.SpentMin,
			Max:    cfg.Scrubbing.Customers.SpentMax,
		},
	)
}

func productsPipeline(cfg *models.Config) *scrubber.Pipeline {
	return scrubber.NewPipeline(
		scrubber.TrimSpace{},
		scrubber.NormalizeHeader{},
		scrubber.DropDuplicates{KeyColumn: "ProductID"},
		scrubber.DropDuplicates{},
		scrubber.FillMissing{Column: "ProductName", Policy: scrubber.FillConstant, Value: cfg.Scrubbing.Products.MissingName},
		scrubber.FillMissing{Column: "UnitPrice", Policy: scrubber.FillMedian},
		scrubber.FillMissing{Column: "Category", Policy: scrubber.FillMode},
		scrubber.FillMissing{Column: "ProductID", Policy: scrubber.FillDropRow},
		scrubber.DropOutlierIQR{Column: "UnitPrice", Factor: cfg.Scrubbing.Products.IQRFactor},
	)
}

func salesPipeline(cfg *models.Config) *scrubber.Pipeline {
	return scrubber.NewPipeline(
		scrubber.TrimSpace{},
		scrubber.NormalizeHeader{},
		scrubber.DropDuplicates{KeyColumn: "TransactionID"},
		scrubber.DropDuplicates{},
		scrubber.FillMissing{Column: "TransactionID", Policy: scrubber.FillDropRow},
		scrubber.FillMissing{Column: "CustomerID", Policy: scrubber.FillDropRow},
		scrubber.FillMissing{Column: "ProductID", Policy: scrubber.FillDropRow},
		scrubber.NormalizeDates{
			Columns: []string{"SaleDate"},
			Layouts: cfg.Scrubbing.DateLayouts,
			Policy:  scrubber.DatePolicy(cfg.Scrubbing.DatePolicy),
		},
	)
}
