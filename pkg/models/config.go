package models

type Config struct {
    Data      DataDirs   `yaml:"data"`
    Warehouse Warehouse  `yaml:"warehouse"`
    Scrubbing Scrubbing  `yaml:"scrubbing"`
    Reporting Reporting  `yaml:"reporting"`
    Logging   Logging    `yaml:"logging"`
}

// DataDirs holds the conventional data directory layout
type DataDirs struct {
    Root     string `yaml:"root"`     // Project data root (default "data")
    Raw      string `yaml:"raw"`      // Raw CSV input directory
    Prepared string `yaml:"prepared"` // Cleaned CSV output directory
    Results  string `yaml:"results"`  // Report CSV output directory
}

type Warehouse struct {
    Path           string  `yaml:"path"`            // SQLite database file path
    ErrorThreshold float64 `yaml:"error_threshold"` // Max tolerated fraction of bad fact rows before rollback
}

// Scrubbing holds the per-dataset cleaning rule parameters
type Scrubbing struct {
    DateLayouts []string  `yaml:"date_layouts"` // Accepted input date layouts, tried in order
    DatePolicy  string    `yaml:"date_policy"`  // "drop" or "flag" for unparseable dates
    Customers   Customers `yaml:"customers"`
    Products    Products  `yaml:"products"`
}

// Customers holds customer dataset cleaning parameters
type Customers struct {
    SpentMin     float64 `yaml:"spent_min"`     // AmountSpent lower bound, rows below are outliers
    SpentMax     float64 `yaml:"spent_max"`     // AmountSpent upper bound, rows above are outliers
    MissingName  string  `yaml:"missing_name"`  // Fill value for missing Name
}

// Products holds product dataset cleaning parameters
type Products struct {
    MissingName string  `yaml:"missing_name"` // Fill value for missing ProductName
    IQRFactor   float64 `yaml:"iqr_factor"`   // Outlier fence multiplier on UnitPrice (default 1.5)
}

type Reporting struct {
    TopCustomers int `yaml:"top_customers"` // Row limit for the top-customers report
}

type Logging struct {
    Level string `yaml:"level"` // debug, info, warn, error
    File  string `yaml:"file"`  // Optional log file path; empty logs to stderr only
}

// DefaultConfig returns the conventional coursework layout
func DefaultConfig() *Config {
    return &Config{
        Data: DataDirs{
            Root:     "data",
            Raw:      "data/raw",
            Prepared: "data/prepared",
            Results:  "data/results",
        },
        Warehouse: Warehouse{
            Path:           "data/dw/smart_sales.db",
            ErrorThreshold: 0.1,
        },
        Scrubbing: Scrubbing{
            DateLayouts: []string{
                "2006-01-02",
                "01/02/2006",
                "1/2/2006",
                "2006/01/02",
                "02-Jan-2006",
                "January 2, 2006",
            },
            DatePolicy: "drop",
            Customers: Customers{
                SpentMin:    200,
                SpentMax:    10000,
                MissingName: "Unknown",
            },
            Products: Products{
                MissingName: "Unknown Product",
                IQRFactor:   1.5,
            },
        },
        Reporting: Reporting{
            TopCustomers: 10,
        },
        Logging: Logging{
            Level: "info",
        },
    }
}
