package domain

// StockLevel is a coarse stock indicator for items whose exact count is not
// tracked (consumables counted by eye, display-only tools).
type StockLevel int

const (
	StockLevelLow StockLevel = iota + 1
	StockLevelMedium
	StockLevelHigh
)

func (l StockLevel) String() string {
	switch l {
	case StockLevelLow:
		return "low"
	case StockLevelMedium:
		return "medium"
	case StockLevelHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Stock is either an exact unit count or a qualitative level. Only exact
// stock participates in capacity arithmetic; qualitative items always admit.
type Stock struct {
	exact bool
	units int
	level StockLevel
}

func ExactStock(units int) Stock {
	return Stock{exact: true, units: units}
}

func QualitativeStock(level StockLevel) Stock {
	return Stock{level: level}
}

// Tracked reports whether the stock has an exact unit count.
func (s Stock) Tracked() bool {
	return s.exact
}

func (s Stock) Units() int {
	return s.units
}

func (s Stock) Level() StockLevel {
	return s.level
}

// Stock codes as stored by the catalog: a non-negative code is an exact unit
// count, negative codes are the legacy low/medium/high markers.
const (
	codeLow    = -1
	codeMedium = -2
	codeHigh   = -3
)

// StockFromCode decodes the catalog's integer representation. Unknown
// negative codes are treated as low so imported data never blocks booking.
func StockFromCode(code int) Stock {
	switch {
	case code >= 0:
		return ExactStock(code)
	case code == codeMedium:
		return QualitativeStock(StockLevelMedium)
	case code == codeHigh:
		return QualitativeStock(StockLevelHigh)
	default:
		return QualitativeStock(StockLevelLow)
	}
}

// Code encodes the stock back into the catalog's integer representation.
func (s Stock) Code() int {
	if s.exact {
		return s.units
	}
	switch s.level {
	case StockLevelMedium:
		return codeMedium
	case StockLevelHigh:
		return codeHigh
	default:
		return codeLow
	}
}
