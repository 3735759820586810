// Package constants provides shared constants for the arr-planner application.
package constants

// Planner defaults applied when an input is missing or unusable.
const (
	// DefaultARRTarget is the fallback annual recurring revenue target
	DefaultARRTarget = 1_000_000.0

	// DefaultMonths is the fallback time horizon in months
	DefaultMonths = 36.0

	// MinimumMonths is the smallest horizon accepted after rounding
	MinimumMonths = 1.0

	// DefaultMonthlyPrice is the fallback single-seat monthly price
	DefaultMonthlyPrice = 20.0

	// DefaultScenario is the scenario used for unknown or missing keys
	DefaultScenario = "base"
)

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// PercentPrecision is the rounding factor for one-decimal percentages
	// expressed on a 0-1 rate (round(x*1000)/10).
	PercentPrecision = 1000.0

	// DistributionPriceCeiling is the monthly price at or below which the
	// summary calls out distribution as the likely constraint.
	DistributionPriceCeiling = 20.0

	// DistributionPaidPerMonth is the paid-users-per-month level above which
	// the distribution summary is used.
	DistributionPaidPerMonth = 150.0
)

// Query-string keys for shareable planner state.
const (
	QueryScenario = "scenario"
	QueryARR      = "arr"
	QueryMonths   = "months"
	QueryPrice    = "price"
	QueryE2V      = "e2v"
	QueryV2T      = "v2t"
	QueryT2P      = "t2p"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default planner configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the environment variable prefix read by viper
	EnvPrefix = "ARR"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the site
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum JSON request body (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultRateLimitRequests is the number of API requests allowed per window
	DefaultRateLimitRequests = 60

	// DefaultRateLimitWindow is the refill window for API rate limiting
	DefaultRateLimitWindow = "1m"

	// PlannerPath is the page path of the planner tool
	PlannerPath = "/tools/arr-planner"
)

// Content listing constants
const (
	// PostsPerPage is the number of posts on each blog listing page
	PostsPerPage = 5

	// HomePagePosts is the number of recent posts shown on the home page
	HomePagePosts = 5
)

// Post date layouts
const (
	// DateLayout is the post date format in the content index and in
	// machine-readable output.
	DateLayout = "2006-01-02"

	// DisplayDateLayout is the post date format shown to readers.
	DisplayDateLayout = "January 2, 2006"
)
