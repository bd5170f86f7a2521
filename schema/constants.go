package schema

// Custom string types for type safety.
type (
	// Stream identifies one of the three parallel reading streams.
	Stream string

	// Metric identifies a numeric column of a reading.
	Metric string

	// Statistic identifies a descriptive statistic.
	Statistic string

	// Arrow is the trend direction of a statistic versus its baseline.
	Arrow string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for stream storage.
	DatabaseBackend string

	// ForwardMode represents the transport used to forward readings to a remote collector.
	ForwardMode string
)

// All streams supported. The raw stream keeps the "sensor" key used by the HTTP API.
const (
	RawStream   Stream = "sensor"
	LSTMStream  Stream = "lstm"
	ARIMAStream Stream = "arima"
)

// All metrics tracked per reading.
const (
	TemperatureMetric Metric = "temperature"
	HumidityMetric    Metric = "humidity"
	HeatIndexMetric   Metric = "heat_index"
)

// All statistics supported.
const (
	CountStat Statistic = "count"
	MeanStat  Statistic = "mean"
	StdStat   Statistic = "std"
	MinStat   Statistic = "min"
	Q25Stat   Statistic = "25%"
	Q50Stat   Statistic = "50%"
	Q75Stat   Statistic = "75%"
	MaxStat   Statistic = "max"
)

// All arrows supported.
const (
	UpArrow    Arrow = "up"
	DownArrow  Arrow = "down"
	EqualArrow Arrow = "equal"
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All forward modes supported.
const (
	NoForward   ForwardMode = "none" // default
	HTTPForward ForwardMode = "http"
	AMQPForward ForwardMode = "amqp"
)

// DateTimeLayout is the timestamp representation stored with every reading.
const DateTimeLayout = "02-01-2006 15:04:05"

// SnapshotDateLayout is the date representation used for snapshot file names.
const SnapshotDateLayout = "02 Jan 2006"

// AllStreams lists the streams in their canonical order.
var AllStreams = []Stream{RawStream, LSTMStream, ARIMAStream}

// AllMetrics lists the metrics in their canonical order.
var AllMetrics = []Metric{TemperatureMetric, HumidityMetric, HeatIndexMetric}

// CompareStats lists the statistics tracked against the baseline.
var CompareStats = []Statistic{CountStat, MeanStat, StdStat, MinStat, MaxStat}

// DescribeStats lists every statistic reported by a full description.
var DescribeStats = []Statistic{CountStat, MeanStat, StdStat, MinStat, Q25Stat, Q50Stat, Q75Stat, MaxStat}

// CSVHeader is the header row of snapshot and export files.
var CSVHeader = []string{
	"id", "datetime", "temperature", "humidity", "heat_index",
	"lstm_temp", "lstm_hum", "lstm_heat",
	"arima_temp", "arima_hum", "arima_heat",
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidForwardModes lists all valid forward modes.
var ValidForwardModes = map[ForwardMode]struct{}{
	NoForward:   {},
	HTTPForward: {},
	AMQPForward: {},
}

// ValidStreams lists all valid streams.
var ValidStreams = map[Stream]struct{}{
	RawStream:   {},
	LSTMStream:  {},
	ARIMAStream: {},
}
