package metrics

// Config carries the constant labels stamped on every metric.
type Config struct {
	ServiceName string
	Environment string
}
