package sim

// Default pricing constants, modeled on AWS Lambda's GB-second pricing.
const (
	DefaultPricePerGBSecond   = 0.00001667
	DefaultInvocationOverhead = 0.0000002
)

// CostModel maps a completed task's resource usage to a monetary amount.
// Pure function over its inputs; safe for unrestricted concurrent use.
type CostModel struct {
	Enabled            bool
	PricePerGBSecond   float64
	InvocationOverhead float64
}

// NewCostModel creates a cost model with the default pricing constants.
func NewCostModel(enabled bool) *CostModel {
	return &CostModel{
		Enabled:            enabled,
		PricePerGBSecond:   DefaultPricePerGBSecond,
		InvocationOverhead: DefaultInvocationOverhead,
	}
}

// Cost returns the invocation cost for a completed task, or 0 when cost
// modeling is disabled.
//
//	cost = memory_gb * exec_duration * price_per_gb_second + overhead
func (c *CostModel) Cost(st *ScheduledTask) float64 {
	if !c.Enabled {
		return 0
	}
	gbSeconds := float64(st.Metadata.MemoryMB) / 1024.0 * st.ExecDuration
	return gbSeconds*c.PricePerGBSecond + c.InvocationOverhead
}
