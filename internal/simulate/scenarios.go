package simulate

import "github.com/pricewise/pricecore/pkg/types"

// sensitivityOffsets is the fixed comparison grid around the adjusted price.
// Order matters: downstream consumers present the sequence as-is.
var sensitivityOffsets = []float64{-10, -5, 0, 5, 10}

// Scenarios computes the impact at each sensitivity offset from the adjusted
// price. The middle entry (offset 0) is the adjusted price itself.
func Scenarios(product types.ProductRecord, baselineDemand, oldPrice, adjustedPrice, elasticity float64) []types.SensitivityScenario {
	out := make([]types.SensitivityScenario, 0, len(sensitivityOffsets))
	for _, offset := range sensitivityOffsets {
		price := adjustedPrice * (1 + offset/100)
		out = append(out, types.SensitivityScenario{
			OffsetPercent: offset,
			Price:         price,
			Impact:        Simulate(product, baselineDemand, oldPrice, price, elasticity),
		})
	}
	return out
}
