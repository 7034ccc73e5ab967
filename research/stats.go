package research

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// TechniqueMetrics aggregates outcomes for one technique across the matrix.
type TechniqueMetrics struct {
	AvgQuality    float64 `json:"avg_quality"`
	StdQuality    float64 `json:"std_quality"`
	AvgIterations float64 `json:"avg_iterations"`
	Runs          int     `json:"runs"`
}

// ParameterMetrics aggregates outcomes for one parameter variation.
type ParameterMetrics struct {
	AvgQuality float64 `json:"avg_quality"`
	AvgTime    float64 `json:"avg_time"`
	Runs       int     `json:"runs"`
}

// Analysis is the aggregated view of a full evaluation.
type Analysis struct {
	TechniquePerformance map[string]TechniqueMetrics `json:"technique_performance"`
	ParameterImpact      map[string]ParameterMetrics `json:"parameter_impact"`
	RoleAccuracy         float64                     `json:"role_accuracy"`
}

// paramKey buckets results by the two parameters the matrix actually varies.
func paramKey(temperature float64, numCtx int) string {
	return fmt.Sprintf("temp_%g_ctx_%d", temperature, numCtx)
}

// AnalyzeResults aggregates experiment results into per-technique and
// per-parameter metrics plus the overall role selection accuracy.
func (f *Framework) AnalyzeResults(results []ExperimentResult) Analysis {
	analysis := Analysis{
		TechniquePerformance: make(map[string]TechniqueMetrics),
		ParameterImpact:      make(map[string]ParameterMetrics),
	}

	for _, technique := range f.techniques {
		var qualities, iterations []float64
		for _, r := range results {
			if r.Technique != technique {
				continue
			}
			qualities = append(qualities, r.QualityScore)
			iterations = append(iterations, float64(r.IterationsUsed))
		}
		if len(qualities) == 0 {
			continue
		}
		// StdDev needs at least two samples; report 0 for a lone run.
		stdQuality := 0.0
		if len(qualities) > 1 {
			stdQuality = stat.StdDev(qualities, nil)
		}
		analysis.TechniquePerformance[technique] = TechniqueMetrics{
			AvgQuality:    stat.Mean(qualities, nil),
			StdQuality:    stdQuality,
			AvgIterations: stat.Mean(iterations, nil),
			Runs:          len(qualities),
		}
	}

	for _, set := range f.parameterSets {
		key := paramKey(set.Temperature, set.NumCtx)
		var qualities, times []float64
		for _, r := range results {
			if r.Parameters.Temperature != set.Temperature || r.Parameters.NumCtx != set.NumCtx {
				continue
			}
			qualities = append(qualities, r.QualityScore)
			times = append(times, r.TimeTaken)
		}
		if len(qualities) == 0 {
			continue
		}
		analysis.ParameterImpact[key] = ParameterMetrics{
			AvgQuality: stat.Mean(qualities, nil),
			AvgTime:    stat.Mean(times, nil),
			Runs:       len(qualities),
		}
	}

	if len(results) > 0 {
		expected := make(map[string]string, len(f.testCases))
		for _, tc := range f.testCases {
			expected[tc.Query] = tc.ExpectedRole
		}
		matches := 0
		for _, r := range results {
			if want, ok := expected[r.Query]; ok && r.RoleUsed == want {
				matches++
			}
		}
		analysis.RoleAccuracy = float64(matches) / float64(len(results))
	}

	return analysis
}
