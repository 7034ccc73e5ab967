package params

// taskPresets maps task types to the parameter set tuned for them. The table
// is read-only at runtime.
var taskPresets = map[string]Set{
	// Academic tasks
	"math":       {Temperature: 0.2, NumCtx: 2048, NumPredict: 1024},
	"statistics": {Temperature: 0.3, NumCtx: 2048, NumPredict: 1024},
	"physics":    {Temperature: 0.3, NumCtx: 2048, NumPredict: 1024},
	"chemistry":  {Temperature: 0.3, NumCtx: 2048, NumPredict: 1024},
	"biology":    {Temperature: 0.4, NumCtx: 2048, NumPredict: 1280},
	"history":    {Temperature: 0.5, NumCtx: 3072, NumPredict: 1536},
	"literature": {Temperature: 0.6, NumCtx: 3072, NumPredict: 1536},

	// Technical tasks
	"coding":        {Temperature: 0.3, NumCtx: 4096, NumPredict: 2048},
	"data_analysis": {Temperature: 0.3, NumCtx: 3072, NumPredict: 1536},
	"system_design": {Temperature: 0.4, NumCtx: 3072, NumPredict: 1536},
	"database":      {Temperature: 0.3, NumCtx: 2048, NumPredict: 1024},
	"devops":        {Temperature: 0.3, NumCtx: 3072, NumPredict: 1536},
	"testing":       {Temperature: 0.4, NumCtx: 2048, NumPredict: 1280},

	// Writing tasks
	"copywriting":       {Temperature: 0.7, NumCtx: 2048, NumPredict: 1536},
	"technical_writing": {Temperature: 0.4, NumCtx: 3072, NumPredict: 1536},
	"creative_writing":  {Temperature: 0.8, NumCtx: 4096, NumPredict: 3096},
	"journalism":        {Temperature: 0.5, NumCtx: 3072, NumPredict: 1536},
	"essay":             {Temperature: 0.6, NumCtx: 3072, NumPredict: 2048},

	// Business tasks
	"business_analysis":  {Temperature: 0.5, NumCtx: 2560, NumPredict: 1536},
	"product_strategy":   {Temperature: 0.6, NumCtx: 2560, NumPredict: 1536},
	"marketing":          {Temperature: 0.7, NumCtx: 2560, NumPredict: 1536},
	"financial_analysis": {Temperature: 0.3, NumCtx: 2560, NumPredict: 1280},
	"consulting":         {Temperature: 0.5, NumCtx: 3072, NumPredict: 1536},

	// Educational tasks
	"teaching":      {Temperature: 0.5, NumCtx: 2560, NumPredict: 1536},
	"tutoring":      {Temperature: 0.4, NumCtx: 2048, NumPredict: 1280},
	"career_advice": {Temperature: 0.6, NumCtx: 2048, NumPredict: 1280},

	// Research tasks
	"research_design":   {Temperature: 0.4, NumCtx: 3584, NumPredict: 1792},
	"literature_review": {Temperature: 0.5, NumCtx: 4096, NumPredict: 2048},
	"grant_writing":     {Temperature: 0.5, NumCtx: 3072, NumPredict: 1792},

	// Specialized analysis
	"legal_analysis":   {Temperature: 0.4, NumCtx: 3584, NumPredict: 1792},
	"policy_analysis":  {Temperature: 0.5, NumCtx: 3072, NumPredict: 1536},
	"ethical_analysis": {Temperature: 0.6, NumCtx: 3072, NumPredict: 1536},

	// General tasks
	"explanation":   {Temperature: 0.5, NumCtx: 2048, NumPredict: 1280},
	"planning":      {Temperature: 0.5, NumCtx: 2560, NumPredict: 1536},
	"analysis":      {Temperature: 0.5, NumCtx: 2560, NumPredict: 1536},
	"summarization": {Temperature: 0.4, NumCtx: 2560, NumPredict: 1024},
	"translation":   {Temperature: 0.3, NumCtx: 2048, NumPredict: 1280},
	"creative":      {Temperature: 0.8, NumCtx: 4096, NumPredict: 3096},
	"default":       {Temperature: 0.7, NumCtx: 2048, NumPredict: 1024},
}

// ForTask returns the preset for a task type, falling back to the "default"
// preset for unknown names. It never fails.
func ForTask(taskType string) Set {
	if p, ok := taskPresets[taskType]; ok {
		return p
	}
	return taskPresets["default"]
}

// TaskTypes lists every task type with a dedicated preset.
func TaskTypes() []string {
	out := make([]string, 0, len(taskPresets))
	for name := range taskPresets {
		out = append(out, name)
	}
	return out
}

// Presets returns named parameter presets for common use cases.
func Presets() map[string]Set {
	return map[string]Set{
		"creative": {Temperature: 0.8, NumCtx: 4096, NumPredict: 2048},
		"precise":  {Temperature: 0.2, NumCtx: 2048, NumPredict: 1024},
		"balanced": {Temperature: 0.5, NumCtx: 2048, NumPredict: 1024},
		"chat":     {Temperature: 0.7, NumCtx: 2048, NumPredict: 512},
		"code":     {Temperature: 0.3, NumCtx: 4096, NumPredict: 2048},
	}
}
