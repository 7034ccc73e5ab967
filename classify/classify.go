// Package classify implements the rule-based configuration classifier: it
// detects the role, task type, and prompting technique for a raw query using
// fixed pattern tables. Classification is a pure function of the query and
// the tables, so repeated calls always agree.
package classify

import (
	"regexp"
	"strings"
)

// Result is the initial role/task/technique selection for a query.
type Result struct {
	Role      string
	TaskType  string
	Technique string
}

// Fallbacks when nothing in the tables matches.
const (
	DefaultRole      = "Assistant"
	DefaultTaskType  = "default"
	DefaultTechnique = "zero_shot"
)

type roleRule struct {
	role    string
	pattern *regexp.Regexp
}

type taskRule struct {
	taskType string
	pattern  *regexp.Regexp
	keywords []string
}

type techniqueRule struct {
	technique string
	pattern   *regexp.Regexp
	priority  int
}

// Rule order matters: the first registered entry wins exact ties.
var roleRules = []roleRule{
	{"Mathematician", regexp.MustCompile(`(?i)(math|calculate|equation|solve|formula|\+|-|\*|/|\^|log|sin|cos)`)},
	{"Software Engineer", regexp.MustCompile(`(?i)(code|program|function|algorithm|class|API)`)},
	{"Data Scientist", regexp.MustCompile(`(?i)(data|analysis|statistics|correlation|dataset|predict)`)},
	{"Teacher", regexp.MustCompile(`(?i)(explain|teach|learn|understand|concept|example)`)},
	{"Creative Writer", regexp.MustCompile(`(?i)(story|write|creative|narrative|plot|character)`)},
	{"Business Analyst", regexp.MustCompile(`(?i)(business|market|strategy|analyze|ROI|profit)`)},
	{"Physicist", regexp.MustCompile(`(?i)(physics|force|motion|energy|quantum|momentum)`)},
	{"Biologist", regexp.MustCompile(`(?i)(biology|cell|organism|gene|evolution|species)`)},
	{"Historian", regexp.MustCompile(`(?i)(history|century|period|war|civilization|empire)`)},
	{"Psychologist", regexp.MustCompile(`(?i)(psychology|behavior|mental|cognitive|emotion)`)},
	{"Financial Analyst", regexp.MustCompile(`(?i)(finance|stock|investment|market|portfolio|risk)`)},
	{"Language Expert", regexp.MustCompile(`(?i)(grammar|language|sentence|word|phrase|meaning)`)},
	{"Systems Architect", regexp.MustCompile(`(?i)(system|architecture|design|infrastructure|scalability)`)},
	{"Product Manager", regexp.MustCompile(`(?i)(product|feature|user|requirement|roadmap|market)`)},
}

var taskRules = []taskRule{
	{"math", regexp.MustCompile(`(?i)(math|calculate|equation|solve|\+|-|\*|/|formula)`),
		[]string{"solve", "calculate", "equation", "formula", "computation"}},
	{"coding", regexp.MustCompile(`(?i)(code|program|function|algorithm|implementation)`),
		[]string{"implement", "code", "function", "class", "method"}},
	{"creative_writing", regexp.MustCompile(`(?i)(story|write|creative|narrative|plot)`),
		[]string{"write", "compose", "create", "story", "narrative"}},
	{"analysis", regexp.MustCompile(`(?i)(analyze|examine|study|investigate|evaluate)`),
		[]string{"analyze", "examine", "evaluate", "assess", "review"}},
	{"explanation", regexp.MustCompile(`(?i)(explain|describe|what is|how does|why)`),
		[]string{"explain", "describe", "clarify", "elaborate", "detail"}},
	{"planning", regexp.MustCompile(`(?i)(plan|strategy|approach|method|steps)`),
		[]string{"plan", "organize", "prepare", "arrange", "structure"}},
	{"research", regexp.MustCompile(`(?i)(research|study|investigate|explore|literature)`),
		[]string{"research", "investigate", "study", "explore", "examine"}},
	{"translation", regexp.MustCompile(`(?i)(translate|convert|language|meaning|phrase)`),
		[]string{"translate", "convert", "transform", "change", "adapt"}},
	{"summarization", regexp.MustCompile(`(?i)(summarize|brief|overview|recap|digest)`),
		[]string{"summarize", "condense", "shorten", "brief", "synopsis"}},
}

var techniqueRules = []techniqueRule{
	{"chain_of_thought", regexp.MustCompile(`(?i)(solve|equation|calculate|prove|step[- ]by[- ]step|algorithm|logic)`), 3},
	{"socratic", regexp.MustCompile(`(?i)(explain|why|what is|how does)`), 2},
	{"tree_of_thought", regexp.MustCompile(`(?i)(analyze|impact|compare|trade[- ]?offs?|implications)`), 2},
	{"role_playing", regexp.MustCompile(`(?i)(act as|pretend|imagine you|as an expert)`), 2},
	{"structured_output", regexp.MustCompile(`(?i)(strategy|plan|outline|list|format|structure)`), 1},
	{"few_shot", regexp.MustCompile(`(?i)(for example|examples?|similar to)`), 1},
	{"self_consistency", regexp.MustCompile(`(?i)(verify|double[- ]check|confirm|consistent)`), 1},
}

// Classify derives the full initial selection for a query.
func Classify(query string) Result {
	return Result{
		Role:      DetectRole(query),
		TaskType:  DetectTaskType(query),
		Technique: DetectTechnique(query),
	}
}

// DetectRole picks the role whose pattern matches the query. When several
// roles match, the one with the most pattern occurrences wins; the earliest
// table entry wins remaining ties.
func DetectRole(query string) string {
	best := ""
	bestCount := 0
	for _, rule := range roleRules {
		count := len(rule.pattern.FindAllString(query, -1))
		if count > bestCount {
			best = rule.role
			bestCount = count
		}
	}
	if best == "" {
		return DefaultRole
	}
	return best
}

// DetectTaskType scores every task type as 2x the pattern occurrences plus
// the number of keywords present in the lowercased query, and picks the
// highest. All-zero scores fall back to "default".
func DetectTaskType(query string) string {
	lower := strings.ToLower(query)

	best := ""
	bestScore := 0
	for _, rule := range taskRules {
		score := 2 * len(rule.pattern.FindAllString(query, -1))
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best = rule.taskType
			bestScore = score
		}
	}
	if best == "" {
		return DefaultTaskType
	}
	return best
}

// DetectTechnique selects the matching technique with the lexicographically
// greatest (match count, priority) pair, falling back to the identity
// zero_shot technique.
func DetectTechnique(query string) string {
	best := ""
	bestCount, bestPriority := 0, 0
	for _, rule := range techniqueRules {
		count := len(rule.pattern.FindAllString(query, -1))
		if count == 0 {
			continue
		}
		if count > bestCount || (count == bestCount && rule.priority > bestPriority) {
			best = rule.technique
			bestCount = count
			bestPriority = rule.priority
		}
	}
	if best == "" {
		return DefaultTechnique
	}
	return best
}
