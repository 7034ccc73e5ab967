// Package templates holds the role and technique template tables and the
// composer that combines them into a single prompt template. Tables are
// exposed behind the Store interface so they can be backed by the built-in
// maps or by a loaded resource file; callers must treat them as immutable at
// runtime.
package templates

// Identity is the fallback template: the query passes through untouched.
const Identity = "{query}"

// Store resolves template names to placeholder-bearing template strings.
// Lookups never fail; unknown names resolve to a usable default.
type Store interface {
	RoleTemplate(role string) string
	TechniqueTemplate(technique string) string
}

// roleTemplates maps persona names to their prompt templates. Every template
// carries the {query} placeholder.
var roleTemplates = map[string]string{
	// Academic roles
	"Mathematician":        "Solve this mathematical problem step-by-step: {query}\n\nShow your reasoning clearly.",
	"Statistician":         "Analyze this statistical problem: {query}\n\nProvide a detailed explanation of the statistical concepts involved and show your calculations.",
	"Computer Scientist":   "Explain this computer science concept: {query}\n\nBreak down the theory, applications, and provide examples.",
	"Physicist":            "Explain this physics problem: {query}\n\nApply the relevant physical laws and show your calculations step-by-step.",
	"Historian":            "Analyze this historical event or period: {query}\n\nProvide context, key figures, causes, effects, and significance.",
	"Literature Professor": "Analyze this text or literary concept: {query}\n\nDiscuss themes, literary devices, historical context, and significance.",
	"Biologist":            "Explain this biological process or concept: {query}\n\nDescribe the mechanisms, components, and significance in detail.",

	// Technical roles
	"Software Engineer":      "Write code to solve the following problem:\n{query}\n\nProvide a clear explanation of your implementation.",
	"Data Scientist":         "Analyze this dataset/problem: {query}\n\nOutline your approach, methods, and provide insights from the data.",
	"Systems Architect":      "Design a system architecture for: {query}\n\nExplain components, interactions, trade-offs, and rationale.",
	"Database Administrator": "Address this database challenge: {query}\n\nProvide SQL queries, schema designs, or optimization strategies as needed.",
	"DevOps Engineer":        "Solve this deployment/infrastructure issue: {query}\n\nProvide configuration examples, scripts, and best practices.",
	"QA Engineer":            "Develop a testing strategy for: {query}\n\nOutline test cases, methodologies, and quality assurance approaches.",

	// Writing roles
	"Copywriter":       "Create compelling copy for: {query}\n\nTailor the tone, style, and messaging to the target audience.",
	"Technical Writer": "Create documentation for: {query}\n\nProvide clear, concise instructions with appropriate technical detail.",
	"Creative Writer":  "Write a creative piece based on: {query}\n\nFocus on narrative, character development, and engaging storytelling.",
	"Journalist":       "Write a news article about: {query}\n\nInclude the who, what, when, where, why, and how. Maintain objectivity and cite sources.",
	"Essay Writer":     "Write an essay on: {query}\n\nDevelop a clear thesis, supporting arguments, and thoughtful conclusion.",

	// Business roles
	"Business Analyst":      "Analyze this business scenario: {query}\n\nProvide insights, identify opportunities, and suggest improvements.",
	"Product Manager":       "Develop a product strategy for: {query}\n\nAddress market fit, user needs, competitive landscape, and implementation approach.",
	"Marketing Strategist":  "Create a marketing strategy for: {query}\n\nIdentify target audience, positioning, channels, and metrics for success.",
	"Financial Analyst":     "Perform financial analysis on: {query}\n\nProvide calculations, interpretations, and strategic recommendations.",
	"Management Consultant": "Provide consulting advice for: {query}\n\nAnalyze the situation, identify key issues, and recommend solutions.",

	// Educational roles
	"Teacher":          "Create a lesson plan for: {query}\n\nInclude learning objectives, activities, assessments, and differentiation strategies.",
	"Tutor":            "Explain this concept for a student: {query}\n\nUse simple language, analogies, and examples to aid understanding.",
	"Professor":        "Explain the following concept in clear, simple terms:\n{query}",
	"Career Counselor": "Provide career advice regarding: {query}\n\nConsider skills, interests, market trends, and practical next steps.",

	// Research roles
	"Research Scientist":  "Design a research methodology for: {query}\n\nOutline hypotheses, methods, controls, analysis techniques, and limitations.",
	"Literature Reviewer": "Synthesize research on: {query}\n\nIdentify key findings, contradictions, gaps, and future directions.",
	"Grant Writer":        "Outline a grant proposal for: {query}\n\nAddress significance, innovation, approach, and expected outcomes.",

	// Specialized analysis
	"Legal Analyst":  "Analyze this legal question: {query}\n\nDiscuss relevant laws, precedents, arguments, and potential outcomes.",
	"Policy Analyst": "Analyze this policy issue: {query}\n\nConsider stakeholders, trade-offs, evidence, and recommendations.",
	"Ethics Advisor": "Provide ethical analysis of: {query}\n\nConsider multiple perspectives, principles, consequences, and recommendations.",

	// General roles
	"Explainer":  "Explain this concept in simple terms: {query}\n\nUse analogies, examples, and clear language.",
	"Planner":    "Create a detailed plan for: {query}\n\nInclude steps, resources, timeline, and potential challenges.",
	"Analyzer":   "Analyze the following: {query}\n\nBreak down components, identify patterns, and provide insights.",
	"Summarizer": "Summarize the following: {query}\n\nCapture the key points, main arguments, and significant details.",
	"Assistant":  Identity,
}

// techniqueTemplates maps prompting techniques to their wrapper templates.
var techniqueTemplates = map[string]string{
	"zero_shot":         Identity,
	"few_shot":          "Here are some examples:\n\nExample 1: [First example]\nAnswer: [First answer]\n\nExample 2: [Second example]\nAnswer: [Second answer]\n\nNow answer this: {query}",
	"chain_of_thought":  "Think through this step-by-step: {query}\n\nLet's break this down into parts and solve methodically.",
	"self_consistency":  "Consider multiple approaches to solve this problem: {query}\n\nApproach 1:\nApproach 2:\nApproach 3:\n\nBased on these approaches, the most consistent answer is:",
	"tree_of_thought":   "Let's explore different reasoning paths for: {query}\n\nPath A:\n  Step A1\n  Step A2\n  Outcome A\n\nPath B:\n  Step B1\n  Step B2\n  Outcome B\n\nEvaluating these paths, the best solution is:",
	"role_playing":      "You are an expert {role}. {query}",
	"structured_output": "Provide your answer in the following format:\n\n1. Initial thoughts\n2. Analysis\n3. Solution steps\n4. Final answer\n5. Verification\n\n{query}",
	"socratic":          "To answer: {query}\n\nLet me ask myself some clarifying questions:\n1. What are the key components of this problem?\n2. What information do I need to solve it?\n3. What assumptions am I making?\n4. How can I verify my answer?",
	"guided_conversation": "Let's discuss this step by step. I'll guide you through analyzing: {query}\n\n" +
		"First, let's clarify the scope and objectives. Then we'll explore key considerations, and finally develop a detailed response.",
}

// StaticStore serves the built-in template tables.
type StaticStore struct{}

// NewStaticStore returns the default, map-backed store.
func NewStaticStore() *StaticStore { return &StaticStore{} }

// RoleTemplate returns the template for a role, or the Assistant identity
// template for unknown roles.
func (*StaticStore) RoleTemplate(role string) string {
	if t, ok := roleTemplates[role]; ok {
		return t
	}
	return roleTemplates["Assistant"]
}

// TechniqueTemplate returns the template for a technique. Unknown or empty
// technique names resolve to the identity template.
func (*StaticStore) TechniqueTemplate(technique string) string {
	if technique == "" {
		return Identity
	}
	if t, ok := techniqueTemplates[technique]; ok {
		return t
	}
	return Identity
}

// Roles lists the role names served by the static store.
func Roles() []string {
	out := make([]string, 0, len(roleTemplates))
	for name := range roleTemplates {
		out = append(out, name)
	}
	return out
}

// Techniques lists the technique names served by the static store.
func Techniques() []string {
	out := make([]string, 0, len(techniqueTemplates))
	for name := range techniqueTemplates {
		out = append(out, name)
	}
	return out
}
