// Package techniques implements advanced multi-level prompting strategies for
// requirements analysis. Level-1 techniques wrap a query in a single
// structured prompt; level-2 techniques run a chain of prompts, feeding each
// model response into the next step.
package techniques

import (
	"fmt"

	"github.com/cdevos2017/cot6930-200-a1/templates"
)

type l1Technique struct {
	Description string
	Template    string
}

type l2Technique struct {
	Description string
	Templates   []string
}

var l1Techniques = map[string]l1Technique{
	"meta_prompt": {
		Description: "Uses a prompt to generate another prompt for requirement analysis",
		Template: `Create an effective prompt that will elicit comprehensive and structured requirements for this task:

{query}

Your prompt should:
1. Ask clarifying questions about scope and constraints
2. Guide the analysis through different requirement categories
3. Help identify both explicit and implicit requirements
4. Ensure requirements are testable and measurable`,
	},
	"stakeholder_perspective": {
		Description: "Analyzes requirements from multiple stakeholder perspectives",
		Template: `Analyze the following requirement task from three different stakeholder perspectives:

{query}

For each perspective (End User, Business Owner, Technical Team):
1. What are the key priorities and concerns?
2. What specific requirements would they emphasize?
3. What potential conflicts might arise between perspectives?
4. How can these requirements be reconciled into a comprehensive specification?`,
	},
	"quality_criteria": {
		Description: "Structures requirements using quality attributes",
		Template: `Develop detailed requirements for the following task by systematically addressing quality attributes:

{query}

For each of these quality attributes:
- Functionality: What should the system do?
- Usability: How will users interact with it?
- Reliability: How should it perform under stress?
- Performance: What are the speed/efficiency requirements?
- Security: What protections should be in place?
- Maintainability: How can it be designed for future change?

Format each requirement to be specific, measurable, achievable, relevant, and time-bound (SMART).`,
	},
}

var l2Techniques = map[string]l2Technique{
	"refinement_chain": {
		Description: "Uses a chain of prompts to progressively refine requirements",
		Templates: []string{
			`Generate an initial set of requirements based on this task:

{query}

Focus on capturing the core functionality and main user needs.
List at least 5 high-level requirements.`,
			`Analyze the following initial requirements:

{previous_response}

For each requirement:
1. Identify any ambiguities or missing details
2. Add acceptance criteria
3. Consider edge cases and exceptions
4. Categorize as functional or non-functional`,
			`Review and refine these analyzed requirements:

{previous_response}

For each requirement:
1. Ensure it's specific, measurable, achievable, relevant, and time-bound (SMART)
2. Remove any redundancies or conflicts
3. Add priority levels (High/Medium/Low)
4. Provide a rationale for each requirement

Present the final requirements in a structured format suitable for technical documentation.`,
		},
	},
	"divergent_convergent": {
		Description: "First diverges to explore many possible requirements, then converges to select the best ones",
		Templates: []string{
			`For the following task, generate as many potential requirements as possible through divergent thinking:

{query}

Consider:
- Different user types and their needs
- Various use cases and scenarios
- Functional requirements
- Non-functional requirements
- Business rules and constraints
- Technical considerations

Don't filter or evaluate at this stage - aim for quantity and diversity.`,
			`Review the following list of potential requirements:

{previous_response}

Evaluate each requirement based on:
1. Value to users and business
2. Technical feasibility
3. Alignment with project scope
4. Potential implementation complexity

For each requirement, provide a score of 1-5 in each category and brief justification.`,
			`Based on your evaluation:

{previous_response}

1. Select the top 10-15 most valuable and feasible requirements
2. Organize them into a coherent specification
3. Identify dependencies between requirements
4. Suggest an implementation priority order

Present the final requirement specification in a clear, structured format.`,
		},
	},
	"adverse_analysis": {
		Description: "Uses adversarial thinking to identify missing requirements and edge cases",
		Templates: []string{
			`Create a baseline set of requirements for:

{query}

Focus on the happy path scenarios and core functionality.`,
			`Analyze these baseline requirements from an adversarial perspective:

{previous_response}

For each requirement:
1. How could it fail or be misinterpreted?
2. What edge cases are not covered?
3. How might users misuse or abuse this feature?
4. What security vulnerabilities might exist?
5. What performance issues could arise?

Identify at least 3 issues for each requirement.`,
			`Based on the adversarial analysis:

{previous_response}

1. Refine each original requirement to address the identified issues
2. Add new requirements to cover gaps and edge cases
3. Include explicit error handling and validation requirements
4. Specify security and performance safeguards

Present the improved, hardened requirements specification.`,
		},
	},
}

// L1Names lists the available single-prompt techniques.
func L1Names() []string {
	names := make([]string, 0, len(l1Techniques))
	for name := range l1Techniques {
		names = append(names, name)
	}
	return names
}

// L2Names lists the available chained techniques.
func L2Names() []string {
	names := make([]string, 0, len(l2Techniques))
	for name := range l2Techniques {
		names = append(names, name)
	}
	return names
}

// Description returns the one-line description of a technique at either level.
func Description(name string) (string, error) {
	if t, ok := l1Techniques[name]; ok {
		return t.Description, nil
	}
	if t, ok := l2Techniques[name]; ok {
		return t.Description, nil
	}
	return "", fmt.Errorf("unknown technique: %q", name)
}

// ApplyL1 wraps a query in the named level-1 technique template.
func ApplyL1(name, query string) (string, error) {
	t, ok := l1Techniques[name]
	if !ok {
		return "", fmt.Errorf("unknown L1 technique: %q", name)
	}
	return templates.Expand(t.Template, map[string]string{"query": query})
}

// StepCount returns the number of steps in a level-2 technique.
func StepCount(name string) (int, error) {
	t, ok := l2Techniques[name]
	if !ok {
		return 0, fmt.Errorf("unknown L2 technique: %q", name)
	}
	return len(t.Templates), nil
}

// Step formats the prompt for one step of a level-2 technique. The first step
// consumes the query; later steps consume the previous model response.
func Step(name string, step int, query, previousResponse string) (string, error) {
	t, ok := l2Techniques[name]
	if !ok {
		return "", fmt.Errorf("unknown L2 technique: %q", name)
	}
	if step < 0 || step >= len(t.Templates) {
		return "", fmt.Errorf("invalid step %d for technique %q: valid steps are 0-%d",
			step, name, len(t.Templates)-1)
	}
	return templates.Expand(t.Templates[step], map[string]string{
		"query":             query,
		"previous_response": previousResponse,
	})
}
