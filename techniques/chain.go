package techniques

import (
	"context"
	"fmt"

	"github.com/cdevos2017/cot6930-200-a1/params"
	"github.com/cdevos2017/cot6930-200-a1/providers"
)

// ChainResult holds the full trace of one chained technique run.
type ChainResult struct {
	Technique string   `json:"technique"`
	Prompts   []string `json:"prompts"`
	Responses []string `json:"responses"`
}

// Final returns the output of the last completed step.
func (r *ChainResult) Final() string {
	if len(r.Responses) == 0 {
		return ""
	}
	return r.Responses[len(r.Responses)-1]
}

// RunChain executes every step of a level-2 technique sequentially against the
// model, threading each response into the next step. stepParams may be nil to
// use the same parameter set for every step, or must carry one entry per step.
// Unlike the refinement loop, a failed model call here aborts the chain: later
// steps are meaningless without the prior response.
func RunChain(ctx context.Context, caller providers.Caller, name, query, model string, target providers.Target, stepParams []params.Set) (*ChainResult, error) {
	steps, err := StepCount(name)
	if err != nil {
		return nil, err
	}

	switch len(stepParams) {
	case 0:
		stepParams = make([]params.Set, steps)
		for i := range stepParams {
			stepParams[i] = params.ForTask("default")
		}
	case steps:
	default:
		return nil, fmt.Errorf("got %d parameter sets for %d steps", len(stepParams), steps)
	}

	result := &ChainResult{Technique: name}
	previous := ""
	for i := 0; i < steps; i++ {
		prompt, err := Step(name, i, query, previous)
		if err != nil {
			return nil, err
		}
		result.Prompts = append(result.Prompts, prompt)

		_, response, err := caller.Send(ctx, prompt, model, target, params.Validate(stepParams[i]))
		if err != nil {
			return result, fmt.Errorf("step %d of %q failed: %w", i+1, name, err)
		}
		result.Responses = append(result.Responses, response)
		previous = response
	}

	return result, nil
}
