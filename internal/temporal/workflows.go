package temporal

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/workflow"
)

// AnalysisInput holds the workflow parameters.
type AnalysisInput struct {
	FactsPath string // Path to JSONL relationship facts

	// StoreGraphs persists the built graphs to the configured repository
	// after analysis.
	StoreGraphs bool
}

// AnalysisOutput holds the workflow result.
type AnalysisOutput struct {
	ResultJSON string // Full analysis bundle, JSON encoded
	FactCount  int
	CycleCount int
	Stored     bool
	Errors     []string
}

// AnalysisWorkflow runs one analysis pass over a facts file.
func AnalysisWorkflow(ctx workflow.Context, input AnalysisInput) (*AnalysisOutput, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var analysis ActivityResult
	if err := workflow.ExecuteActivity(ctx, AnalyzeActivity, input).Get(ctx, &analysis); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	output := &AnalysisOutput{
		ResultJSON: analysis.ResultJSON,
		FactCount:  analysis.FactCount,
		CycleCount: analysis.CycleCount,
		Errors:     analysis.Errors,
	}

	if input.StoreGraphs {
		if err := workflow.ExecuteActivity(ctx, StoreActivity, input).Get(ctx, nil); err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		output.Stored = true
	}

	return output, nil
}
