package workflow

import (
	"context"
	"log/slog"
	"time"

	"cookingagent"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedWorkflow wraps the pipeline with tracing and metrics.
type InstrumentedWorkflow struct {
	inner  *Workflow
	tracer trace.Tracer
	meter  metric.Meter
}

// NewInstrumented initializes an instrumented workflow.
func NewInstrumented(oracles Oracles, tools cookingagent.ToolSet, logger cookingagent.RunLogger, tracer trace.Tracer, meter metric.Meter) (*InstrumentedWorkflow, error) {
	inner, err := New(oracles, tools, logger)
	if err != nil {
		return nil, err
	}
	return &InstrumentedWorkflow{
		inner:  inner,
		tracer: tracer,
		meter:  meter,
	}, nil
}

// Run executes the pipeline with full instrumentation.
func (w *InstrumentedWorkflow) Run(ctx context.Context, state *cookingagent.AgentState) (*cookingagent.AgentState, error) {
	if state == nil {
		return nil, cookingagent.ErrInvalidState
	}

	ctx, span := w.tracer.Start(ctx, "InstrumentedWorkflow.Run")
	defer span.End()

	slog.Info("WORKFLOW: Starting instrumented run", "query", state.Query)

	runsCounter, _ := w.meter.Int64Counter("pipeline_runs_total",
		metric.WithDescription("Total number of pipeline runs started"))
	runsCompletedCounter, _ := w.meter.Int64Counter("pipeline_runs_completed_total",
		metric.WithDescription("Total number of pipeline runs completed successfully"))
	runsFailedCounter, _ := w.meter.Int64Counter("pipeline_runs_failed_total",
		metric.WithDescription("Total number of pipeline runs that failed"))
	cookingQueriesCounter, _ := w.meter.Int64Counter("cooking_queries_total",
		metric.WithDescription("Total number of queries classified as cooking-related"))
	researchRunsCounter, _ := w.meter.Int64Counter("research_runs_total",
		metric.WithDescription("Total number of runs that performed recipe research"))
	recipesParsedCounter, _ := w.meter.Int64Counter("recipes_parsed_total",
		metric.WithDescription("Total number of runs that produced a structured recipe"))

	reasoningStepsGauge, _ := w.meter.Int64Gauge("reasoning_chain_length",
		metric.WithDescription("Number of reasoning entries produced by a run"))
	responseLengthGauge, _ := w.meter.Int64Gauge("response_length",
		metric.WithDescription("Length of the final response in bytes"))

	runDurationHist, _ := w.meter.Float64Histogram("pipeline_run_duration_seconds",
		metric.WithDescription("Total duration of a pipeline run in seconds"))

	runsCounter.Add(ctx, 1)
	span.SetAttributes(attribute.String("pipeline.query", state.Query))

	start := time.Now()
	final, err := w.inner.Run(ctx, state)
	runDurationHist.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		runsFailedCounter.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	runsCompletedCounter.Add(ctx, 1)
	if final.IsCookingRelated {
		cookingQueriesCounter.Add(ctx, 1)
	}
	if len(final.ResearchResults) > 0 {
		researchRunsCounter.Add(ctx, 1)
	}
	if final.Recipe != nil {
		recipesParsedCounter.Add(ctx, 1)
	}
	reasoningStepsGauge.Record(ctx, int64(len(final.ReasoningChain)))
	responseLengthGauge.Record(ctx, int64(len(final.FinalResponse)))

	span.SetAttributes(
		attribute.Bool("pipeline.is_cooking_related", final.IsCookingRelated),
		attribute.Bool("pipeline.needs_research", final.NeedsResearch),
		attribute.Bool("pipeline.recipe_parsed", final.Recipe != nil),
		attribute.Int("pipeline.reasoning_steps", len(final.ReasoningChain)),
	)
	span.SetStatus(codes.Ok, "run complete")

	return final, nil
}

// Answer runs the instrumented pipeline for a raw query. It implements
// cookingagent.Pipeline.
func (w *InstrumentedWorkflow) Answer(ctx context.Context, query string) (cookingagent.Result, error) {
	final, err := w.Run(ctx, cookingagent.NewAgentState(query))
	if err != nil {
		return cookingagent.Result{}, err
	}
	if final == nil || final.FinalResponse == "" {
		return cookingagent.Result{}, cookingagent.ErrInvalidState
	}

	return cookingagent.Result{
		Response:       final.FinalResponse,
		Relevant:       final.IsCookingRelated,
		ReasoningChain: final.ReasoningChain,
	}, nil
}
