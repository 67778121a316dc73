package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/collegeroi/internal/logging"
	"github.com/fyrsmithlabs/collegeroi/internal/selection"
	"github.com/fyrsmithlabs/collegeroi/internal/views"
)

// addTool registers the tool with the SDK and its metadata with the registry.
func addTool[In, Out any](s *Server, meta *ToolMetadata, h mcp.ToolHandlerFor[In, Out]) error {
	if err := s.toolRegistry.Register(meta); err != nil {
		return err
	}
	mcp.AddTool(s.mcp, &mcp.Tool{Name: meta.Name, Description: meta.Description}, h)
	return nil
}

// invoke runs fn with metrics and the mcp transport recorded on ctx. The SDK
// renders out as structured and text content; a non-nil error becomes a tool error.
func invoke[Out any](s *Server, ctx context.Context, tool string, fn func(context.Context) (Out, error)) (*mcp.CallToolResult, Out, error) {
	ctx = logging.WithTransport(ctx, "mcp")
	start := time.Now()
	s.metrics.IncrementActive(ctx, tool)
	out, err := fn(ctx)
	s.metrics.DecrementActive(ctx, tool)
	s.metrics.RecordInvocation(ctx, tool, time.Since(start), err)

	if err != nil {
		s.logger.Debug("tool failed", append(logging.ContextFields(ctx),
			zap.String("tool", tool), zap.Error(err))...)
		var zero Out
		return nil, zero, err
	}
	return nil, out, nil
}

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() error {
	for _, register := range []func() error{
		s.registerCatalogTools,
		s.registerViewTools,
		s.registerSearchTools,
	} {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

// ===== CATALOG TOOLS =====

type listHorizonsInput struct{}

type listHorizonsOutput struct {
	Horizons []int `json:"horizons" jsonschema:"Supported horizons in years after entry"`
}

type horizonInput struct {
	Horizon int `json:"horizon" jsonschema:"Years after entry at which income is measured (6 or 10)"`
}

type listSchoolsOutput struct {
	Horizon int      `json:"horizon" jsonschema:"Horizon the schools belong to"`
	Schools []string `json:"schools" jsonschema:"School names in lexicographic order"`
	Count   int      `json:"count" jsonschema:"Number of schools"`
}

type listFeaturesOutput struct {
	Horizon  int      `json:"horizon" jsonschema:"Horizon the features belong to"`
	Features []string `json:"features" jsonschema:"Feature names in lexicographic order"`
	Count    int      `json:"count" jsonschema:"Number of features"`
}

func (s *Server) registerCatalogTools() error {
	err := addTool(s, &ToolMetadata{
		Name:        "list_horizons",
		Description: "List the income horizons (years after entry) that explanations are available for",
		Category:    CategoryCatalog,
		Keywords:    []string{"years", "horizon"},
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listHorizonsInput) (*mcp.CallToolResult, listHorizonsOutput, error) {
		return invoke(s, ctx, "list_horizons", func(context.Context) (listHorizonsOutput, error) {
			return listHorizonsOutput{Horizons: s.explainer.ListHorizons()}, nil
		})
	})
	if err != nil {
		return err
	}

	err = addTool(s, &ToolMetadata{
		Name:        "list_schools",
		Description: "List every school with an explanation for a horizon, in alphabetical order",
		Category:    CategoryCatalog,
		Keywords:    []string{"college", "university", "institution"},
	}, func(ctx context.Context, req *mcp.CallToolRequest, args horizonInput) (*mcp.CallToolResult, listSchoolsOutput, error) {
		return invoke(s, ctx, "list_schools", func(ctx context.Context) (listSchoolsOutput, error) {
			schools, err := s.explainer.ListSchools(ctx, args.Horizon)
			if err != nil {
				return listSchoolsOutput{}, err
			}
			return listSchoolsOutput{Horizon: args.Horizon, Schools: schools, Count: len(schools)}, nil
		})
	})
	if err != nil {
		return err
	}

	return addTool(s, &ToolMetadata{
		Name:        "list_features",
		Description: "List the model features for a horizon, in alphabetical order",
		Category:    CategoryCatalog,
		Keywords:    []string{"columns", "variables", "predictors"},
	}, func(ctx context.Context, req *mcp.CallToolRequest, args horizonInput) (*mcp.CallToolResult, listFeaturesOutput, error) {
		return invoke(s, ctx, "list_features", func(ctx context.Context) (listFeaturesOutput, error) {
			features, err := s.explainer.ListFeatures(ctx, args.Horizon)
			if err != nil {
				return listFeaturesOutput{}, err
			}
			return listFeaturesOutput{Horizon: args.Horizon, Features: features, Count: len(features)}, nil
		})
	})
}

// ===== VIEW TOOLS =====

type explainSchoolInput struct {
	Horizon    int    `json:"horizon" jsonschema:"Years after entry at which income is measured (6 or 10)"`
	School     string `json:"school" jsonschema:"Exact school name as returned by list_schools"`
	MaxDisplay int    `json:"max_display,omitempty" jsonschema:"Maximum waterfall entries; the rest are summed into one entry (default 15)"`
}

type featureScatterInput struct {
	Horizon int    `json:"horizon" jsonschema:"Years after entry at which income is measured (6 or 10)"`
	Feature string `json:"feature" jsonschema:"Exact feature name as returned by list_features"`
}

type globalImportanceInput struct {
	Horizon    int `json:"horizon" jsonschema:"Years after entry at which income is measured (6 or 10)"`
	MaxDisplay int `json:"max_display,omitempty" jsonschema:"Maximum features to return (default 15)"`
}

type rankPredictionsInput struct {
	Horizon int `json:"horizon" jsonschema:"Years after entry at which income is measured (6 or 10)"`
	Limit   int `json:"limit,omitempty" jsonschema:"Maximum schools to return; 0 returns all"`
}

func (s *Server) registerViewTools() error {
	err := addTool(s, &ToolMetadata{
		Name:        "explain_school",
		Description: "Explain one school's predicted income as a baseline plus signed feature contributions, largest first",
		Category:    CategoryViews,
		Keywords:    []string{"waterfall", "shap", "why", "instance"},
	}, func(ctx context.Context, req *mcp.CallToolRequest, args explainSchoolInput) (*mcp.CallToolResult, views.InstanceExplanation, error) {
		return invoke(s, ctx, "explain_school", func(ctx context.Context) (views.InstanceExplanation, error) {
			res, err := s.explainer.Resolve(ctx, views.KindInstance, args.Horizon,
				selection.Params{School: args.School, MaxDisplay: args.MaxDisplay})
			if err != nil {
				return views.InstanceExplanation{}, err
			}
			return *res.Instance, nil
		})
	})
	if err != nil {
		return err
	}

	err = addTool(s, &ToolMetadata{
		Name:        "feature_scatter",
		Description: "Pair one feature's value with its contribution for every school in a horizon",
		Category:    CategoryViews,
		Keywords:    []string{"dependence", "scatter", "shap"},
	}, func(ctx context.Context, req *mcp.CallToolRequest, args featureScatterInput) (*mcp.CallToolResult, views.FeatureScatter, error) {
		return invoke(s, ctx, "feature_scatter", func(ctx context.Context) (views.FeatureScatter, error) {
			res, err := s.explainer.Resolve(ctx, views.KindScatter, args.Horizon,
				selection.Params{Feature: args.Feature})
			if err != nil {
				return views.FeatureScatter{}, err
			}
			return *res.Scatter, nil
		})
	})
	if err != nil {
		return err
	}

	err = addTool(s, &ToolMetadata{
		Name:        "global_importance",
		Description: "Rank features by mean absolute contribution across all schools in a horizon",
		Category:    CategoryViews,
		Keywords:    []string{"importance", "summary", "bar"},
	}, func(ctx context.Context, req *mcp.CallToolRequest, args globalImportanceInput) (*mcp.CallToolResult, views.GlobalImportance, error) {
		return invoke(s, ctx, "global_importance", func(ctx context.Context) (views.GlobalImportance, error) {
			res, err := s.explainer.Resolve(ctx, views.KindImportance, args.Horizon,
				selection.Params{MaxDisplay: args.MaxDisplay})
			if err != nil {
				return views.GlobalImportance{}, err
			}
			return *res.Importance, nil
		})
	})
	if err != nil {
		return err
	}

	return addTool(s, &ToolMetadata{
		Name:        "rank_predictions",
		Description: "Rank schools by predicted income for a horizon, highest first, with observed income when known",
		Category:    CategoryViews,
		Keywords:    []string{"earnings", "ranking", "expected income"},
	}, func(ctx context.Context, req *mcp.CallToolRequest, args rankPredictionsInput) (*mcp.CallToolResult, views.PredictionRanking, error) {
		return invoke(s, ctx, "rank_predictions", func(ctx context.Context) (views.PredictionRanking, error) {
			res, err := s.explainer.Resolve(ctx, views.KindPredictions, args.Horizon,
				selection.Params{Limit: args.Limit})
			if err != nil {
				return views.PredictionRanking{}, err
			}
			return *res.Predictions, nil
		})
	})
}
