package ai

import "fmt"

const cleaningPromptTemplate = `Analyze this dataset and provide cleaning recommendations as valid JSON.

Dataset Context:
%s

User Context: %s

Return ONLY a JSON object with this structure:
{
  "missing_data_strategy": {"column_name": {"action": "fill_with_median", "reasoning": "explanation"}},
  "outlier_strategy": {"column_name": {"action": "cap", "reasoning": "explanation"}},
  "type_conversions": {"column_name": {"target_type": "numeric", "reasoning": "explanation"}},
  "general_recommendations": ["recommendation1", "recommendation2"]
}

Available actions for missing data: fill_with_median, fill_with_mean, fill_with_mode, custom_value, leave_empty, drop_column
Available actions for outliers: cap, remove, keep
Available target types: datetime, categorical, numeric`

const insightsPromptTemplate = `Analyze this dataset and recommend the most insightful visualizations as valid JSON.

Dataset: %s

If the user context mentions any plot or relation between variables, include that plot for sure. Focus on the user context and prioritize it.
User Context: %s

Return ONLY a JSON object with this structure:
{
  "recommended_plots": [
    {
      "plot_type": "correlation|distribution|scatter|box|bar|line|heatmap",
      "columns": ["col1", "col2"],
      "title": "Plot Title",
      "description": "Why this plot is useful for this specific dataset",
      "priority": "high|medium|low"
    }
  ],
  "key_insights_to_explore": ["insight1", "insight2"],
  "suggested_groupings": ["col1 by col2"]
}

Focus on the most relevant visualizations for this specific dataset and user context.`

// CleaningPrompt builds the cleaning-strategy prompt
func CleaningPrompt(datasetContext, userContext string) string {
	return fmt.Sprintf(cleaningPromptTemplate, datasetContext, userContext)
}

// InsightsPrompt builds the visualization-recommendation prompt
func InsightsPrompt(datasetContext, userContext string) string {
	return fmt.Sprintf(insightsPromptTemplate, datasetContext, userContext)
}
