// Package openapi generates the OpenAPI 3.1 description of the profiling
// service.
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Generate builds the OpenAPI document for the service at baseURL.
func Generate(version, baseURL string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "tabscan API",
			Description: "Dataset profiling and quality scoring over uploaded CSV data.",
			Version:     version,
		},
		Servers: openapi3.Servers{
			{URL: baseURL},
		},
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}
	components.SecuritySchemes = openapi3.SecuritySchemes{
		"apiKey": &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{
				Type: "apiKey",
				In:   "header",
				Name: "X-API-Key",
			},
		},
	}
	doc.Components = &components

	components.Schemas["ErrorResponse"] = objectSchema(map[string]*openapi3.SchemaRef{
		"error": objectSchema(map[string]*openapi3.SchemaRef{
			"code":    intSchema("HTTP status code"),
			"message": strSchema("Human-readable error description"),
		}),
	})
	components.Schemas["Flags"] = flagsSchema()
	components.Schemas["QualityResponse"] = objectSchema(map[string]*openapi3.SchemaRef{
		"ok_for_model":  boolSchema("Whether the dataset passes the modeling gate (score > 0.5)"),
		"quality_score": numSchema("Composite quality score in [0, 1]"),
		"flags":         refSchema("Flags"),
		"latency_ms":    numSchema("Analysis wall time in milliseconds"),
	})
	components.Schemas["ColumnRecord"] = objectSchema(map[string]*openapi3.SchemaRef{
		"name":            strSchema("Column name"),
		"dtype_category":  strSchema("numeric, categorical, or other"),
		"n_missing":       intSchema("Missing entries"),
		"n_unique":        intSchema("Distinct non-missing values"),
		"min":             numSchema("Minimum (numeric columns, absent when all values missing)"),
		"max":             numSchema("Maximum"),
		"mean":            numSchema("Arithmetic mean"),
		"std":             numSchema("Sample standard deviation"),
		"top_value":       strSchema("Most frequent value (categorical columns)"),
		"top_value_count": intSchema("Frequency of the top value"),
	})

	doc.Paths = openapi3.NewPaths()
	doc.Paths.Set("/healthz", &openapi3.PathItem{
		Get: newOperation("health", "Liveness probe", false),
	})
	doc.Paths.Set("/api/v1/quality", &openapi3.PathItem{
		Post: newOperation("qualityEstimate",
			"Estimate dataset quality from shape parameters alone (no data upload)", true),
	})
	doc.Paths.Set("/api/v1/quality/csv", &openapi3.PathItem{
		Post: newCSVOperation("qualityFromCSV", "Score an uploaded CSV dataset"),
	})
	doc.Paths.Set("/api/v1/quality/flags", &openapi3.PathItem{
		Post: newCSVOperation("qualityFlags", "Quality flags for an uploaded CSV dataset"),
	})
	doc.Paths.Set("/api/v1/summary", &openapi3.PathItem{
		Post: newCSVOperation("summary", "Per-column descriptive statistics"),
	})
	doc.Paths.Set("/api/v1/missing", &openapi3.PathItem{
		Post: newCSVOperation("missing", "Per-column missing-value report"),
	})
	doc.Paths.Set("/api/v1/correlation", &openapi3.PathItem{
		Post: newCSVOperation("correlation", "Pairwise Pearson correlation over numeric columns"),
	})
	doc.Paths.Set("/api/v1/categories", &openapi3.PathItem{
		Post: newCSVOperation("categories", "Top value frequencies per categorical column"),
	})

	return doc
}

func newOperation(id, summary string, hasJSONBody bool) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	if hasJSONBody {
		body := openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchema(openapi3.NewObjectSchema())
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	}
	addStandardResponses(op)
	return op
}

func newCSVOperation(id, summary string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.Content{
			"text/csv": openapi3.NewMediaType().WithSchema(openapi3.NewStringSchema()),
			"multipart/form-data": openapi3.NewMediaType().WithSchema(
				openapi3.NewObjectSchema().WithProperty("file", openapi3.NewStringSchema().WithFormat("binary")),
			),
		})
	op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	addStandardResponses(op)
	return op
}

func addStandardResponses(op *openapi3.Operation) {
	op.Responses = openapi3.NewResponses()
	op.Responses.Set("200", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Successful analysis"),
	})
	op.Responses.Set("400", &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription("Invalid dataset or parameters").
			WithJSONSchemaRef(refSchema("ErrorResponse")),
	})
}

func flagsSchema() *openapi3.SchemaRef {
	return objectSchema(map[string]*openapi3.SchemaRef{
		"too_few_rows":         boolSchema("Row count below the configured minimum"),
		"too_many_columns":     boolSchema("Column count above the configured maximum"),
		"too_many_missing":     boolSchema("Some column exceeds the missing-share threshold"),
		"max_missing_share":    numSchema("Largest per-column missing share"),
		"has_constant_columns": boolSchema("Some column has a single distinct non-missing value"),
		"has_many_zero_values": boolSchema("Some numeric column is predominantly zero"),
		"quality_score":        numSchema("Composite score in [0, 1]"),
	})
}

func objectSchema(props map[string]*openapi3.SchemaRef) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:       &openapi3.Types{"object"},
		Properties: props,
	}}
}

func strSchema(desc string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Description: desc}}
}

func intSchema(desc string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Description: desc}}
}

func numSchema(desc string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"number"}, Description: desc}}
}

func boolSchema(desc string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"boolean"}, Description: desc}}
}

func refSchema(name string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name}
}
