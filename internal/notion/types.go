package notion

import "encoding/json"

// QueryResult holds every row of a database query, with all pagination
// pages flattened into one ordered list.
type QueryResult struct {
	Pages []Page
}

// queryRequest is the body of the database query endpoint. An empty
// body queries from the start; StartCursor continues a prior page.
type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
}

// queryResponse is one raw response page of the database query endpoint.
type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// Page is one raw database row. Property values stay raw JSON — the
// extractor decodes each one leniently on its own, so one malformed
// property cannot sink the row.
type Page struct {
	ID         string                     `json:"id"`
	Properties map[string]json.RawMessage `json:"properties"`
}

// titleProperty is the shell of a title-type property.
type titleProperty struct {
	Title []struct {
		PlainText *string `json:"plain_text"`
	} `json:"title"`
}

// numberProperty is the shell of a number-type property.
type numberProperty struct {
	Number *float64 `json:"number"`
}

// statusProperty is the shell of a status-type property.
type statusProperty struct {
	Status *struct {
		Name *string `json:"name"`
	} `json:"status"`
}

// formulaProperty is the shell of a formula-type property. Only the
// number and date variants are used by the subscription schema.
type formulaProperty struct {
	Formula *struct {
		Number *float64 `json:"number"`
		Date   *struct {
			Start *string `json:"start"`
		} `json:"date"`
	} `json:"formula"`
}
