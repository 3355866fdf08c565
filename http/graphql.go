package http

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// GraphQLRequest is the standard GraphQL POST body.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLErrorItem is one error entry from a GraphQL response.
type GraphQLErrorItem struct {
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

// GraphQLError represents a GraphQL response carrying errors. The HTTP
// status was 200; the failure is in the payload.
type GraphQLError struct {
	Service string
	Errors  []GraphQLErrorItem
}

// Error implements the error interface.
func (e *GraphQLError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, item := range e.Errors {
		msgs[i] = item.Message
	}
	return fmt.Sprintf("%s graphql error: %s", e.Service, strings.Join(msgs, "; "))
}

// graphQLEnvelope is the standard GraphQL response shape.
type graphQLEnvelope struct {
	Data   json.RawMessage    `json:"data"`
	Errors []GraphQLErrorItem `json:"errors,omitempty"`
}

// GraphQL executes a query against the client's base URL and unmarshals
// the "data" object into result. Transport failures and HTTP error
// statuses return *APIError; in-payload errors return *GraphQLError.
func (c *Client) GraphQL(ctx context.Context, query string, variables map[string]any, result any) error {
	var envelope graphQLEnvelope
	if err := c.Post(ctx, "", GraphQLRequest{Query: query, Variables: variables}, &envelope); err != nil {
		return err
	}

	if len(envelope.Errors) > 0 {
		return &GraphQLError{Service: c.serviceName, Errors: envelope.Errors}
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return fmt.Errorf("decode %s graphql data: %w", c.serviceName, err)
	}
	return nil
}
