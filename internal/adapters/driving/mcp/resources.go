package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "rulebot://"

// registerResources registers the rule and index resources.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "index",
		Name:        "index",
		Description: "Build metadata of the loaded rule index",
		MIMEType:    "application/json",
	}, s.handleIndexResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "rules/{ruleId}",
		Name:        "rule",
		Description: "Full text of one rule, e.g. rulebot://rules/SG1",
		MIMEType:    "text/plain",
	}, s.handleRuleResource)
}

// handleIndexResource returns the index metadata as JSON.
func (s *Server) handleIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	info, err := s.ports.Rules.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling index info: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleRuleResource returns every passage of a rule with its page.
func (s *Server) handleRuleResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	ruleID := extractRuleID(req.Params.URI)
	if ruleID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunks, err := s.ports.Rules.Rule(ctx, ruleID)
	if err != nil {
		return nil, fmt.Errorf("reading rule %s: %w", ruleID, err)
	}

	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s (page %d)\n%s", c.RuleID, c.PageNumber, c.Content)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     b.String(),
		}},
	}, nil
}

// extractRuleID extracts the rule id from rulebot://rules/{ruleId}.
func extractRuleID(uri string) string {
	prefix := uriScheme + "rules/"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}
