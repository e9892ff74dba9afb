// ABOUTME: MCP resource implementations for dailylog.
// ABOUTME: Provides dailylog://suggestions, dailylog://users, and dailylog://today resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/dailylog/internal/models"
)

const (
	suggestionsURI = "dailylog://suggestions"
	usersURI       = "dailylog://users"
	todayURI       = "dailylog://today"
)

func (s *Server) registerResources() {
	// dailylog://suggestions - Food and workout suggestion catalogs
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         suggestionsURI,
		Name:        "Suggestions",
		Description: "Food and workout suggestions to offer when composing meals and workouts",
		MIMEType:    "application/json",
	}, s.handleSuggestionsResource)

	// dailylog://users - Every user with their goals
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         usersURI,
		Name:        "Users",
		Description: "All users and their daily goals",
		MIMEType:    "application/json",
	}, s.handleUsersResource)

	// dailylog://today - Each user's progress for the current UTC day
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Progress",
		Description: "Running totals for every user for the current UTC day",
		MIMEType:    "application/json",
	}, s.handleTodayResource)
}

// Resource handlers

func (s *Server) handleSuggestionsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sug, err := s.tracker.ListSuggestions()
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	return jsonResource(suggestionsURI, sug)
}

func (s *Server) handleUsersResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	users, err := s.tracker.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return jsonResource(usersURI, map[string]interface{}{"users": users})
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return s.todayResource(time.Now())
}

func (s *Server) todayResource(now time.Time) (*mcp.ReadResourceResult, error) {
	users, err := s.tracker.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	type userDay struct {
		Username string         `json:"username"`
		Progress progressOutput `json:"progress"`
	}
	days := []userDay{}
	for _, u := range users {
		p, err := s.tracker.GetDailyProgress(u.ID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to get progress for %s: %w", u.Username, err)
		}
		days = append(days, userDay{Username: u.Username, Progress: toProgressOutput(p)})
	}

	return jsonResource(todayURI, map[string]interface{}{
		"date":  models.DayKey(now),
		"users": days,
	})
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
