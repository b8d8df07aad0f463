// Package solution описывает генератор решений для обращений пользователей.
package solution

import (
	"context"
	"fmt"

	"github.com/aihelpcenter/helpcenter/internal/models"
)

// Generator формирует решение по тексту обращения и его категории.
type Generator interface {
	Generate(ctx context.Context, content, category string, msgContext map[string]any) (*models.GeneratedSolution, error)
}

// MockGenerator возвращает заготовленный ответ. Используется, пока нет настоящей модели.
type MockGenerator struct{}

// NewMockGenerator создаёт заглушку генератора.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate возвращает фиксированное решение, подставляя категорию и текст обращения.
func (g *MockGenerator) Generate(ctx context.Context, content, category string, _ map[string]any) (*models.GeneratedSolution, error) {
	const op = "solution.MockGenerator.Generate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	return &models.GeneratedSolution{
		Solution: models.Solution{
			Answer: fmt.Sprintf("This is a mock solution for the %s category: %s", category, content),
			Steps: []string{
				"Step 1: Analyze the problem",
				"Step 2: Generate solution",
			},
			References: []string{
				"Documentation reference 1",
				"Documentation reference 2",
			},
		},
		Confidence: 0.85,
		SimilarCases: []models.SimilarCase{
			{ID: "case1", Title: "Similar issue 1", Similarity: 0.75},
			{ID: "case2", Title: "Similar issue 2", Similarity: 0.65},
		},
	}, nil
}
