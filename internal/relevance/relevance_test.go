package relevance

import (
	"math"
	"testing"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

func TestIsRelevant(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		content string
		want    bool
	}{
		{"exact phrase", "machine learning", "Intro to Machine Learning", true},
		{"single term", "artificial intelligence", "Intelligence agencies of the world", true},
		{"case insensitive", "AMERICAN", "the american revolution", true},
		{"no match", "database", "French Revolution", false},
		{"empty query", "   ", "anything", false},
		{"substring of word", "tech", "Technology review", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRelevant(tt.query, tt.content); got != tt.want {
				t.Errorf("IsRelevant(%q, %q) = %v, want %v", tt.query, tt.content, got, tt.want)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	hits := []domain.Hit{
		{ID: "1", Content: "Military aircraft of WWII"},
		{ID: "2", Content: "Cooking pasta"},
		{ID: "3", Content: "Civil aircraft registry"},
	}
	rep := Analyze("military aircraft", hits)

	if rep.Total != 3 || rep.Relevant != 2 {
		t.Fatalf("expected 2/3, got %d/%d", rep.Relevant, rep.Total)
	}
	if !rep.Marks[0] || rep.Marks[1] || !rep.Marks[2] {
		t.Errorf("unexpected marks: %v", rep.Marks)
	}
	if math.Abs(rep.Percent()-66.666) > 0.01 {
		t.Errorf("unexpected percent %v", rep.Percent())
	}
}

func TestAnalyze_Empty(t *testing.T) {
	rep := Analyze("x", nil)
	if rep.Total != 0 || rep.Percent() != 0 {
		t.Errorf("unexpected report: %+v", rep)
	}
}

func TestSpeedRatio(t *testing.T) {
	if got := SpeedRatio(120, 4); got != 30 {
		t.Errorf("expected 30, got %v", got)
	}
	if got := SpeedRatio(120, 0); got != 0 {
		t.Errorf("expected 0 for zero baseline, got %v", got)
	}
}
