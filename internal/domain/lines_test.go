package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/msomdec/ricettario/internal/domain"
)

func TestAppendLine(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		input string
		want  []string
	}{
		{"empty list", nil, "mascarpone", []string{"mascarpone"}},
		{"appends at end", []string{"mascarpone"}, "coffee", []string{"mascarpone", "coffee"}},
		{"trims input", []string{"a"}, "  b \t", []string{"a", "b"}},
		{"blank is no-op", []string{"a"}, "", []string{"a"}},
		{"whitespace is no-op", []string{"a", "b"}, "   \n ", []string{"a", "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.AppendLine(tc.lines, tc.input)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("AppendLine mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAppendLine_DoesNotAliasInput(t *testing.T) {
	lines := make([]string, 1, 4)
	lines[0] = "a"

	got := domain.AppendLine(lines, "b")
	got[0] = "changed"

	if lines[0] != "a" {
		t.Fatalf("input slice was mutated: %v", lines)
	}
}

func TestRemoveLine(t *testing.T) {
	original := []string{"mix", "chill", "serve", "eat"}

	for i := range original {
		got := domain.RemoveLine(original, i)
		if len(got) != len(original)-1 {
			t.Fatalf("index %d: expected length %d, got %d", i, len(original)-1, len(got))
		}

		var want []string
		for j, v := range original {
			if j != i {
				want = append(want, v)
			}
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("index %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	if diff := cmp.Diff([]string{"mix", "chill", "serve", "eat"}, original); diff != "" {
		t.Fatalf("original mutated (-want +got):\n%s", diff)
	}
}

func TestRemoveLine_OutOfRange(t *testing.T) {
	lines := []string{"a", "b"}
	for _, idx := range []int{-1, 2, 10} {
		got := domain.RemoveLine(lines, idx)
		if diff := cmp.Diff(lines, got); diff != "" {
			t.Fatalf("index %d: expected unchanged list (-want +got):\n%s", idx, diff)
		}
	}
}
