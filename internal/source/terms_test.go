package source

import "testing"

func TestTermVariants(t *testing.T) {
	got := termVariants("Go")
	if !containsTerm(got, "golang") {
		t.Fatalf("expected golang among variants of Go, got %v", got)
	}

	// Reverse lookup: an alias resolves back to its canonical form.
	got = termVariants("golang")
	if !containsTerm(got, "go") {
		t.Fatalf("expected go among variants of golang, got %v", got)
	}

	if got := termVariants("  "); got != nil {
		t.Fatalf("expected nil for blank skill, got %v", got)
	}
}

func TestDeriveTechStack_Aliases(t *testing.T) {
	got := deriveTechStack([]string{"Go", "Kubernetes"}, "Golang services on k8s")
	if len(got) != 2 || got[0] != "Go" || got[1] != "Kubernetes" {
		t.Fatalf("expected alias spellings to count, got %v", got)
	}
}

func TestDeriveTechStack_WordBoundaries(t *testing.T) {
	got := deriveTechStack([]string{"Go"}, "Google Cloud architect")
	if len(got) != 0 {
		t.Fatalf("go must not match inside google, got %v", got)
	}
}

func TestFoldText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Senior Go Engineer", "senior go engineer"},
		{"C++ / C# developer", "c++ c# developer"},
		{"Node.js,  React!", "node js react"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := foldText(tt.in); got != tt.want {
			t.Fatalf("foldText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func containsTerm(terms []string, want string) bool {
	for _, s := range terms {
		if s == want {
			return true
		}
	}
	return false
}
