package docs

import (
	"bufio"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// listedTopics returns the topics named in the index, in order.
func listedTopics(t *testing.T) []string {
	t.Helper()
	readme, err := GetTopic("")
	if err != nil {
		t.Fatalf("GetTopic(\"\") unexpected error: %v", err)
	}
	item := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	var topics []string
	scanner := bufio.NewScanner(strings.NewReader(readme))
	for scanner.Scan() {
		if m := item.FindStringSubmatch(scanner.Text()); m != nil {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}
	return topics
}

func TestTopics(t *testing.T) {
	listed := listedTopics(t)
	all, err := GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() unexpected error: %v", err)
	}

	sorted := slices.Sorted(slices.Values(listed))
	if !slices.Equal(sorted, all) {
		t.Errorf("the index lists %v, the topic files are %v", sorted, all)
	}
}

func TestTopicHasTitle(t *testing.T) {
	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	md := goldmark.New()
	for _, topic := range all {
		t.Run(topic, func(t *testing.T) {
			content, err := GetTopic(topic)
			if err != nil {
				t.Fatalf("GetTopic(%q) unexpected error: %v", topic, err)
			}
			source := []byte(content)
			doc := md.Parser().Parse(text.NewReader(source))
			h, ok := doc.FirstChild().(*ast.Heading)
			if !ok || h.Level != 1 {
				t.Fatalf("topic %q does not start with a title", topic)
			}
			if got := string(h.Lines().Value(source)); !strings.EqualFold(got, topic) {
				t.Errorf("topic %q is titled %q", topic, got)
			}
		})
	}
}

func TestGetTopic_All(t *testing.T) {
	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	content, err := GetTopic("*")
	if err != nil {
		t.Fatalf("GetTopic(*) unexpected error: %v", err)
	}
	for _, topic := range all {
		one, _ := GetTopic(topic)
		if !strings.Contains(content, one) {
			t.Errorf("GetTopic(*) misses topic %q", topic)
		}
	}
}

func TestGetTopic_Unknown(t *testing.T) {
	if _, err := GetTopic("nope"); err == nil {
		t.Error("GetTopic(nope) succeeded, want an error")
	}
}
