package inflect

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"category", "categories"},
		{"box", "boxes"},
		{"user", "users"},
		{"person", "people"},
		{"child", "children"},
		{"day", "days"},
		{"class", "classes"},
		{"church", "churches"},
		{"dish", "dishes"},
		{"buzz", "buzzes"},
		{"quiz", "quizzes"},
		{"bus", "buses"},
		{"status", "statuses"},
		{"gas", "gases"},
		{"knife", "knives"},
		{"leaf", "leaves"},
		{"roof", "roofs"},
		{"potato", "potatoes"},
		{"photo", "photos"},
		{"analysis", "analyses"},
		{"medium", "media"},
		{"index", "indices"},
		{"matrix", "matrices"},
		{"mouse", "mice"},
		{"ox", "oxen"},
		{"octopus", "octopi"},
		{"axis", "axes"},
		{"query", "queries"},
		{"sheep", "sheep"},
		{"news", "news"},
		{"people", "people"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Pluralize(tt.in))
		})
	}
}

func TestPluralizeIdentifiers(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"order_item", "order_items"},
		{"user_category", "user_categories"},
		{"OrderItem", "OrderItems"},
		{"Person", "People"},
		{"Category", "Categories"},
		{"BOX", "BOXES"},
		{"userStatus", "userStatuses"},
		{"shipping-address", "shipping-addresses"},
		{"order_", "order_"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Pluralize(tt.in))
		})
	}
}

func TestPluralizerOptions(t *testing.T) {
	p := NewPluralizer(
		WithIrregular("octopus", "octopodes"),
		WithUncountable("Firmware"),
		WithIrregular("sheep", "sheeps"),
	)

	assert.Equal(t, "octopodes", p.Pluralize("octopus"))
	assert.Equal(t, "firmware", p.Pluralize("firmware"))
	assert.Equal(t, "sheeps", p.Pluralize("sheep"))

	// the default instance is unaffected
	assert.Equal(t, "octopi", Default().Pluralize("octopus"))
	assert.Equal(t, "sheep", Default().Pluralize("sheep"))
}

func TestPluralizeConcurrent(t *testing.T) {
	words := []string{"category", "box", "user", "person", "Status", "order_item"}
	want := make([]string, len(words))
	for i, w := range words {
		want[i] = NewPluralizer().Pluralize(w)
	}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				idx := i % len(words)
				if got := Pluralize(words[idx]); got != want[idx] {
					t.Errorf("Pluralize(%q) = %q, want %q", words[idx], got, want[idx])
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestPluralizeMemoBounded(t *testing.T) {
	p := NewPluralizer()
	last := ""
	for i := 0; i < memoLimit+100; i++ {
		w := fmt.Sprintf("batch%d_job", i)
		if got, want := Pluralize(w), p.Pluralize(w); got != want {
			t.Fatalf("Pluralize(%q) = %q, want %q", w, got, want)
		}
		last = w
	}
	assert.LessOrEqual(t, memoSize.Load(), int64(memoLimit))

	_, cached := memo.Load(last)
	assert.False(t, cached, "words past the cap are not memoized")
	assert.Equal(t, "batch4195_jobs", Pluralize(last))
}
