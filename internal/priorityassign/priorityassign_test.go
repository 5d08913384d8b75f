package priorityassign

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odin-labs/pjs/internal/jsonpath"
	"github.com/odin-labs/pjs/internal/priority"
	"github.com/odin-labs/pjs/internal/value"
)

// TestS1SmallObject mirrors spec.md's S1 scenario: {"id":1,"name":"Alice",
// "logs":["a","b","c"]}.
func TestS1SmallObject(t *testing.T) {
	cfg := DefaultConfig()

	idPath, _ := jsonpath.Parse("/id")
	assert.Equal(t, priority.Critical, Assign(idPath, value.Int(1), nil, cfg))

	namePath, _ := jsonpath.Parse("/name")
	assert.Equal(t, priority.High, Assign(namePath, value.String("Alice"), nil, cfg))

	logsArr := value.Array(value.String("a"), value.String("b"), value.String("c"))
	log0Path, _ := jsonpath.Parse("/logs/0")
	assert.Equal(t, priority.Background, Assign(log0Path, value.String("a"), logsArr, cfg))
}

// TestS3MetaFieldsAreLow mirrors spec.md's S3 scenario: /meta/a and /meta/b
// resolve to Low via the ancestor field "meta", enabling subtree folding.
func TestS3MetaFieldsAreLow(t *testing.T) {
	cfg := DefaultConfig()

	pathA, _ := jsonpath.Parse("/meta/a")
	assert.Equal(t, priority.Low, Assign(pathA, value.Int(1), nil, cfg))

	pathB, _ := jsonpath.Parse("/meta/b")
	assert.Equal(t, priority.Low, Assign(pathB, value.Int(2), nil, cfg))
}

// TestS4LargeArrayDowngradesElementsNotArray mirrors spec.md's S4 scenario:
// a 150-element array under "values" downgrades its elements one tier,
// leaving the array node itself (had one existed as a distinct frame
// target) untouched.
func TestS4LargeArrayDowngradesElementsNotArray(t *testing.T) {
	cfg := DefaultConfig()

	elems := make([]*value.Data, 150)
	for i := range elems {
		elems[i] = value.Int(int64(i))
	}
	arr := value.Array(elems...)

	elemPath, _ := jsonpath.Parse("/values/0")
	assert.Equal(t, priority.Low, Assign(elemPath, elems[0], arr, cfg), "elements of an oversized array downgrade one tier from Medium")
}

func TestLowPatternsCheckedBeforeBackground(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LowPatterns = []string{"stats"}
	cfg.BackgroundPatterns = []string{"stats"}

	p, _ := jsonpath.Parse("/stats/count")
	assert.Equal(t, priority.Low, Assign(p, value.Int(1), nil, cfg))
}

func TestLargeStringDowngradesOneTier(t *testing.T) {
	cfg := DefaultConfig()
	long := strings.Repeat("x", cfg.LargeStringThreshold+1)

	p, _ := jsonpath.Parse("/name")
	assert.Equal(t, priority.TierDown(priority.High), Assign(p, value.String(long), nil, cfg))
}

func TestDefaultMediumWhenNoRuleMatches(t *testing.T) {
	cfg := DefaultConfig()
	p, _ := jsonpath.Parse("/widgets/count")
	assert.Equal(t, priority.Medium, Assign(p, value.Int(1), nil, cfg))
}
