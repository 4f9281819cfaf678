package markets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_ExactHit(t *testing.T) {
	propType, mapped := Normalize("Passing Yards")
	assert.True(t, mapped, "Canonical label should map")
	assert.Equal(t, "Passing Yards", propType)
}

func TestNormalize_LowercaseHit(t *testing.T) {
	propType, mapped := Normalize("passing yards")
	assert.True(t, mapped, "Lower-cased label should map")
	assert.Equal(t, "Passing Yards", propType)

	propType, mapped = Normalize("rushing yds")
	assert.True(t, mapped, "Abbreviated label should map")
	assert.Equal(t, "Rushing Yards", propType)
}

func TestNormalize_CasingConverges(t *testing.T) {
	upper, _ := Normalize("Passing Yards")
	lower, _ := Normalize("passing yards")
	assert.Equal(t, upper, lower, "Label casing should never split a market")
}

func TestNormalize_OverUnderVariant(t *testing.T) {
	propType, mapped := Normalize("Receptions Over/Under")
	assert.True(t, mapped, "Over/under variant should map")
	assert.Equal(t, "Receptions", propType)

	propType, mapped = Normalize("anytime touchdown yes/no")
	assert.True(t, mapped, "Yes/no variant should map")
	assert.Equal(t, "Anytime Touchdown", propType)
}

func TestNormalize_TokenScan(t *testing.T) {
	propType, mapped := Normalize("Player Points Milestones")
	assert.True(t, mapped, "Token scan should find a dictionary word")
	assert.Equal(t, "Points", propType)
}

func TestNormalize_UnmappedPassthrough(t *testing.T) {
	propType, mapped := Normalize("fourth_quarter_completions_alt")
	assert.False(t, mapped, "Unknown label should be surfaced as unmapped")
	assert.Equal(t, "Fourth Quarter Completions Alt", propType, "Unknown label should be title-cased, not dropped")
}
