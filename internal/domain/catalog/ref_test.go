package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyID_Primary(t *testing.T) {
	ref := ClassifyID("66f1a2b3c4d5e6f708192a3b")
	assert.Equal(t, RefPrimary, ref.Kind)
	assert.Equal(t, "66f1a2b3c4d5e6f708192a3b", ref.Raw)
}

func TestClassifyID_PrimaryUppercase(t *testing.T) {
	ref := ClassifyID("66F1A2B3C4D5E6F708192A3B")
	assert.Equal(t, RefPrimary, ref.Kind)
}

func TestClassifyID_Numeric(t *testing.T) {
	ref := ClassifyID("5")
	assert.Equal(t, RefLegacyNumeric, ref.Kind)
	assert.Equal(t, "5", ref.Raw)
	assert.Equal(t, float64(5), ref.Num)
}

func TestClassifyID_NumericFraction(t *testing.T) {
	ref := ClassifyID("5.5")
	assert.Equal(t, RefLegacyNumeric, ref.Kind)
	assert.Equal(t, 5.5, ref.Num)
}

func TestClassifyID_NumericNegative(t *testing.T) {
	ref := ClassifyID("-3")
	assert.Equal(t, RefLegacyNumeric, ref.Kind)
	assert.Equal(t, float64(-3), ref.Num)
}

func TestClassifyID_String(t *testing.T) {
	ref := ClassifyID("BK-GOPL-001")
	assert.Equal(t, RefLegacyString, ref.Kind)
	assert.Equal(t, "BK-GOPL-001", ref.Raw)
}

func TestClassifyID_HexButWrongLength(t *testing.T) {
	// 23 hex chars is not a primary key; it is all letters/digits so it
	// falls through to the legacy string space.
	ref := ClassifyID("66f1a2b3c4d5e6f708192a3")
	assert.Equal(t, RefLegacyString, ref.Kind)
}

func TestClassifyID_24CharsNotHex(t *testing.T) {
	ref := ClassifyID("zzzzzzzzzzzzzzzzzzzzzzzz")
	assert.Equal(t, RefLegacyString, ref.Kind)
}

func TestClassifyID_NumericLooking24Digits(t *testing.T) {
	// 24 decimal digits satisfy the hex shape, so the primary space wins.
	ref := ClassifyID("123456789012345678901234")
	assert.Equal(t, RefPrimary, ref.Kind)
}

func TestClassifyID_NaNAndInf(t *testing.T) {
	// ParseFloat accepts these spellings but they are not catalog ids.
	assert.Equal(t, RefLegacyString, ClassifyID("NaN").Kind)
	assert.Equal(t, RefLegacyString, ClassifyID("Inf").Kind)
	assert.Equal(t, RefLegacyString, ClassifyID("+Inf").Kind)
}

func TestPartition(t *testing.T) {
	refs := []Ref{
		ClassifyID("66f1a2b3c4d5e6f708192a3b"),
		ClassifyID("5"),
		ClassifyID("BK-GOPL-001"),
		ClassifyID("7"),
	}

	primary, numeric, legacy := Partition(refs)
	assert.Equal(t, []string{"66f1a2b3c4d5e6f708192a3b"}, primary)
	assert.Equal(t, []int64{5, 7}, numeric)
	assert.Equal(t, []string{"BK-GOPL-001"}, legacy)
}

func TestPartition_DropsNonIntegerNumerics(t *testing.T) {
	_, numeric, _ := Partition([]Ref{ClassifyID("5.5"), ClassifyID("2")})
	assert.Equal(t, []int64{2}, numeric)
}

func TestPartition_KeepsDuplicates(t *testing.T) {
	_, numeric, _ := Partition([]Ref{ClassifyID("5"), ClassifyID("5")})
	assert.Equal(t, []int64{5, 5}, numeric)
}

func TestPartition_Empty(t *testing.T) {
	primary, numeric, legacy := Partition(nil)
	assert.Empty(t, primary)
	assert.Empty(t, numeric)
	assert.Empty(t, legacy)
}
