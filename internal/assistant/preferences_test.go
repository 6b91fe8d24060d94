package assistant

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPreferenceStore_SetTouchesBothViews(t *testing.T) {
	st := NewPreferenceStore()
	st.Set("Budget", "1000-1500")
	st.Set("Color", "white")

	// Every displayed category must exist in persisted with the same value.
	for _, p := range st.Displayed().Pairs() {
		got, ok := st.Persisted().Get(p.Category)
		assert.True(t, ok, "category %q missing from persisted", p.Category)
		assert.Equal(t, p.Answer, got)
	}
}

func TestPreferenceStore_Overwrite(t *testing.T) {
	st := NewPreferenceStore()
	st.Set("Budget", "<1000")
	st.Set("Budget", "1000-1500")

	assert.Equal(t, 1, st.Persisted().Len())
	answer, _ := st.Persisted().Get("Budget")
	assert.Equal(t, "1000-1500", answer)

	// Overwriting keeps the original insertion position.
	st.Set("Color", "white")
	st.Set("Budget", "<1000")
	want := []Preference{{"Budget", "<1000"}, {"Color", "white"}}
	if diff := cmp.Diff(want, st.Persisted().Pairs()); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestPreferenceStore_RemoveTouchesBothViews(t *testing.T) {
	st := NewPreferenceStore()
	st.Set("Budget", "<1000")
	st.Set("Color", "white")

	st.Remove("Budget")

	_, inPersisted := st.Persisted().Get("Budget")
	_, inDisplayed := st.Displayed().Get("Budget")
	assert.False(t, inPersisted)
	assert.False(t, inDisplayed)
	assert.Equal(t, 1, st.Persisted().Len())
	assert.Equal(t, 1, st.Displayed().Len())
}

func TestPreferenceStore_RemoveMissingIsNoOp(t *testing.T) {
	st := NewPreferenceStore()
	st.Set("Budget", "<1000")

	st.Remove("Brand")

	assert.Equal(t, 1, st.Persisted().Len())
	assert.Equal(t, 1, st.Displayed().Len())
}

func TestPreferenceStore_ClearDisplayedKeepsPersisted(t *testing.T) {
	st := NewPreferenceStore()
	st.Set("Budget", "1000-1500")

	st.ClearDisplayed()

	assert.Zero(t, st.Displayed().Len())
	assert.Equal(t, 1, st.Persisted().Len())
}

func TestPreferenceSet_RenderInsertionOrder(t *testing.T) {
	st := NewPreferenceStore()
	st.Set("Budget", "1000-1500")
	st.Set("Brand", "Lenovo")
	st.Set("Color", "black")

	assert.Equal(t, "Budget: 1000-1500, Brand: Lenovo, Color: black", st.Persisted().Render())
}

func TestPreferenceSet_SnapshotEmptyIsNil(t *testing.T) {
	st := NewPreferenceStore()
	assert.Nil(t, st.Persisted().Snapshot())

	st.Set("Budget", "<1000")
	snap := st.Persisted().Snapshot()
	assert.Equal(t, map[string]string{"Budget": "<1000"}, snap)

	// Snapshot is a copy; mutating it must not leak back.
	snap["Budget"] = "changed"
	answer, _ := st.Persisted().Get("Budget")
	assert.Equal(t, "<1000", answer)
}
