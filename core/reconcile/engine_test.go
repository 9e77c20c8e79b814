package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCheck_Consistent(t *testing.T) {
	report := Check([]string{"a", "b"}, []string{"b", "a"}, []string{"a", "b"})

	assert.True(t, report.Consistent())
	for _, s := range report.Sources() {
		assert.True(t, s.Clean(), s.Source)
		assert.Equal(t, 2, s.Total)
	}
	assert.Len(t, report.Results, 2)
	for _, r := range report.Results {
		assert.True(t, r.Complete())
	}
}

// TestCheck_MissingKey covers one store lacking a key the other two have.
func TestCheck_MissingKey(t *testing.T) {
	report := Check([]string{"A", "B"}, []string{"A", "C"}, []string{"A", "B"})

	assert.False(t, report.Consistent())
	assert.Equal(t, []string{"B"}, report.Identifiers.MissingFrom)
	assert.Equal(t, []string{"C"}, report.Identifiers.OnlyIn)
	assert.Equal(t, []string{"C"}, report.Library.MissingFrom)
	assert.Equal(t, []string{"C"}, report.Order.MissingFrom)
	assert.Empty(t, report.Library.OnlyIn)
	assert.Empty(t, report.Order.OnlyIn)
}

func TestCheck_Results(t *testing.T) {
	report := Check([]string{"c", "a"}, []string{"a", "b"}, []string{"a"})

	want := []ReconcileResult{
		{ID: "a", LibraryPresent: true, IdentifiersPresent: true, OrderPresent: true},
		{ID: "b", IdentifiersPresent: true},
		{ID: "c", LibraryPresent: true},
	}
	if diff := cmp.Diff(want, report.Results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
}

func TestCheck_Sets(t *testing.T) {
	tests := []struct {
		name        string
		library     []string
		identifiers []string
		order       []string
		want        Report
	}{
		{
			name:        "only in each",
			library:     []string{"x", "shared"},
			identifiers: []string{"y", "shared"},
			order:       []string{"z", "shared"},
			want: Report{
				Library:     SourceReport{Source: SourceLibrary, Total: 2, MissingFrom: []string{"y", "z"}, OnlyIn: []string{"x"}, Duplicates: []string{}},
				Identifiers: SourceReport{Source: SourceIdentifiers, Total: 2, MissingFrom: []string{"x", "z"}, OnlyIn: []string{"y"}, Duplicates: []string{}},
				Order:       SourceReport{Source: SourceOrder, Total: 2, MissingFrom: []string{"x", "y"}, OnlyIn: []string{"z"}, Duplicates: []string{}},
			},
		},
		{
			name:        "duplicates",
			library:     []string{"a", "a"},
			identifiers: []string{"a"},
			order:       []string{"a", "a", "a"},
			want: Report{
				Library:     SourceReport{Source: SourceLibrary, Total: 2, MissingFrom: []string{}, OnlyIn: []string{}, Duplicates: []string{"a"}},
				Identifiers: SourceReport{Source: SourceIdentifiers, Total: 1, MissingFrom: []string{}, OnlyIn: []string{}, Duplicates: []string{}},
				Order:       SourceReport{Source: SourceOrder, Total: 3, MissingFrom: []string{}, OnlyIn: []string{}, Duplicates: []string{"a"}},
			},
		},
		{
			name: "all empty",
			want: Report{
				Library:     SourceReport{Source: SourceLibrary, MissingFrom: []string{}, OnlyIn: []string{}, Duplicates: []string{}},
				Identifiers: SourceReport{Source: SourceIdentifiers, MissingFrom: []string{}, OnlyIn: []string{}, Duplicates: []string{}},
				Order:       SourceReport{Source: SourceOrder, MissingFrom: []string{}, OnlyIn: []string{}, Duplicates: []string{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.library, tt.identifiers, tt.order)
			if diff := cmp.Diff(tt.want.Sources(), got.Sources()); diff != "" {
				t.Errorf("report mismatch (-want +got):\n%s", diff)
			}
		})
	}

	assert.False(t, Check([]string{"a", "a"}, []string{"a"}, []string{"a"}).Consistent())
	assert.True(t, Check(nil, nil, nil).Consistent())
}
