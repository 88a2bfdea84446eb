package reports

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"csdash/internal/tagger"
)

func TestTagSheet(t *testing.T) {
	in := build([]string{"Id", "Note"},
		[]string{"1", "Gate LOCKED, waited"},
		[]string{"2", ""},
		[]string{"3", "all fine"},
	)

	s, err := TagSheet(in, "Note", tagger.Vocabulary{"locked", "waited"}, "Ja", "Nej")
	if err != nil {
		t.Fatalf("TagSheet() error = %v", err)
	}

	if got := column(in, ColKeywords); !cmp.Equal(got, []string{"Ja", "Nej", "Nej"}) {
		t.Errorf("verdicts = %v", got)
	}
	if got := column(in, ColMatchingKeyword); !cmp.Equal(got, []string{"locked, waited", "", ""}) {
		t.Errorf("matched keywords = %v", got)
	}
	want := Summary{Report: Tagged, RowsIn: 3, RowsOut: 3, Matched: 1, Hits: map[string]int{"locked": 1, "waited": 1}}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestTagSheet_MissingColumn(t *testing.T) {
	_, err := TagSheet(build([]string{"Id"}), "Note", nil, "Ja", "Nej")
	if !errors.Is(err, ErrMissingColumns) {
		t.Errorf("error = %v, want ErrMissingColumns", err)
	}
}
