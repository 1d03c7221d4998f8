package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHidden(t *testing.T) {
	got := []HiddenField{Hidden(" field_2 ", 1), Hidden("field_3", "on")}
	want := []HiddenField{{Name: "field_2", Value: "1"}, {Name: "field_3", Value: "on"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
}
