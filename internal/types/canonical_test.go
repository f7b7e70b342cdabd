package types

import (
	"reflect"
	"testing"
)

func TestPairActivities(t *testing.T) {
	cases := []struct {
		name    string
		teacher []string
		learner []string
		want    [][2]string
	}{
		{
			name:    "equal_lengths",
			teacher: []string{"explain halves", "demonstrate"},
			learner: []string{"listen", "practice"},
			want:    [][2]string{{"explain halves", "listen"}, {"demonstrate", "practice"}},
		},
		{
			name:    "more_teacher_rows",
			teacher: []string{"greet", "model", "summarize"},
			learner: []string{"respond"},
			want:    [][2]string{{"greet", "respond"}, {"model", ""}, {"summarize", ""}},
		},
		{
			name:    "more_learner_rows",
			teacher: []string{"observe"},
			learner: []string{"count beans", "share answers", "record totals"},
			want:    [][2]string{{"observe", "count beans"}, {"", "share answers"}, {"", "record totals"}},
		},
		{
			name:    "both_empty",
			teacher: nil,
			learner: nil,
			want:    [][2]string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PairActivities(tc.teacher, tc.learner)
			wantRows := len(tc.teacher)
			if len(tc.learner) > wantRows {
				wantRows = len(tc.learner)
			}
			if len(got) != wantRows {
				t.Fatalf("row count = %d, want max(%d, %d)", len(got), len(tc.teacher), len(tc.learner))
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("PairActivities(%v, %v) = %v, want %v", tc.teacher, tc.learner, got, tc.want)
			}
		})
	}
}
