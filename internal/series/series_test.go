package series

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/litescript/ls-obstars/internal/catalog"
)

func testStars() []catalog.Star {
	return []catalog.Star{
		{Name: "B1", ColorBucket: catalog.BucketB, HasSpectra: true},
		{Name: "O1", ColorBucket: catalog.BucketO, HasSpectra: false},
		{Name: "B2", ColorBucket: catalog.BucketB, HasSpectra: false},
		{Name: "X1", ColorBucket: "W-type", HasSpectra: true},
		{Name: "O2", ColorBucket: catalog.BucketO, HasSpectra: true},
	}
}

func names(s Series) []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Name
	}
	return out
}

func TestBuild_PartitionFirstSeenOrder(t *testing.T) {
	stars := testStars()
	got := Build(stars, FilterState{})

	wantBuckets := []string{catalog.BucketB, catalog.BucketO, "W-type"}
	var gotBuckets []string
	for _, s := range got {
		gotBuckets = append(gotBuckets, s.Bucket)
	}
	if diff := cmp.Diff(wantBuckets, gotBuckets); diff != "" {
		t.Errorf("bucket order mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"B1", "B2"}, names(got[0])); diff != "" {
		t.Errorf("B-type points mismatch (-want +got):\n%s", diff)
	}

	if Count(got) != len(stars) {
		t.Errorf("Count = %d, want %d", Count(got), len(stars))
	}
}

func TestBuild_Colors(t *testing.T) {
	got := Build(testStars(), FilterState{})
	want := map[string]string{
		catalog.BucketB: "#FF0000",
		catalog.BucketO: "#1000FF",
		"W-type":        "#808080",
	}
	for _, s := range got {
		if s.Color != want[s.Bucket] {
			t.Errorf("%s color = %s, want %s", s.Bucket, s.Color, want[s.Bucket])
		}
	}
}

func TestBuild_OnlyWithSpectra(t *testing.T) {
	stars := testStars()
	got := Build(stars, FilterState{ShowOnlyWithSpectra: true})

	withSpectra := 0
	for _, s := range stars {
		if s.HasSpectra {
			withSpectra++
		}
	}
	if Count(got) != withSpectra {
		t.Errorf("Count = %d, want %d", Count(got), withSpectra)
	}
	for _, s := range got {
		for _, p := range s.Points {
			if !p.HasSpectra {
				t.Errorf("%s has no spectra but passed filter", p.Name)
			}
		}
	}
}

func TestBuild_IdempotentAndPure(t *testing.T) {
	stars := testStars()
	before := testStars()

	a := Build(stars, FilterState{ShowOnlyWithSpectra: true})
	b := Build(stars, FilterState{ShowOnlyWithSpectra: true})

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Build not idempotent (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, stars); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestBuild_Empty(t *testing.T) {
	if got := Build(nil, FilterState{}); len(got) != 0 {
		t.Errorf("Build(nil) = %v, want empty", got)
	}
}

func TestFind(t *testing.T) {
	s := Build(testStars(), FilterState{})

	star, idx, ok := Find(s, "O2")
	if !ok || star.Name != "O2" || s[idx].Bucket != catalog.BucketO {
		t.Errorf("Find(O2) = %+v, %d, %v", star, idx, ok)
	}
	if _, _, ok := Find(s, "nope"); ok {
		t.Error("Find(nope) should fail")
	}
}

func TestFlatten(t *testing.T) {
	got := Flatten(Build(testStars(), FilterState{}))
	want := []string{"B1", "B2", "O1", "O2", "X1"}
	var gotNames []string
	for _, p := range got {
		gotNames = append(gotNames, p.Name)
	}
	if diff := cmp.Diff(want, gotNames); diff != "" {
		t.Errorf("Flatten mismatch (-want +got):\n%s", diff)
	}
}
