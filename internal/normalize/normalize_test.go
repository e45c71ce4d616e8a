package normalize

import "testing"

func TestEmail(t *testing.T) {
	in := "  John.DOE@Example.COM  "
	want := "john.doe@example.com"
	got := Email(in)
	if got != want {
		t.Fatalf("Normalize.Email(%q) = %q, want %q", in, got, want)
	}
}

func TestID(t *testing.T) {
	cases := map[string]string{
		`"66659265189156297298191b"`:  "66659265189156297298191b",
		` 66659265189156297298191b `:  "66659265189156297298191b",
		`66659265189156297298191b`:    "66659265189156297298191b",
		`" 66659265189156297298191b"`: "66659265189156297298191b",
	}
	for in, want := range cases {
		if got := ID(in); got != want {
			t.Fatalf("ID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestText(t *testing.T) {
	in := "  <b>hi</b> & bye  "
	want := "&lt;b&gt;hi&lt;/b&gt; &amp; bye"
	if got := Text(in); got != want {
		t.Fatalf("Text(%q) = %q, want %q", in, got, want)
	}
}
