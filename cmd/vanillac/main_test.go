package main

import "testing"

func TestArtifactPath(t *testing.T) {
	cases := map[[2]string]string{
		{"prog.vn", ".lex"}:          "prog.vn.lex",
		{"dir/sub/prog.vn", ".json"}: "dir/sub/prog.vn.json",
	}
	for in, want := range cases {
		if got := artifactPath(in[0], in[1]); got != want {
			t.Errorf("artifactPath(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}
