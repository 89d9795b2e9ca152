package core

import "testing"

func TestDetectHint(t *testing.T) {
	cases := map[string]Hint{
		"https://example.com/path":                            HintURL,
		"sudo apt update && sudo apt upgrade":                 HintCommand,
		"package main\n\nfunc main() { println(\"hi\") }":     HintCode,
		"groceries: milk, eggs":                               HintText,
		"https://example.com is where the docs live, see it": HintText,
	}
	for in, want := range cases {
		if got := DetectHint(in); got != want {
			t.Errorf("DetectHint(%q) = %s, want %s", in, got, want)
		}
	}
}
